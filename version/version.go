// Package version carries the build version, set at link time with
// -ldflags "-X github.com/mapsqr/maps-location-qr/version.VERSION=...".
package version

var VERSION = "dev"
