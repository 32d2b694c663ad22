// Package integration runs the maps-location-qr binary found in $PATH as a
// black box. Build and install it first:
//
//   go install . && go test -v ./integration/...
//
// `go test` flags supported:
//
//   -debug
//
//    Forward the binary's output to the test output.
//
// The tests are skipped with -short or when the binary is not installed.
//
package integration
