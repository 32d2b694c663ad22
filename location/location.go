// Package location holds the coordinate value object shared by the terminal
// and browser flows, and the formatter that turns it into a map query URL.
package location

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
)

const (
	MinLatitude  = -90.0
	MaxLatitude  = 90.0
	MinLongitude = -180.0
	MaxLongitude = 180.0
)

var (
	ErrNotNumeric = errors.New("coordinates are not numbers")
	ErrOutOfRange = errors.New("coordinates out of range")
)

// Coordinate is a latitude/longitude pair in decimal degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Validate reports whether both values are within geographic bounds. NaN and
// infinities are rejected.
func (c Coordinate) Validate() error {
	if !(c.Latitude >= MinLatitude && c.Latitude <= MaxLatitude) {
		return errors.Wrapf(ErrOutOfRange, "latitude %s", FormatDegrees(c.Latitude))
	}
	if !(c.Longitude >= MinLongitude && c.Longitude <= MaxLongitude) {
		return errors.Wrapf(ErrOutOfRange, "longitude %s", FormatDegrees(c.Longitude))
	}
	return nil
}

func (c Coordinate) String() string {
	return FormatDegrees(c.Latitude) + "," + FormatDegrees(c.Longitude)
}

// Parse turns raw user input into a validated Coordinate. The returned error
// has ErrNotNumeric or ErrOutOfRange as its cause.
func Parse(latitude, longitude string) (Coordinate, error) {
	lat, err := cast.ToFloat64E(strings.TrimSpace(latitude))
	if err != nil {
		return Coordinate{}, errors.Wrapf(ErrNotNumeric, "latitude %q", latitude)
	}
	lon, err := cast.ToFloat64E(strings.TrimSpace(longitude))
	if err != nil {
		return Coordinate{}, errors.Wrapf(ErrNotNumeric, "longitude %q", longitude)
	}
	c := Coordinate{Latitude: lat, Longitude: lon}
	if err := c.Validate(); err != nil {
		return Coordinate{}, err
	}
	return c, nil
}

// Message returns the text shown to the user for a Parse or Validate error.
func Message(err error) string {
	switch errors.Cause(err) {
	case ErrNotNumeric:
		return "Please enter valid numbers for coordinates."
	case ErrOutOfRange:
		return fmt.Sprintf("Invalid coordinates! Latitude must be between %g and %g, longitude between %g and %g.",
			MinLatitude, MaxLatitude, MinLongitude, MaxLongitude)
	default:
		return err.Error()
	}
}
