// Package geotag reads the GPS position embedded in an image's EXIF block.
package geotag

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/rwcarlsen/goexif/exif"
)

// ErrMissingGeolocation covers every image we cannot place on a map:
// no EXIF block, no GPS IFD, or incomplete latitude/longitude tags.
var ErrMissingGeolocation = errors.New("image has no embedded geolocation")

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Extract decodes the EXIF metadata in data and returns its GPS coordinates.
func Extract(data []byte) (Location, error) {
	if len(data) == 0 {
		return Location{}, ErrMissingGeolocation
	}

	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil && x == nil {
		return Location{}, fmt.Errorf("%w: %v", ErrMissingGeolocation, err)
	}

	lat, lng, err := x.LatLong()
	if err != nil {
		return Location{}, fmt.Errorf("%w: %v", ErrMissingGeolocation, err)
	}

	if math.IsNaN(lat) || math.IsNaN(lng) || math.Abs(lat) > 90 || math.Abs(lng) > 180 {
		return Location{}, fmt.Errorf("%w: coordinates out of range", ErrMissingGeolocation)
	}

	return Location{Latitude: lat, Longitude: lng}, nil
}

// MapsURL links to a Google Maps search pinned at loc.
func MapsURL(loc Location) string {
	return "https://www.google.com/maps/search/?api=1&query=" +
		strconv.FormatFloat(loc.Latitude, 'f', -1, 64) + "," +
		strconv.FormatFloat(loc.Longitude, 'f', -1, 64)
}
