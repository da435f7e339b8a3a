package geotag

import (
	"errors"
	"testing"

	"reuniteme/pkg/geotag/geotagtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_NorthEast(t *testing.T) {
	t.Parallel()

	data := geotagtest.TIFF("N", geotagtest.DMS{40, 26, 46}, "E", geotagtest.DMS{79, 58, 56})

	loc, err := Extract(data)
	require.NoError(t, err)
	assert.InDelta(t, 40.446111, loc.Latitude, 1e-5)
	assert.InDelta(t, 79.982222, loc.Longitude, 1e-5)
}

func TestExtract_SouthWest(t *testing.T) {
	t.Parallel()

	data := geotagtest.TIFF("S", geotagtest.DMS{33, 51, 0}, "W", geotagtest.DMS{70, 30, 0})

	loc, err := Extract(data)
	require.NoError(t, err)
	assert.InDelta(t, -33.85, loc.Latitude, 1e-6)
	assert.InDelta(t, -70.5, loc.Longitude, 1e-6)
}

func TestExtract_NoExif(t *testing.T) {
	t.Parallel()

	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

	cases := map[string][]byte{
		"empty":   nil,
		"garbage": []byte("definitely not an image"),
		"png":     png,
	}

	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Extract(data)
			assert.True(t, errors.Is(err, ErrMissingGeolocation), "got %v", err)
		})
	}
}

func TestMapsURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		"https://www.google.com/maps/search/?api=1&query=12.5,-3.25",
		MapsURL(Location{Latitude: 12.5, Longitude: -3.25}))

	// no exponent form near the equator and meridian
	assert.Equal(t,
		"https://www.google.com/maps/search/?api=1&query=0.00001,-0.000005",
		MapsURL(Location{Latitude: 0.00001, Longitude: -0.000005}))
}
