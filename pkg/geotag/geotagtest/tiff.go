// Package geotagtest builds tiny geotagged images for tests.
package geotagtest

import (
	"bytes"
	"encoding/binary"
)

// DMS is a coordinate as whole degrees, minutes and seconds.
type DMS [3]uint32

// TIFF returns a minimal little-endian TIFF whose IFD0 points at a GPS IFD
// holding latitude and longitude as degree/minute/second rationals.
func TIFF(latRef string, lat DMS, lngRef string, lng DMS) []byte {
	const (
		ifd0Offset   = 8
		gpsOffset    = ifd0Offset + 2 + 12 + 4  // 26
		latDataStart = gpsOffset + 2 + 4*12 + 4 // 80
		lngDataStart = latDataStart + 24        // 104
	)

	le := binary.LittleEndian
	buf := &bytes.Buffer{}
	w := func(v any) {
		// writes to a bytes.Buffer cannot fail
		_ = binary.Write(buf, le, v)
	}

	// header
	buf.WriteString("II")
	w(uint16(42))
	w(uint32(ifd0Offset))

	// IFD0: GPSInfoIFDPointer
	w(uint16(1))
	w(uint16(0x8825))
	w(uint16(4)) // LONG
	w(uint32(1))
	w(uint32(gpsOffset))
	w(uint32(0))

	ascii := func(tag uint16, ref string) {
		w(tag)
		w(uint16(2)) // ASCII
		w(uint32(2))
		var val [4]byte
		copy(val[:], ref)
		buf.Write(val[:])
	}
	rat := func(tag uint16, offset uint32) {
		w(tag)
		w(uint16(5)) // RATIONAL
		w(uint32(3))
		w(offset)
	}

	// GPS IFD
	w(uint16(4))
	ascii(0x0001, latRef)
	rat(0x0002, latDataStart)
	ascii(0x0003, lngRef)
	rat(0x0004, lngDataStart)
	w(uint32(0))

	for _, part := range [][3]uint32{lat, lng} {
		for _, v := range part {
			w(v)
			w(uint32(1))
		}
	}

	return buf.Bytes()
}
