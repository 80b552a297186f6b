package asgs

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"
)

// srid is EPSG:7844 (GDA2020), the datum of the 2021 ASGS boundary releases.
const srid = 7844

// EncodeWKB converts a geometry to EWKB bytes, preserving its SRID.
// Returns nil, nil for nil geometries.
func EncodeWKB(g geom.T) ([]byte, error) {
	if g == nil {
		return nil, nil
	}
	data, err := ewkb.Marshal(g, ewkb.NDR)
	if err != nil {
		return nil, eris.Wrap(err, "asgs: encode WKB")
	}
	return data, nil
}

// DecodeWKB converts EWKB bytes back to a geometry. Returns nil, nil for
// empty input, mirroring EncodeWKB.
func DecodeWKB(data []byte) (geom.T, error) {
	if len(data) == 0 {
		return nil, nil
	}
	g, err := ewkb.Unmarshal(data)
	if err != nil {
		return nil, eris.Wrap(err, "asgs: decode WKB")
	}
	return g, nil
}

// parseFloatOr parses a string as a float64, returning def if parsing fails.
func parseFloatOr(s string, def float64) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return v
}
