package asgs

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"
)

// ReadFeatureCollection parses a GeoJSON feature collection from disk.
func ReadFeatureCollection(path string) (*geojson.FeatureCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "asgs: read GeoJSON %s", path)
	}

	var fc geojson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, eris.Wrapf(err, "asgs: parse GeoJSON %s", path)
	}
	return &fc, nil
}

// ReadGeoJSON reads a GeoJSON boundary file and returns one Region per
// feature, using the dataset's attribute field names. ABS GeoJSON exports
// spell the vintage suffix out ("SAL_CODE_2021" rather than the dBase
// "SAL_CODE21"), so both spellings are tried before a field is treated
// as absent.
func ReadGeoJSON(path string, ds Dataset) ([]Region, error) {
	fc, err := ReadFeatureCollection(path)
	if err != nil {
		return nil, err
	}

	var regions []Region
	var dropped int
	for _, f := range fc.Features {
		r := Region{
			Code:  propString(f.Properties, ds.CodeField),
			Name:  propString(f.Properties, ds.NameField),
			Geom:  f.Geometry,
			State: propString(f.Properties, ds.StateField),
		}
		if r.Code == "" {
			dropped++
			continue
		}
		if ds.AreaField != "" {
			r.AreaSqKm = propFloat(f.Properties, ds.AreaField)
		}
		regions = append(regions, r)
	}

	if dropped > 0 {
		zap.L().Warn("asgs: dropped GeoJSON features without codes",
			zap.String("dataset", string(ds.Type)),
			zap.Int("dropped", dropped),
		)
	}

	return regions, nil
}

// propString extracts a string property, trying the dBase spelling first and
// the long-form "_2021" spelling second.
func propString(props map[string]interface{}, field string) string {
	if field == "" {
		return ""
	}
	for _, key := range []string{field, longForm(field)} {
		switch v := props[key].(type) {
		case string:
			return strings.TrimSpace(v)
		case float64:
			// Numeric region codes decoded from JSON.
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

// propFloat extracts a numeric property under the same spelling fallback.
func propFloat(props map[string]interface{}, field string) float64 {
	for _, key := range []string{field, longForm(field)} {
		switch v := props[key].(type) {
		case float64:
			return v
		case string:
			return parseFloatOr(v, 0)
		}
	}
	return 0
}

// longForm rewrites a dBase-truncated 2021 field name to the GeoJSON spelling,
// e.g. "SAL_CODE21" -> "SAL_CODE_2021".
func longForm(field string) string {
	if strings.HasSuffix(field, "21") && !strings.HasSuffix(field, "_2021") {
		return strings.TrimSuffix(field, "21") + "_2021"
	}
	return field
}
