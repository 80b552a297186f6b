package asgs

import (
	"os"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
)

// ReadShapefile reads an ABS boundary shapefile and returns one Region per
// record. Records whose geometry is absent are kept with a nil Geom so that
// downstream consumers can decide how to report them; records missing the
// identifying code are dropped.
func ReadShapefile(path string, ds Dataset) ([]Region, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, eris.Wrapf(err, "asgs: shapefile %s", path)
	}

	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "asgs: open shapefile %s", path)
	}
	defer func() { _ = reader.Close() }()

	codeIdx := fieldIndex(reader, ds.CodeField)
	nameIdx := fieldIndex(reader, ds.NameField)
	if codeIdx < 0 || nameIdx < 0 {
		return nil, eris.Errorf("asgs: shapefile %s missing fields %s/%s", path, ds.CodeField, ds.NameField)
	}
	stateIdx := -1
	if ds.StateField != "" {
		stateIdx = fieldIndex(reader, ds.StateField)
	}
	areaIdx := -1
	if ds.AreaField != "" {
		areaIdx = fieldIndex(reader, ds.AreaField)
	}

	var regions []Region
	var dropped int
	for reader.Next() {
		_, shape := reader.Shape()

		r := Region{
			Code: attribute(reader, codeIdx),
			Name: attribute(reader, nameIdx),
		}
		if r.Code == "" {
			dropped++
			continue
		}
		if stateIdx >= 0 {
			r.State = attribute(reader, stateIdx)
		}
		if areaIdx >= 0 {
			r.AreaSqKm = parseFloatOr(attribute(reader, areaIdx), 0)
		}
		if shape != nil {
			r.Geom = shapeToMultiPolygon(shape)
		}

		regions = append(regions, r)
	}

	if dropped > 0 {
		zap.L().Warn("asgs: dropped shapefile records without codes",
			zap.String("dataset", string(ds.Type)),
			zap.Int("dropped", dropped),
		)
	}

	zap.L().Info("asgs: shapefile loaded",
		zap.String("dataset", string(ds.Type)),
		zap.String("path", path),
		zap.Int("regions", len(regions)),
	)

	return regions, nil
}

// fieldIndex returns the index of a named field in the shapefile, or -1 if not found.
func fieldIndex(reader *shp.Reader, name string) int {
	for i, f := range reader.Fields() {
		if strings.EqualFold(strings.TrimRight(f.String(), "\x00"), name) {
			return i
		}
	}
	return -1
}

// attribute reads and trims a dBase attribute value.
func attribute(reader *shp.Reader, idx int) string {
	return strings.TrimSpace(strings.TrimRight(reader.Attribute(idx), "\x00"))
}

// shapeToMultiPolygon converts a shapefile Shape to a geom.MultiPolygon.
// Shapefile ring winding carries the structure: clockwise parts are shells,
// counter-clockwise parts are holes of the preceding shell. Returns nil for
// non-polygonal or empty shapes.
func shapeToMultiPolygon(s shp.Shape) geom.T {
	p, ok := s.(*shp.Polygon)
	if !ok || p.NumParts == 0 || len(p.Points) == 0 {
		return nil
	}

	mp := geom.NewMultiPolygon(geom.XY).SetSRID(srid)
	var cur *geom.Polygon

	flush := func() {
		if cur == nil || cur.NumLinearRings() == 0 {
			return
		}
		if err := mp.Push(cur); err != nil {
			zap.L().Debug("asgs: skipping malformed polygon part", zap.Error(err))
		}
	}

	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		var end int32
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		} else {
			end = int32(len(p.Points))
		}

		flat := make([]float64, 0, (end-start)*2)
		for j := start; j < end; j++ {
			flat = append(flat, p.Points[j].X, p.Points[j].Y)
		}

		// A hole ring arriving before any shell starts its own polygon.
		if cur == nil || signedArea(flat) < 0 {
			flush()
			cur = geom.NewPolygon(geom.XY)
		}
		if err := cur.Push(geom.NewLinearRingFlat(geom.XY, flat)); err != nil {
			zap.L().Debug("asgs: skipping malformed polygon ring", zap.Int32("part", i), zap.Error(err))
			continue
		}
	}
	flush()

	if mp.NumPolygons() == 0 {
		return nil
	}
	return mp
}

// signedArea returns the shoelace signed area of a closed ring in flat XY
// coordinates; positive means counter-clockwise winding.
func signedArea(flat []float64) float64 {
	var sum float64
	for i := 0; i+3 < len(flat); i += 2 {
		sum += flat[i]*flat[i+3] - flat[i+2]*flat[i+1]
	}
	return sum / 2
}
