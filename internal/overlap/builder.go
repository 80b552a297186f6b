// Package overlap computes region-to-region spatial containment relationships:
// for every pair of intersecting regions it records the fraction of the source
// region's area covered by the target region.
package overlap

import (
	sf "github.com/peterstace/simplefeatures/geom"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/wkb"
	"go.uber.org/zap"

	"github.com/ausgeo/ausgeo-cli/internal/asgs"
)

// progressInterval controls how often the builder logs progress, in source
// regions processed.
const progressInterval = 100

// Record relates a source region to a target region it spatially intersects.
// OverlapPct is area(intersection)/area(source)*100, in [0, 100].
type Record struct {
	SourceCode string  `csv:"source_code" json:"source_code"`
	SourceName string  `csv:"source_name" json:"source_name"`
	State      string  `csv:"state" json:"state,omitempty"`
	TargetCode string  `csv:"target_code" json:"target_code"`
	TargetName string  `csv:"target_name" json:"target_name"`
	OverlapPct float64 `csv:"overlap_pct" json:"overlap_pct"`
}

// prepared carries a region's exact geometry and its envelope, used to
// pre-filter pairs before the exact intersection test.
type prepared struct {
	region asgs.Region
	g      sf.Geometry
	env    sf.Envelope
	area   float64
}

// Build computes relationship records for every intersecting (source, target)
// pair. Both collections must already be in the same coordinate reference
// system. Regions with nil or invalid geometry are skipped and contribute no
// records; a failed intersection computation skips only that pair. Records
// are emitted in source-major, target-minor input order.
func Build(sources, targets []asgs.Region) []Record {
	log := zap.L().With(zap.String("component", "overlap.builder"))

	prep := make([]prepared, 0, len(targets))
	for _, t := range targets {
		p, err := prepare(t)
		if err != nil {
			log.Debug("skipping target region",
				zap.String("code", t.Code),
				zap.String("name", t.Name),
				zap.Error(err),
			)
			continue
		}
		prep = append(prep, p)
	}

	var records []Record
	for i, s := range sources {
		if i%progressInterval == 0 {
			log.Info("computing overlaps",
				zap.Int("processed", i),
				zap.Int("total", len(sources)),
			)
		}

		src, err := prepare(s)
		if err != nil {
			log.Warn("skipping source region",
				zap.String("code", s.Code),
				zap.String("name", s.Name),
				zap.Error(err),
			)
			continue
		}

		for _, tgt := range prep {
			// Envelope check is a cheap pre-filter only; the exact
			// predicate below decides whether the pair qualifies.
			if !src.env.Intersects(tgt.env) {
				continue
			}
			if !sf.Intersects(src.g, tgt.g) {
				continue
			}

			inter, err := sf.Intersection(src.g, tgt.g)
			if err != nil {
				log.Warn("overlap computation failed",
					zap.String("source_code", src.region.Code),
					zap.String("target_code", tgt.region.Code),
					zap.Error(err),
				)
				continue
			}

			records = append(records, Record{
				SourceCode: src.region.Code,
				SourceName: src.region.Name,
				State:      src.region.State,
				TargetCode: tgt.region.Code,
				TargetName: tgt.region.Name,
				OverlapPct: inter.Area() / src.area * 100,
			})
		}
	}

	log.Info("overlap build complete",
		zap.Int("sources", len(sources)),
		zap.Int("records", len(records)),
	)

	return records
}

// prepare converts a region's geometry to its exact form and validates it.
// The WKB round trip bridges the shapefile geometry model to the exact
// geometry engine; unmarshalling validates topology.
func prepare(r asgs.Region) (prepared, error) {
	if r.Geom == nil {
		return prepared{}, eris.New("overlap: missing geometry")
	}

	data, err := wkb.Marshal(r.Geom, wkb.NDR)
	if err != nil {
		return prepared{}, eris.Wrap(err, "overlap: encode geometry")
	}

	g, err := sf.UnmarshalWKB(data)
	if err != nil {
		return prepared{}, eris.Wrap(err, "overlap: invalid geometry")
	}

	area := g.Area()
	if area <= 0 {
		return prepared{}, eris.New("overlap: degenerate geometry with zero area")
	}

	return prepared{region: r, g: g, env: g.Envelope(), area: area}, nil
}
