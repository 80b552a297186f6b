package geodb

import (
	"sort"

	"github.com/rotisserie/eris"

	"github.com/ausgeo/ausgeo-cli/internal/asgs"
)

// DefaultMinOverlap is the containment threshold (percent, inclusive) used
// when callers pass a non-positive value.
const DefaultMinOverlap = 50.0

// Area is a region returned by containment queries, with population joined
// on where the attribute table has a matching row.
type Area struct {
	Code       string  `csv:"code" json:"code"`
	Name       string  `csv:"name" json:"name"`
	State      string  `csv:"state" json:"state,omitempty"`
	OverlapPct float64 `csv:"overlap_pct" json:"overlap_pct"`
	Population int     `csv:"population" json:"population,omitempty"`
}

// Container is an urban area that contains (by overlap threshold) a smaller
// region.
type Container struct {
	Code       string  `csv:"code" json:"code"`
	Name       string  `csv:"name" json:"name"`
	OverlapPct float64 `csv:"overlap_pct" json:"overlap_pct"`
	Population int     `csv:"population" json:"population,omitempty"`
}

// GetPopulation returns the population of the named area. The identifier is
// matched exactly against the geography type's name or code column; for
// suburb-level lookups the code is accepted with or without the "SAL" prefix.
// Returns ErrNotFound when no row matches.
func (db *Database) GetPopulation(nameOrCode string, gt asgs.GeoType) (int, error) {
	switch gt {
	case asgs.SUA:
		rows, err := db.suaTable()
		if err != nil {
			return 0, err
		}
		for _, r := range rows {
			if r.Name == nameOrCode || r.Code == nameOrCode {
				return r.Population, nil
			}
		}
		return 0, eris.Wrapf(ErrNotFound, "urban area %q", nameOrCode)

	case asgs.LGA:
		rows, err := db.lgaTable()
		if err != nil {
			return 0, err
		}
		for _, r := range rows {
			if r.Name == nameOrCode || r.Code == nameOrCode {
				return r.Population, nil
			}
		}
		return 0, eris.Wrapf(ErrNotFound, "local government area %q", nameOrCode)

	case asgs.SAL:
		row, err := db.salByCode(nameOrCode)
		if err != nil {
			return 0, err
		}
		return row.Demo["total"].Total, nil
	}

	return 0, eris.Wrapf(ErrUnsupported, "population lookup for %q", gt)
}

// salByCode resolves a suburb demographic row by code, prefix-insensitively.
func (db *Database) salByCode(code string) (salRow, error) {
	rows, err := db.salTable()
	if err != nil {
		return salRow{}, err
	}
	want := normalizeSALCode(code)
	for _, r := range rows {
		if normalizeSALCode(r.Code) == want {
			return r, nil
		}
	}
	return salRow{}, eris.Wrapf(ErrNotFound, "suburb code %q", code)
}

// RegionsWithin returns all regions of the given geography type inside the
// named urban area, filtered to overlap >= minOverlap (inclusive; default 50)
// and ordered as built. Population is joined on by code where the attribute
// table has it; a missed join leaves the field zero rather than failing the
// query. An unknown container name is an error.
func (db *Database) RegionsWithin(container string, gt asgs.GeoType, minOverlap float64) ([]Area, error) {
	if minOverlap <= 0 {
		minOverlap = DefaultMinOverlap
	}

	suaCode, err := db.resolveSUA(container)
	if err != nil {
		return nil, err
	}

	records, err := db.relationshipTable(gt)
	if err != nil {
		return nil, err
	}

	var areas []Area
	for _, r := range records {
		if r.TargetCode != suaCode || r.OverlapPct < minOverlap {
			continue
		}
		a := Area{
			Code:       r.SourceCode,
			Name:       r.SourceName,
			State:      r.State,
			OverlapPct: r.OverlapPct,
		}
		if pop, ok := db.populationByCode(r.SourceCode, gt); ok {
			a.Population = pop
		}
		areas = append(areas, a)
	}
	return areas, nil
}

// ContainerFor returns the urban areas containing the named region, best
// (highest overlap) first, filtered to overlap >= minOverlap (inclusive).
// The region itself must resolve; an unknown name or code is an error.
func (db *Database) ContainerFor(nameOrCode string, gt asgs.GeoType, minOverlap float64) ([]Container, error) {
	if minOverlap <= 0 {
		minOverlap = DefaultMinOverlap
	}

	code, err := db.resolveRegion(nameOrCode, gt)
	if err != nil {
		return nil, err
	}

	records, err := db.relationshipTable(gt)
	if err != nil {
		return nil, err
	}

	var containers []Container
	for _, r := range records {
		if r.SourceCode != code || r.OverlapPct < minOverlap {
			continue
		}
		c := Container{
			Code:       r.TargetCode,
			Name:       r.TargetName,
			OverlapPct: r.OverlapPct,
		}
		if pop, err := db.GetPopulation(r.TargetCode, asgs.SUA); err == nil {
			c.Population = pop
		}
		containers = append(containers, c)
	}

	sort.SliceStable(containers, func(i, j int) bool {
		return containers[i].OverlapPct > containers[j].OverlapPct
	})
	return containers, nil
}

// resolveSUA maps an urban area name (or code) to its code. Resolve-style:
// a missing entity is an error, not an empty result.
func (db *Database) resolveSUA(nameOrCode string) (string, error) {
	rows, err := db.suaTable()
	if err != nil {
		return "", err
	}
	for _, r := range rows {
		if r.Name == nameOrCode || r.Code == nameOrCode {
			return r.Code, nil
		}
	}
	return "", eris.Wrapf(ErrNotFound, "urban area %q", nameOrCode)
}

// resolveRegion maps a region name or code to the code used in the
// relationship table for its geography type.
func (db *Database) resolveRegion(nameOrCode string, gt asgs.GeoType) (string, error) {
	switch gt {
	case asgs.LGA:
		rows, err := db.lgaTable()
		if err != nil {
			return "", err
		}
		for _, r := range rows {
			if r.Name == nameOrCode || r.Code == nameOrCode {
				return r.Code, nil
			}
		}
		return "", eris.Wrapf(ErrNotFound, "local government area %q", nameOrCode)

	case asgs.SAL, asgs.SA2:
		records, err := db.relationshipTable(gt)
		if err != nil {
			return "", err
		}
		want := nameOrCode
		if gt == asgs.SAL {
			want = normalizeSALCode(nameOrCode)
		}
		for _, r := range records {
			if r.SourceCode == want || r.SourceName == nameOrCode {
				return r.SourceCode, nil
			}
		}
		return "", eris.Wrapf(ErrNotFound, "%s region %q", gt, nameOrCode)
	}

	return "", eris.Wrapf(ErrUnsupported, "container lookup for %q", gt)
}

// populationByCode is the best-effort attribute join used by containment
// queries. Lookup misses and missing attribute tables are not errors.
func (db *Database) populationByCode(code string, gt asgs.GeoType) (int, bool) {
	switch gt {
	case asgs.SAL:
		row, err := db.salByCode(code)
		if err != nil {
			return 0, false
		}
		return row.Demo["total"].Total, true
	case asgs.LGA:
		rows, err := db.lgaTable()
		if err != nil {
			return 0, false
		}
		for _, r := range rows {
			if r.Code == code {
				return r.Population, true
			}
		}
	case asgs.SUA:
		rows, err := db.suaTable()
		if err != nil {
			return 0, false
		}
		for _, r := range rows {
			if r.Code == code {
				return r.Population, true
			}
		}
	}
	return 0, false
}

// PopulationBreakdown returns the full age-group x gender mapping for a
// suburb. Only the suburb-level table carries demographic columns; other
// geography types yield ErrUnsupported.
func (db *Database) PopulationBreakdown(code string, gt asgs.GeoType) (Breakdown, error) {
	if gt != asgs.SAL {
		return nil, eris.Wrapf(ErrUnsupported, "demographic breakdown for %q", gt)
	}
	row, err := db.salByCode(code)
	if err != nil {
		return nil, err
	}
	return row.Demo, nil
}

// AgeGroupBreakdown returns one age band's gender counts for a suburb.
func (db *Database) AgeGroupBreakdown(code string, gt asgs.GeoType, ageGroup string) (GenderCounts, error) {
	b, err := db.PopulationBreakdown(code, gt)
	if err != nil {
		return GenderCounts{}, err
	}
	counts, ok := b[ageGroup]
	if !ok {
		return GenderCounts{}, eris.Errorf("geodb: unknown age group %q", ageGroup)
	}
	return counts, nil
}

// GenderBreakdown returns one gender's count per age band for a suburb.
func (db *Database) GenderBreakdown(code string, gt asgs.GeoType, gender string) (map[string]int, error) {
	b, err := db.PopulationBreakdown(code, gt)
	if err != nil {
		return nil, err
	}
	out := make(map[string]int, len(b))
	for age, counts := range b {
		v, err := counts.ByGender(gender)
		if err != nil {
			return nil, err
		}
		out[age] = v
	}
	return out, nil
}

// BreakdownValue returns the single demographic cell selected by both
// filters.
func (db *Database) BreakdownValue(code string, gt asgs.GeoType, ageGroup, gender string) (int, error) {
	counts, err := db.AgeGroupBreakdown(code, gt, ageGroup)
	if err != nil {
		return 0, err
	}
	return counts.ByGender(gender)
}
