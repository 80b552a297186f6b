package geodb

import (
	"math"
	"sort"

	"github.com/rotisserie/eris"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/ausgeo/ausgeo-cli/internal/asgs"
)

// SuburbDistance is a suburb with an estimated distance from the centre of
// its containing urban area. The estimate is derived from overlap: a suburb
// fully inside the urban area sits near the centre, a barely overlapping one
// near the edge.
type SuburbDistance struct {
	Code       string  `csv:"code" json:"code"`
	Name       string  `csv:"name" json:"name"`
	State      string  `csv:"state" json:"state,omitempty"`
	OverlapPct float64 `csv:"overlap_pct" json:"overlap_pct"`
	Population int     `csv:"population" json:"population,omitempty"`
	DistanceKm float64 `csv:"distance_km" json:"distance_km"`
}

var nameCollator = collate.New(language.English, collate.Loose)

// SuburbsInCity returns the suburbs contained in the named urban area,
// largest population first, ties broken by name.
func (db *Database) SuburbsInCity(city string) ([]Area, error) {
	areas, err := db.RegionsWithin(city, asgs.SAL, DefaultMinOverlap)
	if err != nil {
		return nil, err
	}
	sortAreas(areas)
	return areas, nil
}

// MajorCities returns urban areas with population at or above the threshold,
// largest first. The residual "Not in any Significant Urban Area" row the
// source tables carry is excluded.
func (db *Database) MajorCities(minPopulation int) ([]Area, error) {
	rows, err := db.suaTable()
	if err != nil {
		return nil, err
	}
	var cities []Area
	for _, r := range rows {
		if r.Population < minPopulation || r.Name == notInAnySUA {
			continue
		}
		cities = append(cities, Area{
			Code:       r.Code,
			Name:       r.Name,
			OverlapPct: 100,
			Population: r.Population,
		})
	}
	sortAreas(cities)
	return cities, nil
}

// LargestSuburbs returns the n most populous suburbs, optionally restricted
// to one state. Names come from the relationship table when it has been
// built; suburbs absent from it keep an empty name.
func (db *Database) LargestSuburbs(n int, state string) ([]Area, error) {
	if n <= 0 {
		return nil, eris.Errorf("geodb: suburb count must be positive, got %d", n)
	}
	rows, err := db.salTable()
	if err != nil {
		return nil, err
	}
	names := db.suburbNames()

	var suburbs []Area
	for _, r := range rows {
		if state != "" && r.State != state {
			continue
		}
		suburbs = append(suburbs, Area{
			Code:       r.Code,
			Name:       names[normalizeSALCode(r.Code)],
			State:      r.State,
			Population: r.Demo["total"].Total,
		})
	}
	sortAreas(suburbs)
	if len(suburbs) > n {
		suburbs = suburbs[:n]
	}
	return suburbs, nil
}

// SuburbsByDistance returns suburbs overlapping the named urban area within
// an estimated maxKm of its centre. sortBy is "distance" (default) or
// "population".
func (db *Database) SuburbsByDistance(city string, maxKm float64, sortBy string) ([]SuburbDistance, error) {
	if maxKm <= 0 {
		return nil, eris.Errorf("geodb: distance must be positive, got %g km", maxKm)
	}

	suaCode, err := db.resolveSUA(city)
	if err != nil {
		return nil, err
	}
	records, err := db.relationshipTable(asgs.SAL)
	if err != nil {
		return nil, err
	}

	radius := db.suaRadiusKm(suaCode)

	var suburbs []SuburbDistance
	for _, r := range records {
		// Suburbs that only share a border with the urban area appear in
		// the table with a zero overlap; they are not inside it.
		if r.TargetCode != suaCode || r.OverlapPct <= 0 {
			continue
		}
		s := SuburbDistance{
			Code:       r.SourceCode,
			Name:       r.SourceName,
			State:      r.State,
			OverlapPct: r.OverlapPct,
		}
		if radius > 0 {
			s.DistanceKm = radius * (1 - r.OverlapPct/100)
			if s.DistanceKm > maxKm {
				continue
			}
		} else {
			// No area available for the urban area; fall back to an
			// overlap threshold that loosens with distance.
			threshold := math.Max(1, 100-5*maxKm)
			if r.OverlapPct < threshold {
				continue
			}
		}
		if pop, ok := db.populationByCode(r.SourceCode, asgs.SAL); ok {
			s.Population = pop
		}
		suburbs = append(suburbs, s)
	}

	switch sortBy {
	case "population":
		sort.SliceStable(suburbs, func(i, j int) bool {
			return suburbs[i].Population > suburbs[j].Population
		})
	default:
		sort.SliceStable(suburbs, func(i, j int) bool {
			if suburbs[i].DistanceKm != suburbs[j].DistanceKm {
				return suburbs[i].DistanceKm < suburbs[j].DistanceKm
			}
			return nameCollator.CompareString(suburbs[i].Name, suburbs[j].Name) < 0
		})
	}
	return suburbs, nil
}

// SuburbsInState returns every suburb recorded for a state, largest first.
// Suburbs appearing against multiple urban areas are reported once.
func (db *Database) SuburbsInState(state string) ([]Area, error) {
	if state == "" {
		return nil, eris.New("geodb: state is required")
	}
	records, err := db.relationshipTable(asgs.SAL)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var suburbs []Area
	for _, r := range records {
		if r.State != state || seen[r.SourceCode] {
			continue
		}
		seen[r.SourceCode] = true
		a := Area{
			Code:  r.SourceCode,
			Name:  r.SourceName,
			State: r.State,
		}
		if pop, ok := db.populationByCode(r.SourceCode, asgs.SAL); ok {
			a.Population = pop
		}
		suburbs = append(suburbs, a)
	}
	sortAreas(suburbs)
	return suburbs, nil
}

// suburbNames builds a code->name index from the relationship table.
// Missing tables are tolerated; the index is simply empty.
func (db *Database) suburbNames() map[string]string {
	records, err := db.relationshipTable(asgs.SAL)
	if err != nil {
		return nil
	}
	names := make(map[string]string, len(records))
	for _, r := range records {
		names[normalizeSALCode(r.SourceCode)] = r.SourceName
	}
	return names
}

// suaRadiusKm approximates an urban area's radius from its land area,
// treating it as a disc. Returns 0 when the area is unknown.
func (db *Database) suaRadiusKm(code string) float64 {
	rows, err := db.suaTable()
	if err != nil {
		return 0
	}
	for _, r := range rows {
		if r.Code == code && r.AreaSqKm > 0 {
			return math.Sqrt(r.AreaSqKm / math.Pi)
		}
	}
	return 0
}

// sortAreas orders by population descending, then name.
func sortAreas(areas []Area) {
	sort.SliceStable(areas, func(i, j int) bool {
		if areas[i].Population != areas[j].Population {
			return areas[i].Population > areas[j].Population
		}
		return nameCollator.CompareString(areas[i].Name, areas[j].Name) < 0
	})
}
