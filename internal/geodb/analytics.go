package geodb

import (
	"sort"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/ausgeo/ausgeo-cli/internal/asgs"
)

// notInAnySUA is the residual row the urban-area tables carry for territory
// outside every Significant Urban Area.
const notInAnySUA = "Not in any Significant Urban Area"

// StatePopulation aggregates the suburb-level table for one state.
type StatePopulation struct {
	State      string `csv:"state" json:"state"`
	Suburbs    int    `csv:"suburbs" json:"suburbs"`
	Population int    `csv:"population" json:"population"`
}

// CityComparison is a side-by-side row for urban areas.
type CityComparison struct {
	Code       string  `csv:"code" json:"code"`
	Name       string  `csv:"name" json:"name"`
	Population int     `csv:"population" json:"population"`
	AreaSqKm   float64 `csv:"area_sqkm" json:"area_sqkm"`
	Density    float64 `csv:"density_per_sqkm" json:"density_per_sqkm"`
	Suburbs    int     `csv:"suburbs" json:"suburbs"`
}

// CoverageReport summarises how much of a state's suburb population falls
// inside a Significant Urban Area.
type CoverageReport struct {
	State              string  `csv:"state" json:"state"`
	Suburbs            int     `csv:"suburbs" json:"suburbs"`
	UrbanSuburbs       int     `csv:"urban_suburbs" json:"urban_suburbs"`
	Population         int     `csv:"population" json:"population"`
	UrbanPopulation    int     `csv:"urban_population" json:"urban_population"`
	UrbanPopulationPct float64 `csv:"urban_population_pct" json:"urban_population_pct"`
}

// DemographicSummary is the headline view of a suburb's census profile.
type DemographicSummary struct {
	Code       string `json:"code"`
	Name       string `json:"name,omitempty"`
	State      string `json:"state,omitempty"`
	Total      int    `json:"total"`
	Male       int    `json:"male"`
	Female     int    `json:"female"`
	Children   int    `json:"children"`
	WorkingAge int    `json:"working_age"`
	Seniors    int    `json:"seniors"`

	Breakdown Breakdown `json:"breakdown"`
}

// PopulationByState sums the suburb table per state. Each suburb counts
// once, keyed by code, so duplicate rows in the source data cannot inflate
// the totals. The result is ordered by population descending.
func (db *Database) PopulationByState() ([]StatePopulation, error) {
	rows, err := db.salTable()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(rows))
	totals := make(map[string]*StatePopulation)
	for _, r := range rows {
		code := normalizeSALCode(r.Code)
		if seen[code] {
			continue
		}
		seen[code] = true
		sp := totals[r.State]
		if sp == nil {
			sp = &StatePopulation{State: r.State}
			totals[r.State] = sp
		}
		sp.Suburbs++
		sp.Population += r.Demo["total"].Total
	}

	states := make([]StatePopulation, 0, len(totals))
	for _, sp := range totals {
		states = append(states, *sp)
	}
	sort.SliceStable(states, func(i, j int) bool {
		if states[i].Population != states[j].Population {
			return states[i].Population > states[j].Population
		}
		return states[i].State < states[j].State
	})
	return states, nil
}

// CompareCities builds a comparison row per named urban area. Every name
// must resolve.
func (db *Database) CompareCities(cities []string) ([]CityComparison, error) {
	if len(cities) == 0 {
		return nil, eris.New("geodb: at least one city is required")
	}
	rows, err := db.suaTable()
	if err != nil {
		return nil, err
	}

	comparisons := make([]CityComparison, 0, len(cities))
	for _, city := range cities {
		var found *suaRow
		for i := range rows {
			if rows[i].Name == city || rows[i].Code == city {
				found = &rows[i]
				break
			}
		}
		if found == nil {
			return nil, eris.Wrapf(ErrNotFound, "urban area %q", city)
		}
		c := CityComparison{
			Code:       found.Code,
			Name:       found.Name,
			Population: found.Population,
			AreaSqKm:   found.AreaSqKm,
		}
		if found.AreaSqKm > 0 {
			c.Density = float64(found.Population) / found.AreaSqKm
		}
		if suburbs, err := db.RegionsWithin(found.Code, asgs.SAL, DefaultMinOverlap); err == nil {
			c.Suburbs = len(suburbs)
		}
		comparisons = append(comparisons, c)
	}
	return comparisons, nil
}

// FindSuburbsByName returns suburbs whose name contains the pattern,
// case-insensitively, optionally restricted to one state. The match order
// follows the relationship table.
func (db *Database) FindSuburbsByName(pattern, state string) ([]Area, error) {
	if pattern == "" {
		return nil, eris.New("geodb: search pattern is required")
	}
	records, err := db.relationshipTable(asgs.SAL)
	if err != nil {
		return nil, err
	}

	want := strings.ToLower(pattern)
	seen := make(map[string]bool)
	var matches []Area
	for _, r := range records {
		if seen[r.SourceCode] || !strings.Contains(strings.ToLower(r.SourceName), want) {
			continue
		}
		if state != "" && r.State != state {
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
		matches = append(matches, a)
	}
	return matches, nil
}

// UrbanCoverage reports, per state, the share of suburb population living
// inside a Significant Urban Area. A suburb counts as urban when its best
// container is a real urban area rather than the residual row.
func (db *Database) UrbanCoverage() ([]CoverageReport, error) {
	records, err := db.relationshipTable(asgs.SAL)
	if err != nil {
		return nil, err
	}

	// Best container per suburb; the residual row loses any tie.
	type best struct {
		state   string
		urban   bool
		overlap float64
	}
	bests := make(map[string]*best)
	for _, r := range records {
		code := normalizeSALCode(r.SourceCode)
		b := bests[code]
		if b == nil {
			b = &best{state: r.State, overlap: -1}
			bests[code] = b
		}
		urban := r.TargetName != notInAnySUA
		if r.OverlapPct > b.overlap || (r.OverlapPct == b.overlap && urban && !b.urban) {
			b.overlap = r.OverlapPct
			b.urban = urban
		}
	}

	totals := make(map[string]*CoverageReport)
	for code, b := range bests {
		cr := totals[b.state]
		if cr == nil {
			cr = &CoverageReport{State: b.state}
			totals[b.state] = cr
		}
		pop, _ := db.populationByCode(code, asgs.SAL)
		cr.Suburbs++
		cr.Population += pop
		if b.urban {
			cr.UrbanSuburbs++
			cr.UrbanPopulation += pop
		}
	}

	reports := make([]CoverageReport, 0, len(totals))
	for _, cr := range totals {
		if cr.Population > 0 {
			cr.UrbanPopulationPct = float64(cr.UrbanPopulation) / float64(cr.Population) * 100
		}
		reports = append(reports, *cr)
	}
	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].State < reports[j].State
	})
	return reports, nil
}

// SuburbDemographics resolves a suburb by name or code and returns its
// headline census profile.
func (db *Database) SuburbDemographics(nameOrCode string) (DemographicSummary, error) {
	code, err := db.resolveRegion(nameOrCode, asgs.SAL)
	if err != nil {
		// Codes work without a relationship table; fall back to a
		// direct lookup before giving up.
		if row, rowErr := db.salByCode(nameOrCode); rowErr == nil {
			return db.summarize(row, ""), nil
		}
		return DemographicSummary{}, err
	}

	row, err := db.salByCode(code)
	if err != nil {
		return DemographicSummary{}, err
	}
	return db.summarize(row, db.suburbNames()[normalizeSALCode(code)]), nil
}

func (db *Database) summarize(row salRow, name string) DemographicSummary {
	s := DemographicSummary{
		Code:      row.Code,
		Name:      name,
		State:     row.State,
		Total:     row.Demo["total"].Total,
		Male:      row.Demo["total"].Male,
		Female:    row.Demo["total"].Female,
		Breakdown: row.Demo,
	}
	for _, age := range AgeGroups {
		n := row.Demo[age].Total
		switch age {
		case "0_4", "5_14":
			s.Children += n
		case "65_74", "75_84", "85ov":
			s.Seniors += n
		default:
			s.WorkingAge += n
		}
	}
	return s
}
