package geodb

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ausgeo/ausgeo-cli/internal/asgs"
	"github.com/ausgeo/ausgeo-cli/internal/overlap"
)

const suaFixture = `SUA code,Significant Urban Area,Population,Area_sqkm
1030,Sydney,4920970,2037.4
1007,Ballarat,113358,98.1
1999,Not in any Significant Urban Area,750000,500000
`

const lgaFixture = `LGA code,Local Government Area,population
10050,Albury,56093
18400,Sydney,211632
`

// newFixtureDB lays out a data directory with attribute tables and a
// suburb-to-urban-area relationship table covering the interesting cases:
// full containment, the exact threshold, a just-under-threshold border
// suburb, and the residual non-urban row.
func newFixtureDB(t *testing.T) *Database {
	t.Helper()
	dir := t.TempDir()

	popDir := filepath.Join(dir, "Population")
	require.NoError(t, os.MkdirAll(popDir, 0o755))
	for name, content := range map[string]string{
		"sua_population.csv": suaFixture,
		"lga_population.csv": lgaFixture,
		"sal_population.csv": delimitedSAL,
	} {
		require.NoError(t, os.WriteFile(filepath.Join(popDir, name), []byte(content), 0o644))
	}

	records := []overlap.Record{
		{SourceCode: "11344", SourceName: "Kirribilli", State: "New South Wales", TargetCode: "1030", TargetName: "Sydney", OverlapPct: 100},
		{SourceCode: "11345", SourceName: "North Sydney", State: "New South Wales", TargetCode: "1030", TargetName: "Sydney", OverlapPct: 50},
		{SourceCode: "11346", SourceName: "Border Town", State: "New South Wales", TargetCode: "1030", TargetName: "Sydney", OverlapPct: 49.9},
		{SourceCode: "11346", SourceName: "Border Town", State: "New South Wales", TargetCode: "1999", TargetName: "Not in any Significant Urban Area", OverlapPct: 50.1},
		{SourceCode: "20001", SourceName: "Ballarat Central", State: "Victoria", TargetCode: "1007", TargetName: "Ballarat", OverlapPct: 80},
	}
	path := filepath.Join(dir, "Relationships", overlap.TableFile(asgs.SAL, asgs.SUA))
	require.NoError(t, overlap.WriteTable(path, records))

	return New(dir)
}

func TestGetPopulation(t *testing.T) {
	db := newFixtureDB(t)

	tests := []struct {
		name       string
		nameOrCode string
		gt         asgs.GeoType
		want       int
	}{
		{"sua by name", "Sydney", asgs.SUA, 4920970},
		{"sua by code", "1007", asgs.SUA, 113358},
		{"lga by name", "Albury", asgs.LGA, 56093},
		{"lga by code", "18400", asgs.LGA, 211632},
		{"sal bare code", "11344", asgs.SAL, 3042},
		{"sal prefixed code", "SAL11344", asgs.SAL, 3042},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := db.GetPopulation(tt.nameOrCode, tt.gt)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetPopulation_NotFound(t *testing.T) {
	db := newFixtureDB(t)

	for _, gt := range []asgs.GeoType{asgs.SUA, asgs.LGA, asgs.SAL} {
		_, err := db.GetPopulation("Atlantis", gt)
		require.ErrorIs(t, err, ErrNotFound, string(gt))
	}
}

func TestGetPopulation_UnsupportedType(t *testing.T) {
	db := newFixtureDB(t)

	_, err := db.GetPopulation("anything", asgs.SA2)
	require.ErrorIs(t, err, ErrUnsupported)
}

func TestRegionsWithin(t *testing.T) {
	db := newFixtureDB(t)

	areas, err := db.RegionsWithin("Sydney", asgs.SAL, 50)
	require.NoError(t, err)
	require.Len(t, areas, 2, "overlap just under the threshold is excluded")

	assert.Equal(t, "11344", areas[0].Code)
	assert.Equal(t, "Kirribilli", areas[0].Name)
	assert.Equal(t, 3042, areas[0].Population)

	assert.Equal(t, "11345", areas[1].Code)
	assert.Equal(t, 50.0, areas[1].OverlapPct, "threshold is inclusive")
	assert.Equal(t, 5100, areas[1].Population)
}

func TestRegionsWithin_DefaultThreshold(t *testing.T) {
	db := newFixtureDB(t)

	areas, err := db.RegionsWithin("Sydney", asgs.SAL, 0)
	require.NoError(t, err)
	assert.Len(t, areas, 2)
}

func TestRegionsWithin_LowThresholdIncludesBorder(t *testing.T) {
	db := newFixtureDB(t)

	areas, err := db.RegionsWithin("Sydney", asgs.SAL, 40)
	require.NoError(t, err)
	require.Len(t, areas, 3)
	assert.Equal(t, "11346", areas[2].Code)
	assert.Zero(t, areas[2].Population, "missing attribute rows leave population zero")
}

func TestRegionsWithin_UnknownContainer(t *testing.T) {
	db := newFixtureDB(t)

	_, err := db.RegionsWithin("Atlantis", asgs.SAL, 50)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRegionsWithin_MissingRelationshipTable(t *testing.T) {
	dir := t.TempDir()
	popDir := filepath.Join(dir, "Population")
	require.NoError(t, os.MkdirAll(popDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(popDir, "sua_population.csv"), []byte(suaFixture), 0o644))

	_, err := New(dir).RegionsWithin("Sydney", asgs.SAL, 50)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "build it first")
}

func TestContainerFor(t *testing.T) {
	db := newFixtureDB(t)

	containers, err := db.ContainerFor("SAL11344", asgs.SAL, 50)
	require.NoError(t, err)
	require.Len(t, containers, 1)
	assert.Equal(t, "Sydney", containers[0].Name)
	assert.Equal(t, 100.0, containers[0].OverlapPct)
	assert.Equal(t, 4920970, containers[0].Population, "urban area population is joined on")
}

func TestContainerFor_ByName(t *testing.T) {
	db := newFixtureDB(t)

	containers, err := db.ContainerFor("Ballarat Central", asgs.SAL, 50)
	require.NoError(t, err)
	require.Len(t, containers, 1)
	assert.Equal(t, "1007", containers[0].Code)
}

func TestContainerFor_SortedByOverlap(t *testing.T) {
	db := newFixtureDB(t)

	containers, err := db.ContainerFor("11346", asgs.SAL, 40)
	require.NoError(t, err)
	require.Len(t, containers, 2)
	assert.Equal(t, "1999", containers[0].Code, "best overlap first")
	assert.Equal(t, "1030", containers[1].Code)
	assert.Greater(t, containers[0].OverlapPct, containers[1].OverlapPct)
}

func TestContainerFor_UnknownRegion(t *testing.T) {
	db := newFixtureDB(t)

	_, err := db.ContainerFor("99999", asgs.SAL, 50)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPopulationBreakdown(t *testing.T) {
	db := newFixtureDB(t)

	b, err := db.PopulationBreakdown("SAL11344", asgs.SAL)
	require.NoError(t, err)

	pop, err := db.GetPopulation("11344", asgs.SAL)
	require.NoError(t, err)
	assert.Equal(t, pop, b["total"].Total, "breakdown total matches the population lookup")
	assert.Equal(t, GenderCounts{Male: 60, Female: 58, Total: 118}, b["0_4"])
}

func TestPopulationBreakdown_Unsupported(t *testing.T) {
	db := newFixtureDB(t)

	_, err := db.PopulationBreakdown("1030", asgs.SUA)
	require.ErrorIs(t, err, ErrUnsupported)
}

func TestAgeGroupBreakdown(t *testing.T) {
	db := newFixtureDB(t)

	counts, err := db.AgeGroupBreakdown("11344", asgs.SAL, "85ov")
	require.NoError(t, err)
	assert.Equal(t, GenderCounts{Male: 30, Female: 52, Total: 82}, counts)

	_, err = db.AgeGroupBreakdown("11344", asgs.SAL, "100_110")
	require.Error(t, err)
}

func TestGenderBreakdown(t *testing.T) {
	db := newFixtureDB(t)

	byAge, err := db.GenderBreakdown("11344", asgs.SAL, GenderFemale)
	require.NoError(t, err)
	assert.Equal(t, 58, byAge["0_4"])
	assert.Equal(t, 52, byAge["85ov"])
	assert.Len(t, byAge, len(AgeGroups)+1)
}

func TestBreakdownValue(t *testing.T) {
	db := newFixtureDB(t)

	v, err := db.BreakdownValue("SAL11344", asgs.SAL, "0_4", GenderMale)
	require.NoError(t, err)
	assert.Equal(t, 60, v)
}

func TestTableCache_SingleLoad(t *testing.T) {
	c := newTableCache()
	loads := 0
	load := func() (any, error) {
		loads++
		return "table", nil
	}

	for i := 0; i < 3; i++ {
		v, err := c.getOrLoad("key", load)
		require.NoError(t, err)
		assert.Equal(t, "table", v)
	}
	assert.Equal(t, 1, loads)
}
