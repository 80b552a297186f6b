package geodb

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const delimitedSAL = `SAL_CODE_2021,state,Tot_P_M,Tot_P_F,Tot_P_P,Age_0_4_yr_M,Age_0_4_yr_F,Age_0_4_yr_P,Age_85ov_yr_M,Age_85ov_yr_F,Age_85ov_yr_P
SAL11344,New South Wales,1434,1608,3042,60,58,118,30,52,82
11345,New South Wales,2500,2600,5100,100,90,190,12,20,32
20001,Victoria,400,380,780,10,12,22,1,2,3
`

const mergedSAL = `SAL_CODE_2021_and_demographics
SAL11344Tot_P_M1434Tot_P_F1608Tot_P_P3042Age_0_4_yr_M60Age_0_4_yr_F58Age_0_4_yr_P118
SAL20001Tot_P_M400Tot_P_F380Tot_P_P780
garbage line
`

func writePopulation(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseSALPopulation_Delimited(t *testing.T) {
	rows, err := parseSALPopulation(writePopulation(t, "sal.csv", delimitedSAL))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "11344", rows[0].Code, "SAL prefix is stripped")
	assert.Equal(t, "New South Wales", rows[0].State)
	assert.Equal(t, GenderCounts{Male: 1434, Female: 1608, Total: 3042}, rows[0].Demo["total"])
	assert.Equal(t, GenderCounts{Male: 60, Female: 58, Total: 118}, rows[0].Demo["0_4"])
	assert.Equal(t, GenderCounts{Male: 30, Female: 52, Total: 82}, rows[0].Demo["85ov"])
	assert.Zero(t, rows[0].Demo["25_34"], "absent columns parse as zero")

	assert.Equal(t, "11345", rows[1].Code, "unprefixed codes pass through")
	assert.Equal(t, "20001", rows[2].Code)
}

func TestParseSALPopulation_Merged(t *testing.T) {
	rows, err := parseSALPopulation(writePopulation(t, "sal.csv", mergedSAL))
	require.NoError(t, err)
	require.Len(t, rows, 2, "lines without a code token are skipped")

	assert.Equal(t, "11344", rows[0].Code)
	assert.Empty(t, rows[0].State, "merged form carries no state")
	assert.Equal(t, GenderCounts{Male: 1434, Female: 1608, Total: 3042}, rows[0].Demo["total"])
	assert.Equal(t, GenderCounts{Male: 60, Female: 58, Total: 118}, rows[0].Demo["0_4"])

	assert.Equal(t, "20001", rows[1].Code)
	assert.Equal(t, 780, rows[1].Demo["total"].Total)
	assert.Zero(t, rows[1].Demo["0_4"], "missing tokens parse as zero")
}

func TestParseSALPopulation_MissingCodeColumn(t *testing.T) {
	path := writePopulation(t, "sal.csv", "code,Tot_P_P\n11344,10\n")
	_, err := parseSALPopulation(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SAL_CODE_2021")
}

func TestNormalizeSALCode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"11344", "11344"},
		{"SAL11344", "11344"},
		{"sal11344", "11344"},
		{" SAL11344 ", "11344"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeSALCode(tt.in), tt.in)
	}
}

func TestGenderCounts_ByGender(t *testing.T) {
	g := GenderCounts{Male: 1, Female: 2, Total: 3}

	v, err := g.ByGender(GenderMale)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	v, err = g.ByGender(GenderFemale)
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	v, err = g.ByGender(GenderTotal)
	require.NoError(t, err)
	assert.Equal(t, 3, v)

	_, err = g.ByGender("other")
	require.Error(t, err)
}

func TestBuildBreakdown_CoversAllAgeGroups(t *testing.T) {
	b := buildBreakdown(func(string) int { return 1 })
	assert.Len(t, b, len(AgeGroups)+1)
	for _, age := range AgeGroups {
		assert.Contains(t, b, age)
	}
	assert.Contains(t, b, "total")
}
