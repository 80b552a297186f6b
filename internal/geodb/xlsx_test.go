package geodb

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/ausgeo/ausgeo-cli/internal/asgs"
)

func writeWorkbook(t *testing.T, path string, rows [][]string) {
	t.Helper()
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Table 1")
	require.NoError(t, err)
	for _, row := range rows {
		r := sheet.AddRow()
		for _, v := range row {
			r.AddCell().SetString(v)
		}
	}
	require.NoError(t, f.Save(path))
}

func TestSuaTable_XLSX(t *testing.T) {
	dir := t.TempDir()
	popDir := filepath.Join(dir, "Population")
	require.NoError(t, os.MkdirAll(popDir, 0o755))

	writeWorkbook(t, filepath.Join(popDir, "sua_population.xlsx"), [][]string{
		{"SUA code", "Significant Urban Area", "Population", "Area_sqkm"},
		{"1030", "Sydney", "4920970", "2037.4"},
	})

	pop, err := New(dir).GetPopulation("Sydney", asgs.SUA)
	require.NoError(t, err)
	assert.Equal(t, 4920970, pop)
}

func TestAttributePath_PrefersCSV(t *testing.T) {
	dir := t.TempDir()
	popDir := filepath.Join(dir, "Population")
	require.NoError(t, os.MkdirAll(popDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(popDir, "sua_population.csv"), []byte(suaFixture), 0o644))
	writeWorkbook(t, filepath.Join(popDir, "sua_population.xlsx"), [][]string{{"bogus"}})

	db := New(dir)
	path, err := db.attributePath("sua_population")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(popDir, "sua_population.csv"), path)
}

func TestAttributePath_Missing(t *testing.T) {
	db := New(t.TempDir())
	_, err := db.attributePath("sua_population")
	require.Error(t, err)
}

func TestXLSXToCSV_MissingFile(t *testing.T) {
	_, err := xlsxToCSV(filepath.Join(t.TempDir(), "nope.xlsx"))
	require.Error(t, err)
}
