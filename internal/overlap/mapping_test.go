package overlap

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ausgeo/ausgeo-cli/internal/asgs"
)

func TestWriteAndReadTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Relationships", "sal_to_sua.csv")

	records := []Record{
		{SourceCode: "11344", SourceName: "Kirribilli", State: "New South Wales",
			TargetCode: "1030", TargetName: "Sydney", OverlapPct: 100},
		{SourceCode: "20001", SourceName: "Abbotsford", State: "Victoria",
			TargetCode: "2010", TargetName: "Melbourne", OverlapPct: 87.5},
	}

	require.NoError(t, WriteTable(path, records))

	got, err := ReadTable(path)
	require.NoError(t, err)
	assert.Equal(t, records, got)
}

func TestReadTable_Missing(t *testing.T) {
	_, err := ReadTable(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestCreateMapping_ExistingOutputSkipsBuild(t *testing.T) {
	out := filepath.Join(t.TempDir(), "sal_to_sua.csv")
	require.NoError(t, os.WriteFile(out, []byte("sentinel"), 0o644))

	path, err := CreateMapping(context.Background(), MappingOptions{
		DataDir:    t.TempDir(), // no boundary files needed when output exists
		OutputPath: out,
	})
	require.NoError(t, err)
	assert.Equal(t, out, path)

	// The existing file is the idempotence guard: it must not be touched.
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "sentinel", string(data))
}

func TestCreateMapping_MissingBoundaries(t *testing.T) {
	_, err := CreateMapping(context.Background(), MappingOptions{
		DataDir:    t.TempDir(),
		SourceType: asgs.SAL,
		TargetType: asgs.SUA,
	})
	assert.Error(t, err)
}

func TestTableFile(t *testing.T) {
	assert.Equal(t, "sal_to_sua.csv", TableFile(asgs.SAL, asgs.SUA))
	assert.Equal(t, "lga_to_sua.csv", TableFile(asgs.LGA, asgs.SUA))
}
