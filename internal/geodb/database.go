// Package geodb answers lookup and aggregation queries over the flat-file
// outputs of the relationship builder and the per-geography attribute tables
// (population, demographics). All tables are loaded read-only on first access
// and cached for the lifetime of the Database.
package geodb

import (
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/ausgeo/ausgeo-cli/internal/asgs"
	"github.com/ausgeo/ausgeo-cli/internal/overlap"
)

// Database is the query surface over a data directory laid out as
// <dir>/Population/*.csv|xlsx and <dir>/Relationships/*.csv.
type Database struct {
	dataDir          string
	populationDir    string
	relationshipsDir string
	cache            *tableCache
}

// New creates a Database rooted at dataDir. No files are read until the
// first query touches them.
func New(dataDir string) *Database {
	return &Database{
		dataDir:          dataDir,
		populationDir:    filepath.Join(dataDir, "Population"),
		relationshipsDir: filepath.Join(dataDir, "Relationships"),
		cache:            newTableCache(),
	}
}

// attributePath locates a population table by base name, preferring the CSV
// form and falling back to an XLSX workbook.
func (db *Database) attributePath(base string) (string, error) {
	for _, ext := range []string{".csv", ".xlsx"} {
		path := filepath.Join(db.populationDir, base+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", eris.Errorf("geodb: population table %s not found under %s", base, db.populationDir)
}

// relationshipTable loads (with caching) the relationship table mapping the
// given geography type onto significant urban areas.
func (db *Database) relationshipTable(src asgs.GeoType) ([]overlap.Record, error) {
	path := filepath.Join(db.relationshipsDir, overlap.TableFile(src, asgs.SUA))
	if _, err := os.Stat(path); err != nil {
		return nil, eris.Wrapf(err, "geodb: relationship table %s (build it first)", path)
	}

	v, err := db.cache.getOrLoad(path, func() (any, error) {
		return overlap.ReadTable(path)
	})
	if err != nil {
		return nil, err
	}
	return v.([]overlap.Record), nil
}
