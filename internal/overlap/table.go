package overlap

import (
	"os"
	"path/filepath"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
)

// WriteTable writes a relationship table as CSV, creating parent directories
// as needed. The table is always written whole; callers enforce the
// existing-file guard before building.
func WriteTable(path string, records []Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrapf(err, "overlap: create directory for %s", path)
	}

	data, err := csvutil.Marshal(records)
	if err != nil {
		return eris.Wrap(err, "overlap: marshal relationship table")
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "overlap: write %s", path)
	}
	return nil
}

// ReadTable loads a relationship table from CSV.
func ReadTable(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "overlap: read %s", path)
	}

	var records []Record
	if err := csvutil.Unmarshal(data, &records); err != nil {
		return nil, eris.Wrapf(err, "overlap: parse %s", path)
	}
	return records, nil
}
