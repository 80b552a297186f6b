package geodb

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ExportCSV writes any slice of rows with csv tags to path, creating parent
// directories as needed.
func ExportCSV(rows any, path string) error {
	data, err := csvutil.Marshal(rows)
	if err != nil {
		return eris.Wrapf(err, "marshaling rows for %s", path)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return eris.Wrapf(err, "creating %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "writing %s", path)
	}
	return nil
}

// distanceBands are the ring exports ExportCityData produces, in km from the
// estimated city centre.
var distanceBands = [][2]float64{{0, 5}, {5, 10}, {10, 20}, {20, 50}}

// ExportCityData writes the standard per-city report set under outDir:
// every contained suburb, the twenty largest, and one file per distance
// band. Returns the paths written.
func (db *Database) ExportCityData(city, outDir string) ([]string, error) {
	logger := zap.L().With(zap.String("component", "geodb"), zap.String("city", city))

	suburbs, err := db.SuburbsInCity(city)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "creating %s", outDir)
	}

	var written []string
	write := func(rows any, name string) error {
		path := filepath.Join(outDir, name)
		if err := ExportCSV(rows, path); err != nil {
			return err
		}
		written = append(written, path)
		return nil
	}

	if err := write(suburbs, "all_suburbs.csv"); err != nil {
		return nil, err
	}

	largest := suburbs
	if len(largest) > 20 {
		largest = largest[:20]
	}
	if err := write(largest, "largest_suburbs.csv"); err != nil {
		return nil, err
	}

	for _, band := range distanceBands {
		within, err := db.SuburbsByDistance(city, band[1], "distance")
		if err != nil {
			return nil, err
		}
		ring := make([]SuburbDistance, 0, len(within))
		for _, s := range within {
			if s.DistanceKm >= band[0] {
				ring = append(ring, s)
			}
		}
		name := fmt.Sprintf("suburbs_%gto%gkm.csv", band[0], band[1])
		if err := write(ring, name); err != nil {
			return nil, err
		}
	}

	logger.Info("exported city report", zap.Int("files", len(written)), zap.String("dir", outDir))
	return written, nil
}
