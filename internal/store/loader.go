package store

import (
	"context"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/ausgeo/ausgeo-cli/internal/asgs"
)

// LoadGeoJSON reads a GeoJSON boundary file and persists its regions. A file
// already recorded in load_status is skipped, so re-running a load is cheap
// and safe. Returns the number of regions written (zero on skip).
func LoadGeoJSON(ctx context.Context, s Store, path string, ds asgs.Dataset) (int, error) {
	logger := zap.L().With(
		zap.String("component", "store"),
		zap.String("dataset", filepath.Base(path)),
	)

	status, err := s.GetLoadStatus(ctx, filepath.Base(path))
	if err != nil {
		return 0, err
	}
	if status != nil {
		logger.Info("already loaded, skipping",
			zap.Int("regions", status.Regions),
			zap.Time("loaded_at", status.LoadedAt),
		)
		return 0, nil
	}

	regions, err := asgs.ReadGeoJSON(path, ds)
	if err != nil {
		return 0, err
	}

	written, err := s.UpsertRegions(ctx, ds.Type, regions)
	if err != nil {
		return 0, err
	}
	if err := s.MarkLoaded(ctx, filepath.Base(path), written); err != nil {
		return 0, err
	}

	logger.Info("loaded boundaries", zap.Int("regions", written))
	return written, nil
}
