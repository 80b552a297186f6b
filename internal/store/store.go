// Package store persists region boundaries in a local database so repeated
// geometry work does not re-read multi-hundred-megabyte boundary files.
package store

import (
	"context"
	"time"

	"github.com/ausgeo/ausgeo-cli/internal/asgs"
)

// RegionFilter specifies criteria for listing stored regions.
type RegionFilter struct {
	Type  asgs.GeoType `json:"type,omitempty"`
	State string       `json:"state,omitempty"`
	Limit int          `json:"limit,omitempty"`
}

// LoadStatus records one completed boundary load.
type LoadStatus struct {
	Dataset  string    `json:"dataset"`
	Regions  int       `json:"regions"`
	LoadedAt time.Time `json:"loaded_at"`
}

// Store defines the persistence interface for region boundaries.
type Store interface {
	// Boundaries
	UpsertRegions(ctx context.Context, t asgs.GeoType, regions []asgs.Region) (int, error)
	GetRegion(ctx context.Context, t asgs.GeoType, code string) (*asgs.Region, error)
	ListRegions(ctx context.Context, filter RegionFilter) ([]asgs.Region, error)
	CountRegions(ctx context.Context, t asgs.GeoType) (int, error)

	// Load bookkeeping
	GetLoadStatus(ctx context.Context, dataset string) (*LoadStatus, error)
	MarkLoaded(ctx context.Context, dataset string, regions int) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
