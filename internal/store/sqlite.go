package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/ausgeo/ausgeo-cli/internal/asgs"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS boundaries (
	geo_type   TEXT NOT NULL,
	code       TEXT NOT NULL,
	name       TEXT NOT NULL,
	state      TEXT,
	area_sqkm  REAL,
	geom       BLOB,
	loaded_at  DATETIME NOT NULL DEFAULT (datetime('now')),
	PRIMARY KEY (geo_type, code)
);

CREATE TABLE IF NOT EXISTS load_status (
	dataset   TEXT PRIMARY KEY,
	regions   INTEGER NOT NULL,
	loaded_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_boundaries_state ON boundaries(geo_type, state);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// UpsertRegions writes regions in one transaction, replacing rows that share
// a code. Geometries are stored as EWKB; regions without geometry store NULL.
// Returns the number of rows written.
func (s *SQLiteStore) UpsertRegions(ctx context.Context, t asgs.GeoType, regions []asgs.Region) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin upsert")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO boundaries (geo_type, code, name, state, area_sqkm, geom, loaded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (geo_type, code) DO UPDATE SET
		   name = excluded.name, state = excluded.state,
		   area_sqkm = excluded.area_sqkm, geom = excluded.geom,
		   loaded_at = excluded.loaded_at`,
	)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare upsert")
	}
	defer stmt.Close()

	now := time.Now().UTC()
	var written int
	for _, r := range regions {
		if r.Code == "" {
			continue
		}
		wkb, err := asgs.EncodeWKB(r.Geom)
		if err != nil {
			return 0, eris.Wrapf(err, "sqlite: encode region %s", r.Code)
		}
		if _, err := stmt.ExecContext(ctx, string(t), r.Code, r.Name, r.State, r.AreaSqKm, wkb, now); err != nil {
			return 0, eris.Wrapf(err, "sqlite: upsert region %s", r.Code)
		}
		written++
	}
	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit upsert")
	}
	return written, nil
}

// GetRegion returns one stored region, or nil when absent.
func (s *SQLiteStore) GetRegion(ctx context.Context, t asgs.GeoType, code string) (*asgs.Region, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT code, name, state, area_sqkm, geom FROM boundaries WHERE geo_type = ? AND code = ?`,
		string(t), code,
	)

	var r asgs.Region
	var state sql.NullString
	var wkb []byte
	err := row.Scan(&r.Code, &r.Name, &state, &r.AreaSqKm, &wkb)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get region %s", code)
	}
	r.State = state.String
	if r.Geom, err = asgs.DecodeWKB(wkb); err != nil {
		return nil, eris.Wrapf(err, "sqlite: decode region %s", code)
	}
	return &r, nil
}

// ListRegions returns stored regions matching the filter, code order.
func (s *SQLiteStore) ListRegions(ctx context.Context, filter RegionFilter) ([]asgs.Region, error) {
	query := `SELECT code, name, state, area_sqkm, geom FROM boundaries WHERE 1=1`
	var args []any

	if filter.Type != "" {
		query += ` AND geo_type = ?`
		args = append(args, string(filter.Type))
	}
	if filter.State != "" {
		query += ` AND state = ?`
		args = append(args, filter.State)
	}
	query += ` ORDER BY code`

	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list regions")
	}
	defer rows.Close()

	var regions []asgs.Region
	for rows.Next() {
		var r asgs.Region
		var state sql.NullString
		var wkb []byte
		if err := rows.Scan(&r.Code, &r.Name, &state, &r.AreaSqKm, &wkb); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan region")
		}
		r.State = state.String
		if r.Geom, err = asgs.DecodeWKB(wkb); err != nil {
			return nil, eris.Wrapf(err, "sqlite: decode region %s", r.Code)
		}
		regions = append(regions, r)
	}
	return regions, eris.Wrap(rows.Err(), "sqlite: list regions iterate")
}

func (s *SQLiteStore) CountRegions(ctx context.Context, t asgs.GeoType) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM boundaries WHERE geo_type = ?`, string(t),
	).Scan(&n)
	return n, eris.Wrap(err, "sqlite: count regions")
}

// GetLoadStatus returns the load record for a dataset, or nil when that
// dataset has never been loaded.
func (s *SQLiteStore) GetLoadStatus(ctx context.Context, dataset string) (*LoadStatus, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT dataset, regions, loaded_at FROM load_status WHERE dataset = ?`, dataset,
	)

	var ls LoadStatus
	err := row.Scan(&ls.Dataset, &ls.Regions, &ls.LoadedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: load status %s", dataset)
	}
	return &ls, nil
}

func (s *SQLiteStore) MarkLoaded(ctx context.Context, dataset string, regions int) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO load_status (dataset, regions, loaded_at) VALUES (?, ?, ?)
		 ON CONFLICT (dataset) DO UPDATE SET regions = excluded.regions, loaded_at = excluded.loaded_at`,
		dataset, regions, time.Now().UTC(),
	)
	return eris.Wrapf(err, "sqlite: mark loaded %s", dataset)
}
