package indexdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"voxel-engine/internal/world"
)

// SaveRecord describes the latest save of one region file.
type SaveRecord struct {
	World      string
	Region     world.Coord
	Chunks     int
	Bytes      int
	Path       string
	Compressed bool
	SavedAt    time.Time
	// Saves counts how often the region was written. Ignored by RecordSave.
	Saves int
}

// Catalog is a SQLite index of region saves. It is a secondary index: the
// region files stay authoritative.
type Catalog struct {
	db *sql.DB
}

// OpenSQLite opens or creates the catalog at path.
func OpenSQLite(path string) (*Catalog, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Catalog{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS regions (
			world TEXT NOT NULL,
			rx INTEGER NOT NULL,
			ry INTEGER NOT NULL,
			rz INTEGER NOT NULL,
			chunks INTEGER NOT NULL,
			bytes INTEGER NOT NULL,
			path TEXT NOT NULL,
			compressed INTEGER NOT NULL,
			saves INTEGER NOT NULL DEFAULT 1,
			saved_at TEXT NOT NULL,
			PRIMARY KEY (world, rx, ry, rz)
		);`,
		`CREATE INDEX IF NOT EXISTS regions_saved_at ON regions(world, saved_at);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// RecordSave upserts the row for rec's region and bumps its save counter.
func (c *Catalog) RecordSave(ctx context.Context, rec SaveRecord) error {
	if rec.SavedAt.IsZero() {
		rec.SavedAt = time.Now()
	}
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO regions (world, rx, ry, rz, chunks, bytes, path, compressed, saved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (world, rx, ry, rz) DO UPDATE SET
			chunks = excluded.chunks,
			bytes = excluded.bytes,
			path = excluded.path,
			compressed = excluded.compressed,
			saves = regions.saves + 1,
			saved_at = excluded.saved_at`,
		rec.World, rec.Region.X, rec.Region.Y, rec.Region.Z,
		rec.Chunks, rec.Bytes, rec.Path, boolInt(rec.Compressed),
		rec.SavedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record save %s %v: %w", rec.World, rec.Region, err)
	}
	return nil
}

// Lookup returns the latest record for a region.
func (c *Catalog) Lookup(ctx context.Context, worldName string, region world.Coord) (SaveRecord, bool, error) {
	row := c.db.QueryRowContext(ctx, `
		SELECT world, rx, ry, rz, chunks, bytes, path, compressed, saves, saved_at
		FROM regions WHERE world = ? AND rx = ? AND ry = ? AND rz = ?`,
		worldName, region.X, region.Y, region.Z)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return SaveRecord{}, false, nil
	}
	if err != nil {
		return SaveRecord{}, false, err
	}
	return rec, true, nil
}

// List returns every region recorded for a world ordered by coordinate.
func (c *Catalog) List(ctx context.Context, worldName string) ([]SaveRecord, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT world, rx, ry, rz, chunks, bytes, path, compressed, saves, saved_at
		FROM regions WHERE world = ? ORDER BY rx, ry, rz`, worldName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SaveRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (c *Catalog) Close() error {
	return c.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (SaveRecord, error) {
	var (
		rec        SaveRecord
		compressed int
		savedAt    string
	)
	err := s.Scan(&rec.World, &rec.Region.X, &rec.Region.Y, &rec.Region.Z,
		&rec.Chunks, &rec.Bytes, &rec.Path, &compressed, &rec.Saves, &savedAt)
	if err != nil {
		return SaveRecord{}, err
	}
	rec.Compressed = compressed != 0
	rec.SavedAt, err = time.Parse(time.RFC3339Nano, savedAt)
	if err != nil {
		return SaveRecord{}, fmt.Errorf("parse saved_at %q: %w", savedAt, err)
	}
	return rec, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
