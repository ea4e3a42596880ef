// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package store persists cache snapshots to a local SQLite database so a
// restarted client resumes with its last known entities and, crucially,
// any pending patches that were never flushed. The snapshot is strictly
// single-process; it is not a cross-process cache.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/MKhiriev/halsync/internal/logger"
	"github.com/MKhiriev/halsync/models"
	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"
)

const snapshotSchema = `
	CREATE TABLE IF NOT EXISTS cache_snapshot (
		address         TEXT PRIMARY KEY,
		object          TEXT,
		request_id      TEXT NOT NULL DEFAULT '',
		pending_patches TEXT,
		last_updated    TIMESTAMP
	);`

// SnapshotStore loads and saves the full cache content.
type SnapshotStore interface {
	// Load reads the persisted snapshot, keyed by address. An empty
	// database yields an empty map.
	Load(ctx context.Context) (map[string]models.CacheEntry, error)

	// Save replaces the persisted snapshot with entries atomically.
	Save(ctx context.Context, entries map[string]models.CacheEntry) error

	// Close releases the underlying database handle.
	Close() error
}

type sqliteSnapshotStore struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewSnapshotStore opens (or creates) the SQLite database at dsn and
// ensures the snapshot table exists.
func NewSnapshotStore(dsn string, log *logger.Logger) (SnapshotStore, error) {
	if dsn == "" {
		dsn = ":memory:"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open snapshot database: %w", err)
	}
	if _, err = db.Exec(snapshotSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create snapshot schema: %w", err)
	}

	return &sqliteSnapshotStore{db: db, logger: log}, nil
}

// newSnapshotStoreWithDB injects an existing handle; used by tests.
func newSnapshotStoreWithDB(db *sql.DB, log *logger.Logger) *sqliteSnapshotStore {
	return &sqliteSnapshotStore{db: db, logger: log}
}

func (s *sqliteSnapshotStore) Load(ctx context.Context) (map[string]models.CacheEntry, error) {
	query, args, err := sq.Select("address", "object", "request_id", "pending_patches", "last_updated").
		From("cache_snapshot").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build snapshot select: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query snapshot: %w", err)
	}
	defer rows.Close()

	entries := make(map[string]models.CacheEntry)
	for rows.Next() {
		var (
			address     string
			objectJSON  sql.NullString
			requestID   string
			patchesJSON sql.NullString
			lastUpdated sql.NullTime
		)
		if err = rows.Scan(&address, &objectJSON, &requestID, &patchesJSON, &lastUpdated); err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}

		entry := models.CacheEntry{RequestID: requestID}
		if objectJSON.Valid && objectJSON.String != "" {
			var object models.NormalizedObject
			if err = json.Unmarshal([]byte(objectJSON.String), &object); err != nil {
				return nil, fmt.Errorf("decode snapshot object for %s: %w", address, err)
			}
			entry.Object = &object
		}
		if patchesJSON.Valid && patchesJSON.String != "" {
			if err = json.Unmarshal([]byte(patchesJSON.String), &entry.PendingPatches); err != nil {
				return nil, fmt.Errorf("decode snapshot patches for %s: %w", address, err)
			}
		}
		if lastUpdated.Valid {
			entry.LastUpdated = lastUpdated.Time
		}

		entries[address] = entry
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshot rows: %w", err)
	}

	return entries, nil
}

func (s *sqliteSnapshotStore) Save(ctx context.Context, entries map[string]models.CacheEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err = tx.ExecContext(ctx, "DELETE FROM cache_snapshot"); err != nil {
		return fmt.Errorf("clear snapshot: %w", err)
	}

	for address, entry := range entries {
		objectJSON, patchesJSON, err := encodeEntry(entry)
		if err != nil {
			return fmt.Errorf("encode snapshot entry for %s: %w", address, err)
		}

		query, args, err := sq.Insert("cache_snapshot").
			Columns("address", "object", "request_id", "pending_patches", "last_updated").
			Values(address, objectJSON, entry.RequestID, patchesJSON, entry.LastUpdated).
			ToSql()
		if err != nil {
			return fmt.Errorf("build snapshot insert: %w", err)
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert snapshot entry for %s: %w", address, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}

	s.logger.Debug().Int("entries", len(entries)).Msg("cache snapshot saved")
	return nil
}

func (s *sqliteSnapshotStore) Close() error {
	return s.db.Close()
}

func encodeEntry(entry models.CacheEntry) (object, patches sql.NullString, err error) {
	if entry.Object != nil {
		raw, merr := json.Marshal(entry.Object)
		if merr != nil {
			return object, patches, merr
		}
		object = sql.NullString{String: string(raw), Valid: true}
	}
	if len(entry.PendingPatches) > 0 {
		raw, merr := json.Marshal(entry.PendingPatches)
		if merr != nil {
			return object, patches, merr
		}
		patches = sql.NullString{String: string(raw), Valid: true}
	}
	return object, patches, nil
}
