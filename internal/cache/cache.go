// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cache persists the last-known conversation metadata list so
// the sidebar renders instantly on startup. It is pure read
// acceleration: the live fetch always replaces cached data, and every
// failure here degrades to "no cache" rather than an error the UI has
// to handle.
package cache

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeranaias/parley-tui/internal/model"
)

// =============================================================================
// METADATA CACHE
// =============================================================================

// MetadataCache stores conversation summaries in a local SQLite
// database. Safe for concurrent use; SQLite serializes the single
// writer itself.
type MetadataCache struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS conversation_meta (
	id         TEXT PRIMARY KEY,
	title      TEXT NOT NULL DEFAULT '',
	user_id    TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP,
	updated_at TIMESTAMP,
	position   INTEGER NOT NULL
);
`

// Open opens (creating if needed) the cache database at path.
func Open(path string) (*MetadataCache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &MetadataCache{db: db}, nil
}

// Close closes the cache database.
func (c *MetadataCache) Close() error {
	return c.db.Close()
}

// Replace swaps the entire cached list for the given one, preserving
// its order. The server's list is authoritative; the cache never
// merges.
func (c *MetadataCache) Replace(ctx context.Context, metas []model.ConversationMeta) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM conversation_meta"); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO conversation_meta (id, title, user_id, created_at, updated_at, position)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, meta := range metas {
		if _, err := stmt.ExecContext(ctx, meta.ID, meta.Title, meta.UserID,
			meta.CreatedAt, meta.UpdatedAt, i); err != nil {
			return fmt.Errorf("failed to insert %s: %w", meta.ID, err)
		}
	}

	return tx.Commit()
}

// List returns the cached metadata in its stored order. An empty cache
// returns an empty slice.
func (c *MetadataCache) List(ctx context.Context) ([]model.ConversationMeta, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT id, title, user_id, created_at, updated_at
		FROM conversation_meta
		ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query cache: %w", err)
	}
	defer rows.Close()

	metas := []model.ConversationMeta{}
	for rows.Next() {
		var meta model.ConversationMeta
		var created, updated sql.NullTime
		if err := rows.Scan(&meta.ID, &meta.Title, &meta.UserID, &created, &updated); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		if created.Valid {
			meta.CreatedAt = created.Time
		}
		if updated.Valid {
			meta.UpdatedAt = updated.Time
		}
		metas = append(metas, meta)
	}
	return metas, rows.Err()
}

// Delete removes one conversation from the cache.
func (c *MetadataCache) Delete(ctx context.Context, id string) error {
	_, err := c.db.ExecContext(ctx, "DELETE FROM conversation_meta WHERE id = ?", id)
	return err
}

// Clear empties the cache, for logout.
func (c *MetadataCache) Clear(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, "DELETE FROM conversation_meta")
	return err
}

// Touch updates a conversation's title and bumps its updated_at, used
// when a stream delivers a fresh title without a full list reload.
func (c *MetadataCache) Touch(ctx context.Context, id, title string) error {
	_, err := c.db.ExecContext(ctx, `
		UPDATE conversation_meta SET title = ?, updated_at = ? WHERE id = ?`,
		title, time.Now().UTC(), id)
	return err
}
