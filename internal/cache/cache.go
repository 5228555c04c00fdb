// Package cache is the durable local snapshot of the desktop. It exists so a
// reload paints instantly from disk before the authoritative fetch resolves.
// It is a performance optimization, not a correctness requirement: callers
// treat every read and write as best-effort.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"desk-cli/internal/model"
)

const (
	dbFileName = "desk.sqlite"

	itemsKey     = "desktop:items"
	sortPrefsKey = "desktop:sortPrefs"

	// RootKey is the sort-preference map key for the root container
	// (items whose parent id is "").
	RootKey = "root"
)

// SortPref records the user's last chosen sort order for one container.
// It is read-side only: adding items later does not re-apply it.
type SortPref struct {
	SortOrder model.SortOrder `json:"sortOrder"`
}

// PrefKey maps a container id to its sort-preference key.
func PrefKey(containerID string) string {
	if strings.TrimSpace(containerID) == "" {
		return RootKey
	}
	return containerID
}

// Cache is a key/value snapshot store backed by a single SQLite file in Dir.
// A Cache with an empty Dir is a no-op: loads report no data, saves succeed
// silently. That keeps in-memory stores (and tests) free of disk traffic.
type Cache struct {
	Dir string
}

func (c Cache) enabled() bool {
	return strings.TrimSpace(c.Dir) != ""
}

func (c Cache) Ensure() error {
	if !c.enabled() {
		return nil
	}
	return os.MkdirAll(c.Dir, 0o755)
}

func (c Cache) path() string {
	return filepath.Join(c.Dir, dbFileName)
}

func (c Cache) open(ctx context.Context) (*sql.DB, error) {
	if err := c.Ensure(); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", c.path())
	if err != nil {
		return nil, err
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS kv (
		k TEXT PRIMARY KEY,
		v TEXT NOT NULL,
		updated_at_unixms INTEGER NOT NULL
	)`)
	return err
}

func (c Cache) get(ctx context.Context, key string, out any) (bool, error) {
	if !c.enabled() {
		return false, nil
	}
	db, err := c.open(ctx)
	if err != nil {
		return false, err
	}
	defer db.Close()

	var raw string
	err = db.QueryRowContext(ctx, `SELECT v FROM kv WHERE k = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		// Corrupted snapshot; treat as missing.
		return false, nil
	}
	return true, nil
}

func (c Cache) put(ctx context.Context, key string, v any) error {
	if !c.enabled() {
		return nil
	}
	db, err := c.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx,
		`INSERT OR REPLACE INTO kv(k, v, updated_at_unixms) VALUES(?, ?, ?)`,
		key, string(raw), time.Now().UTC().UnixMilli())
	return err
}

// LoadItems reads the last persisted item snapshot. ok is false when no
// snapshot exists (first run, or the file was removed).
func (c Cache) LoadItems(ctx context.Context) ([]model.Item, bool, error) {
	var items []model.Item
	ok, err := c.get(ctx, itemsKey, &items)
	if err != nil || !ok {
		return nil, false, err
	}
	return items, true, nil
}

func (c Cache) SaveItems(ctx context.Context, items []model.Item) error {
	if items == nil {
		items = []model.Item{}
	}
	return c.put(ctx, itemsKey, items)
}

// LoadSortPrefs reads the per-container sort-order preference map. A missing
// or unreadable map is an empty one.
func (c Cache) LoadSortPrefs(ctx context.Context) (map[string]SortPref, error) {
	prefs := map[string]SortPref{}
	if _, err := c.get(ctx, sortPrefsKey, &prefs); err != nil {
		return map[string]SortPref{}, err
	}
	if prefs == nil {
		prefs = map[string]SortPref{}
	}
	return prefs, nil
}

// SaveSortPref records the chosen order for one container, preserving the
// entries of every other container.
func (c Cache) SaveSortPref(ctx context.Context, containerID string, pref SortPref) error {
	if !c.enabled() {
		return nil
	}
	prefs, err := c.LoadSortPrefs(ctx)
	if err != nil {
		return err
	}
	prefs[PrefKey(containerID)] = pref
	return c.put(ctx, sortPrefsKey, prefs)
}
