// Copyright © 2024 Bank-Vaults Maintainers
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package indexeddb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/arkide/stuffstore/pkg/apis/v1alpha1"
)

const (
	msgSaved   = "Saved to IndexedDB"
	msgDeleted = "Deleted from IndexedDB"
)

// client keeps entries in a single SQLite table keyed by the caller's key.
// The database is opened for every operation and closed afterwards; there is
// no connection cache.
type client struct {
	path  string
	table string
}

var _ v1alpha1.StoreLister = &client{}

// open opens the database and creates the object store table if missing.
func (c *client) open(ctx context.Context) (*sql.DB, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if dir := filepath.Dir(c.path); dir != "" {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return nil, fmt.Errorf("create db dir '%s': %w", dir, err)
		}
	}

	dsn := filepath.Clean(c.path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if _, err := db.ExecContext(ctx, fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %q (key TEXT PRIMARY KEY, value BLOB NOT NULL)`, c.table,
	)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create object store %s: %w", c.table, err)
	}
	return db, nil
}

func (c *client) GetEntry(ctx context.Context, key string) (v1alpha1.Result, error) {
	db, err := c.open(ctx)
	if err != nil {
		return v1alpha1.Result{}, err
	}
	defer db.Close()

	var data []byte
	err = db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT value FROM %q WHERE key = ?`, c.table), key,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return v1alpha1.Result{}, v1alpha1.ErrKeyNotFound
	}
	if err != nil {
		return v1alpha1.Result{}, fmt.Errorf("get key '%s': %w", key, err)
	}

	var entry v1alpha1.Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return v1alpha1.Result{}, fmt.Errorf("decode key '%s': %w", key, err)
	}

	return v1alpha1.Result{Success: true, Entry: &entry}, nil
}

func (c *client) Info(ctx context.Context, key string) (v1alpha1.Result, error) {
	result, err := c.GetEntry(ctx, key)
	if errors.Is(err, v1alpha1.ErrKeyNotFound) {
		return v1alpha1.Result{Success: true, Info: v1alpha1.InfoFor(nil)}, nil
	}
	if err != nil {
		return v1alpha1.Result{}, err
	}
	result.Info = v1alpha1.InfoFor(result.Entry)
	return result, nil
}

func (c *client) SetEntry(ctx context.Context, key string, entry v1alpha1.Entry) (v1alpha1.Result, error) {
	data, err := json.Marshal(entry)
	if err != nil {
		return v1alpha1.Result{}, fmt.Errorf("encode key '%s': %w", key, err)
	}

	db, err := c.open(ctx)
	if err != nil {
		return v1alpha1.Result{}, err
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, fmt.Sprintf(`
INSERT INTO %q (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value
`, c.table), key, data); err != nil {
		return v1alpha1.Result{}, fmt.Errorf("put key '%s': %w", key, err)
	}

	return v1alpha1.Result{Success: true, Message: msgSaved}, nil
}

func (c *client) DeleteEntry(ctx context.Context, key string) (v1alpha1.Result, error) {
	db, err := c.open(ctx)
	if err != nil {
		return v1alpha1.Result{}, err
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM %q WHERE key = ?`, c.table), key,
	); err != nil {
		return v1alpha1.Result{}, fmt.Errorf("delete key '%s': %w", key, err)
	}

	return v1alpha1.Result{Success: true, Message: msgDeleted}, nil
}

func (c *client) ListKeys(ctx context.Context) ([]string, error) {
	db, err := c.open(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, fmt.Sprintf(`SELECT key FROM %q ORDER BY key`, c.table))
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate keys: %w", err)
	}
	return keys, nil
}
