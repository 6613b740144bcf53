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

package local

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/arkide/stuffstore/pkg/apis/v1alpha1"
)

const (
	msgSaved   = "Saved to local storage"
	msgDeleted = "Deleted from local storage"
)

// client keeps one JSON-encoded entry per file. File names are the key prefix
// followed by the path-escaped key, so unrelated files in dir are ignored.
type client struct {
	dir    string
	prefix string
}

var _ v1alpha1.StoreLister = &client{}

func (c *client) GetEntry(ctx context.Context, key string) (v1alpha1.Result, error) {
	if err := ctx.Err(); err != nil {
		return v1alpha1.Result{}, err
	}

	// Read file
	fpath := c.pathForKey(key)
	data, err := os.ReadFile(fpath)
	if errors.Is(err, fs.ErrNotExist) {
		return v1alpha1.Result{}, v1alpha1.ErrKeyNotFound
	}
	if err != nil {
		return v1alpha1.Result{}, fmt.Errorf("get failed to read file '%s': %w", fpath, err)
	}

	// Convert
	var entry v1alpha1.Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return v1alpha1.Result{}, fmt.Errorf("get failed to decode file '%s': %w", fpath, err)
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
	if err := ctx.Err(); err != nil {
		return v1alpha1.Result{}, err
	}

	// Create dir
	if err := os.MkdirAll(c.dir, os.ModePerm); err != nil {
		return v1alpha1.Result{}, fmt.Errorf("set failed to create dir '%s': %w", c.dir, err)
	}

	// Convert
	data, err := json.Marshal(entry)
	if err != nil {
		return v1alpha1.Result{}, fmt.Errorf("set failed to encode key '%s': %w", key, err)
	}

	// Write to a temp file first so concurrent readers never see partial data
	fpath := c.pathForKey(key)
	tmpFile, err := os.CreateTemp(c.dir, ".tmp-*")
	if err != nil {
		return v1alpha1.Result{}, fmt.Errorf("set failed to create temp file in '%s': %w", c.dir, err)
	}
	defer func() { _ = os.Remove(tmpFile.Name()) }()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return v1alpha1.Result{}, fmt.Errorf("set failed to write file '%s': %w", fpath, err)
	}
	if err := tmpFile.Close(); err != nil {
		return v1alpha1.Result{}, fmt.Errorf("set failed to write file '%s': %w", fpath, err)
	}
	if err := os.Rename(tmpFile.Name(), fpath); err != nil {
		return v1alpha1.Result{}, fmt.Errorf("set failed to write file '%s': %w", fpath, err)
	}

	return v1alpha1.Result{Success: true, Message: msgSaved}, nil
}

func (c *client) DeleteEntry(ctx context.Context, key string) (v1alpha1.Result, error) {
	if err := ctx.Err(); err != nil {
		return v1alpha1.Result{}, err
	}

	fpath := c.pathForKey(key)
	if err := os.Remove(fpath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return v1alpha1.Result{}, fmt.Errorf("delete failed to remove file '%s': %w", fpath, err)
	}

	return v1alpha1.Result{Success: true, Message: msgDeleted}, nil
}

func (c *client) ListKeys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(c.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list failed to read dir '%s': %w", c.dir, err)
	}

	var keys []string
	for _, entry := range entries {
		name := entry.Name()
		if !entry.Type().IsRegular() || !strings.HasPrefix(name, c.prefix) {
			continue
		}
		key, err := url.PathUnescape(strings.TrimPrefix(name, c.prefix))
		if err != nil {
			continue
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func (c *client) pathForKey(key string) string {
	return filepath.Join(c.dir, c.prefix+url.PathEscape(key))
}
