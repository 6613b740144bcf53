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

package storesync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/arkide/stuffstore/pkg/apis/v1alpha1"
)

// Status defines response data returned by Sync.
type Status struct {
	Total    uint32    //  total number of keys marked for sync
	Synced   uint32    //  number of successful syncs
	Success  bool      //  if Sync was successful
	Status   string    //  an arbitrary status message
	SyncedAt time.Time //  completion timestamp
}

// Sync copies entries stored under keys from source to target. If keys is
// empty, all keys of source are synced, which requires source to implement
// v1alpha1.StoreLister. Keys missing in source are skipped.
func Sync(ctx context.Context,
	source v1alpha1.StoreReader,
	target v1alpha1.StoreWriter,
	keys []string,
) (*Status, error) {
	// Validate
	if source == nil {
		return nil, fmt.Errorf("source is nil")
	}
	if target == nil {
		return nil, fmt.Errorf("target is nil")
	}

	// Resolve keys
	if len(keys) == 0 {
		lister, ok := source.(v1alpha1.StoreLister)
		if !ok {
			return nil, fmt.Errorf("no keys given and source cannot list keys")
		}
		listed, err := lister.ListKeys(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list source keys: %w", err)
		}
		keys = listed
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("nothing to sync")
	}

	// Fetch every key in a separate goroutine.
	// Any failure other than a missing key aborts the sync.
	syncMu := sync.Mutex{}
	syncPlan := make(map[string]v1alpha1.Entry, len(keys))
	fetchGroup, fetchCtx := errgroup.WithContext(ctx)
	for _, key := range keys {
		key := key
		fetchGroup.Go(func() error {
			result, err := source.GetEntry(fetchCtx, key)
			if errors.Is(err, v1alpha1.ErrKeyNotFound) {
				slog.WarnContext(ctx, "skipped syncing missing key", slog.String("key", key))
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to fetch key %s: %w", key, err)
			}

			syncMu.Lock()
			defer syncMu.Unlock()
			syncPlan[key] = *result.Entry
			return nil
		})
	}

	// Wait fetch
	if err := fetchGroup.Wait(); err != nil {
		return nil, fmt.Errorf("aborted syncing, reason: %w", err)
	}

	// Write every fetched entry to target in a separate goroutine
	var syncWg sync.WaitGroup
	var syncCounter atomic.Uint32
	for key, entry := range syncPlan {
		syncWg.Add(1)
		go func(key string, entry v1alpha1.Entry) {
			defer syncWg.Done()

			result, err := target.SetEntry(ctx, key, entry)
			if err == nil && !result.Success {
				err = errors.New(result.Message)
			}
			if err != nil {
				slog.ErrorContext(ctx, "failed to sync key", slog.String("key", key), slog.Any("error", err))
				return
			}

			slog.DebugContext(ctx, "successfully synced key", slog.String("key", key))
			syncCounter.Add(1)
		}(key, entry)
	}
	syncWg.Wait()

	// Return response
	syncCount := syncCounter.Load()
	totalCount := uint32(len(syncPlan))
	return &Status{
		Total:    totalCount,
		Synced:   syncCount,
		Success:  totalCount == syncCount,
		Status:   fmt.Sprintf("Synced %d out of total %d keys", syncCount, totalCount),
		SyncedAt: time.Now(),
	}, nil
}
