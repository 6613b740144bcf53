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

package storesync_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/arkide/stuffstore/pkg/apis/v1alpha1"
	"github.com/arkide/stuffstore/pkg/provider"
	"github.com/arkide/stuffstore/pkg/storesync"
)

func TestMain(m *testing.M) {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	goleak.VerifyTestMain(m)
}

func BenchmarkSync(b *testing.B) {
	b.ReportAllocs()

	source := &fakeClient{}
	dest := &fakeClient{}
	keys := []string{"a", "b/b", "c/c/c"}

	for i := 0; i < b.N; i++ {
		_, _ = storesync.Sync(context.Background(), source, dest, keys)
	}
}

func TestSync(t *testing.T) {
	testCtx := context.Background()
	dir := t.TempDir()

	source := createStore(t, &v1alpha1.StoreProvider{
		Local: &v1alpha1.StoreProviderLocal{DirPath: filepath.Join(dir, "from-dir")},
	})
	dest := createStore(t, &v1alpha1.StoreProvider{
		IndexedDB: &v1alpha1.StoreProviderIndexedDB{Path: filepath.Join(dir, "to.db")},
	})

	expected := map[string]v1alpha1.Entry{
		"a":     {Value: "a"},
		"b/b":   {Value: 2.0, Locked: true},
		"c/c/c": {Value: []any{"c", 3.0}},
	}
	for key, entry := range expected {
		_, err := source.SetEntry(testCtx, key, entry)
		require.NoError(t, err)
	}

	t.Run("explicit keys", func(t *testing.T) {
		resp, err := storesync.Sync(testCtx, source, dest, []string{"a", "b/b", "missing"})
		require.NoError(t, err)
		assert.True(t, resp.Success)
		assert.Equal(t, uint32(2), resp.Total)
		assert.Equal(t, uint32(2), resp.Synced)
	})

	t.Run("all keys", func(t *testing.T) {
		resp, err := storesync.Sync(testCtx, source, dest, nil)
		require.NoError(t, err)
		assert.True(t, resp.Success)
		assert.Equal(t, uint32(3), resp.Synced)

		for key, entry := range expected {
			result, err := dest.GetEntry(testCtx, key)
			require.NoError(t, err, key)
			assert.Equal(t, entry, *result.Entry, key)
		}
	})
}

func TestSyncErrors(t *testing.T) {
	testCtx := context.Background()

	_, err := storesync.Sync(testCtx, nil, &fakeClient{}, []string{"a"})
	assert.Error(t, err)

	_, err = storesync.Sync(testCtx, &fakeClient{}, nil, []string{"a"})
	assert.Error(t, err)

	// fakeClient does not implement StoreLister
	_, err = storesync.Sync(testCtx, &fakeClient{}, &fakeClient{}, nil)
	assert.Error(t, err)

	_, err = storesync.Sync(testCtx, &fakeClient{getErr: errors.New("down")}, &fakeClient{}, []string{"a"})
	assert.Error(t, err)

	resp, err := storesync.Sync(testCtx, &fakeClient{}, &fakeClient{rejectSet: true}, []string{"a", "b"})
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, uint32(0), resp.Synced)
}

func createStore(t *testing.T, backend *v1alpha1.StoreProvider) v1alpha1.StoreClient {
	client, err := provider.NewClient(context.Background(), backend)
	require.NoError(t, err)
	return client
}

type fakeClient struct {
	getErr    error
	rejectSet bool
}

func (c *fakeClient) GetEntry(_ context.Context, _ string) (v1alpha1.Result, error) {
	if c.getErr != nil {
		return v1alpha1.Result{}, c.getErr
	}
	return v1alpha1.Result{Success: true, Entry: &v1alpha1.Entry{}}, nil
}

func (c *fakeClient) Info(_ context.Context, _ string) (v1alpha1.Result, error) {
	return v1alpha1.Result{Success: true, Info: v1alpha1.InfoFor(nil)}, nil
}

func (c *fakeClient) SetEntry(_ context.Context, _ string, _ v1alpha1.Entry) (v1alpha1.Result, error) {
	if c.rejectSet {
		return v1alpha1.Result{Message: "rejected"}, nil
	}
	return v1alpha1.Result{Success: true}, nil
}

func (c *fakeClient) DeleteEntry(_ context.Context, _ string) (v1alpha1.Result, error) {
	return v1alpha1.Result{Success: true}, nil
}
