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

package sync

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkide/stuffstore/pkg/apis/v1alpha1"
	"github.com/arkide/stuffstore/pkg/config"
	"github.com/arkide/stuffstore/pkg/provider"
)

func TestSync(t *testing.T) {
	ctx := context.Background()
	spec := testSpec(t)

	local := newClient(t, spec, v1alpha1.ModeLocal)
	_, err := local.SetEntry(ctx, "score", v1alpha1.Entry{Value: 10.0, Locked: true})
	require.NoError(t, err)
	_, err = local.SetEntry(ctx, "names", v1alpha1.Entry{Value: []any{"a", "b"}})
	require.NoError(t, err)

	out := &bytes.Buffer{}
	syncCmd := NewSyncCmd(ctx)
	syncCmd.SetOut(out)
	syncCmd.SetArgs([]string{
		"--source", "local",
		"--target", "indexeddb",
		"--once",
	})
	require.NoError(t, syncCmd.Execute())
	assert.Equal(t, "Synced 2 out of total 2 keys\n", out.String())

	db := newClient(t, spec, v1alpha1.ModeIndexedDB)
	result, err := db.GetEntry(ctx, "score")
	require.NoError(t, err)
	assert.Equal(t, &v1alpha1.Entry{Value: 10.0, Locked: true}, result.Entry)
}

func TestSyncFile(t *testing.T) {
	ctx := context.Background()
	spec := testSpec(t)

	db := newClient(t, spec, v1alpha1.ModeIndexedDB)
	_, err := db.SetEntry(ctx, "a", v1alpha1.Entry{Value: "x"})
	require.NoError(t, err)
	_, err = db.SetEntry(ctx, "b", v1alpha1.Entry{Value: "y"})
	require.NoError(t, err)

	syncFile := filepath.Join(t.TempDir(), "syncjob.yaml")
	require.NoError(t, os.WriteFile(syncFile, []byte(`
source: indexeddb
target: local
keys:
  - a
  - missing
runOnce: true
`), 0o600))

	syncCmd := NewSyncCmd(ctx)
	syncCmd.SetOut(&bytes.Buffer{})
	syncCmd.SetArgs([]string{"--sync", syncFile})
	require.NoError(t, syncCmd.Execute())

	local := newClient(t, spec, v1alpha1.ModeLocal)
	_, err = local.GetEntry(ctx, "a")
	assert.NoError(t, err)
	_, err = local.GetEntry(ctx, "b")
	assert.ErrorIs(t, err, v1alpha1.ErrKeyNotFound)
}

func TestSyncInvalid(t *testing.T) {
	testSpec(t)

	for _, args := range [][]string{
		{"--source", "local", "--target", "local", "--once"},
		{"--source", "LOCAL", "--target", " local", "--once"},
		{"--source", "cloud", "--target", "local", "--once"},
		{"--target", "local", "--once"},
		{"--sync", filepath.Join(t.TempDir(), "missing.yaml")},
	} {
		syncCmd := NewSyncCmd(context.Background())
		syncCmd.SilenceErrors = true
		syncCmd.SilenceUsage = true
		syncCmd.SetArgs(args)
		assert.Error(t, syncCmd.Execute(), args)
	}

	// Modes are compared after normalization
	syncCmd := NewSyncCmd(context.Background())
	syncCmd.SilenceErrors = true
	syncCmd.SilenceUsage = true
	syncCmd.SetArgs([]string{"--source", "LOCAL", "--target", "local", "--once"})
	assert.ErrorContains(t, syncCmd.Execute(), "source and target are both local")
}

// testSpec points the environment configuration at temp stores.
func testSpec(t *testing.T) *v1alpha1.StorageSpec {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(config.LocalDirEnv, filepath.Join(dir, "local"))
	t.Setenv(config.DBPathEnv, filepath.Join(dir, "stuff.db"))

	spec, err := config.LoadStorageSpec("")
	require.NoError(t, err)
	return spec
}

func newClient(t *testing.T, spec *v1alpha1.StorageSpec, mode v1alpha1.Mode) v1alpha1.StoreClient {
	t.Helper()
	backend, err := spec.ProviderFor(mode)
	require.NoError(t, err)
	client, err := provider.NewClient(context.Background(), backend)
	require.NoError(t, err)
	return client
}
