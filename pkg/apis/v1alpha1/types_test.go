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

package v1alpha1

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	for _, tt := range []struct {
		name    string
		want    Mode
		wantErr bool
	}{
		{name: "server", want: ModeServer},
		{name: "Local", want: ModeLocal},
		{name: " INDEXEDDB ", want: ModeIndexedDB},
		{name: "cloud", wantErr: true},
		{name: "", wantErr: true},
	} {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMode(tt.name)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownMode)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTypeOf(t *testing.T) {
	assert.Equal(t, "array", TypeOf([]any{"x"}))
	assert.Equal(t, "array", TypeOf([]string{"x"}))
	assert.Equal(t, "string", TypeOf(""))
	assert.Equal(t, "number", TypeOf(1.5))
	assert.Equal(t, "number", TypeOf(3))
	assert.Equal(t, "boolean", TypeOf(true))
	assert.Equal(t, "undefined", TypeOf(nil))
	assert.Equal(t, "object", TypeOf(map[string]any{}))
}

func TestNormalizeValue(t *testing.T) {
	assert.Equal(t, 3.0, NormalizeValue(3))
	assert.Equal(t, []any{"a", "b"}, NormalizeValue([]string{"a", "b"}))
	assert.Equal(t, []any{1.0, "x"}, NormalizeValue([]any{1, "x"}))
	assert.Equal(t, "v", NormalizeValue("v"))
}

func TestInfoJSON(t *testing.T) {
	data, err := json.Marshal(InfoFor(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"exists":false}`, string(data))

	data, err = json.Marshal(InfoFor(&Entry{Value: []any{"x"}, Locked: true}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"exists":true,"value":["x"],"locked":true,"type":"array"}`, string(data))
}

func TestEntryList(t *testing.T) {
	var missing *Entry
	assert.Equal(t, []any{}, missing.List())
	assert.Equal(t, []any{}, (&Entry{Value: "scalar"}).List())

	stored := &Entry{Value: []any{"x"}}
	list := append(stored.List(), "y")
	assert.Equal(t, []any{"x", "y"}, list)
	assert.Equal(t, []any{"x"}, stored.Value, "stored entry must not change")
}

func TestStorageSpecProviderFor(t *testing.T) {
	spec := StorageSpec{Local: &StoreProviderLocal{DirPath: "/tmp"}}
	assert.Equal(t, ModeServer, spec.GetMode())

	backend, err := spec.ProviderFor(ModeServer)
	require.NoError(t, err)
	assert.Equal(t, DefaultServerAddress, backend.Server.GetAddress())

	backend, err = spec.ProviderFor(ModeLocal)
	require.NoError(t, err)
	assert.Equal(t, DefaultKeyPrefix, backend.Local.GetKeyPrefix())

	_, err = spec.ProviderFor(ModeIndexedDB)
	assert.Error(t, err)

	_, err = spec.ProviderFor("cloud")
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestGetProviderName(t *testing.T) {
	_, err := getProviderName(nil)
	assert.Error(t, err)

	_, err = getProviderName(&StoreProvider{})
	assert.Error(t, err)

	_, err = getProviderName(&StoreProvider{
		Server: &StoreProviderServer{},
		Local:  &StoreProviderLocal{},
	})
	assert.Error(t, err)

	name, err := getProviderName(&StoreProvider{IndexedDB: &StoreProviderIndexedDB{}})
	assert.NoError(t, err)
	assert.Equal(t, "IndexedDB", name)
}

func TestSyncJobSchedule(t *testing.T) {
	assert.Equal(t, DefaultSyncJobSchedule, (&SyncJob{}).GetSchedule())
	assert.Equal(t, "@every 1m", (&SyncJob{Schedule: "@every 1m"}).GetSchedule())
	assert.Equal(t, DefaultSyncJobSchedule, (&SyncJob{Schedule: "not a schedule"}).GetSchedule())
}
