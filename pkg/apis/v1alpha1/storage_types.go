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

import "fmt"

var (
	DefaultServerAddress = "https://projstorage.arkide.site"
	DefaultKeyPrefix     = "arkide_"
	DefaultDatabaseName  = "arkide_storage"
	DefaultObjectStore   = "data_store"
)

// StoreProvider defines which backend provider to use.
// Only one can be specified.
type StoreProvider struct {
	// Used for the remote key/value service.
	Server *StoreProviderServer `json:"server,omitempty"`

	// Used for the file-per-key local store.
	Local *StoreProviderLocal `json:"local,omitempty"`

	// Used for the embedded database store.
	IndexedDB *StoreProviderIndexedDB `json:"indexeddb,omitempty"`
}

// StoreProviderServer defines provider for the remote key/value service.
type StoreProviderServer struct {
	// Base address of the service.
	// Defaults to DefaultServerAddress
	Address string `json:"address,omitempty"`
}

func (p *StoreProviderServer) GetAddress() string {
	if p.Address == "" {
		return DefaultServerAddress
	}
	return p.Address
}

// StoreProviderLocal defines provider for the local store.
type StoreProviderLocal struct {
	// Directory to keep entries in.
	// Required
	DirPath string `json:"dir-path"`

	// Namespace prepended to every key.
	// Defaults to DefaultKeyPrefix
	KeyPrefix string `json:"key-prefix,omitempty"`
}

func (p *StoreProviderLocal) GetKeyPrefix() string {
	if p.KeyPrefix == "" {
		return DefaultKeyPrefix
	}
	return p.KeyPrefix
}

// StoreProviderIndexedDB defines provider for the embedded database store.
type StoreProviderIndexedDB struct {
	// Path to the database file.
	// Required
	Path string `json:"path"`

	// Name of the table holding entries.
	// Defaults to DefaultObjectStore
	ObjectStore string `json:"object-store,omitempty"`
}

func (p *StoreProviderIndexedDB) GetObjectStore() string {
	if p.ObjectStore == "" {
		return DefaultObjectStore
	}
	return p.ObjectStore
}

// StorageSpec configures all backends the facade can switch between.
type StorageSpec struct {
	// Used to select the initial mode.
	// Defaults to DefaultMode
	// Optional
	Mode Mode `json:"mode,omitempty"`

	Server    *StoreProviderServer    `json:"server,omitempty"`
	Local     *StoreProviderLocal     `json:"local,omitempty"`
	IndexedDB *StoreProviderIndexedDB `json:"indexeddb,omitempty"`
}

func (spec *StorageSpec) GetMode() Mode {
	if spec.Mode == "" {
		return DefaultMode
	}
	return spec.Mode
}

// ProviderFor returns the single-backend StoreProvider configured for mode.
func (spec *StorageSpec) ProviderFor(mode Mode) (*StoreProvider, error) {
	switch mode {
	case ModeServer:
		server := spec.Server
		if server == nil {
			server = &StoreProviderServer{}
		}
		return &StoreProvider{Server: server}, nil
	case ModeLocal:
		if spec.Local == nil {
			return nil, fmt.Errorf("no local backend configured")
		}
		return &StoreProvider{Local: spec.Local}, nil
	case ModeIndexedDB:
		if spec.IndexedDB == nil {
			return nil, fmt.Errorf("no indexeddb backend configured")
		}
		return &StoreProvider{IndexedDB: spec.IndexedDB}, nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownMode, mode)
}
