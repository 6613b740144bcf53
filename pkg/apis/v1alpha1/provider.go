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
	"context"
	"errors"
)

var ErrKeyNotFound = errors.New("key not found")

// Provider defines methods to manage store clients.
type Provider interface {
	// NewClient creates a new StoreClient for provided backend.
	NewClient(ctx context.Context, backend StoreProvider) (StoreClient, error)

	// Validate checks if the provided backend is valid.
	Validate(backend StoreProvider) error
}

// StoreReader implements read ops for a storage backend. Must support concurrent calls.
type StoreReader interface {
	// GetEntry returns the entry stored under key in Result.Entry.
	// Returns ErrKeyNotFound if the key is absent.
	GetEntry(ctx context.Context, key string) (Result, error)

	// Info returns the key summary in Result.Info.
	Info(ctx context.Context, key string) (Result, error)
}

// StoreWriter implements write ops for a storage backend. Must support concurrent calls.
type StoreWriter interface {
	// SetEntry creates or overwrites the entry stored under key.
	SetEntry(ctx context.Context, key string, entry Entry) (Result, error)

	// DeleteEntry removes the entry stored under key. Deleting an absent key
	// is not an error.
	DeleteEntry(ctx context.Context, key string) (Result, error)
}

// StoreClient unifies read and write ops for a specific storage backend.
type StoreClient interface {
	StoreReader
	StoreWriter
}

// StoreLister is implemented by backends that can enumerate their keys.
type StoreLister interface {
	ListKeys(ctx context.Context) ([]string, error)
}
