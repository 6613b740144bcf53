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
	"errors"
	"fmt"
	"reflect"
	"sync"
)

var (
	providers  = map[string]Provider{}
	providerMu sync.RWMutex
)

// Register a Provider for a given backend. Panics if a given backend is already registered.
func Register(provider Provider, backend *StoreProvider) {
	providerName, err := getProviderName(backend)
	if err != nil {
		panic(fmt.Errorf("error registering storage backend: %w", err))
	}

	providerMu.Lock()
	defer providerMu.Unlock()

	if _, exists := providers[providerName]; exists {
		panic(fmt.Errorf("storage backend %s already registered", providerName))
	}

	providers[providerName] = provider
}

// GetProvider returns the Provider for given StoreProvider.
func GetProvider(backend *StoreProvider) (Provider, error) {
	providerName, err := getProviderName(backend)
	if err != nil {
		return nil, fmt.Errorf("failed to find storage backend: %w", err)
	}

	providerMu.RLock()
	defer providerMu.RUnlock()

	provider, ok := providers[providerName]
	if !ok {
		return nil, fmt.Errorf("failed to find registered storage backend for %s", providerName)
	}

	return provider, nil
}

// getProviderName returns the name of the configured StoreProvider or an error if the
// backend is invalid/not configured.
func getProviderName(backend *StoreProvider) (string, error) {
	if backend == nil {
		return "", errors.New("no StoreProvider provided")
	}

	nonNilKey, nonNilCount := "", 0
	v := reflect.ValueOf(*backend)
	for num := 0; num < v.NumField(); num++ {
		if !v.Field(num).IsNil() {
			nonNilKey = v.Type().Field(num).Name
			nonNilCount++
		}

		if nonNilCount > 1 {
			break
		}
	}

	if nonNilCount != 1 {
		return "", fmt.Errorf("only one storage backend required for StoreProvider, found %d", nonNilCount)
	}

	return nonNilKey, nil
}
