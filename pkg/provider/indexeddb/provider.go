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
	"fmt"
	"regexp"

	"github.com/arkide/stuffstore/pkg/apis/v1alpha1"
)

var objectStoreRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

type Provider struct{}

func (p *Provider) NewClient(_ context.Context, backend v1alpha1.StoreProvider) (v1alpha1.StoreClient, error) {
	dbCfg := backend.IndexedDB
	return &client{
		path:  dbCfg.Path,
		table: dbCfg.GetObjectStore(),
	}, nil
}

func (p *Provider) Validate(backend v1alpha1.StoreProvider) error {
	dbCfg := backend.IndexedDB
	if dbCfg == nil {
		return fmt.Errorf("empty .IndexedDB config")
	}
	if dbCfg.Path == "" {
		return fmt.Errorf("empty .IndexedDB.Path")
	}
	if !objectStoreRe.MatchString(dbCfg.GetObjectStore()) {
		return fmt.Errorf("invalid .IndexedDB.ObjectStore %q", dbCfg.ObjectStore)
	}
	return nil
}

func init() {
	v1alpha1.Register(&Provider{}, &v1alpha1.StoreProvider{
		IndexedDB: &v1alpha1.StoreProviderIndexedDB{},
	})
}
