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
	"fmt"

	"github.com/arkide/stuffstore/pkg/apis/v1alpha1"
)

type Provider struct{}

func (p *Provider) NewClient(_ context.Context, backend v1alpha1.StoreProvider) (v1alpha1.StoreClient, error) {
	localCfg := backend.Local
	return &client{
		dir:    localCfg.DirPath,
		prefix: localCfg.GetKeyPrefix(),
	}, nil
}

func (p *Provider) Validate(backend v1alpha1.StoreProvider) error {
	localCfg := backend.Local
	if localCfg == nil {
		return fmt.Errorf("empty .Local config")
	}
	if localCfg.DirPath == "" {
		return fmt.Errorf("empty .Local.DirPath")
	}
	return nil
}

func init() {
	v1alpha1.Register(&Provider{}, &v1alpha1.StoreProvider{
		Local: &v1alpha1.StoreProviderLocal{},
	})
}
