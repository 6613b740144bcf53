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

package server

import (
	"context"
	"fmt"
	"net/url"

	"github.com/hashicorp/go-cleanhttp"

	"github.com/arkide/stuffstore/pkg/apis/v1alpha1"
)

type Provider struct{}

func (p *Provider) NewClient(_ context.Context, backend v1alpha1.StoreProvider) (v1alpha1.StoreClient, error) {
	serverCfg := backend.Server
	baseURL, err := url.Parse(serverCfg.GetAddress())
	if err != nil {
		return nil, fmt.Errorf("failed to parse server address: %w", err)
	}

	return &client{
		httpClient: cleanhttp.DefaultPooledClient(),
		baseURL:    baseURL,
	}, nil
}

func (p *Provider) Validate(backend v1alpha1.StoreProvider) error {
	serverCfg := backend.Server
	if serverCfg == nil {
		return fmt.Errorf("empty .Server config")
	}
	addr, err := url.Parse(serverCfg.GetAddress())
	if err != nil {
		return fmt.Errorf("invalid .Server.Address: %w", err)
	}
	if addr.Scheme != "http" && addr.Scheme != "https" {
		return fmt.Errorf("invalid .Server.Address scheme %q", addr.Scheme)
	}
	if addr.Host == "" {
		return fmt.Errorf("empty .Server.Address host")
	}
	return nil
}

func init() {
	v1alpha1.Register(&Provider{}, &v1alpha1.StoreProvider{
		Server: &v1alpha1.StoreProviderServer{},
	})
}
