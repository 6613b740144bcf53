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

package storage

import "github.com/arkide/stuffstore/pkg/apis/v1alpha1"

type options struct {
	Mode v1alpha1.Mode
}

type Option func(*options)

// WithMode defines the initial ambient mode. Defaults to v1alpha1.DefaultMode.
func WithMode(mode v1alpha1.Mode) Option {
	return func(o *options) { o.Mode = mode }
}

func newOptions(opts ...Option) *options {
	option := &options{
		Mode: v1alpha1.DefaultMode,
	}
	for _, opt := range opts {
		opt(option)
	}
	return option
}
