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

// Package storage implements the key/value storage facade. A Facade holds one
// store client per mode together with the ambient mode and the last response
// message. Operations run on a View, which is bound to a single mode for its
// whole lifetime.
package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/arkide/stuffstore/pkg/apis/v1alpha1"
	"github.com/arkide/stuffstore/pkg/provider"
)

// ReadyResponse is the last response before any operation completed.
const ReadyResponse = "Ready"

// Facade dispatches storage operations to the backend of a mode. Safe for
// concurrent usage, but read-modify-write operations on the same key are not
// synchronized and may lose updates.
type Facade struct {
	clients      map[v1alpha1.Mode]v1alpha1.StoreClient
	mode         atomic.Pointer[v1alpha1.Mode]
	lastResponse atomic.Pointer[string]
}

// New creates a Facade over the provided clients.
func New(clients map[v1alpha1.Mode]v1alpha1.StoreClient, opts ...Option) *Facade {
	o := newOptions(opts...)

	f := &Facade{
		clients: make(map[v1alpha1.Mode]v1alpha1.StoreClient, len(clients)),
	}
	for mode, client := range clients {
		f.clients[mode] = client
	}

	mode := o.Mode
	f.mode.Store(&mode)
	f.setLastResponse(ReadyResponse)

	return f
}

// NewFromSpec creates a Facade with a client for every mode configured in spec.
func NewFromSpec(ctx context.Context, spec *v1alpha1.StorageSpec) (*Facade, error) {
	if spec == nil {
		return nil, fmt.Errorf("storage spec is nil")
	}
	if !spec.GetMode().IsValid() {
		return nil, fmt.Errorf("%w %q", v1alpha1.ErrUnknownMode, spec.Mode)
	}

	clients, err := provider.NewClients(ctx, spec)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage clients: %w", err)
	}

	return New(clients, WithMode(spec.GetMode())), nil
}

// SetMode changes the ambient mode. Unknown modes are rejected and the
// current mode is kept. Operations already running keep their own mode.
func (f *Facade) SetMode(name string) error {
	mode, err := v1alpha1.ParseMode(name)
	if err != nil {
		f.setLastResponse(failureMessage(err))
		return err
	}

	f.mode.Store(&mode)
	f.setLastResponse(fmt.Sprintf("Storage mode set to %s", mode))
	return nil
}

// Mode returns the ambient mode.
func (f *Facade) Mode() v1alpha1.Mode {
	return *f.mode.Load()
}

// LastResponse returns the status message of the last completed operation.
func (f *Facade) LastResponse() string {
	return *f.lastResponse.Load()
}

// In returns a View bound to mode.
func (f *Facade) In(mode v1alpha1.Mode) *View {
	return &View{facade: f, mode: mode}
}

// Current returns a View bound to the ambient mode at the time of the call.
func (f *Facade) Current() *View {
	return f.In(f.Mode())
}

func (f *Facade) client(mode v1alpha1.Mode) (v1alpha1.StoreClient, error) {
	if !mode.IsValid() {
		return nil, fmt.Errorf("%w %q", v1alpha1.ErrUnknownMode, mode)
	}
	client, ok := f.clients[mode]
	if !ok || client == nil {
		return nil, fmt.Errorf("no backend configured for %s storage", mode)
	}
	return client, nil
}

func (f *Facade) setLastResponse(msg string) {
	f.lastResponse.Store(&msg)
}

// record stores the outcome of an operation into the last response. Missing
// keys are not failures; their message is recorded only when the backend
// reported one.
func (f *Facade) record(ctx context.Context, op, key string, mode v1alpha1.Mode, result v1alpha1.Result, err error) {
	if err != nil && !errors.Is(err, v1alpha1.ErrKeyNotFound) {
		slog.WarnContext(ctx, "storage operation failed",
			slog.String("op", op),
			slog.String("key", key),
			slog.String("mode", mode.String()),
			slog.Any("error", err))
		f.setLastResponse(failureMessage(err))
		return
	}
	if result.Message != "" {
		f.setLastResponse(result.Message)
	}
}

func failureMessage(err error) string {
	return "Error: " + err.Error()
}
