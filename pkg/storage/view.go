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

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"

	"github.com/spf13/cast"

	"github.com/arkide/stuffstore/pkg/apis/v1alpha1"
)

// View runs storage operations against the backend of a single mode.
//
// Fetch, Put, Remove and Describe return typed results and errors. All other
// methods never fail: errors are recorded into the facade last response and
// a sentinel value is returned instead.
type View struct {
	facade *Facade
	mode   v1alpha1.Mode
}

// Mode returns the mode this View is bound to.
func (v *View) Mode() v1alpha1.Mode {
	return v.mode
}

// Fetch returns the entry stored under key. Returns v1alpha1.ErrKeyNotFound
// if the key is absent.
func (v *View) Fetch(ctx context.Context, key string) (v1alpha1.Result, error) {
	client, err := v.facade.client(v.mode)
	if err != nil {
		v.facade.record(ctx, "get", key, v.mode, v1alpha1.Result{}, err)
		return v1alpha1.Result{}, err
	}
	result, err := client.GetEntry(ctx, key)
	if err == nil && result.Entry == nil {
		err = v1alpha1.ErrKeyNotFound
	}
	v.facade.record(ctx, "get", key, v.mode, result, err)
	return result, err
}

// Put creates or overwrites the entry stored under key. The locked flag is
// stored as is and not checked against the existing entry.
func (v *View) Put(ctx context.Context, key string, value any, locked bool) (v1alpha1.Result, error) {
	client, err := v.facade.client(v.mode)
	if err != nil {
		v.facade.record(ctx, "set", key, v.mode, v1alpha1.Result{}, err)
		return v1alpha1.Result{}, err
	}
	result, err := client.SetEntry(ctx, key, v1alpha1.Entry{
		Value:  v1alpha1.NormalizeValue(value),
		Locked: locked,
	})
	v.facade.record(ctx, "set", key, v.mode, result, err)
	return result, err
}

// Remove deletes the entry stored under key.
func (v *View) Remove(ctx context.Context, key string) (v1alpha1.Result, error) {
	client, err := v.facade.client(v.mode)
	if err != nil {
		v.facade.record(ctx, "delete", key, v.mode, v1alpha1.Result{}, err)
		return v1alpha1.Result{}, err
	}
	result, err := client.DeleteEntry(ctx, key)
	v.facade.record(ctx, "delete", key, v.mode, result, err)
	return result, err
}

// Describe returns the summary of key.
func (v *View) Describe(ctx context.Context, key string) (v1alpha1.Result, error) {
	client, err := v.facade.client(v.mode)
	if err != nil {
		v.facade.record(ctx, "info", key, v.mode, v1alpha1.Result{}, err)
		return v1alpha1.Result{}, err
	}
	result, err := client.Info(ctx, key)
	if err == nil && result.Info == nil {
		result.Info = v1alpha1.InfoFor(nil)
	}
	v.facade.record(ctx, "info", key, v.mode, result, err)
	return result, err
}

// Get returns the value stored under key, or an empty string if the key is
// absent or could not be read.
func (v *View) Get(ctx context.Context, key string) any {
	result, err := v.Fetch(ctx, key)
	if err != nil || result.Entry.Value == nil {
		return ""
	}
	return result.Entry.Value
}

// Set stores value under key.
func (v *View) Set(ctx context.Context, key string, value any, locked bool) {
	_, _ = v.Put(ctx, key, value, locked)
}

// Delete removes key. Deleting an absent key is a no-op.
func (v *View) Delete(ctx context.Context, key string) {
	_, _ = v.Remove(ctx, key)
}

// Exists reports whether an entry is stored under key.
func (v *View) Exists(ctx context.Context, key string) bool {
	_, err := v.Fetch(ctx, key)
	return err == nil
}

// Info returns the JSON summary of key. Backends with a native response (the
// remote service) return it verbatim.
func (v *View) Info(ctx context.Context, key string) string {
	result, err := v.Describe(ctx, key)
	if err != nil {
		return `{"exists":false}`
	}
	if len(result.Raw) > 0 {
		return string(result.Raw)
	}
	data, err := json.Marshal(result.Info)
	if err != nil {
		return `{"exists":false}`
	}
	return string(data)
}

// ChangeValue adds amount to the numeric value stored under key. Absent or
// non-numeric values count as 0. The lock flag of the entry is kept.
func (v *View) ChangeValue(ctx context.Context, key string, amount float64) {
	entry, ok := v.lookup(ctx, key)
	if !ok {
		return
	}

	current := 0.0
	if entry != nil {
		current = ToNumber(entry.Value)
	}
	_, _ = v.Put(ctx, key, current+amount, entry.IsLocked())
}

// lookup fetches an entry for a read-modify-write operation. Absent keys
// return a nil entry; ok is false only if the read itself failed.
func (v *View) lookup(ctx context.Context, key string) (*v1alpha1.Entry, bool) {
	result, err := v.Fetch(ctx, key)
	if errors.Is(err, v1alpha1.ErrKeyNotFound) {
		return nil, true
	}
	if err != nil {
		return nil, false
	}
	return result.Entry, true
}

// ToNumber coerces a stored value into a number. Anything that does not
// coerce to a number becomes 0.
func ToNumber(value any) float64 {
	if s, ok := value.(string); ok {
		value = strings.TrimSpace(s)
	}
	number, err := cast.ToFloat64E(value)
	if err != nil || math.IsNaN(number) {
		return 0
	}
	return number
}
