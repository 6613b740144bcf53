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
	"reflect"
)

// Entry defines the data stored under a single key.
type Entry struct {
	// Value holds a JSON-compatible scalar or a sequence of scalars.
	Value any `json:"value"`

	// Locked marks the entry as "do not overwrite". It is recorded and
	// preserved by read-modify-write operations but never enforced.
	Locked bool `json:"locked"`
}

// List returns the entry value as a sequence. Missing or non-sequence values
// yield an empty sequence.
func (e *Entry) List() []any {
	if e == nil {
		return []any{}
	}
	list, ok := e.Value.([]any)
	if !ok {
		return []any{}
	}
	// Copy so callers can mutate without touching the stored entry
	return append(make([]any, 0, len(list)+1), list...)
}

// IsLocked is nil-safe access to Locked.
func (e *Entry) IsLocked() bool {
	return e != nil && e.Locked
}

// Info defines the summary returned for a key.
type Info struct {
	Exists bool   `json:"exists"`
	Value  any    `json:"value"`
	Locked bool   `json:"locked"`
	Type   string `json:"type"`
}

// InfoFor builds Info for an entry. A nil entry results in a non-existing Info.
func InfoFor(entry *Entry) *Info {
	if entry == nil {
		return &Info{}
	}
	return &Info{
		Exists: true,
		Value:  entry.Value,
		Locked: entry.Locked,
		Type:   TypeOf(entry.Value),
	}
}

// MarshalJSON only encodes the exists flag for missing keys.
func (i Info) MarshalJSON() ([]byte, error) {
	if !i.Exists {
		return []byte(`{"exists":false}`), nil
	}
	type info Info
	return json.Marshal(info(i))
}

// Result defines the outcome of a single backend operation. All backends
// translate their native responses into a Result.
type Result struct {
	// Success reports whether the backend accepted the operation.
	Success bool

	// Message is the backend status message. Empty when the backend has
	// nothing to report (e.g. local reads).
	Message string

	// Entry is the fetched entry for read operations.
	Entry *Entry

	// Info is the key summary for info operations.
	Info *Info

	// Raw holds the verbatim response body for backends that have one.
	Raw json.RawMessage
}

// TypeOf returns the dynamic type name of a value: "array" for sequences,
// otherwise one of "string", "number", "boolean", "object" or "undefined".
func TypeOf(value any) string {
	switch value.(type) {
	case nil:
		return "undefined"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return "number"
	}
	if reflect.TypeOf(value).Kind() == reflect.Slice {
		return "array"
	}
	return "object"
}

// NormalizeValue converts a value into the shape it has after a JSON round
// trip, so comparisons and equality checks behave the same for all backends.
func NormalizeValue(value any) any {
	switch v := value.(type) {
	case nil, string, bool, float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int8:
		return float64(v)
	case int16:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case uint:
		return float64(v)
	case uint8:
		return float64(v)
	case uint16:
		return float64(v)
	case uint32:
		return float64(v)
	case uint64:
		return float64(v)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = NormalizeValue(item)
		}
		return out
	}

	// Slow path for typed slices and anything else JSON can express
	data, err := json.Marshal(value)
	if err != nil {
		return value
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return value
	}
	return out
}
