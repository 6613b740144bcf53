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

	"github.com/arkide/stuffstore/pkg/apis/v1alpha1"
)

// List operations treat an absent or non-sequence value as an empty list.
// Indexes are 1-based.

// ListAppend appends item to the list stored under key.
func (v *View) ListAppend(ctx context.Context, key string, item any) {
	entry, ok := v.lookup(ctx, key)
	if !ok {
		return
	}

	list := append(entry.List(), v1alpha1.NormalizeValue(item))
	_, _ = v.Put(ctx, key, list, entry.IsLocked())
}

// ListJSON returns the list stored under key encoded as JSON.
func (v *View) ListJSON(ctx context.Context, key string) string {
	data, err := json.Marshal(v.list(ctx, key))
	if err != nil {
		return "[]"
	}
	return string(data)
}

// ListItem returns the item at index, or an empty string if out of range.
func (v *View) ListItem(ctx context.Context, key string, index int) any {
	list := v.list(ctx, key)
	if index < 1 || index > len(list) {
		return ""
	}
	return list[index-1]
}

// ListLength returns the number of items in the list stored under key.
func (v *View) ListLength(ctx context.Context, key string) int {
	return len(v.list(ctx, key))
}

// ListContains reports whether the list stored under key holds item. Items
// match only if they have the same type and value.
func (v *View) ListContains(ctx context.Context, key string, item any) bool {
	item = v1alpha1.NormalizeValue(item)
	for _, listItem := range v.list(ctx, key) {
		if sameValue(listItem, item) {
			return true
		}
	}
	return false
}

// ListRemove removes the item at index. Out of range indexes leave the
// entry untouched.
func (v *View) ListRemove(ctx context.Context, key string, index int) {
	entry, ok := v.lookup(ctx, key)
	if !ok {
		return
	}

	list := entry.List()
	if index < 1 || index > len(list) {
		return
	}
	list = append(list[:index-1], list[index:]...)
	_, _ = v.Put(ctx, key, list, entry.IsLocked())
}

// ListClear replaces the value stored under key with an empty list.
func (v *View) ListClear(ctx context.Context, key string) {
	entry, ok := v.lookup(ctx, key)
	if !ok {
		return
	}
	_, _ = v.Put(ctx, key, []any{}, entry.IsLocked())
}

func (v *View) list(ctx context.Context, key string) []any {
	entry, _ := v.lookup(ctx, key)
	return entry.List()
}

// sameValue compares scalars. Sequences and objects never match.
func sameValue(a, b any) bool {
	switch a := a.(type) {
	case nil:
		return b == nil
	case string:
		bs, ok := b.(string)
		return ok && a == bs
	case float64:
		bf, ok := b.(float64)
		return ok && a == bf
	case bool:
		bb, ok := b.(bool)
		return ok && a == bb
	}
	return false
}
