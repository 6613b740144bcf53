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

package storage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkide/stuffstore/pkg/extension"
	"github.com/arkide/stuffstore/pkg/storage"
)

func TestExtension(t *testing.T) {
	ext := storage.NewExtension(newFacade(t))
	call := func(opcode string, args extension.Args) any {
		t.Helper()
		got, err := ext.Call(testCtx, opcode, args)
		require.NoError(t, err)
		return got
	}

	assert.Equal(t, storage.ExtensionID, ext.Info().ID)
	assert.Equal(t, storage.Disclaimer, call("showDisclaimer", nil))
	assert.Equal(t, "server", call("getStorageMode", nil))

	call("setStorageMode", extension.Args{"MODE": "IndexedDB"})
	assert.Equal(t, "indexeddb", call("getStorageMode", nil))
	assert.Equal(t, "Storage mode set to indexeddb", call("getLastResponse", nil))

	call("setStorageMode", extension.Args{"MODE": "floppy"})
	assert.Equal(t, "indexeddb", call("getStorageMode", nil))

	call("setValue", extension.Args{"KEY": "score", "VALUE": "10", "LOCK": "locked"})
	assert.Equal(t, "10", call("getValue", extension.Args{"KEY": "score"}))
	assert.Equal(t, true, call("keyExists", extension.Args{"KEY": "score"}))
	assert.JSONEq(t, `{"exists":true,"value":"10","locked":true,"type":"string"}`,
		call("getKeyInfo", extension.Args{"KEY": "score"}).(string))

	call("changeValue", extension.Args{"KEY": "score", "AMOUNT": "5"})
	assert.Equal(t, 15.0, call("getValue", extension.Args{"KEY": "score"}))

	call("deleteKey", extension.Args{"KEY": "score"})
	assert.Equal(t, false, call("keyExists", extension.Args{"KEY": "score"}))
	assert.Equal(t, "", call("getValue", extension.Args{"KEY": "score"}))

	call("appendToList", extension.Args{"KEY": "myList", "ITEM": "x"})
	call("appendToList", extension.Args{"KEY": "myList", "ITEM": "y"})
	assert.Equal(t, `["x","y"]`, call("getListAsJSON", extension.Args{"KEY": "myList"}))
	assert.Equal(t, "x", call("getListItem", extension.Args{"KEY": "myList", "INDEX": "1"}))
	assert.Equal(t, "", call("getListItem", extension.Args{"KEY": "myList", "INDEX": "3"}))
	assert.Equal(t, true, call("listContains", extension.Args{"KEY": "myList", "ITEM": "y"}))

	call("removeFromList", extension.Args{"KEY": "myList", "INDEX": "1"})
	assert.Equal(t, `["y"]`, call("getListAsJSON", extension.Args{"KEY": "myList"}))
	assert.Equal(t, 1, call("getListLength", extension.Args{"KEY": "myList"}))

	call("clearList", extension.Args{"KEY": "myList"})
	assert.Equal(t, `[]`, call("getListAsJSON", extension.Args{"KEY": "myList"}))

	_, err := ext.Call(testCtx, "lockKey", extension.Args{"KEY": "myList"})
	assert.ErrorIs(t, err, extension.ErrUnknownOpcode)
}
