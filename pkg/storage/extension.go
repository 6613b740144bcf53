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

	"github.com/arkide/stuffstore/pkg/extension"
)

const ExtensionID = "arkideStorage"

// Disclaimer is the text shown by the disclaimer button.
const Disclaimer = `ArkIDE Storage Extension - Disclaimer

This extension provides cloud storage capabilities through the ArkIDE server.

Important Notes:
- Server storage is shared across all users
- The server may experience downtime
- All requests are logged for security
- Do not store sensitive information
- Use locks to protect important data

For issues or questions, contact the developer.

Storage modes:
- Server: Shared cloud storage
- Local Storage: Browser-only storage
- IndexedDB: Browser-only database storage`

// Extension exposes a Facade as host blocks. Every call captures the ambient
// mode once, before touching any backend.
type Extension struct {
	facade *Facade
}

var _ extension.Extension = &Extension{}

func NewExtension(facade *Facade) *Extension {
	return &Extension{facade: facade}
}

func (e *Extension) Info() extension.Descriptor {
	block := func(opcode string, blockType extension.BlockType, text string, args ...string) extension.Block {
		return extension.Block{Opcode: opcode, BlockType: blockType, Text: text, Arguments: args}
	}
	return extension.Descriptor{
		ID:     ExtensionID,
		Name:   "Store My Stuff",
		Color1: "#594ae2",
		Color2: "#3545bd",
		Blocks: []extension.Block{
			block("showDisclaimer", extension.BlockButton, "View Disclaimer"),
			block("setStorageMode", extension.BlockCommand, "use [MODE] storage", "MODE"),
			block("getStorageMode", extension.BlockReporter, "storage mode"),
			block("getLastResponse", extension.BlockReporter, "last response"),
			block("setValue", extension.BlockCommand, "set [KEY] to [VALUE] [LOCK]", "KEY", "VALUE", "LOCK"),
			block("getValue", extension.BlockReporter, "get [KEY]", "KEY"),
			block("deleteKey", extension.BlockCommand, "delete [KEY]", "KEY"),
			block("keyExists", extension.BlockBoolean, "[KEY] exists?", "KEY"),
			block("getKeyInfo", extension.BlockReporter, "info of [KEY]", "KEY"),
			block("changeValue", extension.BlockCommand, "change [KEY] by [AMOUNT]", "KEY", "AMOUNT"),
			block("appendToList", extension.BlockCommand, "add [ITEM] to list [KEY]", "ITEM", "KEY"),
			block("getListAsJSON", extension.BlockReporter, "list [KEY] as JSON", "KEY"),
			block("getListItem", extension.BlockReporter, "item [INDEX] of list [KEY]", "INDEX", "KEY"),
			block("getListLength", extension.BlockReporter, "length of list [KEY]", "KEY"),
			block("listContains", extension.BlockBoolean, "list [KEY] contains [ITEM]?", "KEY", "ITEM"),
			block("removeFromList", extension.BlockCommand, "remove item [INDEX] from list [KEY]", "INDEX", "KEY"),
			block("clearList", extension.BlockCommand, "clear list [KEY]", "KEY"),
		},
		Menus: map[string]extension.Menu{
			"storageMode": {
				AcceptReporters: true,
				Items: []extension.MenuItem{
					{Text: "Server", Value: "server"},
					{Text: "Local Storage", Value: "local"},
					{Text: "IndexedDB", Value: "indexeddb"},
				},
			},
			"lockMenu": {
				Items: extension.Items("unlocked", "locked"),
			},
		},
	}
}

func (e *Extension) Call(ctx context.Context, opcode string, args extension.Args) (any, error) {
	switch opcode {
	case "showDisclaimer":
		return Disclaimer, nil
	case "setStorageMode":
		// Failures are reported through the last response
		_ = e.facade.SetMode(args.String("MODE"))
		return nil, nil
	case "getStorageMode":
		return e.facade.Mode().String(), nil
	case "getLastResponse":
		return e.facade.LastResponse(), nil
	}

	view := e.facade.Current()
	key := args.String("KEY")

	switch opcode {
	case "setValue":
		view.Set(ctx, key, args["VALUE"], args.String("LOCK") == "locked")
		return nil, nil
	case "getValue":
		return view.Get(ctx, key), nil
	case "deleteKey":
		view.Delete(ctx, key)
		return nil, nil
	case "keyExists":
		return view.Exists(ctx, key), nil
	case "getKeyInfo":
		return view.Info(ctx, key), nil
	case "changeValue":
		view.ChangeValue(ctx, key, args.Number("AMOUNT"))
		return nil, nil
	case "appendToList":
		view.ListAppend(ctx, key, args["ITEM"])
		return nil, nil
	case "getListAsJSON":
		return view.ListJSON(ctx, key), nil
	case "getListItem":
		return view.ListItem(ctx, key, args.Int("INDEX")), nil
	case "getListLength":
		return view.ListLength(ctx, key), nil
	case "listContains":
		return view.ListContains(ctx, key, args["ITEM"]), nil
	case "removeFromList":
		view.ListRemove(ctx, key, args.Int("INDEX"))
		return nil, nil
	case "clearList":
		view.ListClear(ctx, key)
		return nil, nil
	}
	return nil, extension.UnknownOpcode(ExtensionID, opcode)
}
