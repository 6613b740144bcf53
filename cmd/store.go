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

package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"github.com/arkide/stuffstore/pkg/storage"
)

// storeCmd runs fn against a view bound to the selected mode and reports the
// last response of mutating commands.
func storeCmd(use, short string, args cobra.PositionalArgs, mutating bool,
	fn func(cmd *cobra.Command, view *storage.View, args []string) (any, error),
) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			facade, err := newFacade(cmd)
			if err != nil {
				return err
			}

			result, err := fn(cmd, facade.Current(), args)
			if err != nil {
				return err
			}

			response := facade.LastResponse()
			if strings.HasPrefix(response, "Error: ") {
				return errors.New(strings.TrimPrefix(response, "Error: "))
			}
			if mutating {
				return printValue(cmd.OutOrStdout(), response)
			}
			return printValue(cmd.OutOrStdout(), result)
		},
	}
}

func newGetCmd() *cobra.Command {
	return storeCmd("get KEY", "Prints the value stored under a key.", cobra.ExactArgs(1), false,
		func(cmd *cobra.Command, view *storage.View, args []string) (any, error) {
			return view.Get(cmd.Context(), args[0]), nil
		})
}

func newSetCmd() *cobra.Command {
	var locked, asString bool

	cmd := storeCmd("set KEY VALUE", "Stores a value under a key. JSON literals are decoded.", cobra.ExactArgs(2), true,
		func(cmd *cobra.Command, view *storage.View, args []string) (any, error) {
			var value any = args[1]
			if !asString {
				value = parseValue(args[1])
			}
			view.Set(cmd.Context(), args[0], value, locked)
			return nil, nil
		})
	cmd.Flags().BoolVar(&locked, "locked", false, "Mark the entry as locked.")
	cmd.Flags().BoolVar(&asString, "string", false, "Store the value as a string without decoding it.")
	return cmd
}

func newDeleteCmd() *cobra.Command {
	return storeCmd("delete KEY", "Deletes a key.", cobra.ExactArgs(1), true,
		func(cmd *cobra.Command, view *storage.View, args []string) (any, error) {
			view.Delete(cmd.Context(), args[0])
			return nil, nil
		})
}

func newExistsCmd() *cobra.Command {
	return storeCmd("exists KEY", "Reports whether a key exists.", cobra.ExactArgs(1), false,
		func(cmd *cobra.Command, view *storage.View, args []string) (any, error) {
			return view.Exists(cmd.Context(), args[0]), nil
		})
}

func newInfoCmd() *cobra.Command {
	return storeCmd("info KEY", "Prints the JSON summary of a key.", cobra.ExactArgs(1), false,
		func(cmd *cobra.Command, view *storage.View, args []string) (any, error) {
			return view.Info(cmd.Context(), args[0]), nil
		})
}

func newChangeCmd() *cobra.Command {
	return storeCmd("change KEY AMOUNT", "Adds an amount to the number stored under a key.", cobra.ExactArgs(2), true,
		func(cmd *cobra.Command, view *storage.View, args []string) (any, error) {
			amount, err := cast.ToFloat64E(args[1])
			if err != nil {
				return nil, fmt.Errorf("invalid amount %q: %w", args[1], err)
			}
			view.ChangeValue(cmd.Context(), args[0], amount)
			return nil, nil
		})
}

func newListCmd() *cobra.Command {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Operates on list entries. Indexes start at 1.",
	}

	index := func(raw string) (int, error) {
		i, err := cast.ToIntE(raw)
		if err != nil {
			return 0, fmt.Errorf("invalid index %q: %w", raw, err)
		}
		return i, nil
	}

	listCmd.AddCommand(
		storeCmd("append KEY ITEM", "Appends an item to a list.", cobra.ExactArgs(2), true,
			func(cmd *cobra.Command, view *storage.View, args []string) (any, error) {
				view.ListAppend(cmd.Context(), args[0], parseValue(args[1]))
				return nil, nil
			}),
		storeCmd("json KEY", "Prints a list as JSON.", cobra.ExactArgs(1), false,
			func(cmd *cobra.Command, view *storage.View, args []string) (any, error) {
				return view.ListJSON(cmd.Context(), args[0]), nil
			}),
		storeCmd("item KEY INDEX", "Prints a list item.", cobra.ExactArgs(2), false,
			func(cmd *cobra.Command, view *storage.View, args []string) (any, error) {
				i, err := index(args[1])
				if err != nil {
					return nil, err
				}
				return view.ListItem(cmd.Context(), args[0], i), nil
			}),
		storeCmd("length KEY", "Prints the length of a list.", cobra.ExactArgs(1), false,
			func(cmd *cobra.Command, view *storage.View, args []string) (any, error) {
				return view.ListLength(cmd.Context(), args[0]), nil
			}),
		storeCmd("contains KEY ITEM", "Reports whether a list contains an item.", cobra.ExactArgs(2), false,
			func(cmd *cobra.Command, view *storage.View, args []string) (any, error) {
				return view.ListContains(cmd.Context(), args[0], parseValue(args[1])), nil
			}),
		storeCmd("remove KEY INDEX", "Removes a list item.", cobra.ExactArgs(2), true,
			func(cmd *cobra.Command, view *storage.View, args []string) (any, error) {
				i, err := index(args[1])
				if err != nil {
					return nil, err
				}
				view.ListRemove(cmd.Context(), args[0], i)
				return nil, nil
			}),
		storeCmd("clear KEY", "Empties a list.", cobra.ExactArgs(1), true,
			func(cmd *cobra.Command, view *storage.View, args []string) (any, error) {
				view.ListClear(cmd.Context(), args[0])
				return nil, nil
			}),
	)

	return listCmd
}
