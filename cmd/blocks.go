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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arkide/stuffstore/pkg/countdown"
	"github.com/arkide/stuffstore/pkg/extension"
	"github.com/arkide/stuffstore/pkg/numarray"
	"github.com/arkide/stuffstore/pkg/storage"
)

// newRegistry registers every extension, the storage extension running on
// facade.
func newRegistry(facade *storage.Facade) (*extension.Registry, error) {
	registry := extension.NewRegistry()
	for _, ext := range []extension.Extension{
		storage.NewExtension(facade),
		&numarray.Extension{},
		countdown.NewExtension(nil),
	} {
		if err := registry.Register(ext); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

func newBlocksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "blocks [EXTENSION]",
		Short: "Prints the block descriptors of all or a single extension.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := newRegistry(storage.New(nil))
			if err != nil {
				return err
			}

			if len(args) == 0 {
				return printValue(cmd.OutOrStdout(), registry.Descriptors())
			}

			ext, ok := registry.Get(args[0])
			if !ok {
				return fmt.Errorf("extension %s not registered", args[0])
			}
			return printValue(cmd.OutOrStdout(), ext.Info())
		},
	}
}

func newCallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "call EXTENSION OPCODE [NAME=value...]",
		Short: "Calls a single block of an extension.",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			blockArgs, err := extension.ParseArgs(args[2:])
			if err != nil {
				return err
			}

			facade, err := newFacade(cmd)
			if err != nil {
				return err
			}
			registry, err := newRegistry(facade)
			if err != nil {
				return err
			}

			result, err := registry.Call(cmd.Context(), args[0], args[1], blockArgs)
			if err != nil {
				return err
			}
			return printValue(cmd.OutOrStdout(), result)
		},
	}
}

func newArrayCmd() *cobra.Command {
	var order string

	cmd := &cobra.Command{
		Use:   "array OPCODE JSON",
		Short: "Runs a number array tool, e.g. lowestNumber, sortArray or removeCharacters.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			blockArgs := extension.Args{"ARRAY": args[1], "ORDER": order}
			if args[0] == "removeCharacters" {
				blockArgs = extension.Args{"CHARS": order, "TEXT": args[1]}
			}

			result, err := (&numarray.Extension{}).Call(cmd.Context(), args[0], blockArgs)
			if err != nil {
				return err
			}
			return printValue(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().StringVar(&order, "order", "ascending",
		"Sort order for sortArray, or the characters to remove for removeCharacters.")

	return cmd
}

func newCountdownCmd() *cobra.Command {
	var unit string

	countdownCmd := &cobra.Command{
		Use:   "countdown",
		Short: "Computes time until or between dates.",
	}
	countdownCmd.PersistentFlags().StringVar(&unit, "unit", countdown.Days,
		"Unit of the result: milliseconds, seconds, minutes, hours, days, weeks, months or years.")

	ext := countdown.NewExtension(nil)
	call := func(cmd *cobra.Command, opcode string, args extension.Args) error {
		result, err := ext.Call(cmd.Context(), opcode, args)
		if err != nil {
			return err
		}
		return printValue(cmd.OutOrStdout(), result)
	}

	countdownCmd.AddCommand(
		&cobra.Command{
			Use:   "until DATE",
			Short: "Prints the time from now until a date.",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return call(cmd, "timeUntilDate", extension.Args{"DATE": args[0], "UNIT": unit})
			},
		},
		&cobra.Command{
			Use:   "between START END",
			Short: "Prints the time between two dates.",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return call(cmd, "timeBetweenDates", extension.Args{"START": args[0], "END": args[1], "UNIT": unit})
			},
		},
	)

	return countdownCmd
}
