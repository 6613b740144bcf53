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
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/arkide/stuffstore/cmd/sync"
	"github.com/arkide/stuffstore/pkg/config"
	"github.com/arkide/stuffstore/pkg/storage"
)

const (
	flagMode   = "mode"
	flagConfig = "config"
)

// NewRootCmd creates the stuffstore command tree.
func NewRootCmd(ctx context.Context) *cobra.Command {
	rootCmd := &cobra.Command{
		Use: "stuffstore",
		Long: `Stuffstore provides a uniform key/value storage facade over a remote
storage service, a local file store and an embedded database, together
with the block extensions built on top of it.`,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}
	rootCmd.SetContext(ctx)

	rootCmd.PersistentFlags().String(flagMode, "", "Storage mode to use: server, local or indexeddb. "+
		"Overrides "+config.ModeEnv+".")
	rootCmd.PersistentFlags().String(flagConfig, "", "Storage config file in YAML format.")

	rootCmd.AddCommand(
		newGetCmd(),
		newSetCmd(),
		newDeleteCmd(),
		newExistsCmd(),
		newInfoCmd(),
		newChangeCmd(),
		newListCmd(),
		newServeCmd(),
		newBlocksCmd(),
		newCallCmd(),
		newArrayCmd(),
		newCountdownCmd(),
		sync.NewSyncCmd(ctx),
	)

	return rootCmd
}

func Execute(ctx context.Context) {
	rootCmd := NewRootCmd(ctx)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		slog.ErrorContext(ctx, fmt.Sprintf("failed to execute command: %v", err))
		os.Exit(1)
	}
}

// newFacade creates the storage facade from the environment, the config file
// and the mode flag.
func newFacade(cmd *cobra.Command) (*storage.Facade, error) {
	configPath, _ := cmd.Flags().GetString(flagConfig)
	spec, err := config.LoadStorageSpec(configPath)
	if err != nil {
		return nil, err
	}

	facade, err := storage.NewFromSpec(cmd.Context(), spec)
	if err != nil {
		return nil, fmt.Errorf("error initializing storage: %w", err)
	}

	if mode, _ := cmd.Flags().GetString(flagMode); mode != "" {
		if err := facade.SetMode(mode); err != nil {
			return nil, err
		}
	}
	return facade, nil
}

// printValue writes strings as they are and everything else as JSON.
func printValue(w io.Writer, value any) error {
	if value == nil {
		return nil
	}
	if s, ok := value.(string); ok {
		_, err := fmt.Fprintln(w, s)
		return err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// parseValue decodes JSON literals and keeps anything else as a string.
func parseValue(raw string) any {
	var value any
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return raw
	}
	return value
}
