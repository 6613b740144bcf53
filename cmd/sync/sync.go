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

package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/ghodss/yaml"
	"github.com/spf13/cobra"

	"github.com/arkide/stuffstore/pkg/apis/v1alpha1"
	"github.com/arkide/stuffstore/pkg/config"
	"github.com/arkide/stuffstore/pkg/controllers/syncjob"
	"github.com/arkide/stuffstore/pkg/provider"
	"github.com/arkide/stuffstore/pkg/storesync"
)

func NewSyncCmd(ctx context.Context) *cobra.Command {
	// Create cmd
	cmd := &syncCmd{}
	cobraCmd := &cobra.Command{
		Use:   "sync",
		Short: "Synchronizes entries from a source to a target storage mode.",
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			// Inherited from the root command when present
			cmd.flagConfigFile, _ = cobraCmd.Flags().GetString("config")

			if err := cmd.init(); err != nil {
				return fmt.Errorf("error initializing sync command: %w", err)
			}

			return cmd.run(cobraCmd)
		},
	}
	// ctx passed to project components
	cmd.ctx = ctx
	// ctx passed to cobra
	cobraCmd.SetContext(ctx)

	// Register cmd flags
	cobraCmd.Flags().StringVar(&cmd.flagSyncFile, "sync", "", "Sync job config file. "+
		"Flags override the values loaded from it.")
	cobraCmd.Flags().StringVar(&cmd.flagSource, "source", "", "Mode the entries are read from.")
	cobraCmd.Flags().StringVar(&cmd.flagTarget, "target", "", "Mode the entries are written to.")
	cobraCmd.Flags().StringSliceVar(&cmd.flagKeys, "keys", nil,
		"Keys to sync. If not specified, all keys of the source are synced.")
	cobraCmd.Flags().StringVar(&cmd.flagSchedule, "schedule", "",
		"Sync periodically using CRON schedule. Defaults to "+v1alpha1.DefaultSyncJobSchedule+".")
	cobraCmd.Flags().BoolVar(&cmd.flagOnce, "once", false, "Sync only once and exit.")

	return cobraCmd
}

type syncCmd struct {
	ctx            context.Context
	flagConfigFile string
	flagSyncFile   string
	flagSource     string
	flagTarget     string
	flagKeys       []string
	flagSchedule   string
	flagOnce       bool

	source v1alpha1.StoreReader
	target v1alpha1.StoreWriter
	sync   *v1alpha1.SyncJob
}

func (cmd *syncCmd) init() error {
	// Init sync request by loading from file and overriding from cli
	sync := &v1alpha1.SyncJob{}
	if cmd.flagSyncFile != "" {
		loaded, err := loadSyncPlan(cmd.flagSyncFile)
		if err != nil {
			return fmt.Errorf("error loading sync plan: %w", err)
		}
		sync = loaded
	}
	if cmd.flagSource != "" {
		sync.Source = v1alpha1.Mode(cmd.flagSource)
	}
	if cmd.flagTarget != "" {
		sync.Target = v1alpha1.Mode(cmd.flagTarget)
	}
	if len(cmd.flagKeys) > 0 {
		sync.Keys = cmd.flagKeys
	}
	if cmd.flagSchedule != "" {
		sync.Schedule = cmd.flagSchedule
	}
	if cmd.flagOnce {
		sync.RunOnce = true
	}
	cmd.sync = sync

	// Normalize modes so differently spelled flags compare equal
	source, err := v1alpha1.ParseMode(string(sync.Source))
	if err != nil {
		return fmt.Errorf("invalid source: %w", err)
	}
	target, err := v1alpha1.ParseMode(string(sync.Target))
	if err != nil {
		return fmt.Errorf("invalid target: %w", err)
	}
	if source == target {
		return fmt.Errorf("source and target are both %s", source)
	}
	sync.Source, sync.Target = source, target

	spec, err := config.LoadStorageSpec(cmd.flagConfigFile)
	if err != nil {
		return fmt.Errorf("error loading storage config: %w", err)
	}

	// Init source
	cmd.source, err = initStore(cmd.ctx, spec, sync.Source)
	if err != nil {
		return fmt.Errorf("error initializing source store: %w", err)
	}

	// Init target
	cmd.target, err = initStore(cmd.ctx, spec, sync.Target)
	if err != nil {
		return fmt.Errorf("error initializing target store: %w", err)
	}

	return nil
}

func (cmd *syncCmd) run(cobraCmd *cobra.Command) error {
	// Run once
	if cmd.sync.RunOnce {
		return cmd.syncOnce(cobraCmd)
	}

	// Run on schedule until interrupted
	ctx, stop := signal.NotifyContext(cmd.ctx, os.Interrupt)
	defer stop()

	handler, err := syncjob.Handle(ctx, *cmd.sync, cmd.source, cmd.target)
	if err != nil {
		return err
	}

	<-ctx.Done()
	handler.Stop()
	handler.Wait()

	return nil
}

func (cmd *syncCmd) syncOnce(cobraCmd *cobra.Command) error {
	resp, err := storesync.Sync(cmd.ctx, cmd.source, cmd.target, cmd.sync.Keys)
	if err != nil {
		return err
	}
	slog.InfoContext(cmd.ctx, resp.Status)
	fmt.Fprintln(cobraCmd.OutOrStdout(), resp.Status)

	if !resp.Success {
		return fmt.Errorf("synced only %d out of %d keys", resp.Synced, resp.Total)
	}
	return nil
}

func initStore(ctx context.Context, spec *v1alpha1.StorageSpec, mode v1alpha1.Mode) (v1alpha1.StoreClient, error) {
	store, err := spec.ProviderFor(mode)
	if err != nil {
		return nil, fmt.Errorf("error loading store: %w", err)
	}

	client, err := provider.NewClient(ctx, store)
	if err != nil {
		return nil, fmt.Errorf("error creating client: %w", err)
	}

	return client, nil
}

func loadSyncPlan(path string) (*v1alpha1.SyncJob, error) {
	// Load file
	yamlBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Unmarshal (convert YAML to JSON)
	var ruleCfg v1alpha1.SyncJob
	jsonBytes, err := yaml.YAMLToJSON(yamlBytes)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(jsonBytes, &ruleCfg); err != nil {
		return nil, err
	}

	return &ruleCfg, nil
}
