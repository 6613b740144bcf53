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
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/arkide/stuffstore/pkg/apis/v1alpha1"
	"github.com/arkide/stuffstore/pkg/config"
	"github.com/arkide/stuffstore/pkg/kvserver"
	"github.com/arkide/stuffstore/pkg/provider"
)

func newServeCmd() *cobra.Command {
	var addr, backend string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serves the remote storage protocol backed by a local or indexeddb store.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mode, err := v1alpha1.ParseMode(backend)
			if err != nil {
				return err
			}
			if mode == v1alpha1.ModeServer {
				return fmt.Errorf("serve requires a local or indexeddb backend")
			}

			configPath, _ := cmd.Flags().GetString(flagConfig)
			spec, err := config.LoadStorageSpec(configPath)
			if err != nil {
				return err
			}
			storeProvider, err := spec.ProviderFor(mode)
			if err != nil {
				return err
			}
			store, err := provider.NewClient(cmd.Context(), storeProvider)
			if err != nil {
				return fmt.Errorf("error initializing %s store: %w", mode, err)
			}

			return serve(cmd.Context(), addr, kvserver.New(store))
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Address to listen on.")
	cmd.Flags().StringVar(&backend, "backend", string(v1alpha1.ModeLocal), "Store backing the server: local or indexeddb.")

	return cmd
}

func serve(ctx context.Context, addr string, handler http.Handler) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.InfoContext(ctx, "storage server listening", slog.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	slog.InfoContext(ctx, "shutting down storage server")
	return srv.Shutdown(shutdownCtx)
}
