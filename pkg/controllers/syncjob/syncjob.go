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

package syncjob

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/krayzpipes/cronticker/cronticker"

	"github.com/arkide/stuffstore/pkg/apis/v1alpha1"
	"github.com/arkide/stuffstore/pkg/storesync"
)

type Handler interface {
	// LastStatus returns info about latest sync state.
	// Returns nil until the first sync completes successfully.
	LastStatus() *storesync.Status
	// LastError returns the error of the latest sync, if any.
	LastError() error
	// Stop will stop synchronization.
	Stop()
	// Wait will block until sync is completed/stopped.
	Wait()
}

type handler struct {
	stopCh  chan struct{}
	doneCh  chan struct{}
	stopped atomic.Bool
	status  atomic.Pointer[storesync.Status]
	lastErr atomic.Pointer[error]
}

// Handle will start synchronization from source to target based on provided job.
// Returns Handler which can be used to manage synchronization state.
func Handle(ctx context.Context, job v1alpha1.SyncJob, source v1alpha1.StoreReader, target v1alpha1.StoreWriter) (Handler, error) {
	// Validate
	if source == nil || target == nil {
		return nil, fmt.Errorf("both source and target stores are required")
	}

	var ticker *cronticker.CronTicker
	if !job.RunOnce {
		t, err := cronticker.NewTicker(job.GetSchedule())
		if err != nil {
			return nil, fmt.Errorf("failed to schedule sync: %w", err)
		}
		ticker = &t
	}

	// Create and run handler
	handler := &handler{
		stopCh: make(chan struct{}, 1),
		doneCh: make(chan struct{}, 1),
	}
	go handler.handle(ctx, job, ticker, source, target)

	return handler, nil
}

func (h *handler) Wait() {
	<-h.doneCh
}

func (h *handler) Stop() {
	if h.stopped.CompareAndSwap(false, true) {
		close(h.stopCh)
	}
}

func (h *handler) LastStatus() *storesync.Status {
	return h.status.Load()
}

func (h *handler) LastError() error {
	if err := h.lastErr.Load(); err != nil {
		return *err
	}
	return nil
}

// handle runs processing loop for provided job. This should only be called once.
func (h *handler) handle(ctx context.Context, job v1alpha1.SyncJob, ticker *cronticker.CronTicker,
	source v1alpha1.StoreReader, target v1alpha1.StoreWriter,
) {
	defer close(h.doneCh)

	// Notify
	slog.InfoContext(ctx, "Handling sync",
		slog.String("source", job.Source.String()),
		slog.String("target", job.Target.String()),
		slog.Bool("run_once", job.RunOnce))

	// Handle once
	if ticker == nil {
		h.sync(ctx, job, source, target)
		return
	}

	// Handle sync
	defer ticker.Stop()
	for {
		// Handle triggers
		select {
		case <-ticker.C:
			h.sync(ctx, job, source, target)

		case <-ctx.Done():
			return

		case <-h.stopCh:
			return
		}
	}
}

func (h *handler) sync(ctx context.Context, job v1alpha1.SyncJob, source v1alpha1.StoreReader, target v1alpha1.StoreWriter) {
	status, err := storesync.Sync(ctx, source, target, job.Keys)
	h.lastErr.Store(&err)
	if err != nil {
		slog.ErrorContext(ctx, "sync failed", slog.Any("error", err))
		return
	}

	slog.InfoContext(ctx, status.Status)
	h.status.Store(status)
}
