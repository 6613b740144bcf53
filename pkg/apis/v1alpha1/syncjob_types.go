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
	"log/slog"

	"github.com/robfig/cron"
)

var DefaultSyncJobSchedule = "@hourly"

// SyncJob defines a mode-to-mode sync request.
type SyncJob struct {
	// Used to specify the mode entries are read from.
	// Required
	Source Mode `json:"source"`

	// Used to specify the mode entries are written to.
	// Required
	Target Mode `json:"target"`

	// Used to specify the keys to sync. If empty, all keys of the source
	// are synced, which requires a source that can list its keys.
	// Optional
	Keys []string `json:"keys,omitempty"`

	// Used to configure schedule for synchronization.
	// The schedule is in Cron format, see https://en.wikipedia.org/wiki/Cron
	// Defaults to @hourly
	// Optional
	Schedule string `json:"schedule,omitempty"`

	// Used to only perform sync once.
	// If specified, Schedule will be ignored.
	// Optional
	RunOnce bool `json:"runOnce,omitempty"`
}

func (spec *SyncJob) GetSchedule() string {
	if spec.Schedule == "" {
		return DefaultSyncJobSchedule
	}
	if _, err := cron.Parse(spec.Schedule); err != nil {
		slog.Error("using default schedule due to parse error",
			slog.String("default", DefaultSyncJobSchedule), slog.Any("error", err))
		return DefaultSyncJobSchedule
	}

	return spec.Schedule
}
