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

package utils

import (
	"context"
	"log/slog"
	"net"
	"os"
	"slices"

	slogmulti "github.com/samber/slog-multi"
	slogsyslog "github.com/samber/slog-syslog"

	"github.com/arkide/stuffstore/pkg/config"
)

// InitLogger installs the default logger for the configured level, format
// and optional syslog server.
func InitLogger(config *config.Config) {
	var level slog.Level

	err := level.UnmarshalText([]byte(config.LogLevel))
	if err != nil { // Silently fall back to info level
		level = slog.LevelInfo
	}

	levelFilter := func(levels ...slog.Level) func(ctx context.Context, r slog.Record) bool {
		return func(_ context.Context, r slog.Record) bool {
			return r.Level >= level && slices.Contains(levels, r.Level)
		}
	}

	newHandler := func(file *os.File, minLevel slog.Level) slog.Handler {
		if config.JSONLog {
			return slog.NewJSONHandler(file, &slog.HandlerOptions{Level: minLevel})
		}
		return slog.NewTextHandler(file, &slog.HandlerOptions{Level: minLevel})
	}

	router := slogmulti.Router().
		// Send logs with level higher than warning to stderr
		Add(newHandler(os.Stderr, slog.LevelWarn), levelFilter(slog.LevelWarn, slog.LevelError)).
		// Send info and debug logs to stdout
		Add(newHandler(os.Stdout, slog.LevelDebug), levelFilter(slog.LevelDebug, slog.LevelInfo))

	if config.LogServer != "" {
		writer, err := net.Dial("udp", config.LogServer)

		// We silently ignore syslog connection errors for the lack of a better solution
		if err == nil {
			router = router.Add(slogsyslog.Option{Level: level, Writer: writer}.NewSyslogHandler())
		}
	}

	logger := slog.New(router.Handler())
	logger = logger.With(slog.String("app", "stuffstore"))

	// Set the default logger to the configured logger,
	// enabling direct usage of the slog package for logging.
	slog.SetDefault(logger)
}
