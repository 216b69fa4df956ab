// Copyright 2026 The Sigfs Authors
// SPDX-License-Identifier: Apache-2.0

// Package sigfslog provides the one piece of logging setup every
// sigfs command shares: turning SIGFS_LOG_LEVEL into a slog.Logger.
package sigfslog

import (
	"log/slog"
	"os"
	"strconv"
)

// New builds a text-handler logger writing to stderr, at the level
// named by SIGFS_LOG_LEVEL (0-6, syslog-style: 0 most severe, 6 most
// verbose). An unset or unparseable value defaults to level 4 (info).
func New() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: levelFromEnv(),
	}))
}

func levelFromEnv() slog.Level {
	const defaultLevel = 4

	level := defaultLevel
	if raw := os.Getenv("SIGFS_LOG_LEVEL"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			level = parsed
		}
	}

	switch {
	case level <= 2:
		return slog.LevelError
	case level == 3:
		return slog.LevelWarn
	case level <= 4:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}
