// Copyright 2026 The Sigfs Authors
// SPDX-License-Identifier: Apache-2.0

// Sigfs-mount loads a signal-file tree configuration and projects it
// into the host filesystem namespace at a mountpoint, using FUSE.
//
// Usage:
//
//	sigfs-mount -c config.json <mountpoint> [--debug] [--allow-other] [--read-timeout=DURATION]
//
// All arguments after the required config flag describe the mount
// itself: the mountpoint, flags forwarded to the underlying FUSE
// session (debug logging and allow-other), and --read-timeout, which
// arms the bridge's per-read watchdog (0, the default, disables it).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/magnusfeuer/sigfs/fusebridge"
	"github.com/magnusfeuer/sigfs/lib/sigfslog"
	"github.com/magnusfeuer/sigfs/tree"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath  string
		debug       bool
		allowOther  bool
		readTimeout time.Duration
	)

	flagSet := pflag.NewFlagSet("sigfs-mount", pflag.ContinueOnError)
	flagSet.StringVarP(&configPath, "config", "c", "", "JSON (or JSON-with-comments) tree configuration (required)")
	flagSet.BoolVarP(&debug, "debug", "d", false, "enable go-fuse's own request-level debug logging")
	flagSet.BoolVar(&allowOther, "allow-other", false, "allow users other than the mount owner to access the filesystem")
	flagSet.DurationVar(&readTimeout, "read-timeout", 0, "interrupt a blocking read that waits this long with no signal (0 disables the watchdog)")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	if configPath == "" {
		return fmt.Errorf("-c/--config is required")
	}
	if flagSet.NArg() != 1 {
		return fmt.Errorf("expected exactly one mountpoint argument, got %d", flagSet.NArg())
	}
	mountpoint := flagSet.Arg(0)

	logger := sigfslog.New()

	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", configPath, err)
	}
	cfg, err := tree.ParseConfig(data)
	if err != nil {
		return fmt.Errorf("parsing config %s: %w", configPath, err)
	}
	sigTree, err := tree.Load(cfg)
	if err != nil {
		return fmt.Errorf("loading tree from %s: %w", configPath, err)
	}

	server, err := fusebridge.Mount(fusebridge.Options{
		Mountpoint:  mountpoint,
		Tree:        sigTree,
		AllowOther:  allowOther,
		Debug:       debug,
		Logger:      logger,
		ReadTimeout: readTimeout,
	})
	if err != nil {
		return fmt.Errorf("mounting at %s: %w", mountpoint, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		logger.Info("unmounting", "mountpoint", mountpoint)
		if err := server.Unmount(); err != nil {
			logger.Error("unmount failed", "error", err)
		}
	}()

	server.Wait()
	return nil
}
