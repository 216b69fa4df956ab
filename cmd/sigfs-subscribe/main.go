// Copyright 2026 The Sigfs Authors
// SPDX-License-Identifier: Apache-2.0

// Sigfs-subscribe opens a mounted signal file for reading and prints
// every delivered signal to stdout until interrupted (Ctrl-C) or the
// file is closed out from under it. Demonstrates the read-path wire
// format and the in-band lost-signal accounting.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/magnusfeuer/sigfs/lib/sigfslog"
	"github.com/magnusfeuer/sigfs/wire"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: sigfs-subscribe <signal-file>")
	}
	path := args[0]
	logger := sigfslog.New()

	f, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	buf := make([]byte, 64*1024)
	var held []byte
	for {
		n, err := f.Read(buf)
		if n > 0 {
			data := append(held, buf[:n]...)
			var signals []wire.Signal
			signals, held = wire.ParseSignalRecords(data)
			for _, sig := range signals {
				if sig.Lost > 0 {
					logger.Warn("fell behind", "lost_signals", sig.Lost)
					fmt.Printf("[lost %d] ", sig.Lost)
				}
				fmt.Printf("sid=%d payload=%q\n", sig.ID, sig.Payload)
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("reading %s: %w", path, err)
		}
	}
}
