// Copyright 2026 The Sigfs Authors
// SPDX-License-Identifier: Apache-2.0

// Sigfs-publish writes one signal per argument to a mounted signal
// file, or one signal per line of stdin if no arguments are given. It
// is a thin demonstration of the write-path wire format: every
// process with the right access can do this with nothing but
// open/write, this program just saves the caller from hand-framing
// the {u32 payload_size, payload} record.
package main

import (
	"bufio"
	"fmt"
	"log/slog"
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
	if len(args) < 1 {
		return fmt.Errorf("usage: sigfs-publish <signal-file> [payload...]")
	}
	path := args[0]
	payloads := args[1:]
	logger := sigfslog.New()

	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	if len(payloads) == 0 {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			if err := publish(f, scanner.Bytes(), logger); err != nil {
				return err
			}
		}
		return scanner.Err()
	}

	for _, p := range payloads {
		if err := publish(f, []byte(p), logger); err != nil {
			return err
		}
	}
	return nil
}

func publish(f *os.File, payload []byte, logger *slog.Logger) error {
	record := wire.EncodePayloadRecord(payload)
	if _, err := f.Write(record); err != nil {
		return fmt.Errorf("writing record: %w", err)
	}
	logger.Debug("published signal", "payload_size", len(payload))
	return nil
}
