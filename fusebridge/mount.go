// Copyright 2026 The Sigfs Authors
// SPDX-License-Identifier: Apache-2.0

package fusebridge

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	gofuse "github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"

	"github.com/magnusfeuer/sigfs/lib/clock"
	"github.com/magnusfeuer/sigfs/tree"
)

// Options configures the FUSE mount.
type Options struct {
	// Mountpoint is the directory where the filesystem is mounted.
	Mountpoint string

	// Tree is the loaded configuration tree being projected.
	Tree *tree.Tree

	// AllowOther permits other users (including root) to access the
	// mount. Requires user_allow_other in /etc/fuse.conf. Signal
	// files are typically shared across uids by design, so most
	// deployments need this set.
	AllowOther bool

	// Debug enables go-fuse's own per-request debug logging, printed
	// directly to stderr by the go-fuse library itself.
	Debug bool

	// Logger receives diagnostic messages. If nil, a text logger
	// writing error-level messages to stderr is used.
	Logger *slog.Logger

	// ReadTimeout bounds how long a blocking read may wait for a
	// signal before the bridge's watchdog interrupts it on the
	// caller's behalf, surfacing as the interrupted errno (§5: "a
	// timeout, if needed, is implemented in the bridge by calling
	// interrupt from a watchdog"). Zero disables the watchdog: reads
	// then block until a signal arrives or the kernel itself cancels
	// the request.
	ReadTimeout time.Duration

	// Clock provides the watchdog's timer. Tests inject a fake; real
	// mounts leave this nil and get clock.Real().
	Clock clock.Clock
}

// Mount mounts the sigfs tree at the configured mountpoint. The
// caller must call Unmount (or Wait) on the returned Server. The
// mountpoint directory is created if it does not exist.
func Mount(options Options) (*fuse.Server, error) {
	if options.Mountpoint == "" {
		return nil, fmt.Errorf("mountpoint is required")
	}
	if options.Tree == nil {
		return nil, fmt.Errorf("tree is required")
	}
	if options.Logger == nil {
		options.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelError,
		}))
	}
	if options.Clock == nil {
		options.Clock = clock.Real()
	}

	if err := os.MkdirAll(options.Mountpoint, 0o755); err != nil {
		return nil, fmt.Errorf("creating mountpoint %s: %w", options.Mountpoint, err)
	}

	root := &dirNode{bridge: &bridge{
		tree:        options.Tree,
		logger:      options.Logger,
		clock:       options.Clock,
		readTimeout: options.ReadTimeout,
	}, node: options.Tree.Root()}

	entryTimeout := time.Duration(0)
	attrTimeout := time.Duration(0)

	server, err := gofuse.Mount(options.Mountpoint, root, &gofuse.Options{
		EntryTimeout: &entryTimeout,
		AttrTimeout:  &attrTimeout,
		MountOptions: fuse.MountOptions{
			FsName:     "sigfs",
			Name:       "sigfs",
			AllowOther: options.AllowOther,
			Debug:      options.Debug,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("mounting sigfs at %s: %w", options.Mountpoint, err)
	}

	options.Logger.Info("sigfs mounted", "mountpoint", options.Mountpoint)
	return server, nil
}

// bridge carries the state every node in the mount shares. It has no
// mutable fields of its own.
type bridge struct {
	tree        *tree.Tree
	logger      *slog.Logger
	clock       clock.Clock
	readTimeout time.Duration
}
