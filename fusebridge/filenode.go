// Copyright 2026 The Sigfs Authors
// SPDX-License-Identifier: Apache-2.0

package fusebridge

import (
	"context"
	"syscall"

	gofuse "github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"

	"github.com/magnusfeuer/sigfs/tree"
)

// fileNode projects one tree file entry -- a signal queue -- into the
// mount.
type fileNode struct {
	gofuse.Inode
	bridge *bridge
	node   tree.Node
}

var _ gofuse.InodeEmbedder = (*fileNode)(nil)
var _ gofuse.NodeGetattrer = (*fileNode)(nil)
var _ gofuse.NodeOpener = (*fileNode)(nil)
var _ gofuse.NodeReaddirer = (*fileNode)(nil)

// Getattr reports file attributes. Size is always reported as zero:
// a signal file has no byte-addressable content, only a stream of
// discrete records, so the size field has no honest answer.
func (f *fileNode) Getattr(ctx context.Context, fh gofuse.FileHandle, out *fuse.AttrOut) syscall.Errno {
	out.Mode = syscall.S_IFREG | 0o644
	out.Nlink = 1
	return 0
}

// Readdir always fails: a signal file has no children to list, so any
// attempt is not-a-directory, per §8 of SPEC_FULL.md.
func (f *fileNode) Readdir(ctx context.Context) (gofuse.DirStream, syscall.Errno) {
	return nil, errNotADirectory
}

// Open validates the requested mode against the caller's effective
// access and against the no-O_RDWR restriction, then wires a handle
// to this file's (lazily constructed) queue.
func (f *fileNode) Open(ctx context.Context, flags uint32) (gofuse.FileHandle, uint32, syscall.Errno) {
	wantRead := flags&syscall.O_WRONLY == 0
	wantWrite := flags&(syscall.O_WRONLY|syscall.O_RDWR) != 0
	if flags&syscall.O_RDWR != 0 {
		// §9: mixing read and write on one open is rejected outright,
		// not resolved by picking one side.
		return nil, 0, errPermissionDenied
	}

	uid, gid := callerIDs(ctx)
	canRead, canWrite := f.node.EffectiveAccess(uid, gid)
	if wantRead && !canRead {
		return nil, 0, errPermissionDenied
	}
	if wantWrite && !canWrite {
		return nil, 0, errPermissionDenied
	}

	q := f.node.Queue()
	h := newHandle(q, wantWrite, f.bridge.clock, f.bridge.readTimeout)
	return h, fuse.FOPEN_DIRECT_IO, 0
}

// callerIDs extracts the requesting uid/gid from ctx, defaulting to
// the nobody identity (which matches no ACL entry and so is denied
// everywhere) if go-fuse could not attach caller credentials.
func callerIDs(ctx context.Context) (uid, gid uint32) {
	caller, ok := fuse.FromContext(ctx)
	if !ok {
		return ^uint32(0), ^uint32(0)
	}
	return caller.Uid, caller.Gid
}
