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

// dirNode projects one tree directory entry into the mount.
type dirNode struct {
	gofuse.Inode
	bridge *bridge
	node   tree.Node
}

var _ gofuse.InodeEmbedder = (*dirNode)(nil)
var _ gofuse.NodeLookuper = (*dirNode)(nil)
var _ gofuse.NodeReaddirer = (*dirNode)(nil)
var _ gofuse.NodeGetattrer = (*dirNode)(nil)
var _ gofuse.NodeOpener = (*dirNode)(nil)

// Open always fails: a directory inode has no byte stream to open, so
// any attempt is is-a-directory, per §8 of SPEC_FULL.md.
func (d *dirNode) Open(ctx context.Context, flags uint32) (gofuse.FileHandle, uint32, syscall.Errno) {
	return nil, 0, errIsADirectory
}

// Lookup resolves one child by name, dispatching to a dirNode or
// fileNode depending on the child's kind.
func (d *dirNode) Lookup(ctx context.Context, name string, out *fuse.EntryOut) (*gofuse.Inode, syscall.Errno) {
	child, ok := d.node.LookupEntry(name)
	if !ok {
		return nil, errNotFound
	}
	return d.spawnChild(ctx, child, out), 0
}

// Readdir lists every direct child in configuration order.
func (d *dirNode) Readdir(ctx context.Context) (gofuse.DirStream, syscall.Errno) {
	var entries []fuse.DirEntry
	d.node.ForEachEntry(func(child tree.Node) {
		mode := uint32(syscall.S_IFREG)
		if child.IsDirectory() {
			mode = syscall.S_IFDIR
		}
		entries = append(entries, fuse.DirEntry{
			Name: child.Name(),
			Mode: mode,
			Ino:  child.Inode(),
		})
	})
	return &sliceDirStream{entries: entries}, 0
}

// Getattr reports directory attributes. Signal-file directories carry
// no meaningful size; mode and link count are all that matter to
// callers.
func (d *dirNode) Getattr(ctx context.Context, f gofuse.FileHandle, out *fuse.AttrOut) syscall.Errno {
	out.Mode = syscall.S_IFDIR | 0o755
	out.Nlink = 1
	return 0
}

// spawnChild creates (or reuses, via go-fuse's inode cache keyed by
// the StableAttr.Ino we supply) the go-fuse inode for child and fills
// in the entry reply.
func (d *dirNode) spawnChild(ctx context.Context, child tree.Node, out *fuse.EntryOut) *gofuse.Inode {
	if child.IsDirectory() {
		out.Mode = syscall.S_IFDIR | 0o755
		return d.NewInode(ctx, &dirNode{bridge: d.bridge, node: child}, gofuse.StableAttr{
			Mode: syscall.S_IFDIR,
			Ino:  child.Inode(),
		})
	}

	out.Mode = syscall.S_IFREG | 0o644
	return d.NewInode(ctx, &fileNode{bridge: d.bridge, node: child}, gofuse.StableAttr{
		Mode: syscall.S_IFREG,
		Ino:  child.Inode(),
	})
}
