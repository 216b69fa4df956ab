// Copyright 2026 The Sigfs Authors
// SPDX-License-Identifier: Apache-2.0

// Package tree builds and serves the configured directory-and-signal-
// file layout that the filesystem bridge projects into the kernel: an
// arena of entries keyed by stable inode number, each carrying its own
// access-control list, with directories holding ordered children and
// files holding a lazily constructed queue.Queue.
package tree

import "fmt"

// RootInode is the fixed inode number of the tree's root directory,
// matching the convention every FUSE server uses for its mount point.
const RootInode = 1

// Tree is an immutable arena of entries built once by Load. Lookups by
// inode or by child name never allocate and never fail due to
// concurrent mutation, because nothing in the arena's shape changes
// after Load returns; only a file's lazily constructed Queue and the
// per-entry access cache mutate afterward, and both protect themselves.
type Tree struct {
	entries map[uint64]*entry
	root    *entry

	inheritAccessRights bool
}

// Root returns a handle onto the tree's root directory.
func (t *Tree) Root() Node {
	return Node{tree: t, e: t.root}
}

// LookupByInode finds an entry by its stable inode number. It returns
// false for an unknown inode rather than panicking: an unrecognized
// inode in a kernel request should degrade to ENOENT at the bridge,
// not take the whole server down.
func (t *Tree) LookupByInode(inode uint64) (Node, bool) {
	e, ok := t.entries[inode]
	if !ok {
		return Node{}, false
	}
	return Node{tree: t, e: e}, true
}

// Load builds a Tree from a parsed Config. Every queue_length on a
// file entry must be a power of two no smaller than 4, matching
// queue.New's own construction-time contract; a configuration
// violating this is a fatal error here; returned, not panicked,
// because a config is external input, not a programmer error.
func Load(cfg *Config) (*Tree, error) {
	t := &Tree{
		entries:             make(map[uint64]*entry),
		inheritAccessRights: cfg.InheritAccessRights,
	}

	nextInode := uint64(RootInode)
	root, err := t.build(&cfg.Root, nil, &nextInode)
	if err != nil {
		return nil, err
	}
	t.root = root
	return t, nil
}

// build recursively instantiates one config node and its descendants,
// assigning inode numbers depth-first in configuration order starting
// from *nextInode, and registering every entry in t.entries.
func (t *Tree) build(nc *NodeConfig, parent *entry, nextInode *uint64) (*entry, error) {
	uidAccess, err := buildUIDAccess(nc.UIDAccess)
	if err != nil {
		return nil, fmt.Errorf("entry %q: %w", nc.Name, err)
	}
	gidAccess, err := buildGIDAccess(nc.GIDAccess)
	if err != nil {
		return nil, fmt.Errorf("entry %q: %w", nc.Name, err)
	}

	e := &entry{
		inode:     *nextInode,
		parent:    parent,
		name:      nc.Name,
		uidAccess: uidAccess,
		gidAccess: gidAccess,
	}
	t.entries[e.inode] = e
	*nextInode++

	if nc.IsDirectory {
		e.kind = KindDirectory
		e.children = make(map[string]*entry, len(nc.Entries))
		e.childNames = make([]string, 0, len(nc.Entries))
		for i := range nc.Entries {
			child := &nc.Entries[i]
			if _, dup := e.children[child.Name]; dup {
				return nil, fmt.Errorf("entry %q: duplicate child name %q", nc.Name, child.Name)
			}
			childEntry, err := t.build(child, e, nextInode)
			if err != nil {
				return nil, err
			}
			e.children[child.Name] = childEntry
			e.childNames = append(e.childNames, child.Name)
		}
		return e, nil
	}

	e.kind = KindFile
	if nc.QueueLength < 4 || nc.QueueLength&(nc.QueueLength-1) != 0 {
		return nil, fmt.Errorf("entry %q: queue_length %d must be a power of two no smaller than 4", nc.Name, nc.QueueLength)
	}
	e.queueLength = nc.QueueLength
	return e, nil
}

func buildUIDAccess(entries []UIDAccessEntry) (map[uint32]aclFlags, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	m := make(map[uint32]aclFlags, len(entries))
	for _, a := range entries {
		flags, err := parseACLFlags(a.Access)
		if err != nil {
			return nil, err
		}
		m[a.UID] = flags
	}
	return m, nil
}

func buildGIDAccess(entries []GIDAccessEntry) (map[uint32]aclFlags, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	m := make(map[uint32]aclFlags, len(entries))
	for _, a := range entries {
		flags, err := parseACLFlags(a.Access)
		if err != nil {
			return nil, err
		}
		m[a.GID] = flags
	}
	return m, nil
}
