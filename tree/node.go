// Copyright 2026 The Sigfs Authors
// SPDX-License-Identifier: Apache-2.0

package tree

import (
	"sync"

	"github.com/magnusfeuer/sigfs/queue"
)

// Kind distinguishes the two inode shapes a sigfs tree can hold. It
// replaces the source tree's INode/Directory/File inheritance
// hierarchy with a tagged union: the only behaviors that actually
// differ per kind (directory listing vs. queue access) are dispatched
// by the caller switching on Kind, rather than through virtual calls.
type Kind int

const (
	// KindDirectory holds named child entries and no queue.
	KindDirectory Kind = iota
	// KindFile holds a lazily constructed Queue and no children.
	KindFile
)

// entry is one node in the tree's arena. Children reference their
// parent by pointer within the arena that owns every entry for the
// tree's lifetime, which is safe (unlike the source tree's
// child-to-parent raw pointers) because the arena never relocates or
// frees an entry while the Tree is alive.
type entry struct {
	inode  uint64
	parent *entry // nil only for the root
	name   string
	kind   Kind

	uidAccess map[uint32]aclFlags
	gidAccess map[uint32]aclFlags

	// accessMu guards accessCache, the per-(uid,gid) memoized result
	// of walking the cascade/reset chain for this entry.
	accessMu    sync.Mutex
	accessCache map[accessKey]effectiveAccessResult

	// children is populated only for KindDirectory, preserving
	// configuration order for Readdir.
	childNames []string
	children   map[string]*entry

	// queueLength and queueMu/queueValue are populated only for KindFile.
	// The queue is constructed lazily and idempotently on first
	// access, matching File::queue()'s lazy-construction contract.
	queueLength uint32
	queueMu     sync.Mutex
	queueValue  *queue.Queue
}

// Node is a read-only handle onto one tree entry, returned by every
// Tree lookup method. It is cheap to copy and safe for concurrent use
// (the tree is immutable after Load; only the lazily constructed
// per-file Queue and the access cache mutate after construction, and
// both guard themselves).
type Node struct {
	tree *Tree
	e    *entry
}

// Inode returns the node's stable, process-lifetime inode number.
func (n Node) Inode() uint64 { return n.e.inode }

// Name returns the node's configured name. The root's name is
// whatever its configuration specified; callers addressing the root
// by path do so via the fixed inode 1, not by name.
func (n Node) Name() string { return n.e.name }

// IsDirectory reports whether this node is a directory.
func (n Node) IsDirectory() bool { return n.e.kind == KindDirectory }

// IsFile reports whether this node is a signal file.
func (n Node) IsFile() bool { return n.e.kind == KindFile }

// EffectiveAccess computes the (can_read, can_write) pair granted to
// the given uid and gid, per the cascade/reset rules documented on
// Tree.effectiveAccess.
func (n Node) EffectiveAccess(uid, gid uint32) (canRead, canWrite bool) {
	return n.tree.effectiveAccess(n.e, uid, gid)
}

// LookupEntry finds a direct child by name. It panics if called on a
// file node -- callers are expected to check IsDirectory first, the
// same way the bridge checks file-vs-directory before calling
// readdir or open.
func (n Node) LookupEntry(name string) (Node, bool) {
	if n.e.kind != KindDirectory {
		panic("tree: LookupEntry called on a non-directory node")
	}
	child, ok := n.e.children[name]
	if !ok {
		return Node{}, false
	}
	return Node{tree: n.tree, e: child}, true
}

// ForEachEntry calls fn once per direct child, in configuration
// order. It panics if called on a file node.
func (n Node) ForEachEntry(fn func(Node)) {
	if n.e.kind != KindDirectory {
		panic("tree: ForEachEntry called on a non-directory node")
	}
	for _, name := range n.e.childNames {
		fn(Node{tree: n.tree, e: n.e.children[name]})
	}
}

// Queue returns this file's signal queue, constructing it on first
// call. Construction is idempotent and safe under concurrent opens:
// only the first caller pays the allocation cost. It panics if called
// on a directory node.
func (n Node) Queue() *queue.Queue {
	if n.e.kind != KindFile {
		panic("tree: Queue called on a non-file node")
	}

	n.e.queueMu.Lock()
	defer n.e.queueMu.Unlock()

	if n.e.queueValue == nil {
		n.e.queueValue = queue.New(int(n.e.queueLength))
	}
	return n.e.queueValue
}
