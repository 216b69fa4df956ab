// Copyright 2026 The Sigfs Authors
// SPDX-License-Identifier: Apache-2.0

// Package fusebridge adapts the kernel filesystem protocol, through
// github.com/hanwen/go-fuse/v2, to the tree and queue packages: it
// turns lookup/readdir/getattr into tree walks, open into an access
// check plus (for files) a lazily constructed queue.Queue, and
// read/write/poll into framed queue.Subscriber operations.
//
// Every inode the kernel sees corresponds 1:1 to a tree.Node; the
// tree assigns inode numbers once at load time and this package never
// invents its own.
package fusebridge
