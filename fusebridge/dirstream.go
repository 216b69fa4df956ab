// Copyright 2026 The Sigfs Authors
// SPDX-License-Identifier: Apache-2.0

package fusebridge

import (
	"syscall"

	"github.com/hanwen/go-fuse/v2/fuse"
)

// sliceDirStream implements fs.DirStream over a fixed slice of
// entries computed up front by Readdir. The tree is immutable after
// load, so there is no need for a streaming or lazily computed view.
type sliceDirStream struct {
	entries []fuse.DirEntry
	index   int
}

func (s *sliceDirStream) HasNext() bool {
	return s.index < len(s.entries)
}

func (s *sliceDirStream) Next() (fuse.DirEntry, syscall.Errno) {
	if s.index >= len(s.entries) {
		return fuse.DirEntry{}, syscall.EINVAL
	}
	entry := s.entries[s.index]
	s.index++
	return entry, 0
}

func (s *sliceDirStream) Close() {}
