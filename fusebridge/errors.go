// Copyright 2026 The Sigfs Authors
// SPDX-License-Identifier: Apache-2.0

package fusebridge

import "syscall"

// maxRecordsPerRead bounds how many signal records a single Read call
// packs into the kernel's reply buffer, independent of how much space
// remains, so one very large read request cannot monopolize a queue's
// lock for an unbounded number of iterations.
const maxRecordsPerRead = 256

// The error taxonomy below names every user-visible errno the bridge
// can surface on a kernel-filesystem reply, each given its own
// constant so call sites read as intent ("errNotADirectory") rather
// than a bare syscall number. Fatal (programmer/configuration) errors
// are not part of this taxonomy -- they abort the mount process
// instead of producing a reply.
const (
	// errNotFound is returned when a name is looked up in a
	// directory and absent.
	errNotFound = syscall.ENOENT

	// errNotADirectory is returned when readdir targets a file
	// inode.
	errNotADirectory = syscall.ENOTDIR

	// errIsADirectory is returned when open targets a directory
	// inode.
	errIsADirectory = syscall.EISDIR

	// errPermissionDenied is returned when the effective access for
	// the caller lacks the requested mode, or when both read and
	// write are requested on the same open.
	errPermissionDenied = syscall.EACCES

	// errInvalidArgument is returned when a write's byte stream is
	// not a clean sequence of payload records, or when one of its
	// payloads exceeds the queue's maximum payload size.
	errInvalidArgument = syscall.EINVAL

	// errInterrupted is returned when an in-flight read is
	// interrupted.
	errInterrupted = syscall.EINTR

	// errIO names EIO. No bridge path returns it at present; an
	// oversized payload on write is reported as errInvalidArgument.
	errIO = syscall.EIO
)
