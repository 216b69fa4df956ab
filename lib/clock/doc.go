// Copyright 2026 The Sigfs Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock abstracts time operations so that code with a
// deadline (the read watchdog in the FUSE bridge, most notably) can be
// driven by a deterministic fake clock in tests instead of sleeping
// for real.
package clock
