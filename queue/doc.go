// Copyright 2026 The Sigfs Authors
// SPDX-License-Identifier: Apache-2.0

// Package queue is the broadcast signal queue: a fixed-capacity ring
// of signals, safe for any number of concurrent publishers and
// subscribers.
//
// # Geometry
//
// A Queue is backed by a ring of length slots, length a power of two
// no smaller than 4. Every published signal is assigned a 64-bit id
// starting at 1, strictly increasing, never reused. A signal's
// position in the ring is its id masked by length-1; once the ring
// wraps, a new publish overwrites the oldest stored signal.
//
// # Subscribers
//
// A Subscriber is a cursor: the id of the next signal it expects to
// read. It starts at the queue's current next-id, so it sees exactly
// the signals published at or after its creation. If a subscriber's
// cursor falls behind the ring's oldest retained signal -- because it
// was outpaced by publishers -- its next successful Dequeue catches
// it up to the oldest still-present signal and reports how many were
// lost in between.
//
// # Concurrency
//
// One mutex and one condition variable protect all shared state:
// Publish only briefly holds the lock to store a record and never
// waits on readers; Dequeue waits on the condition variable until its
// subscriber's next signal is visible or the subscriber is
// interrupted. Delivery callbacks run with the lock held, so they see
// a stable payload slice, but must not call back into the queue.
package queue
