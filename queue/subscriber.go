// Copyright 2026 The Sigfs Authors
// SPDX-License-Identifier: Apache-2.0

package queue

import "sync/atomic"

// nextSubscriberID hands out process-wide unique, small diagnostic
// ids, mirroring the source implementation's sub_id used to colour-
// separate log lines per subscriber.
var nextSubscriberID atomic.Int64

// Subscriber is a per-open cursor into one Queue. It is created
// exclusively by NewSubscriber, owned by the file handle that opened
// the signal file, and must not be shared between concurrent readers.
//
// Subscriber carries no locking of its own: every field read or
// written here is serialized by the owning Queue's mutex, except for
// reads of immutable fields (queue, id).
type Subscriber struct {
	queue *Queue
	id    int64

	// nextID is the signal id this subscriber expects to read next.
	nextID uint64
	// interrupted is set by Queue.interrupt and cleared by the
	// bridge before the subscriber's next blocking Dequeue.
	interrupted bool
	// observer receives a one-shot readiness notification after
	// SubscribeReadable; nil if no poll is currently pending.
	observer PollObserver
}

// NewSubscriber creates a cursor bound to q, initialized so it will
// see every signal published at or after this call -- not any signal
// already in the ring.
func NewSubscriber(q *Queue) *Subscriber {
	sub := &Subscriber{
		queue: q,
		id:    nextSubscriberID.Add(1),
	}
	q.initializeSubscriber(sub)
	return sub
}

// ID returns the subscriber's process-wide unique diagnostic id.
func (s *Subscriber) ID() int64 { return s.id }

// Dequeue is a thin wrapper over Queue.Dequeue for this subscriber.
func (s *Subscriber) Dequeue(cb Callback) bool {
	return s.queue.Dequeue(s, cb)
}

// Interrupt aborts any in-flight or future blocking Dequeue on this
// subscriber until ClearInterrupted is called.
func (s *Subscriber) Interrupt() {
	s.queue.interrupt(s)
}

// ClearInterrupted resets the interrupted flag. Callers must do this
// before issuing another blocking Dequeue on a subscriber that was
// previously interrupted.
func (s *Subscriber) ClearInterrupted() {
	s.queue.clearInterrupted(s)
}

// Interrupted reports whether the subscriber is currently flagged as
// interrupted.
func (s *Subscriber) Interrupted() bool {
	return s.queue.isInterrupted(s)
}

// SignalAvailable returns the number of not-yet-seen signals.
func (s *Subscriber) SignalAvailable() uint64 {
	return s.queue.signalAvailable(s)
}

// SubscribeReadable arms a one-shot readiness notification: the next
// publish that makes this subscriber's cursor visible invokes
// obs.NotifyReadable() exactly once and removes the subscription. The
// caller must re-arm by calling SubscribeReadable again.
func (s *Subscriber) SubscribeReadable(obs PollObserver) {
	s.queue.mu.Lock()
	s.observer = obs
	s.queue.mu.Unlock()
	s.queue.subscribeReadable(s)
}

// UnsubscribeReadable idempotently cancels a pending readiness
// subscription.
func (s *Subscriber) UnsubscribeReadable() {
	s.queue.unsubscribeReadable(s)
}

// notifyReadable is invoked by the owning Queue, outside its lock,
// when this subscriber's readiness subscription fires.
func (s *Subscriber) notifyReadable() {
	s.queue.mu.Lock()
	obs := s.observer
	s.queue.mu.Unlock()
	if obs != nil {
		obs.NotifyReadable()
	}
}

// Close releases any readiness subscription still held by this
// subscriber. The filesystem bridge calls this from its file-release
// path; it is safe to call more than once.
func (s *Subscriber) Close() {
	s.queue.unsubscribeReadable(s)
}
