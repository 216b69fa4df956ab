// Copyright 2026 The Sigfs Authors
// SPDX-License-Identifier: Apache-2.0

package queue

import (
	"testing"
)

// recordedDelivery captures one callback invocation for assertions.
type recordedDelivery struct {
	sid       uint64
	payload   string
	lost      uint64
	remaining uint64
}

// drainOne runs a single Dequeue call that accepts exactly one signal
// and stops.
func drainOne(t *testing.T, sub *Subscriber) recordedDelivery {
	t.Helper()
	var got recordedDelivery
	notInterrupted := sub.Dequeue(func(sid uint64, payload []byte, lost, remaining uint64) CallbackResult {
		got = recordedDelivery{sid: sid, payload: string(payload), lost: lost, remaining: remaining}
		return ProcessedStop
	})
	if !notInterrupted {
		t.Fatalf("Dequeue: unexpectedly interrupted")
	}
	return got
}

func TestNewRejectsNonPowerOfTwoLength(t *testing.T) {
	t.Parallel()

	for _, length := range []int{0, 1, 2, 3, 5, 6, 7, 9} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("New(%d): expected panic, got none", length)
				}
			}()
			New(length)
		}()
	}
}

func TestSinglePublishRead(t *testing.T) {
	t.Parallel()
	q := New(4)
	sub := NewSubscriber(q)

	q.Publish([]byte("SIG000"))

	got := drainOne(t, sub)
	want := recordedDelivery{sid: 1, payload: "SIG000", lost: 0, remaining: 0}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if avail := sub.SignalAvailable(); avail != 0 {
		t.Errorf("SignalAvailable after read: got %d, want 0", avail)
	}
}

func TestTwoSequentialPublishesOneSubscriber(t *testing.T) {
	t.Parallel()
	q := New(4)
	sub := NewSubscriber(q)

	q.Publish([]byte("SIG001"))
	q.Publish([]byte("SIG002"))

	first := drainOne(t, sub)
	if want := (recordedDelivery{sid: 1, payload: "SIG001", lost: 0, remaining: 1}); first != want {
		t.Errorf("first read: got %+v, want %+v", first, want)
	}

	second := drainOne(t, sub)
	if want := (recordedDelivery{sid: 2, payload: "SIG002", lost: 0, remaining: 0}); second != want {
		t.Errorf("second read: got %+v, want %+v", second, want)
	}
}

func TestLateSubscriberBoundedView(t *testing.T) {
	t.Parallel()
	q := New(4)

	for i := 3; i <= 8; i++ {
		q.Publish([]byte(sigLabel(i)))
	}

	sub := NewSubscriber(q)
	if sub.nextID != 7 {
		t.Fatalf("subscriber nextID: got %d, want 7", sub.nextID)
	}
	if avail := sub.SignalAvailable(); avail != 0 {
		t.Errorf("SignalAvailable before publish: got %d, want 0", avail)
	}

	q.Publish([]byte("SIG009"))

	got := drainOne(t, sub)
	if want := (recordedDelivery{sid: 7, payload: "SIG009", lost: 0, remaining: 0}); got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func sigLabel(n int) string {
	return "SIG00" + string(rune('0'+n))
}

func TestOverflowReportsLostSignals(t *testing.T) {
	t.Parallel()
	q := New(4)
	sub := NewSubscriber(q)

	for i := 1; i <= 6; i++ {
		q.Publish([]byte(sigLabel(i)))
	}

	first := drainOne(t, sub)
	if want := (recordedDelivery{sid: 4, payload: "SIG004", lost: 3, remaining: 2}); first != want {
		t.Errorf("first read: got %+v, want %+v", first, want)
	}

	second := drainOne(t, sub)
	if want := (recordedDelivery{sid: 5, payload: "SIG005", lost: 0, remaining: 1}); second != want {
		t.Errorf("second read: got %+v, want %+v", second, want)
	}

	third := drainOne(t, sub)
	if want := (recordedDelivery{sid: 6, payload: "SIG006", lost: 0, remaining: 0}); third != want {
		t.Errorf("third read: got %+v, want %+v", third, want)
	}
}

func TestDoubleOverflow(t *testing.T) {
	t.Parallel()
	q := New(4)
	sub := NewSubscriber(q)

	for i := 1; i <= 9; i++ {
		q.Publish([]byte(sigLabel(i)))
	}

	first := drainOne(t, sub)
	if want := (recordedDelivery{sid: 7, payload: sigLabel(7), lost: 6, remaining: 2}); first != want {
		t.Errorf("first read: got %+v, want %+v", first, want)
	}

	second := drainOne(t, sub)
	if want := (recordedDelivery{sid: 8, payload: sigLabel(8), lost: 0, remaining: 1}); second != want {
		t.Errorf("second read: got %+v, want %+v", second, want)
	}

	third := drainOne(t, sub)
	if want := (recordedDelivery{sid: 9, payload: sigLabel(9), lost: 0, remaining: 0}); third != want {
		t.Errorf("third read: got %+v, want %+v", third, want)
	}
}

func TestCallAgainDeliversWithoutReturningBetween(t *testing.T) {
	t.Parallel()
	q := New(4)
	sub := NewSubscriber(q)

	q.Publish([]byte("a"))
	q.Publish([]byte("b"))
	q.Publish([]byte("c"))

	var delivered []uint64
	sub.Dequeue(func(sid uint64, payload []byte, lost, remaining uint64) CallbackResult {
		delivered = append(delivered, sid)
		return ProcessedCallAgain
	})

	if len(delivered) != 3 || delivered[0] != 1 || delivered[1] != 2 || delivered[2] != 3 {
		t.Errorf("delivered sids: got %v, want [1 2 3]", delivered)
	}
}

func TestNotProcessedDoesNotAdvanceCursor(t *testing.T) {
	t.Parallel()
	q := New(4)
	sub := NewSubscriber(q)

	q.Publish([]byte("retry-me"))

	calls := 0
	sub.Dequeue(func(sid uint64, payload []byte, lost, remaining uint64) CallbackResult {
		calls++
		return NotProcessed
	})
	if calls != 1 {
		t.Fatalf("calls: got %d, want 1", calls)
	}
	if sub.nextID != 1 {
		t.Errorf("nextID after NotProcessed: got %d, want 1 (unchanged)", sub.nextID)
	}

	got := drainOne(t, sub)
	if got.sid != 1 || got.payload != "retry-me" {
		t.Errorf("redelivery: got %+v", got)
	}
}

func TestBoundedStorage(t *testing.T) {
	t.Parallel()
	q := New(4)

	for i := 0; i < 100; i++ {
		q.Publish([]byte{byte(i)})
	}

	stored := 0
	for idx := range q.ring.slots {
		if q.ring.slots[idx].id != 0 {
			stored++
		}
	}
	if stored > q.Length()-1 {
		t.Errorf("stored records: got %d, want <= %d", stored, q.Length()-1)
	}
}

func TestInterruptDuringBlockingRead(t *testing.T) {
	t.Parallel()
	q := New(4)
	sub := NewSubscriber(q)

	done := make(chan bool, 1)
	callbacks := 0
	go func() {
		notInterrupted := sub.Dequeue(func(sid uint64, payload []byte, lost, remaining uint64) CallbackResult {
			callbacks++
			if sid != 0 || payload != nil || lost != 0 || remaining != 0 {
				t.Errorf("interrupt callback: got sid=%d payload=%v lost=%d remaining=%d", sid, payload, lost, remaining)
			}
			return ProcessedStop
		})
		done <- notInterrupted
	}()

	// The goroutine may or may not be blocked in Dequeue yet. There
	// is no race here because Interrupt acquires the same mutex: if
	// it runs first, the subscriber is already interrupted when
	// Dequeue checks its predicate.
	sub.Interrupt()

	result := <-done
	if result {
		t.Errorf("Dequeue: got not-interrupted, want interrupted")
	}
	if callbacks != 1 {
		t.Errorf("callbacks invoked: got %d, want 1", callbacks)
	}
	if !sub.Interrupted() {
		t.Errorf("Interrupted(): got false, want true")
	}
}

func TestPollReadinessFiresOnceThenMustRearm(t *testing.T) {
	t.Parallel()
	q := New(4)
	sub := NewSubscriber(q)

	notified := make(chan struct{}, 8)
	obs := pollObserverFunc(func() { notified <- struct{}{} })
	sub.SubscribeReadable(obs)

	q.Publish([]byte("one"))
	select {
	case <-notified:
	default:
		t.Fatal("expected a readiness notification after first publish")
	}
	if len(notified) != 0 {
		t.Fatalf("expected exactly one notification, got extra")
	}

	q.Publish([]byte("two"))
	select {
	case <-notified:
		t.Fatal("observer fired again without re-subscribing")
	default:
	}

	sub.SubscribeReadable(obs)
	q.Publish([]byte("three"))
	select {
	case <-notified:
	default:
		t.Fatal("expected a readiness notification after re-subscribing")
	}
}

type pollObserverFunc func()

func (f pollObserverFunc) NotifyReadable() { f() }

func TestUnsubscribeReadableIsIdempotent(t *testing.T) {
	t.Parallel()
	q := New(4)
	sub := NewSubscriber(q)

	sub.UnsubscribeReadable()
	sub.SubscribeReadable(pollObserverFunc(func() {}))
	sub.UnsubscribeReadable()
	sub.UnsubscribeReadable()

	// Publishing after unsubscribe must not panic or notify.
	q.Publish([]byte("noop"))
}

func TestPublishRejectsOversizedPayload(t *testing.T) {
	t.Parallel()
	q := New(4, WithMaxPayloadSize(4))

	defer func() {
		if recover() == nil {
			t.Error("Publish: expected panic for oversized payload, got none")
		}
	}()
	q.Publish([]byte("too-long"))
}
