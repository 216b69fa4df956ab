// Copyright 2026 The Sigfs Authors
// SPDX-License-Identifier: Apache-2.0

package fusebridge

import (
	"context"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	gofuse "github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"

	"github.com/magnusfeuer/sigfs/lib/clock"
	"github.com/magnusfeuer/sigfs/queue"
	"github.com/magnusfeuer/sigfs/wire"
)

// handle is the per-open state for one signal file. A read-only open
// carries a queue.Subscriber; a write-only open carries none. §9
// forbids mixing, so a handle is never both.
type handle struct {
	queue *queue.Queue
	sub   *queue.Subscriber // nil for a write-only handle

	clock       clock.Clock
	readTimeout time.Duration

	// mu serializes concurrent Read calls against the same handle
	// (the kernel can dispatch more than one in-flight read per file
	// descriptor). It does not guard ready, which is atomic.
	mu sync.Mutex

	// ready is set by notifyReadable (invoked from the queue,
	// outside mu) and cleared the next time Poll observes it. It
	// lets a level-triggered poll(2) see "was it readable since my
	// last check" without requiring go-fuse to re-invoke Poll on its
	// own initiative.
	ready atomic.Bool
}

var _ gofuse.FileReader = (*handle)(nil)
var _ gofuse.FileWriter = (*handle)(nil)
var _ gofuse.FileReleaser = (*handle)(nil)

func newHandle(q *queue.Queue, writable bool, clk clock.Clock, readTimeout time.Duration) *handle {
	h := &handle{queue: q, clock: clk, readTimeout: readTimeout}
	if !writable {
		h.sub = queue.NewSubscriber(q)
	}
	return h
}

// NotifyReadable implements queue.PollObserver.
func (h *handle) NotifyReadable() {
	h.ready.Store(true)
}

// Read blocks until at least one signal is visible to this handle's
// subscriber or the request is interrupted, then packs as many
// signal records as fit into dest, framed per the read-path wire
// format.
func (h *handle) Read(ctx context.Context, dest []byte, off int64) (fuse.ReadResult, syscall.Errno) {
	if h.sub == nil {
		return nil, errPermissionDenied
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.sub.ClearInterrupted()

	// A watchdog bounds how long this call may block, per §5: the
	// core has no timeout primitive of its own, so the bridge
	// interrupts the subscriber itself if the deadline passes before
	// a signal becomes visible. Disarmed before return either way.
	if h.readTimeout > 0 {
		timer := h.clock.AfterFunc(h.readTimeout, h.sub.Interrupt)
		defer timer.Stop()
	}

	buf := dest[:0]
	recordCount := 0

	notInterrupted := h.sub.Dequeue(func(sid uint64, payload []byte, lost, remaining uint64) queue.CallbackResult {
		if payload == nil && sid == 0 {
			// Interrupt sentinel; nothing to pack.
			return queue.ProcessedStop
		}

		needed := wire.SignalRecordHeaderSize + len(payload)
		if len(buf)+needed > len(dest) {
			return queue.NotProcessed
		}

		buf = wire.AppendSignalRecord(buf, lost, sid, payload)
		recordCount++

		if recordCount >= maxRecordsPerRead || remaining == 0 {
			return queue.ProcessedStop
		}
		return queue.ProcessedCallAgain
	})

	if !notInterrupted {
		if recordCount > 0 {
			return fuse.ReadResultData(buf), 0
		}
		return nil, errInterrupted
	}

	return fuse.ReadResultData(buf), 0
}

// Write parses dest as a concatenation of payload records and
// publishes each one to the queue. A trailing partial record, or any
// record whose payload exceeds the queue's maximum, fails the whole
// call with invalid-argument; every record is validated before any of
// them is published, so a late oversized record cannot leave earlier
// records published out from under a rejected call.
func (h *handle) Write(ctx context.Context, data []byte, off int64) (uint32, syscall.Errno) {
	if h.sub != nil {
		return 0, errPermissionDenied
	}

	records, err := wire.ParsePayloadRecords(data)
	if err != nil {
		return 0, errInvalidArgument
	}

	for _, payload := range records {
		if len(payload) > h.queue.MaxPayloadSize() {
			return 0, errInvalidArgument
		}
	}

	for _, payload := range records {
		h.queue.Publish(payload)
	}

	return uint32(len(data)), 0
}

// Release unsubscribes any pending poll interest and drops this
// handle's hold on the queue's subscriber.
func (h *handle) Release(ctx context.Context) syscall.Errno {
	if h.sub != nil {
		h.sub.Close()
	}
	return 0
}

// Poll reports whether this handle's subscriber currently has a
// signal available, arming a fresh readiness subscription when it
// does not. This implements the immediately-decidable half of
// FUSE_POLL; level-triggered re-poll after a prior "not ready" answer
// depends on go-fuse invoking Poll again, which this bridge does not
// independently force.
func (h *handle) Poll(ctx context.Context, pollReqFlags uint32) (uint32, syscall.Errno) {
	if h.sub == nil {
		return 0, 0
	}

	if h.sub.SignalAvailable() > 0 || h.ready.Swap(false) {
		return fusectlPollIn, 0
	}

	h.sub.SubscribeReadable(h)
	return 0, 0
}

// fusectlPollIn mirrors POLLIN from <poll.h>; go-fuse's FUSE_POLL
// reply uses the same bit values as the host poll(2) ABI.
const fusectlPollIn = 0x0001
