// Copyright 2026 The Sigfs Authors
// SPDX-License-Identifier: Apache-2.0

package queue

// slot holds one published signal's payload together with the id
// assigned to it at publish time. A slot whose id is zero has never
// been published into, or is the write head one past the newest
// signal -- it is never read as a valid record.
type slot struct {
	id      uint64
	payload []byte
}

// set overwrites the slot with a new id and payload, reusing the
// existing backing array when it is already large enough so that a
// steady-state publisher does not allocate per signal.
func (s *slot) set(id uint64, payload []byte) {
	if cap(s.payload) < len(payload) {
		s.payload = make([]byte, len(payload))
	} else {
		s.payload = s.payload[:len(payload)]
	}
	copy(s.payload, payload)
	s.id = id
}

// clearID marks the slot as holding no readable record, without
// touching the payload backing array (it will be overwritten by the
// next set call into this position).
func (s *slot) clearID() {
	s.id = 0
}
