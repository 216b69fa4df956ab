// Copyright 2026 The Sigfs Authors
// SPDX-License-Identifier: Apache-2.0

// Package wire implements the byte-level framing used at a signal
// file's surface, shared by the filesystem bridge and by any ordinary
// process reading or writing a mounted signal file directly (the
// sample publisher/subscriber commands included).
package wire

import (
	"encoding/binary"
	"errors"
)

// PayloadRecordHeaderSize is the size of the {u32 payload_size}
// header that precedes each record on the write path.
const PayloadRecordHeaderSize = 4

// SignalRecordHeaderSize is the size of the {u32 lost_signals, u64
// signal_id, u32 payload_size} header that precedes each record on
// the read path.
const SignalRecordHeaderSize = 4 + 8 + 4

// ErrPartialRecord is returned when a byte buffer ends mid-record: a
// complete header with a shorter-than-declared payload, or a header
// that is itself truncated.
var ErrPartialRecord = errors.New("wire: buffer ends with a partial record")

// Signal is one decoded read-path record.
type Signal struct {
	Lost    uint32
	ID      uint64
	Payload []byte
}

// EncodePayloadRecord frames one write-path payload as
// {u32 payload_size, payload}.
func EncodePayloadRecord(payload []byte) []byte {
	buf := make([]byte, PayloadRecordHeaderSize, PayloadRecordHeaderSize+len(payload))
	binary.LittleEndian.PutUint32(buf, uint32(len(payload)))
	return append(buf, payload...)
}

// ParsePayloadRecords splits a write-path byte buffer into the
// concatenated payload records it must consist of. Any trailing
// partial record is reported via ErrPartialRecord. The returned
// slices alias data.
func ParsePayloadRecords(data []byte) ([][]byte, error) {
	var records [][]byte
	for len(data) > 0 {
		if len(data) < PayloadRecordHeaderSize {
			return nil, ErrPartialRecord
		}
		size := binary.LittleEndian.Uint32(data)
		data = data[PayloadRecordHeaderSize:]
		if uint64(len(data)) < uint64(size) {
			return nil, ErrPartialRecord
		}
		records = append(records, data[:size])
		data = data[size:]
	}
	return records, nil
}

// AppendSignalRecord frames one delivered signal as
// {u32 lost_signals, u64 signal_id, u32 payload_size, payload} and
// appends it to dst, returning the grown slice.
func AppendSignalRecord(dst []byte, lost uint64, sid uint64, payload []byte) []byte {
	var header [SignalRecordHeaderSize]byte
	binary.LittleEndian.PutUint32(header[0:4], uint32(lost))
	binary.LittleEndian.PutUint64(header[4:12], sid)
	binary.LittleEndian.PutUint32(header[12:16], uint32(len(payload)))
	dst = append(dst, header[:]...)
	dst = append(dst, payload...)
	return dst
}

// ParseSignalRecords splits a read-path byte buffer into the
// concatenated signal records it must consist of. Unlike
// ParsePayloadRecords, a trailing partial record here is not an
// error: the read side can legitimately observe a short buffer and
// should just hold the remainder for the caller to combine with the
// next read. ParseSignalRecords therefore returns the complete
// records found and the unconsumed remainder.
func ParseSignalRecords(data []byte) (signals []Signal, remainder []byte) {
	for len(data) >= SignalRecordHeaderSize {
		lost := binary.LittleEndian.Uint32(data[0:4])
		sid := binary.LittleEndian.Uint64(data[4:12])
		size := binary.LittleEndian.Uint32(data[12:16])
		rest := data[SignalRecordHeaderSize:]
		if uint64(len(rest)) < uint64(size) {
			break
		}
		signals = append(signals, Signal{Lost: lost, ID: sid, Payload: rest[:size]})
		data = rest[size:]
	}
	return signals, data
}
