// Package wpilog decodes WPILOG robot telemetry logs.
//
// A WPILOG file is a flat byte buffer: a fixed global header followed by a
// sequence of variable-width records. This package provides the framing
// layer (splitting the buffer into records), record classification (control
// vs. data) and payload decoding into typed values.
//
// # File Layout
//
// Global header:
//
//	magic[6]        = "WPILOG"
//	version         u16 LE (major in the high byte, minor in the low byte)
//	extraHeaderLen  u32 LE
//	extraHeader     utf8[extraHeaderLen]
//
// Records start at offset 12+extraHeaderLen. Each record carries a one-byte
// width descriptor followed by three little-endian unsigned fields whose
// widths the descriptor declares:
//
//	descriptor  u8   bits [0:2) entry id width-1, [2:4) size width-1,
//	                 [4:7) timestamp width-1, bit 7 unused
//	entry id    uint LE, 1-4 bytes
//	size        uint LE, 1-4 bytes
//	timestamp   uint LE, 1-8 bytes (microseconds)
//	payload     byte[size]
//
// # Records
//
// Entry id 0 is reserved for control records that manage the lifecycle of
// data streams: tag 0 declares a stream (id, name, type, metadata), tag 1
// retires it, tag 2 updates its metadata. Every other entry id carries the
// payload of a previously declared stream, interpreted according to the
// declared type (see ValueType).
//
// # Truncated Input
//
// Logs are frequently crash-truncated in the field. The iterator therefore
// stops silently as soon as a header or payload does not fit in the
// remaining bytes; it does not distinguish a clean end of stream from a
// corrupt tail. Callers that care can compare Iterator.BytesConsumed against
// the buffer length after iteration.
package wpilog
