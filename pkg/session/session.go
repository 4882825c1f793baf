// Package session reconstructs a decoded telemetry session from a raw
// WPILOG buffer: it walks the record sequence, maintains the table of live
// streams, and turns data records into typed, named, time-stamped samples.
//
// The walk is best-effort. Malformed control payloads, unrecognized control
// tags and shape mismatches are collected as decode errors without aborting
// the pass, because field logs are frequently partially written. A
// set-metadata record is decoded and validated but deliberately not applied
// to the stream table; the recording side has always behaved that way and
// downstream tooling depends on the declared metadata staying as written.
package session

import (
	"fmt"
	"time"

	"github.com/cougar-robotics/cougarlog/pkg/wpilog"
)

// systemTimeStream is a naming convention, not a protocol field: an int64
// stream with this name carries microseconds since the epoch and is
// rendered as a wall-clock string.
const systemTimeStream = "systemTime"

// Sample is one decoded data point: the record timestamp in seconds, the
// owning stream's name, and the typed value.
type Sample struct {
	Timestamp float64      `json:"timestamp"`
	Name      string       `json:"name"`
	Value     wpilog.Value `json:"value"`
}

// StreamInfo describes a stream as last declared in the log.
type StreamInfo struct {
	ID       uint32 `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Metadata string `json:"metadata"`
}

// Session is the result of one decode pass.
type Session struct {
	Version     uint16
	ExtraHeader string

	// Samples holds every emitted data point in log order.
	Samples []Sample

	// Streams lists every stream ever declared, in first-declaration
	// order, with its last-declared state. Retired streams stay listed;
	// the directory describes the log, not the live table.
	Streams []StreamInfo

	// RecordCount is the number of fully-framed records walked.
	RecordCount int

	// BytesConsumed is the offset one past the last fully-framed record.
	// When it is short of BufferSize the tail was truncated or corrupt.
	BytesConsumed int
	BufferSize    int

	// Errors collects the non-fatal decode errors encountered during the
	// walk (unrecognized control records, malformed control payloads,
	// shape mismatches). A non-empty slice marks the decode unreliable.
	Errors []error
}

// Truncated reports whether the buffer held bytes beyond the last
// fully-framed record.
func (s *Session) Truncated() bool {
	return s.BytesConsumed != s.BufferSize
}

// descriptor is the live-table entry for one declared stream.
type descriptor struct {
	name     string
	typ      wpilog.ValueType
	rawType  string
	metadata string
}

// Decode runs one linear pass over the buffer and reconstructs the
// session. It returns an error only when the global header is invalid;
// everything after a valid header is handled best-effort and surfaced via
// Session.Errors.
func Decode(buf []byte) (*Session, error) {
	r := wpilog.NewReader(buf)
	if !r.IsValid() {
		return nil, wpilog.ErrNotWPILOG
	}

	s := &Session{
		Version:     r.Version(),
		ExtraHeader: r.ExtraHeader(),
		BufferSize:  len(buf),
	}

	// The stream table is private to this decode; concurrent decodes of
	// separate buffers need no coordination.
	table := make(map[uint32]descriptor)
	declared := make(map[uint32]int) // stream id -> index into s.Streams

	it := r.Records()
	for it.Next() {
		s.RecordCount++
		rec := it.Record()

		switch {
		case rec.IsDeclare():
			data, err := rec.DeclareData()
			if err != nil {
				s.Errors = append(s.Errors, err)
				continue
			}
			table[data.StreamID] = descriptor{
				name:     data.Name,
				typ:      wpilog.ParseValueType(data.Type),
				rawType:  data.Type,
				metadata: data.Metadata,
			}
			info := StreamInfo{ID: data.StreamID, Name: data.Name, Type: data.Type, Metadata: data.Metadata}
			if i, ok := declared[data.StreamID]; ok {
				s.Streams[i] = info
			} else {
				declared[data.StreamID] = len(s.Streams)
				s.Streams = append(s.Streams, info)
			}

		case rec.IsRetire():
			id, err := rec.RetireStreamID()
			if err != nil {
				s.Errors = append(s.Errors, err)
				continue
			}
			// Retiring an absent id is a no-op.
			delete(table, id)

		case rec.IsSetMetadata():
			// Decoded for validation only; the table keeps the metadata
			// from the declaration (see the package comment).
			if _, err := rec.MetadataData(); err != nil {
				s.Errors = append(s.Errors, err)
			}

		case rec.IsControl():
			s.Errors = append(s.Errors, fmt.Errorf("unrecognized control record at t=%d (%d byte payload)", rec.Timestamp, len(rec.Payload)))

		default:
			d, ok := table[rec.StreamID]
			if !ok {
				// Never declared or already retired: dropped silently.
				continue
			}
			value, err := decodeSampleValue(rec, d)
			if err != nil {
				s.Errors = append(s.Errors, fmt.Errorf("stream %q: %w", d.name, err))
				continue
			}
			s.Samples = append(s.Samples, Sample{
				Timestamp: float64(rec.Timestamp) / 1e6,
				Name:      d.name,
				Value:     value,
			})
		}
	}
	s.BytesConsumed = it.BytesConsumed()

	return s, nil
}

// decodeSampleValue decodes a data record per its stream's declared type,
// special-casing the systemTime convention.
func decodeSampleValue(rec wpilog.Record, d descriptor) (wpilog.Value, error) {
	if d.name == systemTimeStream && d.typ == wpilog.TypeInt64 {
		micros, err := rec.Int64()
		if err != nil {
			return wpilog.Value{}, err
		}
		return wpilog.StringValue(formatSystemTime(micros)), nil
	}
	return rec.DecodeValue(d.typ)
}

// formatSystemTime renders microseconds since the epoch as a UTC wall-clock
// string. The layout matches what downstream consumers already parse.
func formatSystemTime(micros int64) string {
	return time.UnixMicro(micros).UTC().Format("2006-01-02 15:04:05.000000")
}
