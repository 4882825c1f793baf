package wpilog

import (
	"errors"
	"fmt"
	"math"
)

// Control record tags carried in the first payload byte of entry 0 records.
const (
	controlDeclare     = 0
	controlRetire      = 1
	controlSetMetadata = 2
)

// ErrShapeMismatch indicates a payload whose size or layout is inconsistent
// with the declared value type. It is a per-record condition; the session
// walk reports it and continues.
var ErrShapeMismatch = errors.New("payload shape mismatch")

// ErrNotControl indicates a control accessor was called on a record that is
// not the matching kind of control record.
var ErrNotControl = errors.New("not a control record of the requested kind")

// Record is one framed record: the stream (entry) id, the timestamp in
// microseconds, and the raw payload. Records are ephemeral; the payload
// aliases the log buffer.
type Record struct {
	StreamID  uint32
	Timestamp uint64
	Payload   []byte
}

// DeclareData is the decoded payload of a stream-declare control record.
type DeclareData struct {
	StreamID uint32
	Name     string
	Type     string
	Metadata string
}

// MetadataData is the decoded payload of a set-metadata control record.
type MetadataData struct {
	StreamID uint32
	Metadata string
}

// IsControl reports whether the record is a control record. Stream id 0 is
// reserved for control payloads and never denotes a data stream.
func (r Record) IsControl() bool {
	return r.StreamID == 0
}

func (r Record) controlTag() byte {
	return r.Payload[0]
}

// IsDeclare reports whether the record declares a stream.
func (r Record) IsDeclare() bool {
	return r.IsControl() && len(r.Payload) >= 17 && r.controlTag() == controlDeclare
}

// IsRetire reports whether the record retires a stream.
func (r Record) IsRetire() bool {
	return r.IsControl() && len(r.Payload) == 5 && r.controlTag() == controlRetire
}

// IsSetMetadata reports whether the record updates a stream's metadata.
func (r Record) IsSetMetadata() bool {
	return r.IsControl() && len(r.Payload) >= 9 && r.controlTag() == controlSetMetadata
}

// DeclareData decodes a stream-declare payload: the stream id followed by
// three length-prefixed strings (name, type, metadata) in that order.
func (r Record) DeclareData() (DeclareData, error) {
	if !r.IsDeclare() {
		return DeclareData{}, fmt.Errorf("declare: %w", ErrNotControl)
	}
	id := uint32(ReadUint(r.Payload, 1, 4))
	name, pos, err := readInnerString(r.Payload, 5)
	if err != nil {
		return DeclareData{}, fmt.Errorf("declare name: %w", err)
	}
	typ, pos, err := readInnerString(r.Payload, pos)
	if err != nil {
		return DeclareData{}, fmt.Errorf("declare type: %w", err)
	}
	metadata, _, err := readInnerString(r.Payload, pos)
	if err != nil {
		return DeclareData{}, fmt.Errorf("declare metadata: %w", err)
	}
	return DeclareData{StreamID: id, Name: name, Type: typ, Metadata: metadata}, nil
}

// RetireStreamID decodes a stream-retire payload.
func (r Record) RetireStreamID() (uint32, error) {
	if !r.IsRetire() {
		return 0, fmt.Errorf("retire: %w", ErrNotControl)
	}
	return uint32(ReadUint(r.Payload, 1, 4)), nil
}

// MetadataData decodes a set-metadata payload: the stream id followed by
// one length-prefixed string.
func (r Record) MetadataData() (MetadataData, error) {
	if !r.IsSetMetadata() {
		return MetadataData{}, fmt.Errorf("set metadata: %w", ErrNotControl)
	}
	id := uint32(ReadUint(r.Payload, 1, 4))
	metadata, _, err := readInnerString(r.Payload, 5)
	if err != nil {
		return MetadataData{}, fmt.Errorf("set metadata: %w", err)
	}
	return MetadataData{StreamID: id, Metadata: metadata}, nil
}

// Bool decodes a one-byte boolean payload.
func (r Record) Bool() (bool, error) {
	if len(r.Payload) != 1 {
		return false, fmt.Errorf("boolean payload must be 1 byte, got %d: %w", len(r.Payload), ErrShapeMismatch)
	}
	return r.Payload[0] != 0, nil
}

// Int64 decodes an 8-byte little-endian signed integer payload.
func (r Record) Int64() (int64, error) {
	if len(r.Payload) != 8 {
		return 0, fmt.Errorf("int64 payload must be 8 bytes, got %d: %w", len(r.Payload), ErrShapeMismatch)
	}
	return int64(ReadUint(r.Payload, 0, 8)), nil
}

// Float32 decodes a 4-byte little-endian IEEE-754 payload.
func (r Record) Float32() (float32, error) {
	if len(r.Payload) != 4 {
		return 0, fmt.Errorf("float payload must be 4 bytes, got %d: %w", len(r.Payload), ErrShapeMismatch)
	}
	return math.Float32frombits(uint32(ReadUint(r.Payload, 0, 4))), nil
}

// Float64 decodes an 8-byte little-endian IEEE-754 payload.
func (r Record) Float64() (float64, error) {
	if len(r.Payload) != 8 {
		return 0, fmt.Errorf("double payload must be 8 bytes, got %d: %w", len(r.Payload), ErrShapeMismatch)
	}
	return math.Float64frombits(ReadUint(r.Payload, 0, 8)), nil
}

// Str interprets the entire payload as UTF-8. There is no length prefix;
// the payload length is the string length, so any payload is valid.
func (r Record) Str() (string, error) {
	return string(r.Payload), nil
}

// BoolArray decodes a boolean array payload: one byte per element, any
// length valid.
func (r Record) BoolArray() ([]bool, error) {
	out := make([]bool, len(r.Payload))
	for i, b := range r.Payload {
		out[i] = b != 0
	}
	return out, nil
}

// Int64Array decodes a packed little-endian signed 64-bit array payload.
func (r Record) Int64Array() ([]int64, error) {
	if len(r.Payload)%8 != 0 {
		return nil, fmt.Errorf("int64 array payload must be a multiple of 8 bytes, got %d: %w", len(r.Payload), ErrShapeMismatch)
	}
	out := make([]int64, len(r.Payload)/8)
	for i := range out {
		out[i] = int64(ReadUint(r.Payload, i*8, 8))
	}
	return out, nil
}

// Float32Array decodes a packed little-endian IEEE-754 float array payload.
func (r Record) Float32Array() ([]float32, error) {
	if len(r.Payload)%4 != 0 {
		return nil, fmt.Errorf("float array payload must be a multiple of 4 bytes, got %d: %w", len(r.Payload), ErrShapeMismatch)
	}
	out := make([]float32, len(r.Payload)/4)
	for i := range out {
		out[i] = math.Float32frombits(uint32(ReadUint(r.Payload, i*4, 4)))
	}
	return out, nil
}

// Float64Array decodes a packed little-endian IEEE-754 double array payload.
func (r Record) Float64Array() ([]float64, error) {
	if len(r.Payload)%8 != 0 {
		return nil, fmt.Errorf("double array payload must be a multiple of 8 bytes, got %d: %w", len(r.Payload), ErrShapeMismatch)
	}
	out := make([]float64, len(r.Payload)/8)
	for i := range out {
		out[i] = math.Float64frombits(ReadUint(r.Payload, i*8, 8))
	}
	return out, nil
}

// StringArray decodes a string array payload: a u32 LE element count
// followed by that many length-prefixed strings. The count is checked
// against a feasibility bound (each element needs at least its 4-byte
// length prefix), not an exact size.
func (r Record) StringArray() ([]string, error) {
	if len(r.Payload) < 4 {
		return nil, fmt.Errorf("string array payload must hold a 4-byte count, got %d: %w", len(r.Payload), ErrShapeMismatch)
	}
	count := int(ReadUint(r.Payload, 0, 4))
	if count > (len(r.Payload)-4)/4 {
		return nil, fmt.Errorf("string array count %d exceeds payload capacity %d: %w", count, (len(r.Payload)-4)/4, ErrShapeMismatch)
	}
	out := make([]string, 0, count)
	pos := 4
	for i := 0; i < count; i++ {
		s, next, err := readInnerString(r.Payload, pos)
		if err != nil {
			return nil, fmt.Errorf("string array element %d: %w", i, err)
		}
		out = append(out, s)
		pos = next
	}
	return out, nil
}

// readInnerString reads a length-prefixed string at pos: a u32 LE length
// followed by that many UTF-8 bytes. It returns the string and the position
// one past it.
func readInnerString(payload []byte, pos int) (string, int, error) {
	if pos+4 > len(payload) {
		return "", 0, fmt.Errorf("string length prefix at %d overruns payload of %d bytes: %w", pos, len(payload), ErrShapeMismatch)
	}
	size := int(ReadUint(payload, pos, 4))
	end := pos + 4 + size
	if end > len(payload) {
		return "", 0, fmt.Errorf("string of %d bytes at %d overruns payload of %d bytes: %w", size, pos, len(payload), ErrShapeMismatch)
	}
	return string(payload[pos+4 : end]), end, nil
}
