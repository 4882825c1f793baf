package wpilog

import (
	"bytes"
	"errors"
)

// MinVersion is the lowest log version this reader accepts (1.0).
const MinVersion = 0x0100

const headerSize = 12

var magic = []byte("WPILOG")

// ErrNotWPILOG indicates the buffer does not start with a valid WPILOG
// global header.
var ErrNotWPILOG = errors.New("not a valid WPILOG file")

// Reader provides access to the global header and records of a WPILOG
// buffer. The buffer is read-only and owned by the caller; Reader never
// retains derived state beyond the slice itself.
type Reader struct {
	buf []byte
}

// NewReader wraps a raw log buffer. Use IsValid before iterating to check
// that the buffer actually is a WPILOG.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// IsValid reports whether the buffer carries a well-formed global header:
// long enough, correct magic, supported version.
func (r *Reader) IsValid() bool {
	return len(r.buf) >= headerSize &&
		bytes.Equal(r.buf[0:6], magic) &&
		r.Version() >= MinVersion
}

// Version returns the log version (major byte, minor byte), or 0 if the
// buffer is too short to hold a header.
func (r *Reader) Version() uint16 {
	if len(r.buf) < headerSize {
		return 0
	}
	return uint16(ReadUint(r.buf, 6, 2))
}

// ExtraHeader returns the extra header string, or "" if the buffer is too
// short to hold a header.
func (r *Reader) ExtraHeader() string {
	if len(r.buf) < headerSize {
		return ""
	}
	size := int(ReadUint(r.buf, 8, 4))
	end := headerSize + size
	if end > len(r.buf) {
		end = len(r.buf)
	}
	return string(r.buf[headerSize:end])
}

// Records returns a forward-only iterator over the records in the buffer,
// starting immediately after the extra header. The iterator is not
// restartable; call Records again for a fresh pass.
func (r *Reader) Records() *Iterator {
	start := headerSize
	if len(r.buf) >= headerSize {
		start += int(ReadUint(r.buf, 8, 4))
	}
	return &Iterator{buf: r.buf, pos: start}
}

// Iterator walks the record sequence one record at a time. It stops
// silently at the first record whose header or payload does not fit in the
// remaining bytes, which covers both a clean end of stream and a truncated
// tail.
type Iterator struct {
	buf    []byte
	pos    int
	record Record
}

// Next advances to the next record. It returns false when no further
// fully-framed record remains.
func (it *Iterator) Next() bool {
	if len(it.buf) < it.pos+4 {
		return false
	}
	descriptor := it.buf[it.pos]
	entryLen := int(descriptor&0x3) + 1
	sizeLen := int((descriptor>>2)&0x3) + 1
	timestampLen := int((descriptor>>4)&0x7) + 1
	headerLen := 1 + entryLen + sizeLen + timestampLen
	if len(it.buf) < it.pos+headerLen {
		return false
	}
	entry := ReadUint(it.buf, it.pos+1, entryLen)
	size := int(ReadUint(it.buf, it.pos+1+entryLen, sizeLen))
	timestamp := ReadUint(it.buf, it.pos+1+entryLen+sizeLen, timestampLen)
	if len(it.buf) < it.pos+headerLen+size {
		return false
	}
	it.record = Record{
		StreamID:  uint32(entry),
		Timestamp: timestamp,
		Payload:   it.buf[it.pos+headerLen : it.pos+headerLen+size],
	}
	it.pos += headerLen + size
	return true
}

// Record returns the record produced by the last successful Next. The
// payload aliases the underlying buffer and is only valid while the buffer
// is.
func (it *Iterator) Record() Record {
	return it.record
}

// BytesConsumed returns the offset one past the last fully-framed record.
// After iteration ends, a value short of the buffer length means the tail
// was truncated or corrupt.
func (it *Iterator) BytesConsumed() int {
	return it.pos
}
