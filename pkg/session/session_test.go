package session

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cougar-robotics/cougarlog/pkg/wpilog"
)

// logBuilder assembles synthetic WPILOG buffers for tests.
type logBuilder struct {
	buf []byte
}

func newLog() *logBuilder {
	buf := []byte("WPILOG")
	buf = binary.LittleEndian.AppendUint16(buf, 0x0100)
	buf = binary.LittleEndian.AppendUint32(buf, 0)
	return &logBuilder{buf: buf}
}

func (b *logBuilder) record(entry uint32, timestamp uint64, payload []byte) *logBuilder {
	b.buf = append(b.buf, 0x20|0x04|0x00) // 1-byte id, 2-byte size, 3-byte timestamp
	b.buf = append(b.buf, byte(entry))
	b.buf = append(b.buf, byte(len(payload)), byte(len(payload)>>8))
	b.buf = append(b.buf, byte(timestamp), byte(timestamp>>8), byte(timestamp>>16))
	b.buf = append(b.buf, payload...)
	return b
}

// wideRecord frames a record with full-width fields, for ids or
// timestamps that do not fit the compact encoding above.
func (b *logBuilder) wideRecord(entry uint32, timestamp uint64, payload []byte) *logBuilder {
	b.buf = append(b.buf, 0x73) // 4-byte id, 1-byte size, 8-byte timestamp
	b.buf = binary.LittleEndian.AppendUint32(b.buf, entry)
	b.buf = append(b.buf, byte(len(payload)))
	b.buf = binary.LittleEndian.AppendUint64(b.buf, timestamp)
	b.buf = append(b.buf, payload...)
	return b
}

func innerString(s string) []byte {
	buf := binary.LittleEndian.AppendUint32(nil, uint32(len(s)))
	return append(buf, s...)
}

func (b *logBuilder) declare(id uint32, name, typ, metadata string, timestamp uint64) *logBuilder {
	payload := []byte{0}
	payload = binary.LittleEndian.AppendUint32(payload, id)
	payload = append(payload, innerString(name)...)
	payload = append(payload, innerString(typ)...)
	payload = append(payload, innerString(metadata)...)
	return b.record(0, timestamp, payload)
}

func (b *logBuilder) retire(id uint32, timestamp uint64) *logBuilder {
	payload := []byte{1}
	payload = binary.LittleEndian.AppendUint32(payload, id)
	return b.record(0, timestamp, payload)
}

func (b *logBuilder) setMetadata(id uint32, metadata string, timestamp uint64) *logBuilder {
	payload := []byte{2}
	payload = binary.LittleEndian.AppendUint32(payload, id)
	payload = append(payload, innerString(metadata)...)
	return b.record(0, timestamp, payload)
}

func (b *logBuilder) double(id uint32, v float64, timestamp uint64) *logBuilder {
	return b.record(id, timestamp, binary.LittleEndian.AppendUint64(nil, math.Float64bits(v)))
}

func TestDecode_InvalidHeader(t *testing.T) {
	_, err := Decode([]byte("not a log"))
	assert.ErrorIs(t, err, wpilog.ErrNotWPILOG)
}

func TestDecode_DeclareAndEmit(t *testing.T) {
	buf := newLog().
		declare(7, "shooter/rpm", "double", `{"unit":"rpm"}`, 1_000_000).
		double(7, 3.25, 2_000_000).
		double(7, 4.5, 3_000_000).
		buf

	sess, err := Decode(buf)
	require.NoError(t, err)
	assert.Empty(t, sess.Errors)
	assert.False(t, sess.Truncated())
	assert.Equal(t, 3, sess.RecordCount)

	require.Len(t, sess.Samples, 2)
	assert.Equal(t, 2.0, sess.Samples[0].Timestamp)
	assert.Equal(t, "shooter/rpm", sess.Samples[0].Name)
	assert.Equal(t, 3.25, sess.Samples[0].Value.Float64)
	assert.Equal(t, 4.5, sess.Samples[1].Value.Float64)

	require.Len(t, sess.Streams, 1)
	assert.Equal(t, StreamInfo{ID: 7, Name: "shooter/rpm", Type: "double", Metadata: `{"unit":"rpm"}`}, sess.Streams[0])
}

func TestDecode_RetiredStreamDropsData(t *testing.T) {
	buf := newLog().
		declare(7, "shooter/rpm", "double", "", 1).
		double(7, 1.0, 2).
		retire(7, 3).
		double(7, 2.0, 4).
		buf

	sess, err := Decode(buf)
	require.NoError(t, err)
	assert.Empty(t, sess.Errors)
	require.Len(t, sess.Samples, 1)
	assert.Equal(t, 1.0, sess.Samples[0].Value.Float64)
}

func TestDecode_UnknownStreamDroppedSilently(t *testing.T) {
	buf := newLog().
		double(99, 1.0, 1).
		buf

	sess, err := Decode(buf)
	require.NoError(t, err)
	assert.Empty(t, sess.Samples)
	assert.Empty(t, sess.Errors, "unknown streams are not an error")
}

func TestDecode_RedeclareReplacesDescriptor(t *testing.T) {
	buf := newLog().
		declare(7, "misc/flag", "double", "", 1).
		declare(7, "misc/flag", "boolean", "", 2).
		record(7, 3, []byte{1}).
		buf

	sess, err := Decode(buf)
	require.NoError(t, err)
	assert.Empty(t, sess.Errors)
	require.Len(t, sess.Samples, 1)
	assert.Equal(t, wpilog.TypeBoolean, sess.Samples[0].Value.Type)
	assert.True(t, sess.Samples[0].Value.Bool)

	// The directory keeps one entry per id, with the last declaration.
	require.Len(t, sess.Streams, 1)
	assert.Equal(t, "boolean", sess.Streams[0].Type)
}

func TestDecode_MetadataUpdateIsNotApplied(t *testing.T) {
	buf := newLog().
		declare(7, "arm/angle", "double", "initial", 1).
		setMetadata(7, "updated", 2).
		double(7, 1.0, 3).
		buf

	sess, err := Decode(buf)
	require.NoError(t, err)
	assert.Empty(t, sess.Errors)
	require.Len(t, sess.Samples, 1)

	// The recording side never applied metadata updates; the directory
	// keeps what the declaration said.
	assert.Equal(t, "initial", sess.Streams[0].Metadata)
}

func TestDecode_UnrecognizedControlFlagsError(t *testing.T) {
	badControl := append([]byte{9}, make([]byte, 20)...)
	buf := newLog().
		declare(7, "x", "double", "", 1).
		record(0, 2, badControl).
		double(7, 1.5, 3).
		buf

	sess, err := Decode(buf)
	require.NoError(t, err)
	require.NotEmpty(t, sess.Errors)

	// The walk continues past the bad record.
	require.Len(t, sess.Samples, 1)
	assert.Equal(t, 1.5, sess.Samples[0].Value.Float64)
}

func TestDecode_ShapeMismatchFlagsErrorAndContinues(t *testing.T) {
	buf := newLog().
		declare(7, "x", "double", "", 1).
		record(7, 2, []byte{1, 2, 3}). // 3-byte "double"
		double(7, 2.5, 3).
		buf

	sess, err := Decode(buf)
	require.NoError(t, err)
	require.Len(t, sess.Errors, 1)
	assert.ErrorIs(t, sess.Errors[0], wpilog.ErrShapeMismatch)
	require.Len(t, sess.Samples, 1)
	assert.Equal(t, 2.5, sess.Samples[0].Value.Float64)
}

func TestDecode_UnknownDeclaredTypeFlagsError(t *testing.T) {
	buf := newLog().
		declare(7, "pose", "proto:Pose2d", "", 1).
		record(7, 2, []byte{1, 2, 3, 4}).
		buf

	sess, err := Decode(buf)
	require.NoError(t, err)
	assert.Empty(t, sess.Samples)
	require.Len(t, sess.Errors, 1)
}

func TestDecode_SystemTimeRendering(t *testing.T) {
	micros := int64(1_700_000_000_000_000)
	payload := binary.LittleEndian.AppendUint64(nil, uint64(micros))
	buf := newLog().
		declare(3, "systemTime", "int64", "", 1).
		wideRecord(3, 2_000_000, payload).
		buf

	sess, err := Decode(buf)
	require.NoError(t, err)
	require.Len(t, sess.Samples, 1)
	assert.Equal(t, wpilog.TypeString, sess.Samples[0].Value.Type)
	assert.Equal(t, "2023-11-14 22:13:20.000000", sess.Samples[0].Value.Str)
}

func TestDecode_SystemTimeNameWithOtherTypeIsOrdinary(t *testing.T) {
	buf := newLog().
		declare(3, "systemTime", "double", "", 1).
		double(3, 1.25, 2).
		buf

	sess, err := Decode(buf)
	require.NoError(t, err)
	require.Len(t, sess.Samples, 1)
	assert.Equal(t, wpilog.TypeDouble, sess.Samples[0].Value.Type)
}

func TestDecode_TruncatedTail(t *testing.T) {
	buf := newLog().
		declare(7, "x", "double", "", 1).
		double(7, 1.0, 2).
		double(7, 2.0, 3).
		buf
	buf = buf[:len(buf)-2]

	sess, err := Decode(buf)
	require.NoError(t, err)
	assert.True(t, sess.Truncated())
	assert.Empty(t, sess.Errors, "truncation is not surfaced as a decode error")
	require.Len(t, sess.Samples, 1)
	assert.Equal(t, 2, sess.RecordCount)
	assert.Less(t, sess.BytesConsumed, sess.BufferSize)
}

func TestDecode_TimestampScaling(t *testing.T) {
	buf := newLog().
		declare(7, "x", "double", "", 1).
		double(7, 1.0, 1_500_000).
		buf

	sess, err := Decode(buf)
	require.NoError(t, err)
	require.Len(t, sess.Samples, 1)
	assert.Equal(t, 1.5, sess.Samples[0].Timestamp)
}
