package wpilog

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// innerString encodes a length-prefixed string.
func innerString(s string) []byte {
	buf := binary.LittleEndian.AppendUint32(nil, uint32(len(s)))
	return append(buf, s...)
}

// declarePayload builds a stream-declare control payload.
func declarePayload(id uint32, name, typ, metadata string) []byte {
	buf := []byte{controlDeclare}
	buf = binary.LittleEndian.AppendUint32(buf, id)
	buf = append(buf, innerString(name)...)
	buf = append(buf, innerString(typ)...)
	buf = append(buf, innerString(metadata)...)
	return buf
}

// retirePayload builds a stream-retire control payload.
func retirePayload(id uint32) []byte {
	buf := []byte{controlRetire}
	return binary.LittleEndian.AppendUint32(buf, id)
}

// metadataPayload builds a set-metadata control payload.
func metadataPayload(id uint32, metadata string) []byte {
	buf := []byte{controlSetMetadata}
	buf = binary.LittleEndian.AppendUint32(buf, id)
	return append(buf, innerString(metadata)...)
}

func control(payload []byte) Record {
	return Record{StreamID: 0, Timestamp: 1, Payload: payload}
}

func TestRecord_Classification(t *testing.T) {
	testCases := []struct {
		name    string
		rec     Record
		control bool
		declare bool
		retire  bool
		setMeta bool
	}{
		{
			name:    "data record",
			rec:     Record{StreamID: 5, Payload: []byte{0}},
			control: false,
		},
		{
			name:    "declare",
			rec:     control(declarePayload(1, "a", "double", "")),
			control: true,
			declare: true,
		},
		{
			name:    "retire",
			rec:     control(retirePayload(1)),
			control: true,
			retire:  true,
		},
		{
			name:    "set metadata",
			rec:     control(metadataPayload(1, "{}")),
			control: true,
			setMeta: true,
		},
		{
			name:    "declare payload too short",
			rec:     control(append([]byte{controlDeclare}, make([]byte, 10)...)),
			control: true,
		},
		{
			name:    "retire payload wrong size",
			rec:     control(append(retirePayload(1), 0x00)),
			control: true,
		},
		{
			name:    "unknown tag",
			rec:     control(append([]byte{9}, make([]byte, 20)...)),
			control: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.control, tc.rec.IsControl())
			assert.Equal(t, tc.declare, tc.rec.IsDeclare())
			assert.Equal(t, tc.retire, tc.rec.IsRetire())
			assert.Equal(t, tc.setMeta, tc.rec.IsSetMetadata())
		})
	}
}

func TestRecord_DeclareData(t *testing.T) {
	rec := control(declarePayload(42, "drivetrain/velocity", "double", `{"unit":"m/s"}`))

	data, err := rec.DeclareData()
	require.NoError(t, err)
	assert.Equal(t, uint32(42), data.StreamID)
	assert.Equal(t, "drivetrain/velocity", data.Name)
	assert.Equal(t, "double", data.Type)
	assert.Equal(t, `{"unit":"m/s"}`, data.Metadata)
}

func TestRecord_DeclareData_TruncatedString(t *testing.T) {
	payload := declarePayload(1, "name", "double", "meta")
	rec := control(payload[:len(payload)-2])

	_, err := rec.DeclareData()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestRecord_RetireStreamID(t *testing.T) {
	id, err := control(retirePayload(7)).RetireStreamID()
	require.NoError(t, err)
	assert.Equal(t, uint32(7), id)

	_, err = control(declarePayload(7, "a", "double", "")).RetireStreamID()
	assert.ErrorIs(t, err, ErrNotControl)
}

func TestRecord_MetadataData(t *testing.T) {
	data, err := control(metadataPayload(9, "updated")).MetadataData()
	require.NoError(t, err)
	assert.Equal(t, uint32(9), data.StreamID)
	assert.Equal(t, "updated", data.Metadata)
}

func TestRecord_Scalars(t *testing.T) {
	b, err := Record{Payload: []byte{0x02}}.Bool()
	require.NoError(t, err)
	assert.True(t, b)

	b, err = Record{Payload: []byte{0x00}}.Bool()
	require.NoError(t, err)
	assert.False(t, b)

	n, err := Record{Payload: binary.LittleEndian.AppendUint64(nil, uint64(0xfffffffffffffffe))}.Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(-2), n)

	f32, err := Record{Payload: binary.LittleEndian.AppendUint32(nil, math.Float32bits(3.5))}.Float32()
	require.NoError(t, err)
	assert.Equal(t, float32(3.5), f32)

	f64, err := Record{Payload: binary.LittleEndian.AppendUint64(nil, math.Float64bits(3.25))}.Float64()
	require.NoError(t, err)
	assert.Equal(t, 3.25, f64)

	s, err := Record{Payload: []byte("hello")}.Str()
	require.NoError(t, err)
	assert.Equal(t, "hello", s)
}

func TestRecord_ScalarShapeMismatch(t *testing.T) {
	_, err := Record{Payload: []byte{1, 2}}.Bool()
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, err = Record{Payload: []byte{1, 2, 3}}.Int64()
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, err = Record{Payload: []byte{1, 2, 3}}.Float32()
	assert.ErrorIs(t, err, ErrShapeMismatch)

	// A 3-byte "double" is the canonical shape mismatch.
	_, err = Record{Payload: []byte{1, 2, 3}}.Float64()
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestRecord_Arrays(t *testing.T) {
	bs, err := Record{Payload: []byte{1, 0, 2}}.BoolArray()
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false, true}, bs)

	bs, err = Record{Payload: nil}.BoolArray()
	require.NoError(t, err)
	assert.Empty(t, bs)

	var payload []byte
	payload = binary.LittleEndian.AppendUint64(payload, uint64(1))
	payload = binary.LittleEndian.AppendUint64(payload, uint64(0xffffffffffffffff))
	ns, err := Record{Payload: payload}.Int64Array()
	require.NoError(t, err)
	assert.Equal(t, []int64{1, -1}, ns)

	_, err = Record{Payload: payload[:9]}.Int64Array()
	assert.ErrorIs(t, err, ErrShapeMismatch)

	payload = binary.LittleEndian.AppendUint32(nil, math.Float32bits(1.5))
	payload = binary.LittleEndian.AppendUint32(payload, math.Float32bits(-2.5))
	f32s, err := Record{Payload: payload}.Float32Array()
	require.NoError(t, err)
	assert.Equal(t, []float32{1.5, -2.5}, f32s)

	payload = binary.LittleEndian.AppendUint64(nil, math.Float64bits(0.5))
	f64s, err := Record{Payload: payload}.Float64Array()
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5}, f64s)

	_, err = Record{Payload: payload[:7]}.Float64Array()
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestRecord_StringArray(t *testing.T) {
	payload := binary.LittleEndian.AppendUint32(nil, 2)
	payload = append(payload, innerString("abc")...)
	payload = append(payload, innerString("xy")...)

	ss, err := Record{Payload: payload}.StringArray()
	require.NoError(t, err)
	assert.Equal(t, []string{"abc", "xy"}, ss)
}

func TestRecord_StringArray_CountBeyondFeasibilityBound(t *testing.T) {
	// Claims 5 elements but the payload cannot even hold 5 length
	// prefixes past the count.
	payload := binary.LittleEndian.AppendUint32(nil, 5)
	payload = append(payload, innerString("abc")...)

	_, err := Record{Payload: payload}.StringArray()
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestRecord_StringArray_ElementOverrun(t *testing.T) {
	// Count is feasible but the element length overruns the payload.
	payload := binary.LittleEndian.AppendUint32(nil, 1)
	payload = binary.LittleEndian.AppendUint32(payload, 100)
	payload = append(payload, "short"...)

	_, err := Record{Payload: payload}.StringArray()
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestRecord_StringArray_TooShortForCount(t *testing.T) {
	_, err := Record{Payload: []byte{1, 2}}.StringArray()
	assert.ErrorIs(t, err, ErrShapeMismatch)
}
