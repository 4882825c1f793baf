//go:build fuzz
// +build fuzz

package wpilog

import (
	"testing"
)

// FuzzIterator checks that arbitrary (including corrupt) buffers never
// panic the frame decoder and that the consumed offset stays in bounds.
func FuzzIterator(f *testing.F) {
	f.Add([]byte{})
	f.Add(logHeader(""))
	f.Add(appendRecord(logHeader("x"), 1, 100, []byte{0x01, 0x02}, 1, 1, 1))
	f.Add([]byte("WPILOG\x00\x01\xff\xff\xff\xff"))

	f.Fuzz(func(t *testing.T, buf []byte) {
		r := NewReader(buf)
		r.IsValid()
		r.Version()
		r.ExtraHeader()

		it := r.Records()
		for it.Next() {
			rec := it.Record()
			// Classification and control decoding must tolerate any
			// payload without panicking.
			if rec.IsDeclare() {
				rec.DeclareData()
			}
			if rec.IsRetire() {
				rec.RetireStreamID()
			}
			if rec.IsSetMetadata() {
				rec.MetadataData()
			}
			rec.StringArray()
		}

		if it.BytesConsumed() > len(buf) {
			t.Fatalf("consumed %d bytes of a %d byte buffer", it.BytesConsumed(), len(buf))
		}
	})
}
