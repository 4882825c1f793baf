package wpilog

// ReadUint decodes a little-endian unsigned integer of the given byte width
// (1-8) starting at offset. The caller must guarantee that
// offset+width <= len(buf); the frame decoder enforces this before every
// call, so there is no error path.
func ReadUint(buf []byte, offset, width int) uint64 {
	var v uint64
	for i := 0; i < width; i++ {
		v |= uint64(buf[offset+i]) << (8 * i)
	}
	return v
}
