package lilt

import "bytes"

// bitWriter packs values MSB-first into a byte stream.
type bitWriter struct {
	buf   *bytes.Buffer
	cur   uint8
	nbits uint8
}

func newBitWriter(buf *bytes.Buffer) *bitWriter {
	return &bitWriter{buf: buf}
}

func (w *bitWriter) writeBits(v uint32, n uint8) {
	for i := int8(n) - 1; i >= 0; i-- {
		w.cur <<= 1
		w.cur |= uint8((v >> uint8(i)) & 1)
		w.nbits++
		if w.nbits == 8 {
			w.buf.WriteByte(w.cur)
			w.cur = 0
			w.nbits = 0
		}
	}
}

// flush pads the current byte with zero bits and emits it.
func (w *bitWriter) flush() {
	if w.nbits == 0 {
		return
	}
	w.cur <<= 8 - w.nbits
	w.buf.WriteByte(w.cur)
	w.cur = 0
	w.nbits = 0
}

// bitReader unpacks MSB-first values from a byte stream.
type bitReader struct {
	data  []byte
	pos   int
	cur   uint8
	nbits uint8
}

func newBitReader(data []byte) *bitReader {
	return &bitReader{data: data}
}

func (r *bitReader) readBits(n uint8) (uint32, error) {
	var v uint32
	for i := uint8(0); i < n; i++ {
		if r.nbits == 0 {
			if r.pos >= len(r.data) {
				return 0, ErrCorruptStream
			}
			r.cur = r.data[r.pos]
			r.pos++
			r.nbits = 8
		}
		v <<= 1
		v |= uint32(r.cur >> 7)
		r.cur <<= 1
		r.nbits--
	}
	return v, nil
}
