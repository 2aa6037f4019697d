// Package lilt implements a small lossy audio codec built on linear
// prediction. Each block of samples is modeled by an LPC filter; the
// quantized filter coefficients and the coarsely quantized prediction
// residual are all that travels in the bitstream. Fidelity is traded for
// rate through the model order and the residual bit depth.
//
// The codec is deterministic: compressing the same samples with the same
// settings always yields the same bytes, and decompression replays the
// encoder's arithmetic exactly, so the round trip reproduces the encoder's
// internal reconstruction bit for bit.
package lilt

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

const (
	streamMagic   = "LILT"
	streamVersion = 1
	headerSize    = 13

	// MaxOrder is the highest supported LPC model order.
	MaxOrder = 32

	// MinBitsPerSample and MaxBitsPerSample bound the residual quantizer.
	MinBitsPerSample = 2
	MaxBitsPerSample = 16

	// DefaultBitsPerSample is used when WithBitsPerSample is not given.
	DefaultBitsPerSample = 8

	// DefaultBlockSize is used when WithBlockSize is not given.
	DefaultBlockSize = 1024

	minBlockSize = 64
	maxBlockSize = 65535
)

// Compress encodes normalized float32 samples with an LPC model of the
// given order. The returned bitstream carries everything Decompress needs.
func Compress(samples []float32, order int, opts ...CompressOpt) ([]byte, error) {
	if len(samples) == 0 {
		return nil, ErrEmptyInput
	}
	if order < 1 || order > MaxOrder {
		return nil, fmt.Errorf("%w: %d", ErrInvalidOrder, order)
	}

	o := buildOpts(opts...)
	bits := DefaultBitsPerSample
	if o.BitsPerSample != nil {
		bits = *o.BitsPerSample
	}
	if bits < MinBitsPerSample || bits > MaxBitsPerSample {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBits, bits)
	}
	block := DefaultBlockSize
	if o.BlockSize != nil {
		block = *o.BlockSize
	}
	if block < minBlockSize || block > maxBlockSize {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBlockSize, block)
	}

	x := make([]float64, len(samples))
	for i, v := range samples {
		x[i] = float64(v)
	}

	buf := &bytes.Buffer{}
	writeHeader(buf, order, bits, block, uint32(len(samples)))

	qmax := (1 << (bits - 1)) - 1
	qmin := -(1 << (bits - 1))
	recon := make([]float64, len(x))
	bw := newBitWriter(buf)
	var tmp [4]byte

	for start := 0; start < len(x); start += block {
		end := min(start+block, len(x))

		qa := quantizeCoeffs(lpcCoeffs(x[start:end], order))
		aq := dequantizeCoeffs(qa)
		scale := residualScale(x, start, end, aq, qmax)

		for _, c := range qa {
			binary.LittleEndian.PutUint16(tmp[:2], uint16(c))
			buf.Write(tmp[:2])
		}
		binary.LittleEndian.PutUint32(tmp[:4], math.Float32bits(float32(scale)))
		buf.Write(tmp[:4])

		if scale == 0 {
			// Residual is exactly predictable; no bits needed.
			for t := start; t < end; t++ {
				recon[t] = predict(recon, t, aq)
			}
			continue
		}

		for t := start; t < end; t++ {
			pred := predict(recon, t, aq)
			q := int(math.Round((x[t] - pred) / scale))
			if q > qmax {
				q = qmax
			} else if q < qmin {
				q = qmin
			}
			recon[t] = pred + float64(q)*scale
			bw.writeBits(uint32(q-qmin), uint8(bits))
		}
		bw.flush()
	}

	return buf.Bytes(), nil
}

// Decompress decodes a bitstream produced by Compress.
func Decompress(data []byte) ([]float32, error) {
	order, bits, block, count, rest, err := readHeader(data)
	if err != nil {
		return nil, err
	}

	qmin := -(1 << (bits - 1))
	recon := make([]float64, count)
	pos := 0

	for start := 0; start < count; start += block {
		end := min(start+block, count)

		if pos+2*order+4 > len(rest) {
			return nil, fmt.Errorf("block at sample %d: %w", start, ErrCorruptStream)
		}
		qa := make([]int16, order)
		for j := range qa {
			qa[j] = int16(binary.LittleEndian.Uint16(rest[pos:]))
			pos += 2
		}
		scale := float64(math.Float32frombits(binary.LittleEndian.Uint32(rest[pos:])))
		pos += 4
		aq := dequantizeCoeffs(qa)

		if scale == 0 {
			for t := start; t < end; t++ {
				recon[t] = predict(recon, t, aq)
			}
			continue
		}

		n := end - start
		nbytes := (n*bits + 7) / 8
		if pos+nbytes > len(rest) {
			return nil, fmt.Errorf("block at sample %d: %w", start, ErrCorruptStream)
		}
		br := newBitReader(rest[pos : pos+nbytes])
		pos += nbytes

		for t := start; t < end; t++ {
			u, err := br.readBits(uint8(bits))
			if err != nil {
				return nil, err
			}
			pred := predict(recon, t, aq)
			recon[t] = pred + float64(int(u)+qmin)*scale
		}
	}

	if pos != len(rest) {
		return nil, fmt.Errorf("%d trailing bytes: %w", len(rest)-pos, ErrCorruptStream)
	}

	out := make([]float32, count)
	for i, v := range recon {
		out[i] = float32(v)
	}
	return out, nil
}

// predict evaluates the LPC filter over reconstructed history. Samples
// before the start of the stream read as zero. Encoder and decoder both
// call this, in the same order, so their reconstructions match exactly.
func predict(recon []float64, t int, aq []float64) float64 {
	var pred float64
	for j, c := range aq {
		if idx := t - 1 - j; idx >= 0 {
			pred += c * recon[idx]
		}
	}
	return pred
}

// residualScale derives the block's quantizer step from the open-loop
// residual peak. The step is rounded through float32 because that is how
// it travels in the stream. A zero step means the block is exactly
// predictable from its coefficients.
func residualScale(x []float64, start, end int, aq []float64, qmax int) float64 {
	var maxAbs float64
	for t := start; t < end; t++ {
		if a := math.Abs(x[t] - predict(x, t, aq)); a > maxAbs {
			maxAbs = a
		}
	}
	if maxAbs == 0 {
		return 0
	}
	return float64(float32(maxAbs / float64(qmax)))
}

func writeHeader(buf *bytes.Buffer, order, bits, block int, count uint32) {
	var tmp [4]byte
	buf.WriteString(streamMagic)
	buf.WriteByte(streamVersion)
	buf.WriteByte(uint8(order))
	buf.WriteByte(uint8(bits))
	binary.LittleEndian.PutUint16(tmp[:2], uint16(block))
	buf.Write(tmp[:2])
	binary.LittleEndian.PutUint32(tmp[:4], count)
	buf.Write(tmp[:4])
}

func readHeader(data []byte) (order, bits, block, count int, rest []byte, err error) {
	if len(data) < headerSize {
		return 0, 0, 0, 0, nil, ErrCorruptStream
	}
	if string(data[:4]) != streamMagic {
		return 0, 0, 0, 0, nil, ErrCorruptStream
	}
	if data[4] != streamVersion {
		return 0, 0, 0, 0, nil, fmt.Errorf("version %d: %w", data[4], ErrUnsupportedVersion)
	}

	order = int(data[5])
	bits = int(data[6])
	block = int(binary.LittleEndian.Uint16(data[7:9]))
	count = int(binary.LittleEndian.Uint32(data[9:13]))

	if order < 1 || order > MaxOrder {
		return 0, 0, 0, 0, nil, fmt.Errorf("order %d: %w", order, ErrCorruptStream)
	}
	if bits < MinBitsPerSample || bits > MaxBitsPerSample {
		return 0, 0, 0, 0, nil, fmt.Errorf("bits %d: %w", bits, ErrCorruptStream)
	}
	if block < minBlockSize || block > maxBlockSize {
		return 0, 0, 0, 0, nil, fmt.Errorf("block size %d: %w", block, ErrCorruptStream)
	}

	return order, bits, block, count, data[headerSize:], nil
}
