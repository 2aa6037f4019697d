package audio

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
)

// DecodeFunc decodes a whole file into a mono Buffer at its native rate.
// Multichannel input is downmixed by channel averaging.
type DecodeFunc func(r io.ReadSeeker) (*Buffer, error)

// DecodeWAV reads a PCM 16-bit WAV file.
func DecodeWAV(r io.ReadSeeker) (*Buffer, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, ErrInvalidFile
	}
	dec.ReadInfo()

	if dec.WavAudioFormat != 1 || dec.BitDepth != 16 {
		return nil, ErrOnlyPCM16Bit
	}
	if dec.NumChans == 0 || dec.SampleRate == 0 {
		return nil, ErrInvalidFile
	}

	channels := int(dec.NumChans)
	intBuf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: int(dec.SampleRate)},
		Data:           make([]int, 8192*channels),
		SourceBitDepth: int(dec.BitDepth),
	}

	var data []int
	for {
		intBuf.Data = intBuf.Data[:cap(intBuf.Data)]
		n, err := dec.PCMBuffer(intBuf)
		if n > 0 {
			data = append(data, intBuf.Data[:n]...)
		}
		if err == io.EOF || (err == nil && n == 0) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode wav: %w", err)
		}
	}

	return NewInt16(int(dec.SampleRate), downmixInts(data, channels)), nil
}

// DecodeAIFF reads a PCM 16-bit AIFF file.
func DecodeAIFF(r io.ReadSeeker) (*Buffer, error) {
	dec := aiff.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, ErrInvalidFile
	}
	dec.ReadInfo()

	if dec.BitDepth != 16 {
		return nil, ErrOnlyPCM16Bit
	}
	format := dec.Format()
	if format == nil || format.NumChannels == 0 || format.SampleRate == 0 {
		return nil, ErrInvalidFile
	}

	channels := format.NumChannels
	intBuf := &goaudio.IntBuffer{
		Format:         format,
		Data:           make([]int, 8192*channels),
		SourceBitDepth: int(dec.BitDepth),
	}

	var data []int
	for {
		intBuf.Data = intBuf.Data[:cap(intBuf.Data)]
		n, err := dec.PCMBuffer(intBuf)
		if n > 0 {
			data = append(data, intBuf.Data[:n]...)
		}
		if err == io.EOF || (err == nil && n == 0) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode aiff: %w", err)
		}
	}

	return NewInt16(format.SampleRate, downmixInts(data, channels)), nil
}

// DecodeMP3 reads an MP3 file. go-mp3 always outputs stereo 16-bit
// little-endian frames, so the two channels are averaged down to mono.
func DecodeMP3(r io.ReadSeeker) (*Buffer, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("decode mp3: %w", err)
	}

	var data []int16
	buf := make([]byte, 8192)
	for {
		n, err := dec.Read(buf)
		for i := 0; i+3 < n; i += 4 {
			left := int16(binary.LittleEndian.Uint16(buf[i:]))
			right := int16(binary.LittleEndian.Uint16(buf[i+2:]))
			data = append(data, int16((int(left)+int(right))/2))
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode mp3: %w", err)
		}
	}

	return NewInt16(dec.SampleRate(), data), nil
}

// DecodeOgg reads an Ogg Vorbis file into normalized float32 samples.
func DecodeOgg(r io.ReadSeeker) (*Buffer, error) {
	data, format, err := oggvorbis.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("decode ogg: %w", err)
	}
	if format.Channels == 0 || format.SampleRate == 0 {
		return nil, ErrInvalidFile
	}

	return NewFloat32(format.SampleRate, downmixFloats(data, format.Channels)), nil
}

func downmixInts(data []int, channels int) []int16 {
	if channels <= 1 {
		out := make([]int16, len(data))
		for i, v := range data {
			out[i] = int16(v)
		}
		return out
	}
	frames := len(data) / channels
	out := make([]int16, frames)
	for i := 0; i < frames; i++ {
		sum := 0
		for c := 0; c < channels; c++ {
			sum += data[i*channels+c]
		}
		out[i] = int16(sum / channels)
	}
	return out
}

func downmixFloats(data []float32, channels int) []float32 {
	if channels <= 1 {
		out := make([]float32, len(data))
		copy(out, data)
		return out
	}
	frames := len(data) / channels
	out := make([]float32, frames)
	for i := 0; i < frames; i++ {
		var sum float32
		for c := 0; c < channels; c++ {
			sum += data[i*channels+c]
		}
		out[i] = sum / float32(channels)
	}
	return out
}
