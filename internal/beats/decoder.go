// Package beats extracts rhythmic structure (beats, BPM, sections) from an
// audio source and derives beat-aligned editing suggestions.
package beats

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// AudioData is decoded audio: per-channel samples in [-1,1] at the native
// sample rate.
type AudioData struct {
	Channels   [][]float64
	SampleRate int
	Duration   float64
}

// Mono mixes the channels down to a single series by averaging.
func (a *AudioData) Mono() []float64 {
	if len(a.Channels) == 0 {
		return nil
	}
	if len(a.Channels) == 1 {
		return a.Channels[0]
	}
	out := make([]float64, len(a.Channels[0]))
	for _, ch := range a.Channels {
		for i := range out {
			if i < len(ch) {
				out[i] += ch[i]
			}
		}
	}
	for i := range out {
		out[i] /= float64(len(a.Channels))
	}
	return out
}

// Decoder turns a byte source into sample data. Decode failures are expected
// and handled by the analyzer's synthetic fallback.
type Decoder interface {
	Decode(ctx context.Context, r io.Reader) (*AudioData, error)
}

// StubDecoder always fails, forcing the synthetic fallback. Used in dev and
// tests.
type StubDecoder struct {
	logger *slog.Logger
}

func NewStubDecoder(logger *slog.Logger) *StubDecoder {
	return &StubDecoder{logger: logger}
}

func (d *StubDecoder) Decode(ctx context.Context, r io.Reader) (*AudioData, error) {
	if d.logger != nil {
		d.logger.Info("audio decoder stub: decode requested")
	}
	return nil, errors.New("stub decoder: no decode backend")
}

// Chunk sizes come from the untrusted stream header, so allocations are
// bounded before any read: fmt never legitimately exceeds a few dozen
// bytes, and sample data beyond the cap cannot be a real soundtrack.
const (
	maxFmtChunkSize  = 4 << 10
	maxDataChunkSize = 512 << 20
)

// WAVDecoder decodes 16-bit PCM WAV streams, the interchange format the
// upstream asset pipeline produces for analysis.
type WAVDecoder struct{}

func NewWAVDecoder() *WAVDecoder {
	return &WAVDecoder{}
}

func (d *WAVDecoder) Decode(ctx context.Context, r io.Reader) (*AudioData, error) {
	var header [12]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("read RIFF header: %w", err)
	}
	if string(header[0:4]) != "RIFF" || string(header[8:12]) != "WAVE" {
		return nil, errors.New("not a RIFF/WAVE stream")
	}

	var (
		numChannels   int
		sampleRate    int
		bitsPerSample int
		data          []byte
	)

	for {
		var chunk [8]byte
		if _, err := io.ReadFull(r, chunk[:]); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				break
			}
			return nil, fmt.Errorf("read chunk header: %w", err)
		}
		id := string(chunk[0:4])
		size := binary.LittleEndian.Uint32(chunk[4:8])

		switch id {
		case "fmt ":
			if size > maxFmtChunkSize {
				return nil, fmt.Errorf("fmt chunk size %d exceeds limit", size)
			}
			fmtBuf := make([]byte, size)
			if _, err := io.ReadFull(r, fmtBuf); err != nil {
				return nil, fmt.Errorf("read fmt chunk: %w", err)
			}
			if len(fmtBuf) < 16 {
				return nil, errors.New("fmt chunk too short")
			}
			numChannels = int(binary.LittleEndian.Uint16(fmtBuf[2:4]))
			sampleRate = int(binary.LittleEndian.Uint32(fmtBuf[4:8]))
			bitsPerSample = int(binary.LittleEndian.Uint16(fmtBuf[14:16]))
		case "data":
			if size > maxDataChunkSize {
				return nil, fmt.Errorf("data chunk size %d exceeds limit", size)
			}
			data = make([]byte, size)
			if _, err := io.ReadFull(r, data); err != nil {
				return nil, fmt.Errorf("read data chunk: %w", err)
			}
		default:
			if _, err := io.CopyN(io.Discard, r, int64(size)); err != nil {
				return nil, fmt.Errorf("skip %s chunk: %w", id, err)
			}
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if numChannels > 0 && data != nil {
			break
		}
	}

	if numChannels == 0 || sampleRate == 0 {
		return nil, errors.New("missing fmt chunk")
	}
	if bitsPerSample != 16 {
		return nil, fmt.Errorf("unsupported bit depth %d, want 16-bit PCM", bitsPerSample)
	}
	if data == nil {
		return nil, errors.New("missing data chunk")
	}

	frames := len(data) / (2 * numChannels)
	channels := make([][]float64, numChannels)
	for ch := range channels {
		channels[ch] = make([]float64, frames)
	}
	for f := 0; f < frames; f++ {
		for ch := 0; ch < numChannels; ch++ {
			off := (f*numChannels + ch) * 2
			sample := int16(binary.LittleEndian.Uint16(data[off : off+2]))
			channels[ch][f] = float64(sample) / 32768.0
		}
	}

	return &AudioData{
		Channels:   channels,
		SampleRate: sampleRate,
		Duration:   float64(frames) / float64(sampleRate),
	}, nil
}
