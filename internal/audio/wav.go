package audio

import (
	"errors"
	"fmt"
	"math"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	pcmFormat        = 1
	extensibleFormat = 0xFFFE
)

// ErrUnsupportedFormat is returned for WAV files that are not integer PCM.
var ErrUnsupportedFormat = errors.New("unsupported WAV format")

// Buffer is a fully decoded WAV file. Samples are interleaved and normalized to [-1, 1).
type Buffer struct {
	Samples    []float64
	Channels   int
	SampleRate int
	BitDepth   int
}

// Frames returns the number of sample frames (samples per channel).
func (b *Buffer) Frames() int {
	if b.Channels <= 0 {
		return len(b.Samples)
	}
	return len(b.Samples) / b.Channels
}

// Duration returns the playback length of the buffer in seconds.
func (b *Buffer) Duration() float64 {
	if b.SampleRate <= 0 {
		return 0
	}
	return float64(b.Frames()) / float64(b.SampleRate)
}

// Load decodes the WAV file at path.
func Load(path string) (*Buffer, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("%s: invalid WAV file", path)
	}
	if !supportedFormat(decoder.WavAudioFormat) {
		return nil, fmt.Errorf("%s: %w (format tag %d)", path, ErrUnsupportedFormat, decoder.WavAudioFormat)
	}

	pcm, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("read PCM buffer: %w", err)
	}

	bitDepth := int(decoder.BitDepth)
	buf := &Buffer{
		Samples:    make([]float64, len(pcm.Data)),
		Channels:   int(decoder.NumChans),
		SampleRate: int(decoder.SampleRate),
		BitDepth:   bitDepth,
	}
	for i, v := range pcm.Data {
		buf.Samples[i] = fromPCM(v, bitDepth)
	}
	return buf, nil
}

// supportedFormat accepts plain PCM and WAVE_FORMAT_EXTENSIBLE, which
// multi-channel and 24-bit encoders emit for the same integer samples.
func supportedFormat(tag uint16) bool {
	return tag == pcmFormat || tag == extensibleFormat
}

// Save writes filtered to path using the layout of src. Multi-channel sources
// get the filtered stream copied into every channel; exactly len(filtered)
// interleaved samples are written.
func Save(path string, filtered []float64, src *Buffer) error {
	if src == nil {
		return errors.New("save: missing source format")
	}
	channels := src.Channels
	if channels <= 0 {
		channels = 1
	}
	bitDepth := src.BitDepth
	if bitDepth <= 0 {
		bitDepth = 16
	}

	data := make([]int, len(filtered))
	if channels == 1 {
		for i, v := range filtered {
			data[i] = toPCM(v, bitDepth)
		}
	} else {
		for i := range data {
			data[i] = toPCM(filtered[i/channels], bitDepth)
		}
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer out.Close()

	encoder := wav.NewEncoder(out, src.SampleRate, bitDepth, channels, pcmFormat)
	pcm := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: channels,
			SampleRate:  src.SampleRate,
		},
		Data:           data,
		SourceBitDepth: bitDepth,
	}
	if err := encoder.Write(pcm); err != nil {
		return fmt.Errorf("write samples: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("finalize %s: %w", path, err)
	}
	return nil
}

func fullScale(bitDepth int) float64 {
	if bitDepth < 2 {
		bitDepth = 16
	}
	return float64(int64(1) << (bitDepth - 1))
}

// 8-bit WAV is unsigned, wider depths are signed.
func fromPCM(v, bitDepth int) float64 {
	if bitDepth == 8 {
		return float64(v-128) / 128
	}
	return float64(v) / fullScale(bitDepth)
}

func toPCM(v float64, bitDepth int) int {
	scale := fullScale(bitDepth)
	q := math.Round(v * scale)
	if q > scale-1 {
		q = scale - 1
	}
	if q < -scale {
		q = -scale
	}
	if bitDepth == 8 {
		return int(q) + 128
	}
	return int(q)
}
