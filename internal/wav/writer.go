// Package wav writes streaming PCM WAV files. Samples are appended one at a
// time as they arrive from the capture callback; the container is not valid
// until Close rewrites the header with the final sizes.
package wav

import (
	"errors"
	"fmt"
	"os"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"
)

const pcmFormat = 1 // uncompressed linear PCM

// Writer appends 16-bit PCM samples to a WAV file.
type Writer struct {
	file     *os.File
	enc      *gowav.Encoder
	format   *goaudio.Format
	bitDepth int
	closed   bool
}

// Create opens path for writing with the given header parameters.
func Create(path string, sampleRate, numChannels, bitDepth int) (*Writer, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	return &Writer{
		file: file,
		enc:  gowav.NewEncoder(file, sampleRate, bitDepth, numChannels, pcmFormat),
		format: &goaudio.Format{
			NumChannels: numChannels,
			SampleRate:  sampleRate,
		},
		bitDepth: bitDepth,
	}, nil
}

// WriteSample appends a single sample.
func (w *Writer) WriteSample(s int16) error {
	if w.closed {
		return errors.New("writer already finalized")
	}
	return w.enc.WriteFrame(s)
}

// WriteSamples appends a buffer of samples in one encoder call.
func (w *Writer) WriteSamples(samples []int16) error {
	if w.closed {
		return errors.New("writer already finalized")
	}
	if len(samples) == 0 {
		return nil
	}
	data := make([]int, len(samples))
	for i, s := range samples {
		data[i] = int(s)
	}
	return w.enc.Write(&goaudio.IntBuffer{
		Format:         w.format,
		SourceBitDepth: w.bitDepth,
		Data:           data,
	})
}

// Close finalizes the header and closes the file. Calling Close again is a
// no-op, so error paths and the normal stop path can both finalize safely.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	encErr := w.enc.Close()
	fileErr := w.file.Close()
	if encErr != nil {
		return fmt.Errorf("finalize header: %w", encErr)
	}
	if fileErr != nil {
		return fmt.Errorf("close file: %w", fileErr)
	}
	return nil
}
