// Package audio implements the capture engine: input device enumeration,
// format negotiation, sample conversion, and the single-session recording
// manager. Recordings are written as mono 16 kHz 16-bit PCM WAV files, the
// canonical format for the speech-recognition backend, regardless of what
// the source device natively produces.
package audio

import "time"

// Target output format. Every byte written to a recording conforms to this.
const (
	SampleRate    = 16000
	NumChannels   = 1
	BitsPerSample = 16
)

const (
	framesPerBuffer  = 512
	stopPollInterval = 50 * time.Millisecond
)
