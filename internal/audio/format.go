package audio

import "github.com/gordonklaus/portaudio"

// negotiatedFormat is the stream configuration chosen for one session:
// either the target format directly, or the device's own configuration with
// conversion deferred to downmixResample.
type negotiatedFormat struct {
	params          portaudio.StreamParameters
	sampleRate      int
	channels        int
	needsConversion bool
}

// captureCallback is the data callback signature the runner installs.
// Format probes use the same signature so they test the stream that will
// actually be opened.
type captureCallback func(in []float32)

// negotiateFormat decides whether dev can produce mono 16 kHz natively.
// When the probe reports no support, the device's default sample rate and
// maximum input channel count are used and the callback converts on the
// fly. A device with unusable metadata gets the target format anyway so
// that stream construction fails loudly instead of silently succeeding.
func negotiateFormat(dev *portaudio.DeviceInfo) negotiatedFormat {
	direct := negotiatedFormat{
		params: portaudio.StreamParameters{
			Input: portaudio.StreamDeviceParameters{
				Device:   dev,
				Channels: NumChannels,
				Latency:  dev.DefaultLowInputLatency,
			},
			SampleRate:      float64(SampleRate),
			FramesPerBuffer: framesPerBuffer,
		},
		sampleRate: SampleRate,
		channels:   NumChannels,
	}

	if err := portaudio.IsFormatSupported(direct.params, captureCallback(nil)); err == nil {
		return direct
	}
	if dev.DefaultSampleRate <= 0 || dev.MaxInputChannels <= 0 {
		return direct
	}

	return negotiatedFormat{
		params: portaudio.StreamParameters{
			Input: portaudio.StreamDeviceParameters{
				Device:   dev,
				Channels: dev.MaxInputChannels,
				Latency:  dev.DefaultLowInputLatency,
			},
			SampleRate:      dev.DefaultSampleRate,
			FramesPerBuffer: framesPerBuffer,
		},
		sampleRate:      int(dev.DefaultSampleRate),
		channels:        dev.MaxInputChannels,
		needsConversion: true,
	}
}
