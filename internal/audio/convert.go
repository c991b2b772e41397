package audio

import "math"

// pcm16FromFloat converts a float sample in [-1.0, 1.0] to a 16-bit PCM
// sample. Out-of-range values clamp. Both signs scale by the positive
// maximum, so -1.0 maps to -32767 rather than the true minimum.
func pcm16FromFloat(s float32) int16 {
	if s > 1.0 {
		s = 1.0
	}
	if s < -1.0 {
		s = -1.0
	}
	return int16(s * math.MaxInt16)
}

// pcm16Buffer converts already-conforming samples with no rate or channel
// logic. Fast path for devices that natively produce mono 16 kHz.
func pcm16Buffer(in []float32) []int16 {
	out := make([]int16, len(in))
	for i, s := range in {
		out[i] = pcm16FromFloat(s)
	}
	return out
}

// downmixResample converts interleaved float samples at an arbitrary rate
// and channel count to mono 16 kHz PCM16. Frames are picked by
// nearest-neighbour at ratio srcRate/16000 and channels are averaged into
// one scalar. Adequate for speech input, not audio production. Zero
// channels or a zero rate yields an empty result.
func downmixResample(in []float32, srcRate, srcChannels int) []int16 {
	if srcChannels <= 0 || srcRate <= 0 {
		return nil
	}

	frameCount := len(in) / srcChannels
	ratio := float64(srcRate) / float64(SampleRate)
	outFrames := int(math.Ceil(float64(frameCount) / ratio))
	out := make([]int16, 0, outFrames)

	for i := 0; i < outFrames; i++ {
		src := int(float64(i) * ratio)
		if src >= frameCount {
			break
		}
		offset := src * srcChannels
		var sum float32
		for ch := 0; ch < srcChannels; ch++ {
			if offset+ch < len(in) {
				sum += in[offset+ch]
			}
		}
		out = append(out, pcm16FromFloat(sum/float32(srcChannels)))
	}

	return out
}
