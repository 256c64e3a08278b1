package voice

import (
	"log/slog"
	"sync"
)

// PCMFormat describes little-endian int16 PCM audio.
type PCMFormat struct {
	SampleRate int
	Channels   int
}

// Normalizer converts client microphone audio to the mono format the
// transcription stream expects. Browsers capture at 44.1 or 48 kHz, often in
// stereo, while the speech providers want 16 kHz mono.
//
// Create one per connection; not designed for shared use across goroutines.
type Normalizer struct {
	src        PCMFormat
	targetRate int

	warnedMismatch sync.Once
	warnedCorrupt  sync.Once
}

// NewNormalizer creates a normalizer converting from src to mono audio at
// targetRate.
func NewNormalizer(src PCMFormat, targetRate int) *Normalizer {
	return &Normalizer{src: src, targetRate: targetRate}
}

// Normalize converts one chunk of PCM. When the source already matches the
// target format the input is returned unchanged. Chunks with an odd byte
// count are not valid int16 PCM and come back nil.
func (n *Normalizer) Normalize(pcm []byte) []byte {
	if len(pcm)%2 != 0 {
		n.warnedCorrupt.Do(func() {
			slog.Warn("dropping misaligned PCM chunk",
				"bytes", len(pcm),
				"sample_rate", n.src.SampleRate,
				"channels", n.src.Channels,
			)
		})
		return nil
	}

	if n.src.Channels == 1 && n.src.SampleRate == n.targetRate {
		return pcm
	}

	n.warnedMismatch.Do(func() {
		slog.Debug("converting client audio",
			"from_rate", n.src.SampleRate,
			"from_channels", n.src.Channels,
			"to_rate", n.targetRate,
		)
	})

	// Downmix before resampling so the interpolation only runs on one channel.
	if n.src.Channels == 2 {
		pcm = stereoToMono(pcm)
	}
	return resampleMono16(pcm, n.src.SampleRate, n.targetRate)
}

// stereoToMono averages L+R per stereo frame (4 bytes) to produce mono
// output. Uses int32 arithmetic to prevent overflow and clamps to int16
// range.
func stereoToMono(pcm []byte) []byte {
	frames := len(pcm) / 4
	out := make([]byte, frames*2)
	for i := range frames {
		l := int32(int16(pcm[i*4]) | int16(pcm[i*4+1])<<8)
		r := int32(int16(pcm[i*4+2]) | int16(pcm[i*4+3])<<8)
		avg := (l + r) / 2

		if avg > 32767 {
			avg = 32767
		} else if avg < -32768 {
			avg = -32768
		}

		out[i*2] = byte(avg)
		out[i*2+1] = byte(avg >> 8)
	}
	return out
}

// resampleMono16 resamples 16-bit mono PCM from srcRate to dstRate using
// linear interpolation. If srcRate == dstRate, the input is returned
// unchanged.
func resampleMono16(pcm []byte, srcRate, dstRate int) []byte {
	if srcRate <= 0 || dstRate <= 0 {
		return pcm
	}
	if srcRate == dstRate || len(pcm) < 2 {
		return pcm
	}
	srcSamples := len(pcm) / 2
	dstSamples := int(int64(srcSamples) * int64(dstRate) / int64(srcRate))
	if dstSamples == 0 {
		return nil
	}

	out := make([]byte, dstSamples*2)
	ratio := float64(srcRate) / float64(dstRate)

	for i := range dstSamples {
		srcPos := float64(i) * ratio
		srcIdx := int(srcPos)
		frac := srcPos - float64(srcIdx)

		s0 := int16(pcm[srcIdx*2]) | int16(pcm[srcIdx*2+1])<<8
		s1 := s0
		if srcIdx+1 < srcSamples {
			s1 = int16(pcm[(srcIdx+1)*2]) | int16(pcm[(srcIdx+1)*2+1])<<8
		}

		v := int16(float64(s0)*(1-frac) + float64(s1)*frac)
		out[i*2] = byte(v)
		out[i*2+1] = byte(v >> 8)
	}
	return out
}
