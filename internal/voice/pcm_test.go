package voice_test

import (
	"testing"

	"github.com/akwaba-labs/djobi/internal/voice"
)

// pcm16 encodes int16 samples as little-endian bytes.
func pcm16(samples ...int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		out[i*2] = byte(s)
		out[i*2+1] = byte(s >> 8)
	}
	return out
}

func sampleAt(pcm []byte, i int) int16 {
	return int16(pcm[i*2]) | int16(pcm[i*2+1])<<8
}

func TestNormalizePassThrough(t *testing.T) {
	t.Parallel()

	n := voice.NewNormalizer(voice.PCMFormat{SampleRate: 16000, Channels: 1}, 16000)
	in := pcm16(100, -200, 300)
	out := n.Normalize(in)

	if &out[0] != &in[0] {
		t.Error("Normalize: matching format should return the input unchanged")
	}
}

func TestNormalizeStereoDownmix(t *testing.T) {
	t.Parallel()

	n := voice.NewNormalizer(voice.PCMFormat{SampleRate: 16000, Channels: 2}, 16000)

	// Two stereo frames: (100, 200) and (-1000, -2000).
	out := n.Normalize(pcm16(100, 200, -1000, -2000))

	if len(out) != 4 {
		t.Fatalf("Normalize: expected 2 mono samples (4 bytes), got %d bytes", len(out))
	}
	if got := sampleAt(out, 0); got != 150 {
		t.Errorf("Normalize: first sample = %d, want 150", got)
	}
	if got := sampleAt(out, 1); got != -1500 {
		t.Errorf("Normalize: second sample = %d, want -1500", got)
	}
}

func TestNormalizeDownmixClampsOverflow(t *testing.T) {
	t.Parallel()

	n := voice.NewNormalizer(voice.PCMFormat{SampleRate: 16000, Channels: 2}, 16000)

	out := n.Normalize(pcm16(32767, 32767))
	if got := sampleAt(out, 0); got != 32767 {
		t.Errorf("Normalize: expected clamp at 32767, got %d", got)
	}
}

func TestNormalizeResamplesRate(t *testing.T) {
	t.Parallel()

	n := voice.NewNormalizer(voice.PCMFormat{SampleRate: 48000, Channels: 1}, 16000)

	// 48 constant-value samples at 48 kHz are one millisecond of audio and
	// should come out as 16 samples of the same value.
	samples := make([]int16, 48)
	for i := range samples {
		samples[i] = 1000
	}
	out := n.Normalize(pcm16(samples...))

	if len(out) != 16*2 {
		t.Fatalf("Normalize: expected 16 samples, got %d", len(out)/2)
	}
	for i := range 16 {
		if got := sampleAt(out, i); got != 1000 {
			t.Fatalf("Normalize: sample %d = %d, want 1000 (constant signal)", i, got)
		}
	}
}

func TestNormalizeStereoHighRateToMonoLow(t *testing.T) {
	t.Parallel()

	n := voice.NewNormalizer(voice.PCMFormat{SampleRate: 48000, Channels: 2}, 16000)

	samples := make([]int16, 96) // 48 stereo frames
	for i := range samples {
		samples[i] = 500
	}
	out := n.Normalize(pcm16(samples...))

	if len(out) != 16*2 {
		t.Fatalf("Normalize: expected 16 mono samples, got %d", len(out)/2)
	}
	if got := sampleAt(out, 8); got != 500 {
		t.Errorf("Normalize: sample 8 = %d, want 500", got)
	}
}

func TestNormalizeDropsMisalignedChunk(t *testing.T) {
	t.Parallel()

	n := voice.NewNormalizer(voice.PCMFormat{SampleRate: 48000, Channels: 1}, 16000)

	if out := n.Normalize([]byte{0x01, 0x02, 0x03}); out != nil {
		t.Errorf("Normalize: expected nil for odd byte count, got %d bytes", len(out))
	}
}
