package synth

import (
	"math"
	"testing"
)

func almostEqual(t *testing.T, got float64, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("expected %v, but got: %v", want, got)
	}
}

func TestVoiceLFOStartsAtBase(t *testing.T) {
	// every selectable shape starts at 0 so modulation opens at the
	// unmodulated base value
	for _, kind := range []int{waveSine, waveTriangle, waveSquare, waveSaw} {
		almostEqual(t, voiceLFOValue(kind, 0), 0)
	}
}

func TestVoiceLFOTriangleIsPhaseAligned(t *testing.T) {
	almostEqual(t, voiceLFOValue(waveTriangle, 0.25), 1)
	almostEqual(t, voiceLFOValue(waveTriangle, 0.5), 0)
	almostEqual(t, voiceLFOValue(waveTriangle, 0.75), -1)
}

func TestVoiceLFOSharpShapesAreUnipolar(t *testing.T) {
	for p := 0.0; p < 1.0; p += 0.01 {
		for _, kind := range []int{waveSquare, waveSaw} {
			v := voiceLFOValue(kind, p)
			if v < 0 || v > 2 {
				t.Errorf("expected %v at phase %v in [0,2], but got: %v", waveKindToString(kind), p, v)
			}
		}
	}
	almostEqual(t, voiceLFOValue(waveSquare, 0.75), 2)
	almostEqual(t, voiceLFOValue(waveSaw, 0.5), 1)
}

func TestVoiceLFOSawRevFallsBackToSaw(t *testing.T) {
	l := newLfoParams()
	l.wave = waveSawRev
	if l.voiceWave() != waveSaw {
		t.Errorf("expected saw, but got: %v", waveKindToString(l.voiceWave()))
	}
}

func TestGlobalLFOIsBipolar(t *testing.T) {
	kinds := []int{waveSine, waveTriangle, waveSquare, waveSaw, waveSawRev}
	for _, kind := range kinds {
		for p := 0.0; p < 1.0; p += 0.01 {
			v := globalLFOValue(kind, p)
			if v < -1 || v > 1 {
				t.Errorf("expected %v at phase %v in [-1,1], but got: %v", waveKindToString(kind), p, v)
			}
		}
	}
	almostEqual(t, globalLFOValue(waveSawRev, 0), 1)
	almostEqual(t, globalLFOValue(waveSaw, 0), -1)
}

func TestKeyTrackValue(t *testing.T) {
	almostEqual(t, keyTrackValue(440), 0.5)
	almostEqual(t, keyTrackValue(27.5), 0)
	almostEqual(t, keyTrackValue(7040), 1)
	// out-of-range frequencies clamp rather than fail
	almostEqual(t, keyTrackValue(10), 0)
	almostEqual(t, keyTrackValue(20000), 1)
	almostEqual(t, keyTrackValue(0), 0)
}

func TestLfoRateHz(t *testing.T) {
	l := newLfoParams()
	l.rate = 5
	almostEqual(t, l.rateHz(120), 5)
	l.freqMode = lfoFreqTempo
	l.rate = 1 // one cycle per beat
	almostEqual(t, l.rateHz(120), 2)
	almostEqual(t, l.rateHz(60), 1)
}
