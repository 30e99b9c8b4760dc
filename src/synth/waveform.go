package synth

import "math"

// ----- Wave Kind ----- //

const (
	waveNone = iota
	waveSine
	waveTriangle
	waveSquare
	waveSaw
	waveSawRev
)

func waveKindFromString(s string) int {
	switch s {
	case "sine":
		return waveSine
	case "triangle":
		return waveTriangle
	case "square":
		return waveSquare
	case "saw":
		return waveSaw
	case "saw-rev":
		return waveSawRev
	}
	return waveNone
}
func waveKindToString(kind int) string {
	switch kind {
	case waveSine:
		return "sine"
	case waveTriangle:
		return "triangle"
	case waveSquare:
		return "square"
	case waveSaw:
		return "saw"
	case waveSawRev:
		return "saw-rev"
	}
	return "none"
}

// ----- Voice LFO Waveforms ----- //

// Smooth shapes are bipolar in [-1,1] and start at 0 so vibrato opens
// centered; the triangle is shifted a quarter cycle for that reason.
// Sharp shapes are unipolar in [0,2] and start at their minimum so
// stepped modulation begins at the unmodulated base value.
// saw-rev has no start-at-base unipolar form and is mapped to saw.
func voiceLFOValue(kind int, phase float64) float64 {
	p := positiveMod(phase, 1)
	switch kind {
	case waveSine:
		return math.Sin(2 * math.Pi * p)
	case waveTriangle:
		if p < 0.25 {
			return p * 4
		}
		if p < 0.75 {
			return 2 - p*4
		}
		return p*4 - 4
	case waveSquare:
		if p < 0.5 {
			return 0
		}
		return 2
	case waveSaw, waveSawRev:
		return p * 2
	}
	return 0
}

// The shared LFO is bipolar for every shape.
func globalLFOValue(kind int, phase float64) float64 {
	p := positiveMod(phase, 1)
	switch kind {
	case waveSine:
		return math.Sin(2 * math.Pi * p)
	case waveTriangle:
		if p < 0.5 {
			return p*4 - 1
		}
		return p*(-4) + 3
	case waveSquare:
		if p < 0.5 {
			return 1
		}
		return -1
	case waveSaw:
		return p*2 - 1
	case waveSawRev:
		return p*(-2) + 1
	}
	return 0
}

// ----- Key Tracking ----- //

const (
	keyTrackLowFreq = 27.5 // A0
	keyTrackOctaves = 8.0  // up to A8 (7040 Hz); 440 Hz lands on 0.5
)

func keyTrackValue(freq float64) float64 {
	if freq <= 0 {
		return 0
	}
	v := math.Log2(freq/keyTrackLowFreq) / keyTrackOctaves
	return clamp(v, 0, 1)
}

// ----- Utility ----- //

func positiveMod(a float64, b float64) float64 {
	if b < 0 {
		panic("b should not be negative")
	}
	for a < 0 {
		a += b
	}
	return math.Mod(a, b)
}

func clamp(v float64, min float64, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
