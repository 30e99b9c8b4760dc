package synth

import "math"

// ----- Destination ----- //

const (
	destNone = iota
	destAmplitude
	destFilterCutoff
	destFMIndex
	destFMRatio
	destOscFreq
	destSpread
	destLfoRate
	destLfoAmount
)

func destinationFromString(s string) int {
	switch s {
	case "amplitude":
		return destAmplitude
	case "filter_cutoff":
		return destFilterCutoff
	case "fm_index":
		return destFMIndex
	case "fm_ratio":
		return destFMRatio
	case "osc_freq":
		return destOscFreq
	case "spread":
		return destSpread
	case "lfo_rate":
		return destLfoRate
	case "lfo_amount":
		return destLfoAmount
	}
	return destNone
}
func destinationToString(d int) string {
	switch d {
	case destAmplitude:
		return "amplitude"
	case destFilterCutoff:
		return "filter_cutoff"
	case destFMIndex:
		return "fm_index"
	case destFMRatio:
		return "fm_ratio"
	case destOscFreq:
		return "osc_freq"
	case destSpread:
		return "spread"
	case destLfoRate:
		return "lfo_rate"
	case destLfoAmount:
		return "lfo_amount"
	}
	return "none"
}

// ----- Destination Dispatch ----- //

const (
	minCutoff        = 20.0
	maxCutoff        = 22050.0
	minOscFreq       = 20.0
	maxOscFreq       = 20000.0
	maxModIndexValue = 20.0
	maxLfoRateHz     = 40.0
	cutoffModOctaves = 4.0 // full-scale modulation sweeps +-4 octaves
)

type destEntry struct {
	getBase func(v *voice) float64
	apply   func(v *voice, base float64, mod float64)
}

// apply receives the baked base from getBase, never the previous
// writer's output, so a later source in the routing order overwrites
// an earlier one targeting the same destination. The gain uses an
// exponential approach, everything else a one-tick linear ramp.
var destTable = map[int]destEntry{
	destAmplitude: {
		getBase: func(v *voice) float64 { return v.state.baseAmp },
		apply: func(v *voice, base float64, mod float64) {
			v.ampGain.exponential(rampTimeMs, clamp(base*(1+mod), 0, 1), 0.001)
		},
	},
	destFilterCutoff: {
		getBase: func(v *voice) float64 { return v.state.baseCutoff },
		apply: func(v *voice, base float64, mod float64) {
			value := base * math.Pow(2, mod*cutoffModOctaves)
			v.cutoff.linear(rampTimeMs, clamp(value, minCutoff, maxCutoff))
		},
	},
	destFMIndex: {
		getBase: func(v *voice) float64 { return v.state.baseModIndex },
		apply: func(v *voice, base float64, mod float64) {
			v.modIndex.linear(rampTimeMs, clamp(base*(1+mod), 0, maxModIndexValue))
		},
	},
	destFMRatio: {
		getBase: func(v *voice) float64 { return v.state.baseModRatio },
		apply: func(v *voice, base float64, mod float64) {
			v.modRatio.linear(rampTimeMs, clamp(base*math.Pow(2, mod), 0.1, 16))
		},
	},
	destOscFreq: {
		getBase: func(v *voice) float64 { return v.state.freq },
		apply: func(v *voice, base float64, mod float64) {
			value := clamp(base*math.Pow(2, mod), minOscFreq, maxOscFreq)
			v.setCarrierFreqs(value, false)
		},
	},
	destSpread: {
		getBase: func(v *voice) float64 { return 1.0 },
		apply: func(v *voice, base float64, mod float64) {
			v.spread = clamp(base+mod, 0, 2)
			v.setCarrierFreqs(v.noteFreq(), false)
		},
	},
	destLfoRate: {
		getBase: func(v *voice) float64 { return v.state.lfoRateBase },
		apply: func(v *voice, base float64, mod float64) {
			v.state.lfoRateHz = clamp(base*math.Pow(2, mod), 0, maxLfoRateHz)
		},
	},
	destLfoAmount: {
		getBase: func(v *voice) float64 { return v.state.lfoAmountBase },
		apply: func(v *voice, base float64, mod float64) {
			v.state.lfoAmount = clamp(base*(1+mod), 0, 4)
		},
	},
}
