package synth

// ----- Modulation Runtime State ----- //

// Ephemeral per-voice state. Never serialized; reset on every trigger
// and on pool-wide reset. The baked base values are derived from the
// unmodulated template at trigger time and continuous sources are
// always applied relative to them.
type modState struct {
	fmEnv  *adsr
	auxEnv *adsr
	gate   bool

	lfoPhase      float64 // 0..1
	lfoRateBase   float64 // re-primed from params every tick
	lfoAmountBase float64
	lfoRateHz     float64 // effective values, meta-modulation targets
	lfoAmount     float64

	initialTouchX float64 // captured once at trigger
	currentTouchX float64 // written by the input layer while held
	freq          float64
	keyTrackVal   float64

	// baked note-on values
	baseAmp      float64
	baseCutoff   float64
	baseModRatio float64
	baseModIndex float64
}

func newModState() *modState {
	return &modState{
		fmEnv:  &adsr{},
		auxEnv: &adsr{},
	}
}

func (s *modState) reset() {
	s.fmEnv.reset()
	s.auxEnv.reset()
	s.gate = false
	s.lfoPhase = 0
	s.lfoRateBase = 0
	s.lfoAmountBase = 0
	s.lfoRateHz = 0
	s.lfoAmount = 0
	s.initialTouchX = 0
	s.currentTouchX = 0
	s.freq = 0
	s.keyTrackVal = 0
	s.baseAmp = 0
	s.baseCutoff = 0
	s.baseModRatio = 0
	s.baseModIndex = 0
}

// ----- Global Modulation State ----- //

const defaultTempo = 120.0

type globalModState struct {
	phase float64 // shared LFO phase, 0..1
	tempo float64 // BPM, for tempo-synced rates
}

func newGlobalModState() *globalModState {
	return &globalModState{tempo: defaultTempo}
}

func (g *globalModState) reset() {
	g.phase = 0
	g.tempo = defaultTempo
}
