package synth

import "math"

// ----- Voice ----- //

const fmIndexRange = 10.0 // modLevel 1.0 -> modulation index 10

// One sound-producing unit: a detuned carrier pair, one filter, one
// amplitude envelope, one modulation parameter set and its runtime
// state. Allocated once at pool construction; only state is reset.
type voice struct {
	index  int
	params *params
	state  *modState
	ampEnv *adsr

	key          int // bound key index, -1 when unbound
	triggerStamp int64
	free         bool

	// audio parameter block, read by the render backend
	ampGain  *transitiveValue
	freqL    *transitiveValue
	freqR    *transitiveValue
	modRatio *transitiveValue
	modIndex *transitiveValue
	cutoff   *transitiveValue
	wave     int
	spread   float64

	// render state
	phaseL    float64
	phaseR    float64
	modPhaseL float64
	modPhaseR float64
	filterL   *voiceFilter
	filterR   *voiceFilter
}

func newVoice(index int, p *params) *voice {
	return &voice{
		index:    index,
		params:   p,
		state:    newModState(),
		ampEnv:   &adsr{},
		key:      -1,
		free:     true,
		ampGain:  newTransitiveValue(),
		freqL:    newTransitiveValue(),
		freqR:    newTransitiveValue(),
		modRatio: newTransitiveValue(),
		modIndex: newTransitiveValue(),
		cutoff:   newTransitiveValue(),
		spread:   1,
		filterL:  newVoiceFilter(),
		filterR:  newVoiceFilter(),
	}
}

func (v *voice) noteFreq() float64 {
	return v.state.freq
}

// setCarrierFreqs writes the stereo oscillator frequencies derived
// from the given note frequency, the carrier ratio and the detune
// spread. Immediate writes are used at note-on, ramped ones per tick.
func (v *voice) setCarrierFreqs(noteFreq float64, immediate bool) {
	p := v.params.osc
	f := noteFreq * p.carrierRatio
	cents := 0.0
	if p.detuneMode == detuneStereo {
		cents = p.detune * v.spread
	}
	ratio := math.Pow(2, cents/1200/2)
	fL := clamp(f/ratio, minOscFreq, maxOscFreq)
	fR := clamp(f*ratio, minOscFreq, maxOscFreq)
	if immediate {
		v.freqL.init(fL)
		v.freqR.init(fR)
	} else {
		v.freqL.linear(rampTimeMs, fL)
		v.freqR.linear(rampTimeMs, fR)
	}
}

// trigger starts a note. The ordering is load-bearing: key-tracking
// and initial-touch values are computed and applied to the audio
// parameters with zero transition time before the envelope gate
// opens, so the first rendered sample already reflects them.
func (v *voice) trigger(freq float64, initialTouchX float64, stamp int64) {
	p := v.params

	// 1. reset runtime state, keeping the LFO phase in free-run mode
	lfoPhase := v.state.lfoPhase
	v.state.reset()
	if p.mod.lfo.resetMode == lfoResetFree {
		v.state.lfoPhase = lfoPhase
	}
	v.ampEnv.reset()
	v.ampEnv.setParams(p.amp)
	v.state.fmEnv.setParams(p.mod.fmEnvelope.adsr)
	v.state.auxEnv.setParams(p.mod.auxEnvelope.adsr)
	v.state.freq = clamp(freq, minOscFreq, maxOscFreq)

	// 2. key tracking, baked exactly once
	v.state.keyTrackVal = keyTrackValue(v.state.freq)
	v.state.baseCutoff = p.filter.cutoff
	if kt := p.mod.keyTrack; kt.enabled && kt.destination == destFilterCutoff {
		cutoff := p.filter.cutoff * math.Pow(2, v.state.keyTrackVal*kt.amount)
		v.state.baseCutoff = clamp(cutoff, minCutoff, maxCutoff)
	}

	// 3. initial touch, baked exactly once
	v.state.initialTouchX = clamp(initialTouchX, 0, 1)
	v.state.currentTouchX = v.state.initialTouchX
	v.state.baseAmp = p.osc.level
	if ti := p.mod.touchInit; ti.enabled && ti.destination == destAmplitude {
		amp := p.osc.level * (1 + routeUnipolar(v.state.initialTouchX, ti.amount))
		v.state.baseAmp = clamp(amp, 0, 1)
	}
	v.state.baseModRatio = p.osc.modRatio()
	v.state.baseModIndex = p.osc.modLevel * fmIndexRange

	// 4. zero-ramp writes of all baked values
	v.wave = p.osc.wave
	v.spread = 1
	v.ampGain.init(v.state.baseAmp)
	v.cutoff.init(v.state.baseCutoff)
	v.modRatio.init(v.state.baseModRatio)
	v.modIndex.init(v.state.baseModIndex)
	v.setCarrierFreqs(v.state.freq, true)

	// 5. the gate opens only after the bake is complete
	v.state.gate = true
	v.state.fmEnv.gateOpen()
	v.state.auxEnv.gateOpen()
	v.ampEnv.gateOpen()
	v.triggerStamp = stamp
	v.free = false
}

// release closes the gate. Touch and LFO state stay intact until the
// next trigger or a pool-wide reset.
func (v *voice) release() {
	v.state.gate = false
	v.ampEnv.gateClose()
	v.state.fmEnv.gateClose()
	v.state.auxEnv.gateClose()
}

// applyModulation advances the per-voice envelopes and LFO and routes
// every enabled source in a fixed order. A later source targeting the
// same destination overwrites an earlier one.
func (v *voice) applyModulation(globalLFOValue float64, tempo float64, deltaTime float64) {
	p := v.params.mod
	s := v.state

	s.fmEnv.step(deltaTime)
	s.auxEnv.step(deltaTime)
	s.lfoRateBase = p.lfo.rateHz(tempo)
	s.lfoAmountBase = p.lfo.amount
	s.lfoRateHz = s.lfoRateBase
	s.lfoAmount = s.lfoAmountBase

	// (1) FM index envelope, hardwired
	if p.fmEnvelope.enabled {
		route(v, destFMIndex, routeUnipolar(s.fmEnv.value, p.fmEnvelope.amount))
	}
	// (2) auxiliary envelope; may retune the LFO before it is evaluated
	if p.auxEnvelope.enabled {
		route(v, p.auxEnvelope.destination, routeUnipolar(s.auxEnv.value, p.auxEnvelope.amount))
	}
	// (3) voice LFO
	if p.lfo.enabled {
		s.lfoPhase = positiveMod(s.lfoPhase+s.lfoRateHz*deltaTime, 1)
		value := voiceLFOValue(p.lfo.voiceWave(), s.lfoPhase)
		route(v, p.lfo.destination, routeBipolar(value, s.lfoAmount))
	}
	// (4) global LFO
	if p.globalLfo.enabled {
		route(v, p.globalLfo.destination, routeBipolar(globalLFOValue, p.globalLfo.amount))
	}
	// (5) initial touch: baked into baseAmp at trigger when aimed at
	// amplitude; routed from the captured position otherwise
	if p.touchInit.enabled && p.touchInit.destination != destAmplitude {
		route(v, p.touchInit.destination, routeUnipolar(s.initialTouchX, p.touchInit.amount))
	}
	// (6) aftertouch, raw linear delta from the initial position
	if p.aftertouch.enabled {
		delta := clamp(s.currentTouchX-s.initialTouchX, -1, 1)
		route(v, p.aftertouch.destination, routeBipolar(delta, p.aftertouch.amount))
	}
	// (7) key tracking: baked into baseCutoff at trigger when aimed at
	// the filter; routed from the value stored at trigger otherwise
	if p.keyTrack.enabled && p.keyTrack.destination != destFilterCutoff {
		route(v, p.keyTrack.destination, routeUnipolar(s.keyTrackVal, p.keyTrack.amount))
	}

	v.ampEnv.step(deltaTime)
	v.stepRamps(deltaTime)
	if !s.gate && v.ampEnv.stage == stageIdle {
		v.free = true
	}
}

func (v *voice) stepRamps(deltaTime float64) {
	v.ampGain.step(deltaTime)
	v.freqL.step(deltaTime)
	v.freqR.step(deltaTime)
	v.modRatio.step(deltaTime)
	v.modIndex.step(deltaTime)
	v.cutoff.step(deltaTime)
}

// updateOscillatorsOnRecreate rebuilds the oscillators for a new
// waveform from the baked note-on values, never from the possibly
// modulated current outputs, so waveform changes do not accumulate
// drift.
func (v *voice) updateOscillatorsOnRecreate(wave int) {
	v.wave = wave
	v.phaseL = 0
	v.phaseR = 0
	v.modPhaseL = 0
	v.modPhaseR = 0
	v.ampGain.init(v.state.baseAmp)
	v.modRatio.init(v.state.baseModRatio)
	v.modIndex.init(v.state.baseModIndex)
	v.cutoff.init(v.state.baseCutoff)
	v.setCarrierFreqs(v.state.freq, true)
}

func (v *voice) resetState() {
	v.state.reset()
	v.ampEnv.reset()
	v.key = -1
	v.triggerStamp = 0
	v.free = true
	v.wave = v.params.osc.wave
	v.spread = 1
	v.phaseL = 0
	v.phaseR = 0
	v.modPhaseL = 0
	v.modPhaseR = 0
	v.ampGain.init(0)
	v.freqL.init(0)
	v.freqR.init(0)
	v.modRatio.init(0)
	v.modIndex.init(0)
	v.cutoff.init(0)
	v.filterL.reset()
	v.filterR.reset()
}
