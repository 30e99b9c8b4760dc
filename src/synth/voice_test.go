package synth

import (
	"math"
	"testing"
)

func TestTriggerBakesKeyTrackedCutoff(t *testing.T) {
	p := newParams() // key tracking to filter cutoff, amount 0.5
	vp := newVoicePool(p, 2)
	v := vp.allocate(880, 1, 0.5)
	want := p.filter.cutoff * math.Pow(2, keyTrackValue(880)*0.5)
	almostEqual(t, v.cutoff.value, want)
	almostEqual(t, v.state.baseCutoff, want)
	if v.cutoff.value == p.filter.cutoff {
		t.Error("expected the baked cutoff to differ from the template")
	}
}

func TestTriggerWithoutKeyTrackKeepsTemplateCutoff(t *testing.T) {
	p := newParams()
	p.mod.keyTrack.enabled = false
	vp := newVoicePool(p, 2)
	v := vp.allocate(880, 1, 0.5)
	almostEqual(t, v.cutoff.value, p.filter.cutoff)
}

func TestTriggerNegativeKeyTrackLowersCutoff(t *testing.T) {
	p := newParams()
	p.mod.keyTrack.amount = -1
	vp := newVoicePool(p, 2)
	v := vp.allocate(880, 1, 0.5)
	want := p.filter.cutoff * math.Pow(2, -keyTrackValue(880))
	almostEqual(t, v.cutoff.value, want)
	if v.cutoff.value >= p.filter.cutoff {
		t.Error("expected a negative amount to lower the cutoff")
	}
}

func TestTriggerBakesInitialTouchAmplitude(t *testing.T) {
	p := newParams() // initial touch to amplitude, amount 1, level 0.5
	vp := newVoicePool(p, 2)
	v := vp.allocate(440, 1, 0.8)
	almostEqual(t, v.ampGain.value, 0.9) // 0.5 * (1 + 0.8)
	almostEqual(t, v.state.baseAmp, 0.9)

	v = vp.allocate(440, 2, 0)
	almostEqual(t, v.ampGain.value, 0.5)

	p.mod.touchInit.enabled = false
	v = vp.allocate(440, 3, 0.8)
	almostEqual(t, v.ampGain.value, 0.5)
}

func TestLastRoutedSourceWins(t *testing.T) {
	p := newParams()
	p.mod.keyTrack.enabled = false
	p.mod.auxEnvelope.enabled = true
	p.mod.auxEnvelope.destination = destFilterCutoff
	p.mod.auxEnvelope.amount = 2
	p.mod.auxEnvelope.adsr = &adsrParams{attack: 0, decay: 100, sustain: 1, release: 10}
	vp := newVoicePool(p, 1)
	v := vp.allocate(440, 1, 0)

	// the envelope alone drives the cutoff into the clamp
	vp.tick(controlPeriod)
	almostEqual(t, v.cutoff.value, maxCutoff)

	// the global LFO routes after the envelope and overwrites its value
	p.mod.globalLfo.enabled = true
	p.mod.globalLfo.destination = destFilterCutoff
	p.mod.globalLfo.amount = 0
	vp.tick(controlPeriod)
	almostEqual(t, v.cutoff.value, p.filter.cutoff)
}

func TestAftertouchRoutesRawDelta(t *testing.T) {
	p := newParams()
	p.mod.aftertouch.enabled = true
	p.mod.aftertouch.destination = destFMRatio
	p.mod.aftertouch.amount = 1
	vp := newVoicePool(p, 2)
	v := vp.allocate(440, 1, 0.2)
	vp.setTouch(1, 0.7)
	vp.tick(controlPeriod)
	want := v.state.baseModRatio * math.Pow(2, 0.7-0.2)
	almostEqual(t, v.modRatio.value, want)
}

func TestEnvelopeRetunesLfoWithinTheSameTick(t *testing.T) {
	p := newParams()
	p.mod.lfo.enabled = true
	p.mod.lfo.destination = destAmplitude
	p.mod.lfo.amount = 0.5
	p.mod.lfo.rate = 5
	p.mod.auxEnvelope.enabled = true
	p.mod.auxEnvelope.destination = destLfoRate
	p.mod.auxEnvelope.amount = 1
	p.mod.auxEnvelope.adsr = &adsrParams{attack: 0, decay: 100, sustain: 1, release: 10}
	vp := newVoicePool(p, 1)
	v := vp.allocate(440, 1, 0)
	vp.tick(controlPeriod)
	// the envelope doubles the rate before the LFO phase advances
	almostEqual(t, v.state.lfoRateHz, 10)
	almostEqual(t, v.state.lfoPhase, 10*controlPeriod)
}

func TestFreeRunLfoKeepsPhaseAcrossTriggers(t *testing.T) {
	p := newParams()
	p.mod.lfo.enabled = true
	p.mod.lfo.rate = 5
	vp := newVoicePool(p, 2)
	v := vp.allocate(440, 1, 0)
	tickN(vp, 10)
	almostEqual(t, v.state.lfoPhase, 0.25)

	vp.allocate(440, 1, 0)
	almostEqual(t, v.state.lfoPhase, 0.25)

	p.mod.lfo.resetMode = lfoResetRetrigger
	vp.allocate(440, 1, 0)
	almostEqual(t, v.state.lfoPhase, 0)
}

func TestFmEnvelopeMovesIndexValue(t *testing.T) {
	vp := newVoicePool(newParams(), 1)
	v := vp.allocate(440, 1, 0.5)
	base := v.state.baseModIndex
	tickN(vp, 40)
	// the rendered index, not just the ramp target, must follow the
	// envelope
	if v.modIndex.value <= base {
		t.Errorf("expected an index value above %v, but got: %v", base, v.modIndex.value)
	}
	almostEqual(t, v.modIndex.value, v.modIndex.targetValue)
}

func TestLfoMovesCutoffValue(t *testing.T) {
	p := newParams()
	p.mod.keyTrack.enabled = false
	p.mod.lfo.enabled = true
	p.mod.lfo.destination = destFilterCutoff
	p.mod.lfo.amount = 1
	p.mod.lfo.rate = 5
	vp := newVoicePool(p, 1)
	v := vp.allocate(440, 1, 0.5)
	moved := false
	for i := 0; i < 40; i++ {
		vp.tick(controlPeriod)
		if math.Abs(v.cutoff.value-v.state.baseCutoff) > 1 {
			moved = true
		}
	}
	if !moved {
		t.Error("expected the LFO to move the cutoff value away from its base")
	}
}

func TestBakedBasesSurviveModulation(t *testing.T) {
	p := newParams()
	p.mod.lfo.enabled = true
	p.mod.lfo.destination = destFilterCutoff
	p.mod.lfo.amount = 1
	vp := newVoicePool(p, 2)
	v := vp.allocate(440, 1, 0.5)
	baseCutoff := v.state.baseCutoff
	baseAmp := v.state.baseAmp
	tickN(vp, 100)
	almostEqual(t, v.state.baseCutoff, baseCutoff)
	almostEqual(t, v.state.baseAmp, baseAmp)
}

func TestRecreateOscillatorsFromBakedValues(t *testing.T) {
	vp := newVoicePool(newParams(), 2)
	v := vp.allocate(440, 1, 0.5)
	freqL := v.freqL.value
	baseIndex := v.state.baseModIndex
	tickN(vp, 20) // the FM envelope pushes the index away from its base
	if v.modIndex.value <= baseIndex {
		t.Errorf("expected a modulated index above %v, but got: %v", baseIndex, v.modIndex.value)
	}
	v.updateOscillatorsOnRecreate(waveSquare)
	if v.wave != waveSquare {
		t.Errorf("expected square, but got: %v", waveKindToString(v.wave))
	}
	almostEqual(t, v.modIndex.value, baseIndex)
	almostEqual(t, v.freqL.value, freqL)
	almostEqual(t, v.phaseL, 0)
	almostEqual(t, v.modPhaseL, 0)
}
