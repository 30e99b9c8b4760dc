package synth

import "testing"

func tickN(vp *voicePool, n int) {
	for i := 0; i < n; i++ {
		vp.tick(controlPeriod)
	}
}

func TestAllocateHoldsDistinctVoices(t *testing.T) {
	vp := newVoicePool(newParams(), numVoices)
	seen := map[*voice]bool{}
	for key := 0; key < numVoices; key++ {
		v := vp.allocate(noteToFreq(60+key), key, 0.5)
		if seen[v] {
			t.Fatalf("key %v got an already-bound voice", key)
		}
		seen[v] = true
	}
	if len(vp.keyToVoice) != numVoices {
		t.Errorf("expected %v mappings, but got: %v", numVoices, len(vp.keyToVoice))
	}
}

func TestAllocateSameKeyReusesVoice(t *testing.T) {
	vp := newVoicePool(newParams(), numVoices)
	v1 := vp.allocate(440, 3, 0.5)
	v2 := vp.allocate(440, 3, 0.5)
	if v1 != v2 {
		t.Error("expected the held key to keep its voice")
	}
	if len(vp.keyToVoice) != 1 {
		t.Errorf("expected 1 mapping, but got: %v", len(vp.keyToVoice))
	}
}

func TestStealTakesOldestTrigger(t *testing.T) {
	vp := newVoicePool(newParams(), numVoices)
	for key := 0; key < numVoices; key++ {
		vp.allocate(noteToFreq(60+key), key, 0.5)
	}
	// re-triggering key 0 refreshes its stamp, so key 1 is now oldest
	vp.allocate(noteToFreq(60), 0, 0.5)
	oldest := vp.keyToVoice[1]
	got := vp.allocate(noteToFreq(80), 100, 0.5)
	if got != oldest {
		t.Error("expected the voice with the oldest trigger to be stolen")
	}
	if _, ok := vp.keyToVoice[1]; ok {
		t.Error("expected the stolen voice's old key to be unmapped")
	}
	if vp.keyToVoice[100] != got {
		t.Error("expected the new key to map to the stolen voice")
	}
	if got.key != 100 {
		t.Errorf("expected key 100, but got: %v", got.key)
	}
	if len(vp.keyToVoice) != numVoices {
		t.Errorf("expected %v mappings, but got: %v", numVoices, len(vp.keyToVoice))
	}
}

func TestReleaseIsIdempotent(t *testing.T) {
	vp := newVoicePool(newParams(), 2)
	vp.release(42) // unknown key, nothing happens

	v := vp.allocate(440, 1, 0.5)
	vp.release(1)
	if v.ampEnv.stage != stageRelease {
		t.Errorf("expected release, but got: %v", v.ampEnv.stage)
	}
	if v.free {
		t.Error("expected the voice to stay busy through its release tail")
	}
	if _, ok := vp.keyToVoice[1]; ok {
		t.Error("expected the key to be unmapped on release")
	}
	vp.release(1) // second release is a no-op
	if v.ampEnv.stage != stageRelease {
		t.Errorf("expected release, but got: %v", v.ampEnv.stage)
	}

	for i := 0; i < 10000 && !v.free; i++ {
		vp.tick(controlPeriod)
	}
	if !v.free {
		t.Error("expected the voice to become free after the release tail")
	}
	if len(vp.keyToVoice) != 0 {
		t.Errorf("expected no mappings, but got: %v", len(vp.keyToVoice))
	}
}

func TestResetAllRestoresInitialState(t *testing.T) {
	p1 := newParams()
	p1.mod.lfo.enabled = true
	vp1 := newVoicePool(p1, 4)
	vp1.allocate(440, 1, 0.3)
	tickN(vp1, 50)
	vp1.allocate(660, 2, 0.9)
	tickN(vp1, 10)
	vp1.global.tempo = 90

	vp1.resetAll()

	if len(vp1.keyToVoice) != 0 {
		t.Errorf("expected no mappings, but got: %v", len(vp1.keyToVoice))
	}
	almostEqual(t, vp1.global.phase, 0)
	almostEqual(t, vp1.global.tempo, defaultTempo)
	for _, v := range vp1.voices {
		if !v.free || v.key != -1 {
			t.Errorf("voice %v not reset: free=%v key=%v", v.index, v.free, v.key)
		}
		if v.ampEnv.stage != stageIdle || v.state.gate {
			t.Errorf("voice %v gate not reset", v.index)
		}
		almostEqual(t, v.state.lfoPhase, 0)
		almostEqual(t, v.ampGain.value, 0)
		almostEqual(t, v.cutoff.value, 0)
	}

	// a note after reset bakes the same values as on a fresh pool
	p2 := newParams()
	p2.mod.lfo.enabled = true
	vp2 := newVoicePool(p2, 4)
	v1 := vp1.allocate(440, 9, 0.25)
	v2 := vp2.allocate(440, 9, 0.25)
	almostEqual(t, v1.cutoff.value, v2.cutoff.value)
	almostEqual(t, v1.ampGain.value, v2.ampGain.value)
	almostEqual(t, v1.freqL.value, v2.freqL.value)
	almostEqual(t, v1.freqR.value, v2.freqR.value)
	almostEqual(t, v1.modIndex.value, v2.modIndex.value)
	almostEqual(t, v1.modRatio.value, v2.modRatio.value)
}
