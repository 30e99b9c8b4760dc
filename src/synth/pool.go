package synth

// ----- Voice Pool ----- //

// A fixed pool of voices, a key->voice map and the shared modulation
// state. Callers hold the engine lock for every operation, so a
// trigger or resetAll is never observed half-done by the control tick.
type voicePool struct {
	voices     []*voice
	keyToVoice map[int]*voice
	global     *globalModState
	params     *params
	stampSeq   int64
}

func newVoicePool(p *params, size int) *voicePool {
	voices := make([]*voice, size)
	for i := 0; i < len(voices); i++ {
		voices[i] = newVoice(i, p)
	}
	return &voicePool{
		voices:     voices,
		keyToVoice: make(map[int]*voice, size),
		global:     newGlobalModState(),
		params:     p,
	}
}

// allocate returns a free voice, or steals the voice with the oldest
// trigger stamp when the pool is exhausted. The stolen voice's former
// key mapping is removed together with the reassignment.
func (vp *voicePool) allocate(freq float64, key int, initialTouchX float64) *voice {
	v, ok := vp.keyToVoice[key]
	if !ok {
		v = vp.findFree()
		if v == nil {
			v = vp.steal()
		}
		vp.keyToVoice[key] = v
		v.key = key
	}
	vp.stampSeq++
	v.trigger(freq, initialTouchX, vp.stampSeq)
	return v
}

func (vp *voicePool) findFree() *voice {
	for _, v := range vp.voices {
		if v.free {
			return v
		}
	}
	return nil
}

func (vp *voicePool) steal() *voice {
	var oldest *voice
	for _, v := range vp.voices {
		if v.free {
			continue
		}
		if oldest == nil || v.triggerStamp < oldest.triggerStamp {
			oldest = v
		}
	}
	if oldest.key >= 0 {
		delete(vp.keyToVoice, oldest.key)
		oldest.key = -1
	}
	return oldest
}

// release closes the mapped voice's gate and removes the mapping.
// The voice stays busy through its release tail. Unmapped keys are a
// no-op: UI and audio timing can race harmlessly.
func (vp *voicePool) release(key int) {
	v, ok := vp.keyToVoice[key]
	if !ok {
		return
	}
	v.release()
	delete(vp.keyToVoice, key)
	v.key = -1
}

// setTouch updates the held note's touch position; it is picked up on
// the next control tick.
func (vp *voicePool) setTouch(key int, x float64) {
	v, ok := vp.keyToVoice[key]
	if !ok {
		return
	}
	v.state.currentTouchX = clamp(x, 0, 1)
}

// resetAll zeroes every voice's runtime state and the global state.
// Used before applying a preset; partial resets are not permitted.
func (vp *voicePool) resetAll() {
	for _, v := range vp.voices {
		v.resetState()
	}
	for key := range vp.keyToVoice {
		delete(vp.keyToVoice, key)
	}
	vp.global.reset()
}

// tick advances the shared LFO and applies modulation to every
// sounding voice. Voices whose envelope reached idle become free and
// lose their key mapping.
func (vp *voicePool) tick(deltaTime float64) {
	gl := vp.params.mod.globalLfo
	vp.global.phase = positiveMod(vp.global.phase+gl.rateHz(vp.global.tempo)*deltaTime, 1)
	globalValue := globalLFOValue(gl.wave, vp.global.phase)
	for _, v := range vp.voices {
		if v.free {
			continue
		}
		v.applyModulation(globalValue, vp.global.tempo, deltaTime)
		if v.free && v.key >= 0 {
			if vp.keyToVoice[v.key] == v {
				delete(vp.keyToVoice, v.key)
			}
			v.key = -1
		}
	}
}
