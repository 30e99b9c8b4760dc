package synth

import "math"

// ----- Transition Kind ----- //

const (
	transitionNone = iota
	transitionLinear
	transitionExponential
)

// ----- Transitive Value ----- //

// An audio parameter value with an optional ramp toward a target.
// init() writes immediately (note-on bakes); linear()/exponential()
// ramp over the given duration (per-tick modulation).
type transitiveValue struct {
	kind         int
	duration     float64 // ms
	endThreshold float64
	initialValue float64
	targetValue  float64
	value        float64
	pos          float64 // seconds since the transition began
}

func newTransitiveValue() *transitiveValue {
	return &transitiveValue{}
}

func (tv *transitiveValue) init(value float64) {
	tv.kind = transitionNone
	tv.duration = 0
	tv.endThreshold = 0
	tv.initialValue = 0
	tv.targetValue = 0
	tv.value = value
	tv.pos = 0
}

func (tv *transitiveValue) linear(duration float64, targetValue float64) {
	tv.kind = transitionLinear
	tv.duration = duration
	tv.endThreshold = 0
	tv.pos = 0
	tv.initialValue = tv.value
	tv.targetValue = targetValue
}
func (tv *transitiveValue) exponential(duration float64, targetValue float64, endThreshold float64) {
	tv.kind = transitionExponential
	tv.duration = duration
	tv.endThreshold = endThreshold
	tv.pos = 0
	tv.initialValue = tv.value
	tv.targetValue = targetValue
}
// step advances the transition by deltaTime. The position moves before
// the value is evaluated, so a ramp whose duration equals deltaTime
// lands on its target within a single step even when the transition is
// restarted every step.
func (tv *transitiveValue) step(deltaTime float64) bool {
	ended := false
	switch tv.kind {
	case transitionLinear:
		tv.pos += deltaTime
		phaseTime := tv.pos * 1000 // ms
		if phaseTime >= tv.duration {
			tv.end()
			ended = true
		} else {
			t := phaseTime / tv.duration
			tv.value = t*tv.targetValue + (1-t)*tv.initialValue
		}
	case transitionExponential:
		tv.pos += deltaTime
		phaseTime := tv.pos * 1000 // ms
		t := phaseTime / tv.duration
		tv.value = setTargetAtTime(tv.initialValue, tv.targetValue, t)
		if math.Abs(tv.value-tv.targetValue) < tv.endThreshold {
			tv.end()
			ended = true
		}
	case transitionNone:

	}
	return ended
}
func (tv *transitiveValue) end() {
	tv.kind = transitionNone
	tv.value = tv.targetValue
	tv.pos = 0
}
