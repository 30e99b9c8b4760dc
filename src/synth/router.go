package synth

// ----- Modulation Router ----- //

// Unipolar sources (envelopes, key tracking, initial touch) rise from
// a floor; the amount may be negative to invert the direction.
func routeUnipolar(value float64, amount float64) float64 {
	return clamp(value, 0, 1) * amount
}

// Bipolar sources (LFOs, aftertouch) deviate around a center; the
// amount is non-negative and scales the deviation symmetrically.
// The hybrid sharp LFO shapes feed values in [0,2] through the same
// path so stepped modulation starts at the unmodulated base.
func routeBipolar(value float64, amount float64) float64 {
	if amount < 0 {
		amount = 0
	}
	return value * amount
}

// route sends one source value to its destination. The base is looked
// up fresh for every write: no summing across sources.
func route(v *voice, destination int, mod float64) {
	e, ok := destTable[destination]
	if !ok {
		return
	}
	e.apply(v, e.getBase(v), mod)
}
