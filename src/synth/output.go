package synth

import (
	"context"
	"io"
	"log"
	"math"

	"github.com/hajimehoshi/oto"
)

// ----- Voice Filter ----- //

// One resonant lowpass per channel, recalculated when the modulated
// cutoff moves.
type voiceFilter struct {
	a          []float64 // feedforward
	b          []float64 // feedback
	past       []float64
	lastCutoff float64
	lastQ      float64
}

func newVoiceFilter() *voiceFilter {
	return &voiceFilter{past: make([]float64, 2)}
}

func (f *voiceFilter) reset() {
	f.a = nil
	f.b = nil
	f.past[0] = 0
	f.past[1] = 0
	f.lastCutoff = 0
	f.lastQ = 0
}

func (f *voiceFilter) step(in float64, cutoff float64, q float64) float64 {
	if f.a == nil || cutoff != f.lastCutoff || q != f.lastQ {
		f.a, f.b = makeBiquadLowpassH(cutoff/sampleRate, q)
		f.lastCutoff = cutoff
		f.lastQ = q
	}
	return processFilterEach(in, f.a, f.b, f.past)
}

func makeBiquadLowpassH(fc float64, q float64) ([]float64, []float64) {
	// from RBJ's cookbook
	w0 := 2 * math.Pi * fc
	alpha := math.Sin(w0) / (2 * q)
	b0 := (1 - math.Cos(w0)) / 2
	b1 := (1 - math.Cos(w0))
	b2 := (1 - math.Cos(w0)) / 2
	a0 := 1 + alpha
	a1 := -2 * math.Cos(w0)
	a2 := 1 - alpha
	return []float64{b0 / a0, b1 / a0, b2 / a0}, []float64{a1 / a0, a2 / a0}
}

func processFilterEach(in float64, a []float64, b []float64, past []float64) float64 {
	// apply b
	for j := 0; j < len(b); j++ {
		in -= past[j] * b[j]
	}
	// apply a
	o := in * a[0]
	for j := 1; j < len(a); j++ {
		o += past[j-1] * a[j]
	}
	// unshift past
	for j := len(past) - 2; j >= 0; j-- {
		past[j+1] = past[j]
	}
	if len(past) > 0 {
		past[0] = in
	}
	return o
}

// ----- Oscillator ----- //

func oscValue(kind int, phase float64) float64 {
	switch kind {
	case waveSine:
		return math.Sin(phase)
	case waveTriangle:
		p := positiveMod(phase/(2.0*math.Pi), 1)
		if p < 0.5 {
			return p*4 - 1
		}
		return p*(-4) + 3
	case waveSquare:
		p := positiveMod(phase/(2.0*math.Pi), 1)
		if p < 0.5 {
			return 1
		}
		return -1
	case waveSaw:
		p := positiveMod(phase/(2.0*math.Pi), 1)
		return p*2 - 1
	case waveSawRev:
		p := positiveMod(phase/(2.0*math.Pi), 1)
		return p*(-2) + 1
	}
	return 0
}

// ----- Voice Rendering ----- //

// render mixes one buffer of this voice into out. It consumes the
// audio parameter block only: stereo carrier frequencies, FM ratio
// and index, filter cutoff and the amplitude gate.
func (v *voice) render(outL []float64, outR []float64) {
	if v.ampEnv.stage == stageIdle && !v.state.gate {
		return
	}
	amp := v.ampGain.value * v.ampEnv.value * oscGain
	ratio := v.modRatio.value
	index := v.modIndex.value
	cutoff := clamp(v.cutoff.value, minCutoff, maxCutoff)
	q := clamp(v.params.filter.resonance, 0.1, 20)
	sat := v.params.filter.saturation
	incL := 2 * math.Pi * v.freqL.value * secPerSample
	incR := 2 * math.Pi * v.freqR.value * secPerSample
	for i := 0; i < len(outL); i++ {
		l := oscValue(v.wave, v.phaseL+index*math.Sin(v.modPhaseL))
		r := oscValue(v.wave, v.phaseR+index*math.Sin(v.modPhaseR))
		if sat > 0 {
			l = math.Tanh(l * (1 + 3*sat))
			r = math.Tanh(r * (1 + 3*sat))
		}
		l = v.filterL.step(l, cutoff, q)
		r = v.filterR.step(r, cutoff, q)
		outL[i] += l * amp
		outR[i] += r * amp
		v.phaseL += incL
		v.phaseR += incR
		v.modPhaseL += incL * ratio
		v.modPhaseR += incR * ratio
		if v.phaseL > 2*math.Pi {
			v.phaseL -= 2 * math.Pi
		}
		if v.phaseR > 2*math.Pi {
			v.phaseR -= 2 * math.Pi
		}
		if v.modPhaseL > 2*math.Pi {
			v.modPhaseL -= 2 * math.Pi
		}
		if v.modPhaseR > 2*math.Pi {
			v.modPhaseR -= 2 * math.Pi
		}
	}
}

// ----- Engine Output ----- //

func (e *Engine) Read(buf []byte) (int, error) {
	select {
	case <-e.ctx.Done():
		log.Println("Read() interrupted.")
		return 0, io.EOF
	default:
		e.state.Lock()
		defer e.state.Unlock()
		bufSamples := len(buf) / bytesPerSample
		if bufSamples > len(e.state.outL) {
			bufSamples = len(e.state.outL)
		}
		outL := e.state.outL[:bufSamples]
		outR := e.state.outR[:bufSamples]
		for i := 0; i < bufSamples; i++ {
			outL[i] = 0
			outR[i] = 0
		}
		for _, v := range e.state.pool.voices {
			if v.free {
				continue
			}
			v.render(outL, outR)
		}
		writeBuffer(outL, buf, 0)
		writeBuffer(outR, buf, 1)
		return bufSamples * bytesPerSample, nil
	}
}

func writeBuffer(out []float64, buf []byte, ch int) {
	const max = 32767
	for i := 0; i < len(out); i++ {
		b := int16(clamp(out[i], -1, 1) * max)
		buf[bytesPerSample*i+2*ch] = byte(b)
		buf[bytesPerSample*i+2*ch+1] = byte(b >> 8)
	}
}

// Start opens the audio device and streams until ctx is cancelled.
func (e *Engine) Start(ctx context.Context) error {
	otoContext, err := oto.NewContext(sampleRate, channelNum, bitDepthInBytes, bufferSizeInBytes)
	if err != nil {
		return err
	}
	defer func() {
		if err := otoContext.Close(); err != nil {
			log.Printf("error: %v", err)
		}
	}()
	p := otoContext.NewPlayer()
	defer func() {
		if err := p.Close(); err != nil {
			log.Printf("error: %v", err)
		}
	}()
	e.ctx = ctx

	// block until cancel() called
	if _, err := io.CopyBuffer(p, e, make([]byte, bufferSizeInBytes)); err != nil {
		return err
	}
	log.Println("Start() ended.")
	return nil
}
