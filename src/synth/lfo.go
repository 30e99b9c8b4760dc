package synth

import (
	"encoding/json"
	"log"
	"strconv"
)

// ----- LFO Reset Mode ----- //

const (
	lfoResetFree = iota
	lfoResetRetrigger
)

func lfoResetModeFromString(s string) int {
	if s == "retrigger" {
		return lfoResetRetrigger
	}
	return lfoResetFree
}
func lfoResetModeToString(mode int) string {
	if mode == lfoResetRetrigger {
		return "retrigger"
	}
	return "free"
}

// ----- LFO Frequency Mode ----- //

const (
	lfoFreqAbsolute = iota
	lfoFreqTempo
)

func lfoFreqModeFromString(s string) int {
	if s == "tempo" {
		return lfoFreqTempo
	}
	return lfoFreqAbsolute
}
func lfoFreqModeToString(mode int) string {
	if mode == lfoFreqTempo {
		return "tempo"
	}
	return "absolute"
}

// ----- LFO Params ----- //

type lfoParams struct {
	enabled     bool
	destination int
	wave        int
	resetMode   int
	freqMode    int
	rate        float64 // Hz, or cycles per beat in tempo mode
	amount      float64
}

type lfoJSON struct {
	Enabled     bool    `json:"enabled"`
	Destination string  `json:"destination"`
	Wave        string  `json:"wave"`
	Reset       string  `json:"reset"`
	FreqMode    string  `json:"freqMode"`
	Rate        float64 `json:"rate"`
	Amount      float64 `json:"amount"`
}

func (l *lfoParams) applyJSON(data json.RawMessage) {
	var j lfoJSON
	err := json.Unmarshal(data, &j)
	if err != nil {
		log.Println("failed to apply JSON to lfoParams")
		return
	}
	l.enabled = j.Enabled
	l.destination = destinationFromString(j.Destination)
	l.wave = waveKindFromString(j.Wave)
	l.resetMode = lfoResetModeFromString(j.Reset)
	l.freqMode = lfoFreqModeFromString(j.FreqMode)
	l.rate = j.Rate
	l.amount = j.Amount
}
func (l *lfoParams) toJSON() json.RawMessage {
	return toRawMessage(&lfoJSON{
		Enabled:     l.enabled,
		Destination: destinationToString(l.destination),
		Wave:        waveKindToString(l.wave),
		Reset:       lfoResetModeToString(l.resetMode),
		FreqMode:    lfoFreqModeToString(l.freqMode),
		Rate:        l.rate,
		Amount:      l.amount,
	})
}

func newLfoParams() *lfoParams {
	return &lfoParams{
		enabled:     false,
		destination: destNone,
		wave:        waveSine,
		resetMode:   lfoResetFree,
		freqMode:    lfoFreqAbsolute,
		rate:        5,
		amount:      0,
	}
}

func (l *lfoParams) set(key string, value string) error {
	switch key {
	case "enabled":
		l.enabled = value == "true"
	case "destination":
		l.destination = destinationFromString(value)
	case "wave":
		l.wave = waveKindFromString(value)
	case "reset":
		l.resetMode = lfoResetModeFromString(value)
	case "freqMode":
		l.freqMode = lfoFreqModeFromString(value)
	case "rate":
		value, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		l.rate = value
	case "amount":
		value, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		l.amount = value
	}
	return nil
}

// rateHz resolves the configured rate against the current tempo.
// In tempo mode rate is cycles per beat.
func (l *lfoParams) rateHz(tempo float64) float64 {
	if l.freqMode == lfoFreqTempo {
		return l.rate * tempo / 60.0
	}
	return l.rate
}

// voiceWave returns the selectable wave for the per-voice LFO.
// saw-rev has no start-at-base unipolar form and is not offered per
// voice; it stays available for the global LFO.
func (l *lfoParams) voiceWave() int {
	if l.wave == waveSawRev {
		return waveSaw
	}
	return l.wave
}
