package synth

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"
)

// ----- Modulation Source Params ----- //

type modSourceParams struct {
	enabled     bool
	destination int
	amount      float64
}
type modSourceJSON struct {
	Enabled     bool    `json:"enabled"`
	Destination string  `json:"destination"`
	Amount      float64 `json:"amount"`
}

func (m *modSourceParams) applyJSON(data json.RawMessage) {
	var j modSourceJSON
	err := json.Unmarshal(data, &j)
	if err != nil {
		log.Println("failed to apply JSON to modSourceParams")
		return
	}
	m.enabled = j.Enabled
	m.destination = destinationFromString(j.Destination)
	m.amount = j.Amount
}
func (m *modSourceParams) toJSON() json.RawMessage {
	return toRawMessage(&modSourceJSON{
		Enabled:     m.enabled,
		Destination: destinationToString(m.destination),
		Amount:      m.amount,
	})
}
func (m *modSourceParams) set(key string, value string) error {
	switch key {
	case "enabled":
		m.enabled = value == "true"
	case "destination":
		m.destination = destinationFromString(value)
	case "amount":
		value, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		m.amount = value
	}
	return nil
}

// ----- Modulation Envelope Params ----- //

type modEnvelopeParams struct {
	enabled     bool
	destination int
	amount      float64
	adsr        *adsrParams
}
type modEnvelopeJSON struct {
	Enabled     bool    `json:"enabled"`
	Destination string  `json:"destination"`
	Amount      float64 `json:"amount"`
	Attack      float64 `json:"attack"`
	Decay       float64 `json:"decay"`
	Sustain     float64 `json:"sustain"`
	Release     float64 `json:"release"`
}

func (m *modEnvelopeParams) applyJSON(data json.RawMessage) {
	var j modEnvelopeJSON
	err := json.Unmarshal(data, &j)
	if err != nil {
		log.Println("failed to apply JSON to modEnvelopeParams")
		return
	}
	m.enabled = j.Enabled
	m.destination = destinationFromString(j.Destination)
	m.amount = j.Amount
	m.adsr.attack = j.Attack
	m.adsr.decay = j.Decay
	m.adsr.sustain = j.Sustain
	m.adsr.release = j.Release
}
func (m *modEnvelopeParams) toJSON() json.RawMessage {
	return toRawMessage(&modEnvelopeJSON{
		Enabled:     m.enabled,
		Destination: destinationToString(m.destination),
		Amount:      m.amount,
		Attack:      m.adsr.attack,
		Decay:       m.adsr.decay,
		Sustain:     m.adsr.sustain,
		Release:     m.adsr.release,
	})
}
func (m *modEnvelopeParams) set(key string, value string) error {
	switch key {
	case "enabled":
		m.enabled = value == "true"
	case "destination":
		m.destination = destinationFromString(value)
	case "amount":
		value, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		m.amount = value
	default:
		return m.adsr.set(key, value)
	}
	return nil
}

// ----- Modulation Params ----- //

// The serializable half of the modulation matrix: one envelope
// hardwired to the FM index, one freely routable envelope, the
// per-voice LFO, the shared LFO, and the three note-driven sources.
type modulationParams struct {
	fmEnvelope  *modEnvelopeParams
	auxEnvelope *modEnvelopeParams
	lfo         *lfoParams
	globalLfo   *lfoParams
	keyTrack    *modSourceParams
	touchInit   *modSourceParams
	aftertouch  *modSourceParams
}

type modulationJSON struct {
	FmEnvelope  json.RawMessage `json:"fmEnvelope"`
	AuxEnvelope json.RawMessage `json:"auxEnvelope"`
	Lfo         json.RawMessage `json:"lfo"`
	GlobalLfo   json.RawMessage `json:"globalLfo"`
	KeyTrack    json.RawMessage `json:"keyTrack"`
	TouchInit   json.RawMessage `json:"touchInit"`
	Aftertouch  json.RawMessage `json:"aftertouch"`
}

func newModulationParams() *modulationParams {
	return &modulationParams{
		fmEnvelope: &modEnvelopeParams{
			enabled:     true,
			destination: destFMIndex,
			amount:      1,
			adsr:        &adsrParams{attack: 5, decay: 300, sustain: 0.4, release: 100},
		},
		auxEnvelope: &modEnvelopeParams{
			enabled:     false,
			destination: destNone,
			amount:      0,
			adsr:        &adsrParams{attack: 0, decay: 200, sustain: 0, release: 0},
		},
		lfo:       newLfoParams(),
		globalLfo: newLfoParams(),
		keyTrack: &modSourceParams{
			enabled:     true,
			destination: destFilterCutoff,
			amount:      0.5,
		},
		touchInit: &modSourceParams{
			enabled:     true,
			destination: destAmplitude,
			amount:      1,
		},
		aftertouch: &modSourceParams{
			enabled:     false,
			destination: destOscFreq,
			amount:      0,
		},
	}
}

func (m *modulationParams) applyJSON(data json.RawMessage) {
	var j modulationJSON
	err := json.Unmarshal(data, &j)
	if err != nil {
		log.Println("failed to apply JSON to modulationParams")
		return
	}
	m.fmEnvelope.applyJSON(j.FmEnvelope)
	m.auxEnvelope.applyJSON(j.AuxEnvelope)
	m.lfo.applyJSON(j.Lfo)
	m.globalLfo.applyJSON(j.GlobalLfo)
	m.keyTrack.applyJSON(j.KeyTrack)
	m.touchInit.applyJSON(j.TouchInit)
	m.aftertouch.applyJSON(j.Aftertouch)
	// the first envelope cannot be re-routed
	m.fmEnvelope.destination = destFMIndex
}
func (m *modulationParams) toJSON() json.RawMessage {
	return toRawMessage(&modulationJSON{
		FmEnvelope:  m.fmEnvelope.toJSON(),
		AuxEnvelope: m.auxEnvelope.toJSON(),
		Lfo:         m.lfo.toJSON(),
		GlobalLfo:   m.globalLfo.toJSON(),
		KeyTrack:    m.keyTrack.toJSON(),
		TouchInit:   m.touchInit.toJSON(),
		Aftertouch:  m.aftertouch.toJSON(),
	})
}

func (m *modulationParams) set(section string, key string, value string) error {
	switch section {
	case "fm_env":
		if key == "destination" {
			return fmt.Errorf("fm_env destination is hardwired to fm_index")
		}
		return m.fmEnvelope.set(key, value)
	case "aux_env":
		return m.auxEnvelope.set(key, value)
	case "lfo":
		return m.lfo.set(key, value)
	case "global_lfo":
		return m.globalLfo.set(key, value)
	case "key_track":
		return m.keyTrack.set(key, value)
	case "touch_init":
		return m.touchInit.set(key, value)
	case "aftertouch":
		return m.aftertouch.set(key, value)
	}
	return fmt.Errorf("unknown modulation section %v", section)
}
