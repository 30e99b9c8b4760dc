package synth

import (
	"encoding/json"
	"log"
	"strconv"
)

// ----- Detune Mode ----- //

const (
	detuneOff = iota
	detuneStereo
)

func detuneModeFromString(s string) int {
	if s == "stereo" {
		return detuneStereo
	}
	return detuneOff
}
func detuneModeToString(mode int) string {
	if mode == detuneStereo {
		return "stereo"
	}
	return "off"
}

// ----- OSC Params ----- //

type oscParams struct {
	wave         int
	carrierRatio float64 // carrier freq = note freq * ratio
	modCoarse    int     // 0 ~ 16
	modFine      int     // -100 ~ 100 cent
	modLevel     float64 // 0 ~ 1
	level        float64 // 0 ~ 1
	detuneMode   int
	detune       float64 // cent
}
type oscJSON struct {
	Wave         string  `json:"wave"`
	CarrierRatio float64 `json:"carrierRatio"`
	ModCoarse    int     `json:"modCoarse"`
	ModFine      int     `json:"modFine"`
	ModLevel     float64 `json:"modLevel"`
	Level        float64 `json:"level"`
	DetuneMode   string  `json:"detuneMode"`
	Detune       float64 `json:"detune"`
}

func (o *oscParams) applyJSON(data json.RawMessage) {
	var j oscJSON
	err := json.Unmarshal(data, &j)
	if err != nil {
		log.Println("failed to apply JSON to oscParams")
		return
	}
	o.wave = waveKindFromString(j.Wave)
	o.carrierRatio = j.CarrierRatio
	o.modCoarse = j.ModCoarse
	o.modFine = j.ModFine
	o.modLevel = j.ModLevel
	o.level = j.Level
	o.detuneMode = detuneModeFromString(j.DetuneMode)
	o.detune = j.Detune
}
func (o *oscParams) toJSON() json.RawMessage {
	return toRawMessage(&oscJSON{
		Wave:         waveKindToString(o.wave),
		CarrierRatio: o.carrierRatio,
		ModCoarse:    o.modCoarse,
		ModFine:      o.modFine,
		ModLevel:     o.modLevel,
		Level:        o.level,
		DetuneMode:   detuneModeToString(o.detuneMode),
		Detune:       o.detune,
	})
}
func (o *oscParams) set(key string, value string) error {
	switch key {
	case "wave":
		o.wave = waveKindFromString(value)
	case "carrierRatio":
		value, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		o.carrierRatio = value
	case "modCoarse":
		value, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return err
		}
		o.modCoarse = int(value)
	case "modFine":
		value, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return err
		}
		o.modFine = int(value)
	case "modLevel":
		value, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		o.modLevel = value
	case "level":
		value, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		o.level = value
	case "detuneMode":
		o.detuneMode = detuneModeFromString(value)
	case "detune":
		value, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		o.detune = value
	}
	return nil
}

// modRatio combines the coarse and fine modulator settings.
func (o *oscParams) modRatio() float64 {
	ratio := float64(o.modCoarse) + float64(o.modFine)/100
	if ratio < 0.1 {
		ratio = 0.1
	}
	return ratio
}

// ----- Filter Params ----- //

type filterParams struct {
	cutoff     float64 // Hz
	resonance  float64
	saturation float64 // 0 ~ 1
}
type filterJSON struct {
	Cutoff     float64 `json:"cutoff"`
	Resonance  float64 `json:"resonance"`
	Saturation float64 `json:"saturation"`
}

func (f *filterParams) applyJSON(data json.RawMessage) {
	var j filterJSON
	err := json.Unmarshal(data, &j)
	if err != nil {
		log.Println("failed to apply JSON to filterParams")
		return
	}
	f.cutoff = j.Cutoff
	f.resonance = j.Resonance
	f.saturation = j.Saturation
}
func (f *filterParams) toJSON() json.RawMessage {
	return toRawMessage(&filterJSON{
		Cutoff:     f.cutoff,
		Resonance:  f.resonance,
		Saturation: f.saturation,
	})
}
func (f *filterParams) set(key string, value string) error {
	switch key {
	case "cutoff":
		value, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		f.cutoff = clamp(value, minCutoff, maxCutoff)
	case "resonance":
		value, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		f.resonance = clamp(value, 0.1, 20)
	case "saturation":
		value, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		f.saturation = clamp(value, 0, 1)
	}
	return nil
}

// ----- Params ----- //

// The voice template: everything a preset carries.
type params struct {
	osc    *oscParams
	filter *filterParams
	amp    *adsrParams
	mod    *modulationParams
}

type paramsJSON struct {
	Osc    json.RawMessage `json:"osc"`
	Filter json.RawMessage `json:"filter"`
	Amp    json.RawMessage `json:"amp"`
	Mod    json.RawMessage `json:"mod"`
}

func newParams() *params {
	return &params{
		osc: &oscParams{
			wave:         waveSine,
			carrierRatio: 1.0,
			modCoarse:    1,
			modFine:      0,
			modLevel:     0.5,
			level:        0.5,
			detuneMode:   detuneStereo,
			detune:       8,
		},
		filter: &filterParams{cutoff: 8000, resonance: 0.7, saturation: 0},
		amp:    &adsrParams{attack: 10, decay: 100, sustain: 0.7, release: 200},
		mod:    newModulationParams(),
	}
}

func (p *params) applyJSON(data json.RawMessage) {
	var j paramsJSON
	err := json.Unmarshal(data, &j)
	if err != nil {
		log.Println("failed to apply JSON to params")
		return
	}
	p.osc.applyJSON(j.Osc)
	p.filter.applyJSON(j.Filter)
	p.amp.applyJSON(j.Amp)
	p.mod.applyJSON(j.Mod)
}
func (p *params) toJSON() json.RawMessage {
	return toRawMessage(&paramsJSON{
		Osc:    p.osc.toJSON(),
		Filter: p.filter.toJSON(),
		Amp:    p.amp.toJSON(),
		Mod:    p.mod.toJSON(),
	})
}
