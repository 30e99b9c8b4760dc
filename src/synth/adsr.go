package synth

import (
	"encoding/json"
	"log"
	"math"
	"strconv"
)

// ----- ADSR Params ----- //

const (
	stageIdle = iota
	stageAttack
	stageDecay
	stageSustain
	stageRelease
)

type adsrParams struct {
	attack  float64 // ms
	decay   float64 // ms
	sustain float64 // 0-1
	release float64 // ms
}
type adsrJSON struct {
	Attack  float64 `json:"attack"`
	Decay   float64 `json:"decay"`
	Sustain float64 `json:"sustain"`
	Release float64 `json:"release"`
}

func (a *adsrParams) applyJSON(data json.RawMessage) {
	var j adsrJSON
	err := json.Unmarshal(data, &j)
	if err != nil {
		log.Println("failed to apply JSON to adsrParams")
		return
	}
	a.attack = j.Attack
	a.decay = j.Decay
	a.sustain = j.Sustain
	a.release = j.Release
}
func (a *adsrParams) toJSON() json.RawMessage {
	return toRawMessage(&adsrJSON{
		Attack:  a.attack,
		Decay:   a.decay,
		Sustain: a.sustain,
		Release: a.release,
	})
}
func (a *adsrParams) set(key string, value string) error {
	switch key {
	case "attack":
		value, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		a.attack = value
	case "decay":
		value, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		a.decay = value
	case "sustain":
		value, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		a.sustain = value
	case "release":
		value, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		a.release = value
	}
	return nil
}

// ----- ADSR ----- //

/*
  1 +     x
    |    / \
    |   /   \
  s +  /     x------x
    | /              \
    |/                \
  0 +-----+--+------+---
    |a    |d |      |r |
*/
type adsr struct {
	attack           float64 // ms
	decay            float64 // ms
	sustain          float64 // 0-1
	release          float64 // ms
	value            float64
	stage            int
	stageTime        float64 // seconds since the stage began
	gate             bool
	valueAtGateOpen  float64
	valueAtGateClose float64
}

func (a *adsr) setParams(p *adsrParams) {
	a.attack = p.attack
	a.decay = p.decay
	a.sustain = p.sustain
	a.release = p.release
}

func (a *adsr) reset() {
	a.value = 0
	a.stage = stageIdle
	a.stageTime = 0
	a.gate = false
	a.valueAtGateOpen = 0
	a.valueAtGateClose = 0
}

func (a *adsr) gateOpen() {
	a.gate = true
	a.stage = stageAttack
	a.stageTime = 0
	a.valueAtGateOpen = a.value
}

// Enters the release stage from any stage, including attack and decay.
func (a *adsr) gateClose() {
	a.gate = false
	if a.stage == stageIdle {
		return
	}
	a.stage = stageRelease
	a.stageTime = 0
	a.valueAtGateClose = a.value
}

func (a *adsr) step(deltaTime float64) {
	stageMs := a.stageTime * 1000
	switch a.stage {
	case stageAttack:
		if a.attack <= 0 || stageMs >= a.attack {
			a.stage = stageDecay
			a.stageTime = 0
			a.value = 1
		} else {
			t := stageMs / a.attack
			a.value = t + (1-t)*a.valueAtGateOpen
			a.stageTime += deltaTime
		}
	case stageDecay:
		ended := false
		if a.decay <= 0 {
			ended = true
		} else {
			t := stageMs / a.decay
			a.value = setTargetAtTime(1, a.sustain, t)
			if math.Abs(a.value-a.sustain) < 0.001 {
				ended = true
			}
		}
		if ended {
			a.stage = stageSustain
			a.stageTime = 0
			a.value = a.sustain
		} else {
			a.stageTime += deltaTime
		}
	case stageSustain:
		a.value = a.sustain
	case stageRelease:
		ended := false
		if a.release <= 0 {
			ended = true
		} else {
			t := stageMs / a.release
			a.value = setTargetAtTime(a.valueAtGateClose, 0, t)
			if math.Abs(a.value) < 0.001 {
				ended = true
			}
		}
		if ended {
			a.stage = stageIdle
			a.stageTime = 0
			a.value = 0
		} else {
			a.stageTime += deltaTime
		}
	default:
		a.value = 0
	}
}

// 63% closer to target when pos=1.0
func setTargetAtTime(initialValue float64, targetValue float64, pos float64) float64 {
	return targetValue + (initialValue-targetValue)*math.Exp(-pos)
}
