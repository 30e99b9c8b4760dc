package synth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"strconv"
	"sync"
)

const (
	sampleRate      = 48000
	channelNum      = 2
	bitDepthInBytes = 2
	samplesPerCycle = 1024
	numVoices       = 8
	controlRateHz   = 200
)
const bytesPerSample = bitDepthInBytes * channelNum
const bufferSizeInBytes = samplesPerCycle * bytesPerSample // should be >= 4096
const secPerSample = 1.0 / sampleRate
const controlPeriod = 1.0 / controlRateHz // 5 ms, fixed; not wall-clock measured
const rampTimeMs = 1000.0 / controlRateHz
const baseFreq = 440.0
const oscGain = 0.1

// ----- Utility ----- //

func noteToFreq(note int) float64 {
	return baseFreq * math.Pow(2, float64(note-69)/12)
}
func toRawMessage(v interface{}) json.RawMessage {
	bytes, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return json.RawMessage(bytes)
}

// ----- Changes ----- //

// Changes ...
type Changes struct {
	sync.Mutex
	dict map[string]struct{}
}

// Add ...
func (c *Changes) Add(key string) {
	c.Lock()
	c.dict[key] = struct{}{}
	c.Unlock()
}

// Has ...
func (c *Changes) Has(key string) bool {
	c.Lock()
	_, ok := c.dict[key]
	c.Unlock()
	return ok
}

// Delete ...
func (c *Changes) Delete(key string) {
	c.Lock()
	delete(c.dict, key)
	c.Unlock()
}

// ----- State ----- //

type state struct {
	sync.Mutex
	params *params
	pool   *voicePool
	outL   []float64
	outR   []float64
}

func newState() *state {
	p := newParams()
	return &state{
		params: p,
		pool:   newVoicePool(p, numVoices),
		outL:   make([]float64, samplesPerCycle),
		outR:   make([]float64, samplesPerCycle),
	}
}

// ----- Engine ----- //

// Engine ...
type Engine struct {
	ctx       context.Context
	CommandCh chan []string
	state     *state
	Changes   *Changes
	presets   *presetManager
}

var _ io.Reader = (*Engine)(nil)

type engineJSON struct {
	Params json.RawMessage `json:"params"`
}

// NewEngine ...
func NewEngine(presetDir string) *Engine {
	engine := &Engine{
		ctx:       context.Background(),
		CommandCh: make(chan []string, 256),
		state:     newState(),
		Changes: &Changes{
			dict: make(map[string]struct{}),
		},
		presets: newPresetManager(presetDir),
	}
	go processCommands(engine, engine.CommandCh)
	return engine
}

func processCommands(engine *Engine, commandCh <-chan []string) {
	for command := range commandCh {
		err := engine.update(command)
		if err != nil {
			log.Printf("failed to run %v: %v\n", command, err)
		}
	}
	log.Println("processCommands() ended.")
}

// Close ...
func (e *Engine) Close() error {
	log.Println("Closing Engine...")
	close(e.CommandCh)
	return nil
}

// ----- Note Input ----- //

// NoteOn allocates a voice for the key, stealing the oldest-triggered
// voice if the pool is full.
func (e *Engine) NoteOn(key int, freq float64, initialTouchX float64) {
	if freq <= 0 || math.IsNaN(freq) || math.IsInf(freq, 0) {
		log.Printf("skipping note_on %v: invalid frequency %v\n", key, freq)
		return
	}
	e.state.Lock()
	defer e.state.Unlock()
	e.state.pool.allocate(freq, key, initialTouchX)
}

// NoteMove updates the touch position of a held note.
func (e *Engine) NoteMove(key int, currentTouchX float64) {
	e.state.Lock()
	defer e.state.Unlock()
	e.state.pool.setTouch(key, currentTouchX)
}

// NoteOff releases the key; unmapped keys are ignored.
func (e *Engine) NoteOff(key int) {
	e.state.Lock()
	defer e.state.Unlock()
	e.state.pool.release(key)
}

// ----- Commands ----- //

func (e *Engine) update(command []string) error {
	e.state.Lock()
	defer e.state.Unlock()

	switch command[0] {
	case "note_on":
		if len(command) != 4 {
			return fmt.Errorf("invalid note_on %v", command)
		}
		key, err := strconv.ParseInt(command[1], 10, 32)
		if err != nil {
			return err
		}
		freq, err := strconv.ParseFloat(command[2], 64)
		if err != nil || freq <= 0 {
			log.Printf("skipping note_on %v: invalid frequency %v\n", key, command[2])
			return nil
		}
		touchX, err := strconv.ParseFloat(command[3], 64)
		if err != nil {
			return err
		}
		e.state.pool.allocate(freq, int(key), touchX)
	case "note_move":
		if len(command) != 3 {
			return fmt.Errorf("invalid note_move %v", command)
		}
		key, err := strconv.ParseInt(command[1], 10, 32)
		if err != nil {
			return err
		}
		touchX, err := strconv.ParseFloat(command[2], 64)
		if err != nil {
			return err
		}
		e.state.pool.setTouch(int(key), touchX)
	case "note_off":
		if len(command) != 2 {
			return fmt.Errorf("invalid note_off %v", command)
		}
		key, err := strconv.ParseInt(command[1], 10, 32)
		if err != nil {
			return err
		}
		e.state.pool.release(int(key))
	case "set":
		command = command[1:]
		switch command[0] {
		case "osc":
			command = command[1:]
			if len(command) != 2 {
				return fmt.Errorf("invalid key-value pair %v", command)
			}
			err := e.state.params.osc.set(command[0], command[1])
			if err != nil {
				return err
			}
			if command[0] == "wave" {
				for _, v := range e.state.pool.voices {
					if !v.free {
						v.updateOscillatorsOnRecreate(e.state.params.osc.wave)
					}
				}
			}
		case "filter":
			command = command[1:]
			if len(command) != 2 {
				return fmt.Errorf("invalid key-value pair %v", command)
			}
			err := e.state.params.filter.set(command[0], command[1])
			if err != nil {
				return err
			}
		case "amp":
			command = command[1:]
			if len(command) != 2 {
				return fmt.Errorf("invalid key-value pair %v", command)
			}
			err := e.state.params.amp.set(command[0], command[1])
			if err != nil {
				return err
			}
		case "mod":
			command = command[1:]
			if len(command) != 3 {
				return fmt.Errorf("invalid mod setting %v", command)
			}
			err := e.state.params.mod.set(command[0], command[1], command[2])
			if err != nil {
				return err
			}
		case "tempo":
			command = command[1:]
			value, err := strconv.ParseFloat(command[0], 64)
			if err != nil {
				return err
			}
			e.state.pool.global.tempo = clamp(value, 20, 300)
		default:
			return fmt.Errorf("unknown set target %v", command[0])
		}
		e.Changes.Add("data")
	case "reset":
		e.state.pool.resetAll()
		e.Changes.Add("data")
	case "preset":
		if len(command) != 2 {
			return fmt.Errorf("invalid preset command %v", command)
		}
		data, err := e.presets.load(command[1])
		if err != nil {
			return err
		}
		e.applyJSONLocked(data)
		e.Changes.Add("data")
	default:
		return fmt.Errorf("unknown command %v", command[0])
	}
	return nil
}

// ----- Preset Snapshot ----- //

// ApplyJSON applies a full parameter set. Every voice's runtime state
// and the global modulation state are reset before any new
// configuration takes effect.
func (e *Engine) ApplyJSON(data []byte) {
	e.state.Lock()
	defer e.state.Unlock()
	e.applyJSONLocked(data)
}

func (e *Engine) applyJSONLocked(data []byte) {
	var j engineJSON
	err := json.Unmarshal(data, &j)
	if err != nil {
		log.Println("failed to apply JSON to Engine", err)
		return
	}
	e.state.pool.resetAll()
	e.state.params.applyJSON(j.Params)
}

// ToJSON ...
func (e *Engine) ToJSON() []byte {
	e.state.Lock()
	defer e.state.Unlock()
	bytes, err := json.Marshal(toRawMessage(&engineJSON{
		Params: e.state.params.toJSON(),
	}))
	if err != nil {
		panic(err)
	}
	return bytes
}
