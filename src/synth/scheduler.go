package synth

import (
	"context"
	"log"
	"time"
)

// ----- Control-Rate Scheduler ----- //

// RunControlLoop drives the 200 Hz control tick until ctx is done.
// Each tick advances the shared LFO and every sounding voice by the
// fixed control period; wall-clock jitter is not measured back into
// deltaTime, which keeps modulation timing deterministic.
func (e *Engine) RunControlLoop(ctx context.Context) error {
	t := time.NewTicker(time.Second / controlRateHz)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Println("RunControlLoop() ended.")
			return nil
		case <-t.C:
			e.state.Lock()
			e.state.pool.tick(controlPeriod)
			e.state.Unlock()
		}
	}
}
