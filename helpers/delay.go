package helpers

import (
	mathrand "math/rand"
	"time"
)

// Delayer inserts a politeness pause between sequential calls against the
// same source. Injectable so tests can run with zero delay.
type Delayer interface {
	Delay()
}

// RandomDelayer sleeps a random duration in [Min, Max)
type RandomDelayer struct {
	Min time.Duration
	Max time.Duration
}

// Delay blocks the calling goroutine for the randomized duration
func (d RandomDelayer) Delay() {
	if d.Max <= d.Min {
		time.Sleep(d.Min)
		return
	}
	jitter := time.Duration(mathrand.Int63n(int64(d.Max - d.Min)))
	time.Sleep(d.Min + jitter)
}

// NoDelay is a Delayer that returns immediately
type NoDelay struct{}

// Delay is a no-op
func (NoDelay) Delay() {}
