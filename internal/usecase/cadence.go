package usecase

import (
	"math/rand/v2"
	"sync"
	"time"
)

type cadenceBand struct {
	from     time.Duration
	min, max time.Duration
}

// cadence is ordered from the furthest departure down. A band applies when
// the time left is at least its lower bound.
var cadence = []cadenceBand{
	{from: 36 * time.Hour, min: 40 * time.Minute, max: 60 * time.Minute},
	{from: 24 * time.Hour, min: 20 * time.Minute, max: 40 * time.Minute},
	{from: 4 * time.Hour, min: 10 * time.Minute, max: 20 * time.Minute},
	{from: 0, min: 5 * time.Minute, max: 10 * time.Minute},
}

// delayRange returns the polling delay range for a train departing in
// until. It reports false once the train has departed.
func delayRange(until time.Duration) (time.Duration, time.Duration, bool) {
	for _, band := range cadence {
		if until >= band.from {
			return band.min, band.max, true
		}
	}
	return 0, 0, false
}

// nextCheckDelay draws a whole number of minutes from the band of until.
// pick(n) must return a value in [0, n).
func nextCheckDelay(until time.Duration, pick func(n int) int) (time.Duration, bool) {
	low, high, ok := delayRange(until)
	if !ok {
		return 0, false
	}
	span := int((high-low)/time.Minute) + 1
	return low + time.Duration(pick(span))*time.Minute, true
}

// errorDelay is base plus up to a fifth of base, in whole seconds.
func errorDelay(base time.Duration, pick func(n int) int) time.Duration {
	spread := int(base/5/time.Second) + 1
	return base + time.Duration(pick(spread))*time.Second
}

type jitter struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func newJitter(seed uint64) *jitter {
	return &jitter{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (j *jitter) IntN(n int) int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.rnd.IntN(n)
}
