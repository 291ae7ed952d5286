package outcome

import (
	"math/rand"
	"strings"
	"sync"
	"time"
)

type Outcome string

const (
	Profit Outcome = "profit"
	Loss   Outcome = "loss"
)

// Parse accepts the wire form of an administrative forced outcome.
func Parse(raw string) (Outcome, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(Profit):
		return Profit, true
	case string(Loss):
		return Loss, true
	default:
		return "", false
	}
}

// Decider resolves a signal's outcome from its stored win probability.
// The production implementation draws at random; tests inject Fixed or a
// seeded RandomDecider so settlement stays reproducible.
type Decider interface {
	Draw(winProbability float64) Outcome
}

type RandomDecider struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandom() *RandomDecider {
	return NewSeeded(time.Now().UnixNano())
}

func NewSeeded(seed int64) *RandomDecider {
	return &RandomDecider{rng: rand.New(rand.NewSource(seed))}
}

// Draw returns Profit with the given probability. Probabilities at or
// outside the [0,1] bounds are deterministic: 0 always loses, 1 always wins.
func (d *RandomDecider) Draw(winProbability float64) Outcome {
	if winProbability <= 0 {
		return Loss
	}
	if winProbability >= 1 {
		return Profit
	}
	d.mu.Lock()
	roll := d.rng.Float64()
	d.mu.Unlock()
	if roll < winProbability {
		return Profit
	}
	return Loss
}

// Fixed always returns itself; used for forced outcomes and tests.
type Fixed Outcome

func (f Fixed) Draw(float64) Outcome {
	return Outcome(f)
}
