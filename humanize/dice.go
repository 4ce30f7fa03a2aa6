package humanize

import (
	"math/rand"
	"sync"
	"time"
)

// Dice draws the random decisions that make a session look human.
// It is safe for concurrent use.
type Dice struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewDice creates dice seeded from the clock
func NewDice() *Dice {
	return NewSeededDice(time.Now().UnixNano())
}

// NewSeededDice creates reproducible dice (tests, replays)
func NewSeededDice(seed int64) *Dice {
	return &Dice{rng: rand.New(rand.NewSource(seed))}
}

// IntBetween returns a uniform integer in [min, max]
func (d *Dice) IntBetween(min, max int) int {
	if min >= max {
		return min
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rng.Intn(max-min+1) + min
}

// Skip rolls 1-100 and reports whether the roll falls within percent.
// percent <= 0 never skips, percent >= 100 always skips.
func (d *Dice) Skip(percent int) bool {
	return d.IntBetween(1, 100) <= percent
}

// Seconds returns a uniform whole-second duration in [min, max]
func (d *Dice) Seconds(min, max int) time.Duration {
	return time.Duration(d.IntBetween(min, max)) * time.Second
}

// Millis returns a uniform millisecond duration in [min, max]
func (d *Dice) Millis(min, max int) time.Duration {
	return time.Duration(d.IntBetween(min, max)) * time.Millisecond
}
