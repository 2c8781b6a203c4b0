package dice

import (
	"context"

	"go.uber.org/atomic"
)

// counterKey is the unexported context key for the dice-growth counter.
type counterKey struct{}

// DiceCounter tracks the total number of dice drawn across every growth point
// of a single roll (initial draw, reroll, explosion) and enforces MaxDice as
// a running total scoped to that one roll -- RollSpec.Roll gives every call
// its own counter, so sibling dice terms in one expression and separate
// repeats of a command are bounded independently, each against MaxDice on
// its own, never against a total shared across them.
type DiceCounter struct {
	n *atomic.Uint64
}

// NewDiceCounter builds a zeroed DiceCounter.
func NewDiceCounter() *DiceCounter {
	return &DiceCounter{n: atomic.NewUint64(0)}
}

// Add records n additional dice having been drawn during stage, returning
// errDiceLimit if the running total now exceeds MaxDice.
func (c *DiceCounter) Add(n int, stage growthStage) error {
	if n <= 0 {
		return nil
	}
	total := c.n.Add(uint64(n))
	if total > MaxDice {
		return errDiceLimit(stage)
	}
	return nil
}

// Count returns the running total of dice drawn so far.
func (c *DiceCounter) Count() uint64 {
	return c.n.Load()
}

// WithCounter returns a context carrying c as the active dice-growth counter.
func WithCounter(ctx context.Context, c *DiceCounter) context.Context {
	return context.WithValue(ctx, counterKey{}, c)
}

// counterFromContext returns the DiceCounter carried by ctx, creating a fresh
// one if ctx carries none -- so code exercising the roll pipeline directly
// (outside of Command/Expression evaluation) still gets the limit enforced.
func counterFromContext(ctx context.Context) *DiceCounter {
	if c, ok := ctx.Value(counterKey{}).(*DiceCounter); ok && c != nil {
		return c
	}
	return NewDiceCounter()
}
