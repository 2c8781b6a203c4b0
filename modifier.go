package dice

import (
	"context"
	"strconv"
)

// A Modifier transforms one roll-pipeline stage's batch into the next,
// recording a ModifiedBatch along the way (spec.md §4.4). Modifiers run in
// source order; their effects are non-commutative.
type Modifier interface {
	// Apply runs the modifier against b, drawing any additional dice from src
	// and charging stage-appropriate growth against the context's
	// DiceCounter. It returns the per-roll ModifiedBatch record.
	Apply(ctx context.Context, b Batch, kind Kind, src Source) (ModifiedBatch, error)
	// String renders the modifier's notation token, e.g. "K3", "r2", "!".
	String() string
}

// KeepDrop implements KeepHi/KeepLo/DropHi/DropLo: mark N rolls as kept, the
// rest as dropped, per the package's stable keep/drop algorithm.
type KeepDrop struct {
	N    int
	High bool
	Keep bool
}

// KeepHigh builds a "keep the n highest" modifier.
func KeepHigh(n int) KeepDrop { return KeepDrop{N: n, High: true, Keep: true} }

// KeepLow builds a "keep the n lowest" modifier.
func KeepLow(n int) KeepDrop { return KeepDrop{N: n, High: false, Keep: true} }

// DropHigh builds a "drop the n highest" modifier, equivalent to
// KeepLow(len-n).
func DropHigh(n int) KeepDrop { return KeepDrop{N: n, High: true, Keep: false} }

// DropLow builds a "drop the n lowest" modifier, equivalent to
// KeepHigh(len-n).
func DropLow(n int) KeepDrop { return KeepDrop{N: n, High: false, Keep: false} }

// Apply marks len(b)-k rolls as Drop and the rest as None, where k is the
// effective keep count (N itself for Keep, len(b)-N for Drop).
func (m KeepDrop) Apply(ctx context.Context, b Batch, kind Kind, src Source) (ModifiedBatch, error) {
	n := len(b)
	if m.N > n {
		return nil, ParamErrorf("keep/drop count %d exceeds batch length %d", m.N, n)
	}

	k := m.N
	high := m.High
	if !m.Keep {
		k = n - m.N
		high = !high
	}

	keep := keepFlags(b, k, high)
	out := make(ModifiedBatch, n)
	for i, v := range b {
		if keep[i] {
			out[i] = noneRoll(v)
		} else {
			out[i] = dropRoll(v)
		}
	}
	return out, nil
}

func (m KeepDrop) String() string {
	switch {
	case m.Keep && m.High:
		return "K" + strconv.Itoa(m.N)
	case m.Keep && !m.High:
		return "k" + strconv.Itoa(m.N)
	case !m.Keep && m.High:
		return "D" + strconv.Itoa(m.N)
	default:
		return "d" + strconv.Itoa(m.N)
	}
}

// RerollOnce replaces a roll <= Threshold with exactly one replacement draw.
type RerollOnce struct {
	Threshold int64
}

// Apply draws one replacement for every roll at or below the threshold.
func (m RerollOnce) Apply(ctx context.Context, b Batch, kind Kind, src Source) (ModifiedBatch, error) {
	counter := counterFromContext(ctx)
	out := make(ModifiedBatch, len(b))
	for i, v := range b {
		if int64(v) > m.Threshold {
			out[i] = noneRoll(v)
			continue
		}
		if err := counter.Add(1, StageRerolls); err != nil {
			return nil, err
		}
		replacement := Roll(kind.Roll(src))
		out[i] = rerollOf(v, Batch{replacement})
	}
	return out, nil
}

func (m RerollOnce) String() string { return "r" + strconv.FormatInt(m.Threshold, 10) }

// RerollUnlimited rejects draws while the value is <= Threshold, accumulating
// every rejected draw, and stops on the first value above the threshold.
type RerollUnlimited struct {
	Threshold int64
}

// Apply repeatedly draws replacements for rolls at or below the threshold
// until a value above it is drawn, charging every draw against the dice
// limit's "rerolls" stage.
func (m RerollUnlimited) Apply(ctx context.Context, b Batch, kind Kind, src Source) (ModifiedBatch, error) {
	counter := counterFromContext(ctx)
	out := make(ModifiedBatch, len(b))
	for i, v := range b {
		if int64(v) > m.Threshold {
			out[i] = noneRoll(v)
			continue
		}
		var chain Batch
		cur := v
		for int64(cur) <= m.Threshold {
			if err := counter.Add(1, StageRerolls); err != nil {
				return nil, err
			}
			cur = Roll(kind.Roll(src))
			chain = append(chain, cur)
		}
		out[i] = rerollOf(v, chain)
	}
	return out, nil
}

func (m RerollUnlimited) String() string { return "ir" + strconv.FormatInt(m.Threshold, 10) }

// ExplodeOnce draws exactly one additional die for every roll at or above
// Threshold.
type ExplodeOnce struct {
	Threshold int64
}

// Apply draws one extra die for every roll meeting the threshold.
func (m ExplodeOnce) Apply(ctx context.Context, b Batch, kind Kind, src Source) (ModifiedBatch, error) {
	counter := counterFromContext(ctx)
	out := make(ModifiedBatch, len(b))
	for i, v := range b {
		if int64(v) < m.Threshold {
			out[i] = noneRoll(v)
			continue
		}
		if err := counter.Add(1, StageExplosion); err != nil {
			return nil, err
		}
		extra := Roll(kind.Roll(src))
		out[i] = explodeOf(v, Batch{extra})
	}
	return out, nil
}

func (m ExplodeOnce) String() string { return "e" + strconv.FormatInt(m.Threshold, 10) }

// ExplodeUnlimited keeps drawing additional dice while each new value is
// >= Threshold, stopping on the first value below it.
type ExplodeUnlimited struct {
	Threshold int64
}

// Apply repeatedly draws extra dice for every roll meeting the threshold
// until a value below it is drawn, charging every draw against the dice
// limit's "explosions" stage.
func (m ExplodeUnlimited) Apply(ctx context.Context, b Batch, kind Kind, src Source) (ModifiedBatch, error) {
	counter := counterFromContext(ctx)
	out := make(ModifiedBatch, len(b))
	for i, v := range b {
		if int64(v) < m.Threshold {
			out[i] = noneRoll(v)
			continue
		}
		var chain Batch
		cur := v
		for int64(cur) >= m.Threshold {
			if err := counter.Add(1, StageExplosion); err != nil {
				return nil, err
			}
			cur = Roll(kind.Roll(src))
			chain = append(chain, cur)
		}
		out[i] = explodeOf(v, chain)
	}
	return out, nil
}

func (m ExplodeUnlimited) String() string {
	if m.Threshold == 0 {
		return "!"
	}
	return "!" + strconv.FormatInt(m.Threshold, 10)
}

// checkRerollUnlimited rejects a RerollUnlimited whose threshold would never
// terminate against kind (spec.md §4, "t >= kind.max diverges").
func checkRerollUnlimited(t int64, kind Kind) error {
	if t >= kind.Max() {
		return ErrDivergingReroll
	}
	return nil
}

// checkExplodeUnlimited rejects an ExplodeUnlimited whose threshold would
// never terminate against kind ("t <= kind.min diverges").
func checkExplodeUnlimited(t int64, kind Kind) error {
	if t <= kind.Min() {
		return ErrDivergingExplode
	}
	return nil
}

// checkFudgeThreshold rejects a reroll/explode threshold that cannot denote
// any Fudge face: Fudge dice only ever roll -1, 0, or +1, so a threshold
// outside that range is a malformed literal rather than a meaningful (if
// degenerate) modifier.
func checkFudgeThreshold(t int64, kind Kind) error {
	if kind.Tag == KindFudge && (t < -1 || t > 1) {
		return ParseErrorf("Fudge reroll/explode threshold %d out of range [-1, 1]", t)
	}
	return nil
}
