package dice

import (
	"context"
	"math"
)

// RepeatMode selects how a Command's repeated evaluations combine into a
// command-level total.
type RepeatMode int

// Recognised repeat modes.
const (
	RepeatNone RepeatMode = iota
	RepeatSum
	RepeatSort
)

// Repeat describes a Command's repetition: evaluate the expression Count
// times in order, then combine per Mode.
type Repeat struct {
	Count int
	Mode  RepeatMode
}

// A Command wraps an Expression with a repeat count/mode and an optional
// trailing reason.
type Command struct {
	Expr   *Expression
	Repeat Repeat
	Reason string
}

// EvaluatedCommand is the result of running a Command: every repetition's
// EvaluatedExpression in evaluation order, plus the command-level total
// (always nil for RepeatSort, and nil for RepeatNone with more than one
// repetition, since those cases do not define a single combined total).
type EvaluatedCommand struct {
	Command Command
	Runs    []EvaluatedExpression
	Total   *float64
}

// Run evaluates cmd: it rolls Expr Repeat.Count times (at least once),
// checking the repeat count itself against the dice limit, sorts by total
// order when Mode is RepeatSort, and sums when Mode is RepeatSum. Each
// repetition's dice terms are bounded independently (see RollSpec.Roll);
// the repeat count is the only thing checked here.
func (cmd Command) Run(ctx context.Context, src Source, vars map[string]*Expression) (EvaluatedCommand, error) {
	count := cmd.Repeat.Count
	if count <= 0 {
		count = 1
	}
	if count > MaxDice {
		return EvaluatedCommand{}, errDiceLimit(StageRepeat)
	}

	runs := make([]EvaluatedExpression, 0, count)
	for i := 0; i < count; i++ {
		run, err := cmd.Expr.Eval(ctx, src, vars)
		if err != nil {
			return EvaluatedCommand{}, err
		}
		runs = append(runs, run)
	}

	switch cmd.Repeat.Mode {
	case RepeatSort:
		sortTotalOrder(runs)
		return EvaluatedCommand{Command: cmd, Runs: runs}, nil
	case RepeatSum:
		var total float64
		for _, r := range runs {
			total += r.Total()
		}
		return EvaluatedCommand{Command: cmd, Runs: runs, Total: &total}, nil
	default:
		if len(runs) == 1 {
			total := runs[0].Total()
			return EvaluatedCommand{Command: cmd, Runs: runs, Total: &total}, nil
		}
		return EvaluatedCommand{Command: cmd, Runs: runs}, nil
	}
}

// totalOrderKey maps a float64 onto a total-ordered uint64 key (matching the
// bit-pattern ordering math.Float64bits gives non-NaN values, with NaN
// sorted below every number), so that repeated rolls sort deterministically
// even when an expression's arithmetic produces NaN (e.g. 0/0).
func totalOrderKey(f float64) uint64 {
	if math.IsNaN(f) {
		return 0
	}
	bits := math.Float64bits(f)
	if bits&(1<<63) != 0 {
		return ^bits
	}
	return bits | (1 << 63)
}

// sortTotalOrder sorts runs ascending by total using a NaN-safe total
// order, per the repeat-sort mode's stated requirement.
func sortTotalOrder(runs []EvaluatedExpression) {
	// Insertion sort: repeat counts are bounded by the dice limit and this
	// keeps the comparator (and its NaN handling) easy to verify by hand.
	for i := 1; i < len(runs); i++ {
		j := i
		for j > 0 && totalOrderKey(runs[j-1].Total()) > totalOrderKey(runs[j].Total()) {
			runs[j-1], runs[j] = runs[j], runs[j-1]
			j--
		}
	}
}
