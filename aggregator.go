package dice

import (
	"bytes"
	"fmt"
	"sort"
)

// An Aggregator reduces a final rolled Batch to an integer total and renders
// its own notation suffix (the "t f tt" / "t[...]" tail of a dice spec).
type Aggregator interface {
	Aggregate(b Batch) int64
	String() string
}

// Sum is the default Aggregator: the integer-coerced sum of the batch.
type Sum struct{}

// Aggregate returns the sum of b.
func (Sum) Aggregate(b Batch) int64 { return b.Sum() }

func (Sum) String() string { return "" }

// TargetFailureDouble implements the t/f/tt aggregator: each roll >= Double
// counts +2 (supersedes Target); else each roll >= Target counts +1; else
// each roll <= Failure counts -1. Any of the three thresholds may be unset
// (nil).
type TargetFailureDouble struct {
	Target  *int64
	Failure *int64
	Double  *int64
}

// Aggregate applies the d > t > f priority to every roll and sums the result.
func (a TargetFailureDouble) Aggregate(b Batch) int64 {
	var total int64
	for _, r := range b {
		v := int64(r)
		switch {
		case a.Double != nil && v >= *a.Double:
			total += 2
		case a.Target != nil && v >= *a.Target:
			total++
		case a.Failure != nil && v <= *a.Failure:
			total--
		}
	}
	return total
}

// String renders the aggregator's canonical notation suffix in the fixed
// order t, f, tt.
func (a TargetFailureDouble) String() string {
	var buf bytes.Buffer
	if a.Target != nil {
		fmt.Fprintf(&buf, "t%d", *a.Target)
	}
	if a.Failure != nil {
		fmt.Fprintf(&buf, "f%d", *a.Failure)
	}
	if a.Double != nil {
		fmt.Fprintf(&buf, "tt%d", *a.Double)
	}
	return buf.String()
}

// TargetEnum is the t[...] aggregator: each roll that is a member of Values
// counts +1.
type TargetEnum struct {
	Values map[int64]struct{}
}

// NewTargetEnum builds a TargetEnum from a set of values.
func NewTargetEnum(values ...int64) TargetEnum {
	set := make(map[int64]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return TargetEnum{Values: set}
}

// Aggregate counts rolls whose value is a member of the enumeration.
func (a TargetEnum) Aggregate(b Batch) int64 {
	var total int64
	for _, r := range b {
		if _, ok := a.Values[int64(r)]; ok {
			total++
		}
	}
	return total
}

// String renders "t[v1,v2,...]" with values sorted ascending, as required for
// round-trip fidelity.
func (a TargetEnum) String() string {
	values := make([]int64, 0, len(a.Values))
	for v := range a.Values {
		values = append(values, v)
	}
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })

	var buf bytes.Buffer
	buf.WriteString("t[")
	for i, v := range values {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, "%d", v)
	}
	buf.WriteByte(']')
	return buf.String()
}
