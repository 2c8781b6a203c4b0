package dice

import "strconv"

// A Kind identifies the family of dice a RollSpec draws from: Basic(n) draws
// uniformly from [1, n]; Fudge draws from {-1, 0, +1}. This is the tagged
// variant the package uses in place of trait-object polymorphism (see
// SPEC_FULL.md §9): one concrete signed Roll representation, dispatched on
// KindTag rather than through an interface per die.
type KindTag int

// Recognised dice kinds.
const (
	KindBasic KindTag = iota
	KindFudge
)

// A Kind is a dice-kind value: KindBasic carries a positive side count in
// Sides; KindFudge ignores Sides.
type Kind struct {
	Tag   KindTag
	Sides uint64
}

// Basic builds a Kind for an n-sided die. n must be in [1, math.MaxUint32];
// the parser enforces this, Basic does not re-check it.
func Basic(sides uint64) Kind {
	return Kind{Tag: KindBasic, Sides: sides}
}

// Fudge is the Kind for a Fudge (Fate) die.
var Fudge = Kind{Tag: KindFudge}

// Min returns the smallest possible single-roll value for the kind.
func (k Kind) Min() int64 {
	if k.Tag == KindFudge {
		return -1
	}
	return 1
}

// Max returns the largest possible single-roll value for the kind.
func (k Kind) Max() int64 {
	if k.Tag == KindFudge {
		return 1
	}
	return int64(k.Sides)
}

// Roll draws one value from src according to the kind.
func (k Kind) Roll(src Source) int64 {
	if k.Tag == KindFudge {
		return drawFudge(src)
	}
	return int64(src.Draw(k.Sides))
}

// String renders the kind's notation suffix, e.g. "6" for Basic(6) or "F" for
// Fudge -- the part of "2d6"/"2dF" that follows the "d".
func (k Kind) String() string {
	if k.Tag == KindFudge {
		return "F"
	}
	return strconv.FormatUint(k.Sides, 10)
}

// FormatRoll renders a single rolled value the way the kind displays it:
// Fudge rolls render as "(-)", "( )", "(+)"; Basic rolls render as plain
// decimal.
func (k Kind) FormatRoll(v int64) string {
	if k.Tag != KindFudge {
		return strconv.FormatInt(v, 10)
	}
	switch v {
	case -1:
		return "(-)"
	case 0:
		return "( )"
	case 1:
		return "(+)"
	default:
		return "(?)"
	}
}
