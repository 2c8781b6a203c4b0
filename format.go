package dice

import (
	"fmt"
	"strconv"
	"strings"
)

// Verbosity selects how much of a roll's history the Formatter renders.
type Verbosity int

// Recognised verbosity levels.
const (
	Short Verbosity = iota
	Medium
	Verbose
)

const zeroWidthSpace = "​"

// Formatter renders Expressions, Commands, and their evaluated results as
// notation text, in either plain or markdown flavor.
type Formatter struct {
	Verbosity Verbosity
	Markdown  bool
}

// NewFormatter builds a Formatter at the package default verbosity (Medium),
// plain text.
func NewFormatter() Formatter { return Formatter{Verbosity: Medium} }

// FormatHistory renders one evaluated RollSpec's roll history per the
// formatter's verbosity and flavor.
func (f Formatter) FormatHistory(ev EvaluatedRollSpec) string {
	var b strings.Builder

	if len(ev.History) == 0 {
		// No modifier ran: every verbosity collapses to the plain batch.
		f.writeBatch(&b, initialBatch(ev), ev.Spec.Kind)
		return b.String()
	}

	switch f.Verbosity {
	case Short:
		f.writeShort(&b, ev)
	case Medium:
		f.writeStages(&b, ev)
	case Verbose:
		f.writeStages(&b, ev)
		b.WriteString(" -> ")
		f.writeFinal(&b, ev)
	}
	return b.String()
}

func (f Formatter) writeShort(b *strings.Builder, ev EvaluatedRollSpec) {
	f.writeBatch(b, initialBatch(ev), ev.Spec.Kind)
	b.WriteString(" -> ")
	f.writeFinal(b, ev)
}

func (f Formatter) writeFinal(b *strings.Builder, ev EvaluatedRollSpec) {
	f.writeBatch(b, ev.Final, ev.Spec.Kind)
}

func (f Formatter) writeBatch(b *strings.Builder, batch Batch, kind Kind) {
	if f.Markdown {
		b.WriteString("\\[")
	} else {
		b.WriteByte('[')
	}
	for i, v := range batch {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(kind.FormatRoll(int64(v)))
	}
	if f.Markdown {
		b.WriteString("\\]")
	} else {
		b.WriteByte(']')
	}
}

func (f Formatter) writeStages(b *strings.Builder, ev EvaluatedRollSpec) {
	for i, entry := range ev.History {
		if i > 0 {
			b.WriteString(" -> ")
		}
		f.writeModifiedBatch(b, entry.Batch, ev.Spec.Kind)
		b.WriteString(entry.Modifier.String())
	}
}

// writeModifiedBatch renders one history stage as a bracketed,
// comma-separated list of per-roll renderings.
func (f Formatter) writeModifiedBatch(b *strings.Builder, mb ModifiedBatch, kind Kind) {
	if f.Markdown {
		b.WriteString("\\[")
	} else {
		b.WriteByte('[')
	}
	for i, m := range mb {
		if i > 0 {
			b.WriteString(", ")
		}
		f.writeModifiedRoll(b, m, kind)
	}
	if f.Markdown {
		b.WriteString("\\]")
	} else {
		b.WriteByte(']')
	}
}

func (f Formatter) writeModifiedRoll(b *strings.Builder, m ModifiedRoll, kind Kind) {
	switch m.Kind {
	case ModNone:
		b.WriteString(kind.FormatRoll(int64(m.Before)))
	case ModDrop:
		if f.Markdown {
			fmt.Fprintf(b, "~~*%s*~~", kind.FormatRoll(int64(m.Before)))
		} else {
			fmt.Fprintf(b, "Drop(%s)", kind.FormatRoll(int64(m.Before)))
		}
	case ModReroll:
		f.writeRerollChain(b, m.Before, m.Chain, kind)
	case ModExplode:
		f.writeExplodeChain(b, m.Before, m.Chain, kind)
	}
}

// writeRerollChain renders "v->Reroll->r1->Reroll->...->rn" in plain text
// (every value but the last is the one rerolled away), or the
// strikethrough-italic markdown form with a zero-width space guard before each
// arrow: "~~*v*~~-> ~~*r1*~~-> ... -> rn".
func (f Formatter) writeRerollChain(b *strings.Builder, before Roll, chain Batch, kind Kind) {
	values := append([]Roll{before}, chain...)
	for i, v := range values {
		last := i == len(values)-1
		s := kind.FormatRoll(int64(v))
		switch {
		case last:
			b.WriteString(s)
		case f.Markdown:
			fmt.Fprintf(b, "~~*%s*~~", s)
		default:
			b.WriteString(s)
		}
		if !last {
			if f.Markdown {
				b.WriteString(zeroWidthSpace + "-> ")
			} else {
				b.WriteString("->Reroll->")
			}
		}
	}
}

// writeExplodeChain renders "v(Exploded)->e1(Exploded)->...->en" in plain
// text, or the bold markdown form with a zero-width space guard before each
// arrow: "**v**-> **e1**-> ... -> en".
func (f Formatter) writeExplodeChain(b *strings.Builder, before Roll, chain Batch, kind Kind) {
	values := append([]Roll{before}, chain...)
	for i, v := range values {
		last := i == len(values)-1
		s := kind.FormatRoll(int64(v))
		switch {
		case last:
			b.WriteString(s)
		case f.Markdown:
			fmt.Fprintf(b, "**%s**", s)
		default:
			fmt.Fprintf(b, "%s(Exploded)", s)
		}
		if !last {
			if f.Markdown {
				b.WriteString(zeroWidthSpace + "-> ")
			} else {
				b.WriteString("->")
			}
		}
	}
}

func initialBatch(ev EvaluatedRollSpec) Batch {
	if len(ev.History) == 0 {
		return ev.Final
	}
	first := ev.History[0].Batch
	out := make(Batch, len(first))
	for i, m := range first {
		out[i] = m.Before
	}
	return out
}

// FormatSpec renders a RollSpec's normalized notation:
// {count}d{kind}{modifiers}{aggregator}.
func (f Formatter) FormatSpec(spec RollSpec) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%dd%s", spec.Count, spec.Kind.String())
	for _, m := range spec.Modifiers {
		b.WriteByte(' ')
		b.WriteString(m.String())
	}
	if spec.Aggregator != nil {
		if s := spec.Aggregator.String(); s != "" {
			b.WriteByte(' ')
			b.WriteString(s)
		}
	}
	return b.String()
}

// FormatTotal renders total as a bold markdown value or a plain one.
func (f Formatter) FormatTotal(total float64) string {
	s := formatFloat(total)
	if f.Markdown {
		return "**" + s + "**"
	}
	return s
}

// FormatExpr renders e's normalized source form.
func (f Formatter) FormatExpr(e *Expression) string {
	switch e.Kind {
	case ExprInteger:
		return strconv.FormatInt(e.Integer, 10)
	case ExprFloat:
		return formatFloat(e.Float)
	case ExprBinary:
		op := e.Op.String()
		if f.Markdown && e.Op == OpMul {
			op = "\\*"
		}
		return f.FormatExpr(e.Left) + " " + op + " " + f.FormatExpr(e.Right)
	case ExprBlock:
		if f.Markdown {
			return "\\(" + f.FormatExpr(e.Inner) + "\\)"
		}
		return "(" + f.FormatExpr(e.Inner) + ")"
	case ExprVarRef:
		if f.Verbosity == Short || e.Inner == nil {
			return "$" + e.VarName
		}
		return "($" + e.VarName + ": " + f.FormatExpr(e.Inner) + ")"
	case ExprDice:
		return f.FormatSpec(e.Dice)
	default:
		return ""
	}
}
