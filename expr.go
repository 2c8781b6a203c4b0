package dice

import (
	"context"
	"strconv"
)

// ExprKind tags the variant an Expression holds.
type ExprKind int

// Recognised expression variants.
const (
	ExprInteger ExprKind = iota
	ExprFloat
	ExprBinary
	ExprBlock
	ExprVarRef
	ExprDice
)

// BinOp identifies an arithmetic operator.
type BinOp int

// Recognised operators.
const (
	OpAdd BinOp = iota
	OpSub
	OpMul
	OpDiv
)

func (op BinOp) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	default:
		return "?"
	}
}

// Expression is the parsed form of one arithmetic/dice term. Every node is
// both roll-able (via Eval) and displayable (via its normalized source
// form, see Formatter.FormatExpr). Expressions are immutable and cheaply shareable; Eval
// allocates a fresh EvaluatedExpression per call and never mutates the
// receiver.
type Expression struct {
	Kind ExprKind

	Integer int64
	Float   float64

	Op    BinOp
	Left  *Expression
	Right *Expression

	Inner *Expression // Block, VarRef

	VarName string

	Dice RollSpec
}

// Int builds an integer literal Expression.
func Int(v int64) *Expression { return &Expression{Kind: ExprInteger, Integer: v} }

// Float64 builds a float literal Expression.
func Float64(v float64) *Expression { return &Expression{Kind: ExprFloat, Float: v} }

// Binary builds a binary arithmetic Expression.
func Binary(op BinOp, left, right *Expression) *Expression {
	return &Expression{Kind: ExprBinary, Op: op, Left: left, Right: right}
}

// Block wraps inner as a parenthesised group, retained for formatting but
// transparent to arithmetic.
func Block(inner *Expression) *Expression {
	return &Expression{Kind: ExprBlock, Inner: inner}
}

// VarRef builds a $name reference that evaluates to the resolved inner
// expression.
func VarRef(name string, inner *Expression) *Expression {
	return &Expression{Kind: ExprVarRef, VarName: name, Inner: inner}
}

// DiceExpr builds a dice-term Expression.
func DiceExpr(spec RollSpec) *Expression {
	return &Expression{Kind: ExprDice, Dice: spec}
}

// EvaluatedExpression is the polymorphic evaluation result of an
// Expression: every variant collapses to a single f64 Total, with the
// original tree retained for formatting.
type EvaluatedExpression struct {
	Source *Expression

	// Set when Source.Kind == ExprDice.
	Dice *EvaluatedRollSpec

	// Set when Source.Kind is Binary/Block/VarRef.
	Left  *EvaluatedExpression
	Right *EvaluatedExpression
	Inner *EvaluatedExpression

	total float64
}

// Total returns the expression's f64-widened value.
func (e EvaluatedExpression) Total() float64 { return e.total }

// Eval rolls the expression tree: binary nodes roll their left child fully
// before their right child (the only externally visible effect of this
// order is the sequencing of draws from src), dice terms run the roll
// pipeline, and blocks/var-refs delegate to their inner expression.
func (e *Expression) Eval(ctx context.Context, src Source, vars map[string]*Expression) (EvaluatedExpression, error) {
	switch e.Kind {
	case ExprInteger:
		return EvaluatedExpression{Source: e, total: float64(e.Integer)}, nil
	case ExprFloat:
		return EvaluatedExpression{Source: e, total: e.Float}, nil
	case ExprBinary:
		left, err := e.Left.Eval(ctx, src, vars)
		if err != nil {
			return EvaluatedExpression{}, err
		}
		right, err := e.Right.Eval(ctx, src, vars)
		if err != nil {
			return EvaluatedExpression{}, err
		}
		var total float64
		switch e.Op {
		case OpAdd:
			total = left.Total() + right.Total()
		case OpSub:
			total = left.Total() - right.Total()
		case OpMul:
			total = left.Total() * right.Total()
		case OpDiv:
			total = left.Total() / right.Total()
		}
		return EvaluatedExpression{Source: e, Left: &left, Right: &right, total: total}, nil
	case ExprBlock:
		inner, err := e.Inner.Eval(ctx, src, vars)
		if err != nil {
			return EvaluatedExpression{}, err
		}
		return EvaluatedExpression{Source: e, Inner: &inner, total: inner.Total()}, nil
	case ExprVarRef:
		inner := e.Inner
		if inner == nil {
			bound, ok := vars[e.VarName]
			if !ok {
				return EvaluatedExpression{}, ErrUndefinedVariable
			}
			inner = bound
		}
		resolved, err := inner.Eval(ctx, src, vars)
		if err != nil {
			return EvaluatedExpression{}, err
		}
		return EvaluatedExpression{Source: e, Inner: &resolved, total: resolved.Total()}, nil
	case ExprDice:
		evaluated, err := e.Dice.Roll(ctx, src)
		if err != nil {
			return EvaluatedExpression{}, err
		}
		return EvaluatedExpression{Source: e, Dice: &evaluated, total: float64(evaluated.Total)}, nil
	default:
		return EvaluatedExpression{}, ParamErrorf("unknown expression kind %d", e.Kind)
	}
}

// formatFloat renders v with a trailing ".0" when its fractional part is
// zero, so that re-parsing the output classifies the literal as a float
// (round-trip fidelity, spec.md §4.3).
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	for _, c := range s {
		if c == '.' || c == 'e' || c == 'E' {
			return s
		}
	}
	return s + ".0"
}
