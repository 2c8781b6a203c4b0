package dice

import (
	"context"
	"testing"
)

func TestParseExpressionSimpleDice(t *testing.T) {
	e, err := ParseExpression("2d6")
	if err != nil {
		t.Fatalf("ParseExpression: %v", err)
	}
	if e.Kind != ExprDice || e.Dice.Count != 2 || e.Dice.Kind.Sides != 6 {
		t.Fatalf("parsed = %+v, want dice(2d6)", e)
	}
}

func TestParseExpressionArithmeticAboveDice(t *testing.T) {
	// "2d6 + 3" must parse as add(dice(2d6), 3), never dice with a "+3" suffix.
	e, err := ParseExpression("2d6 + 3")
	if err != nil {
		t.Fatalf("ParseExpression: %v", err)
	}
	if e.Kind != ExprBinary || e.Op != OpAdd {
		t.Fatalf("parsed = %+v, want top-level binary add", e)
	}
	if e.Left.Kind != ExprDice || e.Left.Dice.Count != 2 {
		t.Fatalf("left = %+v, want dice(2d6)", e.Left)
	}
	if e.Right.Kind != ExprInteger || e.Right.Integer != 3 {
		t.Fatalf("right = %+v, want integer 3", e.Right)
	}
}

func TestParseExpressionPrecedence(t *testing.T) {
	e, err := ParseExpression("1 + 2 * 3")
	if err != nil {
		t.Fatalf("ParseExpression: %v", err)
	}
	if e.Kind != ExprBinary || e.Op != OpAdd {
		t.Fatalf("top-level op = %v, want OpAdd", e.Op)
	}
	if e.Right.Kind != ExprBinary || e.Right.Op != OpMul {
		t.Fatalf("right subtree = %+v, want multiplication", e.Right)
	}
}

func TestParseExpressionUnaryMinus(t *testing.T) {
	e, err := ParseExpression("-5")
	if err != nil {
		t.Fatalf("ParseExpression: %v", err)
	}
	if e.Kind != ExprInteger || e.Integer != -5 {
		t.Fatalf("parsed = %+v, want integer -5", e)
	}
}

func TestParseExpressionParens(t *testing.T) {
	e, err := ParseExpression("(1 + 2) * 3")
	if err != nil {
		t.Fatalf("ParseExpression: %v", err)
	}
	if e.Kind != ExprBinary || e.Op != OpMul {
		t.Fatalf("top-level op = %v, want OpMul", e.Op)
	}
	if e.Left.Kind != ExprBlock {
		t.Fatalf("left = %+v, want a Block", e.Left)
	}
}

func TestParseExpressionVarRef(t *testing.T) {
	e, err := ParseExpression("$strength")
	if err != nil {
		t.Fatalf("ParseExpression: %v", err)
	}
	if e.Kind != ExprVarRef || e.VarName != "strength" {
		t.Fatalf("parsed = %+v, want VarRef(strength)", e)
	}
}

func TestParseDiceTermModifiersAndAggregator(t *testing.T) {
	e, err := ParseExpression("4d6K3r2t4")
	if err != nil {
		t.Fatalf("ParseExpression: %v", err)
	}
	spec := e.Dice
	if spec.Count != 4 || spec.Kind.Sides != 6 {
		t.Fatalf("spec = %+v, want 4d6", spec)
	}
	if len(spec.Modifiers) != 2 {
		t.Fatalf("modifiers = %v, want 2", spec.Modifiers)
	}
	if _, ok := spec.Modifiers[0].(KeepDrop); !ok {
		t.Fatalf("modifier[0] = %T, want KeepDrop", spec.Modifiers[0])
	}
	if _, ok := spec.Modifiers[1].(RerollOnce); !ok {
		t.Fatalf("modifier[1] = %T, want RerollOnce", spec.Modifiers[1])
	}
	if _, ok := spec.Aggregator.(TargetFailureDouble); !ok {
		t.Fatalf("aggregator = %T, want TargetFailureDouble", spec.Aggregator)
	}
}

func TestParseDiceTermFudge(t *testing.T) {
	e, err := ParseExpression("3dF")
	if err != nil {
		t.Fatalf("ParseExpression: %v", err)
	}
	if e.Dice.Kind.Tag != KindFudge || e.Dice.Count != 3 {
		t.Fatalf("spec = %+v, want 3dF", e.Dice)
	}
}

func TestParseDiceTermImplicitCountOne(t *testing.T) {
	e, err := ParseExpression("d20")
	if err != nil {
		t.Fatalf("ParseExpression: %v", err)
	}
	if e.Dice.Count != 1 {
		t.Fatalf("count = %d, want 1", e.Dice.Count)
	}
}

func TestParseDiceTermTargetEnum(t *testing.T) {
	e, err := ParseExpression("5d10t[8,9,10]")
	if err != nil {
		t.Fatalf("ParseExpression: %v", err)
	}
	enum, ok := e.Dice.Aggregator.(TargetEnum)
	if !ok {
		t.Fatalf("aggregator = %T, want TargetEnum", e.Dice.Aggregator)
	}
	if len(enum.Values) != 3 {
		t.Fatalf("enum values = %v, want 3 entries", enum.Values)
	}
}

func TestParseDiceTermDuplicateTarget(t *testing.T) {
	_, err := ParseExpression("3d6t4t5")
	if err == nil {
		t.Fatal("expected error for duplicate target aggregator")
	}
}

func TestParseCommandRepeatSuffix(t *testing.T) {
	cmd, err := ParseCommand("1d6^+2")
	if err != nil {
		t.Fatalf("ParseCommand: %v", err)
	}
	if cmd.Repeat.Mode != RepeatSum || cmd.Repeat.Count != 2 {
		t.Fatalf("repeat = %+v, want Sum/2", cmd.Repeat)
	}
}

func TestParseCommandSortSuffix(t *testing.T) {
	cmd, err := ParseCommand("1d6^#2")
	if err != nil {
		t.Fatalf("ParseCommand: %v", err)
	}
	if cmd.Repeat.Mode != RepeatSort {
		t.Fatalf("mode = %v, want RepeatSort", cmd.Repeat.Mode)
	}
}

func TestParseCommandReason(t *testing.T) {
	cmd, err := ParseCommand("1d20 + 3 : attack roll")
	if err != nil {
		t.Fatalf("ParseCommand: %v", err)
	}
	if cmd.Reason != "attack roll" {
		t.Fatalf("reason = %q, want %q", cmd.Reason, "attack roll")
	}
}

func TestParseVarDecl(t *testing.T) {
	name, expr, reason, err := ParseVarDecl("$hp = 10 + 2 : max health")
	if err != nil {
		t.Fatalf("ParseVarDecl: %v", err)
	}
	if name != "hp" {
		t.Fatalf("name = %q, want %q", name, "hp")
	}
	if expr.Kind != ExprBinary {
		t.Fatalf("expr = %+v, want binary", expr)
	}
	if reason != "max health" {
		t.Fatalf("reason = %q, want %q", reason, "max health")
	}
}

func TestParseErrorZeroSided(t *testing.T) {
	_, err := ParseExpression("d0")
	if err != ErrZeroSided {
		t.Fatalf("err = %v, want ErrZeroSided", err)
	}
	if _, ok := err.(*ParseError); !ok {
		t.Fatalf("err = %T, want *ParseError", err)
	}
}

func TestParseErrorRepeatOverflow(t *testing.T) {
	_, err := ParseCommand("d9^95555555555555555555")
	if err == nil {
		t.Fatal("expected ParseError for repeat-count overflow")
	}
	if _, ok := err.(*ParseError); !ok {
		t.Fatalf("err = %T, want *ParseError", err)
	}
}

func TestParseErrorDivergingRerollUnlimited(t *testing.T) {
	_, err := ParseExpression("1d1ir1")
	if err != ErrDivergingReroll {
		t.Fatalf("err = %v, want ErrDivergingReroll", err)
	}
}

func TestParseErrorFudgeThresholdOverflow(t *testing.T) {
	_, err := ParseExpression("1dFir6")
	if _, ok := err.(*ParseError); !ok {
		t.Fatalf("err = %v (%T), want *ParseError for Fudge threshold overflow", err, err)
	}
}

func TestParseErrorMalformedTrailingInput(t *testing.T) {
	_, err := ParseExpression("1d6 +")
	if err == nil {
		t.Fatal("expected error for trailing operator with no right operand")
	}
}

func TestEndToEndKeepHighExplode(t *testing.T) {
	// 2d20K1 e20: keep the higher of two d20s, then explode it once if it
	// reaches 20. The draws 15 and 9 keep 15, which is below the explode
	// threshold, so no extra die is drawn.
	src := NewIteratorSource(15, 9)
	cmd, err := ParseCommand("2d20K1 e20")
	if err != nil {
		t.Fatalf("ParseCommand: %v", err)
	}
	ctx := WithCounter(context.Background(), NewDiceCounter())
	ev, err := cmd.Run(ctx, src, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if ev.Runs[0].Total() != 15 {
		t.Fatalf("Total = %v, want 15", ev.Runs[0].Total())
	}
}

func TestEndToEndBlockRepeatSum(t *testing.T) {
	src := NewIteratorSource(1, 2)
	cmd, err := ParseCommand("(1d6)^+2")
	if err != nil {
		t.Fatalf("ParseCommand: %v", err)
	}
	ctx := WithCounter(context.Background(), NewDiceCounter())
	ev, err := cmd.Run(ctx, src, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if ev.Total == nil || *ev.Total != 3 {
		t.Fatalf("Total = %v, want 3", ev.Total)
	}
}

func TestParseDiceTermWhitespaceInSuffix(t *testing.T) {
	// The die head's modifier/aggregator suffix may contain embedded
	// whitespace: "2d20K1 e1 + 3" and "2d20 e2" are as valid as their
	// unspaced equivalents.
	e, err := ParseExpression("2d20K1 e1 + 3")
	if err != nil {
		t.Fatalf("ParseExpression: %v", err)
	}
	if e.Kind != ExprBinary || e.Op != OpAdd {
		t.Fatalf("parsed = %+v, want top-level binary add", e)
	}
	spec := e.Left.Dice
	if spec.Count != 2 || spec.Kind.Sides != 20 {
		t.Fatalf("spec = %+v, want 2d20", spec)
	}
	if len(spec.Modifiers) != 2 {
		t.Fatalf("modifiers = %v, want 2 (KeepHigh, ExplodeOnce)", spec.Modifiers)
	}
	if _, ok := spec.Modifiers[0].(KeepDrop); !ok {
		t.Fatalf("modifier[0] = %T, want KeepDrop", spec.Modifiers[0])
	}
	if _, ok := spec.Modifiers[1].(ExplodeOnce); !ok {
		t.Fatalf("modifier[1] = %T, want ExplodeOnce", spec.Modifiers[1])
	}
	if e.Right.Kind != ExprInteger || e.Right.Integer != 3 {
		t.Fatalf("right = %+v, want integer 3", e.Right)
	}

	e2, err := ParseExpression("2d20 e2")
	if err != nil {
		t.Fatalf("ParseExpression: %v", err)
	}
	if len(e2.Dice.Modifiers) != 1 {
		t.Fatalf("modifiers = %v, want 1", e2.Dice.Modifiers)
	}
	explode, ok := e2.Dice.Modifiers[0].(ExplodeOnce)
	if !ok || explode.Threshold != 2 {
		t.Fatalf("modifier[0] = %+v, want ExplodeOnce{Threshold: 2}", e2.Dice.Modifiers[0])
	}
}

func TestParseDiceTermWhitespaceBetweenModifiers(t *testing.T) {
	// "20d20 e tt20": an explode-once with no explicit threshold, then a
	// space, then a double-target-20 aggregator -- two suffix segments
	// separated by whitespace rather than run together.
	e, err := ParseExpression("20d20 e tt20")
	if err != nil {
		t.Fatalf("ParseExpression: %v", err)
	}
	spec := e.Dice
	if spec.Count != 20 || spec.Kind.Sides != 20 {
		t.Fatalf("spec = %+v, want 20d20", spec)
	}
	if len(spec.Modifiers) != 1 {
		t.Fatalf("modifiers = %v, want 1", spec.Modifiers)
	}
	explode, ok := spec.Modifiers[0].(ExplodeOnce)
	if !ok || explode.Threshold != spec.Kind.Max() {
		t.Fatalf("modifier[0] = %+v, want ExplodeOnce at kind max", spec.Modifiers[0])
	}
	agg, ok := spec.Aggregator.(TargetFailureDouble)
	if !ok || agg.Double == nil || *agg.Double != 20 {
		t.Fatalf("aggregator = %+v, want TargetFailureDouble{Double: 20}", spec.Aggregator)
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	// parse(format(parse(x))) == format(parse(x)): formatting a parsed
	// RollSpec must produce notation the parser can read back, even when
	// the spec carries modifiers and an aggregator.
	f := NewFormatter()
	for _, src := range []string{
		"2d20K1e1",
		"4d6K3r2t4",
		"3dF",
		"5d10t[8,9,10]",
	} {
		e, err := ParseExpression(src)
		if err != nil {
			t.Fatalf("ParseExpression(%q): %v", src, err)
		}
		formatted := f.FormatSpec(e.Dice)

		e2, err := ParseExpression(formatted)
		if err != nil {
			t.Fatalf("re-parsing %q (formatted from %q): %v", formatted, src, err)
		}
		refmt := f.FormatSpec(e2.Dice)
		if refmt != formatted {
			t.Fatalf("format(parse(%q)) = %q, want %q", formatted, refmt, formatted)
		}
	}
}

func TestDiceLimitIndependentAcrossSiblingTerms(t *testing.T) {
	// Two sibling dice terms, each safely under MaxDice on its own, must
	// not spuriously fail by accumulating into a shared running total.
	e, err := ParseExpression("4999d6 + 1d6")
	if err != nil {
		t.Fatalf("ParseExpression: %v", err)
	}
	ev, err := e.Eval(context.Background(), NewIteratorSource(1), nil)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if ev.Total() != 5000 {
		t.Fatalf("Total = %v, want 5000", ev.Total())
	}
}

func TestDiceLimitIndependentAcrossRepeats(t *testing.T) {
	// A command repeating a 4999-dice roll twice must not fail: each
	// repetition is bounded on its own, not against a shared total.
	cmd, err := ParseCommand("(4999d6)^2")
	if err != nil {
		t.Fatalf("ParseCommand: %v", err)
	}
	ev, err := cmd.Run(context.Background(), NewIteratorSource(1), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(ev.Runs) != 2 {
		t.Fatalf("Runs = %d, want 2", len(ev.Runs))
	}
}
