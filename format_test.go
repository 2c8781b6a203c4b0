package dice

import "testing"

func rollNoMods(t *testing.T, values ...uint64) EvaluatedRollSpec {
	t.Helper()
	src := NewIteratorSource(values...)
	spec := RollSpec{Kind: Basic(6), Count: len(values)}
	ev, err := spec.Roll(testCtx(), src)
	if err != nil {
		t.Fatalf("Roll: %v", err)
	}
	return ev
}

func TestFormatHistoryNoModifiers(t *testing.T) {
	ev := rollNoMods(t, 1)
	f := NewFormatter()
	if got := f.FormatHistory(ev); got != "[1]" {
		t.Fatalf("FormatHistory = %q, want %q", got, "[1]")
	}
}

func TestFormatHistoryKeepHighMedium(t *testing.T) {
	src := NewIteratorSource(3, 1, 4, 2)
	spec := RollSpec{Kind: Basic(6), Count: 4, Modifiers: []Modifier{KeepHigh(2)}}
	ev, err := spec.Roll(testCtx(), src)
	if err != nil {
		t.Fatalf("Roll: %v", err)
	}
	f := Formatter{Verbosity: Medium}
	got := f.FormatHistory(ev)
	want := "[3, Drop(1), 4, Drop(2)]K2"
	if got != want {
		t.Fatalf("FormatHistory = %q, want %q", got, want)
	}
}

func TestFormatHistoryExplodeOncePlain(t *testing.T) {
	// 2d6 e6 with draws 6, 1, then an extra explosion draw of 3.
	src := NewIteratorSource(6, 1, 3)
	spec := RollSpec{Kind: Basic(6), Count: 2, Modifiers: []Modifier{ExplodeOnce{Threshold: 6}}}
	ev, err := spec.Roll(testCtx(), src)
	if err != nil {
		t.Fatalf("Roll: %v", err)
	}
	f := Formatter{Verbosity: Medium}
	got := f.FormatHistory(ev)
	want := "[6(Exploded)->3, 1]e6"
	if got != want {
		t.Fatalf("FormatHistory = %q, want %q", got, want)
	}
	if ev.Total != 10 {
		t.Fatalf("Total = %d, want 10", ev.Total)
	}
}

func TestFormatHistoryExplodeOnceMarkdown(t *testing.T) {
	src := NewIteratorSource(6, 1, 3)
	spec := RollSpec{Kind: Basic(6), Count: 2, Modifiers: []Modifier{ExplodeOnce{Threshold: 6}}}
	ev, err := spec.Roll(testCtx(), src)
	if err != nil {
		t.Fatalf("Roll: %v", err)
	}
	f := Formatter{Verbosity: Medium, Markdown: true}
	got := f.FormatHistory(ev)
	want := "\\[**6**" + zeroWidthSpace + "-> 3, 1\\]e6"
	if got != want {
		t.Fatalf("FormatHistory = %q, want %q", got, want)
	}
}

func TestFormatHistoryRerollOncePlain(t *testing.T) {
	src := NewIteratorSource(1, 5)
	spec := RollSpec{Kind: Basic(6), Count: 1, Modifiers: []Modifier{RerollOnce{Threshold: 2}}}
	ev, err := spec.Roll(testCtx(), src)
	if err != nil {
		t.Fatalf("Roll: %v", err)
	}
	f := Formatter{Verbosity: Medium}
	got := f.FormatHistory(ev)
	want := "[1->Reroll->5]r2"
	if got != want {
		t.Fatalf("FormatHistory = %q, want %q", got, want)
	}
}

func TestFormatHistoryRerollOnceMarkdown(t *testing.T) {
	src := NewIteratorSource(1, 5)
	spec := RollSpec{Kind: Basic(6), Count: 1, Modifiers: []Modifier{RerollOnce{Threshold: 2}}}
	ev, err := spec.Roll(testCtx(), src)
	if err != nil {
		t.Fatalf("Roll: %v", err)
	}
	f := Formatter{Verbosity: Medium, Markdown: true}
	got := f.FormatHistory(ev)
	want := "\\[~~*1*~~" + zeroWidthSpace + "-> 5\\]r2"
	if got != want {
		t.Fatalf("FormatHistory = %q, want %q", got, want)
	}
}

func TestFormatHistoryVerboseAppendsFinal(t *testing.T) {
	src := NewIteratorSource(3, 1, 4, 2)
	spec := RollSpec{Kind: Basic(6), Count: 4, Modifiers: []Modifier{KeepHigh(2)}}
	ev, err := spec.Roll(testCtx(), src)
	if err != nil {
		t.Fatalf("Roll: %v", err)
	}
	f := Formatter{Verbosity: Verbose}
	got := f.FormatHistory(ev)
	want := "[3, Drop(1), 4, Drop(2)]K2 -> [3, 4]"
	if got != want {
		t.Fatalf("FormatHistory = %q, want %q", got, want)
	}
}

func TestFormatHistoryShort(t *testing.T) {
	src := NewIteratorSource(3, 1, 4, 2)
	spec := RollSpec{Kind: Basic(6), Count: 4, Modifiers: []Modifier{KeepHigh(2)}}
	ev, err := spec.Roll(testCtx(), src)
	if err != nil {
		t.Fatalf("Roll: %v", err)
	}
	f := Formatter{Verbosity: Short}
	got := f.FormatHistory(ev)
	want := "[3, 1, 4, 2] -> [3, 4]"
	if got != want {
		t.Fatalf("FormatHistory = %q, want %q", got, want)
	}
}

func TestFormatTotal(t *testing.T) {
	f := Formatter{}
	if got := f.FormatTotal(3.0); got != "3.0" {
		t.Fatalf("FormatTotal = %q, want %q", got, "3.0")
	}
	fmd := Formatter{Markdown: true}
	if got := fmd.FormatTotal(3.0); got != "**3.0**" {
		t.Fatalf("FormatTotal markdown = %q, want %q", got, "**3.0**")
	}
}

func TestFormatSpec(t *testing.T) {
	f := Formatter{}
	target := int64(4)
	spec := RollSpec{
		Kind:       Basic(20),
		Count:      2,
		Modifiers:  []Modifier{KeepHigh(1), ExplodeOnce{Threshold: 20}},
		Aggregator: TargetFailureDouble{Target: &target},
	}
	got := f.FormatSpec(spec)
	want := "2d20 K1 e20 t4"
	if got != want {
		t.Fatalf("FormatSpec = %q, want %q", got, want)
	}
}

func TestFormatExprPlainAndMarkdown(t *testing.T) {
	e := Binary(OpMul, Block(Int(2)), Int(3))
	plain := Formatter{}
	if got := plain.FormatExpr(e); got != "(2) * 3" {
		t.Fatalf("FormatExpr plain = %q, want %q", got, "(2) * 3")
	}
	md := Formatter{Markdown: true}
	if got := md.FormatExpr(e); got != "\\(2\\) \\* 3" {
		t.Fatalf("FormatExpr markdown = %q, want %q", got, "\\(2\\) \\* 3")
	}
}

func TestFormatExprVarRef(t *testing.T) {
	ref := VarRef("hp", Int(10))
	short := Formatter{Verbosity: Short}
	if got := short.FormatExpr(ref); got != "$hp" {
		t.Fatalf("FormatExpr short = %q, want %q", got, "$hp")
	}
	medium := Formatter{Verbosity: Medium}
	if got := medium.FormatExpr(ref); got != "($hp: 10)" {
		t.Fatalf("FormatExpr medium = %q, want %q", got, "($hp: 10)")
	}
}
