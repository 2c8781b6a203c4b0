package dice

import "testing"

func TestSumAggregate(t *testing.T) {
	if got := (Sum{}).Aggregate(Batch{1, 2, 3}); got != 6 {
		t.Fatalf("Sum.Aggregate = %d, want 6", got)
	}
	if got := (Sum{}).String(); got != "" {
		t.Fatalf("Sum.String() = %q, want empty", got)
	}
}

func TestTargetFailureDoubleAggregate(t *testing.T) {
	target := int64(4)
	failure := int64(1)
	double := int64(6)
	agg := TargetFailureDouble{Target: &target, Failure: &failure, Double: &double}

	// 6 (double, +2), 4 (target, +1), 1 (failure, -1), 2 (neither, +0)
	got := agg.Aggregate(Batch{6, 4, 1, 2})
	if got != 2 {
		t.Fatalf("Aggregate = %d, want 2", got)
	}
	if got := agg.String(); got != "t4f1tt6" {
		t.Fatalf("String() = %q, want %q", got, "t4f1tt6")
	}
}

func TestTargetFailureDoublePartial(t *testing.T) {
	target := int64(5)
	agg := TargetFailureDouble{Target: &target}
	if got := agg.String(); got != "t5" {
		t.Fatalf("String() = %q, want %q", got, "t5")
	}
}

func TestTargetEnumAggregate(t *testing.T) {
	agg := NewTargetEnum(2, 4, 6)
	if got := agg.Aggregate(Batch{1, 2, 3, 4, 5, 6}); got != 3 {
		t.Fatalf("Aggregate = %d, want 3", got)
	}
}

func TestTargetEnumString(t *testing.T) {
	agg := NewTargetEnum(5, 1, 3)
	if got := agg.String(); got != "t[1,3,5]" {
		t.Fatalf("String() = %q, want %q", got, "t[1,3,5]")
	}
}
