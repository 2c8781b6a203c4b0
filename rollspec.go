package dice

import "context"

// A RollSpec is the fully-parsed form of one dice term: a die kind, an
// initial count, an ordered list of modifiers, and an aggregator.
type RollSpec struct {
	Kind       Kind
	Count      int
	Modifiers  []Modifier
	Aggregator Aggregator
}

// EvaluatedRollSpec is the result of rolling a RollSpec once: the retained
// per-stage History plus the final batch and aggregate total.
type EvaluatedRollSpec struct {
	Spec    RollSpec
	History History
	Final   Batch
	Total   int64
}

// Roll executes the roll pipeline described in the roll-pipeline component:
// draw Count initial values, thread the batch through each modifier in
// order (enforcing the dice limit at every growth stage), then aggregate.
func (r RollSpec) Roll(ctx context.Context, src Source) (EvaluatedRollSpec, error) {
	if r.Count < 0 {
		return EvaluatedRollSpec{}, ParamErrorf("dice count must not be negative")
	}
	if r.Kind.Tag == KindBasic && r.Kind.Sides == 0 {
		return EvaluatedRollSpec{}, ErrZeroSided
	}

	// Each roll gets its own counter: the dice limit bounds the growth of
	// this roll's own batch (initial draw plus any reroll/explosion chain),
	// not a running total shared with sibling dice terms or other repeats.
	counter := NewDiceCounter()
	ctx = WithCounter(ctx, counter)
	if err := counter.Add(r.Count, StageParse); err != nil {
		return EvaluatedRollSpec{}, err
	}

	batch := make(Batch, r.Count)
	for i := range batch {
		batch[i] = Roll(r.Kind.Roll(src))
	}

	history := make(History, 0, len(r.Modifiers))
	for _, m := range r.Modifiers {
		mb, err := m.Apply(ctx, batch, r.Kind, src)
		if err != nil {
			return EvaluatedRollSpec{}, err
		}
		next := mb.After()
		if len(next) > MaxDice {
			return EvaluatedRollSpec{}, errDiceLimit(StageBatch)
		}
		history = append(history, HistoryEntry{Modifier: m, Batch: mb})
		batch = next
	}

	agg := r.Aggregator
	if agg == nil {
		agg = Sum{}
	}

	return EvaluatedRollSpec{
		Spec:    r,
		History: history,
		Final:   batch,
		Total:   agg.Aggregate(batch),
	}, nil
}
