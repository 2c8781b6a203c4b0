package dice

// Roll is a single die draw, already resolved to its signed integer
// representation (for Fudge dice, one of -1, 0, +1; for Basic(n) dice, a
// value in [1, n]).
type Roll int64

// Batch is an ordered list of rolls of the same Kind.
type Batch []Roll

// Sum returns the integer-coerced sum of a batch, matching the Sum
// aggregator's per-roll coercion.
func (b Batch) Sum() int64 {
	var total int64
	for _, r := range b {
		total += int64(r)
	}
	return total
}

// ModKind identifies which transformation, if any, a ModifiedRoll records.
type ModKind int

// Recognised per-roll modification kinds.
const (
	ModNone ModKind = iota
	ModDrop
	ModReroll
	ModExplode
)

// A ModifiedRoll is the record of what happened to one roll as a single
// modifier stage was applied to it: it was left alone (ModNone), marked
// dropped (ModDrop), replaced by a chain of rerolls (ModReroll), or followed
// by a chain of exploded extra draws (ModExplode).
type ModifiedRoll struct {
	Before Roll
	Kind   ModKind
	// Chain holds the successive reroll values (ModReroll) or the extra
	// exploded draws (ModExplode), in the order drawn. Unused for
	// ModNone/ModDrop.
	Chain Batch
}

// noneRoll builds the ModNone record for a roll a modifier left untouched.
func noneRoll(v Roll) ModifiedRoll {
	return ModifiedRoll{Before: v, Kind: ModNone}
}

// dropRoll builds the ModDrop record for a roll a modifier dropped.
func dropRoll(v Roll) ModifiedRoll {
	return ModifiedRoll{Before: v, Kind: ModDrop}
}

// rerollOf builds the ModReroll record for v replaced by the chain of
// successive reroll draws. An empty chain collapses to ModNone, per the
// package's ModifiedRoll invariant.
func rerollOf(v Roll, chain Batch) ModifiedRoll {
	if len(chain) == 0 {
		return noneRoll(v)
	}
	return ModifiedRoll{Before: v, Kind: ModReroll, Chain: chain}
}

// explodeOf builds the ModExplode record for v followed by the chain of extra
// exploded draws. An empty chain collapses to ModNone.
func explodeOf(v Roll, chain Batch) ModifiedRoll {
	if len(chain) == 0 {
		return noneRoll(v)
	}
	return ModifiedRoll{Before: v, Kind: ModExplode, Chain: chain}
}

// After projects a ModifiedRoll onto the batch the next pipeline stage (or
// the final total, for the last stage) actually sees:
//
//	ModNone    -> [Before]
//	ModDrop    -> []
//	ModReroll  -> [last reroll]
//	ModExplode -> [Before, chain...]
func (m ModifiedRoll) After() Batch {
	switch m.Kind {
	case ModDrop:
		return nil
	case ModReroll:
		if len(m.Chain) == 0 {
			return Batch{m.Before}
		}
		return Batch{m.Chain[len(m.Chain)-1]}
	case ModExplode:
		if len(m.Chain) == 0 {
			return Batch{m.Before}
		}
		out := make(Batch, 0, 1+len(m.Chain))
		out = append(out, m.Before)
		out = append(out, m.Chain...)
		return out
	default:
		return Batch{m.Before}
	}
}

// ModifiedBatch is the ordered, per-roll result of applying one modifier to a
// batch.
type ModifiedBatch []ModifiedRoll

// After concatenates After() over every entry, producing the batch the next
// stage consumes.
func (mb ModifiedBatch) After() Batch {
	out := make(Batch, 0, len(mb))
	for _, m := range mb {
		out = append(out, m.After()...)
	}
	return out
}

// HistoryEntry records one modifier stage: the modifier that ran and the
// ModifiedBatch it produced.
type HistoryEntry struct {
	Modifier Modifier
	Batch    ModifiedBatch
}

// History is the ordered list of (modifier, resulting batch) pairs produced
// while evaluating a RollSpec.
type History []HistoryEntry
