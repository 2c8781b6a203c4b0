package dice

import (
	crypto "crypto/rand"
	"encoding/binary"
	"math/rand"
)

// A Source abstracts a single die draw from [1, sides]. The roll pipeline
// only ever calls Draw; it makes no assumption about thread-safety,
// restartability, or statistical quality of the implementation. Callers that
// want to share one Source across concurrent rolls must synchronize it
// themselves (see the sync subpackage).
type Source interface {
	// Draw returns a uniformly distributed value in [1, sides]. sides must be
	// >= 1.
	Draw(sides uint64) uint64
}

// DefaultSource is a uniform PRNG-backed Source seeded from the system CSPRNG.
// It is the Source used when callers do not supply their own.
var DefaultSource Source = NewPRNGSource()

// PRNGSource is a Source backed by math/rand, seeded once from crypto/rand at
// construction. It is not safe for concurrent use by multiple goroutines
// without external synchronization, matching the package's concurrency model.
type PRNGSource struct {
	rnd *rand.Rand
}

// NewPRNGSource builds a PRNGSource seeded from the system CSPRNG.
func NewPRNGSource() *PRNGSource {
	var seed int64
	var buf [8]byte
	if _, err := crypto.Read(buf[:]); err == nil {
		seed = int64(binary.BigEndian.Uint64(buf[:]))
	}
	return &PRNGSource{rnd: rand.New(rand.NewSource(seed))}
}

// NewSeededPRNGSource builds a PRNGSource from an explicit seed, useful for
// reproducible (but not cryptographically random) rolls.
func NewSeededPRNGSource(seed int64) *PRNGSource {
	return &PRNGSource{rnd: rand.New(rand.NewSource(seed))}
}

// Draw returns a value in [1, sides].
func (s *PRNGSource) Draw(sides uint64) uint64 {
	if sides == 0 {
		return 0
	}
	return uint64(s.rnd.Int63n(int64(sides))) + 1
}

// IteratorSource is a deterministic Source that replays a fixed sequence of
// values in order. It exists for tests and reproducible demonstrations; it
// hands values through unchanged, so callers are responsible for supplying a
// sequence whose values are valid for the dice sizes they are used with
// (exactly like the reference implementation's test mock).
type IteratorSource struct {
	values []uint64
	pos    int
}

// NewIteratorSource builds an IteratorSource that replays values in order,
// looping back to the start once exhausted.
func NewIteratorSource(values ...uint64) *IteratorSource {
	return &IteratorSource{values: values}
}

// NaturalSequence builds an IteratorSource producing 1, 2, 3, ..., n (the
// sequence used throughout the package's documented test scenarios).
func NaturalSequence(n int) *IteratorSource {
	seq := make([]uint64, n)
	for i := range seq {
		seq[i] = uint64(i + 1)
	}
	return NewIteratorSource(seq...)
}

// Draw returns the next configured value, looping back to the start of the
// sequence once exhausted.
func (s *IteratorSource) Draw(sides uint64) uint64 {
	if len(s.values) == 0 {
		return 1
	}
	v := s.values[s.pos%len(s.values)]
	s.pos++
	return v
}

// Reset rewinds the IteratorSource back to its first configured value.
func (s *IteratorSource) Reset() {
	s.pos = 0
}

// drawFudge draws a Fudge value in {-1, 0, +1} from a Source that only knows
// how to draw positive integers in [1, sides]. We map the uniform [1,3] draw
// onto {-1, 0, +1}.
func drawFudge(src Source) int64 {
	return int64(src.Draw(3)) - 2
}
