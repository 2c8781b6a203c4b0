// Package sync implements a thread-safe wrapper for a dice.Source, for
// callers that need to share one randomness source across goroutines.
// dice.Source implementations make no promise of thread safety on their
// own (see the package's concurrency model); this wrapper supplies it.
package sync

import (
	"sync"

	"github.com/tgrennan/dicey"
)

// MutexSource wraps a dice.Source with a sync.Mutex so that Draw can be
// called safely from multiple goroutines.
type MutexSource struct {
	l   sync.Mutex
	src dice.Source
}

// Wrap builds a MutexSource around src.
func Wrap(src dice.Source) *MutexSource {
	return &MutexSource{src: src}
}

// Draw locks, delegates to the wrapped Source, and unlocks.
func (m *MutexSource) Draw(sides uint64) uint64 {
	m.l.Lock()
	defer m.l.Unlock()
	return m.src.Draw(sides)
}
