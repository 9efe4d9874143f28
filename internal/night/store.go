package night

import (
	"sort"
	"sync"

	"github.com/nrasaily/SleepSentinelPro/internal"
)

// Store is the working set of night summaries, kept sorted newest night
// first. All mutations are serialized behind a mutex so the HTTP layer
// and the background sync loop can share one instance; reads hand out
// copies, never the backing slice.
type Store struct {
	mu     sync.RWMutex
	nights []internal.NightSummary
}

func NewStore() *Store {
	return &Store{}
}

// Upsert merges new summaries into the store, replacing any existing
// summary with the same night key. Incremental fetches re-covering a
// night therefore update it in place instead of duplicating it.
func (s *Store) Upsert(summaries ...internal.NightSummary) {
	if len(summaries) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, incoming := range summaries {
		replaced := false
		for i, existing := range s.nights {
			if existing.Night == incoming.Night {
				s.nights[i] = incoming
				replaced = true
				break
			}
		}
		if !replaced {
			s.nights = append(s.nights, incoming)
		}
	}
	s.sortLocked()
}

// ReplaceAll swaps the entire working set. Used by the demo path.
func (s *Store) ReplaceAll(summaries []internal.NightSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nights = append(s.nights[:0:0], summaries...)
	s.sortLocked()
}

// Snapshot returns a sorted copy of the working set.
func (s *Store) Snapshot() []internal.NightSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]internal.NightSummary, len(s.nights))
	copy(out, s.nights)
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nights)
}

// sortLocked orders by night key descending; the stable sort keeps
// insertion order on equal keys.
func (s *Store) sortLocked() {
	sort.SliceStable(s.nights, func(i, j int) bool {
		return s.nights[j].Night.Before(s.nights[i].Night)
	})
}
