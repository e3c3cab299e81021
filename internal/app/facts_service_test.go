package app

import (
	"strings"
	"testing"
	"time"
)

func TestRandomFact_NoRepetitionWithinPool(t *testing.T) {
	s := NewFactsService()
	now := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	birth := time.Date(1990, time.July, 15, 0, 0, 0, 0, time.UTC)

	// An adult's pool has five facts; all five draws must be distinct.
	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		fact := s.RandomFact(1, birth)
		if seen[fact] {
			t.Fatalf("fact repeated before pool exhausted: %q", fact)
		}
		seen[fact] = true
	}

	// The sixth draw rebuilds the pool and must come from the same set.
	if fact := s.RandomFact(1, birth); !seen[fact] {
		t.Fatalf("rebuilt pool produced an unexpected fact: %q", fact)
	}
}

func TestRandomFact_MinorGetsAdulthoodFact(t *testing.T) {
	s := NewFactsService()
	now := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	birth := time.Date(2010, time.April, 5, 0, 0, 0, 0, time.UTC)

	found := false
	for i := 0; i < 6; i++ {
		if strings.Contains(s.RandomFact(2, birth), "совершеннолетия") {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("a minor's pool must include the adulthood fact")
	}
}

func TestRandomFact_PastLifespanPhrasing(t *testing.T) {
	s := NewFactsService()
	now := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	birth := time.Date(1945, time.January, 10, 0, 0, 0, 0, time.UTC)

	found := false
	for i := 0; i < 5; i++ {
		if strings.Contains(s.RandomFact(3, birth), "Вы уже достигли") {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("a user past the average lifespan must get the reached-it fact")
	}
}

func TestForget_DropsPool(t *testing.T) {
	s := NewFactsService()
	now := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	birth := time.Date(1990, time.July, 15, 0, 0, 0, 0, time.UTC)

	_ = s.RandomFact(4, birth)
	s.Forget(4)
	s.mu.Lock()
	_, ok := s.pools[4]
	s.mu.Unlock()
	if ok {
		t.Fatalf("Forget must drop the user's pool")
	}
}
