package store

import (
	"context"
	"slices"
	"sync"

	"github.com/autoscheduler/autoscheduler/internal/domain"
)

// SavedCourseStore persists a session's course cards per term.
type SavedCourseStore interface {
	// Save stores cards for the session and term, replacing earlier saves.
	// Saving an empty list removes the entry.
	Save(ctx context.Context, sessionID, term string, cards []domain.SerializedCourseCardOptions) error

	// Get returns the saved cards.
	// Returns ErrSavedCoursesNotFound if nothing was saved.
	Get(ctx context.Context, sessionID, term string) ([]domain.SerializedCourseCardOptions, error)
}

type savedKey struct {
	sessionID string
	term      string
}

// MemorySavedCourseStore keeps saved cards in process memory. It is used
// when no database is configured.
type MemorySavedCourseStore struct {
	mu    sync.RWMutex
	saved map[savedKey][]domain.SerializedCourseCardOptions
}

var _ SavedCourseStore = (*MemorySavedCourseStore)(nil)

// NewMemorySavedCourseStore creates an empty in-memory store.
func NewMemorySavedCourseStore() *MemorySavedCourseStore {
	return &MemorySavedCourseStore{saved: make(map[savedKey][]domain.SerializedCourseCardOptions)}
}

// Save implements SavedCourseStore.Save.
func (s *MemorySavedCourseStore) Save(
	_ context.Context,
	sessionID, term string,
	cards []domain.SerializedCourseCardOptions,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := savedKey{sessionID: sessionID, term: term}
	if len(cards) == 0 {
		delete(s.saved, key)
		return nil
	}
	s.saved[key] = slices.Clone(cards)
	return nil
}

// Get implements SavedCourseStore.Get.
func (s *MemorySavedCourseStore) Get(
	_ context.Context,
	sessionID, term string,
) ([]domain.SerializedCourseCardOptions, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cards, ok := s.saved[savedKey{sessionID: sessionID, term: term}]
	if !ok {
		return nil, ErrSavedCoursesNotFound
	}
	return slices.Clone(cards), nil
}
