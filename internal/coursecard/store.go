package coursecard

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/autoscheduler/autoscheduler/internal/catalog"
	"github.com/autoscheduler/autoscheduler/internal/domain"
	"github.com/autoscheduler/autoscheduler/internal/domain/sorting"
	"github.com/autoscheduler/autoscheduler/internal/events"
	"github.com/jonboulle/clockwork"
)

// SectionFetcher loads the raw sections of one course in one term.
type SectionFetcher interface {
	FetchSections(ctx context.Context, course, term string, filters domain.SectionFilters) ([]catalog.RawSection, error)
}

// CourseCardArray is a point-in-time copy of a store's cards keyed by slot
// index. NumCardsCreated is the next index to be handed out.
type CourseCardArray struct {
	NumCardsCreated int                               `json:"num_cards_created"`
	Cards           map[int]*domain.CourseCardOptions `json:"cards"`
}

// Indices returns the occupied slot indices in ascending order.
func (a CourseCardArray) Indices() []int {
	return slices.Sorted(maps.Keys(a.Cards))
}

// slot is one card plus the bookkeeping needed to detect stale fetches.
type slot struct {
	card       *domain.CourseCardOptions
	generation uint64

	// pendingCRNs are selections restored by ReplaceCourseCards or made
	// while loading; the next commit applies them.
	pendingCRNs []int

	// fetchOrder maps CRN to its position in the last committed fetch.
	fetchOrder map[int]int
}

const defaultReplaceConcurrency = 4

// Store owns one CourseCardArray. All methods are safe for concurrent use;
// every state transition happens under a single mutex.
type Store struct {
	mu              sync.Mutex
	numCardsCreated int
	slots           map[int]*slot
	lastGeneration  uint64

	fetcher            SectionFetcher
	emitter            events.EventEmitter
	clock              clockwork.Clock
	logger             *slog.Logger
	replaceConcurrency int

	inflight sync.WaitGroup
}

// Option configures a Store.
type Option func(*Store)

// WithEmitter sends store events to e.
func WithEmitter(e events.EventEmitter) Option {
	return func(s *Store) { s.emitter = e }
}

// WithClock sets the clock used to time fetches.
func WithClock(c clockwork.Clock) Option {
	return func(s *Store) { s.clock = c }
}

// WithLogger sets the store's base logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithReplaceConcurrency bounds how many fetches ReplaceCourseCards runs
// at once. Values below one are ignored.
func WithReplaceConcurrency(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.replaceConcurrency = n
		}
	}
}

// NewStore creates a store holding one default, expanded card at index 0.
func NewStore(fetcher SectionFetcher, opts ...Option) *Store {
	s := &Store{
		fetcher:            fetcher,
		emitter:            events.NopEmitter{},
		clock:              clockwork.NewRealClock(),
		logger:             slog.Default(),
		replaceConcurrency: defaultReplaceConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "coursecard_store")
	s.resetLocked()
	return s
}

// AddCourseCard appends a card at index NumCardsCreated, expands it and
// collapses every other card. initial, if given, is merged over the
// defaults; it never triggers a fetch. It returns the new index.
func (s *Store) AddCourseCard(initial *CourseCardUpdate) int {
	index := s.addCard(initial)
	s.publish(context.Background(), events.NewCardEvent(events.CardAdded, index))
	return index
}

func (s *Store) addCard(initial *CourseCardUpdate) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := s.numCardsCreated
	s.collapseAllLocked()

	card := domain.NewCourseCardOptions()
	sl := &slot{card: &card, generation: s.nextGenerationLocked()}
	if initial != nil {
		initial.apply(&card)
		if initial.Sections != nil {
			s.resortLocked(sl)
		}
	}
	card.Collapsed = false
	s.slots[index] = sl
	s.numCardsCreated++
	return index
}

// RemoveCourseCard deletes the card at index. If it was the expanded card,
// the nearest higher slot is expanded, or else the nearest lower one.
func (s *Store) RemoveCourseCard(index int) error {
	s.mu.Lock()
	sl, ok := s.slots[index]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: index %d", ErrCardNotFound, index)
	}
	delete(s.slots, index)

	if !sl.card.Collapsed {
		if next, ok := s.neighbourLocked(index); ok {
			s.slots[next].card.Collapsed = false
		}
	}
	s.mu.Unlock()

	s.publish(context.Background(), events.NewCardEvent(events.CardRemoved, index))
	return nil
}

// ClearCourseCards resets the store to a single default card at index 0.
// In-flight fetches for the old cards are discarded when they resolve.
func (s *Store) ClearCourseCards() {
	s.mu.Lock()
	s.resetLocked()
	s.mu.Unlock()

	s.publish(context.Background(), events.NewCardEvent(events.CardsCleared, -1))
}

// UpdateCourseCard merges update into the card at index.
//
// Collapsed=false collapses every other card first. Collapsed=true on the
// expanded card is ignored, so one card always stays expanded. When the
// update changes the course or a section filter and term is not empty, the
// card is marked loading and its sections are re-fetched in the background.
// Clearing the course empties the card's sections without a fetch.
func (s *Store) UpdateCourseCard(ctx context.Context, index int, update CourseCardUpdate, term string) error {
	if err := update.Validate(); err != nil {
		return err
	}

	evs, job, err := s.updateCard(index, update, term)
	if err != nil {
		return err
	}

	s.publish(ctx, evs...)
	if job != nil {
		go func() {
			defer s.inflight.Done()
			_ = s.run(context.WithoutCancel(ctx), *job)
		}()
	}
	return nil
}

// updateCard applies update under the lock. A returned job has already
// been counted in s.inflight.
func (s *Store) updateCard(index int, update CourseCardUpdate, term string) ([]*events.CardEvent, *fetchJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sl, ok := s.slots[index]
	if !ok {
		return nil, nil, fmt.Errorf("%w: index %d", ErrCardNotFound, index)
	}

	card := sl.card
	if update.Collapsed != nil && *update.Collapsed && !card.Collapsed {
		update.Collapsed = nil
	}
	refetch := update.changesQuery(card) && term != ""
	resort := update.changesSort(card) || update.Sections != nil

	if update.Collapsed != nil && !*update.Collapsed {
		s.collapseAllLocked()
	}
	update.apply(card)
	if resort {
		s.resortLocked(sl)
	}

	evs := []*events.CardEvent{events.NewCardEvent(events.CardUpdated, index)}
	if !refetch {
		return evs, nil, nil
	}
	if card.Course == "" {
		sl.generation = s.nextGenerationLocked()
		sl.fetchOrder = nil
		card.Sections = []domain.SectionSelected{}
		card.Loading = false
		card.HasHonors, card.HasRemote, card.HasAsynchronous = false, false, false
		return evs, nil, nil
	}

	job := s.startFetchLocked(sl, index, term)
	s.inflight.Add(1)
	return append(evs, s.fetchEvent(events.FetchStarted, job)), &job, nil
}

// SelectSections makes crns the card's selection. While a fetch is in
// flight the selection is also held for its commit, so sections the fetch
// brings in are selected too.
func (s *Store) SelectSections(index int, crns []int) error {
	if err := s.selectSections(index, crns); err != nil {
		return err
	}
	s.publish(context.Background(), events.NewCardEvent(events.CardUpdated, index))
	return nil
}

func (s *Store) selectSections(index int, crns []int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sl, ok := s.slots[index]
	if !ok {
		return fmt.Errorf("%w: index %d", ErrCardNotFound, index)
	}
	sl.card.Sections = WithSelection(sl.card.Sections, crns)
	if sl.card.Loading {
		sl.pendingCRNs = slices.Clone(crns)
	}
	return nil
}

// UpdateSortType sets the card's sort settings and re-sorts its current
// sections without fetching.
func (s *Store) UpdateSortType(index int, sortType domain.SortType, ascending bool) error {
	if _, err := domain.ParseSortType(string(sortType)); err != nil {
		return err
	}
	if err := s.sortCard(index, sortType, ascending); err != nil {
		return err
	}
	s.publish(context.Background(), events.NewCardEvent(events.SortChanged, index))
	return nil
}

func (s *Store) sortCard(index int, sortType domain.SortType, ascending bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sl, ok := s.slots[index]
	if !ok {
		return fmt.Errorf("%w: index %d", ErrCardNotFound, index)
	}
	sl.card.SortType = sortType
	sl.card.SortDirection = ascending
	s.resortLocked(sl)
	return nil
}

// Snapshot returns a deep copy of the store's cards. Sections are shared
// by pointer; they are never mutated after parsing.
func (s *Store) Snapshot() CourseCardArray {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := CourseCardArray{
		NumCardsCreated: s.numCardsCreated,
		Cards:           make(map[int]*domain.CourseCardOptions, len(s.slots)),
	}
	for i, sl := range s.slots {
		out.Cards[i] = copyCard(sl.card)
	}
	return out
}

// Card returns a copy of the card at index.
func (s *Store) Card(index int) (domain.CourseCardOptions, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sl, ok := s.slots[index]
	if !ok {
		return domain.CourseCardOptions{}, fmt.Errorf("%w: index %d", ErrCardNotFound, index)
	}
	return *copyCard(sl.card), nil
}

// Wait blocks until every fetch started so far has committed, failed or
// been discarded.
func (s *Store) Wait() {
	s.inflight.Wait()
}

func (s *Store) resetLocked() {
	card := domain.NewCourseCardOptions()
	s.slots = map[int]*slot{0: {card: &card, generation: s.nextGenerationLocked()}}
	s.numCardsCreated = 1
}

// nextGenerationLocked hands out store-wide unique generations, so a slot
// index reused by Clear or Replace never matches an older fetch.
func (s *Store) nextGenerationLocked() uint64 {
	s.lastGeneration++
	return s.lastGeneration
}

func (s *Store) collapseAllLocked() {
	for _, sl := range s.slots {
		sl.card.Collapsed = true
	}
}

// neighbourLocked finds the slot to expand after removing index.
func (s *Store) neighbourLocked(index int) (int, bool) {
	higher, lower := -1, -1
	for i := range s.slots {
		if i > index && (higher == -1 || i < higher) {
			higher = i
		}
		if i < index && (lower == -1 || i > lower) {
			lower = i
		}
	}
	if higher != -1 {
		return higher, true
	}
	return lower, lower != -1
}

// resortLocked restores the last fetch order, then applies the card's sort.
func (s *Store) resortLocked(sl *slot) {
	sections := slices.Clone(sl.card.Sections)
	if sl.fetchOrder != nil {
		slices.SortStableFunc(sections, func(a, b domain.SectionSelected) int {
			return positionOf(sl.fetchOrder, a) - positionOf(sl.fetchOrder, b)
		})
	}
	sl.card.Sections = sorting.Sort(sections, sl.card.SortType, sl.card.SortDirection)
}

func positionOf(order map[int]int, s domain.SectionSelected) int {
	if p, ok := order[s.Section.CRN]; ok {
		return p
	}
	return len(order)
}

// publish emits events outside the store lock.
func (s *Store) publish(ctx context.Context, evs ...*events.CardEvent) {
	for _, e := range evs {
		if err := s.emitter.EmitEvent(ctx, e); err != nil {
			s.logger.WarnContext(ctx, "course card event handler failed",
				"error", err,
				"event_type", e.Type,
				"card_index", e.Index)
		}
	}
}

func copyCard(c *domain.CourseCardOptions) *domain.CourseCardOptions {
	cp := *c
	cp.Sections = slices.Clone(c.Sections)
	if cp.Sections == nil {
		cp.Sections = []domain.SectionSelected{}
	}
	return &cp
}
