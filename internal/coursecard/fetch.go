package coursecard

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/autoscheduler/autoscheduler/internal/catalog"
	"github.com/autoscheduler/autoscheduler/internal/domain"
	"github.com/autoscheduler/autoscheduler/internal/domain/sorting"
	"github.com/autoscheduler/autoscheduler/internal/events"
	"github.com/autoscheduler/autoscheduler/internal/platform/logger"
	"golang.org/x/sync/errgroup"
)

// fetchJob captures everything a background fetch needs, so it never reads
// the card while unlocked.
type fetchJob struct {
	index      int
	generation uint64
	course     string
	term       string
	filters    domain.SectionFilters
	started    time.Time
}

// startFetchLocked gives the slot a new generation and marks it loading.
func (s *Store) startFetchLocked(sl *slot, index int, term string) fetchJob {
	sl.generation = s.nextGenerationLocked()
	sl.card.Loading = true
	return fetchJob{
		index:      index,
		generation: sl.generation,
		course:     sl.card.Course,
		term:       term,
		filters:    sl.card.Filters(),
		started:    s.clock.Now(),
	}
}

// run fetches and parses one card's sections, then commits or records the
// failure. The returned error wraps ErrFetchFailed.
func (s *Store) run(ctx context.Context, job fetchJob) error {
	raw, err := s.fetcher.FetchSections(ctx, job.course, job.term, job.filters)
	if err != nil {
		err = fmt.Errorf("%w: %s in term %s: %w", ErrFetchFailed, job.course, job.term, err)
		s.fail(ctx, job, err)
		return err
	}

	sections, err := catalog.ParseSectionSelected(raw)
	if err != nil {
		err = fmt.Errorf("%w: %s in term %s: %w", ErrFetchFailed, job.course, job.term, err)
		s.fail(ctx, job, err)
		return err
	}

	s.commit(ctx, job, sections)
	return nil
}

// currentLocked returns the job's slot if it still expects the job.
func (s *Store) currentLocked(job fetchJob) (*slot, bool) {
	sl, ok := s.slots[job.index]
	if !ok || sl.generation != job.generation {
		return nil, false
	}
	return sl, true
}

// commit reconciles selections by CRN, sorts with the card's current
// settings and stores the sections.
func (s *Store) commit(ctx context.Context, job fetchJob, sections []domain.SectionSelected) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	s.mu.Lock()
	sl, ok := s.currentLocked(job)
	if !ok {
		ev := s.fetchEvent(events.FetchDiscarded, job)
		s.mu.Unlock()

		log.DebugContext(ctx, "discarding stale section fetch",
			"card_index", job.index,
			"generation", job.generation,
			"course", job.course)
		s.publish(ctx, ev)
		return
	}

	card := sl.card
	selected := make(map[int]bool)
	for _, crn := range card.SelectedCRNs() {
		selected[crn] = true
	}
	for _, crn := range sl.pendingCRNs {
		selected[crn] = true
	}
	sl.pendingCRNs = nil

	sl.fetchOrder = make(map[int]int, len(sections))
	card.HasHonors, card.HasRemote, card.HasAsynchronous = false, false, false
	for i := range sections {
		sec := sections[i].Section
		sections[i].Selected = selected[sec.CRN]
		sl.fetchOrder[sec.CRN] = i
		card.HasHonors = card.HasHonors || sec.Honors
		card.HasRemote = card.HasRemote || sec.Remote
		card.HasAsynchronous = card.HasAsynchronous || sec.Asynchronous
	}
	card.Sections = sorting.Sort(sections, card.SortType, card.SortDirection)
	card.Loading = false
	ev := s.fetchEvent(events.SectionsCommitted, job)
	s.mu.Unlock()

	log.DebugContext(ctx, "committed course card sections",
		"card_index", job.index,
		"course", job.course,
		"section_count", len(sections))
	s.publish(ctx, ev)
}

// fail leaves the card's sections as they were and clears Loading, unless
// a newer dispatch already owns the slot.
func (s *Store) fail(ctx context.Context, job fetchJob, err error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	s.mu.Lock()
	sl, ok := s.currentLocked(job)
	evType := events.FetchDiscarded
	if ok {
		sl.card.Loading = false
		evType = events.FetchFailed
	}
	ev := s.fetchEvent(evType, job)
	s.mu.Unlock()

	log.WarnContext(ctx, "course card section fetch failed",
		"error", err,
		"card_index", job.index,
		"course", job.course,
		"term", job.term,
		"stale", !ok)
	s.publish(ctx, ev)
}

func (s *Store) fetchEvent(t events.EventType, job fetchJob) *events.CardEvent {
	ev := events.NewCardEvent(t, job.index)
	ev.Generation = job.generation
	if t != events.FetchStarted {
		ev.Duration = s.clock.Since(job.started)
	}
	return ev
}

// ReplaceCourseCards swaps every card for the given serialized cards.
//
// Cards are created synchronously at indices 0..n-1 in input order, then
// each card with a course fetches its sections concurrently. Results are
// committed by index, so completion order does not matter. Selected CRNs
// in the serialized cards are restored when each fetch commits. An empty
// list leaves a single default card.
func (s *Store) ReplaceCourseCards(ctx context.Context, cards []domain.SerializedCourseCardOptions, term string) {
	s.mu.Lock()
	var jobs []fetchJob
	if len(cards) == 0 {
		s.resetLocked()
	} else {
		s.slots = make(map[int]*slot, len(cards))
		expanded := expandedIndex(cards)
		for i, c := range cards {
			card := fromSerialized(c)
			card.Collapsed = i != expanded
			sl := &slot{
				card:        card,
				generation:  s.nextGenerationLocked(),
				pendingCRNs: slices.Clone(c.Sections),
			}
			s.slots[i] = sl
			if card.Course != "" && term != "" {
				jobs = append(jobs, s.startFetchLocked(sl, i, term))
			}
		}
		s.numCardsCreated = len(cards)
	}
	if len(jobs) > 0 {
		s.inflight.Add(1)
	}
	s.mu.Unlock()

	evs := []*events.CardEvent{events.NewCardEvent(events.CardsReplaced, -1)}
	for _, job := range jobs {
		evs = append(evs, s.fetchEvent(events.FetchStarted, job))
	}
	s.publish(ctx, evs...)

	if len(jobs) == 0 {
		return
	}

	ctx = context.WithoutCancel(ctx)
	go func() {
		defer s.inflight.Done()

		var g errgroup.Group
		g.SetLimit(s.replaceConcurrency)
		for _, job := range jobs {
			g.Go(func() error { return s.run(ctx, job) })
		}
		if err := g.Wait(); err != nil {
			logger.FromContextOrDefault(ctx, s.logger).WarnContext(ctx,
				"course card replace finished with failed fetches",
				"error", err,
				"card_count", len(cards),
				"fetch_count", len(jobs))
		}
	}()
}

// expandedIndex picks the first card saved as expanded, or the first card.
func expandedIndex(cards []domain.SerializedCourseCardOptions) int {
	for i, c := range cards {
		if c.Collapsed != nil && !*c.Collapsed {
			return i
		}
	}
	return 0
}
