package coursecard

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/autoscheduler/autoscheduler/internal/catalog"
	"github.com/autoscheduler/autoscheduler/internal/domain"
	"github.com/autoscheduler/autoscheduler/internal/events"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func p[T any](v T) *T { return &v }

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// rawSection builds a valid backend record for CSCE 121.
func rawSection(crn int, sectionNum, instructor string, gpa float64, honors bool) catalog.RawSection {
	var grades *catalog.RawGrades
	if gpa > 0 {
		grades = &catalog.RawGrades{GPA: p(gpa)}
	}
	return catalog.RawSection{
		ID:                p(crn),
		CRN:               p(crn),
		Subject:           p("CSCE"),
		CourseNum:         p("121"),
		SectionNum:        p(sectionNum),
		MinCredits:        p(3),
		CurrentEnrollment: p(10),
		MaxEnrollment:     p(20),
		InstructorName:    p(instructor),
		Honors:            p(honors),
		Remote:            p(false),
		Asynchronous:      p(false),
		Grades:            grades,
		Meetings: []catalog.RawMeeting{{
			ID:        p(crn * 10),
			Days:      []bool{false, true, false, true, false, true, false},
			StartTime: p("9:10"),
			EndTime:   p("10:00"),
			Type:      p("LEC"),
		}},
	}
}

type fetchCall struct {
	course  string
	term    string
	filters domain.SectionFilters
}

// fakeFetcher serves canned sections per course. hold makes the next call
// for a course block until the returned release func is called.
type fakeFetcher struct {
	mu        sync.Mutex
	responses map[string][]catalog.RawSection
	failures  map[string]error
	gates     map[string][]chan struct{}
	calls     []fetchCall
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		responses: make(map[string][]catalog.RawSection),
		failures:  make(map[string]error),
		gates:     make(map[string][]chan struct{}),
	}
}

func (f *fakeFetcher) serve(course string, sections ...catalog.RawSection) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[course] = sections
}

func (f *fakeFetcher) fail(course string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[course] = err
}

func (f *fakeFetcher) hold(course string) (release func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	gate := make(chan struct{})
	f.gates[course] = append(f.gates[course], gate)
	var once sync.Once
	return func() { once.Do(func() { close(gate) }) }
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeFetcher) FetchSections(_ context.Context, course, term string, filters domain.SectionFilters) ([]catalog.RawSection, error) {
	f.mu.Lock()
	f.calls = append(f.calls, fetchCall{course: course, term: term, filters: filters})
	var gate chan struct{}
	if queue := f.gates[course]; len(queue) > 0 {
		gate, f.gates[course] = queue[0], queue[1:]
	}
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failures[course]; err != nil {
		return nil, err
	}
	resp, ok := f.responses[course]
	if !ok {
		return nil, errors.New("no such course")
	}
	return resp, nil
}

// recordingEmitter keeps every event in emission order.
type recordingEmitter struct {
	mu     sync.Mutex
	events []*events.CardEvent
}

func (r *recordingEmitter) EmitEvent(_ context.Context, e *events.CardEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recordingEmitter) ofType(t events.EventType) []*events.CardEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*events.CardEvent
	for _, e := range r.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

func expandedIndices(a CourseCardArray) []int {
	var out []int
	for _, i := range a.Indices() {
		if !a.Cards[i].Collapsed {
			out = append(out, i)
		}
	}
	return out
}

func crns(sections []domain.SectionSelected) []int {
	out := make([]int, 0, len(sections))
	for _, s := range sections {
		out = append(out, s.Section.CRN)
	}
	return out
}
