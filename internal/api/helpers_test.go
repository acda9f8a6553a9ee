package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/autoscheduler/autoscheduler/internal/api/middleware"
	"github.com/autoscheduler/autoscheduler/internal/catalog"
	"github.com/autoscheduler/autoscheduler/internal/coursecard"
	"github.com/autoscheduler/autoscheduler/internal/domain"
	"github.com/autoscheduler/autoscheduler/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "0123456789abcdef0123456789abcdef"
	testTerm   = "202031"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func p[T any](v T) *T { return &v }

func rawSection(crn int, sectionNum, instructor string, gpa float64) catalog.RawSection {
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
		Honors:            p(false),
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

// fakeCatalog serves canned sections per course and a fixed term list.
type fakeCatalog struct {
	mu       sync.Mutex
	sections map[string][]catalog.RawSection
	terms    map[string]string
	termsErr error
	fetched  []string
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		sections: map[string][]catalog.RawSection{
			"CSCE 121": {
				rawSection(10001, "501", "Tyagi", 3.1),
				rawSection(10002, "502", "Alice", 3.8),
				rawSection(10003, "503", "Tyagi", 2.5),
			},
		},
		terms: map[string]string{"Fall 2020 - College Station": testTerm},
	}
}

func (f *fakeCatalog) FetchSections(_ context.Context, course, term string, _ domain.SectionFilters) ([]catalog.RawSection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetched = append(f.fetched, term)
	s, ok := f.sections[course]
	if !ok {
		return nil, errors.New("no such course")
	}
	return s, nil
}

func (f *fakeCatalog) FetchTerms(context.Context) (map[string]string, error) {
	if f.termsErr != nil {
		return nil, f.termsErr
	}
	return f.terms, nil
}

func (f *fakeCatalog) requestedTerms() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.fetched...)
}

type testServer struct {
	*httptest.Server
	t        *testing.T
	client   *http.Client
	catalog  *fakeCatalog
	registry *coursecard.Registry
	saved    *store.MemorySavedCourseStore
	sessions *SessionHandler
}

// newTestServer wires the handlers behind the session middleware the way
// the server does. The client keeps the session cookie between requests.
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	fc := newFakeCatalog()
	registry := coursecard.NewRegistry(func(string) *coursecard.Store {
		return coursecard.NewStore(fc, coursecard.WithLogger(testLogger))
	}, 100, time.Hour, clockwork.NewRealClock(), testLogger)
	saved := store.NewMemorySavedCourseStore()

	cards := NewCourseCardHandler(registry, testLogger)
	terms := NewTermHandler(fc, testLogger)
	sessionHandler := NewSessionHandler(saved, registry, testLogger)

	router := chi.NewRouter()
	router.Use(middleware.NewTraceMiddleware(testLogger))
	router.Use(middleware.NewSessionMiddleware(middleware.NewCookieStore([]byte(testSecret), 3600, false)))
	router.Route("/api", func(r chi.Router) {
		r.Get("/terms", terms.ListTerms)
		r.Route("/course_cards", func(r chi.Router) {
			r.Get("/", cards.ListCourseCards)
			r.Post("/", cards.AddCourseCard)
			r.Put("/", cards.ReplaceCourseCards)
			r.Delete("/", cards.ClearCourseCards)
			r.Get("/serialized", cards.SerializeCourseCards)
			r.Get("/{index}", cards.GetCourseCard)
			r.Patch("/{index}", cards.UpdateCourseCard)
			r.Delete("/{index}", cards.RemoveCourseCard)
			r.Put("/{index}/sort", cards.UpdateSortType)
			r.Get("/{index}/grouped", cards.GetGroupedSections)
		})
	})
	router.Route("/sessions", func(r chi.Router) {
		r.Put("/set_last_term", sessionHandler.SetLastTerm)
		r.Get("/get_last_term", sessionHandler.GetLastTerm)
		r.Get("/page_test", sessionHandler.GetPageTest)
		r.Put("/save_courses", sessionHandler.SaveCourses)
		r.Get("/get_saved_courses", sessionHandler.GetSavedCourses)
	})

	srv := httptest.NewServer(router)
	t.Cleanup(func() {
		registry.Wait()
		srv.Close()
	})

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &testServer{
		Server:   srv,
		t:        t,
		client:   &http.Client{Jar: jar},
		catalog:  fc,
		registry: registry,
		saved:    saved,
		sessions: sessionHandler,
	}
}

// do sends a request with an optional JSON body and decodes a JSON
// response into out when out is not nil.
func (s *testServer) do(method, path string, body any, out any) *http.Response {
	s.t.Helper()

	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			data, err := json.Marshal(b)
			require.NoError(s.t, err)
			reader = bytes.NewReader(data)
		}
	}

	req, err := http.NewRequest(method, s.URL+path, reader)
	require.NoError(s.t, err)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	require.NoError(s.t, err)
	defer func() { _ = resp.Body.Close() }()

	if out != nil {
		require.NoError(s.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func sectionCRNs(sections []domain.SectionSelected) []int {
	out := make([]int, 0, len(sections))
	for _, s := range sections {
		out = append(out, s.Section.CRN)
	}
	return out
}
