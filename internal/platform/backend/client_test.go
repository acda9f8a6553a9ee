package backend

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/autoscheduler/autoscheduler/internal/config"
	"github.com/autoscheduler/autoscheduler/internal/domain"
	"github.com/autoscheduler/autoscheduler/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sectionsJSON = `[{
	"id": 1, "crn": 123456, "subject": "CSCE", "course_num": "121", "section_num": "501",
	"min_credits": 4, "max_credits": null, "current_enrollment": 10, "max_enrollment": 20,
	"instructor_name": "Aakash Tyagi", "honors": false, "remote": false, "asynchronous": false,
	"instructional_method": "F2F",
	"meetings": [{"id": 11, "building": "ZACH", "days": [false, true, false, true, false, false, false],
		"start_time": "08:00", "end_time": "08:50", "type": "LEC"}],
	"grades": null
}]`

func newTestClient(t *testing.T, baseURL string, breakerFailures uint) (*Client, *metrics.BackendMetrics) {
	t.Helper()
	m := metrics.NewBackendMetrics(prometheus.NewRegistry())
	c, err := NewClient(config.BackendConfig{
		BaseURL:         baseURL,
		Timeout:         2 * time.Second,
		Burst:           1,
		BreakerFailures: breakerFailures,
		BreakerDelay:    time.Minute,
	}, m, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return c, m
}

func TestFetchSections(t *testing.T) {
	t.Parallel()

	var got url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/sections", r.URL.Path)
		got = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, sectionsJSON)
	}))
	t.Cleanup(srv.Close)

	c, m := newTestClient(t, srv.URL, 3)
	opts := domain.NewCourseCardOptions()
	filters := opts.Filters()
	filters.IncludeFull = true

	sections, err := c.FetchSections(context.Background(), "csce 121", "202031", filters)
	require.NoError(t, err)
	require.Len(t, sections, 1)
	require.NotNil(t, sections[0].CRN)
	assert.Equal(t, 123456, *sections[0].CRN)
	require.Len(t, sections[0].Meetings, 1)

	assert.Equal(t, "CSCE", got.Get("dept"))
	assert.Equal(t, "121", got.Get("course_num"))
	assert.Equal(t, "202031", got.Get("term"))
	assert.Equal(t, "exclude", got.Get("honors"))
	assert.Equal(t, "no_preference", got.Get("remote"))
	assert.Equal(t, "true", got.Get("include_full"))

	assert.InDelta(t, 1, testutil.ToFloat64(m.Requests.WithLabelValues(endpointSections, "ok")), 0)
}

func TestFetchSectionsRejectsBadCourse(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	t.Cleanup(srv.Close)

	c, _ := newTestClient(t, srv.URL, 3)
	_, err := c.FetchSections(context.Background(), "CSCE", "202031", domain.SectionFilters{})
	assert.ErrorIs(t, err, domain.ErrInvalidFormat)
	assert.Zero(t, calls.Load())
}

func TestFetchSectionsMalformedBody(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"not": "a list"}`)
	}))
	t.Cleanup(srv.Close)

	c, m := newTestClient(t, srv.URL, 3)
	_, err := c.FetchSections(context.Background(), "CSCE 121", "202031", domain.SectionFilters{})
	assert.ErrorIs(t, err, domain.ErrInvalidFormat)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Requests.WithLabelValues(endpointSections, "invalid")), 0)
}

func TestFetchTerms(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/terms", r.URL.Path)
		_, _ = io.WriteString(w, `{"Fall 2020 - College Station": "202031"}`)
	}))
	t.Cleanup(srv.Close)

	c, _ := newTestClient(t, srv.URL+"/", 3)
	terms, err := c.FetchTerms(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Fall 2020 - College Station": "202031"}, terms)
}

func TestClientErrorStatusDoesNotTripBreaker(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such term", http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	c, m := newTestClient(t, srv.URL, 1)
	for range 3 {
		_, err := c.FetchTerms(context.Background())
		assert.ErrorIs(t, err, ErrUnexpectedStatus)
	}
	assert.InDelta(t, 0, testutil.ToFloat64(m.CircuitState), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(m.Requests.WithLabelValues(endpointTerms, "404")), 0)
}

func TestBreakerOpensOnServerErrors(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	c, m := newTestClient(t, srv.URL, 2)
	for range 2 {
		_, err := c.FetchTerms(context.Background())
		assert.ErrorIs(t, err, ErrUnexpectedStatus)
	}

	_, err := c.FetchTerms(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, int32(2), calls.Load(), "open breaker must not reach the server")
	assert.InDelta(t, 2, testutil.ToFloat64(m.CircuitState), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Requests.WithLabelValues(endpointTerms, "rejected")), 0)
}

func TestNewClientRejectsBadURL(t *testing.T) {
	t.Parallel()
	_, err := NewClient(config.BackendConfig{BaseURL: "not a url"},
		metrics.NewBackendMetrics(prometheus.NewRegistry()), nil)
	assert.Error(t, err)
}
