package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/autoscheduler/autoscheduler/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

const sectionsJSON = `[{
	"id": 1, "crn": 12345, "subject": "CSCE", "course_num": "121", "section_num": "501",
	"min_credits": 3, "max_credits": null, "current_enrollment": 10, "max_enrollment": 20,
	"instructor_name": "Aakash Tyagi", "grades": {"gpa": 3.2},
	"honors": false, "remote": false, "asynchronous": false, "instructional_method": "F2F",
	"meetings": [{"id": 7, "building": "ZACH", "days": [false, true, false, true, false, true, false],
		"start_time": "09:10", "end_time": "10:00", "type": "LEC"}]
}]`

// newBackend fakes the class search backend.
func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/terms", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"Fall 2020 - College Station":"202031"}`)
	})
	mux.HandleFunc("/api/sections", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, sectionsJSON)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(backendURL string) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: 0, LogLevel: "debug", ShutdownTimeout: time.Second},
		Backend: config.BackendConfig{
			Source:          config.SourceHTTP,
			BaseURL:         backendURL,
			Timeout:         time.Second,
			Burst:           1,
			BreakerFailures: 3,
			BreakerDelay:    time.Second,
		},
		Session: config.SessionConfig{Secret: "0123456789abcdef0123456789abcdef", MaxAge: 3600},
		Store:   config.StoreConfig{MaxSessions: 10, SessionTTL: time.Hour, ReplaceConcurrency: 2},
	}
}

func TestNewApplicationRequiresDatabaseForPostgresSource(t *testing.T) {
	cfg := testConfig("http://unused.test")
	cfg.Backend.Source = config.SourcePostgres

	app, err := newApplication(cfg, testLogger, nil)
	assert.Nil(t, app)
	assert.ErrorContains(t, err, "needs a database")
}

func TestRouterEndToEnd(t *testing.T) {
	backend := newBackend(t)
	app, err := newApplication(testConfig(backend.URL), testLogger, nil)
	require.NoError(t, err)

	srv := httptest.NewServer(app.setupRouter())
	t.Cleanup(func() {
		app.cleanup()
		srv.Close()
	})

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{Jar: jar}

	send := func(method, path, body string) *http.Response {
		t.Helper()
		var reader io.Reader
		if body != "" {
			reader = strings.NewReader(body)
		}
		req, err := http.NewRequest(method, srv.URL+path, reader)
		require.NoError(t, err)
		resp, err := client.Do(req)
		require.NoError(t, err)
		t.Cleanup(func() { _ = resp.Body.Close() })
		return resp
	}

	resp := send(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = send(http.MethodGet, "/api/terms", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var terms map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&terms))
	assert.Equal(t, "202031", terms["Fall 2020 - College Station"])

	resp = send(http.MethodPut, "/sessions/set_last_term?term=202031", "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = send(http.MethodPatch, "/api/course_cards/0", `{"course":"CSCE 121"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	app.registry.Wait()

	resp = send(http.MethodGet, "/api/course_cards/0", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var card struct {
		Course   string `json:"course"`
		Loading  bool   `json:"loading"`
		Sections []struct {
			Section struct {
				CRN int `json:"crn"`
			} `json:"section"`
		} `json:"sections"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&card))
	assert.False(t, card.Loading)
	require.Len(t, card.Sections, 1)
	assert.Equal(t, 12345, card.Sections[0].Section.CRN)

	resp = send(http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "autoscheduler_http_requests_total")
	assert.Contains(t, string(body), "autoscheduler_backend_requests_total")
}

func TestRunStopsOnCancel(t *testing.T) {
	backend := newBackend(t)
	app, err := newApplication(testConfig(backend.URL), testLogger, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
