package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/autoscheduler/autoscheduler/internal/platform/backend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListTerms(t *testing.T) {
	ts := newTestServer(t)

	var terms map[string]string
	resp := ts.do(http.MethodGet, "/api/terms", nil, &terms)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]string{"Fall 2020 - College Station": testTerm}, terms)
}

func TestListTermsBackendUnavailable(t *testing.T) {
	ts := newTestServer(t)
	ts.catalog.termsErr = fmt.Errorf("%w: circuit open", backend.ErrUnavailable)

	resp := ts.do(http.MethodGet, "/api/terms", nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
