package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/autoscheduler/autoscheduler/internal/catalog"
	"github.com/autoscheduler/autoscheduler/internal/config"
	"github.com/autoscheduler/autoscheduler/internal/domain"
	"github.com/autoscheduler/autoscheduler/internal/metrics"
	"github.com/autoscheduler/autoscheduler/internal/platform/logger"
	"github.com/failsafe-go/failsafe-go/circuitbreaker"
	"golang.org/x/time/rate"
)

// Endpoint labels used in metrics and logs.
const (
	endpointTerms    = "terms"
	endpointSections = "sections"
)

// maxErrorBody bounds how much of an error response is kept for logging.
const maxErrorBody = 512

var (
	// ErrUnavailable is returned when the circuit breaker rejects a request.
	ErrUnavailable = errors.New("section backend unavailable")

	// ErrUnexpectedStatus is returned for any non-200 response.
	ErrUnexpectedStatus = errors.New("unexpected backend status")
)

// Client talks to the section backend.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	limiter *rate.Limiter
	breaker circuitbreaker.CircuitBreaker[any]
	metrics *metrics.BackendMetrics
	logger  *slog.Logger
}

// NewClient builds a client for cfg.BaseURL. A zero RequestsPerSecond
// disables rate limiting.
func NewClient(cfg config.BackendConfig, m *metrics.BackendMetrics, log *slog.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimSuffix(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid backend base url %q", cfg.BaseURL)
	}
	if log == nil {
		log = slog.Default()
	}
	log = log.With(slog.String("component", "backend"))

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := max(cfg.Burst, 1)

	c := &Client{
		baseURL: base,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(limit, burst),
		metrics: m,
		logger:  log,
	}
	c.breaker = circuitbreaker.Builder[any]().
		WithFailureThreshold(max(cfg.BreakerFailures, 1)).
		WithDelay(cfg.BreakerDelay).
		WithSuccessThreshold(1).
		OnStateChanged(func(e circuitbreaker.StateChangedEvent) {
			log.Warn("circuit breaker state changed",
				slog.String("from", e.OldState.String()),
				slog.String("to", e.NewState.String()))
			m.CircuitStateChanges.WithLabelValues(e.NewState.String()).Inc()
			m.CircuitState.Set(stateToFloat(e.NewState))
		}).
		Build()

	return c, nil
}

func stateToFloat(state circuitbreaker.State) float64 {
	switch state {
	case circuitbreaker.ClosedState:
		return 0
	case circuitbreaker.HalfOpenState:
		return 1
	case circuitbreaker.OpenState:
		return 2
	default:
		return -1
	}
}

// FetchTerms returns the backend's term list, description to term code.
func (c *Client) FetchTerms(ctx context.Context) (map[string]string, error) {
	var terms map[string]string
	err := c.get(ctx, endpointTerms, "/api/terms", nil, func(body io.Reader) error {
		if err := json.NewDecoder(body).Decode(&terms); err != nil {
			return fmt.Errorf("%w: decoding terms: %v", domain.ErrInvalidFormat, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if terms == nil {
		terms = map[string]string{}
	}
	return terms, nil
}

// FetchSections returns the raw sections of course ("CSCE 121") in term
// that pass filters.
func (c *Client) FetchSections(
	ctx context.Context,
	course, term string,
	filters domain.SectionFilters,
) ([]catalog.RawSection, error) {
	subject, courseNum, err := catalog.SplitCourse(course)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("dept", subject)
	query.Set("course_num", courseNum)
	query.Set("term", term)
	query.Set("honors", string(filters.Honors))
	query.Set("remote", string(filters.Remote))
	query.Set("asynchronous", string(filters.Asynchronous))
	query.Set("include_full", strconv.FormatBool(filters.IncludeFull))

	var sections []catalog.RawSection
	err = c.get(ctx, endpointSections, "/api/sections", query, func(body io.Reader) error {
		var decodeErr error
		sections, decodeErr = catalog.DecodeSections(body)
		return decodeErr
	})
	if err != nil {
		return nil, err
	}
	return sections, nil
}

// get performs one GET through the limiter and breaker and hands a 200
// body to decode. Transport errors and 5xx responses count against the
// breaker; 4xx responses and decode errors do not.
func (c *Client) get(
	ctx context.Context,
	endpoint, path string,
	query url.Values,
	decode func(io.Reader) error,
) error {
	log := logger.FromContextOrDefault(ctx, c.logger).With(slog.String("endpoint", endpoint))

	if !c.breaker.TryAcquirePermit() {
		c.metrics.Requests.WithLabelValues(endpoint, "rejected").Inc()
		return fmt.Errorf("%w: %w", ErrUnavailable, circuitbreaker.ErrOpen)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		c.breaker.RecordSuccess()
		c.metrics.Requests.WithLabelValues(endpoint, "canceled").Inc()
		return fmt.Errorf("waiting for backend rate limiter: %w", err)
	}

	u := *c.baseURL
	u.Path += path
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		c.breaker.RecordSuccess()
		return fmt.Errorf("building %s request: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	c.metrics.RequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		c.breaker.RecordError(err)
		c.metrics.Requests.WithLabelValues(endpoint, "error").Inc()
		log.Warn("backend request failed", slog.Any("error", err))
		return fmt.Errorf("%w: requesting %s: %w", ErrUnavailable, endpoint, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		statusErr := fmt.Errorf("%w: %s returned %d", ErrUnexpectedStatus, endpoint, resp.StatusCode)
		if resp.StatusCode >= http.StatusInternalServerError {
			c.breaker.RecordError(statusErr)
		} else {
			c.breaker.RecordSuccess()
		}
		c.metrics.Requests.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()
		log.Warn("backend returned error status",
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(snippet)))
		return statusErr
	}

	c.breaker.RecordSuccess()
	if err := decode(resp.Body); err != nil {
		c.metrics.Requests.WithLabelValues(endpoint, "invalid").Inc()
		return err
	}
	c.metrics.Requests.WithLabelValues(endpoint, "ok").Inc()
	log.Debug("backend request completed", slog.Duration("duration", time.Since(start)))
	return nil
}
