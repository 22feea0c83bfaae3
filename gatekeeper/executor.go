package gatekeeper

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// Executor runs an outgoing request and delivers exactly one completion:
// a response or an error, never both. The client delegates all blocking,
// cancellation and timeout handling to its executor.
type Executor interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPExecutor is the default Executor, backed by net/http. Every
// request it issues carries an X-Request-ID header for correlation.
type HTTPExecutor struct {
	client *http.Client
	log    zerolog.Logger
}

var _ Executor = (*HTTPExecutor)(nil)

// HTTPExecutorOption configures an HTTPExecutor.
type HTTPExecutorOption func(*HTTPExecutor)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(c *http.Client) HTTPExecutorOption {
	return func(e *HTTPExecutor) {
		e.client = c
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) HTTPExecutorOption {
	return func(e *HTTPExecutor) {
		e.client.Timeout = d
	}
}

// WithExecutorLogger sets the executor's logger.
func WithExecutorLogger(log zerolog.Logger) HTTPExecutorOption {
	return func(e *HTTPExecutor) {
		e.log = log
	}
}

// NewHTTPExecutor creates an executor with the given options.
func NewHTTPExecutor(opts ...HTTPExecutorOption) *HTTPExecutor {
	e := &HTTPExecutor{
		client: &http.Client{Timeout: DefaultTimeout},
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Do implements Executor.
func (e *HTTPExecutor) Do(req *http.Request) (*http.Response, error) {
	requestID := req.Header.Get("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
		req.Header.Set("X-Request-ID", requestID)
	}

	log := e.log.With().
		Str("request_id", requestID).
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Logger()

	log.Debug().Msg("issuing request")

	resp, err := e.client.Do(req)
	if err != nil {
		log.Warn().Err(err).Msg("request failed")
		return nil, err
	}

	log.Debug().Int("status", resp.StatusCode).Msg("request completed")
	return resp, nil
}
