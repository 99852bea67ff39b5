package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/desertthunder/solotter/internal/shared"
)

const (
	DefaultBaseURL    = "https://api.twitter.com/1.1"
	DefaultMaxRetries = 3
)

// TwitterService is a client for the Twitter v1.1 REST API.
//
// The wrapped [http.Client] is expected to authenticate requests (see [UserClient] and [AppClient]).
// Every request waits on a client-side rate limiter. GET requests are retried with exponential backoff on
// network failures, rate limiting and 5xx responses; POST requests are sent exactly once.
type TwitterService struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries int
	newBackOff func() backoff.BackOff
	logger     *log.Logger
}

// Option configures a [TwitterService].
type Option func(*TwitterService)

// WithBaseURL points the client at a different API root, e.g. a test server.
func WithBaseURL(u string) Option {
	return func(s *TwitterService) { s.baseURL = strings.TrimRight(u, "/") }
}

// WithRateLimit caps outgoing requests per second. Zero or less disables the limiter.
func WithRateLimit(rps float64) Option {
	return func(s *TwitterService) {
		if rps <= 0 {
			s.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		s.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithMaxRetries sets how many times a failed GET is retried.
func WithMaxRetries(n int) Option {
	return func(s *TwitterService) {
		if n >= 0 {
			s.maxRetries = n
		}
	}
}

// WithBackOff replaces the retry schedule.
func WithBackOff(f func() backoff.BackOff) Option {
	return func(s *TwitterService) { s.newBackOff = f }
}

// WithLogger sets the logger used to report retries.
func WithLogger(l *log.Logger) Option {
	return func(s *TwitterService) { s.logger = l }
}

// SetLogger replaces the retry logger after construction.
func (s *TwitterService) SetLogger(l *log.Logger) {
	s.logger = l
}

// NewTwitterService creates a client around httpClient, which defaults to [http.DefaultClient].
func NewTwitterService(httpClient *http.Client, opts ...Option) *TwitterService {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	s := &TwitterService{
		baseURL:    DefaultBaseURL,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Inf, 1),
		maxRetries: DefaultMaxRetries,
		newBackOff: defaultBackOff,
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func defaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = time.Second
	b.MaxInterval = 30 * time.Second
	b.MaxElapsedTime = 2 * time.Minute
	return b
}

// Get requests endpoint with params and decodes the JSON response into out, which may be nil.
func (s *TwitterService) Get(ctx context.Context, endpoint string, params url.Values, out any) error {
	op := func() error {
		err := s.do(ctx, http.MethodGet, endpoint, params, out)
		if err != nil && !retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(s.newBackOff(), uint64(s.maxRetries)), ctx)
	return backoff.RetryNotify(op, policy, func(err error, wait time.Duration) {
		s.logger.Warn("retrying request", "endpoint", endpoint, "wait", wait, "error", err)
	})
}

// Post sends params in the query string with an empty body. It is never retried.
func (s *TwitterService) Post(ctx context.Context, endpoint string, params url.Values, out any) error {
	return s.do(ctx, http.MethodPost, endpoint, params, out)
}

func (s *TwitterService) do(ctx context.Context, method, endpoint string, params url.Values, out any) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	apiURL := s.baseURL + "/" + strings.TrimPrefix(endpoint, "/") + ".json"
	if len(params) > 0 {
		apiURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", shared.ErrRemoteAPI, endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read %s response: %w", shared.ErrRemoteAPI, endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseAPIError(endpoint, resp.StatusCode, body)
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("%w: failed to decode %s response: %v", shared.ErrRemoteAPI, endpoint, err)
		}
	}
	return nil
}

// retryable reports whether a GET failure is worth another attempt.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Temporary()
	}

	var urlErr *url.Error
	return errors.As(err, &urlErr)
}
