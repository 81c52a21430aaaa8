// Package retry executes outbound HTTP requests with a bounded attempt budget.
//
// Rate-limited responses (429) back off exponentially with jitter:
// 2^attempt units plus a uniform random fraction of one unit. Transport
// failures and 5xx responses are retried straight away. Any other non-2xx
// status is terminal. When the budget runs out the last error is returned.
package retry

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"time"

	goretry "github.com/sethvargo/go-retry"

	"github.com/hammamikhairi/aichef/internal/domain"
	"github.com/hammamikhairi/aichef/internal/logger"
)

// Defaults.
const (
	DefaultMaxAttempts = 5
	DefaultUnit        = time.Second
)

// Doer sends a single HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// SendFunc sends a single HTTP request.
type SendFunc func(req *http.Request) (*http.Response, error)

// Option configures an Executor.
type Option func(*Executor)

// WithMaxAttempts sets the attempt budget. Values below 1 are ignored.
func WithMaxAttempts(n int) Option {
	return func(e *Executor) {
		if n >= 1 {
			e.maxAttempts = n
		}
	}
}

// WithUnit sets the backoff unit (one second by default).
func WithUnit(d time.Duration) Option {
	return func(e *Executor) {
		if d > 0 {
			e.unit = d
		}
	}
}

// WithJitter replaces the jitter source. fn receives the unit and should
// return a value in [0, unit).
func WithJitter(fn func(unit time.Duration) time.Duration) Option {
	return func(e *Executor) { e.jitter = fn }
}

// WithBackoffHook registers a callback invoked with every backoff delay
// before the executor sleeps.
func WithBackoffHook(fn func(attempt int, delay time.Duration)) Option {
	return func(e *Executor) { e.onBackoff = fn }
}

// Executor runs requests with the retry policy. It keeps no state between
// calls and is safe for concurrent use.
type Executor struct {
	client      Doer
	maxAttempts int
	unit        time.Duration
	jitter      func(time.Duration) time.Duration
	onBackoff   func(int, time.Duration)
	log         *logger.Logger
}

// New creates an Executor around client. A nil client means http.DefaultClient.
func New(client Doer, log *logger.Logger, opts ...Option) *Executor {
	if client == nil {
		client = http.DefaultClient
	}
	if log == nil {
		log = logger.Nop()
	}
	e := &Executor{
		client:      client,
		maxAttempts: DefaultMaxAttempts,
		unit:        DefaultUnit,
		jitter:      uniformJitter,
		log:         log,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// MaxAttempts returns the configured attempt budget.
func (e *Executor) MaxAttempts() int { return e.maxAttempts }

// Delay returns the backoff before retrying after the given zero-based
// attempt: 2^attempt units plus jitter.
func Delay(attempt int, unit, jitter time.Duration) time.Duration {
	return time.Duration(1<<attempt)*unit + jitter
}

func uniformJitter(unit time.Duration) time.Duration {
	return time.Duration(rand.Int64N(int64(unit)))
}

// Execute sends req through the executor's client.
func (e *Executor) Execute(ctx context.Context, req *http.Request) (*http.Response, error) {
	return e.ExecuteWith(ctx, req, e.client.Do)
}

// ExecuteWith runs the retry loop around send. It lets SDK middleware chains
// reuse the policy with their own transport.
func (e *Executor) ExecuteWith(ctx context.Context, req *http.Request, send SendFunc) (*http.Response, error) {
	req, err := replayable(req)
	if err != nil {
		return nil, err
	}

	var (
		resp    *http.Response
		attempt = -1
		backoff bool
	)

	next := goretry.BackoffFunc(func() (time.Duration, bool) {
		if attempt >= e.maxAttempts-1 {
			return 0, true
		}
		if !backoff {
			return 0, false
		}
		d := Delay(attempt, e.unit, e.jitter(e.unit))
		backoffSeconds.Observe(d.Seconds())
		if e.onBackoff != nil {
			e.onBackoff(attempt, d)
		}
		e.log.Debug("retry: rate limited on attempt %d/%d, backing off %s", attempt+1, e.maxAttempts, d)
		return d, false
	})

	err = goretry.Do(ctx, next, func(ctx context.Context) error {
		attempt++
		final := attempt == e.maxAttempts-1

		r, err := attemptRequest(ctx, req)
		if err != nil {
			return err
		}

		res, err := send(r)
		if err != nil {
			attemptsTotal.WithLabelValues(resultTransport).Inc()
			if ctx.Err() != nil {
				return ctx.Err()
			}
			err = fmt.Errorf("%w: %w", domain.ErrTransient, err)
			if final {
				return err
			}
			backoff = false
			retriesTotal.WithLabelValues(reasonTransport).Inc()
			e.log.Debug("retry: transport error on attempt %d/%d: %v", attempt+1, e.maxAttempts, err)
			return goretry.RetryableError(err)
		}

		if res.StatusCode >= 200 && res.StatusCode < 300 {
			attemptsTotal.WithLabelValues(resultOK).Inc()
			resp = res
			return nil
		}

		attemptsTotal.WithLabelValues(resultHTTPError).Inc()
		herr := newHTTPError(res)
		switch {
		case final:
			return herr
		case herr.StatusCode == http.StatusTooManyRequests:
			backoff = true
			retriesTotal.WithLabelValues(reasonRateLimited).Inc()
			return goretry.RetryableError(herr)
		case herr.StatusCode >= 500:
			backoff = false
			retriesTotal.WithLabelValues(reasonServerError).Inc()
			e.log.Debug("retry: status %d on attempt %d/%d", herr.StatusCode, attempt+1, e.maxAttempts)
			return goretry.RetryableError(herr)
		default:
			return herr
		}
	})
	if err != nil {
		e.log.Debug("retry: giving up after %d attempt(s): %v", attempt+1, err)
		return nil, err
	}
	return resp, nil
}

// replayable makes sure the body can be re-read on every attempt.
func replayable(req *http.Request) (*http.Request, error) {
	if req.Body == nil || req.Body == http.NoBody || req.GetBody != nil {
		return req, nil
	}
	b, err := io.ReadAll(req.Body)
	_ = req.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("retry: buffer request body: %w", err)
	}
	r := *req
	r.Body = io.NopCloser(bytes.NewReader(b))
	r.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(b)), nil
	}
	return &r, nil
}

// attemptRequest returns a fresh copy of req bound to ctx with a rewound body.
func attemptRequest(ctx context.Context, req *http.Request) (*http.Request, error) {
	r := req.Clone(ctx)
	if req.GetBody == nil {
		return r, nil
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, fmt.Errorf("retry: rewind request body: %w", err)
	}
	r.Body = body
	return r, nil
}
