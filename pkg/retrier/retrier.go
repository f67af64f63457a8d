package retrier

import (
	"context"
	"time"
)

const (
	defaultMaxRetries = 5
	defaultDelay      = 2 * time.Second
)

// Retrier runs an operation up to 1+maxRetries times with a fixed delay
// between attempts.
type Retrier struct {
	maxRetries int
	delay      time.Duration
}

// Option defines a function to configure the Retrier.
type Option func(*Retrier)

// WithMaxRetries sets the maximum number of retries after the first attempt.
func WithMaxRetries(n int) Option {
	return func(r *Retrier) {
		r.maxRetries = n
	}
}

// WithDelay sets the pause between attempts.
func WithDelay(d time.Duration) Option {
	return func(r *Retrier) {
		r.delay = d
	}
}

// New creates a new Retrier with default values and optional overrides.
func New(opts ...Option) *Retrier {
	r := &Retrier{
		maxRetries: defaultMaxRetries,
		delay:      defaultDelay,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Do executes fn until it succeeds, the retry budget is exhausted, or the
// context is cancelled. The last attempt's error is returned on exhaustion.
func (r *Retrier) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	var err error

	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(r.delay):
			}
		}

		err = fn(ctx)
		if err == nil {
			return nil
		}
	}

	return err
}
