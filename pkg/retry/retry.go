package retry

import (
	"context"
	"errors"
	"math/rand"
	"time"
)

// Permanent wraps an error to stop retrying immediately.
type Permanent struct {
	Err error
}

func (p *Permanent) Error() string { return p.Err.Error() }
func (p *Permanent) Unwrap() error { return p.Err }

// Stop marks err as not worth retrying.
func Stop(err error) error {
	return &Permanent{Err: err}
}

type Config struct {
	MaxAttempts   int
	BackoffFactor float64
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	Jitter        time.Duration
}

func NewDefaultConfig() *Config {
	return &Config{
		MaxAttempts:   4,
		BackoffFactor: 2.0,
		InitialDelay:  250 * time.Millisecond,
		MaxDelay:      10 * time.Second,
		Jitter:        50 * time.Millisecond,
	}
}

type Retrier struct {
	config *Config
}

func NewRetrier(config *Config) *Retrier {
	return &Retrier{config: config}
}

func NewDefaultRetrier() *Retrier {
	return NewRetrier(NewDefaultConfig())
}

// Do runs op until it succeeds, returns a Permanent error, exhausts the
// attempt budget or ctx is done.
func (r *Retrier) Do(ctx context.Context, op func() error) error {
	var err error
	delay := r.config.InitialDelay
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))

	for attempt := 1; attempt <= r.config.MaxAttempts; attempt++ {
		err = op()
		if err == nil {
			return nil
		}

		var perm *Permanent
		if errors.As(err, &perm) {
			return perm.Err
		}

		if attempt == r.config.MaxAttempts {
			return err
		}

		jitter := time.Duration(rnd.Float64() * float64(r.config.Jitter))
		wait := delay + jitter
		if wait > r.config.MaxDelay {
			wait = r.config.MaxDelay + jitter
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}

		delay = time.Duration(float64(delay) * r.config.BackoffFactor)
		if delay > r.config.MaxDelay {
			delay = r.config.MaxDelay
		}
	}
	return err
}
