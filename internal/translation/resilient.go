package translation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// RetryConfig bounds the retries of a ResilientProvider.
type RetryConfig struct {
	// MaxAttempts is the total number of attempts per call; values below 2
	// disable retrying.
	MaxAttempts   int
	InitialDelay  time.Duration
	BackoffFactor float64

	// BreakerThreshold is the number of consecutive failed calls that opens
	// the circuit; BreakerTimeout is how long it stays open.
	BreakerThreshold uint32
	BreakerTimeout   time.Duration
}

// DefaultRetryConfig returns a configuration without retries.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:      1,
		InitialDelay:     time.Second,
		BackoffFactor:    2.0,
		BreakerThreshold: 5,
		BreakerTimeout:   30 * time.Second,
	}
}

// ResilientProvider wraps a provider with a circuit breaker and bounded
// exponential backoff on temporary errors. Only reads and translations are
// retried; creating and deleting glossaries are attempted once.
type ResilientProvider struct {
	next    Provider
	cfg     RetryConfig
	breaker *gobreaker.CircuitBreaker
	log     *slog.Logger
}

// NewResilientProvider wraps next.
func NewResilientProvider(next Provider, cfg RetryConfig) *ResilientProvider {
	if cfg.BackoffFactor < 1 {
		cfg.BackoffFactor = 1
	}
	if cfg.BreakerThreshold == 0 {
		cfg.BreakerThreshold = DefaultRetryConfig().BreakerThreshold
	}

	settings := gobreaker.Settings{
		Name:        next.Name(),
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerThreshold
		},
		// Client errors say nothing about the provider's health.
		IsSuccessful: func(err error) bool {
			return err == nil || !IsTemporary(err)
		},
	}

	return &ResilientProvider{
		next:    next,
		cfg:     cfg,
		breaker: gobreaker.NewCircuitBreaker(settings),
		log:     slog.Default().With("provider", next.Name()),
	}
}

// Name returns the wrapped provider's name
func (r *ResilientProvider) Name() string {
	return r.next.Name()
}

// State returns the circuit breaker state.
func (r *ResilientProvider) State() gobreaker.State {
	return r.breaker.State()
}

// TranslateBatch translates with retries.
func (r *ResilientProvider) TranslateBatch(ctx context.Context, texts []string, sourceLang, targetLang string, opts Options) ([]string, error) {
	res, err := r.call(ctx, "translate", true, func() (any, error) {
		return r.next.TranslateBatch(ctx, texts, sourceLang, targetLang, opts)
	})
	if err != nil {
		return nil, err
	}
	return res.([]string), nil
}

// ListGlossaries lists with retries.
func (r *ResilientProvider) ListGlossaries(ctx context.Context) ([]RemoteGlossary, error) {
	res, err := r.call(ctx, "list glossaries", true, func() (any, error) {
		return r.next.ListGlossaries(ctx)
	})
	if err != nil {
		return nil, err
	}
	return res.([]RemoteGlossary), nil
}

// CreateGlossary is attempted once.
func (r *ResilientProvider) CreateGlossary(ctx context.Context, entries Glossary, name, sourceLang, targetLang string) (RemoteGlossary, error) {
	res, err := r.call(ctx, "create glossary", false, func() (any, error) {
		return r.next.CreateGlossary(ctx, entries, name, sourceLang, targetLang)
	})
	if err != nil {
		return RemoteGlossary{}, err
	}
	return res.(RemoteGlossary), nil
}

// DeleteGlossary is attempted once.
func (r *ResilientProvider) DeleteGlossary(ctx context.Context, id string) error {
	_, err := r.call(ctx, "delete glossary", false, func() (any, error) {
		return nil, r.next.DeleteGlossary(ctx, id)
	})
	return err
}

// GlossaryEntries fetches with retries.
func (r *ResilientProvider) GlossaryEntries(ctx context.Context, id string) (Glossary, error) {
	res, err := r.call(ctx, "glossary entries", true, func() (any, error) {
		return r.next.GlossaryEntries(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return res.(Glossary), nil
}

func (r *ResilientProvider) call(ctx context.Context, op string, retry bool, fn func() (any, error)) (any, error) {
	attempts := 1
	if retry && r.cfg.MaxAttempts > 1 {
		attempts = r.cfg.MaxAttempts
	}
	delay := r.cfg.InitialDelay

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		res, err := r.breaker.Execute(fn)
		if err == nil {
			return res, nil
		}

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, &ProviderError{Provider: r.Name(), Message: "circuit breaker open", Err: err}
		}
		lastErr = err
		if !IsTemporary(err) || attempt == attempts {
			break
		}

		r.log.Warn("provider call failed, retrying", "op", op, "attempt", attempt, "delay", delay, "error", err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		delay = time.Duration(float64(delay) * r.cfg.BackoffFactor)
	}

	if attempts > 1 && IsTemporary(lastErr) {
		return nil, fmt.Errorf("%s failed after %d attempts: %w", op, attempts, lastErr)
	}
	return nil, lastErr
}
