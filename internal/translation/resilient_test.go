package translation_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"

	"github.com/SimonOfHH/deepl-helper/internal/testutil"
	"github.com/SimonOfHH/deepl-helper/internal/translation"
)

func fastRetry(attempts int) translation.RetryConfig {
	cfg := translation.DefaultRetryConfig()
	cfg.MaxAttempts = attempts
	cfg.InitialDelay = time.Millisecond
	return cfg
}

func TestResilientProvider_NoRetryByDefault(t *testing.T) {
	mock := testutil.NewMockProvider(nil)
	mock.TranslateErrs = []error{&translation.ProviderError{Provider: "mock", Status: 503, Message: "unavailable"}}

	p := translation.NewResilientProvider(mock, translation.DefaultRetryConfig())
	_, err := p.TranslateBatch(context.Background(), []string{"a"}, "en", "de", translation.Options{})
	if err == nil {
		t.Fatal("Expected error")
	}
	if len(mock.Calls) != 1 {
		t.Errorf("Expected exactly one provider call without retries, got %d", len(mock.Calls))
	}
}

func TestResilientProvider_RetriesTemporaryErrors(t *testing.T) {
	mock := testutil.NewMockProvider(map[string]string{"a": "A"})
	mock.TranslateErrs = []error{
		&translation.ProviderError{Provider: "mock", Status: 429, Message: "slow down"},
		&translation.ProviderError{Provider: "mock", Status: 502, Message: "bad gateway"},
	}

	p := translation.NewResilientProvider(mock, fastRetry(3))
	out, err := p.TranslateBatch(context.Background(), []string{"a"}, "en", "de", translation.Options{})
	if err != nil {
		t.Fatalf("TranslateBatch failed: %v", err)
	}
	if len(out) != 1 || out[0] != "A" {
		t.Errorf("Unexpected result %v", out)
	}
	if len(mock.Calls) != 3 {
		t.Errorf("Expected 3 attempts, got %d", len(mock.Calls))
	}
}

func TestResilientProvider_GivesUpAfterMaxAttempts(t *testing.T) {
	unavailable := &translation.ProviderError{Provider: "mock", Status: 503, Message: "unavailable"}
	mock := testutil.NewMockProvider(nil)
	mock.TranslateErrs = []error{unavailable, unavailable, unavailable, unavailable}

	p := translation.NewResilientProvider(mock, fastRetry(2))
	_, err := p.TranslateBatch(context.Background(), []string{"a"}, "en", "de", translation.Options{})

	var perr *translation.ProviderError
	if !errors.As(err, &perr) || perr.Status != 503 {
		t.Fatalf("Expected wrapped 503 ProviderError, got %v", err)
	}
	if len(mock.Calls) != 2 {
		t.Errorf("Expected 2 attempts, got %d", len(mock.Calls))
	}
}

func TestResilientProvider_NoRetryOnClientError(t *testing.T) {
	mock := testutil.NewMockProvider(nil)
	mock.TranslateErrs = []error{&translation.ProviderError{Provider: "mock", Status: 403, Message: "forbidden"}}

	p := translation.NewResilientProvider(mock, fastRetry(5))
	if _, err := p.TranslateBatch(context.Background(), []string{"a"}, "en", "de", translation.Options{}); err == nil {
		t.Fatal("Expected error")
	}
	if len(mock.Calls) != 1 {
		t.Errorf("Expected a single attempt for a client error, got %d", len(mock.Calls))
	}
}

func TestResilientProvider_DeleteNotRetried(t *testing.T) {
	mock := testutil.NewMockProvider(nil)
	p := translation.NewResilientProvider(mock, fastRetry(5))

	err := p.DeleteGlossary(context.Background(), "missing")
	if !errors.Is(err, translation.ErrGlossaryNotFound) {
		t.Errorf("Expected ErrGlossaryNotFound, got %v", err)
	}
	if len(mock.Deleted) != 1 {
		t.Errorf("Expected one delete attempt, got %d", len(mock.Deleted))
	}
}

func TestResilientProvider_BreakerOpens(t *testing.T) {
	unavailable := &translation.ProviderError{Provider: "mock", Status: 503, Message: "unavailable"}
	mock := testutil.NewMockProvider(nil)
	mock.TranslateErrs = []error{unavailable, unavailable, unavailable}

	cfg := translation.DefaultRetryConfig()
	cfg.BreakerThreshold = 2
	cfg.BreakerTimeout = time.Minute
	p := translation.NewResilientProvider(mock, cfg)

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		p.TranslateBatch(ctx, []string{"a"}, "en", "de", translation.Options{})
	}
	if p.State() != gobreaker.StateOpen {
		t.Fatalf("Expected open breaker, got %v", p.State())
	}

	_, err := p.TranslateBatch(ctx, []string{"a"}, "en", "de", translation.Options{})
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("Expected ErrOpenState, got %v", err)
	}
	if len(mock.Calls) != 2 {
		t.Errorf("Open breaker must not reach the provider, got %d calls", len(mock.Calls))
	}
}
