package retry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "tripshare/internal/errors"
)

// Config holds retry configuration
type Config struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Multiplier  float64

	// Retryable reports whether err is worth another attempt.
	// Nil means IsBusy.
	Retryable func(err error) bool
}

// DefaultConfig returns retry defaults for store operations
func DefaultConfig() *Config {
	return &Config{
		MaxAttempts: 3,
		BaseDelay:   100 * time.Millisecond,
		MaxDelay:    2 * time.Second,
		Multiplier:  2.0,
	}
}

// QuickConfig returns faster retry settings for interactive operations
func QuickConfig() *Config {
	return &Config{
		MaxAttempts: 2,
		BaseDelay:   50 * time.Millisecond,
		MaxDelay:    500 * time.Millisecond,
		Multiplier:  2.0,
	}
}

// IsBusy reports whether err is SQLite refusing access because another
// process holds the database lock
func IsBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "sqlite_busy")
}

// WithRetry executes a function with exponential backoff retry logic
func WithRetry(ctx context.Context, config *Config, operation string, fn func() error) error {
	if config == nil {
		config = DefaultConfig()
	}
	retryable := config.Retryable
	if retryable == nil {
		retryable = IsBusy
	}

	var lastErr error

	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}

		lastErr = err
		if !retryable(err) {
			return err
		}

		// Don't sleep after the last attempt
		if attempt >= config.MaxAttempts {
			break
		}

		delay := backoff(config, attempt)

		select {
		case <-time.After(delay):
			continue
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	var appErr *apperrors.AppError
	if errors.As(lastErr, &appErr) {
		appErr.Message = fmt.Sprintf("%s (failed after %d attempts)", appErr.Message, config.MaxAttempts)
		return lastErr
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operation, config.MaxAttempts, lastErr)
}

// WithQuickRetry is a convenience function for interactive operations that need fast retry
func WithQuickRetry(ctx context.Context, operation string, fn func() error) error {
	return WithRetry(ctx, QuickConfig(), operation, fn)
}

// backoff returns the delay before the attempt after the given one
func backoff(config *Config, attempt int) time.Duration {
	delay := float64(config.BaseDelay)
	for i := 1; i < attempt; i++ {
		delay *= config.Multiplier
	}
	if d := time.Duration(delay); d < config.MaxDelay {
		return d
	}
	return config.MaxDelay
}
