package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "tripshare/internal/errors"
)

func fastConfig() *Config {
	return &Config{
		MaxAttempts: 3,
		BaseDelay:   time.Millisecond,
		MaxDelay:    2 * time.Millisecond,
		Multiplier:  2.0,
	}
}

func TestWithRetryRetriesBusyErrors(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), fastConfig(), "open", func() error {
		calls++
		if calls < 3 {
			return errors.New("database is locked (5) (SQLITE_BUSY)")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetryStopsOnPermanentError(t *testing.T) {
	calls := 0
	permanent := errors.New("no such table: trips")
	err := WithRetry(context.Background(), fastConfig(), "open", func() error {
		calls++
		return permanent
	})

	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)
}

func TestWithRetryReportsAttempts(t *testing.T) {
	busy := errors.New("database is locked")
	err := WithRetry(context.Background(), fastConfig(), "open", func() error {
		return busy
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, busy)
	assert.Contains(t, err.Error(), "open failed after 3 attempts")
}

func TestWithRetryAnnotatesAppError(t *testing.T) {
	err := WithRetry(context.Background(), fastConfig(), "open", func() error {
		return apperrors.WrapStoreError(errors.New("database is locked"), "open")
	})

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeStore, appErr.Type)
	assert.Contains(t, appErr.Message, "(failed after 3 attempts)")
}

func TestWithRetryCustomPredicate(t *testing.T) {
	cfg := fastConfig()
	cfg.Retryable = func(error) bool { return false }

	calls := 0
	_ = WithRetry(context.Background(), cfg, "open", func() error {
		calls++
		return errors.New("database is locked")
	})
	assert.Equal(t, 1, calls)
}

func TestWithRetryHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := fastConfig()
	cfg.BaseDelay = time.Hour
	cfg.MaxDelay = time.Hour

	err := WithRetry(ctx, cfg, "open", func() error {
		return errors.New("database is locked")
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBackoff(t *testing.T) {
	cfg := &Config{BaseDelay: 10 * time.Millisecond, MaxDelay: 35 * time.Millisecond, Multiplier: 2}

	assert.Equal(t, 10*time.Millisecond, backoff(cfg, 1))
	assert.Equal(t, 20*time.Millisecond, backoff(cfg, 2))
	assert.Equal(t, 35*time.Millisecond, backoff(cfg, 3))
}

func TestIsBusy(t *testing.T) {
	assert.True(t, IsBusy(errors.New("database is locked")))
	assert.True(t, IsBusy(errors.New("step: SQLITE_BUSY")))
	assert.False(t, IsBusy(errors.New("disk I/O error")))
	assert.False(t, IsBusy(nil))
}
