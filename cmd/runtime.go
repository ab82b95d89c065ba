package cmd

import (
	"context"
	"errors"
	"io"

	"github.com/spf13/cobra"

	"tripshare/internal/clipboard"
	apperrors "tripshare/internal/errors"
	"tripshare/internal/retry"
	"tripshare/internal/share"
	"tripshare/internal/store"
	"tripshare/internal/trip"
	"tripshare/internal/validation"
)

// openStore is replaced in tests. Opening retries briefly while another
// tripshare process holds the database lock.
var openStore = func() (store.Service, error) {
	var s *store.Store
	err := retry.WithQuickRetry(context.Background(), "open trip store", func() error {
		var err error
		s, err = store.New(cfg.DBPath)
		return err
	})
	if err != nil {
		return nil, apperrors.WrapStoreError(err, "open")
	}
	return s, nil
}

// newClipboardWriter is replaced in tests
var newClipboardWriter = func(out io.Writer) (clipboard.Writer, error) {
	w, err := clipboard.New(clipboard.Backend(cfg.Clipboard), out)
	if err != nil {
		return nil, apperrors.WrapConfigError(err, "clipboard")
	}
	return w, nil
}

// statusPolicy builds the outcome policy from the loaded configuration
func statusPolicy() share.Policy {
	policy := share.DefaultPolicy(share.MessagesFor(cfg.Locale), cfg.StatusClearDelay)
	if cfg.FailureClearDelay > 0 {
		policy = policy.WithFailureClear(cfg.FailureClearDelay)
	}
	return policy
}

// resolveLink turns a share token or a full link into the link to copy.
// The trip is nil when a link was given directly.
func resolveLink(input string) (string, *trip.Trip, error) {
	if validation.IsLink(input) {
		if err := validation.ValidateShareLink(input); err != nil {
			return "", nil, apperrors.WrapValidationError(err, input)
		}
		return input, nil, nil
	}

	t, err := findTrip(input)
	if err != nil {
		return "", nil, err
	}
	return trip.ShareURL(cfg.BaseURL, t.Token), t, nil
}

// findTrip validates token and loads its trip
func findTrip(token string) (*trip.Trip, error) {
	if err := validation.ValidateToken(token); err != nil {
		return nil, apperrors.WrapValidationError(err, token)
	}

	s, err := openStore()
	if err != nil {
		return nil, err
	}
	defer s.Close()

	t, err := s.GetTripByToken(token)
	if errors.Is(err, store.ErrTripNotFound) {
		return nil, apperrors.NotFound(token, err)
	}
	if err != nil {
		return nil, apperrors.WrapStoreError(err, "get")
	}
	return t, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
