package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"tripshare/internal/clipboard"
	"tripshare/internal/config"
	apperrors "tripshare/internal/errors"
	"tripshare/internal/logging"
	"tripshare/internal/share"
	"tripshare/internal/store"
	"tripshare/internal/trip"
)

// setupTestRuntime installs a default configuration, a mock store and a mock
// clipboard in place of the real ones
func setupTestRuntime(t *testing.T) (*store.MockService, *clipboard.MockWriter) {
	t.Helper()

	prevStore, prevWriter := openStore, newClipboardWriter
	prevCfg, prevLog := cfg, log

	cfg = config.Default()
	cfg.BaseURL = "https://trips.example.com/"
	cfg.DBPath = "/tmp/tripshare-test.db"
	log = logging.Discard()

	mock := store.NewMockService()
	writer := clipboard.NewMockWriter()
	openStore = func() (store.Service, error) { return mock, nil }
	newClipboardWriter = func(io.Writer) (clipboard.Writer, error) { return writer, nil }

	t.Cleanup(func() {
		openStore, newClipboardWriter = prevStore, prevWriter
		cfg, log = prevCfg, prevLog
	})

	return mock, writer
}

func newTestCommand() (*cobra.Command, *bytes.Buffer) {
	var out bytes.Buffer
	c := &cobra.Command{}
	c.SetOut(&out)
	c.SetContext(context.Background())
	return c, &out
}

func seedTrip(t *testing.T, s store.Service) *trip.Trip {
	t.Helper()

	tr := &trip.Trip{
		Title:       "Summer in Lisbon",
		Destination: "Lisbon",
		StartDate:   time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC),
		Currency:    "EUR",
	}
	if err := s.CreateTrip(tr); err != nil {
		t.Fatalf("seed trip: %v", err)
	}
	return tr
}

func TestResolveLink(t *testing.T) {
	mock, _ := setupTestRuntime(t)
	seeded := seedTrip(t, mock)

	link, tr, err := resolveLink(seeded.Token)
	if err != nil {
		t.Fatalf("resolveLink(token): %v", err)
	}
	if link != "https://trips.example.com/t/"+seeded.Token {
		t.Errorf("Unexpected link %q", link)
	}
	if tr == nil || tr.Title != seeded.Title {
		t.Error("Expected the seeded trip")
	}

	link, tr, err = resolveLink("https://other.example.com/t/abc")
	if err != nil {
		t.Fatalf("resolveLink(link): %v", err)
	}
	if link != "https://other.example.com/t/abc" || tr != nil {
		t.Errorf("Links should pass through, got %q %v", link, tr)
	}
}

func TestResolveLinkErrors(t *testing.T) {
	setupTestRuntime(t)

	tests := []struct {
		name  string
		input string
		want  apperrors.ErrorType
	}{
		{"malformed token", "not-a-token", apperrors.ErrorTypeValidation},
		{"bad scheme", "ftp://trips.example.com/t/abc", apperrors.ErrorTypeValidation},
		{"unknown token", "ffffffffffffffffffffffffffffffff", apperrors.ErrorTypeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := resolveLink(tt.input)

			var appErr *apperrors.AppError
			if !errors.As(err, &appErr) {
				t.Fatalf("Expected AppError, got %v", err)
			}
			if appErr.Type != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, appErr.Type)
			}
		})
	}
}

func TestCopyCommandSuccess(t *testing.T) {
	mock, writer := setupTestRuntime(t)
	seeded := seedTrip(t, mock)

	c, out := newTestCommand()
	if err := runCopy(c, []string{seeded.Token}); err != nil {
		t.Fatalf("runCopy: %v", err)
	}

	want := "https://trips.example.com/t/" + seeded.Token
	if writer.Last() != want {
		t.Errorf("Expected %q on the clipboard, got %q", want, writer.Last())
	}
	if !strings.Contains(out.String(), "Link copied. Send it via messaging app.") {
		t.Errorf("Missing confirmation in %q", out.String())
	}
}

func TestCopyCommandFailurePrintsLink(t *testing.T) {
	_, writer := setupTestRuntime(t)
	writer.SetError(errors.New("no clipboard utility found"))

	c, out := newTestCommand()
	if err := runCopy(c, []string{testLink}); err != nil {
		t.Fatalf("runCopy: %v", err)
	}

	if !strings.Contains(out.String(), "Copy failed. Copy manually.") {
		t.Errorf("Missing failure message in %q", out.String())
	}
	if !strings.Contains(out.String(), testLink) {
		t.Errorf("Failure output should include the link, got %q", out.String())
	}
}

func TestCopyCommandLocale(t *testing.T) {
	setupTestRuntime(t)
	cfg.Locale = "pt-BR"

	c, out := newTestCommand()
	if err := runCopy(c, []string{testLink}); err != nil {
		t.Fatalf("runCopy: %v", err)
	}

	if !strings.Contains(out.String(), "Link copiado. Envie no WhatsApp.") {
		t.Errorf("Expected Portuguese confirmation, got %q", out.String())
	}
}

func setTripFlags(title, destination, start, end, days, currency string) {
	tripTitle, tripDestination = title, destination
	tripStart, tripEnd, tripDays = start, end, days
	tripCurrency = currency
}

func TestTripNew(t *testing.T) {
	mock, _ := setupTestRuntime(t)
	setTripFlags("  Summer  ", "Lisbon", "2026-07-01", "", "10", "eur")
	t.Cleanup(func() { setTripFlags("", "", "", "", "", "") })

	c, out := newTestCommand()
	if err := runTripNew(c, nil); err != nil {
		t.Fatalf("runTripNew: %v", err)
	}

	trips, _ := mock.ListTrips()
	if len(trips) != 1 {
		t.Fatalf("Expected 1 trip, got %d", len(trips))
	}
	got := trips[0]
	if got.Title != "Summer" {
		t.Errorf("Expected trimmed title, got %q", got.Title)
	}
	if got.Currency != "EUR" {
		t.Errorf("Expected EUR, got %q", got.Currency)
	}
	if got.EndDate.Format(trip.DateLayout) != "2026-07-10" {
		t.Errorf("Expected end 2026-07-10, got %s", got.EndDate.Format(trip.DateLayout))
	}
	if !strings.Contains(out.String(), "https://trips.example.com/t/"+got.Token) {
		t.Errorf("Output should include the share link, got %q", out.String())
	}
}

func TestTripNewValidation(t *testing.T) {
	tests := []struct {
		name                                           string
		title, destination, start, end, days, currency string
	}{
		{"short title", "S", "Lisbon", "2026-07-01", "", "3", ""},
		{"bad start", "Summer", "Lisbon", "01/07/2026", "", "3", ""},
		{"no end or days", "Summer", "Lisbon", "2026-07-01", "", "", ""},
		{"end before start", "Summer", "Lisbon", "2026-07-10", "2026-07-01", "", ""},
		{"too long", "Summer", "Lisbon", "2026-07-01", "", "366", ""},
		{"bad currency", "Summer", "Lisbon", "2026-07-01", "", "3", "R$"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, _ := setupTestRuntime(t)
			setTripFlags(tt.title, tt.destination, tt.start, tt.end, tt.days, tt.currency)
			t.Cleanup(func() { setTripFlags("", "", "", "", "", "") })

			c, _ := newTestCommand()
			err := runTripNew(c, nil)

			var appErr *apperrors.AppError
			if !errors.As(err, &appErr) || appErr.Type != apperrors.ErrorTypeValidation {
				t.Fatalf("Expected validation error, got %v", err)
			}
			if stats, _ := mock.Stats(); stats.TotalTrips != 0 {
				t.Error("Invalid trip should not be stored")
			}
		})
	}
}

func TestTripListAndShow(t *testing.T) {
	mock, _ := setupTestRuntime(t)

	c, out := newTestCommand()
	if err := runTripList(c, nil); err != nil {
		t.Fatalf("runTripList: %v", err)
	}
	if !strings.Contains(out.String(), "No trips yet") {
		t.Errorf("Expected empty hint, got %q", out.String())
	}

	seeded := seedTrip(t, mock)

	c, out = newTestCommand()
	if err := runTripList(c, nil); err != nil {
		t.Fatalf("runTripList: %v", err)
	}
	if !strings.Contains(out.String(), seeded.Token) || !strings.Contains(out.String(), "Lisbon") {
		t.Errorf("List should include the trip, got %q", out.String())
	}

	c, out = newTestCommand()
	if err := runTripShow(c, []string{seeded.Token}); err != nil {
		t.Fatalf("runTripShow: %v", err)
	}
	if !strings.Contains(out.String(), "(10 days)") {
		t.Errorf("Show should include the length, got %q", out.String())
	}
	if !strings.Contains(out.String(), "https://calendar.google.com/calendar/render?") {
		t.Errorf("Show should include a calendar link, got %q", out.String())
	}
}

func TestTripEdit(t *testing.T) {
	mock, _ := setupTestRuntime(t)
	seeded := seedTrip(t, mock)
	t.Cleanup(func() { setTripFlags("", "", "", "", "", "") })

	c, out := newTestCommand()
	c.Flags().StringVar(&tripTitle, "title", "", "")
	c.Flags().StringVar(&tripDestination, "destination", "", "")
	c.Flags().StringVar(&tripStart, "start", "", "")
	c.Flags().StringVar(&tripEnd, "end", "", "")
	c.Flags().StringVar(&tripCurrency, "currency", "", "")
	if err := c.Flags().Set("title", "Winter in Lisbon"); err != nil {
		t.Fatal(err)
	}

	if err := runTripEdit(c, []string{seeded.Token}); err != nil {
		t.Fatalf("runTripEdit: %v", err)
	}

	got, err := mock.GetTripByToken(seeded.Token)
	if err != nil {
		t.Fatalf("GetTripByToken: %v", err)
	}
	if got.Title != "Winter in Lisbon" {
		t.Errorf("Expected new title, got %q", got.Title)
	}
	if got.Destination != seeded.Destination || got.Currency != seeded.Currency {
		t.Error("Unchanged fields should be kept")
	}
	if !got.EndDate.Equal(seeded.EndDate) {
		t.Errorf("End date changed to %s", got.EndDate)
	}
	if !strings.Contains(out.String(), "Updated trip") {
		t.Errorf("Unexpected output %q", out.String())
	}
}

func TestTripDelete(t *testing.T) {
	mock, _ := setupTestRuntime(t)
	seeded := seedTrip(t, mock)

	c, _ := newTestCommand()
	if err := runTripDelete(c, []string{seeded.Token}); err != nil {
		t.Fatalf("runTripDelete: %v", err)
	}

	err := runTripDelete(c, []string{seeded.Token})
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Type != apperrors.ErrorTypeNotFound {
		t.Errorf("Expected not found on second delete, got %v", err)
	}
}

func TestTripStats(t *testing.T) {
	mock, _ := setupTestRuntime(t)
	seedTrip(t, mock)

	c, out := newTestCommand()
	if err := runTripStats(c, nil); err != nil {
		t.Fatalf("runTripStats: %v", err)
	}
	if !strings.Contains(out.String(), "Total trips:   1") {
		t.Errorf("Unexpected stats output %q", out.String())
	}
}

func TestStatusPolicyFromConfig(t *testing.T) {
	setupTestRuntime(t)
	cfg.StatusClearDelay = 500 * time.Millisecond
	cfg.FailureClearDelay = 3 * time.Second

	policy := statusPolicy()
	if got := policy[share.OutcomeSuccess].ClearAfter; got != 500*time.Millisecond {
		t.Errorf("Unexpected success delay %s", got)
	}
	if got := policy[share.OutcomeFailure].ClearAfter; got != 3*time.Second {
		t.Errorf("Unexpected failure delay %s", got)
	}

	cfg.FailureClearDelay = 0
	if got := statusPolicy()[share.OutcomeFailure].ClearAfter; got != 0 {
		t.Errorf("Failure should not clear by default, got %s", got)
	}
}
