package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	prettytable "github.com/jedib0t/go-pretty/v6/table"
	"github.com/skip2/go-qrcode"
	"github.com/spf13/cobra"

	"tripshare/internal/config"
	apperrors "tripshare/internal/errors"
	"tripshare/internal/store"
	"tripshare/internal/trip"
	"tripshare/internal/validation"
)

var tripCmd = &cobra.Command{
	Use:   "trip",
	Short: "Manage trips",
	Long: `Create, inspect, edit and delete the trips whose share links tripshare hands out.

Trips are kept in a local SQLite database (see db_path in the configuration).`,
}

var tripNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a trip and print its share link",
	Long: `Create a trip. The end date comes from --end or, when omitted, from --days
counted inclusively from --start.`,
	Args: cobra.NoArgs,
	RunE: runTripNew,
}

var tripListCmd = &cobra.Command{
	Use:   "list",
	Short: "List trips",
	Args:  cobra.NoArgs,
	RunE:  runTripList,
}

var tripShowCmd = &cobra.Command{
	Use:   "show <token>",
	Short: "Show a trip with its links, items, costs and participants",
	Args:  cobra.ExactArgs(1),
	RunE:  runTripShow,
}

var tripEditCmd = &cobra.Command{
	Use:   "edit <token>",
	Short: "Edit a trip",
	Long:  `Edit a trip. Only the flags given are changed; the token and share link stay the same.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTripEdit,
}

var tripDeleteCmd = &cobra.Command{
	Use:   "delete <token>",
	Short: "Delete a trip",
	Long:  `Delete a trip. Its share link stops resolving.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTripDelete,
}

var tripStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show trip database statistics",
	Args:  cobra.NoArgs,
	RunE:  runTripStats,
}

var (
	tripTitle       string
	tripDestination string
	tripStart       string
	tripEnd         string
	tripDays        string
	tripCurrency    string
	tripShowQR      bool
)

func init() {
	rootCmd.AddCommand(tripCmd)
	tripCmd.AddCommand(tripNewCmd)
	tripCmd.AddCommand(tripListCmd)
	tripCmd.AddCommand(tripShowCmd)
	tripCmd.AddCommand(tripEditCmd)
	tripCmd.AddCommand(tripDeleteCmd)
	tripCmd.AddCommand(tripStatsCmd)

	for _, c := range []*cobra.Command{tripNewCmd, tripEditCmd} {
		c.Flags().StringVar(&tripTitle, "title", "", "Trip title")
		c.Flags().StringVar(&tripDestination, "destination", "", "Trip destination")
		c.Flags().StringVar(&tripStart, "start", "", "Start date (YYYY-MM-DD)")
		c.Flags().StringVar(&tripEnd, "end", "", "End date (YYYY-MM-DD)")
		c.Flags().StringVar(&tripCurrency, "currency", "", "Currency code (default "+config.DefaultCurrency+")")
	}
	tripShowCmd.Flags().BoolVar(&tripShowQR, "qr", false, "Print the share link as a QR code")
	tripNewCmd.Flags().StringVar(&tripDays, "days", "", "Trip length in days, used when --end is omitted")

	tripNewCmd.MarkFlagRequired("title")
	tripNewCmd.MarkFlagRequired("destination")
	tripNewCmd.MarkFlagRequired("start")
}

func runTripNew(cmd *cobra.Command, args []string) error {
	t, err := buildTrip(tripTitle, tripDestination, tripStart, tripEnd, tripDays, tripCurrency)
	if err != nil {
		return err
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.CreateTrip(t); err != nil {
		return apperrors.WrapStoreError(err, "create")
	}

	log.WithField("token", t.Token).Info("trip created")

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created trip %q (%d days)\n", t.Title, t.Days())
	fmt.Fprintf(out, "  Token: %s\n", t.Token)
	fmt.Fprintf(out, "  Share: %s\n", trip.ShareURL(cfg.BaseURL, t.Token))
	return nil
}

// buildTrip validates raw flag values into a trip
func buildTrip(title, destination, start, end, days, currency string) (*trip.Trip, error) {
	cleanTitle, err := validation.NormalizeName("title", title)
	if err != nil {
		return nil, apperrors.WrapValidationError(err, title)
	}

	cleanDestination, err := validation.NormalizeName("destination", destination)
	if err != nil {
		return nil, apperrors.WrapValidationError(err, destination)
	}

	startDate, err := validation.ParseDate("start", start)
	if err != nil {
		return nil, apperrors.WrapValidationError(err, start)
	}

	endDate, err := validation.ResolveEndDate(startDate, end, days)
	if err != nil {
		return nil, apperrors.WrapValidationError(err, end+days)
	}

	code, err := validation.NormalizeCurrency(currency, config.DefaultCurrency)
	if err != nil {
		return nil, apperrors.WrapValidationError(err, currency)
	}

	return &trip.Trip{
		Title:       cleanTitle,
		Destination: cleanDestination,
		StartDate:   startDate,
		EndDate:     endDate,
		Currency:    code,
	}, nil
}

func runTripList(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	trips, err := s.ListTrips()
	if err != nil {
		return apperrors.WrapStoreError(err, "list")
	}

	out := cmd.OutOrStdout()
	if len(trips) == 0 {
		fmt.Fprintln(out, "No trips yet. Create one with 'tripshare trip new'")
		return nil
	}

	tw := prettytable.NewWriter()
	tw.SetStyle(prettytable.StyleRounded)
	tw.SetColumnConfigs([]prettytable.ColumnConfig{
		{Name: "Trip", WidthMax: config.TripColumnWidth},
	})
	tw.AppendHeader(prettytable.Row{"Trip", "Destination", "Dates", "Token", "Created"})

	for _, t := range trips {
		tw.AppendRow(prettytable.Row{
			t.Title,
			t.Destination,
			fmt.Sprintf("%s → %s", t.StartDate.Format(trip.DateLayout), t.EndDate.Format(trip.DateLayout)),
			t.Token,
			humanize.Time(t.CreatedAt),
		})
	}

	fmt.Fprintln(out, tw.Render())
	fmt.Fprintln(out, "\nUse 'tripshare share TOKEN' to copy a trip's share link")
	return nil
}

func runTripShow(cmd *cobra.Command, args []string) error {
	t, items, participants, err := loadTripPlan(args[0], true)
	if err != nil {
		return err
	}

	shareURL := trip.ShareURL(cfg.BaseURL, t.Token)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "🧳 %s - %s\n", t.Title, t.Destination)
	fmt.Fprintf(out, "📅 %s → %s (%d days) • 💱 %s • 🕒 Created %s\n\n",
		t.StartDate.Format(trip.DateLayout),
		t.EndDate.Format(trip.DateLayout),
		t.Days(),
		t.Currency,
		humanize.Time(t.CreatedAt))
	fmt.Fprintf(out, "Share:    %s\n", shareURL)
	fmt.Fprintf(out, "Calendar: %s\n", trip.CalendarLink(t, shareURL))

	if tripShowQR {
		qr, err := renderQR(shareURL)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\n%s", qr)
	}

	if len(items) > 0 {
		fmt.Fprintf(out, "\n%s\n", renderItems(t, items))
	}

	summary := trip.Summarize(items, len(participants))
	if summary.Total > 0 {
		fmt.Fprintf(out, "\n💰 Total: %s %s", trip.FormatCents(summary.Total), t.Currency)
		for _, c := range trip.Categories {
			if v, ok := summary.ByCategory[c]; ok {
				fmt.Fprintf(out, " • %s %s", c.Label(), trip.FormatCents(v))
			}
		}
		fmt.Fprintf(out, "\n   Per person: %s %s\n", trip.FormatCents(summary.PerPerson), t.Currency)
	}

	if len(participants) > 0 {
		fmt.Fprintf(out, "\n👥 %s\n", english.Plural(len(participants), "participant", "participants"))
		for _, p := range participants {
			if p.Email != "" {
				fmt.Fprintf(out, "  #%d %s <%s>\n", p.ID, p.Name, p.Email)
			} else {
				fmt.Fprintf(out, "  #%d %s\n", p.ID, p.Name)
			}
		}
	}
	return nil
}

// renderQR draws link as a QR code with half-block characters
func renderQR(link string) (string, error) {
	qr, err := qrcode.New(link, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("failed to encode QR code: %w", err)
	}
	return qr.ToSmallString(false), nil
}

func runTripEdit(cmd *cobra.Command, args []string) error {
	t, err := findTrip(args[0])
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	title, destination := t.Title, t.Destination
	start, end := t.StartDate.Format(trip.DateLayout), t.EndDate.Format(trip.DateLayout)
	currency := t.Currency

	if flags.Changed("title") {
		title = tripTitle
	}
	if flags.Changed("destination") {
		destination = tripDestination
	}
	if flags.Changed("start") {
		start = tripStart
	}
	if flags.Changed("end") {
		end = tripEnd
	}
	if flags.Changed("currency") {
		currency = tripCurrency
	}

	updated, err := buildTrip(title, destination, start, end, "", currency)
	if err != nil {
		return err
	}
	updated.ID = t.ID
	updated.Token = t.Token
	updated.CreatedAt = t.CreatedAt

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.UpdateTrip(updated); err != nil {
		if errors.Is(err, store.ErrTripNotFound) {
			return apperrors.NotFound(t.Token, err)
		}
		return apperrors.WrapStoreError(err, "update")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Updated trip %q\n", updated.Title)
	return nil
}

func runTripDelete(cmd *cobra.Command, args []string) error {
	token := args[0]
	if err := validation.ValidateToken(token); err != nil {
		return apperrors.WrapValidationError(err, token)
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.DeleteTrip(token); err != nil {
		if errors.Is(err, store.ErrTripNotFound) {
			return apperrors.NotFound(token, err)
		}
		return apperrors.WrapStoreError(err, "delete")
	}

	log.WithField("token", token).Info("trip deleted")
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted trip %s\n", token)
	return nil
}

func runTripStats(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	stats, err := s.Stats()
	if err != nil {
		return apperrors.WrapStoreError(err, "stats")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Trip Statistics:\n")
	fmt.Fprintf(out, "  Total trips:   %d\n", stats.TotalTrips)
	fmt.Fprintf(out, "  Items:         %d\n", stats.TotalItems)
	fmt.Fprintf(out, "  Participants:  %d\n", stats.TotalParticipants)
	fmt.Fprintf(out, "  Database size: %s\n", humanize.Bytes(uint64(stats.SizeBytes)))
	fmt.Fprintf(out, "  Database path: %s\n", cfg.DBPath)
	fmt.Fprintf(out, "  Checked:       %s\n", time.Now().Format(time.RFC3339))
	return nil
}
