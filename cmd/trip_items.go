package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	prettytable "github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	apperrors "tripshare/internal/errors"
	"tripshare/internal/store"
	"tripshare/internal/trip"
	"tripshare/internal/validation"
)

var tripItemCmd = &cobra.Command{
	Use:   "item",
	Short: "Manage the items of a trip",
	Long: `Add, list and remove the items of a trip plan: flights, hotels, activities,
restaurants, tickets, references and notes.`,
}

var tripItemAddCmd = &cobra.Command{
	Use:   "add <token>",
	Short: "Add an item to a trip",
	Long: `Add an item to a trip. The date must fall inside the trip. The cost accepts
"1,234.50" as well as "1.234,50" and is stored in cents.

Items added without --title are named after --place, or after the flight
route given with --meta origin=GRU,destination=LIS.`,
	Args: cobra.ExactArgs(1),
	RunE: runTripItemAdd,
}

var tripItemListCmd = &cobra.Command{
	Use:   "list <token>",
	Short: "List the items of a trip",
	Args:  cobra.ExactArgs(1),
	RunE:  runTripItemList,
}

var tripItemRemoveCmd = &cobra.Command{
	Use:     "rm <token> <item-id>",
	Aliases: []string{"remove"},
	Short:   "Remove an item from a trip",
	Args:    cobra.ExactArgs(2),
	RunE:    runTripItemRemove,
}

var tripJoinCmd = &cobra.Command{
	Use:   "join <token>",
	Short: "Join a trip as a participant",
	Long: `Join a trip. Joining again with the same email updates the name instead of
adding a second participant.`,
	Args: cobra.ExactArgs(1),
	RunE: runTripJoin,
}

var tripLeaveCmd = &cobra.Command{
	Use:   "leave <token> <participant-id>",
	Short: "Remove a participant from a trip",
	Args:  cobra.ExactArgs(2),
	RunE:  runTripLeave,
}

var tripICSCmd = &cobra.Command{
	Use:   "ics <token>",
	Short: "Export a trip as an iCalendar file",
	Long: `Export a trip as iCalendar: one event for the whole trip plus one event for
every dated item. Writes to stdout unless --output is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runTripICS,
}

var (
	itemCategory string
	itemTitle    string
	itemPlace    string
	itemDate     string
	itemURL      string
	itemNotes    string
	itemCost     string
	itemMeta     map[string]string

	participantName  string
	participantEmail string

	icsOutput string
)

func init() {
	tripCmd.AddCommand(tripItemCmd)
	tripItemCmd.AddCommand(tripItemAddCmd)
	tripItemCmd.AddCommand(tripItemListCmd)
	tripItemCmd.AddCommand(tripItemRemoveCmd)
	tripCmd.AddCommand(tripJoinCmd)
	tripCmd.AddCommand(tripLeaveCmd)
	tripCmd.AddCommand(tripICSCmd)

	f := tripItemAddCmd.Flags()
	f.StringVar(&itemCategory, "category", "", "Item category: "+categoryNames())
	f.StringVar(&itemTitle, "title", "", "Item title")
	f.StringVar(&itemPlace, "place", "", "Place name, used as the title when --title is empty")
	f.StringVar(&itemDate, "date", "", "Item date (YYYY-MM-DD), inside the trip")
	f.StringVar(&itemURL, "url", "", "Booking or reference link")
	f.StringVar(&itemNotes, "notes", "", "Free-form notes")
	f.StringVar(&itemCost, "cost", "", "Cost in the trip currency, e.g. 120,50")
	f.StringToStringVar(&itemMeta, "meta", nil, "Extra fields as key=value pairs")
	tripItemAddCmd.MarkFlagRequired("category")

	tripJoinCmd.Flags().StringVar(&participantName, "name", "", "Participant name")
	tripJoinCmd.Flags().StringVar(&participantEmail, "email", "", "Participant email (optional)")
	tripJoinCmd.MarkFlagRequired("name")

	tripICSCmd.Flags().StringVarP(&icsOutput, "output", "o", "", "Write the calendar to this file")
}

func categoryNames() string {
	names := make([]string, len(trip.Categories))
	for i, c := range trip.Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

// buildItem validates raw flag values into an item of t
func buildItem(t *trip.Trip) (*trip.Item, error) {
	category, ok := trip.ParseCategory(itemCategory)
	if !ok {
		return nil, apperrors.WrapValidationError(
			fmt.Errorf("unknown category, expected one of: %s", categoryNames()), itemCategory)
	}

	title, err := validation.NormalizeItemTitle(itemTitle)
	if err != nil {
		return nil, apperrors.WrapValidationError(err, itemTitle)
	}

	date, err := validation.ParseItemDate(t, itemDate)
	if err != nil {
		return nil, apperrors.WrapValidationError(err, itemDate)
	}

	cost, err := validation.ParseMoney(itemCost)
	if err != nil {
		return nil, apperrors.WrapValidationError(err, itemCost)
	}

	if err := validation.ValidateItemURL(itemURL); err != nil {
		return nil, apperrors.WrapValidationError(err, itemURL)
	}

	it := &trip.Item{
		TripID:   t.ID,
		Category: category,
		Date:     date,
		URL:      strings.TrimSpace(itemURL),
		Notes:    strings.TrimSpace(itemNotes),
		Cost:     cost,
		Meta:     itemMeta,
	}
	it.Title = title
	if it.Title == "" {
		it.Title = it.DefaultTitle(itemPlace)
	}
	return it, nil
}

func runTripItemAdd(cmd *cobra.Command, args []string) error {
	t, err := findTrip(args[0])
	if err != nil {
		return err
	}

	it, err := buildItem(t)
	if err != nil {
		return err
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.AddItem(it); err != nil {
		return apperrors.WrapStoreError(err, "add item")
	}

	log.WithField("token", t.Token).WithField("item", it.ID).Info("item added")
	fmt.Fprintf(cmd.OutOrStdout(), "Added %s #%d %q to %q\n", it.Category.Label(), it.ID, it.Title, t.Title)
	return nil
}

func runTripItemList(cmd *cobra.Command, args []string) error {
	t, items, _, err := loadTripPlan(args[0], false)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(items) == 0 {
		fmt.Fprintf(out, "No items in %q yet. Add one with 'tripshare trip item add %s'\n", t.Title, t.Token)
		return nil
	}

	fmt.Fprintln(out, renderItems(t, items))
	return nil
}

func runTripItemRemove(cmd *cobra.Command, args []string) error {
	t, err := findTrip(args[0])
	if err != nil {
		return err
	}

	id, err := parseID("item", args[1])
	if err != nil {
		return err
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.DeleteItem(t.ID, id); err != nil {
		if errors.Is(err, store.ErrItemNotFound) {
			return apperrors.EntryNotFound("item", args[1], err)
		}
		return apperrors.WrapStoreError(err, "delete item")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Removed item #%d from %q\n", id, t.Title)
	return nil
}

func runTripJoin(cmd *cobra.Command, args []string) error {
	t, err := findTrip(args[0])
	if err != nil {
		return err
	}

	name, email, err := validation.NormalizeParticipant(participantName, participantEmail)
	if err != nil {
		return apperrors.WrapValidationError(err, participantName+" "+participantEmail)
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	p := &trip.Participant{TripID: t.ID, Name: name, Email: email}
	if err := s.AddParticipant(p); err != nil {
		return apperrors.WrapStoreError(err, "join")
	}

	log.WithField("token", t.Token).WithField("participant", p.ID).Info("participant joined")
	fmt.Fprintf(cmd.OutOrStdout(), "%s joined %q (participant #%d)\n", p.Name, t.Title, p.ID)
	return nil
}

func runTripLeave(cmd *cobra.Command, args []string) error {
	t, err := findTrip(args[0])
	if err != nil {
		return err
	}

	id, err := parseID("participant", args[1])
	if err != nil {
		return err
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.RemoveParticipant(t.ID, id); err != nil {
		if errors.Is(err, store.ErrParticipantNotFound) {
			return apperrors.EntryNotFound("participant", args[1], err)
		}
		return apperrors.WrapStoreError(err, "leave")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Participant #%d left %q\n", id, t.Title)
	return nil
}

func runTripICS(cmd *cobra.Command, args []string) error {
	t, items, _, err := loadTripPlan(args[0], false)
	if err != nil {
		return err
	}

	doc := trip.BuildICS(t, items, trip.ShareURL(cfg.BaseURL, t.Token), time.Now().UTC())

	if icsOutput == "" {
		fmt.Fprint(cmd.OutOrStdout(), doc)
		return nil
	}

	if err := os.WriteFile(icsOutput, []byte(doc), 0644); err != nil {
		return fmt.Errorf("failed to write calendar: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Calendar written to %s\n", icsOutput)
	return nil
}

// loadTripPlan loads a trip with its sorted items, and its participants
// when withParticipants is set
func loadTripPlan(token string, withParticipants bool) (*trip.Trip, []trip.Item, []trip.Participant, error) {
	t, err := findTrip(token)
	if err != nil {
		return nil, nil, nil, err
	}

	s, err := openStore()
	if err != nil {
		return nil, nil, nil, err
	}
	defer s.Close()

	items, err := s.ListItems(t.ID)
	if err != nil {
		return nil, nil, nil, apperrors.WrapStoreError(err, "list items")
	}
	trip.SortItems(items)

	var participants []trip.Participant
	if withParticipants {
		participants, err = s.ListParticipants(t.ID)
		if err != nil {
			return nil, nil, nil, apperrors.WrapStoreError(err, "list participants")
		}
	}

	return t, items, participants, nil
}

func renderItems(t *trip.Trip, items []trip.Item) string {
	tw := prettytable.NewWriter()
	tw.SetStyle(prettytable.StyleRounded)
	tw.AppendHeader(prettytable.Row{"#", "Category", "Title", "Date", "Cost (" + t.Currency + ")"})

	for _, it := range items {
		date, cost := "", ""
		if it.Date != nil {
			date = it.Date.Format(trip.DateLayout)
		}
		if it.Cost != nil {
			cost = trip.FormatCents(*it.Cost)
		}
		tw.AppendRow(prettytable.Row{it.ID, it.Category.Label(), it.Title, date, cost})
	}

	return tw.Render()
}

func parseID(kind, value string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.WrapValidationError(fmt.Errorf("%s id must be a positive number", kind), value)
	}
	return id, nil
}
