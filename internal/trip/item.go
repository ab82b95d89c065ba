package trip

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Category groups the items of a trip
type Category string

const (
	CategoryItinerary  Category = "itinerary"
	CategoryActivity   Category = "activity"
	CategoryRestaurant Category = "restaurant"
	CategoryHotel      Category = "hotel"
	CategoryFlight     Category = "flight"
	CategoryTicket     Category = "ticket"
	CategoryReference  Category = "reference"
	CategoryNotes      Category = "notes"
)

// Categories lists every accepted category in display order
var Categories = []Category{
	CategoryItinerary,
	CategoryActivity,
	CategoryRestaurant,
	CategoryHotel,
	CategoryFlight,
	CategoryTicket,
	CategoryReference,
	CategoryNotes,
}

var categoryLabels = map[Category]string{
	CategoryItinerary:  "Itinerary",
	CategoryActivity:   "Activity",
	CategoryRestaurant: "Restaurant",
	CategoryHotel:      "Hotel",
	CategoryFlight:     "Flight",
	CategoryTicket:     "Ticket",
	CategoryReference:  "Reference",
	CategoryNotes:      "Notes",
}

// ParseCategory matches s case-insensitively against Categories
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	_, ok := categoryLabels[c]
	return c, ok
}

// Label is the human name of the category
func (c Category) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return strings.ToUpper(string(c))
}

// Item is one entry of a trip plan: a flight, a hotel, an activity...
type Item struct {
	ID        int64             `json:"id"`
	TripID    int64             `json:"trip_id"`
	Category  Category          `json:"category"`
	Title     string            `json:"title"`
	Date      *time.Time        `json:"date,omitempty"` // nil when undated
	URL       string            `json:"url,omitempty"`
	Notes     string            `json:"notes,omitempty"`
	Cost      *int64            `json:"cost,omitempty"` // cents, nil when unknown
	Meta      map[string]string `json:"meta,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// DefaultTitle names an item created without a title. place is an optional
// venue name; flights fall back to their route from Meta.
func (it *Item) DefaultTitle(place string) string {
	place = strings.TrimSpace(place)

	switch it.Category {
	case CategoryActivity, CategoryRestaurant, CategoryHotel:
		if place != "" {
			return place
		}
		if it.Category == CategoryHotel {
			return "Lodging"
		}
		return it.Category.Label()
	case CategoryFlight:
		origin := strings.TrimSpace(it.Meta["origin"])
		dest := strings.TrimSpace(it.Meta["destination"])
		if origin != "" || dest != "" {
			return strings.Trim(origin+" → "+dest, " →")
		}
		return "Flight"
	default:
		return "Item"
	}
}

// Participant is someone who joined a trip
type Participant struct {
	ID        int64     `json:"id"`
	TripID    int64     `json:"trip_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// FormatCents renders an amount in cents with thousands separators,
// e.g. 123456 -> "1,234.56"
func FormatCents(cents int64) string {
	return humanize.FormatFloat("#,###.##", float64(cents)/100)
}

// Summary holds the cost totals of a trip
type Summary struct {
	Total      int64
	ByCategory map[Category]int64
	PerPerson  int64
}

// Summarize totals item costs and splits them across participants. A trip
// without participants counts as one person.
func Summarize(items []Item, participants int) Summary {
	s := Summary{ByCategory: make(map[Category]int64)}

	for _, it := range items {
		if it.Cost == nil {
			continue
		}
		s.Total += *it.Cost
		s.ByCategory[it.Category] += *it.Cost
	}

	people := participants
	if people < 1 {
		people = 1
	}
	s.PerPerson = int64(math.Round(float64(s.Total) / float64(people)))

	return s
}

// SortItems orders items by date, undated last, then by creation time
func SortItems(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		switch {
		case a.Date == nil && b.Date != nil:
			return false
		case a.Date != nil && b.Date == nil:
			return true
		case a.Date != nil && !a.Date.Equal(*b.Date):
			return a.Date.Before(*b.Date)
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
}

// Contains reports whether d falls inside the trip, both ends inclusive
func (t *Trip) Contains(d time.Time) bool {
	return !d.Before(t.StartDate) && !d.After(t.EndDate)
}
