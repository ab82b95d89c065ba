package trip

import (
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the on-disk and CLI date format
const DateLayout = "2006-01-02"

// Trip is a planned trip reachable through its share token
type Trip struct {
	ID          int64     `json:"id"`
	Token       string    `json:"token"`
	Title       string    `json:"title"`
	Destination string    `json:"destination"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Currency    string    `json:"currency"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewToken returns the 32 lowercase hex characters of a version 4 UUID.
// 122 of its 128 bits are random; the version and variant bits are fixed.
func NewToken() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])
}

// Days returns the inclusive length of the trip
func (t *Trip) Days() int {
	return int(t.EndDate.Sub(t.StartDate).Hours()/24) + 1
}

// ShareURL builds the public link for a token
func ShareURL(baseURL, token string) string {
	return strings.TrimRight(baseURL, "/") + "/t/" + token
}

// CalendarLink builds a Google Calendar template link covering the trip
func CalendarLink(t *Trip, shareURL string) string {
	params := url.Values{}
	params.Set("action", "TEMPLATE")
	params.Set("text", fmt.Sprintf("%s - %s", t.Title, t.Destination))
	params.Set("dates", t.StartDate.Format("20060102")+"/"+t.EndDate.Format("20060102"))
	params.Set("details", "Planning: "+shareURL)
	return "https://calendar.google.com/calendar/render?" + params.Encode()
}
