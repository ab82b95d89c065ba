package validation

import (
	"fmt"
	"math"
	"net/mail"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"tripshare/internal/trip"
)

// Trip field limits
const (
	MinNameLength = 2
	MaxNameLength = 200
	MaxTripDays   = 365
)

var (
	tokenPattern    = regexp.MustCompile(`^[0-9a-f]{32}$`)
	currencyPattern = regexp.MustCompile(`^[A-Z]{3,8}$`)
)

// ValidateToken validates a share token
func ValidateToken(token string) error {
	if token == "" {
		return fmt.Errorf("token cannot be empty")
	}

	if !tokenPattern.MatchString(token) {
		return fmt.Errorf("token must be 32 lowercase hexadecimal characters")
	}

	return nil
}

// ValidateShareLink validates a link given in place of a token
func ValidateShareLink(link string) error {
	u, err := url.Parse(link)
	if err != nil {
		return fmt.Errorf("invalid link: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("link must use http or https, got %q", u.Scheme)
	}

	if u.Host == "" {
		return fmt.Errorf("link must include a host")
	}

	return nil
}

// IsLink reports whether input looks like a URL rather than a token
func IsLink(input string) bool {
	return strings.Contains(input, "://")
}

// NormalizeName trims and validates a trip title or destination
func NormalizeName(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	n := utf8.RuneCountInString(value)

	if n < MinNameLength || n > MaxNameLength {
		return "", fmt.Errorf("%s length must be %d-%d characters, got %d", field, MinNameLength, MaxNameLength, n)
	}

	return value, nil
}

// NormalizeCurrency upper-cases a currency code, defaulting empty input
func NormalizeCurrency(value, fallback string) (string, error) {
	value = strings.ToUpper(strings.TrimSpace(value))
	if value == "" {
		value = fallback
	}

	if !currencyPattern.MatchString(value) {
		return "", fmt.Errorf("currency must be 3-8 letters, got %q", value)
	}

	return value, nil
}

// ParseDate parses a YYYY-MM-DD date for the named field
func ParseDate(field, value string) (time.Time, error) {
	d, err := time.Parse(trip.DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date in %s, use YYYY-MM-DD", field)
	}
	return d, nil
}

// ResolveEndDate picks the trip end from an explicit end date or, when that
// is empty, from a duration in days counted inclusively from start.
func ResolveEndDate(start time.Time, end, days string) (time.Time, error) {
	var endDate time.Time

	switch {
	case strings.TrimSpace(end) != "":
		d, err := ParseDate("end", end)
		if err != nil {
			return time.Time{}, err
		}
		endDate = d

	case strings.TrimSpace(days) != "":
		n, err := strconv.Atoi(strings.TrimSpace(days))
		if err != nil || n <= 0 || n > MaxTripDays {
			return time.Time{}, fmt.Errorf("invalid duration (use 1 to %d days)", MaxTripDays)
		}
		endDate = start.AddDate(0, 0, n-1)

	default:
		return time.Time{}, fmt.Errorf("provide the end date or the trip duration")
	}

	if endDate.Before(start) {
		return time.Time{}, fmt.Errorf("end cannot be before start")
	}

	return endDate, nil
}

// Item and participant field limits
const (
	MaxItemTitleLength   = 200
	MinParticipantLength = 2
	MaxParticipantLength = 120
	MaxEmailLength       = 200
)

// NormalizeItemTitle trims an item title. An empty title is allowed and
// replaced by a default later.
func NormalizeItemTitle(value string) (string, error) {
	value = strings.TrimSpace(value)
	if n := utf8.RuneCountInString(value); n > MaxItemTitleLength {
		return "", fmt.Errorf("title length must be at most %d characters, got %d", MaxItemTitleLength, n)
	}
	return value, nil
}

// NormalizeParticipant trims the name and lower-cases the optional email
func NormalizeParticipant(name, email string) (string, string, error) {
	name = strings.TrimSpace(name)
	if n := utf8.RuneCountInString(name); n < MinParticipantLength || n > MaxParticipantLength {
		return "", "", fmt.Errorf("name length must be %d-%d characters, got %d", MinParticipantLength, MaxParticipantLength, n)
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return name, "", nil
	}
	if len(email) > MaxEmailLength {
		return "", "", fmt.Errorf("email must be at most %d characters", MaxEmailLength)
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return "", "", fmt.Errorf("invalid email %q", email)
	}

	return name, email, nil
}

// ParseMoney parses an amount typed by a person into cents. Both "1,234.50"
// and "1.234,50" are accepted: the last separator is the decimal one.
// Empty input returns nil.
func ParseMoney(value string) (*int64, error) {
	s := strings.ReplaceAll(strings.TrimSpace(value), " ", "")
	if s == "" {
		return nil, nil
	}

	invalid := fmt.Errorf("invalid amount %q, use numbers only (e.g. 120 or 120,50)", value)
	for _, r := range s {
		if unicode.IsLetter(r) {
			return nil, invalid
		}
	}

	comma, dot := strings.LastIndex(s, ","), strings.LastIndex(s, ".")
	switch {
	case comma >= 0 && dot >= 0 && comma > dot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case comma >= 0 && dot >= 0:
		s = strings.ReplaceAll(s, ",", "")
	case comma >= 0:
		s = strings.ReplaceAll(s, ",", ".")
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return nil, invalid
	}
	if f < 0 {
		return nil, fmt.Errorf("amount cannot be negative, got %q", value)
	}

	cents := int64(math.Round(f * 100))
	return &cents, nil
}

// ParseItemDate parses an optional item date and checks it falls inside t.
// Empty input returns nil.
func ParseItemDate(t *trip.Trip, value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}

	d, err := ParseDate("date", value)
	if err != nil {
		return nil, err
	}
	if !t.Contains(d) {
		return nil, fmt.Errorf("date outside the trip (%s → %s)",
			t.StartDate.Format(trip.DateLayout), t.EndDate.Format(trip.DateLayout))
	}

	return &d, nil
}

// ValidateItemURL accepts an empty value or an absolute http(s) URL
func ValidateItemURL(value string) error {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return ValidateShareLink(strings.TrimSpace(value))
}
