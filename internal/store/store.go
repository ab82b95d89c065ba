package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"tripshare/internal/trip"
)

// Store persists trips in SQLite
type Store struct {
	db   *sql.DB
	path string
}

// Stats represents store statistics
type Stats struct {
	TotalTrips        int64 `json:"total_trips"`
	TotalItems        int64 `json:"total_items"`
	TotalParticipants int64 `json:"total_participants"`
	SizeBytes         int64 `json:"size_bytes"`
}

// Common store errors
var (
	ErrTripNotFound        = errors.New("trip not found")
	ErrItemNotFound        = errors.New("item not found")
	ErrParticipantNotFound = errors.New("participant not found")
)

// New opens (creating if needed) the trip database at path
func New(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trip database: %w", err)
	}

	// SQLite serializes writers; one connection avoids "database is locked"
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &Store{db: db, path: path}

	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize trip schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateTrip inserts t, filling in its ID, token and creation time
func (s *Store) CreateTrip(t *trip.Trip) error {
	if t.Token == "" {
		t.Token = trip.NewToken()
	}
	t.CreatedAt = time.Now().UTC().Truncate(time.Second)

	query := `
		INSERT INTO trips
		(token, title, destination, start_date, end_date, currency, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := s.db.Exec(query,
		t.Token,
		t.Title,
		t.Destination,
		t.StartDate.Format(trip.DateLayout),
		t.EndDate.Format(trip.DateLayout),
		t.Currency,
		t.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to create trip: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read trip id: %w", err)
	}
	t.ID = id

	return nil
}

// GetTripByToken retrieves a trip by its share token
func (s *Store) GetTripByToken(token string) (*trip.Trip, error) {
	query := `
		SELECT id, token, title, destination, start_date, end_date, currency, created_at
		FROM trips
		WHERE token = ?
	`

	t, err := scanTrip(s.db.QueryRow(query, token))
	if err == sql.ErrNoRows {
		return nil, ErrTripNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}

	return t, nil
}

// ListTrips returns every trip, most recent first
func (s *Store) ListTrips() ([]trip.Trip, error) {
	query := `
		SELECT id, token, title, destination, start_date, end_date, currency, created_at
		FROM trips
		ORDER BY created_at DESC, id DESC
	`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	defer rows.Close()

	var trips []trip.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		trips = append(trips, *t)
	}

	return trips, rows.Err()
}

// UpdateTrip saves the editable fields of t, looked up by token
func (s *Store) UpdateTrip(t *trip.Trip) error {
	query := `
		UPDATE trips
		SET title = ?, destination = ?, start_date = ?, end_date = ?, currency = ?
		WHERE token = ?
	`

	result, err := s.db.Exec(query,
		t.Title,
		t.Destination,
		t.StartDate.Format(trip.DateLayout),
		t.EndDate.Format(trip.DateLayout),
		t.Currency,
		t.Token,
	)
	if err != nil {
		return fmt.Errorf("failed to update trip: %w", err)
	}

	return requireAffected(result, ErrTripNotFound)
}

// DeleteTrip removes a trip by token together with its items and participants
func (s *Store) DeleteTrip(token string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin delete: %w", err)
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRow("SELECT id FROM trips WHERE token = ?", token).Scan(&id)
	if err == sql.ErrNoRows {
		return ErrTripNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
	}

	for _, query := range []string{
		"DELETE FROM trip_items WHERE trip_id = ?",
		"DELETE FROM trip_participants WHERE trip_id = ?",
		"DELETE FROM trips WHERE id = ?",
	} {
		if _, err := tx.Exec(query, id); err != nil {
			return fmt.Errorf("failed to delete trip: %w", err)
		}
	}

	return tx.Commit()
}

// Stats returns store statistics
func (s *Store) Stats() (*Stats, error) {
	var stats Stats

	err := s.db.QueryRow(`
		SELECT
			(SELECT COUNT(*) FROM trips),
			(SELECT COUNT(*) FROM trip_items),
			(SELECT COUNT(*) FROM trip_participants)
	`).Scan(&stats.TotalTrips, &stats.TotalItems, &stats.TotalParticipants)
	if err != nil {
		return nil, err
	}

	var pageCount, pageSize int64
	err = s.db.QueryRow("PRAGMA page_count").Scan(&pageCount)
	if err != nil {
		return nil, err
	}
	err = s.db.QueryRow("PRAGMA page_size").Scan(&pageSize)
	if err != nil {
		return nil, err
	}

	stats.SizeBytes = pageCount * pageSize
	return &stats, nil
}

// Path returns the database file location
func (s *Store) Path() string {
	return s.path
}

// initSchema creates the tables if they don't exist
func (s *Store) initSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS trips (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			token TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL,
			destination TEXT NOT NULL,
			start_date TEXT NOT NULL,
			end_date TEXT NOT NULL,
			currency TEXT NOT NULL DEFAULT 'BRL',
			created_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_trips_created_at ON trips(created_at);

		CREATE TABLE IF NOT EXISTS trip_items (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			trip_id INTEGER NOT NULL REFERENCES trips(id),
			category TEXT NOT NULL,
			title TEXT NOT NULL,
			item_date TEXT,
			url TEXT,
			notes TEXT,
			cost INTEGER,
			meta_json TEXT,
			created_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_trip_items_trip_id ON trip_items(trip_id);

		CREATE TABLE IF NOT EXISTS trip_participants (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			trip_id INTEGER NOT NULL REFERENCES trips(id),
			name TEXT NOT NULL,
			email TEXT,
			created_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_trip_participants_trip_email ON trip_participants(trip_id, email);
	`

	_, err := s.db.Exec(schema)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrip(row rowScanner) (*trip.Trip, error) {
	var t trip.Trip
	var start, end string
	var createdAtUnix int64

	err := row.Scan(
		&t.ID,
		&t.Token,
		&t.Title,
		&t.Destination,
		&start,
		&end,
		&t.Currency,
		&createdAtUnix,
	)
	if err != nil {
		return nil, err
	}

	if t.StartDate, err = time.Parse(trip.DateLayout, start); err != nil {
		return nil, fmt.Errorf("corrupt start_date %q: %w", start, err)
	}
	if t.EndDate, err = time.Parse(trip.DateLayout, end); err != nil {
		return nil, fmt.Errorf("corrupt end_date %q: %w", end, err)
	}
	t.CreatedAt = time.Unix(createdAtUnix, 0).UTC()

	return &t, nil
}

// requireAffected returns notFound when result changed no rows
func requireAffected(result sql.Result, notFound error) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
