package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"tripshare/internal/trip"
)

// AddItem inserts it for it.TripID, filling in its ID and creation time
func (s *Store) AddItem(it *trip.Item) error {
	it.CreatedAt = time.Now().UTC().Truncate(time.Second)

	var date, metaJSON sql.NullString
	var cost sql.NullInt64

	if it.Date != nil {
		date = sql.NullString{String: it.Date.Format(trip.DateLayout), Valid: true}
	}
	if it.Cost != nil {
		cost = sql.NullInt64{Int64: *it.Cost, Valid: true}
	}
	if len(it.Meta) > 0 {
		data, err := json.Marshal(it.Meta)
		if err != nil {
			return fmt.Errorf("failed to encode item meta: %w", err)
		}
		metaJSON = sql.NullString{String: string(data), Valid: true}
	}

	query := `
		INSERT INTO trip_items
		(trip_id, category, title, item_date, url, notes, cost, meta_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := s.db.Exec(query,
		it.TripID,
		string(it.Category),
		it.Title,
		date,
		nullString(it.URL),
		nullString(it.Notes),
		cost,
		metaJSON,
		it.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to add item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read item id: %w", err)
	}
	it.ID = id

	return nil
}

// ListItems returns the items of a trip in insertion order
func (s *Store) ListItems(tripID int64) ([]trip.Item, error) {
	query := `
		SELECT id, trip_id, category, title, item_date, url, notes, cost, meta_json, created_at
		FROM trip_items
		WHERE trip_id = ?
		ORDER BY id
	`

	rows, err := s.db.Query(query, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	var items []trip.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, *it)
	}

	return items, rows.Err()
}

// DeleteItem removes an item of a trip
func (s *Store) DeleteItem(tripID, itemID int64) error {
	result, err := s.db.Exec("DELETE FROM trip_items WHERE trip_id = ? AND id = ?", tripID, itemID)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	return requireAffected(result, ErrItemNotFound)
}

// AddParticipant adds p to p.TripID. A participant whose email already
// joined the trip is reused: its name is updated and p receives its ID.
func (s *Store) AddParticipant(p *trip.Participant) error {
	if p.Email != "" {
		existing, err := scanParticipant(s.db.QueryRow(`
			SELECT id, trip_id, name, email, created_at
			FROM trip_participants
			WHERE trip_id = ? AND email = ?
		`, p.TripID, p.Email))

		switch {
		case err == nil:
			if existing.Name != p.Name {
				if _, err := s.db.Exec("UPDATE trip_participants SET name = ? WHERE id = ?", p.Name, existing.ID); err != nil {
					return fmt.Errorf("failed to update participant: %w", err)
				}
			}
			p.ID = existing.ID
			p.CreatedAt = existing.CreatedAt
			return nil
		case err != sql.ErrNoRows:
			return fmt.Errorf("failed to look up participant: %w", err)
		}
	}

	p.CreatedAt = time.Now().UTC().Truncate(time.Second)

	result, err := s.db.Exec(`
		INSERT INTO trip_participants (trip_id, name, email, created_at)
		VALUES (?, ?, ?, ?)
	`, p.TripID, p.Name, nullString(p.Email), p.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to add participant: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read participant id: %w", err)
	}
	p.ID = id

	return nil
}

// ListParticipants returns the participants of a trip in joining order
func (s *Store) ListParticipants(tripID int64) ([]trip.Participant, error) {
	rows, err := s.db.Query(`
		SELECT id, trip_id, name, email, created_at
		FROM trip_participants
		WHERE trip_id = ?
		ORDER BY created_at, id
	`, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	var participants []trip.Participant
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, *p)
	}

	return participants, rows.Err()
}

// RemoveParticipant removes a participant from a trip
func (s *Store) RemoveParticipant(tripID, participantID int64) error {
	result, err := s.db.Exec("DELETE FROM trip_participants WHERE trip_id = ? AND id = ?", tripID, participantID)
	if err != nil {
		return fmt.Errorf("failed to remove participant: %w", err)
	}

	return requireAffected(result, ErrParticipantNotFound)
}

func scanItem(row rowScanner) (*trip.Item, error) {
	var it trip.Item
	var category string
	var date, url, notes, metaJSON sql.NullString
	var cost sql.NullInt64
	var createdAtUnix int64

	err := row.Scan(
		&it.ID,
		&it.TripID,
		&category,
		&it.Title,
		&date,
		&url,
		&notes,
		&cost,
		&metaJSON,
		&createdAtUnix,
	)
	if err != nil {
		return nil, err
	}

	it.Category = trip.Category(category)
	it.URL = url.String
	it.Notes = notes.String
	it.CreatedAt = time.Unix(createdAtUnix, 0).UTC()

	if date.Valid {
		d, err := time.Parse(trip.DateLayout, date.String)
		if err != nil {
			return nil, fmt.Errorf("corrupt item_date %q: %w", date.String, err)
		}
		it.Date = &d
	}
	if cost.Valid {
		c := cost.Int64
		it.Cost = &c
	}
	// Unreadable meta is dropped rather than failing the whole trip
	if metaJSON.Valid && metaJSON.String != "" {
		if err := json.Unmarshal([]byte(metaJSON.String), &it.Meta); err != nil {
			it.Meta = nil
		}
	}

	return &it, nil
}

func scanParticipant(row rowScanner) (*trip.Participant, error) {
	var p trip.Participant
	var email sql.NullString
	var createdAtUnix int64

	if err := row.Scan(&p.ID, &p.TripID, &p.Name, &email, &createdAtUnix); err != nil {
		return nil, err
	}

	p.Email = email.String
	p.CreatedAt = time.Unix(createdAtUnix, 0).UTC()
	return &p, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
