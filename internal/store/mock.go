package store

import (
	"sort"
	"sync"
	"time"

	"tripshare/internal/trip"
)

// MockService is a simple in-memory trip store for testing
type MockService struct {
	mu           sync.RWMutex
	trips        map[string]trip.Trip
	items        []trip.Item
	participants []trip.Participant
	nextID       int64
}

// NewMockService creates a new mock trip store
func NewMockService() *MockService {
	return &MockService{
		trips: make(map[string]trip.Trip),
	}
}

func (m *MockService) CreateTrip(t *trip.Trip) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if t.Token == "" {
		t.Token = trip.NewToken()
	}
	m.nextID++
	t.ID = m.nextID
	t.CreatedAt = time.Now().UTC()
	m.trips[t.Token] = *t
	return nil
}

func (m *MockService) GetTripByToken(token string) (*trip.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, exists := m.trips[token]
	if !exists {
		return nil, ErrTripNotFound
	}
	return &t, nil
}

func (m *MockService) ListTrips() ([]trip.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	trips := make([]trip.Trip, 0, len(m.trips))
	for _, t := range m.trips {
		trips = append(trips, t)
	}
	sort.Slice(trips, func(i, j int) bool { return trips[i].ID > trips[j].ID })
	return trips, nil
}

func (m *MockService) UpdateTrip(t *trip.Trip) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, exists := m.trips[t.Token]
	if !exists {
		return ErrTripNotFound
	}
	existing.Title = t.Title
	existing.Destination = t.Destination
	existing.StartDate = t.StartDate
	existing.EndDate = t.EndDate
	existing.Currency = t.Currency
	m.trips[t.Token] = existing
	return nil
}

func (m *MockService) DeleteTrip(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, exists := m.trips[token]
	if !exists {
		return ErrTripNotFound
	}
	delete(m.trips, token)

	items := m.items[:0]
	for _, it := range m.items {
		if it.TripID != t.ID {
			items = append(items, it)
		}
	}
	m.items = items

	participants := m.participants[:0]
	for _, p := range m.participants {
		if p.TripID != t.ID {
			participants = append(participants, p)
		}
	}
	m.participants = participants
	return nil
}

func (m *MockService) AddItem(it *trip.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	it.ID = m.nextID
	it.CreatedAt = time.Now().UTC()
	m.items = append(m.items, *it)
	return nil
}

func (m *MockService) ListItems(tripID int64) ([]trip.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var items []trip.Item
	for _, it := range m.items {
		if it.TripID == tripID {
			items = append(items, it)
		}
	}
	return items, nil
}

func (m *MockService) DeleteItem(tripID, itemID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, it := range m.items {
		if it.TripID == tripID && it.ID == itemID {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return ErrItemNotFound
}

func (m *MockService) AddParticipant(p *trip.Participant) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p.Email != "" {
		for i, existing := range m.participants {
			if existing.TripID == p.TripID && existing.Email == p.Email {
				m.participants[i].Name = p.Name
				p.ID = existing.ID
				p.CreatedAt = existing.CreatedAt
				return nil
			}
		}
	}

	m.nextID++
	p.ID = m.nextID
	p.CreatedAt = time.Now().UTC()
	m.participants = append(m.participants, *p)
	return nil
}

func (m *MockService) ListParticipants(tripID int64) ([]trip.Participant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var participants []trip.Participant
	for _, p := range m.participants {
		if p.TripID == tripID {
			participants = append(participants, p)
		}
	}
	return participants, nil
}

func (m *MockService) RemoveParticipant(tripID, participantID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, p := range m.participants {
		if p.TripID == tripID && p.ID == participantID {
			m.participants = append(m.participants[:i], m.participants[i+1:]...)
			return nil
		}
	}
	return ErrParticipantNotFound
}

func (m *MockService) Stats() (*Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return &Stats{
		TotalTrips:        int64(len(m.trips)),
		TotalItems:        int64(len(m.items)),
		TotalParticipants: int64(len(m.participants)),
	}, nil
}

func (m *MockService) Close() error {
	return nil
}

// Ensure MockService implements Service
var _ Service = (*MockService)(nil)
