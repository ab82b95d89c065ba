package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripshare/internal/trip"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "nested", "trips.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleTrip() *trip.Trip {
	return &trip.Trip{
		Title:       "Summer",
		Destination: "Lisbon",
		StartDate:   time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC),
		Currency:    "EUR",
	}
}

// Both implementations must behave the same way
func services(t *testing.T) map[string]Service {
	return map[string]Service{
		"sqlite": newTestStore(t),
		"mock":   NewMockService(),
	}
}

func TestCreateAndGet(t *testing.T) {
	for name, svc := range services(t) {
		t.Run(name, func(t *testing.T) {
			tr := sampleTrip()
			require.NoError(t, svc.CreateTrip(tr))

			assert.NotZero(t, tr.ID)
			assert.Len(t, tr.Token, 32)
			assert.False(t, tr.CreatedAt.IsZero())

			got, err := svc.GetTripByToken(tr.Token)
			require.NoError(t, err)
			assert.Equal(t, tr.Title, got.Title)
			assert.Equal(t, tr.Destination, got.Destination)
			assert.True(t, tr.StartDate.Equal(got.StartDate))
			assert.True(t, tr.EndDate.Equal(got.EndDate))
			assert.Equal(t, "EUR", got.Currency)
		})
	}
}

func TestGetUnknownToken(t *testing.T) {
	for name, svc := range services(t) {
		t.Run(name, func(t *testing.T) {
			_, err := svc.GetTripByToken("0123456789abcdef0123456789abcdef")
			assert.ErrorIs(t, err, ErrTripNotFound)
		})
	}
}

func TestUpdateAndDelete(t *testing.T) {
	for name, svc := range services(t) {
		t.Run(name, func(t *testing.T) {
			tr := sampleTrip()
			require.NoError(t, svc.CreateTrip(tr))

			tr.Title = "Autumn"
			tr.EndDate = tr.StartDate.AddDate(0, 0, 2)
			require.NoError(t, svc.UpdateTrip(tr))

			got, err := svc.GetTripByToken(tr.Token)
			require.NoError(t, err)
			assert.Equal(t, "Autumn", got.Title)
			assert.Equal(t, 3, got.Days())

			require.NoError(t, svc.DeleteTrip(tr.Token))
			assert.ErrorIs(t, svc.DeleteTrip(tr.Token), ErrTripNotFound)

			missing := sampleTrip()
			missing.Token = "ffffffffffffffffffffffffffffffff"
			assert.ErrorIs(t, svc.UpdateTrip(missing), ErrTripNotFound)
		})
	}
}

func TestListTripsAndStats(t *testing.T) {
	for name, svc := range services(t) {
		t.Run(name, func(t *testing.T) {
			for i := 0; i < 3; i++ {
				require.NoError(t, svc.CreateTrip(sampleTrip()))
			}

			trips, err := svc.ListTrips()
			require.NoError(t, err)
			assert.Len(t, trips, 3)
			assert.Greater(t, trips[0].ID, trips[2].ID, "most recent first")

			stats, err := svc.Stats()
			require.NoError(t, err)
			assert.Equal(t, int64(3), stats.TotalTrips)
		})
	}
}

func TestDuplicateToken(t *testing.T) {
	s := newTestStore(t)

	first := sampleTrip()
	require.NoError(t, s.CreateTrip(first))

	dup := sampleTrip()
	dup.Token = first.Token
	assert.Error(t, s.CreateTrip(dup))
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trips.db")

	s, err := New(path)
	require.NoError(t, err)
	tr := sampleTrip()
	require.NoError(t, s.CreateTrip(tr))
	require.NoError(t, s.Close())

	s, err = New(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.GetTripByToken(tr.Token)
	require.NoError(t, err)
	assert.Equal(t, tr.ID, got.ID)

	stats, err := s.Stats()
	require.NoError(t, err)
	assert.Positive(t, stats.SizeBytes)
}

func TestItems(t *testing.T) {
	for name, svc := range services(t) {
		t.Run(name, func(t *testing.T) {
			tr := sampleTrip()
			require.NoError(t, svc.CreateTrip(tr))

			date := tr.StartDate.AddDate(0, 0, 1)
			cost := int64(123456)
			flight := &trip.Item{
				TripID:   tr.ID,
				Category: trip.CategoryFlight,
				Title:    "GRU → LIS",
				Date:     &date,
				URL:      "https://fly.example",
				Cost:     &cost,
				Meta:     map[string]string{"company": "TAP"},
			}
			note := &trip.Item{TripID: tr.ID, Category: trip.CategoryNotes, Title: "Pack light"}

			require.NoError(t, svc.AddItem(flight))
			require.NoError(t, svc.AddItem(note))
			assert.NotZero(t, flight.ID)

			items, err := svc.ListItems(tr.ID)
			require.NoError(t, err)
			require.Len(t, items, 2)

			got := items[0]
			assert.Equal(t, trip.CategoryFlight, got.Category)
			require.NotNil(t, got.Date)
			assert.True(t, date.Equal(*got.Date))
			require.NotNil(t, got.Cost)
			assert.Equal(t, cost, *got.Cost)
			assert.Equal(t, "TAP", got.Meta["company"])
			assert.Nil(t, items[1].Date)
			assert.Nil(t, items[1].Cost)

			require.NoError(t, svc.DeleteItem(tr.ID, flight.ID))
			assert.ErrorIs(t, svc.DeleteItem(tr.ID, flight.ID), ErrItemNotFound)
			assert.ErrorIs(t, svc.DeleteItem(tr.ID+1000, note.ID), ErrItemNotFound, "items are scoped to their trip")
		})
	}
}

func TestParticipants(t *testing.T) {
	for name, svc := range services(t) {
		t.Run(name, func(t *testing.T) {
			tr := sampleTrip()
			require.NoError(t, svc.CreateTrip(tr))

			ana := &trip.Participant{TripID: tr.ID, Name: "Ana", Email: "ana@example.com"}
			require.NoError(t, svc.AddParticipant(ana))
			require.NoError(t, svc.AddParticipant(&trip.Participant{TripID: tr.ID, Name: "Bruno"}))

			// Same email joins again under a new name
			again := &trip.Participant{TripID: tr.ID, Name: "Ana Souza", Email: "ana@example.com"}
			require.NoError(t, svc.AddParticipant(again))
			assert.Equal(t, ana.ID, again.ID)

			participants, err := svc.ListParticipants(tr.ID)
			require.NoError(t, err)
			require.Len(t, participants, 2)
			assert.Equal(t, "Ana Souza", participants[0].Name)
			assert.Equal(t, "Bruno", participants[1].Name)

			require.NoError(t, svc.RemoveParticipant(tr.ID, ana.ID))
			assert.ErrorIs(t, svc.RemoveParticipant(tr.ID, ana.ID), ErrParticipantNotFound)
		})
	}
}

func TestDeleteTripRemovesChildren(t *testing.T) {
	for name, svc := range services(t) {
		t.Run(name, func(t *testing.T) {
			tr := sampleTrip()
			require.NoError(t, svc.CreateTrip(tr))
			require.NoError(t, svc.AddItem(&trip.Item{TripID: tr.ID, Category: trip.CategoryHotel, Title: "Hotel"}))
			require.NoError(t, svc.AddParticipant(&trip.Participant{TripID: tr.ID, Name: "Ana"}))

			stats, err := svc.Stats()
			require.NoError(t, err)
			assert.Equal(t, int64(1), stats.TotalItems)
			assert.Equal(t, int64(1), stats.TotalParticipants)

			require.NoError(t, svc.DeleteTrip(tr.Token))

			stats, err = svc.Stats()
			require.NoError(t, err)
			assert.Zero(t, stats.TotalTrips)
			assert.Zero(t, stats.TotalItems)
			assert.Zero(t, stats.TotalParticipants)
		})
	}
}
