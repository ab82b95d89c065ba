package store

import "tripshare/internal/trip"

// Service defines the interface for trip storage
type Service interface {
	CreateTrip(t *trip.Trip) error
	GetTripByToken(token string) (*trip.Trip, error)
	ListTrips() ([]trip.Trip, error)
	UpdateTrip(t *trip.Trip) error
	DeleteTrip(token string) error

	AddItem(it *trip.Item) error
	ListItems(tripID int64) ([]trip.Item, error)
	DeleteItem(tripID, itemID int64) error

	AddParticipant(p *trip.Participant) error
	ListParticipants(tripID int64) ([]trip.Participant, error)
	RemoveParticipant(tripID, participantID int64) error

	Stats() (*Stats, error)
	Close() error
}

// Ensure Store implements Service
var _ Service = (*Store)(nil)
