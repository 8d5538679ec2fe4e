package store

import (
	"context"
	"sync"

	"github.com/BruksfildServices01/findcut/internal/api"
	"github.com/BruksfildServices01/findcut/internal/domain/booking"
	"github.com/BruksfildServices01/findcut/internal/httperr"
	"github.com/BruksfildServices01/findcut/internal/models"
)

type BookingAPI interface {
	ListBookings(ctx context.Context) ([]models.Booking, error)
	CreateBooking(ctx context.Context, payload api.CreateBookingPayload) (*models.Booking, error)
	UpdateBookingStatus(ctx context.Context, id string, status models.BookingStatus) (*models.Booking, error)
}

type BookingState struct {
	Bookings []models.Booking
	Loading  bool
	Error    string
}

type BookingStore struct {
	base

	mu    sync.Mutex
	api   BookingAPI
	state BookingState
}

func NewBookingStore(client BookingAPI, opts ...Option) *BookingStore {
	return &BookingStore{
		base:  newBase(opts),
		api:   client,
		state: BookingState{Bookings: []models.Booking{}},
	}
}

func (s *BookingStore) Snapshot() BookingState {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.state
	out.Bookings = append([]models.Booking(nil), s.state.Bookings...)
	return out
}

// LastError devolve a mensagem de erro atual (vazia se não houver).
func (s *BookingStore) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Error
}

func (s *BookingStore) FetchBookings(ctx context.Context) error {
	s.begin()

	list, err := s.api.ListBookings(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = false

	if err != nil {
		s.state.Error = httperr.MessageOf(err, FallbackMutation)
		s.state.Bookings = []models.Booking{}
		return err
	}

	s.state.Bookings = list
	s.emit(StoreBooking, "listed", "")
	return nil
}

// AddBooking cria o agendamento e o coloca no início da lista.
func (s *BookingStore) AddBooking(ctx context.Context, payload api.CreateBookingPayload) (*models.Booking, error) {
	s.begin()

	created, err := s.api.CreateBooking(ctx, payload)
	if err != nil {
		return nil, s.fail(err)
	}

	s.mu.Lock()
	s.state.Bookings = append([]models.Booking{*created}, s.state.Bookings...)
	s.state.Loading = false
	s.mu.Unlock()

	s.emit(StoreBooking, "created", created.ID)
	out := *created
	return &out, nil
}

// UpdateStatus pede a transição ao servidor e recarrega a lista. Transições
// que o servidor certamente recusaria são barradas antes da chamada.
func (s *BookingStore) UpdateStatus(ctx context.Context, id string, next models.BookingStatus) (*models.Booking, error) {
	s.mu.Lock()
	var current models.BookingStatus
	for _, b := range s.state.Bookings {
		if b.ID == id {
			current = b.Status
		}
	}
	s.mu.Unlock()

	if current != "" {
		if err := booking.CanRequest(current, next); err != nil {
			return nil, s.fail(err)
		}
	}

	s.begin()
	updated, err := s.api.UpdateBookingStatus(ctx, id, next)
	if err != nil {
		return nil, s.fail(err)
	}
	s.emit(StoreBooking, "status_updated", updated.ID)

	if err := s.FetchBookings(ctx); err != nil {
		return updated, err
	}
	return updated, nil
}

func (s *BookingStore) ClearError() {
	s.mu.Lock()
	s.state.Error = ""
	s.mu.Unlock()
}

func (s *BookingStore) begin() {
	s.mu.Lock()
	s.state.Loading = true
	s.state.Error = ""
	s.mu.Unlock()
}

func (s *BookingStore) fail(err error) error {
	s.mu.Lock()
	s.state.Loading = false
	s.state.Error = httperr.MessageOf(err, FallbackMutation)
	s.mu.Unlock()
	return err
}
