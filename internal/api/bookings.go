package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/BruksfildServices01/findcut/internal/models"
	"github.com/BruksfildServices01/findcut/internal/timezone"
)

// CreateBookingPayload é enviado com a data em ISO UTC com milissegundos.
type CreateBookingPayload struct {
	ServiceID    string
	BarbershopID string
	BarberID     string
	Date         time.Time
}

func (p CreateBookingPayload) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ServiceID    string `json:"serviceId"`
		BarbershopID string `json:"barbershopId,omitempty"`
		Date         string `json:"date"`
		BarberID     string `json:"barberId,omitempty"`
	}{
		ServiceID:    p.ServiceID,
		BarbershopID: p.BarbershopID,
		Date:         timezone.FormatWire(p.Date),
		BarberID:     p.BarberID,
	})
}

type updateStatusPayload struct {
	Status models.BookingStatus `json:"status"`
}

type availabilityResponse struct {
	Available bool `json:"available"`
}

func (c *Client) CreateBooking(ctx context.Context, payload CreateBookingPayload) (*models.Booking, error) {
	var out models.Booking
	if _, err := c.do(ctx, http.MethodPost, "/bookings", "/bookings", nil, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListBookings(ctx context.Context) ([]models.Booking, error) {
	var out []models.Booking
	if _, err := c.do(ctx, http.MethodGet, "/bookings", "/bookings", nil, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Booking{}
	}
	return out, nil
}

func (c *Client) UpdateBookingStatus(ctx context.Context, id string, status models.BookingStatus) (*models.Booking, error) {
	var out models.Booking
	path := "/bookings/" + url.PathEscape(id)
	if _, err := c.do(ctx, http.MethodPatch, "/bookings/:id", path, nil, updateStatusPayload{Status: status}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CheckAvailability(ctx context.Context, barberID string, at time.Time) (bool, error) {
	q := url.Values{}
	q.Set("barberId", barberID)
	q.Set("date", timezone.FormatWire(at))

	var out availabilityResponse
	if _, err := c.do(ctx, http.MethodGet, "/bookings/availability", "/bookings/availability", q, nil, &out); err != nil {
		return false, err
	}
	return out.Available, nil
}

func (c *Client) ListServiceBarbers(ctx context.Context, serviceID, barbershopID string) ([]models.Barber, error) {
	q := url.Values{}
	if barbershopID != "" {
		q.Set("barbershopId", barbershopID)
	}

	var out []models.Barber
	path := "/services/" + url.PathEscape(serviceID) + "/barbers"
	if _, err := c.do(ctx, http.MethodGet, "/services/:id/barbers", path, q, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Barber{}
	}
	return out, nil
}
