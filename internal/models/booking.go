package models

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCanceled  BookingStatus = "CANCELED"
)

type Booking struct {
	ID           string        `json:"id"`
	ClientID     string        `json:"clientId"`
	BarberID     string        `json:"barberId,omitempty"`
	BarbershopID string        `json:"barbershopId"`
	ServiceID    string        `json:"serviceId,omitempty"`
	Date         time.Time     `json:"date"`
	Status       BookingStatus `json:"status"`

	// Referências desnormalizadas devolvidas pela API.
	Service    *Service    `json:"service,omitempty"`
	Barbershop *Barbershop `json:"barbershop,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
