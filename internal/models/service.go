package models

import "time"

type Service struct {
	ID           string     `json:"id"`
	BarbershopID string     `json:"barbershopId"`
	Name         string     `json:"name"`
	Price        *float64   `json:"price,omitempty"`
	Duration     *int       `json:"duration,omitempty"`
	CreatedAt    *time.Time `json:"createdAt,omitempty"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty"`
}

// DurationMinutes devolve a duração estimada ou 0 quando não informada.
func (s Service) DurationMinutes() int {
	if s.Duration == nil {
		return 0
	}
	return *s.Duration
}
