package handlers

import (
	"time"

	"github.com/BruksfildServices01/findcut/internal/timezone"
)

// parseBookingDate aceita RFC3339 (com ou sem milissegundos) ou o formato
// de campo local, interpretado no fuso da API.
func parseBookingDate(value string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t.UTC(), nil
	}
	t, err := timezone.ParseLocalInput(value, loc)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
