package booking

import (
	"context"
	"time"

	"github.com/BruksfildServices01/findcut/internal/models"
)

type Availability int

const (
	AvailabilityUnknown Availability = iota
	AvailabilityAvailable
	AvailabilityUnavailable
)

func (a Availability) String() string {
	switch a {
	case AvailabilityAvailable:
		return "available"
	case AvailabilityUnavailable:
		return "unavailable"
	}
	return "unknown"
}

func AvailabilityOf(available bool) Availability {
	if available {
		return AvailabilityAvailable
	}
	return AvailabilityUnavailable
}

// BarberDirectory lista os barbeiros aptos a um serviço numa barbearia.
type BarberDirectory interface {
	ListServiceBarbers(ctx context.Context, serviceID, barbershopID string) ([]models.Barber, error)
}

// AvailabilityChecker consulta se o barbeiro está livre no horário.
type AvailabilityChecker interface {
	CheckAvailability(ctx context.Context, barberID string, at time.Time) (bool, error)
}
