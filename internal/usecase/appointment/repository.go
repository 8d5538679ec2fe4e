package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/findcut/internal/models"
)

// Repository é o que os casos de uso de agendamento da API stub precisam
// do armazenamento.
type Repository interface {
	GetService(ctx context.Context, id string) (models.Service, error)
	ServiceBarbers(ctx context.Context, serviceID, shopID string) ([]models.Barber, error)
	BarbershopForUser(ctx context.Context, userID string) (models.Barbershop, error)

	HasTimeConflict(ctx context.Context, barberID string, start, end time.Time) bool
	CreateBooking(ctx context.Context, b models.Booking, duration time.Duration) (models.Booking, error)
	GetBooking(ctx context.Context, id string) (models.Booking, error)
	UpdateBookingStatus(ctx context.Context, id string, status models.BookingStatus) (models.Booking, error)
}

// Códigos de erro de negócio devolvidos pelos casos de uso.
const (
	CodeServiceNotFound    = "service_not_found"
	CodeBarbershopMismatch = "barbershop_mismatch"
	CodePastDate           = "past_date"
	CodeInvalidBarber      = "invalid_barber"
	CodeTimeConflict       = "time_conflict"
	CodeBookingNotFound    = "booking_not_found"
	CodeForbidden          = "forbidden"
)

// Duração assumida quando o serviço não informa a sua.
const DefaultServiceDuration = 30 * time.Minute

func serviceDuration(svc models.Service) time.Duration {
	if svc.DurationMinutes() <= 0 {
		return DefaultServiceDuration
	}
	return time.Duration(svc.DurationMinutes()) * time.Minute
}
