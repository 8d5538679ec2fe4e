package appointment

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/BruksfildServices01/findcut/internal/audit"
	domain "github.com/BruksfildServices01/findcut/internal/domain/booking"
	"github.com/BruksfildServices01/findcut/internal/httperr"
	infraRepo "github.com/BruksfildServices01/findcut/internal/infra/repository"
	"github.com/BruksfildServices01/findcut/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type CreateBookingInput struct {
	ClientID     string
	ServiceID    string
	BarbershopID string
	BarberID     string
	Start        time.Time
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	repo  Repository
	audit *audit.Dispatcher
	now   func() time.Time
}

func NewCreateBooking(
	repo Repository,
	audit *audit.Dispatcher,
) *CreateBooking {
	return &CreateBooking{
		repo:  repo,
		audit: audit,
		now:   time.Now,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (*models.Booking, error) {

	// --------------------------------------------------
	// 1. Serviço e barbearia
	// --------------------------------------------------
	svc, err := uc.repo.GetService(ctx, in.ServiceID)
	if err != nil {
		return nil, httperr.ErrBusiness(CodeServiceNotFound)
	}

	shopID := in.BarbershopID
	if shopID == "" {
		shopID = svc.BarbershopID
	}
	if shopID != svc.BarbershopID {
		return nil, httperr.ErrBusiness(CodeBarbershopMismatch)
	}

	// --------------------------------------------------
	// 2. Horário no futuro
	// --------------------------------------------------
	if !in.Start.After(uc.now()) {
		return nil, httperr.ErrBusiness(CodePastDate)
	}

	duration := serviceDuration(svc)

	// --------------------------------------------------
	// 3. Barbeiro (informado ou o primeiro livre)
	// --------------------------------------------------
	barbers, err := uc.repo.ServiceBarbers(ctx, svc.ID, shopID)
	if err != nil {
		return nil, httperr.ErrBusiness(CodeServiceNotFound)
	}

	barberID := strings.TrimSpace(in.BarberID)
	switch {
	case barberID != "":
		if !containsBarber(barbers, barberID) {
			return nil, httperr.ErrBusiness(CodeInvalidBarber)
		}
	case len(barbers) > 0:
		barberID = uc.firstFreeBarber(ctx, barbers, in.Start, duration)
		if barberID == "" {
			return nil, httperr.ErrBusiness(CodeTimeConflict)
		}
	}

	// --------------------------------------------------
	// 4. Criação (conflito checado no repositório)
	// --------------------------------------------------
	b, err := uc.repo.CreateBooking(ctx, models.Booking{
		ClientID:     in.ClientID,
		BarberID:     barberID,
		BarbershopID: shopID,
		ServiceID:    svc.ID,
		Date:         in.Start.UTC(),
		Status:       domain.InitialStatus(),
	}, duration)
	if errors.Is(err, infraRepo.ErrTimeConflict) {
		return nil, httperr.ErrBusiness(CodeTimeConflict)
	}
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 5. Auditoria
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		Store:    "booking",
		Action:   "booking_created",
		EntityID: b.ID,
		Metadata: map[string]any{"barberId": b.BarberID, "clientId": b.ClientID},
		At:       uc.now(),
	})

	return &b, nil
}

func (uc *CreateBooking) firstFreeBarber(
	ctx context.Context,
	barbers []models.Barber,
	start time.Time,
	d time.Duration,
) string {
	for _, b := range barbers {
		if !uc.repo.HasTimeConflict(ctx, b.ID, start, start.Add(d)) {
			return b.ID
		}
	}
	return ""
}

func containsBarber(barbers []models.Barber, id string) bool {
	for _, b := range barbers {
		if b.ID == id {
			return true
		}
	}
	return false
}
