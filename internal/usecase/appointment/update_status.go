package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/findcut/internal/audit"
	domain "github.com/BruksfildServices01/findcut/internal/domain/booking"
	"github.com/BruksfildServices01/findcut/internal/httperr"
	"github.com/BruksfildServices01/findcut/internal/models"
)

type UpdateBookingStatusInput struct {
	UserID    string
	Role      models.Role
	BookingID string
	Status    models.BookingStatus
}

type UpdateBookingStatus struct {
	repo  Repository
	audit *audit.Dispatcher
}

func NewUpdateBookingStatus(
	repo Repository,
	audit *audit.Dispatcher,
) *UpdateBookingStatus {
	return &UpdateBookingStatus{
		repo:  repo,
		audit: audit,
	}
}

// Execute aplica a transição. Cliente só cancela os próprios; barbeiro e
// dono confirmam ou cancelam os que atendem.
func (uc *UpdateBookingStatus) Execute(
	ctx context.Context,
	in UpdateBookingStatusInput,
) (*models.Booking, error) {

	b, err := uc.repo.GetBooking(ctx, in.BookingID)
	if err != nil {
		return nil, httperr.ErrBusiness(CodeBookingNotFound)
	}

	if !uc.allowed(ctx, in, b) {
		return nil, httperr.ErrBusiness(CodeForbidden)
	}

	if err := domain.CanRequest(b.Status, in.Status); err != nil {
		return nil, err
	}

	updated, err := uc.repo.UpdateBookingStatus(ctx, b.ID, in.Status)
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		Store:    "booking",
		Action:   "booking_" + string(updated.Status),
		EntityID: updated.ID,
		Metadata: map[string]any{"from": b.Status, "by": in.UserID},
		At:       time.Now(),
	})

	return &updated, nil
}

func (uc *UpdateBookingStatus) allowed(ctx context.Context, in UpdateBookingStatusInput, b models.Booking) bool {
	switch in.Role {
	case models.RoleClient:
		return b.ClientID == in.UserID && in.Status == models.BookingCanceled
	case models.RoleBarber:
		return b.BarberID == in.UserID
	case models.RoleOwner:
		shop, err := uc.repo.BarbershopForUser(ctx, in.UserID)
		return err == nil && shop.ID == b.BarbershopID
	}
	return false
}
