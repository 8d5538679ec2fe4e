package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/findcut/internal/audit"
	"github.com/BruksfildServices01/findcut/internal/httperr"
	infraRepo "github.com/BruksfildServices01/findcut/internal/infra/repository"
	"github.com/BruksfildServices01/findcut/internal/models"
)

var now = time.Date(2030, 5, 10, 12, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*infraRepo.Memory, *audit.Dispatcher) {
	t.Helper()
	ctx := context.Background()
	repo := infraRepo.NewMemory(infraRepo.WithClock(func() time.Time { return now }))

	users := []models.User{
		{ID: "owner", Email: "owner@mail.com", Role: models.RoleOwner},
		{ID: "b1", Name: "João", Email: "joao@mail.com", Role: models.RoleBarber, BarberShopID: "1"},
		{ID: "b2", Name: "Pedro", Email: "pedro@mail.com", Role: models.RoleBarber, BarberShopID: "1"},
		{ID: "c1", Email: "c1@mail.com", Role: models.RoleClient},
	}
	for _, u := range users {
		_, err := repo.CreateUser(ctx, u, "x")
		require.NoError(t, err)
	}

	minutes := 40
	_, err := repo.CreateBarbershop(ctx, models.Barbershop{
		ID: "1", Name: "Central", Address: "Rua", OwnerID: "owner",
		Services: []models.Service{{ID: "s1", BarbershopID: "1", Name: "Corte", Duration: &minutes}},
	})
	require.NoError(t, err)
	_, err = repo.CreateBarbershop(ctx, models.Barbershop{ID: "2", Name: "Outra", Address: "Av", OwnerID: "x"})
	require.NoError(t, err)

	d := audit.NewDispatcher(audit.New(zerolog.Nop()))
	t.Cleanup(d.Close)
	return repo, d
}

func newCreate(repo Repository, d *audit.Dispatcher) *CreateBooking {
	uc := NewCreateBooking(repo, d)
	uc.now = func() time.Time { return now }
	return uc
}

func TestCreateBooking(t *testing.T) {
	ctx := context.Background()
	repo, d := setup(t)
	uc := newCreate(repo, d)
	at := now.Add(2 * time.Hour)

	b, err := uc.Execute(ctx, CreateBookingInput{ClientID: "c1", ServiceID: "s1", BarberID: "b1", Start: at})
	require.NoError(t, err)
	assert.Equal(t, "1", b.BarbershopID)
	assert.Equal(t, models.BookingPending, b.Status)

	// 40 min de serviço: 30 min depois ainda conflita.
	_, err = uc.Execute(ctx, CreateBookingInput{ClientID: "c1", ServiceID: "s1", BarberID: "b1", Start: at.Add(30 * time.Minute)})
	assert.True(t, httperr.IsBusiness(err, CodeTimeConflict))

	auto, err := uc.Execute(ctx, CreateBookingInput{ClientID: "c1", ServiceID: "s1", Start: at})
	require.NoError(t, err)
	assert.Equal(t, "b2", auto.BarberID)

	_, err = uc.Execute(ctx, CreateBookingInput{ClientID: "c1", ServiceID: "s1", Start: at})
	assert.True(t, httperr.IsBusiness(err, CodeTimeConflict))
}

func TestCreateBookingValidation(t *testing.T) {
	ctx := context.Background()
	repo, d := setup(t)
	uc := newCreate(repo, d)
	at := now.Add(time.Hour)

	cases := map[string]struct {
		in   CreateBookingInput
		code string
	}{
		"unknown service": {CreateBookingInput{ServiceID: "nope", Start: at}, CodeServiceNotFound},
		"other shop":      {CreateBookingInput{ServiceID: "s1", BarbershopID: "2", Start: at}, CodeBarbershopMismatch},
		"past":            {CreateBookingInput{ServiceID: "s1", Start: now.Add(-time.Minute)}, CodePastDate},
		"now":             {CreateBookingInput{ServiceID: "s1", Start: now}, CodePastDate},
		"foreign barber":  {CreateBookingInput{ServiceID: "s1", BarberID: "c1", Start: at}, CodeInvalidBarber},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := uc.Execute(ctx, tc.in)
			assert.True(t, httperr.IsBusiness(err, tc.code), "got %v", err)
		})
	}
}

func TestUpdateBookingStatus(t *testing.T) {
	ctx := context.Background()
	repo, d := setup(t)
	b, err := newCreate(repo, d).Execute(ctx, CreateBookingInput{ClientID: "c1", ServiceID: "s1", BarberID: "b1", Start: now.Add(time.Hour)})
	require.NoError(t, err)

	uc := NewUpdateBookingStatus(repo, d)

	_, err = uc.Execute(ctx, UpdateBookingStatusInput{UserID: "c1", Role: models.RoleClient, BookingID: b.ID, Status: models.BookingConfirmed})
	assert.True(t, httperr.IsBusiness(err, CodeForbidden))

	_, err = uc.Execute(ctx, UpdateBookingStatusInput{UserID: "b2", Role: models.RoleBarber, BookingID: b.ID, Status: models.BookingConfirmed})
	assert.True(t, httperr.IsBusiness(err, CodeForbidden))

	updated, err := uc.Execute(ctx, UpdateBookingStatusInput{UserID: "owner", Role: models.RoleOwner, BookingID: b.ID, Status: models.BookingConfirmed})
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, updated.Status)

	_, err = uc.Execute(ctx, UpdateBookingStatusInput{UserID: "owner", Role: models.RoleOwner, BookingID: b.ID, Status: models.BookingConfirmed})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidState))

	_, err = uc.Execute(ctx, UpdateBookingStatusInput{UserID: "c1", Role: models.RoleClient, BookingID: "missing", Status: models.BookingCanceled})
	assert.True(t, httperr.IsBusiness(err, CodeBookingNotFound))
}

func TestCheckAvailability(t *testing.T) {
	ctx := context.Background()
	repo, d := setup(t)
	at := now.Add(time.Hour)
	_, err := newCreate(repo, d).Execute(ctx, CreateBookingInput{ClientID: "c1", ServiceID: "s1", BarberID: "b1", Start: at})
	require.NoError(t, err)

	uc := NewCheckAvailability(repo)

	assert.False(t, uc.Execute(ctx, "b1", at, ""))
	assert.True(t, uc.Execute(ctx, "b2", at, ""))
	// Termina exatamente quando o agendamento começa.
	assert.True(t, uc.Execute(ctx, "b1", at.Add(-30*time.Minute), ""))
	assert.False(t, uc.Execute(ctx, "b1", at.Add(-30*time.Minute), "s1"))
}
