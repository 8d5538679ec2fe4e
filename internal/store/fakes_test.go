package store

import (
	"context"
	"sync"

	"github.com/BruksfildServices01/findcut/internal/api"
	"github.com/BruksfildServices01/findcut/internal/httperr"
	"github.com/BruksfildServices01/findcut/internal/models"
)

type fakeAuthAPI struct {
	mu sync.Mutex

	loginResp    *api.AuthResponse
	loginErr     error
	registerResp *api.AuthResponse
	registerErr  error
	profile      *models.User
	profileErr   error

	logins        []api.LoginPayload
	registers     []api.RegisterPayload
	profileCalls  int
	tokensAtCalls []string
	tokens        interface{ CurrentToken() string }
}

func (f *fakeAuthAPI) Login(_ context.Context, p api.LoginPayload) (*api.AuthResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logins = append(f.logins, p)
	return f.loginResp, f.loginErr
}

func (f *fakeAuthAPI) Register(_ context.Context, p api.RegisterPayload) (*api.AuthResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registers = append(f.registers, p)
	return f.registerResp, f.registerErr
}

func (f *fakeAuthAPI) GetProfile(context.Context) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profileCalls++
	if f.tokens != nil {
		f.tokensAtCalls = append(f.tokensAtCalls, f.tokens.CurrentToken())
	}
	return f.profile, f.profileErr
}

type fakeShopAPI struct {
	mu sync.Mutex

	listResp  *api.ListResult[models.Barbershop]
	listErr   error
	listCalls []api.ListBarbershopsParams

	shop      *models.Barbershop
	shopErr   error
	myShop    *models.Barbershop
	myCalls   int
	invite    *models.Invite
	invites   []api.InvitePayload
	service   *models.Service
	deleted   []string
	mutateErr error
}

func (f *fakeShopAPI) ListBarbershops(_ context.Context, p api.ListBarbershopsParams) (*api.ListResult[models.Barbershop], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls = append(f.listCalls, p)
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listResp, nil
}

func (f *fakeShopAPI) GetBarbershop(context.Context, string) (*models.Barbershop, error) {
	return f.shop, f.shopErr
}

func (f *fakeShopAPI) GetMyBarbershop(context.Context) (*models.Barbershop, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.myCalls++
	return f.myShop, nil
}

func (f *fakeShopAPI) CreateBarbershop(_ context.Context, p api.BarbershopPayload) (*models.Barbershop, error) {
	if f.mutateErr != nil {
		return nil, f.mutateErr
	}
	return &models.Barbershop{ID: "new", Name: p.Name, Address: p.Address}, nil
}

func (f *fakeShopAPI) UpdateBarbershop(_ context.Context, id string, p api.BarbershopPatch) (*models.Barbershop, error) {
	if f.mutateErr != nil {
		return nil, f.mutateErr
	}
	out := &models.Barbershop{ID: id}
	if p.Name != nil {
		out.Name = *p.Name
	}
	return out, nil
}

func (f *fakeShopAPI) CreateInvite(_ context.Context, p api.InvitePayload) (*models.Invite, error) {
	f.invites = append(f.invites, p)
	if f.mutateErr != nil {
		return nil, f.mutateErr
	}
	return f.invite, nil
}

func (f *fakeShopAPI) CreateService(context.Context, api.ServicePayload) (*models.Service, error) {
	if f.mutateErr != nil {
		return nil, f.mutateErr
	}
	return f.service, nil
}

func (f *fakeShopAPI) UpdateService(context.Context, string, api.ServicePatch) (*models.Service, error) {
	if f.mutateErr != nil {
		return nil, f.mutateErr
	}
	return f.service, nil
}

func (f *fakeShopAPI) DeleteService(_ context.Context, id string) error {
	if f.mutateErr != nil {
		return f.mutateErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeBookingAPI struct {
	mu sync.Mutex

	list       []models.Booking
	listErr    error
	listCalls  int
	created    *models.Booking
	createErr  error
	payloads   []api.CreateBookingPayload
	updates    []models.BookingStatus
	updateResp *models.Booking
}

func (f *fakeBookingAPI) ListBookings(context.Context) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	return append([]models.Booking(nil), f.list...), f.listErr
}

func (f *fakeBookingAPI) CreateBooking(_ context.Context, p api.CreateBookingPayload) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads = append(f.payloads, p)
	return f.created, f.createErr
}

func (f *fakeBookingAPI) UpdateBookingStatus(_ context.Context, _ string, st models.BookingStatus) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, st)
	return f.updateResp, nil
}

func apiErr(status int, body string) error {
	return httperr.FromResponse(status, []byte(body))
}
