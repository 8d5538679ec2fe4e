package repository

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/findcut/internal/models"
)

var (
	ErrNotFound     = errors.New("not_found")
	ErrEmailTaken   = errors.New("email_taken")
	ErrTimeConflict = errors.New("time_conflict")
	ErrAlreadyOwner = errors.New("already_owner")
)

type userRecord struct {
	user         models.User
	passwordHash string
}

type bookingRecord struct {
	booking models.Booking
	end     time.Time
}

// Memory guarda os dados da API stub. Seguro para uso concorrente.
type Memory struct {
	mu sync.RWMutex

	users      map[string]*userRecord
	emails     map[string]string
	shops      map[string]*models.Barbershop
	shopOrder  []string
	serviceIdx map[string]string
	bookings   []*bookingRecord

	now   func() time.Time
	newID func() string
}

type MemoryOption func(*Memory)

func WithClock(now func() time.Time) MemoryOption {
	return func(m *Memory) {
		m.now = now
	}
}

func WithIDGenerator(fn func() string) MemoryOption {
	return func(m *Memory) {
		m.newID = fn
	}
}

func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		users:      map[string]*userRecord{},
		emails:     map[string]string{},
		shops:      map[string]*models.Barbershop{},
		serviceIdx: map[string]string{},
		now:        time.Now,
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// --------------------------------------------------
// Users
// --------------------------------------------------

func (m *Memory) CreateUser(_ context.Context, u models.User, passwordHash string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	email := strings.ToLower(strings.TrimSpace(u.Email))
	if _, ok := m.emails[email]; ok {
		return models.User{}, ErrEmailTaken
	}

	now := m.now()
	if u.ID == "" {
		u.ID = m.newID()
	}
	u.Email = email
	u.CreatedAt, u.UpdatedAt = now, now

	m.users[u.ID] = &userRecord{user: u, passwordHash: passwordHash}
	m.emails[email] = u.ID
	return u, nil
}

func (m *Memory) FindUserByEmail(_ context.Context, email string) (models.User, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.emails[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return models.User{}, "", ErrNotFound
	}
	rec := m.users[id]
	return rec.user, rec.passwordHash, nil
}

func (m *Memory) GetUser(_ context.Context, id string) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.users[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return rec.user, nil
}

// --------------------------------------------------
// Barbershops
// --------------------------------------------------

func (m *Memory) ListBarbershops(_ context.Context, f ListFilter) ([]models.Barbershop, int) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	region := strings.ToLower(strings.TrimSpace(f.Region))
	out := make([]models.Barbershop, 0, len(m.shopOrder))

	for _, id := range m.shopOrder {
		shop := m.shops[id].Clone()
		shop.Distance = nil

		if region != "" &&
			!strings.Contains(strings.ToLower(shop.Name), region) &&
			!strings.Contains(strings.ToLower(shop.Address), region) {
			continue
		}

		if f.OrderBy == "distance" && f.Latitude != nil && f.Longitude != nil {
			if shop.Latitude == nil || shop.Longitude == nil {
				continue
			}
			d := DistanceKm(*f.Latitude, *f.Longitude, *shop.Latitude, *shop.Longitude)
			if f.Radius != nil && *f.Radius > 0 && d > *f.Radius {
				continue
			}
			shop.Distance = &d
		}

		out = append(out, shop)
	}

	switch f.OrderBy {
	case "name":
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
		})
	case "distance":
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].Distance == nil || out[j].Distance == nil {
				return out[i].Distance != nil
			}
			return *out[i].Distance < *out[j].Distance
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	}

	total := len(out)
	return paginate(out, f.Page, f.Limit), total
}

func (m *Memory) GetBarbershop(_ context.Context, id string) (models.Barbershop, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	shop, ok := m.shops[id]
	if !ok {
		return models.Barbershop{}, ErrNotFound
	}
	return shop.Clone(), nil
}

// BarbershopForUser devolve a barbearia do dono ou à qual o barbeiro pertence.
func (m *Memory) BarbershopForUser(_ context.Context, userID string) (models.Barbershop, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.users[userID]
	if !ok {
		return models.Barbershop{}, ErrNotFound
	}

	if rec.user.BarberShopID != "" {
		if shop, ok := m.shops[rec.user.BarberShopID]; ok {
			return shop.Clone(), nil
		}
	}
	for _, id := range m.shopOrder {
		if m.shops[id].OwnerID == userID {
			return m.shops[id].Clone(), nil
		}
	}
	return models.Barbershop{}, ErrNotFound
}

func (m *Memory) CreateBarbershop(_ context.Context, shop models.Barbershop) (models.Barbershop, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, id := range m.shopOrder {
		if m.shops[id].OwnerID == shop.OwnerID {
			return models.Barbershop{}, ErrAlreadyOwner
		}
	}

	now := m.now()
	if shop.ID == "" {
		shop.ID = m.newID()
	}
	if shop.CreatedAt.IsZero() {
		shop.CreatedAt = now
	}
	if shop.UpdatedAt.IsZero() {
		shop.UpdatedAt = now
	}
	if shop.Services == nil {
		shop.Services = []models.Service{}
	}
	if shop.Invites == nil {
		shop.Invites = []models.Invite{}
	}

	stored := shop.Clone()
	m.shops[shop.ID] = &stored
	m.shopOrder = append(m.shopOrder, shop.ID)
	for _, svc := range shop.Services {
		m.serviceIdx[svc.ID] = shop.ID
	}

	if rec, ok := m.users[shop.OwnerID]; ok {
		rec.user.BarberShopID = shop.ID
	}
	return shop.Clone(), nil
}

// UpdateBarbershop aplica fn sobre a barbearia e carimba updatedAt.
func (m *Memory) UpdateBarbershop(_ context.Context, id string, fn func(*models.Barbershop)) (models.Barbershop, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	shop, ok := m.shops[id]
	if !ok {
		return models.Barbershop{}, ErrNotFound
	}
	fn(shop)
	shop.UpdatedAt = m.now()
	return shop.Clone(), nil
}

func (m *Memory) CreateInvite(_ context.Context, shopID string, expiresAt time.Time) (models.Invite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	shop, ok := m.shops[shopID]
	if !ok {
		return models.Invite{}, ErrNotFound
	}

	code := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	inv := models.Invite{
		ID:           m.newID(),
		Code:         code,
		BarbershopID: shopID,
		ExpiresAt:    expiresAt.UTC(),
		CreatedAt:    m.now().UTC(),
	}
	shop.Invites = append([]models.Invite{inv}, shop.Invites...)
	return inv, nil
}

// --------------------------------------------------
// Services
// --------------------------------------------------

func (m *Memory) ListServices(_ context.Context, shopID string) []models.Service {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []models.Service{}
	for _, id := range m.shopOrder {
		if shopID != "" && id != shopID {
			continue
		}
		out = append(out, m.shops[id].Services...)
	}
	return out
}

func (m *Memory) GetService(_ context.Context, id string) (models.Service, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	svc, _, ok := m.serviceLocked(id)
	if !ok {
		return models.Service{}, ErrNotFound
	}
	return *svc, nil
}

func (m *Memory) CreateService(_ context.Context, svc models.Service) (models.Service, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	shop, ok := m.shops[svc.BarbershopID]
	if !ok {
		return models.Service{}, ErrNotFound
	}

	now := m.now()
	if svc.ID == "" {
		svc.ID = m.newID()
	}
	svc.CreatedAt, svc.UpdatedAt = &now, &now

	shop.Services = append(shop.Services, svc)
	m.serviceIdx[svc.ID] = shop.ID
	return svc, nil
}

func (m *Memory) UpdateService(_ context.Context, id string, fn func(*models.Service)) (models.Service, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	svc, _, ok := m.serviceLocked(id)
	if !ok {
		return models.Service{}, ErrNotFound
	}
	fn(svc)
	now := m.now()
	svc.UpdatedAt = &now
	return *svc, nil
}

func (m *Memory) DeleteService(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, shop, ok := m.serviceLocked(id)
	if !ok {
		return ErrNotFound
	}
	for i := range shop.Services {
		if shop.Services[i].ID == id {
			shop.Services = append(shop.Services[:i:i], shop.Services[i+1:]...)
			break
		}
	}
	delete(m.serviceIdx, id)
	return nil
}

func (m *Memory) serviceLocked(id string) (*models.Service, *models.Barbershop, bool) {
	shopID, ok := m.serviceIdx[id]
	if !ok {
		return nil, nil, false
	}
	shop := m.shops[shopID]
	svc, ok := shop.FindService(id)
	return svc, shop, ok
}

// ServiceBarbers lista os barbeiros da barbearia que oferece o serviço.
func (m *Memory) ServiceBarbers(_ context.Context, serviceID, shopID string) ([]models.Barber, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, shop, ok := m.serviceLocked(serviceID)
	if !ok || (shopID != "" && shop.ID != shopID) {
		return nil, ErrNotFound
	}

	out := []models.Barber{}
	for _, rec := range m.users {
		if rec.user.Role == models.RoleBarber && rec.user.BarberShopID == shop.ID {
			out = append(out, models.Barber{ID: rec.user.ID, Name: rec.user.Name, Email: rec.user.Email})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// --------------------------------------------------
// Bookings
// --------------------------------------------------

// HasTimeConflict: existe agendamento ativo do barbeiro que cruza [start, end).
func (m *Memory) HasTimeConflict(_ context.Context, barberID string, start, end time.Time) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.conflictLocked(barberID, start, end)
}

func (m *Memory) conflictLocked(barberID string, start, end time.Time) bool {
	for _, rec := range m.bookings {
		b := rec.booking
		if b.BarberID != barberID || b.Status == models.BookingCanceled {
			continue
		}
		if start.Before(rec.end) && end.After(b.Date) {
			return true
		}
	}
	return false
}

// CreateBooking grava o agendamento se o barbeiro estiver livre no intervalo.
func (m *Memory) CreateBooking(_ context.Context, b models.Booking, duration time.Duration) (models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	end := b.Date.Add(duration)
	if b.BarberID != "" && m.conflictLocked(b.BarberID, b.Date, end) {
		return models.Booking{}, ErrTimeConflict
	}

	now := m.now()
	if b.ID == "" {
		b.ID = m.newID()
	}
	b.CreatedAt, b.UpdatedAt = now, now

	m.bookings = append(m.bookings, &bookingRecord{booking: b, end: end})
	return m.denormalizeLocked(b), nil
}

func (m *Memory) GetBooking(_ context.Context, id string) (models.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, rec := range m.bookings {
		if rec.booking.ID == id {
			return m.denormalizeLocked(rec.booking), nil
		}
	}
	return models.Booking{}, ErrNotFound
}

// ListBookingsForUser devolve o que o usuário enxerga: os próprios (cliente),
// os que atende (barbeiro) ou os da barbearia (dono). Mais recentes primeiro.
func (m *Memory) ListBookingsForUser(_ context.Context, user models.User) []models.Booking {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []models.Booking{}
	for _, rec := range m.bookings {
		b := rec.booking
		switch user.Role {
		case models.RoleOwner:
			if b.BarbershopID != user.BarberShopID || user.BarberShopID == "" {
				continue
			}
		case models.RoleBarber:
			if b.BarberID != user.ID {
				continue
			}
		default:
			if b.ClientID != user.ID {
				continue
			}
		}
		out = append(out, m.denormalizeLocked(b))
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *Memory) UpdateBookingStatus(_ context.Context, id string, status models.BookingStatus) (models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, rec := range m.bookings {
		if rec.booking.ID == id {
			rec.booking.Status = status
			rec.booking.UpdatedAt = m.now()
			return m.denormalizeLocked(rec.booking), nil
		}
	}
	return models.Booking{}, ErrNotFound
}

// denormalizeLocked preenche service e barbershop (sem as coleções aninhadas).
func (m *Memory) denormalizeLocked(b models.Booking) models.Booking {
	if svc, _, ok := m.serviceLocked(b.ServiceID); ok {
		s := *svc
		b.Service = &s
	}
	if shop, ok := m.shops[b.BarbershopID]; ok {
		s := *shop
		s.Services = nil
		s.Invites = nil
		b.Barbershop = &s
	}
	return b
}
