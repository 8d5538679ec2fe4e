package store

import (
	"context"
	"sync"

	"github.com/BruksfildServices01/findcut/internal/api"
	"github.com/BruksfildServices01/findcut/internal/httperr"
	"github.com/BruksfildServices01/findcut/internal/models"
)

const (
	DefaultPage  = 1
	DefaultLimit = 9
)

type BarbershopAPI interface {
	ListBarbershops(ctx context.Context, params api.ListBarbershopsParams) (*api.ListResult[models.Barbershop], error)
	GetBarbershop(ctx context.Context, id string) (*models.Barbershop, error)
	GetMyBarbershop(ctx context.Context) (*models.Barbershop, error)
	CreateBarbershop(ctx context.Context, payload api.BarbershopPayload) (*models.Barbershop, error)
	UpdateBarbershop(ctx context.Context, id string, patch api.BarbershopPatch) (*models.Barbershop, error)
	CreateInvite(ctx context.Context, payload api.InvitePayload) (*models.Invite, error)

	CreateService(ctx context.Context, payload api.ServicePayload) (*models.Service, error)
	UpdateService(ctx context.Context, id string, patch api.ServicePatch) (*models.Service, error)
	DeleteService(ctx context.Context, id string) error
}

type BarbershopState struct {
	Barbershops []models.Barbershop
	Current     *models.Barbershop
	Params      api.ListBarbershopsParams
	Total       int
	Loading     bool
	Error       string
}

// Page devolve a página atual da busca.
func (s BarbershopState) Page() int {
	if s.Params.Page == nil {
		return DefaultPage
	}
	return *s.Params.Page
}

func (s BarbershopState) Limit() int {
	if s.Params.Limit == nil {
		return DefaultLimit
	}
	return *s.Params.Limit
}

// TotalPages devolve ao menos 1.
func (s BarbershopState) TotalPages() int {
	limit := s.Limit()
	if limit <= 0 || s.Total <= 0 {
		return 1
	}
	return (s.Total + limit - 1) / limit
}

type BarbershopStore struct {
	base

	mu    sync.Mutex
	api   BarbershopAPI
	state BarbershopState
}

func NewBarbershopStore(client BarbershopAPI, opts ...Option) *BarbershopStore {
	return &BarbershopStore{
		base: newBase(opts),
		api:  client,
		state: BarbershopState{
			Barbershops: []models.Barbershop{},
			Params: api.ListBarbershopsParams{
				Page:  api.Int(DefaultPage),
				Limit: api.Int(DefaultLimit),
			},
		},
	}
}

func (s *BarbershopStore) Snapshot() BarbershopState {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.state
	out.Params = api.ListBarbershopsParams{}.Merge(s.state.Params)
	out.Barbershops = make([]models.Barbershop, len(s.state.Barbershops))
	for i, b := range s.state.Barbershops {
		out.Barbershops[i] = b.Clone()
	}
	if s.state.Current != nil {
		cur := s.state.Current.Clone()
		out.Current = &cur
	}
	return out
}

// FetchBarbershops mescla params com os guardados e refaz a busca.
func (s *BarbershopStore) FetchBarbershops(ctx context.Context, params api.ListBarbershopsParams) error {
	s.mu.Lock()
	merged := s.state.Params.Merge(params)
	s.state.Params = merged
	s.state.Loading = true
	s.state.Error = ""
	s.mu.Unlock()

	res, err := s.api.ListBarbershops(ctx, merged)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = false

	if err != nil {
		s.state.Error = httperr.MessageOf(err, FallbackLoad)
		s.state.Barbershops = []models.Barbershop{}
		s.state.Total = 0
		return err
	}

	s.state.Barbershops = res.Data
	s.state.Total = res.Total
	s.emit(StoreBarbershop, "listed", "")
	return nil
}

// SetPage repete a última busca mudando só a página.
func (s *BarbershopStore) SetPage(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}
	return s.FetchBarbershops(ctx, api.ListBarbershopsParams{Page: api.Int(page)})
}

func (s *BarbershopStore) FetchBarbershop(ctx context.Context, id string) (*models.Barbershop, error) {
	s.begin()

	shop, err := s.api.GetBarbershop(ctx, id)
	if err != nil {
		return nil, s.fail(err, FallbackLoad)
	}

	s.mu.Lock()
	s.state.Current = shop
	s.state.Loading = false
	s.mu.Unlock()

	s.emit(StoreBarbershop, "loaded", shop.ID)
	return cloneShop(shop), nil
}

// FetchMyBarbershop devolve nil quando o usuário ainda não tem barbearia.
func (s *BarbershopStore) FetchMyBarbershop(ctx context.Context) (*models.Barbershop, error) {
	s.begin()

	shop, err := s.api.GetMyBarbershop(ctx)
	if err != nil {
		return nil, s.fail(err, FallbackLoad)
	}

	s.mu.Lock()
	s.state.Current = shop
	s.state.Loading = false
	s.mu.Unlock()

	if shop != nil {
		s.emit(StoreBarbershop, "loaded", shop.ID)
	}
	return cloneShop(shop), nil
}

func (s *BarbershopStore) AddBarbershop(ctx context.Context, payload api.BarbershopPayload) (*models.Barbershop, error) {
	s.begin()

	shop, err := s.api.CreateBarbershop(ctx, payload)
	if err != nil {
		return nil, s.fail(err, FallbackLoad)
	}

	s.mu.Lock()
	s.state.Barbershops = append([]models.Barbershop{*shop}, s.state.Barbershops...)
	s.state.Current = shop
	s.state.Total++
	s.state.Loading = false
	s.mu.Unlock()

	s.emit(StoreBarbershop, "created", shop.ID)
	return cloneShop(shop), nil
}

// UpdateBarbershop troca a barbearia atual e a entrada de mesmo id na lista.
func (s *BarbershopStore) UpdateBarbershop(ctx context.Context, id string, patch api.BarbershopPatch) (*models.Barbershop, error) {
	s.begin()

	shop, err := s.api.UpdateBarbershop(ctx, id, patch)
	if err != nil {
		return nil, s.fail(err, FallbackLoad)
	}

	s.mu.Lock()
	s.state.Current = shop
	for i := range s.state.Barbershops {
		if s.state.Barbershops[i].ID == shop.ID {
			s.state.Barbershops[i] = *shop
		}
	}
	s.state.Loading = false
	s.mu.Unlock()

	s.emit(StoreBarbershop, "updated", shop.ID)
	return cloneShop(shop), nil
}

// CreateInvite gera um convite para shopID e o coloca no início dos convites
// dessa barbearia, esteja ela como atual ou na lista.
func (s *BarbershopStore) CreateInvite(ctx context.Context, shopID string, payload api.InvitePayload) (*models.Invite, error) {
	s.begin()

	payload.BarbershopID = shopID
	invite, err := s.api.CreateInvite(ctx, payload)
	if err != nil {
		return nil, s.fail(err, FallbackLoad)
	}

	target := shopID
	if invite.BarbershopID != "" {
		target = invite.BarbershopID
	}

	s.mu.Lock()
	if s.state.Current != nil && s.state.Current.ID == target {
		cur := s.state.Current.Clone()
		cur.Invites = append([]models.Invite{*invite}, cur.Invites...)
		s.state.Current = &cur
	}
	for i := range s.state.Barbershops {
		if s.state.Barbershops[i].ID == target {
			b := s.state.Barbershops[i].Clone()
			b.Invites = append([]models.Invite{*invite}, b.Invites...)
			s.state.Barbershops[i] = b
		}
	}
	s.state.Loading = false
	s.mu.Unlock()

	s.emit(StoreBarbershop, "invite_created", invite.ID)
	out := *invite
	return &out, nil
}

// =====================
// Serviços (painel do proprietário)
// =====================

func (s *BarbershopStore) AddService(ctx context.Context, payload api.ServicePayload) (*models.Service, error) {
	s.begin()

	svc, err := s.api.CreateService(ctx, payload)
	if err != nil {
		return nil, s.fail(err, FallbackMutation)
	}
	s.emit(StoreBarbershop, "service_created", svc.ID)

	if _, err := s.FetchMyBarbershop(ctx); err != nil {
		return svc, err
	}
	return svc, nil
}

func (s *BarbershopStore) UpdateService(ctx context.Context, id string, patch api.ServicePatch) (*models.Service, error) {
	s.begin()

	svc, err := s.api.UpdateService(ctx, id, patch)
	if err != nil {
		return nil, s.fail(err, FallbackMutation)
	}
	s.emit(StoreBarbershop, "service_updated", svc.ID)

	if _, err := s.FetchMyBarbershop(ctx); err != nil {
		return svc, err
	}
	return svc, nil
}

func (s *BarbershopStore) DeleteService(ctx context.Context, id string) error {
	s.begin()

	if err := s.api.DeleteService(ctx, id); err != nil {
		return s.fail(err, FallbackMutation)
	}
	s.emit(StoreBarbershop, "service_deleted", id)

	_, err := s.FetchMyBarbershop(ctx)
	return err
}

func (s *BarbershopStore) ClearError() {
	s.mu.Lock()
	s.state.Error = ""
	s.mu.Unlock()
}

func (s *BarbershopStore) begin() {
	s.mu.Lock()
	s.state.Loading = true
	s.state.Error = ""
	s.mu.Unlock()
}

func (s *BarbershopStore) fail(err error, fallback string) error {
	s.mu.Lock()
	s.state.Loading = false
	s.state.Error = httperr.MessageOf(err, fallback)
	s.mu.Unlock()
	return err
}

func cloneShop(b *models.Barbershop) *models.Barbershop {
	if b == nil {
		return nil
	}
	out := b.Clone()
	return &out
}
