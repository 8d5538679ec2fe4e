package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/BruksfildServices01/findcut/internal/models"
)

const (
	OrderByName      = "name"
	OrderByDistance  = "distance"
	OrderByCreatedAt = "createdAt"
)

// ListBarbershopsParams usa ponteiros: nil significa "não informado" e
// nunca apaga um valor guardado no Merge.
type ListBarbershopsParams struct {
	Region    *string
	Page      *int
	Limit     *int
	OrderBy   *string
	Latitude  *float64
	Longitude *float64
	Radius    *float64
}

// Merge aplica os campos definidos em next sobre p. Os valores são copiados,
// então o resultado não compartilha ponteiros com next.
func (p ListBarbershopsParams) Merge(next ListBarbershopsParams) ListBarbershopsParams {
	return ListBarbershopsParams{
		Region:    pick(p.Region, next.Region),
		Page:      pick(p.Page, next.Page),
		Limit:     pick(p.Limit, next.Limit),
		OrderBy:   pick(p.OrderBy, next.OrderBy),
		Latitude:  pick(p.Latitude, next.Latitude),
		Longitude: pick(p.Longitude, next.Longitude),
		Radius:    pick(p.Radius, next.Radius),
	}
}

func pick[T any](cur, next *T) *T {
	if next != nil {
		v := *next
		return &v
	}
	if cur != nil {
		v := *cur
		return &v
	}
	return nil
}

// Query monta a query string. Coordenadas e raio só vão quando a ordenação
// é por distância.
func (p ListBarbershopsParams) Query() url.Values {
	q := url.Values{}
	if p.Region != nil && strings.TrimSpace(*p.Region) != "" {
		q.Set("region", strings.TrimSpace(*p.Region))
	}
	if p.Page != nil {
		q.Set("page", strconv.Itoa(*p.Page))
	}
	if p.Limit != nil {
		q.Set("limit", strconv.Itoa(*p.Limit))
	}
	if p.OrderBy != nil && *p.OrderBy != "" {
		q.Set("orderBy", *p.OrderBy)

		if *p.OrderBy == OrderByDistance {
			if p.Latitude != nil {
				q.Set("latitude", formatFloat(*p.Latitude))
			}
			if p.Longitude != nil {
				q.Set("longitude", formatFloat(*p.Longitude))
			}
			if p.Radius != nil {
				q.Set("radius", formatFloat(*p.Radius))
			}
		}
	}
	return q
}

// ListResult é uma página de resultados mais o total informado pela API.
type ListResult[T any] struct {
	Data  []T
	Total int
}

type BarbershopPayload struct {
	Name        string   `json:"name"`
	Address     string   `json:"address"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	Phone       string   `json:"phone,omitempty"`
	Description string   `json:"description,omitempty"`
}

// BarbershopPatch é a atualização parcial: só os campos não-nil são enviados.
type BarbershopPatch struct {
	Name        *string  `json:"name,omitempty"`
	Address     *string  `json:"address,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	Phone       *string  `json:"phone,omitempty"`
	Description *string  `json:"description,omitempty"`
}

// InvitePayload aceita {daysValid} ou {barbershopId, expiresAt}.
type InvitePayload struct {
	BarbershopID string     `json:"barbershopId,omitempty"`
	DaysValid    int        `json:"daysValid,omitempty"`
	ExpiresAt    *time.Time `json:"expiresAt,omitempty"`
}

func (c *Client) ListBarbershops(ctx context.Context, params ListBarbershopsParams) (*ListResult[models.Barbershop], error) {
	var shops []models.Barbershop
	header, err := c.do(ctx, http.MethodGet, "/barber-shops", "/barber-shops", params.Query(), nil, &shops)
	if err != nil {
		return nil, err
	}
	if shops == nil {
		shops = []models.Barbershop{}
	}

	return &ListResult[models.Barbershop]{
		Data:  shops,
		Total: totalCount(header, len(shops)),
	}, nil
}

func (c *Client) GetBarbershop(ctx context.Context, id string) (*models.Barbershop, error) {
	var out models.Barbershop
	if _, err := c.do(ctx, http.MethodGet, "/barber-shop/:id", "/barber-shop/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetMyBarbershop devolve nil sem erro quando o usuário não tem barbearia.
func (c *Client) GetMyBarbershop(ctx context.Context) (*models.Barbershop, error) {
	var out *models.Barbershop
	if _, err := c.do(ctx, http.MethodGet, "/me/barber-shop", "/me/barber-shop", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateBarbershop(ctx context.Context, payload BarbershopPayload) (*models.Barbershop, error) {
	var out models.Barbershop
	if _, err := c.do(ctx, http.MethodPost, "/barber-shop", "/barber-shop", nil, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateBarbershop(ctx context.Context, id string, patch BarbershopPatch) (*models.Barbershop, error) {
	var out models.Barbershop
	if _, err := c.do(ctx, http.MethodPatch, "/barber-shop/:id", "/barber-shop/"+url.PathEscape(id), nil, patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateInvite(ctx context.Context, payload InvitePayload) (*models.Invite, error) {
	var out models.Invite
	if _, err := c.do(ctx, http.MethodPost, "/barber-shop/invite", "/barber-shop/invite", nil, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// totalCount lê x-total-count; ausente ou não numérico cai para o tamanho da página.
func totalCount(h http.Header, fallback int) int {
	raw := strings.TrimSpace(h.Get("X-Total-Count"))
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func String(s string) *string { return &s }

func Int(n int) *int { return &n }

func Float(f float64) *float64 { return &f }
