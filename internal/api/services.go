package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/BruksfildServices01/findcut/internal/models"
)

type ServicePayload struct {
	BarbershopID string   `json:"barbershopId"`
	Name         string   `json:"name"`
	Price        *float64 `json:"price,omitempty"`
	Duration     *int     `json:"duration,omitempty"`
}

type ServicePatch struct {
	BarbershopID *string  `json:"barbershopId,omitempty"`
	Name         *string  `json:"name,omitempty"`
	Price        *float64 `json:"price,omitempty"`
	Duration     *int     `json:"duration,omitempty"`
}

// ListServices lista o catálogo; barbershopID vazio traz os serviços de todas
// as barbearias.
func (c *Client) ListServices(ctx context.Context, barbershopID string) ([]models.Service, error) {
	var query url.Values
	if barbershopID != "" {
		query = url.Values{"barbershopId": {barbershopID}}
	}

	var out []models.Service
	if _, err := c.do(ctx, http.MethodGet, "/services", "/services", query, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Service{}
	}
	return out, nil
}

func (c *Client) CreateService(ctx context.Context, payload ServicePayload) (*models.Service, error) {
	var out models.Service
	if _, err := c.do(ctx, http.MethodPost, "/services", "/services", nil, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateService(ctx context.Context, id string, patch ServicePatch) (*models.Service, error) {
	var out models.Service
	if _, err := c.do(ctx, http.MethodPut, "/services/:id", "/services/"+url.PathEscape(id), nil, patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteService(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/services/:id", "/services/"+url.PathEscape(id), nil, nil, nil)
	return err
}
