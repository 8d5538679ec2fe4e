package api

import (
	"context"
	"net/http"

	"github.com/BruksfildServices01/findcut/internal/models"
)

type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterPayload struct {
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	Password     string      `json:"password"`
	Role         models.Role `json:"role"`
	BarberShopID string      `json:"barberShopId,omitempty"`
}

// AuthResponse cobre login e cadastro. No cadastro o token pode vir vazio.
type AuthResponse struct {
	Token   string      `json:"token"`
	User    models.User `json:"user"`
	Message string      `json:"message,omitempty"`
}

func (c *Client) Login(ctx context.Context, payload LoginPayload) (*AuthResponse, error) {
	var out AuthResponse
	if _, err := c.do(ctx, http.MethodPost, "/auth/login", "/auth/login", nil, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Register(ctx context.Context, payload RegisterPayload) (*AuthResponse, error) {
	var out AuthResponse
	if _, err := c.do(ctx, http.MethodPost, "/auth/register", "/auth/register", nil, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetProfile(ctx context.Context) (*models.User, error) {
	var out models.User
	if _, err := c.do(ctx, http.MethodGet, "/users/me", "/users/me", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
