package db

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	infraRepo "github.com/BruksfildServices01/findcut/internal/infra/repository"
	"github.com/BruksfildServices01/findcut/internal/models"
)

// Senha de todas as contas de demonstração.
const SeedPassword = "123456"

const (
	SeedClientEmail = "cliente@findcut.dev"
	SeedBarberEmail = "joao@findcut.dev"
	SeedOwnerEmail  = "dono.central@findcut.dev"
)

type seedUser struct {
	id, name, email string
	role            models.Role
	shopID          string
}

var seedUsers = []seedUser{
	{id: "owner_1", name: "Carlos Almeida", email: SeedOwnerEmail, role: models.RoleOwner},
	{id: "owner_2", name: "Ricardo Souza", email: "dono.estilo@findcut.dev", role: models.RoleOwner},
	{id: "owner_3", name: "Marcos Lima", email: "dono.premium@findcut.dev", role: models.RoleOwner},
	{id: "b1", name: "João", email: SeedBarberEmail, role: models.RoleBarber, shopID: "1"},
	{id: "client_1", name: "Ana Cliente", email: SeedClientEmail, role: models.RoleClient},
}

var seedShops = []models.Barbershop{
	{
		ID:        "1",
		Name:      "Barbearia Central",
		Address:   "Rua das Flores, 123 - Centro, Campinas - SP",
		Latitude:  coord(-22.9035),
		Longitude: coord(-47.0616),
		Phone:     "(19) 3234-5678",
		OwnerID:   "owner_1",
		Invites: []models.Invite{{
			ID:           "invite_1",
			Code:         "ABC123",
			BarbershopID: "1",
			ExpiresAt:    date("2025-12-31T23:59:59Z"),
			CreatedAt:    date("2025-01-01T00:00:00Z"),
		}},
		Services: []models.Service{
			service("1", "1", "Corte Masculino", 35, 30, "2024-01-15T00:00:00Z"),
			service("2", "1", "Barba", 25, 20, "2024-01-15T00:00:00Z"),
		},
		CreatedAt: date("2024-01-15T00:00:00Z"),
		UpdatedAt: date("2025-01-20T00:00:00Z"),
	},
	{
		ID:        "2",
		Name:      "Estilo & Tradição",
		Address:   "Av. Paulista, 456 - Bela Vista, Campinas - SP",
		Latitude:  coord(-22.9068),
		Longitude: coord(-47.0653),
		Phone:     "(19) 3345-6789",
		OwnerID:   "owner_2",
		Services: []models.Service{
			service("3", "2", "Corte + Barba", 55, 45, "2024-02-10T00:00:00Z"),
			service("4", "2", "Corte Social", 40, 35, "2024-02-10T00:00:00Z"),
		},
		CreatedAt: date("2024-02-10T00:00:00Z"),
		UpdatedAt: date("2025-01-15T00:00:00Z"),
	},
	{
		ID:        "3",
		Name:      "Barbershop Premium",
		Address:   "Rua dos Andradas, 789 - Vila Nova, Campinas - SP",
		Latitude:  coord(-22.8958),
		Longitude: coord(-47.0739),
		Phone:     "(19) 3456-7890",
		OwnerID:   "owner_3",
		Invites: []models.Invite{{
			ID:           "invite_2",
			Code:         "XYZ789",
			BarbershopID: "3",
			ExpiresAt:    date("2025-06-30T23:59:59Z"),
			CreatedAt:    date("2025-01-10T00:00:00Z"),
		}},
		Services: []models.Service{
			service("5", "3", "Corte Premium", 65, 40, "2024-03-05T00:00:00Z"),
			service("6", "3", "Tratamento Capilar", 80, 60, "2024-03-05T00:00:00Z"),
		},
		CreatedAt: date("2024-03-05T00:00:00Z"),
		UpdatedAt: date("2025-01-25T00:00:00Z"),
	},
}

// Seed carrega usuários e barbearias de demonstração.
func Seed(ctx context.Context, repo *infraRepo.Memory) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(SeedPassword), bcrypt.MinCost)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	for _, u := range seedUsers {
		_, err := repo.CreateUser(ctx, models.User{
			ID:           u.id,
			Name:         u.name,
			Email:        u.email,
			Role:         u.role,
			BarberShopID: u.shopID,
		}, string(hash))
		if err != nil {
			return fmt.Errorf("seed user %s: %w", u.email, err)
		}
	}

	for _, shop := range seedShops {
		if _, err := repo.CreateBarbershop(ctx, shop.Clone()); err != nil {
			return fmt.Errorf("seed barbershop %s: %w", shop.ID, err)
		}
	}

	return nil
}

func service(id, shopID, name string, price float64, minutes int, created string) models.Service {
	at := date(created)
	return models.Service{
		ID:           id,
		BarbershopID: shopID,
		Name:         name,
		Price:        &price,
		Duration:     &minutes,
		CreatedAt:    &at,
		UpdatedAt:    &at,
	}
}

func coord(v float64) *float64 {
	return &v
}

func date(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}
