package models

import "time"

type Role string

const (
	RoleClient Role = "CLIENT"
	RoleBarber Role = "BARBER"
	RoleOwner  Role = "OWNER"
)

func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleBarber, RoleOwner:
		return true
	}
	return false
}

// Label devolve o nome do perfil exibido ao usuário.
func (r Role) Label() string {
	switch r {
	case RoleClient:
		return "Cliente"
	case RoleBarber:
		return "Barbeiro"
	case RoleOwner:
		return "Proprietário"
	}
	return string(r)
}

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	BarberShopID string    `json:"barberShopId,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
