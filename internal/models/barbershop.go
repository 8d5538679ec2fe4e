package models

import "time"

type Barbershop struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Address     string   `json:"address"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	Phone       string   `json:"phone,omitempty"`
	Description string   `json:"description,omitempty"`
	OwnerID     string   `json:"ownerId"`

	Services []Service `json:"services"`
	Invites  []Invite  `json:"invites"`

	// Distance (km) só vem preenchido quando a busca ordena por distância.
	Distance *float64 `json:"distance,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Clone copia as coleções para que snapshots não compartilhem slices.
func (b Barbershop) Clone() Barbershop {
	out := b
	if b.Services != nil {
		out.Services = append([]Service(nil), b.Services...)
	}
	if b.Invites != nil {
		out.Invites = append([]Invite(nil), b.Invites...)
	}
	return out
}

func (b *Barbershop) FindService(serviceID string) (*Service, bool) {
	for i := range b.Services {
		if b.Services[i].ID == serviceID {
			return &b.Services[i], true
		}
	}
	return nil, false
}
