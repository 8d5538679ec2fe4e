package models

import "time"

type Invite struct {
	ID           string    `json:"id"`
	Code         string    `json:"code"`
	BarbershopID string    `json:"barbershopId"`
	ExpiresAt    time.Time `json:"expiresAt"`
	CreatedAt    time.Time `json:"createdAt"`
	Expired      bool      `json:"expired"`
}

func (i Invite) ExpiredAt(now time.Time) bool {
	return i.Expired || !now.Before(i.ExpiresAt)
}
