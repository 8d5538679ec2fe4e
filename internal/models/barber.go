package models

// Barber é a projeção simples devolvida por /services/:id/barbers.
type Barber struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
