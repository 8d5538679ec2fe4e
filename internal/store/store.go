package store

import (
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/findcut/internal/audit"
)

// Mensagens usadas quando a API não explica a falha.
const (
	FallbackLogin    = "Não foi possível entrar. Verifique suas credenciais."
	FallbackRegister = "Não foi possível criar sua conta."
	FallbackLoad     = "Não foi possível carregar os dados."
	FallbackMutation = "Não foi possível completar a operação."
)

const (
	StoreAuth       = "auth"
	StoreBarbershop = "barbershop"
	StoreBooking    = "booking"
)

type base struct {
	events *audit.Dispatcher
	log    zerolog.Logger
}

type Option func(*base)

func WithEvents(d *audit.Dispatcher) Option {
	return func(b *base) {
		b.events = d
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(b *base) {
		b.log = log
	}
}

func newBase(opts []Option) base {
	b := base{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

func (b *base) emit(store, action, entityID string) {
	b.events.Dispatch(audit.Event{
		Store:    store,
		Action:   action,
		EntityID: entityID,
	})
}
