package audit

import "github.com/rs/zerolog"

// Logger registra os eventos no log estruturado. Nil-safe.
type Logger struct {
	log zerolog.Logger
}

func New(log zerolog.Logger) *Logger {
	return &Logger{log: log}
}

func (l *Logger) Log(ev Event) {
	if l == nil {
		return
	}

	e := l.log.Debug().
		Str("store", ev.Store).
		Str("action", ev.Action).
		Time("at", ev.At)
	if ev.EntityID != "" {
		e = e.Str("entity_id", ev.EntityID)
	}
	if ev.Metadata != nil {
		e = e.Interface("metadata", ev.Metadata)
	}
	e.Msg("state changed")
}

func (l *Logger) Dropped(ev Event) {
	if l == nil {
		return
	}
	l.log.Warn().
		Str("store", ev.Store).
		Str("action", ev.Action).
		Msg("event queue full, dropping event")
}
