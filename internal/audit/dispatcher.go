package audit

import (
	"sync"
	"time"
)

// Event descreve uma mudança de estado num container (auth, barbershop, booking).
type Event struct {
	Store    string
	Action   string
	EntityID string
	Metadata any
	At       time.Time
}

type Handler func(Event)

// Dispatcher entrega eventos de forma assíncrona aos assinantes.
// Dispatch nunca bloqueia: com a fila cheia o evento é descartado.
type Dispatcher struct {
	logger *Logger
	queue  chan Event
	done   chan struct{}

	mu       sync.RWMutex
	handlers []Handler
	closed   bool
}

func NewDispatcher(logger *Logger) *Dispatcher {
	return NewDispatcherSize(logger, 100)
}

func NewDispatcherSize(logger *Logger, size int) *Dispatcher {
	if size < 1 {
		size = 1
	}
	d := &Dispatcher{
		logger: logger,
		queue:  make(chan Event, size),
		done:   make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) Subscribe(h Handler) {
	if d == nil || h == nil {
		return
	}
	d.mu.Lock()
	d.handlers = append(d.handlers, h)
	d.mu.Unlock()
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for ev := range d.queue {
		d.logger.Log(ev)

		d.mu.RLock()
		handlers := append([]Handler(nil), d.handlers...)
		d.mu.RUnlock()

		for _, h := range handlers {
			h(ev)
		}
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}
	if ev.At.IsZero() {
		ev.At = time.Now()
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return
	}

	select {
	case d.queue <- ev:
	default:
		// fila cheia → descarta, o container nunca espera por assinantes
		d.logger.Dropped(ev)
	}
}

// Close para de aceitar eventos e espera a fila esvaziar.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		<-d.done
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	<-d.done
}
