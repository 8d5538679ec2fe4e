package booking

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/findcut/internal/api"
	"github.com/BruksfildServices01/findcut/internal/audit"
	domain "github.com/BruksfildServices01/findcut/internal/domain/booking"
	"github.com/BruksfildServices01/findcut/internal/httperr"
	"github.com/BruksfildServices01/findcut/internal/models"
	"github.com/BruksfildServices01/findcut/internal/observability/metrics"
	"github.com/BruksfildServices01/findcut/internal/timezone"
)

// DefaultDismissAfter é o tempo até o painel de sucesso fechar sozinho.
const DefaultDismissAfter = 900 * time.Millisecond

// ======================================================
// DEPENDÊNCIAS
// ======================================================

// Booker é o container de agendamentos visto pelo fluxo.
type Booker interface {
	AddBooking(ctx context.Context, payload api.CreateBookingPayload) (*models.Booking, error)
	LastError() string
	ClearError()
}

// Target é o par (barbearia, serviço) para o qual o fluxo foi aberto.
type Target struct {
	BarbershopID   string
	BarbershopName string
	Service        models.Service
}

func NewTarget(shop models.Barbershop, svc models.Service) Target {
	return Target{
		BarbershopID:   shop.ID,
		BarbershopName: shop.Name,
		Service:        svc,
	}
}

// View é a foto imutável do fluxo para renderização.
type View struct {
	State          State
	Target         Target
	Barbers        []models.Barber
	BarberID       string
	ScheduledAt    string
	MinScheduledAt string
	Availability   domain.Availability
	Checking       bool
	Error          string
	Booking        *models.Booking
	CanSubmit      bool
}

type Option func(*Workflow)

func WithClock(now func() time.Time) Option {
	return func(w *Workflow) {
		if now != nil {
			w.now = now
		}
	}
}

func WithLocation(loc *time.Location) Option {
	return func(w *Workflow) {
		if loc != nil {
			w.loc = loc
		}
	}
}

// WithDismissAfter ajusta o fechamento automático. 0 mantém o painel de
// confirmação aberto até Close.
func WithDismissAfter(d time.Duration) Option {
	return func(w *Workflow) {
		if d >= 0 {
			w.dismissAfter = d
		}
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(w *Workflow) {
		w.log = log
	}
}

func WithMetrics(m *metrics.WorkflowMetrics) Option {
	return func(w *Workflow) {
		w.metrics = m
	}
}

func WithEvents(d *audit.Dispatcher) Option {
	return func(w *Workflow) {
		w.events = d
	}
}

// ======================================================
// WORKFLOW
// ======================================================

// Workflow conduz a criação de um agendamento: carrega barbeiros, consulta
// disponibilidade e envia o pedido.
//
// Cada consulta de disponibilidade guarda a geração vigente ao sair e só
// aplica o resultado se a geração não mudou. Carga de barbeiros e envio usam
// a época da abertura do mesmo jeito. Resposta de entrada antiga nunca
// sobrescreve estado novo.
type Workflow struct {
	session      api.TokenSource
	barbers      domain.BarberDirectory
	availability domain.AvailabilityChecker
	bookings     Booker

	now          func() time.Time
	loc          *time.Location
	dismissAfter time.Duration
	log          zerolog.Logger
	metrics      *metrics.WorkflowMetrics
	events       *audit.Dispatcher

	mu         sync.Mutex
	state      State
	target     Target
	barberList []models.Barber
	barberID   string
	input      string
	avail      domain.Availability
	checking   bool
	localErr   error
	created    *models.Booking
	epoch      uint64
	generation uint64
	dismiss    *time.Timer
}

func NewWorkflow(
	session api.TokenSource,
	barbers domain.BarberDirectory,
	availability domain.AvailabilityChecker,
	bookings Booker,
	opts ...Option,
) *Workflow {
	w := &Workflow{
		session:      session,
		barbers:      barbers,
		availability: availability,
		bookings:     bookings,
		now:          time.Now,
		loc:          timezone.Location(""),
		dismissAfter: DefaultDismissAfter,
		log:          zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}

	w.resetLocked()
	return w
}

// Open abre o fluxo para target. Sem sessão, chama requireAuth e devolve
// auth_required sem sair de Closed. Falha ao listar barbeiros vira lista vazia.
func (w *Workflow) Open(ctx context.Context, target Target, requireAuth func()) error {
	if w.session == nil || w.session.CurrentToken() == "" {
		if requireAuth != nil {
			requireAuth()
		}
		return httperr.ErrBusiness(httperr.CodeAuthRequired)
	}

	w.mu.Lock()
	w.stopDismissLocked()
	w.resetLocked()
	w.epoch++
	w.generation++
	epoch := w.epoch
	w.target = target
	w.state = StateLoadingBarbers
	w.mu.Unlock()

	w.bookings.ClearError()

	list, err := w.barbers.ListServiceBarbers(ctx, target.Service.ID, target.BarbershopID)
	if err != nil {
		w.log.Debug().Err(err).
			Str("service_id", target.Service.ID).
			Str("barbershop_id", target.BarbershopID).
			Msg("barber list unavailable")
		list = []models.Barber{}
	}

	w.mu.Lock()
	if epoch != w.epoch {
		w.mu.Unlock()
		return nil
	}
	w.barberList = append([]models.Barber{}, list...)
	w.barberID = ""
	if len(list) > 0 {
		w.barberID = list[0].ID
	}
	w.state = StateReady
	w.mu.Unlock()

	w.emit("opened", target.Service.ID)
	return w.refreshAvailability(ctx)
}

// Close fecha o fluxo e descarta o estado transitório. Requisições em voo
// não são canceladas, só ignoradas ao voltar.
func (w *Workflow) Close() {
	w.mu.Lock()
	if w.state == StateClosed {
		w.mu.Unlock()
		return
	}
	w.closeLocked()
	w.mu.Unlock()

	w.emit("closed", "")
}

func (w *Workflow) SelectBarber(ctx context.Context, barberID string) error {
	w.mu.Lock()
	if err := w.editableLocked(); err != nil {
		w.mu.Unlock()
		return err
	}
	if barberID != "" && !w.hasBarberLocked(barberID) {
		w.mu.Unlock()
		return httperr.ErrBusiness(httperr.CodeNoBarberSelected)
	}
	w.barberID = barberID
	w.mu.Unlock()

	return w.refreshAvailability(ctx)
}

// SetScheduledAt recebe o valor do campo de data e hora ("2006-01-02T15:04").
func (w *Workflow) SetScheduledAt(ctx context.Context, value string) error {
	w.mu.Lock()
	if err := w.editableLocked(); err != nil {
		w.mu.Unlock()
		return err
	}
	w.input = strings.TrimSpace(value)
	w.mu.Unlock()

	return w.refreshAvailability(ctx)
}

// Submit valida a entrada e envia o agendamento pelo container. Em caso de
// falha o fluxo volta a Ready preservando a entrada.
func (w *Workflow) Submit(ctx context.Context) (*models.Booking, error) {
	w.mu.Lock()
	if err := w.editableLocked(); err != nil {
		w.mu.Unlock()
		return nil, err
	}
	w.localErr = nil

	at, err := w.validateLocked()
	if err != nil {
		w.localErr = err
		w.mu.Unlock()
		w.metrics.ObserveSubmission("invalid")
		return nil, err
	}

	epoch := w.epoch
	payload := api.CreateBookingPayload{
		ServiceID:    w.target.Service.ID,
		BarbershopID: w.target.BarbershopID,
		BarberID:     w.barberID,
		Date:         at,
	}
	w.state = StateSubmitting
	w.mu.Unlock()

	w.bookings.ClearError()
	created, err := w.bookings.AddBooking(ctx, payload)

	w.mu.Lock()
	defer w.mu.Unlock()

	if err != nil {
		w.metrics.ObserveSubmission("failed")
		if epoch == w.epoch && w.state == StateSubmitting {
			w.state = StateReady
		}
		return nil, err
	}

	w.metrics.ObserveSubmission("created")
	if epoch != w.epoch {
		return created, nil
	}

	w.created = created
	w.state = StateSucceeded
	if w.dismissAfter > 0 {
		w.dismiss = time.AfterFunc(w.dismissAfter, func() { w.autoDismiss(epoch) })
	}
	w.emit("submitted", created.ID)
	return created, nil
}

func (w *Workflow) View() View {
	w.mu.Lock()
	defer w.mu.Unlock()

	v := View{
		State:          w.state,
		Target:         w.target,
		Barbers:        append([]models.Barber{}, w.barberList...),
		BarberID:       w.barberID,
		ScheduledAt:    w.input,
		MinScheduledAt: w.defaultInput(),
		Availability:   w.avail,
		Checking:       w.checking,
	}
	if w.created != nil {
		b := *w.created
		v.Booking = &b
	}

	if w.localErr != nil {
		v.Error = httperr.MessageOf(w.localErr, "")
	} else if w.state != StateClosed {
		v.Error = w.bookings.LastError()
	}

	v.CanSubmit = (w.state == StateReady || w.state == StateCheckingAvailability) &&
		w.barberID != "" &&
		w.avail != domain.AvailabilityUnavailable
	return v
}

// ======================================================
// INTERNOS
// ======================================================

// refreshAvailability consulta o par (barbeiro, horário) atual. Entrada
// incompleta ou inválida deixa a disponibilidade desconhecida, sem consulta.
func (w *Workflow) refreshAvailability(ctx context.Context) error {
	w.mu.Lock()
	w.generation++
	gen := w.generation
	w.avail = domain.AvailabilityUnknown

	barberID := w.barberID
	at, parseErr := timezone.ParseLocalInput(w.input, w.loc)
	if barberID == "" || w.input == "" || parseErr != nil {
		w.checking = false
		if w.state == StateCheckingAvailability {
			w.state = StateReady
		}
		w.mu.Unlock()
		return nil
	}

	w.checking = true
	if w.state == StateReady {
		w.state = StateCheckingAvailability
	}
	w.mu.Unlock()

	available, err := w.availability.CheckAvailability(ctx, barberID, at)

	w.mu.Lock()
	defer w.mu.Unlock()

	if gen != w.generation {
		w.metrics.ObserveAvailability("stale")
		w.log.Debug().
			Str("barber_id", barberID).
			Time("at", at).
			Msg("discarding stale availability result")
		return nil
	}

	w.checking = false
	if w.state == StateCheckingAvailability {
		w.state = StateReady
	}

	if err != nil {
		w.metrics.ObserveAvailability("error")
		w.log.Debug().Err(err).Str("barber_id", barberID).Msg("availability check failed")
		return nil
	}

	w.avail = domain.AvailabilityOf(available)
	w.metrics.ObserveAvailability(w.avail.String())
	return nil
}

func (w *Workflow) validateLocked() (time.Time, error) {
	if w.input == "" {
		return time.Time{}, httperr.ErrBusiness(httperr.CodeMissingDateTime)
	}
	if w.barberID == "" {
		return time.Time{}, httperr.ErrBusiness(httperr.CodeNoBarberSelected)
	}

	at, err := timezone.ParseLocalInput(w.input, w.loc)
	if err != nil {
		return time.Time{}, httperr.ErrBusiness(httperr.CodeInvalidDateTime)
	}
	if !at.After(w.now()) {
		return time.Time{}, httperr.ErrBusiness(httperr.CodePastDateTime)
	}
	if w.avail == domain.AvailabilityUnavailable {
		return time.Time{}, httperr.ErrBusiness(httperr.CodeSlotUnavailable)
	}
	return at, nil
}

func (w *Workflow) editableLocked() error {
	switch w.state {
	case StateClosed:
		return httperr.ErrBusiness(httperr.CodeWorkflowClosed)
	case StateSubmitting, StateSucceeded:
		return httperr.ErrBusiness(httperr.CodeInvalidState)
	}
	return nil
}

func (w *Workflow) hasBarberLocked(id string) bool {
	for _, b := range w.barberList {
		if b.ID == id {
			return true
		}
	}
	return false
}

func (w *Workflow) autoDismiss(epoch uint64) {
	w.mu.Lock()
	if epoch != w.epoch || w.state != StateSucceeded {
		w.mu.Unlock()
		return
	}
	w.closeLocked()
	w.mu.Unlock()

	w.emit("dismissed", "")
}

func (w *Workflow) closeLocked() {
	w.stopDismissLocked()
	w.epoch++
	w.generation++
	w.resetLocked()
}

// defaultInput formata o horário padrão para o campo local. Na hora repetida do
// fim do horário de verão o texto relido pode cair antes de now; avança de hora
// em hora até que não caia.
func (w *Workflow) defaultInput() string {
	now := w.now()
	at := domain.DefaultScheduledAt(now, w.loc)
	for {
		value := timezone.FormatLocalInput(at, w.loc)
		parsed, err := timezone.ParseLocalInput(value, w.loc)
		if err != nil || parsed.After(now) {
			return value
		}
		at = at.Add(time.Hour)
	}
}

// resetLocked volta ao estado de Closed: horário padrão, sem erro, sem sucesso.
func (w *Workflow) resetLocked() {
	w.state = StateClosed
	w.target = Target{}
	w.barberList = nil
	w.barberID = ""
	w.input = w.defaultInput()
	w.avail = domain.AvailabilityUnknown
	w.checking = false
	w.localErr = nil
	w.created = nil
}

func (w *Workflow) stopDismissLocked() {
	if w.dismiss != nil {
		w.dismiss.Stop()
		w.dismiss = nil
	}
}

func (w *Workflow) emit(action, entityID string) {
	w.events.Dispatch(audit.Event{Store: "booking_workflow", Action: action, EntityID: entityID})
}
