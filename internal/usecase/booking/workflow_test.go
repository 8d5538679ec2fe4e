package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/findcut/internal/api"
	domain "github.com/BruksfildServices01/findcut/internal/domain/booking"
	"github.com/BruksfildServices01/findcut/internal/httperr"
	"github.com/BruksfildServices01/findcut/internal/models"
	"github.com/BruksfildServices01/findcut/internal/observability/metrics"
	"github.com/BruksfildServices01/findcut/internal/timezone"
)

var brt = time.FixedZone("BRT", -3*3600)

func fixedNow() time.Time {
	return time.Date(2030, 5, 10, 14, 37, 0, 0, brt)
}

type fakeDirectory struct {
	mu      sync.Mutex
	list    []models.Barber
	err     error
	calls   int
	gate    chan struct{}
	entered chan struct{}
}

func (f *fakeDirectory) ListServiceBarbers(context.Context, string, string) ([]models.Barber, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.gate != nil {
		<-f.gate
	}
	return f.list, f.err
}

type checkCall struct {
	barberID string
	at       time.Time
}

type fakeChecker struct {
	mu        sync.Mutex
	calls     []checkCall
	available bool
	err       error

	started chan string
	release map[string]chan bool

	startedAt chan time.Time
	releaseAt map[string]chan bool
}

func slotKey(at time.Time) string {
	return at.UTC().Format(time.RFC3339)
}

func (f *fakeChecker) CheckAvailability(_ context.Context, barberID string, at time.Time) (bool, error) {
	f.mu.Lock()
	f.calls = append(f.calls, checkCall{barberID: barberID, at: at})
	release := f.release[barberID]
	if release == nil {
		release = f.releaseAt[slotKey(at)]
	}
	f.mu.Unlock()

	if f.started != nil {
		f.started <- barberID
	}
	if f.startedAt != nil {
		f.startedAt <- at
	}
	if release != nil {
		return <-release, nil
	}
	return f.available, f.err
}

func (f *fakeChecker) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeBooker struct {
	mu       sync.Mutex
	payloads []api.CreateBookingPayload
	created  *models.Booking
	err      error
	lastErr  string
}

func (f *fakeBooker) AddBooking(_ context.Context, p api.CreateBookingPayload) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads = append(f.payloads, p)
	if f.err != nil {
		f.lastErr = httperr.MessageOf(f.err, "Não foi possível completar a operação.")
		return nil, f.err
	}
	return f.created, nil
}

func (f *fakeBooker) LastError() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

func (f *fakeBooker) ClearError() {
	f.mu.Lock()
	f.lastErr = ""
	f.mu.Unlock()
}

func centralTarget() Target {
	dur := 30
	return NewTarget(
		models.Barbershop{ID: "shop1", Name: "Barbearia Central"},
		models.Service{ID: "svc1", Name: "Corte Masculino", Duration: &dur},
	)
}

func loggedIn() api.TokenSource {
	return api.TokenFunc(func() string { return "token" })
}

func newTestWorkflow(dir *fakeDirectory, chk *fakeChecker, bk *fakeBooker, opts ...Option) *Workflow {
	opts = append([]Option{WithClock(fixedNow), WithLocation(brt)}, opts...)
	return NewWorkflow(loggedIn(), dir, chk, bk, opts...)
}

func TestOpenRequiresSession(t *testing.T) {
	dir := &fakeDirectory{}
	w := NewWorkflow(api.TokenFunc(func() string { return "" }), dir, &fakeChecker{}, &fakeBooker{})

	called := false
	err := w.Open(context.Background(), centralTarget(), func() { called = true })

	assert.True(t, httperr.IsBusiness(err, httperr.CodeAuthRequired))
	assert.True(t, called)
	assert.Equal(t, StateClosed, w.View().State)
	assert.Zero(t, dir.calls)
}

func TestDefaultScheduledAtIsInTheFuture(t *testing.T) {
	w := newTestWorkflow(&fakeDirectory{}, &fakeChecker{}, &fakeBooker{})

	v := w.View()
	assert.Equal(t, "2030-05-10T15:00", v.ScheduledAt)
	assert.Equal(t, "2030-05-10T15:00", v.MinScheduledAt)

	require.NoError(t, w.Open(context.Background(), centralTarget(), nil))
	assert.Equal(t, "2030-05-10T15:00", w.View().ScheduledAt)
}

func TestDefaultScheduledAtDuringFallBack(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata indisponível")
	}
	// 01:30 EDT: a 01h se repete logo depois.
	now := time.Date(2025, 11, 2, 5, 30, 0, 0, time.UTC)
	w := NewWorkflow(loggedIn(), &fakeDirectory{}, &fakeChecker{}, &fakeBooker{},
		WithClock(func() time.Time { return now }), WithLocation(ny))

	v := w.View()
	assert.Equal(t, "2025-11-02T02:00", v.ScheduledAt)
	assert.Equal(t, v.ScheduledAt, v.MinScheduledAt)

	at, err := timezone.ParseLocalInput(v.ScheduledAt, ny)
	require.NoError(t, err)
	assert.True(t, at.After(now))
}

func TestHappyPath(t *testing.T) {
	dir := &fakeDirectory{list: []models.Barber{{ID: "b1", Name: "João"}}}
	chk := &fakeChecker{available: true}
	bk := &fakeBooker{created: &models.Booking{ID: "bk1", Status: models.BookingPending}}
	reg := prometheus.NewRegistry()
	w := newTestWorkflow(dir, chk, bk, WithDismissAfter(20*time.Millisecond), WithMetrics(metrics.NewWorkflowMetrics(reg)))
	ctx := context.Background()

	require.NoError(t, w.Open(ctx, centralTarget(), nil))

	v := w.View()
	assert.Equal(t, StateReady, v.State)
	assert.Equal(t, "b1", v.BarberID)
	assert.Equal(t, domain.AvailabilityAvailable, v.Availability)
	assert.True(t, v.CanSubmit)

	require.NoError(t, w.SetScheduledAt(ctx, "2030-05-11T10:00"))
	require.Equal(t, 2, chk.count())
	assert.Equal(t, "b1", chk.calls[1].barberID)
	assert.True(t, time.Date(2030, 5, 11, 13, 0, 0, 0, time.UTC).Equal(chk.calls[1].at))

	created, err := w.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, "bk1", created.ID)

	require.Len(t, bk.payloads, 1)
	p := bk.payloads[0]
	assert.Equal(t, "svc1", p.ServiceID)
	assert.Equal(t, "shop1", p.BarbershopID)
	assert.Equal(t, "b1", p.BarberID)
	assert.True(t, time.Date(2030, 5, 11, 13, 0, 0, 0, time.UTC).Equal(p.Date))

	v = w.View()
	assert.Equal(t, StateSucceeded, v.State)
	assert.Equal(t, "bk1", v.Booking.ID)
	assert.False(t, v.CanSubmit)

	assert.Eventually(t, func() bool {
		return w.View().State == StateClosed
	}, time.Second, 5*time.Millisecond)
	assert.Nil(t, w.View().Booking)
}

func TestUnavailableBlocksSubmit(t *testing.T) {
	dir := &fakeDirectory{list: []models.Barber{{ID: "b1", Name: "João"}}}
	chk := &fakeChecker{available: false}
	bk := &fakeBooker{}
	w := newTestWorkflow(dir, chk, bk)

	require.NoError(t, w.Open(context.Background(), centralTarget(), nil))

	v := w.View()
	assert.Equal(t, domain.AvailabilityUnavailable, v.Availability)
	assert.False(t, v.CanSubmit)

	_, err := w.Submit(context.Background())
	assert.True(t, httperr.IsBusiness(err, httperr.CodeSlotUnavailable))
	assert.Empty(t, bk.payloads)
	assert.Equal(t, "Horário indisponível para este barbeiro.", w.View().Error)
}

func TestBarberLoadFailureYieldsEmptyList(t *testing.T) {
	dir := &fakeDirectory{err: errors.New("boom")}
	chk := &fakeChecker{available: true}
	w := newTestWorkflow(dir, chk, &fakeBooker{})

	require.NoError(t, w.Open(context.Background(), centralTarget(), nil))

	v := w.View()
	assert.Equal(t, StateReady, v.State)
	assert.Empty(t, v.Barbers)
	assert.Empty(t, v.BarberID)
	assert.Empty(t, v.Error)
	assert.False(t, v.CanSubmit)
	assert.Zero(t, chk.count())

	_, err := w.Submit(context.Background())
	assert.True(t, httperr.IsBusiness(err, httperr.CodeNoBarberSelected))
}

func TestInputValidation(t *testing.T) {
	dir := &fakeDirectory{list: []models.Barber{{ID: "b1"}}}
	chk := &fakeChecker{available: true}
	w := newTestWorkflow(dir, chk, &fakeBooker{})
	ctx := context.Background()
	require.NoError(t, w.Open(ctx, centralTarget(), nil))
	calls := chk.count()

	require.NoError(t, w.SetScheduledAt(ctx, ""))
	assert.Equal(t, calls, chk.count())
	assert.Equal(t, domain.AvailabilityUnknown, w.View().Availability)
	_, err := w.Submit(ctx)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeMissingDateTime))
	assert.Equal(t, "Informe a data e horário desejados.", w.View().Error)

	require.NoError(t, w.SetScheduledAt(ctx, "amanhã às 10"))
	assert.Equal(t, calls, chk.count())
	_, err = w.Submit(ctx)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidDateTime))

	require.NoError(t, w.SetScheduledAt(ctx, "2030-05-10T09:00"))
	_, err = w.Submit(ctx)
	assert.True(t, httperr.IsBusiness(err, httperr.CodePastDateTime))

	err = w.SelectBarber(ctx, "ghost")
	assert.True(t, httperr.IsBusiness(err, httperr.CodeNoBarberSelected))
}

func TestAvailabilityErrorIsSilent(t *testing.T) {
	dir := &fakeDirectory{list: []models.Barber{{ID: "b1"}}}
	chk := &fakeChecker{err: errors.New("timeout")}
	w := newTestWorkflow(dir, chk, &fakeBooker{})

	require.NoError(t, w.Open(context.Background(), centralTarget(), nil))

	v := w.View()
	assert.Equal(t, domain.AvailabilityUnknown, v.Availability)
	assert.Empty(t, v.Error)
	assert.True(t, v.CanSubmit)
}

func TestStaleAvailabilityIsDiscarded(t *testing.T) {
	dir := &fakeDirectory{list: []models.Barber{{ID: "b1"}, {ID: "b2"}}}
	chk := &fakeChecker{
		started: make(chan string, 4),
		release: map[string]chan bool{
			"b1": make(chan bool, 1),
			"b2": make(chan bool, 1),
		},
	}
	w := newTestWorkflow(dir, chk, &fakeBooker{})
	ctx := context.Background()

	openDone := make(chan error, 1)
	go func() { openDone <- w.Open(ctx, centralTarget(), nil) }()
	require.Equal(t, "b1", <-chk.started)

	selectDone := make(chan error, 1)
	go func() { selectDone <- w.SelectBarber(ctx, "b2") }()
	require.Equal(t, "b2", <-chk.started)

	chk.release["b2"] <- true
	require.NoError(t, <-selectDone)
	assert.Equal(t, domain.AvailabilityAvailable, w.View().Availability)

	chk.release["b1"] <- false
	require.NoError(t, <-openDone)

	v := w.View()
	assert.Equal(t, "b2", v.BarberID)
	assert.Equal(t, domain.AvailabilityAvailable, v.Availability)
	assert.False(t, v.Checking)
	assert.True(t, v.CanSubmit)
}

func TestStaleAvailabilityForOldTimeIsDiscarded(t *testing.T) {
	dir := &fakeDirectory{list: []models.Barber{{ID: "b1"}}}
	first := time.Date(2030, 5, 11, 13, 0, 0, 0, time.UTC)
	second := time.Date(2030, 5, 12, 13, 0, 0, 0, time.UTC)
	chk := &fakeChecker{
		available: true,
		startedAt: make(chan time.Time, 4),
		releaseAt: map[string]chan bool{
			slotKey(first):  make(chan bool, 1),
			slotKey(second): make(chan bool, 1),
		},
	}
	w := newTestWorkflow(dir, chk, &fakeBooker{})
	ctx := context.Background()

	require.NoError(t, w.Open(ctx, centralTarget(), nil))
	<-chk.startedAt

	firstDone := make(chan error, 1)
	go func() { firstDone <- w.SetScheduledAt(ctx, "2030-05-11T10:00") }()
	require.True(t, first.Equal(<-chk.startedAt))

	secondDone := make(chan error, 1)
	go func() { secondDone <- w.SetScheduledAt(ctx, "2030-05-12T10:00") }()
	require.True(t, second.Equal(<-chk.startedAt))

	chk.releaseAt[slotKey(second)] <- true
	require.NoError(t, <-secondDone)
	assert.Equal(t, domain.AvailabilityAvailable, w.View().Availability)

	chk.releaseAt[slotKey(first)] <- false
	require.NoError(t, <-firstDone)

	v := w.View()
	assert.Equal(t, "2030-05-12T10:00", v.ScheduledAt)
	assert.Equal(t, domain.AvailabilityAvailable, v.Availability)
	assert.False(t, v.Checking)
	assert.True(t, v.CanSubmit)
}

func TestCloseDiscardsInFlightBarberLoad(t *testing.T) {
	dir := &fakeDirectory{
		list:    []models.Barber{{ID: "b1"}},
		gate:    make(chan struct{}),
		entered: make(chan struct{}, 1),
	}
	chk := &fakeChecker{available: true}
	w := newTestWorkflow(dir, chk, &fakeBooker{})

	done := make(chan error, 1)
	go func() { done <- w.Open(context.Background(), centralTarget(), nil) }()
	<-dir.entered
	assert.Equal(t, StateLoadingBarbers, w.View().State)

	w.Close()
	close(dir.gate)
	require.NoError(t, <-done)

	v := w.View()
	assert.Equal(t, StateClosed, v.State)
	assert.Empty(t, v.Barbers)
	assert.Zero(t, chk.count())
}

func TestSubmitFailureReturnsToReady(t *testing.T) {
	dir := &fakeDirectory{list: []models.Barber{{ID: "b1"}}}
	chk := &fakeChecker{available: true}
	bk := &fakeBooker{err: httperr.FromResponse(409, []byte(`{"message":"Barbeiro ocupado"}`))}
	w := newTestWorkflow(dir, chk, bk)
	ctx := context.Background()

	require.NoError(t, w.Open(ctx, centralTarget(), nil))
	require.NoError(t, w.SetScheduledAt(ctx, "2030-05-12T16:00"))

	_, err := w.Submit(ctx)
	require.Error(t, err)

	v := w.View()
	assert.Equal(t, StateReady, v.State)
	assert.Equal(t, "Barbeiro ocupado", v.Error)
	assert.Equal(t, "2030-05-12T16:00", v.ScheduledAt)
	assert.Equal(t, "b1", v.BarberID)
}

func TestDismissDisabledKeepsConfirmation(t *testing.T) {
	dir := &fakeDirectory{list: []models.Barber{{ID: "b1"}}}
	bk := &fakeBooker{created: &models.Booking{ID: "bk1"}}
	w := newTestWorkflow(dir, &fakeChecker{available: true}, bk, WithDismissAfter(0))
	ctx := context.Background()

	require.NoError(t, w.Open(ctx, centralTarget(), nil))
	_, err := w.Submit(ctx)
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, StateSucceeded, w.View().State)

	_, err = w.Submit(ctx)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidState))

	w.Close()
	v := w.View()
	assert.Equal(t, StateClosed, v.State)
	assert.Nil(t, v.Booking)
	assert.Equal(t, "2030-05-10T15:00", v.ScheduledAt)
}

func TestClosedWorkflowRejectsEdits(t *testing.T) {
	w := newTestWorkflow(&fakeDirectory{}, &fakeChecker{}, &fakeBooker{})
	ctx := context.Background()

	assert.True(t, httperr.IsBusiness(w.SelectBarber(ctx, "b1"), httperr.CodeWorkflowClosed))
	assert.True(t, httperr.IsBusiness(w.SetScheduledAt(ctx, "2030-05-11T10:00"), httperr.CodeWorkflowClosed))
	_, err := w.Submit(ctx)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeWorkflowClosed))
}
