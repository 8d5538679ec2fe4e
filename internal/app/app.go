package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/findcut/internal/api"
	"github.com/BruksfildServices01/findcut/internal/audit"
	"github.com/BruksfildServices01/findcut/internal/config"
	"github.com/BruksfildServices01/findcut/internal/observability/metrics"
	"github.com/BruksfildServices01/findcut/internal/store"
	"github.com/BruksfildServices01/findcut/internal/timezone"
	"github.com/BruksfildServices01/findcut/internal/tokenstore"
	"github.com/BruksfildServices01/findcut/internal/usecase/booking"
)

// App reúne o cliente da API, os containers e o fluxo de agendamento.
type App struct {
	Config *config.Config
	Log    zerolog.Logger

	Client      *api.Client
	Tokens      tokenstore.Store
	Auth        *store.AuthStore
	Barbershops *store.BarbershopStore
	Bookings    *store.BookingStore
	Booking     *booking.Workflow
	Events      *audit.Dispatcher
	Registry    *prometheus.Registry

	redis *redis.Client
}

type Option func(*options)

type options struct {
	tokens     tokenstore.Store
	httpClient *http.Client
	now        func() time.Time
}

// WithTokenStore ignora TOKEN_STORE e usa o store informado.
func WithTokenStore(ts tokenstore.Store) Option {
	return func(o *options) {
		o.tokens = ts
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) {
		o.httpClient = hc
	}
}

func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func New(cfg *config.Config, log zerolog.Logger, opts ...Option) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	a := &App{
		Config:   cfg,
		Log:      log,
		Registry: prometheus.NewRegistry(),
	}

	tokens, err := a.tokenStore(cfg, o.tokens)
	if err != nil {
		return nil, err
	}
	a.Tokens = tokens

	a.Events = audit.NewDispatcher(audit.New(log))

	clientOpts := []api.Option{
		api.WithTimeout(cfg.HTTPTimeout),
		api.WithMetrics(metrics.NewAPIMetrics(a.Registry)),
		api.WithLogger(log),
	}
	if o.httpClient != nil {
		clientOpts = append(clientOpts, api.WithHTTPClient(o.httpClient))
	}
	if cfg.RateLimit > 0 {
		clientOpts = append(clientOpts, api.WithRateLimit(cfg.RateLimit, cfg.RateBurst))
	}
	a.Client = api.New(cfg.APIURL, clientOpts...)

	storeOpts := []store.Option{
		store.WithEvents(a.Events),
		store.WithLogger(log),
	}
	a.Auth = store.NewAuthStore(a.Client, tokens, storeOpts...)
	a.Client.SetTokenSource(a.Auth)
	a.Barbershops = store.NewBarbershopStore(a.Client, storeOpts...)
	a.Bookings = store.NewBookingStore(a.Client, storeOpts...)

	wfOpts := []booking.Option{
		booking.WithLocation(timezone.Location(cfg.Timezone)),
		booking.WithDismissAfter(cfg.DismissAfter),
		booking.WithLogger(log),
		booking.WithMetrics(metrics.NewWorkflowMetrics(a.Registry)),
		booking.WithEvents(a.Events),
	}
	if o.now != nil {
		wfOpts = append(wfOpts, booking.WithClock(o.now))
	}
	a.Booking = booking.NewWorkflow(a.Auth, a.Client, a.Client, a.Bookings, wfOpts...)

	return a, nil
}

// Start recupera a sessão salva e, se houver token, carrega o perfil.
func (a *App) Start(ctx context.Context) error {
	if err := a.Auth.Restore(ctx); err != nil {
		return err
	}
	if a.Auth.CurrentToken() == "" {
		return nil
	}
	// Token recusado derruba a sessão; API fora do ar mantém o token. Nenhum dos
	// dois é erro de inicialização.
	_ = a.Auth.GetProfile(ctx)
	return nil
}

func (a *App) Close() error {
	a.Booking.Close()
	a.Events.Close()
	if a.redis != nil {
		return a.redis.Close()
	}
	return nil
}

func (a *App) tokenStore(cfg *config.Config, override tokenstore.Store) (tokenstore.Store, error) {
	if override != nil {
		return override, nil
	}

	switch cfg.TokenStore {
	case config.TokenStoreMemory:
		return tokenstore.NewMemoryStore(), nil
	case config.TokenStoreRedis:
		a.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := a.redis.Ping(ctx).Err(); err != nil {
			_ = a.redis.Close()
			a.redis = nil
			return nil, fmt.Errorf("connect redis %s: %w", cfg.RedisAddr, err)
		}
		return tokenstore.NewRedisStore(a.redis, ""), nil
	default:
		return tokenstore.NewFileStore(cfg.TokenFile), nil
	}
}
