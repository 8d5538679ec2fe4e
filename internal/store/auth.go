package store

import (
	"context"
	"sync"
	"time"

	"github.com/BruksfildServices01/findcut/internal/api"
	"github.com/BruksfildServices01/findcut/internal/httperr"
	"github.com/BruksfildServices01/findcut/internal/models"
	"github.com/BruksfildServices01/findcut/internal/tokenstore"
)

type AuthAPI interface {
	Login(ctx context.Context, payload api.LoginPayload) (*api.AuthResponse, error)
	Register(ctx context.Context, payload api.RegisterPayload) (*api.AuthResponse, error)
	GetProfile(ctx context.Context) (*models.User, error)
}

type AuthState struct {
	User    *models.User
	Token   string
	Loading bool
	Error   string
}

func (s AuthState) Authenticated() bool {
	return s.Token != ""
}

// AuthStore mantém a sessão. É a única peça que grava o token; o cliente
// HTTP o lê por CurrentToken.
type AuthStore struct {
	base

	mu     sync.Mutex
	api    AuthAPI
	tokens tokenstore.Store
	now    func() time.Time
	state  AuthState
}

func NewAuthStore(client AuthAPI, tokens tokenstore.Store, opts ...Option) *AuthStore {
	if tokens == nil {
		tokens = tokenstore.NewMemoryStore()
	}
	return &AuthStore{
		base:   newBase(opts),
		api:    client,
		tokens: tokens,
		now:    time.Now,
	}
}

func (s *AuthStore) CurrentToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Token
}

func (s *AuthStore) Snapshot() AuthState {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.state
	if s.state.User != nil {
		u := *s.state.User
		out.User = &u
	}
	return out
}

// Restore carrega o token salvo. Um JWT vencido é descartado.
func (s *AuthStore) Restore(ctx context.Context) error {
	token, err := s.tokens.Load(ctx)
	if err != nil {
		return err
	}
	if token == "" {
		return nil
	}
	if tokenstore.Expired(token, s.now()) {
		s.log.Info().Msg("stored session expired, discarding token")
		return s.tokens.Clear(ctx)
	}

	s.mu.Lock()
	s.state.Token = token
	s.mu.Unlock()

	s.emit(StoreAuth, "restored", "")
	return nil
}

func (s *AuthStore) Login(ctx context.Context, email, password string) error {
	s.begin()

	resp, err := s.api.Login(ctx, api.LoginPayload{Email: email, Password: password})
	if err != nil {
		return s.fail(ctx, err, FallbackLogin)
	}
	return s.succeed(ctx, resp, "login")
}

// Register cria a conta e em seguida entra com as mesmas credenciais.
func (s *AuthStore) Register(ctx context.Context, payload api.RegisterPayload) error {
	s.begin()

	if _, err := s.api.Register(ctx, payload); err != nil {
		return s.fail(ctx, err, FallbackRegister)
	}

	resp, err := s.api.Login(ctx, api.LoginPayload{Email: payload.Email, Password: payload.Password})
	if err != nil {
		return s.fail(ctx, err, FallbackLogin)
	}
	return s.succeed(ctx, resp, "register")
}

// GetProfile não faz nada sem token (memória ou disco). Só 401/403 derrubam a
// sessão; falha de rede mantém o token salvo.
func (s *AuthStore) GetProfile(ctx context.Context) error {
	s.mu.Lock()
	token := s.state.Token
	s.mu.Unlock()

	if token == "" {
		stored, err := s.tokens.Load(ctx)
		if err != nil {
			return err
		}
		if stored == "" {
			return nil
		}
		s.mu.Lock()
		s.state.Token = stored
		s.mu.Unlock()
	}

	user, err := s.api.GetProfile(ctx)
	if err != nil {
		if !httperr.IsUnauthorized(err) {
			s.log.Warn().Err(err).Msg("profile fetch failed, keeping session")
			s.mu.Lock()
			s.state.Error = httperr.MessageOf(err, FallbackLoad)
			s.mu.Unlock()
			return err
		}
		s.log.Warn().Err(err).Msg("profile rejected, ending session")
		s.teardown(ctx)
		s.emit(StoreAuth, "session_invalidated", "")
		return err
	}

	s.mu.Lock()
	s.state.User = user
	s.mu.Unlock()

	s.emit(StoreAuth, "profile_loaded", user.ID)
	return nil
}

func (s *AuthStore) Logout(ctx context.Context) error {
	err := s.tokens.Clear(ctx)

	s.mu.Lock()
	s.state = AuthState{}
	s.mu.Unlock()

	s.emit(StoreAuth, "logout", "")
	return err
}

func (s *AuthStore) ClearError() {
	s.mu.Lock()
	s.state.Error = ""
	s.mu.Unlock()
}

func (s *AuthStore) begin() {
	s.mu.Lock()
	s.state.Loading = true
	s.state.Error = ""
	s.mu.Unlock()
}

func (s *AuthStore) succeed(ctx context.Context, resp *api.AuthResponse, action string) error {
	if err := s.tokens.Save(ctx, resp.Token); err != nil {
		s.log.Error().Err(err).Msg("failed to persist session token")
	}

	user := resp.User

	s.mu.Lock()
	s.state.User = &user
	s.state.Token = resp.Token
	s.state.Loading = false
	s.mu.Unlock()

	s.emit(StoreAuth, action, user.ID)
	return nil
}

func (s *AuthStore) fail(ctx context.Context, err error, fallback string) error {
	if clearErr := s.tokens.Clear(ctx); clearErr != nil {
		s.log.Error().Err(clearErr).Msg("failed to clear session token")
	}

	s.mu.Lock()
	s.state.Token = ""
	s.state.User = nil
	s.state.Loading = false
	s.state.Error = httperr.MessageOf(err, fallback)
	s.mu.Unlock()

	s.emit(StoreAuth, "auth_failed", "")
	return err
}

func (s *AuthStore) teardown(ctx context.Context) {
	if err := s.tokens.Clear(ctx); err != nil {
		s.log.Error().Err(err).Msg("failed to clear session token")
	}

	s.mu.Lock()
	s.state.Token = ""
	s.state.User = nil
	s.mu.Unlock()
}
