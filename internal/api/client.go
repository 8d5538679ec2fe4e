package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/BruksfildServices01/findcut/internal/httperr"
	"github.com/BruksfildServices01/findcut/internal/observability/metrics"
)

const (
	DefaultBaseURL = "http://localhost:3001/api"

	maxBodySize = 4 << 20
)

// TokenSource fornece o token da sessão atual. "" significa sem sessão.
type TokenSource interface {
	CurrentToken() string
}

// TokenFunc adapta uma função comum para TokenSource.
type TokenFunc func() string

func (f TokenFunc) CurrentToken() string { return f() }

type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	limiter *rate.Limiter
	metrics *metrics.APIMetrics
	log     zerolog.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http = &http.Client{Timeout: d}
		}
	}
}

func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) {
		c.tokens = ts
	}
}

// WithRateLimit limita as requisições por segundo do lado do cliente.
// rps <= 0 desliga o limite.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

func WithMetrics(m *metrics.APIMetrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

func New(baseURL string, opts ...Option) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetTokenSource troca a origem do token depois de construído o cliente
// (o AuthStore depende do cliente e vice-versa).
func (c *Client) SetTokenSource(ts TokenSource) {
	c.tokens = ts
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// do executa a chamada. route é o padrão da rota (sem ids) usado em métricas.
// Respostas fora de 2xx viram *httperr.APIError.
func (c *Client) do(ctx context.Context, method, route, path string, query url.Values, body, out any) (http.Header, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("api: %s %s: rate limit: %w", method, route, err)
		}
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("api: encode %s %s: %w", method, route, err)
		}
		reader = bytes.NewReader(b)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("api: build %s %s: %w", method, route, err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.CurrentToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.ObserveRequest(method, route, 0, time.Since(start))
		c.log.Debug().Err(err).
			Str("method", method).
			Str("route", route).
			Str("request_id", requestID).
			Msg("api request failed")
		return nil, fmt.Errorf("api: %s %s: %w", method, route, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	elapsed := time.Since(start)
	c.metrics.ObserveRequest(method, route, resp.StatusCode, elapsed)
	c.log.Debug().
		Str("method", method).
		Str("route", route).
		Int("status_code", resp.StatusCode).
		Str("request_id", requestID).
		Dur("latency", elapsed).
		Msg("api request")
	if err != nil {
		return resp.Header, fmt.Errorf("api: read %s %s: %w", method, route, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.Header, httperr.FromResponse(resp.StatusCode, data)
	}

	if out != nil && len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return resp.Header, fmt.Errorf("api: decode %s %s: %w", method, route, err)
		}
	}
	return resp.Header, nil
}
