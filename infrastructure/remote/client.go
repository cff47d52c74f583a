/*
Package remote is the client of the commerce backend.

Every call waits on a rate limiter, carries an X-Request-ID and, once signed in,
a bearer token. Response bodies are classified into one of a few known shapes
(see shapes.go) and validated into domain types before they leave the package.
Only idempotent reads are retried, and only on network failures.
*/
package remote

import (
	"context"
	"errors"
	"sync"

	"storefront/config"
	"storefront/domain/shared"
	"storefront/infrastructure/cache"
	"storefront/pkg/retry"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// SessionSlot persists the signed-in user between runs.
type SessionSlot interface {
	SaveSession(st cache.SessionState) error
	ClearSession() error
}

// Client talks to the commerce API.
type Client struct {
	http    *resty.Client
	slot    SessionSlot
	limiter *rate.Limiter
	retry   retry.Config
	log     *zap.Logger

	mu    sync.RWMutex
	token string
}

// Option configures a Client.
type Option func(*Client)

func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

func WithRetry(cfg retry.Config) Option {
	return func(c *Client) { c.retry = cfg }
}

// New builds a client for cfg.BaseURL. slot may be nil.
func New(cfg config.RemoteConfig, slot SessionSlot, opts ...Option) *Client {
	c := &Client{
		http:    resty.New(),
		slot:    slot,
		limiter: rate.NewLimiter(rate.Inf, 0),
		retry:   retry.DefaultConfig,
		log:     zap.NewNop(),
	}
	if cfg.RateLimit.Enabled && cfg.RateLimit.Rate > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit.Rate), max(cfg.RateLimit.Burst, 1))
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.Named("remote")

	c.http.
		SetBaseURL(cfg.BaseURL).
		SetHeader("Accept", "application/json").
		SetLogger(c.log.Sugar()).
		OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
			c.log.Debug("remote call",
				zap.String("method", resp.Request.Method),
				zap.String("url", resp.Request.URL),
				zap.Int("status", resp.StatusCode()),
				zap.Duration("latency", resp.Time()))
			return nil
		})
	if cfg.Timeout > 0 {
		c.http.SetTimeout(cfg.Timeout)
	}
	return c
}

// Token returns the bearer token, empty when signed out.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// SetToken restores a token from a persisted session.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) Authenticated() bool {
	return c.Token() != ""
}

// call describes one request.
type call struct {
	op         string
	method     string
	path       string
	body       any
	query      map[string]string
	auth       bool
	idempotent bool
}

// send executes cl and returns the classified body. Transport failures become
// NetworkErrors; non-2xx answers become *StatusError.
func (c *Client) send(ctx context.Context, cl call) (payload, error) {
	token := c.Token()
	if cl.auth && token == "" {
		return payload{}, shared.NewAuthRequiredError(cl.op)
	}

	var p payload
	exec := func(ctx context.Context) error {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
		req := c.http.R().
			SetContext(ctx).
			SetHeader("X-Request-ID", uuid.NewString())
		if token != "" {
			req.SetAuthToken(token)
		}
		if cl.body != nil {
			req.SetBody(cl.body)
		}
		if len(cl.query) > 0 {
			req.SetQueryParams(cl.query)
		}
		resp, err := req.Execute(cl.method, cl.path)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return shared.NewNetworkError(cl.op, err)
		}
		p = classify(resp.Body())
		if !resp.IsSuccess() || p.failed() {
			return newStatusError(cl.op, resp.StatusCode(), p)
		}
		return nil
	}

	var err error
	if cl.idempotent {
		err = retry.ExecuteWithRetry(ctx, c.retry, exec)
	} else {
		err = exec(ctx)
	}
	if err != nil {
		c.log.Debug("remote call failed", zap.String("op", cl.op), zap.Error(err))
		return p, err
	}
	return p, nil
}

func (c *Client) logDropped(op string, dropped []error) {
	for _, err := range dropped {
		c.log.Warn("dropping malformed record", zap.String("op", op), zap.Error(err))
	}
}

// unreachable reports whether err means the backend could not be used at all.
func unreachable(err error) bool {
	return err != nil && errors.Is(err, shared.ErrNetwork)
}
