package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/wichananm65/hot-sauce-storefront/internal/kv"
	"github.com/wichananm65/hot-sauce-storefront/internal/metrics"
)

type Gateway struct {
	directory    Directory
	sessions     kv.Store
	registration bool
	logger       *slog.Logger
	metrics      *metrics.Metrics
}

type GatewayOption func(*Gateway)

// WithRegistration enables or disables sign-up. It is enabled by default.
func WithRegistration(enabled bool) GatewayOption {
	return func(g *Gateway) { g.registration = enabled }
}

func WithLogger(l *slog.Logger) GatewayOption {
	return func(g *Gateway) { g.logger = l }
}

func WithMetrics(m *metrics.Metrics) GatewayOption {
	return func(g *Gateway) { g.metrics = m }
}

func NewGateway(directory Directory, sessions kv.Store, opts ...GatewayOption) *Gateway {
	g := &Gateway{directory: directory, sessions: sessions, registration: true, logger: slog.Default()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Gateway) Login(ctx context.Context, email, password string) Result {
	if strings.TrimSpace(email) == "" || password == "" {
		return fail(invalidInput, MsgMissingFields)
	}

	u, err := g.directory.Verify(ctx, email, password)
	g.metrics.AuthAttempt("login", err == nil)
	switch {
	case err == nil:
	case errors.Is(err, ErrUserNotFound):
		return fail(unauthorized, MsgUserNotFound)
	case errors.Is(err, ErrInvalidPassword):
		return fail(unauthorized, MsgInvalidPassword)
	default:
		g.logger.ErrorContext(ctx, "login failed", "email", email, "error", err)
		return fail(upstream, MsgLoginError)
	}

	if err := g.saveSession(ctx, u); err != nil {
		g.logger.ErrorContext(ctx, "persist session failed", "email", email, "error", err)
		return fail(upstream, MsgLoginError)
	}
	g.logger.InfoContext(ctx, "user logged in", "email", email)
	return ok(&u)
}

func (g *Gateway) Register(ctx context.Context, email, password, firstName, lastName string) Result {
	if !g.registration {
		return fail(unavailable, MsgRegistrationDisabled)
	}
	if strings.TrimSpace(email) == "" || password == "" || strings.TrimSpace(firstName) == "" || strings.TrimSpace(lastName) == "" {
		return fail(invalidInput, MsgMissingFields)
	}

	u, err := g.directory.Create(ctx, email, password, firstName, lastName)
	g.metrics.AuthAttempt("register", err == nil)
	switch {
	case err == nil:
	case errors.Is(err, ErrUserExists):
		return fail(conflict, MsgUserExists)
	case errors.Is(err, ErrCreateFailed):
		return fail(upstream, MsgCreateFailed)
	default:
		g.logger.ErrorContext(ctx, "registration failed", "email", email, "error", err)
		return fail(upstream, MsgRegistrationError)
	}

	if err := g.saveSession(ctx, u); err != nil {
		g.logger.ErrorContext(ctx, "persist session failed", "email", email, "error", err)
		return fail(upstream, MsgRegistrationError)
	}
	return ok(&u)
}

func (g *Gateway) Logout(ctx context.Context) Result {
	if err := g.sessions.Delete(ctx, SessionKey); err != nil && !errors.Is(err, kv.ErrNotFound) {
		g.logger.ErrorContext(ctx, "logout failed", "error", err)
		return fail(upstream, MsgLogoutError)
	}
	return ok(nil)
}

// IsAuthenticated reports whether a session is stored. Storage errors count
// as signed out.
func (g *Gateway) IsAuthenticated(ctx context.Context) bool {
	_, found := g.CurrentUser(ctx)
	return found
}

// CurrentUser returns the stored session's user data.
func (g *Gateway) CurrentUser(ctx context.Context) (UserData, bool) {
	raw, err := g.sessions.Get(ctx, SessionKey)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			g.logger.WarnContext(ctx, "read session failed", "error", err)
		}
		return UserData{}, false
	}
	var u UserData
	if err := json.Unmarshal(raw, &u); err != nil || u.Email == "" {
		g.logger.WarnContext(ctx, "discarding unreadable session", "error", err)
		return UserData{}, false
	}
	return u, true
}

// UserProfile fetches fresh profile data for email from the directory.
func (g *Gateway) UserProfile(ctx context.Context, email string) Result {
	u, err := g.directory.Lookup(ctx, email)
	switch {
	case err == nil:
		return ok(&u)
	case errors.Is(err, ErrUserNotFound):
		return fail(unauthorized, MsgUserNotFound)
	default:
		g.logger.ErrorContext(ctx, "profile lookup failed", "email", email, "error", err)
		return fail(upstream, MsgProfileUnavailable)
	}
}

func (g *Gateway) saveSession(ctx context.Context, u UserData) error {
	b, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return g.sessions.Set(ctx, SessionKey, b)
}
