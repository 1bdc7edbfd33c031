package gql

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// SessionOptions 会话 cookie 的属性
type SessionOptions struct {
	CookieName string
	Domain     string
	Secure     bool
	SameSite   http.SameSite
	MaxAge     time.Duration
}

// ParseSameSite maps lax/strict/none; anything else is lax.
func ParseSameSite(s string) http.SameSite {
	switch strings.ToLower(s) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

type responseWriterKey struct{}

// WithResponseWriter lets mutations set cookies on the HTTP response.
func WithResponseWriter(ctx context.Context, w http.ResponseWriter) context.Context {
	return context.WithValue(ctx, responseWriterKey{}, w)
}

func (r *Resolver) setSessionCookie(ctx context.Context, token string) {
	w, ok := ctx.Value(responseWriterKey{}).(http.ResponseWriter)
	if !ok || w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     r.session.CookieName,
		Value:    token,
		Path:     "/",
		Domain:   r.session.Domain,
		MaxAge:   int(r.session.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   r.session.Secure,
		SameSite: r.session.SameSite,
	})
}
