// Package middleware attaches a boomerang session to each HTTP request.
package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/zoobzio/boomerang"
)

type contextKey struct{}

// Resolver finds the session a request belongs to.
type Resolver interface {
	Resolve(w http.ResponseWriter, r *http.Request) (boomerang.Session, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(w http.ResponseWriter, r *http.Request) (boomerang.Session, error)

// Resolve calls f(w, r).
func (f ResolverFunc) Resolve(w http.ResponseWriter, r *http.Request) (boomerang.Session, error) {
	return f(w, r)
}

// Sessions resolves the session for every request and stores it in the
// request context. A resolver failure ends the request with 500.
func Sessions(resolver Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := resolver.Resolve(w, r)
			if err != nil {
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
		})
	}
}

// WithSession returns a copy of ctx carrying sess.
func WithSession(ctx context.Context, sess boomerang.Session) context.Context {
	return context.WithValue(ctx, contextKey{}, sess)
}

// SessionFrom returns the session stored in ctx.
func SessionFrom(ctx context.Context) (boomerang.Session, bool) {
	sess, ok := ctx.Value(contextKey{}).(boomerang.Session)
	return sess, ok
}

// DefaultCookieName names the cookie ByID keeps the session id in.
const DefaultCookieName = "boomerang_session"

type idResolver struct {
	sessions boomerang.Sessions
	name     string
	path     string
	secure   bool
}

// Option configures ByID.
type Option func(*idResolver)

// WithCookieName sets the name of the session id cookie.
func WithCookieName(name string) Option {
	return func(r *idResolver) {
		r.name = name
	}
}

// WithCookiePath sets the path of the session id cookie.
func WithCookiePath(path string) Option {
	return func(r *idResolver) {
		r.path = path
	}
}

// WithSecureCookie marks the session id cookie Secure.
func WithSecureCookie(secure bool) Option {
	return func(r *idResolver) {
		r.secure = secure
	}
}

// ByID returns a Resolver that keys sessions by a random id kept in a
// cookie. Requests without a valid id are issued a new one.
func ByID(sessions boomerang.Sessions, opts ...Option) Resolver {
	r := &idResolver{
		sessions: sessions,
		name:     DefaultCookieName,
		path:     "/",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (res *idResolver) Resolve(w http.ResponseWriter, r *http.Request) (boomerang.Session, error) {
	if c, err := r.Cookie(res.name); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			return res.sessions.Session(id.String()), nil
		}
	}

	id, err := uuid.NewRandom()
	if err != nil {
		return nil, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     res.name,
		Value:    id.String(),
		Path:     res.path,
		Secure:   res.secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return res.sessions.Session(id.String()), nil
}
