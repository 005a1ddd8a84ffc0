// Package cookie provides a session store that keeps data in an encrypted
// client-side cookie.
//
// Each Open call reads the request cookie once. Every mutation reseals the
// whole session and replaces the Set-Cookie header on the response, so the
// response must not have been written yet.
package cookie

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/zoobzio/boomerang"
	"github.com/zoobzio/boomerang/msgpack"
)

// MaxCookieSize is the largest encoded cookie value browsers reliably keep.
const MaxCookieSize = 4096

// ErrCookieTooLarge is returned when a session no longer fits in a cookie.
var ErrCookieTooLarge = errors.New("session cookie too large")

// Store seals session data with an Encryptor and carries it in a cookie.
type Store struct {
	enc    boomerang.Encryptor
	codec  boomerang.Codec
	name   string
	path   string
	secure bool
	maxAge time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithName sets the cookie name.
func WithName(name string) Option {
	return func(s *Store) {
		s.name = name
	}
}

// WithPath sets the cookie path.
func WithPath(path string) Option {
	return func(s *Store) {
		s.path = path
	}
}

// WithSecure marks the cookie Secure.
func WithSecure(secure bool) Option {
	return func(s *Store) {
		s.secure = secure
	}
}

// WithMaxAge sets how long the browser keeps the cookie.
func WithMaxAge(maxAge time.Duration) Option {
	return func(s *Store) {
		s.maxAge = maxAge
	}
}

// WithCodec sets the codec the session map is encoded with before sealing.
func WithCodec(codec boomerang.Codec) Option {
	return func(s *Store) {
		s.codec = codec
	}
}

// New creates a cookie store sealing data with enc.
func New(enc boomerang.Encryptor, opts ...Option) *Store {
	s := &Store{
		enc:    enc,
		codec:  msgpack.New(),
		name:   "boomerang",
		path:   "/",
		maxAge: 10 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open returns the session carried by r. Writes are sent back on w.
//
// A cookie that fails to decrypt or decode is treated as an empty session
// and replaced on the next write.
func (s *Store) Open(w http.ResponseWriter, r *http.Request) (boomerang.Session, error) {
	sess := &session{store: s, w: w, values: map[string][]byte{}}

	c, err := r.Cookie(s.name)
	if errors.Is(err, http.ErrNoCookie) {
		return sess, nil
	}
	if err != nil {
		return nil, err
	}

	if values, err := s.open(c.Value); err == nil {
		sess.values = values
	}
	return sess, nil
}

// Resolve calls Open, so a Store can be passed to middleware.Sessions.
func (s *Store) Resolve(w http.ResponseWriter, r *http.Request) (boomerang.Session, error) {
	return s.Open(w, r)
}

func (s *Store) open(value string) (map[string][]byte, error) {
	sealed, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil, err
	}
	plain, err := s.enc.Decrypt(sealed)
	if err != nil {
		return nil, err
	}
	var values map[string][]byte
	if err := s.codec.Unmarshal(plain, &values); err != nil {
		return nil, err
	}
	if values == nil {
		values = map[string][]byte{}
	}
	return values, nil
}

func (s *Store) seal(values map[string][]byte) (string, error) {
	plain, err := s.codec.Marshal(values)
	if err != nil {
		return "", err
	}
	sealed, err := s.enc.Encrypt(plain)
	if err != nil {
		return "", err
	}
	value := base64.RawURLEncoding.EncodeToString(sealed)
	if len(value) > MaxCookieSize {
		return "", fmt.Errorf("%w: %d bytes", ErrCookieTooLarge, len(value))
	}
	return value, nil
}

func (s *Store) cookie(value string) *http.Cookie {
	c := &http.Cookie{
		Name:     s.name,
		Value:    value,
		Path:     s.path,
		Secure:   s.secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if value == "" {
		c.MaxAge = -1
	} else if s.maxAge > 0 {
		c.MaxAge = int(s.maxAge / time.Second)
	}
	return c
}

type session struct {
	store  *Store
	w      http.ResponseWriter
	mu     sync.Mutex
	values map[string][]byte
}

func (s *session) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.values[key]
	if !ok {
		return nil, boomerang.ErrNotFound
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (s *session) Set(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make(map[string][]byte, len(s.values)+1)
	for k, v := range s.values {
		next[k] = v
	}
	stored := make([]byte, len(data))
	copy(stored, data)
	next[key] = stored

	if err := s.flush(next); err != nil {
		return err
	}
	s.values = next
	return nil
}

func (s *session) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.values[key]; !ok {
		return nil
	}
	next := make(map[string][]byte, len(s.values))
	for k, v := range s.values {
		if k != key {
			next[k] = v
		}
	}

	if err := s.flush(next); err != nil {
		return err
	}
	s.values = next
	return nil
}

// flush replaces this store's Set-Cookie header with the sealed values.
func (s *session) flush(values map[string][]byte) error {
	value := ""
	if len(values) > 0 {
		sealed, err := s.store.seal(values)
		if err != nil {
			return err
		}
		value = sealed
	}

	header := s.w.Header()
	prefix := s.store.name + "="
	var kept []string
	for _, line := range header.Values("Set-Cookie") {
		if !strings.HasPrefix(line, prefix) {
			kept = append(kept, line)
		}
	}
	header.Del("Set-Cookie")
	for _, line := range kept {
		header.Add("Set-Cookie", line)
	}
	http.SetCookie(s.w, s.store.cookie(value))
	return nil
}
