package cookie_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zoobzio/boomerang"
	"github.com/zoobzio/boomerang/json"
	"github.com/zoobzio/boomerang/store/cookie"
)

func newStore(t *testing.T, opts ...cookie.Option) *cookie.Store {
	t.Helper()
	key, err := boomerang.DeriveKey([]byte("test-secret"), "cookie")
	require.NoError(t, err)
	enc, err := boomerang.AES(key)
	require.NoError(t, err)
	return cookie.New(enc, opts...)
}

// roundTrip opens a session on a fresh request carrying the cookies set by
// a previous response.
func roundTrip(t *testing.T, store *cookie.Store, prev *httptest.ResponseRecorder) (boomerang.Session, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if prev != nil {
		for _, c := range prev.Result().Cookies() {
			if c.MaxAge >= 0 {
				req.AddCookie(c)
			}
		}
	}
	rec := httptest.NewRecorder()
	sess, err := store.Open(rec, req)
	require.NoError(t, err)
	return sess, rec
}

func TestCookieStore_SetAndGet(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	sess, first := roundTrip(t, store, nil)
	require.NoError(t, sess.Set(ctx, "state", []byte("payload")))

	next, _ := roundTrip(t, store, first)
	data, err := next.Get(ctx, "state")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), data)
}

func TestCookieStore_NoCookie(t *testing.T) {
	store := newStore(t)

	sess, rec := roundTrip(t, store, nil)
	_, err := sess.Get(context.Background(), "state")
	assert.ErrorIs(t, err, boomerang.ErrNotFound)
	assert.Empty(t, rec.Header().Values("Set-Cookie"))
}

func TestCookieStore_SingleSetCookieHeader(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	sess, rec := roundTrip(t, store, nil)
	http.SetCookie(rec, &http.Cookie{Name: "other", Value: "kept"})
	require.NoError(t, sess.Set(ctx, "a", []byte("1")))
	require.NoError(t, sess.Set(ctx, "b", []byte("2")))

	lines := rec.Header().Values("Set-Cookie")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "other="))
	assert.True(t, strings.HasPrefix(lines[1], "boomerang="))
	assert.Contains(t, lines[1], "HttpOnly")
}

func TestCookieStore_DeleteLastKeyExpiresCookie(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	sess, first := roundTrip(t, store, nil)
	require.NoError(t, sess.Set(ctx, "state", []byte("x")))

	next, rec := roundTrip(t, store, first)
	require.NoError(t, next.Delete(ctx, "state"))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "boomerang", cookies[0].Name)
	assert.Equal(t, -1, cookies[0].MaxAge)

	_, err := next.Get(ctx, "state")
	assert.ErrorIs(t, err, boomerang.ErrNotFound)
}

func TestCookieStore_DeleteMissingWritesNothing(t *testing.T) {
	store := newStore(t)

	sess, rec := roundTrip(t, store, nil)
	require.NoError(t, sess.Delete(context.Background(), "state"))
	assert.Empty(t, rec.Header().Values("Set-Cookie"))
}

func TestCookieStore_TamperedCookieIsEmpty(t *testing.T) {
	store := newStore(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "boomerang", Value: "not-a-sealed-value"})

	sess, err := store.Open(httptest.NewRecorder(), req)
	require.NoError(t, err)

	_, err = sess.Get(context.Background(), "state")
	assert.ErrorIs(t, err, boomerang.ErrNotFound)
}

func TestCookieStore_ForeignKeyIsEmpty(t *testing.T) {
	ctx := context.Background()
	writer := newStore(t)

	sess, first := roundTrip(t, writer, nil)
	require.NoError(t, sess.Set(ctx, "state", []byte("x")))

	enc, err := boomerang.AES([]byte("another-32-byte-key-for-aes-256!"))
	require.NoError(t, err)
	reader := cookie.New(enc)

	next, _ := roundTrip(t, reader, first)
	_, err = next.Get(ctx, "state")
	assert.ErrorIs(t, err, boomerang.ErrNotFound)
}

func TestCookieStore_TooLarge(t *testing.T) {
	store := newStore(t)

	sess, rec := roundTrip(t, store, nil)
	err := sess.Set(context.Background(), "state", make([]byte, cookie.MaxCookieSize))
	assert.ErrorIs(t, err, cookie.ErrCookieTooLarge)
	assert.Empty(t, rec.Header().Values("Set-Cookie"))

	_, err = sess.Get(context.Background(), "state")
	assert.ErrorIs(t, err, boomerang.ErrNotFound)
}

func TestCookieStore_Options(t *testing.T) {
	store := newStore(t,
		cookie.WithName("prg"),
		cookie.WithPath("/objects"),
		cookie.WithSecure(true),
		cookie.WithMaxAge(time.Minute),
		cookie.WithCodec(json.New()),
	)

	sess, rec := roundTrip(t, store, nil)
	require.NoError(t, sess.Set(context.Background(), "state", []byte("x")))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, "prg", c.Name)
	assert.Equal(t, "/objects", c.Path)
	assert.True(t, c.Secure)
	assert.Equal(t, 60, c.MaxAge)
}

type widget struct {
	boomerang.Validations
	Name string `prg:"name"`
}

func TestCookieStore_RelayRoundTrip(t *testing.T) {
	store := newStore(t)
	relay := boomerang.New(json.New())
	ctx := context.Background()

	sess, first := roundTrip(t, store, nil)
	obj := &widget{}
	obj.Errors().Add("name", "not present")
	params := boomerang.NewRaw().Set("name", "").Permit("name")
	require.NoError(t, relay.Redirect(ctx, sess, "@widget", obj, params))

	next, rec := roundTrip(t, store, first)
	var restored widget
	require.NoError(t, relay.Load(ctx, next, boomerang.Targets{
		"@widget": boomerang.Into(&restored, "name"),
	}))
	assert.Equal(t, []string{"not present"}, restored.Errors().On("name"))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge, "load should expire the cookie")
}
