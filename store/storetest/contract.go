// Package storetest verifies session store implementations.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zoobzio/boomerang"
	"github.com/zoobzio/boomerang/json"
)

// RunSessionsContract runs a suite of tests to verify that a Sessions
// implementation adheres to the boomerang.Session contract.
func RunSessionsContract(t *testing.T, sessions boomerang.Sessions) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Set and Get", func(t *testing.T) {
		sess := sessions.Session(sessionID)

		err := sess.Set(ctx, "state", []byte("payload"))
		require.NoError(t, err, "Set should not return error")

		data, err := sess.Get(ctx, "state")
		require.NoError(t, err, "Get should not return error")
		assert.Equal(t, []byte("payload"), data)

		require.NoError(t, sess.Delete(ctx, "state"))
	})

	t.Run("Get Non-Existent", func(t *testing.T) {
		_, err := sessions.Session(sessionID).Get(ctx, "missing")
		assert.ErrorIs(t, err, boomerang.ErrNotFound)
	})

	t.Run("Overwrite", func(t *testing.T) {
		sess := sessions.Session(sessionID)
		defer func() { _ = sess.Delete(ctx, "state") }()

		require.NoError(t, sess.Set(ctx, "state", []byte("first")))
		require.NoError(t, sess.Set(ctx, "state", []byte("second")))

		data, err := sess.Get(ctx, "state")
		require.NoError(t, err)
		assert.Equal(t, []byte("second"), data)
	})

	t.Run("Delete", func(t *testing.T) {
		sess := sessions.Session(sessionID)
		require.NoError(t, sess.Set(ctx, "state", []byte("payload")))

		err := sess.Delete(ctx, "state")
		require.NoError(t, err, "Delete should not return error")

		_, err = sess.Get(ctx, "state")
		assert.ErrorIs(t, err, boomerang.ErrNotFound, "Get after Delete should return ErrNotFound")
	})

	t.Run("Delete Non-Existent", func(t *testing.T) {
		err := sessions.Session(sessionID).Delete(ctx, "missing")
		assert.NoError(t, err)
	})

	t.Run("Isolation", func(t *testing.T) {
		a := sessions.Session(sessionID + "-a")
		b := sessions.Session(sessionID + "-b")
		defer func() { _ = a.Delete(ctx, "state") }()

		require.NoError(t, a.Set(ctx, "state", []byte("a")))

		_, err := b.Get(ctx, "state")
		assert.ErrorIs(t, err, boomerang.ErrNotFound, "sessions must not share keys")
	})

	t.Run("Relay Round Trip", func(t *testing.T) {
		sess := sessions.Session(sessionID + "-relay")
		relay := boomerang.New(json.New())

		obj := &contractObject{}
		obj.Errors().Add("name", "not present")
		params := boomerang.NewRaw()
		params.Set("name", "")
		permitted := params.Permit("name")

		require.NoError(t, relay.Redirect(ctx, sess, "@object", obj, permitted))

		var restored contractObject
		err := relay.Load(ctx, sess, boomerang.Targets{
			"@object": boomerang.Into(&restored, "name"),
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"not present"}, restored.Errors().On("name"))

		_, err = sess.Get(ctx, relay.Key())
		assert.ErrorIs(t, err, boomerang.ErrNotFound, "Load should consume stored state")
	})
}

type contractObject struct {
	boomerang.Validations
	Name string `prg:"name"`
}
