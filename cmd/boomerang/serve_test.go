package main

import (
	"bytes"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCodec(t *testing.T) {
	for name, contentType := range map[string]string{
		"json":    "application/json",
		"yaml":    "application/yaml",
		"msgpack": "application/msgpack",
		"bson":    "application/bson",
		"cbor":    "application/cbor",
	} {
		c, err := newCodec(name)
		require.NoError(t, err, name)
		assert.Equal(t, contentType, c.ContentType())
	}

	_, err := newCodec("xml")
	assert.Error(t, err)
}

func TestNewResolver(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		r, c, err := newResolver(serveConfig{store: "memory"})
		require.NoError(t, err)
		assert.NotNil(t, r)
		assert.NoError(t, c.Close())
	})

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		r, c, err := newResolver(serveConfig{store: "redis", redisAddr: mr.Addr()})
		require.NoError(t, err)
		assert.NotNil(t, r)
		assert.NoError(t, c.Close())
	})

	t.Run("cookie requires secret", func(t *testing.T) {
		t.Setenv("BOOMERANG_SECRET", "")
		_, _, err := newResolver(serveConfig{store: "cookie"})
		assert.Error(t, err)
	})

	t.Run("cookie", func(t *testing.T) {
		r, _, err := newResolver(serveConfig{store: "cookie", secret: "s3cret"})
		require.NoError(t, err)
		assert.NotNil(t, r)
	})

	t.Run("unknown", func(t *testing.T) {
		_, _, err := newResolver(serveConfig{store: "disk"})
		assert.Error(t, err)
	})
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	defer rootCmd.SetArgs(nil)

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "boomerang version dev\n", out.String())
}
