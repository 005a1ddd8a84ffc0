package memory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zoobzio/boomerang/store/memory"
	"github.com/zoobzio/boomerang/store/storetest"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.New()
	storetest.RunSessionsContract(t, store)
}

func TestMemoryStore_CopiesData(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	sess := store.Session("s1")

	data := []byte("abc")
	require.NoError(t, sess.Set(ctx, "state", data))
	data[0] = 'x'

	got, err := sess.Get(ctx, "state")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got)

	got[0] = 'y'
	again, _ := sess.Get(ctx, "state")
	assert.Equal(t, []byte("abc"), again)
}

func TestMemoryStore_DropsEmptySessions(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	sess := store.Session("s1")

	require.NoError(t, sess.Set(ctx, "state", []byte("x")))
	assert.Equal(t, 1, store.Len())

	require.NoError(t, sess.Delete(ctx, "state"))
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStore_Concurrent(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sess := store.Session("shared")
			_ = sess.Set(ctx, "state", []byte("x"))
			_, _ = sess.Get(ctx, "state")
			_ = sess.Delete(ctx, "state")
		}()
	}
	wg.Wait()
}
