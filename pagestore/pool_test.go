package pagestore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolCopiesBothWays(t *testing.T) {
	pool, err := NewPool(1 << 20)
	require.NoError(t, err)
	defer pool.Close()

	page := testPage(0x7C)
	pool.Put("t.db", 1, page)
	page[0] = 0x00 // caller keeps mutating its own buffer
	pool.Wait()

	cached, ok := pool.Get("t.db", 1)
	if !ok {
		t.Skip("entry not admitted")
	}
	assert.Equal(t, testPage(0x7C), cached)

	cached[1] = 0x00
	again, ok := pool.Get("t.db", 1)
	require.True(t, ok)
	assert.Equal(t, testPage(0x7C), again)
}

func TestPoolEvict(t *testing.T) {
	pool, err := NewPool(1 << 20)
	require.NoError(t, err)
	defer pool.Close()

	pool.Put("t.db", 3, testPage(0x3D))
	pool.Wait()
	pool.Evict("t.db", 3)

	_, ok := pool.Get("t.db", 3)
	assert.False(t, ok)
}

func TestPoolKeysAreScopedByPath(t *testing.T) {
	pool, err := NewPool(1 << 20)
	require.NoError(t, err)
	defer pool.Close()

	pool.Put("one.db", 1, testPage(0x01))
	pool.Put("two.db", 1, testPage(0x02))
	pool.Wait()

	if cached, ok := pool.Get("one.db", 1); ok {
		assert.Equal(t, testPage(0x01), cached)
	}
	if cached, ok := pool.Get("two.db", 1); ok {
		assert.Equal(t, testPage(0x02), cached)
	}
}
