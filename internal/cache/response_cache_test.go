package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUsesDefaultCapacity(t *testing.T) {
	assert.Equal(t, DefaultCapacity, New(0).Capacity())
	assert.Equal(t, DefaultCapacity, New(-3).Capacity())
	assert.Equal(t, 7, New(7).Capacity())
}

func TestGetIsCaseSensitive(t *testing.T) {
	c := New(10)
	c.Put("What time is it", "noon")

	got, ok := c.Get("What time is it")
	require.True(t, ok)
	assert.Equal(t, "noon", got)

	_, ok = c.Get("what time is it")
	assert.False(t, ok)
}

func TestSizeNeverExceedsCapacity(t *testing.T) {
	c := New(5)
	for i := 0; i < 50; i++ {
		c.Put(fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i))
		assert.LessOrEqual(t, c.Len(), 5)
	}
	assert.Equal(t, 5, c.Len())
}

func TestEvictsFirstInsertedKey(t *testing.T) {
	c := New(3)
	c.Put("first", "1")
	c.Put("second", "2")
	c.Put("third", "3")

	// 读取不影响淘汰顺序
	_, _ = c.Get("first")
	c.Put("fourth", "4")

	_, ok := c.Get("first")
	assert.False(t, ok)
	assert.Equal(t, []string{"second", "third", "fourth"}, c.Keys())
}

func TestOverwriteKeepsInsertionPosition(t *testing.T) {
	c := New(2)
	c.Put("a", "1")
	c.Put("b", "2")
	c.Put("a", "updated")

	got, _ := c.Get("a")
	assert.Equal(t, "updated", got)
	assert.Equal(t, []string{"a", "b"}, c.Keys())

	c.Put("c", "3")
	_, ok := c.Get("a")
	assert.False(t, ok, "updated key is still evicted by original insertion order")
	assert.Equal(t, []string{"2", "3"}, c.Values())
}

func TestOldest(t *testing.T) {
	c := New(2)
	_, ok := c.Oldest()
	assert.False(t, ok)

	c.Put("x", "first answer")
	c.Put("y", "second answer")
	got, ok := c.Oldest()
	require.True(t, ok)
	assert.Equal(t, "first answer", got)
}

func TestMatchReturnsAnswerForFoundKey(t *testing.T) {
	c := New(4)
	c.Put("alpha", "A")
	c.Put("beta", "B")

	var seen []string
	q, a, ok := c.Match(func(keys []string) (string, bool) {
		seen = keys
		return "beta", true
	})
	require.True(t, ok)
	assert.Equal(t, "beta", q)
	assert.Equal(t, "B", a)
	assert.Equal(t, []string{"alpha", "beta"}, seen)

	_, _, ok = c.Match(func([]string) (string, bool) { return "", false })
	assert.False(t, ok)
}

func TestConcurrentPutsRespectCapacity(t *testing.T) {
	c := New(100)
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				c.Put(fmt.Sprintf("w%d-q%d", w, i), "a")
				_ = c.Values()
			}
		}(w)
	}
	wg.Wait()
	assert.Equal(t, 100, c.Len())
	assert.Len(t, c.Keys(), 100)
}
