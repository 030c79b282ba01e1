package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTTLMap_Expiry(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewTTLMap(time.Minute)
	m.now = func() time.Time { return now }

	m.Set("q", []float64{1, 2})
	v, ok := m.Get("q")
	assert.True(t, ok)
	assert.Equal(t, []float64{1, 2}, v)

	now = now.Add(2 * time.Minute)
	_, ok = m.Get("q")
	assert.False(t, ok)
	assert.Equal(t, 0, m.Len())
}

func TestTTLMap_DeleteAndClear(t *testing.T) {
	m := NewTTLMap(time.Minute)
	m.Set("a", 1)
	m.Set("b", 2)

	m.Delete("a")
	_, ok := m.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 1, m.Len())

	m.Clear()
	assert.Equal(t, 0, m.Len())
}
