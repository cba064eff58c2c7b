package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewNilMap(t *testing.T) {
	cfg := New(nil)
	assert.NotNil(t, cfg.Raw())
	assert.False(t, cfg.Has("anything"))
}

func TestString(t *testing.T) {
	cfg := New(map[string]any{
		"name":  "assets",
		"count": 3,
	})

	assert.Equal(t, "assets", cfg.String("name", "fallback"))
	assert.Equal(t, "fallback", cfg.String("missing", "fallback"))
	assert.Equal(t, "fallback", cfg.String("count", "fallback")) // wrong type
}

func TestBool(t *testing.T) {
	cfg := New(map[string]any{
		"metrics": true,
		"name":    "assets",
	})

	assert.True(t, cfg.Bool("metrics", false))
	assert.False(t, cfg.Bool("missing", false))
	assert.True(t, cfg.Bool("missing", true))
	assert.False(t, cfg.Bool("name", false)) // wrong type
}

func TestInt(t *testing.T) {
	cfg := New(map[string]any{
		"shards":  8,
		"big":     int64(16),
		"whole":   float64(4),
		"partial": 2.5,
		"name":    "assets",
	})

	assert.Equal(t, 8, cfg.Int("shards", 1))
	assert.Equal(t, 16, cfg.Int("big", 1))
	assert.Equal(t, 4, cfg.Int("whole", 1))
	assert.Equal(t, 1, cfg.Int("partial", 1)) // fractional part rejected
	assert.Equal(t, 1, cfg.Int("missing", 1))
	assert.Equal(t, 1, cfg.Int("name", 1)) // wrong type
}

func TestDuration(t *testing.T) {
	cfg := New(map[string]any{
		"timeout": "5s",
		"delay":   3,
		"wait":    int64(2),
		"grace":   1.5,
		"exact":   2 * time.Minute,
		"bad":     "not-a-duration",
	})

	def := 10 * time.Second
	assert.Equal(t, 5*time.Second, cfg.Duration("timeout", def))
	assert.Equal(t, 3*time.Second, cfg.Duration("delay", def))
	assert.Equal(t, 2*time.Second, cfg.Duration("wait", def))
	assert.Equal(t, 1500*time.Millisecond, cfg.Duration("grace", def))
	assert.Equal(t, 2*time.Minute, cfg.Duration("exact", def))
	assert.Equal(t, def, cfg.Duration("bad", def))
	assert.Equal(t, def, cfg.Duration("missing", def))
}

func TestHasAndRaw(t *testing.T) {
	data := map[string]any{"shards": 8}
	cfg := New(data)

	assert.True(t, cfg.Has("shards"))
	assert.False(t, cfg.Has("metrics"))
	assert.Equal(t, data, cfg.Raw())
}
