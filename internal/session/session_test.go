// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/plagia/pkg/types"
)

func TestRemaining(t *testing.T) {
	tests := []struct {
		name        string
		used, limit int
		want        int
	}{
		{"fresh", 0, 4, 4},
		{"partly used", 3, 4, 1},
		{"exhausted", 4, 4, 0},
		{"over", 6, 4, 0},
		{"unlimited", 100, 0, math.MaxInt},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Session{Used: tt.used, Limit: tt.limit}
			assert.Equal(t, tt.want, s.Remaining())
		})
	}
}

func TestConsume(t *testing.T) {
	s := &Session{Limit: 2}
	s.Consume()
	assert.Equal(t, 1, s.Used)
	assert.Equal(t, 1, s.Consumed())
	assert.Equal(t, 1, s.Remaining())

	var nilSession *Session
	nilSession.Consume()
	assert.Equal(t, math.MaxInt, nilSession.Remaining())
	assert.Equal(t, 0, nilSession.Consumed())
}

func TestUnlimited(t *testing.T) {
	s := Unlimited()
	for i := 0; i < 10; i++ {
		s.Consume()
	}
	assert.Equal(t, math.MaxInt, s.Remaining())
}

func TestValidID(t *testing.T) {
	assert.True(t, ValidID(NewID()))
	assert.False(t, ValidID(""))
	assert.False(t, ValidID("has space"))
	assert.False(t, ValidID(string(make([]byte, 129))))
}

func TestMemoryTracker(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(2, time.Hour)

	s, err := m.Load(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, 2, s.Remaining())

	s.Consume()
	require.NoError(t, m.Commit(ctx, s))
	assert.Equal(t, 0, s.Consumed(), "commit resets the pending count")

	s, err = m.Load(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, 1, s.Used)

	s.Consume()
	require.NoError(t, m.Commit(ctx, s))
	s, _ = m.Load(ctx, "abc")
	assert.Equal(t, 0, s.Remaining())

	other, _ := m.Load(ctx, "xyz")
	assert.Equal(t, 2, other.Remaining(), "sessions are independent")
}

func TestMemoryTrackerCommitWithoutConsumption(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(1, time.Hour)
	s, _ := m.Load(ctx, "abc")
	require.NoError(t, m.Commit(ctx, s))
	assert.Empty(t, m.usage)
}

func TestMemoryTrackerExpires(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemory(1, time.Hour)
	m.now = func() time.Time { return now }

	s, _ := m.Load(ctx, "abc")
	s.Consume()
	require.NoError(t, m.Commit(ctx, s))
	s, _ = m.Load(ctx, "abc")
	assert.Equal(t, 0, s.Remaining())

	now = now.Add(time.Hour)
	s, _ = m.Load(ctx, "abc")
	assert.Equal(t, 1, s.Remaining())
}

func TestNew(t *testing.T) {
	tr, err := New(types.DefaultConfig().Quota, "", "")
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, tr)

	_, err = New(types.QuotaConfig{Backend: types.CacheRedis}, "", "")
	assert.Error(t, err)

	_, err = New(types.QuotaConfig{Backend: "etcd"}, "", "")
	assert.Error(t, err)
}

func TestRedisKey(t *testing.T) {
	r := NewRedis(nil, "plagia:", 4, 0)
	assert.Equal(t, "plagia:quota:abc", r.key("abc"))
	assert.Equal(t, 24*time.Hour, r.ttl)
}
