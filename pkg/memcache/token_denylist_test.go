package mem

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRevokedTokensLifecycle(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s := NewRevokedTokens()
	s.now = func() time.Time { return now }

	s.Revoke("jti-1", now.Add(time.Hour))
	s.Revoke("jti-old", now.Add(-time.Second))
	s.Revoke("", now.Add(time.Hour))

	assert.True(t, s.IsRevoked("jti-1"))
	assert.False(t, s.IsRevoked("jti-old"), "already expired tokens are not stored")
	assert.False(t, s.IsRevoked("unknown"))

	now = now.Add(2 * time.Hour)
	assert.False(t, s.IsRevoked("jti-1"))
}

func TestRevokedTokensSweep(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s := NewRevokedTokens()
	s.now = func() time.Time { return now }

	s.Revoke("a", now.Add(time.Minute))
	s.Revoke("b", now.Add(time.Hour))

	now = now.Add(10 * time.Minute)
	assert.Equal(t, 1, s.Sweep())
	assert.True(t, s.IsRevoked("b"))
}

func TestRevokedTokensConcurrentAccess(t *testing.T) {
	s := NewRevokedTokens()
	exp := time.Now().Add(time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Revoke("shared", exp)
		}()
		go func() {
			defer wg.Done()
			s.IsRevoked("shared")
		}()
	}
	wg.Wait()

	assert.True(t, s.IsRevoked("shared"))
}
