package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const window = 8 * time.Second

func admit(t *testing.T, s *MemoryStore, key string, now time.Time) bool {
	t.Helper()
	ok, err := s.Admit(context.Background(), key, now)
	require.NoError(t, err)
	return ok
}

func TestMemoryStoreFirstSubmissionAdmitted(t *testing.T) {
	s := NewMemoryStore(window)

	assert.True(t, admit(t, s, "1.2.3.4", time.Now()))
}

func TestMemoryStoreWindowEnforced(t *testing.T) {
	s := NewMemoryStore(window)
	t0 := time.Now()

	assert.True(t, admit(t, s, "1.2.3.4", t0))
	assert.False(t, admit(t, s, "1.2.3.4", t0.Add(window-time.Millisecond)))
	assert.True(t, admit(t, s, "1.2.3.4", t0.Add(window)))
}

// A rejected attempt must not slide the window: admission is measured
// from the last ACCEPTED submission.
func TestMemoryStoreRejectionDoesNotSlideWindow(t *testing.T) {
	s := NewMemoryStore(window)
	t0 := time.Now()

	assert.True(t, admit(t, s, "1.2.3.4", t0))

	// Rejected attempt mid-window.
	assert.False(t, admit(t, s, "1.2.3.4", t0.Add(5*time.Second)))

	// 1ms after the rejected attempt: still inside the window measured
	// from t0, so still rejected.
	assert.False(t, admit(t, s, "1.2.3.4", t0.Add(5*time.Second+time.Millisecond)))

	// One full window after the last accepted submission.
	assert.True(t, admit(t, s, "1.2.3.4", t0.Add(window)))
}

func TestMemoryStoreKeysAreIndependent(t *testing.T) {
	s := NewMemoryStore(window)
	t0 := time.Now()

	assert.True(t, admit(t, s, "1.2.3.4", t0))
	assert.True(t, admit(t, s, "5.6.7.8", t0))
	assert.False(t, admit(t, s, "1.2.3.4", t0.Add(time.Second)))
}

func TestMemoryStoreCleanupEvictsIdleEntries(t *testing.T) {
	s := NewMemoryStore(window, WithIdleTTL(time.Minute))

	// Entry last seen an hour ago is well past the idle TTL.
	assert.True(t, admit(t, s, "1.2.3.4", time.Now().Add(-time.Hour)))
	require.Equal(t, 1, s.Len())

	s.Cleanup()

	assert.Equal(t, 0, s.Len())
}

func TestMemoryStoreCleanupKeepsActiveEntries(t *testing.T) {
	s := NewMemoryStore(window, WithIdleTTL(time.Minute))

	assert.True(t, admit(t, s, "1.2.3.4", time.Now()))

	s.Cleanup()

	assert.Equal(t, 1, s.Len())
}
