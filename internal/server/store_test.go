package server

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/manuscript-editor/internal/wizard"
)

func TestSessionStore_ExpireIdle(t *testing.T) {
	store := newSessionStore(time.Hour, time.Hour, false)
	defer store.Stop()

	for i := 0; i < 3; i++ {
		store.Create(wizard.New(echoBackend().gateway()))
	}
	require.Equal(t, 3, store.Len())

	assert.Equal(t, 0, store.expireIdle(time.Now().Add(-time.Minute)))
	assert.Equal(t, 3, store.Len())

	assert.Equal(t, 3, store.expireIdle(time.Now().Add(time.Minute)))
	assert.Equal(t, 0, store.Len())
}

func TestSessionStore_SkipsSessionInUse(t *testing.T) {
	store := newSessionStore(time.Hour, time.Hour, false)
	defer store.Stop()

	busy := store.Create(wizard.New(echoBackend().gateway()))
	store.Create(wizard.New(echoBackend().gateway()))

	busy.mu.Lock()
	assert.Equal(t, 1, store.expireIdle(time.Now().Add(time.Minute)))
	busy.mu.Unlock()

	_, err := store.Get(busy.id.String())
	assert.NoError(t, err)
}

func TestSessionStore_CleanupGoroutineExpires(t *testing.T) {
	store := newSessionStore(time.Millisecond, 5*time.Millisecond, false)
	store.Create(wizard.New(echoBackend().gateway()))

	assert.Eventually(t, func() bool { return store.Len() == 0 }, time.Second, 5*time.Millisecond)
	store.Stop()
	store.Stop()
}

func TestServer_AccessKeepsSessionAlive(t *testing.T) {
	s := newTestServer(t, echoBackend())
	id := createSession(t, s, nil).ID
	entry, err := s.sessions.Get(id)
	require.NoError(t, err)

	entry.touch(time.Now().Add(-3 * time.Hour))
	w := do(t, s, http.MethodGet, "/sessions/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, 0, s.sessions.expireIdle(time.Now().Add(-time.Hour)))

	entry.touch(time.Now().Add(-3 * time.Hour))
	assert.Equal(t, 1, s.sessions.expireIdle(time.Now().Add(-time.Hour)))

	w = do(t, s, http.MethodGet, "/sessions/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
