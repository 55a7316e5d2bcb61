package payments

import (
	"net/http"
	"sync"

	"go.uber.org/zap"
)

// SessionHandler inspects an HTTP response status and reports whether it took
// over handling. The order service client consults it before treating a
// response as an ordinary failure.
type SessionHandler interface {
	HandleResponse(statusCode int) bool
}

// CredentialStore is the narrow view of the app's key-value side channel the
// payment flow needs: the auth token for outgoing requests and the keys to
// wipe on session expiry.
type CredentialStore interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

const (
	credentialKeyToken = "authToken"
	credentialKeyUser  = "userProfile"
)

// ExpiredSessionHandler clears stored credentials and redirects to login when
// the server answers 401.
type ExpiredSessionHandler struct {
	store    CredentialStore
	redirect func()
	logger   *zap.SugaredLogger
}

func NewExpiredSessionHandler(store CredentialStore, redirect func(), logger *zap.SugaredLogger) *ExpiredSessionHandler {
	return &ExpiredSessionHandler{store: store, redirect: redirect, logger: logger}
}

func (h *ExpiredSessionHandler) HandleResponse(statusCode int) bool {
	if statusCode != http.StatusUnauthorized {
		return false
	}
	for _, key := range []string{credentialKeyToken, credentialKeyUser} {
		if err := h.store.Delete(key); err != nil {
			h.logger.Warnw("failed to clear credential", "key", key, "error", err)
		}
	}
	h.logger.Infow("session expired, redirecting to login")
	if h.redirect != nil {
		h.redirect()
	}
	return true
}

// MemoryCredentialStore is an in-memory CredentialStore. The mobile shell
// swaps in its persistent storage; tests and tools use this one.
type MemoryCredentialStore struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemoryCredentialStore() *MemoryCredentialStore {
	return &MemoryCredentialStore{values: make(map[string]string)}
}

func (s *MemoryCredentialStore) Get(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[key], nil
}

func (s *MemoryCredentialStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *MemoryCredentialStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}
