package auth

import (
	"context"
	"sync"

	"github.com/siahsang/blogclient/internal/api"
)

// Keys of the two persisted session entries.
const (
	TokenKey = "token"
	UserKey  = "user"
)

// Provider is durable key-value storage for the session entries.
// Implementations must be safe for concurrent use.
type Provider interface {
	// Get reports found=false, without error, for a missing key.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	// Delete ignores keys that do not exist.
	Delete(ctx context.Context, keys ...string) error
}

// TokenSource reads the credential from p on every call.
func TokenSource(p Provider) api.TokenSource {
	return api.TokenFunc(func(ctx context.Context) (string, error) {
		token, _, err := p.Get(ctx, TokenKey)
		return token, err
	})
}

type MemoryProvider struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{data: make(map[string]string)}
}

func (m *MemoryProvider) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, found := m.data[key]
	return value, found, nil
}

func (m *MemoryProvider) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MemoryProvider) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func (m *MemoryProvider) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
