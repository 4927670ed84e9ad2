package auth

import (
	"errors"
	"sync"

	"domain0/d0ctl/internal/util"

	"github.com/zalando/go-keyring"
)

// Store persists session tokens keyed by API endpoint. Implementations
// treat endpoints that differ only in case or a trailing slash as equal.
type Store interface {
	SetToken(endpoint string, token string) error
	GetToken(endpoint string) (string, error)
	DeleteToken(endpoint string) error
}

// DefaultStore returns the store backed by the OS keychain.
func DefaultStore() Store {
	return NewKeyringStore(ServiceName)
}

// NormalizeEndpoint returns the account name a token for endpoint is
// stored under.
func NormalizeEndpoint(endpoint string) string {
	return util.NormalizeEndpoint(endpoint)
}

// KeyringStore files one keychain item per endpoint under a single service.
type KeyringStore struct {
	service string
}

func NewKeyringStore(service string) *KeyringStore {
	if service == "" {
		service = ServiceName
	}
	return &KeyringStore{service: service}
}

func (k *KeyringStore) SetToken(endpoint string, token string) error {
	return keyring.Set(k.service, NormalizeEndpoint(endpoint), token)
}

func (k *KeyringStore) GetToken(endpoint string) (string, error) {
	token, err := keyring.Get(k.service, NormalizeEndpoint(endpoint))
	if err != nil {
		return "", notFound(err)
	}
	return token, nil
}

func (k *KeyringStore) DeleteToken(endpoint string) error {
	return notFound(keyring.Delete(k.service, NormalizeEndpoint(endpoint)))
}

// notFound maps the keychain's miss to ErrTokenNotFound.
func notFound(err error) error {
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrTokenNotFound
	}
	return err
}

// MockStore is an in-memory Store for tests.
type MockStore struct {
	mu     sync.Mutex
	tokens map[string]string
}

func NewMockStore() *MockStore {
	return &MockStore{tokens: make(map[string]string)}
}

func (m *MockStore) SetToken(endpoint string, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[NormalizeEndpoint(endpoint)] = token
	return nil
}

func (m *MockStore) GetToken(endpoint string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	token, ok := m.tokens[NormalizeEndpoint(endpoint)]
	if !ok {
		return "", ErrTokenNotFound
	}
	return token, nil
}

func (m *MockStore) DeleteToken(endpoint string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := NormalizeEndpoint(endpoint)
	if _, ok := m.tokens[key]; !ok {
		return ErrTokenNotFound
	}
	delete(m.tokens, key)
	return nil
}
