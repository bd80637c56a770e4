package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

type mockStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newMockStore() *mockStore {
	return &mockStore{data: make(map[string]string)}
}

func (m *mockStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = fmt.Sprint(value)
	return nil
}

func (m *mockStore) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.data[key]
	if !ok {
		return "", redislib.Nil
	}
	return val, nil
}

func (m *mockStore) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func (m *mockStore) AccessSessionKey(accessID string) string {
	return fmt.Sprintf("sess:%s", accessID)
}

func TestManagerRegisterAndRevoke(t *testing.T) {
	store := newMockStore()
	manager := &Manager{
		store: store,
		keyer: store,
		ttl:   time.Hour,
	}

	ctx := context.Background()
	accessID := "access-123"
	if err := manager.Register(ctx, accessID); err != nil {
		t.Fatalf("register: %v", err)
	}

	active, err := manager.HasSession(ctx, accessID)
	if err != nil {
		t.Fatalf("has session: %v", err)
	}
	if !active {
		t.Fatal("expected active session after register")
	}

	if err := manager.Revoke(ctx, accessID); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if _, exists := store.data[store.AccessSessionKey(accessID)]; exists {
		t.Fatal("session key left behind after revoke")
	}

	active, err = manager.HasSession(ctx, accessID)
	if err != nil {
		t.Fatalf("has session after revoke: %v", err)
	}
	if active {
		t.Fatal("expected session to be gone after revoke")
	}
}

func TestManagerHasSessionUnknownID(t *testing.T) {
	store := newMockStore()
	manager := &Manager{store: store, keyer: store, ttl: time.Hour}

	active, err := manager.HasSession(context.Background(), "never-registered")
	if err != nil {
		t.Fatalf("has session: %v", err)
	}
	if active {
		t.Fatal("expected no session for unknown access id")
	}
}

func TestManagerRejectsEmptyAccessID(t *testing.T) {
	store := newMockStore()
	manager := &Manager{store: store, keyer: store, ttl: time.Hour}
	ctx := context.Background()

	if err := manager.Register(ctx, "  "); err == nil {
		t.Fatal("expected error for empty access id")
	}
	if err := manager.Revoke(ctx, ""); err == nil {
		t.Fatal("expected error for empty access id")
	}
	if _, err := manager.HasSession(ctx, ""); err == nil {
		t.Fatal("expected error for empty access id")
	}
}

func TestNewAccessIDUnique(t *testing.T) {
	if NewAccessID() == NewAccessID() {
		t.Fatal("expected distinct access ids")
	}
}
