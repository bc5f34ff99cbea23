package services_test

import (
	"context"
	"sync"
	"testing"

	"vela-casino/internal/models"
	"vela-casino/internal/services"
	"vela-casino/internal/storage"
)

// scriptedSource replays fixed draws so outcomes can be pinned in tests.
type scriptedSource struct {
	mu     sync.Mutex
	ints   []int
	floats []float64
}

func (s *scriptedSource) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v % n
}

func (s *scriptedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func newTestLedger(t *testing.T) (*services.LedgerStore, storage.Backend) {
	t.Helper()
	backend := storage.NewMemoryBackend()
	ledger := services.NewLedgerStore(backend, "test", nil)
	t.Cleanup(func() { ledger.Close() })
	return ledger, backend
}

func newLoggedInLedger(t *testing.T) *services.LedgerStore {
	t.Helper()
	ledger, _ := newTestLedger(t)
	if _, err := ledger.CreateAccount(context.Background(), "nova"); err != nil {
		t.Fatalf("Failed to create account: %v", err)
	}
	return ledger
}

func mustAccount(t *testing.T, ledger *services.LedgerStore) *models.Account {
	t.Helper()
	account, err := ledger.GetAccount(context.Background())
	if err != nil {
		t.Fatalf("Failed to get account: %v", err)
	}
	return account
}

func mustHistory(t *testing.T, ledger *services.LedgerStore) []models.HistoryEntry {
	t.Helper()
	history, err := ledger.GetHistory(context.Background())
	if err != nil {
		t.Fatalf("Failed to get history: %v", err)
	}
	return history
}
