package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/chemsearch/backend/internal/domain"
)

// MockCurrencyConverter is a mock implementation of domain.CurrencyConverter
type MockCurrencyConverter struct {
	mu    sync.Mutex
	rates map[string]float64
	err   error
	calls int
}

func NewMockCurrencyConverter(rates map[string]float64) *MockCurrencyConverter {
	return &MockCurrencyConverter{rates: rates}
}

func (m *MockCurrencyConverter) ToUSD(ctx context.Context, amount float64, code string) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return 0, m.err
	}
	code = strings.ToUpper(code)
	if code == "USD" {
		return amount, nil
	}
	rate, ok := m.rates[code]
	if !ok {
		return 0, fmt.Errorf("%w: %w %q", domain.ErrRateUnavailable, domain.ErrUnknownCurrency, code)
	}
	return amount * rate, nil
}

func (m *MockCurrencyConverter) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// recordingDiagnostics collects every message passed to it
type recordingDiagnostics struct {
	mu     sync.Mutex
	warns  []string
	errors []string
}

func (r *recordingDiagnostics) Warn(msg string, keyvals ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warns = append(r.warns, msg)
}

func (r *recordingDiagnostics) Error(msg string, keyvals ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, msg)
}

func (r *recordingDiagnostics) Warns() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.warns...)
}

func (r *recordingDiagnostics) Errors() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.errors...)
}

// MockSnapshotStore is a mock implementation of domain.SnapshotStore
type MockSnapshotStore struct {
	mu        sync.Mutex
	snapshots map[string]domain.Snapshot
	saveError error
}

func NewMockSnapshotStore() *MockSnapshotStore {
	return &MockSnapshotStore{snapshots: make(map[string]domain.Snapshot)}
}

func (m *MockSnapshotStore) Save(ctx context.Context, snap *domain.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveError != nil {
		return m.saveError
	}
	m.snapshots[snap.ID] = *snap
	return nil
}

func (m *MockSnapshotStore) Load(ctx context.Context, id string) (*domain.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap, ok := m.snapshots[id]
	if !ok {
		return nil, domain.ErrSnapshotNotFound
	}
	return &snap, nil
}

func (m *MockSnapshotStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.snapshots, id)
	return nil
}

func ptr(f float64) *float64 { return &f }
