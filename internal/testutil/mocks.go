package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/udisondev/arena/internal/model"
)


// ErrSimulated is a sentinel error for testing error handling paths.
var ErrSimulated = errors.New("simulated error for testing")

// MemProfiles: in-memory profile store для unit тестов.
// Не требует реального PostgreSQL.
type MemProfiles struct {
	mu       sync.RWMutex
	profiles map[string]*model.Profile
}

// NewMemProfiles creates a store holding profiles.
func NewMemProfiles(profiles ...*model.Profile) *MemProfiles {
	m := &MemProfiles{profiles: make(map[string]*model.Profile, len(profiles))}
	for _, p := range profiles {
		m.profiles[p.Name] = p
	}
	return m
}

// Load returns the stored profile (not a copy).
func (m *MemProfiles) Load(_ context.Context, name string) (*model.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.profiles[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, model.ErrProfileNotFound)
	}
	return p, nil
}

// Save stores p.
func (m *MemProfiles) Save(_ context.Context, p *model.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[p.Name] = p
	return nil
}

// MemReports: in-memory battle report sink.
type MemReports struct {
	mu      sync.Mutex
	reports []*model.BattleReport

	// Err, when set, is returned by every Create.
	Err error
}

// Create records r or fails with m.Err.
func (m *MemReports) Create(_ context.Context, r *model.BattleReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.reports = append(m.reports, r)
	return nil
}

// Reports returns the stored reports in insertion order.
func (m *MemReports) Reports() []*model.BattleReport {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*model.BattleReport(nil), m.reports...)
}
