package mocks

import (
	"context"
	"sync"

	"github.com/Veerendratanneru7/transport/domain"
)

// MockAuditSink implements domain.AuditSink interface for testing. Appended
// entries are recorded for assertions.
type MockAuditSink struct {
	mu      sync.Mutex
	Entries []*domain.AuditEntry
}

// NewMockAuditSink creates a new MockAuditSink
func NewMockAuditSink() *MockAuditSink {
	return &MockAuditSink{}
}

// Append records an audit entry
func (m *MockAuditSink) Append(ctx context.Context, entry *domain.AuditEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, entry)
}

// Events returns the recorded event names in order
func (m *MockAuditSink) Events() []domain.AuditEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	events := make([]domain.AuditEvent, 0, len(m.Entries))
	for _, e := range m.Entries {
		events = append(events, e.Event)
	}
	return events
}

// Ensure MockAuditSink implements the interface
var _ domain.AuditSink = (*MockAuditSink)(nil)
