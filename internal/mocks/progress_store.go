package mocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/flipdeck/internal/domain"
	"github.com/phrazzld/flipdeck/internal/store"
	"github.com/stretchr/testify/mock"
)

// ProgressStore is a testify mock of store.ProgressStore. Created records are
// also collected for tests that observe asynchronous writes.
type ProgressStore struct {
	mock.Mock

	mu      sync.Mutex
	created []*domain.ProgressRecord
}

var _ store.ProgressStore = (*ProgressStore)(nil)

func (m *ProgressStore) Create(ctx context.Context, record *domain.ProgressRecord) error {
	err := m.Called(ctx, record).Error(0)
	if err == nil {
		m.mu.Lock()
		m.created = append(m.created, record)
		m.mu.Unlock()
	}
	return err
}

// Created returns the records successfully passed to Create so far.
func (m *ProgressStore) Created() []*domain.ProgressRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.ProgressRecord, len(m.created))
	copy(out, m.created)
	return out
}

func (m *ProgressStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	setID *uuid.UUID,
	limit int,
) ([]*domain.ProgressRecord, error) {
	args := m.Called(ctx, userID, setID, limit)
	records, _ := args.Get(0).([]*domain.ProgressRecord)
	return records, args.Error(1)
}

func (m *ProgressStore) WithTx(*sql.Tx) store.ProgressStore {
	return m
}
