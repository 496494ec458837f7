package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veridoc/internal/verify"
	"veridoc/pkg/platform/sentinel"
)

func TestInMemoryStore_SaveAndFind(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	report := verify.Report{
		ID:            uuid.New(),
		TotalFields:   1,
		MatchedFields: 1,
		Matches: map[string]verify.Comparison{
			"name": {Submitted: "John Smith", Confidence: 1},
		},
	}
	require.NoError(t, s.Save(ctx, report))

	got, err := s.FindByID(ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, report, got)
}

func TestInMemoryStore_FindUnknownID(t *testing.T) {
	s := NewInMemoryStore()
	_, err := s.FindByID(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, sentinel.ErrNotFound))
}

func TestInMemoryStore_ConcurrentSaves(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	ids := make([]uuid.UUID, 50)
	for i := range ids {
		ids[i] = uuid.New()
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			_ = s.Save(ctx, verify.Report{ID: id})
		}(ids[i])
	}
	wg.Wait()

	for _, id := range ids {
		_, err := s.FindByID(ctx, id)
		assert.NoError(t, err)
	}
}
