package verify

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "veridoc/pkg/domain-errors"
	"veridoc/pkg/platform/sentinel"
	"veridoc/pkg/requestcontext"
)

type memStore struct {
	reports map[uuid.UUID]Report
}

func newMemStore() *memStore { return &memStore{reports: map[uuid.UUID]Report{}} }

func (s *memStore) Save(_ context.Context, report Report) error {
	s.reports[report.ID] = report
	return nil
}

func (s *memStore) FindByID(_ context.Context, id uuid.UUID) (Report, error) {
	if report, ok := s.reports[id]; ok {
		return report, nil
	}
	return Report{}, sentinel.ErrNotFound
}

func TestService_VerifyAndGetReport(t *testing.T) {
	store := newMemStore()
	svc, err := NewService(store)
	require.NoError(t, err)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), now)

	report, err := svc.Verify(ctx, Request{
		DocumentType: "id_card",
		ExtractedData: map[string]ExtractedField{
			"name": {Value: "John Smith", Confidence: 0.9},
			"id":   {Value: "AB-1234", Confidence: 0.95},
		},
		SubmittedData: map[string]string{
			"name": "john smith",
			"id":   "ab1234",
		},
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, report.ID)
	assert.Equal(t, "id_card", report.DocumentType)
	assert.Equal(t, now, report.CreatedAt)
	assert.Equal(t, 2, report.TotalFields)
	assert.Equal(t, 2, report.MatchedFields)
	assert.Equal(t, 1.0, report.OverallConfidence)

	fetched, err := svc.GetReport(ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, report.ID, fetched.ID)
	assert.Equal(t, report.Matches, fetched.Matches)
}

func TestService_Verify_RequiresBothFieldSets(t *testing.T) {
	svc, err := NewService(newMemStore())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = svc.Verify(ctx, Request{
		SubmittedData: map[string]string{"name": "x"},
	})
	require.Error(t, err)
	assert.Equal(t, dErrors.CodeInvalidInput, dErrors.CodeOf(err))

	_, err = svc.Verify(ctx, Request{
		ExtractedData: map[string]ExtractedField{"name": {Value: "x"}},
	})
	require.Error(t, err)
	assert.Equal(t, dErrors.CodeInvalidInput, dErrors.CodeOf(err))
}

func TestService_GetReport_NotFound(t *testing.T) {
	svc, err := NewService(newMemStore())
	require.NoError(t, err)

	_, err = svc.GetReport(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, dErrors.CodeNotFound, dErrors.CodeOf(err))
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "all_matched", outcome(Report{TotalFields: 2, MatchedFields: 2}))
	assert.Equal(t, "none_matched", outcome(Report{TotalFields: 2, MatchedFields: 0}))
	assert.Equal(t, "partial", outcome(Report{TotalFields: 3, MatchedFields: 1}))
}
