package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"erp/internal/logger"
	"erp/internal/model"
	"erp/internal/repository"
	"erp/internal/requestctx"
	"erp/internal/service"
)

type memAuditRepo struct {
	entries    []model.AuditLog
	lastFilter repository.AuditFilter
	failWrites bool
}

func (r *memAuditRepo) Log(_ context.Context, entry *model.AuditLog) error {
	if r.failWrites {
		return errors.New("connection refused")
	}
	entry.ID = uuid.New()
	entry.CreatedAt = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *memAuditRepo) List(_ context.Context, filter repository.AuditFilter) ([]model.AuditLog, int64, error) {
	r.lastFilter = filter
	return r.entries, int64(len(r.entries)), nil
}

func TestAuditService_RecordAttributesCaller(t *testing.T) {
	repo := &memAuditRepo{}
	svc := service.NewAuditService(repo, logger.NewNop())

	userID := uuid.New()
	ctx := requestctx.WithUserID(context.Background(), userID.String())
	svc.Record(ctx, model.ActionCreateBilling, "b-1", "1004", map[string]string{"category": "Retail"})
	svc.Record(context.Background(), model.ActionCreateTax, "t-1", "GST5", nil)

	require.Len(t, repo.entries, 2)
	require.NotNil(t, repo.entries[0].UserID)
	assert.Equal(t, userID, *repo.entries[0].UserID)
	assert.JSONEq(t, `{"category":"Retail"}`, repo.entries[0].Details)
	assert.Nil(t, repo.entries[1].UserID)
	assert.Equal(t, "null", repo.entries[1].Details)
}

func TestAuditService_RecordIsBestEffort(t *testing.T) {
	repo := &memAuditRepo{failWrites: true}
	svc := service.NewAuditService(repo, logger.NewNop())

	assert.NotPanics(t, func() {
		svc.Record(context.Background(), model.ActionDeleteTax, "t-1", "GST5", nil)
	})
	assert.Empty(t, repo.entries)
}

func TestAuditService_GetAuditLogs(t *testing.T) {
	repo := &memAuditRepo{}
	svc := service.NewAuditService(repo, logger.NewNop())

	admin := &model.User{ID: uuid.New(), Username: "admin"}
	repo.entries = []model.AuditLog{
		{ID: uuid.New(), UserID: &admin.ID, User: admin, Action: model.ActionUpdateCategory, EntityID: "c-1", CreatedAt: time.Now()},
		{ID: uuid.New(), Action: model.ActionCreateBilling, EntityID: "b-1", CreatedAt: time.Now()},
	}

	logs, total, err := svc.GetAuditLogs(context.Background(), service.AuditLogFilter{
		Action:   " create_billing ",
		EntityID: "b-1",
		Page:     2,
		Limit:    5,
	})
	require.NoError(t, err)

	assert.Equal(t, repository.AuditFilter{Action: "CREATE_BILLING", EntityID: "b-1", Page: 2, Limit: 5}, repo.lastFilter)
	assert.EqualValues(t, 2, total)
	require.Len(t, logs, 2)
	assert.Equal(t, "admin", logs[0].Username)
	assert.Equal(t, admin.ID.String(), logs[0].UserID)
	assert.Equal(t, "System", logs[1].Username)
	assert.Empty(t, logs[1].UserID)
}
