package repository_test

import (
	"context"
	"testing"

	"erp/internal/model"
	"erp/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPurchaseOrderRepository_UpdateStatusWritesDecisionOnly(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewPurchaseOrderRepository(db)
	tx := repository.NewTransactionManager(db)
	ctx := context.Background()

	po := model.PurchaseOrder{
		PONumber: "PO-7",
		Vendor:   "Acme Steel",
		Status:   model.POStatusPending,
		Items: []model.PurchaseOrderItem{
			{MaterialID: "M-1", Description: "Sheet", Quantity: decimal.NewFromInt(4)},
		},
	}
	require.NoError(t, repo.Create(ctx, &po))

	require.NoError(t, tx.RunInTx(ctx, func(txCtx context.Context) error {
		locked, err := repo.FindByIDForUpdate(txCtx, po.ID)
		if err != nil {
			return err
		}
		locked.Status = model.POStatusApproved
		locked.ApprovedBy = "manager"
		locked.ApprovalDate = "2025-01-20"
		locked.Vendor = "ignored"
		return repo.UpdateStatus(txCtx, locked)
	}))

	got, err := repo.FindByID(ctx, po.ID)
	require.NoError(t, err)
	assert.Equal(t, model.POStatusApproved, got.Status)
	assert.Equal(t, "manager", got.ApprovedBy)
	assert.Equal(t, "2025-01-20", got.ApprovalDate)
	assert.Equal(t, "Acme Steel", got.Vendor)
	require.Len(t, got.Items, 1)
}
