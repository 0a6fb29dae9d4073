package repository_test

import (
	"context"
	"testing"

	ierr "erp/internal/errors"
	"erp/internal/model"
	"erp/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryRepository_UpdateKeepsIssuedCount(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewCategoryRepository(db)
	ctx := context.Background()

	created := seedCategory(t, db, model.NumberingCategory{
		CategoryName: "Retail",
		RangeStart:   1000,
		RangeEnd:     ptr(int64(1100)),
	})

	stale, err := repo.FindByID(ctx, model.CategoryKindBilling, created.ID)
	require.NoError(t, err)
	require.Zero(t, stale.IssuedCount)

	require.NoError(t, repo.IncrementIssued(ctx, created.ID))
	require.NoError(t, repo.IncrementIssued(ctx, created.ID))

	stale.CategoryName = "Retail North"
	stale.Prefix = "RN"
	require.NoError(t, repo.Update(ctx, stale))

	got, err := repo.FindByID(ctx, model.CategoryKindBilling, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Retail North", got.CategoryName)
	assert.Equal(t, "RN", got.Prefix)
	assert.EqualValues(t, 2, got.IssuedCount)
	assert.EqualValues(t, 1002, got.NextNumber())
}

func TestCategoryRepository_UpdateRejectsDuplicateName(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewCategoryRepository(db)
	companyID := uuid.New()

	seedCategory(t, db, model.NumberingCategory{CategoryName: "Retail", RangeStart: 1, CompanyID: companyID})
	other := seedCategory(t, db, model.NumberingCategory{CategoryName: "Export", RangeStart: 500, CompanyID: companyID})

	other.CategoryName = "Retail"
	err := repo.Update(context.Background(), other)
	require.Error(t, err)
	assert.True(t, ierr.IsAlreadyExists(err))
}

func TestCategoryRepository_FindForUpdate(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewCategoryRepository(db)
	companyID := uuid.New()

	yearless := seedCategory(t, db, model.NumberingCategory{CategoryName: "Retail", RangeStart: 1, CompanyID: companyID})
	yearly := seedCategory(t, db, model.NumberingCategory{CategoryName: "Retail", RangeStart: 5000, CompanyID: companyID, FinancialYear: "2024-25"})
	seedCategory(t, db, model.NumberingCategory{Kind: model.CategoryKindInvoice, CategoryName: "Retail", RangeStart: 9000, CompanyID: companyID})

	tests := []struct {
		name    string
		lookup  repository.CategoryLookup
		wantID  uuid.UUID
		missing bool
	}{
		{
			name:   "prefers the year specific category",
			lookup: repository.CategoryLookup{Kind: model.CategoryKindBilling, Name: "Retail", CompanyID: &companyID, FinancialYear: "2024-25"},
			wantID: yearly.ID,
		},
		{
			name:   "falls back to the year-less category",
			lookup: repository.CategoryLookup{Kind: model.CategoryKindBilling, Name: "Retail", CompanyID: &companyID, FinancialYear: "2025-26"},
			wantID: yearless.ID,
		},
		{
			name:    "other company",
			lookup:  repository.CategoryLookup{Kind: model.CategoryKindBilling, Name: "Retail", CompanyID: ptr(uuid.New())},
			missing: true,
		},
		{
			name:    "unknown name",
			lookup:  repository.CategoryLookup{Kind: model.CategoryKindBilling, Name: "Wholesale"},
			missing: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.FindForUpdate(context.Background(), tt.lookup)
			if tt.missing {
				require.Error(t, err)
				assert.True(t, ierr.IsNotFound(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, got.ID)
			assert.Equal(t, model.CategoryKindBilling, got.Kind)
		})
	}
}

func TestCategoryRepository_IncrementIssuedUnknownID(t *testing.T) {
	repo := repository.NewCategoryRepository(newTestDB(t))

	err := repo.IncrementIssued(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, ierr.IsNotFound(err))
}
