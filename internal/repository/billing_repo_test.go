package repository_test

import (
	"context"
	"errors"
	"strconv"
	"testing"

	ierr "erp/internal/errors"
	"erp/internal/model"
	"erp/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type billingStore struct {
	tx         repository.TransactionManager
	categories repository.CategoryRepository
	billings   repository.BillingRepository
}

// createNumbered reserves the next number of the category and inserts the
// billing under it in one transaction.
func (s billingStore) createNumbered(ctx context.Context, lookup repository.CategoryLookup, billing *model.Billing) error {
	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		category, err := s.categories.FindForUpdate(txCtx, lookup)
		if err != nil {
			return err
		}
		if err := s.categories.IncrementIssued(txCtx, category.ID); err != nil {
			return err
		}
		billing.CategoryID = category.ID
		billing.Category = category.CategoryName
		billing.DocNumber = strconv.FormatInt(category.NextNumber(), 10)
		return s.billings.Create(txCtx, billing)
	})
}

func TestBillingRepository_FailedInsertReleasesNumber(t *testing.T) {
	db := newTestDB(t)
	store := billingStore{
		tx:         repository.NewTransactionManager(db),
		categories: repository.NewCategoryRepository(db),
		billings:   repository.NewBillingRepository(db),
	}
	ctx := context.Background()

	category := seedCategory(t, db, model.NumberingCategory{CategoryName: "Retail", RangeStart: 1000})
	lookup := repository.CategoryLookup{Kind: model.CategoryKindBilling, Name: "Retail"}

	// A row already holding 1000 makes the first insert collide.
	blocker := model.Billing{CategoryID: category.ID, Category: "Retail", DocNumber: "1000"}
	require.NoError(t, db.Create(&blocker).Error)

	err := store.createNumbered(ctx, lookup, &model.Billing{CustomerName: "Acme"})
	require.Error(t, err)
	assert.True(t, ierr.IsAlreadyExists(err))

	reloaded, err := store.categories.FindByID(ctx, model.CategoryKindBilling, category.ID)
	require.NoError(t, err)
	assert.Zero(t, reloaded.IssuedCount)

	require.NoError(t, db.Delete(&model.Billing{}, "id = ?", blocker.ID).Error)

	billing := model.Billing{CustomerName: "Acme"}
	require.NoError(t, store.createNumbered(ctx, lookup, &billing))
	assert.Equal(t, "1000", billing.DocNumber)

	next := model.Billing{CustomerName: "Globex"}
	require.NoError(t, store.createNumbered(ctx, lookup, &next))
	assert.Equal(t, "1001", next.DocNumber)
}

func TestBillingRepository_UpdateReplacesItems(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewBillingRepository(db)
	ctx := context.Background()

	category := seedCategory(t, db, model.NumberingCategory{CategoryName: "Retail", RangeStart: 1})
	billing := model.Billing{
		CategoryID: category.ID,
		Category:   "Retail",
		DocNumber:  "1",
		Items: []model.BillingItem{
			{Description: "Bolts", Quantity: decimal.NewFromInt(10), Price: decimal.NewFromInt(2)},
			{Description: "Nuts", Quantity: decimal.NewFromInt(5), Price: decimal.NewFromInt(1)},
		},
	}
	require.NoError(t, repo.Create(ctx, &billing))

	loaded, err := repo.FindByID(ctx, billing.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 2)

	loaded.CustomerName = "Acme"
	loaded.Items = []model.BillingItem{
		{Description: "Washers", Quantity: decimal.NewFromInt(3), Price: decimal.RequireFromString("1.5")},
	}
	loaded.Recalculate()
	require.NoError(t, repo.Update(ctx, loaded))

	got, err := repo.FindByID(ctx, billing.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.CustomerName)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Washers", got.Items[0].Description)
	assert.True(t, decimal.RequireFromString("4.5").Equal(got.TotalAmount), "total %s", got.TotalAmount)

	var stored int64
	require.NoError(t, db.Model(&model.BillingItem{}).Count(&stored).Error)
	assert.EqualValues(t, 1, stored)
}

func TestTransactionManager_NestedCallJoinsOuterTx(t *testing.T) {
	db := newTestDB(t)
	tx := repository.NewTransactionManager(db)
	categories := repository.NewCategoryRepository(db)
	ctx := context.Background()

	errAbort := errors.New("abort")
	err := tx.RunInTx(ctx, func(txCtx context.Context) error {
		outer := &model.NumberingCategory{Kind: model.CategoryKindBilling, CategoryName: "Outer", RangeStart: 1}
		if err := categories.Create(txCtx, outer); err != nil {
			return err
		}
		if err := tx.RunInTx(txCtx, func(innerCtx context.Context) error {
			inner := &model.NumberingCategory{Kind: model.CategoryKindBilling, CategoryName: "Inner", RangeStart: 1}
			return categories.Create(innerCtx, inner)
		}); err != nil {
			return err
		}
		return errAbort
	})
	require.ErrorIs(t, err, errAbort)

	listed, err := categories.List(ctx, repository.CategoryFilter{Kind: model.CategoryKindBilling})
	require.NoError(t, err)
	assert.Empty(t, listed)
}
