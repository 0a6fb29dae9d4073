package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	ierr "erp/internal/errors"
	"erp/internal/logger"
	"erp/internal/model"
	"erp/internal/repository"
	"erp/internal/service"
)

type billingFixture struct {
	svc        service.BillingService
	billings   *repository.MockBillingRepository
	categories *repository.MockCategoryRepository
	audit      *recordingAudit
}

func newBillingFixture(t *testing.T) billingFixture {
	ctrl := gomock.NewController(t)
	billings := repository.NewMockBillingRepository(ctrl)
	categories := repository.NewMockCategoryRepository(ctrl)
	tx := repository.NewMockTransactionManager(ctrl)
	expectTx(tx)

	audit := &recordingAudit{}
	log := logger.NewNop()
	allocator := service.NewCategoryService(categories, tx, audit, log)

	return billingFixture{
		svc:        service.NewBillingService(billings, allocator, tx, audit, log),
		billings:   billings,
		categories: categories,
		audit:      audit,
	}
}

func TestBillingService_CreateBilling(t *testing.T) {
	companyID := uuid.New()
	category := &model.NumberingCategory{
		ID:           uuid.New(),
		Kind:         model.CategoryKindBilling,
		CategoryName: "Retail",
		RangeStart:   1000,
		RangeEnd:     ptr(int64(1999)),
		IssuedCount:  4,
		CompanyID:    companyID,
	}

	t.Run("Success", func(t *testing.T) {
		f := newBillingFixture(t)
		f.categories.EXPECT().
			FindForUpdate(gomock.Any(), repository.CategoryLookup{Kind: model.CategoryKindBilling, Name: "Retail"}).
			Return(category, nil)
		f.categories.EXPECT().IncrementIssued(gomock.Any(), category.ID).Return(nil)
		f.billings.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, b *model.Billing) error {
				assert.Equal(t, category.ID, b.CategoryID)
				assert.Equal(t, "1004", b.DocNumber)
				require.NotNil(t, b.CompanyID)
				assert.Equal(t, companyID, *b.CompanyID)
				b.ID = uuid.New()
				return nil
			})

		res, err := f.svc.CreateBilling(context.Background(), service.CreateBillingRequest{
			Category:     "Retail",
			CustomerName: "Acme",
			BillingDate:  "2025-01-15",
			Items: []service.BillingItemPayload{
				{Description: "Widget", Quantity: decimal.NewFromInt(2), Price: decimal.NewFromInt(100)},
			},
			Discount: decimal.NewFromInt(20),
			CGST:     decimal.NewFromInt(9),
			SGST:     decimal.NewFromInt(9),
		})

		require.NoError(t, err)
		assert.Equal(t, "Billing created", res.Message)
		assert.Equal(t, "1004", res.DocNumber)
		assert.Equal(t, "Retail", res.Billing.Category)
		assert.Equal(t, "2025-01-15", res.Billing.BillingDate)
		assert.Equal(t, "200.00", res.Billing.TotalAmount)
		assert.Equal(t, "180.00", res.Billing.NetAmount)
		assert.Equal(t, "16.20", res.Billing.CGSTAmount)
		assert.Equal(t, "212.40", res.Billing.FinalTotal)
		assert.Equal(t, []string{model.ActionCreateBilling}, f.audit.actions)
	})

	t.Run("CategoryNotFound", func(t *testing.T) {
		f := newBillingFixture(t)
		f.categories.EXPECT().FindForUpdate(gomock.Any(), gomock.Any()).
			Return(nil, ierr.NewError("record not found").Mark(ierr.ErrNotFound))
		f.billings.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

		_, err := f.svc.CreateBilling(context.Background(), service.CreateBillingRequest{Category: "Missing"})

		require.Error(t, err)
		assert.True(t, ierr.IsNotFound(err))
		assert.Equal(t, "Category not found", ierr.DisplayMessage(err))
		assert.Empty(t, f.audit.actions)
	})

	t.Run("RangeExhausted", func(t *testing.T) {
		f := newBillingFixture(t)
		full := *category
		full.IssuedCount = 1000
		f.categories.EXPECT().FindForUpdate(gomock.Any(), gomock.Any()).Return(&full, nil)
		f.billings.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

		_, err := f.svc.CreateBilling(context.Background(), service.CreateBillingRequest{Category: "Retail"})

		require.Error(t, err)
		assert.True(t, ierr.IsValidation(err))
	})

	t.Run("InvalidPayload", func(t *testing.T) {
		tests := []struct {
			name string
			req  service.CreateBillingRequest
		}{
			{name: "EmptyCategory", req: service.CreateBillingRequest{Category: "  "}},
			{name: "BadDate", req: service.CreateBillingRequest{Category: "Retail", BillingDate: "15/01/2025"}},
			{name: "NegativePrice", req: service.CreateBillingRequest{
				Category: "Retail",
				Items:    []service.BillingItemPayload{{Quantity: decimal.NewFromInt(1), Price: decimal.NewFromInt(-1)}},
			}},
			{name: "TaxAboveHundred", req: service.CreateBillingRequest{Category: "Retail", IGST: decimal.NewFromInt(101)}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				f := newBillingFixture(t)

				_, err := f.svc.CreateBilling(context.Background(), tt.req)

				require.Error(t, err)
				assert.True(t, ierr.IsValidation(err))
			})
		}
	})
}

func TestBillingService_UpdateBilling(t *testing.T) {
	f := newBillingFixture(t)
	existing := &model.Billing{
		ID:          uuid.New(),
		Category:    "Retail",
		DocNumber:   "1000",
		Items:       []model.BillingItem{{Quantity: decimal.NewFromInt(1), Price: decimal.NewFromInt(100)}},
		CGSTPercent: decimal.NewFromInt(5),
	}
	existing.Recalculate()

	f.billings.EXPECT().FindByID(gomock.Any(), existing.ID).Return(existing, nil)
	f.billings.EXPECT().Update(gomock.Any(), existing).Return(nil)

	discount := decimal.NewFromInt(50)
	res, err := f.svc.UpdateBilling(context.Background(), existing.ID.String(), service.UpdateBillingRequest{
		Discount: &discount,
	})

	require.NoError(t, err)
	assert.Equal(t, "1000", res.DocNumber)
	assert.Equal(t, "50.00", res.NetAmount)
	assert.Equal(t, "2.50", res.CGSTAmount)
	assert.Equal(t, "52.50", res.FinalTotal)
}
