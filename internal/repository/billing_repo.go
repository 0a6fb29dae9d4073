package repository

import (
	"context"

	"erp/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BillingListFilter narrows a billing listing. Empty fields are ignored.
type BillingListFilter struct {
	CompanyID     *uuid.UUID
	FinancialYear string
	Page          int
	Limit         int
}

//go:generate mockgen -source=billing_repo.go -destination=mock_billing_repo.go -package=repository

type BillingRepository interface {
	Create(ctx context.Context, billing *model.Billing) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Billing, error)
	List(ctx context.Context, filter BillingListFilter) ([]model.Billing, int64, error)
	// Update saves the header and replaces the item lines.
	Update(ctx context.Context, billing *model.Billing) error
}

type billingRepository struct {
	db *gorm.DB
}

func NewBillingRepository(db *gorm.DB) BillingRepository {
	return &billingRepository{db: db}
}

func (r *billingRepository) Create(ctx context.Context, billing *model.Billing) error {
	return translateErr(GetDB(ctx, r.db).Create(billing).Error, "Billing record")
}

func (r *billingRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Billing, error) {
	var billing model.Billing
	if err := GetDB(ctx, r.db).Preload("Items").First(&billing, "id = ?", id).Error; err != nil {
		return nil, translateErr(err, "Billing record")
	}
	return &billing, nil
}

func (r *billingRepository) List(ctx context.Context, filter BillingListFilter) ([]model.Billing, int64, error) {
	var billings []model.Billing
	var total int64

	db := GetDB(ctx, r.db)
	scope := func(q *gorm.DB) *gorm.DB {
		if filter.CompanyID != nil {
			q = q.Where("company_id = ?", *filter.CompanyID)
		}
		if filter.FinancialYear != "" {
			q = q.Where("financial_year = ?", filter.FinancialYear)
		}
		return q
	}

	if err := db.Model(&model.Billing{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, translateErr(err, "Billing record")
	}

	if err := db.Scopes(scope).Preload("Items").
		Order("created_at desc").Scopes(paginate(filter.Page, filter.Limit)).
		Find(&billings).Error; err != nil {
		return nil, 0, translateErr(err, "Billing record")
	}

	return billings, total, nil
}

func (r *billingRepository) Update(ctx context.Context, billing *model.Billing) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("billing_id = ?", billing.ID).Delete(&model.BillingItem{}).Error; err != nil {
		return translateErr(err, "Billing record")
	}
	for i := range billing.Items {
		billing.Items[i].ID = uuid.Nil
		billing.Items[i].BillingID = billing.ID
	}
	return translateErr(db.Session(&gorm.Session{FullSaveAssociations: true}).Save(billing).Error, "Billing record")
}
