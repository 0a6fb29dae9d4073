package repository

import (
	"context"

	"erp/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TaxFilter narrows a tax listing. Empty fields are ignored.
type TaxFilter struct {
	CompanyID     *uuid.UUID
	FinancialYear string
}

//go:generate mockgen -source=tax_repo.go -destination=mock_tax_repo.go -package=repository

type TaxRepository interface {
	Create(ctx context.Context, tax *model.Tax) error
	Update(ctx context.Context, tax *model.Tax) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Tax, error)
	List(ctx context.Context, filter TaxFilter) ([]model.Tax, error)
}

type taxRepository struct {
	db *gorm.DB
}

func NewTaxRepository(db *gorm.DB) TaxRepository {
	return &taxRepository{db: db}
}

func (r *taxRepository) Create(ctx context.Context, tax *model.Tax) error {
	return translateErr(GetDB(ctx, r.db).Create(tax).Error, "Tax")
}

func (r *taxRepository) Update(ctx context.Context, tax *model.Tax) error {
	return translateErr(GetDB(ctx, r.db).Save(tax).Error, "Tax")
}

func (r *taxRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Tax{})
	if res.Error != nil {
		return translateErr(res.Error, "Tax")
	}
	if res.RowsAffected == 0 {
		return translateErr(gorm.ErrRecordNotFound, "Tax")
	}
	return nil
}

func (r *taxRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Tax, error) {
	var tax model.Tax
	if err := GetDB(ctx, r.db).First(&tax, "id = ?", id).Error; err != nil {
		return nil, translateErr(err, "Tax")
	}
	return &tax, nil
}

func (r *taxRepository) List(ctx context.Context, filter TaxFilter) ([]model.Tax, error) {
	var taxes []model.Tax
	query := GetDB(ctx, r.db)
	if filter.CompanyID != nil {
		query = query.Where("company_id = ?", *filter.CompanyID)
	}
	if filter.FinancialYear != "" {
		query = query.Where("financial_year = ?", filter.FinancialYear)
	}
	if err := query.Order("tax_code asc").Find(&taxes).Error; err != nil {
		return nil, translateErr(err, "Tax")
	}
	return taxes, nil
}
