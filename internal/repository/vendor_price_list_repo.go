package repository

import (
	"context"

	"erp/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PriceListFilter narrows a price list listing. Empty fields are ignored.
type PriceListFilter struct {
	CompanyID     *uuid.UUID
	VendorID      *uuid.UUID
	FinancialYear string
	Page          int
	Limit         int
}

type VendorPriceListRepository interface {
	Create(ctx context.Context, entry *model.VendorPriceList) error
	Update(ctx context.Context, entry *model.VendorPriceList) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.VendorPriceList, error)
	List(ctx context.Context, filter PriceListFilter) ([]model.VendorPriceList, int64, error)
}

type vendorPriceListRepository struct {
	db *gorm.DB
}

func NewVendorPriceListRepository(db *gorm.DB) VendorPriceListRepository {
	return &vendorPriceListRepository{db: db}
}

func (r *vendorPriceListRepository) Create(ctx context.Context, entry *model.VendorPriceList) error {
	return translateErr(GetDB(ctx, r.db).Omit("Tax").Create(entry).Error, "Vendor price list")
}

func (r *vendorPriceListRepository) Update(ctx context.Context, entry *model.VendorPriceList) error {
	return translateErr(GetDB(ctx, r.db).Omit("Tax").Save(entry).Error, "Vendor price list")
}

func (r *vendorPriceListRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.VendorPriceList{})
	if res.Error != nil {
		return translateErr(res.Error, "Vendor price list")
	}
	if res.RowsAffected == 0 {
		return translateErr(gorm.ErrRecordNotFound, "Vendor price list")
	}
	return nil
}

func (r *vendorPriceListRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.VendorPriceList, error) {
	var entry model.VendorPriceList
	if err := GetDB(ctx, r.db).Preload("Tax").First(&entry, "id = ?", id).Error; err != nil {
		return nil, translateErr(err, "Vendor price list")
	}
	return &entry, nil
}

func (r *vendorPriceListRepository) List(ctx context.Context, filter PriceListFilter) ([]model.VendorPriceList, int64, error) {
	var entries []model.VendorPriceList
	var total int64

	scope := func(q *gorm.DB) *gorm.DB {
		if filter.CompanyID != nil {
			q = q.Where("company_id = ?", *filter.CompanyID)
		}
		if filter.VendorID != nil {
			q = q.Where("vendor_id = ?", *filter.VendorID)
		}
		if filter.FinancialYear != "" {
			q = q.Where("financial_year = ?", filter.FinancialYear)
		}
		return q
	}

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.VendorPriceList{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, translateErr(err, "Vendor price list")
	}

	if err := db.Scopes(scope).Preload("Tax").
		Order("created_at desc").Scopes(paginate(filter.Page, filter.Limit)).
		Find(&entries).Error; err != nil {
		return nil, 0, translateErr(err, "Vendor price list")
	}
	return entries, total, nil
}
