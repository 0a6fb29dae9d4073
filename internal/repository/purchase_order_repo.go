package repository

import (
	"context"

	"erp/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PurchaseOrderFilter narrows a purchase order listing. Empty fields are ignored.
type PurchaseOrderFilter struct {
	CompanyID     *uuid.UUID
	FinancialYear string
	Status        string
	Page          int
	Limit         int
}

type PurchaseOrderRepository interface {
	Create(ctx context.Context, po *model.PurchaseOrder) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error)
	// FindByIDForUpdate loads the order with its items and locks the header row until the surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error)
	List(ctx context.Context, filter PurchaseOrderFilter) ([]model.PurchaseOrder, int64, error)
	// Update saves the header and replaces the item lines.
	Update(ctx context.Context, po *model.PurchaseOrder) error
	UpdateStatus(ctx context.Context, po *model.PurchaseOrder) error
}

type purchaseOrderRepository struct {
	db *gorm.DB
}

func NewPurchaseOrderRepository(db *gorm.DB) PurchaseOrderRepository {
	return &purchaseOrderRepository{db: db}
}

func (r *purchaseOrderRepository) Create(ctx context.Context, po *model.PurchaseOrder) error {
	return translateErr(GetDB(ctx, r.db).Create(po).Error, "Purchase order")
}

func (r *purchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error) {
	var po model.PurchaseOrder
	if err := GetDB(ctx, r.db).Preload("Items").First(&po, "id = ?", id).Error; err != nil {
		return nil, translateErr(err, "Purchase order")
	}
	return &po, nil
}

func (r *purchaseOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error) {
	var po model.PurchaseOrder
	if err := GetDB(ctx, r.db).Scopes(forUpdate).Preload("Items").First(&po, "id = ?", id).Error; err != nil {
		return nil, translateErr(err, "Purchase order")
	}
	return &po, nil
}

func (r *purchaseOrderRepository) List(ctx context.Context, filter PurchaseOrderFilter) ([]model.PurchaseOrder, int64, error) {
	var orders []model.PurchaseOrder
	var total int64

	scope := func(q *gorm.DB) *gorm.DB {
		if filter.CompanyID != nil {
			q = q.Where("company_id = ?", *filter.CompanyID)
		}
		if filter.FinancialYear != "" {
			q = q.Where("financial_year = ?", filter.FinancialYear)
		}
		if filter.Status != "" {
			q = q.Where("status = ?", filter.Status)
		}
		return q
	}

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.PurchaseOrder{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, translateErr(err, "Purchase order")
	}

	if err := db.Scopes(scope).Preload("Items").
		Order("created_at desc").Scopes(paginate(filter.Page, filter.Limit)).
		Find(&orders).Error; err != nil {
		return nil, 0, translateErr(err, "Purchase order")
	}
	return orders, total, nil
}

func (r *purchaseOrderRepository) Update(ctx context.Context, po *model.PurchaseOrder) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("purchase_order_id = ?", po.ID).Delete(&model.PurchaseOrderItem{}).Error; err != nil {
		return translateErr(err, "Purchase order")
	}
	for i := range po.Items {
		po.Items[i].ID = uuid.Nil
		po.Items[i].PurchaseOrderID = po.ID
	}
	return translateErr(db.Session(&gorm.Session{FullSaveAssociations: true}).Save(po).Error, "Purchase order")
}

func (r *purchaseOrderRepository) UpdateStatus(ctx context.Context, po *model.PurchaseOrder) error {
	err := GetDB(ctx, r.db).Model(po).
		Select("status", "approval_date", "approval_comments", "approved_by").
		Updates(po).Error
	return translateErr(err, "Purchase order")
}
