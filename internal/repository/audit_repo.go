package repository

import (
	"context"

	"erp/internal/model"

	"gorm.io/gorm"
)

// AuditFilter narrows the audit trail. Empty fields are ignored.
type AuditFilter struct {
	Action   string
	EntityID string
	Page     int
	Limit    int
}

type AuditRepository interface {
	Log(ctx context.Context, entry *model.AuditLog) error
	List(ctx context.Context, filter AuditFilter) ([]model.AuditLog, int64, error)
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

// Log appends an entry. Entries are never updated or deleted.
func (r *auditRepository) Log(ctx context.Context, entry *model.AuditLog) error {
	return translateErr(GetDB(ctx, r.db).Create(entry).Error, "Audit log")
}

func (r *auditRepository) List(ctx context.Context, filter AuditFilter) ([]model.AuditLog, int64, error) {
	var logs []model.AuditLog
	var total int64

	scope := func(q *gorm.DB) *gorm.DB {
		if filter.Action != "" {
			q = q.Where("action = ?", filter.Action)
		}
		if filter.EntityID != "" {
			q = q.Where("entity_id = ?", filter.EntityID)
		}
		return q
	}

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.AuditLog{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, translateErr(err, "Audit log")
	}

	if err := db.Scopes(scope, paginate(filter.Page, filter.Limit)).
		Preload("User").
		Order("created_at desc").
		Find(&logs).Error; err != nil {
		return nil, 0, translateErr(err, "Audit log")
	}

	return logs, total, nil
}
