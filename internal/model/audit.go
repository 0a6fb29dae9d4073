package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionCreateCategory       = "CREATE_CATEGORY"
	ActionUpdateCategory       = "UPDATE_CATEGORY"
	ActionCreateBilling        = "CREATE_BILLING"
	ActionUpdateBilling        = "UPDATE_BILLING"
	ActionUpdateAttendance     = "UPDATE_ATTENDANCE"
	ActionDeleteAttendance     = "DELETE_ATTENDANCE"
	ActionBulkDeleteAttendance = "BULK_DELETE_ATTENDANCE"
	ActionCreateTax            = "CREATE_TAX"
	ActionUpdateTax            = "UPDATE_TAX"
	ActionDeleteTax            = "DELETE_TAX"
	ActionCreatePurchaseOrder  = "CREATE_PURCHASE_ORDER"
	ActionChangePOStatus       = "CHANGE_PURCHASE_ORDER_STATUS"
)

// AuditLog tracks Who, What, and When for critical system changes
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"userId"` // nil for unauthenticated callers
	User       *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entityId"`
	EntityName string     `gorm:"type:varchar(255)" json:"entityName,omitempty"`
	Details    string     `gorm:"type:jsonb" json:"details"` // serialized JSON payload of the action
	CreatedAt  time.Time  `gorm:"index" json:"createdAt"`
}
