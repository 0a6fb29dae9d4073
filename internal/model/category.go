package model

import (
	"time"

	"github.com/google/uuid"
)

// CategoryKind enum constants. Each kind owns an independent set of number ranges.
const (
	CategoryKindBilling       = "BILLING"
	CategoryKindInvoice       = "INVOICE"
	CategoryKindPurchaseOrder = "PURCHASE_ORDER"
)

// NumberingCategory reserves the integer range [RangeStart, RangeEnd] for documents of one kind.
// IssuedCount is the per-category counter: the next number is RangeStart + IssuedCount.
type NumberingCategory struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Kind          string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_category_scope" json:"kind"`
	CategoryName  string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_category_scope" json:"categoryName"`
	Prefix        string    `gorm:"type:varchar(20)" json:"prefix,omitempty"`
	RangeStart    int64     `gorm:"not null" json:"rangeStart"`
	RangeEnd      *int64    `json:"rangeEnd"`
	IssuedCount   int64     `gorm:"not null;default:0" json:"issuedCount"`
	CompanyID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_category_scope;index" json:"companyId"`
	FinancialYear string    `gorm:"type:varchar(20);not null;default:'';uniqueIndex:idx_category_scope" json:"financialYear,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// NextNumber is the number the next allocation would hand out.
func (c *NumberingCategory) NextNumber() int64 {
	return c.RangeStart + c.IssuedCount
}

// Exhausted reports whether next is outside the reserved range.
func (c *NumberingCategory) Exhausted(next int64) bool {
	return c.RangeEnd != nil && next > *c.RangeEnd
}

// LastIssued returns the highest number handed out so far, if any.
func (c *NumberingCategory) LastIssued() (int64, bool) {
	if c.IssuedCount == 0 {
		return 0, false
	}
	return c.RangeStart + c.IssuedCount - 1, true
}
