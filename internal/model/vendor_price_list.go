package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VendorPriceList is a negotiated material price for a vendor.
type VendorPriceList struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	CategoryID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"categoryId"`
	VendorID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"vendorId"`
	MaterialID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"materialId"`
	Unit          string          `gorm:"type:varchar(100);not null" json:"unit"`
	BUM           float64         `gorm:"column:bum;not null" json:"bum"`
	Buyer         string          `gorm:"type:varchar(100)" json:"buyer"`
	Price         decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"price"`
	TaxID         *uuid.UUID      `gorm:"type:uuid;index" json:"taxId"`
	Tax           *Tax            `gorm:"foreignKey:TaxID" json:"tax,omitempty"`
	OrderUnit     float64         `gorm:"not null" json:"orderUnit"`
	CompanyID     *uuid.UUID      `gorm:"type:uuid;index" json:"companyId"`
	FinancialYear string          `gorm:"type:varchar(20)" json:"financialYear"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}
