package model

import (
	"time"

	"github.com/google/uuid"
)

// Tax is a GST tax code. The percents are stored as the short strings the forms submit.
type Tax struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TaxCode       string    `gorm:"type:varchar(4);not null;index" json:"taxCode"`
	TaxName       string    `gorm:"type:varchar(25);not null" json:"taxName"`
	CGST          string    `gorm:"column:cgst;type:varchar(2)" json:"cgst"`
	SGST          string    `gorm:"column:sgst;type:varchar(2)" json:"sgst"`
	IGST          string    `gorm:"column:igst;type:varchar(2)" json:"igst"`
	CompanyID     uuid.UUID `gorm:"type:uuid;not null;index" json:"companyId"`
	FinancialYear string    `gorm:"type:varchar(20);not null;index" json:"financialYear"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
