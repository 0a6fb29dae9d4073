package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Billing is a sales billing document numbered from a BILLING category.
// Category is the denormalized category name; DocNumber is never reused.
type Billing struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	CategoryID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_billing_doc" json:"categoryId"`
	Category      string          `gorm:"type:varchar(255);not null;index" json:"category"`
	DocNumber     string          `gorm:"type:varchar(30);not null;uniqueIndex:idx_billing_doc" json:"docnumber"`
	CompanyID     *uuid.UUID      `gorm:"type:uuid;index" json:"companyId"`
	FinancialYear string          `gorm:"type:varchar(20);index" json:"financialYear"`
	SalesOrderID  *uuid.UUID      `gorm:"type:uuid;index" json:"salesOrderId"`
	CustomerName  string          `gorm:"type:varchar(255)" json:"customerName"`
	BillingDate   *time.Time      `gorm:"type:date" json:"billingDate"`
	Items         []BillingItem   `gorm:"foreignKey:BillingID;constraint:OnDelete:CASCADE" json:"items"`
	Discount      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"discount"`
	CGSTPercent   decimal.Decimal `gorm:"column:cgst_percent;type:decimal(10,4);not null;default:0" json:"cgst"`
	SGSTPercent   decimal.Decimal `gorm:"column:sgst_percent;type:decimal(10,4);not null;default:0" json:"sgst"`
	IGSTPercent   decimal.Decimal `gorm:"column:igst_percent;type:decimal(10,4);not null;default:0" json:"igst"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"totalAmount"` // sum of quantity * price
	NetAmount     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"netAmount"`   // total - discount
	CGSTAmount    decimal.Decimal `gorm:"column:cgst_amount;type:decimal(18,4);not null;default:0" json:"cgstAmt"`
	SGSTAmount    decimal.Decimal `gorm:"column:sgst_amount;type:decimal(18,4);not null;default:0" json:"sgstAmt"`
	IGSTAmount    decimal.Decimal `gorm:"column:igst_amount;type:decimal(18,4);not null;default:0" json:"igstAmt"`
	FinalTotal    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"finalTotal"`
	Remarks       string          `gorm:"type:text" json:"remarks"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// BillingItem is one line of a Billing.
type BillingItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	BillingID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"-"`
	Description string          `gorm:"type:text" json:"description"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"quantity"`
	Price       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"price"`
}

var hundred = decimal.NewFromInt(100)

// Recalculate derives the totals from items, discount and tax percents.
// Taxes apply to the discounted amount.
func (b *Billing) Recalculate() {
	total := decimal.Zero
	for _, item := range b.Items {
		total = total.Add(item.Quantity.Mul(item.Price))
	}

	b.TotalAmount = total
	b.NetAmount = total.Sub(b.Discount)
	b.CGSTAmount = b.CGSTPercent.Div(hundred).Mul(b.NetAmount)
	b.SGSTAmount = b.SGSTPercent.Div(hundred).Mul(b.NetAmount)
	b.IGSTAmount = b.IGSTPercent.Div(hundred).Mul(b.NetAmount)
	b.FinalTotal = b.NetAmount.Add(b.CGSTAmount).Add(b.SGSTAmount).Add(b.IGSTAmount)
}
