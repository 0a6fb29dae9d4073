package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrderStatus enum constants
const (
	POStatusDraft    = "draft"
	POStatusPending  = "pending"
	POStatusApproved = "approved"
	POStatusRejected = "rejected"
)

// PurchaseOrder is a vendor purchase order with per-item taxes.
type PurchaseOrder struct {
	ID                uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	PONumber          string              `gorm:"column:po_number;type:varchar(50);index" json:"poNumber"`
	CategoryID        *uuid.UUID          `gorm:"type:uuid;index" json:"categoryId"`
	Category          string              `gorm:"type:varchar(255)" json:"category"`
	Date              string              `gorm:"type:varchar(20)" json:"date"`
	Vendor            string              `gorm:"type:varchar(255)" json:"vendor"`
	DeliveryLocation  string              `gorm:"type:varchar(255)" json:"deliveryLocation"`
	DeliveryAddress   string              `gorm:"type:text" json:"deliveryAddress"`
	QuotationID       *uuid.UUID          `gorm:"type:uuid" json:"quotationId"`
	QuotationNumber   string              `gorm:"type:varchar(50)" json:"quotationNumber"`
	Items             []PurchaseOrderItem `gorm:"foreignKey:PurchaseOrderID;constraint:OnDelete:CASCADE" json:"items"`
	Remarks           string              `gorm:"type:text" json:"remarks"`
	ApprovedBy        string              `gorm:"type:varchar(255)" json:"approvedby"`
	PreparedBy        string              `gorm:"type:varchar(255)" json:"preparedby"`
	Notes             string              `gorm:"type:text" json:"notes"`
	Processes         []string            `gorm:"type:jsonb;serializer:json" json:"processes"`
	GeneralConditions []string            `gorm:"type:jsonb;serializer:json" json:"generalConditions"`
	TaxName           string              `gorm:"type:varchar(50)" json:"taxName"`
	CGST              decimal.Decimal     `gorm:"column:cgst;type:decimal(10,4);not null;default:0" json:"cgst"`
	SGST              decimal.Decimal     `gorm:"column:sgst;type:decimal(10,4);not null;default:0" json:"sgst"`
	IGST              decimal.Decimal     `gorm:"column:igst;type:decimal(10,4);not null;default:0" json:"igst"`
	TaxDiscount       decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0" json:"taxDiscount"`
	Total             decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0" json:"total"`
	FinalTotal        decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0" json:"finalTotal"`
	CompanyID         *uuid.UUID          `gorm:"type:uuid;index" json:"companyId"`
	FinancialYear     string              `gorm:"type:varchar(20);index" json:"financialYear"`
	Status            string              `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"`
	ApprovalDate      string              `gorm:"type:varchar(20)" json:"approvalDate"`
	ApprovalComments  string              `gorm:"type:text" json:"approvalComments"`
	CreatedAt         time.Time           `json:"createdAt"`
	UpdatedAt         time.Time           `json:"updatedAt"`
}

// PurchaseOrderItem is one material line. The amount fields are computed.
type PurchaseOrderItem struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	PurchaseOrderID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"-"`
	MaterialID       string          `gorm:"type:varchar(100)" json:"materialId"`
	Description      string          `gorm:"type:text" json:"description"`
	Quantity         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"quantity"`
	BaseUnit         string          `gorm:"type:varchar(20)" json:"baseUnit"`
	OrderUnit        string          `gorm:"type:varchar(20)" json:"orderUnit"`
	Unit             string          `gorm:"type:varchar(100)" json:"unit"`
	Price            decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"price"`
	PriceUnit        string          `gorm:"type:varchar(20)" json:"priceUnit"`
	MaterialGroup    string          `gorm:"type:varchar(100)" json:"materialgroup"`
	BuyerGroup       string          `gorm:"type:varchar(100)" json:"buyerGroup"`
	DeliveryDate     string          `gorm:"type:varchar(20)" json:"deliveryDate"`
	CGST             decimal.Decimal `gorm:"column:cgst;type:decimal(10,4);not null;default:0" json:"cgst"`
	SGST             decimal.Decimal `gorm:"column:sgst;type:decimal(10,4);not null;default:0" json:"sgst"`
	IGST             decimal.Decimal `gorm:"column:igst;type:decimal(10,4);not null;default:0" json:"igst"`
	Discount         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"discount"`
	ItemSubtotal     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"itemSubtotal"`
	CGSTAmount       decimal.Decimal `gorm:"column:cgst_amount;type:decimal(18,4);not null;default:0" json:"cgstAmount"`
	SGSTAmount       decimal.Decimal `gorm:"column:sgst_amount;type:decimal(18,4);not null;default:0" json:"sgstAmount"`
	IGSTAmount       decimal.Decimal `gorm:"column:igst_amount;type:decimal(18,4);not null;default:0" json:"igstAmount"`
	ItemTotalWithTax decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"itemTotalWithTax"`
}

// Recalculate derives item amounts and order totals.
func (po *PurchaseOrder) Recalculate() {
	total := decimal.Zero
	withTax := decimal.Zero
	for i := range po.Items {
		item := &po.Items[i]
		item.ItemSubtotal = item.Quantity.Mul(item.Price).Sub(item.Discount)
		item.CGSTAmount = item.CGST.Div(hundred).Mul(item.ItemSubtotal)
		item.SGSTAmount = item.SGST.Div(hundred).Mul(item.ItemSubtotal)
		item.IGSTAmount = item.IGST.Div(hundred).Mul(item.ItemSubtotal)
		item.ItemTotalWithTax = item.ItemSubtotal.Add(item.CGSTAmount).Add(item.SGSTAmount).Add(item.IGSTAmount)

		total = total.Add(item.ItemSubtotal)
		withTax = withTax.Add(item.ItemTotalWithTax)
	}
	po.Total = total
	po.FinalTotal = withTax.Sub(po.TaxDiscount)
}

// CanTransitionTo reports whether the status change is allowed. Approved and rejected are terminal.
func (po *PurchaseOrder) CanTransitionTo(status string) bool {
	if po.Status != POStatusDraft && po.Status != POStatusPending {
		return false
	}
	switch status {
	case POStatusPending:
		return po.Status == POStatusDraft
	case POStatusApproved, POStatusRejected:
		return true
	}
	return false
}
