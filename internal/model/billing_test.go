package model_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"erp/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestBilling_Recalculate(t *testing.T) {
	b := model.Billing{
		Items: []model.BillingItem{
			{Quantity: dec("2"), Price: dec("100")},
			{Quantity: dec("1"), Price: dec("50")},
		},
		Discount:    dec("50"),
		CGSTPercent: dec("9"),
		SGSTPercent: dec("9"),
	}

	b.Recalculate()

	assert.True(t, b.TotalAmount.Equal(dec("250")), b.TotalAmount.String())
	assert.True(t, b.NetAmount.Equal(dec("200")), b.NetAmount.String())
	assert.True(t, b.CGSTAmount.Equal(dec("18")), b.CGSTAmount.String())
	assert.True(t, b.SGSTAmount.Equal(dec("18")), b.SGSTAmount.String())
	assert.True(t, b.IGSTAmount.IsZero())
	assert.True(t, b.FinalTotal.Equal(dec("236")), b.FinalTotal.String())
}

func TestBilling_RecalculateNoItems(t *testing.T) {
	b := model.Billing{IGSTPercent: dec("18")}

	b.Recalculate()

	assert.True(t, b.TotalAmount.IsZero())
	assert.True(t, b.FinalTotal.IsZero())
}

func TestPurchaseOrder_Recalculate(t *testing.T) {
	po := model.PurchaseOrder{
		Items: []model.PurchaseOrderItem{
			{Quantity: dec("10"), Price: dec("5"), Discount: dec("5"), CGST: dec("10")},
			{Quantity: dec("1"), Price: dec("100"), IGST: dec("18")},
		},
		TaxDiscount: dec("0.5"),
	}

	po.Recalculate()

	assert.True(t, po.Items[0].ItemSubtotal.Equal(dec("45")))
	assert.True(t, po.Items[0].CGSTAmount.Equal(dec("4.5")))
	assert.True(t, po.Items[0].ItemTotalWithTax.Equal(dec("49.5")))
	assert.True(t, po.Items[1].IGSTAmount.Equal(dec("18")))
	assert.True(t, po.Total.Equal(dec("145")), po.Total.String())
	assert.True(t, po.FinalTotal.Equal(dec("167")), po.FinalTotal.String())
}

func TestPurchaseOrder_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from string
		to   string
		want bool
	}{
		{model.POStatusDraft, model.POStatusPending, true},
		{model.POStatusDraft, model.POStatusApproved, true},
		{model.POStatusPending, model.POStatusRejected, true},
		{model.POStatusPending, model.POStatusPending, false},
		{model.POStatusApproved, model.POStatusRejected, false},
		{model.POStatusRejected, model.POStatusApproved, false},
		{model.POStatusDraft, "shipped", false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			po := model.PurchaseOrder{Status: tt.from}
			assert.Equal(t, tt.want, po.CanTransitionTo(tt.to))
		})
	}
}

func TestNumberingCategory(t *testing.T) {
	end := int64(1002)
	c := model.NumberingCategory{RangeStart: 1000, RangeEnd: &end}

	_, ok := c.LastIssued()
	assert.False(t, ok)
	assert.Equal(t, int64(1000), c.NextNumber())

	c.IssuedCount = 3
	last, ok := c.LastIssued()
	assert.True(t, ok)
	assert.Equal(t, int64(1002), last)
	assert.True(t, c.Exhausted(c.NextNumber()))

	open := model.NumberingCategory{RangeStart: 1}
	assert.False(t, open.Exhausted(1_000_000))
}

func TestEmployee_FullName(t *testing.T) {
	assert.Equal(t, "Alice", (&model.Employee{FirstName: "Alice"}).FullName())
	assert.Equal(t, "Bob Smith", (&model.Employee{FirstName: "Bob", LastName: "Smith"}).FullName())
}
