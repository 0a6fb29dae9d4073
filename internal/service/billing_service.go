package service

import (
	"context"
	"strings"
	"time"

	ierr "erp/internal/errors"
	"erp/internal/logger"
	"erp/internal/model"
	"erp/internal/repository"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type BillingItemPayload struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

type CreateBillingRequest struct {
	Category      string               `json:"category" binding:"required"`
	CompanyID     string               `json:"companyId" binding:"omitempty,uuid"`
	FinancialYear string               `json:"financialYear"`
	SalesOrderID  string               `json:"salesOrderId" binding:"omitempty,uuid"`
	CustomerName  string               `json:"customerName"`
	BillingDate   string               `json:"billingDate"` // YYYY-MM-DD
	Items         []BillingItemPayload `json:"items"`
	Discount      decimal.Decimal      `json:"discount"`
	CGST          decimal.Decimal      `json:"cgst"`
	SGST          decimal.Decimal      `json:"sgst"`
	IGST          decimal.Decimal      `json:"igst"`
	Remarks       string               `json:"remarks"`
}

// UpdateBillingRequest only touches the fields that are present. The
// category and document number of a billing never change.
type UpdateBillingRequest struct {
	CustomerName *string               `json:"customerName"`
	BillingDate  *string               `json:"billingDate"`
	SalesOrderID *string               `json:"salesOrderId"`
	Items        *[]BillingItemPayload `json:"items"`
	Discount     *decimal.Decimal      `json:"discount"`
	CGST         *decimal.Decimal      `json:"cgst"`
	SGST         *decimal.Decimal      `json:"sgst"`
	IGST         *decimal.Decimal      `json:"igst"`
	Remarks      *string               `json:"remarks"`
}

type BillingListRequest struct {
	CompanyID     string
	FinancialYear string
	Page          int
	Limit         int
}

type BillingItemResponse struct {
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	Price       string `json:"price"`
	Amount      string `json:"amount"`
}

type BillingResponse struct {
	ID            string                `json:"id"`
	CategoryID    string                `json:"categoryId"`
	Category      string                `json:"category"`
	DocNumber     string                `json:"docnumber"`
	CompanyID     string                `json:"companyId,omitempty"`
	FinancialYear string                `json:"financialYear,omitempty"`
	SalesOrderID  string                `json:"salesOrderId,omitempty"`
	CustomerName  string                `json:"customerName"`
	BillingDate   string                `json:"billingDate,omitempty"`
	Items         []BillingItemResponse `json:"items"`
	Discount      string                `json:"discount"`
	CGST          string                `json:"cgst"`
	SGST          string                `json:"sgst"`
	IGST          string                `json:"igst"`
	TotalAmount   string                `json:"totalAmount"`
	NetAmount     string                `json:"netAmount"`
	CGSTAmount    string                `json:"cgstAmt"`
	SGSTAmount    string                `json:"sgstAmt"`
	IGSTAmount    string                `json:"igstAmt"`
	FinalTotal    string                `json:"finalTotal"`
	Remarks       string                `json:"remarks"`
	CreatedAt     string                `json:"createdAt"`
	UpdatedAt     string                `json:"updatedAt"`
}

type CreateBillingResponse struct {
	Message   string          `json:"message"`
	DocNumber string          `json:"docnumber"`
	Billing   BillingResponse `json:"billing"`
}

// --- Interface ---

type BillingService interface {
	CreateBilling(ctx context.Context, req CreateBillingRequest) (CreateBillingResponse, error)
	ListBillings(ctx context.Context, req BillingListRequest) ([]BillingResponse, int64, error)
	GetBilling(ctx context.Context, id string) (BillingResponse, error)
	UpdateBilling(ctx context.Context, id string, req UpdateBillingRequest) (BillingResponse, error)
}

type billingService struct {
	repo      repository.BillingRepository
	allocator NumberAllocator
	txManager repository.TransactionManager
	audit     AuditRecorder
	logger    *logger.Logger
}

func NewBillingService(
	repo repository.BillingRepository,
	allocator NumberAllocator,
	txManager repository.TransactionManager,
	audit AuditRecorder,
	log *logger.Logger,
) BillingService {
	return &billingService{
		repo:      repo,
		allocator: allocator,
		txManager: txManager,
		audit:     audit,
		logger:    log,
	}
}

const moneyPlaces = 2

func toBillingResponse(b *model.Billing) BillingResponse {
	items := lo.Map(b.Items, func(item model.BillingItem, _ int) BillingItemResponse {
		return BillingItemResponse{
			Description: item.Description,
			Quantity:    item.Quantity.String(),
			Price:       item.Price.StringFixed(moneyPlaces),
			Amount:      item.Quantity.Mul(item.Price).StringFixed(moneyPlaces),
		}
	})

	return BillingResponse{
		ID:            b.ID.String(),
		CategoryID:    b.CategoryID.String(),
		Category:      b.Category,
		DocNumber:     b.DocNumber,
		CompanyID:     uuidString(b.CompanyID),
		FinancialYear: b.FinancialYear,
		SalesOrderID:  uuidString(b.SalesOrderID),
		CustomerName:  b.CustomerName,
		BillingDate:   formatDate(b.BillingDate),
		Items:         items,
		Discount:      b.Discount.StringFixed(moneyPlaces),
		CGST:          b.CGSTPercent.String(),
		SGST:          b.SGSTPercent.String(),
		IGST:          b.IGSTPercent.String(),
		TotalAmount:   b.TotalAmount.StringFixed(moneyPlaces),
		NetAmount:     b.NetAmount.StringFixed(moneyPlaces),
		CGSTAmount:    b.CGSTAmount.StringFixed(moneyPlaces),
		SGSTAmount:    b.SGSTAmount.StringFixed(moneyPlaces),
		IGSTAmount:    b.IGSTAmount.StringFixed(moneyPlaces),
		FinalTotal:    b.FinalTotal.StringFixed(moneyPlaces),
		Remarks:       b.Remarks,
		CreatedAt:     b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     b.UpdatedAt.Format(time.RFC3339),
	}
}

func toBillingItems(payload []BillingItemPayload) ([]model.BillingItem, error) {
	items := make([]model.BillingItem, 0, len(payload))
	for i, p := range payload {
		if p.Quantity.IsNegative() || p.Price.IsNegative() {
			return nil, ierr.NewErrorf("item %d has negative quantity or price", i).
				WithHintf("Item %d: quantity and price must not be negative", i+1).
				Mark(ierr.ErrValidation)
		}
		items = append(items, model.BillingItem{
			Description: strings.TrimSpace(p.Description),
			Quantity:    p.Quantity,
			Price:       p.Price,
		})
	}
	return items, nil
}

func validatePercents(values ...decimal.Decimal) error {
	for _, v := range values {
		if v.IsNegative() || v.GreaterThan(hundredPercent) {
			return ierr.NewErrorf("tax percent %s out of range", v).
				WithHint("Tax percentages must be between 0 and 100").
				Mark(ierr.ErrValidation)
		}
	}
	return nil
}

var hundredPercent = decimal.NewFromInt(100)

// --- Implementation ---

// CreateBilling allocates the next number of the named BILLING category and
// inserts the billing in the same transaction.
func (s *billingService) CreateBilling(ctx context.Context, req CreateBillingRequest) (CreateBillingResponse, error) {
	categoryName := strings.TrimSpace(req.Category)
	if categoryName == "" {
		return CreateBillingResponse{}, ierr.NewError("empty category").
			WithHint("Category is required").
			Mark(ierr.ErrValidation)
	}

	companyID, err := parseOptionalID(req.CompanyID, "companyId")
	if err != nil {
		return CreateBillingResponse{}, err
	}
	salesOrderID, err := parseOptionalID(req.SalesOrderID, "salesOrderId")
	if err != nil {
		return CreateBillingResponse{}, err
	}
	billingDate, err := parseDate(req.BillingDate, "billingDate")
	if err != nil {
		return CreateBillingResponse{}, err
	}
	items, err := toBillingItems(req.Items)
	if err != nil {
		return CreateBillingResponse{}, err
	}
	if err := validatePercents(req.CGST, req.SGST, req.IGST); err != nil {
		return CreateBillingResponse{}, err
	}

	billing := model.Billing{
		CompanyID:     companyID,
		FinancialYear: strings.TrimSpace(req.FinancialYear),
		SalesOrderID:  salesOrderID,
		CustomerName:  strings.TrimSpace(req.CustomerName),
		BillingDate:   billingDate,
		Items:         items,
		Discount:      req.Discount,
		CGSTPercent:   req.CGST,
		SGSTPercent:   req.SGST,
		IGSTPercent:   req.IGST,
		Remarks:       req.Remarks,
	}
	billing.Recalculate()

	lookup := repository.CategoryLookup{
		Kind:          model.CategoryKindBilling,
		Name:          categoryName,
		CompanyID:     companyID,
		FinancialYear: billing.FinancialYear,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		alloc, err := s.allocator.Allocate(txCtx, lookup)
		if err != nil {
			return err
		}

		billing.CategoryID = alloc.Category.ID
		billing.Category = alloc.Category.CategoryName
		billing.DocNumber = alloc.DocNumber()
		if billing.CompanyID == nil {
			billing.CompanyID = &alloc.Category.CompanyID
		}

		return s.repo.Create(txCtx, &billing)
	})
	if err != nil {
		return CreateBillingResponse{}, err
	}

	s.audit.Record(ctx, model.ActionCreateBilling, billing.ID.String(), billing.Category+" #"+billing.DocNumber, map[string]string{
		"category":   billing.Category,
		"docnumber":  billing.DocNumber,
		"finalTotal": billing.FinalTotal.StringFixed(moneyPlaces),
	})
	s.logger.Infow("billing created", "billing_id", billing.ID, "category", billing.Category, "docnumber", billing.DocNumber)

	return CreateBillingResponse{
		Message:   "Billing created",
		DocNumber: billing.DocNumber,
		Billing:   toBillingResponse(&billing),
	}, nil
}

func (s *billingService) ListBillings(ctx context.Context, req BillingListRequest) ([]BillingResponse, int64, error) {
	companyID, err := parseOptionalID(req.CompanyID, "companyId")
	if err != nil {
		return nil, 0, err
	}

	billings, total, err := s.repo.List(ctx, repository.BillingListFilter{
		CompanyID:     companyID,
		FinancialYear: req.FinancialYear,
		Page:          req.Page,
		Limit:         req.Limit,
	})
	if err != nil {
		return nil, 0, err
	}

	return lo.Map(billings, func(b model.Billing, _ int) BillingResponse {
		return toBillingResponse(&b)
	}), total, nil
}

func (s *billingService) GetBilling(ctx context.Context, id string) (BillingResponse, error) {
	billingID, err := parseID(id, "billing id")
	if err != nil {
		return BillingResponse{}, err
	}

	billing, err := s.repo.FindByID(ctx, billingID)
	if err != nil {
		return BillingResponse{}, err
	}
	return toBillingResponse(billing), nil
}

func (s *billingService) UpdateBilling(ctx context.Context, id string, req UpdateBillingRequest) (BillingResponse, error) {
	billingID, err := parseID(id, "billing id")
	if err != nil {
		return BillingResponse{}, err
	}

	var billing *model.Billing
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		billing, err = s.repo.FindByID(txCtx, billingID)
		if err != nil {
			return err
		}
		if err := applyBillingUpdate(billing, req); err != nil {
			return err
		}
		billing.Recalculate()
		return s.repo.Update(txCtx, billing)
	})
	if err != nil {
		return BillingResponse{}, err
	}

	s.audit.Record(ctx, model.ActionUpdateBilling, billing.ID.String(), billing.Category+" #"+billing.DocNumber, req)

	return toBillingResponse(billing), nil
}

func applyBillingUpdate(billing *model.Billing, req UpdateBillingRequest) error {
	if req.CustomerName != nil {
		billing.CustomerName = strings.TrimSpace(*req.CustomerName)
	}
	if req.BillingDate != nil {
		date, err := parseDate(*req.BillingDate, "billingDate")
		if err != nil {
			return err
		}
		billing.BillingDate = date
	}
	if req.SalesOrderID != nil {
		salesOrderID, err := parseOptionalID(*req.SalesOrderID, "salesOrderId")
		if err != nil {
			return err
		}
		billing.SalesOrderID = salesOrderID
	}
	if req.Items != nil {
		items, err := toBillingItems(*req.Items)
		if err != nil {
			return err
		}
		billing.Items = items
	}
	if req.Discount != nil {
		billing.Discount = *req.Discount
	}
	if req.CGST != nil {
		billing.CGSTPercent = *req.CGST
	}
	if req.SGST != nil {
		billing.SGSTPercent = *req.SGST
	}
	if req.IGST != nil {
		billing.IGSTPercent = *req.IGST
	}
	if req.Remarks != nil {
		billing.Remarks = *req.Remarks
	}
	return validatePercents(billing.CGSTPercent, billing.SGSTPercent, billing.IGSTPercent)
}
