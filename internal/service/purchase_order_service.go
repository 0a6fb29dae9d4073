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

type PurchaseOrderItemPayload struct {
	MaterialID    string          `json:"materialId"`
	Description   string          `json:"description"`
	Quantity      decimal.Decimal `json:"quantity"`
	BaseUnit      string          `json:"baseUnit"`
	OrderUnit     string          `json:"orderUnit"`
	Unit          string          `json:"unit"`
	Price         decimal.Decimal `json:"price"`
	PriceUnit     string          `json:"priceUnit"`
	MaterialGroup string          `json:"materialgroup"`
	BuyerGroup    string          `json:"buyerGroup"`
	DeliveryDate  string          `json:"deliveryDate"`
	CGST          decimal.Decimal `json:"cgst"`
	SGST          decimal.Decimal `json:"sgst"`
	IGST          decimal.Decimal `json:"igst"`
	Discount      decimal.Decimal `json:"discount"`
}

// PurchaseOrderRequest is used for create and update. When Category is set on
// create, PONumber is allocated from that PURCHASE_ORDER category.
type PurchaseOrderRequest struct {
	PONumber          string                     `json:"poNumber"`
	Category          string                     `json:"category"`
	Date              string                     `json:"date"`
	Vendor            string                     `json:"vendor" binding:"required"`
	DeliveryLocation  string                     `json:"deliveryLocation"`
	DeliveryAddress   string                     `json:"deliveryAddress"`
	QuotationID       string                     `json:"quotationId" binding:"omitempty,uuid"`
	QuotationNumber   string                     `json:"quotationNumber"`
	Items             []PurchaseOrderItemPayload `json:"items" binding:"required,min=1"`
	Remarks           string                     `json:"remarks"`
	ApprovedBy        string                     `json:"approvedby"`
	PreparedBy        string                     `json:"preparedby"`
	Notes             string                     `json:"notes"`
	Processes         []string                   `json:"processes"`
	GeneralConditions []string                   `json:"generalConditions"`
	TaxName           string                     `json:"taxName"`
	CGST              decimal.Decimal            `json:"cgst"`
	SGST              decimal.Decimal            `json:"sgst"`
	IGST              decimal.Decimal            `json:"igst"`
	TaxDiscount       decimal.Decimal            `json:"taxDiscount"`
	CompanyID         string                     `json:"companyId" binding:"omitempty,uuid"`
	FinancialYear     string                     `json:"financialYear"`
}

type ChangePOStatusRequest struct {
	Status   string `json:"status" binding:"required,oneof=pending approved rejected"`
	Comments string `json:"comments"`
}

type PurchaseOrderListFilter struct {
	CompanyID     string
	FinancialYear string
	Status        string
	Page          int
	Limit         int
}

// --- Interface ---

type PurchaseOrderService interface {
	CreatePurchaseOrder(ctx context.Context, req PurchaseOrderRequest) (*model.PurchaseOrder, error)
	ListPurchaseOrders(ctx context.Context, filter PurchaseOrderListFilter) ([]model.PurchaseOrder, int64, error)
	GetPurchaseOrder(ctx context.Context, id string) (*model.PurchaseOrder, error)
	UpdatePurchaseOrder(ctx context.Context, id string, req PurchaseOrderRequest) (*model.PurchaseOrder, error)
	ChangeStatus(ctx context.Context, id string, req ChangePOStatusRequest, approver string) (*model.PurchaseOrder, error)
}

type purchaseOrderService struct {
	repo      repository.PurchaseOrderRepository
	allocator NumberAllocator
	txManager repository.TransactionManager
	audit     AuditRecorder
	logger    *logger.Logger
	now       func() time.Time
}

func NewPurchaseOrderService(
	repo repository.PurchaseOrderRepository,
	allocator NumberAllocator,
	txManager repository.TransactionManager,
	audit AuditRecorder,
	log *logger.Logger,
) PurchaseOrderService {
	return &purchaseOrderService{
		repo:      repo,
		allocator: allocator,
		txManager: txManager,
		audit:     audit,
		logger:    log,
		now:       time.Now,
	}
}

func toPurchaseOrderItems(payload []PurchaseOrderItemPayload) ([]model.PurchaseOrderItem, error) {
	items := make([]model.PurchaseOrderItem, 0, len(payload))
	for i, p := range payload {
		if p.Quantity.IsNegative() || p.Price.IsNegative() || p.Discount.IsNegative() {
			return nil, ierr.NewErrorf("item %d has a negative amount", i).
				WithHintf("Item %d: quantity, price and discount must not be negative", i+1).
				Mark(ierr.ErrValidation)
		}
		if err := validatePercents(p.CGST, p.SGST, p.IGST); err != nil {
			return nil, err
		}
		items = append(items, model.PurchaseOrderItem{
			MaterialID:    strings.TrimSpace(p.MaterialID),
			Description:   p.Description,
			Quantity:      p.Quantity,
			BaseUnit:      p.BaseUnit,
			OrderUnit:     p.OrderUnit,
			Unit:          p.Unit,
			Price:         p.Price,
			PriceUnit:     p.PriceUnit,
			MaterialGroup: p.MaterialGroup,
			BuyerGroup:    p.BuyerGroup,
			DeliveryDate:  p.DeliveryDate,
			CGST:          p.CGST,
			SGST:          p.SGST,
			IGST:          p.IGST,
			Discount:      p.Discount,
		})
	}
	return items, nil
}

// applyPurchaseOrderRequest copies the editable header and items. Number, category and status are left alone.
func applyPurchaseOrderRequest(po *model.PurchaseOrder, req PurchaseOrderRequest) error {
	quotationID, err := parseOptionalID(req.QuotationID, "quotationId")
	if err != nil {
		return err
	}
	companyID, err := parseOptionalID(req.CompanyID, "companyId")
	if err != nil {
		return err
	}
	items, err := toPurchaseOrderItems(req.Items)
	if err != nil {
		return err
	}
	if err := validatePercents(req.CGST, req.SGST, req.IGST); err != nil {
		return err
	}

	po.Date = strings.TrimSpace(req.Date)
	po.Vendor = strings.TrimSpace(req.Vendor)
	po.DeliveryLocation = req.DeliveryLocation
	po.DeliveryAddress = req.DeliveryAddress
	po.QuotationID = quotationID
	po.QuotationNumber = req.QuotationNumber
	po.Items = items
	po.Remarks = req.Remarks
	po.ApprovedBy = req.ApprovedBy
	po.PreparedBy = req.PreparedBy
	po.Notes = req.Notes
	po.Processes = req.Processes
	po.GeneralConditions = req.GeneralConditions
	po.TaxName = req.TaxName
	po.CGST = req.CGST
	po.SGST = req.SGST
	po.IGST = req.IGST
	po.TaxDiscount = req.TaxDiscount
	po.CompanyID = companyID
	po.FinancialYear = strings.TrimSpace(req.FinancialYear)
	po.Recalculate()
	return nil
}

// --- Implementation ---

func (s *purchaseOrderService) CreatePurchaseOrder(ctx context.Context, req PurchaseOrderRequest) (*model.PurchaseOrder, error) {
	po := &model.PurchaseOrder{Status: model.POStatusDraft}
	if err := applyPurchaseOrderRequest(po, req); err != nil {
		return nil, err
	}

	categoryName := strings.TrimSpace(req.Category)
	if categoryName == "" && strings.TrimSpace(req.PONumber) == "" {
		return nil, ierr.NewError("no category and no po number").
			WithHint("Either category or poNumber is required").
			Mark(ierr.ErrValidation)
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if categoryName != "" {
			alloc, err := s.allocator.Allocate(txCtx, repository.CategoryLookup{
				Kind:          model.CategoryKindPurchaseOrder,
				Name:          categoryName,
				CompanyID:     po.CompanyID,
				FinancialYear: po.FinancialYear,
			})
			if err != nil {
				return err
			}
			po.PONumber = alloc.DocNumber()
			po.CategoryID = &alloc.Category.ID
			po.Category = alloc.Category.CategoryName
		} else {
			po.PONumber = strings.TrimSpace(req.PONumber)
		}
		return s.repo.Create(txCtx, po)
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, model.ActionCreatePurchaseOrder, po.ID.String(), "PO "+po.PONumber, map[string]string{
		"poNumber":   po.PONumber,
		"vendor":     po.Vendor,
		"finalTotal": po.FinalTotal.StringFixed(moneyPlaces),
	})
	s.logger.Infow("purchase order created", "po_id", po.ID, "po_number", po.PONumber)

	return po, nil
}

func (s *purchaseOrderService) ListPurchaseOrders(ctx context.Context, filter PurchaseOrderListFilter) ([]model.PurchaseOrder, int64, error) {
	companyID, err := parseOptionalID(filter.CompanyID, "companyId")
	if err != nil {
		return nil, 0, err
	}
	if filter.Status != "" && !lo.Contains([]string{
		model.POStatusDraft, model.POStatusPending, model.POStatusApproved, model.POStatusRejected,
	}, filter.Status) {
		return nil, 0, ierr.NewErrorf("unknown status %q", filter.Status).
			WithHint("Unknown purchase order status").
			Mark(ierr.ErrValidation)
	}

	return s.repo.List(ctx, repository.PurchaseOrderFilter{
		CompanyID:     companyID,
		FinancialYear: filter.FinancialYear,
		Status:        filter.Status,
		Page:          filter.Page,
		Limit:         filter.Limit,
	})
}

func (s *purchaseOrderService) GetPurchaseOrder(ctx context.Context, id string) (*model.PurchaseOrder, error) {
	poID, err := parseID(id, "purchase order id")
	if err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, poID)
}

// UpdatePurchaseOrder edits a draft or pending order. Approved and rejected orders are frozen.
func (s *purchaseOrderService) UpdatePurchaseOrder(ctx context.Context, id string, req PurchaseOrderRequest) (*model.PurchaseOrder, error) {
	poID, err := parseID(id, "purchase order id")
	if err != nil {
		return nil, err
	}

	var po *model.PurchaseOrder
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		po, err = s.repo.FindByIDForUpdate(txCtx, poID)
		if err != nil {
			return err
		}
		if po.Status == model.POStatusApproved || po.Status == model.POStatusRejected {
			return ierr.NewErrorf("purchase order %s is %s", po.ID, po.Status).
				WithHintf("Purchase order is %s and can no longer be edited", po.Status).
				Mark(ierr.ErrInvalidOperation)
		}
		if err := applyPurchaseOrderRequest(po, req); err != nil {
			return err
		}
		return s.repo.Update(txCtx, po)
	})
	if err != nil {
		return nil, err
	}
	return po, nil
}

// ChangeStatus moves the order along its workflow. The check and the write run
// under the order's row lock so concurrent decisions cannot both pass the check.
func (s *purchaseOrderService) ChangeStatus(ctx context.Context, id string, req ChangePOStatusRequest, approver string) (*model.PurchaseOrder, error) {
	poID, err := parseID(id, "purchase order id")
	if err != nil {
		return nil, err
	}

	var (
		po       *model.PurchaseOrder
		previous string
	)
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		po, err = s.repo.FindByIDForUpdate(txCtx, poID)
		if err != nil {
			return err
		}

		if !po.CanTransitionTo(req.Status) {
			return ierr.NewErrorf("transition %s -> %s", po.Status, req.Status).
				WithHintf("Cannot change status from %s to %s", po.Status, req.Status).
				Mark(ierr.ErrInvalidOperation)
		}

		previous = po.Status
		po.Status = req.Status
		po.ApprovalComments = req.Comments
		if req.Status == model.POStatusApproved || req.Status == model.POStatusRejected {
			po.ApprovalDate = s.now().Format(model.DateLayout)
			if approver != "" {
				po.ApprovedBy = approver
			}
		}

		return s.repo.UpdateStatus(txCtx, po)
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, model.ActionChangePOStatus, po.ID.String(), "PO "+po.PONumber, map[string]string{
		"from":     previous,
		"to":       po.Status,
		"comments": req.Comments,
	})
	s.logger.Infow("purchase order status changed", "po_id", po.ID, "from", previous, "to", po.Status)

	return po, nil
}
