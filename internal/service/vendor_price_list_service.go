package service

import (
	"context"
	"strings"
	"time"

	ierr "erp/internal/errors"
	"erp/internal/model"
	"erp/internal/repository"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type VendorPriceListRequest struct {
	CategoryID    string          `json:"categoryId" binding:"required,uuid"`
	VendorID      string          `json:"vendorId" binding:"required,uuid"`
	MaterialID    string          `json:"materialId" binding:"required,uuid"`
	Unit          string          `json:"unit" binding:"required"`
	BUM           float64         `json:"bum"`
	Buyer         string          `json:"buyer"`
	Price         decimal.Decimal `json:"price"`
	TaxID         string          `json:"taxId" binding:"omitempty,uuid"`
	OrderUnit     float64         `json:"orderUnit"`
	CompanyID     string          `json:"companyId" binding:"omitempty,uuid"`
	FinancialYear string          `json:"financialYear"`
}

type VendorPriceListFilter struct {
	CompanyID     string
	VendorID      string
	FinancialYear string
	Page          int
	Limit         int
}

type VendorPriceListResponse struct {
	ID            string       `json:"id"`
	CategoryID    string       `json:"categoryId"`
	VendorID      string       `json:"vendorId"`
	MaterialID    string       `json:"materialId"`
	Unit          string       `json:"unit"`
	BUM           float64      `json:"bum"`
	Buyer         string       `json:"buyer"`
	Price         string       `json:"price"`
	TaxID         string       `json:"taxId,omitempty"`
	Tax           *TaxResponse `json:"tax,omitempty"`
	OrderUnit     float64      `json:"orderUnit"`
	CompanyID     string       `json:"companyId,omitempty"`
	FinancialYear string       `json:"financialYear,omitempty"`
	CreatedAt     string       `json:"createdAt"`
	UpdatedAt     string       `json:"updatedAt"`
}

type VendorPriceListService interface {
	CreatePriceList(ctx context.Context, req VendorPriceListRequest) (VendorPriceListResponse, error)
	ListPriceLists(ctx context.Context, filter VendorPriceListFilter) ([]VendorPriceListResponse, int64, error)
	GetPriceList(ctx context.Context, id string) (VendorPriceListResponse, error)
	UpdatePriceList(ctx context.Context, id string, req VendorPriceListRequest) (VendorPriceListResponse, error)
	DeletePriceList(ctx context.Context, id string) error
}

type vendorPriceListService struct {
	repo    repository.VendorPriceListRepository
	taxRepo repository.TaxRepository
}

func NewVendorPriceListService(repo repository.VendorPriceListRepository, taxRepo repository.TaxRepository) VendorPriceListService {
	return &vendorPriceListService{repo: repo, taxRepo: taxRepo}
}

func toVendorPriceListResponse(v *model.VendorPriceList) VendorPriceListResponse {
	res := VendorPriceListResponse{
		ID:            v.ID.String(),
		CategoryID:    v.CategoryID.String(),
		VendorID:      v.VendorID.String(),
		MaterialID:    v.MaterialID.String(),
		Unit:          v.Unit,
		BUM:           v.BUM,
		Buyer:         v.Buyer,
		Price:         v.Price.StringFixed(moneyPlaces),
		TaxID:         uuidString(v.TaxID),
		OrderUnit:     v.OrderUnit,
		CompanyID:     uuidString(v.CompanyID),
		FinancialYear: v.FinancialYear,
		CreatedAt:     v.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     v.UpdatedAt.Format(time.RFC3339),
	}
	if v.Tax != nil {
		tax := toTaxResponse(v.Tax)
		res.Tax = &tax
	}
	return res
}

// applyPriceListRequest validates the payload and checks the referenced tax exists.
func (s *vendorPriceListService) applyPriceListRequest(ctx context.Context, entry *model.VendorPriceList, req VendorPriceListRequest) error {
	categoryID, err := parseID(req.CategoryID, "categoryId")
	if err != nil {
		return err
	}
	vendorID, err := parseID(req.VendorID, "vendorId")
	if err != nil {
		return err
	}
	materialID, err := parseID(req.MaterialID, "materialId")
	if err != nil {
		return err
	}
	taxID, err := parseOptionalID(req.TaxID, "taxId")
	if err != nil {
		return err
	}
	companyID, err := parseOptionalID(req.CompanyID, "companyId")
	if err != nil {
		return err
	}
	if !req.Price.IsPositive() {
		return ierr.NewError("non-positive price").
			WithHint("price must be greater than zero").
			Mark(ierr.ErrValidation)
	}

	if taxID != nil {
		if _, err := s.taxRepo.FindByID(ctx, *taxID); err != nil {
			if ierr.IsNotFound(err) {
				return ierr.WithError(err).
					WithHint("Referenced tax does not exist").
					Mark(ierr.ErrValidation)
			}
			return err
		}
	}

	entry.CategoryID = categoryID
	entry.VendorID = vendorID
	entry.MaterialID = materialID
	entry.Unit = strings.TrimSpace(req.Unit)
	entry.BUM = req.BUM
	entry.Buyer = strings.TrimSpace(req.Buyer)
	entry.Price = req.Price
	entry.TaxID = taxID
	entry.Tax = nil
	entry.OrderUnit = req.OrderUnit
	entry.CompanyID = companyID
	entry.FinancialYear = strings.TrimSpace(req.FinancialYear)
	return nil
}

func (s *vendorPriceListService) CreatePriceList(ctx context.Context, req VendorPriceListRequest) (VendorPriceListResponse, error) {
	var entry model.VendorPriceList
	if err := s.applyPriceListRequest(ctx, &entry, req); err != nil {
		return VendorPriceListResponse{}, err
	}
	if err := s.repo.Create(ctx, &entry); err != nil {
		return VendorPriceListResponse{}, err
	}
	return toVendorPriceListResponse(&entry), nil
}

func (s *vendorPriceListService) ListPriceLists(ctx context.Context, filter VendorPriceListFilter) ([]VendorPriceListResponse, int64, error) {
	companyID, err := parseOptionalID(filter.CompanyID, "companyId")
	if err != nil {
		return nil, 0, err
	}
	vendorID, err := parseOptionalID(filter.VendorID, "vendorId")
	if err != nil {
		return nil, 0, err
	}

	entries, total, err := s.repo.List(ctx, repository.PriceListFilter{
		CompanyID:     companyID,
		VendorID:      vendorID,
		FinancialYear: filter.FinancialYear,
		Page:          filter.Page,
		Limit:         filter.Limit,
	})
	if err != nil {
		return nil, 0, err
	}

	return lo.Map(entries, func(v model.VendorPriceList, _ int) VendorPriceListResponse {
		return toVendorPriceListResponse(&v)
	}), total, nil
}

func (s *vendorPriceListService) GetPriceList(ctx context.Context, id string) (VendorPriceListResponse, error) {
	entryID, err := parseID(id, "price list id")
	if err != nil {
		return VendorPriceListResponse{}, err
	}
	entry, err := s.repo.FindByID(ctx, entryID)
	if err != nil {
		return VendorPriceListResponse{}, err
	}
	return toVendorPriceListResponse(entry), nil
}

func (s *vendorPriceListService) UpdatePriceList(ctx context.Context, id string, req VendorPriceListRequest) (VendorPriceListResponse, error) {
	entryID, err := parseID(id, "price list id")
	if err != nil {
		return VendorPriceListResponse{}, err
	}
	entry, err := s.repo.FindByID(ctx, entryID)
	if err != nil {
		return VendorPriceListResponse{}, err
	}
	if err := s.applyPriceListRequest(ctx, entry, req); err != nil {
		return VendorPriceListResponse{}, err
	}
	if err := s.repo.Update(ctx, entry); err != nil {
		return VendorPriceListResponse{}, err
	}
	return toVendorPriceListResponse(entry), nil
}

func (s *vendorPriceListService) DeletePriceList(ctx context.Context, id string) error {
	entryID, err := parseID(id, "price list id")
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, entryID)
}
