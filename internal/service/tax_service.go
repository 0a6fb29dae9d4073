package service

import (
	"context"
	"strings"
	"time"

	ierr "erp/internal/errors"
	"erp/internal/model"
	"erp/internal/repository"

	"github.com/samber/lo"
)

// --- DTOs ---

type TaxRequest struct {
	TaxCode       string `json:"taxCode" binding:"required,max=4"`
	TaxName       string `json:"taxName" binding:"required,max=25"`
	CGST          string `json:"cgst" binding:"omitempty,max=2,numeric"`
	SGST          string `json:"sgst" binding:"omitempty,max=2,numeric"`
	IGST          string `json:"igst" binding:"omitempty,max=2,numeric"`
	CompanyID     string `json:"companyId" binding:"required,uuid"`
	FinancialYear string `json:"financialYear" binding:"required"`
}

type TaxListFilter struct {
	CompanyID     string
	FinancialYear string
}

type TaxResponse struct {
	ID            string `json:"id"`
	TaxCode       string `json:"taxCode"`
	TaxName       string `json:"taxName"`
	CGST          string `json:"cgst"`
	SGST          string `json:"sgst"`
	IGST          string `json:"igst"`
	CompanyID     string `json:"companyId"`
	FinancialYear string `json:"financialYear"`
	CreatedAt     string `json:"createdAt"`
	UpdatedAt     string `json:"updatedAt"`
}

// --- Interface ---

type TaxService interface {
	GetTaxes(ctx context.Context, filter TaxListFilter) ([]TaxResponse, error)
	GetTax(ctx context.Context, id string) (TaxResponse, error)
	CreateTax(ctx context.Context, req TaxRequest) (TaxResponse, error)
	UpdateTax(ctx context.Context, id string, req TaxRequest) (TaxResponse, error)
	DeleteTax(ctx context.Context, id string) error
}

type taxService struct {
	repo  repository.TaxRepository
	audit AuditRecorder
}

func NewTaxService(repo repository.TaxRepository, audit AuditRecorder) TaxService {
	return &taxService{repo: repo, audit: audit}
}

func toTaxResponse(t *model.Tax) TaxResponse {
	return TaxResponse{
		ID:            t.ID.String(),
		TaxCode:       t.TaxCode,
		TaxName:       t.TaxName,
		CGST:          t.CGST,
		SGST:          t.SGST,
		IGST:          t.IGST,
		CompanyID:     t.CompanyID.String(),
		FinancialYear: t.FinancialYear,
		CreatedAt:     t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     t.UpdatedAt.Format(time.RFC3339),
	}
}

func applyTaxRequest(tax *model.Tax, req TaxRequest) error {
	companyID, err := parseID(req.CompanyID, "companyId")
	if err != nil {
		return err
	}
	tax.TaxCode = strings.TrimSpace(req.TaxCode)
	tax.TaxName = strings.TrimSpace(req.TaxName)
	tax.CGST = strings.TrimSpace(req.CGST)
	tax.SGST = strings.TrimSpace(req.SGST)
	tax.IGST = strings.TrimSpace(req.IGST)
	tax.CompanyID = companyID
	tax.FinancialYear = strings.TrimSpace(req.FinancialYear)

	if tax.TaxCode == "" || tax.TaxName == "" || tax.FinancialYear == "" {
		return ierr.NewError("missing tax fields").
			WithHint("taxCode, taxName and financialYear are required").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// --- Implementation ---

func (s *taxService) GetTaxes(ctx context.Context, filter TaxListFilter) ([]TaxResponse, error) {
	companyID, err := parseOptionalID(filter.CompanyID, "companyId")
	if err != nil {
		return nil, err
	}

	taxes, err := s.repo.List(ctx, repository.TaxFilter{
		CompanyID:     companyID,
		FinancialYear: filter.FinancialYear,
	})
	if err != nil {
		return nil, err
	}

	return lo.Map(taxes, func(t model.Tax, _ int) TaxResponse {
		return toTaxResponse(&t)
	}), nil
}

func (s *taxService) GetTax(ctx context.Context, id string) (TaxResponse, error) {
	taxID, err := parseID(id, "tax id")
	if err != nil {
		return TaxResponse{}, err
	}
	tax, err := s.repo.FindByID(ctx, taxID)
	if err != nil {
		return TaxResponse{}, err
	}
	return toTaxResponse(tax), nil
}

func (s *taxService) CreateTax(ctx context.Context, req TaxRequest) (TaxResponse, error) {
	var tax model.Tax
	if err := applyTaxRequest(&tax, req); err != nil {
		return TaxResponse{}, err
	}

	if err := s.repo.Create(ctx, &tax); err != nil {
		return TaxResponse{}, err
	}

	s.audit.Record(ctx, model.ActionCreateTax, tax.ID.String(), tax.TaxCode+" "+tax.TaxName, req)

	return toTaxResponse(&tax), nil
}

func (s *taxService) UpdateTax(ctx context.Context, id string, req TaxRequest) (TaxResponse, error) {
	taxID, err := parseID(id, "tax id")
	if err != nil {
		return TaxResponse{}, err
	}

	tax, err := s.repo.FindByID(ctx, taxID)
	if err != nil {
		return TaxResponse{}, err
	}
	if err := applyTaxRequest(tax, req); err != nil {
		return TaxResponse{}, err
	}

	if err := s.repo.Update(ctx, tax); err != nil {
		return TaxResponse{}, err
	}

	s.audit.Record(ctx, model.ActionUpdateTax, tax.ID.String(), tax.TaxCode+" "+tax.TaxName, req)

	return toTaxResponse(tax), nil
}

func (s *taxService) DeleteTax(ctx context.Context, id string) error {
	taxID, err := parseID(id, "tax id")
	if err != nil {
		return err
	}

	tax, err := s.repo.FindByID(ctx, taxID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, tax.ID); err != nil {
		return err
	}

	s.audit.Record(ctx, model.ActionDeleteTax, tax.ID.String(), tax.TaxCode+" "+tax.TaxName, map[string]string{"deletedId": id})

	return nil
}
