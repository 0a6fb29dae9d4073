package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	ierr "erp/internal/errors"
	"erp/internal/logger"
	"erp/internal/model"
	"erp/internal/repository"

	"github.com/samber/lo"
)

// --- DTOs ---

type CreateCategoryRequest struct {
	CategoryName  string `json:"categoryName" binding:"required"`
	Prefix        string `json:"prefix" binding:"max=20"`
	RangeStart    *int64 `json:"rangeStart" binding:"required"`
	RangeEnd      *int64 `json:"rangeEnd" binding:"required"`
	CompanyID     string `json:"companyId" binding:"required,uuid"`
	FinancialYear string `json:"financialYear" binding:"max=20"`
}

// UpdateCategoryRequest only touches the fields that are present.
type UpdateCategoryRequest struct {
	CategoryName *string `json:"categoryName"`
	Prefix       *string `json:"prefix"`
	RangeStart   *int64  `json:"rangeStart"`
	RangeEnd     *int64  `json:"rangeEnd"`
}

type CategoryListFilter struct {
	CompanyID     string
	FinancialYear string
}

type CategoryResponse struct {
	ID            string `json:"id"`
	Kind          string `json:"kind"`
	CategoryName  string `json:"categoryName"`
	Prefix        string `json:"prefix,omitempty"`
	RangeStart    int64  `json:"rangeStart"`
	RangeEnd      *int64 `json:"rangeEnd"`
	IssuedCount   int64  `json:"issuedCount"`
	NextNumber    int64  `json:"nextNumber"`
	Exhausted     bool   `json:"exhausted"`
	CompanyID     string `json:"companyId"`
	FinancialYear string `json:"financialYear,omitempty"`
	CreatedAt     string `json:"createdAt"`
	UpdatedAt     string `json:"updatedAt"`
}

// Allocation is a number reserved inside the caller's transaction.
type Allocation struct {
	Category *model.NumberingCategory
	Number   int64
}

// DocNumber renders the allocated number as stored on documents.
func (a Allocation) DocNumber() string {
	return strconv.FormatInt(a.Number, 10)
}

// --- Interfaces ---

// NumberAllocator hands out document numbers. Allocate must run inside
// TransactionManager.RunInTx: the category row stays locked until the
// transaction ends, and a rollback returns the number to the category.
type NumberAllocator interface {
	Allocate(ctx context.Context, lookup repository.CategoryLookup) (Allocation, error)
}

type CategoryService interface {
	NumberAllocator
	CreateCategory(ctx context.Context, kind string, req CreateCategoryRequest) (CategoryResponse, error)
	ListCategories(ctx context.Context, kind string, filter CategoryListFilter) ([]CategoryResponse, error)
	GetCategory(ctx context.Context, kind, id string) (CategoryResponse, error)
	UpdateCategory(ctx context.Context, kind, id string, req UpdateCategoryRequest) (CategoryResponse, error)
}

type categoryService struct {
	repo      repository.CategoryRepository
	txManager repository.TransactionManager
	audit     AuditRecorder
	logger    *logger.Logger
}

func NewCategoryService(repo repository.CategoryRepository, txManager repository.TransactionManager, audit AuditRecorder, log *logger.Logger) CategoryService {
	return &categoryService{repo: repo, txManager: txManager, audit: audit, logger: log}
}

var categoryKinds = []string{
	model.CategoryKindBilling,
	model.CategoryKindInvoice,
	model.CategoryKindPurchaseOrder,
}

func validateKind(kind string) error {
	if !lo.Contains(categoryKinds, kind) {
		return ierr.NewErrorf("unknown category kind %q", kind).
			WithHint("Unknown category kind").
			Mark(ierr.ErrValidation)
	}
	return nil
}

func validateRange(start int64, end *int64) error {
	if start < 0 {
		return ierr.NewError("negative range start").
			WithHint("rangeStart must not be negative").
			Mark(ierr.ErrValidation)
	}
	if end != nil && *end < start {
		return ierr.NewErrorf("range end %d below start %d", *end, start).
			WithHint("rangeEnd must be greater than or equal to rangeStart").
			Mark(ierr.ErrValidation)
	}
	return nil
}

func toCategoryResponse(c *model.NumberingCategory) CategoryResponse {
	next := c.NextNumber()
	return CategoryResponse{
		ID:            c.ID.String(),
		Kind:          c.Kind,
		CategoryName:  c.CategoryName,
		Prefix:        c.Prefix,
		RangeStart:    c.RangeStart,
		RangeEnd:      c.RangeEnd,
		IssuedCount:   c.IssuedCount,
		NextNumber:    next,
		Exhausted:     c.Exhausted(next),
		CompanyID:     c.CompanyID.String(),
		FinancialYear: c.FinancialYear,
		CreatedAt:     c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     c.UpdatedAt.Format(time.RFC3339),
	}
}

// --- Implementation ---

func (s *categoryService) CreateCategory(ctx context.Context, kind string, req CreateCategoryRequest) (CategoryResponse, error) {
	if err := validateKind(kind); err != nil {
		return CategoryResponse{}, err
	}

	name := strings.TrimSpace(req.CategoryName)
	if name == "" {
		return CategoryResponse{}, ierr.NewError("empty category name").
			WithHint("categoryName is required").
			Mark(ierr.ErrValidation)
	}
	if req.RangeStart == nil || req.RangeEnd == nil {
		return CategoryResponse{}, ierr.NewError("missing range bounds").
			WithHint("rangeStart and rangeEnd are required").
			Mark(ierr.ErrValidation)
	}
	if err := validateRange(*req.RangeStart, req.RangeEnd); err != nil {
		return CategoryResponse{}, err
	}

	companyID, err := parseID(req.CompanyID, "companyId")
	if err != nil {
		return CategoryResponse{}, err
	}

	category := model.NumberingCategory{
		Kind:          kind,
		CategoryName:  name,
		Prefix:        strings.TrimSpace(req.Prefix),
		RangeStart:    *req.RangeStart,
		RangeEnd:      req.RangeEnd,
		CompanyID:     companyID,
		FinancialYear: strings.TrimSpace(req.FinancialYear),
	}

	if err := s.repo.Create(ctx, &category); err != nil {
		if ierr.IsAlreadyExists(err) {
			return CategoryResponse{}, ierr.WithError(err).
				WithHintf("Category %q already exists", name).
				Mark(ierr.ErrAlreadyExists)
		}
		return CategoryResponse{}, err
	}

	s.audit.Record(ctx, model.ActionCreateCategory, category.ID.String(), kind+" "+name, req)
	s.logger.Infow("category created", "kind", kind, "category_id", category.ID, "name", name)

	return toCategoryResponse(&category), nil
}

func (s *categoryService) ListCategories(ctx context.Context, kind string, filter CategoryListFilter) ([]CategoryResponse, error) {
	if err := validateKind(kind); err != nil {
		return nil, err
	}

	companyID, err := parseOptionalID(filter.CompanyID, "companyId")
	if err != nil {
		return nil, err
	}

	categories, err := s.repo.List(ctx, repository.CategoryFilter{
		Kind:          kind,
		CompanyID:     companyID,
		FinancialYear: filter.FinancialYear,
	})
	if err != nil {
		return nil, err
	}

	return lo.Map(categories, func(c model.NumberingCategory, _ int) CategoryResponse {
		return toCategoryResponse(&c)
	}), nil
}

func (s *categoryService) GetCategory(ctx context.Context, kind, id string) (CategoryResponse, error) {
	category, err := s.findCategory(ctx, kind, id, false)
	if err != nil {
		return CategoryResponse{}, err
	}
	return toCategoryResponse(category), nil
}

// UpdateCategory applies a partial update under the category row lock, so it
// serialises with allocations. Once numbers have been issued the start of the
// range is frozen and the end cannot drop below the last issued number.
func (s *categoryService) UpdateCategory(ctx context.Context, kind, id string, req UpdateCategoryRequest) (CategoryResponse, error) {
	var category *model.NumberingCategory
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		category, err = s.findCategory(txCtx, kind, id, true)
		if err != nil {
			return err
		}
		if err := applyCategoryUpdate(category, req); err != nil {
			return err
		}

		if err := s.repo.Update(txCtx, category); err != nil {
			if ierr.IsAlreadyExists(err) {
				return ierr.WithError(err).
					WithHintf("Category %q already exists", category.CategoryName).
					Mark(ierr.ErrAlreadyExists)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return CategoryResponse{}, err
	}

	s.audit.Record(ctx, model.ActionUpdateCategory, category.ID.String(), kind+" "+category.CategoryName, req)

	return toCategoryResponse(category), nil
}

func applyCategoryUpdate(category *model.NumberingCategory, req UpdateCategoryRequest) error {
	if req.CategoryName != nil {
		name := strings.TrimSpace(*req.CategoryName)
		if name == "" {
			return ierr.NewError("empty category name").
				WithHint("categoryName cannot be empty").
				Mark(ierr.ErrValidation)
		}
		category.CategoryName = name
	}
	if req.Prefix != nil {
		category.Prefix = strings.TrimSpace(*req.Prefix)
	}

	start := category.RangeStart
	if req.RangeStart != nil {
		start = *req.RangeStart
	}
	end := category.RangeEnd
	if req.RangeEnd != nil {
		end = req.RangeEnd
	}

	if err := validateRange(start, end); err != nil {
		return err
	}

	if last, issued := category.LastIssued(); issued {
		if start != category.RangeStart {
			return ierr.NewError("range start changed after issuance").
				WithHint("rangeStart cannot change after document numbers have been issued").
				Mark(ierr.ErrInvalidOperation)
		}
		if end != nil && *end < last {
			return ierr.NewErrorf("range end %d below last issued %d", *end, last).
				WithHintf("rangeEnd cannot be lower than the last issued number %d", last).
				Mark(ierr.ErrInvalidOperation)
		}
	}

	category.RangeStart = start
	category.RangeEnd = end
	return nil
}

func (s *categoryService) Allocate(ctx context.Context, lookup repository.CategoryLookup) (Allocation, error) {
	category, err := s.repo.FindForUpdate(ctx, lookup)
	if err != nil {
		if ierr.IsNotFound(err) {
			return Allocation{}, ierr.WithError(err).
				WithHint("Category not found").
				Mark(ierr.ErrNotFound)
		}
		return Allocation{}, err
	}

	next := category.NextNumber()
	if category.Exhausted(next) {
		return Allocation{}, ierr.NewErrorf("category %s exhausted at %d", category.ID, next).
			WithHint("Document number range exceeded for this category.").
			Mark(ierr.ErrValidation)
	}

	if err := s.repo.IncrementIssued(ctx, category.ID); err != nil {
		return Allocation{}, err
	}
	category.IssuedCount++

	s.logger.Debugw("document number allocated", "kind", category.Kind, "category_id", category.ID, "number", next)

	return Allocation{Category: category, Number: next}, nil
}

func (s *categoryService) findCategory(ctx context.Context, kind, id string, lock bool) (*model.NumberingCategory, error) {
	if err := validateKind(kind); err != nil {
		return nil, err
	}
	categoryID, err := parseID(id, "category id")
	if err != nil {
		return nil, err
	}

	find := s.repo.FindByID
	if lock {
		find = s.repo.FindByIDForUpdate
	}
	category, err := find(ctx, kind, categoryID)
	if err != nil {
		if ierr.IsNotFound(err) {
			return nil, ierr.WithError(err).
				WithHint("Category not found").
				Mark(ierr.ErrNotFound)
		}
		return nil, err
	}
	return category, nil
}
