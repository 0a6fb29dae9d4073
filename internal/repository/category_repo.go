package repository

import (
	"context"

	"erp/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CategoryFilter narrows a category listing. Empty fields are ignored.
type CategoryFilter struct {
	Kind          string
	CompanyID     *uuid.UUID
	FinancialYear string
}

// CategoryLookup identifies the category a document is numbered from.
type CategoryLookup struct {
	Kind          string
	Name          string
	CompanyID     *uuid.UUID
	FinancialYear string
}

//go:generate mockgen -source=category_repo.go -destination=mock_category_repo.go -package=repository

type CategoryRepository interface {
	Create(ctx context.Context, category *model.NumberingCategory) error
	// Update writes the editable columns only. IssuedCount is owned by IncrementIssued.
	Update(ctx context.Context, category *model.NumberingCategory) error
	FindByID(ctx context.Context, kind string, id uuid.UUID) (*model.NumberingCategory, error)
	// FindByIDForUpdate loads the category by id and locks its row until the surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, kind string, id uuid.UUID) (*model.NumberingCategory, error)
	List(ctx context.Context, filter CategoryFilter) ([]model.NumberingCategory, error)
	// FindForUpdate loads the category and locks its row until the surrounding transaction ends.
	FindForUpdate(ctx context.Context, lookup CategoryLookup) (*model.NumberingCategory, error)
	IncrementIssued(ctx context.Context, id uuid.UUID) error
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *model.NumberingCategory) error {
	return translateErr(GetDB(ctx, r.db).Create(category).Error, "Category")
}

func (r *categoryRepository) Update(ctx context.Context, category *model.NumberingCategory) error {
	err := GetDB(ctx, r.db).
		Model(category).
		Select("category_name", "prefix", "range_start", "range_end", "updated_at").
		Updates(category).Error
	return translateErr(err, "Category")
}

func (r *categoryRepository) FindByID(ctx context.Context, kind string, id uuid.UUID) (*model.NumberingCategory, error) {
	var category model.NumberingCategory
	if err := GetDB(ctx, r.db).First(&category, "id = ? AND kind = ?", id, kind).Error; err != nil {
		return nil, translateErr(err, "Category")
	}
	return &category, nil
}

func (r *categoryRepository) FindByIDForUpdate(ctx context.Context, kind string, id uuid.UUID) (*model.NumberingCategory, error) {
	var category model.NumberingCategory
	if err := GetDB(ctx, r.db).Scopes(forUpdate).First(&category, "id = ? AND kind = ?", id, kind).Error; err != nil {
		return nil, translateErr(err, "Category")
	}
	return &category, nil
}

func (r *categoryRepository) List(ctx context.Context, filter CategoryFilter) ([]model.NumberingCategory, error) {
	var categories []model.NumberingCategory

	query := GetDB(ctx, r.db).Where("kind = ?", filter.Kind)
	if filter.CompanyID != nil {
		query = query.Where("company_id = ?", *filter.CompanyID)
	}
	if filter.FinancialYear != "" {
		query = query.Where("financial_year = ?", filter.FinancialYear)
	}

	if err := query.Order("created_at desc").Find(&categories).Error; err != nil {
		return nil, translateErr(err, "Category")
	}
	return categories, nil
}

func (r *categoryRepository) FindForUpdate(ctx context.Context, lookup CategoryLookup) (*model.NumberingCategory, error) {
	var category model.NumberingCategory

	query := GetDB(ctx, r.db).
		Scopes(forUpdate).
		Where("kind = ? AND category_name = ?", lookup.Kind, lookup.Name)
	if lookup.CompanyID != nil {
		query = query.Where("company_id = ?", *lookup.CompanyID)
	}
	if lookup.FinancialYear != "" {
		query = query.Where("financial_year IN ?", []string{lookup.FinancialYear, ""})
	}

	// Prefer the year-specific category over a year-less one.
	if err := query.Order("financial_year desc").First(&category).Error; err != nil {
		return nil, translateErr(err, "Category")
	}
	return &category, nil
}

func (r *categoryRepository) IncrementIssued(ctx context.Context, id uuid.UUID) error {
	res := GetDB(ctx, r.db).
		Model(&model.NumberingCategory{}).
		Where("id = ?", id).
		UpdateColumn("issued_count", gorm.Expr("issued_count + 1"))
	if res.Error != nil {
		return translateErr(res.Error, "Category")
	}
	if res.RowsAffected == 0 {
		return translateErr(gorm.ErrRecordNotFound, "Category")
	}
	return nil
}
