package repository

import (
	"context"
	"time"

	"erp/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AttendanceCache is the slice of an Employee mirrored from its latest attendance entry.
type AttendanceCache struct {
	InTime       *time.Time
	OutTime      *time.Time
	WorkingHours float64
}

type EmployeeRepository interface {
	Create(ctx context.Context, employee *model.Employee) error
	Update(ctx context.Context, employee *model.Employee) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Employee, error)
	List(ctx context.Context, search string, page, limit int) ([]model.Employee, int64, error)
	Count(ctx context.Context) (int64, error)
	CountWithDescriptor(ctx context.Context, length int) (int64, error)
	UpdateAttendanceCache(ctx context.Context, id uuid.UUID, cache AttendanceCache) error
}

type employeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) Create(ctx context.Context, employee *model.Employee) error {
	return translateErr(GetDB(ctx, r.db).Create(employee).Error, "Employee")
}

// Update saves profile fields only; the attendance cache columns are owned by UpdateAttendanceCache.
func (r *employeeRepository) Update(ctx context.Context, employee *model.Employee) error {
	err := GetDB(ctx, r.db).Model(employee).
		Select("employee_code", "first_name", "last_name", "email", "department", "descriptor").
		Updates(employee).Error
	return translateErr(err, "Employee")
}

func (r *employeeRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Employee, error) {
	var employee model.Employee
	if err := GetDB(ctx, r.db).First(&employee, "id = ?", id).Error; err != nil {
		return nil, translateErr(err, "Employee")
	}
	return &employee, nil
}

func (r *employeeRepository) List(ctx context.Context, search string, page, limit int) ([]model.Employee, int64, error) {
	var employees []model.Employee
	var total int64

	scope := func(q *gorm.DB) *gorm.DB {
		if search != "" {
			like := "%" + search + "%"
			q = q.Where("first_name ILIKE ? OR last_name ILIKE ? OR employee_code ILIKE ?", like, like, like)
		}
		return q
	}

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.Employee{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, translateErr(err, "Employee")
	}

	if err := db.Scopes(scope).Order("employee_code asc").Scopes(paginate(page, limit)).Find(&employees).Error; err != nil {
		return nil, 0, translateErr(err, "Employee")
	}
	return employees, total, nil
}

func (r *employeeRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := GetDB(ctx, r.db).Model(&model.Employee{}).Count(&count).Error; err != nil {
		return 0, translateErr(err, "Employee")
	}
	return count, nil
}

func (r *employeeRepository) CountWithDescriptor(ctx context.Context, length int) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.Employee{}).
		Where("jsonb_typeof(descriptor) = 'array' AND jsonb_array_length(descriptor) = ?", length).
		Count(&count).Error
	if err != nil {
		return 0, translateErr(err, "Employee")
	}
	return count, nil
}

func (r *employeeRepository) UpdateAttendanceCache(ctx context.Context, id uuid.UUID, cache AttendanceCache) error {
	res := GetDB(ctx, r.db).Model(&model.Employee{}).Where("id = ?", id).Updates(map[string]interface{}{
		"in_time":       cache.InTime,
		"out_time":      cache.OutTime,
		"working_hours": cache.WorkingHours,
	})
	if res.Error != nil {
		return translateErr(res.Error, "Employee")
	}
	if res.RowsAffected == 0 {
		return translateErr(gorm.ErrRecordNotFound, "Employee")
	}
	return nil
}
