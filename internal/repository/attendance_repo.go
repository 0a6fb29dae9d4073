package repository

import (
	"context"

	"erp/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AttendanceRepository persists AttendanceDay aggregates and their entries.
// Every mutating service call runs inside RunInTx and takes the day row lock first,
// which serialises writers per calendar date.
type AttendanceRepository interface {
	// GetOrCreateDayForUpdate inserts the day if missing, then returns it locked with its entries.
	GetOrCreateDayForUpdate(ctx context.Context, day *model.AttendanceDay) (*model.AttendanceDay, error)
	// FindDayForUpdate returns the locked day with its entries.
	FindDayForUpdate(ctx context.Context, date string) (*model.AttendanceDay, error)
	FindDay(ctx context.Context, date string) (*model.AttendanceDay, error)
	ListDays(ctx context.Context, date string) ([]model.AttendanceDay, error)
	CountDays(ctx context.Context) (int64, error)
	CreateEntry(ctx context.Context, entry *model.EmployeeAttendance) error
	UpdateEntry(ctx context.Context, entry *model.EmployeeAttendance) error
	DeleteEntry(ctx context.Context, id uuid.UUID) error
	SaveCounters(ctx context.Context, day *model.AttendanceDay) error
	DeleteDay(ctx context.Context, id uuid.UUID) error
}

type attendanceRepository struct {
	db *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &attendanceRepository{db: db}
}

func (r *attendanceRepository) GetOrCreateDayForUpdate(ctx context.Context, day *model.AttendanceDay) (*model.AttendanceDay, error) {
	seed := model.AttendanceDay{Date: day.Date, DateObject: day.DateObject}
	if err := GetDB(ctx, r.db).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "date"}}, DoNothing: true}).
		Create(&seed).Error; err != nil {
		return nil, translateErr(err, "Attendance record")
	}
	return r.FindDayForUpdate(ctx, day.Date)
}

func (r *attendanceRepository) FindDayForUpdate(ctx context.Context, date string) (*model.AttendanceDay, error) {
	var day model.AttendanceDay
	if err := GetDB(ctx, r.db).
		Scopes(forUpdate).
		Preload("Employees", func(db *gorm.DB) *gorm.DB { return db.Order("in_time asc") }).
		First(&day, "date = ?", date).Error; err != nil {
		return nil, translateErr(err, "Attendance record")
	}
	return &day, nil
}

func (r *attendanceRepository) FindDay(ctx context.Context, date string) (*model.AttendanceDay, error) {
	var day model.AttendanceDay
	if err := GetDB(ctx, r.db).
		Preload("Employees", func(db *gorm.DB) *gorm.DB { return db.Order("in_time asc") }).
		First(&day, "date = ?", date).Error; err != nil {
		return nil, translateErr(err, "Attendance record")
	}
	return &day, nil
}

func (r *attendanceRepository) ListDays(ctx context.Context, date string) ([]model.AttendanceDay, error) {
	var days []model.AttendanceDay
	query := GetDB(ctx, r.db).
		Preload("Employees", func(db *gorm.DB) *gorm.DB { return db.Order("in_time asc") })
	if date != "" {
		query = query.Where("date = ?", date)
	}
	if err := query.Order("date_object desc").Find(&days).Error; err != nil {
		return nil, translateErr(err, "Attendance record")
	}
	return days, nil
}

func (r *attendanceRepository) CountDays(ctx context.Context) (int64, error) {
	var count int64
	if err := GetDB(ctx, r.db).Model(&model.AttendanceDay{}).Count(&count).Error; err != nil {
		return 0, translateErr(err, "Attendance record")
	}
	return count, nil
}

func (r *attendanceRepository) CreateEntry(ctx context.Context, entry *model.EmployeeAttendance) error {
	return translateErr(GetDB(ctx, r.db).Create(entry).Error, "Employee attendance record")
}

func (r *attendanceRepository) UpdateEntry(ctx context.Context, entry *model.EmployeeAttendance) error {
	return translateErr(GetDB(ctx, r.db).Save(entry).Error, "Employee attendance record")
}

func (r *attendanceRepository) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	return translateErr(GetDB(ctx, r.db).Delete(&model.EmployeeAttendance{}, "id = ?", id).Error, "Employee attendance record")
}

func (r *attendanceRepository) SaveCounters(ctx context.Context, day *model.AttendanceDay) error {
	err := GetDB(ctx, r.db).Model(day).Omit(clause.Associations).Updates(map[string]interface{}{
		"total_employees_present":   day.TotalEmployeesPresent,
		"total_employees_completed": day.TotalEmployeesCompleted,
	}).Error
	return translateErr(err, "Attendance record")
}

func (r *attendanceRepository) DeleteDay(ctx context.Context, id uuid.UUID) error {
	return translateErr(GetDB(ctx, r.db).Delete(&model.AttendanceDay{}, "id = ?", id).Error, "Attendance record")
}
