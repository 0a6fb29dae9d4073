package model

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// DateLayout is the natural key format of an AttendanceDay.
const DateLayout = "2006-01-02"

// Attendance status constants stored on an EmployeeAttendance.
const (
	AttendanceStatusIn  = "IN"
	AttendanceStatusOut = "OUT"
)

// Transition types reported by the auto (toggle) entry point.
const (
	TransitionIn        = "IN"
	TransitionOut       = "OUT"
	TransitionCompleted = "COMPLETED"
)

// AttendanceDay aggregates every employee's in/out events for one calendar date.
// The counters are derived from Employees and recomputed on every mutation.
type AttendanceDay struct {
	ID                      uuid.UUID            `gorm:"type:uuid;primaryKey" json:"_id"`
	Date                    string               `gorm:"type:varchar(10);uniqueIndex;not null" json:"date"`
	DateObject              time.Time            `gorm:"index" json:"dateObject"`
	TotalEmployeesPresent   int                  `gorm:"not null;default:0" json:"totalEmployeesPresent"`
	TotalEmployeesCompleted int                  `gorm:"not null;default:0" json:"totalEmployeesCompleted"`
	Employees               []EmployeeAttendance `gorm:"foreignKey:AttendanceDayID;constraint:OnDelete:CASCADE" json:"employees"`
	CreatedAt               time.Time            `json:"createdAt"`
	UpdatedAt               time.Time            `json:"updatedAt"`
}

// EmployeeAttendance is one employee's entry inside an AttendanceDay.
// (AttendanceDayID, EmployeeObjectID) is unique.
type EmployeeAttendance struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"-"`
	AttendanceDayID  uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_day_employee" json:"-"`
	EmployeeObjectID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_day_employee;index" json:"employeeObjectId"`
	EmployeeCode     string     `gorm:"type:varchar(50);index" json:"employeeId"`
	FirstName        string     `gorm:"type:varchar(100)" json:"firstName"`
	LastName         string     `gorm:"type:varchar(100)" json:"lastName"`
	InTime           *time.Time `json:"inTime"`
	OutTime          *time.Time `json:"outTime"`
	Status           string     `gorm:"type:varchar(5);not null;default:'IN'" json:"status"`
	WorkingHours     float64    `gorm:"type:decimal(6,2);not null;default:0" json:"workingHours"`
}

// NewAttendanceDay returns an empty aggregate for the calendar date of t in t's location.
func NewAttendanceDay(t time.Time) *AttendanceDay {
	y, m, d := t.Date()
	return &AttendanceDay{
		Date:       t.Format(DateLayout),
		DateObject: time.Date(y, m, d, 0, 0, 0, 0, t.Location()),
		Employees:  []EmployeeAttendance{},
	}
}

// WorkingHours returns out-in in hours rounded to two decimals.
func WorkingHours(in, out time.Time) float64 {
	ms := float64(out.Sub(in).Milliseconds())
	return math.Round(ms/3600000*100) / 100
}

// SplitHours turns fractional hours into whole hours and minutes.
func SplitHours(hours float64) (int, int) {
	h := math.Floor(hours)
	return int(h), int(math.Floor((hours - h) * 60))
}

// FindEmployee returns the entry for the employee and its index, or nil and -1.
func (d *AttendanceDay) FindEmployee(employeeObjectID uuid.UUID) (*EmployeeAttendance, int) {
	_, idx, ok := lo.FindIndexOf(d.Employees, func(e EmployeeAttendance) bool {
		return e.EmployeeObjectID == employeeObjectID
	})
	if !ok {
		return nil, -1
	}
	return &d.Employees[idx], idx
}

// CheckIn appends an IN entry for the employee. The caller must make sure none exists.
func (d *AttendanceDay) CheckIn(emp *Employee, at time.Time) *EmployeeAttendance {
	d.Employees = append(d.Employees, EmployeeAttendance{
		AttendanceDayID:  d.ID,
		EmployeeObjectID: emp.ID,
		EmployeeCode:     emp.EmployeeCode,
		FirstName:        emp.FirstName,
		LastName:         emp.LastName,
		InTime:           &at,
		Status:           AttendanceStatusIn,
	})
	d.RecomputeCounters()
	return &d.Employees[len(d.Employees)-1]
}

// Remove deletes the entry at idx and returns it.
func (d *AttendanceDay) Remove(idx int) EmployeeAttendance {
	removed := d.Employees[idx]
	d.Employees = append(d.Employees[:idx:idx], d.Employees[idx+1:]...)
	d.RecomputeCounters()
	return removed
}

// RecomputeCounters derives present/completed totals from the entries.
func (d *AttendanceDay) RecomputeCounters() {
	d.TotalEmployeesPresent = lo.CountBy(d.Employees, func(e EmployeeAttendance) bool {
		return e.InTime != nil
	})
	d.TotalEmployeesCompleted = lo.CountBy(d.Employees, func(e EmployeeAttendance) bool {
		return e.OutTime != nil
	})
}

// IsEmpty reports whether the day holds no entries.
func (d *AttendanceDay) IsEmpty() bool {
	return len(d.Employees) == 0
}

// CanCheckOut reports whether the next toggle records OUT.
func (e *EmployeeAttendance) CanCheckOut() bool {
	return e.Status == AttendanceStatusIn && e.OutTime == nil
}

// CheckOut records the OUT time and derives working hours.
func (e *EmployeeAttendance) CheckOut(at time.Time) {
	e.OutTime = &at
	e.Status = AttendanceStatusOut
	e.RecalculateWorkingHours()
}

// RecalculateWorkingHours sets WorkingHours from the timestamps, or 0 when either is missing.
func (e *EmployeeAttendance) RecalculateWorkingHours() {
	if e.InTime == nil || e.OutTime == nil {
		e.WorkingHours = 0
		return
	}
	e.WorkingHours = WorkingHours(*e.InTime, *e.OutTime)
}
