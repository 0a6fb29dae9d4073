package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	ierr "erp/internal/errors"
	"erp/internal/logger"
	"erp/internal/model"
	"erp/internal/repository"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sourcegraph/conc/pool"
)

// --- DTOs ---

// OptionalTime distinguishes an absent JSON field from an explicit null.
type OptionalTime struct {
	Set   bool
	Value *time.Time
}

func (o *OptionalTime) UnmarshalJSON(data []byte) error {
	o.Set = true
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) || bytes.Equal(trimmed, []byte(`""`)) {
		o.Value = nil
		return nil
	}
	var t time.Time
	if err := t.UnmarshalJSON(trimmed); err != nil {
		return err
	}
	o.Value = &t
	return nil
}

// MarkAttendanceRequest is the body of both the mark and the auto endpoints.
type MarkAttendanceRequest struct {
	EmployeeID string `json:"employeeId"`
}

type UpdateAttendanceRequest struct {
	EmployeeObjectID string       `json:"employeeObjectId" binding:"required"`
	InTime           OptionalTime `json:"inTime"`
	OutTime          OptionalTime `json:"outTime"`
	Status           *string      `json:"status" binding:"omitempty,oneof=IN OUT"`
	FirstName        *string      `json:"firstName"`
	LastName         *string      `json:"lastName"`
}

type BulkDeleteItem struct {
	Date             string `json:"date"`
	EmployeeObjectID string `json:"employeeObjectId"`
}

type BulkDeleteRequest struct {
	RecordsToDelete []BulkDeleteItem `json:"recordsToDelete"`
}

type DeletedAttendanceRecord struct {
	Date           string                   `json:"date"`
	EmployeeRecord model.EmployeeAttendance `json:"employeeRecord"`
}

type BulkDeleteResult struct {
	DeletedRecords []DeletedAttendanceRecord `json:"deletedRecords"`
	Errors         []string                  `json:"errors"`
}

type DeleteAttendanceResult struct {
	Deleted    model.EmployeeAttendance `json:"deletedRecord"`
	DayRemoved bool                     `json:"dateRecordRemoved"`
}

type AttendanceDayResponse struct {
	ID                      *string                    `json:"_id,omitempty"`
	Date                    string                     `json:"date"`
	DateObject              time.Time                  `json:"dateObject"`
	TotalEmployeesPresent   int                        `json:"totalEmployeesPresent"`
	TotalEmployeesCompleted int                        `json:"totalEmployeesCompleted"`
	Employees               []model.EmployeeAttendance `json:"employees"`
	CreatedAt               *time.Time                 `json:"createdAt,omitempty"`
	UpdatedAt               *time.Time                 `json:"updatedAt,omitempty"`
	Message                 string                     `json:"message,omitempty"`
}

// EmployeeDayRecord is one employee's entry together with the day it belongs to.
type EmployeeDayRecord struct {
	Date           string                   `json:"date"`
	DateObject     time.Time                `json:"dateObject"`
	EmployeeRecord model.EmployeeAttendance `json:"employeeRecord"`
	CreatedAt      time.Time                `json:"createdAt"`
	UpdatedAt      time.Time                `json:"updatedAt"`
}

// FlatAttendanceRecord is an entry flattened with its date, as listed by /attendance/all.
type FlatAttendanceRecord struct {
	model.EmployeeAttendance
	Date            string    `json:"date"`
	DateObject      time.Time `json:"dateObject"`
	AttendanceDocID string    `json:"attendanceDocId"`
}

type MarkAttendanceResponse struct {
	Message    string                   `json:"message"`
	Attendance model.EmployeeAttendance `json:"attendance"`
	Employee   EmployeeSummary          `json:"employee"`
}

type AutoAttendanceResponse struct {
	Type           string                   `json:"type"`
	Message        string                   `json:"message"`
	Attendance     model.EmployeeAttendance `json:"attendance"`
	Employee       EmployeeSummary          `json:"employee"`
	WorkingSummary string                   `json:"workingSummary,omitempty"`
}

type EmployeeSummary struct {
	ID         string `json:"_id"`
	EmployeeID string `json:"employeeId"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	FullName   string `json:"fullName"`
}

type AttendanceStats struct {
	Employees struct {
		Total   int64 `json:"total"`
		Valid   int64 `json:"valid"`
		Invalid int64 `json:"invalid"`
	} `json:"employees"`
	Attendance struct {
		TotalDays      int64 `json:"totalDays"`
		TodayPresent   int   `json:"todayPresent"`
		TodayCompleted int   `json:"todayCompleted"`
	} `json:"attendance"`
	Database struct {
		Status string `json:"status"`
		Name   string `json:"name"`
	} `json:"database"`
}

// AttendanceEvent is pushed to live subscribers on every IN/OUT transition.
type AttendanceEvent struct {
	Event            string    `json:"event"`
	Type             string    `json:"type"`
	Date             string    `json:"date"`
	EmployeeObjectID string    `json:"employeeObjectId"`
	EmployeeName     string    `json:"employeeName"`
	Time             time.Time `json:"time"`
}

// --- Collaborators ---

// Broadcaster fans attendance events out to live subscribers.
type Broadcaster interface {
	Broadcast(event interface{})
}

// DatabasePinger reports persistence connectivity for the stats endpoint.
type DatabasePinger interface {
	Ping(ctx context.Context) error
	Name() string
}

// --- Interface ---

type AttendanceService interface {
	MarkAttendance(ctx context.Context, employeeID string) (MarkAttendanceResponse, error)
	AutoAttendance(ctx context.Context, employeeID string) (AutoAttendanceResponse, error)
	ListDays(ctx context.Context, date string) ([]AttendanceDayResponse, error)
	ListEmployeeRecords(ctx context.Context, date, employeeID string) ([]EmployeeDayRecord, error)
	ListAllRecords(ctx context.Context) ([]FlatAttendanceRecord, error)
	GetTodayAttendance(ctx context.Context) (AttendanceDayResponse, error)
	GetAttendanceByDate(ctx context.Context, date string) (AttendanceDayResponse, error)
	UpdateRecord(ctx context.Context, date string, req UpdateAttendanceRequest) (model.EmployeeAttendance, error)
	DeleteRecord(ctx context.Context, date, employeeObjectID string) (DeleteAttendanceResult, error)
	BulkDelete(ctx context.Context, req BulkDeleteRequest) (BulkDeleteResult, error)
	GetStats(ctx context.Context) (AttendanceStats, error)
}

type attendanceService struct {
	repo         repository.AttendanceRepository
	employeeRepo repository.EmployeeRepository
	txManager    repository.TransactionManager
	audit        AuditRecorder
	events       Broadcaster
	db           DatabasePinger
	location     *time.Location
	now          func() time.Time
	logger       *logger.Logger
}

// AttendanceOption customises an attendance service.
type AttendanceOption func(*attendanceService)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) AttendanceOption {
	return func(s *attendanceService) { s.now = now }
}

func NewAttendanceService(
	repo repository.AttendanceRepository,
	employeeRepo repository.EmployeeRepository,
	txManager repository.TransactionManager,
	audit AuditRecorder,
	events Broadcaster,
	db DatabasePinger,
	location *time.Location,
	log *logger.Logger,
	opts ...AttendanceOption,
) AttendanceService {
	if location == nil {
		location = time.Local
	}
	s := &attendanceService{
		repo:         repo,
		employeeRepo: employeeRepo,
		txManager:    txManager,
		audit:        audit,
		events:       events,
		db:           db,
		location:     location,
		now:          time.Now,
		logger:       log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *attendanceService) clock() time.Time {
	return s.now().In(s.location)
}

func (s *attendanceService) today() string {
	return s.clock().Format(model.DateLayout)
}

func toEmployeeSummary(emp *model.Employee) EmployeeSummary {
	return EmployeeSummary{
		ID:         emp.ID.String(),
		EmployeeID: emp.EmployeeCode,
		FirstName:  emp.FirstName,
		LastName:   emp.LastName,
		FullName:   emp.FullName(),
	}
}

func toDayResponse(day *model.AttendanceDay) AttendanceDayResponse {
	id := day.ID.String()
	createdAt, updatedAt := day.CreatedAt, day.UpdatedAt
	employees := day.Employees
	if employees == nil {
		employees = []model.EmployeeAttendance{}
	}
	return AttendanceDayResponse{
		ID:                      &id,
		Date:                    day.Date,
		DateObject:              day.DateObject,
		TotalEmployeesPresent:   day.TotalEmployeesPresent,
		TotalEmployeesCompleted: day.TotalEmployeesCompleted,
		Employees:               employees,
		CreatedAt:               &createdAt,
		UpdatedAt:               &updatedAt,
	}
}

func workingSummary(hours float64) string {
	h, m := model.SplitHours(hours)
	return fmt.Sprintf("Total working time: %d hours %d minutes", h, m)
}

func validateDate(date string) error {
	if _, err := time.Parse(model.DateLayout, date); err != nil {
		return ierr.WithError(err).
			WithHint("Invalid date format, expected YYYY-MM-DD").
			Mark(ierr.ErrValidation)
	}
	return nil
}

func (s *attendanceService) loadEmployee(ctx context.Context, employeeID string) (*model.Employee, error) {
	id, err := parseID(employeeID, "Employee ID")
	if err != nil {
		return nil, err
	}
	emp, err := s.employeeRepo.FindByID(ctx, id)
	if err != nil {
		if ierr.IsNotFound(err) {
			return nil, ierr.WithError(err).
				WithHint("Employee not found").
				Mark(ierr.ErrNotFound)
		}
		return nil, err
	}
	return emp, nil
}

// checkIn records the IN transition inside the caller's transaction.
func (s *attendanceService) checkIn(ctx context.Context, day *model.AttendanceDay, emp *model.Employee, at time.Time) (*model.EmployeeAttendance, error) {
	entry := day.CheckIn(emp, at)
	if err := s.repo.CreateEntry(ctx, entry); err != nil {
		return nil, err
	}
	if err := s.repo.SaveCounters(ctx, day); err != nil {
		return nil, err
	}
	if err := s.employeeRepo.UpdateAttendanceCache(ctx, emp.ID, repository.AttendanceCache{
		InTime: entry.InTime,
	}); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *attendanceService) publish(transition string, date string, emp *model.Employee, at time.Time) {
	if s.events == nil {
		return
	}
	s.events.Broadcast(AttendanceEvent{
		Event:            "attendance",
		Type:             transition,
		Date:             date,
		EmployeeObjectID: emp.ID.String(),
		EmployeeName:     emp.FullName(),
		Time:             at,
	})
}

// --- Implementation ---

// MarkAttendance records IN for today. A second call for the same employee is a conflict.
func (s *attendanceService) MarkAttendance(ctx context.Context, employeeID string) (MarkAttendanceResponse, error) {
	var (
		emp   *model.Employee
		entry *model.EmployeeAttendance
		day   *model.AttendanceDay
	)

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		emp, err = s.loadEmployee(txCtx, employeeID)
		if err != nil {
			return err
		}

		at := s.clock()
		day, err = s.repo.GetOrCreateDayForUpdate(txCtx, model.NewAttendanceDay(at))
		if err != nil {
			return err
		}

		if existing, _ := day.FindEmployee(emp.ID); existing != nil {
			return ierr.NewErrorf("employee %s already marked on %s", emp.ID, day.Date).
				WithHint("Attendance already marked for today").
				Mark(ierr.ErrAlreadyExists)
		}

		entry, err = s.checkIn(txCtx, day, emp, at)
		return err
	})
	if err != nil {
		return MarkAttendanceResponse{}, err
	}

	s.logger.Infow("attendance marked", "employee_id", emp.ID, "date", day.Date)
	s.publish(model.TransitionIn, day.Date, emp, *entry.InTime)

	return MarkAttendanceResponse{
		Message:    "Attendance marked successfully",
		Attendance: *entry,
		Employee:   toEmployeeSummary(emp),
	}, nil
}

// AutoAttendance toggles today's state: IN, then OUT, then COMPLETED with no further change.
func (s *attendanceService) AutoAttendance(ctx context.Context, employeeID string) (AutoAttendanceResponse, error) {
	var (
		emp        *model.Employee
		day        *model.AttendanceDay
		result     model.EmployeeAttendance
		transition string
		at         time.Time
	)

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		emp, err = s.loadEmployee(txCtx, employeeID)
		if err != nil {
			return err
		}

		at = s.clock()
		day, err = s.repo.GetOrCreateDayForUpdate(txCtx, model.NewAttendanceDay(at))
		if err != nil {
			return err
		}

		existing, _ := day.FindEmployee(emp.ID)
		switch {
		case existing == nil:
			entry, err := s.checkIn(txCtx, day, emp, at)
			if err != nil {
				return err
			}
			transition, result = model.TransitionIn, *entry
			return nil

		case existing.CanCheckOut():
			existing.CheckOut(at)
			day.RecomputeCounters()
			if err := s.repo.UpdateEntry(txCtx, existing); err != nil {
				return err
			}
			if err := s.repo.SaveCounters(txCtx, day); err != nil {
				return err
			}
			if err := s.employeeRepo.UpdateAttendanceCache(txCtx, emp.ID, repository.AttendanceCache{
				InTime:       existing.InTime,
				OutTime:      existing.OutTime,
				WorkingHours: existing.WorkingHours,
			}); err != nil {
				return err
			}
			transition, result = model.TransitionOut, *existing
			return nil

		default:
			transition, result = model.TransitionCompleted, *existing
			return nil
		}
	})
	if err != nil {
		return AutoAttendanceResponse{}, err
	}

	resp := AutoAttendanceResponse{
		Type:       transition,
		Attendance: result,
		Employee:   toEmployeeSummary(emp),
	}

	name := emp.FullName()
	switch transition {
	case model.TransitionIn:
		resp.Message = fmt.Sprintf("Welcome %s! IN time recorded", name)
		s.logger.Infow("attendance IN", "employee_id", emp.ID, "date", day.Date)
		s.publish(transition, day.Date, emp, at)
	case model.TransitionOut:
		resp.Message = fmt.Sprintf("Goodbye %s! OUT time recorded", name)
		resp.WorkingSummary = workingSummary(result.WorkingHours)
		s.logger.Infow("attendance OUT", "employee_id", emp.ID, "date", day.Date, "working_hours", result.WorkingHours)
		s.publish(transition, day.Date, emp, at)
	default:
		resp.Message = fmt.Sprintf("Hello %s! Your attendance is already complete for today", name)
		resp.WorkingSummary = workingSummary(result.WorkingHours)
	}

	return resp, nil
}

func (s *attendanceService) ListDays(ctx context.Context, date string) ([]AttendanceDayResponse, error) {
	if date != "" {
		if err := validateDate(date); err != nil {
			return nil, err
		}
	}
	days, err := s.repo.ListDays(ctx, date)
	if err != nil {
		return nil, err
	}
	return lo.Map(days, func(d model.AttendanceDay, _ int) AttendanceDayResponse {
		return toDayResponse(&d)
	}), nil
}

// ListEmployeeRecords returns one row per day the employee appears in.
// employeeID matches either the employee's object id or its employee code.
func (s *attendanceService) ListEmployeeRecords(ctx context.Context, date, employeeID string) ([]EmployeeDayRecord, error) {
	if date != "" {
		if err := validateDate(date); err != nil {
			return nil, err
		}
	}
	employeeID = strings.TrimSpace(employeeID)

	days, err := s.repo.ListDays(ctx, date)
	if err != nil {
		return nil, err
	}

	records := make([]EmployeeDayRecord, 0)
	for _, day := range days {
		entry, ok := lo.Find(day.Employees, func(e model.EmployeeAttendance) bool {
			return e.EmployeeObjectID.String() == employeeID || e.EmployeeCode == employeeID
		})
		if !ok {
			continue
		}
		records = append(records, EmployeeDayRecord{
			Date:           day.Date,
			DateObject:     day.DateObject,
			EmployeeRecord: entry,
			CreatedAt:      day.CreatedAt,
			UpdatedAt:      day.UpdatedAt,
		})
	}
	return records, nil
}

func (s *attendanceService) ListAllRecords(ctx context.Context) ([]FlatAttendanceRecord, error) {
	days, err := s.repo.ListDays(ctx, "")
	if err != nil {
		return nil, err
	}

	return lo.FlatMap(days, func(day model.AttendanceDay, _ int) []FlatAttendanceRecord {
		return lo.Map(day.Employees, func(e model.EmployeeAttendance, _ int) FlatAttendanceRecord {
			return FlatAttendanceRecord{
				EmployeeAttendance: e,
				Date:               day.Date,
				DateObject:         day.DateObject,
				AttendanceDocID:    day.ID.String(),
			}
		})
	}), nil
}

// GetTodayAttendance never fails with not-found: an empty day is synthesised when nothing is recorded yet.
func (s *attendanceService) GetTodayAttendance(ctx context.Context) (AttendanceDayResponse, error) {
	now := s.clock()
	day, err := s.repo.FindDay(ctx, now.Format(model.DateLayout))
	if err != nil {
		if ierr.IsNotFound(err) {
			empty := model.NewAttendanceDay(now)
			return AttendanceDayResponse{
				Date:       empty.Date,
				DateObject: empty.DateObject,
				Employees:  []model.EmployeeAttendance{},
				Message:    "No attendance records for today yet",
			}, nil
		}
		return AttendanceDayResponse{}, err
	}
	return toDayResponse(day), nil
}

func (s *attendanceService) GetAttendanceByDate(ctx context.Context, date string) (AttendanceDayResponse, error) {
	if err := validateDate(date); err != nil {
		return AttendanceDayResponse{}, err
	}
	day, err := s.repo.FindDay(ctx, date)
	if err != nil {
		if ierr.IsNotFound(err) {
			return AttendanceDayResponse{}, ierr.WithError(err).
				WithHint("No attendance records found for this date").
				Mark(ierr.ErrNotFound)
		}
		return AttendanceDayResponse{}, err
	}
	return toDayResponse(day), nil
}

// findEntryForUpdate locks the day and locates the employee's entry in it.
func (s *attendanceService) findEntryForUpdate(ctx context.Context, date string, employeeObjectID uuid.UUID) (*model.AttendanceDay, int, error) {
	day, err := s.repo.FindDayForUpdate(ctx, date)
	if err != nil {
		if ierr.IsNotFound(err) {
			return nil, -1, ierr.WithError(err).
				WithHint("Attendance record not found for this date").
				Mark(ierr.ErrNotFound)
		}
		return nil, -1, err
	}
	_, idx := day.FindEmployee(employeeObjectID)
	if idx < 0 {
		return nil, -1, ierr.NewErrorf("employee %s has no entry on %s", employeeObjectID, date).
			WithHint("Employee attendance record not found").
			Mark(ierr.ErrNotFound)
	}
	return day, idx, nil
}

// UpdateRecord applies an administrative correction to one entry and recomputes
// its working hours and the day's counters. Corrections to today also refresh the employee cache.
func (s *attendanceService) UpdateRecord(ctx context.Context, date string, req UpdateAttendanceRequest) (model.EmployeeAttendance, error) {
	if err := validateDate(date); err != nil {
		return model.EmployeeAttendance{}, err
	}
	employeeObjectID, err := parseID(req.EmployeeObjectID, "employeeObjectId")
	if err != nil {
		return model.EmployeeAttendance{}, err
	}

	var updated model.EmployeeAttendance
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		day, idx, err := s.findEntryForUpdate(txCtx, date, employeeObjectID)
		if err != nil {
			return err
		}

		entry := &day.Employees[idx]
		if req.InTime.Set {
			entry.InTime = req.InTime.Value
		}
		if req.OutTime.Set {
			entry.OutTime = req.OutTime.Value
		}
		if req.Status != nil {
			entry.Status = *req.Status
		}
		if req.FirstName != nil {
			entry.FirstName = *req.FirstName
		}
		if req.LastName != nil {
			entry.LastName = *req.LastName
		}
		entry.RecalculateWorkingHours()
		day.RecomputeCounters()

		if err := s.repo.UpdateEntry(txCtx, entry); err != nil {
			return err
		}
		if err := s.repo.SaveCounters(txCtx, day); err != nil {
			return err
		}
		if date == s.today() {
			if err := s.employeeRepo.UpdateAttendanceCache(txCtx, entry.EmployeeObjectID, repository.AttendanceCache{
				InTime:       entry.InTime,
				OutTime:      entry.OutTime,
				WorkingHours: entry.WorkingHours,
			}); err != nil && !ierr.IsNotFound(err) {
				return err
			}
		}

		updated = *entry
		return nil
	})
	if err != nil {
		return model.EmployeeAttendance{}, err
	}

	s.audit.Record(ctx, model.ActionUpdateAttendance, employeeObjectID.String(), date, req)
	s.logger.Infow("attendance corrected", "employee_id", employeeObjectID, "date", date)

	return updated, nil
}

// removeEntry deletes one entry in its own transaction and drops the day when it becomes empty.
// Removing today's entry clears the employee cache.
func (s *attendanceService) removeEntry(ctx context.Context, date string, employeeObjectID uuid.UUID) (DeleteAttendanceResult, error) {
	var result DeleteAttendanceResult

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		day, idx, err := s.findEntryForUpdate(txCtx, date, employeeObjectID)
		if err != nil {
			return err
		}

		removed := day.Remove(idx)
		if err := s.repo.DeleteEntry(txCtx, removed.ID); err != nil {
			return err
		}

		if day.IsEmpty() {
			if err := s.repo.DeleteDay(txCtx, day.ID); err != nil {
				return err
			}
		} else if err := s.repo.SaveCounters(txCtx, day); err != nil {
			return err
		}
		if date == s.today() {
			if err := s.employeeRepo.UpdateAttendanceCache(txCtx, removed.EmployeeObjectID, repository.AttendanceCache{}); err != nil && !ierr.IsNotFound(err) {
				return err
			}
		}

		result = DeleteAttendanceResult{Deleted: removed, DayRemoved: day.IsEmpty()}
		return nil
	})
	return result, err
}

func (s *attendanceService) DeleteRecord(ctx context.Context, date, employeeObjectID string) (DeleteAttendanceResult, error) {
	if err := validateDate(date); err != nil {
		return DeleteAttendanceResult{}, err
	}
	id, err := parseID(employeeObjectID, "employeeObjectId")
	if err != nil {
		return DeleteAttendanceResult{}, err
	}

	result, err := s.removeEntry(ctx, date, id)
	if err != nil {
		return DeleteAttendanceResult{}, err
	}

	s.audit.Record(ctx, model.ActionDeleteAttendance, id.String(), date, map[string]interface{}{
		"date":              date,
		"employeeObjectId":  id.String(),
		"dateRecordRemoved": result.DayRemoved,
	})
	s.logger.Infow("attendance deleted", "employee_id", id, "date", date, "day_removed", result.DayRemoved)

	return result, nil
}

// BulkDelete processes every item independently and reports per-item failures
// alongside the successes. Errors is nil when every item succeeded.
func (s *attendanceService) BulkDelete(ctx context.Context, req BulkDeleteRequest) (BulkDeleteResult, error) {
	if len(req.RecordsToDelete) == 0 {
		return BulkDeleteResult{}, ierr.NewError("empty bulk delete").
			WithHint("Invalid request: recordsToDelete must be a non-empty array").
			Mark(ierr.ErrValidation)
	}

	result := BulkDeleteResult{DeletedRecords: []DeletedAttendanceRecord{}}
	for _, item := range req.RecordsToDelete {
		if err := validateDate(item.Date); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Error processing record: invalid date %q", item.Date))
			continue
		}
		id, err := uuid.Parse(strings.TrimSpace(item.EmployeeObjectID))
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Error processing record: invalid employeeObjectId %q", item.EmployeeObjectID))
			continue
		}

		removed, err := s.removeEntry(ctx, item.Date, id)
		if err != nil {
			if ierr.IsNotFound(err) {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", ierr.DisplayMessage(err), item.Date))
			} else {
				s.logger.Errorw("bulk attendance delete failed", "date", item.Date, "employee_id", id, "error", err)
				result.Errors = append(result.Errors, "Error processing record: "+ierr.DisplayMessage(err))
			}
			continue
		}

		result.DeletedRecords = append(result.DeletedRecords, DeletedAttendanceRecord{
			Date:           item.Date,
			EmployeeRecord: removed.Deleted,
		})
	}

	s.audit.Record(ctx, model.ActionBulkDeleteAttendance, "", "attendance", map[string]int{
		"requested": len(req.RecordsToDelete),
		"deleted":   len(result.DeletedRecords),
		"failed":    len(result.Errors),
	})
	s.logger.Infow("bulk attendance delete",
		"requested", len(req.RecordsToDelete),
		"deleted", len(result.DeletedRecords),
		"failed", len(result.Errors))

	return result, nil
}

// GetStats runs the independent counts concurrently. Today's day is read, never created.
func (s *attendanceService) GetStats(ctx context.Context) (AttendanceStats, error) {
	var stats AttendanceStats
	today := s.today()

	p := pool.New().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		total, err := s.employeeRepo.Count(ctx)
		stats.Employees.Total = total
		return err
	})
	p.Go(func(ctx context.Context) error {
		valid, err := s.employeeRepo.CountWithDescriptor(ctx, model.DescriptorLength)
		stats.Employees.Valid = valid
		return err
	})
	p.Go(func(ctx context.Context) error {
		days, err := s.repo.CountDays(ctx)
		stats.Attendance.TotalDays = days
		return err
	})
	p.Go(func(ctx context.Context) error {
		day, err := s.repo.FindDay(ctx, today)
		if err != nil {
			if ierr.IsNotFound(err) {
				return nil
			}
			return err
		}
		stats.Attendance.TodayPresent = day.TotalEmployeesPresent
		stats.Attendance.TodayCompleted = day.TotalEmployeesCompleted
		return nil
	})
	p.Go(func(ctx context.Context) error {
		stats.Database.Status = "Disconnected"
		if s.db == nil {
			return nil
		}
		stats.Database.Name = s.db.Name()
		if err := s.db.Ping(ctx); err != nil {
			s.logger.Warnw("database ping failed", "error", err)
			return nil
		}
		stats.Database.Status = "Connected"
		return nil
	})

	if err := p.Wait(); err != nil {
		return AttendanceStats{}, err
	}

	stats.Employees.Invalid = stats.Employees.Total - stats.Employees.Valid
	return stats, nil
}
