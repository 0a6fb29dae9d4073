package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ierr "erp/internal/errors"
	"erp/internal/logger"
	"erp/internal/model"
	"erp/internal/service"
)

type attendanceFixture struct {
	svc       service.AttendanceService
	days      *memAttendanceRepo
	employees *memEmployeeRepo
	events    *recordingBroadcaster
	audit     *recordingAudit
	now       time.Time
}

func newAttendanceFixture(t *testing.T, pinger service.DatabasePinger, employees ...*model.Employee) *attendanceFixture {
	t.Helper()
	f := &attendanceFixture{
		days:      newMemAttendanceRepo(),
		employees: newMemEmployeeRepo(employees...),
		events:    &recordingBroadcaster{},
		audit:     &recordingAudit{},
		now:       time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC),
	}
	f.svc = service.NewAttendanceService(
		f.days,
		f.employees,
		passthroughTx{},
		f.audit,
		f.events,
		pinger,
		time.UTC,
		logger.NewNop(),
		service.WithClock(func() time.Time { return f.now }),
	)
	return f
}

func newEmployee(code, first, last string) *model.Employee {
	return &model.Employee{ID: uuid.New(), EmployeeCode: code, FirstName: first, LastName: last}
}

func TestAttendanceService_AutoAttendanceToggle(t *testing.T) {
	alice := newEmployee("E001", "Alice", "Doe")
	f := newAttendanceFixture(t, nil, alice)
	ctx := context.Background()

	in, err := f.svc.AutoAttendance(ctx, alice.ID.String())
	require.NoError(t, err)
	assert.Equal(t, model.TransitionIn, in.Type)
	assert.Equal(t, "Welcome Alice Doe! IN time recorded", in.Message)
	assert.Equal(t, model.AttendanceStatusIn, in.Attendance.Status)
	assert.Empty(t, in.WorkingSummary)

	cached, _ := f.employees.FindByID(ctx, alice.ID)
	require.NotNil(t, cached.InTime)
	assert.Nil(t, cached.OutTime)
	assert.Zero(t, cached.WorkingHours)

	f.now = f.now.Add(8*time.Hour + 30*time.Minute)
	out, err := f.svc.AutoAttendance(ctx, alice.ID.String())
	require.NoError(t, err)
	assert.Equal(t, model.TransitionOut, out.Type)
	assert.Equal(t, "Goodbye Alice Doe! OUT time recorded", out.Message)
	assert.InDelta(t, 8.5, out.Attendance.WorkingHours, 0.0001)
	assert.Equal(t, "Total working time: 8 hours 30 minutes", out.WorkingSummary)

	cached, _ = f.employees.FindByID(ctx, alice.ID)
	require.NotNil(t, cached.OutTime)
	assert.InDelta(t, 8.5, cached.WorkingHours, 0.0001)

	f.now = f.now.Add(time.Hour)
	done, err := f.svc.AutoAttendance(ctx, alice.ID.String())
	require.NoError(t, err)
	assert.Equal(t, model.TransitionCompleted, done.Type)
	assert.Equal(t, "Hello Alice Doe! Your attendance is already complete for today", done.Message)
	assert.Equal(t, out.Attendance.OutTime, done.Attendance.OutTime)

	day, err := f.svc.GetAttendanceByDate(ctx, "2025-01-15")
	require.NoError(t, err)
	assert.Equal(t, 1, day.TotalEmployeesPresent)
	assert.Equal(t, 1, day.TotalEmployeesCompleted)
	require.Len(t, day.Employees, 1)

	assert.Len(t, f.events.events, 2)
	event, ok := f.events.events[1].(service.AttendanceEvent)
	require.True(t, ok)
	assert.Equal(t, model.TransitionOut, event.Type)
	assert.Equal(t, "2025-01-15", event.Date)
}

func TestAttendanceService_MarkAttendance(t *testing.T) {
	alice := newEmployee("E001", "Alice", "")
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newAttendanceFixture(t, nil, alice)

		res, err := f.svc.MarkAttendance(ctx, alice.ID.String())

		require.NoError(t, err)
		assert.Equal(t, "Attendance marked successfully", res.Message)
		assert.Equal(t, "Alice", res.Employee.FullName)
		assert.Equal(t, model.AttendanceStatusIn, res.Attendance.Status)
	})

	t.Run("AlreadyMarked", func(t *testing.T) {
		f := newAttendanceFixture(t, nil, alice)
		_, err := f.svc.MarkAttendance(ctx, alice.ID.String())
		require.NoError(t, err)

		_, err = f.svc.MarkAttendance(ctx, alice.ID.String())

		require.Error(t, err)
		assert.True(t, ierr.IsAlreadyExists(err))
		assert.Equal(t, "Attendance already marked for today", ierr.DisplayMessage(err))
	})

	t.Run("UnknownEmployee", func(t *testing.T) {
		f := newAttendanceFixture(t, nil, alice)

		_, err := f.svc.MarkAttendance(ctx, uuid.New().String())

		require.Error(t, err)
		assert.True(t, ierr.IsNotFound(err))
		assert.Equal(t, "Employee not found", ierr.DisplayMessage(err))
		assert.Empty(t, f.days.days)
	})

	t.Run("MissingEmployeeID", func(t *testing.T) {
		f := newAttendanceFixture(t, nil, alice)

		_, err := f.svc.AutoAttendance(ctx, "")

		require.Error(t, err)
		assert.True(t, ierr.IsValidation(err))
	})
}

func TestAttendanceService_DeleteLastEntryRemovesDay(t *testing.T) {
	alice := newEmployee("E001", "Alice", "")
	bob := newEmployee("E002", "Bob", "")
	f := newAttendanceFixture(t, nil, alice, bob)
	ctx := context.Background()

	_, err := f.svc.MarkAttendance(ctx, alice.ID.String())
	require.NoError(t, err)
	_, err = f.svc.MarkAttendance(ctx, bob.ID.String())
	require.NoError(t, err)

	first, err := f.svc.DeleteRecord(ctx, "2025-01-15", alice.ID.String())
	require.NoError(t, err)
	assert.False(t, first.DayRemoved)
	assert.Equal(t, alice.ID, first.Deleted.EmployeeObjectID)

	day, err := f.svc.GetAttendanceByDate(ctx, "2025-01-15")
	require.NoError(t, err)
	assert.Equal(t, 1, day.TotalEmployeesPresent)

	last, err := f.svc.DeleteRecord(ctx, "2025-01-15", bob.ID.String())
	require.NoError(t, err)
	assert.True(t, last.DayRemoved)

	_, err = f.svc.GetAttendanceByDate(ctx, "2025-01-15")
	require.Error(t, err)
	assert.True(t, ierr.IsNotFound(err))

	_, err = f.svc.DeleteRecord(ctx, "2025-01-15", bob.ID.String())
	require.Error(t, err)
	assert.True(t, ierr.IsNotFound(err))
	assert.Equal(t, []string{model.ActionDeleteAttendance, model.ActionDeleteAttendance}, f.audit.actions)
}

func TestAttendanceService_DeleteClearsTodaysCache(t *testing.T) {
	alice := newEmployee("E001", "Alice", "")
	f := newAttendanceFixture(t, nil, alice)
	ctx := context.Background()

	_, err := f.svc.MarkAttendance(ctx, alice.ID.String())
	require.NoError(t, err)

	f.now = time.Date(2025, 1, 16, 9, 30, 0, 0, time.UTC)
	_, err = f.svc.MarkAttendance(ctx, alice.ID.String())
	require.NoError(t, err)

	_, err = f.svc.DeleteRecord(ctx, "2025-01-15", alice.ID.String())
	require.NoError(t, err)
	cached, _ := f.employees.FindByID(ctx, alice.ID)
	require.NotNil(t, cached.InTime, "deleting a past day keeps the cache")
	assert.True(t, cached.InTime.Equal(f.now))

	result, err := f.svc.BulkDelete(ctx, service.BulkDeleteRequest{
		RecordsToDelete: []service.BulkDeleteItem{{Date: "2025-01-16", EmployeeObjectID: alice.ID.String()}},
	})
	require.NoError(t, err)
	require.Len(t, result.DeletedRecords, 1)

	cached, _ = f.employees.FindByID(ctx, alice.ID)
	assert.Nil(t, cached.InTime)
	assert.Nil(t, cached.OutTime)
	assert.Zero(t, cached.WorkingHours)
}

func TestAttendanceService_BulkDelete(t *testing.T) {
	alice := newEmployee("E001", "Alice", "")
	bob := newEmployee("E002", "Bob", "")
	f := newAttendanceFixture(t, nil, alice, bob)
	ctx := context.Background()

	_, err := f.svc.MarkAttendance(ctx, alice.ID.String())
	require.NoError(t, err)
	_, err = f.svc.MarkAttendance(ctx, bob.ID.String())
	require.NoError(t, err)

	stranger := uuid.New().String()
	res, err := f.svc.BulkDelete(ctx, service.BulkDeleteRequest{
		RecordsToDelete: []service.BulkDeleteItem{
			{Date: "2025-01-15", EmployeeObjectID: alice.ID.String()},
			{Date: "15-01-2025", EmployeeObjectID: bob.ID.String()},
			{Date: "2025-01-15", EmployeeObjectID: "nope"},
			{Date: "2025-01-15", EmployeeObjectID: stranger},
			{Date: "2025-01-14", EmployeeObjectID: bob.ID.String()},
		},
	})

	require.NoError(t, err)
	require.Len(t, res.DeletedRecords, 1)
	assert.Equal(t, alice.ID, res.DeletedRecords[0].EmployeeRecord.EmployeeObjectID)
	assert.Equal(t, []string{
		`Error processing record: invalid date "15-01-2025"`,
		`Error processing record: invalid employeeObjectId "nope"`,
		"Employee attendance record not found: 2025-01-15",
		"Attendance record not found for this date: 2025-01-14",
	}, res.Errors)

	day, err := f.svc.GetAttendanceByDate(ctx, "2025-01-15")
	require.NoError(t, err)
	require.Len(t, day.Employees, 1)
	assert.Equal(t, bob.ID, day.Employees[0].EmployeeObjectID)

	_, err = f.svc.BulkDelete(ctx, service.BulkDeleteRequest{})
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))
}

func TestAttendanceService_Queries(t *testing.T) {
	alice := newEmployee("E001", "Alice", "")
	ctx := context.Background()

	t.Run("TodaySynthesized", func(t *testing.T) {
		f := newAttendanceFixture(t, nil, alice)

		today, err := f.svc.GetTodayAttendance(ctx)

		require.NoError(t, err)
		assert.Nil(t, today.ID)
		assert.Equal(t, "2025-01-15", today.Date)
		assert.Equal(t, "No attendance records for today yet", today.Message)
		assert.Empty(t, today.Employees)
		assert.Empty(t, f.days.days)
	})

	t.Run("PastDateNotFound", func(t *testing.T) {
		f := newAttendanceFixture(t, nil, alice)

		_, err := f.svc.GetAttendanceByDate(ctx, "2024-12-31")

		require.Error(t, err)
		assert.True(t, ierr.IsNotFound(err))
	})

	t.Run("InvalidDate", func(t *testing.T) {
		f := newAttendanceFixture(t, nil, alice)

		_, err := f.svc.GetAttendanceByDate(ctx, "2024-02-30")

		require.Error(t, err)
		assert.True(t, ierr.IsValidation(err))
		assert.Equal(t, "Invalid date format, expected YYYY-MM-DD", ierr.DisplayMessage(err))
	})

	t.Run("EmployeeRecordsByCode", func(t *testing.T) {
		f := newAttendanceFixture(t, nil, alice)
		_, err := f.svc.MarkAttendance(ctx, alice.ID.String())
		require.NoError(t, err)
		f.now = f.now.Add(24 * time.Hour)
		_, err = f.svc.MarkAttendance(ctx, alice.ID.String())
		require.NoError(t, err)

		records, err := f.svc.ListEmployeeRecords(ctx, "", "E001")
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "2025-01-16", records[0].Date)

		flat, err := f.svc.ListAllRecords(ctx)
		require.NoError(t, err)
		assert.Len(t, flat, 2)

		days, err := f.svc.ListDays(ctx, "2025-01-15")
		require.NoError(t, err)
		assert.Len(t, days, 1)
	})
}

func TestAttendanceService_UpdateRecord(t *testing.T) {
	alice := newEmployee("E001", "Alice", "")
	f := newAttendanceFixture(t, nil, alice)
	ctx := context.Background()

	_, err := f.svc.MarkAttendance(ctx, alice.ID.String())
	require.NoError(t, err)

	out := time.Date(2025, 1, 15, 13, 0, 0, 0, time.UTC)
	status := model.AttendanceStatusOut
	updated, err := f.svc.UpdateRecord(ctx, "2025-01-15", service.UpdateAttendanceRequest{
		EmployeeObjectID: alice.ID.String(),
		OutTime:          service.OptionalTime{Set: true, Value: &out},
		Status:           &status,
	})

	require.NoError(t, err)
	assert.InDelta(t, 4.0, updated.WorkingHours, 0.0001)
	assert.Equal(t, model.AttendanceStatusOut, updated.Status)

	cached, _ := f.employees.FindByID(ctx, alice.ID)
	assert.InDelta(t, 4.0, cached.WorkingHours, 0.0001)

	day, err := f.svc.GetAttendanceByDate(ctx, "2025-01-15")
	require.NoError(t, err)
	assert.Equal(t, 1, day.TotalEmployeesCompleted)

	cleared, err := f.svc.UpdateRecord(ctx, "2025-01-15", service.UpdateAttendanceRequest{
		EmployeeObjectID: alice.ID.String(),
		OutTime:          service.OptionalTime{Set: true},
	})
	require.NoError(t, err)
	assert.Nil(t, cleared.OutTime)
	assert.Zero(t, cleared.WorkingHours)

	_, err = f.svc.UpdateRecord(ctx, "2025-01-15", service.UpdateAttendanceRequest{EmployeeObjectID: uuid.New().String()})
	require.Error(t, err)
	assert.True(t, ierr.IsNotFound(err))
}

func TestAttendanceService_GetStats(t *testing.T) {
	alice := newEmployee("E001", "Alice", "")
	alice.Descriptor = make([]float64, model.DescriptorLength)
	bob := newEmployee("E002", "Bob", "")
	ctx := context.Background()

	t.Run("Connected", func(t *testing.T) {
		f := newAttendanceFixture(t, stubPinger{}, alice, bob)
		_, err := f.svc.AutoAttendance(ctx, alice.ID.String())
		require.NoError(t, err)

		stats, err := f.svc.GetStats(ctx)

		require.NoError(t, err)
		assert.Equal(t, int64(2), stats.Employees.Total)
		assert.Equal(t, int64(1), stats.Employees.Valid)
		assert.Equal(t, int64(1), stats.Employees.Invalid)
		assert.Equal(t, int64(1), stats.Attendance.TotalDays)
		assert.Equal(t, 1, stats.Attendance.TodayPresent)
		assert.Equal(t, 0, stats.Attendance.TodayCompleted)
		assert.Equal(t, "Connected", stats.Database.Status)
		assert.Equal(t, "PostgreSQL", stats.Database.Name)
	})

	t.Run("PingFailureIsNotAnError", func(t *testing.T) {
		f := newAttendanceFixture(t, stubPinger{err: errors.New("connection refused")}, alice, bob)

		stats, err := f.svc.GetStats(ctx)

		require.NoError(t, err)
		assert.Equal(t, "Disconnected", stats.Database.Status)
		assert.Zero(t, stats.Attendance.TodayPresent)
		assert.Empty(t, f.days.days)
	})
}

func TestOptionalTime_UnmarshalJSON(t *testing.T) {
	var req service.UpdateAttendanceRequest

	require.NoError(t, jsonUnmarshal(`{"employeeObjectId":"x","inTime":"2025-01-15T09:00:00Z","outTime":null}`, &req))

	assert.True(t, req.InTime.Set)
	require.NotNil(t, req.InTime.Value)
	assert.Equal(t, 9, req.InTime.Value.Hour())
	assert.True(t, req.OutTime.Set)
	assert.Nil(t, req.OutTime.Value)

	var absent service.UpdateAttendanceRequest
	require.NoError(t, jsonUnmarshal(`{"employeeObjectId":"x"}`, &absent))
	assert.False(t, absent.InTime.Set)
}
