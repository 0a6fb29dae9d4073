package service_test

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"

	ierr "erp/internal/errors"
	"erp/internal/model"
	"erp/internal/repository"
)

func errNotFound() error {
	return ierr.NewError("record not found").Mark(ierr.ErrNotFound)
}

// memAttendanceRepo keeps days in memory and hands out copies, like rows read from a database.
type memAttendanceRepo struct {
	mu   sync.Mutex
	days map[string]*model.AttendanceDay
}

func newMemAttendanceRepo() *memAttendanceRepo {
	return &memAttendanceRepo{days: map[string]*model.AttendanceDay{}}
}

func cloneDay(d *model.AttendanceDay) *model.AttendanceDay {
	c := *d
	c.Employees = append([]model.EmployeeAttendance{}, d.Employees...)
	return &c
}

func (r *memAttendanceRepo) dayByID(id uuid.UUID) *model.AttendanceDay {
	for _, d := range r.days {
		if d.ID == id {
			return d
		}
	}
	return nil
}

func (r *memAttendanceRepo) GetOrCreateDayForUpdate(_ context.Context, day *model.AttendanceDay) (*model.AttendanceDay, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.days[day.Date]
	if !ok {
		stored = &model.AttendanceDay{ID: uuid.New(), Date: day.Date, DateObject: day.DateObject}
		r.days[day.Date] = stored
	}
	return cloneDay(stored), nil
}

func (r *memAttendanceRepo) FindDayForUpdate(ctx context.Context, date string) (*model.AttendanceDay, error) {
	return r.FindDay(ctx, date)
}

func (r *memAttendanceRepo) FindDay(_ context.Context, date string) (*model.AttendanceDay, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.days[date]
	if !ok {
		return nil, errNotFound()
	}
	return cloneDay(stored), nil
}

func (r *memAttendanceRepo) ListDays(_ context.Context, date string) ([]model.AttendanceDay, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	days := make([]model.AttendanceDay, 0, len(r.days))
	for _, d := range r.days {
		if date == "" || d.Date == date {
			days = append(days, *cloneDay(d))
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date > days[j].Date })
	return days, nil
}

func (r *memAttendanceRepo) CountDays(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.days)), nil
}

func (r *memAttendanceRepo) CreateEntry(_ context.Context, entry *model.EmployeeAttendance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	day := r.dayByID(entry.AttendanceDayID)
	if day == nil {
		return errors.New("day missing")
	}
	entry.ID = uuid.New()
	day.Employees = append(day.Employees, *entry)
	return nil
}

func (r *memAttendanceRepo) UpdateEntry(_ context.Context, entry *model.EmployeeAttendance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.days {
		for i := range d.Employees {
			if d.Employees[i].ID == entry.ID {
				d.Employees[i] = *entry
				return nil
			}
		}
	}
	return errNotFound()
}

func (r *memAttendanceRepo) DeleteEntry(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.days {
		for i := range d.Employees {
			if d.Employees[i].ID == id {
				d.Employees = append(d.Employees[:i], d.Employees[i+1:]...)
				return nil
			}
		}
	}
	return nil
}

func (r *memAttendanceRepo) SaveCounters(_ context.Context, day *model.AttendanceDay) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := r.dayByID(day.ID)
	if stored == nil {
		return errNotFound()
	}
	stored.TotalEmployeesPresent = day.TotalEmployeesPresent
	stored.TotalEmployeesCompleted = day.TotalEmployeesCompleted
	return nil
}

func (r *memAttendanceRepo) DeleteDay(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for date, d := range r.days {
		if d.ID == id {
			delete(r.days, date)
		}
	}
	return nil
}

// memEmployeeRepo implements the employee lookups the attendance flows need.
type memEmployeeRepo struct {
	mu        sync.Mutex
	employees map[uuid.UUID]*model.Employee
}

func newMemEmployeeRepo(employees ...*model.Employee) *memEmployeeRepo {
	r := &memEmployeeRepo{employees: map[uuid.UUID]*model.Employee{}}
	for _, e := range employees {
		r.employees[e.ID] = e
	}
	return r
}

func (r *memEmployeeRepo) Create(_ context.Context, e *model.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.ID = uuid.New()
	r.employees[e.ID] = e
	return nil
}

func (r *memEmployeeRepo) Update(_ context.Context, e *model.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.employees[e.ID] = e
	return nil
}

func (r *memEmployeeRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.employees[id]
	if !ok {
		return nil, errNotFound()
	}
	c := *e
	return &c, nil
}

func (r *memEmployeeRepo) List(context.Context, string, int, int) ([]model.Employee, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Employee, 0, len(r.employees))
	for _, e := range r.employees {
		out = append(out, *e)
	}
	return out, int64(len(out)), nil
}

func (r *memEmployeeRepo) Count(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.employees)), nil
}

func (r *memEmployeeRepo) CountWithDescriptor(_ context.Context, length int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, e := range r.employees {
		if len(e.Descriptor) == length {
			n++
		}
	}
	return n, nil
}

func (r *memEmployeeRepo) UpdateAttendanceCache(_ context.Context, id uuid.UUID, cache repository.AttendanceCache) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.employees[id]
	if !ok {
		return errNotFound()
	}
	e.InTime = cache.InTime
	e.OutTime = cache.OutTime
	e.WorkingHours = cache.WorkingHours
	return nil
}

type recordingBroadcaster struct {
	mu     sync.Mutex
	events []interface{}
}

func (b *recordingBroadcaster) Broadcast(event interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(context.Context) error { return p.err }
func (p stubPinger) Name() string               { return "PostgreSQL" }
