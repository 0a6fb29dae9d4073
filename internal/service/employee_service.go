package service

import (
	"context"
	"strings"
	"time"

	ierr "erp/internal/errors"
	"erp/internal/logger"
	"erp/internal/model"
	"erp/internal/repository"

	"github.com/samber/lo"
)

type CreateEmployeeRequest struct {
	EmployeeID string    `json:"employeeId" binding:"required,max=50"`
	FirstName  string    `json:"firstName" binding:"required,max=100"`
	LastName   string    `json:"lastName" binding:"max=100"`
	Email      string    `json:"email" binding:"omitempty,email"`
	Department string    `json:"department" binding:"max=100"`
	Descriptor []float64 `json:"descriptor"`
}

type UpdateEmployeeRequest struct {
	EmployeeID *string    `json:"employeeId" binding:"omitempty,max=50"`
	FirstName  *string    `json:"firstName" binding:"omitempty,max=100"`
	LastName   *string    `json:"lastName" binding:"omitempty,max=100"`
	Email      *string    `json:"email" binding:"omitempty,email"`
	Department *string    `json:"department" binding:"omitempty,max=100"`
	Descriptor *[]float64 `json:"descriptor"`
}

type EmployeeResponse struct {
	ID              string     `json:"_id"`
	EmployeeID      string     `json:"employeeId"`
	FirstName       string     `json:"firstName"`
	LastName        string     `json:"lastName"`
	FullName        string     `json:"fullName"`
	Email           string     `json:"email"`
	Department      string     `json:"department"`
	HasDescriptor   bool       `json:"hasValidDescriptor"`
	InTime          *time.Time `json:"inTime"`
	OutTime         *time.Time `json:"outTime"`
	WorkingHours    float64    `json:"workingHours"`
	CreatedAt       string     `json:"createdAt"`
	UpdatedAt       string     `json:"updatedAt"`
	DescriptorCount int        `json:"descriptorLength"`
}

type EmployeeService interface {
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	ListEmployees(ctx context.Context, search string, page, limit int) ([]EmployeeResponse, int64, error)
	GetEmployee(ctx context.Context, id string) (EmployeeResponse, error)
	UpdateEmployee(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
}

type employeeService struct {
	repo   repository.EmployeeRepository
	logger *logger.Logger
}

func NewEmployeeService(repo repository.EmployeeRepository, log *logger.Logger) EmployeeService {
	return &employeeService{repo: repo, logger: log}
}

func toEmployeeResponse(e *model.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:              e.ID.String(),
		EmployeeID:      e.EmployeeCode,
		FirstName:       e.FirstName,
		LastName:        e.LastName,
		FullName:        e.FullName(),
		Email:           e.Email,
		Department:      e.Department,
		HasDescriptor:   e.HasValidDescriptor(),
		InTime:          e.InTime,
		OutTime:         e.OutTime,
		WorkingHours:    e.WorkingHours,
		CreatedAt:       e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       e.UpdatedAt.Format(time.RFC3339),
		DescriptorCount: len(e.Descriptor),
	}
}

func (s *employeeService) CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error) {
	employee := model.Employee{
		EmployeeCode: strings.TrimSpace(req.EmployeeID),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        strings.TrimSpace(req.Email),
		Department:   strings.TrimSpace(req.Department),
		Descriptor:   req.Descriptor,
	}
	if employee.EmployeeCode == "" || employee.FirstName == "" {
		return EmployeeResponse{}, ierr.NewError("missing employee identity").
			WithHint("employeeId and firstName are required").
			Mark(ierr.ErrValidation)
	}

	if err := s.repo.Create(ctx, &employee); err != nil {
		if ierr.IsAlreadyExists(err) {
			return EmployeeResponse{}, ierr.WithError(err).
				WithHintf("Employee %s already exists", employee.EmployeeCode).
				Mark(ierr.ErrAlreadyExists)
		}
		return EmployeeResponse{}, err
	}

	if !employee.HasValidDescriptor() {
		s.logger.Warnw("employee created without a usable descriptor",
			"employee_id", employee.ID, "descriptor_length", len(employee.Descriptor))
	}

	return toEmployeeResponse(&employee), nil
}

func (s *employeeService) ListEmployees(ctx context.Context, search string, page, limit int) ([]EmployeeResponse, int64, error) {
	employees, total, err := s.repo.List(ctx, strings.TrimSpace(search), page, limit)
	if err != nil {
		return nil, 0, err
	}
	return lo.Map(employees, func(e model.Employee, _ int) EmployeeResponse {
		return toEmployeeResponse(&e)
	}), total, nil
}

func (s *employeeService) GetEmployee(ctx context.Context, id string) (EmployeeResponse, error) {
	employeeID, err := parseID(id, "employee id")
	if err != nil {
		return EmployeeResponse{}, err
	}
	employee, err := s.repo.FindByID(ctx, employeeID)
	if err != nil {
		return EmployeeResponse{}, err
	}
	return toEmployeeResponse(employee), nil
}

// UpdateEmployee changes profile fields and the descriptor. The attendance cache is not writable here.
func (s *employeeService) UpdateEmployee(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	employeeID, err := parseID(id, "employee id")
	if err != nil {
		return EmployeeResponse{}, err
	}
	employee, err := s.repo.FindByID(ctx, employeeID)
	if err != nil {
		return EmployeeResponse{}, err
	}

	if req.EmployeeID != nil {
		employee.EmployeeCode = strings.TrimSpace(*req.EmployeeID)
	}
	if req.FirstName != nil {
		employee.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		employee.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Email != nil {
		employee.Email = strings.TrimSpace(*req.Email)
	}
	if req.Department != nil {
		employee.Department = strings.TrimSpace(*req.Department)
	}
	if req.Descriptor != nil {
		employee.Descriptor = *req.Descriptor
	}
	if employee.EmployeeCode == "" || employee.FirstName == "" {
		return EmployeeResponse{}, ierr.NewError("missing employee identity").
			WithHint("employeeId and firstName cannot be empty").
			Mark(ierr.ErrValidation)
	}

	if err := s.repo.Update(ctx, employee); err != nil {
		if ierr.IsAlreadyExists(err) {
			return EmployeeResponse{}, ierr.WithError(err).
				WithHintf("Employee %s already exists", employee.EmployeeCode).
				Mark(ierr.ErrAlreadyExists)
		}
		return EmployeeResponse{}, err
	}

	return toEmployeeResponse(employee), nil
}
