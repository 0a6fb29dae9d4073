package service

import (
	"context"
	"encoding/json"
	"strings"

	"erp/internal/logger"
	"erp/internal/model"
	"erp/internal/repository"
	"erp/internal/requestctx"

	"github.com/google/uuid"
)

type AuditLogResponse struct {
	ID         string `json:"id"`
	UserID     string `json:"userId"`
	Username   string `json:"username"`
	Action     string `json:"action"`
	EntityID   string `json:"entityId"`
	EntityName string `json:"entityName"`
	Details    string `json:"details"`
	CreatedAt  string `json:"createdAt"`
}

// AuditLogFilter selects audit entries by action and entity.
type AuditLogFilter struct {
	Action   string
	EntityID string
	Page     int
	Limit    int
}

// AuditRecorder is the write side used by the other services.
type AuditRecorder interface {
	Record(ctx context.Context, action, entityID, entityName string, details interface{})
}

type AuditService interface {
	AuditRecorder
	GetAuditLogs(ctx context.Context, filter AuditLogFilter) ([]AuditLogResponse, int64, error)
}

type auditService struct {
	repo   repository.AuditRepository
	logger *logger.Logger
}

// NewAuditService creates a new AuditService instance
func NewAuditService(repo repository.AuditRepository, log *logger.Logger) AuditService {
	return &auditService{repo: repo, logger: log}
}

// Record writes a best-effort audit entry attributed to the user on ctx.
// Failures are logged and never fail the calling operation.
func (s *auditService) Record(ctx context.Context, action, entityID, entityName string, details interface{}) {
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		detailsJSON = []byte("{}")
	}

	entry := model.AuditLog{
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    string(detailsJSON),
	}

	if userID := requestctx.UserID(ctx); userID != "" {
		if parsed, err := uuid.Parse(userID); err == nil {
			entry.UserID = &parsed
		}
	}

	if err := s.repo.Log(ctx, &entry); err != nil {
		s.logger.Warnw("failed to write audit log", "action", action, "entity_id", entityID, "error", err)
	}
}

// GetAuditLogs returns one page of the trail, newest first
func (s *auditService) GetAuditLogs(ctx context.Context, filter AuditLogFilter) ([]AuditLogResponse, int64, error) {
	logs, total, err := s.repo.List(ctx, repository.AuditFilter{
		Action:   strings.ToUpper(strings.TrimSpace(filter.Action)),
		EntityID: strings.TrimSpace(filter.EntityID),
		Page:     filter.Page,
		Limit:    filter.Limit,
	})
	if err != nil {
		return nil, 0, err
	}

	res := make([]AuditLogResponse, 0, len(logs))
	for _, l := range logs {
		username := "System"
		userID := ""
		if l.User != nil {
			username = l.User.Username
		}
		if l.UserID != nil {
			userID = l.UserID.String()
		}

		res = append(res, AuditLogResponse{
			ID:         l.ID.String(),
			UserID:     userID,
			Username:   username,
			Action:     l.Action,
			EntityID:   l.EntityID,
			EntityName: l.EntityName,
			Details:    l.Details,
			CreatedAt:  l.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	return res, total, nil
}
