package service

import (
	"strings"
	"time"

	ierr "erp/internal/errors"
	"erp/internal/model"

	"github.com/google/uuid"
)

// parseID parses a required UUID path/body value. field names the value in the client message.
func parseID(raw, field string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, ierr.NewErrorf("%s is empty", field).
			WithHintf("%s is required", field).
			Mark(ierr.ErrValidation)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, ierr.WithError(err).
			WithHintf("Invalid %s", field).
			Mark(ierr.ErrValidation)
	}
	return id, nil
}

// parseOptionalID returns nil for an empty value.
func parseOptionalID(raw, field string) (*uuid.UUID, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	id, err := parseID(raw, field)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// parseDate parses a YYYY-MM-DD value. An empty value yields nil.
func parseDate(raw, field string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(model.DateLayout, raw)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Invalid %s, expected YYYY-MM-DD", field).
			Mark(ierr.ErrValidation)
	}
	return &t, nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(model.DateLayout)
}

func uuidString(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}
