package repository

import (
	"errors"

	ierr "erp/internal/errors"

	"gorm.io/gorm"
)

// translateErr marks gorm failures with the application taxonomy.
// entity is used in the client-facing hint, e.g. "Billing record".
func translateErr(err error, entity string) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ierr.WithError(err).
			WithHintf("%s not found", entity).
			Mark(ierr.ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ierr.WithError(err).
			WithHintf("%s already exists", entity).
			Mark(ierr.ErrAlreadyExists)
	default:
		return ierr.WithError(err).
			WithMessage(entity + " query failed").
			Mark(ierr.ErrDatabase)
	}
}
