package persistence

import (
	"errors"

	"github.com/quotedesk/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// wrapError maps driver errors onto the domain taxonomy. Domain errors pass
// through untouched; anything else is a retryable storage failure.
func wrapError(err error, notFoundCode, notFoundMsg string) error {
	if err == nil {
		return nil
	}
	var de *shared.DomainError
	if errors.As(err, &de) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.NewNotFoundError(notFoundCode, notFoundMsg)
	}
	return shared.NewStorageError("Storage operation failed", err)
}

func storageError(err error) error {
	return wrapError(err, "NOT_FOUND", "Record not found")
}

func concurrencyConflict(kind string) error {
	return shared.NewConflictError("CONCURRENCY_CONFLICT",
		"The "+kind+" has been modified by another user")
}
