// Package repository provides data access layer implementations for the application.
package repository

import (
	"errors"

	"yatube/internal/database"
	"yatube/internal/models"

	"gorm.io/gorm"
)

// readError maps a lookup failure to NotFound or Internal.
func readError(err error, resource string, id interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	return models.NewInternalError(err)
}

// writeError maps integrity violations to ConstraintViolation so callers can
// tell a rejected write from a failed one.
func writeError(err error, message string) error {
	if database.IsConstraintViolation(err) {
		return models.NewConstraintViolationError(message, err)
	}
	return models.NewInternalError(err)
}
