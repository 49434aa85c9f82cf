package content

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrNotFound          = errors.New("content: not found")
	ErrSlugExists        = errors.New("content: slug already exists")
	ErrTranslationExists = errors.New("content: translation already exists")
	ErrValidation        = errors.New("content: validation failed")
	ErrStorage           = errors.New("content: storage failure")

	ErrSlugRequired    = errors.New("content: slug is required")
	ErrSlugInvalid     = errors.New("content: slug contains invalid characters")
	ErrUnknownLanguage = errors.New("content: unknown language")
	ErrPageOutOfRange  = errors.New("content: page and pageSize must be positive")
)

// NotFoundError represents missing records from repository lookups.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e == nil {
		return ErrNotFound.Error()
	}
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// DuplicateSlugError captures slug uniqueness violations on create or update.
type DuplicateSlugError struct {
	Slug string
}

func (e *DuplicateSlugError) Error() string {
	if e == nil || e.Slug == "" {
		return ErrSlugExists.Error()
	}
	return fmt.Sprintf("%s: slug=%s", ErrSlugExists.Error(), e.Slug)
}

func (e *DuplicateSlugError) Unwrap() error { return ErrSlugExists }

// DuplicateTranslationError captures (content, language) uniqueness violations.
type DuplicateTranslationError struct {
	ContentID uuid.UUID
	Language  Language
}

func (e *DuplicateTranslationError) Error() string {
	if e == nil {
		return ErrTranslationExists.Error()
	}
	return fmt.Sprintf("%s: content=%s language=%s", ErrTranslationExists.Error(), e.ContentID, e.Language)
}

func (e *DuplicateTranslationError) Unwrap() error { return ErrTranslationExists }

// ValidationError carries the underlying field-level validation failure.
type ValidationError struct {
	Cause error
}

func (e *ValidationError) Error() string {
	if e == nil || e.Cause == nil {
		return ErrValidation.Error()
	}
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), e.Cause)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// StorageError wraps raw storage collaborator failures. The original cause is
// kept for diagnostics; callers branch on the taxonomy, not the driver error.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	if e == nil {
		return ErrStorage.Error()
	}
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", ErrStorage.Error(), e.Op)
	}
	return fmt.Sprintf("%s: %s: %s", ErrStorage.Error(), e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return ErrStorage }

func newValidationError(cause error) error {
	if cause == nil {
		return nil
	}
	return &ValidationError{Cause: cause}
}

func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}
