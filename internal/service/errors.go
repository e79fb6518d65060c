package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/SergeiKhy/shop-directory/internal/repository"
)

// Ошибки сервиса. Конкретные типы ниже сопоставляются с ними через errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrStorage    = errors.New("storage failure")
)

// ValidationError: некорректный ввод клиента; состояние хранилища не менялось
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NotFoundError: сущность с указанным id отсутствует
type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// storageError сохраняет исходную ошибку для логов, но наружу она сопоставляется с ErrStorage
func storageError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}

// mapRepoErr переводит ошибки репозитория в таксономию сервиса
func mapRepoErr(op, resource string, id int64, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrListingNotFound),
		errors.Is(err, repository.ErrRegionNotFound),
		errors.Is(err, repository.ErrSubRegionNotFound):
		return &NotFoundError{Resource: resource, ID: id}
	case errors.Is(err, repository.ErrSlugExists):
		return invalid("slug", "already exists")
	case errors.Is(err, repository.ErrReferenceMissing):
		return invalid("region_id", "references an entity that does not exist")
	case errors.Is(err, context.DeadlineExceeded):
		return storageError(op+": timed out", err)
	}
	return storageError(op, err)
}
