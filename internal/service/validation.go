package service

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const maxKeywordLength = 100

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// В сообщениях об ошибках используем имена полей из JSON
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}

	return v
}

// validateInput проверяет входную структуру и возвращает первую ошибку как ValidationError
func validateInput(input any) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return invalid(fe.Field(), describeFieldError(fe))
	}

	return invalid("body", err.Error())
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "url":
		return "must be a valid URL"
	case "slug":
		return "must contain lowercase letters, digits and single dashes"
	}
	return fmt.Sprintf("failed %q check", fe.Tag())
}

// ParseID разбирает идентификатор: только положительное целое
func ParseID(field, raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, invalid(field, fmt.Sprintf("must be a positive integer, got %q", raw))
	}
	return id, nil
}

// parseOptionalID возвращает nil для пустого значения
func parseOptionalID(field, raw string) (*int64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	id, err := ParseID(field, raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// parseLimit: пусто -> def, больше max -> max, остальное должно быть положительным целым
func parseLimit(raw string, def, max int) (int, error) {
	if strings.TrimSpace(raw) == "" {
		return def, nil
	}
	limit, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || limit <= 0 {
		return 0, invalid("limit", fmt.Sprintf("must be a positive integer, got %q", raw))
	}
	if limit > max {
		limit = max
	}
	return limit, nil
}

func parseKeyword(raw string) (*string, error) {
	keyword := strings.TrimSpace(raw)
	if keyword == "" {
		return nil, nil
	}
	// Postgres отвергает такие строки в параметрах, поэтому это ошибка ввода, а не хранилища
	if !utf8.ValidString(keyword) || strings.ContainsRune(keyword, 0) {
		return nil, invalid("keyword", "must be valid UTF-8 text without NUL characters")
	}
	if utf8.RuneCountInString(keyword) > maxKeywordLength {
		return nil, invalid("keyword", fmt.Sprintf("must be at most %d characters", maxKeywordLength))
	}
	return &keyword, nil
}
