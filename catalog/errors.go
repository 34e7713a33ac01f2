package catalog

import (
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

const (
	ErrCodeNotFound      = "CATALOG_NOT_FOUND"
	ErrCodeUpstream      = "CATALOG_UPSTREAM"
	ErrCodeInvalidRecord = "CATALOG_INVALID_RECORD"
	ErrCodeDecode        = "CATALOG_DECODE"
)

// NotFound builds the error returned when a record does not exist.
func NotFound(kind, key string) error {
	return goerrors.New(fmt.Sprintf("%s %q not found", kind, key), goerrors.CategoryNotFound).
		WithTextCode(ErrCodeNotFound).
		WithCode(404)
}

// IsNotFound reports whether err carries the not found category.
func IsNotFound(err error) bool {
	var typed *goerrors.Error
	if !errors.As(err, &typed) {
		return false
	}
	return typed.Category == goerrors.CategoryNotFound
}

// StatusCode returns the HTTP status attached to err, or 0.
func StatusCode(err error) int {
	var typed *goerrors.Error
	if !errors.As(err, &typed) {
		return 0
	}
	return typed.Code
}

// TextCode returns the text code attached to err, or "".
func TextCode(err error) string {
	var typed *goerrors.Error
	if !errors.As(err, &typed) {
		return ""
	}
	return typed.TextCode
}
