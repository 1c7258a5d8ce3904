package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/orderdesk/orderdesk/internal/apperr"
)

func TestNewValidation(t *testing.T) {
	err := apperr.NewValidation("field is required")

	if err.Error() != "field is required" {
		t.Errorf("expected 'field is required', got %q", err.Error())
	}
	if err.Unwrap() != nil {
		t.Errorf("expected nil unwrap, got %v", err.Unwrap())
	}
}

func TestNewValidationWrap(t *testing.T) {
	inner := fmt.Errorf("parse failed")
	err := apperr.NewValidationWrap("invalid search", inner)

	if err.Error() != "invalid search: parse failed" {
		t.Errorf("expected 'invalid search: parse failed', got %q", err.Error())
	}
	if !errors.Is(err, inner) {
		t.Error("expected Unwrap to return inner error")
	}
}

func TestNotFoundError_SurvivesFmtWrapping(t *testing.T) {
	original := apperr.NewNotFound("status not found")

	wrapped := fmt.Errorf("routing: %w", original)
	doubleWrapped := fmt.Errorf("handler: %w", wrapped)

	var nf *apperr.NotFoundError
	if !errors.As(doubleWrapped, &nf) {
		t.Fatal("errors.As should find NotFoundError through double wrapping")
	}
	if nf.Message != "status not found" {
		t.Errorf("expected 'status not found', got %q", nf.Message)
	}
}

func TestBadRequestError_NotFoundForPlainErrors(t *testing.T) {
	plain := fmt.Errorf("database connection failed")
	wrapped := fmt.Errorf("storage error: %w", plain)

	var br *apperr.BadRequestError
	if errors.As(wrapped, &br) {
		t.Fatal("errors.As should NOT find BadRequestError in plain error chain")
	}
}
