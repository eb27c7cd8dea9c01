package testutil

import (
	"errors"
	"testing"

	"gorm.io/gorm"

	apperrors "budgetly/internal/errors"
)

// AssertAppError fails unless err is an *AppError carrying expectedCode.
func AssertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()
	appErr := requireAppError(t, err, expectedCode)
	if appErr.Code != expectedCode {
		t.Errorf("expected error code %q, got %q (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

// AssertErrorIs fails unless err carries the code and status of sentinel.
// Wrapped and re-messaged errors still match.
func AssertErrorIs(t *testing.T, err error, sentinel *apperrors.AppError) {
	t.Helper()
	appErr := requireAppError(t, err, sentinel.Code)
	if appErr.Code != sentinel.Code || appErr.StatusCode != sentinel.StatusCode {
		t.Errorf("expected %s (%d), got %s (%d): %s",
			sentinel.Code, sentinel.StatusCode, appErr.Code, appErr.StatusCode, appErr.Message)
	}
}

func requireAppError(t *testing.T, err error, expectedCode string) *apperrors.AppError {
	t.Helper()
	if err == nil {
		t.Fatalf("expected AppError with code %q, got nil", expectedCode)
	}
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}
	return appErr
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertRowCount fails unless model has want rows matching the condition.
// An empty query counts every row.
func AssertRowCount(t *testing.T, db *gorm.DB, model interface{}, want int64, query string, args ...interface{}) {
	t.Helper()
	q := db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	var got int64
	if err := q.Count(&got).Error; err != nil {
		t.Fatalf("failed to count rows: %v", err)
	}
	if got != want {
		t.Errorf("expected %d rows, got %d", want, got)
	}
}
