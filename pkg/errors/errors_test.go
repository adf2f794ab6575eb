package errors

import (
	"errors"
	"fmt"
	"strconv"
	"testing"
)

// TestNew tests creating a new AppError
func TestNew(t *testing.T) {
	err := New(ErrCodeValidation, "validation failed")

	if err == nil {
		t.Fatal("New() returned nil")
	}

	if err.Code != ErrCodeValidation {
		t.Errorf("Code = %s, want %s", err.Code, ErrCodeValidation)
	}

	if err.Message != "validation failed" {
		t.Errorf("Message = %s, want 'validation failed'", err.Message)
	}

	if err.Err != nil {
		t.Error("Err should be nil for New()")
	}
}

// TestAppError_Error tests the Error method
func TestAppError_Error(t *testing.T) {
	t.Run("without underlying error", func(t *testing.T) {
		err := New(ErrCodeValidation, "invalid input")

		if got := err.Error(); got != "[E1001] invalid input" {
			t.Errorf("Error() = %s, want '[E1001] invalid input'", got)
		}
	})

	t.Run("with underlying error", func(t *testing.T) {
		err := Wrap(ErrCodeConfigNotFound, "config error", errors.New("file not found"))

		if got := err.Error(); got != "[E6001] config error: file not found" {
			t.Errorf("Error() = %s, want '[E6001] config error: file not found'", got)
		}
	})
}

// TestAppError_Unwrap tests errors.Unwrap and errors.Is compatibility
func TestAppError_Unwrap(t *testing.T) {
	originalErr := errors.New("original")
	err := Wrap(ErrCodeInternal, "message", originalErr)

	if errors.Unwrap(err) != originalErr {
		t.Error("errors.Unwrap() should return the original error")
	}
	if !errors.Is(err, originalErr) {
		t.Error("errors.Is() should find the original error")
	}
	if New(ErrCodeValidation, "message").Unwrap() != nil {
		t.Error("Unwrap() should return nil when no underlying error")
	}
}

// TestAppError_ExitCode tests the ExitCode mapping
func TestAppError_ExitCode(t *testing.T) {
	tests := []struct {
		code     ErrorCode
		expected int
	}{
		{ErrCodeConfigNotFound, ExitCodeConfigValidation},
		{ErrCodeConfigInvalid, ExitCodeConfigValidation},
		{ErrCodeConfigParse, ExitCodeConfigValidation},
		{ErrCodeSourceDateEpoch, ExitCodeConfigValidation},
		{ErrCodePattern, ExitCodeFailure},
		{ErrCodeGenerate, ExitCodeFailure},
		{ErrCodeWriteOutput, ExitCodeFailure},
		{ErrCodeInternal, ExitCodeFailure},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := New(tt.code, "test error").ExitCode(); got != tt.expected {
				t.Errorf("ExitCode() = %d, want %d", got, tt.expected)
			}
		})
	}
}

// TestExitCode tests the package-level ExitCode helper
func TestExitCode(t *testing.T) {
	if got := ExitCode(nil); got != 0 {
		t.Errorf("ExitCode(nil) = %d, want 0", got)
	}
	if got := ExitCode(errors.New("plain")); got != ExitCodeFailure {
		t.Errorf("ExitCode(plain) = %d, want %d", got, ExitCodeFailure)
	}

	wrapped := fmt.Errorf("resolve: %w", ErrSourceDateEpoch("SOURCE_DATE_EPOCH", "abc", strconv.ErrSyntax))
	if got := ExitCode(wrapped); got != ExitCodeConfigValidation {
		t.Errorf("ExitCode(wrapped epoch error) = %d, want %d", got, ExitCodeConfigValidation)
	}
}

// TestAppError_WithDetails tests the WithDetails method
func TestAppError_WithDetails(t *testing.T) {
	err := New(ErrCodePattern, "bad pattern")

	result := err.WithDetails(map[string]int{"offset": 3})
	if result != err {
		t.Error("WithDetails() should return the same error")
	}

	details, ok := err.Details.(map[string]int)
	if !ok {
		t.Fatal("Details should be map[string]int")
	}
	if details["offset"] != 3 {
		t.Errorf("Details[offset] = %d, want 3", details["offset"])
	}
}

// TestErrSourceDateEpoch tests the epoch error constructor
func TestErrSourceDateEpoch(t *testing.T) {
	err := ErrSourceDateEpoch("SOURCE_DATE_EPOCH", "abc", strconv.ErrSyntax)

	if err.Code != ErrCodeSourceDateEpoch {
		t.Errorf("Code = %s, want %s", err.Code, ErrCodeSourceDateEpoch)
	}
	if err.Message != `invalid SOURCE_DATE_EPOCH value "abc"` {
		t.Errorf("Message = %s", err.Message)
	}
	if !errors.Is(err, strconv.ErrSyntax) {
		t.Error("should wrap the parse error")
	}
}

// TestErrPattern tests the pattern error constructor
func TestErrPattern(t *testing.T) {
	cause := errors.New("unknown directive %Q at offset 0")
	err := ErrPattern("%Q", cause)

	if err.Code != ErrCodePattern {
		t.Errorf("Code = %s, want %s", err.Code, ErrCodePattern)
	}
	if err.Error() != `[E7002] invalid format pattern "%Q": unknown directive %Q at offset 0` {
		t.Errorf("Error() = %s", err.Error())
	}
}

// TestAsAppError tests the AsAppError function
func TestAsAppError(t *testing.T) {
	original := New(ErrCodeValidation, "test")
	appErr, ok := AsAppError(original)
	if !ok || appErr != original {
		t.Error("AsAppError() should return the same error")
	}

	if _, ok := AsAppError(errors.New("regular error")); ok {
		t.Error("AsAppError() should return false for regular error")
	}
}

// TestHasCode tests code matching through wrapped errors
func TestHasCode(t *testing.T) {
	err := fmt.Errorf("generate: %w", New(ErrCodeWriteOutput, "disk full"))

	if !HasCode(err, ErrCodeWriteOutput) {
		t.Error("HasCode() should match the wrapped code")
	}
	if HasCode(err, ErrCodePattern) {
		t.Error("HasCode() should not match a different code")
	}
}

// TestErrorCodes tests that all error codes are unique
func TestErrorCodes(t *testing.T) {
	codes := []ErrorCode{
		ErrCodeInternal,
		ErrCodeValidation,
		ErrCodeConfigNotFound,
		ErrCodeConfigInvalid,
		ErrCodeConfigParse,
		ErrCodeSourceDateEpoch,
		ErrCodePattern,
		ErrCodeGenerate,
		ErrCodeWriteOutput,
	}

	seen := make(map[ErrorCode]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
