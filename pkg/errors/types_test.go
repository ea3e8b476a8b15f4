package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeOutOfBounds, "x must be lower than parent width")

	if err == nil {
		t.Fatal("New should return non-nil error")
	}

	if err.Code != ErrCodeOutOfBounds {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeOutOfBounds)
	}

	if err.Message != "x must be lower than parent width" {
		t.Errorf("Message = %v, want 'x must be lower than parent width'", err.Message)
	}

	if err.Underlying != nil {
		t.Error("Underlying should be nil for New error")
	}

	if len(err.Stack) == 0 {
		t.Error("Stack should be captured")
	}
}

func TestNewf(t *testing.T) {
	err := Newf(ErrCodeDuplicateName, "child %q already exists", "main")
	if err.Message != `child "main" already exists` {
		t.Errorf("Message = %q", err.Message)
	}
}

func TestWrap(t *testing.T) {
	underlying := errors.New("original error")
	err := Wrap(underlying, ErrCodeConfigLoad, "failed to read config")

	if err == nil {
		t.Fatal("Wrap should return non-nil error")
	}

	if err.Underlying != underlying {
		t.Error("Underlying should be preserved")
	}

	if err.Code != ErrCodeConfigLoad {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeConfigLoad)
	}

	if !strings.Contains(err.Error(), "original error") {
		t.Error("Error string should include underlying error")
	}
}

func TestWrap_Nil(t *testing.T) {
	err := Wrap(nil, ErrCodeInternal, "test")

	if err != nil {
		t.Error("Wrap of nil should return nil")
	}
}

func TestWithContext(t *testing.T) {
	err := New(ErrCodeOutOfBounds, "size too large")
	err.WithContext("axis", "x")
	err.WithContext("bound", 30)

	if err.Context["axis"] != "x" {
		t.Error("Context should contain 'axis' key")
	}

	if err.Context["bound"] != 30 {
		t.Error("Context should contain 'bound' key")
	}

	errStr := err.Error()
	if !strings.Contains(errStr, "axis: x, bound: 30") {
		t.Errorf("Error string should include sorted context, got %q", errStr)
	}
}

func TestError_String(t *testing.T) {
	err := New(ErrCodeConfigInvalid, "invalid config value")
	errStr := err.Error()

	if !strings.Contains(errStr, string(ErrCodeConfigInvalid)) {
		t.Error("Error string should contain error code")
	}

	if !strings.Contains(errStr, "invalid config value") {
		t.Error("Error string should contain message")
	}
}

func TestUnwrap(t *testing.T) {
	underlying := errors.New("underlying")
	err := Wrap(underlying, ErrCodeInternal, "wrapped")

	if err.Unwrap() != underlying {
		t.Error("Unwrap should return underlying error")
	}
}

func TestIs_Sentinels(t *testing.T) {
	err := New(ErrCodeOutOfBounds, "too wide")

	if !errors.Is(err, ErrOutOfBounds) {
		t.Error("errors.Is should match the OutOfBounds sentinel")
	}
	if errors.Is(err, ErrDuplicateName) {
		t.Error("errors.Is should not match a different code")
	}

	wrapped := fmt.Errorf("render panel: %w", err)
	if !errors.Is(wrapped, ErrOutOfBounds) {
		t.Error("errors.Is should see through fmt wrapping")
	}
}

func TestIsCode(t *testing.T) {
	err := New(ErrCodeDuplicateName, "duplicate")

	if !IsCode(err, ErrCodeDuplicateName) {
		t.Error("IsCode should return true for matching code")
	}

	if IsCode(err, ErrCodeOutOfBounds) {
		t.Error("IsCode should return false for non-matching code")
	}

	if IsCode(nil, ErrCodeDuplicateName) {
		t.Error("IsCode should return false for nil error")
	}

	stdErr := errors.New("standard error")
	if IsCode(stdErr, ErrCodeInternal) {
		t.Error("IsCode should return false for non-panelkit errors")
	}

	if !IsCode(fmt.Errorf("outer: %w", err), ErrCodeDuplicateName) {
		t.Error("IsCode should see wrapped errors")
	}
}

func TestGetCode(t *testing.T) {
	err := New(ErrCodeInvalidArgument, "bad fraction")

	if code := GetCode(err); code != ErrCodeInvalidArgument {
		t.Errorf("GetCode = %v, want %v", code, ErrCodeInvalidArgument)
	}

	if GetCode(nil) != "" {
		t.Error("GetCode should return empty string for nil")
	}

	if GetCode(errors.New("standard")) != ErrCodeInternal {
		t.Error("GetCode should return ErrCodeInternal for non-panelkit errors")
	}
}

func TestStackTrace(t *testing.T) {
	err := New(ErrCodeInternal, "boom")
	trace := err.StackTrace()

	if !strings.HasPrefix(trace, "Stack trace:") {
		t.Errorf("unexpected trace header: %q", trace)
	}
	if !strings.Contains(trace, "TestStackTrace") {
		t.Error("trace should include the calling test")
	}
}
