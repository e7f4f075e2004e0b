package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestOpError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *OpError
		wantText string
	}{
		{
			name: "error with path",
			err: &OpError{
				Op:   "stat certificate path",
				Path: "/etc/pki/tls/certs",
				Err:  fmt.Errorf("permission denied"),
			},
			wantText: "stat certificate path /etc/pki/tls/certs: permission denied",
		},
		{
			name: "error without path",
			err: &OpError{
				Op:  "read system trust store",
				Err: fmt.Errorf("keychain unavailable"),
			},
			wantText: "read system trust store: keychain unavailable",
		},
		{
			name: "error with empty path",
			err: &OpError{
				Op:   "write bundle",
				Path: "",
				Err:  fmt.Errorf("disk full"),
			},
			wantText: "write bundle: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			if got != tt.wantText {
				t.Errorf("Error() = %q, want %q", got, tt.wantText)
			}
		})
	}
}

func TestOpError_Unwrap(t *testing.T) {
	underlyingErr := fmt.Errorf("underlying error")
	opErr := &OpError{
		Op:  "test operation",
		Err: underlyingErr,
	}

	if unwrapped := opErr.Unwrap(); unwrapped != underlyingErr {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, underlyingErr)
	}
}

func TestPredefinedErrors(t *testing.T) {
	all := []error{
		ErrNotAbsolute,
		ErrNotFound,
		ErrNoPEM,
		ErrNoReader,
		ErrLockTimeout,
		ErrConfigExists,
		ErrEmptyBundle,
		ErrReaderPanicked,
	}

	for i, err1 := range all {
		for j, err2 := range all {
			if i != j && err1 == err2 {
				t.Errorf("Errors at index %d and %d are the same: %v", i, j, err1)
			}
		}
	}

	tests := []struct {
		err         error
		wantContain string
	}{
		{ErrNotAbsolute, "not absolute"},
		{ErrNotFound, "not found"},
		{ErrNoPEM, "PEM"},
		{ErrLockTimeout, "lock"},
		{ErrConfigExists, "exists"},
		{ErrReaderPanicked, "panicked"},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			msg := tt.err.Error()
			if !strings.Contains(strings.ToLower(msg), strings.ToLower(tt.wantContain)) {
				t.Errorf("Error message %q does not contain %q", msg, tt.wantContain)
			}
		})
	}
}

func TestErrorWrapping(t *testing.T) {
	wrappedErr := &OpError{
		Op:   "expand certificate path",
		Path: "relative/x",
		Err:  ErrNotAbsolute,
	}

	if !errors.Is(wrappedErr, ErrNotAbsolute) {
		t.Error("errors.Is() should find sentinel in wrapped error")
	}
	if !IsError(fmt.Errorf("outer: %w", wrappedErr), ErrNotAbsolute) {
		t.Error("IsError() should see through fmt.Errorf wrapping")
	}

	var opErr *OpError
	if !errors.As(wrappedErr, &opErr) {
		t.Fatal("errors.As() should match OpError type")
	}
	if opErr.Path != "relative/x" {
		t.Errorf("errors.As() extracted wrong OpError: got Path=%q", opErr.Path)
	}
}

func TestExitCodes(t *testing.T) {
	codes := map[string]int{
		"ExitSuccess":      ExitSuccess,
		"ExitGeneralError": ExitGeneralError,
		"ExitConfigError":  ExitConfigError,
		"ExitCertError":    ExitCertError,
		"ExitNetworkError": ExitNetworkError,
	}

	seen := make(map[int]string)
	for name, code := range codes {
		if prevName, exists := seen[code]; exists {
			t.Errorf("Exit codes %s and %s have the same value: %d", name, prevName, code)
		}
		seen[code] = name
		if code < 0 || code > 255 {
			t.Errorf("%s = %d, should be in range 0-255", name, code)
		}
	}

	if ExitSuccess != 0 {
		t.Errorf("ExitSuccess = %d, want 0", ExitSuccess)
	}
}
