package domain

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorKindLabels(t *testing.T) {
	tests := []struct {
		name  string
		kind  ErrorKind
		label string
	}{
		{"generic", KindGeneric, "Azure DevOps API Error"},
		{"authentication", KindAuthentication, "Authentication Failed"},
		{"validation", KindValidation, "Validation Error"},
		{"not found", KindResourceNotFound, "Not Found"},
		{"permission", KindPermission, "Permission Denied"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.kind.Label(); got != tt.label {
				t.Errorf("Label() = %q, want %q", got, tt.label)
			}
		})
	}
}

func TestDomainErrorMessage(t *testing.T) {
	err := NewNotFoundError("work item 42 does not exist")
	want := "Not Found: work item 42 does not exist"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestErrorFromStatusCode(t *testing.T) {
	tests := []struct {
		name   string
		status int
		kind   ErrorKind
	}{
		{"404 maps to not found", http.StatusNotFound, KindResourceNotFound},
		{"400 maps to validation", http.StatusBadRequest, KindValidation},
		{"401 maps to permission", http.StatusUnauthorized, KindPermission},
		{"403 maps to permission", http.StatusForbidden, KindPermission},
		{"500 maps to generic", http.StatusInternalServerError, KindGeneric},
		{"429 maps to generic", http.StatusTooManyRequests, KindGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ErrorFromStatusCode(tt.status, "boom", "body")
			if err.Kind != tt.kind {
				t.Errorf("kind = %v, want %v", err.Kind, tt.kind)
			}
		})
	}
}

func TestErrorFromStatusCodeKeepsBodyForValidation(t *testing.T) {
	body := `{"message":"The field 'System.Title' is required"}`
	err := ErrorFromStatusCode(http.StatusBadRequest, "bad request", body)

	details, ok := err.Details.(string)
	if !ok {
		t.Fatalf("details type = %T, want string", err.Details)
	}
	if details != body {
		t.Errorf("details = %q, want the raw response body", details)
	}
}

func TestClassifyPassesDomainErrorsThrough(t *testing.T) {
	original := NewPermissionError("access denied to project")
	classified := Classify(original)
	if classified != original {
		t.Error("Classify should return the original DomainError unchanged")
	}
}

func TestClassifyWrappedDomainError(t *testing.T) {
	original := NewNotFoundError("missing")
	wrapped := fmt.Errorf("fetching work item: %w", original)

	classified := Classify(wrapped)
	if classified.Kind != KindResourceNotFound {
		t.Errorf("kind = %v, want KindResourceNotFound", classified.Kind)
	}
}

func TestClassifyPlainError(t *testing.T) {
	classified := Classify(errors.New("connection reset by peer"))
	if classified.Kind != KindGeneric {
		t.Errorf("kind = %v, want KindGeneric", classified.Kind)
	}
	if classified.Message != "connection reset by peer" {
		t.Errorf("message = %q, original message must be preserved", classified.Message)
	}
}
