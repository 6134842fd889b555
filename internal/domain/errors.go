package domain

import (
	"errors"
	"net/http"
)

// ErrorKind identifies one of the closed set of failure categories used
// throughout the server. New kinds must be added to the Label table below;
// the dispatcher relies on that table being exhaustive.
type ErrorKind int

const (
	// KindGeneric covers remote API failures and anything left unclassified.
	KindGeneric ErrorKind = iota
	// KindAuthentication covers credential configuration and acquisition failures.
	KindAuthentication
	// KindValidation covers schema violations and bad request parameters.
	KindValidation
	// KindResourceNotFound covers missing work items, projects, and repositories.
	KindResourceNotFound
	// KindPermission covers authorization failures returned by Azure DevOps.
	KindPermission
)

// Label returns the fixed, user-visible prefix for this kind.
// Every failure leaving the dispatcher is rendered as "<Label>: <message>".
func (k ErrorKind) Label() string {
	switch k {
	case KindAuthentication:
		return "Authentication Failed"
	case KindValidation:
		return "Validation Error"
	case KindResourceNotFound:
		return "Not Found"
	case KindPermission:
		return "Permission Denied"
	default:
		return "Azure DevOps API Error"
	}
}

// DomainError is a classified failure with a stable kind and message.
// It is created at the point where the failure class is known (usually an
// HTTP status code), propagated by value up the call stack, and consumed
// by the dispatcher, which converts it into a failed tool response.
type DomainError struct {
	Kind    ErrorKind
	Message string
	// Details optionally carries structured context for the failure,
	// e.g. the raw error body returned by the Azure DevOps REST API.
	Details interface{}
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	return e.Kind.Label() + ": " + e.Message
}

// NewGenericError creates a DomainError for unclassified failures.
func NewGenericError(message string) *DomainError {
	return &DomainError{Kind: KindGeneric, Message: message}
}

// NewAuthenticationError creates a DomainError for credential failures.
func NewAuthenticationError(message string) *DomainError {
	return &DomainError{Kind: KindAuthentication, Message: message}
}

// NewValidationError creates a DomainError for invalid input.
// The details parameter may carry the raw API error body or the list of
// violated fields; pass nil when no structured context is available.
func NewValidationError(message string, details interface{}) *DomainError {
	return &DomainError{Kind: KindValidation, Message: message, Details: details}
}

// NewNotFoundError creates a DomainError for a missing resource.
func NewNotFoundError(message string) *DomainError {
	return &DomainError{Kind: KindResourceNotFound, Message: message}
}

// NewPermissionError creates a DomainError for an authorization failure.
func NewPermissionError(message string) *DomainError {
	return &DomainError{Kind: KindPermission, Message: message}
}

// ErrorFromStatusCode classifies a non-success HTTP response from the
// Azure DevOps REST API into a DomainError. Classification happens here,
// at the point where the status code is known:
//
//	404        -> ResourceNotFound
//	400        -> Validation (the raw response body is kept as details)
//	401, 403   -> Permission
//	everything else -> Generic
func ErrorFromStatusCode(statusCode int, message, body string) *DomainError {
	switch statusCode {
	case http.StatusNotFound:
		return NewNotFoundError(message)
	case http.StatusBadRequest:
		return NewValidationError(message, body)
	case http.StatusUnauthorized, http.StatusForbidden:
		return NewPermissionError(message)
	default:
		return NewGenericError(message)
	}
}

// Classify converts an arbitrary error into a DomainError. Errors that
// already carry a kind pass through unchanged; everything else (including
// wrapped transport and programming faults) becomes Generic with the
// original message preserved.
func Classify(err error) *DomainError {
	var de *DomainError
	if errors.As(err, &de) {
		return de
	}
	return NewGenericError(err.Error())
}
