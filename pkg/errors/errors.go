// Copyright 2025 The MinIO-Ranger Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// GatewayError is the structured error type used across the gateway.
// HTTPStatus is excluded from JSON responses; the transport layer maps it.
type GatewayError struct {
	Code    ErrorCode `json:"code"`
	Domain  Domain    `json:"domain"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`

	HTTPStatus int `json:"-"`

	// Metadata carries contextual key-values for API responses and logs.
	Metadata map[string]string `json:"metadata,omitempty"`

	err error // wrapped cause, if any
}

func (e *GatewayError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s-%d] %s: %s", e.Domain, e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s-%d] %s", e.Domain, e.Code, e.Message)
}

func (e *GatewayError) Unwrap() error {
	return e.err
}

// WithMetadata attaches a contextual key-value pair and returns the error
// for chaining.
func (e *GatewayError) WithMetadata(key, value string) *GatewayError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]string)
	}
	e.Metadata[key] = value
	return e
}

// New creates a GatewayError for the given code with optional details.
func New(code ErrorCode, details string) *GatewayError {
	def, ok := errorDefinitions[code]
	if !ok {
		return &GatewayError{
			Code:       code,
			Domain:     DomainMisc,
			Message:    "Unknown error",
			Details:    details,
			HTTPStatus: http.StatusInternalServerError,
		}
	}
	return &GatewayError{
		Code:       code,
		Domain:     def.domain,
		Message:    def.message,
		Details:    details,
		HTTPStatus: def.httpStatus,
	}
}

// Wrap converts err into a GatewayError for the given code, preserving the
// cause. A GatewayError passed with its own code is returned unchanged.
func Wrap(err error, code ErrorCode) *GatewayError {
	if err == nil {
		return nil
	}
	var ge *GatewayError
	if errors.As(err, &ge) && ge.Code == code {
		return ge
	}
	wrapped := New(code, err.Error())
	wrapped.err = err
	return wrapped
}

// IsGatewayError reports whether err is (or wraps) a GatewayError with the
// given code.
func IsGatewayError(err error, code ErrorCode) bool {
	var ge *GatewayError
	if errors.As(err, &ge) {
		return ge.Code == code
	}
	return false
}

// GetHTTPStatus extracts the HTTP status for an error, defaulting to 500.
func GetHTTPStatus(err error) int {
	var ge *GatewayError
	if errors.As(err, &ge) && ge.HTTPStatus != 0 {
		return ge.HTTPStatus
	}
	return http.StatusInternalServerError
}
