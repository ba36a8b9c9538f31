// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package errorutils classifies errors returned by the Azure Resource
// Manager SDK and the Microsoft Graph SDK.
package errorutils

import (
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/juju/errors"
	"github.com/microsoftgraph/msgraph-sdk-go/models/odataerrors"
)

// Error codes reported by the directory and the authorization service.
const (
	CodeRequestResourceNotFound = "Request_ResourceNotFound"
	CodeResourceNotFound        = "ResourceNotFound"
	CodePrincipalNotFound       = "PrincipalNotFound"
	CodeRoleAssignmentExists    = "RoleAssignmentExists"
	CodeObjectConflict          = "ObjectConflict"
)

// StatusCode returns the HTTP status code carried by err, or zero if err
// did not come from an HTTP response.
func StatusCode(err error) int {
	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		return respErr.StatusCode
	}
	var odataErr *odataerrors.ODataError
	if errors.As(err, &odataErr) {
		return odataErr.ResponseStatusCode
	}
	return 0
}

// ErrorCode returns the service specific error code carried by err.
func ErrorCode(err error) string {
	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		return respErr.ErrorCode
	}
	var odataErr *odataerrors.ODataError
	if errors.As(err, &odataErr) {
		if main := odataErr.GetErrorEscaped(); main != nil && main.GetCode() != nil {
			return *main.GetCode()
		}
	}
	return ""
}

// Message returns the human readable message of a service error, falling
// back to err.Error().
func Message(err error) string {
	var odataErr *odataerrors.ODataError
	if errors.As(err, &odataErr) {
		if main := odataErr.GetErrorEscaped(); main != nil && main.GetMessage() != nil {
			return *main.GetMessage()
		}
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// IsNotFoundError reports whether err means the target object does not
// exist (or is not visible yet).
func IsNotFoundError(err error) bool {
	if StatusCode(err) == http.StatusNotFound {
		return true
	}
	switch ErrorCode(err) {
	case CodeRequestResourceNotFound, CodeResourceNotFound:
		return true
	}
	return false
}

// IsConflictError reports whether err is an HTTP 409.
func IsConflictError(err error) bool {
	return StatusCode(err) == http.StatusConflict
}

// IsThrottledError reports whether err is an HTTP 429.
func IsThrottledError(err error) bool {
	return StatusCode(err) == http.StatusTooManyRequests
}

// IsServerError reports whether err is an HTTP 5xx.
func IsServerError(err error) bool {
	code := StatusCode(err)
	return code >= http.StatusInternalServerError && code < 600
}

// IsTransientError reports whether err is worth retrying: an object that
// has not replicated yet, throttling, or a server side failure.
func IsTransientError(err error) bool {
	return IsNotFoundError(err) || IsThrottledError(err) || IsServerError(err)
}

// IsPrincipalNotFound reports whether a role assignment failed because the
// principal has not yet replicated to the authorization service.
func IsPrincipalNotFound(err error) bool {
	return ErrorCode(err) == CodePrincipalNotFound
}

// IsRoleAssignmentExists reports whether a role assignment create failed
// because an identical assignment already exists.
func IsRoleAssignmentExists(err error) bool {
	return ErrorCode(err) == CodeRoleAssignmentExists
}
