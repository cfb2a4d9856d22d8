package client

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrNotFound is returned by Get when no record has the key
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized is matched by errors caused by a missing, invalid or expired API key
	ErrUnauthorized = errors.New("unauthorized")

	// ErrConditionFailed is matched by errors of mutations whose condition did not hold
	ErrConditionFailed = errors.New("condition failed")

	// ErrThrottled is matched by errors of rejected requests over the rate limit
	ErrThrottled = errors.New("throttled")

	// ErrNoEndpoint is returned by New without an endpoint
	ErrNoEndpoint = errors.New("endpoint is required")
)

// Error types reported by the API
const (
	errorTypeUnauthorized    = "UnauthorizedException"
	errorTypeConditionFailed = "DynamoDB:ConditionalCheckFailedException"
	errorTypeThrottled       = "DynamoDB:ProvisionedThroughputExceededException"
)

// GraphQLError is one entry of the errors array of a response
type GraphQLError struct {
	Message   string         `json:"message"`
	ErrorType string         `json:"errorType,omitempty"`
	Path      []any          `json:"path,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
}

// ResponseError is returned when the API answers with errors or a non-2xx status
type ResponseError struct {
	Operation  string
	StatusCode int
	Errors     []GraphQLError
}

// Error implements error
func (e *ResponseError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, ge := range e.Errors {
		if ge.ErrorType != "" {
			msgs = append(msgs, fmt.Sprintf("%s: %s", ge.ErrorType, ge.Message))
		} else {
			msgs = append(msgs, ge.Message)
		}
	}
	if len(msgs) == 0 {
		msgs = append(msgs, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("%s failed (status %d): %s", e.Operation, e.StatusCode, strings.Join(msgs, "; "))
}

// Is matches ErrUnauthorized, ErrConditionFailed and ErrThrottled
func (e *ResponseError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden || e.hasType(errorTypeUnauthorized)
	case ErrConditionFailed:
		return e.hasType(errorTypeConditionFailed)
	case ErrThrottled:
		return e.StatusCode == http.StatusTooManyRequests || e.hasType(errorTypeThrottled) || e.hasType("Throttling")
	}
	return false
}

func (e *ResponseError) hasType(errorType string) bool {
	for _, ge := range e.Errors {
		if ge.ErrorType == errorType {
			return true
		}
	}
	return false
}
