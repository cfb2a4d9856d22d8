package services

import "errors"

var (
	// ErrInvalidArgument marks errors caused by caller input (bad DSL, out of range values)
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidAPIKey is returned when a presented API key is unknown
	ErrInvalidAPIKey = errors.New("invalid api key")

	// ErrAPIKeyExpired is returned when a presented API key is past its expiry
	ErrAPIKeyExpired = errors.New("api key expired")
)

// MetricsRecorder receives service level events
type MetricsRecorder interface {
	RecordSchemaWrite(appID string)
	RecordAuthFailure(reason string)
}

type nopMetrics struct{}

func (nopMetrics) RecordSchemaWrite(string) {}
func (nopMetrics) RecordAuthFailure(string) {}
