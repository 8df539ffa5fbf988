package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Ingestion errors
	ErrEmptyDataset   = errors.New("dataset contains no records")
	ErrInvalidPayload = errors.New("invalid data payload")
	ErrUpstreamFetch  = errors.New("upstream fetch failed")

	// Analysis errors
	ErrUnknownColumn = errors.New("unknown column")

	// Persistence errors
	ErrSessionNotFound = errors.New("session not found")
)

// Error constructors with context
func NewUnknownColumnError(column string) error {
	return fmt.Errorf("%w: %q", ErrUnknownColumn, column)
}

func NewInvalidPayloadError(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidPayload, reason)
}

func NewUpstreamFetchError(url string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrUpstreamFetch, url, err)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrSessionNotFound)
}

func IsIngestionError(err error) bool {
	return errors.Is(err, ErrEmptyDataset) ||
		errors.Is(err, ErrInvalidPayload) ||
		errors.Is(err, ErrUpstreamFetch)
}
