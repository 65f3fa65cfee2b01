package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput indicates invalid input parameters
	ErrInvalidInput = errors.New("invalid input")

	// ErrSummarizerUnavailable indicates the insight summarizer is not configured
	ErrSummarizerUnavailable = errors.New("summarizer unavailable")

	// ErrScoringFailed indicates the polarity model failed on a text
	ErrScoringFailed = errors.New("sentiment scoring failed")

	// ErrCacheStore indicates the cache backend failed to read or write
	ErrCacheStore = errors.New("cache store failure")
)

// Is checks if err is or wraps target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target type
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an error with context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

func New(message string) error {
	return errors.New(message)
}

func Newf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}
