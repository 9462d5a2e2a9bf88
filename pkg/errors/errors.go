package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeNetwork represents network-related errors
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeParsing represents HTML/JSON parsing errors
	ErrorTypeParsing ErrorType = "parsing"
	// ErrorTypeRateLimit represents rate limiting errors
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypeUnavailable represents a source whose probe failed
	ErrorTypeUnavailable ErrorType = "unavailable"
	// ErrorTypeDuplicate represents an already-known record (expected, not fatal)
	ErrorTypeDuplicate ErrorType = "duplicate"
	// ErrorTypeStorage represents persistence errors
	ErrorTypeStorage ErrorType = "storage"
	// ErrorTypeAI represents summarization backend errors
	ErrorTypeAI ErrorType = "ai"
	// ErrorTypeReport represents report generation errors
	ErrorTypeReport ErrorType = "report"
	// ErrorTypeValidation represents validation errors
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

// CrawlerError represents a crawl pipeline error
type CrawlerError struct {
	Type    ErrorType
	Source  string
	Message string
	Err     error
	Time    time.Time
}

// Error implements the error interface
func (e *CrawlerError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Source, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Source, e.Message)
}

// Unwrap returns the underlying error
func (e *CrawlerError) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if a later orchestration run may succeed
func (e *CrawlerError) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeNetwork, ErrorTypeUnavailable, ErrorTypeAI:
		return true
	default:
		return false
	}
}

// New creates a new CrawlerError
func New(errType ErrorType, source, message string, err error) *CrawlerError {
	return &CrawlerError{
		Type:    errType,
		Source:  source,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// NewNetwork creates a new network error
func NewNetwork(source, message string, err error) *CrawlerError {
	return New(ErrorTypeNetwork, source, message, err)
}

// NewParsing creates a new parsing error
func NewParsing(source, message string, err error) *CrawlerError {
	return New(ErrorTypeParsing, source, message, err)
}

// NewRateLimit creates a new rate limit error
func NewRateLimit(source string, duration time.Duration) *CrawlerError {
	message := fmt.Sprintf("rate limited for %v", duration)
	return New(ErrorTypeRateLimit, source, message, nil)
}

// NewUnavailable creates a new source-unavailable error
func NewUnavailable(source string, err error) *CrawlerError {
	return New(ErrorTypeUnavailable, source, "source probe failed", err)
}

// NewDuplicate creates a new duplicate-record error
func NewDuplicate(source, url string) *CrawlerError {
	return New(ErrorTypeDuplicate, source, fmt.Sprintf("article already exists: %s", url), nil)
}

// NewStorage creates a new storage error
func NewStorage(source, message string, err error) *CrawlerError {
	return New(ErrorTypeStorage, source, message, err)
}

// NewAI creates a new summarization backend error
func NewAI(message string, err error) *CrawlerError {
	return New(ErrorTypeAI, "", message, err)
}

// NewReport creates a new report generation error
func NewReport(message string, err error) *CrawlerError {
	return New(ErrorTypeReport, "", message, err)
}

// NewValidation creates a new validation error
func NewValidation(source, message string) *CrawlerError {
	return New(ErrorTypeValidation, source, message, nil)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *CrawlerError {
	return New(ErrorTypeConfiguration, "", message, err)
}

// IsDuplicate reports whether err is a duplicate-record error
func IsDuplicate(err error) bool {
	var ce *CrawlerError
	if errors.As(err, &ce) {
		return ce.Type == ErrorTypeDuplicate
	}
	return false
}
