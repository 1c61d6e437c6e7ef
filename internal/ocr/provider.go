// internal/ocr/provider.go
package ocr

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Provider is a pluggable text-recognition backend. The pipeline behaves
// identically whichever implementation is active.
type Provider interface {
	// Name identifies the provider ("openai", "ocrspace", "stub").
	Name() string
	// Process runs recognition on an opaque image payload.
	Process(ctx context.Context, image []byte, opts Options) (*Result, error)
	// IsAvailable checks configuration (API key presence) without calling out.
	IsAvailable() bool
}

type Options struct {
	APIKey   string
	Model    string
	Timeout  time.Duration
	Language string
}

type Result struct {
	RawText          string  `json:"raw_text"`
	Provider         string  `json:"provider"`
	ProcessingTimeMs int64   `json:"processing_time_ms"`
	Confidence       float64 `json:"confidence,omitempty"`
}

// ErrorClass buckets provider failures so the pipeline never string-matches
// provider output directly.
type ErrorClass string

const (
	ErrorClassAuth      ErrorClass = "auth"
	ErrorClassQuota     ErrorClass = "quota"
	ErrorClassTransient ErrorClass = "transient"
	ErrorClassTimeout   ErrorClass = "timeout"
	ErrorClassUnknown   ErrorClass = "unknown"
)

type ProviderError struct {
	Provider string
	Class    ErrorClass
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	return e.Provider + " provider: " + e.Message
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Recoverable reports whether queueing the receipt for a later retry makes
// sense. Auth and unknown failures will not fix themselves.
func (e *ProviderError) Recoverable() bool {
	switch e.Class {
	case ErrorClassQuota, ErrorClassTransient, ErrorClassTimeout:
		return true
	}
	return false
}

// Classify is the single choke point that turns any provider failure into a
// ProviderError. Providers may pre-classify; everything else is sniffed from
// the message.
func Classify(provider string, err error) *ProviderError {
	var perr *ProviderError
	if errors.As(err, &perr) {
		return perr
	}

	class := ErrorClassUnknown
	msg := strings.ToLower(err.Error())
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		strings.Contains(msg, "timeout"),
		strings.Contains(msg, "deadline exceeded"):
		class = ErrorClassTimeout
	case strings.Contains(msg, "quota"),
		strings.Contains(msg, "rate limit"),
		strings.Contains(msg, "too many requests"),
		strings.Contains(msg, "429"):
		class = ErrorClassQuota
	case strings.Contains(msg, "unauthorized"),
		strings.Contains(msg, "invalid api key"),
		strings.Contains(msg, "api key not"),
		strings.Contains(msg, "401"),
		strings.Contains(msg, "403"):
		class = ErrorClassAuth
	case strings.Contains(msg, "bad gateway"),
		strings.Contains(msg, "service unavailable"),
		strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "connection reset"),
		strings.Contains(msg, "no such host"),
		strings.Contains(msg, "500"),
		strings.Contains(msg, "502"),
		strings.Contains(msg, "503"):
		class = ErrorClassTransient
	}

	return &ProviderError{
		Provider: provider,
		Class:    class,
		Message:  err.Error(),
		Err:      err,
	}
}
