// Package errors provides standardized error handling for agent dispatch.
package errors

import (
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Dispatch / envelope errors
	ErrCodeInvalidRequest           ErrorCode = "INVALID_REQUEST"
	ErrCodeAgentNotFound            ErrorCode = "AGENT_NOT_FOUND"
	ErrCodeAgentNotInitialized      ErrorCode = "AGENT_NOT_INITIALIZED"
	ErrCodeAgentTimeout             ErrorCode = "AGENT_TIMEOUT"
	ErrCodeRateLimitExceeded        ErrorCode = "RATE_LIMIT_EXCEEDED"
	ErrCodeConcurrencyLimitExceeded ErrorCode = "CONCURRENCY_LIMIT_EXCEEDED"
	ErrCodeServiceUnavailable       ErrorCode = "SERVICE_UNAVAILABLE"
	ErrCodeQueueFull                ErrorCode = "QUEUE_FULL"
	ErrCodeRequestTimeout           ErrorCode = "REQUEST_TIMEOUT"

	// Agent execution errors
	ErrCodeContentGenerationFailed ErrorCode = "CONTENT_GENERATION_FAILED"
	ErrCodeDeliverableWriteFailed  ErrorCode = "DELIVERABLE_WRITE_FAILED"
	ErrCodeQualityReviewFailed     ErrorCode = "QUALITY_REVIEW_FAILED"

	// Persistence errors
	ErrCodeJournalWriteFailed ErrorCode = "JOURNAL_WRITE_FAILED"
	ErrCodeCacheUnavailable   ErrorCode = "CACHE_UNAVAILABLE"

	// Integration errors
	ErrCodePaymentOrderFailed         ErrorCode = "PAYMENT_ORDER_FAILED"
	ErrCodePaymentSignatureInvalid    ErrorCode = "PAYMENT_SIGNATURE_INVALID"
	ErrCodePaymentProviderUnsupported ErrorCode = "PAYMENT_PROVIDER_UNSUPPORTED"
	ErrCodeWhatsAppSendFailed         ErrorCode = "WHATSAPP_SEND_FAILED"
	ErrCodeWhatsAppWebhookInvalid     ErrorCode = "WHATSAPP_WEBHOOK_INVALID"
	ErrCodeEmailSendFailed            ErrorCode = "EMAIL_SEND_FAILED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewInvalidRequestError marks a request envelope that failed validation.
func NewInvalidRequestError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidRequest,
		Message:   "Request envelope failed validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAgentNotFoundError marks dispatch to an unregistered agent name.
func NewAgentNotFoundError(agentName string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAgentNotFound,
		Message:   "No agent registered under the requested name",
		Details:   agentName,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAgentTimeoutError marks an agent call that exceeded its deadline.
func NewAgentTimeoutError(agentName string, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAgentTimeout,
		Message:   fmt.Sprintf("Agent %s timed out", agentName),
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewRateLimitError marks a request rejected by the per-client limiter.
func NewRateLimitError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRateLimitExceeded,
		Message:   "Rate limit exceeded",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewConcurrencyLimitError marks a request rejected by the in-flight cap.
func NewConcurrencyLimitError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeConcurrencyLimitExceeded,
		Message:   "Max concurrent requests exceeded",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewServiceUnavailableError marks a request rejected while unhealthy.
func NewServiceUnavailableError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeServiceUnavailable,
		Message:   "Service temporarily unavailable",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueueFullError marks an async submission rejected by the bounded queue.
func NewQueueFullError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueueFull,
		Message:   "Task queue is full",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewRequestTimeoutError marks a request that exceeded the overall deadline.
func NewRequestTimeoutError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRequestTimeout,
		Message:   "Request timeout",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewContentGenerationError marks an agent that failed to produce content.
func NewContentGenerationError(agentName string, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeContentGenerationFailed,
		Message:   fmt.Sprintf("Agent %s failed to generate content", agentName),
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDeliverableWriteError marks a failed deliverable file write.
func NewDeliverableWriteError(path string, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDeliverableWriteFailed,
		Message:   "Failed to write deliverable file",
		Details:   details,
		Retryable: true,
		Metadata:  map[string]interface{}{"path": path},
		Timestamp: time.Now().UTC(),
	}
}

// NewPaymentSignatureError marks a payment payload whose signature does not match.
func NewPaymentSignatureError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodePaymentSignatureInvalid,
		Message:   "Invalid payment signature",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInternalError wraps an unexpected error.
func NewInternalError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Retry Policy
// ==========================

// retryCounts maps error codes to the number of retries the dispatcher grants.
var retryCounts = map[ErrorCode]int{
	ErrCodeAgentTimeout:           2,
	ErrCodeDeliverableWriteFailed: 2,
	ErrCodeJournalWriteFailed:     1,
	ErrCodeCacheUnavailable:       1,
	ErrCodeWhatsAppSendFailed:     2,
	ErrCodeEmailSendFailed:        2,
}

// GetRetryCount returns the retry budget for an error code (0 means fail fast).
func GetRetryCount(code ErrorCode) int {
	return retryCounts[code]
}

// IsRetryable reports whether the error carries a retryable code.
func IsRetryable(err error) bool {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr.Retryable
	}
	return false
}
