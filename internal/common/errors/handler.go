// internal/common/errors/handler.go
package errors

import (
	"time"
)

// ErrorHandler converts agent failures into standardized error responses
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// HandleAgentError normalizes any error from an agent call, logs it, and
// returns the StandardError the dispatcher should report.
func (h *ErrorHandler) HandleAgentError(agentName, requestID string, err error) *StandardError {
	stdErr := h.normalizeError(err)
	h.logError(agentName, requestID, stdErr)
	return stdErr
}

// normalizeError ensures we always have a StandardError
func (h *ErrorHandler) normalizeError(err error) *StandardError {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ToResponseFields flattens a StandardError into the error block carried in
// the response envelope.
func (h *ErrorHandler) ToResponseFields(stdErr *StandardError) map[string]interface{} {
	fields := map[string]interface{}{
		"error_code":    string(stdErr.Code),
		"error_message": stdErr.Message,
		"retryable":     stdErr.Retryable,
		"category":      GetErrorCategory(stdErr.Code),
	}
	if stdErr.Details != "" {
		fields["details"] = stdErr.Details
	}
	for k, v := range stdErr.Metadata {
		fields[k] = v
	}
	return fields
}

func (h *ErrorHandler) logError(agentName, requestID string, stdErr *StandardError) {
	h.logger.Error("Agent request failed", map[string]interface{}{
		"agent":         agentName,
		"requestId":     requestID,
		"errorCode":     string(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
		"retries":       GetRetryCount(stdErr.Code),
		"errorCategory": GetErrorCategory(stdErr.Code),
	})
}

// GetErrorCategory groups error codes for logging and metrics labels.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeInvalidRequest, ErrCodeAgentNotFound, ErrCodeAgentNotInitialized:
		return "client"
	case ErrCodeRateLimitExceeded, ErrCodeConcurrencyLimitExceeded, ErrCodeQueueFull:
		return "throttling"
	case ErrCodeAgentTimeout, ErrCodeRequestTimeout:
		return "timeout"
	case ErrCodeServiceUnavailable, ErrCodeCacheUnavailable, ErrCodeJournalWriteFailed:
		return "infrastructure"
	case ErrCodePaymentOrderFailed, ErrCodePaymentSignatureInvalid, ErrCodePaymentProviderUnsupported,
		ErrCodeWhatsAppSendFailed, ErrCodeWhatsAppWebhookInvalid, ErrCodeEmailSendFailed:
		return "integration"
	default:
		return "internal"
	}
}
