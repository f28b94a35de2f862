package services

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/mkraskin/gemini-chat/pkg/domain"
)

// Classify maps a failed turn onto an ErrorInfo. Rules are checked in a
// fixed order and the first match wins; a message can satisfy several
// predicates, so reordering changes observable classification.
func Classify(statusCode int, message string) domain.ErrorInfo {
	lower := strings.ToLower(message)

	kind := domain.ErrorKindUnknown
	switch {
	case statusCode == http.StatusUnauthorized || strings.Contains(lower, "api key"):
		kind = domain.ErrorKindAuthentication
	case statusCode == http.StatusTooManyRequests || strings.Contains(lower, "rate limit"):
		kind = domain.ErrorKindRateLimit
	case strings.Contains(lower, "quota"):
		kind = domain.ErrorKindQuota
	case statusCode >= http.StatusInternalServerError:
		kind = domain.ErrorKindNetwork
	}

	return domain.ErrorInfo{
		Message:      message,
		IsRetryable:  kind != domain.ErrorKindAuthentication && kind != domain.ErrorKindQuota,
		StatusCode:   statusCode,
		ProviderName: domain.ProviderGoogle,
		Kind:         kind,
	}
}

func alertTitle(kind domain.ErrorKind) string {
	switch kind {
	case domain.ErrorKindAuthentication:
		return "Authentication Error"
	case domain.ErrorKindRateLimit:
		return "Rate Limit Exceeded"
	case domain.ErrorKindQuota:
		return "Quota Exceeded"
	case domain.ErrorKindNetwork:
		return "Server Error"
	default:
		return "Request Failed"
	}
}

// describeFailure turns a transport error into a classified ErrorInfo. Error
// payloads are sometimes JSON-encoded structured errors, so a best-effort
// coercion runs first and plain text is the fallback.
func describeFailure(err error) domain.ErrorInfo {
	statusCode := http.StatusInternalServerError
	message := "An unexpected error occurred"

	var provErr *domain.ProviderError
	if errors.As(err, &provErr) {
		if provErr.StatusCode != 0 {
			statusCode = provErr.StatusCode
		}
		if provErr.RawMessage != "" {
			message = provErr.RawMessage
		}
	} else if err != nil && err.Error() != "" {
		message = err.Error()
	}

	var parsed struct {
		Error      string `json:"error"`
		Message    string `json:"message"`
		StatusCode int    `json:"statusCode"`
	}
	if jsonErr := json.Unmarshal([]byte(message), &parsed); jsonErr == nil {
		if parsed.Error != "" {
			message = parsed.Error
		} else if parsed.Message != "" {
			message = parsed.Message
		}
		if parsed.StatusCode != 0 {
			statusCode = parsed.StatusCode
		}
	}

	return Classify(statusCode, message)
}
