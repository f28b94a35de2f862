package domain

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("not found")

// ProviderError is a transport or provider-reported failure of a model call.
// RawMessage may carry JSON-encoded structured error data from the provider.
type ProviderError struct {
	StatusCode int
	RawMessage string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider request failed with status %d: %s", e.StatusCode, e.RawMessage)
}
