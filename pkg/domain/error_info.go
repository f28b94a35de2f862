package domain

type ErrorKind string

const (
	ErrorKindAuthentication ErrorKind = "authentication"
	ErrorKindRateLimit      ErrorKind = "rate_limit"
	ErrorKindQuota          ErrorKind = "quota"
	ErrorKindNetwork        ErrorKind = "network"
	ErrorKindUnknown        ErrorKind = "unknown"
)

// ErrorInfo is the classified form of a failed turn. Derived once per
// failure, never persisted.
type ErrorInfo struct {
	Message      string
	IsRetryable  bool
	StatusCode   int
	ProviderName string
	Kind         ErrorKind
	RetryDelayMs int
}

// ErrorAlert is what the session surfaces to the user for a failed turn.
type ErrorAlert struct {
	Title        string
	Description  string
	ProviderName string
	Kind         ErrorKind
	IsRetryable  bool
}
