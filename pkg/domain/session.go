package domain

type SessionStatus string

const (
	SessionStatusIdle    SessionStatus = "idle"
	SessionStatusSending SessionStatus = "sending"
)
