package domain

const (
	ProviderRoleUser  = "user"
	ProviderRoleModel = "model"
)

// ProviderTurn is a single entry of the assembled provider context.
type ProviderTurn struct {
	Role string
	Text string
}
