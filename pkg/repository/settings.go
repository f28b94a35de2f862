package repository

// settings exposes the user-facing configuration the pipeline reads. Values
// are seeded from the environment at startup and read-only to the core.
type settings struct {
	selectedModelID            string
	contextOptimizationEnabled bool
}

func NewSettingsRepository(selectedModelID string, contextOptimizationEnabled bool) *settings {
	return &settings{
		selectedModelID:            selectedModelID,
		contextOptimizationEnabled: contextOptimizationEnabled,
	}
}

func (s *settings) SelectedModelID() string { return s.selectedModelID }

func (s *settings) ContextOptimizationEnabled() bool { return s.contextOptimizationEnabled }
