package domain

const (
	ProviderGoogle = "Google"

	DefaultModel = "gemini-2.5-flash"
)

// ModelInfo describes a selectable model for the catalog endpoint.
type ModelInfo struct {
	Name                string `json:"name"`
	Label               string `json:"label"`
	Provider            string `json:"provider"`
	MaxTokenAllowed     int    `json:"maxTokenAllowed"`
	MaxCompletionTokens int    `json:"maxCompletionTokens"`
}

// ProviderInfo describes a model provider for the catalog endpoint.
type ProviderInfo struct {
	Name             string      `json:"name"`
	StaticModels     []ModelInfo `json:"staticModels,omitempty"`
	GetAPIKeyLink    string      `json:"getApiKeyLink,omitempty"`
	LabelForGetAPIKey string     `json:"labelForGetApiKey,omitempty"`
	Icon             string      `json:"icon,omitempty"`
}

var SupportedModels = []ModelInfo{
	{
		Name:                "gemini-2.5-flash",
		Label:               "Gemini 2.5 Flash",
		Provider:            ProviderGoogle,
		MaxTokenAllowed:     1048576,
		MaxCompletionTokens: 65536,
	},
}

var GoogleProvider = ProviderInfo{
	Name:              ProviderGoogle,
	StaticModels:      SupportedModels,
	GetAPIKeyLink:     "https://aistudio.google.com/app/apikey",
	LabelForGetAPIKey: "Get Gemini API Key",
	Icon:              ProviderGoogle,
}
