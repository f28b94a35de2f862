package handler

import (
	"net/http"

	"github.com/mkraskin/gemini-chat/pkg/api/response"
	"github.com/mkraskin/gemini-chat/pkg/domain"
)

type models struct {
	writer response.JSONResponseWriter
}

func NewModels() *models {
	return &models{writer: response.JSONResponseWriter{}}
}

type modelsResponse struct {
	ModelList       []domain.ModelInfo    `json:"modelList"`
	Providers       []domain.ProviderInfo `json:"providers"`
	DefaultProvider domain.ProviderInfo   `json:"defaultProvider"`
}

func (m *models) HandleModels(w http.ResponseWriter, _ *http.Request) {
	m.writer.WriteSuccessResponse(w, modelsResponse{
		ModelList:       domain.SupportedModels,
		Providers:       []domain.ProviderInfo{domain.GoogleProvider},
		DefaultProvider: domain.GoogleProvider,
	})
}
