package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/mkraskin/gemini-chat/pkg/api/response"
	"github.com/mkraskin/gemini-chat/pkg/domain"
)

type prompt struct {
	gateway ModelGateway
	creds   CredentialsProvider
	writer  response.JSONResponseWriter
}

// NewPrompt serves one-shot generation outside any conversation: no history,
// no cache.
func NewPrompt(gateway ModelGateway, creds CredentialsProvider) *prompt {
	return &prompt{
		gateway: gateway,
		creds:   creds,
		writer:  response.JSONResponseWriter{},
	}
}

type promptRequest struct {
	Prompt string `json:"prompt"`
}

type promptResponse struct {
	Output string `json:"output"`
}

func (p *prompt) HandlePrompt(w http.ResponseWriter, r *http.Request) {
	var req promptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Prompt) == "" {
		p.writer.WriteErrorResponse(w, http.StatusBadRequest, "Prompt is required and must be a string")
		return
	}

	if _, ok := p.creds.ResolveAPIKey(domain.ProviderGoogle); !ok {
		p.writer.WriteErrorResponse(w, http.StatusInternalServerError, "GEMINI_API_KEY not configured")
		return
	}

	text, err := p.gateway.Send(r.Context(), nil, req.Prompt)
	if err != nil {
		statusCode, message := providerFailure(err)
		p.writer.WriteErrorResponse(w, statusCode, message)
		return
	}

	p.writer.WriteSuccessResponse(w, promptResponse{Output: text})
}
