package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mkraskin/gemini-chat/pkg/api/response"
	"github.com/mkraskin/gemini-chat/pkg/domain"
)

type ContextAssembler interface {
	Assemble(history []domain.Message) []domain.ProviderTurn
}

type ResponseCache interface {
	Key(messages []domain.Message) string
	Get(key string) (string, bool)
	Put(key, value string)
}

type ModelGateway interface {
	Send(ctx context.Context, turns []domain.ProviderTurn, userPrompt string) (string, error)
}

type CredentialsProvider interface {
	ResolveAPIKey(providerName string) (string, bool)
}

type turn struct {
	assembler ContextAssembler
	cache     ResponseCache
	gateway   ModelGateway
	creds     CredentialsProvider
	writer    response.JSONResponseWriter
}

func NewTurn(
	assembler ContextAssembler,
	cache ResponseCache,
	gateway ModelGateway,
	creds CredentialsProvider,
) *turn {
	return &turn{
		assembler: assembler,
		cache:     cache,
		gateway:   gateway,
		creds:     creds,
		writer:    response.JSONResponseWriter{},
	}
}

type turnRequest struct {
	Messages []domain.Message `json:"messages"`
}

type turnResponse struct {
	Response string `json:"response"`
}

// HandleTurn answers one conversation turn: validate, check the response
// cache, call the model on a miss, cache the reply. Failures are never
// cached.
func (t *turn) HandleTurn(w http.ResponseWriter, r *http.Request) {
	var req turnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Messages) == 0 {
		t.writer.WriteErrorResponse(w, http.StatusBadRequest, "Request body is missing or malformed.")
		return
	}

	lastUser, ok := lastUserMessage(req.Messages)
	if !ok {
		t.writer.WriteErrorResponse(w, http.StatusBadRequest, "No user message found")
		return
	}

	if _, ok := t.creds.ResolveAPIKey(domain.ProviderGoogle); !ok {
		t.writer.WriteErrorResponse(w, http.StatusInternalServerError, "GEMINI_API_KEY not configured")
		return
	}

	key := t.cache.Key(req.Messages)
	if cached, ok := t.cache.Get(key); ok {
		slog.InfoContext(r.Context(), "Returning cached response")
		t.writer.WriteSuccessResponse(w, turnResponse{Response: cached})
		return
	}

	turns := t.assembler.Assemble(req.Messages)

	text, err := t.gateway.Send(r.Context(), turns, lastUser.Content)
	if err != nil {
		statusCode, message := providerFailure(err)
		slog.ErrorContext(r.Context(), "model call failed", "status", statusCode, "err", message)
		t.writer.WriteErrorResponse(w, statusCode, message)
		return
	}

	t.cache.Put(key, text)

	t.writer.WriteSuccessResponse(w, turnResponse{Response: text})
}

func lastUserMessage(messages []domain.Message) (domain.Message, bool) {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == domain.MessageRoleUser {
			return messages[i], true
		}
	}
	return domain.Message{}, false
}

// providerFailure maps a gateway error onto an HTTP status and a user-facing
// message. Raw provider bodies are often JSON-encoded structured errors, so
// extracting the inner message is attempted first and the raw text is the
// fallback.
func providerFailure(err error) (int, string) {
	var provErr *domain.ProviderError
	if !errors.As(err, &provErr) {
		return http.StatusInternalServerError, err.Error()
	}

	statusCode := provErr.StatusCode
	if statusCode == 0 {
		statusCode = http.StatusInternalServerError
	}

	return statusCode, extractProviderMessage(provErr.RawMessage)
}

func extractProviderMessage(raw string) string {
	var parsed struct {
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
		Message string `json:"message"`
	}

	if err := json.Unmarshal([]byte(raw), &parsed); err == nil {
		if parsed.Error != nil && parsed.Error.Message != "" {
			return parsed.Error.Message
		}
		if parsed.Message != "" {
			return parsed.Message
		}
	}

	return raw
}
