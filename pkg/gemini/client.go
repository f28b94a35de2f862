package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mkraskin/gemini-chat/pkg/domain"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// requestTimeout bounds a single provider call. The API has no server-side
// deadline of its own, so a hung call would otherwise hang the request
// forever.
const requestTimeout = 2 * time.Minute

type CredentialsProvider interface {
	ResolveAPIKey(providerName string) (string, bool)
}

type SettingsProvider interface {
	SelectedModelID() string
}

type client struct {
	baseURL  string
	creds    CredentialsProvider
	settings SettingsProvider
	hc       *http.Client
}

func NewClient(creds CredentialsProvider, settings SettingsProvider) *client {
	return &client{
		baseURL:  defaultBaseURL,
		creds:    creds,
		settings: settings,
		hc:       &http.Client{Timeout: requestTimeout},
	}
}

// Send runs a single generateContent call with the assembled context plus the
// user prompt as the final turn. No internal retries: retrying is a session
// level decision.
func (c *client) Send(ctx context.Context, turns []domain.ProviderTurn, userPrompt string) (string, error) {
	apiKey, ok := c.creds.ResolveAPIKey(domain.ProviderGoogle)
	if !ok {
		return "", fmt.Errorf("API key not configured")
	}

	contents := make([]content, 0, len(turns)+1)
	for _, t := range turns {
		contents = append(contents, content{
			Role:  t.Role,
			Parts: []part{{Text: t.Text}},
		})
	}
	contents = append(contents, content{
		Role:  domain.ProviderRoleUser,
		Parts: []part{{Text: userPrompt}},
	})

	reqBody := generateContentRequest{
		Contents: contents,
		GenerationConfig: generationConfig{
			Temperature:     0.7,
			MaxOutputTokens: 4096,
			TopP:            0.8,
			TopK:            40,
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	model := c.settings.SelectedModelID()
	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, model, apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("creating HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	slog.DebugContext(ctx, "Sending prompt to Gemini", "model", model, "turns", len(contents))

	resp, err := c.hc.Do(req)
	if err != nil {
		return "", &domain.ProviderError{RawMessage: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &domain.ProviderError{StatusCode: resp.StatusCode, RawMessage: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &domain.ProviderError{StatusCode: resp.StatusCode, RawMessage: string(body)}
	}

	var genResp generateContentResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return "", fmt.Errorf("decoding response data: %w", err)
	}

	if genResp.Error != nil {
		return "", &domain.ProviderError{StatusCode: genResp.Error.Code, RawMessage: genResp.Error.Message}
	}

	if len(genResp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	var sb strings.Builder
	for _, p := range genResp.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}

	slog.DebugContext(ctx, "Received response from Gemini",
		"total_tokens", genResp.UsageMetadata.TotalTokenCount)

	return sb.String(), nil
}
