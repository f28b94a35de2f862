package chatapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/mkraskin/gemini-chat/pkg/domain"
)

// client talks to the backend turn endpoint.
type client struct {
	baseURL string
	hc      *http.Client
}

func NewClient(baseURL string) *client {
	return &client{
		baseURL: baseURL,
		hc:      &http.Client{},
	}
}

type turnRequest struct {
	Messages []domain.Message `json:"messages"`
}

type turnResponse struct {
	Response string `json:"response"`
}

// SendTurn submits the entire conversation history and returns the model
// reply. Failed requests come back as *domain.ProviderError carrying the
// backend status code and error payload.
func (c *client) SendTurn(ctx context.Context, messages []domain.Message) (string, error) {
	jsonData, err := json.Marshal(turnRequest{Messages: messages})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/turn", bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("creating HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return "", &domain.ProviderError{RawMessage: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &domain.ProviderError{
			StatusCode: resp.StatusCode,
			RawMessage: errorMessage(body),
		}
	}

	var turnResp turnResponse
	if err := json.Unmarshal(body, &turnResp); err != nil {
		return "", fmt.Errorf("decoding response data: %w", err)
	}

	return turnResp.Response, nil
}

func errorMessage(body []byte) string {
	var errResp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return errResp.Error
	}
	return string(body)
}
