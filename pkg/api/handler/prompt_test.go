package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postPrompt(t *testing.T, h *prompt, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/v1/prompt", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandlePrompt(rec, req)
	return rec
}

func TestHandlePrompt_MissingPrompt(t *testing.T) {
	h := NewPrompt(&fakeGateway{}, &fakeCredentials{key: "k"})

	assert.Equal(t, http.StatusBadRequest, postPrompt(t, h, `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, postPrompt(t, h, `{"prompt":"  "}`).Code)
}

func TestHandlePrompt_MissingAPIKey(t *testing.T) {
	h := NewPrompt(&fakeGateway{}, &fakeCredentials{})

	rec := postPrompt(t, h, `{"prompt":"hello"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandlePrompt_Success(t *testing.T) {
	gateway := &fakeGateway{reply: "one-shot reply"}
	h := NewPrompt(gateway, &fakeCredentials{key: "k"})

	rec := postPrompt(t, h, `{"prompt":"hello"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Output string `json:"output"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "one-shot reply", resp.Output)
	assert.Equal(t, "hello", gateway.prompts[0])
}
