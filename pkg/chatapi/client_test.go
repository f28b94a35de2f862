package chatapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkraskin/gemini-chat/pkg/domain"
)

func TestSendTurn_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/turn", r.URL.Path)

		var req turnRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Len(t, req.Messages, 1)

		_ = json.NewEncoder(w).Encode(turnResponse{Response: "a reply"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)

	got, err := c.SendTurn(context.Background(), []domain.Message{
		{ID: "user-1", Role: domain.MessageRoleUser, Content: "hi"},
	})

	require.NoError(t, err)
	assert.Equal(t, "a reply", got)
}

func TestSendTurn_ErrorResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"rate limit hit"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)

	_, err := c.SendTurn(context.Background(), nil)

	var provErr *domain.ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, http.StatusTooManyRequests, provErr.StatusCode)
	assert.Equal(t, "rate limit hit", provErr.RawMessage)
}

func TestSendTurn_NonJSONErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("bad gateway"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)

	_, err := c.SendTurn(context.Background(), nil)

	var provErr *domain.ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, "bad gateway", provErr.RawMessage)
}
