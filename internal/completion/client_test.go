package completion_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/dockeeper/internal/completion"
)

func TestClientComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/generate", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))

		var req completion.Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "hello", req.Prompt)

		json.NewEncoder(w).Encode(map[string]string{"text": "world"})
	}))
	defer srv.Close()

	c := completion.NewClient(srv.URL, "key")
	got, err := c.Complete(context.Background(), completion.Request{Prompt: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "world", got)
}

func TestClientCompleteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte("rate limited"))
	}))
	defer srv.Close()

	c := completion.NewClient(srv.URL, "key")
	_, err := c.Complete(context.Background(), completion.Request{Prompt: "hello"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}
