package translate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Hello", req["q"])
		assert.Equal(t, "cs", req["target"])

		_ = json.NewEncoder(w).Encode(map[string]string{"translatedText": "Ahoj"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	got, err := client.Translate(context.Background(), "Hello", "cs")
	require.NoError(t, err)
	assert.Equal(t, "Ahoj", got)
}

func TestTranslateServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.Translate(context.Background(), "Hello", "cs")
	assert.ErrorContains(t, err, "status 500")
}

func TestTranslateEmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.Translate(context.Background(), "Hello", "cs")
	assert.ErrorContains(t, err, "empty result")
}

func TestTranslateUnreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1")
	_, err := client.Translate(context.Background(), "Hello", "cs")
	assert.Error(t, err)
}
