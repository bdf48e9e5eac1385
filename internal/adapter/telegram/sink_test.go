package telegram

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSink_Send(t *testing.T) {
	var gotPath string
	var gotBody sendMessageRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	t.Cleanup(srv.Close)

	sink := NewSink(srv.URL, "123:token", "-100200300", 5*time.Second, slog.Default())

	err := sink.Send(context.Background(), "⚠️ Earthquake Alert ⚠️")
	require.NoError(t, err)

	assert.Equal(t, "/bot123:token/sendMessage", gotPath)
	assert.Equal(t, "-100200300", gotBody.ChatID)
	assert.Equal(t, "⚠️ Earthquake Alert ⚠️", gotBody.Text)
}

func TestSink_Send_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"ok":false,"description":"Too Many Requests"}`, http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)

	sink := NewSink(srv.URL, "123:token", "42", 5*time.Second, slog.Default())

	err := sink.Send(context.Background(), "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}

func TestSink_Send_APIRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"ok":false,"description":"chat not found"}`))
	}))
	t.Cleanup(srv.Close)

	sink := NewSink(srv.URL, "123:token", "42", 5*time.Second, slog.Default())

	err := sink.Send(context.Background(), "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}
