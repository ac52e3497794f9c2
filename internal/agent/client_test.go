package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venturely/venturely/internal/config"
	"github.com/venturely/venturely/internal/log"
)

type stubSessions struct {
	id string
}

func (s *stubSessions) GetOrCreate() string { return s.id }

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		AgentBaseURL:      baseURL,
		RequestTimeout:    5 * time.Second,
		RequestsPerMinute: 600,
		UserID:            "user-1",
		UserType:          config.UserTypeEntrepreneur,
	}
}

func newTestClient(t *testing.T, cfg *config.Config) *Client {
	t.Helper()
	client, err := NewClient(cfg, &stubSessions{id: "session-abc"}, log.NewNop())
	require.NoError(t, err)
	return client
}

func TestSendMessage_NoUser(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.UserID = ""
	client := newTestClient(t, cfg)

	resp, err := client.SendMessage(context.Background(), "hello", nil)
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrNoUser)
	assert.Equal(t, ErrNoUser.Error(), client.Err())
	assert.Equal(t, int32(0), calls.Load(), "no network activity before the auth check")
}

func TestSendMessage_EmptyMessage(t *testing.T) {
	client := newTestClient(t, testConfig("http://localhost:0"))

	_, err := client.SendMessage(context.Background(), "   ", nil)
	assert.ErrorIs(t, err, ErrEmptyMessage)
	assert.NotEmpty(t, client.Err())
}

func TestSendMessage_NonStreaming(t *testing.T) {
	var captured request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/ai/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"id": "msg-42",
			"content": "Your runway is 14 months.",
			"agent": "financial",
			"timestamp": "2026-03-01T10:30:00Z",
			"suggestions": ["What about next quarter?"],
			"insights": [{
				"type": "warning",
				"title": "Burn trending up",
				"description": "Spending rose 8% month over month.",
				"priority": "medium",
				"actionable": true
			}]
		}`)
	}))
	defer srv.Close()

	client := newTestClient(t, testConfig(srv.URL))

	resp, err := client.SendMessage(context.Background(), "how long is my runway?", &Options{
		Context: map[string]any{"planId": "plan-7"},
	})
	require.NoError(t, err)

	assert.Equal(t, "user-1", captured.UserID)
	assert.Equal(t, config.UserTypeEntrepreneur, captured.UserType)
	assert.Equal(t, "how long is my runway?", captured.Message)
	assert.Equal(t, "session-abc", captured.SessionID)
	assert.False(t, captured.Streaming)
	assert.Equal(t, "plan-7", captured.Context["planId"])

	assert.Equal(t, "msg-42", resp.ID)
	assert.Equal(t, "Your runway is 14 months.", resp.Content)
	assert.Equal(t, "financial", resp.Agent)
	assert.Equal(t, time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC), resp.Timestamp)
	require.Len(t, resp.Insights, 1)
	assert.Equal(t, InsightWarning, resp.Insights[0].Type)
	assert.True(t, resp.Insights[0].Actionable)

	assert.Empty(t, client.Err())
	assert.False(t, client.InFlight())
}

func TestSendMessage_UserTypeOverride(t *testing.T) {
	var captured request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		fmt.Fprint(w, `{"id": "m1", "content": "ok", "timestamp": "2026-03-01T10:30:00Z"}`)
	}))
	defer srv.Close()

	client := newTestClient(t, testConfig(srv.URL))

	_, err := client.SendMessage(context.Background(), "review this loan", &Options{
		UserType: config.UserTypeLender,
	})
	require.NoError(t, err)
	assert.Equal(t, config.UserTypeLender, captured.UserType)
}

func TestSendMessage_Streaming(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/ai/chat/stream", r.URL.Path)

		var payload request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.True(t, payload.Streaming)

		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		for _, text := range []string{"Hel", "lo, ", "world"} {
			data, _ := json.Marshal(sseChunk{Text: text})
			fmt.Fprintf(w, "event: chunk\ndata: %s\n\n", data)
			flusher.Flush()
		}
		fmt.Fprintf(w, "event: done\ndata: %s\n\n",
			`{"id": "msg-9", "content": "Hello, world", "timestamp": "2026-03-01T10:30:00Z"}`)
		flusher.Flush()
	}))
	defer srv.Close()

	client := newTestClient(t, testConfig(srv.URL))

	var chunks []string
	resp, err := client.SendMessage(context.Background(), "say hello", &Options{
		Streaming: true,
		OnChunk:   func(text string) { chunks = append(chunks, text) },
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Hel", "lo, ", "world"}, chunks)
	assert.Equal(t, "msg-9", resp.ID)
	assert.Equal(t, "Hello, world", resp.Content)
}

func TestSendMessage_StreamingDoneWithoutContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "event: chunk\ndata: {\"text\": \"partial \"}\n\n")
		fmt.Fprint(w, "event: chunk\ndata: {\"text\": \"answer\"}\n\n")
		fmt.Fprint(w, "event: done\ndata: {\"id\": \"m2\", \"timestamp\": \"2026-03-01T10:30:00Z\"}\n\n")
	}))
	defer srv.Close()

	client := newTestClient(t, testConfig(srv.URL))

	resp, err := client.SendMessage(context.Background(), "q", &Options{Streaming: true})
	require.NoError(t, err)
	assert.Equal(t, "partial answer", resp.Content, "empty done content settles with assembled chunks")
}

func TestSendMessage_StreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "event: error\ndata: {\"code\": \"MODEL_UNAVAILABLE\", \"message\": \"backend overloaded\"}\n\n")
	}))
	defer srv.Close()

	client := newTestClient(t, testConfig(srv.URL))

	resp, err := client.SendMessage(context.Background(), "q", &Options{Streaming: true})
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrStream)
	assert.Contains(t, client.Err(), "MODEL_UNAVAILABLE")
}

func TestSendMessage_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream failure", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := newTestClient(t, testConfig(srv.URL))

	resp, err := client.SendMessage(context.Background(), "q", nil)
	assert.Nil(t, resp)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
	assert.Contains(t, client.Err(), "502")
	assert.False(t, client.InFlight())
}

func TestSendMessage_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "not json at all")
	}))
	defer srv.Close()

	client := newTestClient(t, testConfig(srv.URL))

	_, err := client.SendMessage(context.Background(), "q", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed")
}

func TestSendMessage_ErrorStateClearedOnSuccess(t *testing.T) {
	var fail atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `{"id": "m1", "content": "ok", "timestamp": "2026-03-01T10:30:00Z"}`)
	}))
	defer srv.Close()

	client := newTestClient(t, testConfig(srv.URL))

	fail.Store(true)
	_, err := client.SendMessage(context.Background(), "q", nil)
	require.Error(t, err)
	assert.NotEmpty(t, client.Err())

	fail.Store(false)
	_, err = client.SendMessage(context.Background(), "q", nil)
	require.NoError(t, err)
	assert.Empty(t, client.Err())
}

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient(nil, &stubSessions{}, log.NewNop())
	assert.ErrorIs(t, err, config.ErrConfigNil)

	_, err = NewClient(testConfig("http://localhost:0"), nil, log.NewNop())
	assert.Error(t, err)
}

func TestNormalize_BadTimestamp(t *testing.T) {
	wire := &wireResponse{ID: "m1", Content: "hi", Timestamp: "yesterday"}
	resp := wire.normalize()
	assert.False(t, resp.Timestamp.IsZero(), "unparseable timestamp falls back to receipt time")
}
