package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(endpoint string) LLMConfig {
	cfg := DefaultConfig()
	cfg.Endpoint = endpoint
	cfg.APIKey = "sk-test"
	return cfg
}

type recordingObserver struct {
	events []LLMCallEvent
}

func (r *recordingObserver) OnCallComplete(e LLMCallEvent) { r.events = append(r.events, e) }

func completion(text string) chatResponse {
	return chatResponse{
		Model:   "gpt-4",
		Choices: []chatChoice{{Message: chatMessage{Role: "assistant", Content: text}}},
	}
}

func TestOpenAIClient_Generate_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "system prompt", req.Messages[0].Content)
		assert.Equal(t, "user prompt", req.Messages[1].Content)
		assert.Equal(t, 0.7, req.Temperature)
		assert.Equal(t, 1500, req.MaxTokens)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(completion(`{"updates":{}}`))
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	client := NewOpenAIClient(testConfig(srv.URL), obs)
	resp, err := client.Generate(context.Background(), GenerateRequest{
		Task:         TaskInterpret,
		SystemPrompt: "system prompt",
		UserPrompt:   "user prompt",
	})

	require.NoError(t, err)
	assert.Equal(t, `{"updates":{}}`, resp.Text)
	assert.Equal(t, "gpt-4", resp.Model)
	assert.GreaterOrEqual(t, resp.LatencyMs, int64(0))
	require.Len(t, obs.events, 1)
	assert.True(t, obs.events[0].Success)
	assert.Equal(t, TaskInterpret, obs.events[0].Task)
}

func TestOpenAIClient_Generate_RequestOverrides(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 0.1, req.Temperature)
		assert.Equal(t, 42, req.MaxTokens)
		json.NewEncoder(w).Encode(completion("ok"))
	}))
	defer srv.Close()

	temp, maxTok := 0.1, 42
	client := NewOpenAIClient(testConfig(srv.URL), nil)
	_, err := client.Generate(context.Background(), GenerateRequest{
		Task:        TaskCascade,
		UserPrompt:  "x",
		Temperature: &temp,
		MaxTokens:   &maxTok,
	})
	require.NoError(t, err)
}

func TestOpenAIClient_Generate_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.Tasks = map[TaskType]TaskConfig{
		TaskInterpret: {Temperature: 0.7, MaxTokens: 512, TimeoutMs: 50},
	}

	obs := &recordingObserver{}
	client := NewOpenAIClient(cfg, obs)
	_, err := client.Generate(context.Background(), GenerateRequest{
		Task:       TaskInterpret,
		UserPrompt: "test",
	})

	assert.ErrorIs(t, err, ErrTimeout)
	require.Len(t, obs.events, 1)
	assert.Equal(t, "TIMEOUT", obs.events[0].ErrorCode)
}

func TestOpenAIClient_Generate_Unavailable(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1") // nothing listening
	cfg.Tasks = map[TaskType]TaskConfig{
		TaskInterpret: {Temperature: 0.7, MaxTokens: 512, TimeoutMs: 1000},
	}

	client := NewOpenAIClient(cfg, NoopObserver{})
	_, err := client.Generate(context.Background(), GenerateRequest{
		Task:       TaskInterpret,
		UserPrompt: "test",
	})

	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestOpenAIClient_Generate_NoRetryOnServerError(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("internal error"))
	}))
	defer srv.Close()

	client := NewOpenAIClient(testConfig(srv.URL), NoopObserver{})
	_, err := client.Generate(context.Background(), GenerateRequest{
		Task:       TaskCascade,
		UserPrompt: "test",
	})

	assert.ErrorIs(t, err, ErrUpstream)
	assert.Contains(t, err.Error(), "500")
	assert.Equal(t, int32(1), attempts.Load())
}

func TestOpenAIClient_Generate_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(chatResponse{Model: "gpt-4"})
	}))
	defer srv.Close()

	client := NewOpenAIClient(testConfig(srv.URL), NoopObserver{})
	_, err := client.Generate(context.Background(), GenerateRequest{Task: TaskCascade, UserPrompt: "x"})
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestOpenAIClient_Available(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/models" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	assert.True(t, NewOpenAIClient(testConfig(srv.URL), nil).Available(context.Background()))
	assert.False(t, NewOpenAIClient(testConfig("http://127.0.0.1:1"), nil).Available(context.Background()))
}

func TestNewClient_Providers(t *testing.T) {
	cfg := DefaultConfig()

	c, err := NewClient(cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &openAIClient{}, c)

	cfg.Provider = ProviderStub
	c, err = NewClient(cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &StubClient{}, c)

	cfg.Provider = "carrier-pigeon"
	_, err = NewClient(cfg, nil)
	assert.Error(t, err)
}

func TestStubClient(t *testing.T) {
	obs := &recordingObserver{}
	s := NewStubClient("stub", obs)
	s.SetResponse(TaskInterpret, `{"updates":{}}`)

	resp, err := s.Generate(context.Background(), GenerateRequest{Task: TaskInterpret})
	require.NoError(t, err)
	assert.Equal(t, `{"updates":{}}`, resp.Text)

	_, err = s.Generate(context.Background(), GenerateRequest{Task: TaskCascade})
	assert.ErrorIs(t, err, ErrUnavailable)

	assert.Len(t, s.Calls(), 2)
	require.Len(t, obs.events, 2)
	assert.False(t, obs.events[1].Success)
}
