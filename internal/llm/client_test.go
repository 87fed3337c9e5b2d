package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func testConfig(endpoints ...string) LLMConfig {
	cfg := DefaultConfig()
	cfg.Enabled = true
	cfg.Endpoints = endpoints
	cfg.Models = []string{"gemma3:4b"}
	return cfg
}

func respond(w http.ResponseWriter, model, text string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(ollamaResponse{Model: model, Response: text})
}

func TestOllamaClient_Generate_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var req ollamaRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gemma3:4b", req.Model)
		assert.False(t, req.Stream)
		assert.Equal(t, "json", req.Format)
		assert.Equal(t, "30m", req.KeepAlive)
		assert.Equal(t, 0.5, req.Options.Temperature)
		assert.Equal(t, 0.9, req.Options.TopP)
		assert.Equal(t, "write titles", req.Prompt)

		respond(w, req.Model, `{"titles":["Quiet Win"]}`)
	}))
	defer srv.Close()

	client := NewOllamaClient(testConfig(srv.URL), NoopObserver{})
	resp, err := client.Generate(context.Background(), GenerateRequest{
		Task:       TaskTitle,
		UserPrompt: "write titles",
		JSON:       true,
	})

	require.NoError(t, err)
	assert.Equal(t, `{"titles":["Quiet Win"]}`, resp.Text)
	assert.Equal(t, "gemma3:4b", resp.Model)
	assert.Equal(t, srv.URL, resp.Endpoint)
}

func TestOllamaClient_Generate_FallsThroughModelsAndEndpoints(t *testing.T) {
	var mu sync.Mutex
	var seen []string
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ollamaRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		mu.Lock()
		seen = append(seen, "bad/"+req.Model)
		mu.Unlock()
		w.WriteHeader(http.StatusNotFound)
	}))
	defer bad.Close()
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ollamaRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		mu.Lock()
		seen = append(seen, "good/"+req.Model)
		mu.Unlock()
		if req.Model == "gemma3:4b" {
			respond(w, req.Model, "not json at all")
			return
		}
		respond(w, req.Model, `{"titles":["Steady Progress"]}`)
	}))
	defer good.Close()

	cfg := testConfig(bad.URL, good.URL)
	cfg.Models = []string{"gemma3:4b", "llama3.2:3b"}
	client := NewOllamaClient(cfg, NoopObserver{})

	resp, err := client.Generate(context.Background(), GenerateRequest{
		Task:       TaskTitle,
		UserPrompt: "x",
		Accept:     AcceptJSON[titlesPayload](nil),
	})

	require.NoError(t, err)
	assert.Equal(t, "llama3.2:3b", resp.Model)
	assert.Equal(t, good.URL, resp.Endpoint)
	assert.Equal(t, []string{"bad/gemma3:4b", "bad/llama3.2:3b", "good/gemma3:4b", "good/llama3.2:3b"}, seen)
}

func TestOllamaClient_Generate_AllOutputRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond(w, "gemma3:4b", "no")
	}))
	defer srv.Close()

	client := NewOllamaClient(testConfig(srv.URL), NoopObserver{})
	_, err := client.Generate(context.Background(), GenerateRequest{
		Task:   TaskTitle,
		Accept: func(string) error { return errors.New("nope") },
	})
	assert.ErrorIs(t, err, ErrInvalidOutput)
}

func TestOllamaClient_Generate_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(500 * time.Millisecond):
		}
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.Tasks = map[TaskType]TaskConfig{TaskExpand: {Temperature: 0.5, TimeoutMs: 50}}

	client := NewOllamaClient(cfg, NoopObserver{})
	_, err := client.Generate(context.Background(), GenerateRequest{Task: TaskExpand, UserPrompt: "x"})

	assert.ErrorIs(t, err, ErrTimeout)
}

func TestOllamaClient_Generate_CallerCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	client := NewOllamaClient(testConfig(srv.URL), NoopObserver{})
	_, err := client.Generate(ctx, GenerateRequest{Task: TaskExpand, UserPrompt: "x"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOllamaClient_Generate_Unavailable(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1", "http://127.0.0.1:2") // nothing listening
	cfg.Tasks = map[TaskType]TaskConfig{TaskExpand: {TimeoutMs: 1000}}

	client := NewOllamaClient(cfg, NoopObserver{})
	_, err := client.Generate(context.Background(), GenerateRequest{Task: TaskExpand, UserPrompt: "x"})

	assert.ErrorIs(t, err, ErrOllamaUnavailable)
}

func TestOllamaClient_Generate_RetryOnTransientError(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("model loading"))
			return
		}
		respond(w, "gemma3:4b", "ok")
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.MaxRetries = 1

	client := NewOllamaClient(cfg, NoopObserver{})
	resp, err := client.Generate(context.Background(), GenerateRequest{Task: TaskExpand, UserPrompt: "x"})

	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Text)
	assert.Equal(t, int32(2), attempts.Load())
}

func TestOllamaClient_Generate_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("bad request"))
	}))
	defer srv.Close()

	client := NewOllamaClient(testConfig(srv.URL), NoopObserver{})
	_, err := client.Generate(context.Background(), GenerateRequest{Task: TaskExpand, UserPrompt: "x"})

	assert.ErrorIs(t, err, ErrRetryExhausted)
}

func TestOllamaClient_Available(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	assert.True(t, NewOllamaClient(testConfig("http://127.0.0.1:1", srv.URL), nil).Available(context.Background()))
	assert.False(t, NewOllamaClient(testConfig("http://127.0.0.1:1"), nil).Available(context.Background()))
}

func TestOllamaClient_ObserverSeesEveryAttempt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ollamaRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Model == "gemma3:4b" {
			respond(w, req.Model, "garbage")
			return
		}
		respond(w, req.Model, `{"titles":["A Good Start"]}`)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.Models = []string{"gemma3:4b", "llama3.2:3b"}

	var events []CallEvent
	obs := &captureObserver{fn: func(e CallEvent) { events = append(events, e) }}
	_, err := NewOllamaClient(cfg, obs).Generate(context.Background(), GenerateRequest{
		Task:   TaskTitle,
		Accept: AcceptJSON[titlesPayload](nil),
	})

	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.False(t, events[0].Success)
	assert.Equal(t, "INVALID_OUTPUT", events[0].ErrorCode)
	assert.Equal(t, 1, events[0].Attempt)
	assert.True(t, events[1].Success)
	assert.Equal(t, "llama3.2:3b", events[1].Model)
}

func TestZapObserver(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	obs := NewZapObserver(zap.New(core))

	obs.OnCallComplete(CallEvent{Task: TaskExpand, Model: "gemma3:4b", Success: true})
	obs.OnCallComplete(CallEvent{Task: TaskTitle, Model: "gemma3:4b", ErrorCode: "TIMEOUT"})

	require.Equal(t, 2, logs.Len())
	entries := logs.All()
	assert.Equal(t, "llm call", entries[0].Message)
	assert.Equal(t, zap.WarnLevel, entries[1].Level)
	assert.Equal(t, "TIMEOUT", entries[1].ContextMap()["error_code"])
}

func TestLogObserver(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogObserver(&buf)
	obs.now = func() time.Time { return time.Date(2025, 3, 14, 19, 0, 0, 0, time.UTC) }

	obs.OnCallComplete(CallEvent{Task: TaskExpand, Model: "gemma3:4b", Endpoint: "http://ollama", Attempt: 2,
		Latency: 1500 * time.Microsecond, ErrorCode: "TIMEOUT"})

	assert.Equal(t, "2025-03-14T19:00:00Z llm task=expand model=gemma3:4b endpoint=http://ollama attempt=2 latency=2ms outcome=err:TIMEOUT\n",
		buf.String())
}

type captureObserver struct {
	fn func(CallEvent)
}

func (o *captureObserver) OnCallComplete(e CallEvent) { o.fn(e) }
