package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// GenerateRequest holds the parameters for an LLM generation call.
type GenerateRequest struct {
	Task         TaskType
	SystemPrompt string
	UserPrompt   string
	Temperature  *float64 // nil uses task default
	MaxTokens    *int     // nil uses task default
	JSON         bool     // ask the server to constrain output to JSON
	// Accept, when set, vets the raw response text. A rejected response moves
	// on to the next endpoint/model pair instead of being returned.
	Accept func(text string) error
}

// GenerateResponse holds the result of an LLM generation call.
type GenerateResponse struct {
	Text      string
	Model     string
	Endpoint  string
	LatencyMs int64
}

// LLMClient provides access to a language model for text generation.
type LLMClient interface {
	// Generate sends a prompt and returns the first accepted text response.
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// Available checks whether any configured Ollama server is reachable.
	Available(ctx context.Context) bool
}

// ollamaClient implements LLMClient using the Ollama HTTP API.
type ollamaClient struct {
	cfg      LLMConfig
	http     *http.Client
	observer Observer
}

// NewOllamaClient creates an LLMClient that talks to local Ollama instances.
func NewOllamaClient(cfg LLMConfig, observer Observer) LLMClient {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &ollamaClient{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		observer: observer,
	}
}

// ollamaRequest is the JSON body sent to POST /api/generate.
type ollamaRequest struct {
	Model     string        `json:"model"`
	System    string        `json:"system,omitempty"`
	Prompt    string        `json:"prompt"`
	Stream    bool          `json:"stream"`
	Format    string        `json:"format,omitempty"`
	KeepAlive string        `json:"keep_alive,omitempty"`
	Options   ollamaOptions `json:"options,omitempty"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	TopP        float64 `json:"top_p,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

// ollamaResponse is the JSON body returned by POST /api/generate (non-streaming).
type ollamaResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
}

// Generate tries every endpoint/model pair in order, each up to MaxRetries+1
// times, under one task-level deadline.
func (c *ollamaClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	start := time.Now()

	taskCfg := c.cfg.Tasks[req.Task]
	temp := taskCfg.Temperature
	if req.Temperature != nil {
		temp = *req.Temperature
	}
	maxTok := taskCfg.MaxTokens
	if req.MaxTokens != nil {
		maxTok = *req.MaxTokens
	}

	timeoutMs := c.cfg.TaskTimeout(req.Task)
	ctx, cancel := context.WithTimeout(ctx, time.Duration(timeoutMs)*time.Millisecond)
	defer cancel()

	var format string
	if req.JSON {
		format = "json"
	}

	var lastErr error
	allUnavailable := true
	attempts := 1 + c.cfg.MaxRetries

	for _, endpoint := range c.cfg.Endpoints {
		for _, model := range c.cfg.Models {
			body := ollamaRequest{
				Model:     model,
				System:    req.SystemPrompt,
				Prompt:    req.UserPrompt,
				Stream:    false,
				Format:    format,
				KeepAlive: c.cfg.KeepAlive,
				Options: ollamaOptions{
					Temperature: temp,
					TopP:        taskCfg.TopP,
					NumPredict:  maxTok,
				},
			}

			for i := 0; i < attempts; i++ {
				callStart := time.Now()
				resp, err := c.doRequest(ctx, endpoint, body)
				if err == nil && req.Accept != nil {
					if aerr := req.Accept(resp.Response); aerr != nil {
						err = fmt.Errorf("%w: %v", ErrInvalidOutput, aerr)
					}
				}
				event := CallEvent{
					Task:     req.Task,
					Model:    model,
					Endpoint: endpoint,
					Attempt:  i + 1,
					Latency:  time.Since(callStart),
					Success:  err == nil,
				}
				if err != nil {
					event.ErrorCode = errorCode(classify(ctx, err))
				}
				c.observer.OnCallComplete(event)

				if err == nil {
					return &GenerateResponse{
						Text:      resp.Response,
						Model:     model,
						Endpoint:  endpoint,
						LatencyMs: time.Since(start).Milliseconds(),
					}, nil
				}
				lastErr = err
				if !isConnectionError(err) {
					allUnavailable = false
				}

				// Don't retry on context cancellation/timeout
				if ctx.Err() != nil {
					return nil, classify(ctx, err)
				}
				// Rejected output or a dead endpoint will not improve on retry.
				if errors.Is(err, ErrInvalidOutput) || isConnectionError(err) {
					break
				}
			}
		}
	}

	if lastErr == nil {
		return nil, fmt.Errorf("%w: no endpoints or models configured", ErrOllamaUnavailable)
	}
	if allUnavailable {
		return nil, ErrOllamaUnavailable
	}
	if errors.Is(lastErr, ErrInvalidOutput) {
		return nil, lastErr
	}
	return nil, fmt.Errorf("%w: %v", ErrRetryExhausted, lastErr)
}

// classify maps a failed attempt onto the package sentinels.
func classify(ctx context.Context, err error) error {
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return ErrTimeout
	case errors.Is(ctx.Err(), context.Canceled):
		return fmt.Errorf("llm call canceled: %w", context.Canceled)
	case isConnectionError(err):
		return ErrOllamaUnavailable
	default:
		return err
	}
}

func (c *ollamaClient) doRequest(ctx context.Context, endpoint string, body ollamaRequest) (*ollamaResponse, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	url := endpoint + "/api/generate"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama %s returned status %d: %s", body.Model, httpResp.StatusCode, string(respBody))
	}

	var resp ollamaResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return &resp, nil
}

func (c *ollamaClient) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	for _, endpoint := range c.cfg.Endpoints {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"/api/tags", nil)
		if err != nil {
			continue
		}
		resp, err := c.http.Do(req)
		if err != nil {
			continue
		}
		resp.Body.Close()
		if resp.StatusCode == http.StatusOK {
			return true
		}
	}
	return false
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, context.Canceled):
		return "CANCELED"
	case errors.Is(err, ErrOllamaUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrInvalidOutput):
		return "INVALID_OUTPUT"
	default:
		return "UNKNOWN"
	}
}
