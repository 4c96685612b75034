package guard

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

	"github.com/alexanderramin/guardian/internal/policy"
)

// stopSequences terminate generation on both endpoints.
var stopSequences = []string{"\n\n", "USER:", "System:"}

// Client provides access to the guard model for classification and to the
// generation model for the single-attempt safe rewrite.
type Client interface {
	// Classify sends a grammar-constrained classification prompt and returns
	// the parsed verdict. Any transport or protocol failure is an error; the
	// caller is responsible for treating every error as a denial.
	Classify(ctx context.Context, prompt string) (*policy.ModResult, error)

	// Rewrite sends a rewrite prompt to the generation endpoint and returns
	// the raw rewritten text.
	Rewrite(ctx context.Context, prompt string) (string, error)

	// Available checks whether the moderation endpoint is reachable.
	Available(ctx context.Context) bool
}

// completionClient implements Client against llama.cpp-style /completion
// servers.
type completionClient struct {
	cfg      Config
	http     *http.Client
	observer Observer
}

// NewClient creates a Client for the configured moderation and generation
// endpoints.
func NewClient(cfg Config, observer Observer) Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &completionClient{
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

// completionRequest is the JSON body sent to POST /completion.
type completionRequest struct {
	Prompt      string   `json:"prompt"`
	Temperature float64  `json:"temperature"`
	TopP        float64  `json:"top_p"`
	MaxTokens   int      `json:"max_tokens"`
	Grammar     string   `json:"grammar,omitempty"`
	Stop        []string `json:"stop"`
}

// completionResponse is the JSON body returned by POST /completion.
type completionResponse struct {
	Content string `json:"content"`
}

func (c *completionClient) Classify(ctx context.Context, prompt string) (*policy.ModResult, error) {
	taskCfg := c.cfg.Tasks[TaskClassify]
	body := completionRequest{
		Prompt:      prompt,
		Temperature: taskCfg.Temperature,
		TopP:        taskCfg.TopP,
		MaxTokens:   taskCfg.MaxTokens,
		Grammar:     safetyGrammar,
		Stop:        stopSequences,
	}

	content, err := c.complete(ctx, TaskClassify, c.cfg.ModEndpoint, body)
	if err != nil {
		return nil, err
	}

	result, err := parseModResult(content)
	if err != nil {
		c.observer.OnCallComplete(CallEvent{Task: TaskClassify, Success: false, ErrorCode: "PROTOCOL"})
		return nil, err
	}
	return result, nil
}

func (c *completionClient) Rewrite(ctx context.Context, prompt string) (string, error) {
	taskCfg := c.cfg.Tasks[TaskRewrite]
	body := completionRequest{
		Prompt:      prompt,
		Temperature: taskCfg.Temperature,
		TopP:        taskCfg.TopP,
		MaxTokens:   taskCfg.MaxTokens,
		Stop:        stopSequences,
	}
	return c.complete(ctx, TaskRewrite, c.cfg.GenEndpoint, body)
}

// complete performs one request against a /completion endpoint. There are no
// internal retries: a timeout or transport failure is reported once and the
// caller decides, which keeps the fail-closed window as small as possible.
func (c *completionClient) complete(ctx context.Context, task TaskType, endpoint string, body completionRequest) (string, error) {
	start := time.Now()

	timeoutMs := c.cfg.TaskTimeout(task)
	ctx, cancel := context.WithTimeout(ctx, time.Duration(timeoutMs)*time.Millisecond)
	defer cancel()

	content, err := c.doRequest(ctx, endpoint, body)
	latency := time.Since(start).Milliseconds()

	if err != nil {
		if ctx.Err() != nil {
			err = ErrTimeout
		} else if isConnectionError(err) {
			err = fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		c.observer.OnCallComplete(CallEvent{
			Task:      task,
			LatencyMs: latency,
			Success:   false,
			ErrorCode: errorCode(err),
		})
		return "", err
	}

	c.observer.OnCallComplete(CallEvent{
		Task:      task,
		LatencyMs: latency,
		Success:   true,
	})
	return content, nil
}

func (c *completionClient) doRequest(ctx context.Context, endpoint string, body completionRequest) (string, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	url := endpoint + "/completion"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: completion server returned status %d", ErrUnavailable, httpResp.StatusCode)
	}

	var resp completionResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("%w: decoding response envelope: %v", ErrProtocol, err)
	}

	return resp.Content, nil
}

func (c *completionClient) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	url := c.cfg.ModEndpoint + "/health"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
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
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrProtocol):
		return "PROTOCOL"
	default:
		return "UNKNOWN"
	}
}
