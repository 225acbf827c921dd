// Package llm provides language model completion clients.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// maxOllamaResponseSize limits the response body read from the model server
const maxOllamaResponseSize = 1 << 20

var (
	// ErrModelUnavailable is returned when the model server cannot be reached
	ErrModelUnavailable = errors.New("language model unavailable")
	// ErrModelRequestFailed is returned when the model server answers with an error
	ErrModelRequestFailed = errors.New("language model request failed")
)

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
}

type generateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

// OllamaClient completes prompts through the Ollama /api/generate endpoint
type OllamaClient struct {
	config     OllamaConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewOllamaClient creates a new Ollama client
func NewOllamaClient(config OllamaConfig, logger *zap.Logger) (*OllamaClient, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OllamaClient{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		logger:     logger,
	}, nil
}

// Model returns the configured model name
func (c *OllamaClient) Model() string {
	return c.config.Model
}

// Complete sends prompt as a single non-streaming generation and returns the model text
func (c *OllamaClient) Complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Model:   c.config.Model,
		Prompt:  prompt,
		Stream:  false,
		Options: generateOptions{Temperature: c.config.Temperature},
	})
	if err != nil {
		return "", fmt.Errorf("ollama: failed to marshal request: %w", err)
	}

	endpoint := strings.TrimRight(c.config.Host, "/") + "/api/generate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("ollama: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxOllamaResponseSize))
	if err != nil {
		return "", fmt.Errorf("ollama: failed to read response: %w", err)
	}

	var out generateResponse
	decodeErr := json.Unmarshal(data, &out)

	if resp.StatusCode >= 400 {
		if decodeErr == nil && out.Error != "" {
			return "", fmt.Errorf("%w: HTTP %d: %s", ErrModelRequestFailed, resp.StatusCode, out.Error)
		}
		return "", fmt.Errorf("%w: HTTP %d", ErrModelRequestFailed, resp.StatusCode)
	}
	if decodeErr != nil {
		return "", fmt.Errorf("ollama: failed to decode response: %w", decodeErr)
	}

	c.logger.Debug("ollama completion",
		zap.String("model", c.config.Model),
		zap.Int("response_bytes", len(out.Response)))
	return out.Response, nil
}
