package interpreter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/spf13/viper"
)

// ChatProvider is the pluggable text-understanding backend. Implementations
// take a fixed instruction document plus one user message and return a single
// JSON payload as text.
type ChatProvider interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// OpenRouterProvider talks to an OpenAI-compatible chat-completions endpoint.
// One bounded attempt per call; retries are the caller's policy, and the
// interpretation contract specifies none.
type OpenRouterProvider struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat chatFormat    `json:"response_format"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// NewOpenRouterProvider builds a provider from viper config.
func NewOpenRouterProvider() *OpenRouterProvider {
	viper.SetDefault("interpreter.base_url", "https://openrouter.ai/api/v1")
	viper.SetDefault("interpreter.model", "anthropic/claude-3.5-sonnet")
	viper.SetDefault("interpreter.timeout", 30*time.Second)

	return &OpenRouterProvider{
		baseURL: viper.GetString("interpreter.base_url"),
		apiKey:  viper.GetString("interpreter.api_key"),
		model:   viper.GetString("interpreter.model"),
		httpClient: &http.Client{
			Timeout: viper.GetDuration("interpreter.timeout"),
		},
	}
}

// NewOpenRouterProviderWithURL builds a provider against a custom endpoint
// (for testing).
func NewOpenRouterProviderWithURL(baseURL, apiKey, model string) *OpenRouterProvider {
	return &OpenRouterProvider{
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Complete sends the instruction document and user message with near-zero
// temperature and a JSON-object response format, and returns the raw content
// of the first choice.
func (p *OpenRouterProvider) Complete(ctx context.Context, system, user string) (string, error) {
	payload := chatRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature:    0.1,
		ResponseFormat: chatFormat{Type: "json_object"},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		log.Printf("[INTERPRET] Provider request failed: %v", err)
		return "", fmt.Errorf("provider request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[INTERPRET] Provider returned status %d", resp.StatusCode)
		return "", fmt.Errorf("provider returned status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("provider returned no content")
	}

	return parsed.Choices[0].Message.Content, nil
}
