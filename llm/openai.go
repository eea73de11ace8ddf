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
)

// OpenAI adapts the OpenAI chat-completions API to the Provider contract.
type OpenAI struct {
	apiKey string
	url    string
	model  string
	client *http.Client
}

func NewOpenAI(apiKey, baseURL, model string) *OpenAI {
	return &OpenAI{
		apiKey: apiKey,
		url:    strings.TrimSuffix(baseURL, "/") + "/chat/completions",
		model:  model,
		client: &http.Client{},
	}
}

func (o *OpenAI) Name() string { return "openai" }

type openaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openaiRequest struct {
	Model       string          `json:"model"`
	Messages    []openaiMessage `json:"messages"`
	Temperature float32         `json:"temperature,omitempty"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
}

func (o *OpenAI) Generate(ctx context.Context, prompt string, params Params) (string, error) {
	payload, err := json.Marshal(openaiRequest{
		Model:       o.model,
		Messages:    []openaiMessage{{Role: "user", Content: prompt}},
		Temperature: params.Temperature,
		MaxTokens:   params.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request data: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.url, bytes.NewBuffer(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", Transient("timeout", err)
		}
		return "", Transient("request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", Transient("failed to read response", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
		return "", Transient(fmt.Sprintf("api returned %d", resp.StatusCode), errors.New(string(body)))
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API error: %s", string(body))
	}

	var responseData struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &responseData); err != nil {
		return "", Transient("failed to parse response", err)
	}
	if len(responseData.Choices) == 0 {
		return "", Transient("unexpected response format", nil)
	}
	return strings.TrimSpace(responseData.Choices[0].Message.Content), nil
}
