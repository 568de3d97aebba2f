// Package groq is a minimal HTTP client for the Groq OpenAI-compatible chat
// completions API, used to turn trade letter text or pages into structured
// JSON.
package groq

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// BaseURL is the Groq API base URL.
	BaseURL = "https://api.groq.com/openai/v1"

	jsonOnlySystemPrompt = "You are a JSON-only response bot. You MUST respond with ONLY a valid JSON object. No explanations, no markdown, no text before or after the JSON. Start your response with { and end with }."
)

// Client is a minimal HTTP client for the Groq chat completions API.
type Client struct {
	httpClient *http.Client
	apiKey     string
}

// NewClient constructs a new Groq client with sane defaults.
func NewClient(apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		apiKey:     apiKey,
	}
}

// ChatJSON sends a text prompt and returns the JSON object extracted from
// the model's reply.
func (c *Client) ChatJSON(ctx context.Context, model, prompt string) (string, error) {
	body := map[string]interface{}{
		"model": model,
		"messages": []interface{}{
			map[string]string{"role": "system", "content": jsonOnlySystemPrompt},
			map[string]string{"role": "user", "content": prompt},
		},
		"temperature": 0.1,
		"max_tokens":  2000,
	}
	return c.complete(ctx, body)
}

// ChatVisionJSON sends a prompt alongside a document rendered as a data URI
// and returns the JSON object extracted from the model's reply.
func (c *Client) ChatVisionJSON(ctx context.Context, model, prompt, mimeType string, document []byte) (string, error) {
	dataURI := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(document))
	body := map[string]interface{}{
		"model": model,
		"messages": []interface{}{
			map[string]string{"role": "system", "content": jsonOnlySystemPrompt},
			map[string]interface{}{
				"role": "user",
				"content": []interface{}{
					map[string]string{"type": "text", "text": prompt},
					map[string]interface{}{
						"type":      "image_url",
						"image_url": map[string]string{"url": dataURI},
					},
				},
			},
		},
		"temperature": 0.1,
		"max_tokens":  2000,
	}
	return c.complete(ctx, body)
}

func (c *Client) complete(ctx context.Context, body map[string]interface{}) (string, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, BaseURL+"/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("groq API error: %s", string(respBody))
	}

	var result chatResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", err
	}
	if len(result.Choices) == 0 {
		return "", errors.New("no response from Groq API")
	}

	rawContent := result.Choices[0].Message.Content
	log.Debug().Str("raw_response", rawContent).Msg("Raw Groq response")

	content := ExtractJSON(rawContent)
	if content == "" {
		log.Error().Str("raw_content", rawContent).Msg("Failed to extract JSON from Groq response")
		return "", fmt.Errorf("no valid JSON found in Groq response. Raw: %s", truncate(rawContent, 200))
	}
	return content, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
