package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"techdaily/logger"
)

// Client talks to a DashScope-style text generation endpoint. The backend
// is treated as an untrusted, slow, sometimes-malformed black box: HTTP
// failures and unexpected response shapes come back as user-facing error
// strings, never as panics or half-parsed content.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

const generationPath = "/api/v1/services/aigc/text-generation/generation"

type completionRequest struct {
	Model      string               `json:"model"`
	Input      completionInput      `json:"input"`
	Parameters completionParameters `json:"parameters"`
}

type completionInput struct {
	Prompt string `json:"prompt"`
}

type completionParameters struct {
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
}

type completionResponse struct {
	Output struct {
		Text string `json:"text"`
	} `json:"output"`
}

// NewClient creates a summarization client
func NewClient(apiKey, baseURL string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 90 * time.Second,
		},
	}
}

// Complete sends one prompt and returns the generated text. On any failure
// the return value is a human-readable error message; callers must treat
// the result as potentially being one.
func (c *Client) Complete(model, prompt string) string {
	log := logger.ForAI()

	if c.apiKey == "" {
		return "AI API key is not configured"
	}

	body, err := json.Marshal(completionRequest{
		Model: model,
		Input: completionInput{Prompt: prompt},
		Parameters: completionParameters{
			MaxTokens:   2000,
			Temperature: 0.7,
		},
	})
	if err != nil {
		return fmt.Sprintf("AI request build failed: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+generationPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Sprintf("AI request build failed: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("X-DashScope-SSE", "disable")

	log.Debug().Str("model", model).Int("prompt_chars", len(prompt)).Msg("Calling AI backend")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error().Err(err).Msg("AI call failed")
		return fmt.Sprintf("AI call failed: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Sprintf("AI response read failed: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Error().Int("status", resp.StatusCode).Msg("AI backend returned an error status")
		return fmt.Sprintf("AI call failed with status %d", resp.StatusCode)
	}

	var parsed completionResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil || parsed.Output.Text == "" {
		log.Error().Msg("AI response missing output.text")
		return "AI response format was not recognized"
	}

	return parsed.Output.Text
}

// IsErrorReply reports whether a Complete result is one of the client's
// own error messages rather than generated content.
func IsErrorReply(s string) bool {
	return strings.HasPrefix(s, "AI ")
}

// TranslateTitle translates an English article title to Chinese
func (c *Client) TranslateTitle(model, title string) string {
	prompt := fmt.Sprintf(
		"Translate the following technical article title into Chinese.\n\n%s\n\n"+
			"Requirements:\n"+
			"1. Keep technical terms accurate and professional\n"+
			"2. Return only the translation, nothing else",
		title,
	)
	return c.Complete(model, prompt)
}

// SummarizeArticle produces a structured summary for one article's content
func (c *Client) SummarizeArticle(model, title, url, content string) string {
	const maxContentChars = 8000
	runes := []rune(content)
	if len(runes) > maxContentChars {
		content = string(runes[:maxContentChars]) + "\n\n[content truncated...]"
	}

	prompt := fmt.Sprintf(
		"Read the following technical article and produce a structured summary.\n\n"+
			"Title: %s\nLink: %s\n\nContent:\n%s\n\n"+
			"Respond with these sections:\n"+
			"## Overview\n3-4 sentences on what the article covers\n\n"+
			"## Key points\n3-5 bullet points\n\n"+
			"## Who should read it\nOne sentence",
		title, url, content,
	)
	return c.Complete(model, prompt)
}
