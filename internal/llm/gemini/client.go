// Package gemini calls the Gemini generateContent REST endpoint.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/AlibekovAA/qa-llm/backend/internal/common/constants"
	"github.com/AlibekovAA/qa-llm/backend/internal/llm"
)

const systemPrompt = `You are an expert AI assistant providing accurate, well-structured answers.

When responding to user queries:
1. Research the topic thoroughly using your knowledge
2. Organize information into clear sections with bullet points when appropriate
3. Be concise yet comprehensive
4. Format your response to be easy to read and understand
5. Include all necessary details relevant to the query
6. If the query is travel-related, include visa requirements, passport info, and any advisories

Respond in markdown format for better readability.`

const maxErrorBody = 2048

var ErrMissingAPIKey = errors.New("gemini api key is empty")

type Client struct {
	apiKey  string
	baseURL string
	model   string
	httpDo  *http.Client
}

func New(apiKey, baseURL, model string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = constants.DefaultGeminiBaseURL
	}
	if model == "" {
		model = constants.DefaultGeminiModel
	}
	if timeout <= 0 {
		timeout = constants.DefaultLLMHTTPTimeout
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		httpDo:  &http.Client{Timeout: timeout},
	}
}

func (c *Client) Model() string {
	return c.model
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content *content `json:"content"`
	} `json:"candidates"`
}

// Ask sends a single generateContent request. Any non-200 status or a reply without
// candidates[0].content.parts[0].text is an error.
func (c *Client) Ask(ctx context.Context, question, questionContext string) (llm.Answer, error) {
	if c.apiKey == "" {
		return llm.Answer{}, ErrMissingAPIKey
	}

	data, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: buildPrompt(question, questionContext)}}}},
		GenerationConfig: generationConfig{
			Temperature:     0.7,
			TopK:            40,
			TopP:            0.95,
			MaxOutputTokens: 1024,
		},
	})
	if err != nil {
		return llm.Answer{}, err
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, url.PathEscape(c.model), url.QueryEscape(c.apiKey))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return llm.Answer{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpDo.Do(httpReq)
	if err != nil {
		return llm.Answer{}, redact(err, c.apiKey)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return llm.Answer{}, fmt.Errorf("gemini http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return llm.Answer{}, fmt.Errorf("failed to decode gemini response: %w", err)
	}
	if len(out.Candidates) == 0 || out.Candidates[0].Content == nil || len(out.Candidates[0].Content.Parts) == 0 {
		return llm.Answer{}, llm.ErrEmptyAnswer
	}

	return llm.Answer{
		Text:     out.Candidates[0].Content.Parts[0].Text,
		Metadata: map[string]any{"model": c.model},
	}, nil
}

func buildPrompt(question, questionContext string) string {
	message := question
	if questionContext != "" {
		message = fmt.Sprintf("Context: %s\n\nQuestion: %s", questionContext, question)
	}
	return fmt.Sprintf("%s\n\nUser Query: %s", systemPrompt, message)
}

// redact strips the key from transport errors, which embed the request URL.
func redact(err error, apiKey string) error {
	msg := err.Error()
	if apiKey == "" || !strings.Contains(msg, apiKey) {
		return err
	}
	return errors.New(strings.ReplaceAll(msg, apiKey, "REDACTED"))
}
