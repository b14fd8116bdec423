package inkwell

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const (
	geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	geminiModel   = "gemini-2.5-flash"
)

// Draft is a generated title/body pair used to pre-fill the create form.
type Draft struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Generator produces blog drafts by calling the Gemini generateContent API.
// It is optional plumbing for the create form; its failures never block
// manual post creation.
type Generator struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewGenerator creates a Generator using the given API key.
func NewGenerator(apiKey string) *Generator {
	return &Generator{
		apiKey:     apiKey,
		baseURL:    geminiBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig struct {
		ResponseMimeType string `json:"responseMimeType"`
	} `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// Generate asks the model for a draft about topic. When the model returns
// text that is not the requested JSON shape, the raw output is wrapped in a
// fallback draft instead of failing.
func (g *Generator) Generate(ctx context.Context, topic string) (Draft, error) {
	prompt := fmt.Sprintf(`Write a blog post about %q.
Return the output as a JSON object with two keys: "title" (a catchy title) and "content" (the full blog post body, approx 300 words, formatted with standard line breaks).
Do not include markdown code blocks in the output string, just the raw JSON string.`, topic)

	var reqBody geminiRequest
	reqBody.Contents = []geminiContent{{Parts: []geminiPart{{Text: prompt}}}}
	reqBody.GenerationConfig.ResponseMimeType = "application/json"

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return Draft{}, err
	}

	u := fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, geminiModel)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return Draft{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return Draft{}, fmt.Errorf("generate draft: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Draft{}, fmt.Errorf("generate draft: server error: %d", resp.StatusCode)
	}

	var gr geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return Draft{}, fmt.Errorf("generate draft: decode response: %w", err)
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return Draft{}, fmt.Errorf("generate draft: empty response")
	}

	text := gr.Candidates[0].Content.Parts[0].Text
	var draft Draft
	if err := json.Unmarshal([]byte(text), &draft); err != nil || draft.Title == "" {
		// Model ignored the JSON instruction; salvage the raw output.
		return Draft{
			Title:   "Thoughts on " + topic,
			Content: text,
		}, nil
	}
	return draft, nil
}

// handleGenerate serves POST /api/generate. Without a configured API key the
// endpoint is unavailable; the front end then simply hides the AI button.
func (a *App) handleGenerate(c echo.Context) error {
	if a.Generator == nil {
		return apiError(c, http.StatusServiceUnavailable, "generation not configured")
	}

	var body struct {
		Topic string `json:"topic"`
	}
	if err := c.Bind(&body); err != nil || body.Topic == "" {
		return apiError(c, http.StatusBadRequest, "topic is required")
	}

	draft, err := a.Generator.Generate(c.Request().Context(), body.Topic)
	if err != nil {
		c.Logger().Errorf("generate draft: %v", err)
		return apiError(c, http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, draft)
}
