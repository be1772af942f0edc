// Package openai はOpenAI互換のChat Completions APIを使用した時間割抽出クライアントを提供します。
package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"classmate_backend/internal/feature/schedulescan/usecase"
)

const (
	// DefaultModel はOpenAIのデフォルトモデルです。
	DefaultModel = "gpt-4o"
	// maxTokens は応答の最大トークン数です。
	maxTokens = 500
	// maxErrorBody はエラー応答から読み取る最大バイト数です。
	maxErrorBody = 4096
)

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	MaxTokens      int            `json:"max_tokens"`
	ResponseFormat responseFormat `json:"response_format"`
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// OpenAIExtractor は画像をdata URIとして送り、JSONオブジェクトの応答を受け取ります。
type OpenAIExtractor struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

// OpenAIExtractorがScheduleExtractorを実装していることをコンパイル時に検証します。
var _ usecase.ScheduleExtractor = (*OpenAIExtractor)(nil)

// NewOpenAIExtractor はOpenAIExtractorの新しいインスタンスを生成します。
// baseURLは末尾の /chat/completions を含めずに指定します（例: https://api.openai.com/v1）。
func NewOpenAIExtractor(client *http.Client, baseURL, apiKey, model string) *OpenAIExtractor {
	if model == "" {
		model = DefaultModel
	}
	return &OpenAIExtractor{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
	}
}

// ExtractSchedule は画像から時間割を抽出し、モデルの応答本文を返します。
func (o *OpenAIExtractor) ExtractSchedule(ctx context.Context, image []byte, mimeType, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: o.model,
		Messages: []chatMessage{{
			Role: "user",
			Content: []contentPart{
				{Type: "text", Text: prompt},
				{Type: "image_url", ImageURL: &imageURL{URL: dataURI(image, mimeType)}},
			},
		}},
		MaxTokens:      maxTokens,
		ResponseFormat: responseFormat{Type: "json_object"},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if o.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+o.apiKey)
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("openai API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("openai API returned status %d: %s", resp.StatusCode, readErrorMessage(resp.Body))
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode chat response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("openai API returned no choices")
	}
	return out.Choices[0].Message.Content, nil
}

func dataURI(image []byte, mimeType string) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(image)
}

func readErrorMessage(r io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(r, maxErrorBody))
	var e errorResponse
	if err := json.Unmarshal(raw, &e); err == nil && e.Error.Message != "" {
		return e.Error.Message
	}
	return strings.TrimSpace(string(raw))
}
