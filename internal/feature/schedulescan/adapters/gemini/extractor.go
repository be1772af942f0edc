// Package gemini はGoogle Gemini APIを使用した時間割抽出クライアントを提供します。
package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"classmate_backend/internal/feature/schedulescan/usecase"
)

const (
	// DefaultModel はGemini APIのデフォルトモデルです。
	DefaultModel = "gemini-2.5-flash"
)

// GeminiExtractor は画像とプロンプトをGeminiに送り、JSONテキストを受け取ります。
type GeminiExtractor struct {
	client *genai.Client
	model  string
}

// GeminiExtractorがScheduleExtractorを実装していることをコンパイル時に検証します。
var _ usecase.ScheduleExtractor = (*GeminiExtractor)(nil)

// NewGeminiExtractor はADCまたはGOOGLE_API_KEYを使用してGeminiExtractorの新しいインスタンスを生成します。
// Vertex AIを使う場合は GOOGLE_GENAI_USE_VERTEXAI, GOOGLE_CLOUD_PROJECT, GOOGLE_CLOUD_LOCATION が必要です。
func NewGeminiExtractor(ctx context.Context, model string) (*GeminiExtractor, error) {
	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	if model == "" {
		model = DefaultModel
	}
	return &GeminiExtractor{client: client, model: model}, nil
}

// ExtractSchedule は画像から時間割を抽出します。応答はJSONに制約します。
func (g *GeminiExtractor) ExtractSchedule(ctx context.Context, image []byte, mimeType, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, buildContents(image, mimeType, prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("gemini API request failed: %w", err)
	}
	return resp.Text(), nil
}

func buildContents(image []byte, mimeType, prompt string) []*genai.Content {
	parts := []*genai.Part{
		genai.NewPartFromText(prompt),
		genai.NewPartFromBytes(image, mimeType),
	}
	return []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
}
