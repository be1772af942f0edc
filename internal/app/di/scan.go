package di

import (
	"context"
	"fmt"
	"log/slog"

	"classmate_backend/internal/feature/schedulescan/adapters/gemini"
	"classmate_backend/internal/feature/schedulescan/adapters/openai"
	"classmate_backend/internal/feature/schedulescan/adapters/vision"
	scanusecase "classmate_backend/internal/feature/schedulescan/usecase"
	"classmate_backend/internal/platform/config"
	platformhttp "classmate_backend/internal/platform/http"
)

// NewScheduleExtractor はAI_PROVIDERに応じた時間割抽出器を生成します。
// プロバイダー未設定の場合はnilを返し、スキャンは無効になります。
func NewScheduleExtractor(ctx context.Context, cfg config.AIConfig) (scanusecase.ScheduleExtractor, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		ex, err := gemini.NewGeminiExtractor(ctx, cfg.GeminiModel)
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini extractor: %w", err)
		}
		return ex, nil
	case config.ProviderOpenAI:
		httpClient := platformhttp.NewHTTPClient(cfg.Timeout)
		return openai.NewOpenAIExtractor(httpClient, cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel), nil
	case config.ProviderNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.Provider)
	}
}

// NewTextRecognizer はVISION_OCRが有効な場合にCloud Visionの文字認識器を生成します。
// 返されるclose関数は常に呼び出して構いません。
func NewTextRecognizer(ctx context.Context, cfg config.AIConfig) (scanusecase.TextRecognizer, func(), error) {
	noop := func() {}
	if !cfg.VisionOCR {
		return nil, noop, nil
	}
	r, err := vision.NewVisionTextRecognizer(ctx)
	if err != nil {
		return nil, noop, fmt.Errorf("failed to create vision client: %w", err)
	}
	return r, func() {
		if err := r.Close(); err != nil {
			slog.Warn("failed to close vision client", "error", err)
		}
	}, nil
}
