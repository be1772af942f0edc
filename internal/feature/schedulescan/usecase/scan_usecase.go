// Package usecase はschedulescanフィーチャー（時間割画像からの一括履修登録）のビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"classmate_backend/internal/domain/entity"
	"classmate_backend/internal/platform/apperror"
)

const (
	// MaxImageSize は画像アップロードの最大サイズ（10MiB）です。
	MaxImageSize = 10 * 1024 * 1024
	// maxOCRHintLength はプロンプトに添えるOCR結果の最大文字数（rune数）です。
	maxOCRHintLength = 4000
)

var allowedImageTypes = map[string]struct{}{
	"image/png":  {},
	"image/jpeg": {},
	"image/webp": {},
}

// ScheduleExtractor は画像とプロンプトからモデルの生テキスト出力を得ます。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type ScheduleExtractor interface {
	ExtractSchedule(ctx context.Context, image []byte, mimeType, prompt string) (string, error)
}

// TextRecognizer は画像内の文字を読み取ります。任意の前処理です。
type TextRecognizer interface {
	RecognizeText(ctx context.Context, image []byte) (string, error)
}

// Enroller は抽出結果の一括登録と逐次履修登録を行います。
type Enroller interface {
	BatchUpsertAndReturnSections(ctx context.Context, inputs []entity.SectionInput) ([]entity.Section, error)
	EnrollAll(ctx context.Context, userID uint, sections []entity.Section) (entity.EnrollSummary, error)
}

// Limiter は外部AI APIの呼び出し頻度を制限します。
type Limiter interface {
	WaitIfNeeded(ctx context.Context) error
}

// ScanResult はスキャン1回分の結果です。
type ScanResult struct {
	Found    []entity.SectionInput
	Sections []entity.Section
	Summary  entity.EnrollSummary
}

type scanUsecase struct {
	extractor  ScheduleExtractor
	recognizer TextRecognizer
	enroller   Enroller
	limiter    Limiter
}

// NewScanUsecase はscanUsecaseの新しいインスタンスを生成します。
// extractorがnilの場合、Scanは常にErrScanUnavailableを返します。recognizerとlimiterは省略できます。
func NewScanUsecase(extractor ScheduleExtractor, recognizer TextRecognizer, enroller Enroller, limiter Limiter) *scanUsecase {
	return &scanUsecase{extractor: extractor, recognizer: recognizer, enroller: enroller, limiter: limiter}
}

// Scan は時間割画像から科目を抽出し、科目・セクションを作成したうえでユーザーを順に履修登録します。
// 途中の登録失敗は件数として返し、エラーにはしません。
func (u *scanUsecase) Scan(ctx context.Context, userID uint, image []byte, mimeType string) (*ScanResult, error) {
	detected, err := checkImage(image)
	if err != nil {
		return nil, err
	}
	if mimeType != "" && mimeType != detected {
		slog.Debug("declared image type differs from content", "declared", mimeType, "detected", detected)
	}
	if u.extractor == nil {
		return nil, ErrScanUnavailable
	}

	prompt := SchedulePrompt
	if hint := u.recognize(ctx, image); hint != "" {
		prompt += "\n\nText recognized in the image (may contain OCR errors):\n" + hint
	}

	if u.limiter != nil {
		if err := u.limiter.WaitIfNeeded(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait canceled: %w", err)
		}
	}

	raw, err := u.extractor.ExtractSchedule(ctx, image, detected, prompt)
	if err != nil {
		return nil, apperror.Wrap(apperror.ErrUpstream, "schedule extraction failed", err)
	}

	found, err := ParseSchedule(raw)
	if err != nil {
		slog.Warn("no courses in extractor output", "user_id", userID, "output_length", len(raw))
		return nil, err
	}

	sections, err := u.enroller.BatchUpsertAndReturnSections(ctx, found)
	if err != nil {
		return nil, err
	}

	summary, err := u.enroller.EnrollAll(ctx, userID, sections)
	if err != nil {
		return nil, err
	}

	slog.Info("schedule scanned", "user_id", userID, "found", len(found), "sections", len(sections))
	return &ScanResult{Found: found, Sections: sections, Summary: summary}, nil
}

func (u *scanUsecase) recognize(ctx context.Context, image []byte) string {
	if u.recognizer == nil {
		return ""
	}
	text, err := u.recognizer.RecognizeText(ctx, image)
	if err != nil {
		slog.Warn("ocr pre-pass failed, continuing without it", "error", err)
		return ""
	}
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) > maxOCRHintLength {
		text = string([]rune(text)[:maxOCRHintLength])
	}
	return text
}

// checkImage はサイズと内容から判定した画像形式を検証し、MIMEタイプを返します。
func checkImage(image []byte) (string, error) {
	if len(image) == 0 {
		return "", ErrEmptyImage
	}
	if len(image) > MaxImageSize {
		return "", ErrImageTooLarge
	}
	detected := http.DetectContentType(image)
	if _, ok := allowedImageTypes[detected]; !ok {
		return "", ErrUnsupportedImage
	}
	return detected, nil
}
