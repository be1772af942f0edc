// Package vision はGoogle Cloud Vision APIを使用した文字認識クライアントを提供します。
package vision

import (
	"context"
	"fmt"

	gvision "cloud.google.com/go/vision/v2/apiv1"
	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"

	"classmate_backend/internal/feature/schedulescan/usecase"
)

// VisionTextRecognizer はDOCUMENT_TEXT_DETECTIONで画像内の文字を読み取ります。
type VisionTextRecognizer struct {
	client *gvision.ImageAnnotatorClient
}

// VisionTextRecognizerがTextRecognizerを実装していることをコンパイル時に検証します。
var _ usecase.TextRecognizer = (*VisionTextRecognizer)(nil)

// NewVisionTextRecognizer はADCを使用してVisionTextRecognizerの新しいインスタンスを生成します。
func NewVisionTextRecognizer(ctx context.Context) (*VisionTextRecognizer, error) {
	client, err := gvision.NewImageAnnotatorClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create vision client: %w", err)
	}
	return &VisionTextRecognizer{client: client}, nil
}

// Close はVision APIクライアントを解放します。
func (v *VisionTextRecognizer) Close() error {
	return v.client.Close()
}

// RecognizeText は画像の全文テキストを返します。文字がなければ空文字です。
func (v *VisionTextRecognizer) RecognizeText(ctx context.Context, image []byte) (string, error) {
	resp, err := v.client.BatchAnnotateImages(ctx, newTextRequest(image))
	if err != nil {
		return "", fmt.Errorf("vision API request failed: %w", err)
	}
	return textFromResponse(resp)
}

func newTextRequest(image []byte) *visionpb.BatchAnnotateImagesRequest {
	return &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image: &visionpb.Image{Content: image},
				Features: []*visionpb.Feature{
					{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION},
				},
			},
		},
	}
}

func textFromResponse(resp *visionpb.BatchAnnotateImagesResponse) (string, error) {
	if len(resp.GetResponses()) == 0 {
		return "", nil
	}
	r := resp.GetResponses()[0]
	if r.GetError() != nil {
		return "", fmt.Errorf("vision API error: %s", r.GetError().GetMessage())
	}
	return r.GetFullTextAnnotation().GetText(), nil
}
