// Package dto はschedulescanフィーチャーのレスポンス型を定義します。
package dto

import (
	"classmate_backend/internal/feature/schedulescan/usecase"
	shareddto "classmate_backend/internal/shared/dto"
)

// ScanResponse は POST /api/schedule/scan の結果です。
type ScanResponse struct {
	Found           int                         `json:"found"`
	Sections        []shareddto.SectionResponse `json:"sections"`
	Enrolled        int                         `json:"enrolled"`
	AlreadyEnrolled int                         `json:"alreadyEnrolled"`
	Failed          int                         `json:"failed"`
}

// FromScanResult はユースケースの結果をレスポンスに変換します。
func FromScanResult(r *usecase.ScanResult) ScanResponse {
	return ScanResponse{
		Found:           len(r.Found),
		Sections:        shareddto.FromSections(r.Sections),
		Enrolled:        r.Summary.Enrolled,
		AlreadyEnrolled: r.Summary.AlreadyEnrolled,
		Failed:          r.Summary.Failed,
	}
}
