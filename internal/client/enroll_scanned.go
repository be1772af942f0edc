package client

import (
	"context"
	"fmt"
	"log/slog"

	enrollmentdto "classmate_backend/internal/feature/enrollment/transport/http/dto"
	shareddto "classmate_backend/internal/shared/dto"
)

// EnrollSummary は逐次登録の集計です。
type EnrollSummary struct {
	Sections        []shareddto.SectionResponse
	Enrolled        int
	AlreadyEnrolled int
	Failed          int
}

// EnrollScanned は画像解析などで得た科目一覧を一括登録し、未履修のセクションに1件ずつ登録します。
// 1件の失敗で中断せず、成功済みの登録は取り消しません。
func (s *Session) EnrollScanned(ctx context.Context, entries []enrollmentdto.BatchEntry) (*EnrollSummary, error) {
	if err := s.gate.check(ActionScanSchedule); err != nil {
		return nil, err
	}

	sections, err := s.UpsertBatch(ctx, entries)
	if err != nil {
		return nil, fmt.Errorf("upsert scanned courses: %w", err)
	}
	mine, err := s.MySections(ctx)
	if err != nil {
		return nil, fmt.Errorf("list enrolled sections: %w", err)
	}
	held := make(map[uint]struct{}, len(mine))
	for _, sec := range mine {
		held[sec.ID] = struct{}{}
	}

	summary := &EnrollSummary{Sections: sections}
	for _, sec := range sections {
		if _, ok := held[sec.ID]; ok {
			summary.AlreadyEnrolled++
			continue
		}
		if err := s.enroll(ctx, sec.ID); err != nil {
			summary.Failed++
			slog.Warn("enroll failed", "section_id", sec.ID, "crn", sec.CRN, "error", err)
			continue
		}
		held[sec.ID] = struct{}{}
		summary.Enrolled++
	}
	return summary, nil
}
