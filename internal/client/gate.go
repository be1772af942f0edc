package client

import (
	"errors"
	"sync"
)

// Action はプライバシー確認の対象となる操作です。
type Action string

const (
	ActionEnroll              Action = "enroll"
	ActionAddSectionAndEnroll Action = "add-section-and-enroll"
	ActionScanSchedule        Action = "scan-schedule"
)

// ErrConfirmationRequired は初回のプライバシー確認が済んでいないときに返ります。
var ErrConfirmationRequired = errors.New("privacy notice must be confirmed before this action")

const acknowledged = "acknowledged"

// PrivacyGate は履修情報が他の学生に公開されることへの初回確認を管理します。
// 確認状態はStoreに永続化されます。
type PrivacyGate struct {
	mu        sync.Mutex
	store     Store
	confirmed bool
	loaded    bool
}

// NewPrivacyGate はPrivacyGateを生成します。storeがnilなら確認状態はメモリ上だけで保持します。
func NewPrivacyGate(store Store) *PrivacyGate {
	if store == nil {
		store = NewMemoryStore()
	}
	return &PrivacyGate{store: store}
}

// RequiresConfirmation はactionの実行前に確認が必要かどうかを返します。
// 対象外の操作では常にfalseです。Storeを読めない場合は確認を求めます。
func (g *PrivacyGate) RequiresConfirmation(action Action) bool {
	switch action {
	case ActionEnroll, ActionAddSectionAndEnroll, ActionScanSchedule:
	default:
		return false
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.loaded {
		v, err := g.store.Load()
		if err != nil {
			return true
		}
		g.confirmed = v == acknowledged
		g.loaded = true
	}
	return !g.confirmed
}

// Confirm は確認済みであることを保存します。
func (g *PrivacyGate) Confirm() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.store.Save(acknowledged); err != nil {
		return err
	}
	g.confirmed = true
	g.loaded = true
	return nil
}

func (g *PrivacyGate) check(action Action) error {
	if g != nil && g.RequiresConfirmation(action) {
		return ErrConfirmationRequired
	}
	return nil
}
