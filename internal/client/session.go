package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"
	"sync"

	authdto "classmate_backend/internal/feature/auth/transport/http/dto"
	catalogdto "classmate_backend/internal/feature/catalog/transport/http/dto"
	enrollmentdto "classmate_backend/internal/feature/enrollment/transport/http/dto"
	profiledto "classmate_backend/internal/feature/profile/transport/http/dto"
	scandto "classmate_backend/internal/feature/schedulescan/transport/http/dto"
	shareddto "classmate_backend/internal/shared/dto"
)

// ErrNotAuthenticated はログインが必要な操作をトークンなしで呼んだときに返ります。
var ErrNotAuthenticated = errors.New("not authenticated")

// Session は1人のユーザーの認証状態（トークンと現在のユーザー）を保持します。
// UIなどの呼び出し側はSessionを明示的に受け渡して使います。
type Session struct {
	t     transport
	store Store
	gate  *PrivacyGate

	mu    sync.RWMutex
	token string
	user  *shareddto.UserResponse
}

// NewSession はSessionを生成します。
// httpClientにはタイムアウト付きのクライアントを渡してください。gateがnilなら確認を求めません。
func NewSession(baseURL string, httpClient *http.Client, store Store, gate *PrivacyGate) *Session {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Session{
		t:     transport{baseURL: strings.TrimRight(baseURL, "/"), client: httpClient},
		store: store,
		gate:  gate,
	}
}

// Token は現在のトークンを返します。
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User は現在のユーザーを返します。未ログインならnilです。
func (s *Session) User() *shareddto.UserResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// IsAuthenticated はトークンとユーザーが揃っているかを返します。
func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != "" && s.user != nil
}

func (s *Session) set(token string, user *shareddto.UserResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token, s.user = token, user
}

func (s *Session) authToken() (string, error) {
	token := s.Token()
	if token == "" {
		return "", ErrNotAuthenticated
	}
	return token, nil
}

// Init は保存済みのトークンを読み込み、プロフィールを取得して状態を復元します。
// トークンが無効（401/404）なら保存済みトークンを削除し、未ログイン状態でnilを返します。
func (s *Session) Init(ctx context.Context) error {
	token, err := s.store.Load()
	if err != nil {
		return fmt.Errorf("load token: %w", err)
	}
	if token == "" {
		return nil
	}

	user, err := s.fetchProfile(ctx, token)
	if err != nil {
		if IsStatus(err, http.StatusUnauthorized) || IsStatus(err, http.StatusNotFound) {
			s.set("", nil)
			return s.store.Clear()
		}
		return err
	}
	s.set(token, user)
	return nil
}

// Register はアカウントを作成し、ユーザーIDを返します。ログインはしません。
func (s *Session) Register(ctx context.Context, name, email, password string) (uint, error) {
	var out authdto.RegisterResponse
	in := authdto.RegisterRequest{Name: name, Email: email, Password: password}
	if err := s.t.doJSON(ctx, http.MethodPost, "/api/register", "", in, &out); err != nil {
		return 0, err
	}
	return out.UserID, nil
}

// Login はトークンを取得して保存し、プロフィールを読み込みます。
// プロフィール取得に失敗した場合は状態を残しません。
func (s *Session) Login(ctx context.Context, email, password string) error {
	var out authdto.TokenResponse
	in := authdto.LoginRequest{Email: email, Password: password}
	if err := s.t.doJSON(ctx, http.MethodPost, "/api/login", "", in, &out); err != nil {
		return err
	}

	user, err := s.fetchProfile(ctx, out.Token)
	if err != nil {
		s.set("", nil)
		return errors.Join(err, s.store.Clear())
	}
	if err := s.store.Save(out.Token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	s.set(out.Token, user)
	return nil
}

// RefetchUser はプロフィールを再取得します。トークンが無効ならログアウト状態にします。
func (s *Session) RefetchUser(ctx context.Context) (*shareddto.UserResponse, error) {
	token, err := s.authToken()
	if err != nil {
		return nil, err
	}
	user, err := s.fetchProfile(ctx, token)
	if err != nil {
		if IsStatus(err, http.StatusUnauthorized) {
			s.set("", nil)
			return nil, errors.Join(err, s.store.Clear())
		}
		return nil, err
	}
	s.set(token, user)
	return user, nil
}

// Logout はサーバー側でトークンを失効させ、手元の状態を消去します。
// サーバー呼び出しが失敗しても手元の状態は消去されます。
func (s *Session) Logout(ctx context.Context) error {
	token := s.Token()
	var apiErr error
	if token != "" {
		apiErr = s.t.doJSON(ctx, http.MethodPost, "/api/logout", token, nil, nil)
		if IsStatus(apiErr, http.StatusUnauthorized) {
			apiErr = nil
		}
	}
	s.set("", nil)
	return errors.Join(apiErr, s.store.Clear())
}

func (s *Session) fetchProfile(ctx context.Context, token string) (*shareddto.UserResponse, error) {
	var user shareddto.UserResponse
	if err := s.t.doJSON(ctx, http.MethodGet, "/api/profile", token, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile はプロフィールを部分更新し、手元のユーザーも更新します。
func (s *Session) UpdateProfile(ctx context.Context, in profiledto.UpdateProfileRequest) (*shareddto.UserResponse, error) {
	token, err := s.authToken()
	if err != nil {
		return nil, err
	}
	var user shareddto.UserResponse
	if err := s.t.doJSON(ctx, http.MethodPut, "/api/profile", token, in, &user); err != nil {
		return nil, err
	}
	s.set(token, &user)
	return &user, nil
}

// Courses は全科目をセクション付きで返します。
func (s *Session) Courses(ctx context.Context) ([]shareddto.CourseResponse, error) {
	token, err := s.authToken()
	if err != nil {
		return nil, err
	}
	var out []shareddto.CourseResponse
	if err := s.t.doJSON(ctx, http.MethodGet, "/api/courses", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MySections は自分の履修セクションを返します。
func (s *Session) MySections(ctx context.Context) ([]shareddto.SectionResponse, error) {
	token, err := s.authToken()
	if err != nil {
		return nil, err
	}
	var out []shareddto.SectionResponse
	if err := s.t.doJSON(ctx, http.MethodGet, "/api/profile/sections", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Classmates はセクションの自分以外の履修者を返します。
func (s *Session) Classmates(ctx context.Context, sectionID uint) ([]shareddto.UserResponse, error) {
	token, err := s.authToken()
	if err != nil {
		return nil, err
	}
	var out []shareddto.UserResponse
	if err := s.t.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/sections/%d/classmates", sectionID), token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Enroll はセクションに履修登録します。
func (s *Session) Enroll(ctx context.Context, sectionID uint) error {
	if err := s.gate.check(ActionEnroll); err != nil {
		return err
	}
	return s.enroll(ctx, sectionID)
}

func (s *Session) enroll(ctx context.Context, sectionID uint) error {
	token, err := s.authToken()
	if err != nil {
		return err
	}
	return s.t.doJSON(ctx, http.MethodPost, fmt.Sprintf("/api/sections/%d/enroll", sectionID), token, nil, nil)
}

// Unenroll はセクションの履修を取り消します。確認は不要です。
func (s *Session) Unenroll(ctx context.Context, sectionID uint) error {
	token, err := s.authToken()
	if err != nil {
		return err
	}
	return s.t.doJSON(ctx, http.MethodPost, fmt.Sprintf("/api/sections/%d/unenroll", sectionID), token, nil, nil)
}

// AddSectionAndEnroll は既存科目に新しいセクションを作成し、そのまま履修登録します。
func (s *Session) AddSectionAndEnroll(ctx context.Context, crn string, courseID uint) (*shareddto.SectionResponse, error) {
	if err := s.gate.check(ActionAddSectionAndEnroll); err != nil {
		return nil, err
	}
	token, err := s.authToken()
	if err != nil {
		return nil, err
	}
	var section shareddto.SectionResponse
	in := catalogdto.CreateSectionRequest{CRN: crn, CourseID: courseID}
	if err := s.t.doJSON(ctx, http.MethodPost, "/api/sections", token, in, &section); err != nil {
		return nil, err
	}
	if err := s.enroll(ctx, section.ID); err != nil {
		return &section, fmt.Errorf("section %s created but enroll failed: %w", section.CRN, err)
	}
	return &section, nil
}

// UpsertBatch は科目・セクションを一括で作成し、対象セクションを返します。
func (s *Session) UpsertBatch(ctx context.Context, entries []enrollmentdto.BatchEntry) ([]shareddto.SectionResponse, error) {
	token, err := s.authToken()
	if err != nil {
		return nil, err
	}
	var out []shareddto.SectionResponse
	if err := s.t.doJSON(ctx, http.MethodPost, "/api/courses/upsert-batch", token, entries, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ScanSchedule は時間割画像をサーバーに送り、抽出・登録結果を返します。
func (s *Session) ScanSchedule(ctx context.Context, filename string, image []byte) (*scandto.ScanResponse, error) {
	if err := s.gate.check(ActionScanSchedule); err != nil {
		return nil, err
	}
	token, err := s.authToken()
	if err != nil {
		return nil, err
	}

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	fw, err := mw.CreateFormFile("image", filename)
	if err != nil {
		return nil, err
	}
	if _, err := fw.Write(image); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := s.t.newRequest(ctx, http.MethodPost, "/api/schedule/scan", token, body, mw.FormDataContentType())
	if err != nil {
		return nil, err
	}
	var out scandto.ScanResponse
	if err := s.t.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
