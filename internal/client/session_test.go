package client

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	enrollmentdto "classmate_backend/internal/feature/enrollment/transport/http/dto"
	profiledto "classmate_backend/internal/feature/profile/transport/http/dto"
	platformhttp "classmate_backend/internal/platform/http"
)

func newTestSession(t *testing.T, baseURL string, store Store, gate *PrivacyGate) *Session {
	t.Helper()
	return NewSession(baseURL, platformhttp.NewHTTPClient(5*time.Second), store, gate)
}

func TestSession_LoginLifecycle(t *testing.T) {
	ctx := context.Background()
	_, srv := newFakeAPI(t)
	store := NewFileStore(filepath.Join(t.TempDir(), "session", "token"))

	s := newTestSession(t, srv.URL+"/", store, nil)
	require.NoError(t, s.Init(ctx))
	assert.False(t, s.IsAuthenticated())

	require.NoError(t, s.Login(ctx, "ada@example.com", "pw1"))
	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, "Ada", s.User().Name)
	saved, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok-1", saved)

	// 新しいSessionが保存済みトークンから状態を復元する
	restored := newTestSession(t, srv.URL, store, nil)
	require.NoError(t, restored.Init(ctx))
	assert.True(t, restored.IsAuthenticated())
	assert.Equal(t, uint(1), restored.User().ID)

	require.NoError(t, restored.Logout(ctx))
	assert.False(t, restored.IsAuthenticated())
	assert.Empty(t, restored.Token())
	saved, err = store.Load()
	require.NoError(t, err)
	assert.Empty(t, saved)

	// 失効後の古いSessionはRefetchUserでログアウト状態になる
	_, err = s.RefetchUser(ctx)
	assert.True(t, IsStatus(err, http.StatusUnauthorized))
	assert.False(t, s.IsAuthenticated())
}

func TestSession_InitClearsInvalidToken(t *testing.T) {
	_, srv := newFakeAPI(t)
	store := NewMemoryStore()
	require.NoError(t, store.Save("stale"))

	s := newTestSession(t, srv.URL, store, nil)
	require.NoError(t, s.Init(context.Background()))

	assert.False(t, s.IsAuthenticated())
	saved, _ := store.Load()
	assert.Empty(t, saved)
}

func TestSession_LoginAndRegisterErrors(t *testing.T) {
	ctx := context.Background()
	_, srv := newFakeAPI(t)
	s := newTestSession(t, srv.URL, nil, nil)

	err := s.Login(ctx, "ada@example.com", "wrong")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "invalid email or password", apiErr.Message)
	assert.False(t, s.IsAuthenticated())

	id, err := s.Register(ctx, "Ada", "ada@example.com", "pw1")
	require.NoError(t, err)
	assert.Equal(t, uint(1), id)

	_, err = s.Register(ctx, "Ada", "taken@example.com", "pw1")
	assert.True(t, IsStatus(err, http.StatusConflict))
}

func TestSession_RequiresLogin(t *testing.T) {
	_, srv := newFakeAPI(t)
	s := newTestSession(t, srv.URL, nil, nil)

	_, err := s.Courses(context.Background())
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.ErrorIs(t, s.Enroll(context.Background(), 1), ErrNotAuthenticated)
}

func TestSession_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	_, srv := newFakeAPI(t)
	s := newTestSession(t, srv.URL, nil, nil)
	require.NoError(t, s.Login(ctx, "ada@example.com", "pw1"))

	bio := "math nerd"
	user, err := s.UpdateProfile(ctx, profiledto.UpdateProfileRequest{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "math nerd", user.Bio)
	assert.Equal(t, "math nerd", s.User().Bio)
}

func TestSession_PrivacyGate(t *testing.T) {
	ctx := context.Background()
	api, srv := newFakeAPI(t)
	gate := NewPrivacyGate(NewMemoryStore())
	s := newTestSession(t, srv.URL, nil, gate)
	require.NoError(t, s.Login(ctx, "ada@example.com", "pw1"))

	assert.ErrorIs(t, s.Enroll(ctx, 1), ErrConfirmationRequired)
	_, err := s.AddSectionAndEnroll(ctx, "10101", 1)
	assert.ErrorIs(t, err, ErrConfirmationRequired)
	_, err = s.ScanSchedule(ctx, "schedule.png", []byte("png"))
	assert.ErrorIs(t, err, ErrConfirmationRequired)
	assert.Empty(t, api.enrollCalls())
	// 履修取り消しは確認対象外
	require.NoError(t, s.Unenroll(ctx, 1))

	require.NoError(t, gate.Confirm())

	section, err := s.AddSectionAndEnroll(ctx, "10101", 1)
	require.NoError(t, err)
	assert.Equal(t, "10101", section.CRN)
	assert.Equal(t, []uint{section.ID}, api.enrollCalls())

	res, err := s.ScanSchedule(ctx, "schedule.png", []byte("png"))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Found)
}

func TestSession_EnrollScanned(t *testing.T) {
	ctx := context.Background()
	_, srv := newFakeAPI(t)
	s := newTestSession(t, srv.URL, nil, nil)
	require.NoError(t, s.Login(ctx, "ada@example.com", "pw1"))

	// 10101は登録済み
	pre, err := s.UpsertBatch(ctx, []enrollmentdto.BatchEntry{{CRN: "10101", CourseCode: "CS3500"}})
	require.NoError(t, err)
	require.NoError(t, s.Enroll(ctx, pre[0].ID))

	got, err := s.EnrollScanned(ctx, []enrollmentdto.BatchEntry{
		{Name: "OOD", CRN: "10101", CourseCode: "CS3500"},
		{Name: "Algo", CRN: "20202", ID: "CS3000"},
		{Name: "Calc", CRN: "30303", ID: "MATH1341"},
	})
	require.NoError(t, err)

	assert.Len(t, got.Sections, 3)
	assert.Equal(t, 1, got.AlreadyEnrolled)
	assert.Equal(t, 2, got.Enrolled)
	assert.Equal(t, 0, got.Failed)
}

func TestSession_EnrollScannedBestEffort(t *testing.T) {
	ctx := context.Background()
	api, srv := newFakeAPI(t)
	s := newTestSession(t, srv.URL, nil, nil)
	require.NoError(t, s.Login(ctx, "ada@example.com", "pw1"))

	api.failOn(1)

	got, err := s.EnrollScanned(ctx, []enrollmentdto.BatchEntry{
		{CRN: "10101", CourseCode: "CS3500"},
		{CRN: "20202", CourseCode: "CS3000"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, got.Failed)
	assert.Equal(t, 1, got.Enrolled)
	assert.Equal(t, []uint{1, 2}, api.enrollCalls())
	assert.True(t, api.isEnrolled(2))
}
