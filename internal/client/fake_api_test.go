package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	enrollmentdto "classmate_backend/internal/feature/enrollment/transport/http/dto"
	shareddto "classmate_backend/internal/shared/dto"
)

// fakeAPI はテスト用の最小限のAPIサーバーです。トークン "tok-1" のユーザー1だけを認証します。
type fakeAPI struct {
	mu         sync.Mutex
	enrolled   map[uint]bool
	failEnroll map[uint]bool
	enrollLog  []uint
	loggedOut  bool
	sections   []shareddto.SectionResponse
}

func newFakeAPI(t *testing.T) (*fakeAPI, *httptest.Server) {
	t.Helper()
	f := &fakeAPI{enrolled: map[uint]bool{}, failEnroll: map[uint]bool{}}
	srv := httptest.NewServer(f.routes())
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeAPI) failOn(id uint) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failEnroll[id] = true
}

func (f *fakeAPI) enrollCalls() []uint {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]uint(nil), f.enrollLog...)
}

func (f *fakeAPI) isEnrolled(id uint) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.enrolled[id]
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (f *fakeAPI) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		revoked := f.loggedOut
		f.mu.Unlock()
		if r.Header.Get("Authorization") != "Bearer tok-1" || revoked {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
			return
		}
		next(w, r)
	}
}

func (f *fakeAPI) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/register", func(w http.ResponseWriter, r *http.Request) {
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in["email"] == "taken@example.com" {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "email already exists"})
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"message": "User registered successfully", "userId": 1})
	})
	mux.HandleFunc("POST /api/login", func(w http.ResponseWriter, r *http.Request) {
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in["password"] != "pw1" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid email or password"})
			return
		}
		f.mu.Lock()
		f.loggedOut = false
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]string{"token": "tok-1"})
	})
	mux.HandleFunc("POST /api/logout", f.authed(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.loggedOut = true
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
	}))
	mux.HandleFunc("GET /api/profile", f.authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, shareddto.UserResponse{ID: 1, Name: "Ada", Email: "ada@example.com"})
	}))
	mux.HandleFunc("PUT /api/profile", f.authed(func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Bio *string `json:"bio"`
		}
		_ = json.NewDecoder(r.Body).Decode(&in)
		u := shareddto.UserResponse{ID: 1, Name: "Ada", Email: "ada@example.com"}
		if in.Bio != nil {
			u.Bio = *in.Bio
		}
		writeJSON(w, http.StatusOK, u)
	}))
	mux.HandleFunc("GET /api/profile/sections", f.authed(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		out := []shareddto.SectionResponse{}
		for _, s := range f.sections {
			if f.enrolled[s.ID] {
				out = append(out, s)
			}
		}
		writeJSON(w, http.StatusOK, out)
	}))
	mux.HandleFunc("POST /api/sections", f.authed(func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			CRN      string `json:"crn"`
			CourseID uint   `json:"courseId"`
		}
		_ = json.NewDecoder(r.Body).Decode(&in)
		f.mu.Lock()
		s := shareddto.SectionResponse{ID: uint(len(f.sections) + 1), CRN: in.CRN, CourseID: in.CourseID}
		f.sections = append(f.sections, s)
		f.mu.Unlock()
		writeJSON(w, http.StatusCreated, s)
	}))
	mux.HandleFunc("POST /api/sections/{id}/enroll", f.authed(func(w http.ResponseWriter, r *http.Request) {
		id64, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id parameter"})
			return
		}
		id := uint(id64)
		f.mu.Lock()
		defer f.mu.Unlock()
		f.enrollLog = append(f.enrollLog, id)
		if f.failEnroll[id] {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			return
		}
		f.enrolled[id] = true
		writeJSON(w, http.StatusOK, map[string]string{"message": "enrolled"})
	}))
	mux.HandleFunc("POST /api/sections/{id}/unenroll", f.authed(func(w http.ResponseWriter, r *http.Request) {
		id64, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id parameter"})
			return
		}
		f.mu.Lock()
		delete(f.enrolled, uint(id64))
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]string{"message": "unenrolled"})
	}))
	mux.HandleFunc("POST /api/courses/upsert-batch", f.authed(func(w http.ResponseWriter, r *http.Request) {
		var in []enrollmentdto.BatchEntry
		_ = json.NewDecoder(r.Body).Decode(&in)
		f.mu.Lock()
		defer f.mu.Unlock()
		out := []shareddto.SectionResponse{}
		for _, e := range in {
			var found *shareddto.SectionResponse
			for i := range f.sections {
				if f.sections[i].CRN == e.CRN {
					found = &f.sections[i]
				}
			}
			if found == nil {
				f.sections = append(f.sections, shareddto.SectionResponse{ID: uint(len(f.sections) + 1), CRN: e.CRN, CourseID: 1})
				found = &f.sections[len(f.sections)-1]
			}
			out = append(out, *found)
		}
		writeJSON(w, http.StatusOK, out)
	}))
	mux.HandleFunc("POST /api/schedule/scan", f.authed(func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("image")
		if err != nil || !strings.HasSuffix(header.Filename, ".png") {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "image file is required"})
			return
		}
		_ = file.Close()
		writeJSON(w, http.StatusOK, map[string]any{"found": 1, "sections": []any{}, "enrolled": 1, "alreadyEnrolled": 0, "failed": 0})
	}))
	return mux
}
