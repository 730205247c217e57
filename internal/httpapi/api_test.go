package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	authgate "github.com/testware-io/authgate"
	"github.com/testware-io/authgate/access"
	"github.com/testware-io/authgate/areaperm"
)

type fakeGrantSource struct {
	projects map[int64]access.Project
	grants   map[int64]access.GrantSet
}

func (s *fakeGrantSource) Project(ctx context.Context, projectID int64) (access.Project, bool, error) {
	project, ok := s.projects[projectID]
	return project, ok, nil
}

func (s *fakeGrantSource) ProjectGrants(ctx context.Context, userID, projectID int64) (access.GrantSet, error) {
	return s.grants[userID], nil
}

type fakePolicySource struct {
	perms map[areaperm.Area]areaperm.Permissions
}

func (s *fakePolicySource) Fetch(ctx context.Context, userID, projectID int64, area areaperm.Area) (map[areaperm.Area]areaperm.Permissions, error) {
	if s.perms != nil {
		return s.perms, nil
	}
	return areaperm.DenyAll(), nil
}

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := authgate.Config{}
	cfg.Token.Secret = []byte("test-secret-0123456789abcdef")

	engine, err := authgate.New().
		WithConfig(cfg).
		WithGrantSource(&fakeGrantSource{
			projects: map[int64]access.Project{
				9: {ID: 9, DefaultAccess: access.AccessGlobalRole},
			},
		}).
		WithPolicySource(&fakePolicySource{
			perms: map[areaperm.Area]areaperm.Permissions{
				areaperm.AreaIssues: {CanAddEdit: true},
			},
		}).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	return NewRouter(engine, nil)
}

func postJSON(t *testing.T, r *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(payload)
	req, _ := http.NewRequest("POST", path, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	r := setupTestRouter(t)

	req, _ := http.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
}

func TestResolvePermissionsSingleArea(t *testing.T) {
	r := setupTestRouter(t)

	w := postJSON(t, r, "/api/permissions", map[string]any{
		"userId": 1, "projectId": 9, "area": "issues",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var res struct {
		Permissions areaperm.Permissions `json:"permissions"`
	}
	json.Unmarshal(w.Body.Bytes(), &res)
	if !res.Permissions.CanAddEdit || res.Permissions.CanDelete {
		t.Errorf("Unexpected permissions: %+v", res.Permissions)
	}
}

func TestResolvePermissionsFullMap(t *testing.T) {
	r := setupTestRouter(t)

	w := postJSON(t, r, "/api/permissions", map[string]any{
		"userId": 1, "projectId": 9,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var res struct {
		Permissions map[string]areaperm.Permissions `json:"permissions"`
	}
	json.Unmarshal(w.Body.Bytes(), &res)
	if !res.Permissions["issues"].CanAddEdit {
		t.Errorf("Expected issues canAddEdit, got %v", res.Permissions)
	}
}

func TestResolvePermissionsUnknownArea(t *testing.T) {
	r := setupTestRouter(t)

	w := postJSON(t, r, "/api/permissions", map[string]any{
		"userId": 1, "projectId": 9, "area": "warpdrive",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestCheckAccess(t *testing.T) {
	r := setupTestRouter(t)

	w := postJSON(t, r, "/api/access", map[string]any{
		"userId": 1, "role": "USER", "projectId": 9,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var res struct {
		Allowed bool `json:"allowed"`
		Admin   bool `json:"admin"`
		Paths   []struct {
			Path    string `json:"path"`
			Granted bool   `json:"granted"`
		} `json:"paths"`
	}
	json.Unmarshal(w.Body.Bytes(), &res)
	if !res.Allowed || res.Admin {
		t.Errorf("Expected allowed non-admin, got %+v", res)
	}
	if len(res.Paths) != 3 {
		t.Errorf("Expected 3 evaluated paths for USER, got %d", len(res.Paths))
	}
}

func TestCheckAccessMissingProject(t *testing.T) {
	r := setupTestRouter(t)

	w := postJSON(t, r, "/api/access", map[string]any{
		"userId": 1, "role": "USER", "projectId": 404,
	})
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestVerifyShareWrongThenRateLimited(t *testing.T) {
	r := setupTestRouter(t)

	payload := map[string]any{
		"shareKey": "shr_1",
		"password": "wrong",
		"digest":   "0000000000000000000000000000000000000000000000000000000000000000",
	}
	for i := 0; i < 5; i++ {
		w := postJSON(t, r, "/api/share/verify", payload)
		if w.Code != http.StatusOK {
			t.Fatalf("attempt %d: expected status 200, got %d", i, w.Code)
		}
		var res struct {
			Verified bool `json:"verified"`
		}
		json.Unmarshal(w.Body.Bytes(), &res)
		if res.Verified {
			t.Fatal("wrong password must not verify")
		}
	}

	w := postJSON(t, r, "/api/share/verify", payload)
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("Expected status 429, got %d", w.Code)
	}
	var res struct {
		ResetAt string `json:"resetAt"`
	}
	json.Unmarshal(w.Body.Bytes(), &res)
	if res.ResetAt == "" {
		t.Error("429 response must carry resetAt")
	}
}

func TestVerifyShareMissingFields(t *testing.T) {
	r := setupTestRouter(t)

	w := postJSON(t, r, "/api/share/verify", map[string]any{"shareKey": "shr_1"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}
