package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	authgate "github.com/testware-io/authgate"
	"github.com/testware-io/authgate/access"
	"github.com/testware-io/authgate/areaperm"
	"github.com/testware-io/authgate/auditlog"
)

type stubGrantSource struct {
	projects map[int64]access.Project
	grants   map[int64]access.GrantSet
}

func (s *stubGrantSource) Project(ctx context.Context, projectID int64) (access.Project, bool, error) {
	project, ok := s.projects[projectID]
	return project, ok, nil
}

func (s *stubGrantSource) ProjectGrants(ctx context.Context, userID, projectID int64) (access.GrantSet, error) {
	return s.grants[userID], nil
}

type stubPolicySource struct{}

func (stubPolicySource) Fetch(ctx context.Context, userID, projectID int64, area areaperm.Area) (map[areaperm.Area]areaperm.Permissions, error) {
	return areaperm.DenyAll(), nil
}

func newTestEngine(t *testing.T, sink authgate.AuditSink) *authgate.Engine {
	t.Helper()

	cfg := authgate.Config{}
	cfg.Token.Secret = []byte("test-secret-0123456789abcdef")
	cfg.Audit.Enabled = true
	cfg.Audit.BufferSize = 16

	engine, err := authgate.New().
		WithConfig(cfg).
		WithGrantSource(&stubGrantSource{
			projects: map[int64]access.Project{
				9: {ID: 9, DefaultAccess: access.AccessNone},
			},
			grants: map[int64]access.GrantSet{
				1: {Direct: &access.DirectGrant{UserID: 1, ProjectID: 9, Access: access.AccessSpecificRole}},
			},
		}).
		WithPolicySource(stubPolicySource{}).
		WithAuditSink(sink).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine
}

func TestAuditMiddlewareObservesWithoutMutatingResponse(t *testing.T) {
	sink := authgate.NewChannelSink(8)
	engine := newTestEngine(t, sink)

	const responseBody = `{"data":{"id":123,"name":"X","projectId":1}}`
	gateway := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(responseBody))
	})

	handler := Audit(engine, "/api/gateway")(gateway)

	req := httptest.NewRequest("POST", "/api/gateway/repositoryCases/create", nil)
	req = req.WithContext(authgate.WithActor(req.Context(), auditlog.Actor{ID: 7}))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if w.Body.String() != responseBody {
		t.Fatalf("response body changed: %q", w.Body.String())
	}

	select {
	case event := <-sink.Events():
		if event.Action != auditlog.ActionCreate || event.EntityID != "123" {
			t.Fatalf("unexpected event: %+v", event)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for audit event")
	}
}

func TestAuditMiddlewareIgnoresReads(t *testing.T) {
	sink := authgate.NewChannelSink(8)
	engine := newTestEngine(t, sink)

	gateway := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"id":1}]}`))
	})
	handler := Audit(engine, "/api/gateway")(gateway)

	req := httptest.NewRequest("GET", "/api/gateway/repositoryCases/findMany", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	select {
	case event := <-sink.Events():
		t.Fatalf("unexpected event: %+v", event)
	case <-time.After(50 * time.Millisecond):
	}
}

func protectedHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
}

func TestProjectGuardOutcomes(t *testing.T) {
	engine := newTestEngine(t, authgate.NoOpSink{})
	guard := ProjectGuard(engine, func(r *http.Request) string {
		return r.URL.Query().Get("projectId")
	})(protectedHandler())

	granted := access.Subject{ID: 1, Role: access.RoleUser}
	stranger := access.Subject{ID: 2, Role: access.RoleUser}

	cases := []struct {
		name    string
		subject *access.Subject
		query   string
		want    int
	}{
		{"granted", &granted, "projectId=9", http.StatusOK},
		{"denied_reads_as_not_found", &stranger, "projectId=9", http.StatusNotFound},
		{"missing_project", &granted, "projectId=404", http.StatusNotFound},
		{"malformed_id", &granted, "projectId=abc", http.StatusBadRequest},
		{"no_subject", nil, "projectId=9", http.StatusUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/projects/view?"+tc.query, nil)
			if tc.subject != nil {
				req = req.WithContext(authgate.WithSubject(req.Context(), *tc.subject))
			}
			w := httptest.NewRecorder()
			guard.ServeHTTP(w, req)

			if w.Code != tc.want {
				t.Fatalf("status = %d, want %d", w.Code, tc.want)
			}
		})
	}
}
