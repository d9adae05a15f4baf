package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// probeHandler records whether it ran and what identity it saw.
type probeHandler struct {
	called bool
	userID string
	ok     bool
}

func (p *probeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.called = true
	p.userID, p.ok = UserIDFromContext(r.Context())
	w.WriteHeader(http.StatusOK)
}

func TestRequireAuth_NoCookie(t *testing.T) {
	ts := newTestTokenService(t)
	probe := &probeHandler{}
	h := RequireAuth(ts)(probe)

	req := httptest.NewRequest(http.MethodPost, "/projects", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rr.Code)
	}
	// The wrapped handler must never run on a rejected request.
	if probe.called {
		t.Error("handler ran despite missing session")
	}

	// The 401 body is a regular fail envelope.
	var body struct {
		Status string `json:"status"`
		Data   struct {
			Title string `json:"title"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("401 body is not valid JSON: %v", err)
	}
	if body.Status != "fail" || body.Data.Title != "User not logged in" {
		t.Errorf("401 body = %+v, want fail envelope with %q", body, "User not logged in")
	}
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	ts := newTestTokenService(t)
	probe := &probeHandler{}
	h := RequireAuth(ts)(probe)

	req := httptest.NewRequest(http.MethodPost, "/projects", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "garbage"})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rr.Code)
	}
	if probe.called {
		t.Error("handler ran despite invalid session")
	}
}

func TestRequireAuth_ValidToken(t *testing.T) {
	ts := newTestTokenService(t)
	probe := &probeHandler{}
	h := RequireAuth(ts)(probe)

	token, err := ts.Generate("user-123")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/projects", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
	if !probe.called {
		t.Fatal("handler did not run for a valid session")
	}
	if probe.userID != "user-123" || !probe.ok {
		t.Errorf("context userID = (%q, %v), want (user-123, true)", probe.userID, probe.ok)
	}
}

func TestOptionalAuth_AnonymousPassesThrough(t *testing.T) {
	ts := newTestTokenService(t)
	probe := &probeHandler{}
	h := OptionalAuth(ts)(probe)

	req := httptest.NewRequest(http.MethodGet, "/projects", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
	if !probe.called {
		t.Fatal("handler did not run for an anonymous request")
	}
	if probe.ok {
		t.Error("anonymous request should carry no identity")
	}
}

func TestUserIDFromContext_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if id, ok := UserIDFromContext(req.Context()); ok || id != "" {
		t.Errorf("UserIDFromContext on bare context = (%q, %v), want (\"\", false)", id, ok)
	}
}
