package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func protectedHandler(t *testing.T, wantUser string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pr, ok := FromContext(r.Context())
		if !ok {
			t.Error("Expected principal in context")
		} else if pr.UserID != wantUser {
			t.Errorf("Expected user %q, got %q", wantUser, pr.UserID)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestMiddleware_ValidToken(t *testing.T) {
	verifier := NewVerifier(testCfg)
	tok, err := TestToken(testCfg, "user-1", []string{"ADMIN"})
	if err != nil {
		t.Fatalf("Failed to mint token: %v", err)
	}

	handler := Middleware(verifier)(protectedHandler(t, "user-1"))
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}
}

func TestMiddleware_MissingHeader(t *testing.T) {
	verifier := NewVerifier(testCfg)
	handler := Middleware(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Handler should not run without a token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}

func TestMiddleware_MalformedHeader(t *testing.T) {
	verifier := NewVerifier(testCfg)
	handler := Middleware(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Handler should not run with a malformed header")
	}))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}

func TestMiddleware_InvalidToken(t *testing.T) {
	verifier := NewVerifier(testCfg)
	handler := Middleware(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Handler should not run with an invalid token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}

func TestRequirePermission_Allowed(t *testing.T) {
	perms := Permissions{"ADMIN": {"patient:create"}}
	handler := RequirePermission("patient:create", perms)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	)

	req := httptest.NewRequest(http.MethodPost, "/patients", nil)
	pr := &Principal{UserID: "user-1", Roles: []string{"ADMIN"}}
	req = req.WithContext(ContextWithPrincipal(req.Context(), pr))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}
}

func TestRequirePermission_Forbidden(t *testing.T) {
	perms := Permissions{"ADMIN": {"patient:create"}}
	handler := RequirePermission("patient:create", perms)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("Handler should not run without the permission")
		}),
	)

	req := httptest.NewRequest(http.MethodPost, "/patients", nil)
	pr := &Principal{UserID: "user-1", Roles: []string{"NURSE"}}
	req = req.WithContext(ContextWithPrincipal(req.Context(), pr))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", rec.Code)
	}
}

func TestRequirePermission_Unauthenticated(t *testing.T) {
	perms := Permissions{"ADMIN": {"patient:create"}}
	handler := RequirePermission("patient:create", perms)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("Handler should not run without a principal")
		}),
	)

	req := httptest.NewRequest(http.MethodPost, "/patients", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}
