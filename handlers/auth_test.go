// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/livepoll/auth"
	"github.com/danielhkuo/livepoll/models"
	"github.com/danielhkuo/livepoll/store"
	"github.com/danielhkuo/livepoll/testutil"
)

func TestRegister(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewAuthHandler(store.New(conn), cfg)

	tests := []struct {
		name           string
		body           interface{}
		expectedStatus int
	}{
		{
			name:           "valid registration",
			body:           models.RegisterRequest{Username: "alice", Password: "hunter2", Role: models.RoleUser},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "role defaults to user",
			body:           models.RegisterRequest{Username: "bob", Password: "hunter2"},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "duplicate username",
			body:           models.RegisterRequest{Username: "alice", Password: "other", Role: models.RoleUser},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing username",
			body:           models.RegisterRequest{Password: "hunter2"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing password",
			body:           models.RegisterRequest{Username: "carol"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown role",
			body:           map[string]string{"username": "dave", "password": "x", "role": "superuser"},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/auth/register", tt.body, nil)
			w := httptest.NewRecorder()

			handler.Register(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}

	// Stored password is hashed, never plain text
	var hash string
	if err := conn.QueryRow("SELECT password_hash FROM users WHERE username = $1", "alice").Scan(&hash); err != nil {
		t.Fatalf("failed to query stored hash: %v", err)
	}
	if hash == "hunter2" {
		t.Error("password stored in plain text")
	}

	// Defaulted role persisted as user
	var role models.Role
	if err := conn.QueryRow("SELECT role FROM users WHERE username = $1", "bob").Scan(&role); err != nil {
		t.Fatalf("failed to query role: %v", err)
	}
	if role != models.RoleUser {
		t.Errorf("expected default role user, got %q", role)
	}
}

func TestLogin(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewAuthHandler(store.New(conn), cfg)

	admin := testutil.CreateTestUser(t, conn, "admin", "letmein", models.RoleAdmin)

	t.Run("valid credentials", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/auth/login", models.LoginRequest{
			Username: "admin",
			Password: "letmein",
		}, nil)
		w := httptest.NewRecorder()

		handler.Login(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)

		var resp models.LoginResponse
		testutil.AssertJSON(t, w, &resp)

		if resp.Role != models.RoleAdmin {
			t.Errorf("expected role admin, got %q", resp.Role)
		}

		claims, err := auth.ParseToken(resp.Token, cfg.JWTSecret)
		if err != nil {
			t.Fatalf("issued token does not parse: %v", err)
		}
		if claims.UserID != admin.ID {
			t.Errorf("token subject %q, want %q", claims.UserID, admin.ID)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/auth/login", models.LoginRequest{
			Username: "admin",
			Password: "wrong",
		}, nil)
		w := httptest.NewRecorder()

		handler.Login(w, req)

		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})

	t.Run("unknown user matches wrong-password response", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/auth/login", models.LoginRequest{
			Username: "ghost",
			Password: "wrong",
		}, nil)
		w := httptest.NewRecorder()

		handler.Login(w, req)

		testutil.AssertStatus(t, w, http.StatusBadRequest)

		var resp models.ErrorResponse
		testutil.AssertJSON(t, w, &resp)
		if resp.Message != "Invalid credentials" {
			t.Errorf("unknown-user message %q leaks account existence", resp.Message)
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/auth/login", models.LoginRequest{Username: "admin"}, nil)
		w := httptest.NewRecorder()

		handler.Login(w, req)

		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})
}
