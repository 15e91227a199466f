package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/apiwiz/task-system/internal/core/domain"
	"github.com/apiwiz/task-system/internal/core/ports"
)

type stubAuthService struct {
	signupFn      func(ctx context.Context, in ports.SignupInput) (*ports.UserProfile, error)
	loginFn       func(ctx context.Context, email, password string) (*ports.LoginResult, error)
	assignAdminFn func(ctx context.Context, userID string) error
}

func (s *stubAuthService) Signup(ctx context.Context, in ports.SignupInput) (*ports.UserProfile, error) {
	return s.signupFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) AssignAdmin(ctx context.Context, userID string) error {
	return s.assignAdminFn(ctx, userID)
}

// newContext builds an echo context with the validator wired, the way the
// router does it.
func newContext(t *testing.T, method, target string, body any) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return env
}

func assertHTTPError(t *testing.T, err error, code int) {
	t.Helper()
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	if httpErr.Code != code {
		t.Fatalf("expected status %d, got %d", code, httpErr.Code)
	}
}

func TestSignupHandler_Created(t *testing.T) {
	svc := &stubAuthService{
		signupFn: func(_ context.Context, in ports.SignupInput) (*ports.UserProfile, error) {
			return &ports.UserProfile{
				ID:        "u1",
				FirstName: in.FirstName,
				LastName:  in.LastName,
				Email:     in.Email,
				Role:      domain.RoleUser,
			}, nil
		},
	}
	h := NewAuthHandler(svc)

	c, rec := newContext(t, http.MethodPost, "/api/auth/signup", map[string]string{
		"first_name": "Ada",
		"last_name":  "Lovelace",
		"email":      "ada@x.com",
		"password":   "correct-horse",
	})
	if err := h.Signup(c); err != nil {
		t.Fatalf("signup: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if !env.OK || env.Message != "Successfully created new account" {
		t.Fatalf("unexpected envelope: %+v", env)
	}
	data, _ := env.Data.(map[string]any)
	if data["role"] != "USER" || data["email"] != "ada@x.com" {
		t.Fatalf("unexpected data: %+v", env.Data)
	}
}

func TestSignupHandler_ValidationFailures(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{
		signupFn: func(context.Context, ports.SignupInput) (*ports.UserProfile, error) {
			t.Fatal("service must not be reached on invalid input")
			return nil, nil
		},
	})

	cases := []map[string]string{
		{"last_name": "L", "email": "a@x.com", "password": "longenough"},     // missing first name
		{"first_name": "A", "last_name": "L", "password": "longenough"},      // missing email
		{"first_name": "A", "last_name": "L", "email": "nope", "password": "longenough"}, // bad email
		{"first_name": "A", "last_name": "L", "email": "a@x.com", "password": "short"},   // short password
	}
	for _, body := range cases {
		c, _ := newContext(t, http.MethodPost, "/api/auth/signup", body)
		assertHTTPError(t, h.Signup(c), http.StatusBadRequest)
	}
}

func TestSignupHandler_ConflictPassesThrough(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{
		signupFn: func(context.Context, ports.SignupInput) (*ports.UserProfile, error) {
			return nil, domain.ErrUserExists
		},
	})

	c, _ := newContext(t, http.MethodPost, "/api/auth/signup", map[string]string{
		"first_name": "Ada",
		"last_name":  "Lovelace",
		"email":      "ada@x.com",
		"password":   "correct-horse",
	})

	// Domain errors flow to the central error handler untouched.
	if err := h.Signup(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestLoginHandler_Success(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{
		loginFn: func(_ context.Context, email, _ string) (*ports.LoginResult, error) {
			return &ports.LoginResult{
				Profile: ports.UserProfile{ID: "u1", Email: email, Role: domain.RoleUser},
				Token:   "signed-token",
			}, nil
		},
	})

	c, rec := newContext(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "ada@x.com",
		"password": "correct-horse",
	})
	if err := h.Login(c); err != nil {
		t.Fatalf("login: %v", err)
	}

	env := decodeEnvelope(t, rec)
	if env.Message != "Login Success" {
		t.Fatalf("unexpected envelope: %+v", env)
	}
	data, _ := env.Data.(map[string]any)
	if data["jwt"] != "signed-token" {
		t.Fatalf("expected token in response, got %+v", env.Data)
	}
}

func TestLoginHandler_InvalidCredentialsPassThrough(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{
		loginFn: func(context.Context, string, string) (*ports.LoginResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	})

	c, _ := newContext(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "ada@x.com",
		"password": "wrong-pass",
	})
	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAssignAdminHandler(t *testing.T) {
	var gotUserID string
	h := NewAuthHandler(&stubAuthService{
		assignAdminFn: func(_ context.Context, userID string) error {
			gotUserID = userID
			return nil
		},
	})

	c, rec := newContext(t, http.MethodPut, "/api/auth/assign-admin/u42", nil)
	c.SetParamNames("userId")
	c.SetParamValues("u42")

	if err := h.AssignAdmin(c); err != nil {
		t.Fatalf("assign admin: %v", err)
	}
	if gotUserID != "u42" {
		t.Fatalf("expected user id u42, got %q", gotUserID)
	}
	env := decodeEnvelope(t, rec)
	if !env.OK || env.Message != "Role changed to ADMIN" {
		t.Fatalf("unexpected envelope: %+v", env)
	}
}
