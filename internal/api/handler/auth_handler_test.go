package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/board-system/board-api/internal/api/middleware"
	"github.com/board-system/board-api/internal/core/domain"
	"github.com/board-system/board-api/internal/core/ports"
)

func okSignIn(t *testing.T, wantRemember bool) *stubAuthService {
	return &stubAuthService{
		signInFn: func(_ context.Context, email, password string, rememberMe bool) (*ports.SignInResult, error) {
			if email != "a@x.com" {
				t.Fatalf("expected normalized email, got %q", email)
			}
			if rememberMe != wantRemember {
				t.Fatalf("expected rememberMe=%v", wantRemember)
			}
			if password != "pass-a" {
				return nil, domain.ErrInvalidCredentials
			}
			res := &ports.SignInResult{
				AccessToken: "access-token",
				User:        ports.UserResponse{Email: email, Role: "MEMBER"},
			}
			if rememberMe {
				res.RememberMeToken = "remember-token"
				res.RememberMeTTL = 30 * 24 * time.Hour
			}
			return res, nil
		},
	}
}

func TestAuthHandler_SignIn_JSON(t *testing.T) {
	e := newTestEcho()
	h := NewAuthHandler(okSignIn(t, false), &stubUserService{}, false, zerolog.Nop())

	body := strings.NewReader(`{"email":" A@x.com ","password":"pass-a"}`)
	req := httptest.NewRequest(http.MethodPost, "/sign-in", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.SignIn(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp signInResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Token != "access-token" || resp.User.Email != "a@x.com" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("no cookie expected without remember-me")
	}
}

func TestAuthHandler_SignIn_FormWithRememberMe(t *testing.T) {
	e := newTestEcho()
	h := NewAuthHandler(okSignIn(t, true), &stubUserService{}, true, zerolog.Nop())

	form := url.Values{"email": {"a@x.com"}, "password": {"pass-a"}, "checkedRememberMe": {"on"}}
	req := httptest.NewRequest(http.MethodPost, "/sign-in", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.SignIn(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	ck := cookies[0]
	if ck.Name != middleware.RememberMeCookie || ck.Value != "remember-token" {
		t.Fatalf("unexpected cookie: %+v", ck)
	}
	if ck.MaxAge != 30*24*60*60 || !ck.HttpOnly || !ck.Secure {
		t.Fatalf("cookie must be HttpOnly, Secure and valid for 30 days: %+v", ck)
	}
}

func TestAuthHandler_SignIn_JSONBooleanRememberMe(t *testing.T) {
	e := newTestEcho()
	h := NewAuthHandler(okSignIn(t, true), &stubUserService{}, false, zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/sign-in",
		strings.NewReader(`{"email":"a@x.com","password":"pass-a","checkedRememberMe":true}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := h.SignIn(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if len(rec.Result().Cookies()) != 1 {
		t.Fatalf("expected remember-me cookie")
	}
}

func TestAuthHandler_SignIn_WrongPassword(t *testing.T) {
	e := newTestEcho()
	h := NewAuthHandler(okSignIn(t, false), &stubUserService{}, false, zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/sign-in", strings.NewReader(`{"email":"a@x.com","password":"nope"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())

	if err := h.SignIn(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_SignIn_MissingFields(t *testing.T) {
	e := newTestEcho()
	h := NewAuthHandler(&stubAuthService{}, &stubUserService{}, false, zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/sign-in", strings.NewReader(`{"email":"a@x.com"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())

	var he *echo.HTTPError
	if err := h.SignIn(c); !errors.As(err, &he) || he.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %v", err)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	e := newTestEcho()
	var gotAccess, gotRemember string
	stub := &stubAuthService{
		logoutFn: func(_ context.Context, access, remember string) error {
			gotAccess, gotRemember = access, remember
			return nil
		},
	}
	h := NewAuthHandler(stub, &stubUserService{}, false, zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer access-token")
	req.AddCookie(&http.Cookie{Name: middleware.RememberMeCookie, Value: "remember-token"})
	rec := httptest.NewRecorder()

	if err := h.Logout(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusFound || rec.Header().Get(echo.HeaderLocation) != LoginPath {
		t.Fatalf("expected redirect to %s, got %d %q", LoginPath, rec.Code, rec.Header().Get(echo.HeaderLocation))
	}
	if gotAccess != "access-token" || gotRemember != "remember-token" {
		t.Fatalf("tokens not forwarded: %q %q", gotAccess, gotRemember)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Fatalf("expected cleared remember-me cookie, got %+v", cookies)
	}
}

func TestAuthHandler_Logout_RevocationFailureStillRedirects(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{logoutFn: func(context.Context, string, string) error { return errors.New("redis down") }}
	h := NewAuthHandler(stub, &stubUserService{}, false, zerolog.Nop())

	rec := httptest.NewRecorder()
	if err := h.Logout(e.NewContext(httptest.NewRequest(http.MethodGet, "/logout", nil), rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
}

func TestAuthHandler_SignUp(t *testing.T) {
	e := newTestEcho()
	users := &stubUserService{
		createUserFn: func(_ context.Context, req ports.UserRequest) (*ports.UserResponse, error) {
			if req.Email == "taken@x.com" {
				return nil, domain.ErrUserExists
			}
			return &ports.UserResponse{ID: "u-1", Email: req.Email, Nickname: req.Nickname, Role: "MEMBER"}, nil
		},
	}
	h := NewAuthHandler(&stubAuthService{}, users, false, zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/sign-up", strings.NewReader(`{"email":"a@x.com","nickname":"A","password":"pass-a"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := h.SignUp(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/sign-up", strings.NewReader(`{"email":"taken@x.com","password":"pass-b"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if err := h.SignUp(e.NewContext(req, httptest.NewRecorder())); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthHandler_SignUp_InvalidEmail(t *testing.T) {
	e := newTestEcho()
	h := NewAuthHandler(&stubAuthService{}, &stubUserService{}, false, zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/sign-up", strings.NewReader(`{"email":"not-an-email","password":"pass-a"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	var he *echo.HTTPError
	err := h.SignUp(e.NewContext(req, httptest.NewRecorder()))
	if !errors.As(err, &he) || he.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %v", err)
	}
	if msg, _ := he.Message.(string); !strings.Contains(msg, "email must be a valid email") {
		t.Fatalf("unexpected message: %v", he.Message)
	}
}

func TestAuthHandler_AdminSignUp(t *testing.T) {
	e := newTestEcho()
	users := &stubUserService{
		createAdminFn: func(_ context.Context, req ports.UserForAdminRequest) (*ports.UserResponse, error) {
			return &ports.UserResponse{Email: req.Email, Role: "ADMIN", State: "REGISTERED"}, nil
		},
	}
	h := NewAuthHandler(&stubAuthService{}, users, false, zerolog.Nop())

	form := url.Values{"email": {"root@x.com"}, "password": {"secret"}}
	req := httptest.NewRequest(http.MethodPost, "/admin/sign-up", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()

	if err := h.AdminSignUp(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp ports.UserResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if rec.Code != http.StatusCreated || resp.Role != "ADMIN" {
		t.Fatalf("unexpected response %d %+v", rec.Code, resp)
	}
}

func TestAuthHandler_LoginForm(t *testing.T) {
	e := newTestEcho()
	h := NewAuthHandler(&stubAuthService{}, &stubUserService{}, false, zerolog.Nop())
	rec := httptest.NewRecorder()

	if err := h.LoginForm(e.NewContext(httptest.NewRequest(http.MethodGet, "/login", nil), rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var form loginForm
	if err := json.Unmarshal(rec.Body.Bytes(), &form); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if form.Action != "/sign-in" || len(form.Fields) != 3 || form.Fields[2] != "checkedRememberMe" {
		t.Fatalf("unexpected form: %+v", form)
	}
}
