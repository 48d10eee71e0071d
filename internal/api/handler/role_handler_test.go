package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/board-system/board-api/internal/core/domain"
	"github.com/board-system/board-api/internal/core/ports"
)

func newRoleContext(e *echo.Echo, method, target, body, id string) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if id != "" {
		c.SetParamNames("id")
		c.SetParamValues(id)
	}
	return c, rec
}

func TestRoleHandler_CRUD(t *testing.T) {
	e := newTestEcho()
	svc := &stubRoleService{roles: map[int64]ports.RoleResponse{}}
	h := NewRoleHandler(svc)

	c, rec := newRoleContext(e, http.MethodPost, "/admin/roles", `{"name":"editor","permissions":["READ"]}`, "")
	if err := h.Create(c); err != nil {
		t.Fatalf("create: %v", err)
	}
	if rec.Code != http.StatusCreated || rec.Header().Get(echo.HeaderLocation) != "/admin/roles/1" {
		t.Fatalf("unexpected create response %d %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}

	c, rec = newRoleContext(e, http.MethodGet, "/admin/roles/1", "", "1")
	if err := h.Get(c); err != nil {
		t.Fatalf("get: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"name":"editor"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}

	c, rec = newRoleContext(e, http.MethodPut, "/admin/roles/1", `{"name":"writer"}`, "1")
	if err := h.Update(c); err != nil {
		t.Fatalf("update: %v", err)
	}
	if rec.Code != http.StatusNoContent || svc.roles[1].Name != "writer" {
		t.Fatalf("update not applied: %d %+v", rec.Code, svc.roles[1])
	}

	c, rec = newRoleContext(e, http.MethodGet, "/admin/roles", "", "")
	if err := h.List(c); err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(rec.Body.String(), "writer") {
		t.Fatalf("unexpected list body: %s", rec.Body.String())
	}

	c, rec = newRoleContext(e, http.MethodDelete, "/admin/roles/1", "", "1")
	if err := h.Delete(c); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if rec.Code != http.StatusNoContent || len(svc.roles) != 0 {
		t.Fatalf("delete not applied")
	}
}

func TestRoleHandler_NotFound(t *testing.T) {
	e := newTestEcho()
	h := NewRoleHandler(&stubRoleService{roles: map[int64]ports.RoleResponse{}})

	c, _ := newRoleContext(e, http.MethodGet, "/admin/roles/9", "", "9")
	if err := h.Get(c); !errors.Is(err, domain.ErrRoleNotFound) {
		t.Fatalf("get: expected ErrRoleNotFound, got %v", err)
	}
	c, _ = newRoleContext(e, http.MethodPut, "/admin/roles/9", `{"name":"x"}`, "9")
	if err := h.Update(c); !errors.Is(err, domain.ErrRoleNotFound) {
		t.Fatalf("update: expected ErrRoleNotFound, got %v", err)
	}
	c, _ = newRoleContext(e, http.MethodDelete, "/admin/roles/9", "", "9")
	if err := h.Delete(c); !errors.Is(err, domain.ErrRoleNotFound) {
		t.Fatalf("delete: expected ErrRoleNotFound, got %v", err)
	}
}

func TestRoleHandler_InvalidID(t *testing.T) {
	e := newTestEcho()
	h := NewRoleHandler(&stubRoleService{roles: map[int64]ports.RoleResponse{}})

	c, _ := newRoleContext(e, http.MethodGet, "/admin/roles/abc", "", "abc")
	var he *echo.HTTPError
	if err := h.Get(c); !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestRoleHandler_Create_RequiresName(t *testing.T) {
	e := newTestEcho()
	h := NewRoleHandler(&stubRoleService{roles: map[int64]ports.RoleResponse{}})

	c, _ := newRoleContext(e, http.MethodPost, "/admin/roles", `{"permissions":["READ"]}`, "")
	var he *echo.HTTPError
	if err := h.Create(c); !errors.As(err, &he) || he.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %v", err)
	}
}
