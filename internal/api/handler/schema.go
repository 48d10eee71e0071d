package handler

import (
	"strconv"
	"strings"

	"github.com/board-system/board-api/internal/core/ports"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type signInRequest struct {
	Email      string   `json:"email"             form:"email"             validate:"required"`
	Password   string   `json:"password"          form:"password"          validate:"required"`
	RememberMe checkbox `json:"checkedRememberMe" form:"checkedRememberMe"`
}

type signInResponse struct {
	Token string             `json:"token"`
	User  ports.UserResponse `json:"user"`
}

type signUpRequest struct {
	Email    string `json:"email"    form:"email"    validate:"required,email"`
	Nickname string `json:"nickname" form:"nickname"`
	Password string `json:"password" form:"password" validate:"required,min=4"`
}

type adminUserRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Nickname string `json:"nickname"`
	Password string `json:"password" validate:"required,min=4"`
	Role     string `json:"role"     validate:"omitempty,oneof=ADMIN MEMBER GUEST admin member guest"`
}

type profileRequest struct {
	Nickname string `json:"nickname"`
	Password string `json:"password" validate:"omitempty,min=4"`
}

type roleRequest struct {
	Name        string   `json:"name"        validate:"required"`
	Permissions []string `json:"permissions"`
}

type loginForm struct {
	Action string   `json:"action"`
	Method string   `json:"method"`
	Fields []string `json:"fields"`
}

type messageResponse struct {
	Message string `json:"message"`
	User    string `json:"user,omitempty"`
}

// checkbox accepts both a JSON boolean and the string values an HTML
// checkbox or query parameter may carry ("on", "true", "1", "yes").
type checkbox bool

func (b *checkbox) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	return b.UnmarshalParam(s)
}

// UnmarshalParam satisfies echo.BindUnmarshaler for form and query binding.
func (b *checkbox) UnmarshalParam(s string) error {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "yes":
		*b = true
		return nil
	case "", "off", "no", "null":
		*b = false
		return nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*b = checkbox(v)
	return nil
}
