package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/board-system/board-api/internal/api/metrics"
	"github.com/board-system/board-api/internal/api/middleware"
	"github.com/board-system/board-api/internal/core/domain"
	"github.com/board-system/board-api/internal/core/ports"
)

const (
	// LoginPath is where logout redirects and where the login form is described.
	LoginPath  = "/login"
	SignInPath = "/sign-in"
	LogoutPath = "/logout"
)

// AuthHandler serves sign-in, sign-up and logout.
type AuthHandler struct {
	authService  ports.AuthService
	userService  ports.UserService
	secureCookie bool
	log          zerolog.Logger
}

func NewAuthHandler(authService ports.AuthService, userService ports.UserService, secureCookie bool, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		userService:  userService,
		secureCookie: secureCookie,
		log:          log,
	}
}

// LoginForm describes the sign-in form.
//
// @Summary      Describe the login form
// @Tags         auth
// @Produce      json
// @Success      200  {object}  loginForm
// @Router       /login [get]
func (h *AuthHandler) LoginForm(c echo.Context) error {
	return c.JSON(http.StatusOK, loginForm{
		Action: SignInPath,
		Method: http.MethodPost,
		Fields: []string{"email", "password", "checkedRememberMe"},
	})
}

// SignIn authenticates a user and returns an access token. When
// checkedRememberMe is set a remember-me cookie valid for 30 days is added.
//
// @Summary      Sign in
// @Tags         auth
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body      signInRequest  true  "Credentials"
// @Success      200   {object}  signInResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /sign-in [post]
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req signInRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	res, err := h.authService.SignIn(c.Request().Context(), domain.NormalizeEmail(req.Email), req.Password, bool(req.RememberMe))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		} else {
			metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		}
		return err
	}
	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()

	if res.RememberMeToken != "" {
		c.SetCookie(&http.Cookie{
			Name:     middleware.RememberMeCookie,
			Value:    res.RememberMeToken,
			Path:     "/",
			MaxAge:   int(res.RememberMeTTL / time.Second),
			HttpOnly: true,
			Secure:   h.secureCookie,
			SameSite: http.SameSiteLaxMode,
		})
	}

	return c.JSON(http.StatusOK, signInResponse{Token: res.AccessToken, User: res.User})
}

// Logout revokes the caller's tokens, clears the remember-me cookie and
// redirects to the login page.
//
// @Summary      Log out
// @Tags         auth
// @Security     BearerAuth
// @Success      302
// @Router       /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	access, _ := middleware.BearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
	var remember string
	if cookie, err := c.Cookie(middleware.RememberMeCookie); err == nil {
		remember = cookie.Value
	}

	if err := h.authService.Logout(c.Request().Context(), access, remember); err != nil {
		h.log.Error().Err(err).Msg("logout: token revocation failed")
	}

	c.SetCookie(middleware.ExpiredRememberMeCookie())
	return c.Redirect(http.StatusFound, LoginPath)
}

// SignUp registers a MEMBER account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body      signUpRequest  true  "User registration details"
// @Success      201   {object}  ports.UserResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /sign-up [post]
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req signUpRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	user, err := h.userService.CreateUser(c.Request().Context(), ports.UserRequest{
		Email:    req.Email,
		Nickname: req.Nickname,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	metrics.UsersCreatedTotal.WithLabelValues(user.Role).Inc()
	return c.JSON(http.StatusCreated, user)
}

// AdminSignUp registers an ADMIN account.
//
// @Summary      Register an administrator
// @Tags         auth
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body      signUpRequest  true  "Administrator details"
// @Success      201   {object}  ports.UserResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /admin/sign-up [post]
func (h *AuthHandler) AdminSignUp(c echo.Context) error {
	var req signUpRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	user, err := h.userService.CreateAdmin(c.Request().Context(), ports.UserForAdminRequest{
		Email:    req.Email,
		Nickname: req.Nickname,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	metrics.UsersCreatedTotal.WithLabelValues(user.Role).Inc()
	return c.JSON(http.StatusCreated, user)
}
