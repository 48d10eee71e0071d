package api

import (
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	// registers the generated OpenAPI document with swag
	_ "github.com/board-system/board-api/docs"

	"github.com/board-system/board-api/internal/api/handler"
	"github.com/board-system/board-api/internal/api/middleware"
	"github.com/board-system/board-api/internal/core/ports"
	infrahttp "github.com/board-system/board-api/internal/infrastructure/http"
	"github.com/board-system/board-api/internal/infrastructure/http/handlers"
)

// Dependencies are the services and settings the router wires into handlers.
type Dependencies struct {
	Logger        zerolog.Logger
	Auth          ports.AuthService
	Users         ports.UserService
	Roles         ports.RoleService
	Readiness     map[string]handlers.Pinger
	SecureCookies bool
	Metrics       bool
	Swagger       bool
	// Rules overrides the default access table when non-nil.
	Rules []middleware.Rule
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := infrahttp.NewServer(infrahttp.ServerConfig{
		Logger:       deps.Logger,
		Dependencies: deps.Readiness,
		Metrics:      deps.Metrics,
	})
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)
	e.Validator = handler.NewValidator()

	if deps.Swagger {
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	rules := deps.Rules
	if rules == nil {
		rules = middleware.DefaultRules()
	}

	// --- Security filter chain ---
	app := e.Group("",
		middleware.Authorization(deps.Auth, handler.SignInPath, handler.LogoutPath),
		middleware.AccessControl(rules),
	)

	authHandler := handler.NewAuthHandler(deps.Auth, deps.Users, deps.SecureCookies, deps.Logger)
	userHandler := handler.NewUserHandler(deps.Users)
	roleHandler := handler.NewRoleHandler(deps.Roles)
	publicHandler := handler.NewPublicHandler()

	// --- Auth routes ---
	app.GET(handler.LoginPath, authHandler.LoginForm)
	app.POST(handler.SignInPath, authHandler.SignIn)
	app.POST(handler.LogoutPath, authHandler.Logout)
	app.GET(handler.LogoutPath, authHandler.Logout)
	app.POST("/sign-up", authHandler.SignUp)

	// --- Admin routes ---
	app.POST("/admin/sign-up", authHandler.AdminSignUp)
	app.POST("/admin/users", userHandler.CreateForAdmin)
	app.GET("/admin/roles", roleHandler.List)
	app.POST("/admin/roles", roleHandler.Create)
	app.GET("/admin/roles/:id", roleHandler.Get)
	app.PUT("/admin/roles/:id", roleHandler.Update)
	app.DELETE("/admin/roles/:id", roleHandler.Delete)

	// --- Member routes ---
	app.GET("/profile", userHandler.Profile)
	app.PUT("/profile", userHandler.UpdateProfile)
	app.GET("/manager/index", publicHandler.ManagerIndex)
	app.GET("/api/public/test1", publicHandler.Test1)
	app.GET("/api/public/test2", publicHandler.Test2)
	app.GET("/api/public/users", userHandler.List)
	app.GET("/index.html", publicHandler.Index)

	return e
}
