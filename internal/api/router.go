package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/taskhive/todo-system/internal/api/handler"
	"github.com/taskhive/todo-system/internal/api/middleware"
	"github.com/taskhive/todo-system/internal/core/service"
	mongodb "github.com/taskhive/todo-system/internal/infrastructure/db/mongo"
	redisdb "github.com/taskhive/todo-system/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, sessionTTL time.Duration, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("todo"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	securityRepo := mongodb.NewSecurityRepository(db)
	listRepo := mongodb.NewListRepository(db)
	taskRepo := mongodb.NewTaskRepository(db)
	sessions := redisdb.NewSessionStore(rdb, sessionTTL)
	tickets := redisdb.NewTicketStore(rdb)

	accountService := service.NewAccountService(userRepo, securityRepo, listRepo, sessions, tickets, log)
	listService := service.NewListService(listRepo, userRepo, log)
	taskService := service.NewTaskService(taskRepo, listRepo, log)

	accountHandler := handler.NewAccountHandler(accountService)
	listHandler := handler.NewListHandler(listService)
	taskHandler := handler.NewTaskHandler(taskService)
	requireAuth := middleware.Auth(sessions)

	// --- Auth / account routes ---
	auth := e.Group("/api/auth")
	auth.POST("/register", accountHandler.Register)
	auth.POST("/login", accountHandler.Login)
	auth.GET("/questions", accountHandler.Questions)
	auth.POST("/recover", accountHandler.Recover)
	auth.POST("/recover/verify", accountHandler.VerifyAnswer)
	auth.POST("/recover/reset", accountHandler.ResetPassword)
	auth.POST("/logout", accountHandler.Logout, requireAuth)
	auth.GET("/me", accountHandler.Me, requireAuth)
	auth.PUT("/profile", accountHandler.UpdateProfile, requireAuth)
	auth.PUT("/password", accountHandler.ChangePassword, requireAuth)
	auth.PUT("/security-answers", accountHandler.SetSecurityAnswers, requireAuth)
	auth.DELETE("/account", accountHandler.DeleteAccount, requireAuth)

	// --- List / membership / task routes ---
	lists := e.Group("/api/lists", requireAuth)
	lists.GET("", listHandler.List)
	lists.POST("", listHandler.Create)
	lists.GET("/:list_id", listHandler.Get)
	lists.PUT("/:list_id", listHandler.Rename)
	lists.DELETE("/:list_id", listHandler.Delete)
	lists.GET("/:list_id/members", listHandler.Members)
	lists.POST("/:list_id/members", listHandler.AddMember)
	lists.DELETE("/:list_id/members/:member_id", listHandler.RemoveMember)
	lists.GET("/:list_id/tasks", taskHandler.List)
	lists.POST("/:list_id/tasks", taskHandler.Create)
	lists.PUT("/:list_id/tasks/:task_id", taskHandler.Update)
	lists.PATCH("/:list_id/tasks/:task_id/toggle", taskHandler.Toggle)
	lists.DELETE("/:list_id/tasks/:task_id", taskHandler.Delete)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)          // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e
}
