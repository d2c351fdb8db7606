package router

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/freelance-web/internal/config"
	"github.com/ignatzorin/freelance-web/internal/http/handlers"
	"github.com/ignatzorin/freelance-web/internal/http/middleware"
	"github.com/ignatzorin/freelance-web/internal/workspace"
)

func SetupRouter(
	cfg *config.Config,
	store *workspace.Store,
	tokens *workspace.TokenManager,
	pageHandler *handlers.PageHandler,
	searchHandler *handlers.SearchHandler,
	authHandler *handlers.AuthHandler,
	formHandler *handlers.FormHandler,
	applicationHandler *handlers.ApplicationHandler,
	uiHandler *handlers.UIHandler,
	healthHandler *handlers.HealthHandler,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())

	r.GET("/health", healthHandler.Health)

	// Всё остальное работает в рабочем пространстве браузерной сессии
	site := r.Group("/")
	site.Use(middleware.SessionMiddleware(store, tokens, middleware.CookieOptions{
		Name:   cfg.SessionCookie,
		Secure: cfg.SecureCookies,
	}))

	site.GET("/", pageHandler.Home)
	site.GET("/search", searchHandler.Search)
	site.GET("/dashboard/", pageHandler.Dashboard)
	site.GET("/dashboard/sections/:name", pageHandler.Section)

	submitRateLimit := middleware.NewSubmitLimit(cfg.RateLimitLimit, cfg.RateLimitPeriod).Middleware()

	authGroup := site.Group("/auth")
	authGroup.Use(submitRateLimit)
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/logout", authHandler.Logout)
	}

	formsGroup := site.Group("/forms")
	formsGroup.Use(submitRateLimit)
	{
		formsGroup.POST("/apply", formHandler.Apply)
		formsGroup.POST("/jobs", formHandler.PostJob)
		formsGroup.POST("/profile", formHandler.UpdateProfile)
	}

	applications := site.Group("/applications")
	applications.Use(submitRateLimit)
	{
		applications.POST("/:id/status", middleware.IDValidator("id"), applicationHandler.Status)
		applications.POST("/:id/withdraw", middleware.IDValidator("id"), applicationHandler.Withdraw)
	}

	ui := site.Group("/ui")
	{
		ui.POST("/modals/close-all", uiHandler.CloseAll)
		ui.POST("/modals/:name/show", uiHandler.ShowModal)
		ui.POST("/modals/:name/close", uiHandler.CloseModal)
		ui.POST("/modals/:name/backdrop", uiHandler.Backdrop)
		ui.POST("/keys/:key", uiHandler.Key)
		ui.POST("/apply/:id", middleware.IDValidator("id"), uiHandler.Apply)
	}

	return r
}
