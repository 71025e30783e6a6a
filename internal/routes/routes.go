package routes

import (
	"github.com/BseoY/120EastState3/internal/config"
	"github.com/BseoY/120EastState3/internal/handlers"
	"github.com/BseoY/120EastState3/internal/middleware"
	"github.com/BseoY/120EastState3/internal/models"
	"github.com/BseoY/120EastState3/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Dependencies carries the service implementations the handlers run
// on. Tests substitute stub Uploader/Notifier implementations here.
type Dependencies struct {
	Tokens    *services.TokenService
	Verifier  *services.GoogleVerifier
	Directory *services.UserDirectory
	Storage   services.Uploader
	Notifier  services.Notifier
}

func Setup(db *gorm.DB, cfg *config.Config, deps Dependencies) *gin.Engine {
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.Origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	authHandler := handlers.NewAuthHandler(deps.Verifier, deps.Tokens, deps.Directory, cfg.Server.FrontendOrigin)
	postHandler := handlers.NewPostHandler(db, deps.Storage)
	adminHandler := handlers.NewAdminHandler(db, deps.Notifier)
	userHandler := handlers.NewUserHandler(db)
	tagHandler := handlers.NewTagHandler(db)
	announcementHandler := handlers.NewAnnouncementHandler(db)
	contactHandler := handlers.NewContactHandler(deps.Notifier)
	mediaHandler := handlers.NewMediaHandler(deps.Storage)

	requireAuth := middleware.RequireAuth(deps.Tokens, deps.Directory)
	requireAdmin := middleware.RequireRoles(deps.Tokens, deps.Directory, models.RoleAdmin)
	optionalAuth := middleware.OptionalAuth(deps.Tokens, deps.Directory)

	api := r.Group("/api")

	// Public
	api.GET("/auth/login", authHandler.Login)
	api.GET("/auth/login/callback", authHandler.Callback)
	api.POST("/auth/logout", authHandler.Logout)
	api.GET("/posts", postHandler.List)
	api.GET("/posts/:id", optionalAuth, postHandler.Get)
	api.GET("/tags", tagHandler.List)
	api.GET("/announcements", announcementHandler.List)
	api.POST("/contact", contactHandler.Submit)

	// Any authenticated user
	authed := api.Group("", requireAuth)
	authed.GET("/auth/user", authHandler.Me)
	authed.POST("/posts", postHandler.Create)
	authed.GET("/user/posts", postHandler.ListMine)
	authed.DELETE("/user/posts/:id", postHandler.DeleteOwn)
	authed.POST("/upload", mediaHandler.Upload)

	// Admin only
	admin := api.Group("", requireAdmin)
	admin.GET("/admin/posts", adminHandler.ListPending)
	admin.POST("/admin/posts/:id/approve", adminHandler.Approve)
	admin.POST("/admin/posts/:id/deny", adminHandler.Deny)
	admin.PUT("/admin/posts/:id", postHandler.AdminUpdate)
	admin.DELETE("/admin/posts/:id", postHandler.AdminDelete)
	admin.GET("/admin/users", userHandler.List)
	admin.PATCH("/admin/users/:id", userHandler.UpdateRole)
	admin.POST("/admin/tags", tagHandler.Create)
	admin.PUT("/admin/tags/:id", tagHandler.Update)
	admin.DELETE("/admin/tags/:id", tagHandler.Delete)
	admin.POST("/announcements", announcementHandler.Create)
	admin.PUT("/announcements/:id", announcementHandler.Update)
	admin.DELETE("/announcements/:id", announcementHandler.Delete)

	return r
}
