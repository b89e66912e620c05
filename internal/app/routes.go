package app

import (
	"net/http"

	"github.com/andradm/Journal-project/internal/auth"
	"github.com/andradm/Journal-project/internal/cache"
	"github.com/andradm/Journal-project/internal/config"
	"github.com/andradm/Journal-project/internal/handlers"
	"github.com/andradm/Journal-project/internal/repo"
	"github.com/andradm/Journal-project/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
)

// Setup wires repositories, services and handlers and registers all routes.
func Setup(r *gin.Engine, cfg config.Config, db *pgxpool.Pool, rdb *redis.Client) {
	r.GET("/health", healthHandler(cfg))
	r.GET("/version", versionHandler(cfg))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(302, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
		ginSwagger.PersistAuthorization(true),
	))

	sessionStore := auth.NewStore(rdb, cfg.Session.TTL.Duration())
	userRepo := repo.NewPGUserRepo(db)
	entryRepo := repo.NewPGEntryRepo(db)
	userSvc := service.NewUserService(userRepo)
	entryCache := cache.NewEntryCache(rdb, cfg.Redis.DefaultTTL.Duration())
	entrySvc := service.NewEntryService(entryRepo, entryCache)
	authHandler := handlers.NewAuthHandler(sessionStore, userSvc, userRepo, cfg.Session.TTL.Duration())
	entryHandler := handlers.NewEntryHandler(entrySvc, userSvc)

	Register(r, sessionStore, authHandler, entryHandler)
}

// Register registers the journal routes on the given engine.
func Register(r *gin.Engine, sessions auth.Sessions, authHandler *handlers.AuthHandler, entryHandler *handlers.EntryHandler) {
	r.GET("/", entryHandler.Feed)
	r.GET("/entries", entryHandler.Feed)
	r.GET("/entries/:id", entryHandler.Detail)
	r.GET("/login", authHandler.LoginForm)
	r.POST("/login", authHandler.Login)
	r.GET("/register", authHandler.RegisterForm)
	r.POST("/register", authHandler.Register)
	r.GET("/stream/:username", entryHandler.UserStream)

	protected := r.Group("", auth.RequireSession(sessions))
	protected.GET("/logout", authHandler.Logout)
	protected.GET("/stream", entryHandler.Stream)
	protected.GET("/entries/new", entryHandler.NewForm)
	protected.POST("/entries/new", entryHandler.Create)
	protected.GET("/entries/:id/delete", entryHandler.Delete)
	protected.POST("/entries/:id/delete", entryHandler.Delete)
	protected.GET("/entries/:id/edit", entryHandler.EditForm)
	protected.POST("/entries/:id/edit", entryHandler.Edit)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
}

func healthHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true, "env": cfg.App.Env})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.Data(200, "application/json; charset=utf-8", []byte(doc))
	}
}
