// Package app wires repositories, services and handlers into one router.
package app

import (
	"net/http"

	"lodgecred/internal/config"
	"lodgecred/internal/domain/admin"
	"lodgecred/internal/domain/auth"
	"lodgecred/internal/domain/credential"
	"lodgecred/internal/domain/lodge"
	"lodgecred/internal/domain/profile"
	"lodgecred/internal/domain/registration"
	"lodgecred/internal/domain/upload"
	"lodgecred/internal/middleware"
	"lodgecred/internal/pkg/jwt"
	"lodgecred/internal/pkg/metrics"
	"lodgecred/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Router *gin.Engine
	Live   *admin.LiveHub
	JWT    *jwt.Service
}

func New(cfg *config.Config, db *gorm.DB, mailer auth.Mailer, m *metrics.Metrics, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	if mailer == nil {
		mailer = auth.NewDevConsoleMailer(cfg.DevMailer, log)
	}

	policy := profile.NotePolicyAdvisory
	if cfg.RequireNote {
		policy = profile.NotePolicyRequired
	}

	// repositories
	userRepo := auth.NewRepository(db)
	profileRepo := profile.NewRepository(db)
	lodgeRepo := lodge.NewRepository(db)
	uploadRepo := upload.NewRepository(db)
	store := storage.NewLocalStore(cfg.UploadsDir, cfg.PublicBaseURL)

	jwtService := jwt.New(cfg.JWTSecret, cfg.SessionTTL)
	live := admin.NewLiveHub(profileRepo, append([]string{cfg.PublicBaseURL}, cfg.CORSOrigins...), log)

	// services
	authService := auth.NewService(userRepo, jwtService, mailer, auth.Options{
		CodePepper:  cfg.AuthCodePepper,
		CodeTTL:     cfg.AuthCodeTTL,
		CallbackURL: cfg.PublicBaseURL + "/api/v1/auth/callback",
	}, log)
	registrationService := registration.NewService(authService, profileRepo, live, m, log)
	profileService := profile.NewService(profileRepo, cfg.PublicBaseURL)
	uploadService := upload.NewService(profileRepo, store, uploadRepo, cfg.MaxUploadBytes, m, log)
	credentialService := credential.NewService(profileRepo, store, jwtService, cfg.CredentialViewTTL, m)
	adminService := admin.NewService(profileRepo, policy, live, m, log)

	// handlers
	authHandler := auth.NewHandler(authService, cfg.PublicBaseURL, cfg.SessionTTL, cfg.CookieSecure, cfg.CookieSameSite)
	registrationHandler := registration.NewHandler(registrationService)
	profileHandler := profile.NewHandler(profileService)
	uploadHandler := upload.NewHandler(uploadService)
	credentialHandler := credential.NewHandler(credentialService)
	lodgeHandler := lodge.NewHandler(lodgeRepo)
	adminHandler := admin.NewHandler(adminService, live)

	r := gin.New()
	r.Use(middleware.RequestLogger(log, m))
	r.Use(middleware.CORS(cfg.CORSOrigins))

	r.GET("/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if m != nil {
		r.GET("/metrics", middleware.MetricsTokenAuth(cfg.MetricsToken, log), gin.WrapH(m.Handler()))
	}

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterPublicRoutes(v1)
		registrationHandler.RegisterRoutes(v1)
		credentialHandler.RegisterRoutes(v1)
		lodgeHandler.RegisterRoutes(v1)

		protected := v1.Group("")
		protected.Use(middleware.JWTAuth(jwtService))
		{
			authHandler.RegisterProtectedRoutes(protected)
			profileHandler.RegisterRoutes(protected)
			upload.RegisterRoutes(protected, uploadHandler)

			adminGroup := protected.Group("/admin")
			adminGroup.Use(middleware.AdminOnly())
			adminHandler.RegisterRoutes(adminGroup)
		}
	}

	return &App{Router: r, Live: live, JWT: jwtService}
}
