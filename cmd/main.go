package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hnthap/classgate/config"
	"github.com/hnthap/classgate/internal/classroom"
	studentctrl "github.com/hnthap/classgate/internal/controller/student"
	"github.com/hnthap/classgate/internal/logger"
	"github.com/hnthap/classgate/internal/middleware"
	"github.com/hnthap/classgate/internal/service"
	"github.com/hnthap/classgate/internal/session"
	"github.com/hnthap/classgate/internal/store"
	redisstore "github.com/hnthap/classgate/internal/store/redis"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
)

// @title ClassGate Student Portal API
// @version 1.0
// @description Student portal fronting the classroom API: quiz catalog, quiz-taking sessions, dashboards.
// @host localhost:8090
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		// Core application components
		fx.Provide(
			config.NewConfig,
			NewGinEngine,
			classroom.NewClient,
			func(c *classroom.Client) classroom.CatalogAPI { return c },
			func(c *classroom.Client) classroom.AttemptAPI { return c },
			func(c *classroom.Client) classroom.DashboardAPI { return c },
			NewMirror,
			session.NewClock,
		),

		// Session engine and services layer
		fx.Provide(
			session.NewManager,
			service.NewCatalogService,
			service.NewDashboardService,
		),

		// API controllers layer
		fx.Provide(
			studentctrl.NewSessionController,
			studentctrl.NewDashboardController,
		),

		fx.Invoke(RegisterRoutesAndStartServer),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

// NewMirror selects the durable answer mirror backend. Without a redis
// address mirrored answers only survive within the process.
func NewMirror(cfg *config.Config) store.Mirror {
	if cfg.Redis.Addr == "" {
		log.Warn().Msg("REDIS_ADDR not set, answer mirror is in-process only")
		return store.NewMemoryMirror()
	}
	mirror := redisstore.NewMirror(cfg)
	if err := mirror.Ping(context.Background()); err != nil {
		log.Error().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis unreachable at startup, continuing anyway")
	}
	return mirror
}

func NewGinEngine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("user_agent", param.Request.UserAgent()).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Swagger UI: http://localhost:PORT/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages the server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	sessionCtrl *studentctrl.SessionController,
	dashboardCtrl *studentctrl.DashboardController,
) {
	api := router.Group("/api/v1")
	api.Use(middleware.Auth(cfg.JWTSecret))
	{
		api.GET("/quizzes", sessionCtrl.GetQuizzes)

		api.GET("/notes", dashboardCtrl.GetNotes)
		api.GET("/assignments", dashboardCtrl.GetAssignments)
		api.GET("/grades", dashboardCtrl.GetGrades)
		api.GET("/feedback", dashboardCtrl.GetFeedback)

		sessionGroup := api.Group("/session")
		sessionGroup.GET("", sessionCtrl.GetSession)
		sessionGroup.POST("/select", sessionCtrl.SelectQuiz)
		sessionGroup.POST("/back", sessionCtrl.Back)
		sessionGroup.POST("/start", sessionCtrl.Start)
		sessionGroup.POST("/answer", sessionCtrl.Answer)
		sessionGroup.POST("/navigate", sessionCtrl.Navigate)
		sessionGroup.POST("/jump", sessionCtrl.Jump)
		sessionGroup.POST("/submit", sessionCtrl.RequestSubmit)
		sessionGroup.POST("/submit/confirm", sessionCtrl.ConfirmSubmit)
		sessionGroup.POST("/submit/cancel", sessionCtrl.CancelSubmit)
		sessionGroup.POST("/retake", sessionCtrl.Retake)
		sessionGroup.POST("/exit", sessionCtrl.Exit)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("ClassGate portal starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}
