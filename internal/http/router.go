package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/yashp387/Job-Board/internal/auth"
	"github.com/yashp387/Job-Board/internal/config"
	"github.com/yashp387/Job-Board/internal/domain/user"
	"github.com/yashp387/Job-Board/internal/http/handlers"
	"github.com/yashp387/Job-Board/internal/http/middlewares"
	"github.com/yashp387/Job-Board/internal/observability"
	"github.com/yashp387/Job-Board/internal/repo/postgres"
)

const maxRequestBody = 1 << 20 // 1 MiB

func NewRouter(log *slog.Logger, pool *pgxpool.Pool, cfg config.Config) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// metrics registry for this process
	promReg := prometheus.NewRegistry()
	prom := observability.NewProm(promReg)

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.CORSAllowedOrigins))
	r.Use(middlewares.RequireJSON())
	r.Use(middlewares.MaxBodyBytes(maxRequestBody))
	r.Use(prom.GinHandleMiddleware())
	r.Use(otelgin.Middleware("jobboard"))

	// health
	ping := func() error {
		if pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return pool.Ping(ctx)
	}

	h := handlers.NewHealthHandler(ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(promReg, promhttp.HandlerOpts{})))

	// wire up repositories
	usersRepo := postgres.NewUsersRepo(pool, prom)
	jobsRepo := postgres.NewJobsRepo(pool, prom)
	applicationsRepo := postgres.NewApplicationsRepo(pool, prom)

	// auth plumbing
	jwtManager := auth.NewManager(cfg.JWTSecret, cfg.AccessTTL())
	authMW := middlewares.NewAuthMiddleware(jwtManager)

	// wire up handlers
	usersHandler := handlers.NewUsersHandler(usersRepo, jwtManager)
	jobsHandler := handlers.NewJobsHandler(jobsRepo)
	applicationsHandler := handlers.NewApplicationsHandler(applicationsRepo, jobsRepo)

	// user routes; register and login are public, login issues the token
	userGroup := r.Group("/user")
	userGroup.POST("/register", usersHandler.Register)
	userGroup.POST("/login", usersHandler.Login)
	userGroup.GET("/profile", usersHandler.ListProfiles)
	userGroup.PUT("/profile/:id", authMW.RequireAuth(), usersHandler.UpdateProfile)
	userGroup.DELETE("/profile/:id", authMW.RequireAuth(), usersHandler.DeleteProfile)

	// job routes; listing, search and detail stay public
	jobGroup := r.Group("/jobs")
	jobGroup.POST("", authMW.RequireAuth(), authMW.RequireRole(user.RoleEmployer), jobsHandler.CreateJob)
	jobGroup.GET("", jobsHandler.ListJobs)
	jobGroup.GET("/search", jobsHandler.SearchJobs)
	jobGroup.GET("/:id", jobsHandler.GetJobByID)
	jobGroup.PUT("/:id", authMW.RequireAuth(), jobsHandler.UpdateJob)
	jobGroup.DELETE("/:id", authMW.RequireAuth(), jobsHandler.DeleteJob)

	// application routes; all gated behind auth
	appGroup := r.Group("/applications")
	appGroup.Use(authMW.RequireAuth())
	appGroup.POST("/:id/apply", applicationsHandler.Apply)
	appGroup.GET("/:id/applications", applicationsHandler.ListForJob)
	appGroup.GET("/my-applications", authMW.RequireRole(user.RoleJobseeker), applicationsHandler.ListMine)
	appGroup.PUT("/:id/status", applicationsHandler.UpdateStatus)
	appGroup.DELETE("/:id", applicationsHandler.DeleteApplication)

	return r
}
