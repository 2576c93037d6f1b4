package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/kassatrack/cash_report_app/cmd/docs"
	portssvc "github.com/kassatrack/cash_report_app/internal/core/ports/services"
	"github.com/kassatrack/cash_report_app/internal/middleware"
	"github.com/kassatrack/cash_report_app/internal/platform/config"
)

// loginRateLimit caps login attempts per client IP.
var loginRateLimit = limiter.Rate{Period: time.Minute, Limit: 10}

// RegisterRoutes sets up all application routes, injecting dependencies
// using interfaces.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	registerHomeRoutes(r)
	registerAuthRoutes(r, cfg, services.Auth)

	setupAPIV1Routes(r, cfg, services)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific
// entity route registrations.
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	v1 := r.Group("/api/v1", middleware.SessionAuthMiddleware(services.Auth, cfg.SessionCookieName))

	registerReportRoutes(v1, services.Report)
	registerDashboardRoutes(v1, services.Report)
	registerUserRoutes(v1, services.User, services.Sessions)
	registerRoleRoutes(v1, services.Role)
	registerPivotRoutes(v1, services.Pivot)
	registerSettingsRoutes(v1, services.Settings)
}

// setupSwaggerRoutes configures the swagger documentation routes.
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// newLoginLimiter builds the in-memory limiter for the login route.
func newLoginLimiter() *limiter.Limiter {
	return limiter.New(memory.NewStore(), loginRateLimit)
}
