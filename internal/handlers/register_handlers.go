package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/sitecrew/daily_report_app/cmd/docs"
	portssvc "github.com/sitecrew/daily_report_app/internal/core/ports/services"
	"github.com/sitecrew/daily_report_app/internal/middleware"
	"github.com/sitecrew/daily_report_app/internal/platform/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using
// interfaces.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	RegisterCustomValidators()

	r.GET("/", getHome)
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	r.Static("/uploads", cfg.UploadDir)

	setupAuthRoutes(r, cfg, services)
	setupAPIV1Routes(r, cfg, services)
	setupSwaggerRoutes(r, cfg)
}

// RegisterCustomValidators installs the binding-level validators used by the
// report DTOs.
func RegisterCustomValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("period", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return s == "AM" || s == "PM"
		})
	}
}

// setupAuthRoutes configures the /api/auth group: public credential routes
// behind a rate limit, plus the authenticated profile route.
func setupAuthRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	rate := limiter.Rate{Period: time.Minute, Limit: 20}
	limiterInstance := limiter.New(memory.NewStore(), rate)

	public := r.Group("/api/auth", middleware.RateLimit(limiterInstance))
	protected := r.Group("/api/auth", middleware.AuthMiddleware(cfg.JWTSecret))

	registerAuthRoutes(public, protected, services.User, cfg)
	registerGoogleOAuthRoutes(public, services.User, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific
// entity route registrations.
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// Apply AuthMiddleware to the entire v1 group
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	RegisterReportRoutes(v1, services.Report, services.Export)
	registerImageRoutes(v1, cfg.UploadDir)
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
