package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/sis-schedule-console/internal/middleware"
	"github.com/noah-isme/sis-schedule-console/internal/models"
	"github.com/noah-isme/sis-schedule-console/internal/service"
	"github.com/noah-isme/sis-schedule-console/pkg/logger"
	corsmiddleware "github.com/noah-isme/sis-schedule-console/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sis-schedule-console/pkg/middleware/requestid"
)

const auditResource = "schedule"

// Handlers groups the HTTP handlers mounted by NewRouter.
type Handlers struct {
	Console *ConsoleHandler
	Drafts  *DraftHandler
	Metrics *MetricsHandler
	// Audit is nil when the audit trail is disabled.
	Audit *AuditHandler
}

// RouterOptions configures cross-cutting middleware.
type RouterOptions struct {
	APIPrefix      string
	AllowedOrigins []string
	EnableDocs     bool
	// Audit is nil when the audit trail is disabled.
	Audit   middleware.AuditWriter
	Metrics *service.MetricsService
	Logger  *zap.Logger
}

// NewRouter builds the gin engine with every console route.
func NewRouter(h Handlers, opts RouterOptions) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	prefix := "/" + strings.Trim(opts.APIPrefix, "/")
	if prefix == "/" {
		prefix = "/api/v1"
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(opts.Logger))
	r.Use(corsmiddleware.New(opts.AllowedOrigins))
	r.Use(middleware.Metrics(opts.Metrics))

	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)
	if opts.EnableDocs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	audit := func(action string) gin.HandlerFunc {
		return middleware.Audit(opts.Audit, action, auditResource, opts.Logger)
	}

	console := r.Group(prefix + "/console")
	{
		console.GET("/schedules", h.Console.ListSchedules)
		console.POST("/schedules/refresh", h.Console.Refresh)
		console.GET("/schedules/export", h.Console.Export)
		console.GET("/faculty", h.Console.ListFaculty)

		console.POST("/sync/subjects-sections", audit(models.AuditActionSyncSubjects), h.Console.SyncSubjectsSections)
		console.POST("/sync/existing-assignments", audit(models.AuditActionSyncAssignments), h.Console.SyncExistingAssignments)

		drafts := console.Group("/drafts")
		drafts.POST("", h.Drafts.Open)
		drafts.GET("/:id", h.Drafts.Get)
		drafts.PUT("/:id/faculty", h.Drafts.SelectFaculty)
		drafts.GET("/:id/available-teachers", h.Drafts.AvailableTeachers)
		drafts.POST("/:id/submit", audit(models.AuditActionSubmitDraft), h.Drafts.Submit)
		drafts.DELETE("/:id", h.Drafts.Close)

		if h.Audit != nil {
			console.GET("/audit", h.Audit.List)
		}
	}

	return r
}
