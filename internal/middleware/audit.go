package middleware

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/sis-schedule-console/internal/models"
)

const (
	// ActorHeader names the operator behind a console request.
	ActorHeader = "X-Actor"
	// ContextAuditResourceID lets handlers name the record they touched.
	ContextAuditResourceID = "audit_resource_id"
	// ContextAuditAction lets handlers refine the audit action after dispatch.
	ContextAuditAction = "audit_action"
	// ContextSession carries the resolved console session.
	ContextSession = "console_session"
)

// AuditWriter persists audit entries.
type AuditWriter interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// Audit records successful console mutations. A nil writer disables auditing.
func Audit(repo AuditWriter, action, resource string, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		if repo == nil {
			c.Next()
			return
		}
		start := time.Now().UTC()
		c.Next()

		if c.Writer.Status() >= 400 {
			return
		}

		var actor *string
		if value := strings.TrimSpace(c.GetHeader(ActorHeader)); value != "" {
			actor = &value
		}
		var resourceID *string
		if value := c.GetString(ContextAuditResourceID); value != "" {
			resourceID = &value
		}
		entryAction := action
		if refined := c.GetString(ContextAuditAction); refined != "" {
			entryAction = refined
		}

		body, _ := json.Marshal(map[string]interface{}{
			"path":    c.FullPath(),
			"method":  c.Request.Method,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).Milliseconds(),
		})

		entry := &models.AuditLog{
			ID:         uuid.NewString(),
			Actor:      actor,
			Session:    c.GetString(ContextSession),
			Action:     entryAction,
			Resource:   resource,
			ResourceID: resourceID,
			NewValues:  body,
			IPAddress:  c.ClientIP(),
			UserAgent:  c.GetHeader("User-Agent"),
			CreatedAt:  start,
		}
		if err := repo.CreateAuditLog(c.Request.Context(), entry); err != nil {
			logger.Warn("write audit log failed", zap.String("action", entryAction), zap.Error(err))
		}
	}
}
