package middleware

import (
	"context"
	"time"

	"storefront_back_end/internal/audit"
	"storefront_back_end/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Clés que les handlers peuvent poser pour compléter l'entrée d'audit.
const (
	AuditResourceID = "audit_resource_id"
	AuditNewValue   = "audit_new_value"
	AuditError      = "audit_error"
)

const auditTimeout = 3 * time.Second

// Audit enregistre l'action en arrière-plan après traitement, réussie (2xx) ou non.
// L'identifiant vient du paramètre :id ou de AuditResourceID.
func Audit(rec audit.Recorder, action, resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		resourceID := c.Param("id")
		if id := c.GetString(AuditResourceID); id != "" {
			resourceID = id
		}
		status := c.Writer.Status()
		newValue, _ := c.Get(AuditNewValue)

		entry := audit.Entry{
			UserID:     c.GetString(CtxUserID),
			UserEmail:  c.GetString(CtxEmail),
			Action:     action,
			Resource:   resource,
			ResourceID: resourceID,
			NewValue:   newValue,
			IPAddress:  c.ClientIP(),
			UserAgent:  c.GetHeader("User-Agent"),
			RequestID:  logger.RequestIDFrom(c.Request.Context()),
			Success:    status >= 200 && status < 300,
			ErrorMsg:   c.GetString(AuditError),
		}

		detached := context.WithoutCancel(c.Request.Context())
		go func() {
			ctx, cancel := context.WithTimeout(detached, auditTimeout)
			defer cancel()
			if err := rec.Record(ctx, entry); err != nil {
				logger.FromCtx(ctx).Error("❌ Erreur enregistrement log audit", zap.String("action", action), zap.Error(err))
			}
		}()
	}
}
