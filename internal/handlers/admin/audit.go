package admin

import (
	"net/http"
	"strconv"

	"storefront_back_end/internal/audit"
	"storefront_back_end/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuditHandler struct {
	reader audit.Reader
}

func NewAuditHandler(reader audit.Reader) *AuditHandler {
	return &AuditHandler{reader: reader}
}

// GetAuditLogs récupère les logs d'audit avec filtres
func (h *AuditHandler) GetAuditLogs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	entries, err := h.reader.List(c.Request.Context(), audit.Filter{
		UserEmail:  c.Query("user_email"),
		Action:     c.Query("action"),
		ResourceID: c.Query("resource_id"),
		Limit:      limit,
	})
	if err != nil {
		logger.FromCtx(c.Request.Context()).Error("❌ Erreur récupération logs audit", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"logs":  entries,
		"count": len(entries),
	})
}
