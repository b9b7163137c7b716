package admin

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"storefront_back_end/internal/archive"
	"storefront_back_end/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ArchiveHandler struct {
	browser archive.Browser
}

func NewArchiveHandler(browser archive.Browser) *ArchiveHandler {
	return &ArchiveHandler{browser: browser}
}

// ListArchives renvoie les commandes archivées d'un client avec des liens signés.
// ?minutes fixe la durée de validité des liens (60 max).
func (h *ArchiveHandler) ListArchives(c *gin.Context) {
	email := strings.TrimSpace(c.Query("email"))
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Paramètre email requis"})
		return
	}

	ttl := archive.DefaultLinkTTL
	if m, err := strconv.Atoi(c.Query("minutes")); err == nil && m > 0 {
		ttl = time.Duration(min(m, 60)) * time.Minute
	}

	links, err := h.browser.Links(c.Request.Context(), email, ttl)
	if err != nil {
		logger.FromCtx(c.Request.Context()).Error("❌ Erreur liste des archives", zap.String("email", email), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"archives": links,
		"count":    len(links),
	})
}
