// README: Per-profile analytics handler.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"guardian/internal/modules/analytics"
	"guardian/internal/types"
)

type AnalyticsHandler struct {
	analytics *analytics.Service
}

func NewAnalyticsHandler(svc *analytics.Service) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: svc}
}

func (h *AnalyticsHandler) ProfileStats(c *gin.Context) {
	stats, err := h.analytics.ProfileStats(c.Request.Context(), types.ID(c.Param("userId")))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
