package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/PGMA10/rrak-website/internal/schema"
	"github.com/PGMA10/rrak-website/internal/service"
)

type CampaignHandler struct {
	svc *service.CampaignService
}

func NewCampaignHandler(svc *service.CampaignService) *CampaignHandler {
	return &CampaignHandler{svc: svc}
}

// Get handles GET /api/campaign-settings. data is null until a deadline
// has been set.
func (h *CampaignHandler) Get(c *gin.Context) {
	setting, err := h.svc.Current(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Str("component", "campaign").Msg("get settings")
		fail(c, http.StatusInternalServerError, "Failed to fetch campaign settings")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": setting})
}

// Update handles PUT /api/admin/campaign-settings.
func (h *CampaignHandler) Update(c *gin.Context) {
	raw, ok := bindRaw(c)
	if !ok {
		return
	}
	setting, err := h.svc.SetDeadline(c.Request.Context(), raw)
	if err != nil {
		if failValidation(c, schema.EntityCampaignSettings, err) {
			return
		}
		log.Error().Err(err).Str("component", "campaign").Msg("update settings")
		fail(c, http.StatusInternalServerError, "Failed to update campaign settings")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": setting})
}
