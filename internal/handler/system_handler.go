package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/PGMA10/rrak-website/internal/database"
	"github.com/PGMA10/rrak-website/internal/metrics"
	"github.com/PGMA10/rrak-website/internal/schema"
)

// FormSchemas handles GET /api/form-schemas: the rule table the browser
// forms validate against before submitting.
func FormSchemas(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": schema.Table})
}

// Health handles GET /api/health.
func Health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := database.Ping(c.Request.Context(), db); err != nil {
			log.Error().Err(err).Str("component", "health").Msg("database ping failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		if sqlDB, err := db.DB(); err == nil {
			metrics.UpdateDBConnections(sqlDB.Stats())
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
