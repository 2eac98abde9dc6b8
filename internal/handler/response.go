package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PGMA10/rrak-website/internal/domain"
	"github.com/PGMA10/rrak-website/internal/schema"
)

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"success": false, "error": msg})
}

// failValidation writes the 400 envelope for a schema rejection. It reports
// whether err was one.
func failValidation(c *gin.Context, entity domain.Entity, err error) bool {
	var verrs schema.Errors
	if !errors.As(err, &verrs) {
		return false
	}
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   verrs.First(entity),
		"details": verrs,
	})
	return true
}

// bindRaw decodes a JSON object body; a literal null decodes to an empty map.
func bindRaw(c *gin.Context) (map[string]any, bool) {
	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return nil, false
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return raw, true
}
