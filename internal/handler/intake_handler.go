package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/PGMA10/rrak-website/internal/models"
	"github.com/PGMA10/rrak-website/internal/service"
)

// Submit handles the public POST endpoint of one submission kind.
func Submit[T models.Submission](svc *service.SubmissionService[T]) gin.HandlerFunc {
	entity := svc.Entity()
	return func(c *gin.Context) {
		raw, ok := bindRaw(c)
		if !ok {
			return
		}
		rec, err := svc.Submit(c.Request.Context(), raw)
		if err != nil {
			if failValidation(c, entity, err) {
				return
			}
			log.Error().Err(err).Str("component", "intake").Str("entity", string(entity)).Msg("submit failed")
			fail(c, http.StatusInternalServerError, "Failed to submit")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": rec})
	}
}
