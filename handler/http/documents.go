package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListDocuments lists the catalog of ingested sources.
func (h *Handler) ListDocuments(c *gin.Context) {
	if h.catalog == nil {
		sendError(c, http.StatusServiceUnavailable, "Catalogue de documents indisponible")
		return
	}

	limit := 20
	offset := 0

	if limitParam := c.Query("limit"); limitParam != "" {
		if _, err := fmt.Sscanf(limitParam, "%d", &limit); err != nil {
			sendError(c, http.StatusBadRequest, "Paramètre limit invalide")
			return
		}
	}

	if offsetParam := c.Query("offset"); offsetParam != "" {
		if _, err := fmt.Sscanf(offsetParam, "%d", &offset); err != nil {
			sendError(c, http.StatusBadRequest, "Paramètre offset invalide")
			return
		}
	}

	documents, err := h.catalog.List(c.Request.Context(), limit, offset)
	if err != nil {
		sendError(c, http.StatusInternalServerError, "Erreur serveur: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"documents": documents,
		"pagination": gin.H{
			"limit":  limit,
			"offset": offset,
		},
	})
}
