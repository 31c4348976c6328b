package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mschlachter/ocis-app-tokens/internal/models"
)

// DrivesHandler serves the graph drives listing. The drive set is fixed at
// startup; the panel never mutates it.
type DrivesHandler struct {
	drives []models.Endpoint
}

// NewDrivesHandler creates a DrivesHandler instance.
func NewDrivesHandler(drives []models.Endpoint) *DrivesHandler {
	return &DrivesHandler{drives: drives}
}

// ListDrives handles GET /graph/v1.0/me/drives.
func (h *DrivesHandler) ListDrives(c *gin.Context) {
	c.JSON(http.StatusOK, models.DriveList{Value: h.drives})
}
