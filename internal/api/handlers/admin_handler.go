package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"policeapp/internal/geo"
	"policeapp/internal/services"
)

type AdminHandler struct {
	locationService *services.LocationService
}

func NewAdminHandler(locationService *services.LocationService) *AdminHandler {
	return &AdminHandler{locationService: locationService}
}

// ReloadDataset handles POST /admin/dataset/reload. A malformed file leaves
// the current dataset in service and answers 422.
func (h *AdminHandler) ReloadDataset(c *gin.Context) {
	ds, err := h.locationService.ReloadDataset()
	if err != nil {
		var loadErr *geo.DatasetLoadError
		if errors.As(err, &loadErr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"points":    ds.Len(),
		"source":    ds.Source(),
		"loaded_at": ds.LoadedAt(),
	})
}
