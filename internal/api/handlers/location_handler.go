package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"policeapp/internal/distancematrix"
	"policeapp/internal/nearest"
	"policeapp/internal/services"
)

type LocationHandler struct {
	locationService *services.LocationService
}

func NewLocationHandler(locationService *services.LocationService) *LocationHandler {
	return &LocationHandler{
		locationService: locationService,
	}
}

// Nearest handles GET /api/location/nearest?lat=&lon=
//
// The response is 200 even when no candidate could be routed; "reachable"
// is false in that case and the travel fields are null.
func (h *LocationHandler) Nearest(c *gin.Context) {
	var q coordsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	best, err := h.locationService.Nearest(c.Request.Context(), *q.Lat, *q.Lon)
	if err != nil {
		var (
			providerErr *distancematrix.ProviderError
			parseErr    *distancematrix.ParseError
		)
		switch {
		case errors.Is(err, nearest.ErrNoCandidates):
			c.JSON(http.StatusNotFound, gin.H{"error": "no locations available"})
		case errors.Is(err, distancematrix.ErrUpstreamTimeout):
			c.JSON(http.StatusGatewayTimeout, gin.H{"error": "distance provider timed out"})
		case errors.As(err, &providerErr):
			c.JSON(http.StatusBadGateway, gin.H{"error": providerErr.Error()})
		case errors.As(err, &parseErr):
			c.JSON(http.StatusBadGateway, gin.H{"error": parseErr.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, best)
}

type candidatesQuery struct {
	coordsQuery
	Limit int `form:"limit" binding:"omitempty,min=1,max=500"`
}

// Candidates handles GET /api/location/candidates?lat=&lon=&limit=
// It returns the straight-line ranking without calling the provider.
func (h *LocationHandler) Candidates(c *gin.Context) {
	var q candidatesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	candidates := h.locationService.Candidates(c.Request.Context(), *q.Lat, *q.Lon, q.Limit)
	c.JSON(http.StatusOK, gin.H{"candidates": candidates, "count": len(candidates)})
}
