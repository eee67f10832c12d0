package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"policeapp/internal/api/middleware"
	"policeapp/internal/export"
	"policeapp/internal/services"
)

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

type CreateReportRequest struct {
	CrimeType   string   `json:"crime_type" binding:"required,crimetype"`
	Latitude    *float64 `json:"lat" binding:"required,gte=-90,lte=90"`
	Longitude   *float64 `json:"lon" binding:"required,gte=-180,lte=180"`
	Description string   `json:"description" binding:"max=2000"`
	Location    string   `json:"location" binding:"max=256"`
	AudioURL    string   `json:"audio_url" binding:"omitempty,url"`
}

// Create handles POST /api/reports
func (h *ReportHandler) Create(c *gin.Context) {
	var req CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.reportService.Create(c.Request.Context(), middleware.GetUserID(c), services.CreateReportInput{
		CrimeType:    req.CrimeType,
		Latitude:     *req.Latitude,
		Longitude:    *req.Longitude,
		Description:  req.Description,
		LocationName: req.Location,
		AudioURL:     req.AudioURL,
	})
	if err != nil {
		var cooldown *services.CooldownError
		switch {
		case errors.As(err, &cooldown):
			secs := int(math.Ceil(cooldown.RetryAfter.Seconds()))
			if secs < 1 {
				secs = 1
			}
			c.Header("Retry-After", strconv.Itoa(secs))
			c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error(), "retry_after_seconds": secs})
		case errors.Is(err, services.ErrInvalidCrimeType):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"msg": "Report submitted", "report": report})
}

// History handles GET /api/history
func (h *ReportHandler) History(c *gin.Context) {
	reports, err := h.reportService.History(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports, "count": len(reports)})
}

// ExportHistory handles GET /api/history/export. The workbook is rendered
// into memory first so a failure can still produce a JSON error.
func (h *ReportHandler) ExportHistory(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.reportService.ExportHistory(c.Request.Context(), middleware.GetUserID(c), &buf); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	filename := fmt.Sprintf("report-history-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}

type nearbyQuery struct {
	coordsQuery
	RadiusKm float64 `form:"radius_km" binding:"omitempty,gt=0,lte=50"`
}

// Nearby handles GET /api/reports/nearby?lat=&lon=&radius_km=
func (h *ReportHandler) Nearby(c *gin.Context) {
	var q nearbyQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reports, err := h.reportService.Nearby(c.Request.Context(), *q.Lat, *q.Lon, q.RadiusKm)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports, "count": len(reports)})
}
