package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/wesdalton/Respire/services"

	"github.com/gin-gonic/gin"
)

type MetricController struct {
	Svc *services.MetricService
}

func NewMetricController(svc *services.MetricService) *MetricController {
	return &MetricController{Svc: svc}
}

// MetricsInput is a day's metrics; every field is optional so partial
// updates merge into whatever is already stored.
type MetricsInput struct {
	Date string `json:"date"` // yyyy-mm-dd, defaults to today
	services.MetricPatch
}

func (h *MetricController) PostMetrics(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var input MetricsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	day, err := dateOrToday(input.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, want yyyy-mm-dd"})
		return
	}

	row, err := h.Svc.Upsert(c.Request.Context(), userID, day, &input.MetricPatch)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *MetricController) GetMetrics(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	now := time.Now()
	fromStr := c.DefaultQuery("from", now.AddDate(0, 0, -29).Format("2006-01-02"))
	toStr := c.DefaultQuery("to", now.Format("2006-01-02"))

	from, err := time.ParseInLocation("2006-01-02", fromStr, now.Location())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date"})
		return
	}
	to, err := time.ParseInLocation("2006-01-02", toStr, now.Location())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date"})
		return
	}
	if to.Before(from) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "`to` must be on/after `from`"})
		return
	}

	rows, err := h.Svc.Range(c.Request.Context(), userID, from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"metrics": rows, "count": len(rows)})
}

func (h *MetricController) GetMetricByDate(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	day, err := time.ParseInLocation("2006-01-02", c.Param("date"), time.Now().Location())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, want yyyy-mm-dd"})
		return
	}

	row, err := h.Svc.ByDate(c.Request.Context(), userID, day)
	if errors.Is(err, services.ErrNoMetrics) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no metrics recorded for that day"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, row)
}

type MoodInput struct {
	Date        string  `json:"date"`
	MoodRating  int     `json:"mood_rating" binding:"required,min=1,max=10"`
	EnergyLevel *int    `json:"energy_level"`
	StressLevel *int    `json:"stress_level"`
	Notes       *string `json:"notes"`
}

func (h *MetricController) PostMood(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var input MoodInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	day, err := dateOrToday(input.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, want yyyy-mm-dd"})
		return
	}

	row, err := h.Svc.UpsertMood(c.Request.Context(), userID, day, input.MoodRating, input.EnergyLevel, input.StressLevel, input.Notes)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, row)
}

// --- helpers ---

func dateOrToday(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	return time.ParseInLocation("2006-01-02", s, time.Now().Location())
}
