package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/wesdalton/Respire/analysis"
	"github.com/wesdalton/Respire/services"

	"github.com/gin-gonic/gin"
)

type BurnoutController struct {
	Svc *services.BurnoutService
}

func NewBurnoutController(svc *services.BurnoutService) *BurnoutController {
	return &BurnoutController{Svc: svc}
}

type CalculateInput struct {
	Date     string `json:"date"`      // yyyy-mm-dd, defaults to today
	DaysBack int    `json:"days_back"` // history window, defaults to 7
}

func (h *BurnoutController) Calculate(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	input := CalculateInput{}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	day, err := dateOrToday(input.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, want yyyy-mm-dd"})
		return
	}
	result, err := h.Svc.Calculate(c.Request.Context(), userID, day, input.DaysBack)
	if errors.Is(err, analysis.ErrInsufficientData) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "burnout score not yet available: no recovery recorded for that day"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *BurnoutController) GetHistory(c *gin.Context) {
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

	points, err := h.Svc.History(c.Request.Context(), userID, from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": points, "count": len(points)})
}

type BackfillInput struct {
	From     string `json:"from" binding:"required"`
	To       string `json:"to" binding:"required"`
	DaysBack int    `json:"days_back"`
}

func (h *BurnoutController) Backfill(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var input BackfillInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	from, err := time.ParseInLocation("2006-01-02", input.From, now.Location())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date"})
		return
	}
	to, err := time.ParseInLocation("2006-01-02", input.To, now.Location())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date"})
		return
	}
	if to.Before(from) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "`to` must be on/after `from`"})
		return
	}

	summary, err := h.Svc.Backfill(c.Request.Context(), userID, from, to, input.DaysBack)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}
