package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/wesdalton/Respire/services"

	"github.com/gin-gonic/gin"
)

type WhoopController struct {
	Svc *services.WhoopService
}

func NewWhoopController(svc *services.WhoopService) *WhoopController {
	return &WhoopController{Svc: svc}
}

type SyncInput struct {
	From string `json:"from"` // yyyy-mm-dd, defaults to 7 days ago
	To   string `json:"to"`   // yyyy-mm-dd, defaults to today
}

func (h *WhoopController) Sync(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	input := SyncInput{}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	now := time.Now()
	from := now.AddDate(0, 0, -7)
	to := now
	var err error
	if input.From != "" {
		from, err = time.ParseInLocation("2006-01-02", input.From, now.Location())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date"})
			return
		}
	}
	if input.To != "" {
		to, err = time.ParseInLocation("2006-01-02", input.To, now.Location())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date"})
			return
		}
	}
	if to.Before(from) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "`to` must be on/after `from`"})
		return
	}

	summary, err := h.Svc.SyncRange(c.Request.Context(), userID, from, to)
	if errors.Is(err, services.ErrWhoopNotLinked) || errors.Is(err, services.ErrWhoopTokenExpired) {
		c.JSON(http.StatusPreconditionFailed, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}
