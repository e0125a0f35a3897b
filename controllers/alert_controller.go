package controllers

import (
	"net/http"
	"strconv"

	"github.com/wesdalton/Respire/config"
	"github.com/wesdalton/Respire/models"

	"github.com/gin-gonic/gin"
)

// GetAlerts lists the user's alerts, newest first. Pass ?unacked=true
// to see only what still needs attention.
func GetAlerts(c *gin.Context) {
	uid := c.GetUint("userID")

	limit := 50
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 200 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be 1-200"})
			return
		}
		limit = n
	}

	q := config.DB.Where("user_id = ?", uid)
	if c.Query("unacked") == "true" {
		q = q.Where("acknowledged = ?", false)
	}

	var alerts []models.Alert
	if err := q.Order("created_at DESC").Limit(limit).Find(&alerts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"alerts": alerts, "count": len(alerts)})
}

// AcknowledgeAlert marks one alert as seen.
func AcknowledgeAlert(c *gin.Context) {
	uid := c.GetUint("userID")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid alert id"})
		return
	}

	result := config.DB.Model(&models.Alert{}).
		Where("id = ? AND user_id = ?", id, uid).
		Update("acknowledged", true)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error.Error()})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "alert not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "alert acknowledged"})
}
