package services

import (
	"fmt"
	"log"
	"time"

	"github.com/wesdalton/Respire/analysis"
	"github.com/wesdalton/Respire/models"
	"github.com/wesdalton/Respire/utils"
	"gorm.io/gorm"
)

type alertDeps struct {
	db *gorm.DB
	rt *RealtimeHub
	ps *PushService
}

var _alert alertDeps

func InitAlertDeps(db *gorm.DB, rt *RealtimeHub, ps *PushService) {
	_alert = alertDeps{db: db, rt: rt, ps: ps}
}

// EmitRiskAlert fans a burnout threshold crossing out to every channel
// the user has: stored alert, websocket, push, and email once the level
// is critical. Safe to call anywhere; does nothing until wired up.
func EmitRiskAlert(userID uint, level analysis.RiskLevel, score float64, message string) {
	if _alert.db == nil {
		return // not initialized
	}
	a := &models.Alert{
		UserID:    userID,
		Type:      "burnout_risk",
		Level:     level.String(),
		Score:     score,
		Message:   message,
		CreatedAt: time.Now(),
	}
	_ = _alert.db.Create(a).Error

	if _alert.rt != nil {
		_alert.rt.BroadcastAlert(userID, map[string]any{
			"kind":  "alert.created",
			"alert": a,
		})
	}
	if _alert.ps != nil {
		_alert.ps.PushToUser(userID, "Burnout risk "+level.String(), message, map[string]string{
			"type": a.Type, "level": a.Level, "alertId": fmt.Sprintf("%d", a.ID),
		})
	}

	if level.AtLeast(analysis.LevelCritical) {
		var user models.User
		if err := _alert.db.First(&user, userID).Error; err == nil {
			if err := utils.SendRiskAlertEmail(user.Email, a.Level, score, message); err != nil {
				log.Printf("risk alert email to user %d failed: %v", userID, err)
			}
		}
	}
}

// EmitScoredEvent streams a fresh assessment to the user's open
// sockets so dashboards update without polling.
func EmitScoredEvent(userID uint, result any) {
	if _alert.rt == nil {
		return
	}
	_alert.rt.BroadcastEvent(userID, "burnout.scored", result)
}

// EmitInfoAlert stores a plain informational alert (sync completed,
// data gaps found) without push or email noise.
func EmitInfoAlert(userID uint, typ, message string) {
	if _alert.db == nil {
		return
	}
	a := &models.Alert{UserID: userID, Type: typ, Message: message, CreatedAt: time.Now()}
	_ = _alert.db.Create(a).Error

	if _alert.rt != nil {
		_alert.rt.BroadcastAlert(userID, map[string]any{
			"kind":  "alert.created",
			"alert": a,
		})
	}
}
