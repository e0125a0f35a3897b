package models

import "time"

type Alert struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"index" json:"user_id"`
	Type         string    `gorm:"size:32" json:"type"` // "burnout_risk" | "data_gap" | "info"
	Level        string    `gorm:"size:16" json:"level"`
	Score        float64   `json:"score"`
	Message      string    `gorm:"type:text" json:"message"`
	Acknowledged bool      `gorm:"default:false" json:"acknowledged"`
	CreatedAt    time.Time `json:"created_at"`
}
