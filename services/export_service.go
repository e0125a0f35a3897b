package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/wesdalton/Respire/models"
	"github.com/wesdalton/Respire/utils"

	"gorm.io/gorm"
)

type ExportService struct{ db *gorm.DB }

func NewExportService(db *gorm.DB) *ExportService { return &ExportService{db: db} }

// ExportBundle is everything a user can take with them: profile, metric
// rows, and alert history. Credentials and tokens stay out.
type ExportBundle struct {
	ExportedAt time.Time `json:"exported_at"`

	User struct {
		ID          uint      `json:"id"`
		Email       string    `json:"email"`
		FirstName   string    `json:"first_name"`
		LastName    string    `json:"last_name"`
		MemberSince time.Time `json:"member_since"`
	} `json:"user"`

	Metrics []models.DailyMetric `json:"metrics"`
	Alerts  []models.Alert       `json:"alerts"`
}

func (s *ExportService) Export(ctx context.Context, userID uint) (*ExportBundle, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, err
	}

	out := &ExportBundle{ExportedAt: time.Now().UTC()}
	out.User.ID = user.ID
	out.User.Email = user.Email
	out.User.FirstName = user.FirstName
	out.User.LastName = user.LastName
	out.User.MemberSince = user.CreatedAt

	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date ASC").
		Find(&out.Metrics).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&out.Alerts).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Archive renders the export as JSON, stores it in S3, and returns the
// object key.
func (s *ExportService) Archive(ctx context.Context, userID uint) (string, error) {
	bundle, err := s.Export(ctx, userID)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return "", err
	}
	return utils.UploadJSONExport(ctx, userID, data)
}
