package services

import (
	"errors"
	"time"

	"github.com/wesdalton/Respire/config"
	"github.com/wesdalton/Respire/models"
)

type ProfileInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func GetUserProfile(email string) (map[string]interface{}, error) {
	var user models.User
	result := config.DB.Where("email = ? AND disabled = ?", email, false).First(&user)
	if result.Error != nil {
		return nil, errors.New("user not found or disabled")
	}

	return map[string]interface{}{
		"id":           user.ID,
		"email":        user.Email,
		"first_name":   user.FirstName,
		"last_name":    user.LastName,
		"whoop_linked": user.WhoopAccessToken != "",
		"member_since": user.CreatedAt.Format("2006-01-02"),
	}, nil
}

func UpdateUserProfile(email string, input ProfileInput) error {
	var user models.User
	result := config.DB.Where("email = ? AND disabled = ?", email, false).First(&user)
	if result.Error != nil {
		return errors.New("user not found or disabled")
	}

	if input.FirstName != "" {
		user.FirstName = input.FirstName
	}
	if input.LastName != "" {
		user.LastName = input.LastName
	}

	return config.DB.Save(&user).Error
}

func FindUserByEmail(email string) (*models.User, error) {
	var user models.User
	result := config.DB.First(&user, "email = ?", email)
	if result.Error != nil {
		return nil, errors.New("user not found")
	}
	return &user, nil
}

func DeleteUser(email string) error {
	var user models.User
	result := config.DB.First(&user, "email = ?", email)
	if result.Error != nil {
		return result.Error
	}
	user.Disabled = true
	return config.DB.Save(&user).Error
}

// LinkWhoopAccount stores the tokens a user provisioned for their WHOOP
// account so the sync endpoint can pull on their behalf.
func LinkWhoopAccount(email, whoopUserID, accessToken, refreshToken string, expiresAt *time.Time) error {
	var user models.User
	if err := config.DB.
		Where("email = ? AND disabled = ?", email, false).
		First(&user).Error; err != nil {
		return errors.New("user not found or disabled")
	}

	user.WhoopUserID = whoopUserID
	user.WhoopAccessToken = accessToken
	user.WhoopRefreshToken = refreshToken
	user.WhoopTokenExpiresAt = expiresAt

	return config.DB.Save(&user).Error
}
