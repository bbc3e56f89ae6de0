package db

import (
	"github.com/terraincognita07/sleeptrack/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfileRepository struct {
	database *gorm.DB
}

func NewProfileRepository(database *gorm.DB) *ProfileRepository {
	return &ProfileRepository{database: database}
}

func (repo *ProfileRepository) FindByID(profileID string) (models.Profile, bool, error) {
	profile := models.Profile{}
	result := repo.database.Where("id = ?", profileID).Limit(1).Find(&profile)
	if result.Error != nil {
		return models.Profile{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Profile{}, false, nil
	}
	return profile, true, nil
}

// Ensure inserts the profile unless one already exists for the id and
// returns the stored row either way.
func (repo *ProfileRepository) Ensure(profileID string, email string) (models.Profile, error) {
	candidate := models.Profile{
		ID:    profileID,
		Email: email,
		Theme: models.ThemeSystem,
	}
	if err := repo.database.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(&candidate).Error; err != nil {
		return models.Profile{}, err
	}

	profile := models.Profile{}
	if err := repo.database.Where("id = ?", profileID).First(&profile).Error; err != nil {
		return models.Profile{}, err
	}
	return profile, nil
}

func (repo *ProfileRepository) UpdateFullName(profileID string, fullName string) error {
	return repo.database.Model(&models.Profile{}).Where("id = ?", profileID).Update("full_name", fullName).Error
}

func (repo *ProfileRepository) UpdateTheme(profileID string, theme string) error {
	return repo.database.Model(&models.Profile{}).Where("id = ?", profileID).Update("theme", theme).Error
}
