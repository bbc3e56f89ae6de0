package db

import (
	"github.com/terraincognita07/sleeptrack/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GoalRepository struct {
	database *gorm.DB
}

func NewGoalRepository(database *gorm.DB) *GoalRepository {
	return &GoalRepository{database: database}
}

func (repo *GoalRepository) FindByUserID(userID string) (models.Goal, bool, error) {
	goal := models.Goal{}
	result := repo.database.Where("user_id = ?", userID).Limit(1).Find(&goal)
	if result.Error != nil {
		return models.Goal{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Goal{}, false, nil
	}
	return goal, true, nil
}

// Upsert creates the user's goal or updates its target in place. The unique
// index on user_id arbitrates concurrent first submissions; created reports
// which branch ran.
func (repo *GoalRepository) Upsert(userID string, targetHours float64) (models.Goal, bool, error) {
	goal := models.Goal{}
	created := false

	err := repo.database.Transaction(func(tx *gorm.DB) error {
		candidate := models.Goal{UserID: userID, TargetHours: targetHours}
		result := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).Create(&candidate)
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 1 {
			created = true
		} else if err := tx.Model(&models.Goal{}).
			Where("user_id = ?", userID).
			Update("target_hours", targetHours).Error; err != nil {
			return err
		}

		return tx.Where("user_id = ?", userID).First(&goal).Error
	})
	if err != nil {
		return models.Goal{}, false, err
	}
	return goal, created, nil
}
