package db

import (
	"github.com/terraincognita07/bristol/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TimerRepository struct {
	database *gorm.DB
}

func NewTimerRepository(database *gorm.DB) *TimerRepository {
	return &TimerRepository{database: database}
}

// FindByUser reports found=false for users that never touched their timer.
func (repo *TimerRepository) FindByUser(userID uint) (models.Timer, bool, error) {
	timer := models.Timer{}
	result := repo.database.Where("user_id = ?", userID).Limit(1).Find(&timer)
	if result.Error != nil {
		return models.Timer{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Timer{UserID: userID}, false, nil
	}
	return timer, true, nil
}

func (repo *TimerRepository) Upsert(timer *models.Timer) error {
	return repo.database.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"started_at", "elapsed_seconds", "updated_at"}),
	}).Create(timer).Error
}

func (repo *TimerRepository) DeleteByUser(userID uint) error {
	return repo.database.Where("user_id = ?", userID).Delete(&models.Timer{}).Error
}
