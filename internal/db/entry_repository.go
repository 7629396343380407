package db

import (
	"time"

	"github.com/terraincognita07/bristol/internal/models"
	"gorm.io/gorm"
)

type EntryRepository struct {
	database *gorm.DB
}

func NewEntryRepository(database *gorm.DB) *EntryRepository {
	return &EntryRepository{database: database}
}

func (repo *EntryRepository) ListByUser(userID uint) ([]models.Entry, error) {
	entries := make([]models.Entry, 0)
	if err := repo.database.Where("user_id = ?", userID).Order("date DESC, id DESC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (repo *EntryRepository) ListByUserRange(userID uint, fromStart *time.Time, toEnd *time.Time) ([]models.Entry, error) {
	query := repo.database.Model(&models.Entry{}).Where("user_id = ?", userID)
	if fromStart != nil {
		query = query.Where("date >= ?", fromStart.UTC())
	}
	if toEnd != nil {
		query = query.Where("date < ?", toEnd.UTC())
	}

	entries := make([]models.Entry, 0)
	if err := query.Order("date ASC, id ASC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (repo *EntryRepository) FindByUserAndID(userID uint, entryID string) (models.Entry, bool, error) {
	entry := models.Entry{}
	result := repo.database.
		Where("user_id = ? AND id = ?", userID, entryID).
		Limit(1).
		Find(&entry)
	if result.Error != nil {
		return models.Entry{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Entry{}, false, nil
	}
	return entry, true, nil
}

func (repo *EntryRepository) AddEntry(entry *models.Entry) error {
	return repo.database.Create(entry).Error
}

func (repo *EntryRepository) DeleteByUserAndID(userID uint, entryID string) (bool, error) {
	result := repo.database.Where("user_id = ? AND id = ?", userID, entryID).Delete(&models.Entry{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
