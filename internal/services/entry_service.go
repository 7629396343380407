package services

import (
	"context"
	"errors"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/terraincognita07/bristol/internal/models"
)

const PhotoURIPrefix = "/photos/"

var (
	ErrEntryNotFound     = errors.New("entry not found")
	ErrEntryLoadFailed   = errors.New("entry load failed")
	ErrEntryDeleteFailed = errors.New("entry delete failed")
)

type EntryRepository interface {
	ListByUser(userID uint) ([]models.Entry, error)
	ListByUserRange(userID uint, fromStart *time.Time, toEnd *time.Time) ([]models.Entry, error)
	FindByUserAndID(userID uint, entryID string) (models.Entry, bool, error)
	AddEntry(entry *models.Entry) error
	DeleteByUserAndID(userID uint, entryID string) (bool, error)
}

type PhotoDeleter interface {
	Delete(ctx context.Context, key string) error
}

type EntryService struct {
	entries EntryRepository
	photos  PhotoDeleter
}

func NewEntryService(entries EntryRepository, photos PhotoDeleter) *EntryService {
	return &EntryService{entries: entries, photos: photos}
}

func (service *EntryService) List(userID uint) ([]models.Entry, error) {
	entries, err := service.entries.ListByUser(userID)
	if err != nil {
		return nil, ErrEntryLoadFailed
	}
	return entries, nil
}

// ListRange lists entries between two local days, both inclusive.
func (service *EntryService) ListRange(userID uint, from *time.Time, to *time.Time) ([]models.Entry, error) {
	var toEnd *time.Time
	if to != nil {
		_, next := DayRange(*to, to.Location())
		toEnd = &next
	}
	entries, err := service.entries.ListByUserRange(userID, from, toEnd)
	if err != nil {
		return nil, ErrEntryLoadFailed
	}
	return entries, nil
}

func (service *EntryService) Get(userID uint, entryID string) (models.Entry, error) {
	entry, found, err := service.entries.FindByUserAndID(userID, strings.TrimSpace(entryID))
	if err != nil {
		return models.Entry{}, ErrEntryLoadFailed
	}
	if !found {
		return models.Entry{}, ErrEntryNotFound
	}
	return entry, nil
}

// Delete removes the entry and then its photo. A photo that cannot be removed
// is logged and left behind.
func (service *EntryService) Delete(ctx context.Context, userID uint, entryID string) error {
	entry, err := service.Get(userID, entryID)
	if err != nil {
		return err
	}

	deleted, err := service.entries.DeleteByUserAndID(userID, entry.ID)
	if err != nil {
		return ErrEntryDeleteFailed
	}
	if !deleted {
		return ErrEntryNotFound
	}

	if service.photos == nil || entry.ImageURI == nil {
		return nil
	}
	key, ok := PhotoKeyFromURI(*entry.ImageURI)
	if !ok || !PhotoKeyOwnedBy(key, userID) {
		return nil
	}
	if err := service.photos.Delete(ctx, key); err != nil {
		log.Printf("delete photo %s of entry %s: %v", key, entry.ID, err)
	}
	return nil
}

// PhotoKeyFromURI extracts the storage key from an image reference issued by
// the photo endpoint.
func PhotoKeyFromURI(uri string) (string, bool) {
	if !strings.HasPrefix(uri, PhotoURIPrefix) {
		return "", false
	}
	key := strings.TrimPrefix(uri, PhotoURIPrefix)
	if key == "" || strings.Contains(key, "..") {
		return "", false
	}
	return key, true
}

func PhotoKeyOwnedBy(key string, userID uint) bool {
	return strings.HasPrefix(key, PhotoUserPrefix(userID))
}

func PhotoUserPrefix(userID uint) string {
	return "users/" + strconv.FormatUint(uint64(userID), 10) + "/"
}
