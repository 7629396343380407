package models

import "time"

const (
	DefaultEntryType    = 4
	DefaultEntryVolume  = 2
	DefaultEntryFeeling = 1
	DefaultEntryColor   = 1
)

type Entry struct {
	ID              string    `gorm:"primaryKey" json:"id"`
	UserID          uint      `gorm:"primaryKey;autoIncrement:false" json:"-"`
	Date            time.Time `gorm:"not null" json:"date"`
	Name            string    `gorm:"not null" json:"name"`
	Type            int       `gorm:"not null" json:"type"`
	Volume          int       `gorm:"not null" json:"volume"`
	Feeling         int       `gorm:"not null" json:"feeling"`
	Color           int       `gorm:"not null" json:"color"`
	Duration        int       `gorm:"not null;default:0" json:"duration"`
	Notes           string    `json:"notes"`
	ImageURI        *string   `gorm:"column:image_uri" json:"imageUri,omitempty"`
	AnalysisDetails *string   `json:"analysisDetails,omitempty"`
	Recommendations *string   `json:"recommendations,omitempty"`
	CreatedAt       time.Time `json:"-"`
}
