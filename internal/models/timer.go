package models

import "time"

// Timer is the per-user stopwatch that feeds an entry's duration.
type Timer struct {
	UserID         uint `gorm:"primaryKey"`
	StartedAt      *time.Time
	ElapsedSeconds int `gorm:"not null;default:0"`
	UpdatedAt      time.Time
}

func (timer Timer) Running() bool {
	return timer.StartedAt != nil
}

// CurrentSeconds folds the running span into the stored elapsed seconds.
func (timer Timer) CurrentSeconds(now time.Time) int {
	total := timer.ElapsedSeconds
	if timer.StartedAt != nil && now.After(*timer.StartedAt) {
		total += int(now.Sub(*timer.StartedAt) / time.Second)
	}
	if total < 0 {
		return 0
	}
	return total
}
