package services

import (
	"fmt"
	"time"

	"github.com/terraincognita07/bristol/internal/models"
)

type TimerRepository interface {
	FindByUser(userID uint) (models.Timer, bool, error)
	Upsert(timer *models.Timer) error
	DeleteByUser(userID uint) error
}

// TimerState is the public view of a user's timer.
type TimerState struct {
	Running bool `json:"running"`
	Seconds int  `json:"seconds"`
}

type TimerService struct {
	timers TimerRepository
	now    func() time.Time
}

func NewTimerService(timers TimerRepository) *TimerService {
	return &TimerService{timers: timers, now: time.Now}
}

// Start is a no-op on a running timer.
func (service *TimerService) Start(userID uint) (TimerState, error) {
	timer, _, err := service.timers.FindByUser(userID)
	if err != nil {
		return TimerState{}, err
	}
	now := service.now().UTC()
	if !timer.Running() {
		timer.UserID = userID
		timer.StartedAt = &now
		timer.UpdatedAt = now
		if err := service.timers.Upsert(&timer); err != nil {
			return TimerState{}, err
		}
	}
	return timerStateAt(timer, now), nil
}

// Stop folds the running span into the elapsed seconds.
func (service *TimerService) Stop(userID uint) (TimerState, error) {
	timer, found, err := service.timers.FindByUser(userID)
	if err != nil {
		return TimerState{}, err
	}
	now := service.now().UTC()
	if found && timer.Running() {
		timer.ElapsedSeconds = timer.CurrentSeconds(now)
		timer.StartedAt = nil
		timer.UpdatedAt = now
		if err := service.timers.Upsert(&timer); err != nil {
			return TimerState{}, err
		}
	}
	return timerStateAt(timer, now), nil
}

func (service *TimerService) State(userID uint) (TimerState, error) {
	timer, _, err := service.timers.FindByUser(userID)
	if err != nil {
		return TimerState{}, err
	}
	return timerStateAt(timer, service.now().UTC()), nil
}

// Current reports present=false for users that never started a timer.
func (service *TimerService) Current(userID uint) (int, bool, error) {
	timer, found, err := service.timers.FindByUser(userID)
	if err != nil {
		return 0, false, err
	}
	if !found {
		return 0, false, nil
	}
	return timer.CurrentSeconds(service.now().UTC()), true, nil
}

func (service *TimerService) Reset(userID uint) error {
	return service.timers.DeleteByUser(userID)
}

func timerStateAt(timer models.Timer, now time.Time) TimerState {
	return TimerState{
		Running: timer.Running(),
		Seconds: timer.CurrentSeconds(now),
	}
}

// FormatDuration renders seconds as "{m}m {s}s".
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
}
