package services

import (
	"errors"
	"strconv"
	"time"

	"github.com/terraincognita07/bristol/internal/models"
)

var (
	ErrEntryCreateFailed = errors.New("entry create failed")
	ErrTimerResetFailed  = errors.New("timer reset failed")
	ErrTimerReadFailed   = errors.New("timer read failed")
)

type EntryStore interface {
	AddEntry(entry *models.Entry) error
}

// TimerStore exposes the shared timer to the composer. present is false when
// the user has no timer value to offer.
type TimerStore interface {
	Current(userID uint) (seconds int, present bool, err error)
	Reset(userID uint) error
}

// SaveOutcome is either a detour to image analysis or a saved entry.
type SaveOutcome struct {
	Detour *ReturnContext
	Entry  *models.Entry
}

func (outcome SaveOutcome) Detoured() bool {
	return outcome.Detour != nil
}

type EntryComposer struct {
	entries  EntryStore
	timers   TimerStore
	location *time.Location
	now      func() time.Time
}

func NewEntryComposer(entries EntryStore, timers TimerStore, location *time.Location) *EntryComposer {
	if location == nil {
		location = time.UTC
	}
	return &EntryComposer{
		entries:  entries,
		timers:   timers,
		location: location,
		now:      time.Now,
	}
}

// Draft seeds a form from params without reading the timer. A restored
// return context wins over the defaults.
func (composer *EntryComposer) Draft(params ComposerParams) ComposerForm {
	return NewComposerForm(params, composer.now(), composer.location)
}

// Compose builds the form shown when the composer opens with params.
func (composer *EntryComposer) Compose(userID uint, params ComposerParams) (ComposerForm, error) {
	form := composer.Draft(params)
	if err := composer.Absorb(userID, &form, params); err != nil {
		return ComposerForm{}, err
	}
	return form, nil
}

// Absorb reads the shared timer and merges params into form.
func (composer *EntryComposer) Absorb(userID uint, form *ComposerForm, params ComposerParams) error {
	seconds, present, err := composer.timers.Current(userID)
	if err != nil {
		return err
	}
	form.Absorb(params, seconds, present)
	return nil
}

// Save detours to analysis when a photo arrived without an analysis result.
// Otherwise the entry is stored and the timer reset, in that order. The
// duration is whatever the timer holds at this moment.
func (composer *EntryComposer) Save(userID uint, params ComposerParams, form ComposerForm) (SaveOutcome, error) {
	seconds, present, err := composer.timers.Current(userID)
	if err != nil {
		return SaveOutcome{}, ErrTimerReadFailed
	}
	form.AbsorbTimer(seconds, present)

	if params.HasImage() && !params.HasAnalysis() {
		detour := NewReturnContext(*params.ImageURI, form)
		return SaveOutcome{Detour: &detour}, nil
	}

	form.Normalize()
	if params.ImageURI != nil {
		form.ImageURI = params.ImageURI
	}
	if params.AnalysisDetails != nil {
		form.AnalysisDetails = params.AnalysisDetails
	}
	if params.Recommendations != nil {
		form.Recommendations = params.Recommendations
	}

	entry := form.Entry(userID, composer.now().UTC())
	if err := composer.entries.AddEntry(&entry); err != nil {
		return SaveOutcome{}, ErrEntryCreateFailed
	}
	if err := composer.timers.Reset(userID); err != nil {
		return SaveOutcome{Entry: &entry}, ErrTimerResetFailed
	}
	return SaveOutcome{Entry: &entry}, nil
}

// EntryIDAt derives an entry id from the millisecond timestamp.
func EntryIDAt(now time.Time) string {
	return strconv.FormatInt(now.UnixMilli(), 10)
}
