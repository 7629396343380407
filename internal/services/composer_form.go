package services

import (
	"strings"
	"time"

	"github.com/terraincognita07/bristol/internal/models"
)

const (
	analysisNotesPrefix        = "AI Analysis: "
	recommendationsNotesPrefix = "Health Recommendations: "
)

// MergeStatus tracks whether an inbound text block was folded into notes.
type MergeStatus int

const (
	MergeNone MergeStatus = iota
	MergePending
	MergeApplied
)

func (status MergeStatus) String() string {
	switch status {
	case MergePending:
		return "pending"
	case MergeApplied:
		return "applied"
	default:
		return "none"
	}
}

// ComposerForm is the in-progress, never persisted state of an entry.
type ComposerForm struct {
	Name     string
	Type     int
	Volume   int
	Feeling  int
	Color    int
	Notes    string
	Duration int

	ImageURI        *string
	AnalysisDetails *string
	Recommendations *string

	AnalysisMerge       MergeStatus
	RecommendationMerge MergeStatus
}

// TimeOfDay names the part of the day the clock is in.
func TimeOfDay(now time.Time) string {
	hour := now.Hour()
	switch {
	case hour >= 5 && hour < 12:
		return "Morning"
	case hour >= 12 && hour < 17:
		return "Afternoon"
	case hour >= 17 && hour < 21:
		return "Evening"
	default:
		return "Night"
	}
}

func DefaultEntryName(now time.Time) string {
	return TimeOfDay(now) + " Poop"
}

// NewComposerForm seeds the form from navigation parameters. Feeling has no
// parameter and always starts at its default unless a return context brings
// the user's earlier form back.
func NewComposerForm(params ComposerParams, now time.Time, location *time.Location) ComposerForm {
	if params.Restore != nil {
		form := params.Restore.ComposerForm()
		form.Type = intOrDefault(params.Type, form.Type)
		form.Volume = intOrDefault(params.Volume, form.Volume)
		form.Color = intOrDefault(params.Color, form.Color)
		if params.ImageURI != nil {
			form.ImageURI = params.ImageURI
		}
		return form
	}
	if location == nil {
		location = time.UTC
	}
	return ComposerForm{
		Name:     DefaultEntryName(now.In(location)),
		Type:     intOrDefault(params.Type, models.DefaultEntryType),
		Volume:   intOrDefault(params.Volume, models.DefaultEntryVolume),
		Feeling:  models.DefaultEntryFeeling,
		Color:    intOrDefault(params.Color, models.DefaultEntryColor),
		ImageURI: params.ImageURI,
	}
}

// Absorb folds the shared timer and any returned analysis into the form.
// Running it again with the same inputs leaves the notes unchanged.
func (form *ComposerForm) Absorb(params ComposerParams, currentTimer int, timerPresent bool) {
	form.AbsorbTimer(currentTimer, timerPresent)
	if params.ImageURI != nil {
		form.ImageURI = params.ImageURI
	}

	if params.AnalysisDetails != nil {
		details := *params.AnalysisDetails
		form.AnalysisDetails = &details
		if strings.TrimSpace(details) != "" && form.AnalysisMerge != MergeApplied {
			form.Notes = analysisNotesPrefix + details + "\n\n" + form.Notes
			form.AnalysisMerge = MergeApplied
		}
	}

	if params.Recommendations != nil {
		recommendations := *params.Recommendations
		form.Recommendations = &recommendations
		if strings.TrimSpace(recommendations) != "" && form.RecommendationMerge != MergeApplied {
			form.Notes = form.Notes + "\n" + recommendationsNotesPrefix + recommendations
			form.RecommendationMerge = MergeApplied
		}
	}
}

// AbsorbTimer takes the duration from the timer unless it is absent or zero.
func (form *ComposerForm) AbsorbTimer(seconds int, present bool) {
	if present && seconds != 0 {
		form.Duration = seconds
	}
}

func (form ComposerForm) HasImage() bool {
	return form.ImageURI != nil && *form.ImageURI != ""
}

func (form ComposerForm) IsAnalyzed() bool {
	return form.AnalysisDetails != nil && *form.AnalysisDetails != ""
}

func (form ComposerForm) SaveButtonLabel() string {
	if form.HasImage() && !form.IsAnalyzed() {
		return "Analyze & Save Entry"
	}
	return "Save Entry"
}

func (form ComposerForm) AnalysisBadge() string {
	if form.IsAnalyzed() {
		return "AI Analyzed"
	}
	return "Ready for AI Analysis"
}

// Normalize pulls categorical fields back into range after user edits.
func (form *ComposerForm) Normalize() {
	if !models.IsValidEntryType(form.Type) {
		form.Type = models.DefaultEntryType
	}
	if !models.IsValidEntryVolume(form.Volume) {
		form.Volume = models.DefaultEntryVolume
	}
	if !models.IsValidEntryFeeling(form.Feeling) {
		form.Feeling = models.DefaultEntryFeeling
	}
	if !models.IsValidEntryColor(form.Color) {
		form.Color = models.DefaultEntryColor
	}
	if form.Duration < 0 {
		form.Duration = 0
	}
}

// Entry freezes the form into a record stamped with now.
func (form ComposerForm) Entry(userID uint, now time.Time) models.Entry {
	return models.Entry{
		ID:              EntryIDAt(now),
		UserID:          userID,
		Date:            now,
		Name:            form.Name,
		Type:            form.Type,
		Volume:          form.Volume,
		Feeling:         form.Feeling,
		Color:           form.Color,
		Duration:        form.Duration,
		Notes:           form.Notes,
		ImageURI:        copyOptionalString(form.ImageURI),
		AnalysisDetails: copyOptionalString(form.AnalysisDetails),
		Recommendations: copyOptionalString(form.Recommendations),
	}
}

func copyOptionalString(value *string) *string {
	if value == nil {
		return nil
	}
	copied := *value
	return &copied
}
