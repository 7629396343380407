package services

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/terraincognita07/bristol/internal/models"
)

var ErrReturnContextInvalid = errors.New("return context invalid")

const returnToComposerMarker = "true"

// ReturnContext carries the composer form across the analysis hop.
type ReturnContext struct {
	ImageURI string
	Name     string
	Type     int
	Volume   int
	Feeling  int
	Color    int
	Notes    string
	Duration int
}

func NewReturnContext(imageURI string, form ComposerForm) ReturnContext {
	return ReturnContext{
		ImageURI: imageURI,
		Name:     form.Name,
		Type:     form.Type,
		Volume:   form.Volume,
		Feeling:  form.Feeling,
		Color:    form.Color,
		Notes:    form.Notes,
		Duration: form.Duration,
	}
}

func (rc ReturnContext) Encode() url.Values {
	values := url.Values{}
	values.Set("imageUri", rc.ImageURI)
	values.Set("returnToAddEntry", returnToComposerMarker)
	values.Set("currentName", rc.Name)
	values.Set("currentType", strconv.Itoa(rc.Type))
	values.Set("currentVolume", strconv.Itoa(rc.Volume))
	values.Set("currentFeeling", strconv.Itoa(rc.Feeling))
	values.Set("currentColor", strconv.Itoa(rc.Color))
	values.Set("currentNotes", rc.Notes)
	values.Set("currentDuration", strconv.Itoa(rc.Duration))
	return values
}

// DecodeReturnContext rejects anything Encode could not have produced.
func DecodeReturnContext(values url.Values) (ReturnContext, error) {
	imageURI := strings.TrimSpace(values.Get("imageUri"))
	if imageURI == "" {
		return ReturnContext{}, ErrReturnContextInvalid
	}
	if values.Get("returnToAddEntry") != returnToComposerMarker {
		return ReturnContext{}, ErrReturnContextInvalid
	}

	rc := ReturnContext{
		ImageURI: imageURI,
		Name:     values.Get("currentName"),
		Notes:    values.Get("currentNotes"),
	}

	fields := []struct {
		key   string
		valid func(int) bool
		dest  *int
	}{
		{key: "currentType", valid: models.IsValidEntryType, dest: &rc.Type},
		{key: "currentVolume", valid: models.IsValidEntryVolume, dest: &rc.Volume},
		{key: "currentFeeling", valid: models.IsValidEntryFeeling, dest: &rc.Feeling},
		{key: "currentColor", valid: models.IsValidEntryColor, dest: &rc.Color},
		{key: "currentDuration", valid: func(value int) bool { return value >= 0 }, dest: &rc.Duration},
	}
	for _, field := range fields {
		parsed, err := strconv.Atoi(values.Get(field.key))
		if err != nil || !field.valid(parsed) {
			return ReturnContext{}, ErrReturnContextInvalid
		}
		*field.dest = parsed
	}

	return rc, nil
}

// ComposerForm rebuilds the form the context was taken from. Analysis is
// still pending until the composer absorbs the analyzer output.
func (rc ReturnContext) ComposerForm() ComposerForm {
	imageURI := rc.ImageURI
	return ComposerForm{
		Name:          rc.Name,
		Type:          rc.Type,
		Volume:        rc.Volume,
		Feeling:       rc.Feeling,
		Color:         rc.Color,
		Notes:         rc.Notes,
		Duration:      rc.Duration,
		ImageURI:      &imageURI,
		AnalysisMerge: MergePending,
	}
}
