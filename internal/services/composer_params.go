package services

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/terraincognita07/bristol/internal/models"
)

var ErrComposerParamsMalformed = errors.New("composer params malformed")

// ComposerParams holds the inbound navigation parameters of the entry
// composer. Categorical values are nil when absent or invalid.
type ComposerParams struct {
	ImageURI        *string
	Type            *int
	Volume          *int
	Color           *int
	AnalysisDetails *string
	Recommendations *string

	// Restore is the form the user left for analysis, when the request comes
	// back from it.
	Restore *ReturnContext
}

// ParseComposerParams decodes a raw query string exactly once.
func ParseComposerParams(rawQuery string) (ComposerParams, error) {
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return ComposerParams{}, ErrComposerParamsMalformed
	}
	return ComposerParamsFromValues(values), nil
}

// ComposerParamsFromValues reads already-decoded values, so callers holding
// url.Values must not decode them again.
func ComposerParamsFromValues(values url.Values) ComposerParams {
	params := ComposerParams{
		ImageURI:        optionalNonEmptyValue(values, "imageUri"),
		Type:            optionalCategoryValue(values, "type", models.IsValidEntryType),
		Volume:          optionalCategoryValue(values, "volume", models.IsValidEntryVolume),
		Color:           optionalCategoryValue(values, "color", models.IsValidEntryColor),
		AnalysisDetails: optionalPresentValue(values, "analysisDetails"),
		Recommendations: optionalPresentValue(values, "recommendations"),
	}
	if values.Get("returnToAddEntry") == returnToComposerMarker {
		if rc, err := DecodeReturnContext(values); err == nil {
			params.Restore = &rc
		}
	}
	return params
}

func (params ComposerParams) HasImage() bool {
	return params.ImageURI != nil
}

// HasAnalysis reports whether a non-empty analysis narrative came back with
// the request.
func (params ComposerParams) HasAnalysis() bool {
	return params.AnalysisDetails != nil && *params.AnalysisDetails != ""
}

func optionalPresentValue(values url.Values, key string) *string {
	if _, ok := values[key]; !ok {
		return nil
	}
	value := values.Get(key)
	return &value
}

func optionalNonEmptyValue(values url.Values, key string) *string {
	value := values.Get(key)
	if value == "" {
		return nil
	}
	return &value
}

func optionalCategoryValue(values url.Values, key string, valid func(int) bool) *int {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return nil
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || !valid(parsed) {
		return nil
	}
	return &parsed
}

func intOrDefault(value *int, fallback int) int {
	if value == nil {
		return fallback
	}
	return *value
}
