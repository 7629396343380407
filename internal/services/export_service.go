package services

import (
	"strconv"
	"time"

	"github.com/terraincognita07/bristol/internal/models"
)

const exportDateLayout = "2006-01-02"

var ExportCSVHeaders = []string{
	"ID",
	"Date",
	"Time",
	"Name",
	"Type",
	"Volume",
	"Feeling",
	"Color",
	"Duration (s)",
	"Notes",
	"Photo",
	"Analysis",
	"Recommendations",
}

type ExportEntryReader interface {
	ListByUserRange(userID uint, fromStart *time.Time, toEnd *time.Time) ([]models.Entry, error)
}

type ExportService struct {
	entries ExportEntryReader
}

type ExportSummary struct {
	TotalEntries int    `json:"total_entries"`
	HasData      bool   `json:"has_data"`
	DateFrom     string `json:"date_from,omitempty"`
	DateTo       string `json:"date_to,omitempty"`
}

type ExportJSONEntry struct {
	ID              string `json:"id"`
	Date            string `json:"date"`
	Name            string `json:"name"`
	Type            int    `json:"type"`
	Volume          string `json:"volume"`
	Feeling         string `json:"feeling"`
	Color           string `json:"color"`
	Duration        int    `json:"duration"`
	Notes           string `json:"notes"`
	ImageURI        string `json:"imageUri,omitempty"`
	AnalysisDetails string `json:"analysisDetails,omitempty"`
	Recommendations string `json:"recommendations,omitempty"`
}

type ExportCSVRow struct {
	ID              string
	Date            string
	Time            string
	Name            string
	Type            int
	Volume          string
	Feeling         string
	Color           string
	Duration        int
	Notes           string
	ImageURI        string
	AnalysisDetails string
	Recommendations string
}

func NewExportService(entries ExportEntryReader) *ExportService {
	return &ExportService{entries: entries}
}

// loadRange treats to as an inclusive calendar day.
func (service *ExportService) loadRange(userID uint, from *time.Time, to *time.Time) ([]models.Entry, error) {
	var toEnd *time.Time
	if to != nil {
		_, next := DayRange(*to, to.Location())
		toEnd = &next
	}
	return service.entries.ListByUserRange(userID, from, toEnd)
}

func (service *ExportService) BuildSummary(userID uint, from *time.Time, to *time.Time, location *time.Location) (ExportSummary, error) {
	entries, err := service.loadRange(userID, from, to)
	if err != nil {
		return ExportSummary{}, err
	}
	if len(entries) == 0 {
		return ExportSummary{}, nil
	}

	first := entries[0].Date
	last := entries[0].Date
	for _, entry := range entries[1:] {
		if entry.Date.Before(first) {
			first = entry.Date
		}
		if entry.Date.After(last) {
			last = entry.Date
		}
	}

	return ExportSummary{
		TotalEntries: len(entries),
		HasData:      true,
		DateFrom:     DateAtLocation(first, location).Format(exportDateLayout),
		DateTo:       DateAtLocation(last, location).Format(exportDateLayout),
	}, nil
}

func (service *ExportService) BuildJSONEntries(userID uint, from *time.Time, to *time.Time, location *time.Location) ([]ExportJSONEntry, error) {
	entries, err := service.loadRange(userID, from, to)
	if err != nil {
		return nil, err
	}

	result := make([]ExportJSONEntry, 0, len(entries))
	for _, entry := range entries {
		result = append(result, ExportJSONEntry{
			ID:              entry.ID,
			Date:            entry.Date.In(exportLocation(location)).Format(time.RFC3339),
			Name:            entry.Name,
			Type:            entry.Type,
			Volume:          optionLabel(models.EntryVolumeOptions(), entry.Volume),
			Feeling:         optionLabel(models.EntryFeelingOptions(), entry.Feeling),
			Color:           optionLabel(models.EntryColorOptions(), entry.Color),
			Duration:        entry.Duration,
			Notes:           entry.Notes,
			ImageURI:        optionalText(entry.ImageURI),
			AnalysisDetails: optionalText(entry.AnalysisDetails),
			Recommendations: optionalText(entry.Recommendations),
		})
	}
	return result, nil
}

func (service *ExportService) BuildCSVRows(userID uint, from *time.Time, to *time.Time, location *time.Location) ([]ExportCSVRow, error) {
	entries, err := service.loadRange(userID, from, to)
	if err != nil {
		return nil, err
	}

	rows := make([]ExportCSVRow, 0, len(entries))
	for _, entry := range entries {
		localized := entry.Date.In(exportLocation(location))
		rows = append(rows, ExportCSVRow{
			ID:              entry.ID,
			Date:            localized.Format(exportDateLayout),
			Time:            localized.Format("15:04"),
			Name:            entry.Name,
			Type:            entry.Type,
			Volume:          optionLabel(models.EntryVolumeOptions(), entry.Volume),
			Feeling:         optionLabel(models.EntryFeelingOptions(), entry.Feeling),
			Color:           optionLabel(models.EntryColorOptions(), entry.Color),
			Duration:        entry.Duration,
			Notes:           entry.Notes,
			ImageURI:        optionalText(entry.ImageURI),
			AnalysisDetails: optionalText(entry.AnalysisDetails),
			Recommendations: optionalText(entry.Recommendations),
		})
	}
	return rows, nil
}

func (row ExportCSVRow) Columns() []string {
	return []string{
		row.ID,
		row.Date,
		row.Time,
		row.Name,
		strconv.Itoa(row.Type),
		row.Volume,
		row.Feeling,
		row.Color,
		strconv.Itoa(row.Duration),
		row.Notes,
		row.ImageURI,
		row.AnalysisDetails,
		row.Recommendations,
	}
}

func optionLabel(options []models.CategoryOption, value int) string {
	for _, option := range options {
		if option.Value == value {
			return option.Label
		}
	}
	return ""
}

func optionalText(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func exportLocation(location *time.Location) *time.Location {
	if location == nil {
		return time.UTC
	}
	return location
}
