package services

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrExportFromDateInvalid = errors.New("export invalid from date")
	ErrExportToDateInvalid   = errors.New("export invalid to date")
	ErrExportRangeInvalid    = errors.New("export invalid range")
)

// ParseExportRange reads optional YYYY-MM-DD bounds. Both bounds are calendar
// days in location and to is inclusive.
func ParseExportRange(rawFrom string, rawTo string, location *time.Location) (*time.Time, *time.Time, error) {
	from, ok := parseExportDay(rawFrom, location)
	if !ok {
		return nil, nil, ErrExportFromDateInvalid
	}
	to, ok := parseExportDay(rawTo, location)
	if !ok {
		return nil, nil, ErrExportToDateInvalid
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, nil, ErrExportRangeInvalid
	}
	return from, to, nil
}

func parseExportDay(raw string, location *time.Location) (*time.Time, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, true
	}
	location = exportLocation(location)
	parsed, err := time.ParseInLocation(exportDateLayout, trimmed, location)
	if err != nil {
		return nil, false
	}
	day := DateAtLocation(parsed, location)
	return &day, true
}
