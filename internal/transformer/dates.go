package transformer

import (
	"time"

	"github.com/lordthorzonus/oura-api-exporter/internal/models"
)

// Offsets without a colon appear in older API responses.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999-0700",
}

// ParseTimestamp parses an Oura RFC 3339 timestamp, with or without
// fractional seconds, and returns it in UTC.
func ParseTimestamp(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
		if lastErr == nil {
			lastErr = err
		}
	}
	return time.Time{}, &models.ParseError{Kind: models.TimestampParsing, Input: s, Err: lastErr}
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (models.Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return models.Date{}, &models.ParseError{Kind: models.DateParsing, Input: s, Err: err}
	}
	return models.DateOf(t), nil
}
