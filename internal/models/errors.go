package models

import (
	"errors"
	"fmt"
)

// ParseErrorKind tells which vendor value could not be parsed.
type ParseErrorKind int

const (
	TimestampParsing ParseErrorKind = iota + 1
	DateParsing
)

// ParseError is returned when a vendor timestamp or date string is malformed.
type ParseError struct {
	Kind  ParseErrorKind
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	what := "timestamp"
	if e.Kind == DateParsing {
		what = "date"
	}
	return fmt.Sprintf("Cannot parse Oura API %s '%s': %v", what, e.Input, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// UnknownEnumVariantError is returned when a vendor string or digit has no
// matching enum value.
type UnknownEnumVariantError struct {
	EnumName string
	Variant  string
}

func (e *UnknownEnumVariantError) Error() string {
	return fmt.Sprintf("Unknown %s: '%s'", e.EnumName, e.Variant)
}

// MissingSubResource names an optional block of a sleep document.
type MissingSubResource int

const (
	NoReadinessDataFound MissingSubResource = iota + 1
	NoReadinessScoreFound
	NoHeartRateDataFound
	NoHRVDataFound
)

// MissingSubResourceError is returned when a derivation needs a sleep
// document block that the vendor did not send.
type MissingSubResourceError struct {
	Resource MissingSubResource
	SleepID  string
}

func (e *MissingSubResourceError) Error() string {
	var what string
	switch e.Resource {
	case NoReadinessDataFound:
		what = "readiness data"
	case NoReadinessScoreFound:
		what = "readiness score"
	case NoHeartRateDataFound:
		what = "heart rate data"
	case NoHRVDataFound:
		what = "HRV data"
	default:
		what = "data"
	}
	return fmt.Sprintf("No %s found for sleep document with id: '%s'", what, e.SleepID)
}

// FetchError is implemented by errors coming from the vendor API client.
type FetchError interface {
	error
	FetchURL() string
}

// ErrorCategory groups error records for logging and metrics.
type ErrorCategory string

const (
	CategoryParsing       ErrorCategory = "parsing"
	CategoryUnknownEnum   ErrorCategory = "unknown_enum"
	CategoryMissingData   ErrorCategory = "missing_data"
	CategoryFetch         ErrorCategory = "fetch"
	CategoryUncategorized ErrorCategory = "other"
)

// ErrorDetails is the payload of an Error record.
type ErrorDetails struct {
	Category   ErrorCategory
	Message    string
	PersonName string
	Err        error
}

// ErrorRecord converts a recovered derivation or fetch failure into an Error
// record for person.
func ErrorRecord(person string, err error) Record {
	var (
		parseErr   *ParseError
		enumErr    *UnknownEnumVariantError
		missingErr *MissingSubResourceError
		fetchErr   FetchError
	)

	category := CategoryUncategorized
	switch {
	case errors.As(err, &parseErr):
		category = CategoryParsing
	case errors.As(err, &enumErr):
		category = CategoryUnknownEnum
	case errors.As(err, &missingErr):
		category = CategoryMissingData
	case errors.As(err, &fetchErr):
		category = CategoryFetch
	}

	message := "unknown error"
	if err != nil {
		message = err.Error()
	}

	return Record{
		Kind: KindError,
		Error: &ErrorDetails{
			Category:   category,
			Message:    message,
			PersonName: person,
			Err:        err,
		},
	}
}
