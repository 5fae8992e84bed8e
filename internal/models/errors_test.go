package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetchError struct{ url string }

func (e *fakeFetchError) Error() string    { return "request failed: " + e.url }
func (e *fakeFetchError) FetchURL() string { return e.url }

func TestMissingSubResourceError_Messages(t *testing.T) {
	assert.Equal(t,
		"No readiness data found for sleep document with id: 'test_id'",
		(&MissingSubResourceError{Resource: NoReadinessDataFound, SleepID: "test_id"}).Error())
	assert.Equal(t,
		"No readiness score found for sleep document with id: 'test_id'",
		(&MissingSubResourceError{Resource: NoReadinessScoreFound, SleepID: "test_id"}).Error())
	assert.Equal(t,
		"No heart rate data found for sleep document with id: 'a'",
		(&MissingSubResourceError{Resource: NoHeartRateDataFound, SleepID: "a"}).Error())
}

func TestUnknownEnumVariantError_Message(t *testing.T) {
	err := &UnknownEnumVariantError{EnumName: "HeartRateSource", Variant: "not-existing"}
	assert.Equal(t, "Unknown HeartRateSource: 'not-existing'", err.Error())
}

func TestParseError_UnwrapsCause(t *testing.T) {
	cause := errors.New("boom")
	err := &ParseError{Kind: DateParsing, Input: "2021-13-01", Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "Cannot parse Oura API date '2021-13-01'")
}

func TestErrorRecord_Categories(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCategory
	}{
		{"parse", &ParseError{Kind: TimestampParsing, Input: "x", Err: errors.New("bad")}, CategoryParsing},
		{"wrapped parse", fmt.Errorf("heart rate: %w", &ParseError{Kind: TimestampParsing, Input: "x"}), CategoryParsing},
		{"enum", &UnknownEnumVariantError{EnumName: "SleepType", Variant: "nap"}, CategoryUnknownEnum},
		{"missing", &MissingSubResourceError{Resource: NoHRVDataFound, SleepID: "s"}, CategoryMissingData},
		{"fetch", &fakeFetchError{url: "/v2/usercollection/sleep"}, CategoryFetch},
		{"other", errors.New("something else"), CategoryUncategorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := ErrorRecord("alice", tt.err)

			require.Equal(t, KindError, record.Kind)
			require.NotNil(t, record.Error)
			assert.Equal(t, tt.want, record.Error.Category)
			assert.Equal(t, tt.err.Error(), record.Error.Message)
			assert.Equal(t, "alice", record.Person())

			_, ok := record.Timestamp()
			assert.False(t, ok)
		})
	}
}
