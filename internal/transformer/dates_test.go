package transformer

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lordthorzonus/oura-api-exporter/internal/models"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"2021-01-01T00:00:00+00:00", time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"2021-01-01T00:00:00.000+02:00", time.Date(2020, 12, 31, 22, 0, 0, 0, time.UTC)},
		{"2022-11-07T15:00:00+03:00", time.Date(2022, 11, 7, 12, 0, 0, 0, time.UTC)},
		{"2021-06-01T08:30:15.250Z", time.Date(2021, 6, 1, 8, 30, 15, 250000000, time.UTC)},
		{"2021-01-01T00:00:00+0000", time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTimestamp(tt.input)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestParseTimestamp_Invalid(t *testing.T) {
	for _, input := range []string{"2021-01-01", "", "yesterday", "2021-01-01 00:00:00"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseTimestamp(input)
			require.Error(t, err)

			var parseErr *models.ParseError
			require.True(t, errors.As(err, &parseErr))
			assert.Equal(t, models.TimestampParsing, parseErr.Kind)
			assert.Equal(t, input, parseErr.Input)
		})
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2021-01-01")
	require.NoError(t, err)
	assert.Equal(t, models.Date{Year: 2021, Month: time.January, Day: 1}, got)

	for _, input := range []string{"2021-01-01T00:00:00+00:00", "2021-13-01", "01.01.2021"} {
		_, err := ParseDate(input)
		var parseErr *models.ParseError
		require.True(t, errors.As(err, &parseErr), input)
		assert.Equal(t, models.DateParsing, parseErr.Kind)
	}
}
