package transformer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lordthorzonus/oura-api-exporter/internal/models"
)

func TestParseHeartRateSource_RoundTrip(t *testing.T) {
	for _, literal := range []string{"awake", "rest", "sleep", "session", "live"} {
		source, err := ParseHeartRateSource(literal)
		require.NoError(t, err)
		assert.Equal(t, literal, source.String())
	}
}

func TestParseHeartRateSource_Unknown(t *testing.T) {
	_, err := ParseHeartRateSource("not-existing")
	require.Error(t, err)
	assert.Equal(t, "Unknown HeartRateSource: 'not-existing'", err.Error())
}

func TestParseSleepType(t *testing.T) {
	for _, literal := range []string{"deleted", "sleep", "long_sleep", "late_nap", "rest"} {
		st, err := ParseSleepType(literal)
		require.NoError(t, err)
		assert.Equal(t, literal, st.String())
	}

	_, err := ParseSleepType("nap")
	assert.EqualError(t, err, "Unknown SleepType: 'nap'")
}

func TestParseSleepPhase(t *testing.T) {
	want := map[rune]models.SleepPhaseType{
		'1': models.SleepPhaseDeepSleep,
		'2': models.SleepPhaseLightSleep,
		'3': models.SleepPhaseREMSleep,
		'4': models.SleepPhaseAwake,
	}
	for c, phase := range want {
		got, err := ParseSleepPhase(c)
		require.NoError(t, err)
		assert.Equal(t, phase, got)
	}

	_, err := ParseSleepPhase('5')
	assert.EqualError(t, err, "Unknown SleepPhaseType: '5'")
}
