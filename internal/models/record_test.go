package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_PersonAndTimestamp(t *testing.T) {
	ts := time.Date(2023, 5, 1, 22, 30, 0, 0, time.UTC)

	records := []Record{
		NewHeartRateRecord(HeartRate{BPM: 60, Source: HeartRateSourceRest, Timestamp: ts, PersonName: "p"}),
		NewHeartRateVariabilityRecord(HeartRateVariability{MS: 40, Timestamp: ts, PersonName: "p"}),
		NewSleepRecord(Sleep{ID: "s", BedtimeStart: ts, BedtimeEnd: ts.Add(8 * time.Hour), PersonName: "p"}),
		NewSleepPhaseRecord(SleepPhase{SleepID: "s", Phase: SleepPhaseAwake, Timestamp: ts, PersonName: "p"}),
		NewReadinessRecord(Readiness{Score: 80, Timestamp: ts, PersonName: "p"}),
	}

	for _, r := range records {
		t.Run(r.Kind.String(), func(t *testing.T) {
			got, ok := r.Timestamp()
			require.True(t, ok)
			assert.True(t, got.Equal(ts))
			assert.Equal(t, "p", r.Person())
		})
	}
}

func TestSleepPhaseType_Codes(t *testing.T) {
	assert.Equal(t, 1, SleepPhaseDeepSleep.Code())
	assert.Equal(t, 2, SleepPhaseLightSleep.Code())
	assert.Equal(t, 3, SleepPhaseREMSleep.Code())
	assert.Equal(t, 4, SleepPhaseAwake.Code())
	assert.Equal(t, "rem_sleep", SleepPhaseREMSleep.String())
}

func TestDate_MidnightAndText(t *testing.T) {
	d := Date{Year: 2023, Month: time.March, Day: 7}

	assert.Equal(t, time.Date(2023, 3, 7, 0, 0, 0, 0, time.UTC), d.Midnight())
	assert.Equal(t, "2023-03-07", d.String())

	payload, err := json.Marshal(struct {
		Day Date `json:"day"`
	}{Day: d})
	require.NoError(t, err)
	assert.JSONEq(t, `{"day":"2023-03-07"}`, string(payload))

	var decoded Date
	require.NoError(t, decoded.UnmarshalText([]byte("2023-03-07")))
	assert.Equal(t, d, decoded)
}

func TestHeartRate_JSONPayload(t *testing.T) {
	hr := HeartRate{
		BPM:        72,
		Source:     HeartRateSourceAwake,
		Timestamp:  time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC),
		PersonName: "test",
	}

	payload, err := json.Marshal(hr)
	require.NoError(t, err)
	assert.JSONEq(t, `{"bpm":72,"source":"awake","timestamp":"2021-01-01T00:00:00Z","person_name":"test"}`, string(payload))
}
