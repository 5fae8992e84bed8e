package models

import "time"

// Contributors are the readiness sub-scores.
type Contributors struct {
	ActivityBalance     uint8 `json:"activity_balance"`
	BodyTemperature     uint8 `json:"body_temperature"`
	HRVBalance          uint8 `json:"hrv_balance"`
	PreviousDayActivity uint8 `json:"previous_day_activity"`
	PreviousNight       uint8 `json:"previous_night"`
	RecoveryIndex       uint8 `json:"recovery_index"`
	RestingHeartRate    uint8 `json:"resting_heart_rate"`
	SleepBalance        uint8 `json:"sleep_balance"`
}

// Readiness is the readiness summary embedded in a sleep document.
// Timestamp is midnight UTC of the sleep day.
type Readiness struct {
	Score                     uint8        `json:"score"`
	TemperatureDeviation      *float64     `json:"temperature_deviation,omitempty"`
	TemperatureTrendDeviation *float64     `json:"temperature_trend_deviation,omitempty"`
	Contributors              Contributors `json:"contributors"`
	Timestamp                 time.Time    `json:"timestamp"`
	PersonName                string       `json:"person_name"`
}
