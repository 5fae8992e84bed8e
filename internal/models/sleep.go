package models

import "time"

// SleepType classifies a sleep period.
type SleepType string

const (
	SleepTypeDeleted   SleepType = "deleted"
	SleepTypeSleep     SleepType = "sleep"
	SleepTypeLongSleep SleepType = "long_sleep"
	SleepTypeLateNap   SleepType = "late_nap"
	SleepTypeRest      SleepType = "rest"
)

func (t SleepType) String() string {
	return string(t)
}

// Sleep is the normalized form of one vendor sleep document.
// Pointer fields are optional in the vendor API and stay nil when absent;
// sink specific defaults are applied by the exporter.
type Sleep struct {
	ID                  string    `json:"id"`
	Day                 Date      `json:"day"`
	BedtimeStart        time.Time `json:"bedtime_start"`
	BedtimeEnd          time.Time `json:"bedtime_end"`
	SleepType           SleepType `json:"sleep_type"`
	AverageBreath       *float64  `json:"average_breath,omitempty"`
	AverageHeartRate    *float64  `json:"average_heart_rate,omitempty"`
	AverageHRV          *int      `json:"average_hrv,omitempty"`
	AwakeTime           int       `json:"awake_time"`
	DeepSleepDuration   *int      `json:"deep_sleep_duration,omitempty"`
	Efficiency          *int      `json:"efficiency,omitempty"`
	Latency             *int      `json:"latency,omitempty"`
	LightSleepDuration  *int      `json:"light_sleep_duration,omitempty"`
	LowBatteryAlert     bool      `json:"low_battery_alert"`
	LowestHeartRate     *int      `json:"lowest_heart_rate,omitempty"`
	Period              int       `json:"period"`
	ReadinessScoreDelta *float64  `json:"readiness_score_delta,omitempty"`
	REMSleepDuration    *int      `json:"rem_sleep_duration,omitempty"`
	RestlessPeriods     *int      `json:"restless_periods,omitempty"`
	SleepScoreDelta     *float64  `json:"sleep_score_delta,omitempty"`
	TimeInBed           int       `json:"time_in_bed"`
	TotalSleepDuration  *int      `json:"total_sleep_duration,omitempty"`
	PersonName          string    `json:"person_name"`
}

// SleepPhaseType is the hypnogram stage of one 5 minute bucket.
// The numeric values are the vendor's phase digits.
type SleepPhaseType int

const (
	SleepPhaseDeepSleep  SleepPhaseType = 1
	SleepPhaseLightSleep SleepPhaseType = 2
	SleepPhaseREMSleep   SleepPhaseType = 3
	SleepPhaseAwake      SleepPhaseType = 4
)

func (p SleepPhaseType) String() string {
	switch p {
	case SleepPhaseDeepSleep:
		return "deep_sleep"
	case SleepPhaseLightSleep:
		return "light_sleep"
	case SleepPhaseREMSleep:
		return "rem_sleep"
	case SleepPhaseAwake:
		return "awake"
	default:
		return "unknown"
	}
}

// Code returns the vendor phase digit (1-4).
func (p SleepPhaseType) Code() int {
	return int(p)
}

// SleepPhase is one 5 minute bucket of a sleep document's hypnogram.
type SleepPhase struct {
	SleepID    string         `json:"sleep_id"`
	Phase      SleepPhaseType `json:"sleep_phase"`
	Timestamp  time.Time      `json:"timestamp"`
	PersonName string         `json:"person_name"`
}
