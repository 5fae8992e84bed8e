package oura

// Response is the envelope of every usercollection endpoint.
// NextToken is decoded but pagination is not followed.
type Response[T any] struct {
	Data      []T     `json:"data"`
	NextToken *string `json:"next_token"`
}

// HeartRateSample is one item of the heartrate endpoint.
type HeartRateSample struct {
	BPM       uint8  `json:"bpm"`
	Source    string `json:"source"`
	Timestamp string `json:"timestamp"`
}

// IntervalSeries is a fixed-step sample series embedded in sleep documents.
// The first item belongs to Timestamp, item i to Timestamp + i*round(Interval)
// seconds. Null items are gaps.
type IntervalSeries struct {
	Interval  float64    `json:"interval"`
	Items     []*float64 `json:"items"`
	Timestamp string     `json:"timestamp"`
}

// ReadinessContributors are the readiness sub-scores of a sleep document.
type ReadinessContributors struct {
	ActivityBalance     uint8 `json:"activity_balance"`
	BodyTemperature     uint8 `json:"body_temperature"`
	HRVBalance          uint8 `json:"hrv_balance"`
	PreviousDayActivity uint8 `json:"previous_day_activity"`
	PreviousNight       uint8 `json:"previous_night"`
	RecoveryIndex       uint8 `json:"recovery_index"`
	RestingHeartRate    uint8 `json:"resting_heart_rate"`
	SleepBalance        uint8 `json:"sleep_balance"`
}

// SleepReadiness is the readiness block embedded in a sleep document.
type SleepReadiness struct {
	Contributors              ReadinessContributors `json:"contributors"`
	Score                     *uint8                `json:"score"`
	TemperatureDeviation      *float64              `json:"temperature_deviation"`
	TemperatureTrendDeviation *float64              `json:"temperature_trend_deviation"`
}

// SleepDocument is one item of the sleep endpoint.
type SleepDocument struct {
	ID                  string          `json:"id"`
	AverageBreath       *float64        `json:"average_breath"`
	AverageHeartRate    *float64        `json:"average_heart_rate"`
	AverageHRV          *int            `json:"average_hrv"`
	AwakeTime           int             `json:"awake_time"`
	BedtimeEnd          string          `json:"bedtime_end"`
	BedtimeStart        string          `json:"bedtime_start"`
	Day                 string          `json:"day"`
	DeepSleepDuration   *int            `json:"deep_sleep_duration"`
	Efficiency          *int            `json:"efficiency"`
	HeartRate           *IntervalSeries `json:"heart_rate"`
	HRV                 *IntervalSeries `json:"hrv"`
	Latency             *int            `json:"latency"`
	LightSleepDuration  *int            `json:"light_sleep_duration"`
	LowBatteryAlert     bool            `json:"low_battery_alert"`
	LowestHeartRate     *int            `json:"lowest_heart_rate"`
	Movement30Sec       *string         `json:"movement_30_sec"`
	Period              int             `json:"period"`
	Readiness           *SleepReadiness `json:"readiness"`
	ReadinessScoreDelta *float64        `json:"readiness_score_delta"`
	REMSleepDuration    *int            `json:"rem_sleep_duration"`
	RestlessPeriods     *int            `json:"restless_periods"`
	SleepPhase5Min      *string         `json:"sleep_phase_5_min"`
	SleepScoreDelta     *float64        `json:"sleep_score_delta"`
	TimeInBed           int             `json:"time_in_bed"`
	TotalSleepDuration  *int            `json:"total_sleep_duration"`
	Type                string          `json:"type"`
}
