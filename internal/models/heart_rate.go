package models

import "time"

// HeartRateSource is the measurement context reported by the ring.
type HeartRateSource string

const (
	HeartRateSourceAwake   HeartRateSource = "awake"
	HeartRateSourceRest    HeartRateSource = "rest"
	HeartRateSourceSleep   HeartRateSource = "sleep"
	HeartRateSourceSession HeartRateSource = "session"
	HeartRateSourceLive    HeartRateSource = "live"
)

// HeartRateSources lists every known source in wire order.
var HeartRateSources = []HeartRateSource{
	HeartRateSourceAwake,
	HeartRateSourceRest,
	HeartRateSourceSleep,
	HeartRateSourceSession,
	HeartRateSourceLive,
}

func (s HeartRateSource) String() string {
	return string(s)
}

// HeartRate is one heart-rate sample.
type HeartRate struct {
	BPM        uint8           `json:"bpm"`
	Source     HeartRateSource `json:"source"`
	Timestamp  time.Time       `json:"timestamp"`
	PersonName string          `json:"person_name"`
}

// HeartRateVariability is one HRV sample in milliseconds.
type HeartRateVariability struct {
	MS         uint16    `json:"ms"`
	Timestamp  time.Time `json:"timestamp"`
	PersonName string    `json:"person_name"`
}
