package models

import "time"

// Kind discriminates the payload carried by a Record.
type Kind int

const (
	KindHeartRate Kind = iota + 1
	KindHeartRateVariability
	KindSleep
	KindSleepPhase
	KindReadiness
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindHeartRate:
		return "heart_rate"
	case KindHeartRateVariability:
		return "heart_rate_variability"
	case KindSleep:
		return "sleep"
	case KindSleepPhase:
		return "sleep_phase"
	case KindReadiness:
		return "readiness"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// Record is the unit flowing from the poller to the exporter.
// Exactly one payload pointer matching Kind is set.
type Record struct {
	Kind                 Kind
	HeartRate            *HeartRate
	HeartRateVariability *HeartRateVariability
	Sleep                *Sleep
	SleepPhase           *SleepPhase
	Readiness            *Readiness
	Error                *ErrorDetails
}

func NewHeartRateRecord(hr HeartRate) Record {
	return Record{Kind: KindHeartRate, HeartRate: &hr}
}

func NewHeartRateVariabilityRecord(hrv HeartRateVariability) Record {
	return Record{Kind: KindHeartRateVariability, HeartRateVariability: &hrv}
}

func NewSleepRecord(s Sleep) Record {
	return Record{Kind: KindSleep, Sleep: &s}
}

func NewSleepPhaseRecord(p SleepPhase) Record {
	return Record{Kind: KindSleepPhase, SleepPhase: &p}
}

func NewReadinessRecord(r Readiness) Record {
	return Record{Kind: KindReadiness, Readiness: &r}
}

// Person returns the person name carried by the payload.
func (r Record) Person() string {
	switch r.Kind {
	case KindHeartRate:
		return r.HeartRate.PersonName
	case KindHeartRateVariability:
		return r.HeartRateVariability.PersonName
	case KindSleep:
		return r.Sleep.PersonName
	case KindSleepPhase:
		return r.SleepPhase.PersonName
	case KindReadiness:
		return r.Readiness.PersonName
	case KindError:
		return r.Error.PersonName
	default:
		return ""
	}
}

// Timestamp returns the instant a record describes. Sleep records use the
// bedtime start. Error records have no timestamp and report false.
func (r Record) Timestamp() (time.Time, bool) {
	switch r.Kind {
	case KindHeartRate:
		return r.HeartRate.Timestamp, true
	case KindHeartRateVariability:
		return r.HeartRateVariability.Timestamp, true
	case KindSleep:
		return r.Sleep.BedtimeStart, true
	case KindSleepPhase:
		return r.SleepPhase.Timestamp, true
	case KindReadiness:
		return r.Readiness.Timestamp, true
	default:
		return time.Time{}, false
	}
}
