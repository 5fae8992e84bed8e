package exporter

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/lordthorzonus/oura-api-exporter/internal/models"
)

// Measurement names and pub/sub topics.
const (
	MeasurementHeartRate            = "heart_rate"
	MeasurementHeartRateVariability = "heart_rate_variability"
	MeasurementSleep                = "sleep"
	MeasurementSleepPhase           = "sleep_phase"
	MeasurementReadiness            = "readiness"

	TopicHeartRate = "heart_rate"
)

// TimeSeriesPoint is one point for a time-series sink. Timestamps have
// second precision.
type TimeSeriesPoint struct {
	Measurement string
	Tags        map[string]string
	Fields      map[string]interface{}
	Timestamp   time.Time
}

// PubSubMessage is one message for a pub/sub sink.
type PubSubMessage struct {
	Topic   string
	Payload string
}

// ItemKind tells which payload an ExportItem carries.
type ItemKind int

const (
	ItemTimeSeriesPoint ItemKind = iota + 1
	ItemPubSubMessage
)

// ExportItem is a point or a message derived from a record.
type ExportItem struct {
	Kind    ItemKind
	Point   *TimeSeriesPoint
	Message *PubSubMessage
}

func pointItem(p TimeSeriesPoint) ExportItem {
	p.Timestamp = p.Timestamp.Truncate(time.Second)
	return ExportItem{Kind: ItemTimeSeriesPoint, Point: &p}
}

func messageItem(m PubSubMessage) ExportItem {
	return ExportItem{Kind: ItemPubSubMessage, Message: &m}
}

// SerializationError is returned when a pub/sub payload cannot be encoded.
type SerializationError struct {
	Kind models.Kind
	Err  error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("failed to serialize %s payload: %v", e.Kind, e.Err)
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}

var marshalPayload = json.Marshal

// ItemsFromRecord converts one record into its export items. Heart rate
// records yield a message and a point, the other measurements a point, and
// Error records nothing. When the message payload cannot be encoded the
// point is still returned together with a *SerializationError.
func ItemsFromRecord(r models.Record) ([]ExportItem, error) {
	switch r.Kind {
	case models.KindHeartRate:
		items := []ExportItem{pointItem(heartRatePoint(r.HeartRate))}
		payload, err := marshalPayload(r.HeartRate)
		if err != nil {
			return items, &SerializationError{Kind: r.Kind, Err: err}
		}
		return append([]ExportItem{messageItem(PubSubMessage{Topic: TopicHeartRate, Payload: string(payload)})}, items...), nil
	case models.KindHeartRateVariability:
		return []ExportItem{pointItem(hrvPoint(r.HeartRateVariability))}, nil
	case models.KindSleep:
		return []ExportItem{pointItem(sleepPoint(r.Sleep))}, nil
	case models.KindSleepPhase:
		return []ExportItem{pointItem(sleepPhasePoint(r.SleepPhase))}, nil
	case models.KindReadiness:
		return []ExportItem{pointItem(readinessPoint(r.Readiness))}, nil
	default:
		return nil, nil
	}
}

func heartRatePoint(hr *models.HeartRate) TimeSeriesPoint {
	return TimeSeriesPoint{
		Measurement: MeasurementHeartRate,
		Tags: map[string]string{
			"source":      hr.Source.String(),
			"person_name": hr.PersonName,
		},
		Fields:    map[string]interface{}{"bpm": int64(hr.BPM)},
		Timestamp: hr.Timestamp,
	}
}

func hrvPoint(hrv *models.HeartRateVariability) TimeSeriesPoint {
	return TimeSeriesPoint{
		Measurement: MeasurementHeartRateVariability,
		Tags:        map[string]string{"person_name": hrv.PersonName},
		Fields:      map[string]interface{}{"ms": int64(hrv.MS)},
		Timestamp:   hrv.Timestamp,
	}
}

// sleepPoint writes the 17 sleep fields tagged by the document "id". Average
// heart rate and period stay on the record only.
func sleepPoint(s *models.Sleep) TimeSeriesPoint {
	return TimeSeriesPoint{
		Measurement: MeasurementSleep,
		Tags: map[string]string{
			"id":          s.ID,
			"sleep_type":  s.SleepType.String(),
			"person_name": s.PersonName,
		},
		Fields: map[string]interface{}{
			"average_breath":        floatOrZero(s.AverageBreath),
			"average_hrv":           intOrZero(s.AverageHRV),
			"awake_time":            int64(s.AwakeTime),
			"bedtime_end":           s.BedtimeEnd.Unix(),
			"day":                   s.Day.Midnight().Unix(),
			"deep_sleep_duration":   intOrZero(s.DeepSleepDuration),
			"efficiency":            intOrZero(s.Efficiency),
			"latency":               intOrZero(s.Latency),
			"light_sleep_duration":  intOrZero(s.LightSleepDuration),
			"low_battery_alert":     s.LowBatteryAlert,
			"lowest_heart_rate":     intOrZero(s.LowestHeartRate),
			"readiness_score_delta": floatOrZero(s.ReadinessScoreDelta),
			"rem_sleep_duration":    intOrZero(s.REMSleepDuration),
			"restless_periods":      intOrZero(s.RestlessPeriods),
			"sleep_score_delta":     floatOrZero(s.SleepScoreDelta),
			"time_in_bed":           int64(s.TimeInBed),
			"total_sleep_duration":  intOrZero(s.TotalSleepDuration),
		},
		Timestamp: s.BedtimeStart,
	}
}

func sleepPhasePoint(p *models.SleepPhase) TimeSeriesPoint {
	return TimeSeriesPoint{
		Measurement: MeasurementSleepPhase,
		Tags: map[string]string{
			"person_name": p.PersonName,
			"sleep_id":    p.SleepID,
		},
		Fields:    map[string]interface{}{"phase": int64(p.Phase.Code())},
		Timestamp: p.Timestamp,
	}
}

func readinessPoint(r *models.Readiness) TimeSeriesPoint {
	c := r.Contributors
	fields := map[string]interface{}{
		"readiness_score":                    int64(r.Score),
		"activity_balance_contribution":      int64(c.ActivityBalance),
		"body_temperature_contribution":      int64(c.BodyTemperature),
		"hrv_balance_contribution":           int64(c.HRVBalance),
		"previous_day_activity_contribution": int64(c.PreviousDayActivity),
		"previous_night_contribution":        int64(c.PreviousNight),
		"recovery_index_contribution":        int64(c.RecoveryIndex),
		"resting_heart_rate_contribution":    int64(c.RestingHeartRate),
		"sleep_balance_contribution":         int64(c.SleepBalance),
	}
	if r.TemperatureDeviation != nil {
		fields["temperature_deviation"] = *r.TemperatureDeviation
	}
	if r.TemperatureTrendDeviation != nil {
		fields["temperature_trend_deviation"] = *r.TemperatureTrendDeviation
	}
	return TimeSeriesPoint{
		Measurement: MeasurementReadiness,
		Tags:        map[string]string{"person_name": r.PersonName},
		Fields:      fields,
		Timestamp:   r.Timestamp,
	}
}

func floatOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func intOrZero(v *int) int64 {
	if v == nil {
		return 0
	}
	return int64(*v)
}
