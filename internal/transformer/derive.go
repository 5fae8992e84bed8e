package transformer

import (
	"math"
	"time"

	"github.com/lordthorzonus/oura-api-exporter/internal/models"
	"github.com/lordthorzonus/oura-api-exporter/internal/oura"
)

const sleepPhaseBucket = 5 * time.Minute

// HeartRateFromSample converts one heartrate endpoint sample.
func HeartRateFromSample(sample oura.HeartRateSample, person string) (models.HeartRate, error) {
	ts, err := ParseTimestamp(sample.Timestamp)
	if err != nil {
		return models.HeartRate{}, err
	}
	source, err := ParseHeartRateSource(sample.Source)
	if err != nil {
		return models.HeartRate{}, err
	}
	return models.HeartRate{
		BPM:        sample.BPM,
		Source:     source,
		Timestamp:  ts,
		PersonName: person,
	}, nil
}

// HeartRatesFromSleep reconstructs the heart-rate series recorded during a
// sleep. Samples are tagged with the sleep source.
func HeartRatesFromSleep(doc oura.SleepDocument, person string) ([]models.HeartRate, error) {
	if doc.HeartRate == nil {
		return nil, &models.MissingSubResourceError{Resource: models.NoHeartRateDataFound, SleepID: doc.ID}
	}

	var out []models.HeartRate
	err := expandIntervalSeries(doc.HeartRate, func(ts time.Time, value float64) {
		out = append(out, models.HeartRate{
			BPM:        uint8(clampRound(value, math.MaxUint8)),
			Source:     models.HeartRateSourceSleep,
			Timestamp:  ts,
			PersonName: person,
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// HRVsFromSleep reconstructs the HRV series recorded during a sleep.
func HRVsFromSleep(doc oura.SleepDocument, person string) ([]models.HeartRateVariability, error) {
	if doc.HRV == nil {
		return nil, &models.MissingSubResourceError{Resource: models.NoHRVDataFound, SleepID: doc.ID}
	}

	var out []models.HeartRateVariability
	err := expandIntervalSeries(doc.HRV, func(ts time.Time, value float64) {
		out = append(out, models.HeartRateVariability{
			MS:         uint16(clampRound(value, math.MaxUint16)),
			Timestamp:  ts,
			PersonName: person,
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func SleepFromDocument(doc oura.SleepDocument, person string) (models.Sleep, error) {
	bedtimeStart, err := ParseTimestamp(doc.BedtimeStart)
	if err != nil {
		return models.Sleep{}, err
	}
	bedtimeEnd, err := ParseTimestamp(doc.BedtimeEnd)
	if err != nil {
		return models.Sleep{}, err
	}
	day, err := ParseDate(doc.Day)
	if err != nil {
		return models.Sleep{}, err
	}
	sleepType, err := ParseSleepType(doc.Type)
	if err != nil {
		return models.Sleep{}, err
	}

	return models.Sleep{
		ID:                  doc.ID,
		Day:                 day,
		BedtimeStart:        bedtimeStart,
		BedtimeEnd:          bedtimeEnd,
		SleepType:           sleepType,
		AverageBreath:       doc.AverageBreath,
		AverageHeartRate:    doc.AverageHeartRate,
		AverageHRV:          doc.AverageHRV,
		AwakeTime:           doc.AwakeTime,
		DeepSleepDuration:   doc.DeepSleepDuration,
		Efficiency:          doc.Efficiency,
		Latency:             doc.Latency,
		LightSleepDuration:  doc.LightSleepDuration,
		LowBatteryAlert:     doc.LowBatteryAlert,
		LowestHeartRate:     doc.LowestHeartRate,
		Period:              doc.Period,
		ReadinessScoreDelta: doc.ReadinessScoreDelta,
		REMSleepDuration:    doc.REMSleepDuration,
		RestlessPeriods:     doc.RestlessPeriods,
		SleepScoreDelta:     doc.SleepScoreDelta,
		TimeInBed:           doc.TimeInBed,
		TotalSleepDuration:  doc.TotalSleepDuration,
		PersonName:          person,
	}, nil
}

// SleepPhasesFromSleep expands the 5 minute hypnogram string, bucket i
// starting at bedtime_start + 5min*i. One unknown digit fails the document.
func SleepPhasesFromSleep(doc oura.SleepDocument, person string) ([]models.SleepPhase, error) {
	if doc.SleepPhase5Min == nil {
		return nil, nil
	}

	start, err := ParseTimestamp(doc.BedtimeStart)
	if err != nil {
		return nil, err
	}

	phases := make([]models.SleepPhase, 0, len(*doc.SleepPhase5Min))
	for i, c := range []rune(*doc.SleepPhase5Min) {
		phase, err := ParseSleepPhase(c)
		if err != nil {
			return nil, err
		}
		phases = append(phases, models.SleepPhase{
			SleepID:    doc.ID,
			Phase:      phase,
			Timestamp:  start.Add(time.Duration(i) * sleepPhaseBucket),
			PersonName: person,
		})
	}
	return phases, nil
}

// ReadinessFromSleep extracts the readiness block, stamped at midnight UTC of
// the sleep day.
func ReadinessFromSleep(doc oura.SleepDocument, person string) (models.Readiness, error) {
	if doc.Readiness == nil {
		return models.Readiness{}, &models.MissingSubResourceError{Resource: models.NoReadinessDataFound, SleepID: doc.ID}
	}
	if doc.Readiness.Score == nil {
		return models.Readiness{}, &models.MissingSubResourceError{Resource: models.NoReadinessScoreFound, SleepID: doc.ID}
	}

	day, err := ParseDate(doc.Day)
	if err != nil {
		return models.Readiness{}, err
	}

	c := doc.Readiness.Contributors
	return models.Readiness{
		Score:                     *doc.Readiness.Score,
		TemperatureDeviation:      doc.Readiness.TemperatureDeviation,
		TemperatureTrendDeviation: doc.Readiness.TemperatureTrendDeviation,
		Contributors: models.Contributors{
			ActivityBalance:     c.ActivityBalance,
			BodyTemperature:     c.BodyTemperature,
			HRVBalance:          c.HRVBalance,
			PreviousDayActivity: c.PreviousDayActivity,
			PreviousNight:       c.PreviousNight,
			RecoveryIndex:       c.RecoveryIndex,
			RestingHeartRate:    c.RestingHeartRate,
			SleepBalance:        c.SleepBalance,
		},
		Timestamp:  day.Midnight(),
		PersonName: person,
	}, nil
}

// expandIntervalSeries calls emit for every non-null item. Null items still
// advance the cursor by one step.
func expandIntervalSeries(series *oura.IntervalSeries, emit func(ts time.Time, value float64)) error {
	start, err := ParseTimestamp(series.Timestamp)
	if err != nil {
		return err
	}

	step := time.Duration(math.Round(series.Interval)) * time.Second
	cursor := start
	for _, item := range series.Items {
		if item != nil {
			emit(cursor, *item)
		}
		cursor = cursor.Add(step)
	}
	return nil
}

// clampRound rounds v to the nearest integer within [0, limit].
func clampRound(v, limit float64) float64 {
	r := math.Round(v)
	switch {
	case math.IsNaN(r), r < 0:
		return 0
	case r > limit:
		return limit
	}
	return r
}
