package transformer

import (
	"github.com/lordthorzonus/oura-api-exporter/internal/models"
	"github.com/lordthorzonus/oura-api-exporter/internal/oura"
)

// RecordsFromHeartRateSamples converts heartrate endpoint samples. A sample
// that fails to convert becomes an Error record in its place.
func RecordsFromHeartRateSamples(samples []oura.HeartRateSample, person string) []models.Record {
	records := make([]models.Record, 0, len(samples))
	for _, sample := range samples {
		hr, err := HeartRateFromSample(sample, person)
		if err != nil {
			records = append(records, models.ErrorRecord(person, err))
			continue
		}
		records = append(records, models.NewHeartRateRecord(hr))
	}
	return records
}

// RecordsFromSleepDocuments derives every record kind from the sleep
// documents. Records are grouped by kind: heart rate, HRV, sleep, sleep
// phase, readiness. Each failing document contributes one Error record to
// the group that failed.
func RecordsFromSleepDocuments(docs []oura.SleepDocument, person string) []models.Record {
	var records []models.Record

	for _, doc := range docs {
		hrs, err := HeartRatesFromSleep(doc, person)
		if err != nil {
			records = append(records, models.ErrorRecord(person, err))
			continue
		}
		for _, hr := range hrs {
			records = append(records, models.NewHeartRateRecord(hr))
		}
	}

	for _, doc := range docs {
		hrvs, err := HRVsFromSleep(doc, person)
		if err != nil {
			records = append(records, models.ErrorRecord(person, err))
			continue
		}
		for _, hrv := range hrvs {
			records = append(records, models.NewHeartRateVariabilityRecord(hrv))
		}
	}

	for _, doc := range docs {
		sleep, err := SleepFromDocument(doc, person)
		if err != nil {
			records = append(records, models.ErrorRecord(person, err))
			continue
		}
		records = append(records, models.NewSleepRecord(sleep))
	}

	for _, doc := range docs {
		phases, err := SleepPhasesFromSleep(doc, person)
		if err != nil {
			records = append(records, models.ErrorRecord(person, err))
			continue
		}
		for _, phase := range phases {
			records = append(records, models.NewSleepPhaseRecord(phase))
		}
	}

	for _, doc := range docs {
		readiness, err := ReadinessFromSleep(doc, person)
		if err != nil {
			records = append(records, models.ErrorRecord(person, err))
			continue
		}
		records = append(records, models.NewReadinessRecord(readiness))
	}

	return records
}
