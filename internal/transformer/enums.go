package transformer

import "github.com/lordthorzonus/oura-api-exporter/internal/models"

func ParseHeartRateSource(s string) (models.HeartRateSource, error) {
	for _, source := range models.HeartRateSources {
		if string(source) == s {
			return source, nil
		}
	}
	return "", &models.UnknownEnumVariantError{EnumName: "HeartRateSource", Variant: s}
}

func ParseSleepType(s string) (models.SleepType, error) {
	switch t := models.SleepType(s); t {
	case models.SleepTypeDeleted, models.SleepTypeSleep, models.SleepTypeLongSleep,
		models.SleepTypeLateNap, models.SleepTypeRest:
		return t, nil
	}
	return "", &models.UnknownEnumVariantError{EnumName: "SleepType", Variant: s}
}

// ParseSleepPhase decodes one hypnogram digit.
func ParseSleepPhase(c rune) (models.SleepPhaseType, error) {
	switch c {
	case '1':
		return models.SleepPhaseDeepSleep, nil
	case '2':
		return models.SleepPhaseLightSleep, nil
	case '3':
		return models.SleepPhaseREMSleep, nil
	case '4':
		return models.SleepPhaseAwake, nil
	}
	return 0, &models.UnknownEnumVariantError{EnumName: "SleepPhaseType", Variant: string(c)}
}
