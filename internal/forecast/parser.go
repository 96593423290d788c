package forecast

import (
	"encoding/json"
	"fmt"

	"forecaster/internal/models"
)

// Payload is the flattened content of a provider forecast document.
type Payload struct {
	LocationName *string
	CountryCode  *string
	Samples      []models.WeatherSample
}

// Decode turns a raw response body into the generic document consumed by Parse.
func Decode(body []byte) (any, error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode forecast document: %w", err)
	}

	return doc, nil
}

// Parse extracts city metadata and weather samples from a decoded forecast document.
// It never fails: missing or mistyped parts are treated as absent and list entries
// lacking any required field are skipped.
func Parse(doc any) Payload {
	var payload Payload

	root, ok := doc.(map[string]any)
	if !ok {
		return payload
	}

	if city, ok := root["city"].(map[string]any); ok {
		payload.LocationName = optionalString(city, "name")
		payload.CountryCode = optionalString(city, "country")
	}

	list, ok := root["list"].([]any)
	if !ok {
		return payload
	}

	payload.Samples = make([]models.WeatherSample, 0, len(list))
	for _, entry := range list {
		sample, ok := parseSample(entry)
		if !ok {
			continue
		}
		payload.Samples = append(payload.Samples, sample)
	}

	return payload
}

func parseSample(entry any) (models.WeatherSample, bool) {
	item, ok := entry.(map[string]any)
	if !ok {
		return models.WeatherSample{}, false
	}

	main, ok := item["main"].(map[string]any)
	if !ok {
		return models.WeatherSample{}, false
	}
	temp, ok := main["temp"].(float64)
	if !ok {
		return models.WeatherSample{}, false
	}
	feelsLike, ok := main["feels_like"].(float64)
	if !ok {
		return models.WeatherSample{}, false
	}

	conditions, ok := item["weather"].([]any)
	if !ok || len(conditions) == 0 {
		return models.WeatherSample{}, false
	}
	first, ok := conditions[0].(map[string]any)
	if !ok {
		return models.WeatherSample{}, false
	}
	description, ok := first["description"].(string)
	if !ok {
		return models.WeatherSample{}, false
	}

	timestamp, ok := item["dt_txt"].(string)
	if !ok {
		return models.WeatherSample{}, false
	}

	return models.WeatherSample{
		Temperature:          temp,
		FeelsLikeTemperature: feelsLike,
		ConditionDescription: description,
		Timestamp:            timestamp,
	}, true
}

func optionalString(m map[string]any, key string) *string {
	s, ok := m[key].(string)
	if !ok {
		return nil
	}
	return &s
}
