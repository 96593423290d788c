package models

// WeatherSample is a single 3-hour forecast point as delivered by the provider.
// Timestamp is kept verbatim in the "2006-01-02 15:04:05" form.
type WeatherSample struct {
	Temperature          float64 `json:"temperature" example:"12.4"`
	FeelsLikeTemperature float64 `json:"feels_like_temperature" example:"10.9"`
	ConditionDescription string  `json:"condition_description" example:"light rain"`
	Timestamp            string  `json:"timestamp" example:"2020-02-19 03:00:00"`
}
