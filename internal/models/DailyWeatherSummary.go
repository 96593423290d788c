package models

// DailyWeatherSummary collapses all samples of one calendar day.
type DailyWeatherSummary struct {
	DayKey               string  `json:"day" example:"2020-02-19"`
	Temperature          float64 `json:"temperature" example:"11.2"`
	FeelsLikeTemperature float64 `json:"feels_like_temperature" example:"9.8"`
	ConditionDescription string  `json:"condition_description" example:"light rain"`
}
