package models

type ForecastResult struct {
	LocationName *string               `json:"location_name" example:"Minsk"`
	CountryCode  *string               `json:"country_code" example:"BY"`
	CurrentDay   *DailyWeatherSummary  `json:"current_day"`
	OtherDays    []DailyWeatherSummary `json:"other_days"`
}

// HasCurrentDay reports whether the forecast covered the reference day.
func (f *ForecastResult) HasCurrentDay() bool {
	return f.CurrentDay != nil
}
