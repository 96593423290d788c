package forecast

import (
	"sort"
	"strings"

	"forecaster/internal/models"
)

// DayKey returns the date part of a "2006-01-02 15:04:05" timestamp,
// or the whole string when it has no time part.
func DayKey(timestamp string) string {
	if i := strings.IndexByte(timestamp, ' '); i >= 0 {
		return timestamp[:i]
	}
	return timestamp
}

type dayGroup struct {
	key     string
	samples []models.WeatherSample
}

// Aggregate collapses samples into one summary per day. The day matching todayKey
// is returned separately as current; the remaining days are sorted by day ascending.
func Aggregate(samples []models.WeatherSample, todayKey string) (*models.DailyWeatherSummary, []models.DailyWeatherSummary) {
	var current *models.DailyWeatherSummary
	others := make([]models.DailyWeatherSummary, 0)

	for _, group := range groupByDay(samples) {
		summary := summarizeDay(group)
		if summary.DayKey == todayKey {
			current = &summary
			continue
		}
		others = append(others, summary)
	}

	sort.SliceStable(others, func(i, j int) bool {
		return others[i].DayKey < others[j].DayKey
	})

	return current, others
}

// Summarize runs the whole pipeline over a decoded provider document.
func Summarize(doc any, todayKey string) models.ForecastResult {
	payload := Parse(doc)
	current, others := Aggregate(payload.Samples, todayKey)

	return models.ForecastResult{
		LocationName: payload.LocationName,
		CountryCode:  payload.CountryCode,
		CurrentDay:   current,
		OtherDays:    others,
	}
}

// groupByDay keeps groups in the order their day was first seen.
func groupByDay(samples []models.WeatherSample) []*dayGroup {
	var groups []*dayGroup
	index := make(map[string]*dayGroup)

	for _, s := range samples {
		key := DayKey(s.Timestamp)
		g, ok := index[key]
		if !ok {
			g = &dayGroup{key: key}
			index[key] = g
			groups = append(groups, g)
		}
		g.samples = append(g.samples, s)
	}

	return groups
}

func summarizeDay(g *dayGroup) models.DailyWeatherSummary {
	var sumTemp, sumFeelsLike float64
	for _, s := range g.samples {
		sumTemp += s.Temperature
		sumFeelsLike += s.FeelsLikeTemperature
	}
	n := float64(len(g.samples))

	return models.DailyWeatherSummary{
		DayKey:               g.key,
		Temperature:          sumTemp / n,
		FeelsLikeTemperature: sumFeelsLike / n,
		ConditionDescription: dominantCondition(g.samples),
	}
}

// dominantCondition picks the most frequent description; on a tie the one
// that occurs first in the day wins.
func dominantCondition(samples []models.WeatherSample) string {
	counts := make(map[string]int)
	var order []string

	for _, s := range samples {
		if _, seen := counts[s.ConditionDescription]; !seen {
			order = append(order, s.ConditionDescription)
		}
		counts[s.ConditionDescription]++
	}

	best, bestCount := "", 0
	for _, description := range order {
		if counts[description] > bestCount {
			best, bestCount = description, counts[description]
		}
	}

	return best
}
