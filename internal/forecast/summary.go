// Package forecast normalizes raw IPMA day records into human-readable
// per-day summaries.
package forecast

import (
	"github.com/migcruzz/Ipma-Expert/internal/models"
)

// Placeholders substituted when a classification code cannot be resolved.
// Missing reference data degrades the summary, it never fails it.
const (
	UnknownWeatherDesc = "Desconhecido"
	NoPrecipData       = "Sem dados"
)

// Summarize joins one raw forecast day against the two classification tables.
// Pure: identical inputs always yield the same summary.
func Summarize(day models.ForecastDay, types []models.WeatherType, classes []models.PrecipClass) models.DaySummary {
	desc := UnknownWeatherDesc
	for _, t := range types {
		if t.ID == day.WeatherType {
			desc = t.DescPT
			break
		}
	}

	precip := NoPrecipData
	if day.PrecipClass != "" {
		for _, c := range classes {
			if c.Class.String() == day.PrecipClass.String() {
				precip = c.DescPT
				break
			}
		}
	}

	// The feed has carried the probability under two spellings; prefer the
	// historical one, fall back to the corrected one, then to "0".
	prob := day.PrecitaProb.String()
	if prob == "" {
		prob = day.PrecipitaProb.String()
	}
	if prob == "" {
		prob = "0"
	}

	return models.DaySummary{
		Date:        day.ForecastDate,
		TempMin:     day.TMin.String(),
		TempMax:     day.TMax.String(),
		WindDir:     day.WindDir,
		WeatherDesc: desc,
		PrecipDesc:  precip,
		PrecipProb:  prob,
		Emoji:       EmojiFor(desc),
	}
}

// SummarizeAll applies Summarize to every day of a forecast, in order.
// Index 0 is "today" for single-day responses.
func SummarizeAll(days []models.ForecastDay, types []models.WeatherType, classes []models.PrecipClass) []models.DaySummary {
	out := make([]models.DaySummary, 0, len(days))
	for _, day := range days {
		out = append(out, Summarize(day, types, classes))
	}
	return out
}
