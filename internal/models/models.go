package models

import (
	"encoding/json"
	"strconv"
)

// Location is one entry of the IPMA district/island directory.
type Location struct {
	GlobalID  int     `json:"globalIdLocal"`
	Name      string  `json:"local"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// FlexString decodes a JSON value that may arrive as a string, a number or
// null. The IPMA feeds are not consistent about this across endpoints.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string { return string(f) }

// Float returns the numeric value, or 0 when empty or unparsable.
func (f FlexString) Float() float64 {
	v, err := strconv.ParseFloat(string(f), 64)
	if err != nil {
		return 0
	}
	return v
}

// ForecastDay is one raw day record of the IPMA daily forecast feed.
// PrecitaProb and PrecipitaProb cover the two spellings the feed has used
// for the precipitation probability field.
type ForecastDay struct {
	ForecastDate  string     `json:"forecastDate"`
	TMin          FlexString `json:"tMin"`
	TMax          FlexString `json:"tMax"`
	WindDir       string     `json:"predWindDir"`
	WeatherType   int        `json:"idWeatherType"`
	PrecipClass   FlexString `json:"classPrecInt"`
	PrecitaProb   FlexString `json:"precitaProb"`
	PrecipitaProb FlexString `json:"precipitaProb"`
}

// WeatherType is one entry of the weather-type classification table.
type WeatherType struct {
	ID     int    `json:"idWeatherType"`
	DescPT string `json:"descWeatherTypePT"`
}

// PrecipClass is one entry of the precipitation-intensity classification table.
type PrecipClass struct {
	Class  FlexString `json:"classPrecInt"`
	DescPT string     `json:"descClassPrecIntPT"`
}

// DaySummary is the normalized, human-readable forecast for one day of one
// location. Temperatures keep the upstream string form; renderers parse them.
type DaySummary struct {
	Date        string `json:"data"`
	TempMin     string `json:"temperaturaMin"`
	TempMax     string `json:"temperaturaMax"`
	WindDir     string `json:"vento"`
	WeatherDesc string `json:"tipoTempo"`
	PrecipDesc  string `json:"precipitacao"`
	PrecipProb  string `json:"probPrecipitacao"`
	Emoji       string `json:"emoji"`
}
