package models

import "time"

// Reading is one sensor snapshot. A zero Reading (Timestamp.IsZero())
// means no data has arrived yet.
type Reading struct {
	PM25      float64   `json:"pm25"`
	PM10      float64   `json:"pm10"`
	NO2       float64   `json:"no2"`
	O3        float64   `json:"o3"`
	CO        float64   `json:"co"`
	AQI       int       `json:"aqi"`
	Timestamp time.Time `json:"timestamp"`
}

// Parameter is one named measurement extracted from a Reading.
type Parameter struct {
	Name  string
	Value float64
}

// Parameters returns the tracked measurements in a stable order, as fed
// to the alert evaluation engine.
func (r Reading) Parameters() []Parameter {
	return []Parameter{
		{Name: "pm25", Value: r.PM25},
		{Name: "pm10", Value: r.PM10},
		{Name: "no2", Value: r.NO2},
		{Name: "o3", Value: r.O3},
		{Name: "co", Value: r.CO},
		{Name: "aqi", Value: float64(r.AQI)},
	}
}
