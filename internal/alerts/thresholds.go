package alerts

import (
	"fmt"

	"airwatch/internal/models"
)

// DefaultThresholds returns the first-boot threshold seed.
func DefaultThresholds() []models.Threshold {
	return []models.Threshold{
		{Parameter: "temperature", Warning: f(30), Critical: f(35)},
		{Parameter: "humidity", Warning: f(70), Critical: f(80)},
		{Parameter: "pm25", Warning: f(35), Critical: f(55)},
		{Parameter: "pm10", Warning: f(50), Critical: f(80)},
		{Parameter: "no2", Warning: f(100), Critical: f(200)},
		{Parameter: "o3", Warning: f(100), Critical: f(180)},
		{Parameter: "co", Warning: f(5), Critical: f(10)},
		{Parameter: "aqi", Warning: f(50), Critical: f(100)},
	}
}

func f(v float64) *float64 { return &v }

// AlertType derives the alert domain from the breached parameter.
func AlertType(parameter string) string {
	if parameter == "temperature" || parameter == "humidity" {
		return models.AlertTypeWeather
	}
	return models.AlertTypeAir
}

func alertMessage(parameter string, value float64, severity string) string {
	return fmt.Sprintf("%s niveau %s: %.2f", parameterLabel(parameter), severity, value)
}

func parameterLabel(parameter string) string {
	switch parameter {
	case "temperature":
		return "Température"
	case "humidity":
		return "Humidité"
	case "pm25":
		return "PM2.5"
	case "pm10":
		return "PM10"
	case "no2":
		return "NO2"
	case "o3":
		return "Ozone"
	case "co":
		return "Monoxyde de carbone"
	case "aqi":
		return "Indice de qualité d'air"
	default:
		return parameter
	}
}
