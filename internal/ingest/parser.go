package ingest

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"airwatch/internal/models"
)

const fieldCount = 6

// ParseReading decodes the sensor CSV payload
// "pm25,pm10,no2,o3,co,aqi" into a timestamped Reading.
func ParseReading(payload string) (models.Reading, error) {
	fields := strings.Split(payload, ",")
	if len(fields) != fieldCount {
		return models.Reading{}, fmt.Errorf("expected %d fields, got %d", fieldCount, len(fields))
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	var (
		r   models.Reading
		err error
	)
	if r.PM25, err = strconv.ParseFloat(fields[0], 64); err != nil {
		return models.Reading{}, fmt.Errorf("invalid pm25 %q: %w", fields[0], err)
	}
	if r.PM10, err = strconv.ParseFloat(fields[1], 64); err != nil {
		return models.Reading{}, fmt.Errorf("invalid pm10 %q: %w", fields[1], err)
	}
	if r.NO2, err = strconv.ParseFloat(fields[2], 64); err != nil {
		return models.Reading{}, fmt.Errorf("invalid no2 %q: %w", fields[2], err)
	}
	if r.O3, err = strconv.ParseFloat(fields[3], 64); err != nil {
		return models.Reading{}, fmt.Errorf("invalid o3 %q: %w", fields[3], err)
	}
	if r.CO, err = strconv.ParseFloat(fields[4], 64); err != nil {
		return models.Reading{}, fmt.Errorf("invalid co %q: %w", fields[4], err)
	}
	if r.AQI, err = strconv.Atoi(fields[5]); err != nil {
		return models.Reading{}, fmt.Errorf("invalid aqi %q: %w", fields[5], err)
	}

	r.Timestamp = time.Now()
	return r, nil
}
