package api

import (
	"context"
	"time"

	"airwatch/internal/db"
	"airwatch/internal/models"
)

// stubAlertStore serves a fixed alert list; mutations are no-ops.
type stubAlertStore struct {
	alerts []models.Alert
}

func (s *stubAlertStore) CreateAlert(ctx context.Context, a *models.Alert) error {
	a.ID = int64(len(s.alerts) + 1)
	s.alerts = append(s.alerts, *a)
	return nil
}

func (s *stubAlertStore) GetAlerts(ctx context.Context) ([]models.Alert, error) {
	return s.alerts, nil
}

func (s *stubAlertStore) GetAlertsBySeverity(ctx context.Context, severity string) ([]models.Alert, error) {
	var out []models.Alert
	for _, a := range s.alerts {
		if a.Severity == severity {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *stubAlertStore) GetAlertsByType(ctx context.Context, typ string) ([]models.Alert, error) {
	return s.alerts, nil
}

func (s *stubAlertStore) GetAlertsByParameter(ctx context.Context, parameter string) ([]models.Alert, error) {
	return s.alerts, nil
}

func (s *stubAlertStore) GetRecentAlerts(ctx context.Context) ([]models.Alert, error) {
	return s.alerts, nil
}

func (s *stubAlertStore) SearchAlerts(ctx context.Context, f models.AlertFilter) ([]models.Alert, error) {
	return s.alerts, nil
}

func (s *stubAlertStore) SummarizeRecentAlerts(ctx context.Context) (models.AlertSummary, error) {
	var sum models.AlertSummary
	for _, a := range s.alerts {
		switch a.Severity {
		case models.SeverityDanger:
			sum.Danger++
		case models.SeverityWarning:
			sum.Warning++
		}
		sum.Total++
	}
	return sum, nil
}

func (s *stubAlertStore) DeleteAlert(ctx context.Context, id int64) error {
	for i, a := range s.alerts {
		if a.ID == id {
			s.alerts = append(s.alerts[:i], s.alerts[i+1:]...)
			return nil
		}
	}
	return db.ErrNotFound
}

func (s *stubAlertStore) DeleteAllAlerts(ctx context.Context) (int64, error) {
	n := int64(len(s.alerts))
	s.alerts = nil
	return n, nil
}

func (s *stubAlertStore) DeleteAlertsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

// stubThresholds serves thresholds from a map keyed by parameter.
type stubThresholds struct {
	byParam map[string]models.Threshold
}

func (s *stubThresholds) GetThresholds(ctx context.Context) ([]models.Threshold, error) {
	var out []models.Threshold
	for _, t := range s.byParam {
		out = append(out, t)
	}
	return out, nil
}

func (s *stubThresholds) GetThresholdByParameter(ctx context.Context, parameter string) (models.Threshold, error) {
	t, ok := s.byParam[parameter]
	if !ok {
		return models.Threshold{}, db.ErrNotFound
	}
	return t, nil
}

func (s *stubThresholds) UpdateThreshold(ctx context.Context, id int64, warning, critical *float64) (models.Threshold, error) {
	for param, t := range s.byParam {
		if t.ID == id {
			t.Warning = warning
			t.Critical = critical
			t.UpdatedAt = time.Now()
			s.byParam[param] = t
			return t, nil
		}
	}
	return models.Threshold{}, db.ErrNotFound
}

func (s *stubThresholds) CountThresholds(ctx context.Context) (int64, error) {
	return int64(len(s.byParam)), nil
}

func (s *stubThresholds) SeedThresholds(ctx context.Context, defaults []models.Threshold) error {
	for i, t := range defaults {
		t.ID = int64(i + 1)
		s.byParam[t.Parameter] = t
	}
	return nil
}

// nopBroadcaster satisfies the fan-out dependency.
type nopBroadcaster struct{}

func (nopBroadcaster) SendNewAlert(a models.Alert)            {}
func (nopBroadcaster) SendAlertDeletion(id int64)             {}
func (nopBroadcaster) SendThresholdUpdate(parameter string)   {}
func (nopBroadcaster) SendAlertSummary(s models.AlertSummary) {}
func (nopBroadcaster) SendRecalculated()                      {}
