package alerts

import (
	"context"
	"sync"
	"time"

	"airwatch/internal/db"
	"airwatch/internal/models"
)

// fakeStore is an in-memory Store keeping alerts in insertion order.
type fakeStore struct {
	mu     sync.Mutex
	alerts []models.Alert
	nextID int64

	CreateAlertFn func(ctx context.Context, a *models.Alert) error
}

func newFakeStore() *fakeStore {
	return &fakeStore{nextID: 1}
}

func (f *fakeStore) CreateAlert(ctx context.Context, a *models.Alert) error {
	if f.CreateAlertFn != nil {
		return f.CreateAlertFn(ctx, a)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	a.ID = f.nextID
	f.nextID++
	f.alerts = append(f.alerts, *a)
	return nil
}

func (f *fakeStore) GetAlerts(ctx context.Context) ([]models.Alert, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Alert, len(f.alerts))
	copy(out, f.alerts)
	return out, nil
}

func (f *fakeStore) GetAlertsBySeverity(ctx context.Context, severity string) ([]models.Alert, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Alert
	for _, a := range f.alerts {
		if a.Severity == severity {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeStore) GetAlertsByType(ctx context.Context, typ string) ([]models.Alert, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Alert
	for _, a := range f.alerts {
		if a.Type == typ {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeStore) GetAlertsByParameter(ctx context.Context, parameter string) ([]models.Alert, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Alert
	for _, a := range f.alerts {
		if a.Parameter == parameter {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeStore) GetRecentAlerts(ctx context.Context) ([]models.Alert, error) {
	return f.GetAlerts(ctx)
}

func (f *fakeStore) SearchAlerts(ctx context.Context, filter models.AlertFilter) ([]models.Alert, error) {
	return f.GetAlerts(ctx)
}

func (f *fakeStore) SummarizeRecentAlerts(ctx context.Context) (models.AlertSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var s models.AlertSummary
	for _, a := range f.alerts {
		switch a.Severity {
		case models.SeverityDanger:
			s.Danger++
		case models.SeverityWarning:
			s.Warning++
		}
		s.Total++
	}
	return s, nil
}

func (f *fakeStore) DeleteAlert(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, a := range f.alerts {
		if a.ID == id {
			f.alerts = append(f.alerts[:i], f.alerts[i+1:]...)
			return nil
		}
	}
	return db.ErrNotFound
}

func (f *fakeStore) DeleteAllAlerts(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := int64(len(f.alerts))
	f.alerts = nil
	return n, nil
}

func (f *fakeStore) DeleteAlertsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var kept []models.Alert
	var removed int64
	for _, a := range f.alerts {
		if a.Timestamp.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, a)
	}
	f.alerts = kept
	return removed, nil
}

// fakeThresholds is an in-memory ThresholdStore. getErr, when set, is
// returned by every lookup to simulate a store outage.
type fakeThresholds struct {
	mu         sync.Mutex
	thresholds map[string]models.Threshold
	nextID     int64
	getErr     error
}

func newFakeThresholds() *fakeThresholds {
	return &fakeThresholds{thresholds: make(map[string]models.Threshold), nextID: 1}
}

func (f *fakeThresholds) set(parameter string, warning, critical *float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.thresholds[parameter] = models.Threshold{
		ID:        f.nextID,
		Parameter: parameter,
		Warning:   warning,
		Critical:  critical,
		UpdatedAt: time.Now(),
	}
	f.nextID++
}

func (f *fakeThresholds) GetThresholds(ctx context.Context) ([]models.Threshold, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Threshold
	for _, t := range f.thresholds {
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeThresholds) GetThresholdByParameter(ctx context.Context, parameter string) (models.Threshold, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return models.Threshold{}, f.getErr
	}
	t, ok := f.thresholds[parameter]
	if !ok {
		return models.Threshold{}, db.ErrNotFound
	}
	return t, nil
}

func (f *fakeThresholds) UpdateThreshold(ctx context.Context, id int64, warning, critical *float64) (models.Threshold, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for param, t := range f.thresholds {
		if t.ID == id {
			t.Warning = warning
			t.Critical = critical
			t.UpdatedAt = time.Now()
			f.thresholds[param] = t
			return t, nil
		}
	}
	return models.Threshold{}, db.ErrNotFound
}

func (f *fakeThresholds) CountThresholds(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.thresholds)), nil
}

func (f *fakeThresholds) SeedThresholds(ctx context.Context, defaults []models.Threshold) error {
	for _, t := range defaults {
		f.set(t.Parameter, t.Warning, t.Critical)
	}
	return nil
}

// fakeReadings returns a fixed Reading.
type fakeReadings struct {
	reading models.Reading
}

func (f *fakeReadings) Get() models.Reading { return f.reading }

// fakeBroadcaster records every fan-out call.
type fakeBroadcaster struct {
	mu         sync.Mutex
	newAlerts  []models.Alert
	deletions  []int64
	updates    []string
	summaries  []models.AlertSummary
	recalcDone int
}

func (f *fakeBroadcaster) SendNewAlert(a models.Alert) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.newAlerts = append(f.newAlerts, a)
}

func (f *fakeBroadcaster) SendAlertDeletion(id int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletions = append(f.deletions, id)
}

func (f *fakeBroadcaster) SendThresholdUpdate(parameter string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, parameter)
}

func (f *fakeBroadcaster) SendAlertSummary(s models.AlertSummary) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.summaries = append(f.summaries, s)
}

func (f *fakeBroadcaster) SendRecalculated() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recalcDone++
}
