package alerts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"airwatch/internal/db"
	"airwatch/internal/logging"
	"airwatch/internal/metrics"
	"airwatch/internal/models"
)

// ErrThresholdMissing is returned by Evaluate when no threshold is
// configured for the parameter. Fatal only to that one evaluation.
var ErrThresholdMissing = errors.New("threshold not configured")

// Store is the durable alert collection.
type Store interface {
	CreateAlert(ctx context.Context, a *models.Alert) error
	GetAlerts(ctx context.Context) ([]models.Alert, error)
	GetAlertsBySeverity(ctx context.Context, severity string) ([]models.Alert, error)
	GetAlertsByType(ctx context.Context, typ string) ([]models.Alert, error)
	GetAlertsByParameter(ctx context.Context, parameter string) ([]models.Alert, error)
	GetRecentAlerts(ctx context.Context) ([]models.Alert, error)
	SearchAlerts(ctx context.Context, f models.AlertFilter) ([]models.Alert, error)
	SummarizeRecentAlerts(ctx context.Context) (models.AlertSummary, error)
	DeleteAlert(ctx context.Context, id int64) error
	DeleteAllAlerts(ctx context.Context) (int64, error)
	DeleteAlertsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// ThresholdStore is the per-parameter threshold registry.
type ThresholdStore interface {
	GetThresholds(ctx context.Context) ([]models.Threshold, error)
	GetThresholdByParameter(ctx context.Context, parameter string) (models.Threshold, error)
	UpdateThreshold(ctx context.Context, id int64, warning, critical *float64) (models.Threshold, error)
	CountThresholds(ctx context.Context) (int64, error)
	SeedThresholds(ctx context.Context, defaults []models.Threshold) error
}

// ReadingSource exposes the latest cached sensor snapshot.
type ReadingSource interface {
	Get() models.Reading
}

// Broadcaster fans alert events out to live subscribers. All methods
// are best-effort; implementations log their own failures.
type Broadcaster interface {
	SendNewAlert(a models.Alert)
	SendAlertDeletion(id int64)
	SendThresholdUpdate(parameter string)
	SendAlertSummary(s models.AlertSummary)
	SendRecalculated()
}

// Service evaluates readings against thresholds and owns the alert
// lifecycle.
type Service struct {
	store      Store
	thresholds ThresholdStore
	readings   ReadingSource
	broadcast  Broadcaster
	logger     *logging.Logger
}

func New(store Store, thresholds ThresholdStore, readings ReadingSource, broadcast Broadcaster, logger *logging.Logger) *Service {
	return &Service{
		store:      store,
		thresholds: thresholds,
		readings:   readings,
		broadcast:  broadcast,
		logger:     logger,
	}
}

// EnsureDefaultThresholds seeds the registry at first boot. Idempotent:
// a non-empty registry is left untouched.
func (s *Service) EnsureDefaultThresholds(ctx context.Context) error {
	n, err := s.thresholds.CountThresholds(ctx)
	if err != nil {
		return fmt.Errorf("count thresholds: %w", err)
	}
	if n > 0 {
		return nil
	}
	if err := s.thresholds.SeedThresholds(ctx, DefaultThresholds()); err != nil {
		return fmt.Errorf("seed thresholds: %w", err)
	}
	s.logger.Infof("Seeded %d default alert thresholds", len(DefaultThresholds()))
	return nil
}

// Evaluate compares one measured value against its configured
// threshold, critical tier first, both with >=. A breach creates and
// persists exactly one alert; values under the warning level create
// nothing and return nil.
func (s *Service) Evaluate(ctx context.Context, parameter string, value float64) (*models.Alert, error) {
	t, err := s.thresholds.GetThresholdByParameter(ctx, parameter)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrThresholdMissing, parameter)
		}
		return nil, fmt.Errorf("get threshold for %s: %w", parameter, err)
	}

	switch {
	case t.Critical != nil && value >= *t.Critical:
		return s.CreateAlert(ctx, parameter, value, models.SeverityDanger)
	case t.Warning != nil && value >= *t.Warning:
		return s.CreateAlert(ctx, parameter, value, models.SeverityWarning)
	default:
		return nil, nil
	}
}

// CreateAlert persists a breach record and fans it out. Fan-out is
// best-effort; the persisted row is the authoritative state.
func (s *Service) CreateAlert(ctx context.Context, parameter string, value float64, severity string) (*models.Alert, error) {
	a := &models.Alert{
		Parameter: parameter,
		Value:     value,
		Severity:  severity,
		Message:   alertMessage(parameter, value, severity),
		Type:      AlertType(parameter),
		Timestamp: time.Now(),
	}
	if err := s.store.CreateAlert(ctx, a); err != nil {
		return nil, err
	}
	metrics.AlertsCreated.WithLabelValues(severity).Inc()

	s.broadcast.SendNewAlert(*a)
	s.publishSummary(ctx)
	return a, nil
}

// RecalculateAll re-runs Evaluate over every parameter of the cached
// latest reading. Used after ingestion and after threshold updates.
// Repeated breaches append new alert rows on every pass; there is no
// cross-pass suppression.
func (s *Service) RecalculateAll(ctx context.Context) error {
	r := s.readings.Get()
	if r.Timestamp.IsZero() {
		s.logger.Debugf("Recalculation skipped: no reading cached yet")
		return nil
	}

	var errs []error
	for _, p := range r.Parameters() {
		if _, err := s.Evaluate(ctx, p.Name, p.Value); err != nil {
			s.logger.Errorf("Evaluation of %s failed: %v", p.Name, err)
			errs = append(errs, err)
		}
	}

	s.broadcast.SendRecalculated()
	s.publishSummary(ctx)
	return errors.Join(errs...)
}

// UpdateThreshold overwrites one threshold and re-evaluates the cached
// reading against the new levels. The threshold write stands even when
// recalculation fails.
func (s *Service) UpdateThreshold(ctx context.Context, id int64, warning, critical *float64) (models.Threshold, error) {
	t, err := s.thresholds.UpdateThreshold(ctx, id, warning, critical)
	if err != nil {
		return models.Threshold{}, err
	}
	s.broadcast.SendThresholdUpdate(t.Parameter)

	if err := s.RecalculateAll(ctx); err != nil {
		s.logger.Errorf("Recalculation after threshold update failed: %v", err)
	}
	return t, nil
}

// Thresholds returns every configured threshold.
func (s *Service) Thresholds(ctx context.Context) ([]models.Threshold, error) {
	return s.thresholds.GetThresholds(ctx)
}

// ThresholdByParameter returns one threshold by parameter name.
func (s *Service) ThresholdByParameter(ctx context.Context, parameter string) (models.Threshold, error) {
	return s.thresholds.GetThresholdByParameter(ctx, parameter)
}

// Alerts query pass-throughs, all newest-first.

func (s *Service) All(ctx context.Context) ([]models.Alert, error) {
	return s.store.GetAlerts(ctx)
}

func (s *Service) Recent(ctx context.Context) ([]models.Alert, error) {
	return s.store.GetRecentAlerts(ctx)
}

func (s *Service) BySeverity(ctx context.Context, severity string) ([]models.Alert, error) {
	return s.store.GetAlertsBySeverity(ctx, severity)
}

func (s *Service) ByType(ctx context.Context, typ string) ([]models.Alert, error) {
	return s.store.GetAlertsByType(ctx, typ)
}

func (s *Service) ByParameter(ctx context.Context, parameter string) ([]models.Alert, error) {
	return s.store.GetAlertsByParameter(ctx, parameter)
}

func (s *Service) Search(ctx context.Context, f models.AlertFilter) ([]models.Alert, error) {
	return s.store.SearchAlerts(ctx, f)
}

func (s *Service) Summary(ctx context.Context) (models.AlertSummary, error) {
	return s.store.SummarizeRecentAlerts(ctx)
}

// Delete removes one alert and broadcasts the deletion event.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteAlert(ctx, id); err != nil {
		return err
	}
	s.broadcast.SendAlertDeletion(id)
	s.publishSummary(ctx)
	return nil
}

// DeleteAll removes every alert and returns the count removed.
func (s *Service) DeleteAll(ctx context.Context) (int64, error) {
	n, err := s.store.DeleteAllAlerts(ctx)
	if err != nil {
		return 0, err
	}
	s.publishSummary(ctx)
	return n, nil
}

// CleanupOld is the retention job: it drops alerts older than the
// given age. Runs daily, concurrently with normal traffic.
func (s *Service) CleanupOld(ctx context.Context, maxAge time.Duration) (int64, error) {
	n, err := s.store.DeleteAlertsBefore(ctx, time.Now().Add(-maxAge))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Infof("Alert retention removed %d alerts", n)
	}
	return n, nil
}

func (s *Service) publishSummary(ctx context.Context) {
	sum, err := s.store.SummarizeRecentAlerts(ctx)
	if err != nil {
		s.logger.Errorf("Failed to compute alert summary: %v", err)
		return
	}
	s.broadcast.SendAlertSummary(sum)
}
