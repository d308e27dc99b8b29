package audit

import (
	"context"
	"time"

	"airwatch/internal/logging"
	"airwatch/internal/metrics"
	"airwatch/internal/models"
)

// DedupWindow suppresses repeated identical login events. Two events
// with the same username, IP, and status inside this window collapse
// into one row.
const DedupWindow = 30 * time.Second

// Store is the durable login audit trail.
type Store interface {
	HasRecentLoginLog(ctx context.Context, username, ip, status string, since time.Time) (bool, error)
	CreateLoginLog(ctx context.Context, l *models.LoginLog) error
	GetLoginLogs(ctx context.Context, f models.LoginLogFilter, limit, offset int) ([]models.LoginLog, error)
	DeleteLoginLogsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Entry is one observed login attempt.
type Entry struct {
	Username      string
	IPAddress     string
	Status        string
	UserAgent     string
	Path          string
	FailureReason string
}

// Recorder writes login attempts to the audit trail. Recording is
// fire-and-forget: failures are logged, never returned, so the audit
// path can never break a login flow.
type Recorder struct {
	store  Store
	logger *logging.Logger
	now    func() time.Time
}

func NewRecorder(store Store, logger *logging.Logger) *Recorder {
	return &Recorder{store: store, logger: logger, now: time.Now}
}

// Record persists one login event unless an identical one landed
// within the dedup window.
func (r *Recorder) Record(ctx context.Context, e Entry) {
	username := e.Username
	if username == "" {
		username = "UNKNOWN"
	}

	now := r.now()
	dup, err := r.store.HasRecentLoginLog(ctx, username, e.IPAddress, e.Status, now.Add(-DedupWindow))
	if err != nil {
		r.logger.Errorf("Failed to check for duplicate login log: %v", err)
		return
	}
	if dup {
		metrics.AuditDeduplicated.Inc()
		return
	}

	l := &models.LoginLog{
		Username:      username,
		IPAddress:     e.IPAddress,
		LoginTime:     now,
		Status:        e.Status,
		UserAgent:     e.UserAgent,
		Path:          e.Path,
		FailureReason: e.FailureReason,
	}
	if err := r.store.CreateLoginLog(ctx, l); err != nil {
		r.logger.Errorf("Failed to record login log for %s: %v", username, err)
	}
}

// Logs returns audit entries for the admin listing, newest first.
func (r *Recorder) Logs(ctx context.Context, f models.LoginLogFilter, limit, offset int) ([]models.LoginLog, error) {
	return r.store.GetLoginLogs(ctx, f, limit, offset)
}

// CleanupOld is the retention job for audit rows.
func (r *Recorder) CleanupOld(ctx context.Context, maxAge time.Duration) (int64, error) {
	n, err := r.store.DeleteLoginLogsBefore(ctx, r.now().Add(-maxAge))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		r.logger.Infof("Audit retention removed %d login logs", n)
	}
	return n, nil
}
