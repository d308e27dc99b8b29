package audit

import (
	"context"
	"sync"
	"testing"
	"time"

	"airwatch/internal/logging"
	"airwatch/internal/models"
)

type fakeAuditStore struct {
	mu   sync.Mutex
	logs []models.LoginLog

	createErr error
}

func (s *fakeAuditStore) HasRecentLoginLog(ctx context.Context, username, ip, status string, since time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.logs {
		if l.Username == username && l.IPAddress == ip && l.Status == status && !l.LoginTime.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeAuditStore) CreateLoginLog(ctx context.Context, l *models.LoginLog) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	l.ID = int64(len(s.logs) + 1)
	s.logs = append(s.logs, *l)
	return nil
}

func (s *fakeAuditStore) GetLoginLogs(ctx context.Context, f models.LoginLogFilter, limit, offset int) ([]models.LoginLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.LoginLog, len(s.logs))
	copy(out, s.logs)
	return out, nil
}

func (s *fakeAuditStore) DeleteLoginLogsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var kept []models.LoginLog
	var removed int64
	for _, l := range s.logs {
		if l.LoginTime.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, l)
	}
	s.logs = kept
	return removed, nil
}

func (s *fakeAuditStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.logs)
}

func newTestRecorder(t *testing.T) (*Recorder, *fakeAuditStore) {
	t.Helper()
	logger, err := logging.New("", "error")
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	store := &fakeAuditStore{}
	return NewRecorder(store, logger), store
}

func TestRecordDeduplicatesWithinWindow(t *testing.T) {
	rec, store := newTestRecorder(t)
	base := time.Now()
	rec.now = func() time.Time { return base }
	ctx := context.Background()

	entry := Entry{Username: "alice", IPAddress: "10.0.0.1", Status: models.LoginFailure, FailureReason: "bad password"}
	rec.Record(ctx, entry)
	rec.Record(ctx, entry)

	if store.count() != 1 {
		t.Errorf("log count = %d, want 1 after duplicate within window", store.count())
	}

	// past the window, the same event records again
	rec.now = func() time.Time { return base.Add(DedupWindow + time.Second) }
	rec.Record(ctx, entry)
	if store.count() != 2 {
		t.Errorf("log count = %d, want 2 after window elapsed", store.count())
	}
}

func TestRecordDistinctKeysNotDeduplicated(t *testing.T) {
	rec, store := newTestRecorder(t)
	ctx := context.Background()

	rec.Record(ctx, Entry{Username: "alice", IPAddress: "10.0.0.1", Status: models.LoginFailure})
	rec.Record(ctx, Entry{Username: "alice", IPAddress: "10.0.0.2", Status: models.LoginFailure})
	rec.Record(ctx, Entry{Username: "alice", IPAddress: "10.0.0.1", Status: models.LoginSuccess})

	if store.count() != 3 {
		t.Errorf("log count = %d, want 3 for distinct keys", store.count())
	}
}

func TestRecordEmptyUsernameFallsBack(t *testing.T) {
	rec, store := newTestRecorder(t)

	rec.Record(context.Background(), Entry{IPAddress: "10.0.0.1", Status: models.LoginFailure})
	logs, _ := store.GetLoginLogs(context.Background(), models.LoginLogFilter{}, 10, 0)
	if len(logs) != 1 || logs[0].Username != "UNKNOWN" {
		t.Errorf("logs = %+v, want one entry with username UNKNOWN", logs)
	}
}

func TestRecordSwallowsStoreErrors(t *testing.T) {
	rec, store := newTestRecorder(t)
	store.createErr = context.DeadlineExceeded

	// must not panic or propagate
	rec.Record(context.Background(), Entry{Username: "alice", IPAddress: "10.0.0.1", Status: models.LoginSuccess})
	if store.count() != 0 {
		t.Errorf("log count = %d, want 0", store.count())
	}
}

func TestCleanupOldLoginLogs(t *testing.T) {
	rec, store := newTestRecorder(t)
	ctx := context.Background()

	store.CreateLoginLog(ctx, &models.LoginLog{Username: "alice", LoginTime: time.Now().Add(-40 * 24 * time.Hour), Status: models.LoginSuccess})
	store.CreateLoginLog(ctx, &models.LoginLog{Username: "alice", LoginTime: time.Now(), Status: models.LoginSuccess})

	n, err := rec.CleanupOld(ctx, 30*24*time.Hour)
	if err != nil {
		t.Fatalf("CleanupOld() error = %v", err)
	}
	if n != 1 {
		t.Errorf("CleanupOld() removed = %d, want 1", n)
	}
}
