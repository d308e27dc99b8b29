package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"airwatch/internal/db"
	"airwatch/internal/logging"
	"airwatch/internal/metrics"
	"airwatch/internal/models"
)

// Per-user delivery queues, addressed by stable user identity.
const (
	QueueNotifications = "notifications"
	QueueUnreadCount   = "notifications/count"
	QueueRecent        = "notifications/recent"
)

const recentLimit = 20

// Store is the durable notification/preference/recipient state.
type Store interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
	NotificationsByUser(ctx context.Context, userID int64, limit, offset int) ([]models.Notification, error)
	CountUnread(ctx context.Context, userID int64) (int64, error)
	MarkNotificationRead(ctx context.Context, id, userID int64, at time.Time) (int64, error)
	MarkAllNotificationsRead(ctx context.Context, userID int64, at time.Time) (int64, error)
	DeleteNotificationsBefore(ctx context.Context, cutoff time.Time) (int64, error)
	Preference(ctx context.Context, userID int64) (models.NotificationPreference, error)
	SavePreference(ctx context.Context, p models.NotificationPreference) (models.NotificationPreference, error)
	UserByID(ctx context.Context, id int64) (models.User, error)
	ListActiveUsers(ctx context.Context) ([]models.User, error)
}

// Pusher delivers to a user's live delivery queue.
type Pusher interface {
	SendToUser(userID int64, queue string, data any) error
}

// Mailer sends one email.
type Mailer interface {
	Send(to, subject, body string) error
}

type emailTask struct {
	to      string
	subject string
	body    string
}

// Service persists per-user notifications and fans them out to the
// recipient's live queue and, preference permitting, email. Email
// dispatch is asynchronous: tasks go to a bounded queue drained by a
// worker pool, and never block persistence or push.
type Service struct {
	store  Store
	push   Pusher
	mailer Mailer
	logger *logging.Logger

	tasks   chan emailTask
	workers int
	ctx     context.Context
	cancel  context.CancelFunc
	wg      *sync.WaitGroup
}

func New(store Store, push Pusher, mailer Mailer, logger *logging.Logger, queueSize, workers int) *Service {
	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		store:   store,
		push:    push,
		mailer:  mailer,
		logger:  logger,
		tasks:   make(chan emailTask, queueSize),
		workers: workers,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the email worker pool.
func (s *Service) Start(wg *sync.WaitGroup) {
	s.wg = wg
	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}
}

// Stop drains the workers.
func (s *Service) Stop() {
	s.cancel()
}

func (s *Service) worker(id int) {
	defer s.wg.Done()
	for {
		select {
		case <-s.ctx.Done():
			s.logger.Infof("Email worker %d stopped", id)
			return
		case task := <-s.tasks:
			if err := s.mailer.Send(task.to, task.subject, task.body); err != nil {
				metrics.EmailsSent.WithLabelValues("failed").Inc()
				s.logger.Errorf("Failed to send email to %s: %v", task.to, err)
				continue
			}
			metrics.EmailsSent.WithLabelValues("success").Inc()
		}
	}
}

// Notify persists an UNREAD notification for one recipient, pushes it
// and a fresh unread count to their live queue, and queues an email
// when the recipient's preference gates allow. Push and email failures
// never surface: the persisted row is the authoritative outcome.
func (s *Service) Notify(ctx context.Context, userID int64, title, message string, typ models.NotificationType) (*models.Notification, error) {
	user, err := s.store.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.notifyUser(ctx, user, title, message, typ)
}

// NotifyAll runs the per-user notification path for every active
// recipient. Returns the number of recipients reached.
func (s *Service) NotifyAll(ctx context.Context, title, message string, typ models.NotificationType) (int, error) {
	users, err := s.store.ListActiveUsers(ctx)
	if err != nil {
		return 0, err
	}
	sent := 0
	for _, u := range users {
		if _, err := s.notifyUser(ctx, u, title, message, typ); err != nil {
			s.logger.Errorf("Failed to notify user %d: %v", u.ID, err)
			continue
		}
		sent++
	}
	s.logger.Infof("Broadcast notification %q delivered to %d users", title, sent)
	return sent, nil
}

func (s *Service) notifyUser(ctx context.Context, user models.User, title, message string, typ models.NotificationType) (*models.Notification, error) {
	n := &models.Notification{
		UserID:    user.ID,
		Title:     title,
		Message:   message,
		Type:      typ,
		Status:    models.StatusUnread,
		CreatedAt: time.Now(),
	}
	if err := s.store.CreateNotification(ctx, n); err != nil {
		return nil, err
	}
	metrics.NotificationsCreated.Inc()

	prefs, err := s.Preferences(ctx, user.ID)
	if err != nil {
		s.logger.Errorf("Failed to load preferences for user %d: %v", user.ID, err)
		return n, nil
	}

	if prefs.WebNotifications {
		if err := s.push.SendToUser(user.ID, QueueNotifications, n); err != nil {
			s.logger.Errorf("Failed to push notification to user %d: %v", user.ID, err)
		}
		s.pushUnreadCount(ctx, user.ID)
	}
	if prefs.EmailNotifications && typeEnabled(prefs, n.Type) {
		s.queueEmail(user, n)
	}
	return n, nil
}

// typeEnabled is the per-type gate on email delivery only; the live
// push ignores it. Types without a dedicated switch default to send.
func typeEnabled(prefs models.NotificationPreference, typ models.NotificationType) bool {
	switch typ {
	case models.TypeWeatherAlert:
		return prefs.WeatherAlerts
	case models.TypeAirQualityAlert, models.TypeCriticalThresholdAlert:
		return prefs.AirQualityAlerts
	case models.TypeAccountValidation, models.TypeAccountApproved, models.TypeAccountRejected, models.TypeAccountSuspended:
		return prefs.AccountNotifications
	default:
		return true
	}
}

func (s *Service) queueEmail(user models.User, n *models.Notification) {
	select {
	case s.tasks <- emailTask{to: user.Email, subject: n.Title, body: n.Message}:
	default:
		metrics.EmailsSent.WithLabelValues("dropped").Inc()
		s.logger.Errorf("Email queue full, dropping mail to %s", user.Email)
	}
}

// Preferences returns a user's gates, creating the all-enabled default
// row on first access.
func (s *Service) Preferences(ctx context.Context, userID int64) (models.NotificationPreference, error) {
	prefs, err := s.store.Preference(ctx, userID)
	if err == nil {
		return prefs, nil
	}
	if !errors.Is(err, db.ErrNotFound) {
		return models.NotificationPreference{}, err
	}
	created, err := s.store.SavePreference(ctx, models.DefaultPreference(userID))
	if err != nil {
		return models.NotificationPreference{}, err
	}
	s.logger.Infof("Created default notification preferences for user %d", userID)
	return created, nil
}

// UpdatePreferences overwrites a user's gates.
func (s *Service) UpdatePreferences(ctx context.Context, userID int64, p models.NotificationPreference) (models.NotificationPreference, error) {
	// make sure a row exists before overwriting, so created_at survives
	if _, err := s.Preferences(ctx, userID); err != nil {
		return models.NotificationPreference{}, err
	}
	p.UserID = userID
	return s.store.SavePreference(ctx, p)
}

// Notifications returns one user's notifications, newest first.
func (s *Service) Notifications(ctx context.Context, userID int64, limit, offset int) ([]models.Notification, error) {
	return s.store.NotificationsByUser(ctx, userID, limit, offset)
}

// UnreadCount returns the user's current UNREAD total.
func (s *Service) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	return s.store.CountUnread(ctx, userID)
}

// MarkRead flips one notification to READ. A notification owned by a
// different user is left untouched and no error is returned.
func (s *Service) MarkRead(ctx context.Context, id, userID int64) error {
	affected, err := s.store.MarkNotificationRead(ctx, id, userID, time.Now())
	if err != nil {
		return err
	}
	if affected > 0 {
		s.pushUnreadCount(ctx, userID)
	}
	return nil
}

// MarkAllRead bulk-updates UNREAD to READ for one user and returns the
// number of rows affected. A second call in a row affects zero.
func (s *Service) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	affected, err := s.store.MarkAllNotificationsRead(ctx, userID, time.Now())
	if err != nil {
		return 0, err
	}
	s.pushUnreadCount(ctx, userID)
	return affected, nil
}

// SendRecent pushes the user's latest notifications to their live
// queue, used when a connection attaches.
func (s *Service) SendRecent(ctx context.Context, userID int64) {
	recent, err := s.store.NotificationsByUser(ctx, userID, recentLimit, 0)
	if err != nil {
		s.logger.Errorf("Failed to load recent notifications for user %d: %v", userID, err)
		return
	}
	if err := s.push.SendToUser(userID, QueueRecent, recent); err != nil {
		s.logger.Errorf("Failed to push recent notifications to user %d: %v", userID, err)
	}
}

// CleanupOld is the retention job for notification rows.
func (s *Service) CleanupOld(ctx context.Context, maxAge time.Duration) (int64, error) {
	n, err := s.store.DeleteNotificationsBefore(ctx, time.Now().Add(-maxAge))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Infof("Notification retention removed %d notifications", n)
	}
	return n, nil
}

func (s *Service) pushUnreadCount(ctx context.Context, userID int64) {
	count, err := s.store.CountUnread(ctx, userID)
	if err != nil {
		s.logger.Errorf("Failed to count unread notifications for user %d: %v", userID, err)
		return
	}
	if err := s.push.SendToUser(userID, QueueUnreadCount, count); err != nil {
		s.logger.Errorf("Failed to push unread count to user %d: %v", userID, err)
	}
}
