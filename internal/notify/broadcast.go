package notify

import (
	"time"

	"airwatch/internal/logging"
	"airwatch/internal/metrics"
	"airwatch/internal/models"
)

// Topic names for live subscribers.
const (
	TopicAirQuality    = "airquality"
	TopicAlerts        = "alerts"
	TopicAlertSummary  = "alert-summary"
	TopicNotifications = "notifications"
	TopicRecalculated  = "alerts-recalculated"
)

// Publisher publishes to a named broadcast topic.
type Publisher interface {
	Broadcast(topic string, data any) error
}

// Broadcaster fans alert lifecycle events out to the live topics.
// Every publish is best-effort: failures are counted and logged, never
// returned, and never roll back the persisted row that triggered them.
type Broadcaster struct {
	pub    Publisher
	logger *logging.Logger
}

func NewBroadcaster(pub Publisher, logger *logging.Logger) *Broadcaster {
	return &Broadcaster{pub: pub, logger: logger}
}

// SendNewAlert publishes a created alert to the generic, type,
// parameter, and severity topics, plus a UI notification envelope.
func (b *Broadcaster) SendNewAlert(a models.Alert) {
	b.publish(TopicAlerts, a)
	b.publish(TopicAlerts+"/"+a.Type, a)
	b.publish(TopicAlerts+"/parameter/"+a.Parameter, a)
	b.publish(TopicAlerts+"/severity/"+a.Severity, a)
	b.publish(TopicNotifications, map[string]any{
		"eventType": "NEW_ALERT",
		"alertId":   a.ID,
		"severity":  a.Severity,
		"parameter": a.Parameter,
		"message":   a.Message,
		"timestamp": time.Now().UnixMilli(),
	})
}

// SendAlertDeletion publishes a deletion envelope.
func (b *Broadcaster) SendAlertDeletion(id int64) {
	b.publish(TopicNotifications, map[string]any{
		"eventType": "ALERT_DELETED",
		"alertId":   id,
	})
}

// SendThresholdUpdate publishes a threshold-change envelope.
func (b *Broadcaster) SendThresholdUpdate(parameter string) {
	b.publish(TopicNotifications, map[string]any{
		"eventType": "THRESHOLD_UPDATED",
		"parameter": parameter,
		"timestamp": time.Now().UnixMilli(),
	})
}

// SendAlertSummary publishes refreshed 24h severity counts.
func (b *Broadcaster) SendAlertSummary(s models.AlertSummary) {
	b.publish(TopicAlertSummary, s)
}

// SendRecalculated signals that a full re-evaluation pass finished.
func (b *Broadcaster) SendRecalculated() {
	b.publish(TopicRecalculated, true)
}

// SendReading publishes a raw reading to the live air-quality topic.
func (b *Broadcaster) SendReading(r models.Reading) {
	b.publish(TopicAirQuality, r)
}

func (b *Broadcaster) publish(topic string, data any) {
	if err := b.pub.Broadcast(topic, data); err != nil {
		metrics.BroadcastErrors.Inc()
		b.logger.Errorf("Failed to publish on %s: %v", topic, err)
	}
}
