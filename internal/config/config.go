package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment.
type Config struct {
	Kafka        KafkaConfig
	DB           DBConfig
	Email        EmailConfig
	API          APIConfig
	Logging      LoggingConfig
	Notification NotificationConfig
	Retention    RetentionConfig
}

type KafkaConfig struct {
	Broker  string
	Topic   string
	GroupID string
}

type DBConfig struct {
	DSN string
}

type EmailConfig struct {
	SMTPServer string
	SMTPPort   int
	Username   string
	Password   string
	From       string
}

type APIConfig struct {
	Port     string
	BasePath string
}

type LoggingConfig struct {
	Dir   string
	Level string
}

type NotificationConfig struct {
	QueueSize  int
	MaxWorkers int
}

type RetentionConfig struct {
	AlertDays        int
	NotificationDays int
	LoginLogDays     int
}

// Load reads environment variables, applies defaults, and returns a Config.
func Load() (Config, error) {
	// Load .env if present
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("failed to load .env file: %w", err)
	}

	var cfg Config

	cfg.Kafka.Broker = os.Getenv("KAFKA_BROKER")
	cfg.Kafka.Topic = os.Getenv("KAFKA_TOPIC")
	cfg.Kafka.GroupID = os.Getenv("KAFKA_GROUP_ID")

	cfg.DB.DSN = os.Getenv("DB_DSN")

	cfg.Email.SMTPServer = os.Getenv("EMAIL_SMTP_SERVER")
	if p, err := strconv.Atoi(os.Getenv("EMAIL_SMTP_PORT")); err == nil {
		cfg.Email.SMTPPort = p
	}
	cfg.Email.Username = os.Getenv("EMAIL_USERNAME")
	cfg.Email.Password = os.Getenv("EMAIL_PASSWORD")
	cfg.Email.From = os.Getenv("EMAIL_FROM")

	cfg.API.Port = os.Getenv("API_PORT")
	cfg.API.BasePath = os.Getenv("API_BASE_PATH")

	cfg.Logging.Dir = os.Getenv("LOG_DIR")
	cfg.Logging.Level = os.Getenv("LOG_LEVEL")

	if qs, err := strconv.Atoi(os.Getenv("NOTIFY_QUEUE_SIZE")); err == nil {
		cfg.Notification.QueueSize = qs
	}
	if mw, err := strconv.Atoi(os.Getenv("NOTIFY_MAX_WORKERS")); err == nil {
		cfg.Notification.MaxWorkers = mw
	}

	if d, err := strconv.Atoi(os.Getenv("ALERT_RETENTION_DAYS")); err == nil {
		cfg.Retention.AlertDays = d
	}
	if d, err := strconv.Atoi(os.Getenv("NOTIFICATION_RETENTION_DAYS")); err == nil {
		cfg.Retention.NotificationDays = d
	}
	if d, err := strconv.Atoi(os.Getenv("LOGIN_LOG_RETENTION_DAYS")); err == nil {
		cfg.Retention.LoginLogDays = d
	}

	// Validate required settings
	missing := []string{}
	if cfg.Kafka.Broker == "" {
		missing = append(missing, "KAFKA_BROKER")
	}
	if cfg.DB.DSN == "" {
		missing = append(missing, "DB_DSN")
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required configurations: %v", missing)
	}

	// Apply defaults
	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = "sensor/airquality"
	}
	if cfg.Kafka.GroupID == "" {
		cfg.Kafka.GroupID = "airwatch-backend"
	}
	if cfg.API.Port == "" {
		cfg.API.Port = ":8080"
	}
	if cfg.API.BasePath == "" {
		cfg.API.BasePath = "/api"
	}
	if cfg.Logging.Dir == "" {
		cfg.Logging.Dir = "logs"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Notification.QueueSize == 0 {
		cfg.Notification.QueueSize = 500
	}
	if cfg.Notification.MaxWorkers == 0 {
		cfg.Notification.MaxWorkers = 10
	}
	if cfg.Retention.AlertDays == 0 {
		cfg.Retention.AlertDays = 30
	}
	if cfg.Retention.NotificationDays == 0 {
		cfg.Retention.NotificationDays = 30
	}
	if cfg.Retention.LoginLogDays == 0 {
		cfg.Retention.LoginLogDays = 30
	}

	return cfg, nil
}
