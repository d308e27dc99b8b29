package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger wraps logrus with rotating file output.
type Logger struct {
	*logrus.Logger
	file *lumberjack.Logger
}

// New builds a logger writing to both stdout and a rotating file under
// dir. An empty dir disables file output (used by tests).
func New(dir, level string) (*Logger, error) {
	base := logrus.New()
	base.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	base.SetLevel(lvl)

	l := &Logger{Logger: base}
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
		l.file = &lumberjack.Logger{
			Filename:   filepath.Join(dir, "airwatch.log"),
			MaxSize:    50, // MB
			MaxBackups: 7,
			MaxAge:     30, // days
			Compress:   true,
		}
		base.SetOutput(io.MultiWriter(os.Stdout, l.file))
	}
	return l, nil
}

// Close flushes the rotating file sink, if any.
func (l *Logger) Close() {
	if l.file != nil {
		_ = l.file.Close()
	}
}
