package logger

import (
	"io"

	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

// Init настраивает уровень и формат. В development пишем текстом, иначе JSON.
func Init(level, env string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)

	if env == "development" {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
		return
	}
	Log.SetFormatter(&logrus.JSONFormatter{})
}

// Discard глушит вывод (для тестов).
func Discard() {
	Log.SetOutput(io.Discard)
}

// WithSession возвращает запись с идентификатором браузерной сессии.
func WithSession(sessionID string) *logrus.Entry {
	return Log.WithField("session", sessionID)
}

// Component возвращает запись с именем компонента.
func Component(name string) *logrus.Entry {
	return Log.WithField("component", name)
}
