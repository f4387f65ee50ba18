package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log является глобальным экземпляром логгера для всего приложения.
var Log = logrus.New()

// Init инициализирует глобальный логгер из переменных окружения.
// Вызывается один раз при старте (main.go) и в TestMain пакетов.
func Init() {
	Configure(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"), os.Stdout)
}

// Configure применяет уровень и формат явно (значения из конфига имеют приоритет над env).
// Пустой level означает "info", пустой format - текстовый вывод.
func Configure(level, format string, out io.Writer) {
	if level == "" {
		level = "info"
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)

	// "json" - для продакшена, "text" - для разработки.
	if strings.ToLower(format) == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	}

	if out == nil {
		out = os.Stdout
	}
	Log.SetOutput(out)
}

// For возвращает логгер с полем component.
func For(component string) *logrus.Entry {
	return Log.WithField("component", component)
}
