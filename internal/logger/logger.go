package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// глобальный логгер процесса
var (
	logger *logrus.Logger
	Log    *logrus.Entry
)

// init нужен для тестов, где точка входа не main:
// без него обращение к Log падает на nil.
func init() {
	InitLogger()
}

func InitLogger() {
	logger = logrus.New()
	logger.SetOutput(os.Stderr)

	if os.Getenv("THREADERY_ENV") == "prod" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	Log = logger.WithFields(logrus.Fields{"service": "threadery"})
}
