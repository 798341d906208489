package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		logrus.Println(".env file not found")
	}
}

func GetEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		logrus.Fatalf("environment variable %s is not set", key)
	}
	return value
}

// GetEnvDefault - как GetEnv, но с дефолтом вместо фатальной ошибки
// (для необязательных переменных вроде порта).
func GetEnvDefault(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		return def
	}
	return value
}
