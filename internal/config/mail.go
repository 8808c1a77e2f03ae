package config

import (
	"os"
	"strconv"
	"time"
)

type MailConfig struct {
	Host         string
	Port         int
	Username     string
	Password     string
	FromAddress  string
	SupportInbox string
	SendTimeout  time.Duration
}

func LoadMailConfig() *MailConfig {
	fromAddress := getEnv("EMAIL_USER", "neonwriters3@gmail.com")
	return &MailConfig{
		Host:         getEnv("SMTP_HOST", "smtp.gmail.com"),
		Port:         getEnvAsInt("SMTP_PORT", 587),
		Username:     fromAddress,
		Password:     getEnv("EMAIL_PASSWORD", ""),
		FromAddress:  fromAddress,
		SupportInbox: getEnv("SUPPORT_INBOX", "neonwriters3@gmail.com"),
		SendTimeout:  getEnvAsDuration("SMTP_SEND_TIMEOUT", 30*time.Second),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if duration, err := time.ParseDuration(val); err == nil {
			return duration
		}
	}
	return defaultVal
}
