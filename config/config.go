package config

import (
	"strconv"
	"strings"
	"time"

	"catering-backend/utils"
)

type Config struct {
	Port        string
	DBDriver    string
	SQLitePath  string
	JWTSecret   string
	JWTExpiry   time.Duration
	CORSOrigins []string
	UploadDir   string
	Location    *time.Location
	DailyCap    int

	NotifyChannel    string
	LineChannelToken string
	LineTargetID     string
	TwilioSID        string
	TwilioToken      string
	TwilioFrom       string
	TwilioTo         string
	ReminderCron     string

	AdminUsername string
	AdminPassword string
	AdminEmail    string
	AdminPhone    string
}

func envInt(key string, def int) int {
	v, err := strconv.Atoi(utils.EnvOrDefault(key, ""))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func parseCorsOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		if origin := strings.TrimSpace(part); origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// Load reads settings from the environment (.env is loaded by main beforehand).
func Load() *Config {
	return &Config{
		Port:        utils.EnvOrDefault("PORT", "8080"),
		DBDriver:    strings.ToLower(utils.EnvOrDefault("DB_DRIVER", "mysql")),
		SQLitePath:  utils.EnvOrDefault("SQLITE_PATH", "catering.db"),
		JWTSecret:   utils.EnvOrDefault("JWT_SECRET", ""),
		JWTExpiry:   time.Duration(envInt("JWT_EXPIRY_HOURS", 24)) * time.Hour,
		CORSOrigins: parseCorsOrigins(utils.EnvOrDefault("CORS_ORIGINS", "")),
		UploadDir:   utils.EnvOrDefault("UPLOAD_DIR", "uploads"),
		Location:    utils.LoadLocation(utils.EnvOrDefault("BOOKING_TIMEZONE", "Asia/Bangkok")),
		DailyCap:    envInt("BOOKING_DAILY_CAP", 2),

		NotifyChannel:    strings.ToLower(utils.EnvOrDefault("NOTIFY_CHANNEL", "log")),
		LineChannelToken: utils.EnvOrDefault("LINE_CHANNEL_TOKEN", ""),
		LineTargetID:     utils.EnvOrDefault("LINE_TARGET_ID", ""),
		TwilioSID:        utils.EnvOrDefault("TWILIO_ACCOUNT_SID", ""),
		TwilioToken:      utils.EnvOrDefault("TWILIO_AUTH_TOKEN", ""),
		TwilioFrom:       utils.EnvOrDefault("TWILIO_FROM", ""),
		TwilioTo:         utils.EnvOrDefault("TWILIO_TO", ""),
		ReminderCron:     utils.EnvOrDefault("REMINDER_CRON", "0 9 * * *"),

		AdminUsername: utils.EnvOrDefault("ADMIN_USERNAME", "admin"),
		AdminPassword: utils.EnvOrDefault("ADMIN_PASSWORD", "admin123"),
		AdminEmail:    utils.EnvOrDefault("ADMIN_EMAIL", "admin@catering.local"),
		AdminPhone:    utils.EnvOrDefault("ADMIN_PHONE", "0800000000"),
	}
}
