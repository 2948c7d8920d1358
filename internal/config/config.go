package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// TemplateEntry is one recurring training in the weekly schedule.
// Weekday follows time.Weekday (0 = Sunday .. 6 = Saturday).
type TemplateEntry struct {
	Weekday int    `json:"weekday"`
	Time    string `json:"time"` // 24h format "HH:MM"
}

// Schedule holds the weekly template and the reminder tuning, read from
// a JSON file so operators can edit it without touching the environment.
type Schedule struct {
	Trainings      []TemplateEntry `json:"trainings"`
	HorizonDays    int             `json:"horizon_days"`
	FutureListed   int             `json:"future_trainings"`
	MeetingBaseURL string          `json:"meeting_base_url"`
	NotifyNowMin   int             `json:"notify_now_minutes"`
	NotifyFarHours int             `json:"notify_far_hours"`
}

// NotifyNow returns the near-reminder threshold.
func (s *Schedule) NotifyNow() time.Duration {
	return time.Duration(s.NotifyNowMin) * time.Minute
}

// NotifyFar returns the far-reminder threshold.
func (s *Schedule) NotifyFar() time.Duration {
	return time.Duration(s.NotifyFarHours) * time.Hour
}

type Config struct {
	TelegramToken  string
	ChannelID      int64
	DBDSN          string
	Environment    string
	MigrationsPath string
	Schedule       Schedule
}

// Load reads the environment (optionally from .env) and the schedule
// file. Missing required keys are errors; the process must not start
// half-configured.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("no .env file found, using environment variables")
	}

	cfg := &Config{
		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
		DBDSN:          os.Getenv("DB_DSN"),
		Environment:    os.Getenv("ENV"),
		MigrationsPath: os.Getenv("MIGRATIONS_PATH"),
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.MigrationsPath == "" {
		cfg.MigrationsPath = "migrations"
	}

	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is required but not set")
	}

	if raw := os.Getenv("TELEGRAM_CHANNEL_ID"); raw != "" {
		if _, err := fmt.Sscan(raw, &cfg.ChannelID); err != nil {
			return nil, fmt.Errorf("TELEGRAM_CHANNEL_ID %q is not a chat id: %w", raw, err)
		}
	}

	schedulePath := os.Getenv("SCHEDULE_CONFIG")
	if schedulePath == "" {
		schedulePath = "schedule.json"
	}
	schedule, err := loadSchedule(schedulePath)
	if err != nil {
		return nil, err
	}
	cfg.Schedule = *schedule

	return cfg, nil
}

func loadSchedule(path string) (*Schedule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schedule config %s: %w", path, err)
	}

	var s Schedule
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse schedule config %s: %w", path, err)
	}

	if len(s.Trainings) == 0 {
		return nil, fmt.Errorf("schedule config %s: no trainings configured", path)
	}
	for _, entry := range s.Trainings {
		if entry.Weekday < 0 || entry.Weekday > 6 {
			return nil, fmt.Errorf("schedule config %s: weekday %d out of range", path, entry.Weekday)
		}
		var h, m int
		if _, err := fmt.Sscanf(entry.Time, "%d:%d", &h, &m); err != nil || h < 0 || h > 23 || m < 0 || m > 59 {
			return nil, fmt.Errorf("schedule config %s: invalid time %q", path, entry.Time)
		}
	}

	// Defaults match the original deployment.
	if s.HorizonDays <= 0 {
		s.HorizonDays = 14
	}
	if s.FutureListed <= 0 {
		s.FutureListed = 3
	}
	if s.NotifyNowMin <= 0 {
		s.NotifyNowMin = 30
	}
	if s.NotifyFarHours <= 0 {
		s.NotifyFarHours = 24
	}
	if s.MeetingBaseURL == "" {
		s.MeetingBaseURL = "https://meet.jit.si/"
	}

	return &s, nil
}
