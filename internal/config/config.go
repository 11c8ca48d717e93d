package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// LoadEnv loads variables from a .env file if present.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file found: %v", err)
	}
}

// GetEnv returns an environment variable or a default value.
func GetEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return defaultVal
}

// GetIntEnv returns an int environment variable or a default value.
func GetIntEnv(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// GetBoolEnv returns a bool environment variable or a default value.
func GetBoolEnv(key string, defaultVal bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

// GetDurationEnv returns a duration environment variable or a default value.
func GetDurationEnv(key string, defaultVal time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

// GetDecimalEnv returns a decimal environment variable or a default value.
func GetDecimalEnv(key string, defaultVal decimal.Decimal) decimal.Decimal {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := decimal.NewFromString(strings.TrimSpace(val)); err == nil {
			return d
		}
	}
	return defaultVal
}

// GetListEnv splits a comma separated environment variable.
func GetListEnv(key string) []string {
	raw := GetEnv(key, "")
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// IsProduction checks if the app runs in production mode.
func IsProduction() bool {
	return GetEnv("ENV", "development") == "production"
}

// DatabaseConfig holds the postgres connection settings.
type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DSN renders the connection string understood by the gorm postgres driver.
func (c DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// SMTPConfig is considered configured only when host and user are set.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

func (c SMTPConfig) Configured() bool {
	return c.Host != "" && c.User != ""
}

// SMSConfig carries Africa's Talking credentials.
type SMSConfig struct {
	APIKey   string
	Username string
	SenderID string
	URL      string
	Timeout  time.Duration
}

func (c SMSConfig) Configured() bool {
	return c.APIKey != "" && c.Username != ""
}

type KafkaConfig struct {
	Brokers      []string
	DepositTopic string
}

// LedgerConfig holds the contribution scheme constants.
type LedgerConfig struct {
	MonthlyDepositAmount decimal.Decimal
	DefaultInterestRate  decimal.Decimal
	Location             *time.Location
}

type NotificationConfig struct {
	ChannelTimeout time.Duration
	Concurrency    int
}

type ScheduleConfig struct {
	MonthlyReport   string
	DepositReminder string
}

// Settings is the typed view over the environment used by the server.
type Settings struct {
	Port         string
	Env          string
	Storage      string
	JWTSecret    string
	CORSOrigins  string
	Database     DatabaseConfig
	Redis        RedisConfig
	SMTP         SMTPConfig
	SMS          SMSConfig
	Kafka        KafkaConfig
	Ledger       LedgerConfig
	Notification NotificationConfig
	Schedule     ScheduleConfig
}

// Load reads Settings from the environment, applying defaults.
func Load() Settings {
	tz := GetEnv("TIMEZONE", "Africa/Nairobi")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("unknown TIMEZONE %q, falling back to UTC: %v", tz, err)
		loc = time.UTC
	}

	return Settings{
		Port:        GetEnv("PORT", "3000"),
		Env:         GetEnv("ENV", "development"),
		Storage:     GetEnv("STORAGE", "postgres"),
		JWTSecret:   GetEnv("JWT_SECRET", "advance"),
		CORSOrigins: GetEnv("CORS_ORIGINS", "http://localhost:4200"),
		Database: DatabaseConfig{
			Host:            GetEnv("DB_HOST", "localhost"),
			Port:            GetEnv("DB_PORT", "5432"),
			User:            GetEnv("DB_USER", "postgres"),
			Password:        GetEnv("DB_PASSWORD", "postgres"),
			Name:            GetEnv("DB_NAME", "advance"),
			SSLMode:         GetEnv("DB_SSLMODE", "disable"),
			MaxIdleConns:    GetIntEnv("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    GetIntEnv("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: GetDurationEnv("DB_CONN_MAX_LIFETIME", time.Hour),
			ConnMaxIdleTime: GetDurationEnv("DB_CONN_MAX_IDLE_TIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			Host:     GetEnv("REDIS_HOST", "localhost"),
			Port:     GetEnv("REDIS_PORT", "6379"),
			Password: GetEnv("REDIS_PASSWORD", ""),
			DB:       GetIntEnv("REDIS_DB", 0),
		},
		SMTP: SMTPConfig{
			Host:     GetEnv("SMTP_HOST", ""),
			Port:     GetIntEnv("SMTP_PORT", 587),
			User:     GetEnv("SMTP_USER", ""),
			Password: GetEnv("SMTP_PASSWORD", ""),
			From:     GetEnv("DEFAULT_FROM_EMAIL", "noreply@advancecompany.com"),
		},
		SMS: SMSConfig{
			APIKey:   GetEnv("AFRICASTALKING_API_KEY", ""),
			Username: GetEnv("AFRICASTALKING_USERNAME", ""),
			SenderID: GetEnv("AFRICASTALKING_SENDER_ID", "ADVANCE"),
			URL:      GetEnv("AFRICASTALKING_URL", "https://api.africastalking.com/version1/messaging"),
			Timeout:  GetDurationEnv("AFRICASTALKING_TIMEOUT", 8*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:      GetListEnv("KAFKA_BROKERS"),
			DepositTopic: GetEnv("KAFKA_DEPOSIT_TOPIC", "deposit-events"),
		},
		Ledger: LedgerConfig{
			MonthlyDepositAmount: GetDecimalEnv("MONTHLY_DEPOSIT_AMOUNT", decimal.RequireFromString("20000.00")),
			DefaultInterestRate:  GetDecimalEnv("DEFAULT_INTEREST_RATE", decimal.RequireFromString("5.00")),
			Location:             loc,
		},
		Notification: NotificationConfig{
			ChannelTimeout: GetDurationEnv("NOTIFY_CHANNEL_TIMEOUT", 10*time.Second),
			Concurrency:    GetIntEnv("NOTIFY_CONCURRENCY", 8),
		},
		Schedule: ScheduleConfig{
			MonthlyReport:   GetEnv("MONTHLY_REPORT_SCHEDULE", "0 0 1 * *"),
			DepositReminder: GetEnv("DEPOSIT_REMINDER_SCHEDULE", "0 9 5 * *"),
		},
	}
}
