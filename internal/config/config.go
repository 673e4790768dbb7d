package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	TelegramBotToken    string `env:"TELEGRAM_BOT_TOKEN,required"`
	TelegramPollTimeout int    `env:"TELEGRAM_POLL_TIMEOUT,default=60"`
	TelegramWebhookURL  string `env:"TELEGRAM_WEBHOOK_URL"`
	AdminChatID         int64  `env:"ADMIN_CHAT_ID,default=0"`

	DBDriver          string        `env:"DB_DRIVER,default=postgres"`
	DBHost            string        `env:"DB_HOST,default=localhost"`
	DBPort            int           `env:"DB_PORT,default=5432"`
	DBUser            string        `env:"DB_USER,default=postgres"`
	DBPassword        string        `env:"DB_PASSWORD"`
	DBName            string        `env:"DB_NAME,default=rw_by"`
	DBSSLMode         string        `env:"DB_SSLMODE,default=disable"`
	DBSQLitePath      string        `env:"DB_SQLITE_PATH,default=railtrack.db"`
	DBMaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS,default=10"`
	DBMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS,default=25"`
	DBConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME,default=30m"`

	HTTPAddr string `env:"HTTP_ADDR,default=:8080"`

	RWBYBaseURL string        `env:"RWBY_BASE_URL,default=https://pass.rw.by/ru/route/"`
	RWBYTimeout time.Duration `env:"RWBY_TIMEOUT,default=30s"`
	RWBYRetries int           `env:"RWBY_RETRIES,default=2"`
	Timezone    string        `env:"TIMEZONE,default=Europe/Minsk"`

	SchedulerIdleInterval time.Duration `env:"SCHEDULER_IDLE_INTERVAL,default=1m"`
	SchedulerBatchSize    int           `env:"SCHEDULER_BATCH_SIZE,default=100"`
	SchedulerWorkers      int           `env:"SCHEDULER_WORKERS,default=4"`
	SchedulerErrorBackoff time.Duration `env:"SCHEDULER_ERROR_BACKOFF,default=15m"`
	TrackingLimit         int           `env:"TRACKING_LIMIT,default=5"`
	CleanupSchedule       string        `env:"CLEANUP_SCHEDULE,default=@every 2h"`

	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=json"`
}

// Load reads the environment, after applying a .env file from the working
// directory when one exists.
func Load(ctx context.Context) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.SchedulerWorkers < 1 {
		return errors.New("SCHEDULER_WORKERS must be positive")
	}
	if c.SchedulerBatchSize < 1 {
		return errors.New("SCHEDULER_BATCH_SIZE must be positive")
	}
	if c.SchedulerErrorBackoff <= 0 || c.SchedulerErrorBackoff > 25*time.Minute {
		return errors.New("SCHEDULER_ERROR_BACKOFF must be within (0, 25m]")
	}
	if c.TrackingLimit < 1 {
		return errors.New("TRACKING_LIMIT must be positive")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid TIMEZONE: %w", err)
	}
	return nil
}

func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
