package config

import (
	"flag"
	"os"
	"strconv"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Configuration is loaded from an optional yaml file plus environment
// overrides via cleanenv.

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Postgres PostgresConfig `yaml:"postgres"`
	Hebcal   HebcalConfig   `yaml:"hebcal"`
	Geonames GeonamesConfig `yaml:"geonames"`
	Telegram TelegramConfig `yaml:"telegram"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Logger   LoggerConfig   `yaml:"logger"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr" env-default:":8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env-default:"5s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env-default:"10s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"10s"`
}

type LoggerConfig struct {
	Level  string `yaml:"level"  env-default:"info"` // debug|info|warn|error
	Format string `yaml:"format" env-default:"text"` // text|json
}

type PostgresConfig struct {
	Host            string        `yaml:"host" env-default:"localhost"`
	Port            int           `yaml:"port" env-default:"5432"`
	User            string        `yaml:"user" env-default:"postgres"`
	Password        string        `yaml:"password" env-default:"postgres"`
	DBName          string        `yaml:"dbname" env-default:"shabbat"`
	SSLMode         string        `yaml:"sslmode" env-default:"disable"`
	Timeout         time.Duration `yaml:"timeout" env-default:"5s"`
	MaxConns        int32         `yaml:"max_conns" env-default:"10"`
	MinConns        int32         `yaml:"min_conns" env-default:"1"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime" env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env-default:"30m"`
}

type HebcalConfig struct {
	BaseURL             string        `yaml:"base_url" env-default:"https://www.hebcal.com/shabbat"`
	CandleOffsetMinutes int           `yaml:"candle_offset_minutes" env-default:"18"`
	Timeout             time.Duration `yaml:"timeout" env-default:"10s"`
	UserAgent           string        `yaml:"user_agent" env-default:"shabbat-guard-bot/1.0"`
}

type GeonamesConfig struct {
	BaseURL  string        `yaml:"base_url" env-default:"http://api.geonames.org/searchJSON"`
	Username string        `yaml:"username" env:"GEONAMES_USERNAME"`
	Timeout  time.Duration `yaml:"timeout" env-default:"10s"`
}

type TelegramConfig struct {
	Token           string        `yaml:"token" env:"TELEGRAM_BOT_TOKEN" env-required:"true"`
	LongPollTimeout time.Duration `yaml:"long_poll_timeout" env-default:"10s"`
}

// StaticTenant is one baseline tenant record from the config file. Dynamic
// overrides from the tenant store win over these at whole-record granularity.
type StaticTenant struct {
	ChatID                string `yaml:"chat_id"`
	GeonameID             string `yaml:"geoname_id"`
	DisplayLocation       string `yaml:"display_location"`
	CandleOffsetMinutes   int    `yaml:"candle_offset_minutes"`
	HavdalahOffsetMinutes int    `yaml:"havdalah_offset_minutes"`
	LockMessage           string `yaml:"lock_message"`
	UnlockMessage         string `yaml:"unlock_message"`
}

type ScheduleConfig struct {
	Timezone   string         `yaml:"timezone" env-default:"Asia/Jerusalem"`
	RetryDelay time.Duration  `yaml:"retry_delay" env-default:"1h"`
	Tenants    []StaticTenant `yaml:"tenants"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}

	// Try to read from config file if specified
	configPath := fetchConfigPath()
	if configPath != "" {
		if err := cleanenv.ReadConfig(configPath, cfg); err != nil {
			return nil, err
		}
	}

	// Read from environment variables
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, err
	}

	// Single-tenant env shortcut: when no tenants are listed in the file,
	// a CHAT_ID env var plus the legacy location vars define one baseline
	// tenant (cleanenv does not expand env tags inside struct slices).
	if len(cfg.Schedule.Tenants) == 0 {
		if chatID := os.Getenv("CHAT_ID"); chatID != "" {
			cfg.Schedule.Tenants = append(cfg.Schedule.Tenants, StaticTenant{
				ChatID:                chatID,
				GeonameID:             envOr("GEONAME_ID", "281184"),
				DisplayLocation:       envOr("LOCATION", "Jerusalem"),
				CandleOffsetMinutes:   envIntOr("CANDLE_LIGHTING_OFFSET", 18),
				HavdalahOffsetMinutes: envIntOr("HAVDALAH_OFFSET", 0),
				LockMessage:           envOr("LOCK_MESSAGE", "🕯️ שבת שלום! הקבוצה ננעלת עד צאת השבת."),
				UnlockMessage:         envOr("UNLOCK_MESSAGE", "✨ שבוע טוב! הקבוצה נפתחה."),
			})
		}
	}

	return cfg, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func fetchConfigPath() string {
	var res string
	flag.StringVar(&res, "c", "", "config file path")
	flag.Parse()
	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}
	return res
}
