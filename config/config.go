package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const defaultConfigPath = "config.yaml"

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Addr string `yaml:"-"` // computed after load
	} `yaml:"server"`
	Log struct {
		Level    string `yaml:"level"`
		Format   string `yaml:"format"`
		Output   string `yaml:"output"`
		FilePath string `yaml:"file_path"`
	} `yaml:"log"`

	DB struct {
		Host            string `yaml:"host"`
		Port            int    `yaml:"port"`
		Username        string `yaml:"username"`
		Password        string `yaml:"password"`
		Database        string `yaml:"database"`
		Charset         string `yaml:"charset"`
		ParseTime       bool   `yaml:"parse_time"`
		DSN             string `yaml:"-"`                 // computed after load unless DB_DSN is set
		MaxOpenConns    int    `yaml:"max_open_conns"`    // max open connections
		MaxIdleConns    int    `yaml:"max_idle_conns"`    // max idle connections
		ConnMaxLifetime int    `yaml:"conn_max_lifetime"` // minutes
		QueryTimeoutSec int    `yaml:"query_timeout_sec"`
	} `yaml:"database"`
	Cache struct {
		TTLSec           int `yaml:"ttl_sec"`            // lifetime of a cached recommendation list
		SweepIntervalSec int `yaml:"sweep_interval_sec"` // how often expired entries are purged
	} `yaml:"cache"`
	RateLimit struct {
		Disabled  bool `yaml:"disabled"`
		Requests  int  `yaml:"requests"`
		WindowSec int  `yaml:"window_sec"`
	} `yaml:"rate_limit"`
	CORS struct {
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"cors"`
	Scheduler struct {
		CheckIntervalSec       int `yaml:"check_interval_sec"`        // scheduler tick
		ChangeCheckIntervalSec int `yaml:"change_check_interval_sec"` // trip/user change polling
	} `yaml:"scheduler"`
	Timeouts struct {
		RequestSec  int `yaml:"request_sec"`  // read timeout, seconds
		ResponseSec int `yaml:"response_sec"` // write timeout, seconds
		IdleSec     int `yaml:"idle_sec"`     // idle timeout, seconds
	} `yaml:"timeouts"`
}

// Load reads .env and config.yaml from the working directory.
func Load() *Config {
	// .env is optional, system environment still applies without it
	_ = godotenv.Load()
	return LoadFrom(defaultConfigPath)
}

// LoadFrom reads the YAML file at path and falls back to environment
// variables when it is missing or cannot be parsed.
func LoadFrom(path string) *Config {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return loadFromEnv()
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Printf("Error loading %s: %v, falling back to environment variables", path, err)
		return loadFromEnv()
	}
	log.Printf("Loading configuration from %s", path)

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)
	return &cfg
}

func loadFromEnv() *Config {
	var cfg Config

	cfg.DB.Host = os.Getenv("DATABASE_HOST")
	if port := os.Getenv("DATABASE_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.DB.Port = p
		}
	}
	cfg.DB.Database = os.Getenv("DATABASE_NAME")
	cfg.DB.ParseTime = true

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)

	log.Println("Configuration loaded from environment variables, some settings may be missing")
	return &cfg
}

// applyEnvOverrides lets the environment win over the file for secrets and
// deployment specific values.
func applyEnvOverrides(cfg *Config) {
	if port := os.Getenv("SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}
	if username := os.Getenv("DATABASE_USERNAME"); username != "" {
		cfg.DB.Username = username
	}
	if password := os.Getenv("DATABASE_PASSWORD"); password != "" {
		cfg.DB.Password = password
	}
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		cfg.DB.DSN = dsn
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		cfg.CORS.AllowedOrigins = splitList(origins)
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 3000
	}
	cfg.Server.Addr = fmt.Sprintf(":%d", cfg.Server.Port)

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}

	if cfg.DB.Charset == "" {
		cfg.DB.Charset = "utf8mb4"
	}
	if cfg.DB.Port <= 0 {
		cfg.DB.Port = 3306
	}
	if cfg.DB.QueryTimeoutSec <= 0 {
		cfg.DB.QueryTimeoutSec = 10
	}
	if cfg.DB.DSN == "" && cfg.DB.Host != "" {
		cfg.DB.DSN = buildDSN(cfg)
	}

	if cfg.Cache.TTLSec <= 0 {
		cfg.Cache.TTLSec = 300
	}
	if cfg.Cache.SweepIntervalSec <= 0 {
		cfg.Cache.SweepIntervalSec = 600
	}

	if cfg.RateLimit.Requests <= 0 {
		cfg.RateLimit.Requests = 100
	}
	if cfg.RateLimit.WindowSec <= 0 {
		cfg.RateLimit.WindowSec = 900
	}

	if len(cfg.CORS.AllowedOrigins) == 0 {
		cfg.CORS.AllowedOrigins = []string{"*"}
	}

	if cfg.Scheduler.CheckIntervalSec <= 0 {
		cfg.Scheduler.CheckIntervalSec = 30
	}
	if cfg.Scheduler.ChangeCheckIntervalSec <= 0 {
		cfg.Scheduler.ChangeCheckIntervalSec = 60
	}

	if cfg.Timeouts.RequestSec <= 0 {
		cfg.Timeouts.RequestSec = 15
	}
	if cfg.Timeouts.ResponseSec <= 0 {
		cfg.Timeouts.ResponseSec = 30
	}
	if cfg.Timeouts.IdleSec <= 0 {
		cfg.Timeouts.IdleSec = 60
	}
}

func buildDSN(cfg *Config) string {
	parseTime := ""
	if cfg.DB.ParseTime {
		parseTime = "&parseTime=true"
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s%s",
		cfg.DB.Username,
		cfg.DB.Password,
		cfg.DB.Host,
		cfg.DB.Port,
		cfg.DB.Database,
		cfg.DB.Charset,
		parseTime)
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
