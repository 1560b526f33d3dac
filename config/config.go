package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port    int
	DBPath  string
	Workers int

	// Rate regime selection: RatesDir holds one YAML file per named
	// regime, RatesMode picks which one applies.
	RatesMode string
	RatesDir  string

	// Live scraping.
	NavTimeout    time.Duration
	RentEstimates bool

	// Watch mode.
	WatchDir        string
	ReportDir       string
	AnalyzeCron     string
	AnalyzeInterval time.Duration

	S3 S3Config
}

type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:    getEnvInt("PORT", 8000),
		DBPath:  getEnv("DB_PATH", "propper.db"),
		Workers: getEnvInt("WORKERS", 4),

		RatesMode: getEnv("RATES_MODE", "flip"),
		RatesDir:  getEnv("RATES_DIR", "config/rates"),

		NavTimeout:    getEnvDuration("NAV_TIMEOUT", 60*time.Second),
		RentEstimates: os.Getenv("RENT_ESTIMATES") == "true",

		WatchDir:    os.Getenv("WATCH_DIR"),
		ReportDir:   getEnv("REPORT_DIR", "reports"),
		AnalyzeCron: os.Getenv("ANALYZE_CRON"),

		S3: S3Config{
			Bucket:          os.Getenv("S3_BUCKET"),
			Region:          getEnv("S3_REGION", "us-east-1"),
			Endpoint:        os.Getenv("S3_ENDPOINT"),
			AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
		},
	}

	if interval := os.Getenv("ANALYZE_INTERVAL"); interval != "" {
		d, err := time.ParseDuration(interval)
		if err == nil {
			cfg.AnalyzeInterval = d
		}
	}

	return cfg, nil
}

// RatesPath is the YAML file for the configured rate regime. A missing file
// is fine: the loader falls back to built-in defaults.
func (c *Config) RatesPath() string {
	return filepath.Join(c.RatesDir, c.RatesMode+".yaml")
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
