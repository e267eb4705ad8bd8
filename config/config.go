package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config enthält alle Konfigurationsparameter aus Umgebungsvariablen.
type Config struct {
	DBHost     string `envconfig:"DB_HOST" required:"true"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" required:"true"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" required:"true"`

	HTTPPort string `envconfig:"HTTP_PORT" default:"4242"`

	// Brave Web Search API
	BraveBaseURL      string `envconfig:"BRAVE_BASE_URL" default:"https://api.search.brave.com/res/v1/web/search"`
	BraveAPIKey       string `envconfig:"BRAVE_API_KEY" required:"true"`
	SearchResultLimit int    `envconfig:"SEARCH_RESULT_LIMIT" default:"5"`

	// OpenAI Chat Completions API
	OpenAIBaseURL       string  `envconfig:"OPENAI_BASE_URL" default:"https://api.openai.com/v1"`
	OpenAIAPIKey        string  `envconfig:"OPENAI_API_KEY" required:"true"`
	OpenAIModel         string  `envconfig:"OPENAI_MODEL" default:"gpt-4o"`
	AnalysisTemperature float64 `envconfig:"ANALYSIS_TEMPERATURE" default:"0.7"`
	DigestTemperature   float64 `envconfig:"DIGEST_TEMPERATURE" default:"0.6"`

	// Analyse-Queue und Watchdog
	AnalysisWorkers      int    `envconfig:"ANALYSIS_WORKERS" default:"4"`
	AnalysisQueueSize    int    `envconfig:"ANALYSIS_QUEUE_SIZE" default:"64"`
	ReaperCron           string `envconfig:"REAPER_CRON" default:"*/10 * * * *"`
	StaleAnalysisMinutes int    `envconfig:"STALE_ANALYSIS_MINUTES" default:"15"`

	// Daily Digest
	DigestCron  string `envconfig:"DIGEST_CRON" default:"0 7 * * *"`
	DigestQuery string `envconfig:"DIGEST_QUERY" default:"B2B marketing content trends this week"`

	// S3-Archiv für Analyse-Artefakte und Backups
	S3Key    string `envconfig:"S3_KEY" required:"true"`
	S3Secret string `envconfig:"S3_SECRET" required:"true"`
	S3URL    string `envconfig:"S3_URL" required:"true"`
	S3Region string `envconfig:"S3_REGION" required:"true"`
	S3Bucket string `envconfig:"S3_BUCKET" required:"true"`

	APISecretKey string `envconfig:"API_SECRET_KEY"`
}

// DSN gibt den Data Source Name für die PostgreSQL-Verbindung zurück.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

// Load lädt die Konfiguration aus den Umgebungsvariablen.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	err := envconfig.Process("", &c)
	return &c, err
}
