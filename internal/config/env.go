package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// LoggingConfig holds logging-related configuration.
type LoggingConfig struct {
	Level      string
	Pretty     bool
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// AxiomConfig holds Axiom logging configuration.
type AxiomConfig struct {
	Send          bool
	APIKey        string
	OrgID         string
	Dataset       string
	FlushInterval time.Duration
}

// GeminiConfig configures the document-model client.
type GeminiConfig struct {
	APIKey         string
	BaseURL        string
	Model          string // preferred model id; empty selects the first qualifying one
	PollInterval   time.Duration
	RequestTimeout time.Duration
}

// RetryConfig defines fixed-delay retries around model calls.
type RetryConfig struct {
	Attempts    int
	ServerDelay time.Duration
	OtherDelay  time.Duration
}

// PathsConfig defines the folder layout of a run.
type PathsConfig struct {
	InputDir       string
	ImageSourceDir string
	ImageDir       string
	OutputDir      string
	ChaptersFile   string
	TemplateDir    string
}

// S3Config is only consulted when pdf_path is an s3:// reference.
type S3Config struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
}

// Config is the top-level configuration.
type Config struct {
	Logging           LoggingConfig
	Axiom             AxiomConfig
	Gemini            GeminiConfig
	Retry             RetryConfig
	Paths             PathsConfig
	S3                S3Config
	ChapterDelay      time.Duration
	OCRLanguage       string
	RenderHTML        bool
	RepairBackslashes bool
	MetricsFile       string
}

// FromEnv loads configuration from environment with sensible defaults.
func FromEnv() Config {
	cfg := Config{}

	cfg.Logging = LoggingConfig{
		Level:      getEnv("LOG_LEVEL", "info"),
		Pretty:     parseBool(getEnv("LOG_PRETTY", devDefaultPretty())),
		File:       getEnv("LOG_FILE", "logs/studyguide.log"),
		MaxSizeMB:  parseInt(getEnv("LOG_MAX_SIZE_MB", "100"), 100),
		MaxBackups: parseInt(getEnv("LOG_MAX_BACKUPS", "10"), 10),
		MaxAgeDays: parseInt(getEnv("LOG_MAX_AGE_DAYS", "30"), 30),
		Compress:   parseBool(getEnv("LOG_COMPRESS", "true")),
	}

	baseDataset := getEnv("AXIOM_DATASET", "dev")
	cfg.Axiom = AxiomConfig{
		Send:          parseBool(getEnv("SEND_LOGS_TO_AXIOM", "0")),
		APIKey:        getEnv("AXIOM_API_KEY", ""),
		OrgID:         getEnv("AXIOM_ORG_ID", ""),
		Dataset:       baseDataset + "_studyguide",
		FlushInterval: parseDuration(getEnv("AXIOM_FLUSH_INTERVAL", "10s"), 10*time.Second),
	}

	cfg.Gemini = GeminiConfig{
		APIKey:         strings.TrimSpace(getEnv("GEMINI_API_KEY", "")),
		BaseURL:        getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
		Model:          getEnv("GEMINI_MODEL", ""),
		PollInterval:   parseDuration(getEnv("GEMINI_POLL_INTERVAL", "2s"), 2*time.Second),
		RequestTimeout: parseDuration(getEnv("GEMINI_REQUEST_TIMEOUT", "300s"), 300*time.Second),
	}

	cfg.Retry = RetryConfig{
		Attempts:    parseInt(getEnv("RETRY_ATTEMPTS", "3"), 3),
		ServerDelay: parseDuration(getEnv("RETRY_SERVER_DELAY", "20s"), 20*time.Second),
		OtherDelay:  parseDuration(getEnv("RETRY_OTHER_DELAY", "5s"), 5*time.Second),
	}
	if cfg.Retry.Attempts <= 0 { cfg.Retry.Attempts = 3 }

	cfg.Paths = PathsConfig{
		InputDir:       getEnv("INPUT_DIR", "ocr_files"),
		ImageSourceDir: getEnv("IMAGE_SOURCE_DIR", "."),
		ImageDir:       getEnv("IMAGE_DIR", "scanned_images"),
		OutputDir:      getEnv("OUTPUT_DIR", "class5"),
		ChaptersFile:   getEnv("CHAPTERS_FILE", "class5/chapters.json"),
		TemplateDir:    getEnv("TEMPLATE_DIR", "templates"),
	}

	cfg.S3 = S3Config{
		Endpoint:        getEnv("S3_ENDPOINT", ""),
		Region:          getEnv("S3_REGION", ""),
		AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		Bucket:          getEnv("AWS_S3_BUCKET", ""),
	}

	cfg.ChapterDelay = parseDuration(getEnv("CHAPTER_DELAY", "5s"), 5*time.Second)
	cfg.OCRLanguage = getEnv("OCR_LANG", "tel")
	cfg.RenderHTML = parseBool(getEnv("RENDER_HTML", "false"))
	cfg.RepairBackslashes = parseBool(getEnv("JSON_REPAIR_BACKSLASHES", "true"))
	cfg.MetricsFile = getEnv("METRICS_FILE", "")

	return cfg
}

// RequireAPIKey reports the missing credential as a fatal configuration error.
func (c Config) RequireAPIKey() error {
	if c.Gemini.APIKey == "" {
		return &Error{Key: "GEMINI_API_KEY", Reason: "not set"}
	}
	return nil
}

// Helpers
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	if s == "" { return def }
	if n, err := strconv.Atoi(s); err == nil { return n }
	return def
}

func parseBool(s string) bool {
	v := strings.ToLower(strings.TrimSpace(s))
	return v == "1" || v == "true" || v == "yes" || v == "on"
}

func parseDuration(s string, def time.Duration) time.Duration {
	if s == "" { return def }
	if d, err := time.ParseDuration(s); err == nil { return d }
	return def
}

func devDefaultPretty() string {
	env := strings.ToLower(os.Getenv("ENVIRONMENT"))
	if env == "dev" || env == "development" || env == "local" { return "true" }
	return "false"
}
