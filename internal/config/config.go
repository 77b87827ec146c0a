package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DefaultInferenceURL = "https://models.github.ai/inference/chat/completions"
	DefaultModel        = "openai/gpt-4o"
)

type Config struct {
	Port      string
	LogLevel  string
	StaticDir string

	// GitHub Models inference
	GitHubToken    string
	GitHubModel    string
	InferenceURL   string
	ClassifyErrors bool

	// Spreadsheet context
	SheetCSVURL string
	SheetS3     S3Config
}

// S3Config describes an optional object-store location for the sheet CSV.
type S3Config struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Key             string
	UseSSL          bool
}

// Enabled reports whether an object-store sheet source is configured.
func (s S3Config) Enabled() bool {
	return s.Bucket != "" && s.Key != ""
}

// HasSheet reports whether any sheet source is configured.
func (c *Config) HasSheet() bool {
	return c.SheetCSVURL != "" || c.SheetS3.Enabled()
}

// Load reads an optional .env file and then the process environment.
// A missing GITHUB_TOKEN is not an error here; requests fail with a
// configuration error instead.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	cfg := &Config{
		Port:           getEnv("PORT", "5000"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		StaticDir:      getEnv("STATIC_DIR", "."),
		GitHubToken:    strings.TrimSpace(os.Getenv("GITHUB_TOKEN")),
		GitHubModel:    getEnv("GITHUB_MODEL", DefaultModel),
		InferenceURL:   getEnv("INFERENCE_URL", DefaultInferenceURL),
		ClassifyErrors: getBool("CLASSIFY_UPSTREAM_ERRORS", true),
		SheetCSVURL:    strings.TrimSpace(os.Getenv("SHEET_CSV_URL")),
		SheetS3: S3Config{
			Endpoint:        getEnv("SHEET_S3_ENDPOINT", ""),
			AccessKeyID:     getEnv("SHEET_S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("SHEET_S3_SECRET_ACCESS_KEY", ""),
			Bucket:          getEnv("SHEET_S3_BUCKET", ""),
			Key:             getEnv("SHEET_S3_KEY", ""),
			UseSSL:          getBool("SHEET_S3_USE_SSL", true),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	s3 := c.SheetS3
	if (s3.Bucket == "") != (s3.Key == "") {
		return fmt.Errorf("SHEET_S3_BUCKET and SHEET_S3_KEY must be set together")
	}
	if s3.Enabled() && s3.Endpoint == "" {
		return fmt.Errorf("SHEET_S3_ENDPOINT is required when SHEET_S3_BUCKET is set")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(getEnv(key, strconv.FormatBool(defaultValue)))
	if err != nil {
		return defaultValue
	}
	return v
}
