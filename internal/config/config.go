package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port  string `envconfig:"PORT" default:"8080"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	S3Endpoint  string `envconfig:"S3_ENDPOINT"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY_ID"`
	S3SecretKey string `envconfig:"S3_SECRET_ACCESS_KEY"`
	S3Bucket    string `envconfig:"S3_BUCKET" default:"vendo-documents"`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`

	OpenAIAPIKey string `envconfig:"OPENAI_API_KEY"`

	// Retrieval ranking policy. Thresholds are policy, not mechanism, so they
	// are tunable per deployment.
	ProductTopK                  int     `envconfig:"PRODUCT_TOP_K" default:"5"`
	DocTopK                      int     `envconfig:"DOC_TOP_K" default:"3"`
	RetrievalConfidenceThreshold float64 `envconfig:"RETRIEVAL_CONFIDENCE_THRESHOLD" default:"0.7"`
	MinSimilarity                float64 `envconfig:"MIN_SIMILARITY" default:"0.5"`
	CriticalChunkKinds           string  `envconfig:"CRITICAL_CHUNK_KINDS" default:"price_stock"`

	// CSAT analytics policy
	CsatProblemThreshold float64 `envconfig:"CSAT_PROBLEM_THRESHOLD" default:"3.0"`

	// Bootstrap: create initial tenant and API key on startup
	InitTenantName string `envconfig:"INIT_TENANT_NAME"`
	InitAPIKey     string `envconfig:"INIT_API_KEY"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("VENDO", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func (c *Config) HasS3() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

func (c *Config) HasOpenAI() bool {
	return c.OpenAIAPIKey != ""
}

// CriticalChunkKindList splits the comma-separated critical chunk kinds.
func (c *Config) CriticalChunkKindList() []string {
	parts := strings.Split(c.CriticalChunkKinds, ",")
	kinds := make([]string, 0, len(parts))
	for _, p := range parts {
		if kind := strings.TrimSpace(p); kind != "" {
			kinds = append(kinds, kind)
		}
	}
	return kinds
}
