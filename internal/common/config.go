package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Database  DatabaseConfig
	Server    ServerConfig
	Pipeline  PipelineConfig
	Translate TranslateConfig
	RefData   RefDataConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	DialTimeout     time.Duration
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// PipelineConfig holds processing thresholds and worker settings
type PipelineConfig struct {
	Workers              int
	QueueSize            int
	ProcessTimeout       time.Duration
	LowConfidence        float64 // error detector threshold
	FuzzyAcceptance      float64 // minimum similarity for a suggestion
	ControlledMinScore   float64 // classifier confidence gate
	RuleRefreshInterval  time.Duration
	DefaultOCRConfidence float64 // used when the engine reports no token scores
}

// TranslateConfig holds translation collaborator configuration
type TranslateConfig struct {
	Endpoint   string
	Timeout    time.Duration
	ChunkSize  int
	MaxRetries int
	RetryDelay time.Duration
}

// RefDataConfig points at the optional YAML overrides for reference data
type RefDataConfig struct {
	DictionaryPath string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			DSN:             getEnv("DB_URL", ""),
			MaxConns:        getEnvAsInt32("DB_MAX_CONNS", 20),
			MinConns:        getEnvAsInt32("DB_MIN_CONNS", 5),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:     getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
		},
		Server: ServerConfig{
			Addr:            getEnv("HTTP_ADDR", ":8080"),
			ShutdownTimeout: getEnvAsDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Pipeline: PipelineConfig{
			Workers:              getEnvAsInt("PIPELINE_WORKERS", 4),
			QueueSize:            getEnvAsInt("PIPELINE_QUEUE_SIZE", 256),
			ProcessTimeout:       getEnvAsDuration("PIPELINE_TIMEOUT", 2*time.Minute),
			LowConfidence:        getEnvAsFloat64("LOW_CONFIDENCE_THRESHOLD", 0.6),
			FuzzyAcceptance:      getEnvAsFloat64("FUZZY_ACCEPTANCE_THRESHOLD", 0.7),
			ControlledMinScore:   getEnvAsFloat64("CONTROLLED_MIN_SCORE", 0.5),
			RuleRefreshInterval:  getEnvAsDuration("RULE_REFRESH_INTERVAL", 30*time.Second),
			DefaultOCRConfidence: getEnvAsFloat64("DEFAULT_OCR_CONFIDENCE", 0.5),
		},
		Translate: TranslateConfig{
			Endpoint:   getEnv("TRANSLATE_ENDPOINT", "https://api.mymemory.translated.net/get"),
			Timeout:    getEnvAsDuration("TRANSLATE_TIMEOUT", 15*time.Second),
			ChunkSize:  getEnvAsInt("TRANSLATE_CHUNK_SIZE", 200),
			MaxRetries: getEnvAsInt("TRANSLATE_MAX_RETRIES", 2),
			RetryDelay: getEnvAsDuration("TRANSLATE_RETRY_DELAY", time.Second),
		},
		RefData: RefDataConfig{
			DictionaryPath: getEnv("REFDATA_DICTIONARY_PATH", ""),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return NewAppError("CONFIG_ERROR", "DB_URL is required", ErrInvalidInput)
	}
	if c.Server.Addr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	if c.Pipeline.LowConfidence < 0 || c.Pipeline.LowConfidence > 1 {
		return NewAppError("CONFIG_ERROR", "LOW_CONFIDENCE_THRESHOLD must be in [0,1]", ErrInvalidInput)
	}
	if c.Pipeline.FuzzyAcceptance < 0 || c.Pipeline.FuzzyAcceptance > 1 {
		return NewAppError("CONFIG_ERROR", "FUZZY_ACCEPTANCE_THRESHOLD must be in [0,1]", ErrInvalidInput)
	}
	return nil
}
