package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const (
	defaultMaxFileSize       = 10 << 20 // bytes
	defaultMaxImageDimension = 2048
	defaultAIBaseURL         = "https://openrouter.ai/api/v1"
	defaultAIModel           = "dbrx-instruct"
	defaultAIMaxTokens       = 2000
	defaultAITemperature     = 0.1
	defaultAITimeoutSeconds  = 60
)

type Config struct {
	// upload storage (where validated food images are written)
	UploadDir string

	// database path
	DatabasePath string

	// image validation / resize limits
	MaxFileSize       int64
	MaxImageDimension int

	// AI provider settings; an empty API key selects the offline stub
	AIBaseURL     string
	AIAPIKey      string
	AIModel       string
	AIMaxTokens   int
	AITemperature float64
	AITimeout     time.Duration
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(envVar string, defaultVal int) int {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %d. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func getEnvFloatOrDefault(envVar string, defaultVal float64) float64 {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.ParseFloat(valStr, 64)
	if err != nil || val < 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %g. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func LoadConfig() (Config, error) {
	uploadDir := getEnvOrDefault("UPLOAD_DIR", filepath.Join(".", "uploads"))
	absUploadDir, err := filepath.Abs(uploadDir)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute path for upload directory '%s': %w", uploadDir, err)
	}

	dbPath := getEnvOrDefault("DATABASE_PATH", "nutrition.db")

	maxFileSize := int64(getEnvIntOrDefault("MAX_FILE_SIZE", defaultMaxFileSize))
	maxDimension := getEnvIntOrDefault("MAX_IMAGE_DIMENSION", defaultMaxImageDimension)

	// the outbound AI call timeout is an explicit configuration knob; the
	// transport enforces it so a stuck provider cannot block a request forever
	timeoutSeconds := getEnvIntOrDefault("AI_TIMEOUT_SECONDS", defaultAITimeoutSeconds)

	cfg := Config{
		UploadDir:         absUploadDir,
		DatabasePath:      dbPath,
		MaxFileSize:       maxFileSize,
		MaxImageDimension: maxDimension,
		AIBaseURL:         getEnvOrDefault("AI_BASE_URL", defaultAIBaseURL),
		AIAPIKey:          os.Getenv("AI_API_KEY"),
		AIModel:           getEnvOrDefault("AI_MODEL", defaultAIModel),
		AIMaxTokens:       getEnvIntOrDefault("AI_MAX_TOKENS", defaultAIMaxTokens),
		AITemperature:     getEnvFloatOrDefault("AI_TEMPERATURE", defaultAITemperature),
		AITimeout:         time.Duration(timeoutSeconds) * time.Second,
	}

	return cfg, nil
}
