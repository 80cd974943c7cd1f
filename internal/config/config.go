package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultTogetherBaseURL = "https://api.together.xyz/v1"
	DefaultModelID         = "mistralai/Mistral-7B-Instruct-v0.3"
	DefaultMaxTokens       = 500
	DefaultTemperature     = 0.7
	DefaultCredentialName  = "togetherApiKey"
)

type Config struct {
	HTTPAddr       string
	LogLevel       string
	RequestTimeout time.Duration
	Together       TogetherConfig
	Generation     GenerationConfig
	Credential     CredentialConfig
}

type TogetherConfig struct {
	BaseURL string
}

// GenerationConfig — единый профиль генерации, выбирается один раз при старте.
type GenerationConfig struct {
	ModelID              string  `yaml:"model_id"`
	FallbackModelID      string  `yaml:"fallback_model_id"`
	MaxTokens            int     `yaml:"max_tokens"`
	Temperature          float64 `yaml:"temperature"`
	SystemPromptTemplate string  `yaml:"system_prompt_template"`
}

type CredentialConfig struct {
	StoreType string
	StorePath string
	Name      string
	// APIKey позволяет задать ключ через окружение; сохранённый ключ имеет приоритет.
	APIKey string
}

// DefaultGeneration возвращает профиль, совпадающий с исходным поведением генератора.
func DefaultGeneration() GenerationConfig {
	return GenerationConfig{
		ModelID:     DefaultModelID,
		MaxTokens:   DefaultMaxTokens,
		Temperature: DefaultTemperature,
	}
}

// Load читает .env (если есть), затем переменные окружения и YAML-профиль генерации.
func Load() (Config, error) {
	if err := loadDotEnv(getEnv("DOTENV_PATH", ".env")); err != nil {
		return Config{}, fmt.Errorf("load dotenv: %w", err)
	}

	var cfg Config

	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")

	reqTimeout, err := parseDuration(getEnv("HTTP_CLIENT_TIMEOUT", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse HTTP_CLIENT_TIMEOUT: %w", err)
	}
	cfg.RequestTimeout = reqTimeout

	cfg.Together = TogetherConfig{
		BaseURL: getEnv("TOGETHER_BASE_URL", DefaultTogetherBaseURL),
	}

	cfg.Generation = DefaultGeneration()
	if path := getEnv("GENERATION_PROFILE", ""); path != "" {
		profile, err := LoadProfile(path)
		if err != nil {
			return Config{}, err
		}
		cfg.Generation = profile
	}
	if err := applyGenerationEnv(&cfg.Generation); err != nil {
		return Config{}, err
	}
	if err := cfg.Generation.Validate(); err != nil {
		return Config{}, err
	}

	cfg.Credential = CredentialConfig{
		StoreType: getEnv("CREDENTIAL_STORE", "file"),
		StorePath: getEnv("CREDENTIAL_STORE_PATH", "./data/credentials.json"),
		Name:      getEnv("CREDENTIAL_NAME", DefaultCredentialName),
		APIKey:    getEnv("TOGETHER_API_KEY", ""),
	}

	return cfg, nil
}

func applyGenerationEnv(g *GenerationConfig) error {
	if v, ok := os.LookupEnv("TOGETHER_MODEL"); ok {
		g.ModelID = v
	}
	if v, ok := os.LookupEnv("TOGETHER_FALLBACK_MODEL"); ok {
		g.FallbackModelID = v
	}
	if v, ok := os.LookupEnv("TOGETHER_MAX_TOKENS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse TOGETHER_MAX_TOKENS: %w", err)
		}
		g.MaxTokens = n
	}
	if v, ok := os.LookupEnv("TOGETHER_TEMPERATURE"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("parse TOGETHER_TEMPERATURE: %w", err)
		}
		g.Temperature = f
	}
	return nil
}

// Validate проверяет границы параметров модели.
func (g GenerationConfig) Validate() error {
	if g.ModelID == "" {
		return errors.New("generation: model_id is required")
	}
	if g.MaxTokens <= 0 {
		return fmt.Errorf("generation: max_tokens must be positive, got %d", g.MaxTokens)
	}
	if g.Temperature < 0 || g.Temperature > 1 {
		return fmt.Errorf("generation: temperature must be within [0,1], got %v", g.Temperature)
	}
	return nil
}

func parseDuration(value string) (time.Duration, error) {
	if value == "" {
		return 0, fmt.Errorf("duration is empty")
	}
	return time.ParseDuration(value)
}

func getEnv(key, def string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return def
}

// loadDotEnv загружает переменные из файла; отсутствие файла не ошибка.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
