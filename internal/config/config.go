// Package config loads application settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported LLM providers for story generation
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderNone   = "none"
)

// Database types
const (
	DatabaseSQLite   = "sqlite"
	DatabasePostgres = "postgres"
)

type (
	Config struct {
		LogLevel   string `validate:"required,oneof=debug info warn error"`
		Telegram   Telegram
		HTTP       HTTP
		Database   Database
		Catalog    Catalog
		Dictionary Dictionary
		LLM        LLM
		Drill      Drill
		Reminders  Reminders
	}

	Telegram struct {
		Token    string // Empty disables the bot
		AdminIDs []int64
	}
	HTTP struct {
		Addr string `validate:"required"`
	}
	Database struct {
		Type string `validate:"required,oneof=sqlite postgres"`
		Path string `validate:"required_if=Type sqlite"`
		URL  string `validate:"required_if=Type postgres"`
	}
	Catalog struct {
		Path       string `validate:"required"`
		WordColumn string
		StartRow   int `validate:"gte=1"`
	}
	Dictionary struct {
		BaseURL  string        `validate:"required,url"`
		Timeout  time.Duration `validate:"gt=0"`
		CacheTTL time.Duration `validate:"gte=0"`
	}
	LLM struct {
		Provider      string `validate:"oneof=gemini openai none"`
		GeminiAPIKey  string `validate:"required_if=Provider gemini"`
		GeminiModel   string
		OpenAIAPIKey  string `validate:"required_if=Provider openai"`
		OpenAIModel   string
		StoryLanguage string
	}
	Drill struct {
		BatchSize int `validate:"gte=1,lte=50"`
		DueQuota  int `validate:"gte=0"`
	}
	Reminders struct {
		Enabled   bool
		StartHour int `validate:"gte=0,lte=23"`
		EndHour   int `validate:"gte=0,lte=23"`
	}
)

// Load reads .env (when present) and the process environment, applies defaults
// and validates the result.
func Load() (*Config, error) {
	// A missing .env file is normal outside local development
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := fromViper(v)
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("db_type", DatabaseSQLite)
	v.SetDefault("db_path", "data/vocabdrill.db")
	v.SetDefault("catalog_path", "full-word.json")
	v.SetDefault("catalog_word_column", "A")
	v.SetDefault("catalog_start_row", 1)
	v.SetDefault("dictionary_base_url", "https://api.dictionaryapi.dev/api/v2/entries/en")
	v.SetDefault("dictionary_timeout", 10*time.Second)
	v.SetDefault("dictionary_cache_ttl", time.Hour)
	v.SetDefault("llm_provider", ProviderNone)
	v.SetDefault("gemini_model", "gemini-2.0-flash")
	v.SetDefault("openai_model", "gpt-3.5-turbo")
	v.SetDefault("story_language", "Traditional Chinese")
	v.SetDefault("batch_size", 5)
	v.SetDefault("due_quota", 3)
	v.SetDefault("enable_scheduler", true)
	v.SetDefault("notification_start_hour", 8)
	v.SetDefault("notification_end_hour", 22)
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		LogLevel: v.GetString("log_level"),
		Telegram: Telegram{
			Token:    v.GetString("telegram_bot_token"),
			AdminIDs: parseIDs(v.GetString("admin_user_ids")),
		},
		HTTP: HTTP{
			Addr: v.GetString("http_addr"),
		},
		Database: Database{
			Type: v.GetString("db_type"),
			Path: v.GetString("db_path"),
			URL:  v.GetString("database_url"),
		},
		Catalog: Catalog{
			Path:       v.GetString("catalog_path"),
			WordColumn: v.GetString("catalog_word_column"),
			StartRow:   v.GetInt("catalog_start_row"),
		},
		Dictionary: Dictionary{
			BaseURL:  v.GetString("dictionary_base_url"),
			Timeout:  v.GetDuration("dictionary_timeout"),
			CacheTTL: v.GetDuration("dictionary_cache_ttl"),
		},
		LLM: LLM{
			Provider:      v.GetString("llm_provider"),
			GeminiAPIKey:  v.GetString("gemini_api_key"),
			GeminiModel:   v.GetString("gemini_model"),
			OpenAIAPIKey:  v.GetString("openai_api_key"),
			OpenAIModel:   v.GetString("openai_model"),
			StoryLanguage: v.GetString("story_language"),
		},
		Drill: Drill{
			BatchSize: v.GetInt("batch_size"),
			DueQuota:  v.GetInt("due_quota"),
		},
		Reminders: Reminders{
			Enabled:   v.GetBool("enable_scheduler"),
			StartHour: v.GetInt("notification_start_hour"),
			EndHour:   v.GetInt("notification_end_hour"),
		},
	}
}
