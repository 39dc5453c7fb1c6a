// Package config loads application configuration from a YAML file,
// environment variables, and an optional .env file.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration. It is loaded once per run and
// handed explicitly to component factories; nothing reads it ambiently at
// call time.
type Config struct {
	App        App        `mapstructure:"app"`
	AI         AI         `mapstructure:"ai"`
	Fetch      Fetch      `mapstructure:"fetch"`
	Generation Generation `mapstructure:"generation"`
	Output     Output     `mapstructure:"output"`
}

// App holds general application configuration.
type App struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
}

// AI holds generative-model provider configuration. ProviderPriority is the
// explicit order in which providers are considered; the first entry with an
// API key configured wins.
type AI struct {
	ProviderPriority []string        `mapstructure:"provider_priority"`
	Gemini           GeminiConfig    `mapstructure:"gemini"`
	OpenAI           OpenAIConfig    `mapstructure:"openai"`
	Anthropic        AnthropicConfig `mapstructure:"anthropic"`
}

// GeminiConfig holds Google Gemini configuration.
type GeminiConfig struct {
	APIKey    string `mapstructure:"api_key"`
	Model     string `mapstructure:"model"`
	MaxTokens int32  `mapstructure:"max_tokens"`
}

// OpenAIConfig holds OpenAI configuration.
type OpenAIConfig struct {
	APIKey    string `mapstructure:"api_key"`
	Model     string `mapstructure:"model"`
	MaxTokens int32  `mapstructure:"max_tokens"`
}

// AnthropicConfig holds Anthropic configuration.
type AnthropicConfig struct {
	APIKey    string `mapstructure:"api_key"`
	Model     string `mapstructure:"model"`
	MaxTokens int32  `mapstructure:"max_tokens"`
}

// Fetch holds content fetcher configuration.
type Fetch struct {
	Timeout          time.Duration `mapstructure:"timeout"`
	MaxContentLength int           `mapstructure:"max_content_length"`
	UserAgent        string        `mapstructure:"user_agent"`
}

// Generation holds pipeline run configuration.
type Generation struct {
	MaxInsights             int      `mapstructure:"max_insights"`
	SelectedAngles          []string `mapstructure:"selected_angles"`
	VersionsPerAngle        int      `mapstructure:"versions_per_angle"`
	SelectedArticleAngles   []string `mapstructure:"selected_article_angles"`
	ArticleVersionsPerAngle int      `mapstructure:"article_versions_per_angle"`
	SourceURLs              []string `mapstructure:"source_urls"`
	VoiceProfile            string   `mapstructure:"voice_profile"`
}

// Output holds output configuration.
type Output struct {
	Directory string `mapstructure:"directory"`
}

// Load reads configuration from the given file (or the default search path),
// the environment, and .env. It returns a fresh Config value; callers pass it
// to component factories explicitly.
func Load(configFile string) (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			fmt.Fprintf(os.Stderr, "warning: error loading .env file: %v\n", err)
		}
	}

	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
		v.SetConfigName(".repurpose")
		v.SetConfigType("yaml")
	}

	setDefaults(v)
	bindEnvironmentVariables(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.debug", false)
	v.SetDefault("app.log_level", "info")

	v.SetDefault("ai.provider_priority", []string{"gemini", "openai", "anthropic"})
	v.SetDefault("ai.gemini.model", "gemini-2.5-flash")
	v.SetDefault("ai.gemini.max_tokens", 8192)
	v.SetDefault("ai.openai.model", "gpt-4o-mini")
	v.SetDefault("ai.openai.max_tokens", 8192)
	v.SetDefault("ai.anthropic.model", "claude-sonnet-4-5")
	v.SetDefault("ai.anthropic.max_tokens", 8192)

	v.SetDefault("fetch.timeout", "20s")
	v.SetDefault("fetch.max_content_length", 60000)
	v.SetDefault("fetch.user_agent", "repurpose/1.0 (+content pipeline)")

	v.SetDefault("generation.max_insights", 5)
	v.SetDefault("generation.selected_angles", []string{"contrarian", "field_note", "demystification"})
	v.SetDefault("generation.versions_per_angle", 2)
	v.SetDefault("generation.selected_article_angles", []string{"deep_dive"})
	v.SetDefault("generation.article_versions_per_angle", 1)

	v.SetDefault("output.directory", "output")
}

// bindEnvironmentVariables binds well-known environment variables to config keys.
func bindEnvironmentVariables(v *viper.Viper) {
	_ = v.BindEnv("ai.gemini.api_key", "GEMINI_API_KEY")
	_ = v.BindEnv("ai.openai.api_key", "OPENAI_API_KEY")
	_ = v.BindEnv("ai.anthropic.api_key", "ANTHROPIC_API_KEY")
}

// validateConfig checks cross-field constraints Load cannot express as defaults.
func validateConfig(config *Config) error {
	if config.Generation.MaxInsights < 1 {
		return fmt.Errorf("generation.max_insights must be at least 1, got %d", config.Generation.MaxInsights)
	}
	if config.Generation.VersionsPerAngle < 1 {
		return fmt.Errorf("generation.versions_per_angle must be at least 1, got %d", config.Generation.VersionsPerAngle)
	}
	if config.Generation.ArticleVersionsPerAngle < 1 {
		return fmt.Errorf("generation.article_versions_per_angle must be at least 1, got %d", config.Generation.ArticleVersionsPerAngle)
	}
	if config.Fetch.Timeout <= 0 {
		return fmt.Errorf("fetch.timeout must be positive, got %s", config.Fetch.Timeout)
	}
	if len(config.AI.ProviderPriority) == 0 {
		return fmt.Errorf("ai.provider_priority must name at least one provider")
	}
	return nil
}
