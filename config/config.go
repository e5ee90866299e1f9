package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App      AppConfig      `yaml:"app"`
	Server   ServerConfig   `yaml:"server"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Keys     KeysConfig     `yaml:"-"`
}

type AppConfig struct {
	Name    string `yaml:"name" envconfig:"APP_NAME"`
	Version string `yaml:"version" envconfig:"APP_VERSION"`
	Env     string `yaml:"env" envconfig:"APP_ENV"`
}

type ServerConfig struct {
	Port string `yaml:"port" envconfig:"PORT"`
}

// PipelineConfig tunes the briefing pipeline windows.
type PipelineConfig struct {
	// DaysAhead is the forecast window requested from both providers.
	DaysAhead int `yaml:"days_ahead" envconfig:"PIPELINE_DAYS_AHEAD"`
	// DaysBack is the width of each per-year historical window.
	DaysBack     int `yaml:"days_back" envconfig:"PIPELINE_DAYS_BACK"`
	NewsDaysBack int `yaml:"news_days_back" envconfig:"PIPELINE_NEWS_DAYS_BACK"`
	MaxArticles  int `yaml:"max_articles" envconfig:"PIPELINE_MAX_ARTICLES"`
	MaxPosts     int `yaml:"max_posts" envconfig:"PIPELINE_MAX_POSTS"`
}

// KeysConfig holds provider credentials; environment-only, never read
// from the config file.
type KeysConfig struct {
	WeatherbitAPIKey string `envconfig:"WEATHERBIT_API_KEY"`
	NOAAToken        string `envconfig:"NOAA_TOKEN"`
	OpenAIKey        string `envconfig:"OPENAI_KEY"`
	NewsAPIKey       string `envconfig:"NEWSAPI_API_KEY"`
	RedditID         string `envconfig:"REDDIT_ID"`
	RedditSecret     string `envconfig:"REDDIT_SECRET"`
	SentryDSN        string `envconfig:"SENTRY_DSN"`
}

// ConfigProvider abstracts where configuration comes from so tests can
// inject their own.
type ConfigProvider interface {
	Load() (*Config, error)
	Validate(config *Config) error
}

// FileConfigProvider layers defaults, an optional YAML file, and
// environment overrides; environment wins.
type FileConfigProvider struct {
	path string
}

func NewFileConfigProvider(path string) *FileConfigProvider {
	return &FileConfigProvider{path: path}
}

func (p *FileConfigProvider) Load() (*Config, error) {
	cnf := defaultConfig()

	if err := p.loadFromFile(cnf); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", p.path, err)
	}

	if err := envconfig.Process("", cnf); err != nil {
		return nil, fmt.Errorf("error environment variable parsing: %w", err)
	}

	return cnf, nil
}

// loadFromFile merges the YAML file into cnf; a missing file is not an error.
func (p *FileConfigProvider) loadFromFile(cnf *Config) error {
	yamlData, err := os.ReadFile(p.path)
	if err != nil {
		return nil
	}
	return yaml.Unmarshal(yamlData, cnf)
}

func (p *FileConfigProvider) Validate(config *Config) error {
	if config.App.Name == "" {
		return fmt.Errorf("app.name is required")
	}
	if config.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}
	if config.Pipeline.DaysAhead < 1 || config.Pipeline.DaysAhead > 16 {
		return fmt.Errorf("pipeline.days_ahead must be between 1 and 16")
	}
	if config.Pipeline.DaysBack < 1 {
		return fmt.Errorf("pipeline.days_back must be at least 1")
	}
	return nil
}

func defaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:    "weather-chatbot",
			Version: "1.0.0",
			Env:     "development",
		},
		Server: ServerConfig{
			Port: "8080",
		},
		Pipeline: PipelineConfig{
			DaysAhead:    7,
			DaysBack:     7,
			NewsDaysBack: 3,
			MaxArticles:  3,
			MaxPosts:     10,
		},
	}
}

func NewConfigWithProvider(provider ConfigProvider) (*Config, error) {
	cnf, err := provider.Load()
	if err != nil {
		return nil, err
	}
	if err := provider.Validate(cnf); err != nil {
		return nil, err
	}
	return cnf, nil
}

func NewConfig() (*Config, error) {
	return NewConfigWithProvider(NewFileConfigProvider("config/config.yaml"))
}

func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
