package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "config/config.yaml"
	DefaultEnvFile    = ".env"
)

type Config struct {
	App         AppConfig         `yaml:"app"`
	Server      ServerConfig      `yaml:"server"`
	OpenWeather OpenWeatherConfig `yaml:"openweather"`
	Cache       CacheConfig       `yaml:"cache"`
	Log         LogConfig         `yaml:"log"`
	Sentry      SentryConfig      `yaml:"sentry"`
	Scheduler   SchedulerConfig   `yaml:"scheduler"`
}

type AppConfig struct {
	Name     string `yaml:"name" validate:"required"`
	Version  string `yaml:"version" validate:"required"`
	Env      string `yaml:"env" validate:"required,oneof=development dev prod test"`
	Timezone string `yaml:"timezone" validate:"omitempty,timezone"`
}

type ServerConfig struct {
	Port         string        `yaml:"port" validate:"required,numeric"`
	ReadTimeout  time.Duration `yaml:"read_timeout" validate:"gte=0" split_words:"true"`
	WriteTimeout time.Duration `yaml:"write_timeout" validate:"gte=0" split_words:"true"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" validate:"gte=0" split_words:"true"`
}

// OpenWeatherConfig holds the forecast provider settings. APIKey is only ever
// supplied through the config file or OPENWEATHER_API_KEY.
type OpenWeatherConfig struct {
	BaseURL string        `yaml:"base_url" validate:"required,url" split_words:"true"`
	APIKey  string        `yaml:"api_key,omitempty" split_words:"true"`
	Units   string        `yaml:"units" validate:"required,oneof=metric imperial standard"`
	Timeout time.Duration `yaml:"timeout" validate:"gt=0"`
	RPS     float64       `yaml:"rps" validate:"gt=0"`
	Burst   int           `yaml:"burst" validate:"gte=1"`
}

type CacheConfig struct {
	TTL time.Duration `yaml:"ttl" validate:"gte=0"`
}

type LogConfig struct {
	Level string `yaml:"level" validate:"required,oneof=debug info warn error"`
}

type SentryConfig struct {
	DSN   string `yaml:"dsn,omitempty"`
	Debug bool   `yaml:"debug"`
}

type SchedulerConfig struct {
	RefreshInterval time.Duration `yaml:"refresh_interval" validate:"gte=0" split_words:"true"`
	Pins            []PinConfig   `yaml:"pins" ignored:"true" validate:"dive"`
}

// PinConfig is a location whose forecast is kept warm in the cache.
type PinConfig struct {
	Name string  `yaml:"name" validate:"required"`
	Lat  float64 `yaml:"lat" validate:"gte=-90,lte=90"`
	Lon  float64 `yaml:"lon" validate:"gte=-180,lte=180"`
}

// ConfigProvider loads and validates the application configuration.
type ConfigProvider interface {
	Load() (*Config, error)
	Validate(config *Config) error
}

// FileConfigProvider reads a YAML file, then applies .env and environment overrides.
type FileConfigProvider struct {
	path     string
	envFile  string
	validate *validator.Validate
}

func NewFileConfigProvider(path string) *FileConfigProvider {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &FileConfigProvider{
		path:     path,
		envFile:  DefaultEnvFile,
		validate: v,
	}
}

func Default() *Config {
	return &Config{
		App: AppConfig{
			Name:    "forecaster",
			Version: "1.0.0",
			Env:     "development",
		},
		Server: ServerConfig{
			Port:         "8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
		OpenWeather: OpenWeatherConfig{
			BaseURL: "https://api.openweathermap.org/data/2.5/forecast",
			Units:   "metric",
			Timeout: 10 * time.Second,
			RPS:     1,
			Burst:   5,
		},
		Cache: CacheConfig{
			TTL: 10 * time.Minute,
		},
		Log: LogConfig{
			Level: "info",
		},
		Scheduler: SchedulerConfig{
			RefreshInterval: 15 * time.Minute,
		},
	}
}

func (p *FileConfigProvider) Load() (*Config, error) {
	cnf := Default()

	if err := p.loadFromFile(cnf); err != nil {
		return nil, err
	}

	if err := godotenv.Load(p.envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", p.envFile, err)
	}

	if err := envconfig.Process("", cnf); err != nil {
		return nil, fmt.Errorf("error environment variable parsing: %w", err)
	}

	return cnf, nil
}

func (p *FileConfigProvider) loadFromFile(cnf *Config) error {
	yamlData, err := os.ReadFile(p.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", p.path, err)
	}

	if err := yaml.Unmarshal(yamlData, cnf); err != nil {
		return fmt.Errorf("failed to parse YAML config: %w", err)
	}

	return nil
}

func (p *FileConfigProvider) Validate(cnf *Config) error {
	err := p.validate.Struct(cnf)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Namespace()
		if i := strings.IndexByte(field, '.'); i >= 0 {
			field = field[i+1:]
		}
		if fe.Tag() == "required" {
			msgs = append(msgs, field+" is required")
			continue
		}
		msgs = append(msgs, fmt.Sprintf("%s failed %s validation", field, fe.Tag()))
	}

	return errors.New("invalid config: " + strings.Join(msgs, "; "))
}

// NewConfig loads the configuration from DefaultConfigPath and the environment.
func NewConfig() (*Config, error) {
	return NewConfigWithProvider(NewFileConfigProvider(DefaultConfigPath))
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

func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development" || c.App.Env == "dev"
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "prod"
}

// Location resolves the configured time zone used to derive "today".
func (c *Config) Location() *time.Location {
	if c.App.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
