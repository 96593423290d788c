package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cnf := Default()
	cnf.OpenWeather.APIKey = "test-key"
	return cnf
}

func TestNewConfig_Defaults(t *testing.T) {
	provider := NewFileConfigProvider("nonexistent.yaml")
	config, err := NewConfigWithProvider(provider)
	require.NoError(t, err)
	assert.NotNil(t, config)

	assert.Equal(t, "forecaster", config.App.Name)
	assert.Equal(t, "1.0.0", config.App.Version)
	assert.Equal(t, "8080", config.Server.Port)
	assert.Equal(t, 10*time.Second, config.Server.ReadTimeout)
	assert.Equal(t, 120*time.Second, config.Server.IdleTimeout)
	assert.Equal(t, "https://api.openweathermap.org/data/2.5/forecast", config.OpenWeather.BaseURL)
	assert.Equal(t, "metric", config.OpenWeather.Units)
	assert.Equal(t, 10*time.Minute, config.Cache.TTL)
	assert.Empty(t, config.Scheduler.Pins)
}

func TestConfigWithEnvironmentVariables(t *testing.T) {
	t.Setenv("APP_NAME", "test-app")
	t.Setenv("APP_ENV", "prod")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SERVER_READ_TIMEOUT", "3s")
	t.Setenv("OPENWEATHER_API_KEY", "secret")
	t.Setenv("CACHE_TTL", "1m")
	t.Setenv("LOG_LEVEL", "debug")

	provider := NewFileConfigProvider("nonexistent.yaml")
	config, err := NewConfigWithProvider(provider)
	require.NoError(t, err)

	assert.Equal(t, "test-app", config.App.Name)
	assert.Equal(t, "prod", config.App.Env)
	assert.Equal(t, "9090", config.Server.Port)
	assert.Equal(t, 3*time.Second, config.Server.ReadTimeout)
	assert.Equal(t, "secret", config.OpenWeather.APIKey)
	assert.Equal(t, time.Minute, config.Cache.TTL)
	assert.Equal(t, "debug", config.Log.Level)
	assert.True(t, config.IsProduction())
}

func TestConfigFileLoading(t *testing.T) {
	provider := NewFileConfigProvider("config.yaml")
	config, err := NewConfigWithProvider(provider)
	require.NoError(t, err)

	require.Len(t, config.Scheduler.Pins, 1)
	assert.Equal(t, "Minsk", config.Scheduler.Pins[0].Name)
	assert.Equal(t, 15*time.Minute, config.Scheduler.RefreshInterval)
	assert.Equal(t, 10*time.Second, config.OpenWeather.Timeout)
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: \"7000\"\nopenweather:\n  api_key: from-file\n"), 0o600))

	t.Setenv("OPENWEATHER_API_KEY", "from-env")

	config, err := NewConfigWithProvider(NewFileConfigProvider(path))
	require.NoError(t, err)

	assert.Equal(t, "7000", config.Server.Port)
	assert.Equal(t, "from-env", config.OpenWeather.APIKey)
	assert.Equal(t, "metric", config.OpenWeather.Units)
}

func TestFileConfigProvider_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unterminated"), 0o600))

	_, err := NewFileConfigProvider(path).Load()
	assert.Error(t, err)
}

func TestFileConfigProvider_LoadFromFile(t *testing.T) {
	provider := NewFileConfigProvider("nonexistent.yaml")
	config := &Config{}

	err := provider.loadFromFile(config)
	assert.NoError(t, err)
}

func TestConfigValidation(t *testing.T) {
	provider := NewFileConfigProvider(DefaultConfigPath)

	assert.NoError(t, provider.Validate(validConfig()))

	missingName := validConfig()
	missingName.App.Name = ""
	err := provider.Validate(missingName)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "app.name is required")

	badPin := validConfig()
	badPin.Scheduler.Pins = []PinConfig{{Name: "nowhere", Lat: 120, Lon: 0}}
	err = provider.Validate(badPin)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scheduler.pins[0].lat")

	badTimezone := validConfig()
	badTimezone.App.Timezone = "Mars/Olympus_Mons"
	assert.Error(t, provider.Validate(badTimezone))

	badUnits := validConfig()
	badUnits.OpenWeather.Units = "kelvin"
	err = provider.Validate(badUnits)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "openweather.units")
}

func TestConfigHelperMethods(t *testing.T) {
	config := validConfig()

	assert.True(t, config.IsDevelopment())
	assert.False(t, config.IsProduction())
	assert.Equal(t, time.Local, config.Location())

	config.App.Timezone = "Europe/Minsk"
	assert.Equal(t, "Europe/Minsk", config.Location().String())
}

func TestNewConfigWithProvider(t *testing.T) {
	mockProvider := &MockConfigProvider{config: validConfig()}

	config, err := NewConfigWithProvider(mockProvider)
	require.NoError(t, err)
	assert.Equal(t, "forecaster", config.App.Name)

	_, err = NewConfigWithProvider(&MockConfigProvider{err: os.ErrPermission})
	assert.ErrorIs(t, err, os.ErrPermission)
}

// MockConfigProvider for testing
type MockConfigProvider struct {
	config *Config
	err    error
}

func (m *MockConfigProvider) Load() (*Config, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.config, nil
}

func (m *MockConfigProvider) Validate(config *Config) error {
	return nil
}
