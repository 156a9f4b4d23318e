package internal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/doms3/chatty/internal/aichat"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// CredentialEnv names the environment variable holding the API key
const CredentialEnv = "OPENAI_API_KEY"

// Config holds settings from config.yaml and the environment. Model and
// Temperature only apply to sessions created after they are set.
type Config struct {
	Endpoint    string        `yaml:"endpoint"`
	Model       string        `yaml:"model"`
	Temperature float64       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`

	// Credential is read from the environment only.
	Credential string `yaml:"-"`
}

// DefaultConfig returns the settings used when nothing is configured
func DefaultConfig() Config {
	return Config{
		Endpoint:    aichat.DefaultEndpoint,
		Model:       aichat.ModelGPT35Turbo.String(),
		Temperature: aichat.DefaultTemperature,
	}
}

// LoadDotEnv loads .env from the working directory if present. Variables
// already set in the environment win.
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			LogDebug("No .env file found, using environment variables")
			return
		}
		LogWarn("Failed to load .env: %v", err)
	}
}

// LoadConfig reads path (a missing file means defaults) and applies the
// CHATTY_* environment overrides.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, &ConfigError{Path: path, Err: err}
		}
	case errors.Is(err, fs.ErrNotExist):
		LogDebug("No config at %s, using defaults", path)
	default:
		return Config{}, &ConfigError{Path: path, Err: err}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, &ConfigError{Path: "environment", Err: err}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, &ConfigError{Path: path, Err: err}
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("CHATTY_ENDPOINT"); v != "" {
		c.Endpoint = v
	}
	if v := os.Getenv("CHATTY_MODEL"); v != "" {
		c.Model = v
	}
	if v := os.Getenv("CHATTY_TEMPERATURE"); v != "" {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("CHATTY_TEMPERATURE: %w", err)
		}
		c.Temperature = t
	}
	if v := os.Getenv("CHATTY_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("CHATTY_TIMEOUT: %w", err)
		}
		c.Timeout = d
	}
	c.Credential = os.Getenv(CredentialEnv)
	return nil
}

// Validate checks the values a session or client would be built from
func (c Config) Validate() error {
	if c.Endpoint == "" {
		return errors.New("endpoint is empty")
	}
	if _, err := aichat.ParseModel(c.Model); err != nil {
		return fmt.Errorf("unknown model %q", c.Model)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature %v is outside [0, 2]", c.Temperature)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout %v is negative", c.Timeout)
	}
	return nil
}

// NewSession returns an empty session with the configured model and temperature
func (c Config) NewSession() *aichat.Session {
	s := aichat.New()
	if m, err := aichat.ParseModel(c.Model); err == nil {
		s.Model = m
	}
	s.Temperature = c.Temperature
	return s
}

// NewClient builds a completion client from the config
func (c Config) NewClient() *aichat.Client {
	opts := []aichat.Option{
		aichat.WithEndpoint(c.Endpoint),
		aichat.WithLogger(Logger()),
	}
	if c.Timeout > 0 {
		opts = append(opts, aichat.WithTimeout(c.Timeout))
	}
	return aichat.NewClient(opts...)
}
