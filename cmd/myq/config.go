package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	myq "github.com/thomasmunduchira/myq-api"
)

// Config holds the CLI settings loaded from the YAML config file and
// environment.
type Config struct {
	Email        string `yaml:"email"`
	Password     string `yaml:"password"`
	PasswordFile string `yaml:"password_file"`
	LogLevel     string `yaml:"log_level"`

	API  APIConfig  `yaml:"api"`
	Wait WaitConfig `yaml:"wait"`
}

// APIConfig overrides the client's service endpoints and request settings.
type APIConfig struct {
	AuthBaseURL   string        `yaml:"auth_base_url"`
	DeviceBaseURL string        `yaml:"device_base_url"`
	ApplicationID string        `yaml:"application_id"`
	Culture       string        `yaml:"culture"`
	Timeout       time.Duration `yaml:"timeout"`
}

// WaitConfig controls polling after open and close.
type WaitConfig struct {
	Interval time.Duration `yaml:"interval"`
	Timeout  time.Duration `yaml:"timeout"`
}

// Load reads configuration from path, applies environment overrides and
// validates the result. An empty path skips the file and uses defaults.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		LogLevel: "warn",
		API: APIConfig{
			AuthBaseURL:   myq.DefaultAuthBaseURL,
			DeviceBaseURL: myq.DefaultDeviceBaseURL,
			ApplicationID: myq.DefaultApplicationID,
			Culture:       myq.DefaultCulture,
			Timeout:       myq.DefaultTimeout,
		},
		Wait: WaitConfig{
			Interval: 5 * time.Second,
			Timeout:  2 * time.Minute,
		},
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("MYQ_EMAIL"); v != "" {
		cfg.Email = v
	}
	if v := os.Getenv("MYQ_PASSWORD"); v != "" {
		cfg.Password = v
	}
	if v := os.Getenv("MYQ_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}

// Validate checks the configuration once flags have been applied.
func (c *Config) Validate() error {
	var errs []error

	if c.Email == "" {
		errs = append(errs, errors.New("email is required (--email, MYQ_EMAIL or config file)"))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	if c.API.AuthBaseURL == "" || c.API.DeviceBaseURL == "" {
		errs = append(errs, errors.New("api base URLs must not be empty"))
	}
	if c.API.Timeout <= 0 {
		errs = append(errs, errors.New("api.timeout must be positive"))
	}
	if c.Wait.Interval <= 0 {
		errs = append(errs, errors.New("wait.interval must be positive"))
	}
	if c.Wait.Timeout <= 0 {
		errs = append(errs, errors.New("wait.timeout must be positive"))
	}

	return errors.Join(errs...)
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// ClientOptions returns the client options described by the config.
func (c *Config) ClientOptions() []myq.Option {
	return []myq.Option{
		myq.WithBaseURLs(c.API.AuthBaseURL, c.API.DeviceBaseURL),
		myq.WithApplicationID(c.API.ApplicationID),
		myq.WithCulture(c.API.Culture),
		myq.WithTimeout(c.API.Timeout),
	}
}
