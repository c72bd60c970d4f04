package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gobuffalo/envy"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/vkngwrapper/bringup/bringup"
	"github.com/vkngwrapper/bringup/driver"
)

// Environment variables that override the file.
const (
	EnvDiagnostics     = "BRINGUP_DIAGNOSTICS"
	EnvDevicePolicy    = "BRINGUP_DEVICE_POLICY"
	EnvLogLevel        = "BRINGUP_LOG_LEVEL"
	EnvLogFormat       = "BRINGUP_LOG_FORMAT"
	EnvApplicationName = "BRINGUP_APPLICATION_NAME"
)

// Config is the complete bring-up configuration.
type Config struct {
	Application ApplicationConfig `yaml:"application"`
	Window      WindowConfig      `yaml:"window"`
	Diagnostics DiagnosticsConfig `yaml:"diagnostics"`
	Device      DeviceConfig      `yaml:"device"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// ApplicationConfig identifies the application to the driver. Versions are
// "major.minor.patch"; missing components are zero.
type ApplicationConfig struct {
	Name          string `yaml:"name"`
	Version       string `yaml:"version"`
	EngineName    string `yaml:"engine_name"`
	EngineVersion string `yaml:"engine_version"`
	APIVersion    string `yaml:"api_version"`
}

type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// DiagnosticsConfig requests validation layers and a debug messenger.
type DiagnosticsConfig struct {
	Enabled    bool     `yaml:"enabled"`
	Layers     []string `yaml:"layers"`
	Severities []string `yaml:"severities"`
	Categories []string `yaml:"categories"`
}

// DeviceConfig controls physical device selection.
type DeviceConfig struct {
	// Policy is "first-fit" or "best-fit".
	Policy     string   `yaml:"policy"`
	Extensions []string `yaml:"extensions"`
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Application: ApplicationConfig{
			Name:          "Vulkan Bring-up",
			Version:       "1.0.0",
			EngineName:    "No Engine",
			EngineVersion: "1.0.0",
			APIVersion:    "1.2.0",
		},
		Window: WindowConfig{
			Title:  "Vulkan",
			Width:  800,
			Height: 600,
		},
		Diagnostics: DiagnosticsConfig{
			Enabled:    false,
			Layers:     []string{driver.KhronosValidationLayer},
			Severities: []string{"warning", "error"},
			Categories: []string{"general", "validation", "performance"},
		},
		Device: DeviceConfig{
			Policy:     bringup.FirstFit.String(),
			Extensions: []string{driver.SwapchainExtension},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

// Load reads the YAML file at path over the defaults, applies environment
// overrides and validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "reading config file")
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(err, "parsing config file")
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "validating config")
	}

	return cfg, nil
}

// LoadEnvFile loads variables from a dotenv file into the process
// environment. Variables that are already set are kept.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		return errors.Wrapf(err, "loading env file %s", path)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) error {
	// envy snapshots the environment on first use
	envy.Reload()

	if v := envy.Get(EnvApplicationName, ""); v != "" {
		cfg.Application.Name = v
	}

	if v := envy.Get(EnvDiagnostics, ""); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrapf(err, "parsing %s", EnvDiagnostics)
		}
		cfg.Diagnostics.Enabled = enabled
	}

	if v := envy.Get(EnvDevicePolicy, ""); v != "" {
		cfg.Device.Policy = v
	}

	if v := envy.Get(EnvLogLevel, ""); v != "" {
		cfg.Logging.Level = v
	}

	if v := envy.Get(EnvLogFormat, ""); v != "" {
		cfg.Logging.Format = v
	}

	return nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []string

	if c.Application.Name == "" {
		errs = append(errs, "application.name is required")
	}
	for _, v := range []struct{ field, value string }{
		{"application.version", c.Application.Version},
		{"application.engine_version", c.Application.EngineVersion},
		{"application.api_version", c.Application.APIVersion},
	} {
		if _, err := ParseVersion(v.value); err != nil {
			errs = append(errs, v.field+": "+err.Error())
		}
	}

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, "window.width and window.height must be positive")
	}

	if c.Diagnostics.Enabled && len(c.Diagnostics.Layers) == 0 {
		errs = append(errs, "diagnostics.layers must not be empty when diagnostics are enabled")
	}
	for _, s := range c.Diagnostics.Severities {
		if _, ok := driver.ParseSeverity(s); !ok {
			errs = append(errs, "diagnostics.severities: unknown severity "+strconv.Quote(s))
		}
	}
	for _, s := range c.Diagnostics.Categories {
		if _, ok := driver.ParseCategory(s); !ok {
			errs = append(errs, "diagnostics.categories: unknown category "+strconv.Quote(s))
		}
	}

	if _, err := bringup.ParseSelectionPolicy(c.Device.Policy); err != nil {
		errs = append(errs, "device.policy: "+err.Error())
	}

	if _, err := logrus.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, "logging.level: "+err.Error())
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		errs = append(errs, "logging.format must be text or json")
	}
	switch strings.ToLower(c.Logging.Output) {
	case "", "stdout", "stderr":
	default:
		errs = append(errs, "logging.output must be stdout or stderr")
	}

	if len(errs) > 0 {
		return errors.Newf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// BringupOptions converts the configuration into bring-up options. The
// caller supplies the logger and the diagnostic sink.
func (c *Config) BringupOptions() (bringup.Options, error) {
	var opts bringup.Options
	var err error

	app := c.Application
	opts.Application.Name = app.Name
	opts.Application.EngineName = app.EngineName
	if opts.Application.Version, err = ParseVersion(app.Version); err != nil {
		return opts, errors.Wrap(err, "application.version")
	}
	if opts.Application.EngineVersion, err = ParseVersion(app.EngineVersion); err != nil {
		return opts, errors.Wrap(err, "application.engine_version")
	}
	if opts.Application.APIVersion, err = ParseVersion(app.APIVersion); err != nil {
		return opts, errors.Wrap(err, "application.api_version")
	}

	if opts.Policy, err = bringup.ParseSelectionPolicy(c.Device.Policy); err != nil {
		return opts, err
	}
	opts.DeviceExtensions = c.Device.Extensions

	if c.Diagnostics.Enabled {
		diagnostics := &bringup.Diagnostics{Layers: c.Diagnostics.Layers}
		for _, s := range c.Diagnostics.Severities {
			severity, _ := driver.ParseSeverity(s)
			diagnostics.Severities |= severity
		}
		for _, s := range c.Diagnostics.Categories {
			category, _ := driver.ParseCategory(s)
			diagnostics.Categories |= category
		}
		opts.Diagnostics = diagnostics
	}

	return opts, nil
}

// ParseVersion parses "major", "major.minor" or "major.minor.patch".
func ParseVersion(s string) (driver.Version, error) {
	var v driver.Version
	s = strings.TrimSpace(s)
	if s == "" {
		return v, errors.New("empty version")
	}

	parts := strings.Split(s, ".")
	if len(parts) > 3 {
		return v, errors.Newf("version %q has more than three components", s)
	}

	components := []*uint32{&v.Major, &v.Minor, &v.Patch}
	for i, part := range parts {
		n, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			return driver.Version{}, errors.Newf("version %q: component %q is not a number", s, part)
		}
		*components[i] = uint32(n)
	}
	return v, nil
}
