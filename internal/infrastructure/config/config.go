package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for graynode.
// All configuration is loaded from YAML and can be overridden by environment
// variables. Connection secrets are NOT configured here; they come from the
// credential chain (see internal/credentials).
type Config struct {
	Node        NodeConfig        `yaml:"node"`
	Wifi        WifiConfig        `yaml:"wifi"`
	Broker      BrokerConfig      `yaml:"broker"`
	Credentials CredentialsConfig `yaml:"credentials"`
	Indicator   IndicatorConfig   `yaml:"indicator"`
	Panel       PanelConfig       `yaml:"panel"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// NodeConfig identifies this node within the site.
type NodeConfig struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// WifiConfig contains wireless link settings (non-secret).
type WifiConfig struct {
	// Interface is the wireless interface name (e.g. "wlan0").
	Interface string `yaml:"interface"`
}

// BrokerConfig contains MQTT settings that are not part of the credential
// chain.
type BrokerConfig struct {
	QoS int `yaml:"qos"`
}

// CredentialsConfig controls the connection-credential chain.
type CredentialsConfig struct {
	// StorePath is the SQLite file holding provisioned credentials.
	StorePath string `yaml:"store_path"`

	// BusyTimeout is the maximum time to wait for a store lock (seconds).
	BusyTimeout int `yaml:"busy_timeout"`

	// UseBuiltin selects the compiled-in credential override instead of the
	// persisted store. Bring-up aid only; its use is always logged loudly.
	UseBuiltin bool `yaml:"use_builtin"`
}

// IndicatorConfig maps the status LED lines to sysfs brightness files.
type IndicatorConfig struct {
	BootLED   string `yaml:"boot_led"`
	StatusLED string `yaml:"status_led"`
	FaultLED  string `yaml:"fault_led"`
}

// PanelConfig contains the peripheral bus gateway settings.
type PanelConfig struct {
	// Endpoint is the Modbus TCP endpoint of the display gateway (host:port).
	Endpoint string `yaml:"endpoint"`
}

// TelemetryConfig contains InfluxDB connection settings for optional boot and
// connectivity telemetry.
type TelemetryConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads, parses, and validates the YAML configuration file.
//
// Values are layered: built-in defaults, then the file, then environment
// variable overrides of the form GRAYNODE_SECTION_KEY.
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	// Start with defaults
	cfg := defaultConfig()

	// Read and parse YAML file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Node: NodeConfig{
			ID:   "node-001",
			Name: "Gray Logic Node",
		},
		Wifi: WifiConfig{
			Interface: "wlan0",
		},
		Broker: BrokerConfig{
			QoS: 1,
		},
		Credentials: CredentialsConfig{
			StorePath:   "./data/graynode.db",
			BusyTimeout: 5,
		},
		Indicator: IndicatorConfig{
			BootLED:   "/sys/class/leds/graynode:blue:boot/brightness",
			StatusLED: "/sys/class/leds/graynode:green:status/brightness",
			FaultLED:  "/sys/class/leds/graynode:red:fault/brightness",
		},
		Panel: PanelConfig{
			Endpoint: "127.0.0.1:1502",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the
// configuration. Environment variables follow the pattern:
// GRAYNODE_SECTION_KEY.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GRAYNODE_NODE_ID"); v != "" {
		cfg.Node.ID = v
	}
	if v := os.Getenv("GRAYNODE_WIFI_INTERFACE"); v != "" {
		cfg.Wifi.Interface = v
	}
	if v := os.Getenv("GRAYNODE_CREDENTIALS_STORE_PATH"); v != "" {
		cfg.Credentials.StorePath = v
	}
	if v := os.Getenv("GRAYNODE_PANEL_ENDPOINT"); v != "" {
		cfg.Panel.Endpoint = v
	}
	if v := os.Getenv("GRAYNODE_TELEMETRY_TOKEN"); v != "" {
		cfg.Telemetry.Token = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	if c.Node.ID == "" {
		errs = append(errs, "node.id is required")
	}
	if c.Wifi.Interface == "" {
		errs = append(errs, "wifi.interface is required")
	}
	if c.Broker.QoS < 0 || c.Broker.QoS > 2 {
		errs = append(errs, "broker.qos must be 0, 1, or 2")
	}
	if c.Credentials.StorePath == "" {
		errs = append(errs, "credentials.store_path is required")
	}
	if c.Telemetry.Enabled && c.Telemetry.URL == "" {
		errs = append(errs, "telemetry.url is required when telemetry is enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}
