package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server     ServerConfig     `yaml:"server" envconfig:"SERVER"`
	Security   SecurityConfig   `yaml:"security" envconfig:"SECURITY"`
	Logging    LoggingConfig    `yaml:"logging" envconfig:"LOGGING"`
	Paths      PathsConfig      `yaml:"paths" envconfig:"PATHS"`
	WebSocket  WebSocketConfig  `yaml:"websocket" envconfig:"WEBSOCKET"`
	Extraction ExtractionConfig `yaml:"extraction" envconfig:"EXTRACTION"`
	Generator  GeneratorConfig  `yaml:"generator" envconfig:"GENERATOR"`
	Upload     UploadConfig     `yaml:"upload" envconfig:"UPLOAD"`
	Database   DatabaseConfig   `yaml:"database" envconfig:"DATABASE"`
	Sheets     SheetsConfig     `yaml:"sheets" envconfig:"SHEETS"`
	Telemetry  TelemetryConfig  `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" validate:"gt=0"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" validate:"min=1"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" validate:"gte=0"`
	Burst   int     `yaml:"burst" envconfig:"BURST" validate:"gte=0"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" validate:"omitempty,oneof=debug info warn warning error"`
	Format      string `yaml:"format" envconfig:"FORMAT" validate:"omitempty,oneof=json text"`
	Output      string `yaml:"output" envconfig:"OUTPUT" validate:"omitempty,oneof=console stdout file both"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	BaseDir    string `yaml:"base_dir" envconfig:"BASE_DIR"`
	DataDir    string `yaml:"data_dir" envconfig:"DATA_DIR"`
	ReportsDir string `yaml:"reports_dir" envconfig:"REPORTS_DIR"`
	LogsDir    string `yaml:"logs_dir" envconfig:"LOGS_DIR"`
}

// WebSocketConfig contains WebSocket configuration
type WebSocketConfig struct {
	ReadBufferSize  int           `yaml:"read_buffer_size" envconfig:"READ_BUFFER_SIZE"`
	WriteBufferSize int           `yaml:"write_buffer_size" envconfig:"WRITE_BUFFER_SIZE"`
	PingPeriod      time.Duration `yaml:"ping_period" envconfig:"PING_PERIOD"`
	PongWait        time.Duration `yaml:"pong_wait" envconfig:"PONG_WAIT"`
}

// ExtractionConfig describes where the survey export keeps each field.
// Offsets are 0-based column indexes into the first sheet.
type ExtractionConfig struct {
	IDColumn               int      `yaml:"id_column" envconfig:"ID_COLUMN" validate:"gte=0"`
	LocationColumn         int      `yaml:"location_column" envconfig:"LOCATION_COLUMN" validate:"gte=0"`
	LocationFallbackColumn int      `yaml:"location_fallback_column" envconfig:"LOCATION_FALLBACK_COLUMN" validate:"gte=0"`
	CapacityColumn         int      `yaml:"capacity_column" envconfig:"CAPACITY_COLUMN" validate:"gte=0"`
	PeakLoadColumn         int      `yaml:"peak_load_column" envconfig:"PEAK_LOAD_COLUMN" validate:"gte=0"`
	UnbalanceColumn        int      `yaml:"unbalance_column" envconfig:"UNBALANCE_COLUMN" validate:"gte=0"`
	EndVoltageColumn       int      `yaml:"end_voltage_column" envconfig:"END_VOLTAGE_COLUMN" validate:"gte=0"`
	LossColumn             int      `yaml:"loss_column" envconfig:"LOSS_COLUMN" validate:"gte=0"`
	ReservedWords          []string `yaml:"reserved_words" envconfig:"RESERVED_WORDS"`
}

// GeneratorConfig controls the synthetic demo dataset.
type GeneratorConfig struct {
	Count int   `yaml:"count" envconfig:"COUNT" validate:"gte=0,lte=100000"`
	Seed  int64 `yaml:"seed" envconfig:"SEED"`

	// LoadOnStart fills an empty store with a demo dataset when the server starts.
	LoadOnStart bool `yaml:"load_on_start" envconfig:"LOAD_ON_START"`
}

// UploadConfig limits what the upload endpoint accepts.
type UploadConfig struct {
	MaxBytes   int64    `yaml:"max_bytes" envconfig:"MAX_BYTES" validate:"gt=0"`
	Extensions []string `yaml:"extensions" envconfig:"EXTENSIONS" validate:"min=1"`
}

// DatabaseConfig selects the dataset store. An empty URL keeps datasets in memory.
type DatabaseConfig struct {
	URL             string        `yaml:"url" envconfig:"URL"`
	MaxOpenConns    int           `yaml:"max_open_conns" envconfig:"MAX_OPEN_CONNS"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" envconfig:"CONN_MAX_LIFETIME"`
}

// SheetsConfig configures the Google Sheets importer.
type SheetsConfig struct {
	CredentialsFile string `yaml:"credentials_file" envconfig:"CREDENTIALS_FILE"`
	APIKey          string `yaml:"api_key" envconfig:"API_KEY"`
	DefaultRange    string `yaml:"default_range" envconfig:"DEFAULT_RANGE"`
}

// TelemetryConfig configures OpenTelemetry.
type TelemetryConfig struct {
	ServiceName   string `yaml:"service_name" envconfig:"SERVICE_NAME"`
	EnableTracing bool   `yaml:"enable_tracing" envconfig:"ENABLE_TRACING"`
	EnableMetrics bool   `yaml:"enable_metrics" envconfig:"ENABLE_METRICS"`
}

// Load builds the configuration from defaults, the config file and the
// environment, in increasing order of precedence.
func Load() (*Config, error) {
	cfg := Default()

	// Load from config file if exists
	if configFile := getConfigFilePath(); configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Environment variables override everything else
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// validate validates the configuration and normalizes logging values
func (c *Config) validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "console"
	}
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/app.log"
	}
	if len(c.Extraction.ReservedWords) == 0 {
		c.Extraction.ReservedWords = append([]string(nil), DefaultReservedWords...)
	}
	if c.Generator.Count == 0 {
		c.Generator.Count = DefaultGeneratorCount
	}

	return nil
}

// Validate exposes validation for configs built in code.
func (c *Config) Validate() error {
	return c.validate()
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if forced := os.Getenv(ConfigFileEnv); forced != "" {
		return forced
	}

	// Check for config file in common locations
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// UsesDatabase reports whether datasets should be persisted to PostgreSQL.
func (c *Config) UsesDatabase() bool {
	return c.Database.URL != ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20, // 1MB
			ShutdownTimeout: 30 * time.Second,
			RequestTimeout:  60 * time.Second,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8080", "http://localhost:5173"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     100,
				Burst:   50,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/app.log",
		},
		Paths: PathsConfig{
			DataDir:    DefaultDataDir,
			ReportsDir: DefaultReportsDir,
			LogsDir:    DefaultLogsDir,
		},
		WebSocket: WebSocketConfig{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			PingPeriod:      WebSocketPingPeriod,
			PongWait:        WebSocketPongWait,
		},
		Extraction: ExtractionConfig{
			IDColumn:               DefaultIDColumn,
			LocationColumn:         DefaultLocationColumn,
			LocationFallbackColumn: DefaultLocationFallbackColumn,
			CapacityColumn:         DefaultCapacityColumn,
			PeakLoadColumn:         DefaultPeakLoadColumn,
			UnbalanceColumn:        DefaultUnbalanceColumn,
			EndVoltageColumn:       DefaultEndVoltageColumn,
			LossColumn:             DefaultLossColumn,
			ReservedWords:          append([]string(nil), DefaultReservedWords...),
		},
		Generator: GeneratorConfig{
			Count:       DefaultGeneratorCount,
			LoadOnStart: true,
		},
		Upload: UploadConfig{
			MaxBytes:   DefaultMaxUploadBytes,
			Extensions: append([]string(nil), DefaultUploadExtensions...),
		},
		Database: DatabaseConfig{
			MaxOpenConns:    10,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Sheets: SheetsConfig{
			DefaultRange: "A1:Z",
		},
		Telemetry: TelemetryConfig{
			ServiceName:   "transformer-dashboard",
			EnableTracing: false,
			EnableMetrics: true,
		},
	}
}
