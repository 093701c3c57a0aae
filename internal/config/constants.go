package config

import "time"

// Application constants
const (
	AppName    = "Transformer Dashboard"
	AppVersion = "1.0.0"

	// EnvPrefix namespaces every environment variable read by Load.
	EnvPrefix = "DASHBOARD"

	// ConfigFileEnv overrides the config file search.
	ConfigFileEnv = "DASHBOARD_CONFIG"

	// Upload limits
	DefaultMaxUploadBytes = 20 << 20

	// Network Timeouts
	DefaultHTTPTimeout  = 30 * time.Second
	SheetsImportTimeout = 45 * time.Second
	WebSocketPingPeriod = 30 * time.Second
	WebSocketPongWait   = 60 * time.Second

	// File Paths (relative to the base directory)
	DefaultDataDir    = "data"
	DefaultLogsDir    = "logs"
	DefaultReportsDir = "data/reports"

	// Generator defaults
	DefaultGeneratorCount = 50
)

// Default extraction layout of the survey export (0-based column offsets).
const (
	DefaultIDColumn               = 0
	DefaultLocationColumn         = 1
	DefaultLocationFallbackColumn = 2
	DefaultCapacityColumn         = 3
	DefaultPeakLoadColumn         = 13
	DefaultUnbalanceColumn        = 18
	DefaultEndVoltageColumn       = 19
	DefaultLossColumn             = 20
)

// DefaultReservedWords are first-column words that mark title and header rows.
var DefaultReservedWords = []string{"ลำดับ", "PEA", "รหัส", "Transformer"}

// DefaultUploadExtensions lists the file types the upload form accepts.
var DefaultUploadExtensions = []string{".xlsx", ".xlsm", ".xls", ".csv"}
