package contract

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/huangsam/genviz/schema"
)

// Default values for configuration.
const (
	DefaultTop          = 0 // 0 means every row, or top_n_lemmas when the export declares it
	MaxTop              = 1000
	DefaultPrecision    = 1
	DefaultCacheTTL     = 24 * time.Hour
	DefaultFetchTimeout = 30 * time.Second
	DefaultAddr         = "127.0.0.1:8080"
	DefaultLogFormat    = "text"
	DefaultLogLevel     = "info"
)

// DefaultWorkers is the default number of charts built concurrently.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// validate is shared because validator caches struct metadata.
var validate = validator.New(validator.WithRequiredStructEnabled())

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for every command.
// This struct is the "final, validated" config.
type Config struct {
	Source   string // file path or URL of a single export
	Manifest string // dashboard manifest path
	Kind     schema.ChartKind

	Sort         schema.SortAttribute
	Layout       schema.Layout
	SortExplicit bool // false lets the export's metadata pick the sort
	Top          int
	Regions      string // boundary GeoJSON source; empty uses the built-in region list

	Workers      int
	Precision    int
	Output       schema.OutputMode
	OutputFile   string
	Width        int // Terminal width override (0 = auto-detect)
	UseColors    bool
	FetchTimeout time.Duration
	CacheTTL     time.Duration

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	RunBackend   schema.DatabaseBackend
	RunDBConnect string // Please use env var as this is plaintext

	LogFormat string
	LogLevel  string
	Addr      string
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	SourceStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Sort           string `mapstructure:"sort"`
	Top            int    `mapstructure:"top" validate:"gte=0,lte=1000"`
	Kind           string `mapstructure:"kind"`
	Regions        string `mapstructure:"regions"`
	Workers        int    `mapstructure:"workers" validate:"gt=0"`
	Precision      int    `mapstructure:"precision" validate:"min=1,max=2"`
	Output         string `mapstructure:"output"`
	OutputFile     string `mapstructure:"output-file"`
	Width          int    `mapstructure:"width" validate:"gte=0"`
	Color          string `mapstructure:"color"`
	FetchTimeout   string `mapstructure:"fetch-timeout"`
	CacheTTL       string `mapstructure:"cache-ttl"`
	CacheBackend   string `mapstructure:"cache-backend"`
	CacheDBConnect string `mapstructure:"cache-db-connect"`
	RunBackend     string `mapstructure:"run-backend"`
	RunDBConnect   string `mapstructure:"run-db-connect"`
	LogFormat      string `mapstructure:"log-format" validate:"omitempty,oneof=text json"`
	LogLevel       string `mapstructure:"log-level" validate:"omitempty,oneof=debug info warn error"`

	// --- Fields from dashboardCmd.Flags() ---
	Manifest string `mapstructure:"manifest"`

	// --- Fields from serveCmd.Flags() ---
	Addr string `mapstructure:"addr"`
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// WithSort returns a copy of the Config with an explicit sort attribute.
func (c *Config) WithSort(sort schema.SortAttribute, layout schema.Layout) *Config {
	clone := c.Clone()
	clone.Sort = sort
	clone.Layout = layout
	clone.SortExplicit = true
	return clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validate.Struct(input); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processSortOptions(cfg, input); err != nil {
		return err
	}
	if err := processDurations(cfg, input); err != nil {
		return err
	}
	return validateBackendConfigs(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates cache and run backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	// --- Run Backend Validation ---
	cfg.RunBackend = schema.DatabaseBackend(strings.ToLower(input.RunBackend))
	if cfg.RunBackend == "" {
		return nil
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.RunBackend]; !ok {
		return fmt.Errorf("invalid run backend '%s'. must be sqlite, mysql, postgresql, none", input.RunBackend)
	}
	cfg.RunDBConnect = input.RunDBConnect
	if err := ValidateDatabaseConnectionString(cfg.RunBackend, cfg.RunDBConnect); err != nil {
		return err
	}

	// For SQLite, resolve to actual file paths to catch default path conflicts
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.RunBackend == schema.SQLiteBackend {
		cacheDBPath := cfg.CacheDBConnect
		if cacheDBPath == "" {
			cacheDBPath = GetCacheDBFilePath()
		}
		runDBPath := cfg.RunDBConnect
		if runDBPath == "" {
			runDBPath = GetRunDBFilePath()
		}
		if cacheDBPath == runDBPath {
			return fmt.Errorf("cache and run storage must use different SQLite database files. Both resolve to %q", cacheDBPath)
		}
	}
	return nil
}

// validateSimpleInputs processes and validates all non-sort related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.Source = strings.TrimSpace(input.SourceStr)
	cfg.Manifest = input.Manifest
	cfg.Regions = input.Regions
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.Top = input.Top
	cfg.Workers = input.Workers
	cfg.Precision = input.Precision
	cfg.Addr = input.Addr
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}

	cfg.LogFormat = input.LogFormat
	if cfg.LogFormat == "" {
		cfg.LogFormat = DefaultLogFormat
	}
	cfg.LogLevel = input.LogLevel
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	cfg.Kind = schema.ChartKind(strings.ToLower(input.Kind))
	if cfg.Kind == "" {
		cfg.Kind = schema.BarChart
	}
	if _, ok := schema.ValidChartKinds[cfg.Kind]; !ok {
		return fmt.Errorf("invalid chart kind '%s'. must be bar, heatmap, line, region", input.Kind)
	}

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet, xlsx, html, png", input.Output)
	}
	if _, binary := schema.BinaryOutputModes[cfg.Output]; binary && cfg.OutputFile == "" {
		return fmt.Errorf("--output-file is required for %s output", cfg.Output)
	}

	return nil
}

// processSortOptions resolves the sort attribute. An empty value defers to the export's metadata.
func processSortOptions(cfg *Config, input *ConfigRawInput) error {
	sort, layout, err := schema.ParseSortAttribute(input.Sort)
	if err != nil {
		return err
	}
	cfg.Sort = sort
	cfg.Layout = layout
	cfg.SortExplicit = strings.TrimSpace(input.Sort) != ""
	return nil
}

// processDurations parses the human-friendly duration strings.
func processDurations(cfg *Config, input *ConfigRawInput) error {
	cfg.CacheTTL = DefaultCacheTTL
	if input.CacheTTL != "" {
		ttl, err := time.ParseDuration(input.CacheTTL)
		if err != nil {
			return fmt.Errorf("invalid --cache-ttl value: %w", err)
		}
		if ttl < 0 {
			return fmt.Errorf("cache-ttl cannot be negative (received %s)", ttl)
		}
		cfg.CacheTTL = ttl
	}

	cfg.FetchTimeout = DefaultFetchTimeout
	if input.FetchTimeout != "" {
		timeout, err := time.ParseDuration(input.FetchTimeout)
		if err != nil {
			return fmt.Errorf("invalid --fetch-timeout value: %w", err)
		}
		if timeout <= 0 {
			return fmt.Errorf("fetch-timeout must be positive (received %s)", timeout)
		}
		cfg.FetchTimeout = timeout
	}
	return nil
}

// ValidateStruct runs the shared validator (including the "sortmode" tag) over v.
func ValidateStruct(v any) error {
	return validate.Struct(v)
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}
