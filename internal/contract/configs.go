package contract

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/huangsam/crewcast/schema"
)

// Default values for configuration.
const (
	DefaultPrecision   = 1
	DefaultEventsTable = "eventos_operadores"
	DefaultTasksTable  = "s_1_execucao"
	DefaultDebounce    = 500 * time.Millisecond
)

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// SourceConfig locates one input table.
type SourceConfig struct {
	Path      string              // File path, or the table name for SQL sources
	Format    schema.SourceFormat // Inferred from the file extension when not given
	Backend   schema.DatabaseBackend
	DBConnect string // Please use env var as this is plaintext
}

// Config holds the validated configuration of a run.
type Config struct {
	Events SourceConfig
	Tasks  SourceConfig

	StudyEnd        time.Time // Zero means the later of today and the last event day
	Horizon         time.Time // Last day of the per-worker curves
	Now             time.Time
	EndInput        string // Raw --end, re-resolved by At
	HorizonInput    string // Raw --horizon, re-resolved by At
	Worker          string // Restricts progress to one worker when set
	CompletedStatus string
	StrictKinds     bool

	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	NotifyChannel string
	Debounce      time.Duration

	UseEmojis bool // Enable emojis in output headers
	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	EventsPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Events           string `mapstructure:"events"`
	EventsFormat     string `mapstructure:"events-format"`
	Tasks            string `mapstructure:"tasks"`
	TasksFormat      string `mapstructure:"tasks-format"`
	SourceBackend    string `mapstructure:"source-backend"`
	SourceDBConnect  string `mapstructure:"source-db-connect"`
	End              string `mapstructure:"end"`
	Horizon          string `mapstructure:"horizon"`
	Worker           string `mapstructure:"worker"`
	CompletedStatus  string `mapstructure:"completed-status"`
	StrictKinds      bool   `mapstructure:"strict-kinds"`
	Precision        int    `mapstructure:"precision"`
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	Width            int    `mapstructure:"width"`
	CacheBackend     string `mapstructure:"cache-backend"`
	CacheDBConnect   string `mapstructure:"cache-db-connect"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`
	Emoji            string `mapstructure:"emoji"`
	Color            string `mapstructure:"color"`

	// --- Fields from watchCmd.Flags() ---
	NotifyChannel string `mapstructure:"notify-channel"`
	Debounce      string `mapstructure:"debounce"`
}

// Clone returns a copy of the Config struct that can be mutated independently.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// ProcessAndValidate turns raw inputs into a validated Config.
// now anchors relative dates and the default horizon.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput, now time.Time) error {
	cfg.Now = now
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processSources(cfg, input); err != nil {
		return err
	}
	if err := processTimeRange(cfg, input); err != nil {
		return err
	}
	return processWatchInputs(cfg, input)
}

// ValidateDatabaseConnectionString checks that a connection string fits its backend.
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

// parseBackend lower-cases and validates a backend name. Blank stays blank.
func parseBackend(raw, what string) (schema.DatabaseBackend, error) {
	backend := schema.DatabaseBackend(strings.ToLower(strings.TrimSpace(raw)))
	if backend == "" {
		return "", nil
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", fmt.Errorf("invalid %s backend '%s'. must be sqlite, mysql, postgresql, none", what, raw)
	}
	return backend, nil
}

// validateBackendConfigs validates cache and history backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	backend, err := parseBackend(input.CacheBackend, "cache")
	if err != nil {
		return err
	}
	if backend == "" {
		backend = schema.SQLiteBackend
	}
	cfg.CacheBackend = backend
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	// --- History Backend Validation ---
	cfg.HistoryBackend, err = parseBackend(input.HistoryBackend, "history")
	if err != nil {
		return err
	}
	if cfg.HistoryBackend == "" {
		return nil
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	if err := ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return err
	}

	// For SQLite, resolve to actual file paths to catch default path conflicts
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.HistoryBackend == schema.SQLiteBackend {
		cachePath := cfg.CacheDBConnect
		if cachePath == "" {
			cachePath = GetCacheDBFilePath()
		}
		historyPath := cfg.HistoryDBConnect
		if historyPath == "" {
			historyPath = GetHistoryDBFilePath()
		}
		if cachePath == historyPath {
			return fmt.Errorf("cache and history storage must use different SQLite database files. Both resolve to %q", cachePath)
		}
	}
	return nil
}

// validateSimpleInputs processes and validates all non-source fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.Worker = strings.TrimSpace(input.Worker)
	cfg.StrictKinds = input.StrictKinds

	cfg.CompletedStatus = input.CompletedStatus
	if strings.TrimSpace(cfg.CompletedStatus) == "" {
		cfg.CompletedStatus = schema.DefaultCompletedStatus
	}

	emojis, err := ParseBoolString(defaultString(input.Emoji, "no"))
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	colors, err := ParseBoolString(defaultString(input.Color, "yes"))
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(defaultString(input.Output, string(schema.TextOut))))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", cfg.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	return validateBackendConfigs(cfg, input)
}

// processSources resolves where events and tasks are read from.
func processSources(cfg *Config, input *ConfigRawInput) error {
	backend, err := parseBackend(input.SourceBackend, "source")
	if err != nil {
		return err
	}
	if backend == schema.NoneBackend {
		return fmt.Errorf("source backend cannot be %s", backend)
	}
	if backend != "" {
		if err := ValidateDatabaseConnectionString(backend, input.SourceDBConnect); err != nil {
			return err
		}
	}

	eventsPath := input.EventsPathStr
	if eventsPath == "" {
		eventsPath = input.Events
	}
	cfg.Events, err = resolveSource(eventsPath, input.EventsFormat, backend, input.SourceDBConnect, DefaultEventsTable)
	if err != nil {
		return fmt.Errorf("events source: %w", err)
	}
	cfg.Tasks, err = resolveSource(input.Tasks, input.TasksFormat, backend, input.SourceDBConnect, DefaultTasksTable)
	if err != nil {
		return fmt.Errorf("tasks source: %w", err)
	}
	return nil
}

// resolveSource builds a SourceConfig, inferring the format from the extension.
// A blank path is allowed and means the source is not configured.
func resolveSource(path, format string, backend schema.DatabaseBackend, connStr, defaultTable string) (SourceConfig, error) {
	src := SourceConfig{Path: strings.TrimSpace(path), Backend: backend, DBConnect: connStr}
	src.Format = schema.SourceFormat(strings.ToLower(strings.TrimSpace(format)))

	if src.Format == "" {
		if backend != "" {
			src.Format = schema.SQLSource
		} else if src.Path != "" {
			src.Format = FormatFromExtension(src.Path)
		}
	}
	if src.Format == schema.SQLSource {
		if backend == "" {
			return src, fmt.Errorf("sql format requires --source-backend")
		}
		if src.Path == "" {
			src.Path = defaultTable
		}
		return src, nil
	}
	if src.Path == "" {
		return src, nil
	}
	if _, ok := schema.ValidSourceFormats[src.Format]; !ok {
		return src, fmt.Errorf("cannot infer format of %q. use csv, json, parquet or sql", src.Path)
	}
	return src, nil
}

// FormatFromExtension guesses a source format from a file name.
// It returns an empty format when the extension is not recognized.
func FormatFromExtension(path string) schema.SourceFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return schema.CSVSource
	case ".json":
		return schema.JSONSource
	case ".parquet":
		return schema.ParquetSource
	default:
		return ""
	}
}

// processTimeRange handles the study end and horizon dates.
func processTimeRange(cfg *Config, input *ConfigRawInput) error {
	cfg.EndInput = strings.TrimSpace(input.End)
	cfg.HorizonInput = strings.TrimSpace(input.Horizon)
	cfg.StudyEnd = time.Time{}
	return resolveTimeRange(cfg)
}

// resolveTimeRange anchors the raw --end and --horizon values to cfg.Now.
// Without a raw --end the current StudyEnd is kept.
func resolveTimeRange(cfg *Config) error {
	if cfg.EndInput != "" {
		end, err := ParseDayOrRelative(cfg.EndInput, cfg.Now)
		if err != nil {
			return fmt.Errorf("invalid --end: %w", err)
		}
		cfg.StudyEnd = end
	}

	cfg.Horizon = schema.DateOnly(cfg.Now)
	if cfg.HorizonInput != "" {
		horizon, err := ParseDayOrRelative(cfg.HorizonInput, cfg.Now)
		if err != nil {
			return fmt.Errorf("invalid --horizon: %w", err)
		}
		cfg.Horizon = horizon
	}
	return nil
}

// At returns a copy of the config anchored to now. Long-running commands call
// it before every run so implicit and relative dates follow the clock.
func (c *Config) At(now time.Time) (*Config, error) {
	clone := c.Clone()
	clone.Now = now
	if err := resolveTimeRange(clone); err != nil {
		return nil, err
	}
	return clone, nil
}

// processWatchInputs handles the notification channel and debounce window.
func processWatchInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.NotifyChannel = defaultString(strings.TrimSpace(input.NotifyChannel), schema.DefaultNotifyChannel)

	cfg.Debounce = DefaultDebounce
	if input.Debounce != "" {
		d, err := time.ParseDuration(input.Debounce)
		if err != nil {
			return fmt.Errorf("invalid --debounce: %w", err)
		}
		if d < 0 {
			return fmt.Errorf("debounce cannot be negative (received %s)", d)
		}
		cfg.Debounce = d
	}
	return nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// RunParams lists the settings that shape a forecast, for run tracking.
func (c *Config) RunParams() map[string]any {
	params := map[string]any{
		"events":        c.Events.Path,
		"events_format": string(c.Events.Format),
		"strict_kinds":  c.StrictKinds,
	}
	if !c.StudyEnd.IsZero() {
		params["study_end"] = schema.FormatDay(c.StudyEnd)
	}
	return params
}

func defaultString(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
