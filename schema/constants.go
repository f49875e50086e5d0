package schema

// Custom string types for type safety.
type (
	// EventKind represents the direction of an operator event.
	EventKind string

	// OutputMode represents the format of the output.
	OutputMode string

	// Pace represents how actual progress relates to the expected curve.
	Pace string

	// DatabaseBackend represents the database backend for caching and history.
	DatabaseBackend string

	// SourceFormat represents the format of an input table.
	SourceFormat string
)

// All event kinds supported.
const (
	EntryEvent EventKind = "entry"
	ExitEvent  EventKind = "exit"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All pace labels supported.
const (
	AheadPace   Pace = "ahead"
	OnTrackPace Pace = "on track"
	BehindPace  Pace = "behind"
	NoDataPace  Pace = "no data"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All source formats supported.
const (
	CSVSource     SourceFormat = "csv"
	JSONSource    SourceFormat = "json"
	ParquetSource SourceFormat = "parquet"
	SQLSource     SourceFormat = "sql"
)

// UnknownWorker labels tasks and events without a worker id.
const UnknownWorker = "unknown"

// DefaultCompletedStatus is the task status that marks finished work.
const DefaultCompletedStatus = "Finalizada"

// DefaultNotifyChannel is the PostgreSQL channel that announces table updates.
const DefaultNotifyChannel = "atualizacao_tabela"

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidSourceFormats lists all valid source formats.
var ValidSourceFormats = map[SourceFormat]struct{}{
	CSVSource:     {},
	JSONSource:    {},
	ParquetSource: {},
	SQLSource:     {},
}
