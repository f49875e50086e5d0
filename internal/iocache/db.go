package iocache

import (
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/huangsam/crewcast/internal/contract"
	"github.com/huangsam/crewcast/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// identifierRe matches a safe SQL identifier, optionally qualified by a schema.
var identifierRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*(\.[a-zA-Z_][a-zA-Z0-9_]*)?$`)

// DriverName returns the database/sql driver registered for a backend.
func DriverName(backend schema.DatabaseBackend) (string, error) {
	switch backend {
	case schema.SQLiteBackend:
		return "sqlite", nil
	case schema.MySQLBackend:
		return "mysql", nil
	case schema.PostgreSQLBackend:
		return "pgx", nil
	default:
		return "", fmt.Errorf("unsupported backend: %s. Must be sqlite, mysql or postgresql", backend)
	}
}

// OpenDB opens and pings a database for the backend.
// For SQLite an empty connStr selects defaultPath.
func OpenDB(backend schema.DatabaseBackend, connStr, defaultPath string) (*sql.DB, error) {
	driverName, err := DriverName(backend)
	if err != nil {
		return nil, err
	}

	dsn := connStr
	if backend == schema.SQLiteBackend && dsn == "" {
		dsn = defaultPath
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		switch backend {
		case schema.MySQLBackend:
			return nil, fmt.Errorf("failed to open MySQL database: %w. Check connection format: user:password@tcp(host:port)/dbname", err)
		case schema.PostgreSQLBackend:
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w. Check connection format: host=localhost port=5432 user=postgres dbname=mydb", err)
		default:
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Ensure the directory is writable", dsn, err)
		}
	}
	if backend == schema.SQLiteBackend {
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database. Check that the server is running and connection parameters are valid: %w", backend, err)
	}
	return db, nil
}

// ValidateTableName validates that the table name is a safe SQL identifier.
// A single schema qualifier such as "acompanhamento.s_1_execucao" is allowed.
func ValidateTableName(name string) error {
	if name == "" {
		return fmt.Errorf("table name cannot be empty")
	}
	if !identifierRe.MatchString(name) {
		return fmt.Errorf("invalid table name: %s (must match pattern %s)", name, identifierRe.String())
	}
	return nil
}

// QuoteTableName returns the properly quoted table name for the given backend.
func QuoteTableName(name string, backend schema.DatabaseBackend) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		switch backend {
		case schema.MySQLBackend:
			parts[i] = "`" + p + "`"
		default: // SQLite and PostgreSQL
			parts[i] = `"` + p + `"`
		}
	}
	return strings.Join(parts, ".")
}

// Placeholder returns the n-th (1-based) bind parameter for the backend.
func Placeholder(backend schema.DatabaseBackend, n int) string {
	if backend == schema.PostgreSQLBackend {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// placeholders returns a comma separated list of count bind parameters.
func placeholders(backend schema.DatabaseBackend, count int) string {
	ps := make([]string, count)
	for i := range ps {
		ps[i] = Placeholder(backend, i+1)
	}
	return strings.Join(ps, ", ")
}

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	switch backend {
	case schema.SQLiteBackend:
		return t.UTC().Format(time.RFC3339Nano)
	default:
		return t.UTC()
	}
}

// dbTime scans timestamps stored natively, as RFC3339 text (SQLite) or as
// raw bytes (MySQL without parseTime). A NULL leaves Time nil.
type dbTime struct {
	Time *time.Time
}

var _ sql.Scanner = &dbTime{} // Compile-time check

// Scan implements sql.Scanner.
func (d *dbTime) Scan(src any) error {
	var text string
	switch v := src.(type) {
	case nil:
		d.Time = nil
		return nil
	case time.Time:
		t := v.UTC()
		d.Time = &t
		return nil
	case string:
		text = v
	case []byte:
		text = string(v)
	default:
		return fmt.Errorf("cannot scan %T into a timestamp", src)
	}
	t, err := contract.ParseTimestamp(text)
	if err != nil {
		return err
	}
	t = t.UTC()
	d.Time = &t
	return nil
}

