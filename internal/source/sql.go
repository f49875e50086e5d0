package source

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/huangsam/crewcast/internal/iocache"
	"github.com/huangsam/crewcast/schema"
)

// DefaultEventColumns are the date, event and worker columns of the operator log.
var DefaultEventColumns = []string{"data", "evento", "usuario"}

// DefaultTaskColumns are the id, name, worker, start, end and status columns of an execution view.
var DefaultTaskColumns = []string{
	"id", "nome",
	"s_1_execucao_usuario", "s_1_execucao_data_inicio",
	"s_1_execucao_data_fim", "s_1_execucao_situacao",
}

// SQLSource reads a table from SQLite, MySQL or PostgreSQL.
type SQLSource struct {
	Backend      schema.DatabaseBackend
	ConnStr      string
	Table        string
	EventColumns []string
	TaskColumns  []string
}

var _ reader = &SQLSource{} // Compile-time check

// NewSQLSource validates the table name and returns a source with the default columns.
func NewSQLSource(backend schema.DatabaseBackend, connStr, table string) (*SQLSource, error) {
	if err := iocache.ValidateTableName(table); err != nil {
		return nil, err
	}
	if _, err := iocache.DriverName(backend); err != nil {
		return nil, err
	}
	if backend == schema.SQLiteBackend && connStr == "" {
		return nil, fmt.Errorf("sqlite source requires --source-db-connect with the database file")
	}
	return &SQLSource{
		Backend:      backend,
		ConnStr:      connStr,
		Table:        table,
		EventColumns: DefaultEventColumns,
		TaskColumns:  DefaultTaskColumns,
	}, nil
}

// ReadEvents implements contract.EventSource. Rows come back ordered by date.
func (s *SQLSource) ReadEvents(ctx context.Context) ([]schema.EventRow, error) {
	var rows []schema.EventRow
	err := s.query(ctx, s.EventColumns, s.EventColumns[0], func(vals []string) {
		rows = append(rows, eventRowOf(vals))
	})
	return rows, err
}

// ReadTasks implements contract.TaskSource.
func (s *SQLSource) ReadTasks(ctx context.Context) ([]schema.TaskRow, error) {
	var rows []schema.TaskRow
	err := s.query(ctx, s.TaskColumns, s.TaskColumns[0], func(vals []string) {
		rows = append(rows, taskRowOf(vals))
	})
	return rows, err
}

// selectQuery builds the SELECT statement for the given columns.
func (s *SQLSource) selectQuery(columns []string, orderBy string) (string, error) {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		if err := iocache.ValidateTableName(c); err != nil || strings.Contains(c, ".") {
			return "", fmt.Errorf("invalid column name %q", c)
		}
		quoted[i] = iocache.QuoteTableName(c, s.Backend)
	}
	return fmt.Sprintf("SELECT %s FROM %s ORDER BY %s",
		strings.Join(quoted, ", "),
		iocache.QuoteTableName(s.Table, s.Backend),
		iocache.QuoteTableName(orderBy, s.Backend)), nil
}

func (s *SQLSource) query(ctx context.Context, columns []string, orderBy string, emit func([]string)) error {
	query, err := s.selectQuery(columns, orderBy)
	if err != nil {
		return err
	}

	db, err := iocache.OpenDB(s.Backend, s.ConnStr, "")
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", s.Table, err)
	}
	defer func() { _ = rows.Close() }()

	values := make([]sql.NullString, len(columns))
	dest := make([]any, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return fmt.Errorf("failed to scan %s: %w", s.Table, err)
		}
		vals := make([]string, len(values))
		for i, v := range values {
			vals[i] = v.String
		}
		emit(vals)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating %s: %w", s.Table, err)
	}
	return nil
}
