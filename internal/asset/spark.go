package asset

import (
	"context"
	"fmt"
	"strings"

	"github.com/soyhq/soy-cli/internal/databricks"
	"github.com/soyhq/soy-cli/internal/session"
)

// StatementExecutor runs SQL through an established session. Satisfied by
// *session.Manager.
type StatementExecutor interface {
	Execute(ctx context.Context, h *session.Handle, sql string) (*databricks.StatementResult, error)
}

// SparkStrategy reads and writes workspace tables through the acquired
// session. Supported read APIs: "table" (args.name) and "sql" (args.query).
// Supported write APIs: "saveAsTable" (args.name, args.mode overwrite|append)
// and "insertInto" (args.name).
type SparkStrategy struct {
	exec   StatementExecutor
	handle *session.Handle
}

// NewSparkStrategy binds the spark strategy to an acquired session handle.
func NewSparkStrategy(exec StatementExecutor, h *session.Handle) *SparkStrategy {
	return &SparkStrategy{exec: exec, handle: h}
}

func (s *SparkStrategy) Read(ctx context.Context, in *Input, columns []string) (*Table, error) {
	var query string
	switch in.API {
	case "table":
		name, err := stringArg(in.Args, "name")
		if err != nil {
			return nil, fmt.Errorf("input %q: %w", in.Name, err)
		}
		cols := "*"
		if len(columns) > 0 {
			cols = strings.Join(quoteIdents(columns), ", ")
		}
		query = fmt.Sprintf("SELECT %s FROM %s", cols, name)
	case "sql":
		q, err := stringArg(in.Args, "query")
		if err != nil {
			return nil, fmt.Errorf("input %q: %w", in.Name, err)
		}
		query = q
	default:
		return nil, fmt.Errorf("input %q: unsupported spark read api %q (supported: table, sql)", in.Name, in.API)
	}

	res, err := s.exec.Execute(ctx, s.handle, query)
	if err != nil {
		return nil, err
	}
	tbl := &Table{Columns: res.Columns, Rows: res.Rows}
	if in.API == "sql" {
		return tbl.Select(columns)
	}
	return tbl, nil
}

func (s *SparkStrategy) Write(ctx context.Context, out *Output, tbl *Table) error {
	name, err := stringArg(out.Args, "name")
	if err != nil {
		return fmt.Errorf("output %q: %w", out.Name, err)
	}

	switch out.API {
	case "saveAsTable":
		mode, _ := out.Args["mode"].(string)
		if mode == "" || mode == "overwrite" {
			ddl := fmt.Sprintf("CREATE OR REPLACE TABLE %s (%s STRING)",
				name, strings.Join(quoteIdents(tbl.Columns), " STRING, "))
			if _, err := s.exec.Execute(ctx, s.handle, ddl); err != nil {
				return err
			}
		}
	case "insertInto":
		// Table must already exist.
	default:
		return fmt.Errorf("output %q: unsupported spark write api %q (supported: saveAsTable, insertInto)", out.Name, out.API)
	}

	if len(tbl.Rows) == 0 {
		return nil
	}

	values := make([]string, 0, len(tbl.Rows))
	for _, row := range tbl.Rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = quoteLiteral(cell)
		}
		values = append(values, "("+strings.Join(cells, ", ")+")")
	}
	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		name, strings.Join(quoteIdents(tbl.Columns), ", "), strings.Join(values, ", "))
	_, err = s.exec.Execute(ctx, s.handle, insert)
	return err
}

func quoteIdents(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = "`" + strings.ReplaceAll(n, "`", "``") + "`"
	}
	return out
}

func quoteLiteral(v string) string {
	return "'" + strings.ReplaceAll(v, "'", "''") + "'"
}
