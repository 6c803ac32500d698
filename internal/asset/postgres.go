package asset

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"
)

// pgQuerier is the slice of *pgx.Conn the postgres strategy needs.
type pgQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Close(ctx context.Context) error
}

// PostgresStrategy reads query results from a PostgreSQL database. Inputs
// name a connection through args.dsn (literal) or args.dsn_env (environment
// variable holding the DSN) and the query through args.query. Writing is not
// supported.
type PostgresStrategy struct {
	connect func(ctx context.Context, dsn string) (pgQuerier, error)
}

// NewPostgresStrategy creates the postgres reader strategy.
func NewPostgresStrategy() *PostgresStrategy {
	return &PostgresStrategy{
		connect: func(ctx context.Context, dsn string) (pgQuerier, error) {
			return pgx.Connect(ctx, dsn)
		},
	}
}

func (s *PostgresStrategy) Read(ctx context.Context, in *Input, columns []string) (*Table, error) {
	dsn, err := resolveDSN(in.Args)
	if err != nil {
		return nil, fmt.Errorf("input %q: %w", in.Name, err)
	}
	query, err := stringArg(in.Args, "query")
	if err != nil {
		return nil, fmt.Errorf("input %q: %w", in.Name, err)
	}

	conn, err := s.connect(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("input %q: connecting: %w", in.Name, err)
	}
	defer conn.Close(ctx)

	rows, err := conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("input %q: query: %w", in.Name, err)
	}
	defer rows.Close()

	tbl := &Table{}
	for _, fd := range rows.FieldDescriptions() {
		tbl.Columns = append(tbl.Columns, fd.Name)
	}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("input %q: %w", in.Name, err)
		}
		row := make([]string, len(values))
		for i, v := range values {
			if v != nil {
				row[i] = fmt.Sprint(v)
			}
		}
		tbl.Rows = append(tbl.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("input %q: %w", in.Name, err)
	}
	return tbl.Select(columns)
}

func (s *PostgresStrategy) Write(ctx context.Context, out *Output, tbl *Table) error {
	return fmt.Errorf("output %q: postgres strategy is read-only", out.Name)
}

func resolveDSN(args map[string]any) (string, error) {
	if _, ok := args["dsn"]; ok {
		return stringArg(args, "dsn")
	}
	envName, err := stringArg(args, "dsn_env")
	if err != nil {
		return "", fmt.Errorf("either dsn or dsn_env is required: %w", err)
	}
	dsn := os.Getenv(envName)
	if dsn == "" {
		return "", fmt.Errorf("environment variable %q named by dsn_env is not set", envName)
	}
	return dsn, nil
}
