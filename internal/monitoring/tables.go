// Package monitoring reports size and freshness details for workspace
// tables through an established session.
package monitoring

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/soyhq/soy-cli/internal/databricks"
	"github.com/soyhq/soy-cli/internal/session"
)

// Executor runs SQL through an established session. Satisfied by
// *session.Manager.
type Executor interface {
	Execute(ctx context.Context, h *session.Handle, sql string) (*databricks.StatementResult, error)
}

// TableDetails describes one table. Err is set when the table could not be
// inspected; the remaining fields are then zero.
type TableDetails struct {
	Catalog   string
	Schema    string
	Name      string
	FullName  string
	Format    string
	NumFiles  int64
	SizeBytes int64
	SizeMB    float64
	RowCount  int64
	CreatedAt string
	Location  string
	Err       string
}

// Details inspects a single table with DESCRIBE DETAIL plus a row count.
// Failures are recorded on the returned value rather than returned, so a
// summary over many tables survives individual bad entries.
func Details(ctx context.Context, exec Executor, h *session.Handle, catalog, schema, name string) TableDetails {
	d := TableDetails{
		Catalog:  catalog,
		Schema:   schema,
		Name:     name,
		FullName: strings.Join([]string{catalog, schema, name}, "."),
	}

	res, err := exec.Execute(ctx, h, "DESCRIBE DETAIL "+d.FullName)
	if err != nil {
		d.Err = err.Error()
		return d
	}
	if len(res.Rows) == 0 {
		d.Err = "DESCRIBE DETAIL returned no rows"
		return d
	}

	row := res.Rows[0]
	cell := func(col string) string {
		for i, c := range res.Columns {
			if c == col && i < len(row) {
				return row[i]
			}
		}
		return ""
	}
	d.Format = cell("format")
	d.NumFiles, _ = strconv.ParseInt(cell("numFiles"), 10, 64)
	d.SizeBytes, _ = strconv.ParseInt(cell("sizeInBytes"), 10, 64)
	d.SizeMB = float64(d.SizeBytes) / (1024 * 1024)
	d.CreatedAt = cell("createdAt")
	d.Location = cell("location")

	count, err := exec.Execute(ctx, h, "SELECT COUNT(*) FROM "+d.FullName)
	if err != nil {
		d.Err = err.Error()
		return d
	}
	if len(count.Rows) > 0 && len(count.Rows[0]) > 0 {
		d.RowCount, _ = strconv.ParseInt(count.Rows[0][0], 10, 64)
	}
	return d
}

// Summary inspects every table in the list, each named
// "catalog.schema.table", and returns details sorted by row count
// descending. A malformed name fails the whole call; inspection failures of
// well-formed names are recorded per table.
func Summary(ctx context.Context, exec Executor, h *session.Handle, tables []string) ([]TableDetails, error) {
	out := make([]TableDetails, 0, len(tables))
	for _, full := range tables {
		parts := strings.Split(full, ".")
		if len(parts) != 3 {
			return nil, fmt.Errorf("table %q: name must be catalog.schema.table", full)
		}
		out = append(out, Details(ctx, exec, h, parts[0], parts[1], parts[2]))
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RowCount > out[j].RowCount
	})
	return out, nil
}
