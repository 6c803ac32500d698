package asset

import (
	"context"
	"fmt"
	"os"
)

// LocalStrategy reads and writes CSV or JSON files on the local filesystem.
// The api field selects the format ("csv" or "json"); args.path names the
// file.
type LocalStrategy struct{}

// NewLocalStrategy creates the local-file strategy.
func NewLocalStrategy() *LocalStrategy {
	return &LocalStrategy{}
}

func (s *LocalStrategy) Read(ctx context.Context, in *Input, columns []string) (*Table, error) {
	path, err := stringArg(in.Args, "path")
	if err != nil {
		return nil, fmt.Errorf("input %q: %w", in.Name, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("input %q: %w", in.Name, err)
	}

	tbl, err := decodeFormat(in.API, data)
	if err != nil {
		return nil, fmt.Errorf("input %q: %w", in.Name, err)
	}
	return tbl.Select(columns)
}

func (s *LocalStrategy) Write(ctx context.Context, out *Output, tbl *Table) error {
	path, err := stringArg(out.Args, "path")
	if err != nil {
		return fmt.Errorf("output %q: %w", out.Name, err)
	}

	data, err := encodeFormat(out.API, tbl)
	if err != nil {
		return fmt.Errorf("output %q: %w", out.Name, err)
	}
	return os.WriteFile(path, data, 0o644)
}

func decodeFormat(api string, data []byte) (*Table, error) {
	switch api {
	case "csv":
		return decodeCSV(data)
	case "json":
		return decodeJSON(data)
	default:
		return nil, fmt.Errorf("unsupported format %q (supported: csv, json)", api)
	}
}

func encodeFormat(api string, tbl *Table) ([]byte, error) {
	switch api {
	case "csv":
		return encodeCSV(tbl)
	case "json":
		return encodeJSON(tbl)
	default:
		return nil, fmt.Errorf("unsupported format %q (supported: csv, json)", api)
	}
}

func stringArg(args map[string]any, key string) (string, error) {
	v, ok := args[key]
	if !ok {
		return "", fmt.Errorf("missing required arg %q", key)
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("arg %q must be a non-empty string", key)
	}
	return s, nil
}
