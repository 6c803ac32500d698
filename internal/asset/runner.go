package asset

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/soyhq/soy-cli/internal/config"
	"github.com/soyhq/soy-cli/internal/session"
	"github.com/soyhq/soy-cli/internal/telemetry"
)

// Asset is a loaded asset: its rendered IO configuration plus the strategy
// registry for this run. Transforms read and write through it by name.
type Asset struct {
	Config *IOConfig

	reg    *Registry
	logger *slog.Logger
}

// Read loads the named input using its strategy, restricted to the input's
// configured columns.
func (a *Asset) Read(ctx context.Context, name string) (*Table, error) {
	in, err := a.Config.Input(name)
	if err != nil {
		return nil, err
	}
	reader, err := a.reg.Reader(strategyOf(in.Strategy))
	if err != nil {
		return nil, fmt.Errorf("input %q: %w", name, err)
	}

	a.logger.Debug("reading input",
		slog.String("input", name),
		slog.String("strategy", strategyOf(in.Strategy)),
	)
	tbl, err := reader.Read(ctx, in, in.Columns)
	if err != nil {
		return nil, err
	}
	a.logger.Info("read input",
		slog.String("input", name),
		slog.Int("rows", len(tbl.Rows)),
	)
	return tbl, nil
}

// Write persists a table to the named output using its strategy. The
// output's configured columns are selected before writing.
func (a *Asset) Write(ctx context.Context, name string, tbl *Table) error {
	out, err := a.Config.Output(name)
	if err != nil {
		return err
	}
	writer, err := a.reg.Writer(strategyOf(out.Strategy))
	if err != nil {
		return fmt.Errorf("output %q: %w", name, err)
	}

	selected, err := tbl.Select(out.Columns)
	if err != nil {
		return fmt.Errorf("output %q: %w", name, err)
	}

	if err := writer.Write(ctx, out, selected); err != nil {
		return err
	}
	a.logger.Info("wrote output",
		slog.String("output", name),
		slog.String("strategy", strategyOf(out.Strategy)),
		slog.Int("rows", len(selected.Rows)),
	)
	return nil
}

// Transform is a unit of business logic run against a loaded asset.
type Transform interface {
	Name() string
	Apply(ctx context.Context, a *Asset) error
}

// Runner loads an asset directory and executes a transform against it,
// acquiring a session only when the asset actually uses the spark strategy
// and always releasing it, on success and failure alike.
type Runner struct {
	cfg    *config.Config
	mgr    *session.Manager
	logger *slog.Logger
}

// NewRunner creates an asset runner.
func NewRunner(cfg *config.Config, mgr *session.Manager, logger *slog.Logger) *Runner {
	return &Runner{cfg: cfg, mgr: mgr, logger: logger}
}

// Run executes the transform against the asset in dir.
func (r *Runner) Run(ctx context.Context, dir string, tf Transform) error {
	ioCfg, err := LoadIOConfig(dir, Vars(r.cfg))
	if err != nil {
		return err
	}
	r.logger.Info("loaded asset",
		slog.String("asset", ioCfg.Name),
		slog.String("dir", dir),
	)

	reg := NewRegistry()
	local := NewLocalStrategy()
	reg.RegisterReader("local", local)
	reg.RegisterWriter("local", local)
	reg.RegisterReader("postgres", NewPostgresStrategy())
	s3s := NewS3Strategy()
	reg.RegisterReader("s3", s3s)
	reg.RegisterWriter("s3", s3s)

	if ioCfg.UsesStrategy("spark") {
		h, err := r.mgr.Acquire(ctx, r.cfg)
		if err != nil {
			return err
		}
		defer r.mgr.Release(ctx, h)
		spark := NewSparkStrategy(r.mgr, h)
		reg.RegisterReader("spark", spark)
		reg.RegisterWriter("spark", spark)
	}

	a := &Asset{Config: ioCfg, reg: reg, logger: r.logger}
	defer telemetry.Measure(r.logger, "transform "+tf.Name())()
	return tf.Apply(ctx, a)
}

// Vars exposes configuration values to ${...} placeholders in io.yaml.
func Vars(cfg *config.Config) map[string]any {
	return map[string]any{
		"environment": cfg.Environment,
		"host":        cfg.Host,
		"cluster_id":  cfg.ClusterID,
	}
}

// PipeTransform is the declarative transform run by `soy-cli run`: the asset
// context lists pipe steps copying an input to an output.
//
//	context:
//	  pipe:
//	    - {from: orders_raw, to: orders_clean}
type PipeTransform struct{}

func (PipeTransform) Name() string { return "pipe" }

func (PipeTransform) Apply(ctx context.Context, a *Asset) error {
	steps, ok := a.Config.Context["pipe"].([]any)
	if !ok || len(steps) == 0 {
		return fmt.Errorf("asset %q: context.pipe defines no steps", a.Config.Name)
	}

	for i, raw := range steps {
		step, ok := raw.(map[string]any)
		if !ok {
			return fmt.Errorf("asset %q: pipe step %d is not a mapping", a.Config.Name, i)
		}
		from, _ := step["from"].(string)
		to, _ := step["to"].(string)
		if from == "" || to == "" {
			return fmt.Errorf("asset %q: pipe step %d needs both from and to", a.Config.Name, i)
		}

		tbl, err := a.Read(ctx, from)
		if err != nil {
			return err
		}
		if err := a.Write(ctx, to, tbl); err != nil {
			return err
		}
	}
	return nil
}
