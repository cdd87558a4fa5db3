package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hupe1980/solvmatch"
	"github.com/hupe1980/solvmatch/blend"
	"github.com/hupe1980/solvmatch/blobstore"
	"github.com/hupe1980/solvmatch/codec"
	"github.com/hupe1980/solvmatch/model"
	"github.com/hupe1980/solvmatch/table"
)

type matchFlags struct {
	compounds       string
	solvents        string
	output          string
	format          string
	pairsOutput     string
	neighborsOutput string
	allOccurrences  bool
	stdinFormat     string

	nearest         int
	maxResults      int
	workers         int
	weight          float64
	memoryLimit     int64
	ratioPolicy     string
	codec           string
	logFormat       string
	logLevel        string
	metricsTextfile string
}

func newMatchCmd(root *rootOptions) *cobra.Command {
	var f matchFlags

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Rank solvent pairs against a compound table",
		Long: `Score every solvent pair against every compound, keep the n nearest pairs
per compound, rank pairs by how many compounds kept them and resolve the mixing
ratio of the top m.

Results go to --output (CSV on stdout by default). The output format follows
the extension: .csv, .tsv, .json or .db/.sqlite for SQLite. Either input table
may be "-" to read it from stdin in the format named by --stdin-format.`,
		Example: `  solvmatch match --compounds drugs.csv --solvents solvents.csv -n 10 -m 20
  zstdcat drugs.csv.zst | solvmatch match --compounds - --solvents solvents.csv
  solvmatch match --compounds s3://lab/drugs.csv.zst --solvents solvents.csv --output report.db --pairs-output report.db`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMatch(cmd, root, &f)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.compounds, "compounds", "", "Compound table (required)")
	fl.StringVar(&f.solvents, "solvents", "", "Solvent table (required)")
	fl.StringVarP(&f.output, "output", "o", "", "Result table (default stdout)")
	fl.StringVar(&f.format, "format", "csv", "Stdout format: csv, tsv or json")
	fl.StringVar(&f.stdinFormat, "stdin-format", "csv", "Format of a table read from stdin: csv or tsv, optionally .zst or .lz4")
	fl.StringVar(&f.pairsOutput, "pairs-output", "", "Pair occurrence table")
	fl.StringVar(&f.neighborsOutput, "per-compound", "", "Table of every compound's nearest pairs")
	fl.BoolVar(&f.allOccurrences, "all-occurrences", false, "Emit one result row per compound that kept a pair")

	fl.IntVarP(&f.nearest, "nearest", "n", solvmatch.DefaultNearest, "Pairs kept per compound")
	fl.IntVarP(&f.maxResults, "max-results", "m", solvmatch.DefaultMaxResults, "Pairs kept overall")
	fl.IntVar(&f.workers, "workers", 0, "Compounds searched in parallel (default GOMAXPROCS)")
	fl.Float64Var(&f.weight, "dispersion-weight", 1, "Weight of the squared d_d difference (4 for the Hansen convention)")
	fl.Int64Var(&f.memoryLimit, "memory-limit", 0, "Candidate buffer budget in bytes (0 = unlimited)")
	fl.StringVar(&f.ratioPolicy, "ratio-policy", "skip", "What a ratio resolution failure does: skip or abort")
	fl.StringVar(&f.codec, "codec", "go-json", "JSON codec: json or go-json")
	fl.StringVar(&f.logFormat, "log-format", "text", "Log format: text or json")
	fl.StringVar(&f.logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	fl.StringVar(&f.metricsTextfile, "metrics-textfile", "", "Write Prometheus metrics to this file")

	_ = cmd.MarkFlagRequired("compounds")
	_ = cmd.MarkFlagRequired("solvents")
	return cmd
}

// applyFlags overrides cfg with every flag set on the command line.
func applyFlags(cmd *cobra.Command, cfg *Config, f *matchFlags) {
	fl := cmd.Flags()
	if fl.Changed("nearest") {
		cfg.Nearest = f.nearest
	}
	if fl.Changed("max-results") {
		cfg.MaxResults = f.maxResults
	}
	if fl.Changed("workers") {
		cfg.Workers = f.workers
	}
	if fl.Changed("dispersion-weight") {
		cfg.DispersionWeight = f.weight
	}
	if fl.Changed("memory-limit") {
		cfg.MemoryLimit = f.memoryLimit
	}
	if fl.Changed("ratio-policy") {
		cfg.RatioPolicy = f.ratioPolicy
	}
	if fl.Changed("codec") {
		cfg.Codec = f.codec
	}
	if fl.Changed("log-format") {
		cfg.Log.Format = f.logFormat
	}
	if fl.Changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if fl.Changed("metrics-textfile") {
		cfg.MetricsTextfile = f.metricsTextfile
	}
}

func runMatch(cmd *cobra.Command, root *rootOptions, f *matchFlags) error {
	cfg, err := LoadConfig(root.configPath)
	if err != nil {
		return asConfigError(err)
	}
	applyFlags(cmd, &cfg, f)
	if err := cfg.Validate(); err != nil {
		return asConfigError(err)
	}

	stdoutFormat, err := parseStdoutFormat(f.format)
	if err != nil {
		return asConfigError(err)
	}

	if f.compounds == stdinLocation && f.solvents == stdinLocation {
		return asConfigError(errors.New("only one of --compounds and --solvents can read stdin"))
	}

	policy, err := solvmatch.ParseRatioFailurePolicy(cfg.RatioPolicy)
	if err != nil {
		return asConfigError(err)
	}
	jsonCodec, ok := codec.ByName(cfg.Codec)
	if !ok {
		return asConfigError(fmt.Errorf("unknown codec %q", cfg.Codec))
	}
	logger := cfg.Logger(cmd.ErrOrStderr())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	in := tableInput{cfg: cfg, stdin: cmd.InOrStdin(), stdinFormat: f.stdinFormat}
	compounds, err := in.loadCompounds(ctx, f.compounds)
	if err != nil {
		return err
	}
	solvents, err := in.loadSolvents(ctx, f.solvents)
	if err != nil {
		return err
	}

	var collector solvmatch.MetricsCollector = solvmatch.NoopMetricsCollector{}
	var prom *promCollector
	if cfg.MetricsTextfile != "" {
		prom = newPromCollector()
		collector = prom
	}

	m, err := solvmatch.New(
		solvmatch.WithNearest(cfg.Nearest),
		solvmatch.WithMaxResults(cfg.MaxResults),
		solvmatch.WithWorkers(cfg.Workers),
		solvmatch.WithDispersionWeight(cfg.DispersionWeight),
		solvmatch.WithMemoryLimit(cfg.MemoryLimit),
		solvmatch.WithRatioFailurePolicy(policy),
		solvmatch.WithPerCompoundRows(f.allOccurrences),
		solvmatch.WithSolverOptions(func(o *blend.Options) {
			if cfg.Solver.Step > 0 {
				o.Step = cfg.Solver.Step
			}
			o.Tolerance = cfg.Solver.Tolerance
		}),
		solvmatch.WithMetricsCollector(collector),
		solvmatch.WithLogger(logger),
	)
	if err != nil {
		return asConfigError(err)
	}

	report, err := m.Match(ctx, compounds, solvents)
	if prom != nil {
		if werr := prom.WriteTextfile(cfg.MetricsTextfile); werr != nil {
			logger.Warn("writing metrics textfile failed", "path", cfg.MetricsTextfile, "error", werr)
		}
	}
	if err != nil {
		return err
	}

	writeOpts := []func(*table.WriteOptions){
		table.WithCodec(jsonCodec),
		table.WithZstdLevel(cfg.ZstdLevel),
	}

	if f.output == "" || f.output == "-" {
		if err := table.WriteResults(cmd.OutOrStdout(), stdoutFormat, report.Rows, writeOpts...); err != nil {
			return err
		}
	} else if err := saveTo(ctx, cfg, f.output, func(store blobstore.BlobStore, name string) error {
		return table.SaveResults(ctx, store, name, report.Rows, writeOpts...)
	}); err != nil {
		return err
	}

	if f.pairsOutput != "" {
		if err := saveTo(ctx, cfg, f.pairsOutput, func(store blobstore.BlobStore, name string) error {
			return table.SavePairs(ctx, store, name, report.Pairs, writeOpts...)
		}); err != nil {
			return err
		}
	}

	if f.neighborsOutput != "" {
		neighbors, err := table.Neighbors(report.PerCompound)
		if err != nil {
			return err
		}
		if err := saveTo(ctx, cfg, f.neighborsOutput, func(store blobstore.BlobStore, name string) error {
			return table.SaveNeighbors(ctx, store, name, neighbors, writeOpts...)
		}); err != nil {
			return err
		}
	}

	if n := len(report.Failures); n > 0 {
		logger.Warn("result rows skipped", "count", n, "first", report.Failures[0])
	}
	return nil
}

func parseStdoutFormat(s string) (table.Format, error) {
	switch s {
	case "csv", "":
		return table.FormatCSV, nil
	case "tsv":
		return table.FormatTSV, nil
	case "json":
		return table.FormatJSON, nil
	default:
		return 0, fmt.Errorf("unknown output format %q (want csv, tsv or json)", s)
	}
}

// tableInput resolves --compounds and --solvents to a store and blob name.
type tableInput struct {
	cfg         Config
	stdin       io.Reader
	stdinFormat string
}

func (in tableInput) open(ctx context.Context, uri string) (blobstore.BlobStore, string, error) {
	if uri == stdinLocation {
		return stdinStore(in.stdin, in.stdinFormat)
	}
	store, name, err := openStore(ctx, in.cfg, uri)
	if err != nil {
		return nil, "", asConfigError(err)
	}
	return store, name, nil
}

func (in tableInput) loadCompounds(ctx context.Context, uri string) ([]model.Compound, error) {
	store, name, err := in.open(ctx, uri)
	if err != nil {
		return nil, err
	}
	return table.LoadCompounds(ctx, store, name)
}

func (in tableInput) loadSolvents(ctx context.Context, uri string) ([]model.Solvent, error) {
	store, name, err := in.open(ctx, uri)
	if err != nil {
		return nil, err
	}
	return table.LoadSolvents(ctx, store, name)
}

func saveTo(ctx context.Context, cfg Config, uri string, save func(blobstore.BlobStore, string) error) error {
	store, name, err := openStore(ctx, cfg, uri)
	if err != nil {
		return asConfigError(err)
	}
	return save(store, name)
}
