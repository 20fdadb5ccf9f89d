// Command corpis imports spreadsheet files into the corporate information
// system database and exports its tables back to files.
//
//	corpis import --file employees.xlsx
//	corpis import --file ./data
//	corpis export --table сотрудники --output out/сотрудники.csv
//	corpis export --all --output out --format xlsx
//	corpis tables
//	corpis probe --file employees.csv
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/VikaRzyankina/CorpIS/internal/config"
	"github.com/VikaRzyankina/CorpIS/internal/etl"
	"github.com/VikaRzyankina/CorpIS/internal/metrics"
	"github.com/VikaRzyankina/CorpIS/internal/metrics/datadog"
	"github.com/VikaRzyankina/CorpIS/internal/metrics/prompush"
	"github.com/VikaRzyankina/CorpIS/internal/parser"
	pcsv "github.com/VikaRzyankina/CorpIS/internal/parser/csv"
	"github.com/VikaRzyankina/CorpIS/internal/storage"
	_ "github.com/VikaRzyankina/CorpIS/internal/storage/all"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// exitError carries the process exit code for err.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &exitError{code: code, err: err}
}

// errIncomplete marks a run that finished but lost rows, files or tables.
// Its details have already been printed.
var errIncomplete = errors.New("completed with failures")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return exitCode(root.ExecuteContext(ctx), stderr)
}

func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return exitOK
	}
	if errors.Is(err, errIncomplete) {
		return exitFailure
	}
	fmt.Fprintf(stderr, "\nОШИБКА: %v\n\n", err)
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitFailure
}

// app holds the global flags and the writers commands print to.
type app struct {
	cfgPath        string
	storageKind    string
	dsn            string
	metricsBackend string
	verbose        bool

	stdout io.Writer
	stderr io.Writer
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "corpis",
		Short:         "CLI для ETL процессов",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(*cobra.Command, []string) {
			log.SetOutput(a.stderr)
			if a.verbose {
				log.SetFlags(log.LstdFlags | log.Lmicroseconds)
			}
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return withCode(exitUsage, err)
	})

	f := root.PersistentFlags()
	f.StringVar(&a.cfgPath, "config", "", "JSON config file (optional)")
	f.StringVar(&a.storageKind, "storage-kind", "", "storage backend: "+strings.Join(storage.ListKinds(), ", "))
	f.StringVar(&a.dsn, "dsn", "", "storage connection string")
	f.StringVar(&a.metricsBackend, "metrics-backend", "", "metrics backend: none, prom, datadog")
	f.BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose logs")

	root.AddCommand(
		a.importCmd(),
		a.exportCmd(),
		a.tablesCmd(),
		a.probeCmd(),
	)
	return root
}

// config loads the effective configuration: file, environment, then flags.
func (a *app) config() (config.Config, error) {
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return cfg, err
	}
	if a.storageKind != "" {
		cfg.Storage.Kind = a.storageKind
	}
	if a.dsn != "" {
		cfg.Storage.DSN = a.dsn
	}
	if a.metricsBackend != "" {
		cfg.Metrics.Backend = a.metricsBackend
	}

	issues := config.Validate(cfg, storage.ListKinds())
	for _, iss := range issues {
		if iss.Severity == config.SeverityWarning && a.verbose {
			log.Printf("config: %v", iss)
		}
	}
	if errs := config.Errors(issues); len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return cfg, withCode(exitUsage, fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; ")))
	}
	return cfg, nil
}

// runner opens the configured store and returns a Runner over it. The
// returned close function flushes metrics and closes the store.
func (a *app) runner(ctx context.Context) (*etl.Runner, func(), error) {
	cfg, err := a.config()
	if err != nil {
		return nil, nil, err
	}
	flush := a.setupMetrics(cfg)

	if a.verbose {
		log.Printf("pipeline: storage=%s job=%s export_workers=%d", cfg.Storage.Kind, cfg.Job, cfg.Runtime.ExportWorkers)
	}
	s, err := storage.New(ctx, storage.Config{Kind: cfg.Storage.Kind, DSN: cfg.Storage.DSN})
	if err != nil {
		flush()
		return nil, nil, fmt.Errorf("open storage: %w", err)
	}
	if cfg.Storage.AutoCreateTables {
		if err := s.EnsureSchema(ctx); err != nil {
			s.Close()
			flush()
			return nil, nil, fmt.Errorf("create tables: %w", err)
		}
	}

	r := etl.New(s)
	r.Job = cfg.Job
	r.Files = readerOptions(cfg.Parser)
	if cfg.Runtime.ExportWorkers > 0 {
		r.ExportWorkers = cfg.Runtime.ExportWorkers
	}
	return r, func() {
		if err := s.Close(); err != nil {
			log.Printf("storage: close error: %v", err)
		}
		flush()
	}, nil
}

func readerOptions(p config.Parser) parser.Options {
	o := parser.DefaultOptions
	o.CSV = pcsv.Options{
		Comma:      p.Options.Rune("comma", 0),
		LazyQuotes: p.Options.Bool("lazy_quotes", o.CSV.LazyQuotes),
		NoBOM:      p.Options.Bool("no_bom", false),
	}
	o.HeaderMap = p.Options.StringMap("header_map")
	return o
}

// setupMetrics installs the configured metrics backend and returns its flush
// function. A backend that cannot start leaves metrics disabled.
func (a *app) setupMetrics(cfg config.Config) func() {
	var b metrics.Backend
	var err error

	switch strings.ToLower(cfg.Metrics.Backend) {
	case "", "none":
		if a.verbose {
			log.Printf("metrics: disabled")
		}
		return func() {}
	case "prom", "prometheus", "pushgateway":
		b, err = prompush.NewBackend(cfg.Job, cfg.Metrics.PushgatewayURL)
	case "datadog", "dogstatsd":
		b, err = datadog.NewBackend(datadog.Config{
			Addr:       cfg.Metrics.DatadogAddr,
			Namespace:  "corpis.",
			GlobalTags: []string{"job:" + cfg.Job},
		})
	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", cfg.Metrics.Backend)
		return func() {}
	}
	if err != nil {
		log.Printf("metrics: failed to init %s backend: %v; using nop", cfg.Metrics.Backend, err)
		return func() {}
	}

	log.Printf("metrics: backend=%s job=%s", cfg.Metrics.Backend, cfg.Job)
	metrics.SetBackend(b)
	return func() {
		if err := metrics.Flush(); err != nil {
			log.Printf("metrics: flush error: %v", err)
		}
	}
}
