package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/prism/pkg/arrowio"
	"github.com/ajitpratap0/prism/pkg/compress"
	"github.com/ajitpratap0/prism/pkg/config"
	"github.com/ajitpratap0/prism/pkg/errors"
	"github.com/ajitpratap0/prism/pkg/logger"
	"github.com/ajitpratap0/prism/pkg/metrics"
	"github.com/ajitpratap0/prism/pkg/observability"
	"github.com/ajitpratap0/prism/pkg/render"
	"github.com/ajitpratap0/prism/pkg/source"
	"github.com/ajitpratap0/prism/pkg/table"

	// Register the MySQL driver for --from sql
	_ "github.com/go-sql-driver/mysql"
)

var version = "0.1.0"

const databaseTimeout = 5 * time.Minute

// opts holds the effective configuration; setup replaces it when --config
// names a file.
var opts = config.NewOptions()

var tracingUp bool

// inputFlags are the source selection flags shared by the table-reading
// commands. For file formats input is a path; for sql and postgres it is
// the query text and --dsn locates the database.
type inputFlags struct {
	input  string
	from   string
	dsn    string
	driver string
}

func (f *inputFlags) install(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.input, "input", "i", "", "Input file path, or query text for database sources (required)")
	cmd.Flags().StringVar(&f.from, "from", "", "Input format override: csv, json, arrow, sql, postgres (default: by extension)")
	cmd.Flags().StringVar(&f.dsn, "dsn", "", "Database connection string for sql and postgres sources")
	cmd.Flags().StringVar(&f.driver, "driver", "mysql", "database/sql driver name for --from sql")
	_ = cmd.MarkFlagRequired("input")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	var configFile, logLevel string
	var enableTrace bool

	root := &cobra.Command{
		Use:   "prism",
		Short: "Prism - columnar in-memory table engine",
		Long: `Prism loads tabular data from CSV, JSON, Arrow IPC, and SQL databases into
typed in-memory columns, and prints, exports, concatenates, and de-duplicates it.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(configFile, logLevel, enableTrace)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			teardown()
		},
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "Path to YAML configuration file (optional)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&enableTrace, "trace", false, "Emit stdout spans for loads and queries")

	// Version command
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Prism v%s\n", version)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	// Schema command
	var schemaIn inputFlags
	schemaCmd := &cobra.Command{
		Use:   "schema",
		Short: "Print name, element type, and missing-cell count per column",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run("schema", func() error {
				tbl, err := loadTable(schemaIn)
				if err != nil {
					return err
				}
				schema, err := render.SchemaTable(tbl)
				if err != nil {
					return err
				}
				ropts := render.FromConfig(opts)
				ropts.MaxRows = 0
				fmt.Print(render.Format(schema, ropts))
				return nil
			})
		},
	}
	schemaIn.install(schemaCmd)
	root.AddCommand(schemaCmd)

	// Head command
	var headIn inputFlags
	var headRows int
	headCmd := &cobra.Command{
		Use:   "head",
		Short: "Print the first rows of a table",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run("head", func() error {
				tbl, err := loadTable(headIn)
				if err != nil {
					return err
				}
				head, err := render.Head(tbl, headRows)
				if err != nil {
					return err
				}
				ropts := render.FromConfig(opts)
				ropts.MaxRows = 0
				fmt.Print(render.Format(head, ropts))
				return nil
			})
		},
	}
	headIn.install(headCmd)
	headCmd.Flags().IntVarP(&headRows, "rows", "n", 10, "Number of rows to print")
	root.AddCommand(headCmd)

	// Vertical concatenation
	var vconcatOut string
	vconcatCmd := &cobra.Command{
		Use:   "vconcat <file>...",
		Short: "Stack tables by rows, unioning columns by name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run("vconcat", func() error {
				tables, err := loadFiles(args)
				if err != nil {
					return err
				}
				out, err := table.VConcat(tables...)
				if err != nil {
					return err
				}
				return writeTable(vconcatOut, out)
			})
		},
	}
	vconcatCmd.Flags().StringVarP(&vconcatOut, "output", "o", "", "Output path: .csv, .json, .jsonl, .arrow (default: print)")
	root.AddCommand(vconcatCmd)

	// Horizontal concatenation
	var hconcatOut string
	hconcatCmd := &cobra.Command{
		Use:   "hconcat <file>...",
		Short: "Join tables side by side, suffixing colliding column names",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run("hconcat", func() error {
				tables, err := loadFiles(args)
				if err != nil {
					return err
				}
				out, err := table.HConcat(tables...)
				if err != nil {
					return err
				}
				return writeTable(hconcatOut, out)
			})
		},
	}
	hconcatCmd.Flags().StringVarP(&hconcatOut, "output", "o", "", "Output path: .csv, .json, .jsonl, .arrow (default: print)")
	root.AddCommand(hconcatCmd)

	// Dedup command
	var dedupIn inputFlags
	var dedupDrop bool
	var dedupOut string
	dedupCmd := &cobra.Command{
		Use:   "dedup",
		Short: "Report duplicate rows, or drop them with --drop",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run("dedup", func() error {
				tbl, err := loadTable(dedupIn)
				if err != nil {
					return err
				}
				flags := table.DuplicateRows(tbl)
				if !dedupDrop {
					for i, dup := range flags {
						if dup {
							fmt.Println(i)
						}
					}
					return nil
				}
				keep := make([]bool, len(flags))
				for i, dup := range flags {
					keep[i] = !dup
				}
				out, err := tbl.Sub(table.RowMask(keep), table.AllColumns())
				if err != nil {
					return err
				}
				return writeTable(dedupOut, out)
			})
		},
	}
	dedupIn.install(dedupCmd)
	dedupCmd.Flags().BoolVar(&dedupDrop, "drop", false, "Write the table with duplicate rows removed instead of listing them")
	dedupCmd.Flags().StringVarP(&dedupOut, "output", "o", "", "Output path for --drop (default: print)")
	root.AddCommand(dedupCmd)

	err := root.Execute()
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads configuration and initializes logging and tracing before any
// command body runs.
func setup(configFile, logLevel string, enableTrace bool) error {
	if configFile != "" {
		loaded, err := config.LoadOptions(configFile)
		if err != nil {
			return err
		}
		opts = loaded
	}
	if logLevel == "" {
		logLevel = opts.Observability.LogLevel
	}
	if err := logger.Init(logger.Config{Level: logLevel, Encoding: "console"}); err != nil {
		return err
	}
	if enableTrace || opts.Observability.EnableTracing {
		tcfg := observability.DefaultConfig()
		tcfg.ServiceVersion = version
		if err := observability.Init(tcfg); err != nil {
			return err
		}
		tracingUp = true
	}
	return nil
}

func teardown() {
	if !tracingUp {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := observability.Shutdown(ctx); err != nil {
		logger.Get().Warn("failed to shut down tracing", zap.Error(err))
	}
}

// run wraps a command body with the command counter and a timing log line.
func run(command string, fn func() error) error {
	start := time.Now()
	err := fn()
	status := "success"
	if err != nil {
		status = "failure"
	}
	metrics.CommandRuns.WithLabelValues(command, status).Inc()
	logger.Get().Debug("command finished",
		zap.String("command", command),
		zap.String("status", status),
		zap.Duration("elapsed", time.Since(start)))
	return err
}

// detectFormat resolves the input format from the override flag or the file
// extension, looking through compression suffixes.
func detectFormat(input, from string) (string, error) {
	if from != "" {
		return strings.ToLower(from), nil
	}
	switch strings.ToLower(filepath.Ext(compress.BasePath(input))) {
	case ".csv":
		return "csv", nil
	case ".json", ".jsonl", ".ndjson":
		return "json", nil
	case ".arrow":
		return "arrow", nil
	}
	return "", errors.New(errors.ErrorTypeConfig, "cannot infer input format from extension; pass --from").
		WithDetail("input", input)
}

func loadTable(in inputFlags) (*table.Table, error) {
	tbl, err := readTable(in)
	if err != nil {
		return nil, err
	}
	metrics.TableMemory.WithLabelValues("cli").Set(float64(tbl.MemoryUsage()))
	return tbl, nil
}

func readTable(in inputFlags) (*table.Table, error) {
	format, err := detectFormat(in.input, in.from)
	if err != nil {
		return nil, err
	}

	switch format {
	case "csv":
		return source.ReadCSV(source.CSVOptions{
			Path:      in.input,
			HasHeader: opts.Source.HasHeader,
			Delimiter: opts.Source.DelimiterRune(),
			NAValues:  opts.Source.NAValues,
			Config:    opts,
		})

	case "json":
		jopts := source.NewJSONOptions(in.input)
		jopts.Config = opts
		return source.ReadJSON(jopts)

	case "arrow":
		return arrowio.ReadIPCFile(in.input)

	case "sql":
		if in.dsn == "" {
			return nil, errors.New(errors.ErrorTypeConfig, "sql source needs --dsn")
		}
		db, err := sql.Open(in.driver, in.dsn)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeConnection, "failed to open database").
				WithDetail("driver", in.driver)
		}
		defer db.Close()
		rows, err := db.Query(in.input)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeQuery, "query failed")
		}
		defer rows.Close()
		return source.FromSQLRowsWithConfig(opts, rows)

	case "postgres":
		if in.dsn == "" {
			return nil, errors.New(errors.ErrorTypeConfig, "postgres source needs --dsn")
		}
		ctx, cancel := context.WithTimeout(context.Background(), databaseTimeout)
		defer cancel()
		conn, err := pgx.Connect(ctx, in.dsn)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeConnection, "failed to connect to postgres")
		}
		defer conn.Close(ctx)
		return source.QueryTableWithConfig(ctx, opts, conn, in.input)
	}
	return nil, errors.Newf(errors.ErrorTypeConfig, "unknown input format %q", format)
}

// loadFiles reads each path by its extension. Database sources make no
// sense for the multi-input commands.
func loadFiles(paths []string) ([]*table.Table, error) {
	tables := make([]*table.Table, 0, len(paths))
	for _, path := range paths {
		tbl, err := loadTable(inputFlags{input: path})
		if err != nil {
			return nil, err
		}
		tables = append(tables, tbl)
	}
	return tables, nil
}

func writeTable(path string, t *table.Table) error {
	if path == "" {
		fmt.Print(render.Format(t, render.FromConfig(opts)))
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to create output file").
			WithDetail("path", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		err = render.WriteCSV(f, t)
	case ".json":
		err = render.WriteJSON(f, t, false)
	case ".jsonl", ".ndjson":
		err = render.WriteJSON(f, t, true)
	case ".arrow":
		err = arrowio.WriteIPC(f, t)
	default:
		err = errors.Newf(errors.ErrorTypeConfig, "unsupported output extension %q", filepath.Ext(path))
	}
	if err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to close output file").
			WithDetail("path", path)
	}
	logger.Get().Info("table written",
		zap.String("path", path),
		zap.Int("rows", t.RowCount()),
		zap.Int("columns", t.ColumnCount()))
	return nil
}
