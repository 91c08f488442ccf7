// Package metrics exposes Prometheus collectors for prism. Sources record
// how many rows they load, table operations record latency, and the CLI
// records which subcommands run. Registration happens at init through
// promauto; consumers only touch the exported vectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RowsLoaded counts rows materialized into tables, labeled by the
	// source kind (csv, json, records, sql, postgres) and outcome.
	RowsLoaded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prism_rows_loaded_total",
			Help: "Total rows loaded into tables",
		},
		[]string{"source", "status"},
	)

	// TablesBuilt counts fully constructed tables per source kind.
	TablesBuilt = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prism_tables_built_total",
			Help: "Total tables constructed",
		},
		[]string{"source"},
	)

	// OperationLatency tracks table operation latency in nanoseconds.
	// Buckets run from in-memory cell work up to multi-second loads.
	OperationLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "prism_operation_latency_nanoseconds",
			Help: "Table operation latency in nanoseconds",
			Buckets: []float64{
				1000, // 1μs single-cell access
				10000,
				100000,
				1e6, // 1ms small-table scans
				1e7,
				1e8,
				1e9, // 1s bulk loads
				1e10,
			},
		},
		[]string{"operation"},
	)

	// TableMemory reports the estimated heap footprint of the most
	// recently loaded table, labeled by the holding component.
	TableMemory = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "prism_table_memory_bytes",
			Help: "Estimated table memory usage in bytes",
		},
		[]string{"component"},
	)

	// ActiveQueries tracks in-flight database queries feeding tables.
	ActiveQueries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "prism_active_queries",
			Help: "Number of in-flight database queries",
		},
		[]string{"driver"},
	)

	// CommandRuns counts CLI subcommand invocations by outcome.
	CommandRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prism_command_runs_total",
			Help: "Total CLI command invocations",
		},
		[]string{"command", "status"},
	)
)

// Timer measures one operation and reports it to OperationLatency.
type Timer struct {
	start     time.Time
	operation string
}

// NewTimer starts timing the named operation.
func NewTimer(operation string) *Timer {
	return &Timer{start: time.Now(), operation: operation}
}

// Stop records the elapsed time under the timer's operation label and
// returns it. Stop may be called more than once; every call observes the
// total elapsed time since creation.
func (t *Timer) Stop() time.Duration {
	d := time.Since(t.start)
	OperationLatency.WithLabelValues(t.operation).Observe(float64(d.Nanoseconds()))
	return d
}

// ObserveRows is the common bookkeeping after a source finishes: it bumps
// RowsLoaded and TablesBuilt for the source kind.
func ObserveRows(source string, rows int, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	RowsLoaded.WithLabelValues(source, status).Add(float64(rows))
	if err == nil {
		TablesBuilt.WithLabelValues(source).Inc()
	}
}
