// Profiling harness for the core table pipeline. It loops a fixed
// workload (CSV round trip, duplicate scan, concatenation, rendering)
// under pprof so hot paths show up with realistic shapes.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/ajitpratap0/prism/pkg/render"
	"github.com/ajitpratap0/prism/pkg/source"
	"github.com/ajitpratap0/prism/pkg/table"
)

func main() {
	var (
		duration     = flag.Duration("duration", 30*time.Second, "Profiling duration")
		rows         = flag.Int("rows", 100000, "Rows in the synthetic table")
		input        = flag.String("input", "", "Profile against this CSV file instead of synthetic data")
		outputDir    = flag.String("output", "./profiles", "Output directory for profiles")
		profileTypes = flag.String("types", "cpu,memory", "Profile types (cpu,memory,block,mutex,goroutine,all)")
		cpuFile      = flag.String("cpuprofile", "", "Write CPU profile to file")
		memFile      = flag.String("memprofile", "", "Write memory profile to file")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -types cpu -duration 30s -rows 500000\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -input big.csv -cpuprofile cpu.prof -memprofile mem.prof\n", os.Args[0])
	}

	flag.Parse()

	types := parseProfileTypes(*profileTypes)

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	tbl, err := workloadTable(*input, *rows)
	if err != nil {
		log.Fatalf("Failed to build workload table: %v", err)
	}
	fmt.Printf("Workload table: %d rows, %d columns\n", tbl.RowCount(), tbl.ColumnCount())
	fmt.Printf("Duration: %v\n", *duration)

	if *cpuFile != "" || contains(types, "cpu") {
		cpuProfileFile := *cpuFile
		if cpuProfileFile == "" {
			cpuProfileFile = fmt.Sprintf("%s/cpu.prof", *outputDir)
		}

		f, err := os.Create(cpuProfileFile)
		if err != nil {
			log.Fatalf("Failed to create CPU profile: %v", err)
		}
		defer f.Close()

		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatalf("Failed to start CPU profile: %v", err)
		}
		defer pprof.StopCPUProfile()

		fmt.Printf("CPU profiling enabled, writing to: %s\n", cpuProfileFile)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	passes := runWorkload(ctx, tbl)
	fmt.Printf("Completed %d workload passes\n", passes)

	if *memFile != "" || contains(types, "memory") {
		memProfileFile := *memFile
		if memProfileFile == "" {
			memProfileFile = fmt.Sprintf("%s/mem.prof", *outputDir)
		}

		f, err := os.Create(memProfileFile)
		if err != nil {
			log.Fatalf("Failed to create memory profile: %v", err)
		}
		defer f.Close()

		runtime.GC() // Get up-to-date statistics
		if err := pprof.WriteHeapProfile(f); err != nil {
			log.Fatalf("Failed to write memory profile: %v", err)
		}

		fmt.Printf("Memory profile written to: %s\n", memProfileFile)
	}

	for _, profileType := range types {
		switch profileType {
		case "block":
			writeProfile("block", fmt.Sprintf("%s/block.prof", *outputDir))
		case "mutex":
			writeProfile("mutex", fmt.Sprintf("%s/mutex.prof", *outputDir))
		case "goroutine":
			writeProfile("goroutine", fmt.Sprintf("%s/goroutine.prof", *outputDir))
		}
	}

	fmt.Printf("Profiling completed\n")
}

// workloadTable loads the input CSV when given, otherwise synthesizes a
// table whose rows repeat so the duplicate scan has real work to do.
func workloadTable(input string, rows int) (*table.Table, error) {
	if input != "" {
		return source.LoadCSV(input)
	}

	cycle := rows/4 + 1
	ids := make([]interface{}, rows)
	names := make([]interface{}, rows)
	scores := make([]interface{}, rows)
	for i := 0; i < rows; i++ {
		k := i % cycle
		ids[i] = int64(k)
		if k%7 == 0 {
			names[i] = nil
		} else {
			names[i] = fmt.Sprintf("name-%d", k)
		}
		if k%11 == 0 {
			scores[i] = nil
		} else {
			scores[i] = float64(k) / 16.0
		}
	}
	return table.FromCols(
		table.Col{Name: "id", Values: ids},
		table.Col{Name: "name", Values: names},
		table.Col{Name: "score", Values: scores},
	)
}

// runWorkload loops the pipeline until the context expires and returns
// the number of completed passes.
func runWorkload(ctx context.Context, tbl *table.Table) int {
	var csvBuf bytes.Buffer
	passes := 0
	for {
		select {
		case <-ctx.Done():
			return passes
		default:
		}

		if err := runPass(tbl, &csvBuf); err != nil {
			log.Fatalf("Workload pass failed: %v", err)
		}
		passes++
	}
}

// runPass drives one serialize, parse, dedup, concat, render cycle.
func runPass(tbl *table.Table, csvBuf *bytes.Buffer) error {
	csvBuf.Reset()
	if err := render.WriteCSV(csvBuf, tbl); err != nil {
		return err
	}

	opts := source.NewCSVOptions("")
	opts.Reader = bytes.NewReader(csvBuf.Bytes())
	parsed, err := source.ReadCSV(opts)
	if err != nil {
		return err
	}

	dups := table.DuplicateRows(parsed)
	keep := make([]bool, len(dups))
	for i, d := range dups {
		keep[i] = !d
	}
	deduped, err := parsed.Sub(table.RowMask(keep), table.AllColumns())
	if err != nil {
		return err
	}

	both, err := table.VConcat(parsed, deduped)
	if err != nil {
		return err
	}

	_ = render.Format(both, render.Options{MaxRows: 5, MaxCellWidth: 32, NAText: "NA", ShowTypes: true})
	return nil
}

// writeProfile writes a named runtime profile to file.
func writeProfile(profileName, filename string) {
	profile := pprof.Lookup(profileName)
	if profile == nil {
		fmt.Printf("Profile %s not found\n", profileName)
		return
	}

	f, err := os.Create(filename)
	if err != nil {
		log.Printf("Failed to create %s profile: %v", profileName, err)
		return
	}
	defer f.Close()

	if err := profile.WriteTo(f, 0); err != nil {
		log.Printf("Failed to write %s profile: %v", profileName, err)
		return
	}

	fmt.Printf("%s profile written to: %s\n", profileName, filename)
}

// parseProfileTypes parses the profile types string.
func parseProfileTypes(typesStr string) []string {
	if typesStr == "all" {
		return []string{"cpu", "memory", "block", "mutex", "goroutine"}
	}

	parts := strings.Split(typesStr, ",")
	types := make([]string, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		switch part {
		case "cpu", "memory", "mem", "block", "mutex", "goroutine":
			if part == "mem" {
				part = "memory"
			}
			types = append(types, part)
		}
	}

	return types
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
