package observability

import (
	"context"
	"testing"
	"time"

	"github.com/ajitpratap0/prism/pkg/errors"
)

func TestSpanBeforeInit(t *testing.T) {
	// The noop tracer must absorb spans opened before Init.
	ctx, sp := StartSpan(context.Background(), "early")
	if ctx == nil {
		t.Fatal("nil context from StartSpan")
	}
	sp.SetAttribute("rows", 10)
	sp.End()
}

func TestInitAndTrace(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ServiceName = "prism-test"
	cfg.PrettyPrint = false
	cfg.BatchTimeout = 100 * time.Millisecond

	if err := Init(cfg); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if Tracer() == nil {
		t.Fatal("nil tracer after Init")
	}

	ctx := context.Background()
	err := Trace(ctx, "load.csv", func(ctx context.Context) error {
		_, sp := StartSpan(ctx, "load.csv.infer")
		sp.SetAttribute("columns", 3)
		sp.SetAttribute("path", "test.csv")
		sp.SetAttribute("sampled", true)
		sp.End()
		return nil
	})
	if err != nil {
		t.Errorf("Trace returned %v for successful fn", err)
	}

	want := errors.New(errors.ErrorTypeFile, "boom")
	err = Trace(ctx, "load.csv", func(context.Context) error { return want })
	if err != want {
		t.Errorf("Trace swallowed error: got %v, want %v", err, want)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := Shutdown(shutdownCtx); err != nil {
		t.Errorf("Shutdown: %v", err)
	}
}
