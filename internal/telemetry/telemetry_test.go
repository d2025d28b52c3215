package telemetry

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/mohammad-safakhou/computesales/config"
	"github.com/mohammad-safakhou/computesales/internal/record"
)

func TestNewLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, "debug")
	log.Debug().Str("document", "a.json").Msg("document loaded")
	if !strings.Contains(buf.String(), "document loaded") {
		t.Fatalf("expected debug line, got %q", buf.String())
	}

	buf.Reset()
	log = NewLogger(&buf, "warn")
	log.Debug().Msg("hidden")
	log.Warn().Msg("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("unexpected output at warn level: %q", buf.String())
	}

	buf.Reset()
	log = NewLogger(&buf, "nonsense")
	log.Info().Msg("hidden")
	if buf.Len() != 0 {
		t.Fatalf("unknown level should fall back to warn, got %q", buf.String())
	}
}

func TestSetup_Disabled(t *testing.T) {
	tel, tracer, err := Setup(context.Background(), config.TelemetryConfig{ServiceName: "computesales"})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if tracer == nil {
		t.Fatalf("expected a tracer even when disabled")
	}
	_, span := tracer.Start(context.Background(), "noop")
	span.End()
	if err := tel.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
}

func TestMetrics_ObserveAndWrite(t *testing.T) {
	m := NewMetrics()
	m.ObserveDocument("catalog", record.Summary{Accepted: 3, Rejected: 1})
	m.ObserveDocument("sales", record.Summary{Malformed: true})
	m.DocumentFailed("sales", "not_found")
	m.ObserveTotal(1234.5, 2)

	if got := testutil.ToFloat64(m.records.WithLabelValues("catalog", "accepted")); got != 3 {
		t.Fatalf("expected 3 accepted, got %v", got)
	}
	if got := testutil.ToFloat64(m.records.WithLabelValues("catalog", "rejected")); got != 1 {
		t.Fatalf("expected 1 rejected, got %v", got)
	}
	if got := testutil.ToFloat64(m.documentsFailed.WithLabelValues("sales", "malformed")); got != 1 {
		t.Fatalf("expected malformed sales document, got %v", got)
	}
	if got := testutil.ToFloat64(m.joinMisses); got != 2 {
		t.Fatalf("expected 2 join misses, got %v", got)
	}

	path := filepath.Join(t.TempDir(), "computesales.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	for _, want := range []string{
		"computesales_total_sales 1234.5",
		`computesales_documents_failed_total{document="sales",reason="not_found"} 1`,
		"computesales_join_misses_total 2",
	} {
		if !strings.Contains(string(data), want) {
			t.Fatalf("textfile missing %q:\n%s", want, data)
		}
	}
}
