package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.opentelemetry.io/otel/trace"
)

func TestClassifyDBErr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"unique", &pgconn.PgError{Code: "23505"}, "unique_violation"},
		{"wrapped unique", fmt.Errorf("insert user: %w", &pgconn.PgError{Code: "23505"}), "unique_violation"},
		{"other pg", &pgconn.PgError{Code: "42P01"}, "pg_42P01"},
		{"timeout", context.DeadlineExceeded, "timeout"},
		{"connection", errors.New("failed to connect to host"), "connection"},
		{"unknown", errors.New("boom"), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyDBErr(tt.err); got != tt.want {
				t.Fatalf("ClassifyDBErr() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestObserveDBCountsErrors(t *testing.T) {
	p := NewProm(NewRegistry())

	_ = p.ObserveDB("users.create", func() error { return &pgconn.PgError{Code: "23505"} })
	_ = p.ObserveDB("users.create", func() error { return nil })

	if got := testutil.ToFloat64(p.DbErrorsTotal.WithLabelValues("users.create", "unique_violation")); got != 1 {
		t.Fatalf("errors_total = %v, want 1", got)
	}

	var nilProm *Prom
	called := false
	_ = nilProm.ObserveDB("noop", func() error { called = true; return nil })
	if !called {
		t.Fatal("nil Prom must still run fn")
	}
}

func TestLoggerAddsServiceAndTraceIDs(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, "user-service", "prod", "info")

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID, TraceFlags: trace.FlagsSampled})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	log.InfoContext(ctx, "hello")
	log.Debug("hidden")

	var rec map[string]any
	if err := json.Unmarshal(bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))[0], &rec); err != nil {
		t.Fatalf("decode log line: %v", err)
	}

	if rec["service"] != "user-service" {
		t.Fatalf("service = %v", rec["service"])
	}
	if rec["trace_id"] != traceID.String() {
		t.Fatalf("trace_id = %v", rec["trace_id"])
	}
	if bytes.Count(buf.Bytes(), []byte("\n")) != 1 {
		t.Fatalf("debug record should be filtered at info level: %s", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	if parseLevel("dev", "error") != slog.LevelDebug {
		t.Fatal("dev env should force debug")
	}
	if parseLevel("prod", "WARN") != slog.LevelWarn {
		t.Fatal("warn not parsed")
	}
	if parseLevel("prod", "") != slog.LevelInfo {
		t.Fatal("default should be info")
	}
}

func TestCacheAndNotificationCounters(t *testing.T) {
	p := NewProm(NewRegistry())

	p.ObserveCache("product", "hit")
	p.ObserveCache("product", "hit")
	p.ObserveNotification("welcome", "sent")

	if got := testutil.ToFloat64(p.CacheOpsTotal.WithLabelValues("product", "hit")); got != 2 {
		t.Fatalf("cache hits = %v, want 2", got)
	}
	if got := testutil.ToFloat64(p.NotificationsTotal.WithLabelValues("welcome", "sent")); got != 1 {
		t.Fatalf("notifications sent = %v, want 1", got)
	}
}
