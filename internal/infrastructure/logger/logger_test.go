package logger

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ecoloop/core/internal/infrastructure/config"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New(config.LoggerConfig{Level: "loud", Format: "json"}); err == nil {
		t.Fatal("expected error for unknown level")
	}
	l, err := New(config.LoggerConfig{Level: "debug", Format: "console"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !l.Desugar().Core().Enabled(zapcore.DebugLevel) {
		t.Fatal("debug level not enabled")
	}
}

func TestLogStoreOperation(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := FromZap(zap.New(core)).WithComponent("store")

	l.LogStoreOperation("save", "json", 1.5, nil)
	l.LogStoreOperation("save", "json", 2.5, errors.New("disk full"))

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("got %d entries", len(entries))
	}
	if entries[0].Level != zapcore.DebugLevel {
		t.Errorf("success logged at %v", entries[0].Level)
	}
	failed := entries[1]
	if failed.Level != zapcore.ErrorLevel {
		t.Errorf("failure logged at %v", failed.Level)
	}
	ctx := failed.ContextMap()
	if ctx["error"] != "disk full" || ctx["backend"] != "json" || ctx["component"] != "store" {
		t.Errorf("context=%v", ctx)
	}
}

func TestLogPayment(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := FromZap(zap.New(core))

	l.LogPayment("simulated", 10, "succeeded", nil)
	l.LogPayment("simulated", 10, "", errors.New("card declined"))

	if n := logs.FilterMessage("Payment processed").Len(); n != 1 {
		t.Errorf("processed entries=%d", n)
	}
	if n := logs.FilterMessage("Payment failed").FilterField(zap.String("error", "card declined")).Len(); n != 1 {
		t.Errorf("failed entries=%d", n)
	}
}

func TestLogHTTPRequestLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := FromZap(zap.New(core)).WithRequestID("req-1")

	l.LogHTTPRequest("GET", "/", "curl", "10.0.0.1", 200, 1.2)
	l.LogHTTPRequest("POST", "/api/recycle", "curl", "10.0.0.1", 400, 0.4)
	l.WithError(errors.New("store down")).LogHTTPRequest("GET", "/report/Acme", "curl", "10.0.0.1", 500, 3)

	entries := logs.All()
	if len(entries) != 3 {
		t.Fatalf("got %d entries", len(entries))
	}
	for i, want := range []zapcore.Level{zapcore.InfoLevel, zapcore.WarnLevel, zapcore.ErrorLevel} {
		if entries[i].Level != want {
			t.Errorf("entry %d level=%v, want %v", i, entries[i].Level, want)
		}
		if id := entries[i].ContextMap()["request_id"]; id != "req-1" {
			t.Errorf("entry %d request_id=%v", i, id)
		}
	}
	failed := entries[2].ContextMap()
	if failed["error"] != "store down" || failed["path"] != "/report/Acme" {
		t.Errorf("context=%v", failed)
	}
}
