package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/YuminosukeSato/arraylab/pkg/errors"
)

func TestTestLoggerLevelsAndFields(t *testing.T) {
	testLogger, buffer := NewTestLogger(LevelDebug)

	testLogger.Debug("debug message", "key1", "value1", "number", 42)
	testLogger.Info("info message", OperationKey, OperationFit)
	testLogger.Warn("warning message")
	testLogger.Error("error message", fmt.Errorf("boom"), ErrorCodeKey, ErrorNotFitted)

	if buffer.Len() == 0 {
		t.Fatal("Expected log output, got empty string")
	}
	for _, msg := range []string{"debug message", "info message", "warning message", "error message"} {
		if !testLogger.ContainsMessage(msg) {
			t.Errorf("%q not found in output", msg)
		}
	}
	if !testLogger.ContainsField("number", 42.0) {
		t.Error("Expected field number=42 not found")
	}
	if !testLogger.ContainsField(ErrAttrKey, "boom") {
		t.Error("leading error should be attached under the error key")
	}
	if !testLogger.ContainsField(ErrorCodeKey, ErrorNotFitted) {
		t.Error("error code field not found")
	}
}

func TestTestLoggerWith(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelInfo)

	child := testLogger.With(ModelNameKey, "GridSearchCV", RunIDKey, "run-1")
	child.Info("search started", CandidatesKey, 9)

	entries, err := testLogger.GetLogEntries()
	if err != nil {
		t.Fatalf("Failed to parse log entries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 log entry, got %d", len(entries))
	}
	want := map[string]interface{}{
		ModelNameKey:  "GridSearchCV",
		RunIDKey:      "run-1",
		CandidatesKey: 9.0,
		"level":       "INFO",
	}
	for k, v := range want {
		if entries[0][k] != v {
			t.Errorf("field %s = %v, want %v", k, entries[0][k], v)
		}
	}
}

func TestTestLoggerEnabled(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelInfo)
	ctx := context.Background()

	if !testLogger.Enabled(ctx, LevelInfo) || !testLogger.Enabled(ctx, LevelError) {
		t.Error("Logger should be enabled for Info and Error")
	}
	if testLogger.Enabled(ctx, LevelDebug) {
		t.Error("Logger should not be enabled for Debug level")
	}

	testLogger.Debug("hidden")
	testLogger.Info("shown")
	if testLogger.ContainsMessage("hidden") {
		t.Error("Debug message should not appear when level is Info")
	}
	if testLogger.CountMessage("shown") != 1 {
		t.Error("Info message should appear once")
	}
}

func TestTestLoggerConcurrent(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelInfo)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 5; j++ {
				testLogger.With(FoldKey, id).Info("fold scored", ScoreKey, j)
			}
		}(i)
	}
	wg.Wait()

	if got := testLogger.CountMessage("fold scored"); got != 20 {
		t.Errorf("expected 20 entries, got %d", got)
	}
}

func TestZerologLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, LevelInfo)

	logger.Debug("hidden")
	logger.With(ModelNameKey, "Ridge").Info("fitted", SamplesKey, 10)
	logger.Error("failed", errors.NewNotFittedError("Ridge", "Predict"), OperationKey, OperationPredict)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %s", len(lines), buf.String())
	}

	var info map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &info); err != nil {
		t.Fatal(err)
	}
	if info[ModelNameKey] != "Ridge" || info[SamplesKey] != 10.0 || info["message"] != "fitted" {
		t.Errorf("unexpected info record: %v", info)
	}

	var errRec map[string]interface{}
	if err := json.Unmarshal([]byte(lines[1]), &errRec); err != nil {
		t.Fatal(err)
	}
	if errRec["level"] != "error" {
		t.Errorf("level = %v", errRec["level"])
	}
	detail, ok := errRec["detail"].(map[string]interface{})
	if !ok || detail["type"] != "NotFittedError" {
		t.Errorf("expected structured error detail, got %v", errRec["detail"])
	}

	ctx := context.Background()
	if logger.Enabled(ctx, LevelDebug) {
		t.Error("debug should be disabled")
	}
	if !logger.Enabled(ctx, LevelWarn) {
		t.Error("warn should be enabled")
	}
}

func TestFromZerologKeepsContext(t *testing.T) {
	var buf bytes.Buffer
	zl := zerolog.New(&buf).Level(zerolog.InfoLevel).With().Str("service", "search").Logger()
	logger := FromZerolog(zl)

	if logger.Enabled(context.Background(), LevelDebug) {
		t.Error("debug should be disabled at info level")
	}
	logger.Info("started", RunIDKey, "abc")

	var rec map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatal(err)
	}
	if rec["service"] != "search" || rec[RunIDKey] != "abc" {
		t.Errorf("unexpected record: %v", rec)
	}
}

func TestZerologProvider(t *testing.T) {
	var buf bytes.Buffer
	provider := NewZerologProvider(&buf, LevelWarn)

	provider.GetLogger().Info("dropped")
	provider.SetLevel(LevelDebug)
	provider.GetLoggerWithName("model_selection").Debug("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Error("info record should be filtered at warn level")
	}
	if !strings.Contains(out, `"ml.component":"model_selection"`) {
		t.Errorf("component field missing: %s", out)
	}
}

func TestDefaultProviderSwap(t *testing.T) {
	provider, buf := NewTestLoggerProvider(LevelInfo)
	SetProvider(provider)
	defer SetProvider(NewZerologProvider(&bytes.Buffer{}, LevelWarn))

	GetLoggerWithName("array").Info("indexed", IndexKindKey, "mask")

	if !strings.Contains(buf.String(), `"index.kind":"mask"`) {
		t.Errorf("expected record through default provider, got %s", buf.String())
	}
}

func TestRouteWarnings(t *testing.T) {
	var buf bytes.Buffer
	RouteWarnings(NewZerologLogger(&buf, LevelDebug))
	defer errors.SetZerologWarnFunc(nil)

	errors.Warn(errors.NewConvergenceWarning("LogisticRegression", 5, ""))

	if !strings.Contains(buf.String(), `"type":"ConvergenceWarning"`) {
		t.Errorf("warning not routed: %s", buf.String())
	}
}

func TestToLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"info", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ToLogLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrFmtHandlerAddsStacktrace(t *testing.T) {
	var buf bytes.Buffer
	handler := WrapByErrFmtHandler(slog.NewJSONHandler(&buf, nil))
	logger := slog.New(handler)

	logger.Error("index failed", ErrAttr(errors.NewIndexError("Array.Take", 9, 0, 3)))

	var rec map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatal(err)
	}
	st, _ := rec[StacktraceAttrKey].(string)
	if st == "" {
		t.Errorf("expected stacktrace attribute, got %v", rec)
	}
}

func TestLevelString(t *testing.T) {
	if LevelWarn.String() != "WARN" || Level(99).String() != "UNKNOWN" {
		t.Error("unexpected level names")
	}
}
