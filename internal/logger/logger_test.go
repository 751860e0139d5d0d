package logger

import (
	"bytes"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestToZapLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		DebugLevel: zapcore.DebugLevel,
		InfoLevel:  zapcore.InfoLevel,
		WarnLevel:  zapcore.WarnLevel,
		ErrorLevel: zapcore.ErrorLevel,
		"WARN":     zapcore.WarnLevel,
		"verbose":  defaultZapLevel,
		"":         defaultZapLevel,
	}
	for in, want := range cases {
		if got := toZapLevel(in); got != want {
			t.Fatalf("toZapLevel(%q)=%v, want %v", in, got, want)
		}
	}
}

func TestGet_Singleton(t *testing.T) {
	a := Get(ErrorLevel)
	b := Get(DebugLevel)
	if a == nil || a != b {
		t.Fatalf("Get should return one shared logger")
	}
	if a.Desugar().Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("later calls must not change the level")
	}
}

func TestNew_Independent(t *testing.T) {
	l := New(WarnLevel)
	if l == Get(InfoLevel) {
		t.Fatalf("New must not return the shared logger")
	}
	if l.Desugar().Core().Enabled(zapcore.InfoLevel) || !l.Desugar().Core().Enabled(zapcore.WarnLevel) {
		t.Fatalf("level not applied")
	}
}

func TestCore_WritesKeyValues(t *testing.T) {
	var buf bytes.Buffer
	l := fromCore(newCore(zapcore.InfoLevel, zapcore.AddSync(&buf)))
	l.Debugw("hidden")
	l.Warnw("reading_out_of_range", "value", 7.5)
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug line written at info level: %q", out)
	}
	if !strings.Contains(out, "WARN") || !strings.Contains(out, "reading_out_of_range") || !strings.Contains(out, `"value": 7.5`) {
		t.Fatalf("unexpected output: %q", out)
	}
}
