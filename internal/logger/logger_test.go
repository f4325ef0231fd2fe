package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevels(t *testing.T) {
	tests := []struct {
		name      string
		level     Level
		wantDebug bool
		wantInfo  bool
	}{
		{"off", LevelOff, false, false},
		{"normal", LevelNormal, false, true},
		{"verbose", LevelVerbose, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := New(tt.level, &buf)
			log.Debug("debug %d", 1)
			log.Info("info %d", 2)

			out := buf.String()
			if got := strings.Contains(out, "debug 1"); got != tt.wantDebug {
				t.Errorf("debug visible = %v, want %v (out=%q)", got, tt.wantDebug, out)
			}
			if got := strings.Contains(out, "info 2"); got != tt.wantInfo {
				t.Errorf("info visible = %v, want %v (out=%q)", got, tt.wantInfo, out)
			}
		})
	}
}

func TestSetLevelAndWith(t *testing.T) {
	var buf bytes.Buffer
	log := NewJSON(LevelOff, &buf)
	log.Error("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected no output at LevelOff, got %q", buf.String())
	}

	log.SetLevel(LevelNormal)
	if log.GetLevel() != LevelNormal {
		t.Fatalf("expected LevelNormal, got %d", log.GetLevel())
	}
	log.With("session", "abc").Warn("cart empty")

	out := buf.String()
	if !strings.Contains(out, `"session":"abc"`) || !strings.Contains(out, "cart empty") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	if ParseLevel("debug") != LevelVerbose {
		t.Error("debug should map to verbose")
	}
	if ParseLevel("off") != LevelOff {
		t.Error("off should map to off")
	}
	if ParseLevel("whatever") != LevelNormal {
		t.Error("unknown should map to normal")
	}
}
