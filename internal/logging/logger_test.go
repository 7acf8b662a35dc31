// Roomrec - Hotel Room Product Recommendation Engine
// Copyright 2026 Javi Nobile (javinobile)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/javinobile/Gauvendi-sub009

package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestInit_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Output: &buf, Timestamp: true})
	defer Init(DefaultConfig())

	Info().Str("flow", "direct").Msg("flow done")

	out := buf.String()
	if !strings.Contains(out, `"flow":"direct"`) {
		t.Errorf("output missing structured field: %s", out)
	}
	if !strings.Contains(out, `"message":"flow done"`) {
		t.Errorf("output missing message: %s", out)
	}
	if !strings.Contains(out, `"time"`) {
		t.Errorf("output missing timestamp: %s", out)
	}
}

func TestInit_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "warn", Format: "json", Output: &buf})
	defer Init(DefaultConfig())

	Debug().Msg("too quiet")
	Info().Msg("still too quiet")
	Warn().Msg("loud enough")

	out := buf.String()
	if strings.Contains(out, "too quiet") {
		t.Errorf("suppressed levels leaked: %s", out)
	}
	if !strings.Contains(out, "loud enough") {
		t.Errorf("warn message missing: %s", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"panic", zerolog.PanicLevel},
		{"disabled", zerolog.Disabled},
		{"WARN", zerolog.WarnLevel},
		{"bogus", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestWith_ChildLogger(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "info", Format: "json", Output: &buf})
	defer Init(DefaultConfig())

	child := With().Str("component", "engine").Logger()
	child.Info().Msg("ready")

	if !strings.Contains(buf.String(), `"component":"engine"`) {
		t.Errorf("child logger missing inherited field: %s", buf.String())
	}
}

func TestSetLevelString(t *testing.T) {
	defer Init(DefaultConfig())

	SetLevelString("error")
	if !IsLevelEnabled(zerolog.ErrorLevel) {
		t.Error("error level should be enabled")
	}
	if IsLevelEnabled(zerolog.DebugLevel) {
		t.Error("debug level should be disabled")
	}
}

func TestNewTestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewTestLogger(&buf)

	logger.Info().Int("candidates", 12).Msg("scored")

	if !strings.Contains(buf.String(), `"candidates":12`) {
		t.Errorf("test logger output = %s", buf.String())
	}
}
