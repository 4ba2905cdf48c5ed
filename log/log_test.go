package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name    string
		attr    slog.Attr
		wantVal string
	}{
		{"string", slog.String("key", "value"), "value"},
		{"int64", slog.Int64("key", 123), "123"},
		{"uint64", slog.Uint64("key", 7), "7"},
		{"bool", slog.Bool("key", true), "true"},
		{"float64", slog.Float64("key", 1.25), "1.25"},
		{"time", slog.Time("key", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)), "2024-01-01T00:00:00Z"},
		{"duration", slog.Duration("key", 1*time.Hour), "1h0m0s"},
		{"error", slog.Any("key", errors.New("boom")), "boom"},
		{"nil", slog.Any("key", nil), "<nil>"},
		{"json", slog.Any("key", map[string]int{"a": 1}), `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantVal, formatValue(tt.attr.Value.Resolve()))
		})
	}
}

func TestFormatValue_LogValuer(t *testing.T) {
	attr := slog.Any("key", logValuer{val: "resolved"})
	var b strings.Builder
	appendAttr(&b, "", attr)
	assert.Equal(t, " key=resolved", b.String())
}

type logValuer struct {
	val string
}

func (l logValuer) LogValue() slog.Value {
	return slog.StringValue(l.val)
}

func TestHandler_LevelPrefixes(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(WithOutput(&buf), WithLevel(slog.LevelDebug)))

	logger.Debug("probing")
	logger.Info("Loading command-line libraries:")
	logger.Warn("not loading 'a.so' (incompatible with this API version)")
	logger.Error("Error starting module 'b.so'")

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "DEBUG: probing", lines[0])
	assert.Equal(t, "Loading command-line libraries:", lines[1])
	assert.Equal(t, "WARNING: not loading 'a.so' (incompatible with this API version)", lines[2])
	assert.Equal(t, "ERROR: Error starting module 'b.so'", lines[3])
}

func TestHandler_Attrs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(WithOutput(&buf))).With("module", "m.so")

	logger.Warn("rejected", "reason", "width", "detail", "two words")
	assert.Equal(t, "WARNING: rejected module=m.so reason=width detail=\"two words\"\n", buf.String())
}

func TestHandler_Groups(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(WithOutput(&buf))).WithGroup("host").With("id", "x")

	logger.Info("ready", slog.Group("abi", slog.Int("width", 8)))
	assert.Equal(t, "ready host.id=x host.abi.width=8\n", buf.String())
}

func TestHandler_Source(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(WithOutput(&buf), WithSource(true)))

	logger.Info("here")
	assert.Contains(t, buf.String(), "source=")
	assert.Contains(t, buf.String(), "log_test.go:")
}

func TestNewHandler_Defaults(t *testing.T) {
	h := NewHandler()
	assert.NotNil(t, h)
	// Check default level via Enabled
	assert.True(t, h.Enabled(context.TODO(), slog.LevelInfo))
	assert.False(t, h.Enabled(context.TODO(), slog.LevelDebug))
}

func TestNewHandler_Options(t *testing.T) {
	h := NewHandler(
		WithLevel(slog.LevelDebug),
		WithSource(true),
		WithOutput(nil),
	)
	assert.NotNil(t, h)
	assert.True(t, h.Enabled(context.TODO(), slog.LevelDebug))
	assert.True(t, h.opts.addSource)
	assert.NotNil(t, h.opts.out)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"", slog.LevelInfo, false},
		{"INFO", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestNewLogger_Formats(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, slog.LevelInfo, FormatJSON).Warn("hello")
	assert.Contains(t, buf.String(), `"msg":"hello"`)

	buf.Reset()
	NewLogger(&buf, slog.LevelInfo, FormatText).Warn("hello")
	assert.Contains(t, buf.String(), "level=WARN")

	buf.Reset()
	NewLogger(&buf, slog.LevelInfo, "whatever").Warn("hello")
	assert.Equal(t, "WARNING: hello\n", buf.String())
}
