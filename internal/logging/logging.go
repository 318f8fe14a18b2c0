// Package logging builds the zap loggers shared by the desktop app and the CLI.
package logging

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a production zap logger writing JSON to stderr. Debug output is enabled
// when verbose is set. Every sink additionally receives human readable console lines.
func New(verbose bool, sinks ...io.Writer) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.OutputPaths = []string{"stderr"}
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if len(sinks) == 0 {
		return logger, nil
	}
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	encCfg.CallerKey = zapcore.OmitKey
	extra := make([]zapcore.Core, 0, len(sinks))
	for _, sink := range sinks {
		extra = append(extra, zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(sink), cfg.Level))
	}
	return logger.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return zapcore.NewTee(append([]zapcore.Core{core}, extra...)...)
	})), nil
}

// LineBuffer keeps the most recent log lines for display.
type LineBuffer struct {
	mu       sync.Mutex
	lines    []string
	limit    int
	onUpdate func()
}

// NewLineBuffer keeps at most limit lines and calls onUpdate after each write.
func NewLineBuffer(limit int, onUpdate func()) *LineBuffer {
	if limit <= 0 {
		limit = 200
	}
	return &LineBuffer{limit: limit, onUpdate: onUpdate}
}

func (b *LineBuffer) Write(p []byte) (int, error) {
	text := strings.ReplaceAll(string(p), "\r\n", "\n")
	b.mu.Lock()
	for _, part := range strings.Split(text, "\n") {
		if part == "" {
			continue
		}
		b.lines = append(b.lines, part)
	}
	if len(b.lines) > b.limit {
		b.lines = b.lines[len(b.lines)-b.limit:]
	}
	notify := b.onUpdate
	b.mu.Unlock()
	if notify != nil {
		notify()
	}
	return len(p), nil
}

// String joins the buffered lines.
func (b *LineBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return strings.Join(b.lines, "\n")
}

// Lines returns a copy of the buffered lines.
func (b *LineBuffer) Lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.lines))
	copy(out, b.lines)
	return out
}
