// Package logging builds the zap logger shared by every component of a run.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// TimeLayout formats the timestamp leading every log line.
const TimeLayout = "2006-01-02 15:04:05,000"

// Config controls where log lines go.
type Config struct {
	// Dir receives the run's log file.
	Dir string
	// StartedAt stamps the log file name.
	StartedAt time.Time
	// Development colors levels on the console.
	Development bool
	// Console mirrors log lines; defaults to stderr.
	Console io.Writer
}

// FileName returns the log file name for a run started at t.
func FileName(t time.Time) string {
	return fmt.Sprintf("kanji_scraper_%s.log", t.Format("20060102_150405"))
}

// New builds a logger that writes "<timestamp> - <LEVEL> - <message>" lines to
// both the console and the run's log file. The returned closer flushes and
// closes the file and must be called before the process exits.
func New(cfg Config) (*zap.Logger, io.Closer, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, nil, fmt.Errorf("create log dir %s: %w", dir, err)
	}
	file := &lumberjack.Logger{
		Filename:  filepath.Join(dir, FileName(cfg.StartedAt)),
		MaxSize:   200,
		LocalTime: true,
	}
	// lumberjack opens lazily; a zero-length write surfaces permission errors now.
	if _, err := file.Write(nil); err != nil {
		return nil, nil, fmt.Errorf("open log file %s: %w", file.Filename, err)
	}

	console := cfg.Console
	if console == nil {
		console = os.Stderr
	}
	consoleEnc := encoderConfig()
	if cfg.Development {
		consoleEnc.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleEnc), zapcore.Lock(zapcore.AddSync(console)), zap.InfoLevel),
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig()), zapcore.AddSync(file), zap.InfoLevel),
	)
	logger := zap.New(core)
	return logger, &closer{logger: logger, file: file}, nil
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:          "ts",
		LevelKey:         "level",
		MessageKey:       "msg",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeTime:       zapcore.TimeEncoderOfLayout(TimeLayout),
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " - ",
	}
}

type closer struct {
	logger *zap.Logger
	file   *lumberjack.Logger
}

func (c *closer) Close() error {
	_ = c.logger.Sync() //nolint:errcheck // stderr sync fails on some terminals
	if err := c.file.Close(); err != nil {
		return fmt.Errorf("close log file: %w", err)
	}
	return nil
}
