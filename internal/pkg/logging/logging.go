// Package logging builds the application zap logger. Development gets a
// console encoder on stdout; production adds a rotated JSON file sink.
package logging

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls the file sink. Zero values fall back to sane rotation.
type Options struct {
	Dev          bool
	Dir          string
	RotateSizeMB int
	RotateKeep   int
}

// New builds the process logger.
func New(opts Options) (*zap.Logger, error) {
	if opts.Dev {
		return zap.NewDevelopment()
	}

	dir := opts.Dir
	if dir == "" {
		dir = "logs"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	if opts.RotateSizeMB <= 0 {
		opts.RotateSizeMB = 10
	}
	if opts.RotateKeep <= 0 {
		opts.RotateKeep = 5
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "time"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	file := zapcore.AddSync(&lumberjack.Logger{
		Filename:   filepath.Join(dir, "habaru.log"),
		MaxSize:    opts.RotateSizeMB,
		MaxBackups: opts.RotateKeep,
		Compress:   true,
	})
	console := zapcore.Lock(os.Stdout)

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), file, zapcore.InfoLevel),
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), console, zapcore.InfoLevel),
	)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}
