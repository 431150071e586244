// Package logging configures the process-wide logrus logger and provides Gin
// middleware for HTTP request logging and panic recovery.
package logging

import (
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// SetupBaseLogger applies the shared logrus defaults. It runs once from main's
// init, before any configuration has been loaded, so the level comes from the
// LOG_LEVEL environment variable.
func SetupBaseLogger() {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	log.SetLevel(levelFromEnv())
	log.SetOutput(os.Stdout)
}

// ConfigureFileOutput mirrors log output into a size-rotated file in addition
// to stdout. A blank path leaves the stdout-only setup untouched.
func ConfigureFileOutput(path string, maxSizeMB, maxBackups int) {
	if strings.TrimSpace(path) == "" {
		return
	}
	if maxSizeMB <= 0 {
		maxSizeMB = 20
	}
	if maxBackups <= 0 {
		maxBackups = 3
	}
	rotator := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		Compress:   true,
	}
	log.SetOutput(io.MultiWriter(os.Stdout, rotator))
}

func levelFromEnv() log.Level {
	raw := strings.TrimSpace(os.Getenv("LOG_LEVEL"))
	if raw == "" {
		return log.InfoLevel
	}
	level, err := log.ParseLevel(raw)
	if err != nil {
		log.Warnf("unknown LOG_LEVEL %q, falling back to info", raw)
		return log.InfoLevel
	}
	return level
}
