package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewLoggerWritesToFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "logs", "hwpulse.log")

	logger, closeLogger := newLogger(logFile, false, false)
	logger.Info("hello")
	closeLogger()

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("log file not created: %v", err)
	}
	if len(data) == 0 {
		t.Error("log file is empty")
	}
}

func TestNewLoggerVerboseEnablesDebug(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "hwpulse.log")

	logger, closeLogger := newLogger(logFile, true, false)
	logger.Debug("debug line")
	closeLogger()

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 {
		t.Error("debug record not written with verbose enabled")
	}
}

func TestNewLoggerQuietWithoutFile(t *testing.T) {
	// Monitor mode with no log file must not touch stderr; the logger
	// still has to be usable.
	logger, closeLogger := newLogger("", false, true)
	defer closeLogger()

	logger.Info("should go nowhere")
	logger.Error("also nowhere")
}
