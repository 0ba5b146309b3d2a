package main

import (
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/groupcart/payments-service/pkg/config"
)

func TestNewLogger_HonorsLevel(t *testing.T) {
	logger, err := newLogger(config.LoggingConfig{Level: "debug"})
	if err != nil {
		t.Fatalf("expected logger, got %v", err)
	}
	if !logger.Core().Enabled(zapcore.DebugLevel) {
		t.Error("expected debug level to be enabled")
	}
}

func TestNewLogger_DefaultSuppressesDebug(t *testing.T) {
	logger, err := newLogger(config.LoggingConfig{})
	if err != nil {
		t.Fatalf("expected logger, got %v", err)
	}
	if logger.Core().Enabled(zapcore.DebugLevel) {
		t.Error("expected debug level to be disabled by default")
	}
}

func TestNewLogger_RejectsUnknownLevel(t *testing.T) {
	if _, err := newLogger(config.LoggingConfig{Level: "chatty"}); err == nil {
		t.Error("expected an error for an unknown level")
	}
}
