package postgres

import (
	"testing"
	"time"
)

func TestPoolConfig_Defaults(t *testing.T) {
	got := PoolConfig{}.withDefaults()

	if got.MaxOpenConns != defaultMaxOpenConns {
		t.Errorf("expected %d open conns, got %d", defaultMaxOpenConns, got.MaxOpenConns)
	}
	if got.MaxIdleConns != defaultMaxIdleConns {
		t.Errorf("expected %d idle conns, got %d", defaultMaxIdleConns, got.MaxIdleConns)
	}
	if got.ConnMaxLifetime != 0 {
		t.Errorf("expected lifetime left unset, got %v", got.ConnMaxLifetime)
	}
}

func TestPoolConfig_ConfiguredValuesKept(t *testing.T) {
	got := PoolConfig{
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
	}.withDefaults()

	if got.MaxOpenConns != 25 || got.MaxIdleConns != 5 {
		t.Errorf("expected configured pool sizes to survive, got %+v", got)
	}
	if got.ConnMaxLifetime != 30*time.Minute {
		t.Errorf("expected configured lifetime to survive, got %v", got.ConnMaxLifetime)
	}
}
