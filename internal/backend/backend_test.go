package backend

import (
	"context"
	"path/filepath"
	"testing"

	appcfg "savings/internal/config"
)

func TestTypeIsValid(t *testing.T) {
	tests := []struct {
		t     Type
		valid bool
	}{
		{SQLiteBackend, true},
		{MemoryBackend, true},
		{Type("sheets"), false},
		{Type(""), false},
	}
	for _, tt := range tests {
		if got := tt.t.IsValid(); got != tt.valid {
			t.Errorf("IsValid(%q) = %v, want %v", tt.t, got, tt.valid)
		}
	}
}

func TestFromAppConfig(t *testing.T) {
	app := &appcfg.Config{
		DataBackend:  "sqlite",
		SQLiteDBPath: "/tmp/savings.db",
		AMQPURL:      "amqp://localhost",
		BcryptCost:   10,
	}
	cfg, err := FromAppConfig(app)
	if err != nil {
		t.Fatalf("from app config: %v", err)
	}
	if cfg.Type != SQLiteBackend || cfg.SQLiteDBPath != "/tmp/savings.db" || cfg.BcryptCost != 10 {
		t.Fatalf("config = %+v", cfg)
	}

	if _, err := FromAppConfig(nil); err == nil {
		t.Error("nil app config should error")
	}
	if _, err := FromAppConfig(&appcfg.Config{DataBackend: "oracle"}); err == nil {
		t.Error("unknown backend should error")
	}
}

func TestConfigValidate(t *testing.T) {
	if err := (Config{Type: SQLiteBackend}).Validate(); err == nil {
		t.Error("sqlite without path should fail validation")
	}
	if err := (Config{Type: SQLiteBackend, SQLiteDBPath: "x.db"}).Validate(); err != nil {
		t.Errorf("valid sqlite config rejected: %v", err)
	}
	if err := (Config{Type: MemoryBackend}).Validate(); err != nil {
		t.Errorf("memory config rejected: %v", err)
	}
}

func TestCreateMemoryBackend(t *testing.T) {
	factory := NewFactory(nil)
	result, err := factory.CreateBackend(context.Background(), Config{Type: MemoryBackend, BcryptCost: 4})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer result.Cleanup()

	if result.Store == nil || result.Service == nil {
		t.Fatal("result should carry store and service")
	}
	if _, err := result.Store.Snapshot(context.Background()); err != nil {
		t.Fatalf("snapshot: %v", err)
	}
}

func TestCreateSQLiteBackend(t *testing.T) {
	factory := NewFactory(nil)
	result, err := factory.CreateBackend(context.Background(), Config{
		Type:         SQLiteBackend,
		SQLiteDBPath: filepath.Join(t.TempDir(), "savings.db"),
		BcryptCost:   4,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer result.Cleanup()

	if _, err := result.Store.Snapshot(context.Background()); err != nil {
		t.Fatalf("snapshot: %v", err)
	}
}
