package db

import (
	"context"
	"testing"

	"github.com/pristeneo/storefront/pkg/config"
)

func TestNewRequiresDSN(t *testing.T) {
	if _, err := New(context.Background(), config.DBConfig{}, nil); err == nil {
		t.Fatal("expected error for empty DSN")
	}
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	_, err := New(context.Background(), config.DBConfig{DSN: "x", Driver: "mysql"}, nil)
	if err == nil {
		t.Fatal("expected unsupported driver error")
	}
}

func TestNewSQLiteInMemory(t *testing.T) {
	client, err := New(context.Background(), config.DBConfig{
		DSN:          "file::memory:?cache=shared",
		Driver:       config.DBDriverSQLite,
		MaxOpenConns: 1,
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("ping failed: %v", err)
	}
	if client.DB() == nil {
		t.Fatal("expected gorm handle")
	}
}

func TestNormalizedDriver(t *testing.T) {
	cases := map[string]string{
		"":         config.DBDriverPostgres,
		" SQLite ": config.DBDriverSQLite,
		"postgres": config.DBDriverPostgres,
	}
	for in, want := range cases {
		if got := normalizedDriver(in); got != want {
			t.Fatalf("normalizedDriver(%q) = %q, want %q", in, got, want)
		}
	}
}
