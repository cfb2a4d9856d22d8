package database

import (
	"testing"

	"github.com/regpulse/dataschema/internal/infrastructure/config"
)

func TestPostgres_Close(t *testing.T) {
	pg := &Postgres{DB: nil}
	if err := pg.Close(); err != nil {
		t.Errorf("Postgres.Close() error = %v, want nil", err)
	}
}

func TestNewPostgres_InvalidConfig(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Host:     "invalid-host-that-does-not-exist",
		Port:     99999,
		User:     "invalid",
		Password: "invalid",
		Database: "invalid",
		SSLMode:  "disable",
	}

	pg, err := NewPostgres(cfg)
	if err == nil {
		pg.Close()
		t.Error("NewPostgres() with invalid config should return error")
	}
}

func TestPostgresMigrations_Embedded(t *testing.T) {
	src, err := postgresMigrations()
	if err != nil {
		t.Fatalf("postgresMigrations() error = %v", err)
	}
	defer src.Close()

	first, err := src.First()
	if err != nil {
		t.Fatalf("First() error = %v", err)
	}
	if first != 1 {
		t.Errorf("expected first migration 1, got %d", first)
	}

	count := 1
	for v := first; ; count++ {
		next, err := src.Next(v)
		if err != nil {
			break
		}
		v = next
	}
	if count != 3 {
		t.Errorf("expected 3 migrations, got %d", count)
	}
}
