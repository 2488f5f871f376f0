package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file must not be an error: %v", err)
	}
	if cfg.Port != "8080" || cfg.Database != "marketplace" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
mongoUri: mongodb://db:27017
database: shop
port: "9000"
jwtSecret: filesecret
superAdminEmail: owner@example.com
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.MongoURI != "mongodb://db:27017" {
		t.Errorf("mongoUri not applied: %s", cfg.MongoURI)
	}
	if cfg.Database != "shop" || cfg.Port != "9000" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.SuperAdminEmail != "owner@example.com" {
		t.Errorf("superAdminEmail not applied: %s", cfg.SuperAdminEmail)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("port: \"9000\"\njwtSecret: filesecret\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("PORT", "7777")
	t.Setenv("JWT_SECRET", "envsecret")
	t.Setenv("MONGO_URL", "mongodb://fallback:27017")
	t.Setenv("MONGO_PUBLIC_URL", "mongodb://public:27017")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "7777" {
		t.Errorf("PORT override not applied: %s", cfg.Port)
	}
	if cfg.JWTSecret != "envsecret" {
		t.Errorf("JWT_SECRET override not applied")
	}
	// MONGO_PUBLIC_URL wins over MONGO_URL.
	if cfg.MongoURI != "mongodb://public:27017" {
		t.Errorf("expected public url, got %s", cfg.MongoURI)
	}
}

func TestBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(":\n\t- bad"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected a decode error")
	}
}
