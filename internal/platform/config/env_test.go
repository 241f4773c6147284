package config

import (
	"strings"
	"testing"
)

type envTestConfig struct {
	Port int `env:"READING_SPACE_TEST_PORT" envDefault:"123"`
}

type prefixedTestConfig struct {
	Addr string `env:"TEST_ADDR" envDefault:"localhost:1"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Port != 123 {
		t.Fatalf("port = %d, want 123", cfg.Port)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("READING_SPACE_TEST_PORT", "not-an-int")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestParseEnvWithPrefixReadsNamespacedVariable(t *testing.T) {
	t.Setenv("READING_SPACE_TEST_ADDR", "example:8080")
	t.Setenv("TEST_ADDR", "ignored:1")

	var cfg prefixedTestConfig
	if err := ParseEnvWithPrefix(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Addr != "example:8080" {
		t.Fatalf("addr = %q, want %q", cfg.Addr, "example:8080")
	}
}
