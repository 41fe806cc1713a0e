package config

import (
	"strings"
	"testing"
	"time"
)

type envTestConfig struct {
	Port int `env:"SHELFSIM_TEST_PORT" envDefault:"123"`
}

type prefixedTestConfig struct {
	Tick time.Duration `env:"TEST_TICK" envDefault:"1s"`
	Slot string        `env:"TEST_SLOT" envDefault:"GameData"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Port != 123 {
		t.Fatalf("expected default port 123, got %d", cfg.Port)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("SHELFSIM_TEST_PORT", "not-an-int")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestParseEnvPrefixedReadsNamespacedVariables(t *testing.T) {
	t.Setenv("SHELFSIM_TEST_TICK", "250ms")

	var cfg prefixedTestConfig
	if err := ParseEnvPrefixed(&cfg, EnvPrefix); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Tick != 250*time.Millisecond {
		t.Fatalf("tick = %v, want 250ms", cfg.Tick)
	}
	if cfg.Slot != "GameData" {
		t.Fatalf("slot = %q, want default", cfg.Slot)
	}
}
