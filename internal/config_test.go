package internal

import (
	"strings"
	"testing"
	"time"

	"github.com/starford/typegen/internal/generator"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should pass: %v", err)
	}
	if cfg.Output.Dir != "./types/ethers-contracts" {
		t.Errorf("output dir = %q", cfg.Output.Dir)
	}
	if !cfg.Cache.Enabled() {
		t.Error("default config should enable the cache")
	}
}

func TestHTTPConfig_ZeroPortDisables(t *testing.T) {
	cfg := HTTPConfig{Port: 0}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("port 0 should pass: %v", err)
	}
	if cfg.Enabled() {
		t.Error("port 0 should disable HTTP")
	}
	if err := (&HTTPConfig{Port: 70000}).Validate(); err == nil {
		t.Error("port above 65535 should fail")
	}
}

func TestArtifactsConfig_Required(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Artifacts.Dir = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("empty artifacts dir should fail")
	}
}

func TestOutputConfig_Environment(t *testing.T) {
	for _, env := range []string{"", "hardhat"} {
		cfg := OutputConfig{Dir: "out", Environment: env}
		if err := cfg.Validate(); err != nil {
			t.Errorf("environment %q should pass: %v", env, err)
		}
	}
	cfg := OutputConfig{Dir: "out", Environment: "truffle"}
	if err := cfg.Validate(); err == nil {
		t.Error("unknown environment should fail")
	}
}

func TestOutputConfig_Generator(t *testing.T) {
	cfg := OutputConfig{Dir: "out", AlwaysGenerateOverloads: true, Environment: "hardhat"}
	got := cfg.Generator()
	if !got.AlwaysGenerateOverloads || got.Environment != "hardhat" {
		t.Errorf("generator config = %+v", got)
	}
}

func TestWatchConfig_DefaultDebounce(t *testing.T) {
	cfg := WatchConfig{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty debounce should default: %v", err)
	}
	if cfg.Debounce != generator.DefaultDebounce {
		t.Errorf("debounce = %v, want %v", cfg.Debounce, generator.DefaultDebounce)
	}
	if err := (&WatchConfig{Debounce: -time.Second}).Validate(); err == nil {
		t.Error("negative debounce should fail")
	}
}

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{Mode: "", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_TokenMode(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: "mysecret"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("token mode with token should pass: %v", err)
	}
	if !cfg.AuthEnabled() {
		t.Error("token mode should be enabled")
	}

	err := (&AuthConfig{Mode: "token"}).Validate()
	if err == nil || !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("unexpected error: %v", err)
	}
	if err := (&AuthConfig{Mode: "magic", Token: "x"}).Validate(); err == nil {
		t.Error("invalid mode should fail validation")
	}
}
