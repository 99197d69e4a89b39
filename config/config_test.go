package config

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoad_Defaults(t *testing.T) {
	for _, name := range []string{"POWENS_TOKEN", "POWENS_APP_DOMAIN", "GEMINI_API_KEY", "FINSYNC_DATA_DIR", "FINSYNC_ADDR"} {
		t.Setenv(name, "")
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := &Config{
		DataDir:        "db",
		PromptsDir:     "ai-prompts",
		Addr:           ":3000",
		GeminiModel:    "gemma-3-27b-it",
		FetchInterval:  6 * time.Hour,
		EnrichInterval: time.Hour,
		EnrichDelay:    10 * time.Second,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
	if cfg.CheckPowens() == nil {
		t.Error("CheckPowens() = nil, want error")
	}
	if cfg.CheckGemini() == nil {
		t.Error("CheckGemini() = nil, want error")
	}
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("POWENS_TOKEN", "token")
	t.Setenv("POWENS_APP_DOMAIN", "https://example.biapi.pro")
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("FINSYNC_DATA_DIR", "/var/lib/finsync")
	t.Setenv("FINSYNC_FETCH_INTERVAL", "30m")
	t.Setenv("FINSYNC_ENRICH_DELAY", "2s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DataDir != "/var/lib/finsync" || cfg.FetchInterval != 30*time.Minute || cfg.EnrichDelay != 2*time.Second {
		t.Errorf("Load() = %+v", cfg)
	}
	if err := cfg.CheckPowens(); err != nil {
		t.Errorf("CheckPowens() = %v", err)
	}
	if err := cfg.CheckGemini(); err != nil {
		t.Errorf("CheckGemini() = %v", err)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name, value string
	}{
		{"FINSYNC_FETCH_INTERVAL", "often"},
		{"FINSYNC_FETCH_INTERVAL", "0s"},
		{"FINSYNC_FETCH_INTERVAL", "-1h"},
		{"FINSYNC_ENRICH_INTERVAL", "0s"},
		{"FINSYNC_ENRICH_INTERVAL", "-5m"},
	}
	for _, tt := range tests {
		t.Run(tt.name+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.name, tt.value)
			_, err := Load()
			if err == nil {
				t.Fatal("Load() error = nil, want error")
			}
			if !strings.HasPrefix(err.Error(), "config error:") {
				t.Errorf("Load() error = %q, want a config error", err)
			}
		})
	}
}
