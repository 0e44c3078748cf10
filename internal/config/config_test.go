package config

import (
	"os"
	"testing"
)

func TestValidate_InvalidPort(t *testing.T) {
	cfg := Config{
		HTTP: HTTPConfig{Port: 0},
		Solr: SolrConfig{Host: "http://localhost:8983"},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_InvalidSolrHost(t *testing.T) {
	cfg := Config{
		HTTP: HTTPConfig{Port: 8000},
		Solr: SolrConfig{Host: "localhost:8983"},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for non-http solr host")
	}
}

func TestValidate_NegativeConcurrency(t *testing.T) {
	cfg := Config{
		HTTP:     HTTPConfig{Port: 8000},
		Solr:     SolrConfig{Host: "http://localhost:8983"},
		Generate: GenerateConfig{Concurrency: -1},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for negative concurrency")
	}
}

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.HTTP.Port != 8000 {
		t.Errorf("HTTP.Port = %d, want 8000", cfg.HTTP.Port)
	}
	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("HTTP.ReadTimeoutSec = %d, want 10", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.Solr.Host != "http://localhost:8983" {
		t.Errorf("Solr.Host = %q", cfg.Solr.Host)
	}
	if cfg.Solr.ProblemCore != "problem" {
		t.Errorf("Solr.ProblemCore = %q", cfg.Solr.ProblemCore)
	}
	if cfg.Cache.TTLSec != 300 {
		t.Errorf("Cache.TTLSec = %d, want 300", cfg.Cache.TTLSec)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestExpandEnvVars(t *testing.T) {
	os.Setenv("CONTESTSEARCH_TEST_VAR", "secret")
	defer os.Unsetenv("CONTESTSEARCH_TEST_VAR")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain var", "password: ${CONTESTSEARCH_TEST_VAR}", "password: secret"},
		{"default used", "host: ${CONTESTSEARCH_UNSET:-fallback}", "host: fallback"},
		{"default ignored", "v: ${CONTESTSEARCH_TEST_VAR:-fallback}", "v: secret"},
		{"no vars", "port: 8000", "port: 8000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(expandEnvVars([]byte(tt.in)))
			if got != tt.want {
				t.Errorf("expandEnvVars(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestGetEnv(t *testing.T) {
	os.Unsetenv("ENV")
	if got := GetEnv(); got != "local" {
		t.Errorf("GetEnv() = %q, want local", got)
	}

	os.Setenv("ENV", "prod")
	defer os.Unsetenv("ENV")
	if got := GetEnv(); got != "prod" {
		t.Errorf("GetEnv() = %q, want prod", got)
	}
}
