package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// loadWithArgs runs LoadFromFlags against a fresh flag set and viper
// instance with the given command line.
func loadWithArgs(t *testing.T, args ...string) (*Config, error) {
	t.Helper()
	originalArgs := os.Args
	t.Cleanup(func() {
		os.Args = originalArgs
		pflag.CommandLine = pflag.NewFlagSet(originalArgs[0], pflag.ExitOnError)
		viper.Reset()
	})

	os.Args = append([]string{"mcp-offer-letter"}, args...)
	pflag.CommandLine = pflag.NewFlagSet(os.Args[0], pflag.ContinueOnError)
	viper.Reset()
	return LoadFromFlags()
}

func clearEnvVars(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"MODE", "HOST", "PORT", "DIR", "LOGLEVEL", "MAXFILESIZE",
		"JURISDICTION", "RULES", "WATCHRULES", "DEBOUNCE",
	} {
		t.Setenv("MCP_OFFER_"+key, "")
		os.Unsetenv("MCP_OFFER_" + key)
	}
}

func TestLoadFromFlags_DefaultConfig(t *testing.T) {
	clearEnvVars(t)

	cfg, err := loadWithArgs(t, "--dir="+t.TempDir())
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}

	if cfg.Mode != "stdio" {
		t.Errorf("LoadFromFlags() Mode = %v, want %v", cfg.Mode, "stdio")
	}
	if cfg.Port != 8080 {
		t.Errorf("LoadFromFlags() Port = %v, want %v", cfg.Port, 8080)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LoadFromFlags() LogLevel = %v, want %v", cfg.LogLevel, "info")
	}
	if cfg.Jurisdiction != "CA" {
		t.Errorf("LoadFromFlags() Jurisdiction = %v, want %v", cfg.Jurisdiction, "CA")
	}
	if cfg.Debounce != 400*time.Millisecond {
		t.Errorf("LoadFromFlags() Debounce = %v, want %v", cfg.Debounce, 400*time.Millisecond)
	}
	if !filepath.IsAbs(cfg.TemplateDirectory) {
		t.Errorf("LoadFromFlags() TemplateDirectory = %v, want an absolute path", cfg.TemplateDirectory)
	}
}

func TestLoadFromFlags_ValidFlags(t *testing.T) {
	rules := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(rules, []byte("NY: {}\n"), 0o644); err != nil {
		t.Fatalf("Failed to create rules file: %v", err)
	}

	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, cfg *Config)
	}{
		{
			name: "server mode with custom host and port",
			args: []string{"--mode=server", "--host=0.0.0.0", "--port=9090"},
			check: func(t *testing.T, cfg *Config) {
				if cfg.Address() != "0.0.0.0:9090" {
					t.Errorf("Address() = %v, want 0.0.0.0:9090", cfg.Address())
				}
			},
		},
		{
			name: "debug logging",
			args: []string{"--loglevel=debug"},
			check: func(t *testing.T, cfg *Config) {
				if !cfg.IsDebug() {
					t.Error("IsDebug() = false, want true")
				}
			},
		},
		{
			name: "jurisdiction is upper-cased",
			args: []string{"--jurisdiction=ny"},
			check: func(t *testing.T, cfg *Config) {
				if cfg.Jurisdiction != "NY" {
					t.Errorf("Jurisdiction = %v, want NY", cfg.Jurisdiction)
				}
			},
		},
		{
			name: "rules file with watching",
			args: []string{"--rules=" + rules, "--watchrules"},
			check: func(t *testing.T, cfg *Config) {
				if cfg.RulesFile != rules || !cfg.WatchRules {
					t.Errorf("RulesFile = %v (watch %t), want %v (watch true)", cfg.RulesFile, cfg.WatchRules, rules)
				}
			},
		},
		{
			name: "custom debounce and max file size",
			args: []string{"--debounce=150ms", "--maxfilesize=50000000"},
			check: func(t *testing.T, cfg *Config) {
				if cfg.Debounce != 150*time.Millisecond {
					t.Errorf("Debounce = %v, want 150ms", cfg.Debounce)
				}
				if cfg.MaxFileSize != 50000000 {
					t.Errorf("MaxFileSize = %v, want 50000000", cfg.MaxFileSize)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnvVars(t)
			cfg, err := loadWithArgs(t, append(tt.args, "--dir="+t.TempDir())...)
			if err != nil {
				t.Fatalf("LoadFromFlags() unexpected error: %v", err)
			}
			tt.check(t, cfg)
		})
	}
}

func TestLoadFromFlags_EnvironmentVariables(t *testing.T) {
	clearEnvVars(t)
	tempDir := t.TempDir()

	t.Setenv("MCP_OFFER_MODE", "server")
	t.Setenv("MCP_OFFER_PORT", "3000")
	t.Setenv("MCP_OFFER_DIR", tempDir)
	t.Setenv("MCP_OFFER_LOGLEVEL", "warn")
	t.Setenv("MCP_OFFER_JURISDICTION", "tx")
	t.Setenv("MCP_OFFER_DEBOUNCE", "1s")

	cfg, err := loadWithArgs(t)
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}

	if cfg.Mode != "server" {
		t.Errorf("LoadFromFlags() Mode = %v, want %v", cfg.Mode, "server")
	}
	if cfg.Port != 3000 {
		t.Errorf("LoadFromFlags() Port = %v, want %v", cfg.Port, 3000)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LoadFromFlags() LogLevel = %v, want %v", cfg.LogLevel, "warn")
	}
	if cfg.Jurisdiction != "TX" {
		t.Errorf("LoadFromFlags() Jurisdiction = %v, want %v", cfg.Jurisdiction, "TX")
	}
	if cfg.Debounce != time.Second {
		t.Errorf("LoadFromFlags() Debounce = %v, want %v", cfg.Debounce, time.Second)
	}
}

func TestLoadFromFlags_FlagOverridesEnvironment(t *testing.T) {
	clearEnvVars(t)
	t.Setenv("MCP_OFFER_MODE", "server")
	t.Setenv("MCP_OFFER_JURISDICTION", "TX")

	cfg, err := loadWithArgs(t, "--mode=stdio", "--jurisdiction=WA", "--dir="+t.TempDir())
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}

	if cfg.Mode != "stdio" {
		t.Errorf("LoadFromFlags() Mode = %v, want %v (should override env)", cfg.Mode, "stdio")
	}
	if cfg.Jurisdiction != "WA" {
		t.Errorf("LoadFromFlags() Jurisdiction = %v, want %v (should override env)", cfg.Jurisdiction, "WA")
	}
}

func TestLoadFromFlags_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "mode", args: []string{"--mode=invalid"}, wantErr: "mode must be either 'stdio' or 'server'"},
		{name: "port", args: []string{"--mode=server", "--port=99999"}, wantErr: "port must be between 1 and 65535"},
		{name: "log level", args: []string{"--loglevel=verbose"}, wantErr: "invalid log level"},
		{name: "watch without rules", args: []string{"--watchrules"}, wantErr: "requires a rules file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnvVars(t)
			_, err := loadWithArgs(t, append(tt.args, "--dir="+t.TempDir())...)
			if err == nil {
				t.Fatalf("LoadFromFlags() expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("LoadFromFlags() error = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromFlags_VersionFlag(t *testing.T) {
	clearEnvVars(t)

	_, err := loadWithArgs(t, "--version")
	if err == nil || err.Error() != "version requested" {
		t.Errorf("LoadFromFlags() error = %v, want 'version requested'", err)
	}
}
