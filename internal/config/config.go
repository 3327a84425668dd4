package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeStdio  = "stdio"
	ModeServer = "server"

	// Default values
	DefaultPort         = 8080
	DefaultHost         = "127.0.0.1"
	DefaultLogLevel     = "info"
	DefaultMaxFileSize  = 100 * 1024 * 1024 // 100MB
	DefaultJurisdiction = "CA"
	DefaultDebounce     = 400 * time.Millisecond

	// Directory permissions
	DefaultDirPerm = 0o750
)

// Config holds all configuration for the offer letter MCP server
type Config struct {
	// Server configuration
	Mode string // "server" or "stdio"
	Host string
	Port int

	// Template configuration
	TemplateDirectory string

	// Compliance configuration
	Jurisdiction string
	RulesFile    string // optional YAML or JSON rule file merged over the built-in rules
	WatchRules   bool   // reload RulesFile when it changes

	// Application configuration
	Version     string
	ServerName  string
	LogLevel    string
	MaxFileSize int64         // Maximum template file size in bytes
	Debounce    time.Duration // quiet period before previews are recomputed
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		// Fallback to current directory if working directory cannot be determined
		currentDir = "."
	}

	return &Config{
		Mode:              ModeStdio, // Default to stdio mode for MCP compatibility
		Host:              DefaultHost,
		Port:              DefaultPort,
		TemplateDirectory: currentDir,
		Jurisdiction:      DefaultJurisdiction,
		Version:           "1.0.0",
		ServerName:        "mcp-offer-letter",
		LogLevel:          DefaultLogLevel,
		MaxFileSize:       DefaultMaxFileSize,
		Debounce:          DefaultDebounce,
	}
}

// LoadFromFlags parses command line flags and returns a configuration
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	// Check for version flag before parsing
	if err := checkVersionFlag(); err != nil {
		return nil, err
	}

	pflag.Parse()

	populateConfigFromViper(cfg)

	// Expand paths if needed
	if cfg.TemplateDirectory != "" {
		if expandedPath, err := filepath.Abs(cfg.TemplateDirectory); err == nil {
			cfg.TemplateDirectory = expandedPath
		}
	}
	if cfg.RulesFile != "" {
		if expandedPath, err := filepath.Abs(cfg.RulesFile); err == nil {
			cfg.RulesFile = expandedPath
		}
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	// Set environment variable prefix
	viper.SetEnvPrefix("MCP_OFFER")
	viper.AutomaticEnv()

	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("host", cfg.Host)
	viper.SetDefault("port", cfg.Port)
	viper.SetDefault("dir", cfg.TemplateDirectory)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
	viper.SetDefault("jurisdiction", cfg.Jurisdiction)
	viper.SetDefault("rules", cfg.RulesFile)
	viper.SetDefault("watchrules", cfg.WatchRules)
	viper.SetDefault("debounce", cfg.Debounce)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Server mode: 'stdio' for MCP standard I/O, 'server' for HTTP server")
	pflag.String("host", cfg.Host, "Server host address (server mode only)")
	pflag.Int("port", cfg.Port, "Server port (server mode only)")
	pflag.String("dir", cfg.TemplateDirectory, "Directory containing offer letter templates and exports")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum template file size in bytes")
	pflag.String("jurisdiction", cfg.Jurisdiction, "Jurisdiction for compliance checks (state code)")
	pflag.String("rules", cfg.RulesFile, "YAML or JSON file with additional compliance rules")
	pflag.Bool("watchrules", cfg.WatchRules, "Reload the rules file when it changes")
	pflag.Duration("debounce", cfg.Debounce, "Quiet period after edits before previews are recomputed")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	for _, name := range []string{
		"mode", "host", "port", "dir", "loglevel", "maxfilesize",
		"jurisdiction", "rules", "watchrules", "debounce",
	} {
		_ = viper.BindPFlag(name, pflag.Lookup(name))
	}
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nMCP Offer Letter - A Model Context Protocol server for filling offer letter templates\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                          "+
			"# stdio mode, current directory (default)\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --dir=/path/to/templates                 "+
			"# stdio mode with custom directory\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --jurisdiction=NY --rules=rules.yaml     "+
			"# New York rules plus a custom rule file\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --rules=rules.yaml --watchrules          "+
			"# reload rules on change\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  MCP_OFFER_MODE          Server mode\n")
		fmt.Fprintf(os.Stderr, "  MCP_OFFER_HOST          Server host\n")
		fmt.Fprintf(os.Stderr, "  MCP_OFFER_PORT          Server port\n")
		fmt.Fprintf(os.Stderr, "  MCP_OFFER_DIR           Template directory\n")
		fmt.Fprintf(os.Stderr, "  MCP_OFFER_LOGLEVEL      Log level\n")
		fmt.Fprintf(os.Stderr, "  MCP_OFFER_MAXFILESIZE   Maximum file size\n")
		fmt.Fprintf(os.Stderr, "  MCP_OFFER_JURISDICTION  Compliance jurisdiction\n")
		fmt.Fprintf(os.Stderr, "  MCP_OFFER_RULES         Rules file\n")
		fmt.Fprintf(os.Stderr, "  MCP_OFFER_WATCHRULES    Reload rules on change\n")
		fmt.Fprintf(os.Stderr, "  MCP_OFFER_DEBOUNCE      Preview debounce interval\n")
	}
}

// checkVersionFlag checks if version flag was requested
func checkVersionFlag() error {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return fmt.Errorf("version requested")
		}
	}
	return nil
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.Host = viper.GetString("host")
	cfg.Port = viper.GetInt("port")
	cfg.TemplateDirectory = viper.GetString("dir")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
	cfg.Jurisdiction = strings.ToUpper(strings.TrimSpace(viper.GetString("jurisdiction")))
	cfg.RulesFile = viper.GetString("rules")
	cfg.WatchRules = viper.GetBool("watchrules")
	cfg.Debounce = viper.GetDuration("debounce")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate mode
	if c.Mode != ModeStdio && c.Mode != ModeServer {
		return errors.New("mode must be either 'stdio' or 'server'")
	}

	// Validate port range (only for server mode)
	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	// Validate template directory
	if c.TemplateDirectory == "" {
		return errors.New("template directory cannot be empty")
	}

	// Check if template directory exists, create if it doesn't
	if _, err := os.Stat(c.TemplateDirectory); os.IsNotExist(err) {
		if err := os.MkdirAll(c.TemplateDirectory, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create template directory %s: %w", c.TemplateDirectory, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access template directory %s: %w", c.TemplateDirectory, err)
	}

	// Validate max file size
	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	if strings.TrimSpace(c.Jurisdiction) == "" {
		return errors.New("jurisdiction cannot be empty")
	}

	if c.RulesFile != "" {
		info, err := os.Stat(c.RulesFile)
		if err != nil {
			return fmt.Errorf("cannot access rules file %s: %w", c.RulesFile, err)
		}
		if info.IsDir() {
			return fmt.Errorf("rules file %s is a directory", c.RulesFile)
		}
	} else if c.WatchRules {
		return errors.New("watching rules requires a rules file")
	}

	if c.Debounce <= 0 {
		return errors.New("debounce interval must be positive")
	}

	return nil
}

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Host: %s, Port: %d, TemplateDirectory: %s, Jurisdiction: %s, "+
		"RulesFile: %s, WatchRules: %t, LogLevel: %s, MaxFileSize: %d, Debounce: %s}",
		c.Mode, c.Host, c.Port, c.TemplateDirectory, c.Jurisdiction,
		c.RulesFile, c.WatchRules, c.LogLevel, c.MaxFileSize, c.Debounce)
}

// IsServerMode returns true if the server is running in HTTP server mode
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if the server is running in stdio mode
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}
