package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/a3tai/mcp-offer-letter/internal/compliance"
	"github.com/a3tai/mcp-offer-letter/internal/config"
	"github.com/a3tai/mcp-offer-letter/internal/mcp"
	"github.com/a3tai/mcp-offer-letter/internal/pdf"
	"github.com/a3tai/mcp-offer-letter/internal/session"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// setupLogging configures logging based on the server mode
func setupLogging(cfg *config.Config) {
	if cfg.IsStdioMode() {
		// In stdio mode, redirect log output to stderr to avoid interfering with MCP protocol
		log.SetOutput(os.Stderr)
		// Reduce log verbosity in stdio mode unless debug is enabled
		if !cfg.IsDebug() {
			log.SetOutput(os.NewFile(0, os.DevNull))
		}
	} else {
		// In server mode, use normal stdout logging with more detail
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}
}

// loadRuleBook returns the built-in rules with the configured rule file
// merged over them.
func loadRuleBook(cfg *config.Config) (*compliance.RuleBook, error) {
	book := compliance.DefaultRuleBook()
	if cfg.RulesFile == "" {
		return book, nil
	}

	loaded, err := compliance.LoadFile(cfg.RulesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load rules: %w", err)
	}
	book.Merge(loaded)
	return book, nil
}

// watchRules keeps the rule book in sync with the rule file. It returns
// nil when watching is disabled.
func watchRules(cfg *config.Config, book *compliance.RuleBook) (*compliance.Watcher, error) {
	if !cfg.WatchRules || cfg.RulesFile == "" {
		return nil, nil
	}
	return compliance.WatchFile(cfg.RulesFile, book, func(err error) {
		if err == nil && cfg.IsDebug() {
			log.Printf("Reloaded rules from %s", cfg.RulesFile)
		}
	})
}

// runServerMode handles server mode execution with signal handling
func runServerMode(ctx context.Context, cancel context.CancelFunc, server *mcp.Server) {
	// Set up signal handling for graceful shutdown
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	// Start server in a goroutine
	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- server.Run(ctx)
	}()

	// Wait for shutdown signal or server error
	select {
	case sig := <-signalCh:
		log.Printf("Received signal: %s", sig)
		log.Println("Initiating graceful shutdown...")
		cancel()

		// Wait for server to shutdown
		if err := <-serverErrCh; err != nil {
			log.Printf("Server shutdown with error: %v", err)
			os.Exit(1)
		}

	case err := <-serverErrCh:
		if err != nil {
			log.Printf("Server error: %v", err)
			os.Exit(1)
		}
	}

	log.Println("Server stopped successfully")
}

// runStdioMode handles stdio mode execution
func runStdioMode(ctx context.Context, _ context.CancelFunc, server *mcp.Server) {
	// In stdio mode, the parent process controls our lifecycle
	if err := server.Run(ctx); err != nil {
		// Only log to stderr in debug mode to avoid protocol interference
		if os.Getenv("DEBUG") != "" {
			log.Printf("Server error: %v", err)
		}
		os.Exit(1)
	}
}

func main() {
	// Check for version flag before parsing other flags
	if wantsVersion(os.Args[1:]) {
		printVersion()
		return
	}

	cfg, err := config.LoadFromFlags()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	setupLogging(cfg)

	// Set version if it was provided during build
	if version != "dev" {
		cfg.Version = version
	}

	if cfg.IsDebug() && cfg.IsServerMode() {
		log.Printf("Starting with configuration: %s", cfg.String())
	}

	book, err := loadRuleBook(cfg)
	if err != nil {
		log.Fatalf("Failed to load compliance rules: %v", err)
	}
	watcher, err := watchRules(cfg, book)
	if err != nil {
		log.Fatalf("Failed to watch rule file: %v", err)
	}
	if watcher != nil {
		defer watcher.Close()
	}

	pdfService, err := pdf.NewService(cfg.MaxFileSize, cfg.TemplateDirectory, nil)
	if err != nil {
		log.Fatalf("Failed to create template service: %v", err)
	}

	sess := session.New(session.Options{
		Book:         book,
		Jurisdiction: cfg.Jurisdiction,
		Debounce:     cfg.Debounce,
		Debug:        cfg.IsDebug(),
	})
	defer sess.Close()

	server, err := mcp.NewServer(cfg, pdfService, sess)
	if err != nil {
		log.Fatalf("Failed to create MCP server: %v", err)
	}

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.IsServerMode() {
		runServerMode(ctx, cancel, server)
	} else {
		runStdioMode(ctx, cancel, server)
	}
}

// wantsVersion reports whether args ask for the version
func wantsVersion(args []string) bool {
	for _, arg := range args {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return true
		}
	}
	return false
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("MCP Offer Letter\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Git Commit: %s\n", gitCommit)
	fmt.Printf("Built with: %s\n", runtime.Version())
}
