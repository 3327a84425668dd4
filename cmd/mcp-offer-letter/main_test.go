package main

import (
	"bytes"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/mcp-offer-letter/internal/config"
)

const testVersion = "1.2.3"

func capturePrintVersion(t *testing.T) string {
	t.Helper()
	originalStdout := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	defer func() { os.Stdout = originalStdout }()

	done := make(chan struct{})
	go func() {
		defer close(done)
		printVersion()
		w.Close()
	}()

	var buf bytes.Buffer
	io.Copy(&buf, r)
	<-done
	return buf.String()
}

func TestPrintVersion(t *testing.T) {
	oldVersion, oldBuildTime, oldGitCommit := version, buildTime, gitCommit
	defer func() {
		version, buildTime, gitCommit = oldVersion, oldBuildTime, oldGitCommit
	}()

	tests := []struct {
		name      string
		version   string
		buildTime string
		gitCommit string
		expected  []string
	}{
		{
			name:      "build flags set",
			version:   testVersion,
			buildTime: "2023-12-01_10:30:00",
			gitCommit: "abc123",
			expected: []string{
				"MCP Offer Letter",
				"Version: " + testVersion,
				"Build Time: 2023-12-01_10:30:00",
				"Git Commit: abc123",
				"Built with:",
			},
		},
		{
			name:      "defaults",
			version:   "dev",
			buildTime: "unknown",
			gitCommit: "unknown",
			expected:  []string{"Version: dev", "Build Time: unknown", "Git Commit: unknown"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			version, buildTime, gitCommit = tt.version, tt.buildTime, tt.gitCommit
			output := capturePrintVersion(t)
			for _, expected := range tt.expected {
				assert.Contains(t, output, expected)
			}
		})
	}
}

func TestSetupLogging(t *testing.T) {
	originalOutput := log.Writer()
	originalFlags := log.Flags()
	defer func() {
		log.SetOutput(originalOutput)
		log.SetFlags(originalFlags)
	}()

	t.Run("stdio debug logs to stderr", func(t *testing.T) {
		setupLogging(&config.Config{Mode: "stdio", LogLevel: "debug"})
		assert.Equal(t, os.Stderr, log.Writer())
	})

	t.Run("stdio without debug is silent", func(t *testing.T) {
		setupLogging(&config.Config{Mode: "stdio", LogLevel: "info"})
		assert.NotEqual(t, os.Stderr, log.Writer())
	})

	t.Run("server mode adds file info", func(t *testing.T) {
		setupLogging(&config.Config{Mode: "server", LogLevel: "info"})
		assert.Equal(t, log.LstdFlags|log.Lshortfile, log.Flags())
	})

	t.Run("nil config panics", func(t *testing.T) {
		assert.Panics(t, func() { setupLogging(nil) })
	})
}

func TestWantsVersion(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want bool
	}{
		{name: "no args", args: nil, want: false},
		{name: "-version", args: []string{"-version"}, want: true},
		{name: "--version", args: []string{"--version"}, want: true},
		{name: "-v", args: []string{"-v"}, want: true},
		{name: "with other args", args: []string{"--mode=server", "--version", "--port=8080"}, want: true},
		{name: "similar but not version", args: []string{"-verbose", "-versions"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, wantsVersion(tt.args))
		})
	}
}

func TestLoadRuleBook(t *testing.T) {
	t.Run("built-in rules only", func(t *testing.T) {
		book, err := loadRuleBook(&config.Config{})
		require.NoError(t, err)
		assert.NotEmpty(t, book.Rules("CA"))
	})

	t.Run("rule file merged over built-ins", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "rules.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
CA:
  at_will_employment:
    severity: warning
    message: Softened for this company.
    flaggedPhrases: [at-will]
WA:
  non_compete:
    severity: error
    message: Non-competes need a salary threshold.
    flaggedPhrases: [non-compete]
`), 0o644))

		book, err := loadRuleBook(&config.Config{RulesFile: path})
		require.NoError(t, err)

		rule, ok := book.Rule("CA", "at_will_employment")
		require.True(t, ok)
		assert.Equal(t, "Softened for this company.", rule.Message)
		rule, ok = book.Rule("WA", "non_compete")
		require.True(t, ok)
		assert.Equal(t, "Non-competes need a salary threshold.", rule.Message)
		_, ok = book.Rule("WA", "pay_transparency")
		assert.True(t, ok, "built-in WA rules survive the merge")
		_, ok = book.Rule("CA", "non_compete")
		assert.True(t, ok, "built-in rules are kept")
	})

	t.Run("invalid rule file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "rules.yaml")
		require.NoError(t, os.WriteFile(path, []byte("CA:\n  x:\n    severity: fatal\n    message: m\n"), 0o644))

		_, err := loadRuleBook(&config.Config{RulesFile: path})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load rules")
	})
}

func TestWatchRules(t *testing.T) {
	book, err := loadRuleBook(&config.Config{})
	require.NoError(t, err)

	w, err := watchRules(&config.Config{}, book)
	require.NoError(t, err)
	assert.Nil(t, w)

	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	w, err = watchRules(&config.Config{RulesFile: path, WatchRules: true}, book)
	require.NoError(t, err)
	require.NotNil(t, w)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte(`
OR:
  pay_equity:
    severity: info
    message: Oregon pay equity.
    flaggedPhrases: [pay]
`), 0o644))

	assert.Eventually(t, func() bool {
		return len(book.Rules("OR")) == 1
	}, 2*time.Second, 20*time.Millisecond)
}
