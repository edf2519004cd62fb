package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/pflag"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func testFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("api-key", "", "")
	fs.String("bible-version", "", "")
	fs.String("database", "", "")
	fs.Duration("timeout", 0, "")
	if err := fs.Parse(args); err != nil {
		t.Fatalf("failed to parse flags: %v", err)
	}
	return fs
}

// clearEnv unsets every variable Load reads so the host environment does
// not leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, env := range envKeys {
		t.Setenv(env, "")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.BibleVersion != DefaultVersion {
		t.Errorf("BibleVersion = %q, want %q", cfg.BibleVersion, DefaultVersion)
	}
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", cfg.Timeout, DefaultTimeout)
	}
	if cfg.ListenAddr != DefaultListenAddr {
		t.Errorf("ListenAddr = %q, want %q", cfg.ListenAddr, DefaultListenAddr)
	}
	if !errors.Is(cfg.Validate(), ErrMissingAPIKey) {
		t.Errorf("Validate() = %v, want ErrMissingAPIKey", cfg.Validate())
	}
}

func TestLoadPrecedence(t *testing.T) {
	clearEnv(t)
	t.Setenv("BIBLE_API_KEY", "env-key")
	t.Setenv("BIBLE_VERSION", "env-version")
	t.Setenv("BIBLE_DATABASE", "/env/history.db")
	t.Setenv("MAILGUN_DOMAIN", "mg.example.com")

	path := writeConfig(t, `
api_key = "file-key"
bible_version = "file-version"
timeout = "30s"

[mailgun]
sender = "verses@example.com"
`)

	t.Run("file beats environment", func(t *testing.T) {
		cfg, err := Load(path, testFlags(t))
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}

		want := &Config{
			APIKey:       "file-key",
			BibleVersion: "file-version",
			Database:     "/env/history.db",
			Timeout:      30 * time.Second,
			ListenAddr:   DefaultListenAddr,
			Mailgun: Mailgun{
				Domain: "mg.example.com",
				Sender: "verses@example.com",
			},
		}
		if diff := cmp.Diff(want, cfg); diff != "" {
			t.Errorf("Load mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("flags beat file", func(t *testing.T) {
		cfg, err := Load(path, testFlags(t, "--api-key", "flag-key", "--timeout", "5s"))
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.APIKey != "flag-key" {
			t.Errorf("APIKey = %q, want flag-key", cfg.APIKey)
		}
		if cfg.BibleVersion != "file-version" {
			t.Errorf("BibleVersion = %q, want file-version", cfg.BibleVersion)
		}
		if cfg.Timeout != 5*time.Second {
			t.Errorf("Timeout = %v, want 5s", cfg.Timeout)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate() = %v", err)
		}
	})
}

func TestLoadEnvironmentOnly(t *testing.T) {
	clearEnv(t)
	t.Setenv("BIBLE_API_KEY", "env-key")
	t.Setenv("BIBLE_TIMEOUT", "2s")

	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.APIKey != "env-key" {
		t.Errorf("APIKey = %q, want env-key", cfg.APIKey)
	}
	if cfg.Timeout != 2*time.Second {
		t.Errorf("Timeout = %v, want 2s", cfg.Timeout)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"), nil)
	if err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}

func TestLoadDefaultFile(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG_CONFIG_HOME only drives os.UserConfigDir on linux")
	}
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	if err := os.MkdirAll(filepath.Join(dir, "bible"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "bible", "config.toml"), []byte(`api_key = "default-file-key"`), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.APIKey != "default-file-key" {
		t.Errorf("APIKey = %q, want default-file-key", cfg.APIKey)
	}
}
