package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tomz197/backdrop/internal/object"
)

func TestGetEnvFallbacks(t *testing.T) {
	t.Setenv("BACKDROP_TEST_INT", "42")
	t.Setenv("BACKDROP_TEST_BAD", "nope")
	t.Setenv("BACKDROP_TEST_FLOAT", " 1.5 ")
	t.Setenv("BACKDROP_TEST_BOOL", "true")

	if got := GetEnv("BACKDROP_TEST_UNSET", "x"); got != "x" {
		t.Fatalf("GetEnv = %q", got)
	}
	if got := GetEnvInt("BACKDROP_TEST_INT", 1); got != 42 {
		t.Fatalf("GetEnvInt = %d", got)
	}
	if got := GetEnvInt("BACKDROP_TEST_BAD", 7); got != 7 {
		t.Fatalf("GetEnvInt malformed = %d", got)
	}
	if got := GetEnvInt64("BACKDROP_TEST_INT", 0); got != 42 {
		t.Fatalf("GetEnvInt64 = %d", got)
	}
	if got := GetEnvFloat("BACKDROP_TEST_FLOAT", 0); got != 1.5 {
		t.Fatalf("GetEnvFloat = %v", got)
	}
	if got := GetEnvBool("BACKDROP_TEST_BOOL", false); !got {
		t.Fatal("GetEnvBool = false")
	}
	if got := GetEnvBool("BACKDROP_TEST_BAD", true); !got {
		t.Fatal("GetEnvBool malformed should fall back")
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	if err := os.WriteFile(path, []byte("BACKDROP_DOTENV_A=from-file\nBACKDROP_DOTENV_B=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("BACKDROP_DOTENV_B", "from-env")
	// Registers cleanup for the variable the file sets
	t.Setenv("BACKDROP_DOTENV_A", "")
	os.Unsetenv("BACKDROP_DOTENV_A")

	if err := LoadDotEnv(filepath.Join(dir, "missing.env"), path); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv("BACKDROP_DOTENV_A"); got != "from-file" {
		t.Fatalf("A = %q", got)
	}
	if got := os.Getenv("BACKDROP_DOTENV_B"); got != "from-env" {
		t.Fatalf("B = %q, existing variables must win", got)
	}
}

func TestWorldOptions(t *testing.T) {
	t.Setenv("BACKDROP_PARTICLES", "120")
	t.Setenv("BACKDROP_SEED", "99")
	t.Setenv("BACKDROP_THEME", "light")

	opts := WorldOptions()
	if opts.Particles != 120 || opts.Seed != 99 || opts.Theme != object.ThemeLight {
		t.Fatalf("options %+v", opts)
	}
}

func TestLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "test", "warn")
	logger.Info("hidden")
	logger.Warn("shown", "key", 1)

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") || !strings.Contains(out, "test") {
		t.Fatalf("log output %q", out)
	}

	buf.Reset()
	newLogger(&buf, "", "bogus").Info("default info")
	if !strings.Contains(buf.String(), "default info") {
		t.Fatalf("log output %q", buf.String())
	}
}
