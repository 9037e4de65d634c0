package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitDBCommand(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	os.Unsetenv("DATABASE_URL")
	path := filepath.Join(t.TempDir(), "prayers.db")

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"init-db", "--sqlite-path", path})
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("init-db: %v", err)
	}
	if !strings.Contains(out.String(), "schema ready: SQLite ("+path+")") {
		t.Fatalf("unexpected output %q", out.String())
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("database file not created: %v", err)
	}
}

func TestPortFlagOverridesBadEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	os.Unsetenv("DATABASE_URL")
	t.Setenv("PORT", "abc")
	path := filepath.Join(t.TempDir(), "prayers.db")

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"init-db", "--port=8081", "--sqlite-path", path})
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("init-db with --port over PORT=abc: %v", err)
	}

	cmd = newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"serve", "--port=70000", "--sqlite-path", path})
	err := cmd.ExecuteContext(context.Background())
	if err == nil || !strings.Contains(err.Error(), "out of range") {
		t.Fatalf("expected port range error, got %v", err)
	}
}

func TestErrorsAreNotPrintedByCobra(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	os.Unsetenv("DATABASE_URL")

	cmd := newRootCmd()
	var stderr bytes.Buffer
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"serve", "--port=70000", "--sqlite-path", filepath.Join(t.TempDir(), "p.db")})
	if err := cmd.ExecuteContext(context.Background()); err == nil {
		t.Fatal("expected an error")
	}
	if strings.Contains(stderr.String(), "Error:") {
		t.Fatalf("cobra printed the error itself: %q", stderr.String())
	}
}

func TestServeRejectsBadPort(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	os.Unsetenv("DATABASE_URL")

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"serve", "--port=70000", "--sqlite-path", filepath.Join(t.TempDir(), "p.db")})
	err := cmd.ExecuteContext(context.Background())
	if err == nil || !strings.Contains(err.Error(), "out of range") {
		t.Fatalf("expected port range error, got %v", err)
	}
}
