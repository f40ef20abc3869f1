package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func newInstallation(t *testing.T, standard bool, dotenv string) string {
	t.Helper()

	dir := t.TempDir()
	if standard {
		for _, sub := range []string{"wp-admin", "wp-content", "wp-includes"} {
			if err := os.Mkdir(filepath.Join(dir, sub), 0o755); err != nil {
				t.Fatalf("mkdir %s: %v", sub, err)
			}
		}
	}
	if dotenv != "" {
		if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(dotenv), 0o644); err != nil {
			t.Fatalf("write .env: %v", err)
		}
	}
	return dir
}

func TestRunPrintJSON(t *testing.T) {
	dir := newInstallation(t, false, "DB_DATABASE=blog\nDB_HOST=file-host\n")

	var out bytes.Buffer
	err := run([]string{"--base-path", dir, "print", "--format", "json"}, &out, io.Discard, []string{"DB_HOST=env-host", "DB_PORT=3307"})
	if err != nil {
		t.Fatalf("run returned error: %v", err)
	}

	var constants map[string]any
	if err := json.Unmarshal(out.Bytes(), &constants); err != nil {
		t.Fatalf("failed to decode output: %v", err)
	}
	if constants["DB_NAME"] != "blog" {
		t.Fatalf("expected DB_NAME from .env, got %v", constants["DB_NAME"])
	}
	if constants["DB_HOST"] != "env-host:3307" {
		t.Fatalf("expected environment DB_HOST to win, got %v", constants["DB_HOST"])
	}
	if constants["ABSPATH"] != filepath.Join(dir, "public", "wordpress")+string(filepath.Separator) {
		t.Fatalf("unexpected ABSPATH %v", constants["ABSPATH"])
	}
}

func TestRunPrintDefaultsToPHP(t *testing.T) {
	dir := newInstallation(t, true, "")

	var out bytes.Buffer
	if err := run([]string{"-b", dir}, &out, io.Discard, nil); err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if !strings.HasPrefix(out.String(), "<?php\n") {
		t.Fatalf("expected PHP output, got %q", out.String())
	}
	if !strings.Contains(out.String(), "define('WP_ENVIRONMENT_TYPE', 'production');") {
		t.Fatalf("expected environment type definition, got %q", out.String())
	}
}

func TestRunLayout(t *testing.T) {
	testCases := map[string]bool{
		"standard": true,
		"custom":   false,
	}
	for want, standard := range testCases {
		t.Run(want, func(t *testing.T) {
			dir := newInstallation(t, standard, "")

			var out bytes.Buffer
			if err := run([]string{"--base-path", dir, "layout"}, &out, io.Discard, nil); err != nil {
				t.Fatalf("run returned error: %v", err)
			}
			if got := strings.TrimSpace(out.String()); got != want {
				t.Fatalf("expected %s, got %s", want, got)
			}
		})
	}
}

func TestRunRejectsUnknownFormat(t *testing.T) {
	dir := newInstallation(t, false, "")

	var out bytes.Buffer
	if err := run([]string{"--base-path", dir, "print", "--format", "toml"}, &out, io.Discard, nil); err == nil {
		t.Fatalf("expected error for unknown format")
	}
	if out.Len() != 0 {
		t.Fatalf("expected nothing on stdout, got %q", out.String())
	}
}

func TestRunExecSeparatesStreams(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	dir := newInstallation(t, false, "")

	var out, errOut bytes.Buffer
	args := []string{"--base-path", dir, "exec", "--", "sh", "-c", "printf out; printf err >&2"}
	if err := run(args, &out, &errOut, []string{"PATH=" + os.Getenv("PATH")}); err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if out.String() != "out" || errOut.String() != "err" {
		t.Fatalf("expected separated streams, got stdout %q stderr %q", out.String(), errOut.String())
	}
}

func TestRunPropagatesMalformedDotenv(t *testing.T) {
	dir := newInstallation(t, false, "BAD-KEY=1\n")

	var out bytes.Buffer
	if err := run([]string{"--base-path", dir}, &out, io.Discard, nil); err == nil {
		t.Fatalf("expected error for malformed .env")
	}
}

func TestRunExecExportsDotenv(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	dir := newInstallation(t, false, "FROM_FILE=exported\n")

	var out bytes.Buffer
	args := []string{"--base-path", dir, "exec", "--", "sh", "-c", `printf %s "$FROM_FILE"`}
	if err := run(args, &out, io.Discard, []string{"PATH=" + os.Getenv("PATH")}); err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if out.String() != "exported" {
		t.Fatalf("expected exported value, got %q", out.String())
	}
}

func TestRunExecExportsOverriddenValues(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	dir := newInstallation(t, false, "DB_USERNAME=from_file\n")
	local := "DB_USERNAME: from_override\nONLY_LOCAL: local\n"
	if err := os.WriteFile(filepath.Join(dir, "wp-config.local.yaml"), []byte(local), 0o644); err != nil {
		t.Fatalf("write local override: %v", err)
	}

	var out bytes.Buffer
	args := []string{"--base-path", dir, "exec", "--", "sh", "-c", `printf '%s,%s' "$DB_USERNAME" "$ONLY_LOCAL"`}
	if err := run(args, &out, io.Discard, []string{"PATH=" + os.Getenv("PATH")}); err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if out.String() != "from_override,local" {
		t.Fatalf("expected override values in child environment, got %q", out.String())
	}
}
