package main

import (
	"bytes"
	"context"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/comigor/lovechest/internal/logger"
)

func writeConfig(t *testing.T, dir, extra string) string {
	t.Helper()
	body := "log:\n  level: error\nstorage:\n  driver: sqlite\n  path: " + filepath.Join(dir, "chest.db") + "\n" +
		"messages:\n  - \"Ich liebe dich!\"\n  - \"Mein Herz gehört dir!\"\n" + extra
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, int) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	code := execute(cmd)
	return out.String(), code
}

func quietLogs(t *testing.T) {
	t.Helper()
	var sink bytes.Buffer
	logger.SetOutput(&sink)
	t.Cleanup(func() {
		logger.SetOutput(os.Stdout)
		logger.SetLevel("info")
	})
}

func TestVersion(t *testing.T) {
	out, code := run(t, "version")
	require.Zero(t, code)
	require.Contains(t, out, "lovechest dev")
}

func TestOpenThenStatusAcrossInvocations(t *testing.T) {
	quietLogs(t)
	cfg := writeConfig(t, t.TempDir(), "")

	out, code := run(t, "--config", cfg, "status")
	require.Zero(t, code)
	require.Contains(t, out, "locked")

	opened, code := run(t, "--config", cfg, "open")
	require.Zero(t, code)
	require.Contains(t, opened, "Komm morgen wieder")
	msg := "Ich liebe dich!"
	if !strings.Contains(opened, msg) {
		msg = "Mein Herz gehört dir!"
	}
	require.Contains(t, opened, msg)
	require.NotContains(t, opened, "not saved")

	status, code := run(t, "--config", cfg, "status")
	require.Zero(t, code)
	require.Contains(t, status, msg)

	reset, code := run(t, "--config", cfg, "reset")
	require.Zero(t, code)
	require.Contains(t, reset, "locked")

	status, code = run(t, "--config", cfg, "status")
	require.Zero(t, code)
	require.Contains(t, status, "locked")
}

func TestMemoryDriverDoesNotSurvive(t *testing.T) {
	quietLogs(t)
	t.Setenv("LOVECHEST_STORAGE_DRIVER", "memory")
	cfg := writeConfig(t, t.TempDir(), "")

	_, code := run(t, "--config", cfg, "open")
	require.Zero(t, code)
	status, code := run(t, "--config", cfg, "status")
	require.Zero(t, code)
	require.Contains(t, status, "locked")
}

func TestUnopenableDatabaseReportsUnsaved(t *testing.T) {
	quietLogs(t)
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	body := "log:\n  level: error\nstorage:\n  driver: sqlite\n  path: " + filepath.Join(blocker, "chest.db") + "\n"
	cfg := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte(body), 0o644))

	opened, code := run(t, "--config", cfg, "open")
	require.Zero(t, code)
	require.Contains(t, opened, "Komm morgen wieder")
	require.Contains(t, opened, "not saved")
	require.Contains(t, opened, "Es gab ein Problem beim Speichern")

	status, code := run(t, "--config", cfg, "status")
	require.Zero(t, code)
	require.Contains(t, status, "locked")
	require.Contains(t, status, "Es gab ein Problem beim Speichern")
}

func TestBadConfigFails(t *testing.T) {
	quietLogs(t)
	dir := t.TempDir()
	cfg := writeConfig(t, dir, "chest:\n  timezone: Mars/Olympus\n")
	out, code := run(t, "--config", cfg, "status")
	require.Equal(t, 1, code)
	require.Contains(t, out, "error:")

	_, code = run(t, "--config", filepath.Join(dir, "missing.yaml"), "status")
	require.Equal(t, 1, code)
}

func TestMissingStaticDirFails(t *testing.T) {
	quietLogs(t)
	dir := t.TempDir()
	cfg := writeConfig(t, dir, "server:\n  static_dir: "+filepath.Join(dir, "public")+"\n")
	_, code := run(t, "--config", cfg, "status")
	require.Equal(t, 1, code)
}

func TestServe_AnswersAndShutsDown(t *testing.T) {
	quietLogs(t)
	dir := t.TempDir()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	_, port, err := net.SplitHostPort(l.Addr().String())
	require.NoError(t, err)
	require.NoError(t, l.Close())

	a, err := newApp(writeConfig(t, dir, "server:\n  host: 127.0.0.1\n  port: \""+port+"\"\n"))
	require.NoError(t, err)
	defer a.close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, a) }()

	url := "http://127.0.0.1:" + port + "/healthz"
	require.Eventually(t, func() bool {
		res, err := http.Get(url)
		if err != nil {
			return false
		}
		res.Body.Close()
		return res.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
