package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thywilljoshua/pdf-to-claims/internal/config"
	"github.com/thywilljoshua/pdf-to-claims/internal/convert"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCommandTree(t *testing.T) {
	root := newRootCmd()
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"serve", "extract", "text", "parse", "config", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestParseFromStdin(t *testing.T) {
	text := "Header\nClaim Number: C-9 open\nAccident Date Notice Date Close Date 01/01/2024 02/01/2024 03/01/2024\nCollision on highway\n"
	out, err := run(t, text, "parse", "-")
	require.NoError(t, err)

	var body struct {
		Claims []convert.ClaimRecord `json:"claims"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &body))
	require.Len(t, body.Claims, 1)
	assert.Equal(t, "C-9", body.Claims[0].ClaimNumber)
	assert.Equal(t, "03/01/2024", body.Claims[0].CloseDate)
	assert.Equal(t, "Collision on highway", body.Claims[0].IncidentDescription)
}

func TestParseNoClaims(t *testing.T) {
	out, err := run(t, "nothing here", "parse", "-")
	require.NoError(t, err)
	assert.JSONEq(t, `{"claims":[]}`, out)
}

func TestConfigShowRedactsKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "super-secret")
	t.Setenv("PDF2CLAIMS_SERVER_PORT", ":9000")

	out, err := run(t, "", "config", "show")
	require.NoError(t, err)
	assert.NotContains(t, out, "super-secret")
	assert.Contains(t, out, "********")
	assert.Contains(t, out, ":9000")
}

func TestExtractRejectsNonPDF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "claims.txt")
	require.NoError(t, os.WriteFile(path, []byte("Claim Number: A1"), 0o644))

	_, err := run(t, "", "extract", "--strategy", "pattern", path)
	require.ErrorIs(t, err, convert.ErrUnsupportedFile)
}

func TestExtractLLMNeedsKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")
	dir := t.TempDir()
	path := filepath.Join(dir, "a.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o644))

	_, err := run(t, "", "extract", path)
	require.ErrorIs(t, err, config.ErrMissingAPIKey)
}

func TestPatternExtractStillValidatesConfig(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("PDF2CLAIMS_EXTRACT_DEFAULT_MODE", "forms")
	dir := t.TempDir()
	path := filepath.Join(dir, "a.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o644))

	_, err := run(t, "", "extract", "--strategy", "pattern", path)
	require.Error(t, err)
	assert.NotErrorIs(t, err, config.ErrMissingAPIKey)
	assert.Contains(t, err.Error(), "extract.default_mode")
}

func TestVersion(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "pdf2claims dev\n", out)
}

func TestStartServer_GracefulShutdownOnSignal(t *testing.T) {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	var cfg config.Config
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = ":0"

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	idleConnsClosed := make(chan struct{})
	go startServer(app, cfg, cancel, idleConnsClosed)

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGTERM))

	select {
	case <-idleConnsClosed:
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for graceful shutdown")
	}
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}
