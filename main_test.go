package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgs(t *testing.T) {
	cmd, opts, err := parseArgs("submit", []string{"-server", "http://routes:8080", "-file", "stops.xlsx"})
	require.NoError(t, err)
	assert.Equal(t, "submit", cmd)
	assert.Equal(t, "http://routes:8080", opts.serverURL)
	assert.Equal(t, "stops.xlsx", opts.filePath)
	assert.Equal(t, ".env", opts.envPath)

	_, _, err = parseArgs("serve", []string{"-file", "stops.xlsx"})
	assert.Error(t, err, "serve takes no -file flag")

	_, _, err = parseArgs("optimize", nil)
	assert.ErrorIs(t, err, errUsage)
}

func TestRun_Submit(t *testing.T) {
	previous := log.Logger
	t.Cleanup(func() { log.Logger = previous })

	dir := t.TempDir()
	path := filepath.Join(dir, "stops.csv")
	require.NoError(t, os.WriteFile(path, []byte("CustomerId\nD\nA\n"), 0o600))

	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"route":["D","A","D"]}`)
	}))
	defer ok.Close()

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer failing.Close()

	base := []string{"-config", filepath.Join(dir, "none.yaml"), "-env", ""}

	err := run(append([]string{"submit"}, append(base, "-server", ok.URL, "-file", path)...))
	assert.NoError(t, err)

	err = run(append([]string{"submit"}, append(base, "-server", ok.URL)...))
	assert.NoError(t, err, "no file is not a failure")

	err = run(append([]string{"submit"}, append(base, "-server", failing.URL, "-file", path)...))
	assert.ErrorIs(t, err, errSubmissionFailed)

	assert.ErrorIs(t, run(nil), errUsage)
}
