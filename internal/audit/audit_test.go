package audit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	previous, previousLevel := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = previous
		zerolog.SetGlobalLevel(previousLevel)
	})

	require.NoError(t, Setup(f, "warn", FormatJSON))

	log.Info().Msg("dropped")
	log.Warn().Str("file", "stops.csv").Msg("kept")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "dropped")
	assert.Contains(t, string(data), `"file":"stops.csv"`)
	assert.Contains(t, string(data), `"message":"kept"`)
}

func TestSetup_Invalid(t *testing.T) {
	assert.Error(t, Setup(os.Stderr, "loud", FormatJSON))
	assert.Error(t, Setup(os.Stderr, "info", "xml"))
}

func TestConsoleWriter_NoColorForFiles(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "console.log"))
	require.NoError(t, err)
	defer f.Close()

	w, ok := ConsoleWriter(f).(zerolog.ConsoleWriter)
	require.True(t, ok)
	assert.True(t, w.NoColor)
}
