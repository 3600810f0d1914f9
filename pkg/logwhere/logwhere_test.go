package logwhere_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrew-torda/cifatom/pkg/logwhere"
)

func TestToFile(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "log.json")
	log, c, err := logwhere.New(fname, "debug", true)
	require.NoError(t, err)
	log.Debug().Str("file", "x.cif").Int("atoms", 7).Msg("read")
	log.Trace().Msg("not at this level")
	require.NoError(t, c.Close())

	b, err := os.ReadFile(fname)
	require.NoError(t, err)
	s := string(b)
	assert.Contains(t, s, `"atoms":7`)
	assert.Contains(t, s, `"app":"cifatom"`)
	assert.NotContains(t, s, "not at this level")
}

func TestConsoleFormat(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "log.txt")
	log, c, err := logwhere.New(fname, "INFO", false)
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, log.GetLevel())
	log.Info().Msg("hello")
	log.Debug().Msg("too quiet")
	require.NoError(t, c.Close())

	b, err := os.ReadFile(fname)
	require.NoError(t, err)
	assert.Contains(t, string(b), "hello")
	assert.NotContains(t, string(b), "too quiet")
	assert.NotContains(t, string(b), "\x1b[", "no colour in files")
}

func TestDiscardAndErrors(t *testing.T) {
	log, c, err := logwhere.New("", "", false)
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, log.GetLevel())
	assert.NoError(t, c.Close())

	_, _, err = logwhere.New("", "chatty", false)
	assert.Error(t, err)

	_, _, err = logwhere.New(filepath.Join(t.TempDir(), "no", "such", "dir", "log"), "info", false)
	assert.Error(t, err)
}
