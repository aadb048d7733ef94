package log

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/op/go-logging.v1"
)

func TestLogLevelFromString(t *testing.T) {
	lvl, err := logLevelFromString("debug")
	require.NoError(t, err)
	require.Equal(t, logging.DEBUG, lvl)

	lvl, err = logLevelFromString("NOTICE")
	require.NoError(t, err)
	require.Equal(t, logging.NOTICE, lvl)

	_, err = logLevelFromString("LOUD")
	require.Error(t, err)
}

func TestBackendFile(t *testing.T) {
	f := filepath.Join(t.TempDir(), "ding.log")

	b, err := New(f, "INFO", false)
	require.NoError(t, err)

	log := b.GetLogger("test")
	log.Infof("hint for %d is %d", 29, 1)
	log.Debug("not written")

	out, err := os.ReadFile(f)
	require.NoError(t, err)
	require.Contains(t, string(out), "test: hint for 29 is 1")
	require.NotContains(t, string(out), "not written")
}

func TestBackendDisabled(t *testing.T) {
	b, err := New("", "DEBUG", true)
	require.NoError(t, err)
	b.GetLogger("quiet").Error("discarded")

	_, err = New("", "bogus", false)
	require.Error(t, err)
}
