package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"silenced-backend/shared/config"
)

func TestSetup(t *testing.T) {
	defer logrus.SetOutput(os.Stderr)

	t.Run("JSON with file output", func(t *testing.T) {
		dir := t.TempDir()
		err := Setup(&config.LoggingConfig{Level: "debug", Format: "json", Dir: dir})
		require.NoError(t, err)
		assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())
		assert.IsType(t, &logrus.JSONFormatter{}, logrus.StandardLogger().Formatter)

		logrus.Info("hello")
		_, err = os.Stat(filepath.Join(dir, "app.log"))
		assert.NoError(t, err)
	})

	t.Run("Invalid level", func(t *testing.T) {
		err := Setup(&config.LoggingConfig{Level: "loud", Format: "text"})
		assert.Error(t, err)
	})
}

func TestOutputStdout(t *testing.T) {
	out, err := Output("")
	require.NoError(t, err)
	assert.Equal(t, os.Stdout, out)
}
