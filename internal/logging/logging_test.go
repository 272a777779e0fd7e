package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "pulsegrid.log")
	c, err := Setup(path, "debug")
	require.NoError(t, err)
	t.Cleanup(func() { logrus.SetOutput(os.Stderr) })

	logrus.WithField("function", "TestSetupWritesToFile").Debug("hello from test")
	require.NoError(t, c.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Logging initialized")
	assert.Contains(t, string(data), "hello from test")
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())
}

func TestSetupEmptyPathDiscards(t *testing.T) {
	c, err := Setup("", "warn")
	require.NoError(t, err)
	t.Cleanup(func() { logrus.SetOutput(os.Stderr) })

	assert.NoError(t, c.Close())
	assert.Equal(t, logrus.WarnLevel, logrus.GetLevel())
}

func TestSetupRejectsLevel(t *testing.T) {
	_, err := Setup("", "loud")
	assert.Error(t, err)
}
