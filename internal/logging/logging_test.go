package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New("WARN", &buf)
	require.NoError(t, err)

	logger.Infof("quiet %d", 1)
	logger.Warnf("loud %d", 2)

	assert.NotContains(t, buf.String(), "quiet 1")
	assert.Contains(t, buf.String(), "loud 2")
}

func TestNew_DefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New("", &buf)
	require.NoError(t, err)

	logger.Debugf("hidden")
	logger.Infof("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNew_AcceptsWarningAlias(t *testing.T) {
	_, err := New("warning", nil)
	assert.NoError(t, err)
}

func TestNew_RejectsUnknownLevel(t *testing.T) {
	_, err := New("chatty", nil)
	assert.Error(t, err)
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	logger.Errorf("nothing to see")
}
