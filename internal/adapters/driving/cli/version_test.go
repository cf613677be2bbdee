package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionCmd_Use(t *testing.T) {
	assert.Equal(t, "version", versionCmd.Use)
}

func TestVersionCmd_PrintsVersion(t *testing.T) {
	out, err := execute("version")

	assert.NoError(t, err)
	assert.Contains(t, out, "tempora version dev")
}

func TestSetVersion(t *testing.T) {
	SetVersion("1.2.3")
	defer SetVersion("dev")

	out, err := execute("version")

	assert.NoError(t, err)
	assert.Contains(t, out, "tempora version 1.2.3")
}
