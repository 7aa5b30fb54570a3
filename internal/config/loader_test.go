package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeFile(t, "defaults.yaml", `
output:
  format: pcapng
verbose: true
log:
  file: /var/log/pcapedit.log
`)
	o := NewOptions()
	require.NoError(t, LoadDefaults(path, o))

	assert.Equal(t, "pcapng", o.OutputFormat)
	assert.True(t, o.Verbose)
	assert.Equal(t, "/var/log/pcapedit.log", o.LogFile)
}

func TestLoadDefaultsEmptyPathIsNoop(t *testing.T) {
	o := NewOptions()
	require.NoError(t, LoadDefaults("", o))
	assert.Equal(t, "pcap", o.OutputFormat)
}

func TestLoadDefaultsMissingFile(t *testing.T) {
	o := NewOptions()
	assert.Error(t, LoadDefaults(filepath.Join(t.TempDir(), "nope.yaml"), o))
}

func TestLoadCommentsFile(t *testing.T) {
	path := writeFile(t, "comments.yaml", `
1: first packet
7: "retransmission: see frame 5"
`)
	o := NewOptions()
	o.Comments[7] = "from the command line"
	require.NoError(t, LoadCommentsFile(path, o))

	assert.Equal(t, "first packet", o.Comments[1])
	// The command line wins for frames present in both.
	assert.Equal(t, "from the command line", o.Comments[7])
}

func TestLoadCommentsFileInvalid(t *testing.T) {
	path := writeFile(t, "comments.yaml", "just a scalar")
	o := NewOptions()
	assert.Error(t, LoadCommentsFile(path, o))
}
