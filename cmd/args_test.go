package cmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseID(t *testing.T) {
	id, err := parseID("42")
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	for _, bad := range []string{"0", "-1", "abc", ""} {
		_, err := parseID(bad)
		assert.Error(t, err, bad)
	}
}

func TestReadAll(t *testing.T) {
	data, err := readAll(strings.NewReader(`{"id":1}`))
	require.NoError(t, err)
	assert.Equal(t, `{"id":1}`, string(data))
}

func TestCommandsRegistered(t *testing.T) {
	for _, path := range [][]string{
		{"start"}, {"migrate"}, {"sync"}, {"retry"}, {"providers"}, {"discover"},
		{"webhook", "replay"}, {"check", "schema"}, {"check", "archive"},
	} {
		cmd, _, err := RootCmd.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}
