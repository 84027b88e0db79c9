package cmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopicText(t *testing.T) {
	list, err := topicText(true, nil)
	require.NoError(t, err)
	names := strings.Fields(list)
	assert.Contains(t, names, "horizons")
	assert.NotContains(t, names, "readme")

	index, err := topicText(false, nil)
	require.NoError(t, err)
	assert.Contains(t, index, "horizons")

	guide, err := topicText(false, []string{"Horizons"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(guide, "# Horizons"), "guide starts with %q", guide[:min(len(guide), 20)])

	_, err = topicText(false, []string{"nope"})
	assert.Error(t, err)
}
