package osutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommand(t *testing.T) {
	cmd, err := Command(`notify-send "Feeding stopped" --urgency=low`, "BABYTIMER_KIND=breastfeeding")
	require.NoError(t, err)
	require.NotNil(t, cmd)

	assert.Equal(t, []string{"notify-send", "Feeding stopped", "--urgency=low"}, cmd.Args)
	assert.Contains(t, cmd.Env, "BABYTIMER_KIND=breastfeeding")
}

func TestCommandEmpty(t *testing.T) {
	cmd, err := Command("")
	assert.NoError(t, err)
	assert.Nil(t, cmd)

	cmd, err = Command("   ")
	assert.NoError(t, err)
	assert.Nil(t, cmd)
}

func TestCommandUnterminatedQuote(t *testing.T) {
	_, err := Command(`echo "oops`)
	assert.Error(t, err)
}

func TestEditor(t *testing.T) {
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "vim")

	assert.Equal(t, "vim", Editor())

	t.Setenv("VISUAL", "code -w")

	assert.Equal(t, "code -w", Editor())
}
