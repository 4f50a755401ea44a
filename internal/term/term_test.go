package term

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/titlenorm/internal/config"
)

func TestConfigure(t *testing.T) {
	t.Cleanup(func() { Configure(config.ColorNever, nil) })

	Configure(config.ColorAlways, nil)
	assert.True(t, Enabled())
	assert.Equal(t, Red+"x"+NC, Paint(Red, "x"))

	Configure(config.ColorNever, nil)
	assert.False(t, Enabled())
	assert.Equal(t, "x", Paint(Red, "x"))
}

func TestConfigure_AutoOnFile(t *testing.T) {
	t.Cleanup(func() { Configure(config.ColorNever, nil) })

	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	require.NoError(t, err)
	defer f.Close()

	Configure(config.ColorAuto, f)
	assert.False(t, Enabled(), "regular files are not terminals")
}

func TestSeverity(t *testing.T) {
	t.Cleanup(func() { Configure(config.ColorNever, nil) })
	Configure(config.ColorAlways, nil)

	assert.Equal(t, Red, Severity("extreme"))
	assert.Equal(t, Orange, Severity("outlier"))
	assert.Empty(t, Severity(""))
}

func TestIsTerminal_Nil(t *testing.T) {
	assert.False(t, IsTerminal(nil))
}
