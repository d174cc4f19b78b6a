package view

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/themeflex/internal/models"
	"github.com/jmylchreest/themeflex/internal/theme"
)

func TestRenderTerminal(t *testing.T) {
	d, _ := theme.Lookup(theme.Creative)
	palette := models.ThemePalette{Primary: "#d946ef", Foreground: "#3b0764", Muted: "#86198f"}
	products := productList(3)

	var buf bytes.Buffer
	require.NoError(t, RenderTerminal(&buf, d, NewTerminalStyles(d, palette), products))

	out := buf.String()
	assert.Contains(t, out, "Creative")
	assert.Contains(t, out, "Colorful and playful")
	assert.Contains(t, out, "(120 reviews)")
	assert.Contains(t, out, "₹")

	last := -1
	for _, p := range products {
		idx := strings.Index(out, p.Title)
		require.GreaterOrEqual(t, idx, 0)
		assert.Greater(t, idx, last)
		last = idx
	}
}

func TestRenderTerminal_Empty(t *testing.T) {
	d, _ := theme.Lookup(theme.Minimalist)

	var buf bytes.Buffer
	require.NoError(t, RenderTerminal(&buf, d, NewTerminalStyles(d, models.ThemePalette{}), nil))
	assert.Contains(t, buf.String(), "No products.")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
	assert.Equal(t, "₹₹…", truncate("₹₹₹₹", 3))
}
