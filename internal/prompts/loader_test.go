package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	prompt, err := Get("enhancement.json", "enhance_product")
	require.NoError(t, err)
	assert.Contains(t, prompt, "{{.Barcode}}")
	assert.Contains(t, prompt, "{{.Context}}")
	assert.Contains(t, prompt, `"Product Name"`)
}

func TestGet_MissingKey(t *testing.T) {
	_, err := Get("enhancement.json", "nope")
	assert.Error(t, err)
}

func TestGet_MissingFile(t *testing.T) {
	_, err := Get("absent.json", "enhance_product")
	assert.Error(t, err)
}

func TestFormat(t *testing.T) {
	out := Format("barcode {{.Barcode}} twice {{.Barcode}}", map[string]string{"Barcode": "890"})
	assert.Equal(t, "barcode 890 twice 890", out)
}

func TestEnhancement(t *testing.T) {
	prompt := Enhancement("8901030875071", "Name: Exo Bar\nBrand: Exo")
	assert.Contains(t, prompt, "barcode 8901030875071")
	assert.Contains(t, prompt, "Name: Exo Bar")
	assert.False(t, strings.Contains(prompt, "{{."), "all placeholders must be substituted")
}
