package pdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeContentText_ShowOperators(t *testing.T) {
	content := []byte(`BT /F1 12 Tf 72 720 Td (Gradient descent) Tj 0 -14 Td (converges slowly.) Tj ET`)

	assert.Equal(t, "Gradient descent\nconverges slowly.", decodeContentText(content))
}

func TestDecodeContentText_TJArray(t *testing.T) {
	content := []byte(`BT [(Back) -20 (propa) 15 (gation)] TJ ET`)

	assert.Equal(t, "Backpropagation", decodeContentText(content))
}

func TestDecodeContentText_Escapes(t *testing.T) {
	content := []byte(`BT (f\(x\) = x\\2 \051) Tj ET`)

	// \( \) \\ and octal \051 (")") decode to their characters.
	assert.Equal(t, `f(x) = x\2 )`, decodeContentText(content))
}

func TestDecodeContentText_HexString(t *testing.T) {
	content := []byte(`BT <48 65 6C 6C 6F> Tj ET`)

	assert.Equal(t, "Hello", decodeContentText(content))
}

func TestDecodeContentText_IgnoresDictionaries(t *testing.T) {
	content := []byte(`/GS0 gs << /Type /Page >> BT (text) Tj ET`)

	assert.Equal(t, "text", decodeContentText(content))
}

func TestDecodeContentText_NoText(t *testing.T) {
	content := []byte(`q 1 0 0 1 0 0 cm /Im0 Do Q`)

	assert.Empty(t, decodeContentText(content))
}

func TestParseLiteralString_Nested(t *testing.T) {
	text, next := parseLiteralString([]byte(`(outer (inner) tail) Tj`), 0)
	assert.Equal(t, "outer (inner) tail", text)
	assert.Equal(t, 20, next)
}

func TestParseHexString_OddDigits(t *testing.T) {
	// An odd digit count is padded with a trailing zero.
	text, _ := parseHexString([]byte(`<414>`), 0)
	assert.Equal(t, "A@", text)
}

func TestExtensions(t *testing.T) {
	assert.Equal(t, []string{".pdf"}, New().Extensions())
}
