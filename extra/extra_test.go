package extra

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeOutput(t *testing.T) {
	var buf bytes.Buffer

	err := SanitizeOutput("a\x1b[31mred\x1b[0m\x07\nb", false, &buf)
	require.NoError(t, err)
	assert.Equal(t, "ared\nb", buf.String())

	buf.Reset()
	err = SanitizeOutput("one\ntwo", true, &buf)
	require.NoError(t, err)
	assert.Equal(t, "one two", buf.String())

	buf.Reset()
	// e followed by a combining acute accent composes to a single rune
	err = SanitizeOutput("cafe\u0301", false, &buf)
	require.NoError(t, err)
	assert.Equal(t, "caf\u00e9", buf.String())
}

func TestReadLines(t *testing.T) {
	lines, err := ReadLines(strings.NewReader("first\r\nse\u0301cond\n\nlast"))
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "s\u00e9cond", "", "last"}, lines)

	lines, err = ReadLines(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestReport(t *testing.T) {
	var buf bytes.Buffer

	err := Report(&buf, []string{"pear", "apple\npie"}, []bool{true, false})
	require.NoError(t, err)
	assert.Equal(t, "+ pear\n- apple pie\n", buf.String())
}
