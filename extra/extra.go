package extra

import (
	"bufio"
	"io"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var sanitize = regexp.MustCompile(`[\x00-\x08\x0B-\x1F\x7F]|\x1B\[[0-9;]*[a-zA-Z]`)

// SanitizeOutput writes input to w in NFC form, without ASCII control
// characters and ANSI escape sequences.
func SanitizeOutput(input string, removeNewlines bool, w io.Writer) error {
	// Remove ASCII control characters and ANSI escape sequences
	cleaned := sanitize.ReplaceAllString(input, "")

	writer := norm.NFC.Writer(w)

	var b strings.Builder
	for _, r := range cleaned {
		if r == '\n' {
			if removeNewlines {
				b.WriteByte(' ')
				continue
			}
			b.WriteByte('\n')
		} else if unicode.IsPrint(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}

	if _, err := io.WriteString(writer, b.String()); err != nil {
		return err
	}

	// Ensure everything is flushed
	return writer.Close()
}

// ReadLines reads r line by line, normalizing each line to NFC. Trailing
// carriage returns are dropped.
func ReadLines(r io.Reader) ([]string, error) {
	var lines []string

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		lines = append(lines, norm.NFC.String(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return lines, nil
}

// Report prints one line per element: a "none so far" mark followed by the
// sanitized element.
func Report(w io.Writer, lines []string, out []bool) error {
	for i, line := range lines {
		mark := "+ "
		if !out[i] {
			mark = "- "
		}

		if _, err := io.WriteString(w, mark); err != nil {
			return err
		}
		if err := SanitizeOutput(line, true, w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}

	return nil
}
