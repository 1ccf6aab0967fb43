// Package words turns free text into the ordered token sequence that gets
// flashed, one token per frame.
package words

import (
	"strings"
	"unicode"
)

// MaxFilenameRunes bounds how much of the input text ends up in an export name.
const MaxFilenameRunes = 100

// DefaultFilename is used when the input text yields no usable characters.
const DefaultFilename = "wordflash.gif"

// Tokenize splits text on the space character and drops entries that are
// blank once trimmed. Tabs and newlines stay inside their token.
func Tokenize(text string) []string {
	var tokens []string
	for _, s := range strings.Split(text, " ") {
		if strings.TrimSpace(s) != "" {
			tokens = append(tokens, s)
		}
	}
	return tokens
}

// Current returns tokens[index mod len(tokens)]. Negative indexes wrap from
// the end. The second result is false when tokens is empty.
func Current(tokens []string, index int) (string, bool) {
	n := len(tokens)
	if n == 0 {
		return "", false
	}
	return tokens[Wrap(index, n)], true
}

// Wrap maps index into [0, n). n must be positive.
func Wrap(index, n int) int {
	i := index % n
	if i < 0 {
		i += n
	}
	return i
}

// Slug keeps the first max runes of text, trims it, and replaces every rune
// outside [A-Za-z0-9] with an underscore.
func Slug(text string, max int) string {
	r := []rune(text)
	if len(r) > max {
		r = r[:max]
	}
	trimmed := strings.TrimSpace(string(r))

	var b strings.Builder
	for _, c := range trimmed {
		if c < unicode.MaxASCII && (unicode.IsLetter(c) || unicode.IsDigit(c)) {
			b.WriteRune(c)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

// Filename derives the export file name from the input text.
func Filename(text string) string {
	slug := Slug(text, MaxFilenameRunes)
	if slug == "" {
		return DefaultFilename
	}
	return slug + ".gif"
}
