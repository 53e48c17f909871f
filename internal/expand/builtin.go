package expand

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrUnknownBuiltin is returned for a transform name outside the
// recognized set.
var ErrUnknownBuiltin = errors.New("unknown builtin")

var (
	upperCaser = cases.Upper(language.Und)
	lowerCaser = cases.Lower(language.Und)
)

// runBuiltin dispatches a recognized transform. Argument tokens arrive
// already split on top-level commas and substituted.
func runBuiltin(name string, args []string) (string, error) {
	switch name {
	case "uppercase":
		return upperCaser.String(joined(args)), nil
	case "lowercase":
		return lowerCaser.String(joined(args)), nil
	case "titlecase":
		return titlecase(joined(args)), nil
	case "indent":
		return indent(args)
	case "csv2md":
		return csv2md(args)
	case "extract-emails":
		return extractEmails(joined(args)), nil
	case "wordcount":
		return strconv.Itoa(len(strings.Fields(joined(args)))), nil
	case "lorem":
		return lorem(args)
	case "now":
		if len(args) != 0 {
			return "", fmt.Errorf("now takes no arguments")
		}
		return time.Now().Format("2006-01-02 15:04:05"), nil
	case "today":
		if len(args) != 0 {
			return "", fmt.Errorf("today takes no arguments")
		}
		return time.Now().Format("2006-01-02"), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownBuiltin, name)
	}
}

// joined reassembles tokens into the original text for single-string
// transforms, so commas inside the argument survive the split.
func joined(args []string) string {
	return strings.Join(args, ",")
}

// titlecase capitalizes the first code point of each whitespace-separated
// word, leaving the rest of the word untouched.
func titlecase(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	atWordStart := true
	for _, r := range s {
		if unicode.IsSpace(r) {
			atWordStart = true
			sb.WriteRune(r)
			continue
		}
		if atWordStart {
			sb.WriteRune(unicode.ToTitle(r))
			atWordStart = false
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// indent prepends n spaces to every line of the remaining argument text.
func indent(args []string) (string, error) {
	if len(args) < 2 {
		return "", fmt.Errorf("indent wants (n, text)")
	}
	n, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil || n < 0 {
		return "", fmt.Errorf("indent count must be a non-negative integer, got %q", args[0])
	}
	pad := strings.Repeat(" ", n)
	lines := strings.Split(joined(args[1:]), "\n")
	for i, l := range lines {
		lines[i] = pad + l
	}
	return strings.Join(lines, "\n"), nil
}

// csv2md renders tokens as a pipe-delimited Markdown table. The header
// count K is the first token when it parses as a positive integer; otherwise K is
// the smallest divisor of the token count that is at least 2 and leaves at
// least one full data row. Ragged input fails rather than guessing.
func csv2md(args []string) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("csv2md wants at least one header and one row")
	}

	tokens := args
	k := 0
	if n, err := strconv.Atoi(strings.TrimSpace(tokens[0])); err == nil && n > 0 {
		k = n
		tokens = tokens[1:]
	} else {
		for d := 2; d <= len(tokens)/2; d++ {
			if len(tokens)%d == 0 {
				k = d
				break
			}
		}
	}
	if k == 0 {
		return "", fmt.Errorf("csv2md cannot infer a header count from %d values", len(tokens))
	}
	if len(tokens) < 2*k || len(tokens)%k != 0 {
		return "", fmt.Errorf("csv2md wants %d headers plus whole rows, got %d values", k, len(tokens))
	}

	cell := func(s string) string { return strings.TrimSpace(s) }

	var sb strings.Builder
	writeRow := func(row []string) {
		sb.WriteString("|")
		for _, c := range row {
			sb.WriteString(" " + cell(c) + " |")
		}
		sb.WriteString("\n")
	}

	writeRow(tokens[:k])
	sb.WriteString("|")
	for i := 0; i < k; i++ {
		sb.WriteString(" --- |")
	}
	sb.WriteString("\n")
	for i := k; i < len(tokens); i += k {
		writeRow(tokens[i : i+k])
	}
	return strings.TrimSuffix(sb.String(), "\n"), nil
}

var emailRe = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

// extractEmails returns every email address found in s, comma-separated,
// in order of appearance with duplicates removed.
func extractEmails(s string) string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range emailRe.FindAllString(s, -1) {
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	return strings.Join(out, ", ")
}

var loremWords = strings.Fields(
	"lorem ipsum dolor sit amet consectetur adipiscing elit sed do eiusmod " +
		"tempor incididunt ut labore et dolore magna aliqua enim ad minim " +
		"veniam quis nostrud exercitation ullamco laboris nisi aliquip ex ea " +
		"commodo consequat")

// lorem produces n filler words.
func lorem(args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("lorem wants a single word count")
	}
	n, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil || n < 0 {
		return "", fmt.Errorf("lorem count must be a non-negative integer, got %q", args[0])
	}
	words := make([]string, n)
	for i := 0; i < n; i++ {
		words[i] = loremWords[i%len(loremWords)]
	}
	out := strings.Join(words, " ")
	if n > 0 {
		// Sentence-case the first word.
		r, size := utf8.DecodeRuneInString(out)
		out = string(unicode.ToTitle(r)) + out[size:]
	}
	return out, nil
}
