package expand

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaseTransforms(t *testing.T) {
	out, err := runBuiltin("uppercase", []string{"hello"})
	require.NoError(t, err)
	assert.Equal(t, "HELLO", out)

	out, err = runBuiltin("lowercase", []string{"GRÜSSE"})
	require.NoError(t, err)
	assert.Equal(t, "grüsse", out)

	out, err = runBuiltin("titlecase", []string{"hello brave new world"})
	require.NoError(t, err)
	assert.Equal(t, "Hello Brave New World", out)

	// Only the first code point of each word changes.
	out, err = runBuiltin("titlecase", []string{"fooBAR baz"})
	require.NoError(t, err)
	assert.Equal(t, "FooBAR Baz", out)
}

func TestCaseTransformsPreserveCommas(t *testing.T) {
	// The argument text "a,b" splits into two tokens; single-string
	// transforms rejoin them.
	out, err := runBuiltin("uppercase", []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, "A,B", out)
}

func TestIndent(t *testing.T) {
	out, err := runBuiltin("indent", []string{"2", "a\nb"})
	require.NoError(t, err)
	assert.Equal(t, "  a\n  b", out)

	out, err = runBuiltin("indent", []string{"0", "x"})
	require.NoError(t, err)
	assert.Equal(t, "x", out)

	_, err = runBuiltin("indent", []string{"-1", "x"})
	assert.Error(t, err)

	_, err = runBuiltin("indent", []string{"two", "x"})
	assert.Error(t, err)
}

func TestCsv2mdExplicitHeaderCount(t *testing.T) {
	out, err := runBuiltin("csv2md", []string{"2", "Name", "Age", "Ada", "36", "Alan", "41"})
	require.NoError(t, err)
	want := strings.Join([]string{
		"| Name | Age |",
		"| --- | --- |",
		"| Ada | 36 |",
		"| Alan | 41 |",
	}, "\n")
	assert.Equal(t, want, out)
}

func TestCsv2mdInferredHeaderCount(t *testing.T) {
	// Four values, smallest divisor ≥ 2 is 2: one header row, one data row.
	out, err := runBuiltin("csv2md", []string{"h1", "h2", "v1", "v2"})
	require.NoError(t, err)
	want := strings.Join([]string{
		"| h1 | h2 |",
		"| --- | --- |",
		"| v1 | v2 |",
	}, "\n")
	assert.Equal(t, want, out)
}

func TestCsv2mdRaggedInputFails(t *testing.T) {
	// A prime count with no explicit K cannot form whole rows.
	_, err := runBuiltin("csv2md", []string{"a", "b", "c", "d", "e"})
	assert.Error(t, err)

	// Explicit K that does not divide the remaining values.
	_, err = runBuiltin("csv2md", []string{"2", "h1", "h2", "v1"})
	assert.Error(t, err)
}

func TestExtractEmails(t *testing.T) {
	out, err := runBuiltin("extract-emails", []string{"ada@example.com and alan@test.org and ada@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com, alan@test.org", out)

	out, err = runBuiltin("extract-emails", []string{"no addresses here"})
	require.NoError(t, err)
	assert.Equal(t, "", out)
}

func TestWordcount(t *testing.T) {
	out, err := runBuiltin("wordcount", []string{"one two  three"})
	require.NoError(t, err)
	assert.Equal(t, "3", out)
}

func TestLorem(t *testing.T) {
	out, err := runBuiltin("lorem", []string{"3"})
	require.NoError(t, err)
	assert.Equal(t, "Lorem ipsum dolor", out)

	out, err = runBuiltin("lorem", []string{"0"})
	require.NoError(t, err)
	assert.Equal(t, "", out)

	_, err = runBuiltin("lorem", []string{"many"})
	assert.Error(t, err)
}

func TestNowAndToday(t *testing.T) {
	out, err := runBuiltin("today", nil)
	require.NoError(t, err)
	parsed, err := time.ParseInLocation("2006-01-02", out, time.Local)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), parsed, 25*time.Hour)

	out, err = runBuiltin("now", nil)
	require.NoError(t, err)
	_, err = time.ParseInLocation("2006-01-02 15:04:05", out, time.Local)
	require.NoError(t, err)

	_, err = runBuiltin("now", []string{"x"})
	assert.Error(t, err)
}

func TestUnknownBuiltin(t *testing.T) {
	_, err := runBuiltin("frobnicate", nil)
	assert.ErrorIs(t, err, ErrUnknownBuiltin)
}
