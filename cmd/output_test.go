package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTable(t *testing.T) {
	var out bytes.Buffer
	table := newTable(&out, "ID", "TITLE", "AUTHOR")
	table.Append([]string{"1", "Generics in practice", "Jane Doe"})
	table.Append([]string{"12", "Go", "-"})
	table.Render()

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 3, "header and one line per row, no borders")
	assert.Equal(t, []string{"ID", "TITLE", "AUTHOR"}, strings.Fields(lines[0]))
	assert.Equal(t, "12", strings.Fields(lines[2])[0])
	assert.NotContains(t, out.String(), "|")

	titleCol := strings.Index(lines[0], "TITLE")
	assert.Equal(t, titleCol, strings.Index(lines[1], "Generics"), "columns are aligned")
	assert.Equal(t, titleCol, strings.Index(lines[2], "Go"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "a b c", truncate("a\n b\t c", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
}
