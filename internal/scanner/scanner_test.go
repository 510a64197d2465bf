package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultConfig() Config {
	return Config{Prompt: "$ ", InlinePrefix: "#→ "}
}

func TestScan_SimpleOutputBlock(t *testing.T) {
	input := "$ echo hi\nhi\n"
	blocks, err := Scan("f", input, defaultConfig())
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, "echo hi", blocks[0].Command)
	assert.Equal(t, ModeOutput, blocks[0].Mode)
	assert.Equal(t, "hi\n", blocks[0].Expected)
	assert.Equal(t, 1, blocks[0].SourceLine)
}

func TestScan_ClosedByNextPrompt(t *testing.T) {
	input := "$ echo 1\n1\n$ echo 2\n2\n"
	blocks, err := Scan("f", input, defaultConfig())
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Equal(t, "echo 1", blocks[0].Command)
	assert.Equal(t, "1\n", blocks[0].Expected)
	assert.Equal(t, "echo 2", blocks[1].Command)
	assert.Equal(t, "2\n", blocks[1].Expected)
}

func TestScan_ClosedByBlankPrompt(t *testing.T) {
	input := "$ echo 1\n1\n$ \n$ echo 2\n2\n"
	blocks, err := Scan("f", input, defaultConfig())
	require.NoError(t, err)
	require.Len(t, blocks, 2)
}

func TestScan_EmptyExpected(t *testing.T) {
	input := "$ true\n$ echo 2\n2\n"
	blocks, err := Scan("f", input, defaultConfig())
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Equal(t, "", blocks[0].Expected)
}

func TestScan_InlineText(t *testing.T) {
	input := "$ printf foo  #→ foo\n"
	blocks, err := Scan("f", input, defaultConfig())
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, ModeText, blocks[0].Mode)
	assert.Equal(t, "printf foo  ", blocks[0].Command)
	assert.Equal(t, "foo", blocks[0].Expected)
}

func TestScan_InlineRegex(t *testing.T) {
	input := "$ date  #→ --regex ^[A-Z][a-z]{2} \n"
	blocks, err := Scan("f", input, defaultConfig())
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, ModeRegex, blocks[0].Mode)
	assert.Equal(t, "^[A-Z][a-z]{2} ", blocks[0].Expected)
}

func TestScan_InlineFile(t *testing.T) {
	input := "$ cat out.txt  #→ --file expected.txt\n"
	blocks, err := Scan("f", input, defaultConfig())
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, ModeFile, blocks[0].Mode)
	assert.Equal(t, "expected.txt", blocks[0].Expected)
}

func TestScan_InlineEmptyRegexIsFatal(t *testing.T) {
	input := "$ date  #→ --regex \n"
	_, err := Scan("f", input, defaultConfig())
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "f", perr.File)
	assert.Equal(t, 1, perr.Line)
}

func TestScan_InlineEmptyTextIsLegal(t *testing.T) {
	input := "$ true  #→ \n"
	blocks, err := Scan("f", input, defaultConfig())
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, ModeText, blocks[0].Mode)
	assert.Equal(t, "", blocks[0].Expected)
}

// TestScan_InlineAsymmetricSplit exercises the documented asymmetry: the
// command stops at the FIRST inline_prefix occurrence, but expected text
// starts after the LAST one, so an inline_prefix literal embedded inside
// the command (before the real annotation) does not leak into expected.
func TestScan_InlineAsymmetricSplit(t *testing.T) {
	input := "$ echo '#→ not-real'  #→ real\n"
	blocks, err := Scan("f", input, defaultConfig())
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, "echo '", blocks[0].Command)
	assert.Equal(t, "real", blocks[0].Expected)
}

func TestScan_PrefixedBlock(t *testing.T) {
	cfg := Config{Prefix: "    ", Prompt: "$ ", InlinePrefix: "#→ "}
	input := "    $ echo hi\n    hi\nprose outside the block\n"
	blocks, err := Scan("f", input, cfg)
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, "echo hi", blocks[0].Command)
	assert.Equal(t, "hi\n", blocks[0].Expected)
}

func TestScan_PrefixTabRejectsNonTabLines(t *testing.T) {
	cfg := Config{Prefix: NormalizePrefix("tab"), Prompt: "$ ", InlinePrefix: "#→ "}
	input := "\t$ echo hi\n\thi\nnot indented, ends the block\n\t$ echo 2\n\t2\n"
	blocks, err := Scan("f", input, cfg)
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Equal(t, "hi\n", blocks[0].Expected)
	assert.Equal(t, "2\n", blocks[1].Expected)
}

func TestScan_CRLFNormalizedBeforeScan(t *testing.T) {
	raw := "$ echo hi\r\nhi\r\n"
	normalized := NormalizeNewlines(raw)
	blocks, err := Scan("f", normalized, defaultConfig())
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, "hi\n", blocks[0].Expected)
}

func TestScan_SourceLinesRecorded(t *testing.T) {
	input := "$ echo 1\n1\n$ echo 2\n2\n"
	blocks, err := Scan("f", input, defaultConfig())
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Equal(t, 1, blocks[0].SourceLine)
	assert.Equal(t, 3, blocks[1].SourceLine)
}

func TestNormalizePrefix(t *testing.T) {
	assert.Equal(t, "\t", NormalizePrefix("tab"))
	assert.Equal(t, "", NormalizePrefix("0"))
	assert.Equal(t, "   ", NormalizePrefix("3"))
	assert.Equal(t, "\t ", NormalizePrefix(`\t `))
	assert.Equal(t, "> ", NormalizePrefix("> "))
}
