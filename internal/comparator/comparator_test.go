package comparator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kazz187/clitest/internal/scanner"
)

func TestCompare_OutputMode_Pass(t *testing.T) {
	block := scanner.Block{Mode: scanner.ModeOutput, Expected: "hi\n"}
	res, err := Compare(block, []byte("hi\n"), Context{}, "")
	require.NoError(t, err)
	assert.True(t, res.Passed)
}

func TestCompare_OutputMode_Fail(t *testing.T) {
	block := scanner.Block{Mode: scanner.ModeOutput, Expected: "hi\n"}
	res, err := Compare(block, []byte("bye\n"), Context{}, "")
	require.NoError(t, err)
	assert.False(t, res.Passed)
	assert.Contains(t, res.Diff, "-hi")
	assert.Contains(t, res.Diff, "+bye")
}

func TestCompare_TextMode_AppendsTrailingLF(t *testing.T) {
	// Scenario 3 from the spec: expected text "foo" becomes "foo\n" but the
	// command's actual output "foo" has no trailing newline, so it fails.
	block := scanner.Block{Mode: scanner.ModeText, Expected: "foo"}
	res, err := Compare(block, []byte("foo"), Context{}, "")
	require.NoError(t, err)
	assert.False(t, res.Passed)
}

func TestCompare_TextMode_EmptyExpectedMeansNoOutput(t *testing.T) {
	block := scanner.Block{Mode: scanner.ModeText, Expected: ""}
	res, err := Compare(block, []byte("\n"), Context{}, "")
	require.NoError(t, err)
	assert.True(t, res.Passed)
}

func TestCompare_RegexMode_Pass(t *testing.T) {
	block := scanner.Block{Mode: scanner.ModeRegex, Expected: `^[A-Z][a-z]{2}`}
	res, err := Compare(block, []byte("Mon Jan 1\n"), Context{}, "")
	require.NoError(t, err)
	assert.True(t, res.Passed)
}

func TestCompare_RegexMode_Fail(t *testing.T) {
	block := scanner.Block{Mode: scanner.ModeRegex, Expected: `^zzz`}
	res, err := Compare(block, []byte("hello\n"), Context{}, "")
	require.NoError(t, err)
	assert.False(t, res.Passed)
	assert.Contains(t, res.Diff, "zzz")
}

func TestCompare_RegexMode_CompileError(t *testing.T) {
	block := scanner.Block{Mode: scanner.ModeRegex, Expected: `[`, SourceFile: "f", SourceLine: 2}
	_, err := Compare(block, []byte("x\n"), Context{}, "")
	require.Error(t, err)
}

func TestCompare_FileMode_Pass(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "expected.txt")
	require.NoError(t, os.WriteFile(path, []byte("hi\n"), 0o644))

	block := scanner.Block{Mode: scanner.ModeFile, Expected: path}
	res, err := Compare(block, []byte("hi\n"), Context{}, "")
	require.NoError(t, err)
	assert.True(t, res.Passed)
}

func TestCompare_FileMode_MissingFileIsOperatorError(t *testing.T) {
	block := scanner.Block{Mode: scanner.ModeFile, Expected: "/no/such/file", SourceFile: "f", SourceLine: 3}
	_, err := Compare(block, []byte("hi\n"), Context{}, "")
	require.Error(t, err)
}

func TestCompare_DiffOptionsControlsContext(t *testing.T) {
	block := scanner.Block{Mode: scanner.ModeOutput, Expected: "a\nb\nc\nd\ne\n"}
	res, err := Compare(block, []byte("a\nb\nc\nd\nZ\n"), Context{Lines: 1}, "")
	require.NoError(t, err)
	assert.False(t, res.Passed)
	assert.Contains(t, res.Diff, "@@")
	assert.Contains(t, res.Diff, "@@ -4,2 +4,2 @@")
}
