package e2e_test

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := exec.Command("go", append([]string{"run", "../../main.go", "--color", "never"}, args...)...)
	cmd.Stdin = strings.NewReader(stdin)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// TestEndToEnd_SampleDocument parses the checked-in sample and checks the tree layout
func TestEndToEnd_SampleDocument(t *testing.T) {
	stdout, stderr, err := runCLI(t, "", "parse", "../../testdata/samples/user.json")
	require.NoError(t, err, "CLI command failed: %s", stderr)

	lines := strings.Split(stdout, "\n")
	assert.Equal(t, "object (11)", lines[0])
	assert.Contains(t, stdout, `"balance":    1024.75`)
	assert.Contains(t, stdout, `"lat": -37.8136`)
	assert.Contains(t, stdout, `[1]: "user"`)

	// the duplicate key keeps its first position with the last value
	assert.Contains(t, stdout, `"nickname":   "Al"`)
	assert.NotContains(t, stdout, `"Ali"`)
	assert.Less(t, strings.Index(stdout, `"address"`), strings.Index(stdout, `"nickname"`))
}

// TestEndToEnd_StatsWithPaths checks the stats command on the sample
func TestEndToEnd_StatsWithPaths(t *testing.T) {
	stdout, stderr, err := runCLI(t, "", "stats", "--paths", "../../testdata/samples/user.json")
	require.NoError(t, err, "CLI command failed: %s", stderr)

	assert.Contains(t, stdout, "root: object, depth: 3")
	assert.Contains(t, stdout, "objects: 3, arrays: 1")
	assert.Contains(t, stdout, "(timestamps: 1, uuids: 1)")
	assert.Contains(t, stdout, "\t$.address.geo.lng\tnumber\n")
	assert.Contains(t, stdout, "\t$.manager\tnull\n")
}

// TestEndToEnd_Stdin reads the document from stdin when no file is given
func TestEndToEnd_Stdin(t *testing.T) {
	stdout, stderr, err := runCLI(t, `[1, "two", [true, null]]`)
	require.NoError(t, err, "CLI command failed: %s", stderr)

	expected := strings.Join([]string{
		`array (3)`,
		`  [0]: 1`,
		`  [1]: "two"`,
		`  [2]: array (2)`,
		`    [0]: true`,
		`    [1]: null`,
		``,
	}, "\n")
	assert.Equal(t, expected, stdout)
}

// TestEndToEnd_Tokens prints the token stream
func TestEndToEnd_Tokens(t *testing.T) {
	stdout, stderr, err := runCLI(t, `{"k": [false]}`, "tokens")
	require.NoError(t, err, "CLI command failed: %s", stderr)
	assert.Equal(t, "START_OBJECT\nSTRING \"k\"\nCOLON\nSTART_ARRAY\nBOOLEAN false\nEND_ARRAY\nEND_OBJECT\nEND_OF_INPUT\n", stdout)
}

// TestEndToEnd_MultipleFiles parses several files and prints them in argument order
func TestEndToEnd_MultipleFiles(t *testing.T) {
	tempDir := t.TempDir()
	var files []string
	for i := 0; i < 6; i++ {
		path := filepath.Join(tempDir, fmt.Sprintf("doc%d.json", i))
		require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf(`{"doc": %d}`, i)), 0644))
		files = append(files, path)
	}

	stdout, stderr, err := runCLI(t, "", append([]string{"parse", "-j", "2"}, files...)...)
	require.NoError(t, err, "CLI command failed: %s", stderr)

	last := -1
	for i, f := range files {
		idx := strings.Index(stdout, "==> "+f+" <==")
		require.GreaterOrEqual(t, idx, 0)
		assert.Greater(t, idx, last)
		assert.Contains(t, stdout[idx:], fmt.Sprintf(`"doc": %d`, i))
		last = idx
	}
}

// TestEndToEnd_ConfigFile picks up settings from an explicit config file
func TestEndToEnd_ConfigFile(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "jsontree.yml")
	require.NoError(t, os.WriteFile(cfg, []byte("parser:\n  max_depth: 2\n"), 0644))

	_, stderr, err := runCLI(t, `[[[1]]]`, "-c", cfg)
	require.Error(t, err)
	assert.Contains(t, stderr, "maximum nesting depth exceeded")
}

// TestEndToEnd_EdgeCases tests various accepted and rejected documents
func TestEndToEnd_EdgeCases(t *testing.T) {
	testCases := []struct {
		name     string
		json     string
		expected string
		isError  bool
	}{
		{
			name:     "EmptyObject",
			json:     `{}`,
			expected: "object (0)",
		},
		{
			name:     "EmptyArray",
			json:     `[]`,
			expected: "array (0)",
		},
		{
			name:     "SingleValue",
			json:     `"just a string"`,
			expected: "Invalid JSON input. (at offset 15)",
			isError:  true,
		},
		{
			name:     "SingleNumber",
			json:     `42`,
			expected: "Invalid JSON input.",
			isError:  true,
		},
		{
			name:     "TrailingComma",
			json:     `{"name": "Invalid JSON",}`,
			expected: "Invalid JSON input.",
			isError:  true,
		},
		{
			name:     "TrailingContent",
			json:     `{} {}`,
			expected: "Invalid JSON input.",
			isError:  true,
		},
		{
			name:     "BadExponent",
			json:     `[1e]`,
			expected: "e or E not followed by + or - or digit.",
			isError:  true,
		},
		{
			name:     "UnterminatedString",
			json:     `["open`,
			expected: "unterminated string",
			isError:  true,
		},
		{
			name:     "DeeplyNestedObject",
			json:     `{"level1":{"level2":{"level3":{"level4":{"level5":{"value":42}}}}}}`,
			expected: `"value": 42`,
		},
		{
			name:     "DeeplyNestedArray",
			json:     `[[[[[[42]]]]]]`,
			expected: "[0]: 42",
		},
		{
			name:     "UnicodeEscapes",
			json:     `["caf\u00e9", "\ud83d\ude00"]`,
			expected: "\"caf\u00e9\"",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			stdout, stderr, err := runCLI(t, tc.json)
			if tc.isError {
				require.Error(t, err)
				assert.Contains(t, stderr, "JSON parsing error")
				assert.Contains(t, stderr, tc.expected)
				return
			}
			require.NoError(t, err, "CLI command failed: %s", stderr)
			assert.Contains(t, stdout, tc.expected)
		})
	}
}

func TestEndToEnd_Version(t *testing.T) {
	stdout, _, err := runCLI(t, "", "--version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "0.1.0")
}
