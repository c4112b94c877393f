package tidydl

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/tidydl/pkg/errors"
	"github.com/arthur-debert/tidydl/pkg/paths"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupEnv isolates config and state directories and clears TIDYDL_* overrides
func setupEnv(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv(paths.EnvConfigDir, filepath.Join(tmp, "config"))
	t.Setenv(paths.EnvStateDir, filepath.Join(tmp, "state"))
	t.Setenv("NO_COLOR", "1")
	for _, name := range []string{"TIDYDL_SOURCE", "TIDYDL_FALLBACK", "TIDYDL_CONFLICT", "TIDYDL_IGNORE"} {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
	return tmp
}

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRunCommandScenario(t *testing.T) {
	tmp := setupEnv(t)
	source := filepath.Join(tmp, "Downloads")
	writeFiles(t, source, map[string]string{
		"invoice_march.pdf":          "new",
		"photo.png":                  "png",
		"notes.xyz":                  "notes",
		"plan.pdf":                   "plan",
		"Invoices/invoice_march.pdf": "old",
	})

	out, err := execute(t, "run", source, "--format", "text")
	require.NoError(t, err)

	existing := filepath.Join(source, "Invoices", "invoice_march.pdf")
	assert.Contains(t, out, "conflict  invoice_march.pdf: "+existing+" already exists")
	assert.Contains(t, out, "moved     photo.png -> Images/photo.png")
	assert.Contains(t, out, "moved     notes.xyz -> Misc/notes.xyz")
	assert.Contains(t, out, "moved     plan.pdf -> PDFs/plan.pdf")
	assert.Contains(t, out, "3 moved")
	assert.Contains(t, out, "1 conflict,")

	assert.FileExists(t, filepath.Join(source, "invoice_march.pdf"))
	assert.FileExists(t, filepath.Join(source, "Images", "photo.png"))
	assert.FileExists(t, filepath.Join(source, "Misc", "notes.xyz"))
	assert.FileExists(t, filepath.Join(source, "PDFs", "plan.pdf"))

	data, err := os.ReadFile(filepath.Join(source, "Invoices", "invoice_march.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))
}

func TestRunDryRun(t *testing.T) {
	tmp := setupEnv(t)
	source := filepath.Join(tmp, "Downloads")
	writeFiles(t, source, map[string]string{"photo.png": "png"})

	out, err := execute(t, "run", source, "--dry-run", "--format", "text")
	require.NoError(t, err)

	assert.Contains(t, out, "planned   photo.png -> Images/photo.png")
	assert.Contains(t, out, "Dry run for "+source)
	assert.FileExists(t, filepath.Join(source, "photo.png"))
	assert.NoDirExists(t, filepath.Join(source, "Images"))
}

func TestRunJSON(t *testing.T) {
	tmp := setupEnv(t)
	source := filepath.Join(tmp, "Downloads")
	writeFiles(t, source, map[string]string{"photo.png": "png", "movie.crdownload": "x"})

	out, err := execute(t, "run", source, "--format", "json")
	require.NoError(t, err)

	var summary struct {
		Moved    int `json:"moved"`
		Ignored  int `json:"ignored"`
		Outcomes []struct {
			Kind string `json:"kind"`
			File string `json:"file"`
		} `json:"outcomes"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, 1, summary.Moved)
	assert.Equal(t, 1, summary.Ignored)
	assert.Len(t, summary.Outcomes, 2)
}

func TestRunConflictSuffixFlag(t *testing.T) {
	tmp := setupEnv(t)
	source := filepath.Join(tmp, "Downloads")
	writeFiles(t, source, map[string]string{
		"plan.pdf":      "new",
		"PDFs/plan.pdf": "old",
	})

	out, err := execute(t, "run", source, "--conflict", "suffix", "--format", "text")
	require.NoError(t, err)

	assert.Contains(t, out, "(renamed)")
	assert.FileExists(t, filepath.Join(source, "PDFs", "plan - dup1.pdf"))
}

func TestRunEmptyDirectory(t *testing.T) {
	tmp := setupEnv(t)
	source := filepath.Join(tmp, "Downloads")
	require.NoError(t, os.MkdirAll(source, 0755))

	out, err := execute(t, "run", source, "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "No files to organize in "+source)
}

func TestRunMissingDirectoryIsFatal(t *testing.T) {
	tmp := setupEnv(t)

	_, err := execute(t, "run", filepath.Join(tmp, "nope"), "--format", "text")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrEnumerate))
}

func TestRunStrictReportsFailures(t *testing.T) {
	tmp := setupEnv(t)
	source := filepath.Join(tmp, "Downloads")
	writeFiles(t, source, map[string]string{"photo.png": "png", "plan.pdf": "pdf"})

	// A dangling symlink where the Images folder should be is skipped during
	// discovery but blocks the directory creation
	require.NoError(t, os.Symlink(filepath.Join(tmp, "missing"), filepath.Join(source, "Images")))

	out, err := execute(t, "run", source, "--format", "text")
	require.NoError(t, err, "per-file failures are not fatal")
	assert.Contains(t, out, "failed    photo.png")
	assert.Contains(t, out, "moved     plan.pdf -> PDFs/plan.pdf")

	writeFiles(t, source, map[string]string{"photo2.png": "png"})
	_, err = execute(t, "run", source, "--format", "text", "--strict")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileMove))
}

func TestRunUsesConfiguredSource(t *testing.T) {
	tmp := setupEnv(t)
	source := filepath.Join(tmp, "Inbox")
	writeFiles(t, source, map[string]string{"photo.png": "png"})
	t.Setenv("TIDYDL_SOURCE", source)

	_, err := execute(t, "--format", "text")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(source, "Images", "photo.png"))
}

func TestRunWithConfigFile(t *testing.T) {
	tmp := setupEnv(t)
	source := filepath.Join(tmp, "Downloads")
	writeFiles(t, source, map[string]string{"tax-2024.pdf": "pdf"})

	cfgPath := filepath.Join(tmp, "custom.toml")
	writeFiles(t, tmp, map[string]string{"custom.toml": `
[[keywords]]
keyword = "tax"
label = "Taxes"
`})

	_, err := execute(t, "run", source, "--config", cfgPath, "--format", "text")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(source, "Taxes", "tax-2024.pdf"))
}

func TestClassifyCommand(t *testing.T) {
	setupEnv(t)

	out, err := execute(t, "classify", "invoice_march.pdf", "photo.png", "notes.xyz", "x.part", "--format", "text")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "Invoices")
	assert.Contains(t, lines[0], "keyword:invoice")
	assert.Contains(t, lines[1], "extension:png")
	assert.Contains(t, lines[2], "Misc")
	assert.Contains(t, lines[2], "fallback")
	assert.Contains(t, lines[3], "ignored")

	_, err = execute(t, "classify")
	assert.Error(t, err, "at least one name is required")
}

func TestRulesCommand(t *testing.T) {
	setupEnv(t)

	out, err := execute(t, "rules", "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "| 1 | `invoice` | Invoices |")
	assert.Contains(t, out, "| `.pdf` | PDFs |")
	assert.Contains(t, out, "**Misc**")
}

func TestConfigCommand(t *testing.T) {
	tmp := setupEnv(t)

	out, err := execute(t, "config", "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "[[keywords]]")
	assert.Contains(t, out, "[extensions]")

	out, err = execute(t, "config", "--defaults")
	require.NoError(t, err)
	assert.Contains(t, out, "# Keyword rules are tried first")

	out, err = execute(t, "config", "--format", "json")
	require.NoError(t, err)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "Misc", decoded["fallback"])

	out, err = execute(t, "config", "--write")
	require.NoError(t, err)
	written := filepath.Join(tmp, "config", "config.toml")
	assert.Contains(t, out, written)
	assert.FileExists(t, written)

	_, err = execute(t, "config", "--write")
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigWrite))
}

func TestInvalidConfigIsFatal(t *testing.T) {
	tmp := setupEnv(t)
	writeFiles(t, filepath.Join(tmp, "config"), map[string]string{"config.toml": `conflict = "overwrite"`})

	_, err := execute(t, "rules")
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
}

func TestBadFormat(t *testing.T) {
	setupEnv(t)
	_, err := execute(t, "rules", "--format", "xml")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestCompletionCommand(t *testing.T) {
	setupEnv(t)

	out, err := execute(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "tidydl")

	_, err = execute(t, "completion", "tcsh")
	assert.Error(t, err)
}

func TestVersionFlag(t *testing.T) {
	setupEnv(t)

	out, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "tidydl dev")
	assert.Contains(t, out, "commit: unknown")
}

func TestHelpUsesTemplate(t *testing.T) {
	setupEnv(t)

	out, err := execute(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "USAGE:")
	assert.Contains(t, out, "COMMANDS:")
	assert.Contains(t, out, "classify")
}

func TestHelpTopics(t *testing.T) {
	setupEnv(t)

	out, err := execute(t, "help", "topics")
	require.NoError(t, err)
	assert.Contains(t, out, "  conflicts")
	assert.Contains(t, out, "  rules")
	assert.Contains(t, out, "  --dry-run")

	out, err = execute(t, "help", "conflicts")
	require.NoError(t, err)
	assert.Contains(t, out, "name - dup1.ext")

	out, err = execute(t, "help", "--format")
	require.NoError(t, err)
	assert.Contains(t, out, "NO_COLOR")

	out, err = execute(t, "help", "classify")
	require.NoError(t, err)
	assert.Contains(t, out, "USAGE:")

	_, err = execute(t, "help", "nope")
	assert.Error(t, err)
}
