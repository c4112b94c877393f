package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/arthur-debert/tidydl/pkg/errors"
	"github.com/arthur-debert/tidydl/pkg/logging"
	"github.com/arthur-debert/tidydl/pkg/rules"
	"github.com/arthur-debert/tidydl/pkg/types"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
	}{
		{"", FormatAuto},
		{"auto", FormatAuto},
		{"term", FormatTerminal},
		{"Terminal", FormatTerminal},
		{"text", FormatText},
		{"plain", FormatText},
		{"json", FormatJSON},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			f, err := ParseFormat(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, f)
		})
	}

	_, err := ParseFormat("xml")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestFormatString(t *testing.T) {
	assert.Equal(t, "auto", FormatAuto.String())
	assert.Equal(t, "term", FormatTerminal.String())
	assert.Equal(t, "text", FormatText.String())
	assert.Equal(t, "json", FormatJSON.String())
	assert.Equal(t, "unknown", Format(42).String())
}

func TestDetectFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, FormatText, DetectFormat(&buf), "non-files are never terminals")
	assert.Equal(t, FormatText, FormatAuto.Resolve(&buf))
	assert.Equal(t, FormatJSON, FormatJSON.Resolve(&buf))

	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	assert.Equal(t, FormatText, DetectFormat(f), "regular files are not terminals")

	t.Setenv("NO_COLOR", "1")
	assert.Equal(t, FormatText, DetectFormat(os.Stdout))
}

func TestLoadStyles(t *testing.T) {
	styles, err := LoadStyles(defaultStyles, lipgloss.NewRenderer(&bytes.Buffer{}))
	require.NoError(t, err)

	for _, name := range []string{"Moved", "Planned", "Conflict", "Failed", "Ignored", "Label", "Muted", "Header", "Error"} {
		assert.Contains(t, styles, name)
	}
	assert.Equal(t, 9, styles.Get("Moved").GetWidth())

	// Unknown names render unstyled
	assert.Equal(t, "x", styles.Get("Nope").Render("x"))

	_, err = LoadStyles([]byte("colors: ["), lipgloss.NewRenderer(&bytes.Buffer{}))
	assert.Error(t, err)
}

func sampleSummary() *types.Summary {
	s := &types.Summary{
		RunID:      "run-1",
		Root:       "/dl",
		StartedAt:  time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		FinishedAt: time.Date(2024, 3, 1, 10, 0, 0, int(15*time.Millisecond), time.UTC),
		Outcomes:   []types.Outcome{},
	}
	s.Add(types.Outcome{Kind: types.OutcomeMoved, File: "photo.png", Source: "/dl/photo.png", Target: "/dl/Images/photo.png", Label: "Images", Rule: "extension:png", Size: 2048})
	s.Add(types.Outcome{Kind: types.OutcomeConflict, File: "invoice_march.pdf", Source: "/dl/invoice_march.pdf", Target: "/dl/Invoices/invoice_march.pdf", Label: "Invoices", Rule: "keyword:invoice"})
	s.Add(types.Outcome{Kind: types.OutcomeFailed, File: "a.zip", Source: "/dl/a.zip", Label: "Archives", Error: "permission denied"})
	s.Add(types.Outcome{Kind: types.OutcomeIgnored, File: "x.crdownload", Source: "/dl/x.crdownload", Rule: "ignore:*.crdownload"})
	return s
}

func TestTextOutcomeLines(t *testing.T) {
	var buf bytes.Buffer
	r, err := NewRenderer(&buf, FormatText)
	require.NoError(t, err)
	assert.Equal(t, FormatText, r.Format())

	for _, o := range sampleSummary().Outcomes {
		require.NoError(t, r.Outcome(o))
	}
	require.NoError(t, r.Outcome(types.Outcome{
		Kind: types.OutcomeMoved, File: "b.pdf", Target: "/dl/PDFs/b - dup1.pdf", Label: "PDFs", Renamed: true,
	}))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "moved     photo.png -> Images/photo.png", lines[0])
	assert.Equal(t, "conflict  invoice_march.pdf: /dl/Invoices/invoice_march.pdf already exists", lines[1])
	assert.Equal(t, "failed    a.zip: permission denied", lines[2])
	assert.Equal(t, "ignored   x.crdownload (ignore:*.crdownload)", lines[3])
	assert.Equal(t, "moved     b.pdf -> PDFs/b - dup1.pdf (renamed)", lines[4])
}

func TestNewRendererLogsFormat(t *testing.T) {
	var console bytes.Buffer
	logging.SetupLoggerWithOutput(2, &console, "")

	_, err := NewRenderer(&bytes.Buffer{}, FormatAuto)
	require.NoError(t, err)
	assert.Contains(t, console.String(), "Creating renderer")
	assert.Contains(t, console.String(), "text", "auto resolves to text for a buffer")
}

func TestTextSummary(t *testing.T) {
	var buf bytes.Buffer
	r, err := NewRenderer(&buf, FormatText)
	require.NoError(t, err)

	require.NoError(t, r.Summary(sampleSummary()))
	assert.Equal(t, "Organized /dl\n1 moved (2.0 kB), 1 conflict, 1 failed, 1 ignored in 15ms\n", buf.String())

	buf.Reset()
	dry := &types.Summary{Root: "/dl", DryRun: true, Planned: 2, Conflicts: 3}
	require.NoError(t, r.Summary(dry))
	assert.Contains(t, buf.String(), "Dry run for /dl")
	assert.Contains(t, buf.String(), "2 planned, 3 conflicts, 0 failed, 0 ignored")
}

func TestTerminalOutputKeepsText(t *testing.T) {
	var buf bytes.Buffer
	r, err := NewRenderer(&buf, FormatTerminal)
	require.NoError(t, err)

	s := sampleSummary()
	for _, o := range s.Outcomes {
		require.NoError(t, r.Outcome(o))
	}
	require.NoError(t, r.Summary(s))

	out := buf.String()
	assert.Contains(t, out, "photo.png")
	assert.Contains(t, out, "Images/photo.png")
	assert.Contains(t, out, "Organized /dl")
}

func TestJSONSummary(t *testing.T) {
	var buf bytes.Buffer
	r, err := NewRenderer(&buf, FormatJSON)
	require.NoError(t, err)

	s := sampleSummary()
	for _, o := range s.Outcomes {
		require.NoError(t, r.Outcome(o))
	}
	assert.Empty(t, buf.String(), "outcomes are only emitted with the summary")

	require.NoError(t, r.Summary(s))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "run-1", decoded["run_id"])
	assert.Equal(t, float64(1), decoded["moved"])
	assert.Equal(t, float64(1), decoded["conflicts"])
	outcomes, ok := decoded["outcomes"].([]interface{})
	require.True(t, ok)
	assert.Len(t, outcomes, 4)
}

func TestClassifications(t *testing.T) {
	items := []Classification{
		{File: "invoice.pdf", Label: "Invoices", Rule: "keyword:invoice"},
		{File: "a.png", Label: "Images", Rule: "extension:png"},
		{File: "x.part", Rule: "ignore:*.part", Ignored: true},
	}

	var buf bytes.Buffer
	r, err := NewRenderer(&buf, FormatText)
	require.NoError(t, err)
	require.NoError(t, r.Classifications(items))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "invoice.pdf  Invoices  keyword:invoice", lines[0])
	assert.Equal(t, "a.png        Images  extension:png", lines[1])
	assert.Equal(t, "x.part       ignored  ignore:*.part", lines[2])

	buf.Reset()
	r, err = NewRenderer(&buf, FormatJSON)
	require.NoError(t, err)
	require.NoError(t, r.Classifications(items))

	var decoded []Classification
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, items, decoded)
}

func TestErrorAndMessage(t *testing.T) {
	var buf bytes.Buffer
	r, err := NewRenderer(&buf, FormatText)
	require.NoError(t, err)

	require.NoError(t, r.Error(errors.New(errors.ErrEnumerate, "cannot list /dl")))
	require.NoError(t, r.Message("nothing to do"))
	assert.Equal(t, "Error: [ENUMERATE] cannot list /dl\nnothing to do\n", buf.String())

	buf.Reset()
	r, err = NewRenderer(&buf, FormatJSON)
	require.NoError(t, err)
	require.NoError(t, r.Error(errors.New(errors.ErrEnumerate, "cannot list /dl")))

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "ENUMERATE", decoded["code"])
}

func testRules(t *testing.T) *rules.RuleSet {
	t.Helper()
	rs, err := rules.New(rules.Options{
		Keywords:   []rules.KeywordRule{{Keyword: "invoice", Label: "Invoices"}},
		Extensions: map[string]string{"png": "Images", "pdf": "PDFs"},
		Ignore:     []string{"*.part"},
	})
	require.NoError(t, err)
	return rs
}

func TestRulesMarkdown(t *testing.T) {
	md := RulesMarkdown(testRules(t))

	assert.Contains(t, md, "| 1 | `invoice` | Invoices |")
	assert.Contains(t, md, "| `.pdf` | PDFs |")
	assert.Less(t, strings.Index(md, "`.pdf`"), strings.Index(md, "`.png`"), "extensions are sorted")
	assert.Contains(t, md, "Anything else goes to **Misc**.")
	assert.Contains(t, md, "- `*.part`")
	assert.Contains(t, md, "Folders: "+strings.Join(testRules(t).Labels(), ", "))

	empty, err := rules.New(rules.Options{})
	require.NoError(t, err)
	md = RulesMarkdown(empty)
	assert.Contains(t, md, "_No keyword rules._")
	assert.NotContains(t, md, "# Ignored")
}

func TestRendererRules(t *testing.T) {
	rs := testRules(t)

	var buf bytes.Buffer
	r, err := NewRenderer(&buf, FormatText)
	require.NoError(t, err)
	require.NoError(t, r.Rules(rs))
	assert.Equal(t, RulesMarkdown(rs), buf.String())

	buf.Reset()
	r, err = NewRenderer(&buf, FormatTerminal)
	require.NoError(t, err)
	require.NoError(t, r.Rules(rs))
	assert.Contains(t, buf.String(), "Invoices")

	buf.Reset()
	r, err = NewRenderer(&buf, FormatJSON)
	require.NoError(t, err)
	require.NoError(t, r.Rules(rs))

	var decoded ruleTable
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "Misc", decoded.Fallback)
	assert.Equal(t, "Images", decoded.Extensions["png"])
	assert.Equal(t, []string{"*.part"}, decoded.Ignore)
	assert.Equal(t, rs.Labels(), decoded.Folders)
}
