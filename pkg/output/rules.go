package output

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/tidydl/pkg/rules"
	"github.com/charmbracelet/glamour"
)

// rulesWrap is the word wrap width for rendered rule tables
const rulesWrap = 100

// ruleTable is the JSON shape of a rule set
type ruleTable struct {
	Keywords   []rules.KeywordRule `json:"keywords"`
	Extensions map[string]string   `json:"extensions"`
	Fallback   string              `json:"fallback"`
	Ignore     []string            `json:"ignore"`
	Folders    []string            `json:"folders"`
}

// RulesMarkdown describes the rule set as a markdown document
func RulesMarkdown(rs *rules.RuleSet) string {
	var b strings.Builder

	b.WriteString("# Keyword rules\n\n")
	b.WriteString("Checked first, in this order. A keyword matches anywhere in the lower-cased file name.\n\n")
	if keywords := rs.Keywords(); len(keywords) > 0 {
		b.WriteString("| # | Keyword | Folder |\n|---|---|---|\n")
		for i, kw := range keywords {
			fmt.Fprintf(&b, "| %d | `%s` | %s |\n", i+1, kw.Keyword, kw.Label)
		}
	} else {
		b.WriteString("_No keyword rules._\n")
	}

	b.WriteString("\n# Extension rules\n\n")
	b.WriteString("Used when no keyword matched. Only the final suffix counts.\n\n")
	if exts := rs.SortedExtensions(); len(exts) > 0 {
		mapping := rs.Extensions()
		b.WriteString("| Extension | Folder |\n|---|---|\n")
		for _, ext := range exts {
			fmt.Fprintf(&b, "| `.%s` | %s |\n", ext, mapping[ext])
		}
	} else {
		b.WriteString("_No extension rules._\n")
	}

	b.WriteString("\n# Fallback\n\n")
	fmt.Fprintf(&b, "Anything else goes to **%s**.\n", rs.Fallback())
	fmt.Fprintf(&b, "\nFolders: %s\n", strings.Join(rs.Labels(), ", "))

	if ignore := rs.IgnorePatterns(); len(ignore) > 0 {
		b.WriteString("\n# Ignored\n\n")
		for _, pattern := range ignore {
			fmt.Fprintf(&b, "- `%s`\n", pattern)
		}
	}

	return b.String()
}

// Rules writes the rule set: markdown rendered with glamour on a terminal,
// raw markdown as text, or the tables as JSON
func (r *Renderer) Rules(rs *rules.RuleSet) error {
	switch r.format {
	case FormatJSON:
		return r.encode(ruleTable{
			Keywords:   rs.Keywords(),
			Extensions: rs.Extensions(),
			Fallback:   rs.Fallback(),
			Ignore:     rs.IgnorePatterns(),
			Folders:    rs.Labels(),
		})
	case FormatTerminal:
		_, err := fmt.Fprint(r.w, renderMarkdown(RulesMarkdown(rs)))
		return err
	default:
		_, err := fmt.Fprint(r.w, RulesMarkdown(rs))
		return err
	}
}

// renderMarkdown renders md for the terminal, falling back to the source
func renderMarkdown(md string) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(rulesWrap),
	)
	if err != nil {
		return md
	}

	rendered, err := renderer.Render(md)
	if err != nil {
		return md
	}
	return rendered
}
