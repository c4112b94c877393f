package output

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/arthur-debert/tidydl/pkg/errors"
	"github.com/arthur-debert/tidydl/pkg/logging"
	"github.com/arthur-debert/tidydl/pkg/types"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"
)

// Classification is the answer to "where would this name go"
type Classification struct {
	File  string `json:"file"`
	Label string `json:"label,omitempty"`
	Rule  string `json:"rule"`

	// Ignored is set when the name matched an ignore pattern
	Ignored bool `json:"ignored,omitempty"`
}

// Renderer writes run results in one of the supported formats.
//
// Per-file lines are written as outcomes arrive. In JSON format nothing is
// written until the summary, which then carries every outcome.
type Renderer struct {
	w      io.Writer
	format Format
	styles Styles
}

// NewRenderer creates a renderer writing to w. FormatAuto is resolved
// against w right away.
func NewRenderer(w io.Writer, format Format) (*Renderer, error) {
	format = format.Resolve(w)

	logger := logging.GetLogger("output")
	logger.Debug().
		Str("format", format.String()).
		Msg("Creating renderer")

	r := &Renderer{w: w, format: format, styles: Styles{}}
	if format == FormatTerminal {
		styles, err := LoadStyles(defaultStyles, lipgloss.NewRenderer(w))
		if err != nil {
			return nil, err
		}
		r.styles = styles
	}
	return r, nil
}

// Format returns the resolved output format
func (r *Renderer) Format() Format {
	return r.format
}

// style applies the named style in terminal format, otherwise returns s as is
func (r *Renderer) style(name, s string) string {
	if r.format != FormatTerminal {
		return s
	}
	return r.styles.Get(name).Render(s)
}

// kindColumn renders the left-hand outcome kind, padded to a fixed width
func (r *Renderer) kindColumn(kind types.OutcomeKind) string {
	if r.format != FormatTerminal {
		return fmt.Sprintf("%-9s", kind)
	}
	return r.styles.Get(kindStyle(kind)).Render(string(kind))
}

func kindStyle(kind types.OutcomeKind) string {
	switch kind {
	case types.OutcomeMoved:
		return "Moved"
	case types.OutcomePlanned:
		return "Planned"
	case types.OutcomeConflict:
		return "Conflict"
	case types.OutcomeFailed:
		return "Failed"
	default:
		return "Ignored"
	}
}

// Outcome writes the line for one processed file
func (r *Renderer) Outcome(o types.Outcome) error {
	if r.format == FormatJSON {
		return nil
	}
	_, err := fmt.Fprintln(r.w, r.outcomeLine(o))
	return err
}

func (r *Renderer) outcomeLine(o types.Outcome) string {
	kind := r.kindColumn(o.Kind)
	dest := ""
	if o.Target != "" {
		dest = r.style("Label", filepath.Join(o.Label, filepath.Base(o.Target)))
	}

	switch o.Kind {
	case types.OutcomeMoved, types.OutcomePlanned:
		line := fmt.Sprintf("%s %s -> %s", kind, o.File, dest)
		if o.Renamed {
			line += " " + r.style("Muted", "(renamed)")
		}
		return line
	case types.OutcomeConflict:
		return fmt.Sprintf("%s %s: %s already exists", kind, o.File, r.style("Label", o.Target))
	case types.OutcomeFailed:
		return fmt.Sprintf("%s %s: %s", kind, o.File, o.Error)
	default:
		return fmt.Sprintf("%s %s %s", kind, o.File, r.style("Muted", "("+o.Rule+")"))
	}
}

// Summary writes the totals of a run, or the whole run in JSON format
func (r *Renderer) Summary(s *types.Summary) error {
	if r.format == FormatJSON {
		return r.encode(s)
	}

	title := "Organized " + s.Root
	if s.DryRun {
		title = "Dry run for " + s.Root
	}
	if r.format == FormatTerminal {
		title = r.style("Header", pterm.Bold.Sprint(title))
	}

	parts := []string{}
	if s.DryRun {
		parts = append(parts, fmt.Sprintf("%d planned", s.Planned))
	} else {
		parts = append(parts, fmt.Sprintf("%d moved (%s)", s.Moved, humanize.Bytes(uint64(s.BytesMoved))))
	}
	parts = append(parts,
		pluralize(s.Conflicts, "conflict", "conflicts"),
		fmt.Sprintf("%d failed", s.Failed),
		fmt.Sprintf("%d ignored", s.Ignored),
	)

	line := strings.Join(parts, ", ")
	if s.Failed > 0 {
		line = r.style("Error", line)
	}

	elapsed := r.style("Muted", "in "+s.Duration().Round(time.Millisecond).String())
	_, err := fmt.Fprintf(r.w, "%s\n%s %s\n", title, line, elapsed)
	return err
}

// Classifications writes where each name would be filed
func (r *Renderer) Classifications(items []Classification) error {
	if r.format == FormatJSON {
		return r.encode(items)
	}

	width := 0
	for _, item := range items {
		if len(item.File) > width {
			width = len(item.File)
		}
	}

	for _, item := range items {
		target := r.style("Label", item.Label)
		if item.Ignored {
			target = r.style("Muted", "ignored")
		}
		name := item.File + strings.Repeat(" ", width-len(item.File))
		if _, err := fmt.Fprintf(r.w, "%s  %s  %s\n", name, target, r.style("Muted", item.Rule)); err != nil {
			return err
		}
	}
	return nil
}

// Error writes err for the user; JSON output also carries the error code
func (r *Renderer) Error(err error) error {
	if r.format == FormatJSON {
		return r.encode(map[string]string{
			"error": err.Error(),
			"code":  string(errors.GetErrorCode(err)),
		})
	}
	_, writeErr := fmt.Fprintf(r.w, "%s %s\n", r.style("Error", "Error:"), err.Error())
	return writeErr
}

// Message writes a plain informational line
func (r *Renderer) Message(msg string) error {
	if r.format == FormatJSON {
		return r.encode(map[string]string{"message": msg})
	}
	_, err := fmt.Fprintln(r.w, msg)
	return err
}

// JSON writes v as indented JSON regardless of the format
func (r *Renderer) JSON(v interface{}) error {
	return r.encode(v)
}

func (r *Renderer) encode(v interface{}) error {
	encoder := json.NewEncoder(r.w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
